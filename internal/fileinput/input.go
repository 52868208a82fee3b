package fileinput

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Location names a line in an Input file.
type Location struct {
	Name string
	Line int
}

// Line combines a Location along with a bytes.Buffer for handling it.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Input implements sequential byte reading through a Queue of one or more
// input streams. Both the current and last scanned lines are tracked to
// facilitate user feedback. CR, LF and CR LF all end a tracked line.
type Input struct {
	br    io.ByteReader
	cur   io.Reader
	Queue []io.Reader
	Last  Line
	Scan  Line

	lastCR bool
}

// Push appends readers to the queue; they are read after any prior ones.
func (in *Input) Push(rs ...io.Reader) {
	for _, r := range rs {
		if r != nil {
			in.Queue = append(in.Queue, r)
		}
	}
}

// Pending returns true if there is a current stream, or any queued.
func (in *Input) Pending() bool { return in.br != nil || len(in.Queue) > 0 }

// ReadByte reads one byte from the current input stream, moving on to the
// next queued stream whenever one runs out. Returns io.EOF only after the
// last stream is exhausted.
func (in *Input) ReadByte() (byte, error) {
	for {
		if in.br == nil && !in.nextIn() {
			return 0, io.EOF
		}
		b, err := in.br.ReadByte()
		if err == nil {
			in.track(b)
			return b, nil
		}
		if err != io.EOF {
			return 0, err
		}
		in.closeIn()
	}
}

func (in *Input) track(b byte) {
	switch b {
	case '\r':
		in.nextLine()
		in.lastCR = true
		return
	case '\n':
		if !in.lastCR {
			in.nextLine()
		}
	default:
		in.Scan.WriteByte(b)
	}
	in.lastCR = false
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Name = in.Scan.Name
	in.Last.Line = in.Scan.Line
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) closeIn() {
	if in.Scan.Len() > 0 {
		in.nextLine()
	}
	if cl, ok := in.cur.(io.Closer); ok {
		cl.Close()
	}
	in.br, in.cur = nil, nil
}

// Close closes the current stream and any queued ones that are io.Closers.
func (in *Input) Close() (err error) {
	if cl, ok := in.cur.(io.Closer); ok {
		err = cl.Close()
	}
	in.br, in.cur = nil, nil
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.cur = r
	if br, ok := r.(io.ByteReader); ok {
		in.br = br
	} else {
		in.br = bufio.NewReader(r)
	}
	in.Scan.Reset()
	in.Scan.Name = nameOf(r)
	in.Scan.Line = 1
	in.lastCR = false
	return true
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
