package flushio

import (
	"bufio"
	"io"
	"sync"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

var discard WriteFlusher = nopFlusher{io.Discard}

// NewWriteFlusher creates a new flushable writer: in memory buffers get a noop
// Flush, existing WriteFlushers are returned as-is, anything else is wrapped
// in a bufio.Writer.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	if w == nil || w == io.Discard {
		return discard
	}

	if wf, is := w.(WriteFlusher); is {
		return wf
	}

	type buffer interface {
		io.Writer
		Cap() int
		Len() int
		Grow(n int)
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }

// WriteFlushers combines any number of WriteFlusher-s into a single one that
// will write into and flush all of them.
func WriteFlushers(wfs ...WriteFlusher) WriteFlusher {
	switch wfs := appendWriteFlusher(nil, wfs...); len(wfs) {
	case 0:
		return nil
	case 1:
		return wfs[0]
	default:
		return wfs
	}
}

type writeFlushers []WriteFlusher

func (wfs writeFlushers) Write(p []byte) (n int, err error) {
	for _, wf := range wfs {
		n, err = wf.Write(p)
		if err != nil {
			return n, err
		}
		if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

func (wfs writeFlushers) Flush() (err error) {
	for _, wf := range wfs {
		if ferr := wf.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}

func appendWriteFlusher(all writeFlushers, some ...WriteFlusher) writeFlushers {
	for _, one := range some {
		if many, ok := one.(writeFlushers); ok {
			all = append(all, many...)
		} else if one != nil {
			all = append(all, one)
		}
	}
	return all
}

// Locked serializes writes and flushes to a WriteFlusher shared by several
// goroutines.
type Locked struct {
	mu sync.Mutex
	wf WriteFlusher
}

// NewLocked wraps wf; wrapping an already Locked writer returns it.
func NewLocked(wf WriteFlusher) *Locked {
	if l, ok := wf.(*Locked); ok {
		return l
	}
	return &Locked{wf: wf}
}

func (l *Locked) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wf.Write(p)
}

// Flush flushes the underlying writer.
func (l *Locked) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wf.Flush()
}

// Swap replaces the underlying writer, flushing the prior one, and returns it.
func (l *Locked) Swap(wf WriteFlusher) (WriteFlusher, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	prior := l.wf
	var err error
	if prior != nil {
		err = prior.Flush()
	}
	l.wf = wf
	return prior, err
}

// Unwrap returns the underlying writer.
func (l *Locked) Unwrap() WriteFlusher {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wf
}
