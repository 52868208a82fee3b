package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/mforth/internal/fileinput"
	"github.com/jcorbin/mforth/internal/flushio"
	"github.com/jcorbin/mforth/internal/runeio"
)

// Core holds the host side of a runtime: its console input queue, its
// (shared, locked) console output, and anything to close when done.
type Core struct {
	logging
	fileinput.Input
	out     *flushio.Locked
	closers []io.Closer
}

func (core *Core) Close() (err error) {
	for i := len(core.closers) - 1; i >= 0; i-- {
		if cerr := core.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	core.closers = nil
	return err
}

func (core *Core) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if core.out != nil {
			if ferr := core.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()

	// ignore any panics while logging
	func() {
		defer func() { recover() }()
		core.logf("#", "halt error: %v", err)
	}()

	panic(haltError{err})
}

func (core *Core) flush() {
	if err := core.out.Flush(); err != nil {
		core.halt(err)
	}
}

func (core *Core) writeString(s string) {
	if _, err := io.WriteString(core.out, s); err != nil {
		core.halt(err)
	}
}

func (core *Core) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(core.out, format, args...); err != nil {
		core.halt(err)
	}
}

func (core *Core) writeByte(b byte) {
	if _, err := core.out.Write([]byte{b}); err != nil {
		core.halt(err)
	}
}

func (core *Core) writeRune(r rune) {
	if _, err := runeio.WriteANSIRune(core.out, r); err != nil {
		core.halt(err)
	}
}

func (core *Core) writeCSI(final byte, params ...int) {
	if _, err := runeio.WriteCSI(core.out, final, params...); err != nil {
		core.halt(err)
	}
}

// readByte flushes any pending output, then reads the next input byte;
// running out of input halts with io.EOF.
func (core *Core) readByte() byte {
	core.flush()
	b, err := core.Input.ReadByte()
	if err != nil {
		core.halt(err)
	}
	return b
}

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log logging) tracing() bool { return log.logfn != nil }

func (log logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
