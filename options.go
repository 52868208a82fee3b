package main

import (
	"io"

	"github.com/jcorbin/mforth/internal/config"
	"github.com/jcorbin/mforth/internal/flushio"
	"github.com/jcorbin/mforth/internal/logio"
	"github.com/jcorbin/mforth/internal/nvstore"
)

// Option configures a Runtime built by New.
type Option interface{ apply(rt *Runtime) }

var defaults = []Option{
	withOutput(io.Discard),
}

func (rt *Runtime) apply(opts ...Option) {
	for _, opt := range defaults {
		if opt != nil {
			opt.apply(rt)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(rt)
		}
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(rt *Runtime) {
	rt.logfn = logfn
	rt.markWidth = 2
}

type inputOption []io.Reader
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type echoLogOption func(mess string, args ...interface{})
type storeOption struct{ nvstore.Store }
type verboseOption int

func withInput(rs ...io.Reader) inputOption { return inputOption(rs) }
func withOutput(w io.Writer) outputOption   { return outputOption{w} }
func withTee(w io.Writer) teeOption         { return teeOption{w} }
func withStore(st nvstore.Store) storeOption { return storeOption{st} }

func (i inputOption) apply(rt *Runtime) {
	rt.Push(i...)
}

func (o outputOption) apply(rt *Runtime) {
	wf := flushio.NewWriteFlusher(o.Writer)
	if rt.out == nil {
		rt.out = flushio.NewLocked(wf)
		return
	}
	rt.out.Swap(wf)
}

func (o teeOption) apply(rt *Runtime) {
	rt.out.Swap(flushio.WriteFlushers(rt.out.Unwrap(), flushio.NewWriteFlusher(o.Writer)))
}

// echoLogOption copies console output, line by line, into a log function.
func (logf echoLogOption) apply(rt *Runtime) {
	lw := &logio.Writer{Logf: logf}
	rt.out.Swap(flushio.WriteFlushers(rt.out.Unwrap(), lw))
	rt.closers = append(rt.closers, lw)
}

func (o storeOption) apply(rt *Runtime) {
	rt.store = o.Store
	if cl, ok := o.Store.(io.Closer); ok {
		rt.closers = append(rt.closers, cl)
	}
}

func (v verboseOption) apply(rt *Runtime) {
	rt.fg.verbose = int(v)
}

// configOf returns the configuration carried by the given options, or the
// default one.
func configOf(opts []Option) config.Config {
	cfg := config.Default()
	for _, opt := range opts {
		if co, ok := opt.(configOption); ok {
			cfg = config.Config(co)
		}
	}
	return cfg
}

type configOption config.Config

// configOption is consumed by New before the runtime exists.
func (configOption) apply(*Runtime) {}
