package main

import (
	"context"
	"errors"
	"io"

	"github.com/jcorbin/mforth/internal/config"
	"github.com/jcorbin/mforth/internal/nvstore"
	"github.com/jcorbin/mforth/internal/panicerr"
)

// New builds a runtime sized by any WithConfig option, with output discarded
// and no input until other options say otherwise.
func New(opts ...Option) *Runtime {
	rt := newRuntime(configOf(opts))
	rt.apply(opts...)
	return rt
}

// Run boots the runtime and runs its console until the input runs out, ctx
// is done, or the host fails. Running out of input is not an error.
func (rt *Runtime) Run(ctx context.Context) error {
	err := panicerr.Recover("mforth", func() error {
		return rt.run(ctx)
	})
	if serr := rt.shutdown(); err == nil || errors.Is(err, io.EOF) {
		err = serr
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var halt haltError
	if errors.As(err, &halt) {
		err = halt.error
	}
	return err
}

// Close releases the runtime's input, output and store.
func (rt *Runtime) Close() error {
	err := rt.Core.Close()
	if ierr := rt.Input.Close(); err == nil {
		err = ierr
	}
	if rt.out != nil {
		if ferr := rt.out.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}

func WithInput(rs ...io.Reader) Option   { return withInput(rs...) }
func WithOutput(w io.Writer) Option      { return withOutput(w) }
func WithTee(w io.Writer) Option         { return withTee(w) }
func WithStore(st nvstore.Store) Option  { return withStore(st) }
func WithConfig(cfg config.Config) Option { return configOption(cfg) }
func WithVerbose(level int) Option       { return verboseOption(level) }

func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

func WithEchoLog(logfn func(mess string, args ...interface{})) Option {
	return echoLogOption(logfn)
}
