package main

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Verbosity bits, each context carries its own mask.
const (
	vbEcho = 1 << iota
	vbError
	vbResponse
	vbTop
	vbInfo
	vbPrompt
	vbDebug

	vbAll = vbEcho | vbError | vbResponse | vbTop | vbInfo | vbPrompt | vbDebug

	// masked in while inside FSTART .. FEND
	vbFileMask = vbEcho | vbError | vbResponse | vbInfo | vbDebug
)

const (
	flagExit uint32 = 1 << iota
	flagAbort
)

var (
	errStackEmpty     = errors.New("Stack is empty")
	errNotEnough      = errors.New("Not enough elements")
	errRStackEmpty    = errors.New("Rstack is empty")
	errRStackOverflow = errors.New("Rstack overflow")
	errRStackShort    = errors.New("Not enough elements on return stack")
	errCallOverflow   = errors.New("Call stack overflow")
	errDivByZero      = errors.New("Division by zero")
	errInvalidAddress = errors.New("Invalid address")
	errAbortExecuted  = errors.New("ABORT executed")
	errUserAbort      = errors.New("User Abort")
	errWordNotFound   = errors.New("Word not found")
	errOutOfMemory    = errors.New("Out of memory")
	errExtOverflow    = errors.New("Opcode out of the extension bands")
	errNotVariable    = errors.New("Not a variable address")
)

// runtimeError aborts the running context: every nested word unwinds with a
// backtrace line.
type runtimeError struct{ error }

// compileError aborts the word being defined and rolls the arena back.
type compileError struct{ error }

// interactiveError discards the rest of the console line, or the rest of the
// file inside FSTART .. FEND.
type interactiveError struct{ error }

func compileErrorf(format string, args ...interface{}) compileError {
	return compileError{fmt.Errorf(format, args...)}
}

func interactiveErrorf(format string, args ...interface{}) interactiveError {
	return interactiveError{fmt.Errorf(format, args...)}
}

// Context is one execution context: its own stacks, program counter, flags
// and verbosity, sharing the Runtime's arena with every other context.
type Context struct {
	rt *Runtime

	ps      pstack
	rs      rstack
	counter uint
	calls   []callRecord

	process int
	flags   atomic.Uint32
	verbose int
}

func newContext(rt *Runtime, process, verbose int) *Context {
	return &Context{
		rt:      rt,
		ps:      newPStack(rt.limits.StackSize),
		rs:      newRStack(rt.limits.RStackSize),
		process: process,
		verbose: verbose,
	}
}

func (ctx *Context) String() string {
	switch {
	case ctx == ctx.rt.fg:
		return "main"
	case ctx == ctx.rt.irq:
		return "irq"
	default:
		return fmt.Sprintf("thread[%d]", ctx.process)
	}
}

func (ctx *Context) foreground() bool { return ctx == ctx.rt.fg }

func (ctx *Context) show(bits int) bool { return ctx.verbose&bits != 0 }

func (ctx *Context) abort()          { ctx.flags.Or(flagAbort) }
func (ctx *Context) aborting() bool  { return ctx.flags.Load()&flagAbort != 0 }
func (ctx *Context) exitWord()       { ctx.flags.Or(flagExit) }
func (ctx *Context) clearFlags()     { ctx.flags.Store(0) }
func (ctx *Context) clearExit()      { ctx.flags.And(^flagExit) }
func (ctx *Context) clearAbort()     { ctx.flags.And(^flagAbort) }
func (ctx *Context) fail(err error)  { panic(runtimeError{err}) }
func (ctx *Context) push(v int32)    { ctx.ps.push(v) }
func (ctx *Context) pushBool(b bool) { ctx.ps.push(boolCell(b)) }

func (ctx *Context) failf(format string, args ...interface{}) {
	ctx.fail(fmt.Errorf(format, args...))
}

func (ctx *Context) pop() int32 {
	v, ok := ctx.ps.pop()
	if !ok {
		ctx.fail(errStackEmpty)
	}
	return v
}

// need fails unless the parameter stack holds at least n cells.
func (ctx *Context) need(n int) {
	if ctx.ps.size() < n {
		ctx.fail(errNotEnough)
	}
}

func (ctx *Context) rpush(v int32) {
	if !ctx.rs.push(v) {
		ctx.fail(errRStackOverflow)
	}
}

func (ctx *Context) rpop() int32 {
	v, ok := ctx.rs.pop()
	if !ok {
		ctx.fail(errRStackEmpty)
	}
	return v
}

func (ctx *Context) rtop() int32 {
	v, ok := ctx.rs.top()
	if !ok {
		ctx.fail(errRStackEmpty)
	}
	return v
}

func boolCell(b bool) int32 {
	if b {
		return -1
	}
	return 0
}

// report handles a runtime error raised on ctx.
func (ctx *Context) report(err error) {
	ctx.abort()
	if ctx.foreground() {
		ctx.rt.epilogue()
	}
	if ctx.show(vbError) {
		ctx.rt.printf("RUN ERROR: %v%s", err, ctx.rt.brk)
		ctx.rt.flushFor(ctx)
	}
}

// consoleError reports a compile or interactive error raised on ctx.
func (ctx *Context) consoleError(err error) {
	if ctx.foreground() {
		ctx.rt.epilogue()
	}
	if ctx.show(vbError) {
		ctx.rt.printf("ERROR: %v%s", err, ctx.rt.brk)
		ctx.rt.flushFor(ctx)
	}
}

func (ctx *Context) warn(mess string) {
	if ctx.show(vbError) {
		ctx.rt.printf("WARNING: %s%s", mess, ctx.rt.brk)
	}
}

// recoverError is deferred around anything that runs handlers on ctx; it
// turns the typed error panics into reports, leaving host halts to unwind.
func (ctx *Context) recoverError() {
	switch e := recover().(type) {
	case nil:
	case runtimeError:
		ctx.report(e.error)
	case compileError:
		ctx.abort()
		ctx.consoleError(e.error)
	case interactiveError:
		ctx.abort()
		ctx.consoleError(e.error)
	default:
		panic(e)
	}
}

// guard runs f on ctx, reporting any error it raises.
func (ctx *Context) guard(f func()) {
	defer ctx.recoverError()
	f()
}

// reset prepares ctx to run an entry from the console: an empty return stack
// and no pending exit or abort.
func (ctx *Context) reset() {
	ctx.rs.clear()
	ctx.calls = ctx.calls[:0]
	ctx.clearFlags()
}
