package main

// callRecord is pushed for each nested user word call; words call words
// through this explicit stack rather than through Go recursion.
type callRecord struct {
	word  WordHandle
	ret   uint
	frame int
}

// execute runs the user word at h on ctx. A primary execution starts from a
// clean return stack and leaves no abort pending once it unwinds.
func (ctx *Context) execute(h WordHandle, primary bool) {
	if primary {
		ctx.reset()
	}
	ctx.run(h)
	if primary {
		ctx.clearAbort()
	}
}

func (ctx *Context) run(h WordHandle) {
	depth := len(ctx.calls)
	ctx.guard(func() { ctx.call(h) })
	for len(ctx.calls) > depth {
		ctx.guard(ctx.steps)
		ctx.ret()
	}
}

// steps dispatches opcodes until the current word ends, or an exit, abort or
// interrupt is observed.
func (ctx *Context) steps() {
	for {
		if ctx.flags.Load() != 0 {
			return
		}
		if ctx.rt.interrupted.Load() {
			ctx.fail(errUserAbort)
		}
		at := ctx.counter
		code := ctx.fetch8()
		if code == opEndWord {
			return
		}
		if ctx.rt.tracing() {
			ctx.rt.logf(">", "exec @%v %v -- s:%v r:%v", at, baseWords.nameOf(int(code)), ctx.ps.values(), ctx.rs.values())
		}
		ctx.dispatch(int(code))
	}
}

func (ctx *Context) dispatch(code int) {
	if code < 0 || code >= len(baseWords) || baseWords[code].handler == nil {
		ctx.failf("Invalid opcode %d", code)
	}
	ent := &baseWords[code]
	ent.handler(ctx, ent.arg)
}

func (ctx *Context) call(h WordHandle) {
	if len(ctx.calls) >= ctx.rt.limits.RStackSize {
		ctx.fail(errCallOverflow)
	}
	ctx.calls = append(ctx.calls, callRecord{word: h, ret: ctx.counter, frame: ctx.rs.frame})
	ctx.counter = uint(h)
	ctx.rs.frame = ctx.rs.ptr
}

// ret returns from the innermost call, dropping whatever the word left on
// the return stack above its frame.
func (ctx *Context) ret() {
	i := len(ctx.calls) - 1
	rec := ctx.calls[i]
	ctx.calls = ctx.calls[:i]
	if ctx.rs.ptr > ctx.rs.frame {
		ctx.rs.ptr = ctx.rs.frame
	}
	ctx.rs.frame = rec.frame
	ctx.counter = rec.ret
	if ctx.aborting() {
		ctx.backtrace(rec.word)
	}
	ctx.clearExit()
}

func (ctx *Context) backtrace(h WordHandle) {
	if ctx.show(vbError) {
		ctx.rt.printf("Backtrace: %d >> %s <<%s", h, ctx.rt.arena.name(h), ctx.rt.brk)
		ctx.rt.flushFor(ctx)
	}
}

func (ctx *Context) fetch8() byte {
	b, err := ctx.rt.arena.mem.Load8(ctx.counter)
	if err != nil {
		ctx.fail(errInvalidAddress)
	}
	ctx.counter++
	return b
}

func (ctx *Context) fetch16() uint16 {
	v, err := ctx.rt.arena.mem.Load16(ctx.counter)
	if err != nil {
		ctx.fail(errInvalidAddress)
	}
	ctx.counter += 2
	return v
}

func (ctx *Context) fetch32() uint32 {
	v, err := ctx.rt.arena.mem.Load32(ctx.counter)
	if err != nil {
		ctx.fail(errInvalidAddress)
	}
	ctx.counter += 4
	return v
}

func (ctx *Context) extended(base int32) { ctx.dispatch(int(base) + int(ctx.fetch8())) }

func (ctx *Context) num1(_ int32) { ctx.push(int32(int8(ctx.fetch8()))) }
func (ctx *Context) num2(_ int32) { ctx.push(int32(int16(ctx.fetch16()))) }
func (ctx *Context) num4(_ int32) { ctx.push(int32(ctx.fetch32())) }

func (ctx *Context) userWord(_ int32) {
	h := WordHandle(ctx.fetch16())
	ctx.call(h)
}

// printString prints the inline NUL terminated text.
func (ctx *Context) printString(_ int32) {
	for {
		b := ctx.fetch8()
		if b == 0 {
			break
		}
		if ctx.show(vbResponse) {
			ctx.rt.writeByte(b)
		}
	}
	ctx.rt.flushFor(ctx)
}

// pushString pushes the address and count of the inline counted text.
func (ctx *Context) pushString(_ int32) {
	n := ctx.fetch8()
	ctx.push(int32(ctx.counter))
	ctx.push(int32(n))
	ctx.counter += uint(n)
}

// executeWord is EXECUTE within a word; addresses past the coded dictionary
// are ignored.
func (ctx *Context) executeWord(_ int32) {
	addr := uint16(ctx.pop())
	if uint(addr) >= ctx.rt.arena.nextPos {
		return
	}
	ctx.call(WordHandle(addr))
}

func (ctx *Context) exit(_ int32)      { ctx.exitWord() }
func (ctx *Context) abortWord(_ int32) { ctx.fail(errAbortExecuted) }

// assertCheck ( flag code -- ) aborts when flag is false.
func (ctx *Context) assertCheck(_ int32) {
	if ctx.ps.size() < 2 {
		ctx.failf("Fail in assert parameters")
	}
	code := ctx.pop()
	if ctx.pop() == 0 {
		if ctx.show(vbError) {
			ctx.rt.printf("RUN ERROR: Assert failed with code %d%s", code, ctx.rt.brk)
		}
		ctx.abort()
	}
}

// local returns the return stack index of the frame relative local named
// by the inline byte operand.
func (ctx *Context) local() int {
	i, ok := ctx.rs.local(int(ctx.fetch8()))
	if !ok {
		ctx.fail(errRStackShort)
	}
	return i
}

func (ctx *Context) setLocal(_ int32) {
	i := ctx.local()
	ctx.rs.data[i] = ctx.pop()
}

func (ctx *Context) getLocal(_ int32) {
	i := ctx.local()
	ctx.push(ctx.rs.data[i])
}

func (ctx *Context) addLocal(_ int32) {
	i := ctx.local()
	ctx.rs.data[i] += ctx.pop()
}
