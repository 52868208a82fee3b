package main

// Generator dictionary handlers; they run on the foreground context while a
// word is being compiled.

const (
	zoneAssert = iota
	zoneDebug
)

func (ctx *Context) semicolon(_ int32) { ctx.rt.endWord() }

func (ctx *Context) recurse(_ int32) { ctx.rt.codeUserWord(ctx.rt.comp.editWord) }

func (ctx *Context) leaveCompile(_ int32) { ctx.rt.comp.compiling = false }

// compileLiteral ( n -- ) codes n, typically computed between [ and ].
func (ctx *Context) compileLiteral(_ int32) { ctx.rt.codeNumber(ctx.pop()) }

// zoneStart opens an ASSERT( or DEBUG( zone. Unless debug mode is on, its
// contents are skipped up to the closing parenthesis.
func (ctx *Context) zoneStart(kind int32) {
	flags := &ctx.rt.flags
	if flags.assertZone || flags.debugZone {
		if kind == zoneAssert {
			panic(compileErrorf("Nested assert zone"))
		}
		panic(compileErrorf("Nested debug zone"))
	}
	if kind == zoneAssert {
		flags.assertZone = true
	} else {
		flags.debugZone = true
	}
}

// zoneEnd closes a zone that was compiled; an assert zone ends with the
// check of the ( flag code ) it left on the stack.
func (ctx *Context) zoneEnd(_ int32) {
	rt := ctx.rt
	switch {
	case rt.flags.debugZone:
		rt.flags.debugZone = false
	case rt.flags.assertZone:
		rt.flags.assertZone = false
		if rt.flags.debugOn {
			rt.codeOp(opAssert)
		}
	default:
		panic(compileErrorf(`Out of context ")"`))
	}
}

func (ctx *Context) localsStart(_ int32) {
	comp := &ctx.rt.comp
	if comp.localMode != localNone {
		panic(compileErrorf("Improper location of {"))
	}
	comp.localMode = localEntry
	comp.localFirst = len(comp.localNames)
}

func (ctx *Context) localsComment(_ int32) {
	comp := &ctx.rt.comp
	if comp.localMode != localEntry {
		panic(compileErrorf("Improper location of --"))
	}
	comp.localMode = localComment
}

func (ctx *Context) localsEnd(_ int32) {
	comp := &ctx.rt.comp
	if comp.localMode == localNone {
		panic(compileErrorf("Improper location of }"))
	}
	comp.endLocals()
}

// compileDecompiled codes the hidden words printed by DECOMPILE: jumps and
// loop ends take a relative ( raddr ), local accesses an ( index ).
func (ctx *Context) compileDecompiled(op int32) {
	rt := ctx.rt
	if rt.codeFree() < 3 {
		panic(compileError{errOutOfMemory})
	}
	if op == opDo {
		rt.codeOp(opDo)
		return
	}
	v := ctx.pop()
	at := rt.comp.codePos
	rt.codeOp(int(op))
	if op <= opOf {
		rt.code16(uint16(int32(at) + v))
	} else {
		rt.code(byte(v))
	}
}
