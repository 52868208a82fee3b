package main

import "strings"

// Interactive dictionary handlers; they only run from the console, always
// on the foreground context.

func (ctx *Context) colon(_ int32) { ctx.rt.beginWord() }

// constant ( value -- ) defines a word that pushes value.
func (ctx *Context) constant(_ int32) {
	rt := ctx.rt
	v := ctx.pop()
	rt.newWord()
	if rt.codeFree() < 6 {
		panic(compileError{errOutOfMemory})
	}
	rt.codeNumber(v)
	rt.endWord()
}

// markerWidth returns the data width that follows a VAR* or VAL* marker.
func markerWidth(marker int32) int32 {
	switch marker {
	case opVarH, opValH:
		return 2
	case opVarC, opValC:
		return 1
	}
	return 4
}

func (rt *Runtime) codeCell(width, v int32) {
	switch width {
	case 1:
		rt.code(byte(v))
	case 2:
		rt.code16(uint16(v))
	default:
		rt.code32(uint32(v))
	}
}

// defineData defines a variable or value word: its marker followed by the
// initial data, with no ENDWORD.
func (rt *Runtime) defineData(marker, v int32) {
	rt.newWord()
	width := markerWidth(marker)
	if rt.codeFree() < int(width)+1 {
		panic(compileError{errOutOfMemory})
	}
	rt.code(byte(marker))
	rt.codeCell(width, v)
	rt.commitWord()
}

func (ctx *Context) defineVariable(marker int32) { ctx.rt.defineData(marker, 0) }

// defineValue ( value -- )
func (ctx *Context) defineValue(marker int32) {
	v := ctx.pop()
	ctx.rt.defineData(marker, v)
}

// executePrimary is EXECUTE typed at the console.
func (ctx *Context) executePrimary(_ int32) {
	addr := uint16(ctx.pop())
	if uint(addr) >= ctx.rt.arena.nextPos {
		return
	}
	ctx.execute(WordHandle(addr), true)
}

// to implements TO (add == 0) and +TO on values and, while compiling, on
// locals.
func (ctx *Context) to(add int32) {
	rt := ctx.rt
	name := rt.nextToken()

	if rt.comp.compiling {
		if i, ok := rt.comp.localIndexOf(name); ok {
			if add != 0 {
				rt.codeOp(opAddR)
			} else {
				rt.codeOp(opSetR)
			}
			rt.code(byte(i))
			return
		}
	}

	h := rt.arena.locate(name)
	if h == NoWord {
		panic(compileErrorf("Value [%s] word not found", name))
	}
	marker := int32(rt.arena.byteAt(uint(h)))
	if marker != opVal && marker != opValH && marker != opValC {
		panic(compileErrorf("Illegal TO/+TO destination"))
	}
	width := markerWidth(marker)
	addr := int32(h) + 1

	if !rt.comp.compiling {
		v := ctx.pop()
		if add != 0 {
			v += ctx.load(addr, width)
		}
		ctx.storeCell(addr, width, v)
		return
	}

	if rt.codeFree() < 4 {
		panic(compileError{errOutOfMemory})
	}
	op := opToVal + int(marker-opVal)
	if add != 0 {
		op = opAddToVal + int(marker-opVal)
	}
	rt.codeOp(op)
	rt.code16(uint16(addr))
}

// forget drops the named word and every word defined after it.
func (ctx *Context) forget(_ int32) {
	rt := ctx.rt
	rt.mutable("forget")
	defer rt.unlockDict()

	name := rt.nextToken()
	h := rt.arena.locate(name)
	if h == NoWord {
		panic(interactiveError{errWordNotFound})
	}
	hadStart := rt.arena.startWord != NoWord
	rt.arena.forget(h)
	if hadStart && rt.arena.startWord == NoWord && ctx.show(vbInfo) {
		rt.printf("Start word reference has been eliminated%s", rt.brk)
	}
	rt.log.Debugf("forgot %v and later words", name)
}

func (ctx *Context) forgetAll(_ int32) {
	rt := ctx.rt
	rt.mutable("erase")
	defer rt.unlockDict()
	rt.arena.erase()
	rt.log.Debugf("user dictionary erased")
}

// setStartWord reads the word to run at boot; NOWORD clears it.
func (ctx *Context) setStartWord(_ int32) {
	rt := ctx.rt
	name := rt.nextToken()
	if strings.EqualFold(name, "NOWORD") {
		rt.arena.startWord = NoWord
		return
	}
	h := rt.arena.locate(name)
	if h == NoWord {
		panic(interactiveError{errWordNotFound})
	}
	rt.arena.startWord = h
}

func (ctx *Context) enterCompile(_ int32) {
	if !ctx.rt.comp.editing() {
		panic(interactiveErrorf("We are not editing any word"))
	}
	ctx.rt.comp.compiling = true
}

// fileStart enters file mode: lines are numbered from the FSTART, the
// prompt and top display are masked out and an error skips to FEND.
func (ctx *Context) fileStart(_ int32) {
	rt := ctx.rt
	rt.flags.compileLine = 1
	rt.flags.inFile = true
	rt.flags.lastVerbose = ctx.verbose
	ctx.verbose &= vbFileMask
}

func (ctx *Context) fileEnd(_ int32) {
	rt := ctx.rt
	if !rt.flags.inFile {
		return
	}
	rt.flags.inFile = false
	ctx.verbose = rt.flags.lastVerbose
}

func (ctx *Context) debugMode(on int32) { ctx.rt.flags.debugOn = on != 0 }
