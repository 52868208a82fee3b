package main

import (
	"github.com/jcorbin/mforth/internal/mem"
)

// region returns the memory holding the n bytes at addr: the arena, or the
// PAD scratch area.
func (ctx *Context) region(addr int32, n uint) (*mem.Bytes, uint) {
	a := uint(uint32(addr))
	switch {
	case ctx.rt.arena.mem.Contains(a, n):
		return ctx.rt.arena.mem, a
	case ctx.rt.pad.Contains(a, n):
		return ctx.rt.pad, a
	}
	ctx.fail(errInvalidAddress)
	return nil, 0
}

// load reads a sign extended cell of the given width.
func (ctx *Context) load(addr, width int32) int32 {
	m, a := ctx.region(addr, uint(width))
	switch width {
	case 1:
		v, _ := m.Load8(a)
		return int32(int8(v))
	case 2:
		v, _ := m.Load16(a)
		return int32(int16(v))
	default:
		v, _ := m.Load32(a)
		return int32(v)
	}
}

func (ctx *Context) storeCell(addr, width, v int32) {
	m, a := ctx.region(addr, uint(width))
	switch width {
	case 1:
		m.Stor8(a, byte(v))
	case 2:
		m.Stor16(a, uint16(v))
	default:
		m.Stor32(a, uint32(v))
	}
}

func (ctx *Context) byteAt(addr int32) byte {
	m, a := ctx.region(addr, 1)
	b, _ := m.Load8(a)
	return b
}

// variable is the body of VAR, VARH, VARC and CRT words: it pushes the
// data address just past the marker and returns.
func (ctx *Context) variable(_ int32) {
	ctx.push(int32(ctx.counter))
	ctx.exitWord()
}

func (ctx *Context) value(width int32) {
	ctx.push(ctx.load(int32(ctx.counter), width))
	ctx.exitWord()
}

func (ctx *Context) toValue(width int32) {
	addr := int32(ctx.fetch16())
	ctx.storeCell(addr, width, ctx.pop())
}

func (ctx *Context) addToValue(width int32) {
	addr := int32(ctx.fetch16())
	ctx.storeCell(addr, width, ctx.load(addr, width)+ctx.pop())
}

// fetch ( addr -- value )
func (ctx *Context) fetch(width int32) {
	ctx.push(ctx.load(ctx.pop(), width))
}

// store ( value addr -- )
func (ctx *Context) store(width int32) {
	ctx.need(2)
	addr := ctx.pop()
	ctx.storeCell(addr, width, ctx.pop())
}

// addStore ( inc addr -- )
func (ctx *Context) addStore(width int32) {
	ctx.need(2)
	addr := ctx.pop()
	ctx.storeCell(addr, width, ctx.load(addr, width)+ctx.pop())
}

// varWidth returns the data width of the variable whose data starts at
// addr, from the marker coded just before it.
func (ctx *Context) varWidth(addr int32) int32 {
	switch ctx.byteAt(addr - 1) {
	case opVar:
		return 4
	case opVarH:
		return 2
	case opVarC:
		return 1
	}
	ctx.fail(errNotVariable)
	return 0
}

func (ctx *Context) varFetch(_ int32) {
	addr := ctx.pop()
	ctx.push(ctx.load(addr, ctx.varWidth(addr)))
}

func (ctx *Context) varStore(_ int32) {
	ctx.need(2)
	addr := ctx.pop()
	ctx.storeCell(addr, ctx.varWidth(addr), ctx.pop())
}

func (ctx *Context) varAddStore(_ int32) {
	ctx.need(2)
	addr := ctx.pop()
	width := ctx.varWidth(addr)
	ctx.storeCell(addr, width, ctx.load(addr, width)+ctx.pop())
}

// create defines a word whose body pushes the address of the data space
// that follows; ALLOT and the comma words fill it.
func (ctx *Context) create(_ int32) {
	rt := ctx.rt
	rt.newWord()
	if rt.codeFree() < 5 {
		panic(compileError{errOutOfMemory})
	}
	rt.code(opCreate)
	rt.commitWord()
}

func (ctx *Context) allot(_ int32) {
	rt := ctx.rt
	n := ctx.pop()
	if n < 0 {
		ctx.failf("Cannot allot negative space")
	}
	if int(n) > rt.arena.free() {
		ctx.fail(errOutOfMemory)
	}
	rt.mutable("allot")
	defer rt.unlockDict()
	rt.arena.nextPos += uint(n)
}

// comma appends one cell of the given width to the data space.
func (ctx *Context) comma(width int32) {
	rt := ctx.rt
	v := ctx.pop()
	if rt.arena.free() < int(width) {
		ctx.fail(errOutOfMemory)
	}
	rt.mutable("allot")
	defer rt.unlockDict()
	ctx.storeCell(int32(rt.arena.nextPos), width, v)
	rt.arena.nextPos += uint(width)
}

func (ctx *Context) tick(_ int32) {
	rt := ctx.rt
	h := rt.arena.locate(rt.nextToken())
	if h == NoWord {
		panic(interactiveError{errWordNotFound})
	}
	ctx.push(int32(h))
}

func (ctx *Context) here(_ int32) {
	if ctx.rt.comp.editing() {
		ctx.push(int32(ctx.rt.comp.codePos))
		return
	}
	ctx.push(int32(ctx.rt.arena.nextPos))
}

// count ( addr -- addr+1 u )
func (ctx *Context) count(_ int32) {
	addr := ctx.pop()
	ctx.push(addr + 1)
	ctx.push(int32(ctx.byteAt(addr)))
}

// typeString ( addr u -- )
func (ctx *Context) typeString(_ int32) {
	ctx.need(2)
	n := ctx.pop()
	addr := ctx.pop()
	if n < 0 {
		ctx.failf("Negative string count")
	}
	ctx.typeBytes(addr, n)
}

// typeCounted ( addr -- ) types a string led by its count byte.
func (ctx *Context) typeCounted(_ int32) {
	addr := ctx.pop()
	ctx.typeBytes(addr+1, int32(ctx.byteAt(addr)))
}

// typeCString ( addr -- ) types up to a NUL byte.
func (ctx *Context) typeCString(_ int32) {
	addr := ctx.pop()
	for {
		b := ctx.byteAt(addr)
		if b == 0 {
			break
		}
		if ctx.show(vbResponse) {
			ctx.rt.writeByte(b)
		}
		addr++
	}
	ctx.rt.flushFor(ctx)
}

func (ctx *Context) typeBytes(addr, n int32) {
	if n == 0 {
		return
	}
	m, a := ctx.region(addr, uint(n))
	b, _ := m.Slice(a, a+uint(n))
	if ctx.show(vbResponse) {
		ctx.rt.writeString(string(b))
		ctx.rt.flushFor(ctx)
	}
}
