package main

import (
	"strconv"
	"strings"
)

var breakSequences = [...]string{"\r\n", "\r", "\n"}

// print writes s when ctx shows responses.
func (ctx *Context) print(s string) {
	if ctx.show(vbResponse) {
		ctx.rt.writeString(s)
		ctx.rt.flushFor(ctx)
	}
}

func (ctx *Context) emitByte(b byte) {
	if ctx.show(vbResponse) {
		ctx.rt.writeByte(b)
		ctx.rt.flushFor(ctx)
	}
}

func (ctx *Context) csiSeq(final byte, params ...int) {
	if ctx.show(vbResponse) {
		ctx.rt.writeCSI(final, params...)
		ctx.rt.flushFor(ctx)
	}
}

func (ctx *Context) page(_ int32) {
	ctx.csiSeq('J', 2)
	ctx.csiSeq('H', 1, 1)
}

func (ctx *Context) cr(_ int32)   { ctx.print(ctx.rt.brk) }
func (ctx *Context) csi(_ int32)  { ctx.print("\x1b[") }
func (ctx *Context) emit(_ int32) { ctx.emitByte(byte(ctx.pop())) }

func (ctx *Context) setVerbose(_ int32) { ctx.verbose = int(ctx.pop()) }

func (ctx *Context) dot(_ int32)  { ctx.print(strconv.Itoa(int(ctx.pop())) + " ") }
func (ctx *Context) dotU(_ int32) { ctx.print(strconv.FormatUint(uint64(uint32(ctx.pop())), 10) + " ") }

func (ctx *Context) dotHex(_ int32) {
	ctx.print(strconv.FormatUint(uint64(uint32(ctx.pop())), 16) + " ")
}

// dotR ( n npad -- ) prints n right justified in npad columns.
func (ctx *Context) dotR(radix int32) {
	if ctx.ps.size() < 2 {
		ctx.fail(errNotEnough)
	}
	npad := int(ctx.pop())
	v := ctx.pop()
	var s string
	if radix == 16 {
		s = strconv.FormatUint(uint64(uint32(v)), 16)
	} else {
		s = strconv.Itoa(int(v))
	}
	if n := ctx.padWidth(npad) - len(s); n > 0 {
		s = strings.Repeat(" ", n) + s
	}
	ctx.print(s)
}

func (ctx *Context) spaces(_ int32) {
	if n := ctx.padWidth(int(ctx.pop())); n > 0 {
		ctx.print(strings.Repeat(" ", n))
	}
}

// padWidth bounds a user supplied run of padding to the console line length.
func (ctx *Context) padWidth(n int) int {
	return min(n, ctx.rt.limits.MaxLine)
}

// atXY ( x y -- ) moves the cursor; the upper left corner is 0 0.
func (ctx *Context) atXY(_ int32) {
	ctx.need(2)
	y := int(ctx.pop())
	x := int(ctx.pop())
	if x < 0 || y < 0 {
		return
	}
	ctx.csiSeq('H', y+1, x+1)
}

func (ctx *Context) setBreak(_ int32) {
	n := ctx.pop()
	if n < 0 || int(n) >= len(breakSequences) {
		ctx.failf("Invalid break sequence parameter")
	}
	ctx.rt.brk = breakSequences[n]
}

// color selects an SGR color: 1..8 foreground, 11..18 bright foreground,
// 21..28 bold foreground, 101..108 background; 0 resets every attribute
// and 100 the background.
func (ctx *Context) color(_ int32) {
	n := int(ctx.pop())
	switch {
	case n == 0:
		ctx.csiSeq('m', 0)
	case n == 100:
		ctx.csiSeq('m', 49)
	case n >= 1 && n <= 8:
		ctx.csiSeq('m', 30+n-1)
	case n >= 11 && n <= 18:
		ctx.csiSeq('m', 90+n-11)
	case n >= 21 && n <= 28:
		ctx.csiSeq('m', 30+n-21, 1)
	case n >= 101 && n <= 108:
		ctx.csiSeq('m', 40+n-101)
	default:
		ctx.failf("Invalid color code")
	}
}
