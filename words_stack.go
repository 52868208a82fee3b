package main

const (
	dualAdd = iota
	dualSub
	dualMul
	dualDiv
	dualMod
	dualSwap
	dualNip
	dualMax
	dualMin
	dualTuck
	dualDivMod
)

const (
	relLess = iota
	relGreater
	relLessEqual
	relGreaterEqual
	relEqual
	relUnequal
)

const (
	bitNot = iota
	bitAnd
	bitOr
	bitXor
	bitShl
	bitShr
)

const (
	unNegate = iota
	unNot
	unAbs
	unInc
	unDec
	unInc2
	unDec2
	unDouble
	unHalve
	unLess0
	unGreater0
	unEqual0
	unUnequal0
	unCellPlus
	unCells
	unHCellPlus
	unHCells
	unS16U
	unU16S
	unS8U
	unU8S
)

func (ctx *Context) drop(_ int32) { ctx.pop() }

// dropN ( a1 .. an n -- ) drops at most what the stack holds.
func (ctx *Context) dropN(_ int32) {
	n := int(ctx.pop())
	if n <= 0 {
		return
	}
	if n > ctx.ps.size() {
		n = ctx.ps.size()
	}
	for ; n > 0; n-- {
		ctx.ps.pop()
	}
}

func (ctx *Context) dup(_ int32) {
	if v, ok := ctx.ps.top(); ok {
		ctx.push(v)
	}
}

func (ctx *Context) qdup(_ int32) {
	if v, ok := ctx.ps.top(); ok && v != 0 {
		ctx.push(v)
	}
}

func (ctx *Context) dupN(_ int32) {
	n := int(ctx.pop())
	if n <= 0 || n > ctx.ps.size() {
		return
	}
	for i := 0; i < n; i++ {
		ctx.push(ctx.ps.peek(n - 1))
	}
}

func (ctx *Context) pick(_ int32) {
	n := int(ctx.pop())
	if n >= 0 && n < ctx.ps.size() {
		ctx.push(ctx.ps.peek(n))
	}
}

func (ctx *Context) clearStack(_ int32) { ctx.ps.clear() }

func (ctx *Context) swapN(_ int32) {
	n := int(ctx.pop())
	if n > 0 && n < ctx.ps.size() {
		top := ctx.ps.peek(0)
		ctx.ps.poke(0, ctx.ps.peek(n))
		ctx.ps.poke(n, top)
	}
}

func (ctx *Context) rot(_ int32)  { ctx.ps.roll(2) }
func (ctx *Context) roll(_ int32) { ctx.ps.roll(int(ctx.pop())) }

func (ctx *Context) over(_ int32) {
	if ctx.ps.size() >= 2 {
		ctx.push(ctx.ps.peek(1))
	}
}

func (ctx *Context) depth(_ int32)     { ctx.push(int32(ctx.ps.size())) }
func (ctx *Context) literal(v int32)   { ctx.push(v) }
func (ctx *Context) unused(_ int32)    { ctx.push(int32(ctx.rt.codeFree())) }
func (ctx *Context) pad(_ int32)       { ctx.push(padBase) }
func (ctx *Context) toR(_ int32)       { ctx.rpush(ctx.pop()) }
func (ctx *Context) fromR(_ int32)     { ctx.push(ctx.rpop()) }
func (ctx *Context) rdrop(_ int32)     { ctx.rpop() }
func (ctx *Context) rclear(_ int32)    { ctx.rs.ptr = ctx.rs.frame }
func (ctx *Context) emitConst(c int32) { ctx.emitByte(byte(c)) }

// rindex pushes the return stack cell n below the top: R@ and I, J or K.
func (ctx *Context) rindex(n int32) {
	if n == 0 {
		ctx.push(ctx.rtop())
		return
	}
	if ctx.rs.size() <= int(n) {
		ctx.fail(errRStackShort)
	}
	ctx.push(ctx.rs.data[ctx.rs.ptr-int(n)])
}

// dual operates on the two top cells ( a b -- ... ).
func (ctx *Context) dual(op int32) {
	ctx.need(2)
	b := ctx.ps.peek(0)
	a := ctx.ps.peek(1)
	switch op {
	case dualSwap:
		ctx.ps.poke(0, a)
		ctx.ps.poke(1, b)
		return
	case dualTuck:
		ctx.ps.poke(0, a)
		ctx.ps.poke(1, b)
		ctx.push(b)
		return
	case dualDivMod:
		if b == 0 {
			ctx.fail(errDivByZero)
		}
		ctx.ps.poke(1, a%b)
		ctx.ps.poke(0, a/b)
		return
	}

	var r int32
	switch op {
	case dualAdd:
		r = a + b
	case dualSub:
		r = a - b
	case dualMul:
		r = a * b
	case dualDiv, dualMod:
		if b == 0 {
			ctx.fail(errDivByZero)
		}
		if op == dualDiv {
			r = a / b
		} else {
			r = a % b
		}
	case dualNip:
		r = b
	case dualMax:
		r = max(a, b)
	case dualMin:
		r = min(a, b)
	}
	ctx.ps.pop()
	ctx.ps.poke(0, r)
}

func (ctx *Context) relational(op int32) {
	ctx.need(2)
	b := ctx.pop()
	a := ctx.pop()
	var r bool
	switch op {
	case relLess:
		r = a < b
	case relGreater:
		r = a > b
	case relLessEqual:
		r = a <= b
	case relGreaterEqual:
		r = a >= b
	case relEqual:
		r = a == b
	case relUnequal:
		r = a != b
	}
	ctx.pushBool(r)
}

// bitwise works on unsigned cells, so RSHIFT is a logical shift.
func (ctx *Context) bitwise(op int32) {
	if op == bitNot {
		ctx.push(^ctx.pop())
		return
	}
	ctx.need(2)
	b := uint32(ctx.pop())
	a := uint32(ctx.pop())
	var r uint32
	switch op {
	case bitAnd:
		r = a & b
	case bitOr:
		r = a | b
	case bitXor:
		r = a ^ b
	case bitShl:
		r = a << b
	case bitShr:
		r = a >> b
	}
	ctx.push(int32(r))
}

// unary rewrites the top cell in place; an empty stack is left alone.
func (ctx *Context) unary(op int32) {
	v, ok := ctx.ps.top()
	if !ok {
		return
	}
	switch op {
	case unNegate:
		v = -v
	case unNot, unEqual0:
		v = boolCell(v == 0)
	case unAbs:
		if v < 0 {
			v = -v
		}
	case unInc:
		v++
	case unDec:
		v--
	case unInc2:
		v += 2
	case unDec2:
		v -= 2
	case unDouble:
		v *= 2
	case unHalve:
		v /= 2
	case unLess0:
		v = boolCell(v < 0)
	case unGreater0:
		v = boolCell(v > 0)
	case unUnequal0:
		v = boolCell(v != 0)
	case unCellPlus:
		v += cellSize
	case unCells:
		v *= cellSize
	case unHCellPlus:
		v += cellSize / 2
	case unHCells:
		v *= cellSize / 2
	case unS16U:
		v = int32(uint16(v))
	case unU16S:
		v = int32(int16(v))
	case unS8U:
		v = int32(uint8(v))
	case unU8S:
		v = int32(int8(v))
	}
	ctx.ps.poke(0, v)
}
