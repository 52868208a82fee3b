package main

// Branch records pushed while compiling structured control flow: the kind
// in the high half, an arena offset (or a leave stack height) in the low.
const (
	branchIf    = 1 << 16
	branchLeave = 2 << 16
	branchDo    = 3 << 16
	branchBegin = 4 << 16
	branchCase  = 5 << 16
	branchOf    = 6 << 16

	branchMask = 0xFFFF
	kindMask   = 0x7FFF0000
)

const (
	doNormal = iota
	doPlus
	doMinus
)

func (rt *Runtime) pushBranch(kind int32, v uint) {
	rt.comp.branches = append(rt.comp.branches, kind|int32(v&branchMask))
}

// popBranch pops the innermost record, which must be of the given kind.
func (rt *Runtime) popBranch(kind int32, mess string) uint {
	n := len(rt.comp.branches)
	if n == 0 {
		panic(compileErrorf("%s", mess))
	}
	rec := rt.comp.branches[n-1]
	if rec&kindMask != kind {
		panic(compileErrorf("%s", mess))
	}
	rt.comp.branches = rt.comp.branches[:n-1]
	return uint(rec & branchMask)
}

// forward codes op with a placeholder target, returning the operand
// position.
func (rt *Runtime) forward(op int) uint {
	rt.codeOp(op)
	at := rt.comp.codePos
	rt.code16(0)
	return at
}

func (rt *Runtime) backward(op int, target uint) {
	rt.codeOp(op)
	rt.code16(uint16(target))
}

// openLeaves marks the leave stack height for a construct that LEAVE may
// exit.
func (rt *Runtime) openLeaves() {
	rt.pushBranch(branchLeave, uint(len(rt.comp.leaves)))
}

func (rt *Runtime) pushLeave(at uint) {
	rt.comp.leaves = append(rt.comp.leaves, branchLeave|int32(at))
}

// closeLeaves patches every leave coded since the matching openLeaves to
// jump here.
func (rt *Runtime) closeLeaves() {
	height := int(rt.popBranch(branchLeave, "Inconsistent leave processing"))
	if height > len(rt.comp.leaves) {
		panic(compileErrorf("Inconsistent leave processing"))
	}
	for _, rec := range rt.comp.leaves[height:] {
		rt.patch16(uint(rec&branchMask), uint16(rt.comp.codePos))
	}
	rt.comp.leaves = rt.comp.leaves[:height]
}

func (ctx *Context) compileIf(_ int32) {
	rt := ctx.rt
	rt.pushBranch(branchIf, rt.forward(opJz))
}

func (ctx *Context) compileElse(_ int32) {
	rt := ctx.rt
	at := rt.popBranch(branchIf, "ELSE not matched by IF")
	rt.pushBranch(branchIf, rt.forward(opJmp))
	rt.patch16(at, uint16(rt.comp.codePos))
}

func (ctx *Context) compileEndIf(_ int32) {
	rt := ctx.rt
	at := rt.popBranch(branchIf, "THEN not matched by IF or ELSE")
	rt.patch16(at, uint16(rt.comp.codePos))
}

// compileDo codes DO, +DO or -DO; the checked forms skip to the loop's
// UNLOOP through a leave.
func (ctx *Context) compileDo(op int32) {
	rt := ctx.rt
	rt.openLeaves()
	if op == opDo {
		rt.codeOp(opDo)
	} else {
		rt.pushLeave(rt.forward(int(op)))
	}
	rt.pushBranch(branchDo, rt.comp.codePos)
}

func (ctx *Context) compileLoop(op int32) {
	rt := ctx.rt
	rt.codeOp(int(op))
	at := rt.popBranch(branchDo, "LOOP or @LOOP not matched by DO")
	rt.code16(uint16(at))
	rt.closeLeaves()
	rt.codeOp(opUnloop)
}

// compileLeave codes LEAVE (op JMP) or ?LEAVE (op JNZ).
func (ctx *Context) compileLeave(op int32) {
	rt := ctx.rt
	rt.pushLeave(rt.forward(int(op)))
}

func (ctx *Context) compileBegin(_ int32) {
	rt := ctx.rt
	rt.openLeaves()
	rt.pushBranch(branchBegin, rt.comp.codePos)
}

func (ctx *Context) compileUntil(_ int32) {
	rt := ctx.rt
	at := rt.popBranch(branchBegin, "UNTIL not matched by BEGIN")
	rt.backward(opJz, at)
	rt.closeLeaves()
}

func (ctx *Context) compileWhile(_ int32) {
	rt := ctx.rt
	rt.pushLeave(rt.forward(opJz))
}

// compileRepeat closes both BEGIN .. WHILE .. REPEAT and BEGIN .. AGAIN.
func (ctx *Context) compileRepeat(_ int32) {
	rt := ctx.rt
	at := rt.popBranch(branchBegin, "REPEAT/AGAIN not matched by BEGIN")
	rt.backward(opJmp, at)
	rt.closeLeaves()
}

func (ctx *Context) compileCase(_ int32) {
	ctx.rt.openLeaves()
}

func (ctx *Context) compileOf(_ int32) {
	rt := ctx.rt
	rt.pushBranch(branchOf, rt.forward(opOf))
}

// compileEndOf leaves the CASE after a matched block, then lands the
// failed OF comparison here.
func (ctx *Context) compileEndOf(_ int32) {
	rt := ctx.rt
	at := rt.popBranch(branchOf, "ENDOF not matched by OF")
	rt.pushLeave(rt.forward(opJmp))
	rt.patch16(at, uint16(rt.comp.codePos))
}

// compileEndCase drops the unmatched selector; matched blocks leave past
// the drop.
func (ctx *Context) compileEndCase(_ int32) {
	rt := ctx.rt
	rt.codeOp(opDrop)
	rt.closeLeaves()
}

func (ctx *Context) jump(_ int32) {
	ctx.counter = uint(ctx.fetch16())
}

func (ctx *Context) jumpIfZero(_ int32) {
	addr := ctx.fetch16()
	if ctx.pop() == 0 {
		ctx.counter = uint(addr)
	}
}

func (ctx *Context) jumpIfNotZero(_ int32) {
	addr := ctx.fetch16()
	if ctx.pop() != 0 {
		ctx.counter = uint(addr)
	}
}

// doLoop ( limit index -- ) R:( -- limit index )
func (ctx *Context) doLoop(mode int32) {
	ctx.need(2)
	index := ctx.pop()
	limit := ctx.pop()
	ctx.rpush(limit)
	ctx.rpush(index)
	switch mode {
	case doPlus:
		if addr := ctx.fetch16(); index >= limit {
			ctx.counter = uint(addr)
		}
	case doMinus:
		if addr := ctx.fetch16(); index <= limit {
			ctx.counter = uint(addr)
		}
	}
}

// loopLimit returns the limit and the index cell of the innermost loop.
func (ctx *Context) loopLimit() (int32, int) {
	if ctx.rs.size() < 2 {
		ctx.failf("Indexing error in LOOP")
	}
	return ctx.rs.data[ctx.rs.ptr-1], ctx.rs.ptr
}

func (ctx *Context) loop(_ int32) {
	addr := ctx.fetch16()
	limit, i := ctx.loopLimit()
	ctx.rs.data[i]++
	if ctx.rs.data[i] < limit {
		ctx.counter = uint(addr)
	}
}

// stepLoop is @LOOP ( inc -- ); a negative increment counts down to limit.
func (ctx *Context) stepLoop(_ int32) {
	addr := ctx.fetch16()
	limit, i := ctx.loopLimit()
	inc := ctx.pop()
	ctx.rs.data[i] += inc
	index := ctx.rs.data[i]
	if inc >= 0 {
		if index >= limit {
			return
		}
	} else if index <= limit {
		return
	}
	ctx.counter = uint(addr)
}

// of ( value tag -- value | ) drops value on a match, else jumps.
func (ctx *Context) of(_ int32) {
	addr := ctx.fetch16()
	tag := ctx.pop()
	v, ok := ctx.ps.top()
	if !ok {
		ctx.fail(errStackEmpty)
	}
	if v == tag {
		ctx.ps.pop()
		return
	}
	ctx.counter = uint(addr)
}

func (ctx *Context) unloop(_ int32) {
	if ctx.rs.size() < 2 {
		ctx.fail(errRStackEmpty)
	}
	ctx.rs.pop()
	ctx.rs.pop()
}
