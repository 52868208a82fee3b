package main

import (
	"fmt"
	"strings"
)

// hidden names the decompiler gives to branch and local opcodes; the
// Generator dictionary codes them back.
var hiddenNames = map[int]string{
	opJmp:     "JMP",
	opJz:      "JZ",
	opJnz:     "JNZ",
	opDo:      "_DO",
	opPlusDo:  "P_DO",
	opMinusDo: "N_DO",
	opLoop:    "_LOOP",
	opAtLoop:  "_@LOOP",
	opOf:      "_OF",
	opSetR:    "SETR",
	opGetR:    "GETR",
	opAddR:    "ADDR",
}

// instruction is one decoded opcode of a program word.
type instruction struct {
	at   uint
	code int
	text string
}

// decode decodes the instruction at pos. Source form renders it so that
// compiling the text back yields the same bytes; otherwise it is rendered
// for SEE.
func (rt *Runtime) decode(h WordHandle, pos uint, source bool) (in instruction, next uint) {
	a := rt.arena
	in.at = pos
	code := int(a.byteAt(pos))
	pos++
	switch code {
	case opExt1, opExt2, opExt3:
		code = int(baseWords[code].arg) + int(a.byteAt(pos))
		pos++
	}
	in.code = code

	half := func() uint16 {
		v := a.half(pos)
		pos += 2
		return v
	}
	var sb strings.Builder
	switch code {
	case opNum1:
		fmt.Fprintf(&sb, "%d", int8(a.byteAt(pos)))
		pos++
	case opNum2:
		fmt.Fprintf(&sb, "%d", int16(half()))
	case opNum4:
		fmt.Fprintf(&sb, "%d", int32(rt.load32(pos)))
		pos += 4

	case opSString:
		n := uint(a.byteAt(pos))
		pos++
		b, _ := a.mem.Slice(pos, pos+n)
		fmt.Fprintf(&sb, `S"%s"`, b)
		pos += n
	case opPString:
		sb.WriteString(`."`)
		for b := a.byteAt(pos); b != 0 && pos < a.size(); b = a.byteAt(pos) {
			sb.WriteByte(b)
			pos++
		}
		pos++
		sb.WriteString(`"`)

	case opUserWord:
		if w := WordHandle(half()); source && w == h {
			sb.WriteString("RECURSE")
		} else {
			sb.WriteString(a.name(w))
		}
	case opThread:
		sb.WriteString("THREAD " + a.name(WordHandle(half())))
	case opThreadPrio:
		sb.WriteString("THPRIO " + a.name(WordHandle(half())))

	case opToVal, opToValH, opToValC, opAddToVal, opAddToValH, opAddToValC:
		name := a.name(WordHandle(half() - 1))
		verb := "TO"
		if code >= opAddToVal {
			verb = "+TO"
		}
		if !source {
			verb += [...]string{"32", "16", "8"}[(code-opToVal)%3]
		}
		sb.WriteString(verb + " " + name)

	case opEndWord:
		if source {
			sb.WriteString(";")
		} else {
			sb.WriteString(baseWords[code].name)
		}

	default:
		if code >= len(baseWords) {
			sb.WriteString(baseWords.nameOf(code))
			break
		}
		hidden, isHidden := hiddenNames[code]
		ent := &baseWords[code]
		switch {
		case source && isHidden && code == opDo:
			sb.WriteString(hidden)
		case source && isHidden && ent.flags&dfAddr != 0:
			rel := int(half()) - int(in.at)
			fmt.Fprintf(&sb, "[ %d ] %s", rel, hidden)
		case source && isHidden:
			fmt.Fprintf(&sb, "[ %d ] %s", a.byteAt(pos), hidden)
			pos++
		default:
			sb.WriteString(baseWords.nameOf(code))
			if ent.flags&dfAddr != 0 {
				fmt.Fprintf(&sb, " %d", half())
			}
			if ent.flags&dfByte != 0 {
				fmt.Fprintf(&sb, " %d", a.byteAt(pos))
				pos++
			}
		}
	}
	in.text = sb.String()
	return in, pos
}

// program decodes a program word up to and including its ENDWORD.
func (rt *Runtime) program(h WordHandle, source bool) (ins []instruction) {
	end := rt.arena.end(h)
	for pos := uint(h); pos < end; {
		var in instruction
		in, pos = rt.decode(h, pos, source)
		ins = append(ins, in)
		if in.code == opEndWord {
			break
		}
	}
	return ins
}

var dataWordKinds = map[byte]string{
	opVar:    "This is a 32 bit variable",
	opVarH:   "This is a 16 bit variable",
	opVarC:   "This is a 8 bit variable",
	opVal:    "This is a 32 bit value",
	opValH:   "This is a 16 bit value",
	opValC:   "This is a 8 bit value",
	opCreate: "This is a create field",
}

// see is SEE <word>: a listing of a program word, one instruction per line.
func (ctx *Context) see(_ int32) {
	rt := ctx.rt
	name := rt.nextToken()
	if !ctx.show(vbInfo) {
		return
	}
	h := rt.arena.locate(name)
	if h == NoWord {
		panic(interactiveError{errWordNotFound})
	}
	brk := rt.brk
	if kind, ok := dataWordKinds[rt.arena.byteAt(uint(h))]; ok {
		ctx.printf("%s%s", kind, brk)
		return
	}
	ctx.printf("Decoding of word %s%s%s", name, brk, brk)
	for _, in := range rt.program(h, false) {
		ctx.printf("%8d : %s%s", in.at, in.text, brk)
	}
	ctx.printf("%s%s", brk, brk)
}

// decompile prints h as console source that defines it again.
func (ctx *Context) decompile(h WordHandle) {
	rt := ctx.rt
	a := rt.arena
	brk := rt.brk
	name := a.name(h)
	size := a.end(h) - uint(h)
	data := uint(h) + 1

	ctx.printf("\\%s Decompilation%s", name, brk)

	extra := func(width uint) {
		for i := width + 1; i < size; i++ {
			if i == width+1 {
				ctx.printf("%s", brk)
			}
			ctx.printf("%d C, ", int8(a.byteAt(uint(h)+i)))
		}
		ctx.printf("%s%s", brk, brk)
	}

	marker := a.byteAt(uint(h))
	switch marker {
	case opVar, opVarH, opVarC:
		width := uint(markerWidth(int32(marker)))
		kw := [...]string{"VARIABLE", "HVARIABLE", "CVARIABLE"}[marker-opVar]
		st := [...]string{"!", "H!", "C!"}[marker-opVar]
		ctx.printf("%s %s", kw, name)
		if v := ctx.load(int32(data), int32(width)); v != 0 {
			ctx.printf(" %d %s %s", v, name, st)
		}
		extra(width)
		return

	case opVal, opValH, opValC:
		width := uint(markerWidth(int32(marker)))
		kw := [...]string{"VALUE", "HVALUE", "CVALUE"}[marker-opVal]
		ctx.printf("%d %s %s", ctx.load(int32(data), int32(width)), kw, name)
		extra(width)
		return

	case opCreate:
		ctx.printf("CREATE %s", name)
		extra(0)
		return
	}

	ctx.printf(": %s%s", name, brk)
	for _, in := range rt.program(h, true) {
		ctx.printf("%s%s", in.text, brk)
	}
	ctx.printf("%s%s", brk, brk)
}

func (ctx *Context) decompileWord(_ int32) {
	rt := ctx.rt
	name := rt.nextToken()
	if !ctx.show(vbResponse) {
		return
	}
	h := rt.arena.locate(name)
	if h == NoWord {
		panic(interactiveError{errWordNotFound})
	}
	ctx.decompile(h)
}

// decompileAll prints the whole dictionary, oldest word first, wrapped in
// FSTART .. FEND so it can be pasted back.
func (ctx *Context) decompileAll(_ int32) {
	rt := ctx.rt
	if !ctx.show(vbResponse) {
		return
	}
	brk := rt.brk
	hs := rt.arena.words()
	if len(hs) == 0 {
		ctx.printf("There are no words in memory%s", brk)
		return
	}
	ctx.printf("%sFSTART \\Start of full decompilation%s%s", brk, brk, brk)
	for i := len(hs) - 1; i >= 0; i-- {
		ctx.decompile(hs[i])
	}
	ctx.printf("FEND \\End of full decompilation%s%s", brk, brk)
}
