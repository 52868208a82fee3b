package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/jcorbin/mforth/internal/mem"
	"github.com/jcorbin/mforth/internal/runeio"
)

func (ctx *Context) printf(format string, args ...interface{}) {
	ctx.rt.printf(format, args...)
}

func (ctx *Context) dotS(_ int32) {
	if !ctx.show(vbResponse) {
		return
	}
	brk := ctx.rt.brk
	ctx.printf("%s<%d> ", brk, ctx.ps.size())
	for _, v := range ctx.ps.values() {
		ctx.printf("%d ", v)
	}
	ctx.printf("%s", brk)
	ctx.rt.flushFor(ctx)
}

func (ctx *Context) rdump(_ int32) {
	if !ctx.show(vbResponse) {
		return
	}
	brk := ctx.rt.brk
	ctx.printf("%sR:<%d> ", brk, ctx.rs.size())
	for _, v := range ctx.rs.values() {
		ctx.printf("%d ", v)
	}
	ctx.printf("%s", brk)
	ctx.rt.flushFor(ctx)
}

// listNames prints names in rows of four, each padded to width.
func (ctx *Context) listNames(names []string, width int) {
	brk := ctx.rt.brk
	for i, name := range names {
		if i%4 == 0 {
			ctx.printf("  ")
		}
		ctx.printf("%-*s", width, name)
		if i%4 == 3 {
			ctx.printf("%s", brk)
		}
	}
	if len(names)%4 != 0 {
		ctx.printf("%s", brk)
	}
}

func (d dictionary) visibleNames() (names []string) {
	for _, ent := range d {
		if ent.name != "" && ent.handler != nil && ent.flags&dfNoCompile == 0 {
			names = append(names, ent.name)
		}
	}
	return names
}

func (ctx *Context) words(_ int32) {
	if !ctx.show(vbResponse) {
		return
	}
	brk := ctx.rt.brk
	ctx.printf("%sBase dictionary:%s%s", brk, brk, brk)
	ctx.listNames(baseWords.visibleNames(), 18)
	ctx.printf("%s%sInteractive dictionary:%s%s", brk, brk, brk, brk)
	ctx.listNames(interactiveWords.visibleNames(), 18)
	ctx.printf("%s%sGenerator dictionary:%s%s", brk, brk, brk, brk)
	ctx.listNames(generatorWords.visibleNames(), 18)
	ctx.userWordList()
	ctx.printf("%s", brk)
	ctx.rt.flushFor(ctx)
}

// userWordList lists user words, oldest first.
func (ctx *Context) userWordList() {
	rt := ctx.rt
	brk := rt.brk
	ctx.printf("%s%sUser dictionary:%s%s", brk, brk, brk, brk)
	hs := rt.arena.words()
	if len(hs) == 0 {
		ctx.printf("  <EMPTY>%s", brk)
	}
	names := make([]string, len(hs))
	for i, h := range hs {
		names[len(hs)-1-i] = rt.arena.name(h)
	}
	ctx.listNames(names, 20)
	ctx.printf("%s", brk)
}

func (ctx *Context) userWords(_ int32) {
	if !ctx.show(vbResponse) {
		return
	}
	ctx.userWordList()
	ctx.printf("%s", ctx.rt.brk)
	ctx.rt.flushFor(ctx)
}

// describeWord returns the ULIST description of h.
func (rt *Runtime) describeWord(h WordHandle) string {
	a := rt.arena
	size := int(a.end(h)) - int(h)
	marker := a.byteAt(uint(h))
	data := uint(h) + 1
	sized := func(s string, want int) string {
		if size != want {
			s += fmt.Sprintf(" Allocates %d bytes!!", size-1)
		}
		return s
	}
	switch marker {
	case opEndWord:
		return " : Null Program"
	case opVar:
		return sized(fmt.Sprintf(" = %d (32bit Variable)", int32(rt.load32(data))), 5)
	case opVarH:
		return sized(fmt.Sprintf(" = %d (16bit Variable)", int16(a.half(data))), 3)
	case opVarC:
		return sized(fmt.Sprintf(" = %d (8bit Variable)", int8(a.byteAt(data))), 2)
	case opVal:
		return sized(fmt.Sprintf(" = %d (32bit Value)", int32(rt.load32(data))), 5)
	case opValH:
		return sized(fmt.Sprintf(" = %d (16bit Value)", int16(a.half(data))), 3)
	case opValC:
		return sized(fmt.Sprintf(" = %d (8bit Value)", int8(a.byteAt(data))), 2)
	case opNum4:
		if a.byteAt(data+4) == opEndWord {
			return fmt.Sprintf(" = %d (32bit Constant)", int32(rt.load32(data)))
		}
	case opNum2:
		if a.byteAt(data+2) == opEndWord {
			return fmt.Sprintf(" = %d (16bit Constant)", int16(a.half(data)))
		}
	case opNum1:
		if a.byteAt(data+1) == opEndWord {
			return fmt.Sprintf(" = %d (8bit Constant)", int8(a.byteAt(data)))
		}
	case opCreate:
		return fmt.Sprintf(" : Create word of %d bytes", size-1)
	}
	return fmt.Sprintf(" : Program word of %d bytes", size)
}

func (rt *Runtime) load32(pos uint) uint32 {
	v, _ := rt.arena.mem.Load32(pos)
	return v
}

func (ctx *Context) userList(_ int32) {
	if !ctx.show(vbResponse) {
		return
	}
	rt := ctx.rt
	brk := rt.brk
	ctx.printf("%s%sUser dictionary listing:%s%s", brk, brk, brk, brk)
	hs := rt.arena.words()
	if len(hs) == 0 {
		ctx.printf("  <EMPTY>%s", brk)
	}
	for i := len(hs) - 1; i >= 0; i-- {
		ctx.printf("  %s%s%s", rt.arena.name(hs[i]), rt.describeWord(hs[i]), brk)
	}
	ctx.printf("%s", brk)
	rt.flushFor(ctx)
}

// dumpMemory prints n bytes of m from start, eight per line, in the
// radix chosen by DB_DEC or DB_HEX.
func (ctx *Context) dumpMemory(m *mem.Bytes, start, n uint) {
	rt := ctx.rt
	brk := rt.brk
	hex := rt.flags.hexDump
	ctx.printf("%s", brk)
	line := make([]byte, 0, 8)
	for pos := start; pos < start+n; pos += 8 {
		if hex {
			ctx.printf("%10xh : ", pos)
		} else {
			ctx.printf("%10d : ", pos)
		}
		line = line[:0]
		for i := uint(0); i < 8; i++ {
			b, err := m.Load8(pos + i)
			if pos+i >= start+n || err != nil {
				if hex {
					ctx.printf("   ")
				} else {
					ctx.printf("    ")
				}
				continue
			}
			if hex {
				ctx.printf("%2x ", b)
			} else {
				ctx.printf("%3d ", b)
			}
			line = append(line, runeio.Printable(b))
		}
		ctx.printf("| %s%s", line, brk)
	}
	ctx.printf("%s", brk)
	rt.flushFor(ctx)
}

// clampDump pops ( start length ) and bounds them to m.
func (ctx *Context) clampDump(m *mem.Bytes) (start, n uint, ok bool) {
	ctx.need(2)
	length := int64(ctx.pop())
	pos := int64(uint32(ctx.pop()))
	base, end := int64(m.Base), int64(m.End())
	if !ctx.show(vbResponse) || length <= 0 || pos < base || pos >= end {
		return 0, 0, false
	}
	if pos+length > end {
		length = end - pos
	}
	return uint(pos), uint(length), true
}

func (ctx *Context) dump(_ int32) {
	m := ctx.rt.arena.mem
	if start, n, ok := ctx.clampDump(m); ok {
		ctx.dumpMemory(m, start, n)
	}
}

// memDump dumps anywhere in the address space.
func (ctx *Context) memDump(_ int32) {
	if ctx.ps.size() >= 2 && uint32(ctx.ps.peek(1)) >= padBase {
		m := ctx.rt.pad
		if start, n, ok := ctx.clampDump(m); ok {
			ctx.dumpMemory(m, start, n)
		}
		return
	}
	ctx.dump(0)
}

func (ctx *Context) userData(_ int32) {
	if !ctx.show(vbResponse) {
		return
	}
	rt := ctx.rt
	a := rt.arena
	brk := rt.brk
	ctx.printf("%s  Next position to code : %d%s", brk, a.nextPos, brk)
	if a.lastWord == NoWord {
		ctx.printf("  Last coded word : NONE%s", brk)
	} else {
		ctx.printf("  Last coded word (%d) : %s%s", a.lastWord, a.name(a.lastWord), brk)
	}
	ctx.printf("  Free memory : %d Bytes%s", a.free(), brk)
	ctx.printf("  Start word : ")
	if a.startWord == NoWord {
		ctx.printf(" NOT DEFINED%s", brk)
	} else {
		ctx.printf("%s%s", a.name(a.startWord), brk)
	}
	ctx.printf("%s", brk)
	rt.flushFor(ctx)
}

func (ctx *Context) showFlags(_ int32) {
	if !ctx.show(vbResponse) {
		return
	}
	rt := ctx.rt
	brk := rt.brk
	truth := func(b bool) string {
		if b {
			return " TRUE"
		}
		return " FALSE"
	}
	ctx.printf("%sCompile time capabilities%s", brk, brk)
	ctx.printf("  Debug is enabled%s", brk)
	ctx.printf("  Threads are enabled%s%s", brk, brk)
	ctx.printf("Main Flags%s", brk)
	ctx.printf("  User dictionary was loaded: %s%s", truth(rt.flags.loaded), brk)
	ctx.printf("  Start word was executed: %s%s", truth(rt.flags.startRan), brk)
	ctx.printf("  Debug/Assert is active: %s%s", truth(rt.flags.debugOn), brk)
	ctx.printf("  Debug in hexadecimal: %s%s", truth(rt.flags.hexDump), brk)
	ctx.printf("%s", brk)
	rt.flushFor(ctx)
}

func (ctx *Context) dumpRadix(radix int32) { ctx.rt.flags.hexDump = radix == 16 }

func (ctx *Context) showLimits(_ int32) {
	if !ctx.show(vbResponse) {
		return
	}
	rt := ctx.rt
	lim := rt.limits
	brk := rt.brk
	ctx.printf("%sMForth current limits:%s%s", brk, brk, brk)
	ctx.printf("  Parameter stack size: %d cells%s", lim.StackSize, brk)
	ctx.printf("  Return stack size: %d cells%s%s", lim.RStackSize, brk, brk)
	ctx.printf("  Pad size: %d bytes%s%s", lim.PadSize, brk, brk)
	ctx.printf("  Maximum console line length: %d chars%s", lim.MaxLine, brk)
	ctx.printf("  Maximum word name length: %d chars%s%s", lim.MaxToken, brk, brk)
	ctx.printf("  Maximum user dictionary size: %d Bytes%s", lim.ArenaSize, brk)
	ctx.printf("  Maximum number of locals in a word: %d%s%s", lim.MaxLocals, brk, brk)
	ctx.printf("  Maximum number of background threads: %d%s", lim.MaxThreads, brk)
	ctx.printf("  Maximum thread priority: %d%s", maxPriority, brk)
	ctx.printf("  Minimum thread priority: %d%s%s", minPriority, brk, brk)
	ctx.printf("  Int32 (Cell) ranges from %d to %d%s", math.MinInt32, math.MaxInt32, brk)
	ctx.printf("  Int16 (Half Cell) ranges from %d to %d%s", math.MinInt16, math.MaxInt16, brk)
	ctx.printf("  Int8 (Char) ranges from %d to %d%s%s", math.MinInt8, math.MaxInt8, brk, brk)
	ctx.printf("  Number of software timers: %d%s", numTimers, brk)
	ctx.printf("%s", brk)
	rt.flushFor(ctx)
}

func (ctx *Context) userWordDump(_ int32) {
	rt := ctx.rt
	h := rt.arena.locate(rt.nextToken())
	if h == NoWord {
		panic(interactiveError{errWordNotFound})
	}
	if !ctx.show(vbResponse) {
		return
	}
	start := rt.arena.start(h)
	end := rt.arena.end(h)
	brk := rt.brk
	ctx.printf("%s%sWord position : %d%s", brk, brk, h, brk)
	ctx.printf("Word size : %d%s", end-start, brk)
	ctx.dumpMemory(rt.arena.mem, start, end-start)
}

// helpText expands the help markup: '#' breaks the line, '$' separates the
// stack effect.
func (rt *Runtime) helpText(help string) string {
	r := strings.NewReplacer("#", rt.brk+"   ", "$", " -- ")
	return "   " + r.Replace(help)
}

func (ctx *Context) printHelp(ent *dictEntry) {
	brk := ctx.rt.brk
	ctx.printf("%s   %s", brk, ent.name)
	if ent.flags&dfDirective != 0 {
		ctx.printf(" <word>  ")
	}
	if ent.flags&dfNI != 0 {
		ctx.printf("   [PROGRAM ONLY]")
	}
	if ent.flags&dfAddr != 0 {
		ctx.printf("   [ADDR FOLLOWS]")
	}
	ctx.printf("%s%s%s%s", brk, ctx.rt.helpText(ent.help), brk, brk)
}

// wordHelp is WH <word>: it names the dictionary holding the word.
func (ctx *Context) wordHelp(_ int32) {
	rt := ctx.rt
	name := rt.nextToken()
	if !ctx.show(vbInfo) {
		return
	}
	brk := rt.brk
	switch {
	case interactiveWords.search(name) >= 0:
		ctx.printf("Found in Interactive dictionary:%s", brk)
		ctx.printHelp(&interactiveWords[interactiveWords.search(name)])
	case rt.arena.locate(name) != NoWord:
		ctx.printf("Found in User dictionary%sHelp is not available here%s%s", brk, brk, brk)
	case generatorWords.search(name) >= 0:
		ctx.printf("Found in Generator dictionary:%s", brk)
		ctx.printHelp(&generatorWords[generatorWords.search(name)])
	case baseWords.search(name) >= 0 && baseWords[baseWords.search(name)].flags&dfNoCompile == 0:
		ctx.printf("Found in Base dictionary:%s", brk)
		ctx.printHelp(&baseWords[baseWords.search(name)])
	default:
		ctx.printf("Word not found%s", brk)
	}
	ctx.printf("%s", brk)
}

func (ctx *Context) baseWordsHelp(_ int32) {
	if !ctx.show(vbInfo) {
		return
	}
	brk := ctx.rt.brk
	for _, sec := range []struct {
		title string
		words dictionary
	}{
		{"Interactive", interactiveWords},
		{"Generator", generatorWords},
		{"Base", baseWords},
	} {
		ctx.printf("%s%s dictionary:%s", brk, sec.title, brk)
		for i := range sec.words {
			ent := &sec.words[i]
			if ent.name == "" || ent.handler == nil || ent.flags&dfNoCompile != 0 {
				continue
			}
			ctx.printHelp(ent)
		}
	}
	ctx.printf("%s", brk)
}
