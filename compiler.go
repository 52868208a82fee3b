package main

import "encoding/binary"

type localMode uint8

const (
	localNone localMode = iota
	localEntry
	localComment
)

// compiler holds the state of the word being defined; nothing it codes is
// visible in the dictionary until the word commits.
type compiler struct {
	editWord  WordHandle
	codePos   uint
	compiling bool
	locked    bool

	branches []int32
	leaves   []int32

	localNames []string
	localIndex []int
	localFirst int
	localMode  localMode
}

func (comp *compiler) reset() {
	comp.editWord = NoWord
	comp.compiling = false
	comp.branches = comp.branches[:0]
	comp.leaves = comp.leaves[:0]
	comp.resetLocals()
}

func (comp *compiler) resetLocals() {
	comp.localNames = comp.localNames[:0]
	comp.localIndex = comp.localIndex[:0]
	comp.localFirst = 0
	comp.localMode = localNone
}

func (comp *compiler) editing() bool { return comp.editWord != NoWord }

// free returns the arena bytes left for coding.
func (rt *Runtime) codeFree() int {
	if rt.comp.editing() {
		return int(rt.arena.size()) - int(rt.comp.codePos)
	}
	return rt.arena.free()
}

// code appends raw bytes to the word being defined.
func (rt *Runtime) code(bs ...byte) {
	if rt.codeFree() < len(bs) {
		panic(compileError{errOutOfMemory})
	}
	rt.arena.mem.Stor(rt.comp.codePos, bs...)
	rt.comp.codePos += uint(len(bs))
}

func (rt *Runtime) code16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	rt.code(buf[:]...)
}

func (rt *Runtime) code32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	rt.code(buf[:]...)
}

// codeOp appends base opcode code, going through an extension band when
// it does not fit the primary one.
func (rt *Runtime) codeOp(code int) {
	bs, err := encodeOp(code)
	if err != nil {
		panic(compileError{err})
	}
	rt.code(bs...)
}

// patch16 rewrites a placeholder operand already coded at pos.
func (rt *Runtime) patch16(pos uint, v uint16) {
	rt.arena.mem.Stor16(pos, v)
}

// codeNumber appends the shortest literal holding v.
func (rt *Runtime) codeNumber(v int32) {
	switch {
	case v >= -128 && v <= 127:
		rt.code(opNum1, byte(v))
	case v >= -32768 && v <= 32767:
		rt.code(opNum2)
		rt.code16(uint16(v))
	default:
		rt.code(opNum4)
		rt.code32(uint32(v))
	}
}

func (rt *Runtime) codeUserWord(h WordHandle) {
	rt.code(opUserWord)
	rt.code16(uint16(h))
}

func (rt *Runtime) codePrintString(s string) {
	rt.code(opPString)
	rt.code([]byte(s)...)
	rt.code(0)
}

func (rt *Runtime) codeString(s string) {
	if len(s) > 255 {
		panic(compileErrorf("String too long"))
	}
	rt.code(opSString, byte(len(s)))
	rt.code([]byte(s)...)
}

// newWord reads the next token and opens a word of that name.
func (rt *Runtime) newWord() {
	name := rt.nextToken()
	rt.checkTokenLength(name)
	if rt.comp.editing() {
		panic(interactiveErrorf("Already defining a word"))
	}
	if i := baseWords.search(name); i >= 0 && baseWords[i].flags&dfNoCompile == 0 {
		rt.fg.warn("Redefining a Base Dictionary entry")
	}
	if interactiveWords.search(name) >= 0 {
		panic(interactiveErrorf("Cannot redefine an Interactive Dictionary entry"))
	}
	if generatorWords.search(name) >= 0 {
		rt.fg.warn("Redefining a Generator Dictionary entry")
	}
	if rt.arena.locate(name) != NoWord {
		rt.fg.warn("Redefining an User Dictionary entry")
	}
	if len(name)+4 > rt.arena.free() {
		panic(interactiveErrorf("Not enough space to define the new word"))
	}

	rt.mutable("define")
	h, err := rt.arena.header(rt.arena.nextPos, name)
	if err != nil {
		rt.unlockDict()
		panic(interactiveErrorf("Not enough space to define the new word"))
	}
	rt.comp.codePos = uint(h)
	rt.comp.editWord = h
}

// beginWord opens a word and enters compile mode.
func (rt *Runtime) beginWord() {
	rt.newWord()
	rt.comp.compiling = true
	rt.comp.resetLocals()
	if !rt.flags.inFile {
		rt.flags.compileLine = 1
	}
}

// commitWord makes the edited word visible.
func (rt *Runtime) commitWord() {
	rt.arena.lastWord = rt.comp.editWord
	rt.arena.nextPos = rt.comp.codePos
	rt.comp.reset()
	rt.unlockDict()
}

func (rt *Runtime) endWord() {
	if !rt.comp.editing() {
		panic(interactiveErrorf("Cannot use ; outside of word definitions"))
	}
	if rt.codeFree() < 1 {
		panic(compileErrorf("Not enough space to end the word"))
	}
	rt.code(opEndWord)
	if len(rt.comp.branches) > 0 || len(rt.comp.leaves) > 0 {
		panic(compileErrorf("Branch inconsistency in word"))
	}
	rt.commitWord()
}

func (rt *Runtime) checkTokenLength(token string) {
	if len(token) > rt.limits.MaxToken {
		panic(interactiveErrorf("Token >>>%s<<< longer than %d chars", token, rt.limits.MaxToken))
	}
}

// localIndexOf returns the return stack index of a declared local; when a
// name is declared twice the first declaration wins.
func (comp *compiler) localIndexOf(name string) (int, bool) {
	name = asciiUpper(name)
	for i := range comp.localNames {
		if comp.localNames[i] == name {
			return comp.localIndex[i], true
		}
	}
	return 0, false
}

// defineLocal codes the >R that moves a local's initial value off the
// parameter stack.
func (rt *Runtime) defineLocal(name string) {
	comp := &rt.comp
	if len(comp.branches) > 0 {
		panic(compileErrorf("Cannot define locals inside a loop"))
	}
	if len(comp.localNames) >= rt.limits.MaxLocals {
		panic(compileErrorf("No space for more locals"))
	}
	rt.codeOp(opToR)
	comp.localNames = append(comp.localNames, asciiUpper(name))
	comp.localIndex = append(comp.localIndex, 0)
}

// endLocals indexes the group just declared; its last local is nearest the
// frame base.
func (comp *compiler) endLocals() {
	next := len(comp.localNames)
	for i := comp.localFirst; i < next; i++ {
		comp.localIndex[i] = next + comp.localFirst - i - 1
	}
	comp.localFirst = next
	comp.localMode = localNone
}
