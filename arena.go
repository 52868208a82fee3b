package main

import (
	"fmt"

	"github.com/jcorbin/mforth/internal/mem"
)

// WordHandle is the arena offset of a user word's body; its header sits
// just below it:
//
//	name (uppercased) | nameLen:u8 | link:u16le | body...
//
// where link is the handle of the previously defined word.
type WordHandle uint16

// NoWord marks the end of the word list, or the absence of a word.
const NoWord WordHandle = 0xFFFF

const (
	imageVersion = 100
	imageMagic   = 0xF03234 + imageVersion

	wordHeaderSize = 3
)

// arena is the user dictionary: a fixed byte region holding every user word,
// filled with 0xFF where nothing has been coded.
type arena struct {
	mem       *mem.Bytes
	lastWord  WordHandle
	nextPos   uint
	startWord WordHandle
}

func newArena(size int) *arena {
	a := &arena{mem: mem.NewBytes(0, uint(size), 0xFF)}
	a.erase()
	return a
}

func (a *arena) size() uint { return a.mem.Size() }
func (a *arena) free() int  { return int(a.size()) - int(a.nextPos) }

func (a *arena) erase() {
	a.mem.Fill(0, a.size(), 0xFF)
	a.lastWord = NoWord
	a.startWord = NoWord
	a.nextPos = 0
}

// byteAt reads header and body bytes that are already known to be coded.
func (a *arena) byteAt(pos uint) byte {
	b, err := a.mem.Load8(pos)
	if err != nil {
		return 0xFF
	}
	return b
}

func (a *arena) half(pos uint) uint16 {
	v, err := a.mem.Load16(pos)
	if err != nil {
		return uint16(NoWord)
	}
	return v
}

func (a *arena) nameLen(h WordHandle) uint { return uint(a.byteAt(uint(h) - 3)) }
func (a *arena) link(h WordHandle) WordHandle {
	return WordHandle(a.half(uint(h) - 2))
}

// start returns the offset of the first byte of h's header.
func (a *arena) start(h WordHandle) uint { return uint(h) - wordHeaderSize - a.nameLen(h) }

func (a *arena) name(h WordHandle) string {
	if h == NoWord || uint(h) < wordHeaderSize {
		return ""
	}
	start := a.start(h)
	b, err := a.mem.Slice(start, start+a.nameLen(h))
	if err != nil {
		return ""
	}
	return string(b)
}

// words returns every word handle, most recently defined first.
func (a *arena) words() (hs []WordHandle) {
	limit := WordHandle(a.size())
	for h := a.lastWord; h != NoWord && h < limit; h = a.link(h) {
		hs = append(hs, h)
		if next := a.link(h); next != NoWord && next >= h {
			break
		}
	}
	return hs
}

// locate finds the most recently defined word with the given name.
func (a *arena) locate(name string) WordHandle {
	name = asciiUpper(name)
	for _, h := range a.words() {
		if a.name(h) == name {
			return h
		}
	}
	return NoWord
}

// end returns the offset just past h: the header start of the next newer
// word, or nextPos for the last one.
func (a *arena) end(h WordHandle) uint {
	newer := NoWord
	for _, w := range a.words() {
		if w == h {
			break
		}
		newer = w
	}
	if newer == NoWord {
		return a.nextPos
	}
	return a.start(newer)
}

// header writes a new word header at pos, returning the new word's handle.
func (a *arena) header(pos uint, name string) (WordHandle, error) {
	if len(name) > 0xFF {
		return NoWord, fmt.Errorf("word name of %d bytes is too long", len(name))
	}
	buf := make([]byte, 0, len(name)+wordHeaderSize)
	buf = append(buf, asciiUpper(name)...)
	buf = append(buf, byte(len(name)), byte(a.lastWord), byte(a.lastWord>>8))
	if err := a.mem.Stor(pos, buf...); err != nil {
		return NoWord, err
	}
	return WordHandle(pos + uint(len(buf))), nil
}

// forget drops h and every word defined after it.
func (a *arena) forget(h WordHandle) {
	start := a.start(h)
	a.mem.Fill(start, a.nextPos, 0xFF)
	a.lastWord = a.link(h)
	a.nextPos = start
	if a.startWord != NoWord && a.startWord >= h {
		a.startWord = NoWord
	}
}

// live returns the coded part of the arena without copying.
func (a *arena) live() []byte {
	b, _ := a.mem.Slice(0, a.nextPos)
	return b
}

// asciiUpper uppercases ASCII letters only, so that a name keeps its byte
// length in the header.
func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		b[i] = upper(c)
	}
	return string(b)
}
