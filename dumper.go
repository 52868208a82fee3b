package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// rtDumper writes a host side dump of a runtime: its stacks, then every
// dictionary word with its header and decoded program.
type rtDumper struct {
	rt  *Runtime
	out io.Writer

	addrWidth int
	rawWords  bool
}

func (dump rtDumper) dump() {
	rt := dump.rt
	a := rt.arena
	fmt.Fprintf(dump.out, "# Runtime Dump\n")
	fmt.Fprintf(dump.out, "  next: %v last: %v start: %v free: %v\n",
		a.nextPos, a.lastWord, a.startWord, a.free())
	dump.dumpStacks()
	dump.dumpWords()
}

func (dump rtDumper) dumpStacks() {
	fg := dump.rt.fg
	fmt.Fprintf(dump.out, "  stack: %v\n", fg.ps.values())
	fmt.Fprintf(dump.out, "  rstack: %v\n", fg.rs.values())
}

func (dump rtDumper) dumpWords() {
	rt := dump.rt
	a := rt.arena
	if dump.addrWidth == 0 {
		dump.addrWidth = len(strconv.Itoa(int(a.size()))) + 1
	}
	hs := a.words()
	fmt.Fprintf(dump.out, "# Dictionary of %d words\n", len(hs))
	var buf bytes.Buffer
	for i := len(hs) - 1; i >= 0; i-- {
		h := hs[i]
		fmt.Fprintf(&buf, "  @% *v %v%v", dump.addrWidth, uint(h), a.name(h), rt.describeWord(h))
		if h == a.startWord {
			buf.WriteString(" start")
		}
		buf.WriteByte('\n')
		if _, isData := dataWordKinds[a.byteAt(uint(h))]; !isData {
			for _, in := range rt.program(h, false) {
				fmt.Fprintf(&buf, "    @% *v %v\n", dump.addrWidth, in.at, in.text)
			}
		}
		if dump.rawWords {
			code, _ := a.mem.Slice(uint(h), a.end(h))
			fmt.Fprintf(&buf, "    % *v % x\n", dump.addrWidth, "", code)
		}
		buf.WriteTo(dump.out)
	}
}
