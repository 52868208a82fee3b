package main

import (
	"fmt"

	"github.com/jcorbin/mforth/internal/runeio"
)

const asciiBS = 8

// tokenizer splits console lines into tokens; it only reads a new line
// once the current one is used up.
type tokenizer struct {
	maxLine int
	line    []byte
	pos     int

	comment    bool
	dotComment bool
}

func (tok *tokenizer) discardLine() { tok.pos = len(tok.line) }

func (tok *tokenizer) more() bool { return tok.pos < len(tok.line) }

// readLine reads the next non empty console line, editing and echoing it
// the way a terminal in raw mode needs.
func (rt *Runtime) readLine() {
	if err := rt.ctx.Err(); err != nil {
		rt.halt(err)
	}
	rt.interrupted.Store(false)
	rt.flags.compileLine++

	fg := rt.fg
	if fg.show(vbTop) && !rt.comp.editing() {
		if v, ok := fg.ps.top(); ok {
			rt.printf("<%d> Top: %d%s", fg.ps.size(), v, rt.brk)
		} else {
			rt.printf("<Empty Stack>%s", rt.brk)
		}
	}
	if fg.show(vbPrompt) {
		rt.writeString(rt.brk)
		rt.writeString(rt.prompt())
	}

	tok := &rt.tok
	tok.line = tok.line[:0]
	tok.pos = 0
	var first byte
	for {
		b := rt.readByte()
		if first == 0 {
			first = b
		}
		switch b {
		case '\r', '\n':
			if len(tok.line) > 0 {
				if fg.show(vbEcho) {
					rt.writeString(rt.brk)
				}
				rt.logf("<", "%s", runeio.Visible(string(tok.line)))
				return
			}
			// CR LF ends one line, not two
			if b == first {
				rt.flags.compileLine++
			}
		case asciiBS, runeio.DEL:
			if len(tok.line) > 0 {
				if fg.show(vbEcho) {
					rt.writeByte(b)
				}
				tok.line = tok.line[:len(tok.line)-1]
			}
		default:
			if name := runeio.Name(rune(b)); name != "" {
				rt.logf("#", "control byte %s", name)
			}
			if fg.show(vbEcho) {
				rt.writeByte(b)
			}
			if len(tok.line) < tok.maxLine-1 {
				tok.line = append(tok.line, b)
			}
		}
	}
}

func (rt *Runtime) prompt() string {
	var p string
	if rt.comp.editing() {
		p += "COMP"
	}
	if rt.flags.compileError {
		p += "CERR"
	}
	if rt.flags.fileError {
		p += "FERR"
	}
	return p + ">"
}

// nextToken returns the next space separated token. A double quote opens a
// region that runs to the next quote, whose spaces belong to the token; the
// closing quote is dropped. A backslash comments out the rest of the line.
func (rt *Runtime) nextToken() string {
	tok := &rt.tok
	for {
		if !tok.more() {
			rt.readLine()
			continue
		}

		if tok.comment || tok.dotComment {
			b := tok.line[tok.pos]
			tok.pos++
			if tok.dotComment {
				rt.writeByte(b)
			}
			if b == ')' {
				tok.comment, tok.dotComment = false, false
			}
			continue
		}

		for tok.more() && isSpace(tok.line[tok.pos]) {
			tok.pos++
		}
		if !tok.more() || tok.line[tok.pos] == '\\' {
			tok.discardLine()
			continue
		}

		start := tok.pos
		quotes := 0
		for ; tok.more(); tok.pos++ {
			b := tok.line[tok.pos]
			if b == '"' {
				quotes++
				if quotes == 2 {
					token := string(tok.line[start:tok.pos])
					tok.pos++
					return rt.traceToken(token)
				}
			}
			if quotes == 0 && (isSpace(b) || b == '\\') {
				break
			}
		}
		token := string(tok.line[start:tok.pos])
		if tok.more() && isSpace(tok.line[tok.pos]) {
			tok.pos++
		}
		return rt.traceToken(token)
	}
}

func (rt *Runtime) traceToken(token string) string {
	if rt.tracing() {
		rt.logf("#", "token %q", token)
	}
	return token
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

func (ctx *Context) comment(_ int32)    { ctx.rt.tok.comment = true }
func (ctx *Context) dotComment(_ int32) { ctx.rt.tok.dotComment = true }

func (tok *tokenizer) String() string {
	return fmt.Sprintf("%q@%d", tok.line, tok.pos)
}
