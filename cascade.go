package main

import (
	"strconv"
	"strings"
)

// processToken resolves one console token: it runs it in interactive mode,
// or codes it into the word being defined.
func (rt *Runtime) processToken(token string) {
	switch {
	case rt.flags.compileError:
		if token == ";" {
			rt.flags.compileError = false
		}
		return

	case rt.flags.fileError:
		if strings.EqualFold(token, "FEND") {
			rt.flags.fileError = false
			rt.fg.fileEnd(0)
		}
		return

	case !rt.flags.debugOn && (rt.flags.assertZone || rt.flags.debugZone):
		if token == ")" {
			rt.flags.assertZone, rt.flags.debugZone = false, false
		}
		return
	}

	if rt.stringLiteral(token) {
		return
	}

	rt.checkTokenLength(token)

	compiling := rt.comp.compiling
	if compiling && rt.localToken(token) {
		return
	}

	if !compiling {
		if i := interactiveWords.search(token); i >= 0 {
			ent := &interactiveWords[i]
			ent.handler(rt.fg, ent.arg)
			return
		}
	}

	if h := rt.arena.locate(token); h != NoWord {
		if compiling {
			rt.codeUserWord(h)
		} else {
			rt.fg.execute(h, true)
		}
		return
	}

	if compiling {
		if i := generatorWords.search(token); i >= 0 {
			ent := &generatorWords[i]
			ent.handler(rt.fg, ent.arg)
			return
		}
	}

	if i := baseWords.search(token); i >= 0 {
		rt.baseWord(i, token)
		return
	}

	if v, ok := parseNumber(token); ok {
		rt.literal(v)
		return
	}

	if len(token) >= 2 && token[0] == '\'' {
		rt.literal(int32(token[1]))
		return
	}

	if compiling {
		panic(compileErrorf("Token >>>%s<<< not recognized in compile mode", token))
	}
	panic(interactiveErrorf("Token >>>%s<<< not recognized in interactive mode", token))
}

// stringLiteral handles ."text" S"text" and "text" tokens.
func (rt *Runtime) stringLiteral(token string) bool {
	var text string
	var print bool
	switch {
	case strings.HasPrefix(token, `."`):
		text, print = token[2:], true
	case len(token) >= 2 && (token[0] == 'S' || token[0] == 's') && token[1] == '"':
		text = token[2:]
	case strings.HasPrefix(token, `"`):
		text = token[1:]
	default:
		return false
	}
	if text == "" {
		return true
	}
	switch {
	case rt.comp.compiling && print:
		rt.codePrintString(text)
	case rt.comp.compiling:
		rt.codeString(text)
	case print:
		rt.writeString(text)
	default:
		panic(interactiveErrorf("Strings cannot be used in interactive mode"))
	}
	return true
}

// localToken handles tokens inside a { .. } declaration and references
// to declared locals.
func (rt *Runtime) localToken(token string) bool {
	comp := &rt.comp
	if comp.localMode != localNone && token != "--" && token != "}" {
		if comp.localMode == localEntry {
			rt.defineLocal(token)
		}
		return true
	}
	if i, ok := comp.localIndexOf(token); ok {
		rt.codeOp(opGetR)
		rt.code(byte(i))
		return true
	}
	return false
}

// baseWord runs or codes Base dictionary entry i.
func (rt *Runtime) baseWord(i int, token string) {
	ent := &baseWords[i]
	if ent.flags&dfNoCompile != 0 {
		return
	}
	if !rt.comp.compiling {
		if ent.flags&dfNI != 0 {
			panic(interactiveErrorf("Word %s cannot be used interactively", token))
		}
		ent.handler(rt.fg, ent.arg)
		return
	}
	if ent.flags&dfDirective != 0 {
		panic(compileErrorf("Directive %s cannot be compiled", ent.name))
	}
	rt.codeOp(i)
}

func (rt *Runtime) literal(v int32) {
	if rt.comp.compiling {
		rt.codeNumber(v)
	} else {
		rt.fg.push(v)
	}
}

// parseNumber accepts decimal numbers, optionally negative, and 0x
// prefixed hexadecimal ones; both wrap to 32 bits.
func parseNumber(token string) (int32, bool) {
	if token == "" {
		return 0, false
	}
	if len(token) > 2 && token[0] == '0' && (token[1] == 'x' || token[1] == 'X') {
		v, err := strconv.ParseUint(token[2:], 16, 64)
		if err != nil {
			return 0, false
		}
		return int32(uint32(v)), true
	}
	digits := token
	if digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}
