package runeio

import "strings"

// ControlRune represents a named control codepoint.
type ControlRune struct {
	N string
	R rune
}

// C0Ctls contains the classic ASCII control characters.
var C0Ctls = [32]ControlRune{
	{"<NUL>", 0x00},
	{"<SOH>", 0x01},
	{"<STX>", 0x02},
	{"<ETX>", 0x03},
	{"<EOT>", 0x04},
	{"<ENQ>", 0x05},
	{"<ACK>", 0x06},
	{"<BEL>", 0x07},
	{"<BS>", 0x08},
	{"<HT>", 0x09},
	{"<NL>", 0x0A},
	{"<VT>", 0x0B},
	{"<NP>", 0x0C},
	{"<CR>", 0x0D},
	{"<SO>", 0x0E},
	{"<SI>", 0x0F},
	{"<DLE>", 0x10},
	{"<DC1>", 0x11},
	{"<DC2>", 0x12},
	{"<DC3>", 0x13},
	{"<DC4>", 0x14},
	{"<NAK>", 0x15},
	{"<SYN>", 0x16},
	{"<ETB>", 0x17},
	{"<CAN>", 0x18},
	{"<EM>", 0x19},
	{"<SUB>", 0x1A},
	{"<ESC>", 0x1B},
	{"<FS>", 0x1C},
	{"<GS>", 0x1D},
	{"<RS>", 0x1E},
	{"<US>", 0x1F},
}

// DEL is the one control character outside of C0.
const DEL = 0x7F

// CaretForm computes the ^-escaped printable form of a C0 control rune, or
// returns the empty string for any other rune.
func CaretForm(r rune) string {
	if r < 0x20 || r == DEL {
		return "^" + string(r^0x40)
	}
	return ""
}

// Name returns the mnemonic of a control rune like "<ESC>", or the empty
// string.
func Name(r rune) string {
	if r >= 0 && int(r) < len(C0Ctls) {
		return C0Ctls[r].N
	}
	if r == DEL {
		return "<DEL>"
	}
	return ""
}

// Visible renders any control characters in s in their caret form, so that
// console lines can be logged legibly.
func Visible(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if caret := CaretForm(r); caret != "" {
			sb.WriteString(caret)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Printable returns b if it is a printable ASCII byte, or '.' otherwise; it
// is used by memory dumps.
func Printable(b byte) byte {
	if b < 0x20 || b >= DEL {
		return '.'
	}
	return b
}

func isControl(r rune) bool { return r < 0x20 || r == DEL }
