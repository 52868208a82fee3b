package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompile(t *testing.T) {
	rtTestCases{
		rtTest("program word").
			withInput(
				": ABSV DUP 0< IF NEGATE THEN ;",
				"DECOMPILE ABSV",
			).
			expectOutput("\\ABSV Decompilation\n: ABSV\nDUP\n0<\n[ 4 ] JZ\nNEGATE\n;\n\n\n"),

		rtTest("variable").
			withInput(
				"VARIABLE X",
				"5 X !",
				"DECOMPILE X",
			).
			expectOutput("\\X Decompilation\nVARIABLE X 5 X !\n\n"),

		rtTest("unset value").
			withInput(
				"0 VALUE V",
				"DECOMPILE V",
			).
			expectOutput("\\V Decompilation\n0 VALUE V\n\n"),

		rtTest("empty dictionary").
			withInput("DECOMPILEALL").
			expectOutput("There are no words in memory\n"),

		rtTest("unknown word").
			withInput("DECOMPILE NOPE").
			expectOutputContains("ERROR: "),

		rtTest("see").
			withVerbose(vbError|vbResponse|vbInfo).
			withInput(
				": SQ DUP * ;",
				"SEE SQ",
			).
			expectOutputContains("Decoding of word SQ\n\n       5 : DUP\n       6 : *\n       7 : ENDWORD\n\n\n"),

		rtTest("see data word").
			withVerbose(vbError|vbResponse|vbInfo).
			withInput(
				"VARIABLE X",
				"SEE X",
			).
			expectOutputContains("This is a 32 bit variable\n"),
	}.run(t)
}

// TestDecompile_roundTrip feeds DECOMPILEALL output to a fresh runtime, which
// must code the same dictionary bytes.
func TestDecompile_roundTrip(t *testing.T) {
	first, out := runScript(t, lines(
		": SUM5 0 5 0 DO I + LOOP ;",
		": FIRST3 10 0 DO I DUP 3 = IF LEAVE THEN DROP LOOP ;",
		": EVENS 10 0 DO I 2 @LOOP ;",
		": SGN DUP 0< IF DROP -1 ELSE 0> IF 1 ELSE 0 THEN THEN ;",
		": CD BEGIN DUP . 1- DUP 0= UNTIL DROP ;",
		": CW BEGIN DUP WHILE DUP . 1- REPEAT DROP ;",
		": NM CASE 1 OF 10 ENDOF 2 OF 20 ENDOF 0 SWAP ENDCASE ;",
		": LSUB { a b -- diff } a b - 1 +TO a ;",
		`: HI ."hello" ;`,
		": NAP 1 MS ;",
		"VARIABLE X",
		"7 X !",
		"10 VALUE V",
		": SETV 7 TO V 2 +TO V ;",
		": FACT DUP 1 > IF DUP 1- RECURSE * THEN ;",
		"42 CONSTANT ANSWER",
		": BIG 300 100000 -5 ;",
		"DECOMPILEALL",
	))
	i := strings.Index(out, "\nFSTART")
	require.NotEqual(t, -1, i, "expected decompilation in output %q", out)
	source := out[i:]
	assert.Contains(t, source, "FEND \\End of full decompilation")

	second, out := runScript(t, source)
	assert.NotContains(t, out, "ERROR", "expected decompiled source to compile")
	assert.Equal(t, first.arena.live(), second.arena.live(), "expected same dictionary bytes")
	assert.Equal(t, first.arena.lastWord, second.arena.lastWord)
}
