package main

import (
	"strings"
	"testing"

	"github.com/jcorbin/mforth/internal/nvstore"
)

func op(name string) byte { return byte(baseWords.mustCode(name)) }

func TestRuntime_words(t *testing.T) {
	rtTestCases{
		rtTest("square").
			withInput(
				": SQUARE DUP * ;",
				"7 SQUARE .",
			).
			expectWord("SQUARE", op("DUP"), op("*"), opEndWord).
			expectOutput("49 ").
			expectStack(),

		rtTest("sum loop").
			withInput(
				": SUM5 0 5 0 DO I + LOOP ;",
				"SUM5 .",
			).
			expectOutput("10 ").
			expectRStack(),

		rtTest("constant").
			withInput(
				"42 CONSTANT ANSWER",
				"ANSWER ANSWER + .",
			).
			expectWord("ANSWER", opNum1, 42, opEndWord).
			expectOutput("84 "),

		rtTest("wide literals").
			withInput(": BIG 300 100000 ;", "BIG").
			expectWord("BIG", opNum2, 0x2c, 0x01, opNum4, 0xa0, 0x86, 0x01, 0x00, opEndWord).
			expectStack(300, 100000),

		rtTest("variable").
			withInput(
				"VARIABLE X",
				"5 X !",
				"X @ .",
				"3 X +!",
				"X @ .",
			).
			expectOutput("5 8 "),

		rtTest("value").
			withInput(
				"10 VALUE V",
				"V .",
				"3 +TO V",
				"V .",
				": SETV 7 TO V ;",
				"SETV V .",
			).
			expectOutput("10 13 7 "),

		rtTest("locals").
			withInput(
				": LSUB { a b -- diff } a b - ;",
				"10 3 LSUB .",
				": LTO { a -- } 5 TO a a ;",
				"1 LTO .",
			).
			expectOutput("7 5 ").
			expectRStack(),

		rtTest("print string").
			withInput(
				`: HI ."hello" ;`,
				"HI",
			).
			expectOutput("hello"),

		rtTest("character literal").
			withInput("'A").
			expectStack(65),

		rtTest("hex literal").
			withInput("0x10 0xFFFFFFFF").
			expectStack(16, -1),
	}.run(t)
}

func TestRuntime_controlFlow(t *testing.T) {
	rtTestCases{
		rtTest("if else").
			withInput(
				": SGN DUP 0< IF DROP -1 ELSE 0> IF 1 ELSE 0 THEN THEN ;",
				"-5 SGN . 0 SGN . 7 SGN .",
			).
			expectOutput("-1 0 1 "),

		rtTest("begin until").
			withInput(
				": CD BEGIN DUP . 1- DUP 0= UNTIL DROP ;",
				"3 CD",
			).
			expectOutput("3 2 1 ").
			expectStack(),

		rtTest("begin while repeat").
			withInput(
				": CW BEGIN DUP WHILE DUP . 1- REPEAT DROP ;",
				"3 CW",
			).
			expectOutput("3 2 1 ").
			expectStack(),

		rtTest("case").
			withInput(
				": NM CASE 1 OF 10 ENDOF 2 OF 20 ENDOF 0 SWAP ENDCASE ;",
				"1 NM . 2 NM . 3 NM .",
			).
			expectOutput("10 20 0 ").
			expectStack(),

		rtTest("leave").
			withInput(
				": FIRST3 10 0 DO I DUP 3 = IF LEAVE THEN DROP LOOP ;",
				"FIRST3",
			).
			expectStack(3).
			expectRStack(),

		rtTest("step loop").
			withInput(
				": EVENS 10 0 DO I 2 @LOOP ;",
				"EVENS",
			).
			expectStack(0, 2, 4, 6, 8),

		rtTest("recurse").
			withInput(
				": FACT DUP 1 > IF DUP 1- RECURSE * THEN ;",
				"5 FACT .",
			).
			expectOutput("120 "),

		rtTest("exit").
			withInput(
				": EX 1 EXIT 2 ;",
				"EX",
			).
			expectStack(1),
	}.run(t)
}

func TestRuntime_errors(t *testing.T) {
	rtTestCases{
		rtTest("circular stack").
			withStackSize(4).
			withInput("1 2 3 4 5 6").
			expectStack(3, 4, 5, 6),

		rtTest("underflow").
			withInput("DROP").
			expectOutput("RUN ERROR: Stack is empty\n").
			expectStack(),

		rtTest("underflow backtrace").
			withInput(
				": D2 DROP DROP ;",
				"1 D2",
			).
			expectOutput(lines(
				"RUN ERROR: Stack is empty",
				"Backtrace: 5 >> D2 <<",
			)).
			expectRStack(),

		rtTest("error drops the rest of the line").
			withInput(
				"DROP 1 2",
				"3",
			).
			expectStack(3),

		rtTest("unknown token").
			withInput("FOO").
			expectOutput("ERROR: Token >>>FOO<<< not recognized in interactive mode\n"),

		rtTest("else without if").
			withInput(
				": BAD ELSE ;",
				": GOOD 1 ;",
			).
			expectOutput(lines(
				"Compilation aborted at line 1",
				"ERROR: ELSE not matched by IF",
			)).
			expectNoWord("BAD").
			expectLast("GOOD").
			expectNext(10),

		rtTest("branch left open").
			withInput(": OPEN 1 IF 2 ;").
			expectOutput(lines(
				"Compilation aborted at line 1",
				"ERROR: Branch inconsistency in word",
			)).
			expectNoWord("OPEN").
			expectNext(0),

		rtTest("directive in a word").
			withInput(": T1 TIMER ;").
			expectOutput(lines(
				"Compilation aborted at line 1",
				"ERROR: Directive TIMER cannot be compiled",
			)).
			expectNext(0),

		rtTest("not interactive").
			withInput("EXIT").
			expectOutput("ERROR: Word EXIT cannot be used interactively\n"),

		rtTest("abort").
			withInput(
				": AB 1 ABORT 2 ;",
				"AB",
			).
			expectOutput(lines(
				"RUN ERROR: ABORT executed",
				"Backtrace: 5 >> AB <<",
			)).
			expectStack(1),

		rtTest("semicolon outside a word").
			withInput(";").
			expectOutput("ERROR: Token >>>;<<< not recognized in interactive mode\n"),
	}.run(t)
}

func TestRuntime_dictionary(t *testing.T) {
	rtTestCases{
		rtTest("ext band").
			withInput(": NAP 1 MS ;", "NAP").
			expectWord("NAP", opNum1, 1, opExt1, 0, opEndWord).
			expectStack(),

		rtTest("alias").
			withInput(
				"3000 vrs",
				"VR .",
				"1 ts",
			).
			expectOutput("3000 "),

		rtTest("forget").
			withInput(
				": A 1 ;",
				": B 2 ;",
				"FORGET A",
			).
			expectNoWord("A").
			expectNoWord("B").
			expectNext(0),

		rtTest("forget while defining").
			withInput(": C [ FORGET C").
			expectOutput(lines(
				"Compilation aborted at line 1",
				"ERROR: Cannot forget while defining a word",
			)).
			expectNoWord("C").
			expectNext(0),

		rtTest("forget with a callback").
			withInput(
				": T0 ;",
				"60000 1 TIMER T0",
				"FORGET T0",
				"1 TStop",
			).
			expectOutput("ERROR: Cannot forget with registered callbacks\n").
			expectLast("T0"),

		rtTest("non ascii name").
			withInput(
				": A 1 ;",
				": ſſ 2 ;",
				"ſſ",
				"FORGET ſſ",
				"A",
			).
			expectStack(2, 1).
			expectNoWord("ſſ").
			expectLast("A").
			expectNext(7),

		rtTest("names fold ascii case").
			withInput(
				": sq dup * ;",
				"3 SQ",
			).
			expectLast("SQ").
			expectStack(9),

		rtTest("start word").
			withInput(
				": HI 1 ;",
				"@START HI",
			).
			expectStart("HI"),

		rtTest("redefine warning").
			withInput(
				": W 1 ;",
				": W 2 ;",
				"W",
			).
			expectOutput("WARNING: Redefining an User Dictionary entry\n").
			expectStack(2),

		rtTest("interactive entries cannot be redefined").
			withInput(": FORGET ;").
			expectOutput("ERROR: Cannot redefine an Interactive Dictionary entry\n").
			expectNext(0),

		rtTest("save and load").
			withStore(&nvstore.MemStore{}).
			withInput(
				": SQ DUP * ;",
				"SAVE",
				"FORGETALL",
				"LOAD",
				"3 SQ .",
			).
			expectOutput("9 "),

		rtTest("nothing to save").
			withInput("SAVE").
			expectOutput("ERROR: There are no programs on memory\n"),
	}.run(t)
}

func TestRuntime_assertions(t *testing.T) {
	rtTestCases{
		rtTest("skipped without debug").
			withInput(": CHK ASSERT( DUP 0 ) ;").
			expectWord("CHK", opEndWord),

		rtTest("passing check").
			withInput(
				"DEBUG-ON",
				": CHK ASSERT( DUP 7 ) ;",
				"5 CHK",
			).
			expectWord("CHK", op("DUP"), opNum1, 7, byte(opAssert), opEndWord).
			expectOutput("").
			expectStack(5),

		rtTest("failing check").
			withInput(
				"DEBUG-ON",
				": CHK ASSERT( DUP 7 ) ;",
				"0 CHK",
			).
			expectOutput(lines(
				"RUN ERROR: Assert failed with code 7",
				"Backtrace: 6 >> CHK <<",
			)).
			expectStack(0),

		rtTest("debug zone").
			withInput(
				"DEBUG-ON",
				": DZ DEBUG( 1 . ) 2 ;",
				"DZ",
			).
			expectOutput("1 ").
			expectStack(2),

		rtTest("nested zones").
			withInput(
				"DEBUG-ON",
				": NZ ASSERT( DEBUG( ) ;",
			).
			expectOutput(lines(
				"Compilation aborted at line 1",
				"ERROR: Nested debug zone",
			)).
			expectNoWord("NZ"),
	}.run(t)
}

func TestRuntime_boundaries(t *testing.T) {
	rtTestCases{
		rtTest("boolean results").
			withInput("0 0= 5 0< 5 0>").
			expectStack(-1, 0, -1),

		rtTest("return stack underflow").
			withInput("R>").
			expectOutput("RUN ERROR: Rstack is empty\n").
			expectStack().
			expectRStack(),

		rtTest("return stack drop underflow").
			withInput("RDROP").
			expectOutput("RUN ERROR: Rstack is empty\n").
			expectRStack(),

		rtTest("return stack overflow").
			withInput(
				": RO BEGIN 1 >R AGAIN ;",
				"RO",
			).
			expectOutput(lines(
				"RUN ERROR: Rstack overflow",
				"Backtrace: 5 >> RO <<",
			)).
			expectRStack(),

		rtTest("call depth overflow").
			withInput(
				": DEEP RECURSE ;",
				"DEEP",
			).
			expectOutputContains("RUN ERROR: Call stack overflow\nBacktrace: 7 >> DEEP <<\n").
			expectRStack(),

		rtTest("nested loops").
			withInput(": NEST 3 0 DO 2 0 DO J I + LOOP LOOP ;", "NEST").
			expectStack(0, 1, 1, 2, 2, 3).
			expectRStack(),

		// LEAVE exits the innermost CASE or loop
		rtTest("leave inside a case").
			withInput(
				": LC 10 0 DO I CASE 3 OF LEAVE ENDOF ENDCASE I LOOP ;",
				"LC",
			).
			expectStack(0, 1, 2, 3, 4, 5, 6, 7, 8, 9).
			expectRStack(),

		rtTest("leave a loop after a case").
			withInput(
				": LC2 10 0 DO I CASE 3 OF 1 ENDOF 0 SWAP ENDCASE IF LEAVE THEN I LOOP ;",
				"LC2",
			).
			expectStack(0, 1, 2).
			expectRStack(),

		rtTest("exit from a loop").
			withInput(
				": EL 10 0 DO I 3 = IF I EXIT THEN LOOP 99 ;",
				": CALLER EL 1 + ;",
				"CALLER",
			).
			expectStack(4).
			expectRStack(),

		rtTest("locals across a loop").
			withInput(
				": LL { n } 0 n 0 DO n + LOOP ;",
				"3 LL",
			).
			expectStack(9).
			expectRStack(),

		rtTest("duplicate locals").
			withInput(
				": DL { a a } a ;",
				"1 2 DL",
			).
			expectStack(1),

		rtTest("spaces are bounded").
			withInput("100000 SPACES").
			expectOutput(strings.Repeat(" ", 256)),

		rtTest("right justify is bounded").
			withInput("5 2147483647 .R").
			expectOutput(strings.Repeat(" ", 255) + "5"),
	}.run(t)
}
