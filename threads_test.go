package main

import "testing"

const spinWord = ": SPIN BEGIN 1 MS AGAIN ;"

func TestThreads(t *testing.T) {
	rtTestCases{
		rtTest("launch").
			withInput(
				spinWord,
				"THREAD SPIN",
				"TKILLALL",
			).
			expectStack(1).
			expectOutput(""),

		rtTest("no free slots").
			withThreads(1).
			withInput(
				spinWord,
				"THREAD SPIN",
				"THREAD SPIN",
				"TLIST",
				"TKILLALL",
			).
			expectOutput(lines(
				"RUN ERROR: No free thread slots",
				"",
				"  1 : SPIN Prio[0]  Running",
			)).
			expectStack(1, 0),

		rtTest("invalid priority").
			withInput(
				spinWord,
				"200 THPRIO SPIN",
			).
			expectOutput("RUN ERROR: Invalid priority\n").
			expectStack(0),

		rtTest("forget with a running thread").
			withInput(
				spinWord,
				"THREAD SPIN",
				"FORGET SPIN",
				"TKILLALL",
			).
			expectOutput("ERROR: Cannot forget with running background processes\n").
			expectStack(1).
			expectLast("SPIN"),

		rtTest("kill").
			withInput(
				spinWord,
				"THREAD SPIN",
				"TKILL",
			).
			expectStack(),

		rtTest("kill idle slot").
			withInput("2 TKILL").
			expectOutput("RUN ERROR: This thread is not running\n"),

		rtTest("kill bad number").
			withInput("9 TKILL").
			expectOutput("RUN ERROR: Invalid thread number\n"),

		rtTest("thread sees a copy of the stack").
			withInput(
				": SUM2 + DROP ;",
				"1 2 THREAD SUM2",
			).
			expectStack(1, 2, 1),

		rtTest("compiled launch").
			withInput(
				spinWord,
				": GO THREAD SPIN ;",
				"GO",
				"TKILLALL",
			).
			expectWord("GO", opThread, 0x07, 0x00, opEndWord).
			expectStack(1),

		rtTest("empty list").
			withInput("TLIST").
			expectOutput("\nNo active threads\n"),
	}.run(t)
}
