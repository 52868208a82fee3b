package main

import (
	"context"
	"testing"
	"time"
)

// Test_session builds up a dictionary one layer at a time; each layer's test
// runs on a fresh runtime that first replays every earlier layer.
func Test_session(t *testing.T) {
	var s session

	s.addLayer("define", lines(
		": SQ DUP * ;",
		"VARIABLE X",
	), "3 SQ",
		expectRTWord("SQ", op("DUP"), op("*"), opEndWord),
		expectRTLast("X"),
		expectRTNext(17),
		expectRTStack(9))

	s.addLayer("values", lines(
		"10 VALUE V",
		": BUMP 1 +TO V ;",
	), "BUMP BUMP V .",
		expectRTOutput("12 "),
		expectRTStack(),
		expectRTRStack())

	s.addLayer("start", "@START SQ", "",
		expectRTStart("SQ"))

	s.addLayer("underflow", "", "DROP",
		expectRTOutput("RUN ERROR: Stack is empty\n"))

	s.addLayer("forget", "FORGET BUMP", "X @ .",
		expectRTNoWord("BUMP"),
		expectRTLast("V"),
		expectRTOutputContains("0 "))

	s.addLayer("interrupted", ": HANG BEGIN AGAIN ;", "HANG",
		func(rtt rtTestCase) rtTestCase { return rtt.withTimeout(50 * time.Millisecond) },
		expectRTError(context.DeadlineExceeded))

	s.tests.run(t)
}

type session struct {
	names  []string
	inputs []string
	tests  rtTestCases
}

func (s *session) addLayer(
	name, input, test string,
	wraps ...func(rtTestCase) rtTestCase,
) {
	rtt := rtTest(name)
	for _, prior := range s.inputs {
		if prior != "" {
			rtt = rtt.withInput(prior)
		}
	}
	if input != "" {
		rtt = rtt.withInput(input)
	}
	if test != "" {
		rtt = rtt.withInput(test)
	}
	rtt = rtt.apply(wraps...)

	s.names = append(s.names, name)
	s.inputs = append(s.inputs, input)
	s.tests = append(s.tests, rtt)
}
