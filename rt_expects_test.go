package main

// @generated from rt_test.go

//go:generate go run scripts/gen_rt_expects.go -- rt_test.go rt_expects_test.go

func expectRTError(err error) func(rtTestCase) rtTestCase {
	return func(rtt rtTestCase) rtTestCase {
		return rtt.expectError(err)
	}
}

func expectRTStack(values ...int32) func(rtTestCase) rtTestCase {
	return func(rtt rtTestCase) rtTestCase {
		return rtt.expectStack(values...)
	}
}

func expectRTRStack(values ...int32) func(rtTestCase) rtTestCase {
	return func(rtt rtTestCase) rtTestCase {
		return rtt.expectRStack(values...)
	}
}

func expectRTOutput(output string) func(rtTestCase) rtTestCase {
	return func(rtt rtTestCase) rtTestCase {
		return rtt.expectOutput(output)
	}
}

func expectRTOutputContains(part string) func(rtTestCase) rtTestCase {
	return func(rtt rtTestCase) rtTestCase {
		return rtt.expectOutputContains(part)
	}
}

func expectRTWord(name string, code ...byte) func(rtTestCase) rtTestCase {
	return func(rtt rtTestCase) rtTestCase {
		return rtt.expectWord(name, code...)
	}
}

func expectRTNoWord(name string) func(rtTestCase) rtTestCase {
	return func(rtt rtTestCase) rtTestCase {
		return rtt.expectNoWord(name)
	}
}

func expectRTNext(pos uint) func(rtTestCase) rtTestCase {
	return func(rtt rtTestCase) rtTestCase {
		return rtt.expectNext(pos)
	}
}

func expectRTLast(name string) func(rtTestCase) rtTestCase {
	return func(rtt rtTestCase) rtTestCase {
		return rtt.expectLast(name)
	}
}

func expectRTStart(name string) func(rtTestCase) rtTestCase {
	return func(rtt rtTestCase) rtTestCase {
		return rtt.expectStart(name)
	}
}
