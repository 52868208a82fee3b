package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/mforth/internal/config"
	"github.com/jcorbin/mforth/internal/logio"
	"github.com/jcorbin/mforth/internal/nvstore"
)

type rtTestCases []rtTestCase

func (rtts rtTestCases) run(t *testing.T) {
	{
		var exclusive []rtTestCase
		for _, rtt := range rtts {
			if rtt.exclusive {
				exclusive = append(exclusive, rtt)
			}
		}
		if len(exclusive) > 0 {
			rtts = exclusive
		}
	}
	for _, rtt := range rtts {
		if !t.Run(rtt.name, rtt.run) {
			return
		}
	}
}

func rtTest(name string) (rtt rtTestCase) {
	rtt.name = name
	return rtt
}

type optFunc func(rt *Runtime)

func (f optFunc) apply(rt *Runtime) { f(rt) }

type rtTestCase struct {
	name    string
	config  []func(cfg *config.Config)
	opts    []interface{}
	expect  []func(t *testing.T, rt *Runtime)
	timeout time.Duration
	wantErr error

	exclusive   bool
	nextInputID int
}

func (rtt rtTestCase) apply(wraps ...func(rtTestCase) rtTestCase) rtTestCase {
	for _, wrap := range wraps {
		rtt = wrap(rtt)
	}
	return rtt
}

func (rtt rtTestCase) exclusiveTest() rtTestCase {
	rtt.exclusive = true
	return rtt
}

func (rtt rtTestCase) withOptions(opts ...Option) rtTestCase {
	for _, opt := range opts {
		rtt.opts = append(rtt.opts, opt)
	}
	return rtt
}

func (rtt rtTestCase) withConfig(fn func(cfg *config.Config)) rtTestCase {
	rtt.config = append(rtt.config, fn)
	return rtt
}

func (rtt rtTestCase) withStackSize(n int) rtTestCase {
	return rtt.withConfig(func(cfg *config.Config) { cfg.Limits.StackSize = n })
}

func (rtt rtTestCase) withThreads(n int) rtTestCase {
	return rtt.withConfig(func(cfg *config.Config) { cfg.Limits.MaxThreads = n })
}

func (rtt rtTestCase) withVerbose(level int) rtTestCase {
	rtt.opts = append(rtt.opts, WithVerbose(level))
	return rtt
}

func (rtt rtTestCase) withStore(st nvstore.Store) rtTestCase {
	rtt.opts = append(rtt.opts, WithStore(st))
	return rtt
}

func (rtt rtTestCase) withStack(values ...int32) rtTestCase {
	rtt.opts = append(rtt.opts, optFunc(func(rt *Runtime) {
		for _, v := range values {
			rt.fg.push(v)
		}
	}))
	return rtt
}

// withInput queues console lines, each ended by a line feed.
func (rtt rtTestCase) withInput(lines ...string) rtTestCase {
	input := strings.Join(lines, "\n") + "\n"
	rtt.opts = append(rtt.opts, func(rtt *rtTestCase, t *testing.T) Option {
		name := t.Name() + "/input"
		if id := rtt.nextInputID; id > 0 {
			name += "_" + strconv.Itoa(id+1)
		}
		rtt.nextInputID++
		return WithInput(namedReader{name, strings.NewReader(input)})
	})
	return rtt
}

func (rtt rtTestCase) withTimeout(timeout time.Duration) rtTestCase {
	rtt.timeout = timeout
	return rtt
}

func (rtt rtTestCase) expectError(err error) rtTestCase {
	rtt.wantErr = err
	return rtt
}

func (rtt rtTestCase) expectStack(values ...int32) rtTestCase {
	rtt.expect = append(rtt.expect, func(t *testing.T, rt *Runtime) {
		if values == nil {
			values = []int32{}
		}
		assert.Equal(t, values, rt.fg.ps.values(), "expected stack values")
	})
	return rtt
}

func (rtt rtTestCase) expectRStack(values ...int32) rtTestCase {
	rtt.expect = append(rtt.expect, func(t *testing.T, rt *Runtime) {
		if values == nil {
			values = []int32{}
		}
		assert.Equal(t, values, rt.fg.rs.values(), "expected return stack values")
	})
	return rtt
}

func (rtt rtTestCase) expectOutput(output string) rtTestCase {
	var out strings.Builder
	rtt.opts = append(rtt.opts, WithOutput(&out))
	rtt.expect = append(rtt.expect, func(t *testing.T, rt *Runtime) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return rtt
}

func (rtt rtTestCase) expectOutputContains(part string) rtTestCase {
	var out strings.Builder
	rtt.opts = append(rtt.opts, WithOutput(&out))
	rtt.expect = append(rtt.expect, func(t *testing.T, rt *Runtime) {
		assert.Contains(t, out.String(), part, "expected output part")
	})
	return rtt
}

func (rtt rtTestCase) expectWord(name string, code ...byte) rtTestCase {
	rtt.expect = append(rtt.expect, func(t *testing.T, rt *Runtime) {
		h := rt.arena.locate(name)
		if assert.NotEqual(t, NoWord, h, "expected word %q to be defined", name) {
			body, _ := rt.arena.mem.Slice(uint(h), rt.arena.end(h))
			assert.Equal(t, code, body, "expected %q body", name)
		}
	})
	return rtt
}

func (rtt rtTestCase) expectNoWord(name string) rtTestCase {
	rtt.expect = append(rtt.expect, func(t *testing.T, rt *Runtime) {
		assert.Equal(t, NoWord, rt.arena.locate(name), "expected no word %q", name)
	})
	return rtt
}

func (rtt rtTestCase) expectNext(pos uint) rtTestCase {
	rtt.expect = append(rtt.expect, func(t *testing.T, rt *Runtime) {
		assert.Equal(t, pos, rt.arena.nextPos, "expected next code position")
	})
	return rtt
}

func (rtt rtTestCase) expectLast(name string) rtTestCase {
	rtt.expect = append(rtt.expect, func(t *testing.T, rt *Runtime) {
		assert.Equal(t, name, rt.arena.name(rt.arena.lastWord), "expected last word")
	})
	return rtt
}

func (rtt rtTestCase) expectStart(name string) rtTestCase {
	rtt.expect = append(rtt.expect, func(t *testing.T, rt *Runtime) {
		assert.Equal(t, name, rt.arena.name(rt.arena.startWord), "expected start word")
	})
	return rtt
}

func (rtt rtTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	rt := rtt.buildRT(t)
	if *traceTests {
		WithLogf(t.Logf).apply(rt)
	}
	rtt.runRTTest(context.Background(), t, rt)
}

func (rtt rtTestCase) runRTTest(ctx context.Context, t *testing.T, rt *Runtime) {
	const defaultTimeout = 2 * time.Second
	timeout := rtt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if t.Failed() {
			rtt.dumpToTest(t, rt)
		}
	}()

	var halted haltError
	if err := rtt.runRT(ctx, rt); rtt.wantErr != nil {
		assert.True(t, errors.Is(err, rtt.wantErr), "expected error: %v\ngot: %+v", rtt.wantErr, err)
	} else if errors.As(err, &halted) {
		assert.NoError(t, halted.error, "unexpected abnormal runtime halt")
	} else {
		assert.NoError(t, err, "unexpected runtime error")
	}

	if !t.Failed() {
		for _, expect := range rtt.expect {
			expect(t, rt)
		}
	}
}

func (rtt rtTestCase) runRT(ctx context.Context, rt *Runtime) (rerr error) {
	defer func() {
		if err := rt.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("rt.Close failed: %w", err)
		}
	}()
	return rt.Run(ctx)
}

func (rtt rtTestCase) buildRT(t *testing.T) *Runtime {
	cfg := testConfig()
	for _, fn := range rtt.config {
		fn(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Logf("invalid test config: %v", err)
		t.FailNow()
	}

	opts := []Option{WithConfig(cfg)}
	for _, o := range rtt.opts {
		switch impl := o.(type) {
		case func(rtt *rtTestCase, t *testing.T) Option:
			opts = append(opts, impl(&rtt, t))
		case Option:
			opts = append(opts, impl)
		default:
			t.Logf("unsupported rtTestCase opt type %T", o)
			t.FailNow()
		}
	}
	return New(opts...)
}

func (rtt rtTestCase) dumpToTest(t *testing.T, rt *Runtime) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	rtDumper{rt: rt, out: &lw}.dump()
}

// testConfig shows errors and responses only, with bare line feeds, so that
// expected output stays short.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Console.Verbose = vbError | vbResponse
	cfg.Console.Break = "lf"
	cfg.Console.Raw = false
	return cfg
}

//// utilities

var traceTests = flag.Bool("rt.trace", false, "trace runtime tests through t.Logf")

type namedReader struct {
	name string
	io.Reader
}

func (nr namedReader) Name() string { return nr.name }

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

// runScript runs input on a fresh runtime built from opts, returning its
// console output.
func runScript(t *testing.T, input string, opts ...Option) (*Runtime, string) {
	var out strings.Builder
	cfg := testConfig()
	opts = append([]Option{WithConfig(cfg), WithOutput(&out)}, opts...)
	opts = append(opts, WithInput(strings.NewReader(input)))
	rt := New(opts...)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, rt.Run(ctx), "unexpected runtime error")
	assert.NoError(t, rt.Close(), "unexpected close error")
	return rt, out.String()
}
