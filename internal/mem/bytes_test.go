package mem_test

import (
	"log"
	"os"
	"testing"

	"github.com/jcorbin/mforth/internal/logio"
	"github.com/jcorbin/mforth/internal/mem"
	"github.com/jcorbin/mforth/internal/panicerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Bytes(t *testing.T) {
	for _, tc := range []bytesTestCase{
		bytesTest("basic",
			"init", func(t *testing.T, m *mem.Bytes) {
				require.Equal(t, uint(16), m.Size(), "expected size")
				expectBytesAt(t, m, 0, 0xff, 0xff, 0xff, 0xff)
			},

			"stor8", func(t *testing.T, m *mem.Bytes) {
				require.NoError(t, m.Stor8(3, 9), "must stor8 @3")
				expectBytesAt(t, m, 2, 0xff, 9, 0xff)
			},

			"little endian 16", func(t *testing.T, m *mem.Bytes) {
				require.NoError(t, m.Stor16(4, 0x1234), "must stor16 @4")
				expectBytesAt(t, m, 4, 0x34, 0x12)
				val, err := m.Load16(4)
				require.NoError(t, err, "unexpected load16 error")
				require.Equal(t, uint16(0x1234), val)
			},

			"little endian 32", func(t *testing.T, m *mem.Bytes) {
				require.NoError(t, m.Stor32(8, 0xdeadbeef), "must stor32 @8")
				expectBytesAt(t, m, 8, 0xef, 0xbe, 0xad, 0xde)
				val, err := m.Load32(8)
				require.NoError(t, err, "unexpected load32 error")
				require.Equal(t, uint32(0xdeadbeef), val)
			},

			"fill", func(t *testing.T, m *mem.Bytes) {
				require.NoError(t, m.Fill(2, 6, 0), "must fill")
				expectBytesAt(t, m, 1, 0xff, 0, 0, 0, 0, 0xff)
			},
		),

		bytesTest("limits",
			"load past end", func(t *testing.T, m *mem.Bytes) {
				_, err := m.Load32(14)
				var lim mem.LimitError
				require.ErrorAs(t, err, &lim)
				assert.Equal(t, uint(14), lim.Addr)
				assert.Equal(t, "load32", lim.Op)
			},

			"no partial store", func(t *testing.T, m *mem.Bytes) {
				require.Error(t, m.Stor(14, 1, 2, 3))
				expectBytesAt(t, m, 14, 0xff, 0xff)
			},

			"fill backwards", func(t *testing.T, m *mem.Bytes) {
				require.Error(t, m.Fill(6, 2, 0))
			},
		),

		bytesTest("based",
			"rebase", func(t *testing.T, m *mem.Bytes) {
				m.Base = 0x100
				assert.False(t, m.Contains(0, 1), "expected low address to be outside")
				assert.True(t, m.Contains(0x100, 16), "expected whole region to be inside")
				assert.False(t, m.Contains(0x10f, 2), "expected straddle to be outside")
				require.NoError(t, m.Stor8(0x10f, 7))
				val, err := m.Load8(0x10f)
				require.NoError(t, err)
				assert.Equal(t, byte(7), val)
			},
		),
	} {
		t.Run(tc.name, func(t *testing.T) {
			tcLogOut := &logio.Writer{Logf: t.Logf}
			log.SetOutput(tcLogOut)
			defer log.SetOutput(os.Stderr)

			m := mem.NewBytes(0, 16, 0xff)
			for _, step := range tc.steps {
				if !t.Run(step.name, func(t *testing.T) {
					isolateTest(t, step.bind(m))
				}) {
					break
				}
			}
		})
	}
}

func isolateTest(t *testing.T, f func(t *testing.T)) {
	if err := panicerr.Recover(t.Name(), func() error {
		f(t)
		return nil
	}); err != nil {
		t.Logf("%+v", err)
		t.Fail()
	}
}

func expectBytesAt(t *testing.T, m *mem.Bytes, addr uint, values ...byte) {
	buf := make([]byte, len(values))
	require.NoError(t, m.LoadInto(addr, buf),
		"must load %v values from @0x%x", len(values), addr)
	require.Equal(t, values, buf, "expected values @0x%x", addr)
}

func bytesTest(name string, args ...interface{}) (tc bytesTestCase) {
	tc.name = name
	for i := 0; i < len(args); i++ {
		var step bytesTestStep

		step.name = args[i].(string)

		if i++; i >= len(args) {
			panic("bytesTest: missing function argument after name")
		}
		step.f = args[i].(func(t *testing.T, m *mem.Bytes))

		tc.steps = append(tc.steps, step)
	}
	return tc
}

type bytesTestCase struct {
	name  string
	steps []bytesTestStep
}

type bytesTestStep struct {
	name string
	f    func(t *testing.T, m *mem.Bytes)

	m *mem.Bytes
}

func (step bytesTestStep) bind(m *mem.Bytes) func(t *testing.T) {
	step.m = m
	return step.boundTest
}

func (step bytesTestStep) boundTest(t *testing.T) {
	step.f(t, step.m)
}
