package fileinput_test

import (
	"io"
	"strings"
	"testing"

	"github.com/jcorbin/mforth/internal/fileinput"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

func readAll(t *testing.T, in *fileinput.Input) string {
	var sb strings.Builder
	for {
		b, err := in.ReadByte()
		if err == io.EOF {
			return sb.String()
		}
		require.NoError(t, err)
		sb.WriteByte(b)
	}
}

func TestInput_queue(t *testing.T) {
	var in fileinput.Input
	in.Push(
		namedReader{strings.NewReader(": SQUARE DUP * ;\r\n"), "a.fs"},
		nil,
		namedReader{strings.NewReader("7 SQUARE\n.S"), "b.fs"},
	)
	assert.True(t, in.Pending())
	assert.Equal(t, ": SQUARE DUP * ;\r\n7 SQUARE\n.S", readAll(t, &in))
	assert.False(t, in.Pending())

	assert.Equal(t, "b.fs:2", in.Last.Location.String())
	assert.Equal(t, ".S", in.Last.Buffer.String())
}

func TestInput_lines(t *testing.T) {
	var in fileinput.Input
	in.Push(namedReader{strings.NewReader("one\rtwo\r\nthree\n"), "lines"})

	var lines []string
	for {
		prior := in.Last.Line
		_, err := in.ReadByte()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if in.Last.Line != prior {
			lines = append(lines, in.Last.Location.String()+" "+in.Last.Buffer.String())
		}
	}
	assert.Equal(t, []string{
		"lines:1 one",
		"lines:2 two",
		"lines:3 three",
	}, lines)
}
