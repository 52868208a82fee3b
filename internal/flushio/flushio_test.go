package flushio_test

import (
	"bufio"
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/jcorbin/mforth/internal/flushio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriteFlusher(t *testing.T) {
	var buf bytes.Buffer
	wf := flushio.NewWriteFlusher(&buf)
	_, err := wf.Write([]byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", buf.String(), "buffers are written through")

	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	assert.Equal(t, flushio.WriteFlusher(bw), flushio.NewWriteFlusher(bw), "existing flushers are kept")

	assert.NotNil(t, flushio.NewWriteFlusher(nil), "nil writer discards")
}

func TestWriteFlushers(t *testing.T) {
	var a, b strings.Builder
	wa := bufio.NewWriter(&a)
	wb := bufio.NewWriter(&b)
	wf := flushio.WriteFlushers(wa, nil, flushio.WriteFlushers(wb))

	_, err := wf.Write([]byte("OK>"))
	require.NoError(t, err)
	assert.Equal(t, "", a.String(), "expected buffered output")
	require.NoError(t, wf.Flush())
	assert.Equal(t, "OK>", a.String())
	assert.Equal(t, "OK>", b.String())

	assert.Nil(t, flushio.WriteFlushers(), "expected no writer")
	assert.Equal(t, flushio.WriteFlusher(wa), flushio.WriteFlushers(nil, wa), "expected a single writer")
}

func TestLocked(t *testing.T) {
	var buf bytes.Buffer
	l := flushio.NewLocked(flushio.NewWriteFlusher(&buf))
	assert.Same(t, l, flushio.NewLocked(l), "expected no double wrapping")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Write([]byte("ab"))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, l.Flush())
	assert.Equal(t, strings.Repeat("ab", 800), buf.String(), "expected unbroken writes")

	var other bytes.Buffer
	prior, err := l.Swap(flushio.NewWriteFlusher(&other))
	require.NoError(t, err)
	assert.NotNil(t, prior)
	l.Write([]byte("x"))
	assert.Equal(t, "x", other.String())
}
