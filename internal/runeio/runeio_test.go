package runeio_test

import (
	"strings"
	"testing"

	"github.com/jcorbin/mforth/internal/runeio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteANSIRune(t *testing.T) {
	for _, tc := range []struct {
		name string
		r    rune
		out  string
	}{
		{"ascii", 'A', "A"},
		{"csi", runeio.CSI, "\x1b["},
		{"nel", 0x85, "\r\n"},
		{"utf8", 'ø', "ø"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var sb strings.Builder
			_, err := runeio.WriteANSIRune(&sb, tc.r)
			require.NoError(t, err)
			assert.Equal(t, tc.out, sb.String())
		})
	}
}

func TestWriteCSI(t *testing.T) {
	var sb strings.Builder
	_, err := runeio.WriteCSI(&sb, 'J', 2)
	require.NoError(t, err)
	_, err = runeio.WriteCSI(&sb, 'H', 1, 1)
	require.NoError(t, err)
	_, err = runeio.WriteCSI(&sb, 'm', 0)
	require.NoError(t, err)
	assert.Equal(t, "\x1b[2J\x1b[1;1H\x1b[0m", sb.String())
}

func TestVisible(t *testing.T) {
	assert.Equal(t, "plain", runeio.Visible("plain"))
	assert.Equal(t, "a^Hb^?^[", runeio.Visible("a\bb\x7f\x1b"))
	assert.Equal(t, "<ESC>", runeio.Name(0x1b))
	assert.Equal(t, "<DEL>", runeio.Name(runeio.DEL))
	assert.Equal(t, "", runeio.Name('a'))
	assert.Equal(t, byte('.'), runeio.Printable(0))
	assert.Equal(t, byte('z'), runeio.Printable('z'))
}
