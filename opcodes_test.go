package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeOp(t *testing.T) {
	for _, tc := range []struct {
		code int
		want []byte
	}{
		{opDrop, []byte{byte(opDrop)}},
		{ext1Base - 1, []byte{ext1Base - 1}},
		{ext1Base, []byte{opExt1, 0}},
		{ext1Base + 5, []byte{opExt1, 5}},
		{ext2Base, []byte{opExt2, 0}},
		{ext3Base + 249, []byte{opExt3, 249}},
	} {
		got, err := encodeOp(tc.code)
		if assert.NoError(t, err, "code %d", tc.code) {
			assert.Equal(t, tc.want, got, "code %d", tc.code)
		}
	}

	_, err := encodeOp(codeLimit)
	assert.ErrorIs(t, err, errExtOverflow)
}

func TestDictionary_layout(t *testing.T) {
	assert.Equal(t, "ASRT_CHECK", baseWords[opFirstWord].name)
	assert.Equal(t, ext1Base, baseWords.mustCode("MS"), "expected port words in the first extension band")
	assert.Equal(t, "TICKS", baseWords.nameOf(ext1Base+1))
	assert.Equal(t, "<op 240>", baseWords.nameOf(240))

	seen := make(map[string]int)
	for code, ent := range baseWords {
		if ent.name == "" {
			continue
		}
		prior, dup := seen[ent.name]
		assert.False(t, dup, "%q coded both as %d and %d", ent.name, prior, code)
		seen[ent.name] = code
	}

	for code, name := range hiddenNames {
		assert.NotEqual(t, -1, generatorWords.search(name), "expected generator entry for hidden %v (%d)", name, code)
	}
}

func TestDictionary_search(t *testing.T) {
	for _, tc := range []struct {
		token string
		want  string
	}{
		{"dup", "DUP"},
		{"Dup", "DUP"},
		{"TStop", "TStop"},
		{"ts", "TStop"},
		{"TS", "TStop"},
		{"vr", "VRef"},
		{"vrs", "VRefSet"},
		{"vrefset", "VRefSet"},
	} {
		i := baseWords.search(tc.token)
		if assert.NotEqual(t, -1, i, "expected %q to be found", tc.token) {
			assert.Equal(t, tc.want, baseWords[i].name, "searching %q", tc.token)
		}
	}

	assert.Equal(t, -1, baseWords.search("NOSUCHWORD"))
	assert.Equal(t, -1, baseWords.search("ENDWORD"), "expected internal markers to be unsearchable")
	assert.Equal(t, -1, baseWords.search("T"), "expected partial aliases to miss")
}

func TestAliasMatch(t *testing.T) {
	require.True(t, aliasMatch("VRefSet", "VRS"))
	assert.True(t, aliasMatch("VRefSet", "vrs"))
	assert.False(t, aliasMatch("VRefSet", "VR"))
	assert.False(t, aliasMatch("VRefSet", "VRSX"))
	assert.True(t, aliasMatch("DUP", "dup"))
}
