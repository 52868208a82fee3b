package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jcorbin/mforth/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 28672, cfg.Limits.ArenaSize)
	assert.Equal(t, "\r\n", cfg.Console.BreakSequence())
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(`
[limits]
max-threads = 2
stack-size = 8

[storage]
backend = "sqlite"
path = "mforth.db"

[console]
raw = false
break = "lf"
`))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Limits.MaxThreads)
	assert.Equal(t, 8, cfg.Limits.StackSize)
	assert.Equal(t, 50, cfg.Limits.RStackSize, "expected unset keys to keep defaults")
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.False(t, cfg.Console.Raw)
	assert.Equal(t, 127, cfg.Console.Verbose)
	assert.Equal(t, "\n", cfg.Console.BreakSequence())
}

func TestParse_errors(t *testing.T) {
	for _, tc := range []struct {
		name string
		data string
		err  string
	}{
		{"syntax", "[limits", ""},
		{"unknown key", "[limits]\nmax-threadz = 3\n", "unknown key limits.max-threadz"},
		{"arena too big", "[limits]\narena-size = 70000\n", "arena-size must be in [64, 65534], got 70000"},
		{"path required", "[storage]\nbackend = \"file\"\n", "storage.path is required by the file backend"},
		{"bad break", "[console]\nbreak = \"nl\"\n", `console.break must be crlf, cr or lf, got "nl"`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.data))
			require.Error(t, err)
			if tc.err != "" {
				assert.EqualError(t, err, tc.err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mforth.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nverbosity = 2\n"), 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Log.Verbosity)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
