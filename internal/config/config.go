// Package config handles the mforth.toml runtime configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents a mforth.toml file; any key left out keeps its Default.
type Config struct {
	Limits  Limits  `toml:"limits"`
	Storage Storage `toml:"storage"`
	Console Console `toml:"console"`
	Log     Log     `toml:"log"`
}

// Limits sizes the runtime's fixed resources.
type Limits struct {
	MaxThreads int `toml:"max-threads"`
	ArenaSize  int `toml:"arena-size"`
	StackSize  int `toml:"stack-size"`
	RStackSize int `toml:"rstack-size"`
	MaxLocals  int `toml:"max-locals"`
	MaxToken   int `toml:"max-token"`
	MaxLine    int `toml:"max-line"`
	PadSize    int `toml:"pad-size"`
}

// Storage selects where SAVE and LOAD keep the dictionary image.
type Storage struct {
	Backend string `toml:"backend"` // file, sqlite or memory
	Path    string `toml:"path"`
}

// Console configures the foreground console.
type Console struct {
	Verbose int    `toml:"verbose"`
	Raw     bool   `toml:"raw"`
	Break   string `toml:"break"` // crlf, cr or lf
}

// Log configures host logging.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Limits: Limits{
			MaxThreads: 4,
			ArenaSize:  14 * 2048,
			StackSize:  50,
			RStackSize: 50,
			MaxLocals:  10,
			MaxToken:   32,
			MaxLine:    256,
			PadSize:    8192,
		},
		Storage: Storage{Backend: "memory"},
		Console: Console{Verbose: 127, Raw: true, Break: "crlf"},
	}
}

// Load parses the TOML file at path over the defaults; an empty path returns
// the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("unknown key %v", undec[0])
	}
	return cfg, cfg.Validate()
}

// BreakSequence returns the console line break bytes.
func (con Console) BreakSequence() string {
	switch con.Break {
	case "cr":
		return "\r"
	case "lf":
		return "\n"
	default:
		return "\r\n"
	}
}

// Validate checks that the limits fit the dictionary encoding.
func (cfg Config) Validate() error {
	lim := cfg.Limits
	var errs []error
	check := func(name string, val, min, max int) {
		if val < min || val > max {
			errs = append(errs, fmt.Errorf("%v must be in [%v, %v], got %v", name, min, max, val))
		}
	}
	check("max-threads", lim.MaxThreads, 1, 64)
	check("arena-size", lim.ArenaSize, 64, 0xFFFE)
	check("stack-size", lim.StackSize, 2, 1<<16)
	check("rstack-size", lim.RStackSize, 2, 1<<16)
	check("max-locals", lim.MaxLocals, 0, 255)
	check("max-token", lim.MaxToken, 2, 255)
	check("max-line", lim.MaxLine, 2, 1<<16)
	check("pad-size", lim.PadSize, 0, 1<<20)
	check("console.verbose", cfg.Console.Verbose, 0, 127)
	switch cfg.Console.Break {
	case "crlf", "cr", "lf":
	default:
		errs = append(errs, fmt.Errorf("console.break must be crlf, cr or lf, got %q", cfg.Console.Break))
	}
	switch cfg.Storage.Backend {
	case "memory":
	case "file", "sqlite":
		if cfg.Storage.Path == "" {
			errs = append(errs, fmt.Errorf("storage.path is required by the %v backend", cfg.Storage.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", cfg.Storage.Backend))
	}
	return errors.Join(errs...)
}
