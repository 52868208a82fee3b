package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"

	"github.com/jcorbin/mforth/internal/config"
	"github.com/jcorbin/mforth/internal/nvstore"
)

const ctrlC = 3

func main() {
	ctx := context.Background()

	var (
		configPath string
		timeout    time.Duration
		trace      bool
		backend    string
		dbPath     string
		noRaw      bool
		echoLog    bool
		dump       bool
		verbosity  int
	)
	flag.StringVar(&configPath, "config", "", "read a mforth.toml configuration file")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.StringVar(&backend, "store", "", "override the storage backend: memory, file or sqlite")
	flag.StringVar(&dbPath, "db", "", "override the storage path")
	flag.BoolVar(&noRaw, "no-raw", false, "leave the terminal in cooked mode")
	flag.BoolVar(&echoLog, "echo-log", false, "copy console output into the log")
	flag.BoolVar(&dump, "dump", false, "dump the dictionary to stderr when done")
	flag.IntVar(&verbosity, "v", -1, "override the log verbosity")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if backend != "" {
		cfg.Storage.Backend = backend
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if noRaw {
		cfg.Console.Raw = false
	}
	if verbosity >= 0 {
		cfg.Log.Verbosity = verbosity
	}
	if trace {
		// the trace is logged at debug level
		cfg.Log.Verbosity = max(cfg.Log.Verbosity, 2)
	}
	if cfg.Log.File != "" {
		commonlog.Configure(cfg.Log.Verbosity, &cfg.Log.File)
	} else {
		commonlog.Configure(cfg.Log.Verbosity, nil)
	}

	store, err := nvstore.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		log.Fatal(err)
	}

	var scripts []io.Reader
	for _, name := range flag.Args() {
		f, err := os.Open(name)
		if err != nil {
			log.Fatal(err)
		}
		scripts = append(scripts, f)
	}

	fd := int(os.Stdin.Fd())
	raw := cfg.Console.Raw && term.IsTerminal(fd)
	var state *term.State
	if raw {
		if state, err = term.MakeRaw(fd); err != nil {
			log.Fatal(err)
		}
	}

	opts := []Option{
		WithConfig(cfg),
		WithStore(store),
		WithInput(scripts...),
		WithOutput(os.Stdout),
	}
	if trace {
		opts = append(opts, traceOption(commonlog.GetLogger("mforth")))
	}
	if echoLog {
		out := commonlog.GetLogger("mforth.console")
		opts = append(opts, WithEchoLog(out.Infof))
	}
	rt := New(opts...)

	// Ctrl-C arrives as a byte in raw mode, and as a signal otherwise
	var stdin io.Reader = os.Stdin
	if raw {
		stdin = interruptReader(os.Stdin, rt.Interrupt)
	} else {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt)
		defer signal.Stop(sigs)
		go func() {
			for range sigs {
				rt.Interrupt()
			}
		}()
	}
	rt.Push(stdin)

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	runErr := rt.Run(ctx)
	if dump {
		rtDumper{rt: rt, out: os.Stderr}.dump()
	}
	if err := rt.Close(); runErr == nil {
		runErr = err
	}
	if state != nil {
		term.Restore(fd, state)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", runErr)
		os.Exit(1)
	}
}

// interruptReader pumps r through a pipe, turning each Ctrl-C byte into a
// call to interrupt. It keeps reading while the console is busy running a
// word, so Ctrl-C is seen then too.
func interruptReader(r io.Reader, interrupt func()) io.Reader {
	pr, pw := io.Pipe()
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			out := buf[:0]
			for _, b := range buf[:n] {
				if b == ctrlC {
					interrupt()
					continue
				}
				out = append(out, b)
			}
			if len(out) > 0 {
				if _, werr := pw.Write(out); werr != nil {
					return
				}
			}
			if err != nil {
				pw.CloseWithError(err)
				return
			}
		}
	}()
	return pr
}

// traceOption routes the dispatch trace to log at debug level.
func traceOption(logger commonlog.Logger) Option { return WithLogf(logger.Debugf) }
