package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/mforth/internal/config"
	"github.com/jcorbin/mforth/internal/mem"
	"github.com/jcorbin/mforth/internal/nvstore"
)

const (
	cellSize = 4
	padBase  = 0x10000

	version     = "1.0"
	versionDate = "2026-10-18"
)

// Runtime is one mforth system: a user dictionary arena shared by the
// foreground console context, the interrupt context used by timer
// callbacks, and a small pool of background thread contexts.
type Runtime struct {
	Core

	limits config.Limits
	brk    string

	arena  *arena
	pad    *mem.Bytes
	dictMu sync.RWMutex

	fg    *Context
	irq   *Context
	irqMu sync.Mutex

	comp    compiler
	tok     tokenizer
	flags   mainFlags
	threads threadPool
	timers  timerTable

	vref  int32
	store nvstore.Store

	ctx         context.Context
	interrupted atomic.Bool
	group       errgroup.Group
	started     time.Time

	log      commonlog.Logger
	storeLog commonlog.Logger
}

// mainFlags holds the console state that outlives any one line.
type mainFlags struct {
	loaded   bool
	startRan bool
	debugOn  bool
	hexDump  bool

	inFile       bool
	fileError    bool
	compileError bool

	assertZone bool
	debugZone  bool

	lastVerbose int
	compileLine int
}

func newRuntime(cfg config.Config) *Runtime {
	rt := &Runtime{
		limits:   cfg.Limits,
		brk:      cfg.Console.BreakSequence(),
		arena:    newArena(cfg.Limits.ArenaSize),
		pad:      mem.NewBytes(padBase, uint(cfg.Limits.PadSize), 0),
		vref:     defaultVRef,
		store:    &nvstore.MemStore{},
		ctx:      context.Background(),
		started:  time.Now(),
		log:      commonlog.GetLogger("mforth"),
		storeLog: commonlog.GetLogger("mforth.store"),
	}
	rt.fg = newContext(rt, 0, cfg.Console.Verbose)
	rt.irq = newContext(rt, 0, 0)
	rt.comp.reset()
	rt.tok.maxLine = cfg.Limits.MaxLine
	rt.threads.init(rt, cfg.Limits.MaxThreads)
	return rt
}

// Interrupt requests every running word to abort at its next dispatch; the
// request is dropped when the console reads its next line.
func (rt *Runtime) Interrupt() { rt.interrupted.Store(true) }

// flushFor flushes output written by a context that does not read the
// console; the foreground's output is flushed before each read.
func (rt *Runtime) flushFor(ctx *Context) {
	if !ctx.foreground() {
		rt.flush()
	}
}

// epilogue abandons whatever the console was doing when an error was
// reported: the word being defined, or the rest of the line.
func (rt *Runtime) epilogue() {
	if rt.comp.editing() {
		rt.abortCompile()
	} else {
		rt.abortLine()
	}
}

func (rt *Runtime) abortLine() {
	if rt.flags.inFile {
		rt.flags.fileError = true
		rt.fg.verbose = 0
		return
	}
	rt.tok.discardLine()
}

// abortCompile rolls the arena back to where the edited word started.
func (rt *Runtime) abortCompile() {
	if rt.comp.codePos > rt.arena.nextPos {
		rt.arena.mem.Fill(rt.arena.nextPos, rt.comp.codePos, 0xFF)
	}
	if rt.flags.inFile {
		rt.flags.fileError = true
	} else {
		rt.flags.compileError = true
	}
	rt.flags.assertZone = false
	rt.flags.debugZone = false
	rt.comp.reset()
	rt.unlockDict()
	rt.printf("Compilation aborted at line %d%s", rt.flags.compileLine, rt.brk)
}

// mutable checks that the dictionary may be changed, taking its write lock;
// the caller must unlockDict once done. Words being defined hold the lock
// until they commit or abort.
func (rt *Runtime) mutable(verb string) {
	if rt.comp.locked {
		panic(interactiveErrorf("Cannot %s while defining a word", verb))
	}
	if rt.anyBackground() {
		panic(interactiveErrorf("Cannot %s with running background processes", verb))
	}
	if rt.anyTimerCallback() {
		panic(interactiveErrorf("Cannot %s with registered callbacks", verb))
	}
	if !rt.dictMu.TryLock() {
		panic(interactiveErrorf("Cannot %s with running background processes", verb))
	}
	rt.comp.locked = true
}

func (rt *Runtime) unlockDict() {
	if rt.comp.locked {
		rt.comp.locked = false
		rt.dictMu.Unlock()
	}
}

func (rt *Runtime) anyBackground() bool {
	active := rt.threads.active()
	for _, i := range active {
		if rt.fg.show(vbInfo) {
			rt.printf("Thread [%d] is active%s", i, rt.brk)
		}
	}
	return len(active) > 0
}

func (rt *Runtime) anyTimerCallback() bool {
	armed := rt.timers.armed()
	for _, n := range armed {
		if rt.fg.show(vbInfo) {
			rt.printf("Timer %d has a registered callback%s", n, rt.brk)
		}
	}
	return len(armed) > 0
}

func (rt *Runtime) run(ctx context.Context) error {
	rt.ctx = ctx
	stop := context.AfterFunc(ctx, rt.Interrupt)
	defer stop()

	rt.boot()
	for {
		token := rt.nextToken()
		rt.fg.guard(func() { rt.processToken(token) })
	}
}

// boot loads any saved dictionary, then runs its start word.
func (rt *Runtime) boot() {
	if err := rt.loadImage(rt.ctx); err == nil {
		rt.flags.loaded = true
	} else if !errors.Is(err, nvstore.ErrEmpty) {
		rt.log.Warningf("cannot load saved dictionary: %v", err)
	}
	if h := rt.arena.startWord; h != NoWord && !rt.interrupted.Load() {
		rt.log.Infof("running start word %v", rt.arena.name(h))
		rt.fg.execute(h, true)
		rt.flags.startRan = true
	}
	rt.startMessage()
}

func (rt *Runtime) startMessage() {
	if !rt.fg.show(vbInfo) {
		return
	}
	rt.writeString(rt.brk)
	rt.printf("MForth%s", rt.brk)
	rt.printf("Version %s (%s)%s", version, versionDate, rt.brk)
	rt.printf("  Parameter stack size: %d%s", rt.limits.StackSize, rt.brk)
	rt.printf("  Return stack size: %d%s%s", rt.limits.RStackSize, rt.brk, rt.brk)
	if rt.flags.loaded {
		rt.printf("User dictionary has been loaded%s", rt.brk)
	}
	if rt.flags.startRan {
		rt.printf("Start word was executed%s", rt.brk)
	}
	rt.printf("Console ready...%s%s", rt.brk, rt.brk)
}

// shutdown aborts every background context and waits for them.
func (rt *Runtime) shutdown() error {
	rt.timers.stopAll()
	rt.threads.killAll()
	err := rt.group.Wait()
	if err != nil {
		rt.log.Errorf("background failure: %v", err)
	}
	return err
}

func (rt *Runtime) String() string {
	return fmt.Sprintf("mforth next:%d last:%d", rt.arena.nextPos, rt.arena.lastWord)
}
