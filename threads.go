package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/jcorbin/mforth/internal/panicerr"
)

const (
	maxPriority = 127
	minPriority = -126
)

var (
	errInvalidPriority = errors.New("Invalid priority")
	errNoFreeSlots     = errors.New("No free thread slots")
	errLaunch          = errors.New("Port thread launch error")
)

// threadSlot is one entry of the thread table; a slot is either free or
// running its word on its own context.
type threadSlot struct {
	running bool
	word    WordHandle
	prio    int32
	ctx     *Context
}

// threadPool runs user words on background goroutines over the shared
// arena; mu guards the slot table.
type threadPool struct {
	rt    *Runtime
	mu    sync.Mutex
	slots []threadSlot
	log   commonlog.Logger
}

func (tp *threadPool) init(rt *Runtime, n int) {
	tp.rt = rt
	tp.log = commonlog.GetLogger("mforth.threads")
	tp.slots = make([]threadSlot, n)
	for i := range tp.slots {
		tp.slots[i].ctx = newContext(rt, i+1, 0)
	}
}

// active returns the numbers of the running threads.
func (tp *threadPool) active() (ns []int) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	for i := range tp.slots {
		if tp.slots[i].running {
			ns = append(ns, i+1)
		}
	}
	return ns
}

// launch starts h on a free slot, handing it a copy of from's parameter
// stack; it returns the thread number.
func (tp *threadPool) launch(from *Context, h WordHandle, prio int32) (int, error) {
	if prio < minPriority || prio > maxPriority {
		return 0, errInvalidPriority
	}

	tp.mu.Lock()
	i := 0
	for ; i < len(tp.slots); i++ {
		if !tp.slots[i].running {
			break
		}
	}
	if i == len(tp.slots) {
		tp.mu.Unlock()
		return 0, errNoFreeSlots
	}
	slot := &tp.slots[i]
	slot.running = true
	slot.word = h
	slot.prio = prio
	ctx := slot.ctx
	ctx.reset()
	ctx.verbose = 0
	tp.mu.Unlock()

	ctx.ps.copyFrom(&from.ps)
	n := i + 1

	// a word being defined holds the write lock
	if !tp.rt.dictMu.TryRLock() {
		tp.release(n)
		return 0, errLaunch
	}

	name := fmt.Sprintf("thread[%d]", n)
	tp.log.Infof("%v: launched %v prio %d", name, tp.rt.arena.name(h), prio)
	tp.rt.group.Go(func() error {
		defer tp.rt.dictMu.RUnlock()
		defer tp.release(n)
		err := panicerr.Recover(name, func() error {
			ctx.run(h)
			return nil
		})
		if err != nil {
			tp.log.Errorf("%v: %v", name, err)
		} else {
			tp.log.Debugf("%v: done", name)
		}
		return err
	})
	return n, nil
}

func (tp *threadPool) release(n int) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.slots[n-1].running = false
}

// kill sets the abort flag of thread n, which it observes at its next
// dispatch.
func (tp *threadPool) kill(n int) bool {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	slot := &tp.slots[n-1]
	if !slot.running {
		return false
	}
	slot.ctx.abort()
	tp.log.Infof("thread[%d]: set to abort", n)
	return true
}

func (tp *threadPool) killAll() []int {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	var ns []int
	for i := range tp.slots {
		if slot := &tp.slots[i]; slot.running {
			slot.ctx.abort()
			ns = append(ns, i+1)
		}
	}
	return ns
}

// launch runs the launch for ctx, pushing the thread number, or 0 before
// failing.
func (ctx *Context) launch(h WordHandle, prio int32) {
	n, err := ctx.rt.threads.launch(ctx, h, prio)
	if err != nil {
		ctx.push(0)
		ctx.fail(err)
	}
	ctx.push(int32(n))
}

// threadWord is the THRD and THRD_PRIO body: ( -- n ) or ( prio -- n ).
func (ctx *Context) threadWord(withPrio int32) {
	h := WordHandle(ctx.fetch16())
	var prio int32
	if withPrio != 0 {
		prio = ctx.pop()
	}
	ctx.launch(h, prio)
}

// threadLaunch is THREAD <word> and THPRIO <word> typed at the console.
func (ctx *Context) threadLaunch(withPrio int32) {
	rt := ctx.rt
	h := rt.arena.locate(rt.nextToken())
	if h == NoWord {
		panic(interactiveError{errWordNotFound})
	}
	var prio int32
	if withPrio != 0 {
		prio = ctx.pop()
	}
	ctx.launch(h, prio)
}

// compileThread codes THRD or THRD_PRIO for the named word.
func (ctx *Context) compileThread(op int32) {
	rt := ctx.rt
	h := rt.arena.locate(rt.nextToken())
	if h == NoWord {
		panic(compileError{errWordNotFound})
	}
	rt.codeOp(int(op))
	rt.code16(uint16(h))
}

func (ctx *Context) threadList(_ int32) {
	if !ctx.show(vbResponse) {
		return
	}
	rt := ctx.rt
	tp := &rt.threads
	brk := rt.brk
	ctx.printf("%s", brk)
	found := false
	tp.mu.Lock()
	for i := range tp.slots {
		slot := &tp.slots[i]
		if !slot.running {
			continue
		}
		found = true
		state := "Running"
		if slot.ctx.aborting() {
			state = "Aborting"
		}
		ctx.printf("  %d : %s Prio[%d]  %s%s", i+1, rt.arena.name(slot.word), slot.prio, state, brk)
	}
	tp.mu.Unlock()
	if !found {
		ctx.printf("No active threads%s", brk)
	}
	rt.flushFor(ctx)
}

// threadKill ( n -- )
func (ctx *Context) threadKill(_ int32) {
	rt := ctx.rt
	n := int(ctx.pop())
	if n < 1 || n > len(rt.threads.slots) {
		ctx.failf("Invalid thread number")
	}
	if !rt.threads.kill(n) {
		ctx.failf("This thread is not running")
	}
	if ctx.show(vbInfo) {
		rt.printf("Thread [%d] set to abort%s", n, rt.brk)
		rt.flushFor(ctx)
	}
}

func (ctx *Context) threadKillAll(_ int32) {
	rt := ctx.rt
	for _, n := range rt.threads.killAll() {
		if ctx.show(vbInfo) {
			rt.printf("Thread [%d] set to abort%s", n, rt.brk)
		}
	}
	rt.flushFor(ctx)
}
