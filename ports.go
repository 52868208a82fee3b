package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jcorbin/mforth/internal/panicerr"
)

const (
	numTimers   = 2
	maxInterval = 65535

	defaultVRef = 3300
)

// portWords are the host words, coded through the first extension band.
func portWords() dictionary {
	return dictionary{
		{"MS", "Waits the indicated time in ms#(ms)$", (*Context).sleep, 0, 0},
		{"TICKS", "Milliseconds since start#$(ms)", (*Context).ticks, 0, 0},
		{"TIMER", "Set timer n callback word or NOWORD every ms#(ms)(n)$", (*Context).setTimer, 0, dfDirective},
		{"TStop", "Stop timer n#(n)$", (*Context).stopTimer, 0, 0},
		{"VRef", "Reference voltage in mV#$(mV)", (*Context).readVRef, 0, 0},
		{"VRefSet", "Set the reference voltage in mV, saved with the dictionary#(mV)$", (*Context).setVRef, 0, 0},
	}
}

// sleep waits up to ms milliseconds, returning early once ctx is aborted or
// the runtime is interrupted.
func (ctx *Context) sleep(_ int32) {
	ms := ctx.pop()
	if ms <= 0 {
		return
	}
	rt := ctx.rt
	done := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer done.Stop()
	poll := time.NewTicker(10 * time.Millisecond)
	defer poll.Stop()
	for {
		select {
		case <-done.C:
			return
		case <-rt.ctx.Done():
			return
		case <-poll.C:
			if ctx.aborting() || rt.interrupted.Load() {
				return
			}
		}
	}
}

func (ctx *Context) ticks(_ int32) {
	ctx.push(int32(time.Since(ctx.rt.started).Milliseconds()))
}

func (ctx *Context) readVRef(_ int32) { ctx.push(ctx.rt.vref) }

func (ctx *Context) setVRef(_ int32) {
	mv := ctx.pop()
	if mv <= 0 {
		ctx.failf("Invalid reference voltage")
	}
	ctx.rt.vref = mv
}

// timerNumber pops a timer number, 1 based.
func (ctx *Context) timerNumber() int {
	n := ctx.pop()
	if n < 1 || n > numTimers {
		ctx.failf("Invalid timer number")
	}
	return int(n)
}

// setTimer is TIMER <word|NOWORD> ( ms n -- ); NOWORD disarms timer n.
func (ctx *Context) setTimer(_ int32) {
	rt := ctx.rt
	name := rt.nextToken()
	h := NoWord
	if !strings.EqualFold(name, "NOWORD") {
		if h = rt.arena.locate(name); h == NoWord {
			panic(interactiveError{errWordNotFound})
		}
	}
	n := ctx.timerNumber()
	ms := ctx.pop()
	if h != NoWord && (ms < 1 || ms > maxInterval) {
		ctx.failf("Invalid timer interval")
	}
	rt.timers.arm(rt, n, h, time.Duration(ms)*time.Millisecond)
}

func (ctx *Context) stopTimer(_ int32) {
	ctx.rt.timers.disarm(ctx.timerNumber())
}

// timerTable holds the periodic software timers. Callbacks run one at a
// time on the runtime's interrupt context.
type timerTable struct {
	mu     sync.Mutex
	timers [numTimers]softTimer
}

type softTimer struct {
	word WordHandle
	stop chan struct{}
}

// armed returns the numbers of the timers with a callback word.
func (tt *timerTable) armed() (ns []int) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	for i := range tt.timers {
		if tt.timers[i].stop != nil {
			ns = append(ns, i+1)
		}
	}
	return ns
}

func (tt *timerTable) arm(rt *Runtime, n int, h WordHandle, every time.Duration) {
	tt.disarm(n)
	if h == NoWord {
		return
	}
	stop := make(chan struct{})
	tt.mu.Lock()
	tt.timers[n-1] = softTimer{word: h, stop: stop}
	tt.mu.Unlock()
	name := fmt.Sprintf("timer[%d]", n)
	rt.log.Infof("%v: calling %v every %v", name, rt.arena.name(h), every)

	rt.group.Go(func() error {
		tick := time.NewTicker(every)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return nil
			case <-rt.ctx.Done():
				return nil
			case <-tick.C:
				if err := panicerr.Recover(name, func() error {
					rt.callback(h)
					return nil
				}); err != nil {
					rt.log.Errorf("%v: %v", name, err)
					return err
				}
			}
		}
	})
}

func (tt *timerTable) disarm(n int) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if t := &tt.timers[n-1]; t.stop != nil {
		close(t.stop)
		*t = softTimer{}
	}
}

func (tt *timerTable) stopAll() {
	for n := 1; n <= numTimers; n++ {
		tt.disarm(n)
	}
}

// callback runs h on the interrupt context with fresh stacks; a tick that
// finds the dictionary being changed is skipped.
func (rt *Runtime) callback(h WordHandle) {
	if !rt.dictMu.TryRLock() {
		return
	}
	defer rt.dictMu.RUnlock()
	rt.irqMu.Lock()
	defer rt.irqMu.Unlock()
	irq := rt.irq
	irq.ps.clear()
	irq.reset()
	irq.run(h)
}
