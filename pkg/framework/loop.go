package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is used when Loop.Interval is not set.
const DefaultInterval = 100 * time.Millisecond

// Loop ticks at a fixed rate. Each tick runs the controllers of every
// Stage in order on the loop's goroutine. Runnables live alongside in
// their own goroutines for as long as the loop runs.
type Loop struct {
	Interval time.Duration

	stages    [numStages][]Controller
	runnables []Runnable

	pending []Message
	lock    sync.Mutex

	ticks uint64
}

// LoopAdder adds its controllers and runnables to a loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopCtxKeyType struct{}

var loopCtxKey loopCtxKeyType

// LoopCtlFrom gets the LoopControl given to runnables in ctx.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey).(LoopControl)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController appends controllers to a stage.
func (l *Loop) AddController(stage Stage, ctls ...Controller) *Loop {
	l.stages[stage] = append(l.stages[stage], ctls...)
	return l
}

// AddRunnable adds background runnables.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runnables = append(l.runnables, runnables...)
	return l
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.pending = append(l.pending, msg)
	l.lock.Unlock()
}

// Run implements Runnable.
// It ticks until ctx is done, then waits for the runnables to stop.
// A tick running late makes the ticker drop the ticks it missed.
func (l *Loop) Run(ctx context.Context) error {
	runner := NewRunnerWith(context.WithValue(ctx, loopCtxKey, LoopControl(l)))
	runner.Go(l.runnables...)

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	for {
		select {
		case <-ctx.Done():
			ticker.Stop()
			runner.Stop()
			if err := runner.Wait(); err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
			l.RunIteration(ctx)
		}
	}
}

// RunIteration runs one tick with the messages posted so far.
func (l *Loop) RunIteration(ctx context.Context) {
	l.lock.Lock()
	msgs := l.pending
	l.pending = nil
	l.lock.Unlock()

	l.ticks++
	t := &tick{ctx: ctx, time: time.Now(), n: l.ticks, inbox: msgs}
	for stage := range l.stages {
		t.stage = Stage(stage)
		for _, ctl := range l.stages[stage] {
			if err := ctl.Control(t); err != nil {
				glog.Errorf("tick %d %s: %v", t.n, t.stage, err)
			}
		}
	}
	if len(t.inbox) > 0 {
		glog.Warningf("tick %d: dropped %d unhandled messages", t.n, len(t.inbox))
	}
}

type tick struct {
	ctx   context.Context
	time  time.Time
	n     uint64
	stage Stage
	inbox []Message
}

func (t *tick) Context() context.Context { return t.ctx }
func (t *tick) Time() time.Time          { return t.time }
func (t *tick) Tick() uint64             { return t.n }
func (t *tick) Stage() Stage             { return t.stage }
func (t *tick) Inbox() Inbox             { return t }

func (t *tick) Take(fn func(Message) bool) {
	kept := t.inbox[:0]
	for _, msg := range t.inbox {
		if !fn(msg) {
			kept = append(kept, msg)
		}
	}
	for i := len(kept); i < len(t.inbox); i++ {
		t.inbox[i] = nil
	}
	t.inbox = kept
}
