package framework

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	val int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

func TestLoopStageOrder(t *testing.T) {
	var order []string
	record := func(name string) Controller {
		return ControlFunc(func(cc ControlContext) error {
			order = append(order, name+"@"+cc.Stage().String())
			return nil
		})
	}
	l := NewLoop()
	l.AddController(StageActuate, record("write"))
	l.AddController(StageSense, record("read"))
	l.AddController(StageControl, record("compute"))
	l.AddController(StageCommand, record("apply"))
	l.AddController(StagePublish, record("notify"))
	l.RunIteration(context.Background())
	require.Equal(t, []string{
		"apply@command", "read@sense", "compute@control", "write@actuate", "notify@publish",
	}, order)
}

func TestLoopTickCounter(t *testing.T) {
	var ticks []uint64
	l := NewLoop().AddController(StageControl, ControlFunc(func(cc ControlContext) error {
		ticks = append(ticks, cc.Tick())
		return nil
	}))
	for i := 0; i < 3; i++ {
		l.RunIteration(context.Background())
	}
	require.Equal(t, []uint64{1, 2, 3}, ticks)
}

func TestLoopControllerErrorKeepsTicking(t *testing.T) {
	var ran int
	l := NewLoop()
	l.AddController(StageSense, ControlFunc(func(cc ControlContext) error {
		return errors.New("sensor glitch")
	}))
	l.AddController(StageActuate, ControlFunc(func(cc ControlContext) error {
		ran++
		return nil
	}))
	l.RunIteration(context.Background())
	l.RunIteration(context.Background())
	require.Equal(t, 2, ran)
}

func TestLoopInbox(t *testing.T) {
	var taken, seen []int
	l := NewLoop()
	l.AddController(StageCommand, ControlFunc(func(cc ControlContext) error {
		cc.Inbox().Take(func(msg Message) bool {
			val := msg.(*testMsg).val
			if val%2 == 0 {
				taken = append(taken, val)
				return true
			}
			return false
		})
		return nil
	}))
	l.AddController(StageIdle, ControlFunc(func(cc ControlContext) error {
		cc.Inbox().Take(func(msg Message) bool {
			seen = append(seen, msg.(*testMsg).val)
			return true
		})
		return nil
	}))
	for i := 1; i <= 4; i++ {
		l.PostMessage(&testMsg{val: i})
	}
	l.RunIteration(context.Background())
	require.Equal(t, []int{2, 4}, taken)
	require.Equal(t, []int{1, 3}, seen)

	taken, seen = nil, nil
	l.RunIteration(context.Background())
	require.Empty(t, taken)
	require.Empty(t, seen)
}

func TestLoopDropsUnhandledMessages(t *testing.T) {
	var seen int
	l := NewLoop()
	l.AddController(StageCommand, ControlFunc(func(cc ControlContext) error {
		cc.Inbox().Take(func(Message) bool {
			seen++
			return false
		})
		return nil
	}))
	l.PostMessage(&testMsg{val: 1})
	l.RunIteration(context.Background())
	l.RunIteration(context.Background())
	require.Equal(t, 1, seen)
}

type countingRunner struct {
	started int32
	posted  int32
}

func (r *countingRunner) Run(ctx context.Context) error {
	atomic.AddInt32(&r.started, 1)
	LoopCtlFrom(ctx).PostMessage(&testMsg{val: 7})
	atomic.AddInt32(&r.posted, 1)
	<-ctx.Done()
	return ctx.Err()
}

func TestLoopRunTicks(t *testing.T) {
	var ticks, received int32
	runner := &countingRunner{}
	l := NewLoop()
	l.Interval = time.Millisecond
	l.AddRunnable(runner)
	l.AddController(StageCommand, ControlFunc(func(cc ControlContext) error {
		atomic.AddInt32(&ticks, 1)
		cc.Inbox().Take(func(Message) bool {
			atomic.AddInt32(&received, 1)
			return true
		})
		return nil
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := l.Run(ctx)
	require.Equal(t, context.DeadlineExceeded, err)
	require.True(t, atomic.LoadInt32(&ticks) > 0)
	require.Equal(t, int32(1), atomic.LoadInt32(&runner.started))
	require.Equal(t, int32(1), atomic.LoadInt32(&received))
}

func TestLoopRunReportsRunnableFailure(t *testing.T) {
	var ticks int32
	l := NewLoop()
	l.Interval = time.Millisecond
	l.AddRunnable(NamedRun("listener", runFunc(func(context.Context) error {
		return errors.New("address already in use")
	})))
	l.AddController(StageControl, ControlFunc(func(cc ControlContext) error {
		atomic.AddInt32(&ticks, 1)
		return nil
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := l.Run(ctx)
	require.EqualError(t, err, "listener: address already in use")
	require.True(t, atomic.LoadInt32(&ticks) > 0)
}
