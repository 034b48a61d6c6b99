package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type runFunc func(context.Context) error

func (f runFunc) Run(ctx context.Context) error { return f(ctx) }

type testCloser struct {
	closed int
	ch     chan struct{}
}

func (c *testCloser) Close() error {
	c.closed++
	close(c.ch)
	return nil
}

func TestRunnerCollectsErrors(t *testing.T) {
	r := NewRunner().Go(
		NamedRun("mqtt", runFunc(func(context.Context) error { return errors.New("refused") })),
		NamedRun("canceled", runFunc(func(context.Context) error { return context.Canceled })),
		runFunc(func(context.Context) error { return nil }),
		runFunc(func(context.Context) error { return errors.New("boom") }),
	)
	err := r.Wait()
	require.Error(t, err)
	errs, ok := err.(Errors)
	require.True(t, ok)
	require.Len(t, errs, 2)
	require.Contains(t, err.Error(), "mqtt: refused")
	require.Contains(t, err.Error(), "#3: boom")
}

func TestRunnerNoErrors(t *testing.T) {
	r := NewRunner().Go(runFunc(func(context.Context) error { return nil }))
	require.NoError(t, r.Wait())
}

func TestRunnerStop(t *testing.T) {
	r := NewRunner().Go(runFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	done := make(chan error, 1)
	go func() { done <- r.Wait() }()
	r.Stop()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runnable not stopped")
	}
}

func TestRunWithContextCloser(t *testing.T) {
	c := &testCloser{ch: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunWithContextCloser(ctx, c, func() error {
		<-c.ch
		return nil
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, c.closed)

	c = &testCloser{ch: make(chan struct{})}
	err = RunWithContextCloser(context.Background(), c, func() error {
		return errors.New("done")
	})
	require.EqualError(t, err, "done")
	require.Equal(t, 1, c.closed)
}

func TestErrors(t *testing.T) {
	var errs Errors
	require.NoError(t, errs.Add(nil, nil).Err())
	x := errors.New("x")
	errs.Add(x)
	require.Equal(t, x, errs.Err())
	errs.Add(nil, errors.New("y"))
	require.EqualError(t, errs.Err(), "x; y")
}
