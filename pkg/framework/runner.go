package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Runner.Wait after a second stop signal.
var ErrForcedExit = errors.New("forced exit")

type namedRunnable struct {
	Runnable
	name string
}

// NamedRun names a Runnable in logs and errors.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

func nameOf(r Runnable, n int) string {
	if named, ok := r.(*namedRunnable); ok {
		return named.name
	}
	return fmt.Sprintf("#%d", n)
}

// Runner runs Runnables under one cancelable context.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc

	started int
	errCh   chan error
	forced  chan struct{}
}

// NewRunner creates a Runner.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a Runner stopped when ctx is done.
func NewRunnerWith(ctx context.Context) *Runner {
	ctx, cancel := context.WithCancel(ctx)
	return &Runner{
		ctx:    ctx,
		cancel: cancel,
		errCh:  make(chan error),
		forced: make(chan struct{}),
	}
}

// HandleSignals stops the Runner on SIGINT or SIGTERM.
// A second signal makes Wait return ErrForcedExit.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		r.Stop()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.forced)
	}()
	return r
}

// Go starts runnables, each in its own goroutine.
// A runnable failing is logged right away and reported again by Wait.
// Returning the error of the Runner's context counts as a clean stop.
func (r *Runner) Go(runnables ...Runnable) *Runner {
	for _, runnable := range runnables {
		name := nameOf(runnable, r.started)
		r.started++
		go func(runnable Runnable) {
			glog.V(4).Infof("runnable %s started", name)
			err := runnable.Run(r.ctx)
			if err != nil && err != context.Canceled && err != r.ctx.Err() {
				glog.Errorf("runnable %s: %v", name, err)
				err = fmt.Errorf("%s: %v", name, err)
			} else {
				glog.V(4).Infof("runnable %s stopped", name)
				err = nil
			}
			r.errCh <- err
		}(runnable)
	}
	return r
}

// Stop cancels the context of all runnables.
func (r *Runner) Stop() {
	r.cancel()
}

// Wait waits for all started runnables to return and collects
// their errors.
func (r *Runner) Wait() error {
	var errs Errors
	for ; r.started > 0; r.started-- {
		select {
		case <-r.forced:
			return ErrForcedExit
		case err := <-r.errCh:
			errs.Add(err)
		}
	}
	return errs.Err()
}

// RunWithContextCloser runs fn, which knows nothing of ctx, and closes
// closer when ctx is done so fn returns. closer is always closed once.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		closer.Close()
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		closer.Close()
		return err
	}
}
