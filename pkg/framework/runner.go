package framework

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Runner.Wait when a second stop signal
// arrives before all Runnables returned.
var ErrForcedExit = errors.New("forced exit")

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name used in logs.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// Background wraps a Runnable whose end must not stop the others.
// A failure is logged, then the wrapper waits for ctx to be done.
func Background(name string, runnable Runnable) Runnable {
	return NamedRun(name, RunFunc(func(ctx context.Context) error {
		if err := runnable.Run(ctx); err != nil && ctx.Err() == nil {
			glog.Errorf("%s stopped: %v", name, err)
		}
		<-ctx.Done()
		return ctx.Err()
	}))
}

// Runner runs Runnables concurrently. It is stopped as soon as one of
// them returns, and Wait collects the results of all of them.
type Runner struct {
	Context context.Context
	Runners []Runnable

	resultCh chan error
	forcedCh chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRunner creates a Runner on a background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a Runner on ctx.
func NewRunnerWith(ctx context.Context) *Runner {
	return &Runner{
		Context:  ctx,
		resultCh: make(chan error, 1),
		forcedCh: make(chan struct{}),
		stopCh:   make(chan struct{}),
	}
}

// HandleSignals cancels the Runner's context on the first SIGINT or
// SIGTERM and makes Wait give up on the second.
func (r *Runner) HandleSignals() *Runner {
	ctx, cancel := context.WithCancel(r.Context)
	r.Context = ctx
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		glog.Infof("%v: stopping", sig)
		cancel()
		sig = <-sigCh
		glog.Errorf("%v again: %v", sig, ErrForcedExit)
		close(r.forcedCh)
	}()
	return r
}

// Go starts Runnables on the Runner's context.
func (r *Runner) Go(runnables ...Runnable) *Runner {
	for _, runnable := range runnables {
		r.start(runnable, nameOf(runnable, len(r.Runners)))
		r.Runners = append(r.Runners, runnable)
	}
	return r
}

func nameOf(runnable Runnable, index int) string {
	if named, ok := runnable.(Named); ok {
		return named.Name()
	}
	return "#" + strconv.Itoa(index)
}

func (r *Runner) start(runnable Runnable, name string) {
	glog.V(4).Infof("runnable %s starting", name)
	go func() {
		err := runnable.Run(r.Context)
		glog.V(4).Infof("runnable %s returned: %v", name, err)
		r.stopOnce.Do(func() { close(r.stopCh) })
		r.resultCh <- err
	}()
}

// Stopped is closed as soon as the first Runnable returns.
func (r *Runner) Stopped() <-chan struct{} {
	return r.stopCh
}

// Wait waits for every Runnable and aggregates their errors.
// Cancellation is not an error.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for range r.Runners {
		select {
		case err := <-r.resultCh:
			if err != context.Canceled {
				errs.Add(err)
			}
		case <-r.forcedCh:
			return ErrForcedExit
		}
	}
	return errs.Aggregate()
}
