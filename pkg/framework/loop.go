package framework

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// Loop runs controllers each time it is woken up.
//
// With a zero Interval the loop has no periodic tick at all: between
// iterations it sleeps until Wake is called, which is the equivalent of
// a wait-for-interrupt on a microcontroller.
type Loop struct {
	Interval time.Duration

	controllers [PriorityLevels][]Controller
	runners     []Runnable

	wakeUpCh   chan struct{}
	iterations atomic.Uint64
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopIteration struct {
	loop          *Loop
	ctx           context.Context
	time          time.Time
	seq           uint64
	priorityLevel int
}

var (
	loopCtxKey = &Loop{}
)

// LoopFrom gets the running Loop from context, nil if absent.
func LoopFrom(ctx context.Context) *Loop {
	l, _ := ctx.Value(loopCtxKey).(*Loop)
	return l
}

// NewLoop creates a wake-driven Loop.
func NewLoop() *Loop {
	return &Loop{wakeUpCh: make(chan struct{}, 1)}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions.
// The loop stops as soon as any of them returns.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Wake implements Waker.
func (l *Loop) Wake() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Iterations returns the number of iterations started so far.
func (l *Loop) Iterations() uint64 {
	return l.iterations.Load()
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := NewRunnerWith(context.WithValue(ctx, loopCtxKey, l))
	runner.Go(l.runners...)

	var timer <-chan time.Time
	if l.Interval > 0 {
		ticker := time.NewTicker(l.Interval)
		defer ticker.Stop()
		timer = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			runner.Wait()
			return ctx.Err()
		case <-runner.Stopped():
			cancel()
			return runner.Wait()
		case <-timer:
			l.runIteration(ctx)
		case <-l.wakeUpCh:
			l.runIteration(ctx)
		}
	}
}

func (l *Loop) runIteration(ctx context.Context) {
	iter := &loopIteration{
		loop: l,
		time: time.Now(),
		seq:  l.iterations.Add(1),
	}
	iter.ctx = context.WithValue(ctx, loopCtxKey, l)
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) Iteration() uint64 {
	return t.seq
}

func (t *loopIteration) PriorityLevel() int {
	return t.priorityLevel
}

func (t *loopIteration) Wake() {
	t.loop.Wake()
}
