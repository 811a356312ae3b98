package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopWakeRunsControllersByPriority(t *testing.T) {
	loop := NewLoop()
	order := make(chan int, 4)
	loop.AddController(PrLvDisplay, ControlFunc(func(cc ControlContext) error {
		order <- cc.PriorityLevel()
		return nil
	}))
	loop.AddController(PrLvSense, ControlFunc(func(cc ControlContext) error {
		order <- cc.PriorityLevel()
		return errors.New("logged only")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case <-order:
		t.Fatal("loop must not run without a wake-up")
	case <-time.After(30 * time.Millisecond):
	}

	loop.Wake()
	for _, expect := range []int{PrLvSense, PrLvDisplay} {
		select {
		case lv := <-order:
			require.Equal(t, expect, lv)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for controller")
		}
	}
	require.Equal(t, uint64(1), loop.Iterations())

	cancel()
	select {
	case err := <-done:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopWakeCoalesced(t *testing.T) {
	loop := NewLoop()
	loop.Wake()
	loop.Wake()
	loop.Wake()
	require.Len(t, loop.wakeUpCh, 1)
}

func TestLoopStopsWithRunnable(t *testing.T) {
	testCases := []struct {
		name   string
		result error
	}{
		{"clean", nil},
		{"failure", errors.New("reader failed")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loop := NewLoop()
			seen := make(chan *Loop, 1)
			blocked := RunFunc(func(ctx context.Context) error {
				seen <- LoopFrom(ctx)
				<-ctx.Done()
				return ctx.Err()
			})
			stopping := RunFunc(func(ctx context.Context) error {
				return tc.result
			})
			loop.AddRunnable(NamedRun("blocked", blocked), stopping)
			err := loop.Run(context.Background())
			require.Equal(t, loop, <-seen)
			if tc.result == nil {
				require.NoError(t, err)
				return
			}
			var agg *AggregatedError
			require.True(t, errors.As(err, &agg))
			require.Equal(t, []error{tc.result}, agg.Errors)
		})
	}
}

func TestLoopKeepsRunningWithBackgroundFailure(t *testing.T) {
	loop := NewLoop()
	failed := make(chan struct{})
	loop.AddRunnable(Background("telemetry", RunFunc(func(ctx context.Context) error {
		close(failed)
		return errors.New("connection refused")
	})))
	ran := make(chan struct{}, 1)
	loop.AddController(PrLvControl, ControlFunc(func(ControlContext) error {
		ran <- struct{}{}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	<-failed
	loop.Wake()
	select {
	case <-ran:
	case err := <-done:
		t.Fatalf("loop stopped: %v", err)
	case <-time.After(time.Second):
		t.Fatal("controller did not run")
	}

	cancel()
	select {
	case err := <-done:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}
