package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNotifier_DeliversReports(t *testing.T) {
	var mu sync.Mutex
	var seen []uint64

	notifier := NewNotifier(2, 8, func(ctx context.Context, r Report) error {
		mu.Lock()
		seen = append(seen, r.AlertID)
		mu.Unlock()
		return nil
	})
	notifier.Start(context.Background())

	for i := uint64(1); i <= 5; i++ {
		notifier.Submit(Report{AlertID: i})
	}
	notifier.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 5)
}

func TestNotifier_DropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var handled int

	notifier := NewNotifier(1, 1, func(ctx context.Context, r Report) error {
		<-release
		mu.Lock()
		handled++
		mu.Unlock()
		return nil
	})
	notifier.Start(context.Background())

	// First report occupies the worker, second fills the queue, the
	// rest are dropped without blocking.
	for i := 0; i < 10; i++ {
		notifier.Submit(Report{AlertID: uint64(i)})
	}

	close(release)
	notifier.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, handled, 1)
	require.LessOrEqual(t, handled, 2)
}

func TestNotifier_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	notifier := NewNotifier(2, 4, func(ctx context.Context, r Report) error {
		return nil
	})
	notifier.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		notifier.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not exit after context cancellation")
	}
}

func TestNotifier_HandlerErrorsDoNotStopWorkers(t *testing.T) {
	var mu sync.Mutex
	var calls int

	notifier := NewNotifier(1, 4, func(ctx context.Context, r Report) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return errors.New("smtp unavailable")
	})
	notifier.Start(context.Background())

	notifier.Submit(Report{AlertID: 1})
	notifier.Submit(Report{AlertID: 2})
	notifier.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, calls)
}
