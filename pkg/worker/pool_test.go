package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsEveryJob(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int]bool)

	err := NewPool(3).Run(context.Background(), 10, func(_ context.Context, i int) {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
	})

	assert.NoError(t, err)
	assert.Len(t, seen, 10)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	var running, peak int32

	err := NewPool(2).Run(context.Background(), 8, func(_ context.Context, _ int) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
	})

	assert.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestPoolStopsFeedingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32

	err := NewPool(1).Run(ctx, 100, func(_ context.Context, _ int) {
		if atomic.AddInt32(&calls, 1) == 1 {
			cancel()
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, atomic.LoadInt32(&calls), int32(100))
}

func TestPoolWithNoJobs(t *testing.T) {
	assert.NoError(t, NewPool(4).Run(context.Background(), 0, func(context.Context, int) {
		t.Fatal("unexpected call")
	}))
}
