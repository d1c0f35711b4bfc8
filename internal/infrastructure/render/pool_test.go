package render

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowRenderer struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (r *slowRenderer) Render(_ context.Context, _ string, _, _ int) ([]byte, error) {
	current := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		seen := r.maxSeen.Load()
		if current <= seen || r.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return []byte("png"), nil
}

func TestPoolBoundsConcurrency(t *testing.T) {
	inner := &slowRenderer{}
	pool := NewPool(inner, 2)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Render(context.Background(), "<html></html>", 750, 1000)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, inner.maxSeen.Load(), int32(2), "同时运行的渲染数不得超过池大小")
}

type blockingRenderer struct {
	started chan struct{}
	unblock chan struct{}
}

func (r *blockingRenderer) Render(context.Context, string, int, int) ([]byte, error) {
	close(r.started)
	<-r.unblock
	return []byte("png"), nil
}

func TestPoolAbandonsQueueOnCancel(t *testing.T) {
	inner := &blockingRenderer{
		started: make(chan struct{}),
		unblock: make(chan struct{}),
	}
	pool := NewPool(inner, 1)

	// 占住唯一的槽位
	done := make(chan struct{})
	go func() {
		_, _ = pool.Render(context.Background(), "", 1, 1)
		close(done)
	}()
	<-inner.started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pool.Render(ctx, "", 1, 1)

	require.ErrorIs(t, err, context.Canceled)
	close(inner.unblock)
	<-done
}
