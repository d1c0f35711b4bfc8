package note

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRetrier(maxAttempts int, delays *[]time.Duration) *retrier {
	r := newRetrier(maxAttempts, time.Second)
	r.randFloat = func() float64 { return 0.5 }
	r.sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return r
}

func TestRetrierSucceedsAfterTransientFailures(t *testing.T) {
	var delays []time.Duration
	r := newTestRetrier(3, &delays)

	calls := 0
	result, err := r.do(context.Background(), "title", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("upstream flaky")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
	assert.Len(t, delays, 2)
}

func TestRetrierExhaustsAttempts(t *testing.T) {
	var delays []time.Duration
	r := newTestRetrier(3, &delays)

	wantErr := errors.New("always down")
	calls := 0
	_, err := r.do(context.Background(), "content", func(context.Context) (string, error) {
		calls++
		return "", wantErr
	})

	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, calls)
	// 最后一次失败后不再退避
	require.Len(t, delays, 2)
	for i := 1; i < len(delays); i++ {
		assert.GreaterOrEqual(t, delays[i], delays[i-1], "退避间隔必须单调不减")
	}
}

func TestRetrierBackoffFormula(t *testing.T) {
	r := newRetrier(3, time.Second)
	r.randFloat = func() float64 { return 0 }

	assert.Equal(t, 1*time.Second, r.backoff(0))
	assert.Equal(t, 2*time.Second, r.backoff(1))
	assert.Equal(t, 4*time.Second, r.backoff(2))

	r.randFloat = func() float64 { return 1 }
	assert.Equal(t, 2*time.Second, r.backoff(0))
}

func TestRetrierAbandonsBackoffOnCancel(t *testing.T) {
	r := newRetrier(3, 10*time.Millisecond)
	r.randFloat = func() float64 { return 0 }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := r.do(ctx, "css", func(context.Context) (string, error) {
		calls++
		return "", errors.New("boom")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
