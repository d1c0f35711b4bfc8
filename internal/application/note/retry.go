// Package note 实现笔记生成流水线的应用层编排
package note

import (
	"context"
	"math"
	"math/rand"
	"time"

	"ink-content-api/pkg/logger"
	"ink-content-api/pkg/metrics"
)

// retrier 封装所有生成阶段共享的重试策略。
// 每次失败后阻塞退避再重试，不产生并发的重复请求。
type retrier struct {
	maxAttempts int
	baseDelay   time.Duration

	// sleep 与 randFloat 可注入，测试时替换
	sleep     func(ctx context.Context, d time.Duration) error
	randFloat func() float64
}

func newRetrier(maxAttempts int, baseDelay time.Duration) *retrier {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &retrier{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       sleepContext,
		randFloat:   rand.Float64,
	}
}

// do 执行最多 maxAttempts 次调用。
// 第 i 次失败后退避 baseDelay*2^i 加 0~1 秒随机抖动，最后一次失败原样返回。
func (r *retrier) do(ctx context.Context, stage string, call func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		result, err := call(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt >= r.maxAttempts-1 {
			logger.Error(ctx, "AI 请求失败，已达最大重试次数", err, "stage", stage, "attempts", r.maxAttempts)
			break
		}

		delay := r.backoff(attempt)
		logger.Warn(ctx, "AI 请求失败，退避后重试",
			"stage", stage,
			"attempt", attempt+1,
			"delay", delay,
			"error", err.Error(),
		)
		metrics.LLMRetryTotal.WithLabelValues(stage).Inc()
		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			return "", sleepErr
		}
	}
	return "", lastErr
}

func (r *retrier) backoff(attempt int) time.Duration {
	backoff := float64(r.baseDelay) * math.Pow(2, float64(attempt))
	jitter := r.randFloat() * float64(time.Second)
	return time.Duration(backoff + jitter)
}

// sleepContext 可被取消的睡眠，上游取消时立即放弃退避
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
