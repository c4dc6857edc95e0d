// Package ratelimiter は外部API呼び出しの頻度を固定ウィンドウで制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiter は interval あたり limit 回までの呼び出しを許可します。
// 複数のgoroutineから同時に利用できます。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // ウィンドウあたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Wait は上限に達していれば次のウィンドウまで待機します。
// 待機中に ctx が終了した場合は ctx.Err() を返し、枠を消費しません。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		delay := rl.reserve()
		if delay <= 0 {
			return nil
		}
		slog.Debug("rate limit reached, waiting", "limit", rl.limit, "wait", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve は枠が空いていれば消費して 0 を、空いていなければ次のウィンドウまでの時間を返します。
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}
	if rl.count < rl.limit {
		rl.count++
		return 0
	}
	return rl.interval - now.Sub(rl.lastReset)
}
