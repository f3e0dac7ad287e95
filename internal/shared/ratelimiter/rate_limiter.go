// Package ratelimiter はキー（クライアントIPなど）単位で操作の頻度を制限します。
package ratelimiter

import (
	"sync"
	"time"
)

// RateLimiterInterface は、操作を許可するかどうかを判定するインターフェースです。
type RateLimiterInterface interface {
	Allow(key string) bool
}

// window は1つのキーに対する固定ウィンドウのカウンタです。
type window struct {
	count     int
	lastReset time.Time
}

// RateLimiter は固定ウィンドウ方式でキーごとの呼び出し回数を制限します。
// 複数のリクエストgoroutineから同時に呼ばれるため、mutexで保護します。
type RateLimiter struct {
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか
	now      func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は制限を行いません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
		windows:  make(map[string]*window),
	}
}

// Allow はキーが上限に達していなければカウントを進めてtrueを返します。
func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		w = &window{lastReset: now}
		rl.windows[key] = w
		rl.sweep(now)
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// sweep は期限切れのウィンドウを削除してマップの肥大化を防ぎます。
func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
}
