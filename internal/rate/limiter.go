package rate

import (
	"context"
	"fmt"
	"time"

	"estatedesk/internal/cache"
)

// Limiter throttles OTP requests per (email, purpose) using redis counters.
// It fails open: when redis is unavailable requests are allowed through.
type Limiter struct {
	cache       *cache.Client
	window      time.Duration
	maxInWindow int
	cooldown    time.Duration
}

// NewLimiter creates a limiter with a request window, a cap within the window
// and a cooldown between consecutive requests.
func NewLimiter(cache *cache.Client, window time.Duration, max int, cooldown time.Duration) *Limiter {
	return &Limiter{cache: cache, window: window, maxInWindow: max, cooldown: cooldown}
}

// CanRequest returns an error describing the wait when the caller must back off.
func (l *Limiter) CanRequest(ctx context.Context, email, purpose string) error {
	blockKey := fmt.Sprintf("otp:block:%s:%s", email, purpose)
	lastKey := fmt.Sprintf("otp:last:%s:%s", email, purpose)
	countKey := fmt.Sprintf("otp:count:%s:%s", email, purpose)

	if ttl, _ := l.cache.TTL(ctx, blockKey); ttl > 0 {
		return fmt.Errorf("too many OTP requests; please try again after %d seconds", int(ttl.Seconds()))
	}

	if ttl, _ := l.cache.TTL(ctx, lastKey); ttl > 0 {
		return fmt.Errorf("please wait %d seconds before requesting another OTP", int(ttl.Seconds()))
	}

	cnt, err := l.cache.IncrWithExpire(ctx, countKey, l.window)
	if err != nil {
		return err
	}
	if cnt > int64(l.maxInWindow) {
		// Over the cap: block for an extended period.
		_ = l.cache.Set(ctx, blockKey, []byte("1"), l.window*3)
		return fmt.Errorf("too many OTP requests; please try again after %d seconds", int((l.window * 3).Seconds()))
	}

	_ = l.cache.Set(ctx, lastKey, []byte("1"), l.cooldown)
	return nil
}
