package runner

import (
	"sync"
	"time"
)

// tokenBucket is admission control at the submission boundary: excess
// submissions are rejected up front instead of blocking a worker slot.
type tokenBucket struct {
	mu     sync.Mutex
	tokens float64
	max    float64
	rate   float64 // tokens per second
	last   time.Time
}

// newTokenBucket allows perMinute submissions per minute, with bursts up to
// the full budget. perMinute <= 0 disables limiting.
func newTokenBucket(perMinute int) *tokenBucket {
	if perMinute <= 0 {
		return nil
	}
	return &tokenBucket{
		tokens: float64(perMinute),
		max:    float64(perMinute),
		rate:   float64(perMinute) / 60,
		last:   time.Now(),
	}
}

// take consumes one token if available. A nil bucket always admits.
func (b *tokenBucket) take() bool {
	if b == nil {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.last).Seconds() * b.rate
	if b.tokens > b.max {
		b.tokens = b.max
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
