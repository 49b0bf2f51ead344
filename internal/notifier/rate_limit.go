package notifier

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter caps outbound Slack sends with a per-recipient and a global
// budget so a mention-heavy burst of webhooks cannot trip the Slack API
// limits.
type RateLimiter struct {
	recipient *scopedLimiter
	global    *rate.Limiter
}

type scopedLimiter struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	rate  rate.Limit
	burst int
}

func newScopedLimiter(perMinute int) *scopedLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &scopedLimiter{
		m:     make(map[string]*rate.Limiter),
		rate:  rate.Limit(float64(perMinute) / 60.0),
		burst: perMinute,
	}
}

func (s *scopedLimiter) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lim, ok := s.m[key]
	if !ok {
		lim = rate.NewLimiter(s.rate, s.burst)
		s.m[key] = lim
	}
	return lim.Allow()
}

// NewRateLimiter constructs a composite limiter with per-recipient and
// global per-minute budgets.
func NewRateLimiter(recipientPerMinute, globalPerMinute int) *RateLimiter {
	if globalPerMinute <= 0 {
		globalPerMinute = 60
	}
	return &RateLimiter{
		recipient: newScopedLimiter(recipientPerMinute),
		global:    rate.NewLimiter(rate.Limit(float64(globalPerMinute)/60.0), globalPerMinute),
	}
}

// Allow reports whether a send to the given recipient fits the budgets.
func (r *RateLimiter) Allow(recipientID string) bool {
	if !r.global.Allow() {
		return false
	}
	return r.recipient.allow(recipientID)
}
