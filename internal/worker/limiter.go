package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter implements per-provider rate limiting so batch runs do not
// hammer LLM APIs. Local extraction ("regex") shares the machinery but
// can be given an unbounded rate.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait waits for rate limit clearance for the given provider
func (l *Limiter) Wait(ctx context.Context, provider string) error {
	return l.getLimiter(provider).Wait(ctx)
}

// Allow checks if a request is allowed without waiting
func (l *Limiter) Allow(provider string) bool {
	return l.getLimiter(provider).Allow()
}

// getLimiter returns the rate limiter for a provider
func (l *Limiter) getLimiter(provider string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[provider]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[provider]; exists {
		return limiter
	}

	// Create new limiter for this provider
	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[provider] = limiter

	return limiter
}

// SetProviderRate sets a custom rate limit for a specific provider
func (l *Limiter) SetProviderRate(provider string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[provider] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}
