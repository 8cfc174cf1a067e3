package github

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClientStats tracks API usage statistics
type ClientStats struct {
	APICallsCount  int
	ErrorsCount    int
	RateLimitHits  int
	LastAPICall    time.Time
	RemainingQuota int
	QuotaResetTime time.Time
	mu             sync.RWMutex
}

// GetStats returns a copy of the current client statistics
func (s *ClientStats) GetStats() ClientStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ClientStats{
		APICallsCount:  s.APICallsCount,
		ErrorsCount:    s.ErrorsCount,
		RateLimitHits:  s.RateLimitHits,
		LastAPICall:    s.LastAPICall,
		RemainingQuota: s.RemainingQuota,
		QuotaResetTime: s.QuotaResetTime,
	}
}

// IncrementAPICall safely increments the API call counter
func (s *ClientStats) IncrementAPICall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.APICallsCount++
	s.LastAPICall = time.Now()
}

// IncrementError safely increments the error counter
func (s *ClientStats) IncrementError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ErrorsCount++
}

// IncrementRateLimitHit safely increments the rate limit hit counter
func (s *ClientStats) IncrementRateLimitHit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RateLimitHits++
}

// UpdateQuota updates the rate limit quota information
func (s *ClientStats) UpdateQuota(remaining int, resetTime time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RemainingQuota = remaining
	s.QuotaResetTime = resetTime
}

// RateLimiter wraps the rate limiter with additional functionality
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(requestsPerHour int) *RateLimiter {
	if requestsPerHour <= 0 {
		requestsPerHour = 5000 // Default GitHub rate limit
	}

	// Convert to requests per second with burst capacity
	rps := rate.Limit(float64(requestsPerHour) / 3600)
	limiter := rate.NewLimiter(rps, 10)

	return &RateLimiter{
		limiter: limiter,
	}
}

// Wait waits for the rate limiter to allow the request
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
