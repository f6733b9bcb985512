// SPDX-License-Identifier: MIT

// Package ratelimit throttles event ingestion per session so a misbehaving
// tracking agent cannot flood the event bus.
package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var limitExceeded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "phantom_ingest_ratelimit_exceeded_total",
	Help: "Interaction events rejected by the per-session rate limiter",
})

// Config holds per-session rate limiting settings.
type Config struct {
	Rate  rate.Limit // events per second per session
	Burst int
	// CleanupInterval bounds the limiter map; stale entries are cleared
	// wholesale once per interval.
	CleanupInterval time.Duration
}

// DefaultConfig returns the built-in ingestion limits.
func DefaultConfig() Config {
	return Config{
		Rate:            20,
		Burst:           40,
		CleanupInterval: 5 * time.Minute,
	}
}

// SessionLimiter maintains one token bucket per session id.
type SessionLimiter struct {
	config Config

	mu          sync.Mutex
	perSession  map[string]*rate.Limiter
	lastCleanup time.Time
}

// New creates a session limiter with the given config.
func New(config Config) *SessionLimiter {
	return &SessionLimiter{
		config:      config,
		perSession:  make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
	}
}

// Allow reports whether the session may emit another event now.
func (l *SessionLimiter) Allow(sessionID string) bool {
	limiter := l.sessionLimiter(sessionID)
	if !limiter.Allow() {
		limitExceeded.Inc()
		return false
	}
	l.maybeCleanup()
	return true
}

func (l *SessionLimiter) sessionLimiter(id string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.perSession[id]
	if !exists {
		limiter = rate.NewLimiter(l.config.Rate, l.config.Burst)
		l.perSession[id] = limiter
	}
	return limiter
}

// maybeCleanup clears the limiter map once per cleanup interval. Dropping
// all entries is acceptable: a recreated bucket starts full, which only
// errs on the permissive side.
func (l *SessionLimiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) < l.config.CleanupInterval {
		return
	}
	l.perSession = make(map[string]*rate.Limiter)
	l.lastCleanup = time.Now()
}
