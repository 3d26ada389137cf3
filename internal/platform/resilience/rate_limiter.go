// Package resilience provides admission control and failure isolation
// primitives used in front of the upstream data providers.
package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrRateLimitExceeded is returned when a client exceeds its request ceiling
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// rateWindow tracks a single client's request count within the current window
type rateWindow struct {
	count       int
	windowStart time.Time
}

// ClientLimiter bounds request rate per client identity over a fixed
// time window. Once the window elapses the counter resets; until then the
// client is admitted at most limit times.
//
// State is process-local: a horizontally scaled deployment needs an
// external shared counter instead.
type ClientLimiter struct {
	window  time.Duration
	limit   int
	mu      sync.Mutex
	clients map[string]*rateWindow
}

// NewClientLimiter creates a new per-client rate limiter.
// window: length of the admission window
// limit: maximum admissions per client within one window
func NewClientLimiter(window time.Duration, limit int) *ClientLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if limit <= 0 {
		limit = 60
	}

	return &ClientLimiter{
		window:  window,
		limit:   limit,
		clients: make(map[string]*rateWindow),
	}
}

// Admit reports whether a request from clientID is allowed.
// The count is incremented even for rejected requests; only the elapse of
// the window resets it.
func (l *ClientLimiter) Admit(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	w, ok := l.clients[clientID]
	if !ok {
		w = &rateWindow{windowStart: now}
		l.clients[clientID] = w
	}

	if now.Sub(w.windowStart) > l.window {
		w.count = 0
		w.windowStart = now
	}

	w.count++
	return w.count <= l.limit
}

// Remaining returns how many admissions the client has left in the current
// window. A client with no recorded window has the full limit available.
func (l *ClientLimiter) Remaining(clientID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[clientID]
	if !ok || time.Since(w.windowStart) > l.window {
		return l.limit
	}

	remaining := l.limit - w.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears the recorded window for a single client.
func (l *ClientLimiter) Reset(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.clients, clientID)
}

// Stats returns the configured window, limit, and number of tracked clients.
func (l *ClientLimiter) Stats() (window time.Duration, limit int, tracked int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.window, l.limit, len(l.clients)
}
