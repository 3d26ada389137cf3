// Package admin gates cache invalidation behind a shared secret.
package admin

import (
	"crypto/subtle"
	"errors"

	"github.com/isogloss/tarkov-search/internal/platform/cache"
)

var (
	// ErrUnauthorized is returned when the presented credential does not
	// match. The error carries no information about the target key.
	ErrUnauthorized = errors.New("admin: unauthorized")
)

// SecretVerifier checks an admin credential.
type SecretVerifier interface {
	// Verify reports whether the presented token is valid.
	Verify(token string) bool
}

// StaticSecret verifies tokens against a single configured secret.
type StaticSecret struct {
	secret string
}

// NewStaticSecret creates a verifier for the given shared secret.
func NewStaticSecret(secret string) *StaticSecret {
	return &StaticSecret{secret: secret}
}

// Verify compares in constant time. An empty configured secret never
// verifies: admin operations stay locked rather than falling open.
func (s *StaticSecret) Verify(token string) bool {
	if s.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.secret), []byte(token)) == 1
}

// Controller exposes the cache store's invalidation operations behind the
// credential check. It holds no state of its own.
type Controller struct {
	store    *cache.Store
	verifier SecretVerifier
}

// ControllerConfig holds admin controller dependencies.
type ControllerConfig struct {
	Store    *cache.Store
	Verifier SecretVerifier
}

// NewController creates an admin controller.
func NewController(cfg ControllerConfig) *Controller {
	return &Controller{
		store:    cfg.Store,
		verifier: cfg.Verifier,
	}
}

// ClearAll removes every cache entry and returns the count removed.
// On credential mismatch nothing is mutated.
func (c *Controller) ClearAll(token string) (int, error) {
	if !c.verifier.Verify(token) {
		return 0, ErrUnauthorized
	}

	return c.store.InvalidateAll(), nil
}

// ClearKey removes a single cache entry and reports whether it existed.
// On credential mismatch nothing is mutated and existence is not revealed.
func (c *Controller) ClearKey(token, key string) (bool, error) {
	if !c.verifier.Verify(token) {
		return false, ErrUnauthorized
	}

	return c.store.Invalidate(key), nil
}
