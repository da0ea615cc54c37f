package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// refreshMargin is how long before expiry a token is refreshed
// proactively, so no request ever goes out with a token about to die.
const refreshMargin = time.Minute

// LoginFunc exchanges the configured credential for a bearer token and
// its expiry.
type LoginFunc func(ctx context.Context) (string, time.Time, error)

// TokenManager caches the store bearer token. The token is safe to
// read from any number of source tasks; refresh runs at most once at a
// time via singleflight, no matter how many cycles demand it.
type TokenManager struct {
	login LoginFunc

	mu     sync.RWMutex
	token  string
	expiry time.Time

	group singleflight.Group
}

// NewTokenManager builds a manager around the given login exchange.
func NewTokenManager(login LoginFunc) *TokenManager {
	return &TokenManager{login: login}
}

// Token returns a valid bearer token, refreshing it first when the
// cached one is missing or close to expiry.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	if tok, ok := m.cached(); ok {
		return tok, nil
	}

	result, err, _ := m.group.Do("login", func() (any, error) {
		// another caller may have refreshed while this one waited
		if tok, ok := m.cached(); ok {
			return tok, nil
		}

		tok, expiry, err := m.login(ctx)
		if err != nil {
			return "", err
		}

		m.mu.Lock()
		m.token = tok
		m.expiry = expiry
		m.mu.Unlock()
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// cached returns the current token when it is still comfortably valid.
func (m *TokenManager) cached() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == "" || time.Now().After(m.expiry.Add(-refreshMargin)) {
		return "", false
	}
	return m.token, true
}

// Invalidate drops the cached token, forcing a fresh login on the next
// Token call. Used after an authorization rejection.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	m.token = ""
	m.expiry = time.Time{}
	m.mu.Unlock()
}
