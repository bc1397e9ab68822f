// Package store persists the tool's local state: the response cache and the
// throttle's last-request timestamp.
package store

import (
	"context"
	"time"
)

// Store defines the persistence interface for local client state.
type Store interface {
	// Response cache
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
	DeleteExpired(ctx context.Context) (int, error)

	// Throttle state
	LastRequest(ctx context.Context) (time.Time, error)
	SetLastRequest(ctx context.Context, t time.Time) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
