package repository

import (
	"context"
	"errors"
	"time"
)

// ErrLockNotObtained is returned when another request of the same session
// already holds the lock.
var ErrLockNotObtained = errors.New("lock not obtained")

// SessionStore keeps per-browser console state as JSON documents.
type SessionStore interface {
	// GetObject decodes the value stored at key into dest. It reports false
	// when nothing is stored.
	GetObject(ctx context.Context, key string, dest any) (bool, error)
	SetObject(ctx context.Context, key string, obj any, exp time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Locker hands out short-lived exclusive locks.
type Locker interface {
	// Obtain returns a release function, or ErrLockNotObtained when the key
	// is already held.
	Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}
