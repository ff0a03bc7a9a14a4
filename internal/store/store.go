// Package store defines the durable key-value contract that onboarding
// conditions read and write, plus an in-memory implementation for tests and
// hosts that do not need persistence across restarts.
//
// Absent keys are not errors: integers read as 0, booleans as false, and
// timestamps report ok=false. Conditions rely on this to treat a fresh
// installation as a valid initial state.
package store

import (
	"context"
	"time"
)

// Store is a durable, process-wide mapping from string keys to primitive
// values. Implementations must make all operations synchronous; durability
// across process restarts is required for production backends but not for
// [Memory].
type Store interface {
	GetInt(ctx context.Context, key string) (int64, error)
	SetInt(ctx context.Context, key string, value int64) error

	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error

	// GetTime reports ok=false if no timestamp has been stored under key.
	GetTime(ctx context.Context, key string) (time.Time, bool, error)
	SetTime(ctx context.Context, key string, value time.Time) error
}

// Incrementer is an optional capability for stores that can adjust an integer
// key atomically. Callers should fall back to a read-modify-write cycle on
// stores that do not implement it.
type Incrementer interface {
	// IncrInt adds delta to the integer at key (treating an absent key as 0)
	// and returns the new value.
	IncrInt(ctx context.Context, key string, delta int64) (int64, error)
}

// IncrInt adjusts the integer at key by delta using s's [Incrementer]
// capability when available, or a non-atomic get/set cycle otherwise.
func IncrInt(ctx context.Context, s Store, key string, delta int64) (int64, error) {
	if inc, ok := s.(Incrementer); ok {
		return inc.IncrInt(ctx, key, delta)
	}

	current, err := s.GetInt(ctx, key)
	if err != nil {
		return 0, err
	}
	next := current + delta
	if err := s.SetInt(ctx, key, next); err != nil {
		return 0, err
	}
	return next, nil
}
