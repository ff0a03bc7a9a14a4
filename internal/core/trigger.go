// Package core implements the onboarding decision engine: boolean conditions
// evaluated against a durable key-value store, events that bind conditions to
// actions, and a manager that drives one-time registration at startup and
// repeated checks thereafter.
package core

import (
	"context"
	"strings"

	"github.com/matt-riley/onboardz/internal/store"
)

// Trigger is a bitmask of evaluation contexts in which a condition or event
// is eligible to be checked.
type Trigger uint8

const (
	// TriggerLaunch marks conditions checked automatically when the manager
	// is constructed (once per cold start).
	TriggerLaunch Trigger = 1 << iota
	// TriggerManual marks conditions checked when the host calls
	// [Manager.CheckManually].
	TriggerManual
)

// TriggerAll covers every evaluation context.
const TriggerAll = TriggerLaunch | TriggerManual

// Has reports whether t includes any of the contexts in other.
func (t Trigger) Has(other Trigger) bool {
	return t&other != 0
}

func (t Trigger) String() string {
	if t == 0 {
		return "none"
	}

	parts := make([]string, 0, 2)
	if t.Has(TriggerLaunch) {
		parts = append(parts, "launch")
	}
	if t.Has(TriggerManual) {
		parts = append(parts, "manual")
	}

	return strings.Join(parts, "|")
}

// At wraps cond so that it reports the given trigger set instead of its own.
// Registration support is preserved.
func At(trigger Trigger, cond Condition) Condition {
	if r, ok := cond.(Registrable); ok {
		return &retriggeredRegistrable{retriggered{cond: cond, trigger: trigger}, r}
	}
	return &retriggered{cond: cond, trigger: trigger}
}

type retriggered struct {
	cond    Condition
	trigger Trigger
}

func (r *retriggered) Triggers() Trigger { return r.trigger }

func (r *retriggered) Check(ctx context.Context, s store.Store) (bool, error) {
	return r.cond.Check(ctx, s)
}

type retriggeredRegistrable struct {
	retriggered
	inner Registrable
}

func (r *retriggeredRegistrable) Register(ctx context.Context, s store.Store) error {
	return r.inner.Register(ctx, s)
}
