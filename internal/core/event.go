package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-riley/onboardz/internal/store"
)

// Handler is an event action invoked with the event's bound context value
// when every condition is satisfied.
type Handler func(ctx context.Context, value any) error

// Event binds an ordered list of conditions to an action. The event level is
// always conjunctive: the action fires only when every condition reports
// satisfied, regardless of any Conjunction/Disjunction nesting inside the
// list. Conditions are evaluated in declaration order and evaluation stops at
// the first unsatisfied one.
//
// An event fires its action at most once per check call. When the check is
// not satisfied and a default value is configured, the default is assigned to
// the bound flags field instead, once per failed check.
type Event struct {
	name       string
	conditions []Condition

	value   any
	handler Handler

	flagField string
	hasFlag   bool

	defaultValue any
	hasDefault   bool
}

// EventOption configures an [Event] at construction.
type EventOption func(*Event)

// WithValue sets the context value passed to the handler and assigned to the
// bound flags field on a satisfied check.
func WithValue(value any) EventOption {
	return func(e *Event) { e.value = value }
}

// WithHandler binds a handler called with the event's context value when the
// check is satisfied.
func WithHandler(handler Handler) EventOption {
	return func(e *Event) { e.handler = handler }
}

// WithFlag binds the named field on the manager's flags object; a satisfied
// check assigns the event's context value into it.
func WithFlag(field string) EventOption {
	return func(e *Event) {
		e.flagField = field
		e.hasFlag = true
	}
}

// WithDefault configures the default-value policy: when a check is not
// satisfied, value is assigned to the bound flags field. Requires [WithFlag].
func WithDefault(value any) EventOption {
	return func(e *Event) {
		e.defaultValue = value
		e.hasDefault = true
	}
}

// NewEvent creates an event over the given conditions. At least one action
// ([WithHandler] or [WithFlag]) must be configured; this is verified when the
// event is handed to a manager.
func NewEvent(name string, conditions []Condition, opts ...EventOption) *Event {
	e := &Event{name: name, conditions: conditions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewBoolEvent creates the common boolean convenience event: on a satisfied
// check the named flags field is set to true, otherwise it defaults to false.
func NewBoolEvent(name, field string, conditions ...Condition) *Event {
	return NewEvent(name, conditions,
		WithValue(true),
		WithFlag(field),
		WithDefault(false),
	)
}

// Name returns the event's name, used in logs and metrics.
func (e *Event) Name() string { return e.name }

// Triggers returns the union of the owned conditions' trigger sets. An event
// with no conditions (always satisfied) claims all triggers.
func (e *Event) Triggers() Trigger {
	return unionTriggers(e.conditions)
}

// validate surfaces configuration mistakes before the manager accepts the
// event: missing actions, flag bindings without a flags object, and value or
// default types the bound field cannot hold.
func (e *Event) validate(rt *runtime) error {
	if e.name == "" {
		return errors.New("event name is required")
	}
	if e.handler == nil && !e.hasFlag {
		return fmt.Errorf("event %q has no action: configure WithHandler or WithFlag", e.name)
	}
	if e.hasDefault && !e.hasFlag {
		return fmt.Errorf("event %q configures WithDefault without WithFlag", e.name)
	}

	if e.hasFlag {
		if rt.flags == nil {
			return fmt.Errorf("event %q binds flags field %q but the manager has no flags object", e.name, e.flagField)
		}
		if err := rt.flags.Validate(e.flagField, e.value); err != nil {
			return fmt.Errorf("event %q: %w", e.name, err)
		}
		if e.hasDefault {
			if err := rt.flags.Validate(e.flagField, e.defaultValue); err != nil {
				return fmt.Errorf("event %q default: %w", e.name, err)
			}
		}
	}

	return nil
}

// register performs one-time setup for every owned condition that supports
// it, in declaration order.
func (e *Event) register(ctx context.Context, s store.Store) error {
	for i, cond := range e.conditions {
		r, ok := cond.(Registrable)
		if !ok {
			continue
		}
		if err := r.Register(ctx, s); err != nil {
			return fmt.Errorf("event %q: register condition %d: %w", e.name, i, err)
		}
	}

	return nil
}

// check evaluates the owned conditions and performs the bound action or
// applies the default. It reports whether the conditions were satisfied.
func (e *Event) check(ctx context.Context, rt *runtime) (bool, error) {
	satisfied := true
	for _, cond := range e.conditions {
		ok, err := cond.Check(ctx, rt.store)
		if err != nil {
			return false, fmt.Errorf("event %q: %w", e.name, err)
		}
		if !ok {
			satisfied = false
			break
		}
	}

	if !satisfied {
		if e.hasDefault {
			if err := rt.flags.Set(e.flagField, e.defaultValue); err != nil {
				return false, fmt.Errorf("event %q: apply default: %w", e.name, err)
			}
			if rt.metrics != nil {
				rt.metrics.RecordDefaultApplied(e.name)
			}
		}
		return false, nil
	}

	if e.handler != nil {
		if err := e.handler(ctx, e.value); err != nil {
			return true, fmt.Errorf("event %q: handler: %w", e.name, err)
		}
	}
	if e.hasFlag {
		if err := rt.flags.Set(e.flagField, e.value); err != nil {
			return true, fmt.Errorf("event %q: assign flag: %w", e.name, err)
		}
	}
	if rt.metrics != nil {
		rt.metrics.RecordEventFire(e.name)
	}

	return true, nil
}
