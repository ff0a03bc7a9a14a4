package core

import (
	"context"
	"fmt"

	"github.com/matt-riley/onboardz/internal/store"
)

// Conjunction is satisfied when every child is satisfied. Children are
// evaluated in insertion order and evaluation stops at the first false child,
// so a [Once] placed after a failing sibling is not consumed.
//
// Its trigger set is the union of the children's triggers; a childless
// conjunction conservatively claims all triggers.
type Conjunction struct {
	children []Condition
}

// NewConjunction combines children with AND semantics.
func NewConjunction(children ...Condition) *Conjunction {
	return &Conjunction{children: children}
}

func (c *Conjunction) Triggers() Trigger { return unionTriggers(c.children) }

func (c *Conjunction) Register(ctx context.Context, s store.Store) error {
	return registerChildren(ctx, s, c.children)
}

func (c *Conjunction) Check(ctx context.Context, s store.Store) (bool, error) {
	for _, child := range c.children {
		ok, err := child.Check(ctx, s)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	return true, nil
}

// Disjunction is satisfied when at least one child is satisfied. Children are
// evaluated in insertion order and evaluation stops at the first true child.
//
// Its trigger set is the union of the children's triggers; a childless
// disjunction conservatively claims all triggers.
type Disjunction struct {
	children []Condition
}

// NewDisjunction combines children with OR semantics.
func NewDisjunction(children ...Condition) *Disjunction {
	return &Disjunction{children: children}
}

func (d *Disjunction) Triggers() Trigger { return unionTriggers(d.children) }

func (d *Disjunction) Register(ctx context.Context, s store.Store) error {
	return registerChildren(ctx, s, d.children)
}

func (d *Disjunction) Check(ctx context.Context, s store.Store) (bool, error) {
	for _, child := range d.children {
		ok, err := child.Check(ctx, s)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

func unionTriggers(children []Condition) Trigger {
	if len(children) == 0 {
		return TriggerAll
	}

	var union Trigger
	for _, child := range children {
		union |= child.Triggers()
	}

	return union
}

func registerChildren(ctx context.Context, s store.Store, children []Condition) error {
	for i, child := range children {
		r, ok := child.(Registrable)
		if !ok {
			continue
		}
		if err := r.Register(ctx, s); err != nil {
			return fmt.Errorf("register child %d: %w", i, err)
		}
	}

	return nil
}
