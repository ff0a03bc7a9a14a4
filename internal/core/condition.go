package core

import (
	"context"
	"fmt"
	"time"

	"github.com/matt-riley/onboardz/internal/store"
)

// Well-known store keys used by the built-in conditions. Hosts sharing one
// backing table across applications should namespace them with
// [store.WithPrefix].
const (
	// ColdLaunchKey holds the number of cold starts observed.
	ColdLaunchKey = "onboardz.cold_launches"
	// FirstLaunchKey holds the timestamp of the first-ever launch.
	FirstLaunchKey = "onboardz.first_launch_at"
)

// Condition is a unit of boolean evaluation against the persisted store.
//
// Check must be an idempotent read of persisted state, with the documented
// exception of [Once], which consumes its flag as a side effect. Conditions
// are constructed once and immutable afterwards.
type Condition interface {
	// Triggers reports the evaluation contexts in which this condition is
	// eligible to be checked.
	Triggers() Trigger
	Check(ctx context.Context, s store.Store) (bool, error)
}

// Registrable is the capability subset of conditions that need one-time
// setup before their first evaluation in a process lifetime. The manager
// discovers it by interface assertion; conditions without setup simply do
// not implement it.
type Registrable interface {
	Condition
	Register(ctx context.Context, s store.Store) error
}

// ColdLaunch is satisfied when the persisted cold-start counter compares
// true against its threshold. Registration increments the counter exactly
// once per instance; the latch is per-instance so independent managers in
// one process (e.g. in tests) do not contaminate each other.
type ColdLaunch struct {
	threshold  int64
	compare    Cmp
	registered bool
}

// NewColdLaunch creates a cold-launch condition satisfied on exactly the
// threshold-th cold start ([Equal] comparator).
func NewColdLaunch(threshold int64) *ColdLaunch {
	return NewColdLaunchCmp(threshold, Equal)
}

// NewColdLaunchCmp creates a cold-launch condition with a custom comparator,
// e.g. [AtLeast] for "from the third launch onwards".
func NewColdLaunchCmp(threshold int64, compare Cmp) *ColdLaunch {
	return &ColdLaunch{threshold: threshold, compare: compare}
}

func (c *ColdLaunch) Triggers() Trigger { return TriggerLaunch }

func (c *ColdLaunch) Register(ctx context.Context, s store.Store) error {
	if c.registered {
		return nil
	}

	if _, err := store.IncrInt(ctx, s, ColdLaunchKey, 1); err != nil {
		return fmt.Errorf("increment cold launch counter: %w", err)
	}
	c.registered = true

	return nil
}

func (c *ColdLaunch) Check(ctx context.Context, s store.Store) (bool, error) {
	count, err := s.GetInt(ctx, ColdLaunchKey)
	if err != nil {
		return false, fmt.Errorf("read cold launch counter: %w", err)
	}

	return c.compare(count, c.threshold), nil
}

// ManualCounter is satisfied when the persisted counter at its key compares
// true against the threshold. The counter itself is driven externally through
// a [CounterHandle]; evaluation never mutates it.
type ManualCounter struct {
	key       string
	threshold int64
	compare   Cmp
}

// NewManualCounter creates a counter condition with the [Equal] comparator.
func NewManualCounter(key string, threshold int64) *ManualCounter {
	return NewManualCounterCmp(key, threshold, Equal)
}

// NewManualCounterCmp creates a counter condition with a custom comparator.
func NewManualCounterCmp(key string, threshold int64, compare Cmp) *ManualCounter {
	return &ManualCounter{key: key, threshold: threshold, compare: compare}
}

func (c *ManualCounter) Triggers() Trigger { return TriggerManual }

func (c *ManualCounter) Check(ctx context.Context, s store.Store) (bool, error) {
	count, err := s.GetInt(ctx, c.key)
	if err != nil {
		return false, fmt.Errorf("read counter %q: %w", c.key, err)
	}

	return c.compare(count, c.threshold), nil
}

// Handle grants external callers increment/decrement/reset access to the
// counter this condition reads, bound to the given store.
func (c *ManualCounter) Handle(s store.Store) CounterHandle {
	return CounterHandle{key: c.key, store: s}
}

// CounterHandle is a capability to mutate a named persisted counter from
// outside the condition tree. Updates are visible to the next Check on any
// condition sharing the key.
type CounterHandle struct {
	key   string
	store store.Store
}

// Increment adds 1 to the counter.
func (h CounterHandle) Increment(ctx context.Context) error {
	_, err := store.IncrInt(ctx, h.store, h.key, 1)
	return err
}

// Decrement subtracts 1 from the counter.
func (h CounterHandle) Decrement(ctx context.Context) error {
	_, err := store.IncrInt(ctx, h.store, h.key, -1)
	return err
}

// Reset sets the counter back to 0.
func (h CounterHandle) Reset(ctx context.Context) error {
	return h.store.SetInt(ctx, h.key, 0)
}

// Value reads the current counter value.
func (h CounterHandle) Value(ctx context.Context) (int64, error) {
	return h.store.GetInt(ctx, h.key)
}

// TimeSinceFirstLaunch is satisfied when the time elapsed since the persisted
// first-launch timestamp compares true against its threshold. Registration
// persists the current timestamp at [FirstLaunchKey] if absent (write-once).
// Not satisfied while no timestamp is persisted.
type TimeSinceFirstLaunch struct {
	threshold time.Duration
	compare   DurationCmp
	now       func() time.Time
}

// NewTimeSinceFirstLaunch creates a time-based condition with the [Longer]
// comparator (strictly more than threshold since first launch).
func NewTimeSinceFirstLaunch(threshold time.Duration) *TimeSinceFirstLaunch {
	return NewTimeSinceFirstLaunchCmp(threshold, Longer)
}

// NewTimeSinceFirstLaunchCmp creates a time-based condition with a custom
// duration comparator.
func NewTimeSinceFirstLaunchCmp(threshold time.Duration, compare DurationCmp) *TimeSinceFirstLaunch {
	return &TimeSinceFirstLaunch{threshold: threshold, compare: compare, now: time.Now}
}

// WithClock replaces the wall clock, for tests.
func (c *TimeSinceFirstLaunch) WithClock(now func() time.Time) *TimeSinceFirstLaunch {
	c.now = now
	return c
}

func (c *TimeSinceFirstLaunch) Triggers() Trigger { return TriggerAll }

func (c *TimeSinceFirstLaunch) Register(ctx context.Context, s store.Store) error {
	_, ok, err := s.GetTime(ctx, FirstLaunchKey)
	if err != nil {
		return fmt.Errorf("read first launch timestamp: %w", err)
	}
	if ok {
		return nil
	}

	if err := s.SetTime(ctx, FirstLaunchKey, c.now()); err != nil {
		return fmt.Errorf("persist first launch timestamp: %w", err)
	}

	return nil
}

func (c *TimeSinceFirstLaunch) Check(ctx context.Context, s store.Store) (bool, error) {
	first, ok, err := s.GetTime(ctx, FirstLaunchKey)
	if err != nil {
		return false, fmt.Errorf("read first launch timestamp: %w", err)
	}
	if !ok {
		return false, nil
	}

	return c.compare(c.now().Sub(first), c.threshold), nil
}

// AfterDate is satisfied strictly after the given instant. It reads no
// persisted state.
type AfterDate struct {
	date time.Time
	now  func() time.Time
}

// NewAfterDate creates a condition satisfied once the wall clock passes date.
func NewAfterDate(date time.Time) *AfterDate {
	return &AfterDate{date: date, now: time.Now}
}

// WithClock replaces the wall clock, for tests.
func (c *AfterDate) WithClock(now func() time.Time) *AfterDate {
	c.now = now
	return c
}

func (c *AfterDate) Triggers() Trigger { return TriggerAll }

func (c *AfterDate) Check(context.Context, store.Store) (bool, error) {
	return c.now().After(c.date), nil
}

// Once is satisfied at most once ever per key. Checking it is deliberately
// stateful: the first evaluation sets the persisted flag and reports true,
// every later evaluation reports false until the key is externally reset.
type Once struct {
	key string
}

// NewOnce creates a one-shot condition persisted under key.
func NewOnce(key string) *Once {
	return &Once{key: key}
}

func (c *Once) Triggers() Trigger { return TriggerAll }

func (c *Once) Check(ctx context.Context, s store.Store) (bool, error) {
	consumed, err := s.GetBool(ctx, c.key)
	if err != nil {
		return false, fmt.Errorf("read once flag %q: %w", c.key, err)
	}
	if consumed {
		return false, nil
	}

	if err := s.SetBool(ctx, c.key, true); err != nil {
		return false, fmt.Errorf("persist once flag %q: %w", c.key, err)
	}

	return true, nil
}
