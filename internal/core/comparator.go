package core

import "time"

// Cmp is a binary predicate over a current counter value and a threshold.
// Counter-based conditions default to [Equal].
type Cmp func(current, threshold int64) bool

var (
	Equal       Cmp = func(current, threshold int64) bool { return current == threshold }
	GreaterThan Cmp = func(current, threshold int64) bool { return current > threshold }
	LessThan    Cmp = func(current, threshold int64) bool { return current < threshold }
	AtLeast     Cmp = func(current, threshold int64) bool { return current >= threshold }
	AtMost      Cmp = func(current, threshold int64) bool { return current <= threshold }
)

// DurationCmp is a binary predicate over an elapsed duration and a threshold.
// Time-based conditions default to [Longer].
type DurationCmp func(elapsed, threshold time.Duration) bool

var (
	Longer        DurationCmp = func(elapsed, threshold time.Duration) bool { return elapsed > threshold }
	Shorter       DurationCmp = func(elapsed, threshold time.Duration) bool { return elapsed < threshold }
	LongerOrEqual DurationCmp = func(elapsed, threshold time.Duration) bool { return elapsed >= threshold }
)
