// Package onboardz is a small declarative framework that decides when
// onboarding-related events should fire in an application. Hosts declare
// events as boolean conditions over a durable key-value store (launch counts,
// elapsed time, manual counters, logical combinations); the manager performs
// one-time registration at startup, checks launch-triggered events
// immediately, and re-checks manual-triggered events on demand.
//
// This package is the public surface; the engine lives in internal packages.
// A minimal host looks like:
//
//	st := onboardz.NewMemoryStore()
//	var fl struct{ WelcomeShown bool }
//	obj, _ := onboardz.NewFlags(&fl)
//	m, err := onboardz.New(ctx, st,
//		[]*onboardz.Event{
//			onboardz.NewBoolEvent("welcome", "WelcomeShown", onboardz.NewColdLaunch(1)),
//		},
//		onboardz.WithFlags(obj),
//	)
//	...
//	err = m.CheckManually(ctx) // after relevant user actions
package onboardz

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matt-riley/onboardz/internal/config"
	"github.com/matt-riley/onboardz/internal/core"
	"github.com/matt-riley/onboardz/internal/flags"
	"github.com/matt-riley/onboardz/internal/logging"
	"github.com/matt-riley/onboardz/internal/metrics"
	"github.com/matt-riley/onboardz/internal/repository"
	"github.com/matt-riley/onboardz/internal/store"
	"github.com/matt-riley/onboardz/internal/tracing"
)

// Core engine types.
type (
	Trigger       = core.Trigger
	Condition     = core.Condition
	Registrable   = core.Registrable
	Cmp           = core.Cmp
	DurationCmp   = core.DurationCmp
	CounterHandle = core.CounterHandle
	Event         = core.Event
	EventOption   = core.EventOption
	Handler       = core.Handler
	Manager       = core.Manager
	Builder       = core.Builder
	Option        = core.Option

	// Store is the durable key-value contract conditions evaluate against.
	Store = store.Store
	// Flags is a reflection-backed view over the host's flags struct.
	Flags = flags.Object
	// Metrics holds the engine's Prometheus collectors.
	Metrics = metrics.Metrics
	// Config holds host configuration loaded from the environment.
	Config = config.Config
)

// Trigger contexts.
const (
	TriggerLaunch = core.TriggerLaunch
	TriggerManual = core.TriggerManual
	TriggerAll    = core.TriggerAll
)

// Counter comparators.
var (
	Equal       = core.Equal
	GreaterThan = core.GreaterThan
	LessThan    = core.LessThan
	AtLeast     = core.AtLeast
	AtMost      = core.AtMost
)

// Duration comparators.
var (
	Longer        = core.Longer
	Shorter       = core.Shorter
	LongerOrEqual = core.LongerOrEqual
)

// New constructs a manager over the given events; see [core.Manager].
func New(ctx context.Context, s Store, events []*Event, opts ...Option) (*Manager, error) {
	return core.New(ctx, s, events, opts...)
}

// NewWithConfigurator constructs a manager from events added incrementally by
// the configure callback.
func NewWithConfigurator(ctx context.Context, s Store, configure func(*Builder), opts ...Option) (*Manager, error) {
	return core.NewWithConfigurator(ctx, s, configure, opts...)
}

// NewEvent creates an event over the given conditions.
func NewEvent(name string, conditions []Condition, opts ...EventOption) *Event {
	return core.NewEvent(name, conditions, opts...)
}

// NewBoolEvent creates the boolean convenience event: true on a satisfied
// check, default false otherwise.
func NewBoolEvent(name, field string, conditions ...Condition) *Event {
	return core.NewBoolEvent(name, field, conditions...)
}

// Event options.
func WithValue(value any) EventOption   { return core.WithValue(value) }
func WithHandler(h Handler) EventOption { return core.WithHandler(h) }
func WithFlag(field string) EventOption { return core.WithFlag(field) }
func WithDefault(value any) EventOption { return core.WithDefault(value) }

// Manager options.
func WithLogger(logger *slog.Logger) Option { return core.WithLogger(logger) }

func WithMetrics(collectors *Metrics) Option { return core.WithMetrics(collectors) }

func WithFlags(object *Flags) Option { return core.WithFlags(object) }

// Conditions.
func NewColdLaunch(threshold int64) *core.ColdLaunch { return core.NewColdLaunch(threshold) }

func NewColdLaunchCmp(threshold int64, compare Cmp) *core.ColdLaunch {
	return core.NewColdLaunchCmp(threshold, compare)
}

func NewManualCounter(key string, threshold int64) *core.ManualCounter {
	return core.NewManualCounter(key, threshold)
}

func NewManualCounterCmp(key string, threshold int64, compare Cmp) *core.ManualCounter {
	return core.NewManualCounterCmp(key, threshold, compare)
}

func NewTimeSinceFirstLaunch(threshold time.Duration) *core.TimeSinceFirstLaunch {
	return core.NewTimeSinceFirstLaunch(threshold)
}

func NewTimeSinceFirstLaunchCmp(threshold time.Duration, compare DurationCmp) *core.TimeSinceFirstLaunch {
	return core.NewTimeSinceFirstLaunchCmp(threshold, compare)
}

func NewAfterDate(date time.Time) *core.AfterDate { return core.NewAfterDate(date) }

func NewOnce(key string) *core.Once { return core.NewOnce(key) }

func NewConjunction(children ...Condition) *core.Conjunction {
	return core.NewConjunction(children...)
}

func NewDisjunction(children ...Condition) *core.Disjunction {
	return core.NewDisjunction(children...)
}

// At overrides the trigger set of cond.
func At(trigger Trigger, cond Condition) Condition { return core.At(trigger, cond) }

// NewFlags wraps the host's flags struct pointer for event bindings.
func NewFlags(target any) (*Flags, error) { return flags.New(target) }

// Stores.

// NewMemoryStore creates a non-durable in-memory store, suitable for tests
// and ephemeral hosts.
func NewMemoryStore() *store.Memory { return store.NewMemory() }

// WithPrefix namespaces every key of s with prefix.
func WithPrefix(s Store, prefix string) Store { return store.WithPrefix(s, prefix) }

// NewPostgresStore creates a durable store over an existing pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *repository.PostgresStore {
	return repository.NewPostgresStore(pool)
}

// ConnectPostgres opens and pings a pgx pool for the given connection string.
func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	return repository.Connect(ctx, databaseURL)
}

// MigratePostgres applies the embedded schema migrations.
func MigratePostgres(pool *pgxpool.Pool) error { return repository.Migrate(pool) }

// Host wiring helpers.

// LoadConfig reads host configuration from the environment.
func LoadConfig() (Config, error) { return config.Load() }

// NewLogger creates a JSON logger at the given level for [WithLogger].
func NewLogger(level string) *slog.Logger { return logging.New(level) }

// NewMetrics creates the engine's Prometheus collectors in a fresh registry.
func NewMetrics() *Metrics { return metrics.New() }

// InitTracing enables OTLP tracing when OTEL_EXPORTER_OTLP_ENDPOINT is set;
// returns a shutdown function to flush spans.
func InitTracing(ctx context.Context) (func(context.Context) error, error) {
	return tracing.Init(ctx)
}
