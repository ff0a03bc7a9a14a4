package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matt-riley/onboardz/internal/flags"
	"github.com/matt-riley/onboardz/internal/metrics"
	"github.com/matt-riley/onboardz/internal/store"
)

const tracerName = "github.com/matt-riley/onboardz"

// runtime bundles the collaborators every event needs during a check.
type runtime struct {
	store   store.Store
	flags   *flags.Object
	metrics *metrics.Metrics
}

// Manager owns the full set of onboarding events for an application session.
//
// Construction performs one-time registration of every event in declaration
// order and then checks the events whose trigger set includes
// [TriggerLaunch]. Afterwards the host calls [Manager.CheckManually] whenever
// a manually-triggered condition might newly hold.
//
// State machine: Configuring (events collected during construction) →
// Registered (registration ran; [Manager.Add] now panics) → Active
// (CheckManually callable arbitrarily often). There is no way back.
//
// The manager provides no internal locking; hosts with concurrent callers
// must serialize access themselves (the persisted store's own thread safety
// is the only protection otherwise).
type Manager struct {
	id     string
	rt     runtime
	logger *slog.Logger
	tracer trace.Tracer

	events     []*Event
	registered bool
}

// Option configures a [Manager] at construction.
type Option func(*Manager)

// WithLogger attaches a structured logger. The manager is silent without one.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(collectors *metrics.Metrics) Option {
	return func(m *Manager) { m.rt.metrics = collectors }
}

// WithFlags attaches the host's flags object, required by events that bind a
// flags field.
func WithFlags(object *flags.Object) Option {
	return func(m *Manager) { m.rt.flags = object }
}

// New constructs a manager over the given events, registers every event in
// declaration order, and immediately checks launch-triggered events. All
// registration runs before the first check so that one-time side effects
// (e.g. the cold-launch increment) are visible to every launch check.
func New(ctx context.Context, s store.Store, events []*Event, opts ...Option) (*Manager, error) {
	if s == nil {
		return nil, errors.New("store is required")
	}

	m := &Manager{
		id:     uuid.NewString(),
		rt:     runtime{store: s},
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("manager_id", m.id)
	m.events = events

	if err := m.registerAll(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

// Builder collects events for [NewWithConfigurator]. It is the restricted
// proxy handed to the configurator callback; it cannot trigger checks or
// registration.
type Builder struct {
	events []*Event
}

// Add appends an event, preserving declaration order.
func (b *Builder) Add(event *Event) *Builder {
	b.events = append(b.events, event)
	return b
}

// NewWithConfigurator constructs a manager from events added incrementally by
// the configure callback. Semantics are identical to [New].
func NewWithConfigurator(ctx context.Context, s store.Store, configure func(*Builder), opts ...Option) (*Manager, error) {
	b := &Builder{}
	if configure != nil {
		configure(b)
	}
	return New(ctx, s, b.events, opts...)
}

// ID returns the manager's instance identifier, unique per construction.
func (m *Manager) ID() string { return m.id }

// Add panics: once construction completes the event set is sealed. An
// onboarding flow, once started, must not be reconfigured — attempting to is
// a programming error, not a recoverable runtime condition.
func (m *Manager) Add(event *Event) {
	if m.registered {
		panic(fmt.Sprintf("onboardz: event %q added after manager registration; declare all events at construction", event.Name()))
	}
	m.events = append(m.events, event)
}

// CheckManually re-evaluates every event whose trigger set includes
// [TriggerManual], in declaration order. Events are independent: a failed or
// unsatisfied event never prevents later events from being checked. The
// returned error joins all per-event failures.
func (m *Manager) CheckManually(ctx context.Context) error {
	ctx, span := m.tracer.Start(ctx, "onboardz.check_manual",
		trace.WithAttributes(attribute.String("onboardz.manager_id", m.id)))
	defer span.End()

	return m.checkTriggered(ctx, TriggerManual)
}

func (m *Manager) registerAll(ctx context.Context) error {
	ctx, span := m.tracer.Start(ctx, "onboardz.register",
		trace.WithAttributes(
			attribute.String("onboardz.manager_id", m.id),
			attribute.Int("onboardz.events", len(m.events)),
		))
	defer span.End()

	for _, event := range m.events {
		if err := event.validate(&m.rt); err != nil {
			return fmt.Errorf("configure events: %w", err)
		}
	}

	for _, event := range m.events {
		if err := event.register(ctx, m.rt.store); err != nil {
			if m.rt.metrics != nil {
				m.rt.metrics.RecordStoreError()
			}
			return fmt.Errorf("register events: %w", err)
		}
		if m.rt.metrics != nil {
			m.rt.metrics.RecordRegistration()
		}
		m.logger.Debug("event registered", "event", event.Name(), "triggers", event.Triggers().String())
	}

	m.registered = true
	if m.rt.metrics != nil {
		m.rt.metrics.SetManagedEvents(len(m.events))
	}

	return m.checkTriggered(ctx, TriggerLaunch)
}

func (m *Manager) checkTriggered(ctx context.Context, trigger Trigger) error {
	var errs []error
	for _, event := range m.events {
		if !event.Triggers().Has(trigger) {
			continue
		}

		satisfied, err := event.check(ctx, &m.rt)
		if err != nil {
			if m.rt.metrics != nil {
				m.rt.metrics.RecordStoreError()
			}
			m.logger.Error("event check failed", "event", event.Name(), "trigger", trigger.String(), "error", err)
			errs = append(errs, err)
			continue
		}

		if m.rt.metrics != nil {
			m.rt.metrics.RecordCheck(trigger.String(), satisfied)
		}
		m.logger.Debug("event checked", "event", event.Name(), "trigger", trigger.String(), "satisfied", satisfied)
	}

	return errors.Join(errs...)
}
