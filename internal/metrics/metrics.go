// Package metrics provides Prometheus instrumentation for the onboarding
// engine.
//
// All collectors are registered in a custom [prometheus.Registry] (not the
// global default) so that only onboardz metrics appear on the host's scrape
// endpoint.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors used by the onboarding engine.
type Metrics struct {
	Registry *prometheus.Registry

	RegistrationsTotal   prometheus.Counter
	ChecksTotal          *prometheus.CounterVec
	EventFiresTotal      *prometheus.CounterVec
	DefaultsAppliedTotal *prometheus.CounterVec
	StoreErrorsTotal     prometheus.Counter
	ManagedEvents        prometheus.Gauge
}

// New creates and registers all onboardz metrics in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		RegistrationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "onboardz_registrations_total",
			Help: "Total number of event registrations performed at manager construction.",
		}),

		ChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onboardz_checks_total",
			Help: "Total number of event checks by trigger context and outcome.",
		}, []string{"trigger", "satisfied"}),

		EventFiresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onboardz_event_fires_total",
			Help: "Total number of event actions fired.",
		}, []string{"event"}),

		DefaultsAppliedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onboardz_defaults_applied_total",
			Help: "Total number of default values applied after unsatisfied checks.",
		}, []string{"event"}),

		StoreErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "onboardz_store_errors_total",
			Help: "Total number of persisted store errors during registration or checks.",
		}),

		ManagedEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "onboardz_managed_events",
			Help: "Number of events owned by the manager.",
		}),
	}

	reg.MustRegister(
		m.RegistrationsTotal,
		m.ChecksTotal,
		m.EventFiresTotal,
		m.DefaultsAppliedTotal,
		m.StoreErrorsTotal,
		m.ManagedEvents,
	)

	return m
}

// Handler returns an [http.Handler] that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// RecordRegistration increments the registration counter.
func (m *Metrics) RecordRegistration() {
	m.RegistrationsTotal.Inc()
}

// RecordCheck increments the check counter for the given trigger context and
// outcome.
func (m *Metrics) RecordCheck(trigger string, satisfied bool) {
	m.ChecksTotal.WithLabelValues(trigger, strconv.FormatBool(satisfied)).Inc()
}

// RecordEventFire increments the fire counter for the named event.
func (m *Metrics) RecordEventFire(event string) {
	m.EventFiresTotal.WithLabelValues(event).Inc()
}

// RecordDefaultApplied increments the defaults counter for the named event.
func (m *Metrics) RecordDefaultApplied(event string) {
	m.DefaultsAppliedTotal.WithLabelValues(event).Inc()
}

// RecordStoreError increments the store error counter.
func (m *Metrics) RecordStoreError() {
	m.StoreErrorsTotal.Inc()
}

// SetManagedEvents updates the managed event gauge.
func (m *Metrics) SetManagedEvents(n int) {
	m.ManagedEvents.Set(float64(n))
}
