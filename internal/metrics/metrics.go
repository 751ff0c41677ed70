// Package metrics exposes Prometheus collectors for authentication events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginError   = "error"
)

// Gate decisions.
const (
	GatePublic       = "public"
	GateUnrestricted = "unrestricted"
	GateAllowed      = "allowed"
	GateMissing      = "missing"
	GateInvalid      = "invalid"
)

// Metrics holds the portal collectors.
type Metrics struct {
	Logins        *prometheus.CounterVec
	GateDecisions *prometheus.CounterVec
	StoreFailures *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docportal",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		GateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docportal",
			Name:      "gate_decisions_total",
			Help:      "Request gate decisions by result.",
		}, []string{"decision"}),
		StoreFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docportal",
			Name:      "user_store_failures_total",
			Help:      "Credential store I/O failures by operation.",
		}, []string{"op"}),
	}

	if reg != nil {
		reg.MustRegister(m.Logins, m.GateDecisions, m.StoreFailures)
	}
	return m
}

// ObserveLogin counts a login attempt. Safe on a nil receiver.
func (m *Metrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

// ObserveGate counts a gate decision. Safe on a nil receiver.
func (m *Metrics) ObserveGate(decision string) {
	if m == nil {
		return
	}
	m.GateDecisions.WithLabelValues(decision).Inc()
}

// ObserveStoreFailure counts a credential store failure. Safe on a nil receiver.
func (m *Metrics) ObserveStoreFailure(op string) {
	if m == nil {
		return
	}
	m.StoreFailures.WithLabelValues(op).Inc()
}
