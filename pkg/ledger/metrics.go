package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records ledger activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	operations       *prometheus.CounterVec
	balanceMutations *prometheus.CounterVec
	balanceCents     *prometheus.CounterVec
	auditMismatches  *prometheus.GaugeVec
}

// NewMetrics creates the ledger collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Ledger operations by name and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		balanceMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_balance_mutations_total",
				Help: "Member account mutations by direction.",
			},
			[]string{"direction"},
		),
		balanceCents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_balance_mutation_cents_total",
				Help: "Absolute cents moved into or out of member accounts.",
			},
			[]string{"direction"},
		),
		auditMismatches: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ledger_audit_mismatches",
				Help: "Mismatches found by the most recent audit run.",
			},
			[]string{"audit"},
		),
	}
	reg.MustRegister(m.operations, m.balanceMutations, m.balanceCents, m.auditMismatches)
	return m
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, string(Kind(err))).Inc()
}

func (m *Metrics) balanceMutation(delta int64) {
	if m == nil || delta == 0 {
		return
	}
	direction := "credit"
	if delta < 0 {
		direction = "debit"
		delta = -delta
	}
	m.balanceMutations.WithLabelValues(direction).Inc()
	m.balanceCents.WithLabelValues(direction).Add(float64(delta))
}

// SetAuditMismatches records the mismatch count of the latest run of an audit.
func (m *Metrics) SetAuditMismatches(audit string, n int) {
	if m == nil {
		return
	}
	m.auditMismatches.WithLabelValues(audit).Set(float64(n))
}
