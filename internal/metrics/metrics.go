package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

const (
	namespace = "toolrental"
	subsystem = "checkout"
)

// Checkout outcomes
const (
	OutcomeCheckedOut  = "checked_out"
	OutcomeUnavailable = "unavailable"
	OutcomeInvalid     = "invalid"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
)

// Metrics holds the rental collectors. A nil *Metrics records nothing.
type Metrics struct {
	Checkouts     *prometheus.CounterVec
	ChargeDays    prometheus.Histogram
	RevenueCents  *prometheus.CounterVec
	Returns       prometheus.Counter
	OverdueMarked prometheus.Counter
}

// New registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Checkouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Checkout requests partitioned by outcome",
		}, []string{"outcome"}),
		ChargeDays: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "charge_days",
			Help:      "Charge days per rental agreement",
			Buckets:   []float64{0, 1, 2, 3, 5, 7, 14, 30, 90, 365},
		}),
		RevenueCents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "final_charge_cents_total",
			Help:      "Sum of final charges in cents partitioned by tool code",
		}, []string{"tool_code"}),
		Returns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "returns_total",
			Help:      "Tools returned to inventory",
		}),
		OverdueMarked: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overdue_marked_total",
			Help:      "Rentals flagged overdue by the scheduler",
		}),
	}
}

func (m *Metrics) CheckoutOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(outcome).Inc()
}

// AgreementCreated records a successful checkout
func (m *Metrics) AgreementCreated(toolCode string, chargeDays int, finalCharge decimal.Decimal) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(OutcomeCheckedOut).Inc()
	m.ChargeDays.Observe(float64(chargeDays))
	m.RevenueCents.WithLabelValues(toolCode).Add(float64(finalCharge.Shift(2).IntPart()))
}

func (m *Metrics) ToolReturned() {
	if m == nil {
		return
	}
	m.Returns.Inc()
}

func (m *Metrics) RentalsOverdue(n int) {
	if m == nil {
		return
	}
	m.OverdueMarked.Add(float64(n))
}
