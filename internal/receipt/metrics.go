package receipt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeScored    = "scored"
	outcomeDuplicate = "duplicate"
	outcomeInvalid   = "invalid"

	outcomeFound    = "found"
	outcomeNotFound = "not_found"
)

// Metrics holds the Prometheus metrics for receipt processing. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Process calls by outcome: scored, duplicate, invalid
	ReceiptsProcessed *prometheus.CounterVec

	// Points awarded to newly scored receipts
	PointsAwarded prometheus.Histogram

	// GetPoints calls by outcome: found, not_found
	PointsLookups *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg, including a
// gauge that reports the size of store.
func NewMetrics(reg prometheus.Registerer, store Store) *Metrics {
	factory := promauto.With(reg)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "receipt_processor_stored_receipts",
		Help: "Number of receipts with stored points",
	}, func() float64 {
		return float64(store.Len())
	})

	return &Metrics{
		ReceiptsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "receipt_processor_receipts_processed_total",
			Help: "Total receipts submitted for processing by outcome",
		}, []string{"outcome"}),

		PointsAwarded: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "receipt_processor_points_awarded",
			Help:    "Points awarded to newly scored receipts",
			Buckets: []float64{10, 25, 50, 75, 100, 150, 200, 500},
		}),

		PointsLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "receipt_processor_points_lookups_total",
			Help: "Total points lookups by outcome",
		}, []string{"outcome"}),
	}
}

// IncrementProcessed records a Process outcome
func (m *Metrics) IncrementProcessed(outcome string) {
	if m != nil {
		m.ReceiptsProcessed.WithLabelValues(outcome).Inc()
	}
}

// ObservePoints records the points awarded to a new receipt
func (m *Metrics) ObservePoints(points int) {
	if m != nil {
		m.PointsAwarded.Observe(float64(points))
	}
}

// IncrementLookup records a GetPoints outcome
func (m *Metrics) IncrementLookup(outcome string) {
	if m != nil {
		m.PointsLookups.WithLabelValues(outcome).Inc()
	}
}
