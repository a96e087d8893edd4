package classify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts classifier outcomes.
type Metrics struct {
	classified *prometheus.CounterVec
	successes  prometheus.Counter
}

// NewMetrics registers the classifier counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		classified: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formguard_classified_errors_total",
				Help: "Total classified errors by category",
			},
			[]string{"category"},
		),
		successes: factory.NewCounter(prometheus.CounterOpts{
			Name: "formguard_reported_successes_total",
			Help: "Total success notifications reported",
		}),
	}
}

func (m *Metrics) recordError(c Category) {
	if m == nil {
		return
	}
	m.classified.WithLabelValues(string(c)).Inc()
}

func (m *Metrics) recordSuccess() {
	if m == nil {
		return
	}
	m.successes.Inc()
}
