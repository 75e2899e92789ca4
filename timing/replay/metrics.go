package replay

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports replay counters to a prometheus registry. It is safe to
// share between replayers running concurrently.
type Metrics struct {
	predictions    *prometheus.CounterVec
	mispredictions *prometheus.CounterVec
}

// NewMetrics creates the replay counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bpsim",
				Name:      "predictions_total",
				Help:      "Number of branch predictions made.",
			},
			[]string{"predictor"},
		),
		mispredictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bpsim",
				Name:      "mispredictions_total",
				Help:      "Number of branch predictions that did not match the resolved outcome.",
			},
			[]string{"predictor"},
		),
	}

	for _, c := range []prometheus.Collector{m.predictions, m.mispredictions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observe(name string, correct bool) {
	m.predictions.WithLabelValues(name).Inc()
	if !correct {
		m.mispredictions.WithLabelValues(name).Inc()
	}
}
