package bootstrap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts bootstrap outcomes.
type Metrics struct {
	runs       prometheus.Counter
	missing    prometheus.Counter
	malformed  prometheus.Counter
	propagated prometheus.Counter
	skipped    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "envboot",
			Subsystem: "bootstrap",
			Name:      "runs_total",
			Help:      "Number of bootstrap invocations",
		}),
		missing: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "envboot",
			Subsystem: "bootstrap",
			Name:      "missing_file_total",
			Help:      "Number of runs that did not find the definition file",
		}),
		malformed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "envboot",
			Subsystem: "bootstrap",
			Name:      "malformed_file_total",
			Help:      "Number of runs that could not parse the definition file",
		}),
		propagated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "envboot",
			Subsystem: "bootstrap",
			Name:      "propagated_keys_total",
			Help:      "Number of keys written into the environment",
		}),
		skipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "envboot",
			Subsystem: "bootstrap",
			Name:      "skipped_keys_total",
			Help:      "Number of parsed keys ignored because of the prefix",
		}),
	}
}

func (m *Metrics) observe(s stats) {
	if m == nil {
		return
	}

	m.runs.Inc()
	if !s.found {
		m.missing.Inc()
	}
	if s.malformed {
		m.malformed.Inc()
	}
	m.propagated.Add(float64(s.propagated))
	m.skipped.Add(float64(s.skipped))
}

type stats struct {
	found      bool
	malformed  bool
	propagated int
	skipped    int
}
