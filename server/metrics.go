package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcomes.
const (
	outcomeSuccess = "success"
	outcomeInvalid = "invalid"
	outcomeFailed  = "failed"
	outcomeBusy    = "busy"
)

type Metrics struct {
	Generations *prometheus.CounterVec
	ParseMethod *prometheus.CounterVec
	Duration    prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sma_generations_total",
			Help: "Generation requests by outcome.",
		}, []string{"outcome"}),
		ParseMethod: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sma_parse_method_total",
			Help: "Successful generations by reply parse method.",
		}, []string{"method"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sma_completion_duration_seconds",
			Help:    "Time spent waiting on the completion endpoint.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
	}
	for _, c := range []prometheus.Collector{m.Generations, m.ParseMethod, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) IncGeneration(outcome string) {
	if m == nil || m.Generations == nil {
		return
	}
	m.Generations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncParse(method string) {
	if m == nil || m.ParseMethod == nil {
		return
	}
	m.ParseMethod.WithLabelValues(method).Inc()
}

func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil || m.Duration == nil {
		return
	}
	m.Duration.Observe(d.Seconds())
}
