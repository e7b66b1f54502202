package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	writes *prometheus.CounterVec
	docs   *prometheus.GaugeVec
}

// newMetrics registers on reg; a nil reg keeps the collectors private.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		writes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clipshelf_remote_writes_total",
			Help: "Remote document writes by operation and outcome",
		}, []string{"op", "outcome"}),
		docs: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "clipshelf_mirror_documents",
			Help: "Documents currently mirrored per collection",
		}, []string{"collection"}),
	}
}

func (m *metrics) write(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.writes.WithLabelValues(op, outcome).Inc()
}

func (m *metrics) mirror(collection string, n int) {
	m.docs.WithLabelValues(collection).Set(float64(n))
}
