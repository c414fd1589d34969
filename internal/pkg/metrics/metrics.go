// Package metrics exposes the persistence layer's prometheus instrumentation.
// The collectors are advisory observability only; nothing reads them to make
// correctness decisions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is private to this process; nothing registers into the
	// default global registry.
	Registry = prometheus.NewRegistry()
	factory  = promauto.With(Registry)

	SavesTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "emporium",
		Name:      "save_changes_total",
		Help:      "Successful SaveChanges calls.",
	})

	SaveDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "emporium",
		Name:      "save_changes_duration_seconds",
		Help:      "Wall time of successful SaveChanges calls.",
		Buckets:   prometheus.DefBuckets,
	})

	ConstraintViolations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "emporium",
		Name:      "constraint_violations_total",
		Help:      "Failed SaveChanges calls by constraint kind.",
	}, []string{"kind"})

	RecordsSeeded = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "emporium",
		Name:      "records_seeded_total",
		Help:      "Records inserted by the seeder, by entity.",
	}, []string{"entity"})
)

// Handler serves the registry, for the CLI's optional --metrics-addr listener.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
