package objarena

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus metrics of one Registry.
type Metrics struct {
	arenasCreated   prometheus.Counter
	arenasDestroyed prometheus.Counter
	arenaObjects    prometheus.Counter
	heapObjects     prometheus.Counter
	cleanCloses     prometheus.Counter
	escapedCloses   prometheus.Counter
	escapedObjects  prometheus.Counter
	resurrections   prometheus.Counter
	unraisable      prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, r *Registry) *Metrics {
	objects := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "objarena_objects_allocated_total",
		Help: "Total number of managed objects allocated, by placement.",
	}, []string{"placement"})
	closes := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "objarena_contexts_closed_total",
		Help: "Total number of arena contexts closed, by outcome.",
	}, []string{"outcome"})

	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "objarena_live_arenas",
		Help: "Number of arenas that have not been destroyed yet.",
	}, func() float64 {
		return float64(r.liveArenas.Load())
	})
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "objarena_live_slab_bytes",
		Help: "Bytes of slab memory held by live arenas.",
	}, func() float64 {
		return float64(r.liveSlabBytes.Load())
	})

	return &Metrics{
		arenasCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "objarena_arenas_created_total",
			Help: "Total number of arenas created by arena contexts.",
		}),
		arenasDestroyed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "objarena_arenas_destroyed_total",
			Help: "Total number of arenas destroyed after their last holder released them.",
		}),
		arenaObjects:  objects.WithLabelValues("arena"),
		heapObjects:   objects.WithLabelValues("heap"),
		cleanCloses:   closes.WithLabelValues("clean"),
		escapedCloses: closes.WithLabelValues("escaped"),
		escapedObjects: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "objarena_escaped_objects_total",
			Help: "Total number of objects still alive when their arena context closed.",
		}),
		resurrections: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "objarena_resurrections_total",
			Help: "Total number of dead arena objects made reachable again by attribute lookup.",
		}),
		unraisable: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "objarena_unraisable_errors_total",
			Help: "Total number of errors that could not be returned to a caller.",
		}),
	}
}

func (m *Metrics) contextClosed(alive int) {
	if alive == 0 {
		m.cleanCloses.Inc()
		return
	}
	m.escapedCloses.Inc()
	m.escapedObjects.Add(float64(alive))
}
