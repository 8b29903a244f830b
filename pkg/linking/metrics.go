package linking

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "streetlinker"

// Metrics counts linking outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	LinkedVertices   prometheus.Counter
	UnlinkedVertices prometheus.Counter
	EdgeSplits       prometheus.Counter
	EndpointSnaps    *prometheus.CounterVec
	LinkPairs        *prometheus.CounterVec
	ElevationDropped prometheus.Counter
	IndexEntries     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LinkedVertices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "linked_vertices_total",
			Help:      "Entity vertices connected to at least one street vertex.",
		}),
		UnlinkedVertices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "unlinked_vertices_total",
			Help:      "Entity vertices with no usable street edge within the search radius.",
		}),
		EdgeSplits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "edge_splits_total",
			Help:      "Street edges replaced by two split edges.",
		}),
		EndpointSnaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "endpoint_snaps_total",
			Help:      "Links made to an existing edge endpoint instead of splitting.",
		}, []string{"end"}),
		LinkPairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "link_pairs_total",
			Help:      "Connector edge pairs by edge kind and outcome (created or existing).",
		}, []string{"kind", "outcome"}),
		ElevationDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "elevation_profiles_dropped_total",
			Help:      "Splits that discarded an elevation profile.",
		}),
		IndexEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "index_entries",
			Help:      "Entries in the spatial index, stale ones included.",
		}),
	}
	reg.MustRegister(
		m.LinkedVertices,
		m.UnlinkedVertices,
		m.EdgeSplits,
		m.EndpointSnaps,
		m.LinkPairs,
		m.ElevationDropped,
		m.IndexEntries,
	)
	return m
}

func (m *Metrics) linked(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.LinkedVertices.Inc()
	} else {
		m.UnlinkedVertices.Inc()
	}
}

func (m *Metrics) split() {
	if m == nil {
		return
	}
	m.EdgeSplits.Inc()
}

func (m *Metrics) snap(end string) {
	if m == nil {
		return
	}
	m.EndpointSnaps.WithLabelValues(end).Inc()
}

func (m *Metrics) linkPair(kind string, created bool) {
	if m == nil {
		return
	}
	outcome := "existing"
	if created {
		outcome = "created"
	}
	m.LinkPairs.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) elevationDropped() {
	if m == nil {
		return
	}
	m.ElevationDropped.Inc()
}

func (m *Metrics) indexSize(n int) {
	if m == nil {
		return
	}
	m.IndexEntries.Set(float64(n))
}
