package linking

import (
	"fmt"

	"github.com/lintang-b-s/streetlinker/pkg/datastructure"
	"github.com/lintang-b-s/streetlinker/pkg/geo"

	"golang.org/x/exp/slog"
)

const (
	// endpointEpsilon is in segment-fraction units.
	endpointEpsilon = 1e-8
)

const (
	snapFrom = "from"
	snapTo   = "to"
)

// streetVertexFor returns the street vertex that entity v should be connected to on edge e,
// splitting e when the projection falls strictly inside it.
func (l *Linker) streetVertexFor(v *datastructure.Vertex, e *datastructure.Edge,
	xscale float64) (*datastructure.Vertex, bool) {
	projected := geo.EquirectangularProject(e.Geometry, xscale)
	loc := geo.LocatePoint(projected, geo.ProjectPoint(v.Point(), xscale))

	n := len(e.Geometry)
	switch {
	case loc.SegmentIndex == 0 && loc.SegmentFraction < endpointEpsilon:
		l.metrics.snap(snapFrom)
		return e.From, false
	case loc.SegmentIndex == n-1:
		// past the last point: fencepost between point count and segment count
		l.metrics.snap(snapTo)
		return e.To, false
	case loc.SegmentIndex == n-2 && loc.SegmentFraction > 1-endpointEpsilon:
		l.metrics.snap(snapTo)
		return e.To, false
	}

	return l.split(e, loc), true
}

// split replaces e by two edges meeting at a new splitter vertex. The halves go into the
// index; e is detached from the graph but stays in the index, where the liveness filter in
// candidates hides it.
func (l *Linker) split(e *datastructure.Edge, loc geo.LinearLocation) *datastructure.Vertex {
	if !e.IsLive() {
		panic(fmt.Sprintf("linking: street edge %d split twice", e.ID))
	}

	first, second, cut := geo.SplitLineString(e.Geometry, loc)

	// every edge is split at most once, so the label is unique
	sv := l.graph.AddVertex(datastructure.SplitterVertex, fmt.Sprintf("split from %d", e.ID), cut.Lat(), cut.Lon())

	e1, e2 := l.graph.SplitStreetEdge(e, sv, first, second, l.keepElevation)
	if e.HasElevation() && !l.keepElevation {
		l.logger.Warn("elevation profile dropped by split",
			slog.Int("edge_id", int(e.ID)),
			slog.Int("samples", len(e.Elevation)),
		)
		l.metrics.elevationDropped()
	}

	l.idx.Insert(e1.Geometry.Bound(), e1)
	l.idx.Insert(e2.Geometry.Bound(), e2)
	l.metrics.indexSize(l.idx.Size())

	l.graph.RemoveEdge(e)
	l.metrics.split()
	return sv
}
