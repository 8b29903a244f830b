package linking

import (
	"sort"

	"github.com/lintang-b-s/streetlinker/pkg/datastructure"
	"github.com/lintang-b-s/streetlinker/pkg/geo"
)

type candidate struct {
	edge *datastructure.Edge
	dist float64 // latitude degrees in the entity's projected frame
}

// candidates returns the walkable, live street edges around v sorted by projected distance.
// The distance filter against the search radius happens in selectBest.
func (l *Linker) candidates(v *datastructure.Vertex, xscale float64) []candidate {
	bound := geo.SearchBound(v.Point(), l.radiusDeg, xscale)

	found := l.idx.Query(bound)
	cands := make([]candidate, 0, len(found))
	for _, e := range found {
		// split originals are still in the index but no longer live
		if !e.CanTraverse(datastructure.Walk) || !e.IsLive() {
			continue
		}
		cands = append(cands, candidate{
			edge: e,
			dist: geo.ProjectedDistance(v.Point(), e.Geometry, xscale),
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].edge.ID < cands[j].edge.ID
	})
	return cands
}

// selectBest keeps the closest candidate and every following one as long as the gap to its
// predecessor stays below duplicateDeg. Nothing is selected when the closest is farther
// than radiusDeg.
func selectBest(cands []candidate, radiusDeg, duplicateDeg float64) []candidate {
	if len(cands) == 0 || cands[0].dist > radiusDeg {
		return nil
	}

	i := 1
	for i < len(cands) && cands[i].dist-cands[i-1].dist < duplicateDeg {
		i++
	}
	return cands[:i]
}
