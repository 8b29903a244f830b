package spatialindex

import (
	"math"

	"github.com/lintang-b-s/streetlinker/pkg/datastructure"

	"github.com/paulmach/orb"
)

const (
	DefaultCellSize = 0.01 // degrees, roughly 1 km of latitude

	// maxCellsPerEntry bounds the cells touched by a single insert or query. Bounds
	// covering more cells than this go to the overflow list that every query scans.
	maxCellsPerEntry = 4096
)

type cellKey struct {
	x, y int64
}

type entry struct {
	bound orb.Bound
	edge  *datastructure.Edge
}

// HashGrid is a uniform grid over lon/lat. Every entry is stored in each cell its bound
// touches. There is no delete: stale edges are filtered by the caller.
type HashGrid struct {
	cellSize float64
	cells    map[cellKey][]*entry
	overflow []*entry
	size     int
}

func NewHashGrid(cellSize float64) *HashGrid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &HashGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]*entry),
	}
}

func (h *HashGrid) cellRange(b orb.Bound) (minX, minY, maxX, maxY int64) {
	minX = int64(math.Floor(b.Min[0] / h.cellSize))
	minY = int64(math.Floor(b.Min[1] / h.cellSize))
	maxX = int64(math.Floor(b.Max[0] / h.cellSize))
	maxY = int64(math.Floor(b.Max[1] / h.cellSize))
	return
}

func tooManyCells(minX, minY, maxX, maxY int64) bool {
	return (maxX-minX+1)*(maxY-minY+1) > maxCellsPerEntry
}

func (h *HashGrid) Insert(bound orb.Bound, edge *datastructure.Edge) {
	e := &entry{bound: bound, edge: edge}
	h.size++

	minX, minY, maxX, maxY := h.cellRange(bound)
	if tooManyCells(minX, minY, maxX, maxY) {
		h.overflow = append(h.overflow, e)
		return
	}
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			k := cellKey{x, y}
			h.cells[k] = append(h.cells[k], e)
		}
	}
}

// Query returns every edge whose stored bound intersects bound, each edge once.
func (h *HashGrid) Query(bound orb.Bound) []*datastructure.Edge {
	seen := make(map[*entry]struct{})
	result := make([]*datastructure.Edge, 0)

	visit := func(e *entry) {
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		if e.bound.Intersects(bound) {
			result = append(result, e.edge)
		}
	}

	for _, e := range h.overflow {
		visit(e)
	}

	minX, minY, maxX, maxY := h.cellRange(bound)
	if tooManyCells(minX, minY, maxX, maxY) {
		for _, bucket := range h.cells {
			for _, e := range bucket {
				visit(e)
			}
		}
		return dedupeEdges(result)
	}

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for _, e := range h.cells[cellKey{x, y}] {
				visit(e)
			}
		}
	}
	return dedupeEdges(result)
}

// Size is the number of inserted entries, stale ones included.
func (h *HashGrid) Size() int {
	return h.size
}

// dedupeEdges removes repeated edges that were inserted more than once, keeping first order.
func dedupeEdges(edges []*datastructure.Edge) []*datastructure.Edge {
	seen := make(map[*datastructure.Edge]struct{}, len(edges))
	out := edges[:0]
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
