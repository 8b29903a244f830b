package spatialindex

import (
	"github.com/lintang-b-s/streetlinker/pkg/datastructure"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

const (
	rtreeMinChildItems = 25
	rtreeMaxChildItems = 50

	// rtreego rejects zero-length sides, so every rectangle gets at least this extent.
	minRectSide = 1e-9
)

type rtreeItem struct {
	rect  rtreego.Rect
	bound orb.Bound
	edge  *datastructure.Edge
}

func (it *rtreeItem) Bounds() rtreego.Rect {
	return it.rect
}

// RTree is an R-tree backed alternative to HashGrid with the same insert-only contract.
type RTree struct {
	tree *rtreego.Rtree
	size int
}

func NewRTree() *RTree {
	return &RTree{
		tree: rtreego.NewTree(2, rtreeMinChildItems, rtreeMaxChildItems),
	}
}

func toRect(b orb.Bound) rtreego.Rect {
	w := b.Max[0] - b.Min[0]
	h := b.Max[1] - b.Min[1]
	origin := rtreego.Point{b.Min[0], b.Min[1]}
	if w < minRectSide {
		w = minRectSide
		origin[0] -= minRectSide / 2
	}
	if h < minRectSide {
		h = minRectSide
		origin[1] -= minRectSide / 2
	}
	rect, err := rtreego.NewRect(origin, []float64{w, h})
	if err != nil {
		// lengths are always positive here
		panic(err)
	}
	return rect
}

func (r *RTree) Insert(bound orb.Bound, edge *datastructure.Edge) {
	r.tree.Insert(&rtreeItem{rect: toRect(bound), bound: bound, edge: edge})
	r.size++
}

func (r *RTree) Query(bound orb.Bound) []*datastructure.Edge {
	// rtreego does not count touching rectangles as intersecting, so search a slightly
	// larger rect and filter on the stored bounds.
	items := r.tree.SearchIntersect(toRect(bound.Pad(minRectSide)))
	result := make([]*datastructure.Edge, 0, len(items))
	for _, it := range items {
		item := it.(*rtreeItem)
		if item.bound.Intersects(bound) {
			result = append(result, item.edge)
		}
	}
	return dedupeEdges(result)
}

func (r *RTree) Size() int {
	return r.size
}
