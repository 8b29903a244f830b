package spatialindex

import (
	"sort"
	"testing"

	"github.com/lintang-b-s/streetlinker/pkg/datastructure"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type indexedEdge struct {
	bound orb.Bound
	edge  *datastructure.Edge
}

// randomEdges builds n short street edges scattered around Surakarta.
func randomEdges(rd *rand.Rand, n int) []indexedEdge {
	g := datastructure.NewGraph()
	res := make([]indexedEdge, 0, n)
	for i := 0; i < n; i++ {
		lat := -7.60 + rd.Float64()*0.1
		lon := 110.75 + rd.Float64()*0.1
		from := g.AddStreetVertex("", lat, lon)
		to := g.AddStreetVertex("", lat+(rd.Float64()-0.5)*0.004, lon+(rd.Float64()-0.5)*0.004)
		e := g.AddStreetEdge(from, to, nil, datastructure.NewTraverseModeSet(datastructure.Walk), "")
		res = append(res, indexedEdge{bound: e.Geometry.Bound(), edge: e})
	}
	return res
}

func bruteForce(edges []indexedEdge, q orb.Bound) []int32 {
	ids := make([]int32, 0)
	for _, ie := range edges {
		if ie.bound.Intersects(q) {
			ids = append(ids, ie.edge.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func edgeIDs(edges []*datastructure.Edge) []int32 {
	ids := make([]int32, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestIndexMatchesBruteForce(t *testing.T) {
	rd := rand.New(rand.NewSource(42))
	edges := randomEdges(rd, 2000)

	indexes := map[string]Index{
		"hashgrid":       NewHashGrid(DefaultCellSize),
		"hashgrid small": NewHashGrid(0.001),
		"rtree":          NewRTree(),
	}

	for name, idx := range indexes {
		t.Run(name, func(t *testing.T) {
			for _, ie := range edges {
				idx.Insert(ie.bound, ie.edge)
			}
			assert.Equal(t, len(edges), idx.Size())

			for i := 0; i < 200; i++ {
				lat := -7.60 + rd.Float64()*0.1
				lon := 110.75 + rd.Float64()*0.1
				r := rd.Float64() * 0.01
				q := orb.Bound{Min: orb.Point{lon - r, lat - r}, Max: orb.Point{lon + r, lat + r}}

				assert.Equal(t, bruteForce(edges, q), edgeIDs(idx.Query(q)))
			}
		})
	}
}

func TestHashGridLargeQueryScansEverything(t *testing.T) {
	rd := rand.New(rand.NewSource(7))
	edges := randomEdges(rd, 100)

	h := NewHashGrid(0.0001)
	for _, ie := range edges {
		h.Insert(ie.bound, ie.edge)
	}

	q := orb.Bound{Min: orb.Point{100, -20}, Max: orb.Point{120, 0}}
	assert.Len(t, h.Query(q), len(edges))
}

func TestHashGridOverflowEntry(t *testing.T) {
	g := datastructure.NewGraph()
	a := g.AddStreetVertex("a", 0, 0)
	b := g.AddStreetVertex("b", 5, 5)
	long := g.AddStreetEdge(a, b, nil, datastructure.NewTraverseModeSet(datastructure.Walk), "")

	h := NewHashGrid(0.01)
	h.Insert(long.Geometry.Bound(), long)
	assert.Len(t, h.overflow, 1)

	found := h.Query(orb.Bound{Min: orb.Point{2.5, 2.5}, Max: orb.Point{2.51, 2.51}})
	require.Len(t, found, 1)
	assert.Equal(t, long, found[0])

	assert.Empty(t, h.Query(orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{10.1, 10.1}}))
}

func TestQueryReturnsEachEdgeOnce(t *testing.T) {
	g := datastructure.NewGraph()
	a := g.AddStreetVertex("a", -7.55, 110.80)
	b := g.AddStreetVertex("b", -7.55, 110.83)
	e := g.AddStreetEdge(a, b, nil, datastructure.NewTraverseModeSet(datastructure.Walk), "")

	for _, idx := range []Index{NewHashGrid(DefaultCellSize), NewRTree()} {
		// the same edge inserted twice, as after re-indexing
		idx.Insert(e.Geometry.Bound(), e)
		idx.Insert(e.Geometry.Bound(), e)

		found := idx.Query(orb.Bound{Min: orb.Point{110.79, -7.56}, Max: orb.Point{110.84, -7.54}})
		assert.Len(t, found, 1)
		assert.Equal(t, 2, idx.Size())
	}
}

func TestRTreeDegenerateBound(t *testing.T) {
	g := datastructure.NewGraph()
	a := g.AddStreetVertex("a", -7.55, 110.80)
	b := g.AddStreetVertex("b", -7.55, 110.81)
	horizontal := g.AddStreetEdge(a, b, nil, datastructure.NewTraverseModeSet(datastructure.Walk), "")

	r := NewRTree()
	r.Insert(horizontal.Geometry.Bound(), horizontal)

	found := r.Query(orb.Bound{Min: orb.Point{110.805, -7.55}, Max: orb.Point{110.805, -7.55}})
	assert.Len(t, found, 1)
}

func TestQueryIncludesTouchingBounds(t *testing.T) {
	g := datastructure.NewGraph()
	a := g.AddStreetVertex("a", 1, 1)
	b := g.AddStreetVertex("b", 2, 2)
	e := g.AddStreetEdge(a, b, nil, datastructure.NewTraverseModeSet(datastructure.Walk), "")

	cases := []struct {
		name  string
		query orb.Bound
		found int
	}{
		{name: "shared corner side", query: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1.5}}, found: 1},
		{name: "shared corner point", query: orb.Bound{Min: orb.Point{2, 2}, Max: orb.Point{3, 3}}, found: 1},
		{name: "just apart", query: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0.999, 1.5}}, found: 0},
	}

	for name, idx := range map[string]Index{"hashgrid": NewHashGrid(DefaultCellSize), "rtree": NewRTree()} {
		idx.Insert(e.Geometry.Bound(), e)
		for _, c := range cases {
			t.Run(name+"/"+c.name, func(t *testing.T) {
				assert.Len(t, idx.Query(c.query), c.found)
			})
		}
	}
}

func TestNew(t *testing.T) {
	idx, err := New(TypeHashGrid, 0.02)
	require.NoError(t, err)
	assert.IsType(t, &HashGrid{}, idx)

	idx, err = New("", 0)
	require.NoError(t, err)
	assert.IsType(t, &HashGrid{}, idx)

	idx, err = New(TypeRTree, 0)
	require.NoError(t, err)
	assert.IsType(t, &RTree{}, idx)

	_, err = New("quadtree", 0)
	assert.Error(t, err)
}
