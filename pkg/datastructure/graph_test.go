package datastructure

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var walkBikeCar = NewTraverseModeSet(Walk, Bicycle, Car)

func TestAddVertexAssignsDenseIDs(t *testing.T) {
	g := NewGraph()
	a := g.AddStreetVertex("a", -7.55, 110.80)
	b := g.AddTransitStop("halte", -7.56, 110.81, true)

	assert.Equal(t, int32(0), a.ID)
	assert.Equal(t, int32(1), b.ID)
	assert.Equal(t, TransitStopVertex, b.Kind)
	assert.True(t, b.WheelchairEntrance)
	assert.Equal(t, 2, g.NumVertices())

	got, err := g.Vertex(1)
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = g.Vertex(2)
	assert.ErrorIs(t, err, ErrVertexNotFound)
	_, err = g.Vertex(-1)
	assert.ErrorIs(t, err, ErrVertexNotFound)
}

func TestEdgeLiveness(t *testing.T) {
	g := NewGraph()
	a := g.AddStreetVertex("a", 0, 0)
	b := g.AddStreetVertex("b", 0, 0.001)
	e := g.AddStreetEdge(a, b, nil, walkBikeCar, "")

	assert.True(t, e.IsLive())
	assert.Equal(t, orb.LineString{{0, 0}, {0.001, 0}}, e.Geometry)
	assert.Len(t, g.StreetEdges(), 1)

	assert.True(t, g.RemoveEdge(e))
	assert.False(t, e.IsLive())
	assert.Empty(t, a.Outgoing())
	assert.Empty(t, b.Incoming())
	assert.Empty(t, g.StreetEdges())

	assert.False(t, g.RemoveEdge(e), "second removal is a no-op")
}

func TestStreetEdgesSkipsLinks(t *testing.T) {
	g := NewGraph()
	a := g.AddStreetVertex("a", 0, 0)
	b := g.AddStreetVertex("b", 0, 0.001)
	stop := g.AddTransitStop("stop", 0.0001, 0.0005, false)

	g.AddStreetEdge(a, b, nil, walkBikeCar, "")
	link := g.AddLinkEdge(TransitLinkEdge, stop, a)

	assert.Len(t, g.StreetEdges(), 1)
	assert.Len(t, g.LiveEdges(), 2)
	assert.True(t, link.CanTraverse(Walk))
	assert.Equal(t, 1, stop.Degree())
}

func TestSplitStreetEdge(t *testing.T) {
	g := NewGraph()
	a := g.AddStreetVertex("a", 0, 0)
	b := g.AddStreetVertex("b", 0, 0.002)
	e := g.AddStreetEdge(a, b, nil, NewTraverseModeSet(Walk, Bicycle), "Jalan Slamet Riyadi")
	e.WheelchairAccessible = true
	e.Elevation = []ElevationSample{{0, 100}, {e.Length(), 110}}

	at := g.AddVertex(SplitterVertex, "split", 0, 0.001)
	first := orb.LineString{{0, 0}, {0.001, 0}}
	second := orb.LineString{{0.001, 0}, {0.002, 0}}

	t.Run("interpolated elevation", func(t *testing.T) {
		e1, e2 := g.SplitStreetEdge(e, at, first, second, true)

		assert.Same(t, a, e1.From)
		assert.Same(t, at, e1.To)
		assert.Same(t, at, e2.From)
		assert.Same(t, b, e2.To)
		assert.Equal(t, e.Modes, e1.Modes)
		assert.Equal(t, "Jalan Slamet Riyadi", e2.Name)
		assert.True(t, e1.WheelchairAccessible)

		require.Len(t, e1.Elevation, 2)
		require.Len(t, e2.Elevation, 2)
		assert.InDelta(t, 105, e1.Elevation[1].Elevation, 0.01)
		assert.InDelta(t, 105, e2.Elevation[0].Elevation, 0.01)
		assert.Equal(t, 0.0, e2.Elevation[0].Distance)

		// the original is still attached until the caller removes it
		assert.True(t, e.IsLive())
	})

	t.Run("dropped elevation", func(t *testing.T) {
		e1, e2 := g.SplitStreetEdge(e, at, first, second, false)
		assert.False(t, e1.HasElevation())
		assert.False(t, e2.HasElevation())
	})
}

func TestLinkingSession(t *testing.T) {
	g := NewGraph()
	assert.False(t, g.HasLinkingSession())

	g.ClaimLinkingSession()
	assert.True(t, g.HasLinkingSession())
	assert.Panics(t, g.ClaimLinkingSession)

	g.ReleaseLinkingSession()
	assert.NotPanics(t, g.ClaimLinkingSession)
}

func TestVertexKind(t *testing.T) {
	assert.True(t, StreetVertex.IsStreet())
	assert.True(t, SplitterVertex.IsStreet())
	assert.False(t, TransitStopVertex.IsStreet())

	for _, k := range []VertexKind{TransitStopVertex, BikeRentalVertex, BikeParkVertex, ParkAndRideVertex} {
		assert.True(t, k.IsLinkable(), k.String())
	}
	assert.False(t, StreetVertex.IsLinkable())
	assert.False(t, SplitterVertex.IsLinkable())
}

func TestTraverseModeSet(t *testing.T) {
	s := NewTraverseModeSet(Walk, Car)
	assert.True(t, s.Allows(Walk))
	assert.False(t, s.Allows(Bicycle))
	assert.Equal(t, "walk,car", s.String())
	assert.Equal(t, "none", TraverseModeSet(0).String())
}

func TestPolyline(t *testing.T) {
	path := []Coordinate{
		NewCoordinate(-7.565837, 110.831586),
		NewCoordinate(-7.566063, 110.832379),
		NewCoordinate(-7.566406, 110.833232),
	}
	encoded := CreatePolyline(path)
	assert.NotEmpty(t, encoded)

	decoded, err := DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(path))
	for i := range path {
		assert.InDelta(t, path[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, path[i].Lon, decoded[i].Lon, 1e-5)
	}

	ls := orb.LineString{{110.831586, -7.565837}, {110.832379, -7.566063}}
	assert.Equal(t, CreatePolyline(path[:2]), EncodeGeometry(ls))
}
