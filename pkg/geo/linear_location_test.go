package geo

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatePoint(t *testing.T) {
	ls := orb.LineString{{0, 0}, {10, 0}, {10, 10}}

	cases := []struct {
		name string
		p    orb.Point
		want LinearLocation
	}{
		{"before start", orb.Point{-5, 0}, LinearLocation{0, 0}},
		{"inside first segment", orb.Point{2.5, 3}, LinearLocation{0, 0.25}},
		{"inside second segment", orb.Point{12, 5}, LinearLocation{1, 0.5}},
		{"shared vertex normalizes forward", orb.Point{11, -1}, LinearLocation{1, 0}},
		{"past the end", orb.Point{10, 15}, LinearLocation{2, 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := LocatePoint(ls, c.p)
			assert.Equal(t, c.want.SegmentIndex, got.SegmentIndex)
			assert.InDelta(t, c.want.SegmentFraction, got.SegmentFraction, 1e-12)
		})
	}
}

func TestLocatePointDegenerate(t *testing.T) {
	assert.Equal(t, LinearLocation{}, LocatePoint(orb.LineString{{1, 1}}, orb.Point{0, 0}))

	// zero-length segment followed by a real one
	loc := LocatePoint(orb.LineString{{0, 0}, {0, 0}, {4, 0}}, orb.Point{2, 1})
	assert.Equal(t, 1, loc.SegmentIndex)
	assert.InDelta(t, 0.5, loc.SegmentFraction, 1e-12)
}

func TestPointAt(t *testing.T) {
	ls := orb.LineString{{0, 0}, {10, 0}, {10, 10}}

	assert.Equal(t, orb.Point{2.5, 0}, PointAt(ls, LinearLocation{0, 0.25}))
	assert.Equal(t, orb.Point{10, 5}, PointAt(ls, LinearLocation{1, 0.5}))
	assert.Equal(t, orb.Point{10, 10}, PointAt(ls, LinearLocation{2, 0}))
}

func TestSplitLineString(t *testing.T) {
	ls := orb.LineString{{0, 0}, {10, 0}, {10, 10}}

	t.Run("inside a segment", func(t *testing.T) {
		first, second, cut := SplitLineString(ls, LinearLocation{1, 0.5})
		assert.Equal(t, orb.Point{10, 5}, cut)
		assert.Equal(t, orb.LineString{{0, 0}, {10, 0}, {10, 5}}, first)
		assert.Equal(t, orb.LineString{{10, 5}, {10, 10}}, second)
	})

	t.Run("on an interior vertex", func(t *testing.T) {
		first, second, cut := SplitLineString(ls, LinearLocation{1, 0})
		assert.Equal(t, orb.Point{10, 0}, cut)
		assert.Equal(t, orb.LineString{{0, 0}, {10, 0}}, first)
		assert.Equal(t, orb.LineString{{10, 0}, {10, 10}}, second)
	})

	t.Run("halves join back", func(t *testing.T) {
		first, second, _ := SplitLineString(ls, LinearLocation{0, 0.3})
		require.NotEmpty(t, second)
		joined := append(append(orb.LineString{}, first...), second[1:]...)
		assert.Len(t, joined, len(ls)+1)
		assert.Equal(t, ls[0], joined[0])
		assert.Equal(t, ls[len(ls)-1], joined[len(joined)-1])
	})
}

func TestSplitLineStringKeepsLength(t *testing.T) {
	ls := orb.LineString{{110.80, -7.55}, {110.801, -7.5505}, {110.803, -7.5505}, {110.8035, -7.552}}
	total := planar.Length(ls)

	properties := gopter.NewProperties(nil)
	properties.Property("halves add up to the whole line", prop.ForAll(
		func(segment int, fraction float64) bool {
			loc := LinearLocation{SegmentIndex: segment, SegmentFraction: fraction}.normalize()
			first, second, cut := SplitLineString(ls, loc)
			if !first[len(first)-1].Equal(cut) || !second[0].Equal(cut) {
				return false
			}
			return math.Abs(planar.Length(first)+planar.Length(second)-total) < 1e-12
		},
		gen.IntRange(0, len(ls)-2),
		gen.Float64Range(0, 0.999999),
	))

	properties.TestingRun(t)
}
