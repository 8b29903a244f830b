package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// LinearLocation is a position along a line string: a segment index plus a fraction in [0, 1)
// along that segment. A location at the very end of the line has SegmentIndex == len(ls)-1
// and fraction 0, i.e. it points at the segment past the last point.
type LinearLocation struct {
	SegmentIndex    int
	SegmentFraction float64
}

func (l LinearLocation) normalize() LinearLocation {
	if l.SegmentFraction < 0 {
		l.SegmentFraction = 0
	}
	if l.SegmentFraction >= 1 {
		l.SegmentIndex++
		l.SegmentFraction = 0
	}
	return l
}

// segmentFraction is the clamped projection factor of p onto segment ab.
func segmentFraction(a, b, p orb.Point) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0
	}
	f := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lenSq
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// LocatePoint finds the location of the orthogonal projection of p onto ls. When several
// segments are equally close the first one wins.
func LocatePoint(ls orb.LineString, p orb.Point) LinearLocation {
	if len(ls) < 2 {
		return LinearLocation{}
	}

	minDist := math.MaxFloat64
	best := LinearLocation{}
	for i := 0; i < len(ls)-1; i++ {
		d := planar.DistanceFromSegment(ls[i], ls[i+1], p)
		if d < minDist {
			minDist = d
			best = LinearLocation{SegmentIndex: i, SegmentFraction: segmentFraction(ls[i], ls[i+1], p)}
		}
	}
	return best.normalize()
}

// PointAt returns the coordinate of loc on ls.
func PointAt(ls orb.LineString, loc LinearLocation) orb.Point {
	if len(ls) == 0 {
		return orb.Point{}
	}
	i := loc.SegmentIndex
	if i >= len(ls)-1 {
		return ls[len(ls)-1]
	}
	if i < 0 {
		return ls[0]
	}
	a, b := ls[i], ls[i+1]
	f := loc.SegmentFraction
	return orb.Point{a[0] + f*(b[0]-a[0]), a[1] + f*(b[1]-a[1])}
}

// SplitLineString cuts ls at loc. Both halves share the cut point, so appending second[1:]
// to first gives back ls (with the cut point inserted when it falls inside a segment).
func SplitLineString(ls orb.LineString, loc LinearLocation) (orb.LineString, orb.LineString, orb.Point) {
	cut := PointAt(ls, loc)
	i := loc.SegmentIndex
	if i >= len(ls)-1 {
		return append(orb.LineString(nil), ls...), orb.LineString{cut}, cut
	}
	if i < 0 {
		i = 0
	}

	first := make(orb.LineString, 0, i+2)
	first = append(first, ls[:i+1]...)
	if !cut.Equal(ls[i]) {
		first = append(first, cut)
	}

	second := make(orb.LineString, 0, len(ls)-i)
	second = append(second, cut)
	second = append(second, ls[i+1:]...)
	return first, second, cut
}
