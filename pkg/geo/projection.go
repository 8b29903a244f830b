package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// minXScale keeps the search envelope finite near the poles.
	minXScale = 1e-6
)

// XScale is the longitude compression factor of the local equirectangular projection
// centered on lat.
func XScale(lat float64) float64 {
	return math.Max(math.Cos(degreeToRadians(lat)), minXScale)
}

// ProjectPoint maps p into the local frame: x (lon) is multiplied by xscale, y (lat) is kept.
func ProjectPoint(p orb.Point, xscale float64) orb.Point {
	return orb.Point{p[0] * xscale, p[1]}
}

// EquirectangularProject returns a projected copy of ls. The input is not modified.
func EquirectangularProject(ls orb.LineString, xscale float64) orb.LineString {
	projected := make(orb.LineString, len(ls))
	for i, p := range ls {
		projected[i] = ProjectPoint(p, xscale)
	}
	return projected
}

// ProjectedDistance is the planar distance from p to ls in the frame of xscale, in latitude
// degrees. Only comparable between calls sharing the same xscale.
func ProjectedDistance(p orb.Point, ls orb.LineString, xscale float64) float64 {
	return planar.DistanceFrom(EquirectangularProject(ls, xscale), ProjectPoint(p, xscale))
}

// SearchBound returns the envelope around p that covers radiusDeg in every direction,
// widened in longitude by 1/xscale.
func SearchBound(p orb.Point, radiusDeg, xscale float64) orb.Bound {
	dx := radiusDeg / xscale
	return orb.Bound{
		Min: orb.Point{p[0] - dx, p[1] - radiusDeg},
		Max: orb.Point{p[0] + dx, p[1] + radiusDeg},
	}
}
