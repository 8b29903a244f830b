package datastructure

import (
	"strings"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

type TraverseMode uint8

const (
	Walk TraverseMode = 1 << iota
	Bicycle
	Car
)

// TraverseModeSet is a bitset of TraverseMode.
type TraverseModeSet uint8

func NewTraverseModeSet(modes ...TraverseMode) TraverseModeSet {
	var s TraverseModeSet
	for _, m := range modes {
		s |= TraverseModeSet(m)
	}
	return s
}

func (s TraverseModeSet) Allows(m TraverseMode) bool {
	return s&TraverseModeSet(m) != 0
}

func (s TraverseModeSet) String() string {
	parts := make([]string, 0, 3)
	if s.Allows(Walk) {
		parts = append(parts, "walk")
	}
	if s.Allows(Bicycle) {
		parts = append(parts, "bicycle")
	}
	if s.Allows(Car) {
		parts = append(parts, "car")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

type EdgeKind uint8

const (
	StreetEdge EdgeKind = iota
	TransitLinkEdge
	BikeRentalLinkEdge
	BikeParkLinkEdge
	ParkAndRideLinkEdge
)

func (k EdgeKind) String() string {
	switch k {
	case StreetEdge:
		return "street"
	case TransitLinkEdge:
		return "transit_link"
	case BikeRentalLinkEdge:
		return "bike_rental_link"
	case BikeParkLinkEdge:
		return "bike_park_link"
	case ParkAndRideLinkEdge:
		return "park_and_ride_link"
	default:
		return "unknown"
	}
}

// ElevationSample is one point of an elevation profile. Distance is in meters along the edge.
type ElevationSample struct {
	Distance  float64
	Elevation float64
}

type Edge struct {
	ID   int32
	Kind EdgeKind
	From *Vertex
	To   *Vertex

	// street edges only
	Geometry  orb.LineString
	Modes     TraverseModeSet
	Name      string
	Elevation []ElevationSample

	// transit links only
	WheelchairAccessible bool
}

// IsLive reports whether the edge is still referenced by both of its endpoints.
func (e *Edge) IsLive() bool {
	return e.From.hasOutgoing(e) && e.To.hasIncoming(e)
}

func (e *Edge) CanTraverse(m TraverseMode) bool {
	return e.Modes.Allows(m)
}

// Length returns the great-circle length of the geometry in meters.
func (e *Edge) Length() float64 {
	if len(e.Geometry) < 2 {
		return orbgeo.Distance(e.From.Point(), e.To.Point())
	}
	return orbgeo.Length(e.Geometry)
}

func (e *Edge) HasElevation() bool {
	return len(e.Elevation) > 0
}
