package datastructure

import "github.com/paulmach/orb"

type VertexKind uint8

const (
	// StreetVertex is a plain intersection or shape point of the street network.
	StreetVertex VertexKind = iota
	// SplitterVertex is created when a street edge is cut in two while linking.
	SplitterVertex
	TransitStopVertex
	BikeRentalVertex
	BikeParkVertex
	ParkAndRideVertex
)

func (k VertexKind) String() string {
	switch k {
	case StreetVertex:
		return "street"
	case SplitterVertex:
		return "splitter"
	case TransitStopVertex:
		return "transit_stop"
	case BikeRentalVertex:
		return "bike_rental"
	case BikeParkVertex:
		return "bike_park"
	case ParkAndRideVertex:
		return "park_and_ride"
	default:
		return "unknown"
	}
}

// ParseVertexKind is the inverse of VertexKind.String.
func ParseVertexKind(s string) (VertexKind, bool) {
	for k := StreetVertex; k <= ParkAndRideVertex; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// IsStreet reports whether connector edges may target a vertex of this kind.
func (k VertexKind) IsStreet() bool {
	return k == StreetVertex || k == SplitterVertex
}

// IsLinkable reports whether a vertex of this kind is an entity that the linker attaches to streets.
func (k VertexKind) IsLinkable() bool {
	switch k {
	case TransitStopVertex, BikeRentalVertex, BikeParkVertex, ParkAndRideVertex:
		return true
	}
	return false
}

type Vertex struct {
	ID    int32
	Label string
	Kind  VertexKind
	Lat   float64
	Lon   float64

	// WheelchairEntrance is only meaningful for transit stops.
	WheelchairEntrance bool

	incoming []*Edge
	outgoing []*Edge
}

func (v *Vertex) Point() orb.Point {
	return orb.Point{v.Lon, v.Lat}
}

// Incoming returns a copy of the incoming edges.
func (v *Vertex) Incoming() []*Edge {
	return append([]*Edge(nil), v.incoming...)
}

// Outgoing returns a copy of the outgoing edges.
func (v *Vertex) Outgoing() []*Edge {
	return append([]*Edge(nil), v.outgoing...)
}

func (v *Vertex) Degree() int {
	return len(v.incoming) + len(v.outgoing)
}

func (v *Vertex) hasIncoming(e *Edge) bool {
	for _, in := range v.incoming {
		if in == e {
			return true
		}
	}
	return false
}

func (v *Vertex) hasOutgoing(e *Edge) bool {
	for _, out := range v.outgoing {
		if out == e {
			return true
		}
	}
	return false
}

func (v *Vertex) removeIncoming(e *Edge) bool {
	for i, in := range v.incoming {
		if in == e {
			v.incoming = append(v.incoming[:i], v.incoming[i+1:]...)
			return true
		}
	}
	return false
}

func (v *Vertex) removeOutgoing(e *Edge) bool {
	for i, out := range v.outgoing {
		if out == e {
			v.outgoing = append(v.outgoing[:i], v.outgoing[i+1:]...)
			return true
		}
	}
	return false
}
