package linking

import (
	"github.com/lintang-b-s/streetlinker/pkg/datastructure"
)

type linkPairFunc func(g *datastructure.Graph, entity, street *datastructure.Vertex)

type linkEdgeMaker struct {
	kind     datastructure.EdgeKind
	makePair linkPairFunc
}

// linkEdgeMakers maps every linkable vertex kind to its connector edge kind and the
// constructor of the reciprocal pair.
var linkEdgeMakers = map[datastructure.VertexKind]linkEdgeMaker{
	datastructure.TransitStopVertex: {
		kind:     datastructure.TransitLinkEdge,
		makePair: makeTransitLinkEdges,
	},
	datastructure.BikeRentalVertex: {
		kind:     datastructure.BikeRentalLinkEdge,
		makePair: plainLinkPair(datastructure.BikeRentalLinkEdge),
	},
	datastructure.BikeParkVertex: {
		kind:     datastructure.BikeParkLinkEdge,
		makePair: plainLinkPair(datastructure.BikeParkLinkEdge),
	},
	datastructure.ParkAndRideVertex: {
		kind:     datastructure.ParkAndRideLinkEdge,
		makePair: plainLinkPair(datastructure.ParkAndRideLinkEdge),
	},
}

func makeTransitLinkEdges(g *datastructure.Graph, stop, street *datastructure.Vertex) {
	out := g.AddLinkEdge(datastructure.TransitLinkEdge, stop, street)
	in := g.AddLinkEdge(datastructure.TransitLinkEdge, street, stop)
	out.WheelchairAccessible = stop.WheelchairEntrance
	in.WheelchairAccessible = stop.WheelchairEntrance
}

func plainLinkPair(kind datastructure.EdgeKind) linkPairFunc {
	return func(g *datastructure.Graph, entity, street *datastructure.Vertex) {
		g.AddLinkEdge(kind, entity, street)
		g.AddLinkEdge(kind, street, entity)
	}
}

// hasLinkTo reports whether entity already has an outgoing connector of kind to street.
// Duplicate ways sharing endpoints resolve to the same street vertex, so this check is hit.
func hasLinkTo(entity, street *datastructure.Vertex, kind datastructure.EdgeKind) bool {
	for _, e := range entity.Outgoing() {
		if e.Kind == kind && e.To == street {
			return true
		}
	}
	return false
}

// makeLinkEdges connects entity and street with a connector pair unless one already exists.
// It returns true when a new pair was created.
func (l *Linker) makeLinkEdges(entity, street *datastructure.Vertex) bool {
	maker, ok := linkEdgeMakers[entity.Kind]
	if !ok {
		return false
	}
	if hasLinkTo(entity, street, maker.kind) {
		l.metrics.linkPair(maker.kind.String(), false)
		return false
	}

	maker.makePair(l.graph, entity, street)
	l.metrics.linkPair(maker.kind.String(), true)
	return true
}
