package datastructure

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
)

var (
	ErrVertexNotFound = errors.New("vertex not found")
)

// Graph owns every vertex and every edge ever created. An edge is live while it sits in
// its From vertex's outgoing list and its To vertex's incoming list.
type Graph struct {
	vertices []*Vertex
	edges    []*Edge

	linkingSession bool
}

func NewGraph() *Graph {
	return &Graph{
		vertices: make([]*Vertex, 0),
		edges:    make([]*Edge, 0),
	}
}

func (g *Graph) AddVertex(kind VertexKind, label string, lat, lon float64) *Vertex {
	v := &Vertex{
		ID:    int32(len(g.vertices)),
		Label: label,
		Kind:  kind,
		Lat:   lat,
		Lon:   lon,
	}
	g.vertices = append(g.vertices, v)
	return v
}

func (g *Graph) AddStreetVertex(label string, lat, lon float64) *Vertex {
	return g.AddVertex(StreetVertex, label, lat, lon)
}

func (g *Graph) AddTransitStop(label string, lat, lon float64, wheelchairEntrance bool) *Vertex {
	v := g.AddVertex(TransitStopVertex, label, lat, lon)
	v.WheelchairEntrance = wheelchairEntrance
	return v
}

func (g *Graph) Vertex(id int32) (*Vertex, error) {
	if id < 0 || int(id) >= len(g.vertices) {
		return nil, ErrVertexNotFound
	}
	return g.vertices[id], nil
}

func (g *Graph) Vertices() []*Vertex {
	return append([]*Vertex(nil), g.vertices...)
}

func (g *Graph) NumVertices() int {
	return len(g.vertices)
}

func (g *Graph) addEdge(e *Edge) *Edge {
	e.ID = int32(len(g.edges))
	g.edges = append(g.edges, e)
	e.From.outgoing = append(e.From.outgoing, e)
	e.To.incoming = append(e.To.incoming, e)
	return e
}

// AddStreetEdge adds a directed street edge. A nil geometry becomes the straight line from -> to.
func (g *Graph) AddStreetEdge(from, to *Vertex, geometry orb.LineString, modes TraverseModeSet, name string) *Edge {
	if len(geometry) < 2 {
		geometry = orb.LineString{from.Point(), to.Point()}
	}
	return g.addEdge(&Edge{
		Kind:     StreetEdge,
		From:     from,
		To:       to,
		Geometry: geometry,
		Modes:    modes,
		Name:     name,
	})
}

func (g *Graph) AddLinkEdge(kind EdgeKind, from, to *Vertex) *Edge {
	return g.addEdge(&Edge{
		Kind:     kind,
		From:     from,
		To:       to,
		Geometry: orb.LineString{from.Point(), to.Point()},
		Modes:    NewTraverseModeSet(Walk, Bicycle, Car),
	})
}

// RemoveEdge detaches e from both endpoints. The edge keeps its ID and stays reachable
// through references held elsewhere, but it is no longer live.
func (g *Graph) RemoveEdge(e *Edge) bool {
	out := e.From.removeOutgoing(e)
	in := e.To.removeIncoming(e)
	return out || in
}

// StreetEdges returns the live street edges.
func (g *Graph) StreetEdges() []*Edge {
	edges := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if e.Kind == StreetEdge && e.IsLive() {
			edges = append(edges, e)
		}
	}
	return edges
}

// LiveEdges returns every live edge of any kind.
func (g *Graph) LiveEdges() []*Edge {
	edges := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if e.IsLive() {
			edges = append(edges, e)
		}
	}
	return edges
}

// SplitStreetEdge builds the two replacement edges e.From -> at and at -> e.To with the given
// geometries. Modes, name and wheelchair flag are copied. The elevation profile is cut at the
// length of the first geometry when keepElevation is set, otherwise it is dropped.
// The original edge is left attached; detaching it is the caller's decision.
func (g *Graph) SplitStreetEdge(e *Edge, at *Vertex, first, second orb.LineString,
	keepElevation bool) (*Edge, *Edge) {
	e1 := g.AddStreetEdge(e.From, at, first, e.Modes, e.Name)
	e2 := g.AddStreetEdge(at, e.To, second, e.Modes, e.Name)
	e1.WheelchairAccessible = e.WheelchairAccessible
	e2.WheelchairAccessible = e.WheelchairAccessible

	if keepElevation && e.HasElevation() {
		e1.Elevation, e2.Elevation = SplitElevation(e.Elevation, orbgeo.Length(first))
	}
	return e1, e2
}

// ClaimLinkingSession marks the graph as owned by a linker. Only one linker may mutate a
// graph at a time; a second claim is a programming error.
func (g *Graph) ClaimLinkingSession() {
	if g.linkingSession {
		panic("datastructure: graph already has an active linking session")
	}
	g.linkingSession = true
}

func (g *Graph) ReleaseLinkingSession() {
	g.linkingSession = false
}

func (g *Graph) HasLinkingSession() bool {
	return g.linkingSession
}
