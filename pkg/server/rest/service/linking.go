package service

import (
	"context"
	"sync"

	"github.com/lintang-b-s/streetlinker/pkg/datastructure"
	"github.com/lintang-b-s/streetlinker/pkg/linking"

	"github.com/pkg/errors"
)

var (
	ErrNotEntity = errors.New("vertex is not a linkable entity")
)

type Linker interface {
	AddEntity(kind datastructure.VertexKind, label string, lat, lon float64, wheelchairEntrance bool) (linking.Result, bool, error)
	Graph() *datastructure.Graph
	IndexSize() int
}

// StatsSnapshot is the cumulative linking outcome plus the current graph size.
type StatsSnapshot struct {
	Linked           int
	Unlinked         []int32
	Splits           int
	EndpointSnaps    int
	LinkPairsCreated int
	Vertices         int
	LiveEdges        int
	IndexEntries     int
}

// LinkView is one connector edge of an entity with the street edges touching its target.
type LinkView struct {
	Edge        *datastructure.Edge
	StreetEdges []*datastructure.Edge
}

// LinkingService serializes access to a linker. Adding entities mutates the graph, so it
// takes the write lock; reads share the read lock.
type LinkingService struct {
	mu     sync.RWMutex
	linker Linker
	stats  linking.Stats
}

// NewLinkingService wraps a linker whose LinkAll already ran and produced initial.
func NewLinkingService(l Linker, initial linking.Stats) *LinkingService {
	return &LinkingService{linker: l, stats: initial}
}

func (s *LinkingService) AddEntity(ctx context.Context, kind datastructure.VertexKind, label string,
	lat, lon float64, wheelchairEntrance bool) (linking.Result, bool, error) {
	if err := ctx.Err(); err != nil {
		return linking.Result{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, linked, err := s.linker.AddEntity(kind, label, lat, lon, wheelchairEntrance)
	if err != nil {
		return linking.Result{}, false, errors.Wrapf(err, "add %s entity", kind)
	}
	s.stats.Add(res, linked)
	return res, linked, nil
}

func (s *LinkingService) Stats(ctx context.Context) StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unlinked := make([]int32, 0, len(s.stats.Unlinked))
	for _, v := range s.stats.Unlinked {
		unlinked = append(unlinked, v.ID)
	}
	g := s.linker.Graph()
	return StatsSnapshot{
		Linked:           s.stats.Linked,
		Unlinked:         unlinked,
		Splits:           s.stats.Splits,
		EndpointSnaps:    s.stats.EndpointSnaps,
		LinkPairsCreated: s.stats.LinkPairsCreated,
		Vertices:         g.NumVertices(),
		LiveEdges:        len(g.LiveEdges()),
		IndexEntries:     s.linker.IndexSize(),
	}
}

// EntityLinks returns the connector edges leaving entity id.
func (s *LinkingService) EntityLinks(ctx context.Context, id int32) (*datastructure.Vertex, []LinkView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.linker.Graph().Vertex(id)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "vertex %d", id)
	}
	if !v.Kind.IsLinkable() {
		return nil, nil, errors.Wrapf(ErrNotEntity, "vertex %d is a %s vertex", id, v.Kind)
	}

	links := make([]LinkView, 0)
	for _, e := range v.Outgoing() {
		if e.Kind == datastructure.StreetEdge {
			continue
		}
		streetEdges := make([]*datastructure.Edge, 0)
		for _, se := range e.To.Outgoing() {
			if se.Kind == datastructure.StreetEdge {
				streetEdges = append(streetEdges, se)
			}
		}
		for _, se := range e.To.Incoming() {
			if se.Kind == datastructure.StreetEdge {
				streetEdges = append(streetEdges, se)
			}
		}
		links = append(links, LinkView{Edge: e, StreetEdges: streetEdges})
	}
	return v, links, nil
}
