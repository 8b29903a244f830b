// Package linking attaches entity vertices (transit stops, bike rental stations, bike parks,
// park and ride lots) to the street network. For every entity it finds the closest walkable
// street edges, splits them at the projection of the entity when needed and adds a pair of
// connector edges between the entity and the street vertex.
//
// A Linker owns its graph for the lifetime of the session: every mutation goes through it
// so that the graph and the private spatial index never diverge.
package linking

import (
	"github.com/lintang-b-s/streetlinker/pkg/datastructure"
	"github.com/lintang-b-s/streetlinker/pkg/geo"
	"github.com/lintang-b-s/streetlinker/pkg/spatialindex"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

const (
	DefaultMaxSearchRadiusMeters     = 1000.0
	DefaultDuplicateWayEpsilonMeters = 0.001

	progressEvery = 10000
)

var (
	ErrUnknownEntityKind = errors.New("vertex kind can not be linked to streets")
	ErrSessionClosed     = errors.New("linking session closed")
)

// Target is one street vertex an entity got connected to.
type Target struct {
	Edge         *datastructure.Edge // street edge the entity projected onto
	StreetVertex *datastructure.Vertex
	Distance     float64 // meters
	Split        bool    // StreetVertex was created by splitting Edge
	Created      bool    // false when the connector pair already existed
}

type Result struct {
	Vertex  *datastructure.Vertex
	Targets []Target
}

type Stats struct {
	Linked           int
	Unlinked         []*datastructure.Vertex
	Splits           int
	EndpointSnaps    int
	LinkPairsCreated int
}

// Add folds the outcome of one LinkVertex call into s.
func (s *Stats) Add(res Result, linked bool) {
	if !linked {
		s.Unlinked = append(s.Unlinked, res.Vertex)
		return
	}
	s.Linked++
	for _, t := range res.Targets {
		if t.Split {
			s.Splits++
		} else {
			s.EndpointSnaps++
		}
		if t.Created {
			s.LinkPairsCreated++
		}
	}
}

type Linker struct {
	graph *datastructure.Graph
	idx   spatialindex.Index

	maxSearchRadiusMeters     float64
	duplicateWayEpsilonMeters float64
	radiusDeg                 float64
	duplicateDeg              float64
	keepElevation             bool

	logger    *slog.Logger
	metrics   *Metrics
	sessionID string
	closed    bool
}

type Option func(*Linker)

func WithMaxSearchRadius(meters float64) Option {
	return func(l *Linker) {
		l.maxSearchRadiusMeters = meters
	}
}

func WithDuplicateWayEpsilon(meters float64) Option {
	return func(l *Linker) {
		l.duplicateWayEpsilonMeters = meters
	}
}

// WithElevationOnSplit chooses between cutting elevation profiles at the split point (true,
// the default) and dropping them with a warning (false).
func WithElevationOnSplit(keep bool) Option {
	return func(l *Linker) {
		l.keepElevation = keep
	}
}

// WithIndex sets the spatial index implementation. It must be empty; the linker fills it.
func WithIndex(idx spatialindex.Index) Option {
	return func(l *Linker) {
		l.idx = idx
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Linker) {
		l.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(l *Linker) {
		l.metrics = m
	}
}

// NewLinker claims the graph's linking session and indexes every live street edge. It panics
// when another linker is already active on g.
func NewLinker(g *datastructure.Graph, opts ...Option) *Linker {
	l := &Linker{
		graph:                     g,
		maxSearchRadiusMeters:     DefaultMaxSearchRadiusMeters,
		duplicateWayEpsilonMeters: DefaultDuplicateWayEpsilonMeters,
		keepElevation:             true,
		logger:                    slog.Default(),
		sessionID:                 uuid.NewString(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.idx == nil {
		l.idx = spatialindex.NewHashGrid(spatialindex.DefaultCellSize)
	}
	l.logger = l.logger.With(slog.String("linking_session", l.sessionID))

	l.radiusDeg = geo.MetersToDegrees(l.maxSearchRadiusMeters)
	l.duplicateDeg = geo.MetersToDegrees(l.duplicateWayEpsilonMeters)

	g.ClaimLinkingSession()

	streetEdges := g.StreetEdges()
	for _, e := range streetEdges {
		l.idx.Insert(e.Geometry.Bound(), e)
	}
	l.metrics.indexSize(l.idx.Size())
	l.logger.Info("street edge index built", slog.Int("street_edges", len(streetEdges)))
	return l
}

// Close ends the session and releases the graph for another linker.
func (l *Linker) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.graph.ReleaseLinkingSession()
}

func (l *Linker) Graph() *datastructure.Graph {
	return l.graph
}

func (l *Linker) mustBeOpen() {
	if l.closed {
		panic(ErrSessionClosed)
	}
}

// LinkAll links every linkable vertex currently in the graph.
func (l *Linker) LinkAll() Stats {
	l.mustBeOpen()

	var stats Stats
	count := 0
	for _, v := range l.graph.Vertices() {
		if !v.Kind.IsLinkable() {
			continue
		}
		res, linked := l.LinkVertex(v)
		stats.Add(res, linked)

		count++
		if count%progressEvery == 0 {
			l.logger.Info("linking entities", slog.Int("done", count))
		}
	}

	l.logger.Info("linking finished",
		slog.Int("linked", stats.Linked),
		slog.Int("unlinked", len(stats.Unlinked)),
		slog.Int("splits", stats.Splits),
		slog.Int("link_pairs_created", stats.LinkPairsCreated),
	)
	return stats
}

// LinkVertex links a single entity vertex. It returns false, without error, when no walkable
// street edge lies within the search radius or v is not a linkable kind.
func (l *Linker) LinkVertex(v *datastructure.Vertex) (Result, bool) {
	l.mustBeOpen()

	res := Result{Vertex: v}
	if !v.Kind.IsLinkable() {
		return res, false
	}

	xscale := geo.XScale(v.Lat)
	best := selectBest(l.candidates(v, xscale), l.radiusDeg, l.duplicateDeg)
	if len(best) == 0 {
		l.metrics.linked(false)
		l.logger.Debug("no street edge within search radius",
			slog.Int("vertex_id", int(v.ID)),
			slog.String("label", v.Label),
		)
		return res, false
	}

	for _, c := range best {
		street, split := l.streetVertexFor(v, c.edge, xscale)
		created := l.makeLinkEdges(v, street)
		l.logger.Debug("entity linked",
			slog.Int("vertex_id", int(v.ID)),
			slog.Int("street_vertex_id", int(street.ID)),
			slog.Float64("connector_m", geo.DistanceMeters(v.Lat, v.Lon, street.Lat, street.Lon)),
			slog.Bool("split", split),
		)
		res.Targets = append(res.Targets, Target{
			Edge:         c.edge,
			StreetVertex: street,
			Distance:     geo.DegreesToMeters(c.dist),
			Split:        split,
			Created:      created,
		})
	}
	l.metrics.linked(true)
	return res, true
}

// AddEntity creates a new entity vertex and links it against the existing index.
func (l *Linker) AddEntity(kind datastructure.VertexKind, label string, lat, lon float64,
	wheelchairEntrance bool) (Result, bool, error) {
	l.mustBeOpen()

	if !kind.IsLinkable() {
		return Result{}, false, ErrUnknownEntityKind
	}
	v := l.graph.AddVertex(kind, label, lat, lon)
	v.WheelchairEntrance = kind == datastructure.TransitStopVertex && wheelchairEntrance

	res, linked := l.LinkVertex(v)
	return res, linked, nil
}

// IndexSize is the number of index entries, stale ones included.
func (l *Linker) IndexSize() int {
	return l.idx.Size()
}
