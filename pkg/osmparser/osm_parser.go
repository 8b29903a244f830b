// Package osmparser builds the street graph that the linker works on from OpenStreetMap
// data. Ways are cut into street edges at junctions, and nodes tagged as stops, bike
// stations or park and ride lots become entity vertices.
package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/lintang-b-s/streetlinker/pkg/datastructure"
	"github.com/lintang-b-s/streetlinker/pkg/util"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

const progressEvery = 50000

type nodeCoord struct {
	lat float64
	lon float64
}

type OsmParser struct {
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]nodeCoord
	streetVertices  map[int64]*datastructure.Vertex
	logger          *slog.Logger
}

func NewOSMParser(logger *slog.Logger) *OsmParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &OsmParser{
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]nodeCoord),
		streetVertices:  make(map[int64]*datastructure.Vertex),
		logger:          logger,
	}
}

// Parse reads an .osm.pbf file in two passes (ways first, then the nodes they use) and
// returns the street graph with its entity vertices.
func (p *OsmParser) Parse(ctx context.Context, mapFile string) (*datastructure.Graph, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, errors.Wrapf(err, "open osm file %s", mapFile)
	}
	defer f.Close()

	ways := make([]*osm.Way, 0)
	err = scan(ctx, f, func(o osm.Object) {
		if way, ok := o.(*osm.Way); ok && len(way.Nodes) >= 2 && acceptOsmWay(way) {
			ways = append(ways, way)
			if len(ways)%progressEvery == 0 {
				p.logger.Info("reading openstreetmap ways", slog.Int("ways", len(ways)))
			}
		}
	})
	if err != nil {
		return nil, err
	}
	p.markWayNodes(ways)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "rewind osm file")
	}

	entities := make([]*osm.Node, 0)
	countNodes := 0
	err = scan(ctx, f, func(o osm.Object) {
		node, ok := o.(*osm.Node)
		if !ok {
			return
		}
		countNodes++
		if countNodes%progressEvery == 0 {
			p.logger.Info("processing openstreetmap nodes", slog.Int("nodes", countNodes))
		}
		if _, used := p.wayNodeMap[int64(node.ID)]; used {
			p.acceptedNodeMap[int64(node.ID)] = nodeCoord{lat: node.Lat, lon: node.Lon}
		}
		if _, isEntity := entityKind(node.Tags); isEntity {
			entities = append(entities, node)
		}
	})
	if err != nil {
		return nil, err
	}

	return p.build(ways, entities), nil
}

func scan(ctx context.Context, r io.Reader, fn func(osm.Object)) error {
	scanner := osmpbf.New(ctx, r, runtime.GOMAXPROCS(-1))
	defer scanner.Close()

	for scanner.Scan() {
		fn(scanner.Object())
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "scan osm pbf")
	}
	return nil
}

// BuildGraph builds the graph from already decoded OSM objects.
func (p *OsmParser) BuildGraph(nodes []*osm.Node, ways []*osm.Way) *datastructure.Graph {
	accepted := make([]*osm.Way, 0, len(ways))
	for _, way := range ways {
		if len(way.Nodes) >= 2 && acceptOsmWay(way) {
			accepted = append(accepted, way)
		}
	}
	p.markWayNodes(accepted)

	entities := make([]*osm.Node, 0)
	for _, node := range nodes {
		if _, used := p.wayNodeMap[int64(node.ID)]; used {
			p.acceptedNodeMap[int64(node.ID)] = nodeCoord{lat: node.Lat, lon: node.Lon}
		}
		if _, isEntity := entityKind(node.Tags); isEntity {
			entities = append(entities, node)
		}
	}
	return p.build(accepted, entities)
}

func (p *OsmParser) markWayNodes(ways []*osm.Way) {
	for _, way := range ways {
		for i, node := range way.Nodes {
			id := int64(node.ID)
			if _, ok := p.wayNodeMap[id]; !ok {
				if i == 0 || i == len(way.Nodes)-1 {
					p.wayNodeMap[id] = END_NODE
				} else {
					p.wayNodeMap[id] = BETWEEN_NODE
				}
			} else {
				p.wayNodeMap[id] = JUNCTION_NODE
			}
		}
	}
}

func (p *OsmParser) build(ways []*osm.Way, entities []*osm.Node) *datastructure.Graph {
	g := datastructure.NewGraph()

	countEdges := 0
	for _, way := range ways {
		countEdges += p.processWay(g, way)
	}

	for _, node := range entities {
		kind, _ := entityKind(node.Tags)
		label := node.Tags.Find("name")
		if label == "" {
			label = fmt.Sprintf("osm:node:%d", node.ID)
		}
		v := g.AddVertex(kind, label, node.Lat, node.Lon)
		if kind == datastructure.TransitStopVertex {
			v.WheelchairEntrance = node.Tags.Find("wheelchair") == "yes"
		}
	}

	p.logger.Info("street graph built",
		slog.Int("ways", len(ways)),
		slog.Int("street_edges", countEdges),
		slog.Int("entities", len(entities)),
	)
	return g
}

func (p *OsmParser) isSegmentBoundary(nodeID int64) bool {
	t := p.wayNodeMap[nodeID]
	return t == JUNCTION_NODE || t == END_NODE
}

// processWay cuts the way at junction and end nodes and adds one street edge per direction
// allowed for each piece. It returns the number of edges added.
func (p *OsmParser) processWay(g *datastructure.Graph, way *osm.Way) int {
	modes := wayModes(way.Tags)
	if modes == 0 {
		return 0
	}
	direction := getWayDirection(way.Tags)
	name := way.Tags.Find("name")

	added := 0
	segment := make([]int64, 0, len(way.Nodes))
	for i, wayNode := range way.Nodes {
		id := int64(wayNode.ID)
		if _, ok := p.acceptedNodeMap[id]; !ok {
			// node missing from the extract
			continue
		}
		segment = append(segment, id)
		if len(segment) > 1 && (p.isSegmentBoundary(id) || i == len(way.Nodes)-1) {
			added += p.addSegment(g, segment, modes, direction, way.Tags, name)
			segment = []int64{id}
		}
	}
	return added
}

func (p *OsmParser) addSegment(g *datastructure.Graph, segment []int64, modes datastructure.TraverseModeSet,
	direction wayDirection, tags osm.Tags, name string) int {
	first, last := segment[0], segment[len(segment)-1]
	if len(segment) == 2 && first == last {
		return 0
	}

	geometry := make(orb.LineString, 0, len(segment))
	for _, id := range segment {
		c := p.acceptedNodeMap[id]
		geometry = append(geometry, orb.Point{c.lon, c.lat})
	}
	reversed := orb.LineString(util.ReverseG(geometry))

	from := p.streetVertex(g, first)
	to := p.streetVertex(g, last)

	forwardModes, backwardModes := modes, modes
	if direction.oneWay {
		if direction.forward {
			backwardModes = against(modes, tags)
		} else {
			forwardModes = against(modes, tags)
		}
	}

	added := 0
	if forwardModes != 0 {
		g.AddStreetEdge(from, to, geometry, forwardModes, name)
		added++
	}
	if backwardModes != 0 {
		g.AddStreetEdge(to, from, reversed, backwardModes, name)
		added++
	}
	return added
}

func (p *OsmParser) streetVertex(g *datastructure.Graph, nodeID int64) *datastructure.Vertex {
	if v, ok := p.streetVertices[nodeID]; ok {
		return v
	}
	c := p.acceptedNodeMap[nodeID]
	v := g.AddStreetVertex(fmt.Sprintf("osm:node:%d", nodeID), c.lat, c.lon)
	p.streetVertices[nodeID] = v
	return v
}
