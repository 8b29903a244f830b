package spatialindex

import (
	"github.com/lintang-b-s/streetlinker/pkg/datastructure"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const (
	TypeHashGrid = "hashgrid"
	TypeRTree    = "rtree"
)

// Index is an insert-only bound index over street edges. Query results may include edges
// that were split or removed after insertion.
type Index interface {
	Insert(bound orb.Bound, edge *datastructure.Edge)
	Query(bound orb.Bound) []*datastructure.Edge
	Size() int
}

func New(indexType string, cellSize float64) (Index, error) {
	switch indexType {
	case "", TypeHashGrid:
		return NewHashGrid(cellSize), nil
	case TypeRTree:
		return NewRTree(), nil
	default:
		return nil, errors.Errorf("unknown spatial index type %q", indexType)
	}
}
