package datastructure

import (
	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"
)

func CreatePolyline(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}

// EncodeGeometry encodes an edge geometry (lon/lat points) as a google polyline (lat/lon order).
func EncodeGeometry(ls orb.LineString) string {
	return CreatePolyline(CoordinatesFromLineString(ls))
}

func DecodePolyline(s string) ([]Coordinate, error) {
	coords, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	path := make([]Coordinate, 0, len(coords))
	for _, c := range coords {
		path = append(path, NewCoordinate(c[0], c[1]))
	}
	return path, nil
}
