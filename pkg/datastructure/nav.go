package datastructure

import "github.com/paulmach/orb"

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func CoordinateFromPoint(p orb.Point) Coordinate {
	return NewCoordinate(p.Lat(), p.Lon())
}

func CoordinatesFromLineString(ls orb.LineString) []Coordinate {
	coords := make([]Coordinate, len(ls))
	for i, p := range ls {
		coords[i] = CoordinateFromPoint(p)
	}
	return coords
}
