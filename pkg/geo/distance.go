package geo

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	earthRadiusM = 6371007
)

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

// DistanceMeters is the s2 great-circle distance in meters.
func DistanceMeters(latOne, lonOne, latTwo, lonTwo float64) float64 {
	angle := s2.LatLngFromDegrees(latOne, lonOne).Distance(s2.LatLngFromDegrees(latTwo, lonTwo))
	return angle.Radians() * earthRadiusM
}

// MetersToDegrees converts a distance on the sphere to degrees of arc (latitude degrees).
func MetersToDegrees(meters float64) float64 {
	return s1.Angle(meters / earthRadiusM).Degrees()
}

// DegreesToMeters is the inverse of MetersToDegrees.
func DegreesToMeters(degrees float64) float64 {
	return (s1.Angle(degrees) * s1.Degree).Radians() * earthRadiusM
}
