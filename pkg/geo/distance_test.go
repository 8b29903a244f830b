package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var distanceCases = []struct {
	latOne, longOne, latTwo, longTwo float64
	expectedDist                     float64 // km
}{
	{
		latOne:       -7.557155997491524,
		longOne:      110.77170252731288,
		latTwo:       -7.550209300671982,
		longTwo:      110.78942094938256,
		expectedDist: 2.1,
	},
	{
		latOne:       -7.546196863318374,
		longOne:      110.7775170972345,
		latTwo:       -7.550209300671982,
		longTwo:      110.78942094938256,
		expectedDist: 1.38,
	},
	{
		latOne:       -7.700002453207869,
		longOne:      110.37712514761436,
		latTwo:       -7.760335932763678,
		longTwo:      110.37671195413539,
		expectedDist: 6.7,
	},
}

func TestDistanceMeters(t *testing.T) {
	for _, c := range distanceCases {
		dist := DistanceMeters(c.latOne, c.longOne, c.latTwo, c.longTwo)
		assert.InDelta(t, c.expectedDist*1000, dist, 100)
		assert.InDelta(t, dist, DistanceMeters(c.latTwo, c.longTwo, c.latOne, c.longOne), 1e-9)
	}
}

func TestMetersToDegrees(t *testing.T) {
	// one degree of latitude is about 111.2 km
	assert.InDelta(t, 1.0, MetersToDegrees(111195), 1e-3)
	assert.InDelta(t, 0.0089932, MetersToDegrees(1000), 1e-6)
	assert.Equal(t, 0.0, MetersToDegrees(0))

	// a great-circle arc along a meridian matches the degree conversion
	assert.InDelta(t, 1000, DistanceMeters(0, 110, MetersToDegrees(1000), 110), 1e-6)

	for _, m := range []float64{0.001, 5, 1000, 250000} {
		assert.InDelta(t, m, DegreesToMeters(MetersToDegrees(m)), m*1e-9)
	}
}
