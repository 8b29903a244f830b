package datastructure

import "sort"

// ElevationAt linearly interpolates the profile at distance d. Outside the sampled range the
// nearest sample is returned.
func ElevationAt(profile []ElevationSample, d float64) float64 {
	if len(profile) == 0 {
		return 0
	}
	if d <= profile[0].Distance {
		return profile[0].Elevation
	}
	last := profile[len(profile)-1]
	if d >= last.Distance {
		return last.Elevation
	}

	i := sort.Search(len(profile), func(i int) bool {
		return profile[i].Distance >= d
	})
	a, b := profile[i-1], profile[i]
	if b.Distance == a.Distance {
		return a.Elevation
	}
	t := (d - a.Distance) / (b.Distance - a.Distance)
	return a.Elevation + t*(b.Elevation-a.Elevation)
}

// SplitElevation cuts a profile at distance d. Both halves get an interpolated sample at the
// cut; distances in the second half are shifted to start at zero.
func SplitElevation(profile []ElevationSample, d float64) ([]ElevationSample, []ElevationSample) {
	if len(profile) == 0 {
		return nil, nil
	}
	cut := ElevationAt(profile, d)

	first := make([]ElevationSample, 0, len(profile)+1)
	second := make([]ElevationSample, 0, len(profile)+1)
	for _, s := range profile {
		if s.Distance < d {
			first = append(first, s)
		}
	}
	first = append(first, ElevationSample{Distance: d, Elevation: cut})

	second = append(second, ElevationSample{Distance: 0, Elevation: cut})
	for _, s := range profile {
		if s.Distance > d {
			second = append(second, ElevationSample{Distance: s.Distance - d, Elevation: s.Elevation})
		}
	}
	return first, second
}
