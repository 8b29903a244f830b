package osmparser

import (
	"github.com/lintang-b-s/streetlinker/pkg/datastructure"

	"github.com/paulmach/osm"
)

type NodeType uint8

const (
	BETWEEN_NODE NodeType = iota + 1
	END_NODE
	JUNCTION_NODE
)

var (
	skipHighway = map[string]struct{}{
		"construction":           {},
		"proposed":               {},
		"abandoned":              {},
		"platform":               {},
		"bus_stop":               {},
		"elevator":               {},
		"emergency_bay":          {},
		"emergency_access_point": {},
		"raceway":                {},
		"bus_guideway":           {},
		"escape":                 {},
		"services":               {},
		"rest_area":              {},
	}

	carOnlyHighway = map[string]struct{}{
		"motorway":      {},
		"motorway_link": {},
		"trunk":         {},
		"trunk_link":    {},
	}

	pedestrianHighway = map[string]struct{}{
		"footway":    {},
		"pedestrian": {},
		"steps":      {},
		"corridor":   {},
		"path":       {},
	}

	restricted = map[string]struct{}{
		"no":         {},
		"restricted": {},
		"private":    {},
		"military":   {},
		"emergency":  {},
	}

	permitted = map[string]struct{}{
		"yes":        {},
		"designated": {},
		"permissive": {},
	}

	transitStopRailway = map[string]struct{}{
		"station":   {},
		"halt":      {},
		"tram_stop": {},
	}
)

func isRestricted(value string) bool {
	_, ok := restricted[value]
	return ok
}

func isPermitted(value string) bool {
	_, ok := permitted[value]
	return ok
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	if highway == "" {
		return way.Tags.Find("route") == "road"
	}
	_, skip := skipHighway[highway]
	return !skip
}

// wayModes derives the traversal permissions of a way from its highway class and the
// access overrides (access, foot, bicycle, motor_vehicle).
func wayModes(tags osm.Tags) datastructure.TraverseModeSet {
	highway := tags.Find("highway")

	var modes datastructure.TraverseModeSet
	switch {
	case isCarOnly(highway):
		modes = datastructure.NewTraverseModeSet(datastructure.Car)
	case isPedestrian(highway):
		modes = datastructure.NewTraverseModeSet(datastructure.Walk)
		if highway == "path" {
			modes |= datastructure.NewTraverseModeSet(datastructure.Bicycle)
		}
	case highway == "cycleway":
		modes = datastructure.NewTraverseModeSet(datastructure.Walk, datastructure.Bicycle)
	default:
		modes = datastructure.NewTraverseModeSet(datastructure.Walk, datastructure.Bicycle, datastructure.Car)
	}

	if isRestricted(tags.Find("access")) {
		modes = 0
	}
	modes = override(modes, datastructure.Walk, tags.Find("foot"))
	modes = override(modes, datastructure.Bicycle, tags.Find("bicycle"))
	modes = override(modes, datastructure.Car, tags.Find("motor_vehicle"))
	return modes
}

func override(modes datastructure.TraverseModeSet, m datastructure.TraverseMode, value string) datastructure.TraverseModeSet {
	switch {
	case isRestricted(value):
		return modes &^ datastructure.NewTraverseModeSet(m)
	case isPermitted(value):
		return modes | datastructure.NewTraverseModeSet(m)
	}
	return modes
}

func isCarOnly(highway string) bool {
	_, ok := carOnlyHighway[highway]
	return ok
}

func isPedestrian(highway string) bool {
	_, ok := pedestrianHighway[highway]
	return ok
}

type wayDirection struct {
	oneWay  bool
	forward bool
}

func getWayDirection(tags osm.Tags) wayDirection {
	oneway := tags.Find("oneway")
	switch {
	case oneway == "-1" || oneway == "reverse":
		return wayDirection{oneWay: true, forward: false}
	case oneway == "yes" || oneway == "true" || oneway == "1":
		return wayDirection{oneWay: true, forward: true}
	case tags.Find("junction") == "roundabout":
		return wayDirection{oneWay: true, forward: true}
	}
	return wayDirection{oneWay: false, forward: true}
}

// against returns the modes allowed against the way direction of a one-way street.
// Pedestrians may always walk both ways; cyclists only with oneway:bicycle=no.
func against(modes datastructure.TraverseModeSet, tags osm.Tags) datastructure.TraverseModeSet {
	back := modes & datastructure.NewTraverseModeSet(datastructure.Walk)
	if tags.Find("oneway:bicycle") == "no" {
		back |= modes & datastructure.NewTraverseModeSet(datastructure.Bicycle)
	}
	return back
}

// entityKind classifies an OSM node as a linkable entity.
func entityKind(tags osm.Tags) (datastructure.VertexKind, bool) {
	if tags.Find("highway") == "bus_stop" {
		return datastructure.TransitStopVertex, true
	}
	switch tags.Find("public_transport") {
	case "platform", "stop_position":
		return datastructure.TransitStopVertex, true
	}
	if _, ok := transitStopRailway[tags.Find("railway")]; ok {
		return datastructure.TransitStopVertex, true
	}

	switch tags.Find("amenity") {
	case "bicycle_rental":
		return datastructure.BikeRentalVertex, true
	case "bicycle_parking":
		return datastructure.BikeParkVertex, true
	case "parking":
		if pr := tags.Find("park_ride"); pr != "" && pr != "no" {
			return datastructure.ParkAndRideVertex, true
		}
	}
	return 0, false
}
