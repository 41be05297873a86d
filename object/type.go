package object

import "fmt"

// Type is the kind of object, stored in the low nibble of the entry flags.
type Type uint8

// Object types.
const (
	TypeRide Type = iota
	TypeSmallScenery
	TypeLargeScenery
	TypeWalls
	TypeBanners
	TypePaths
	TypePathBits
	TypeSceneryGroup
	TypeParkEntrance
	TypeWater
	TypeScenarioText
)

var typeNames = [...]string{
	TypeRide:         "ride",
	TypeSmallScenery: "small scenery",
	TypeLargeScenery: "large scenery",
	TypeWalls:        "walls",
	TypeBanners:      "banners",
	TypePaths:        "paths",
	TypePathBits:     "path bits",
	TypeSceneryGroup: "scenery group",
	TypeParkEntrance: "park entrance",
	TypeWater:        "water",
	TypeScenarioText: "scenario text",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Source records where an object originally shipped from.
type Source uint8

// Object sources.
const (
	SourceCustom Source = iota
	SourceWackyWorlds
	SourceTimeTwister
	SourceOriginal
)
