package component

import "github.com/milk9111/levelupjam/ecs"

const VolumeSafeZone = "safe_zone"

// SafeZone calls off a drone's chase while a player stands inside it.
type SafeZone struct {
	Drone     ecs.Entity
	DroneName string
}

var SafeZoneComponent = NewComponent[SafeZone]()
