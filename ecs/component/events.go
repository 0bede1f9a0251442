package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
)

// Gameplay event types pushed on the world event queue.
const (
	EventDroneStateChanged   = "drone_state_changed"
	EventDroneGrab           = "drone_grab"
	EventDroneDrop           = "drone_drop"
	EventObstacleActivated   = "obstacle_activated"
	EventObstacleDeactivated = "obstacle_deactivated"
	EventObstacleInteracted  = "obstacle_interacted"
	EventEffect              = "effect"
	EventLaunch              = "launch"
	EventPlayerDamaged       = "player_damaged"
	EventPlayerDeath         = "player_death"
	EventPlayerRespawned     = "player_respawned"
	EventRespawnPointChanged = "respawn_point_changed"
	EventSafeZone            = "safe_zone"
)

type DroneStateChange struct {
	From DroneState
	To   DroneState
}

type DroneCarry struct {
	Player ecs.Entity
}

type EffectRequest struct {
	Sound    string
	Visual   string
	Position cp.Vector
}

type LaunchApplied struct {
	Target   ecs.Entity
	Velocity cp.Vector
	Mode     LaunchMode
}

type PlayerDamage struct {
	Amount int
	Health int
	Source ecs.Entity
}

type PlayerRespawn struct {
	Previous ecs.Entity
	Point    ecs.Entity
}

type RespawnPointChange struct {
	Point ecs.Entity
	ID    string
}

type SafeZoneChange struct {
	Drone   ecs.Entity
	Player  ecs.Entity
	Entered bool
}
