package component

import "github.com/milk9111/levelupjam/ecs"

// ObstacleState mirrors the obstacle's activation flags for observers.
type ObstacleState uint8

const (
	ObstacleIdle ObstacleState = iota
	ObstacleActive
	ObstacleCooldown
	ObstacleDisabled
)

func (s ObstacleState) String() string {
	switch s {
	case ObstacleIdle:
		return "idle"
	case ObstacleActive:
		return "active"
	case ObstacleCooldown:
		return "cooldown"
	case ObstacleDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Default trigger volume names used by obstacles.
const (
	VolumeCollider = "collider"
	VolumeTrigger  = "trigger"
)

// ObstacleEffects configures what PlayEffects emits.
type ObstacleEffects struct {
	Sound          string
	Visual         string
	PlayOnActivate bool
}

// Obstacle is an activatable level piece.
type Obstacle struct {
	State    ObstacleState
	Active   bool
	Disabled bool

	ActivateOnPlayerProximity bool
	ActivateOnObjectProximity bool
	ActivateOnStart           bool

	// ReactionDelay postpones proximity activation.
	ReactionDelay float64
	// AutoResetActivationDelay re-activates this long after a deactivation.
	AutoResetActivationDelay float64
	// AutoResetDeactivationDelay deactivates this long after an activation.
	AutoResetDeactivationDelay float64

	Effects ObstacleEffects

	// ProximityVolumes lists the trigger volumes that drive proximity activation.
	ProximityVolumes []string

	OnActivated   ecs.Delegate
	OnDeactivated ecs.Delegate
	OnInteracted  ecs.Delegate

	Started         bool
	ReactionTimer   ecs.TimerHandle
	ActivationTimer ecs.TimerHandle
	DeactivateTimer ecs.TimerHandle
	Activations     int
	Deactivations   int
}

var ObstacleComponent = NewComponent[Obstacle]()
