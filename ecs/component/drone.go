package component

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
)

// DroneState is the drone behaviour state.
type DroneState uint8

const (
	DronePatrolling DroneState = iota
	DroneChasing
	DroneCarrying
	DroneReturning
)

func (s DroneState) String() string {
	switch s {
	case DronePatrolling:
		return "patrolling"
	case DroneChasing:
		return "chasing"
	case DroneCarrying:
		return "carrying"
	case DroneReturning:
		return "returning"
	default:
		return "unknown"
	}
}

// ParseDroneState maps a state name back to its value.
func ParseDroneState(name string) (DroneState, bool) {
	for s := DronePatrolling; s <= DroneReturning; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return DronePatrolling, false
}

func (s DroneState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *DroneState) UnmarshalText(b []byte) error {
	v, ok := ParseDroneState(string(b))
	if !ok {
		return fmt.Errorf("unknown drone state %q", b)
	}
	*s = v
	return nil
}

// Drone volume names.
const (
	VolumeDetection   = "detection"
	VolumeInteraction = "interaction"
)

// Drone tuning and behaviour state.
type Drone struct {
	PatrolSpeed       float64
	ChaseSpeed        float64
	PatrolWaitTime    float64
	DetectionRadius   float64
	InteractionRadius float64
	// SightAngle is the full cone width in degrees outside of a chase.
	SightAngle      float64
	ChaseSightAngle float64
	LosePlayerTime  float64
	DropOffHeight   float64
	RotationSpeed   float64

	State        DroneState
	PatrolPoints []ecs.Entity
	PatrolIndex  int
	Target       cp.Vector
	HasTarget    bool
	DropOff      ecs.Entity

	Detected      ecs.Entity
	Carried       ecs.Entity
	PlayerInSight bool
	Waiting       bool
	SafeZone      bool

	Started         bool
	PatrolWaitTimer ecs.TimerHandle
	LoseTimer       ecs.TimerHandle

	OnStateChanged ecs.Delegate
}

var DroneComponent = NewComponent[Drone]()

// DroneRefs holds the names a level uses to point a drone at other entities.
// The level builder resolves them once every entity exists.
type DroneRefs struct {
	PatrolPoints []string
	DropOff      string
}

var DroneRefsComponent = NewComponent[DroneRefs]()

// FloatingMovement integrates pending movement input into a velocity with
// acceleration limits and no gravity.
type FloatingMovement struct {
	MaxSpeed     float64
	Acceleration float64
	Deceleration float64
	TurningBoost float64

	Velocity cp.Vector
	Input    cp.Vector
}

var FloatingMovementComponent = NewComponent[FloatingMovement]()

// AddInput accumulates movement input for this frame.
func (m *FloatingMovement) AddInput(dir cp.Vector) {
	m.Input = m.Input.Add(dir)
}

// NewDrone returns a drone with the stock tuning.
func NewDrone() *Drone {
	return &Drone{
		PatrolSpeed:       200,
		ChaseSpeed:        400,
		PatrolWaitTime:    2,
		DetectionRadius:   800,
		InteractionRadius: 150,
		SightAngle:        60,
		ChaseSightAngle:   135,
		LosePlayerTime:    2,
		DropOffHeight:     100,
		RotationSpeed:     2,
	}
}

// NewFloatingMovement returns movement limits matching the stock drone.
func NewFloatingMovement() *FloatingMovement {
	return &FloatingMovement{
		MaxSpeed:     200,
		Acceleration: 1000,
		Deceleration: 1000,
		TurningBoost: 8,
	}
}
