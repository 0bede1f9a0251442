package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
)

const MaxPlayerHealth = 100

// Player is the controllable box character.
type Player struct {
	MoveSpeed  float64
	JumpSpeed  float64
	DeathDelay float64

	Health       int
	InputEnabled bool
	Dead         bool

	RespawnPoint ecs.Entity
	RespawnID    string
	// Home is where the player respawns when no respawn point was touched.
	Home cp.Vector

	DeathTimer ecs.TimerHandle
	OnDeath    ecs.Delegate
}

var PlayerComponent = NewComponent[Player]()
