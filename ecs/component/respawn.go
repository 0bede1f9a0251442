package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
)

// RespawnPoint is a checkpoint players return to after dying.
type RespawnPoint struct {
	ID string
}

var RespawnPointComponent = NewComponent[RespawnPoint]()

const VolumeRespawn = "respawn"

// RespawnRequest lives on its own entity after a dead player is destroyed,
// until the respawn system spawns the replacement.
type RespawnRequest struct {
	Previous     ecs.Entity
	RespawnPoint ecs.Entity
	RespawnID    string
	Home         cp.Vector
}

var RespawnRequestComponent = NewComponent[RespawnRequest]()
