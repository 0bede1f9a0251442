package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
)

const PlayerPrefab = "player.yaml"

func NewPlayerAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, PlayerPrefab, nil)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		p.Home = cp.Vector{X: x, Y: y}
	}
	return e, nil
}

// SpawnPlayer is the respawn system's player factory.
func SpawnPlayer(w *ecs.World, at cp.Vector) (ecs.Entity, error) {
	return NewPlayerAt(w, at.X, at.Y)
}
