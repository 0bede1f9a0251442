package system

import (
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
)

// ApplyDamage lowers a player's health, clamped at zero. Reaching zero kills
// the player: input is disabled, death observers run and the entity is
// destroyed after its death delay. It returns the remaining health.
func ApplyDamage(w *ecs.World, e ecs.Entity, amount int, source ecs.Entity) int {
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return 0
	}
	if p.Dead || amount <= 0 {
		return p.Health
	}

	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
	w.Events().Push(ecs.Event{
		Type:   component.EventPlayerDamaged,
		Entity: e,
		Data:   component.PlayerDamage{Amount: amount, Health: p.Health, Source: source},
	})

	if p.Health == 0 {
		killPlayer(w, e, p)
	}
	return p.Health
}

func killPlayer(w *ecs.World, e ecs.Entity, p *component.Player) {
	p.Dead = true
	SetPlayerInputEnabled(w, e, false)

	p.OnDeath.Broadcast(w, e)
	w.Events().Push(ecs.Event{Type: component.EventPlayerDeath, Entity: e})

	if p.DeathDelay <= 0 {
		destroyDeadPlayer(w, e)
		return
	}
	w.SetTimer(&p.DeathTimer, e, p.DeathDelay, func(w *ecs.World) {
		destroyDeadPlayer(w, e)
	})
}

// destroyDeadPlayer removes the player and leaves a respawn request behind
// carrying its respawn reference.
func destroyDeadPlayer(w *ecs.World, e ecs.Entity) {
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	req := &component.RespawnRequest{
		Previous:     e,
		RespawnPoint: p.RespawnPoint,
		RespawnID:    p.RespawnID,
		Home:         p.Home,
	}

	// release anything still holding the body
	ecs.ForEach(w, component.DroneComponent.Kind(), func(d ecs.Entity, drone *component.Drone) {
		if drone.Carried == e {
			drone.Carried = 0
		}
	})

	w.DestroyEntity(e)

	reqEnt := w.CreateEntity()
	_ = ecs.Add(w, reqEnt, component.RespawnRequestComponent.Kind(), req)
}
