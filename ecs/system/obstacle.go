package system

import (
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/rs/zerolog"
)

// ObstacleSystem starts obstacles and turns proximity overlaps into
// activations.
type ObstacleSystem struct {
	log zerolog.Logger
}

func NewObstacleSystem(log zerolog.Logger) *ObstacleSystem {
	return &ObstacleSystem{log: log.With().Str("system", "obstacle").Logger()}
}

func (s *ObstacleSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.ObstacleComponent.Kind(), func(e ecs.Entity, obs *component.Obstacle) {
		if obs.Started {
			return
		}
		obs.Started = true
		if obs.ActivateOnStart {
			s.log.Debug().Stringer("entity", e).Msg("activate on start")
			ActivateObstacle(w, e)
		}
	})

	for _, evt := range w.Events().Items() {
		ov, ok := evt.Data.(ecs.OverlapEvent)
		if !ok || ov.Phase != ecs.OverlapBegin {
			continue
		}
		obs, ok := ecs.Get(w, ov.Trigger, component.ObstacleComponent.Kind())
		if !ok || !proximityVolume(obs, ov.Volume) {
			continue
		}
		HandleObstacleOverlap(w, ov.Trigger, ov.Other)
	}
}

func proximityVolume(obs *component.Obstacle, volume string) bool {
	if len(obs.ProximityVolumes) == 0 {
		return volume == component.VolumeCollider
	}
	for _, v := range obs.ProximityVolumes {
		if v == volume {
			return true
		}
	}
	return false
}

// HandleObstacleOverlap applies the proximity rules for other entering the
// obstacle. A positive ReactionDelay postpones the activation.
func HandleObstacleOverlap(w *ecs.World, e, other ecs.Entity) {
	obs, ok := ecs.Get(w, e, component.ObstacleComponent.Kind())
	if !ok || obs.Disabled {
		return
	}
	isPlayer := ecs.Has(w, other, component.PlayerComponent.Kind())
	if !(obs.ActivateOnPlayerProximity && isPlayer) && !obs.ActivateOnObjectProximity {
		return
	}
	if obs.ReactionDelay > 0 {
		if w.IsTimerActive(&obs.ReactionTimer) {
			return
		}
		w.SetTimer(&obs.ReactionTimer, e, obs.ReactionDelay, func(w *ecs.World) {
			ActivateObstacle(w, e)
		})
		return
	}
	ActivateObstacle(w, e)
}

// ActivateObstacle switches the obstacle on, notifies observers and arms the
// auto deactivation when configured.
func ActivateObstacle(w *ecs.World, e ecs.Entity) {
	obs, ok := ecs.Get(w, e, component.ObstacleComponent.Kind())
	if !ok || obs.Disabled {
		return
	}
	w.ClearTimer(&obs.ActivationTimer)
	obs.Active = true
	obs.State = component.ObstacleActive
	obs.Activations++

	if mover, ok := ecs.Get(w, e, component.MoverComponent.Kind()); ok {
		mover.MovingUp = true
		mover.ShouldMove = true
	}

	obs.OnActivated.Broadcast(w, e)
	w.Events().Push(ecs.Event{Type: component.EventObstacleActivated, Entity: e})

	if obs.Effects.PlayOnActivate {
		PlayEffects(w, e)
	}

	if obs.AutoResetDeactivationDelay > 0 {
		w.SetTimer(&obs.DeactivateTimer, e, obs.AutoResetDeactivationDelay, func(w *ecs.World) {
			DeactivateObstacle(w, e)
		})
	}
}

// DeactivateObstacle switches the obstacle off. With an auto reset
// activation delay it waits in cooldown and then activates again.
func DeactivateObstacle(w *ecs.World, e ecs.Entity) {
	obs, ok := ecs.Get(w, e, component.ObstacleComponent.Kind())
	if !ok || obs.Disabled {
		return
	}
	w.ClearTimer(&obs.DeactivateTimer)
	obs.Active = false
	obs.State = component.ObstacleIdle
	obs.Deactivations++

	if mover, ok := ecs.Get(w, e, component.MoverComponent.Kind()); ok {
		mover.MovingUp = false
		mover.ShouldMove = true
	}

	obs.OnDeactivated.Broadcast(w, e)
	w.Events().Push(ecs.Event{Type: component.EventObstacleDeactivated, Entity: e})

	if obs.AutoResetActivationDelay > 0 {
		obs.State = component.ObstacleCooldown
		w.SetTimer(&obs.ActivationTimer, e, obs.AutoResetActivationDelay, func(w *ecs.World) {
			ActivateObstacle(w, e)
		})
	}
}

// InteractObstacle notifies the obstacle's interacted observers.
func InteractObstacle(w *ecs.World, e ecs.Entity) {
	obs, ok := ecs.Get(w, e, component.ObstacleComponent.Kind())
	if !ok {
		return
	}
	obs.OnInteracted.Broadcast(w, e)
	w.Events().Push(ecs.Event{Type: component.EventObstacleInteracted, Entity: e})
}

// SetObstacleDisabled enables or disables an obstacle. Disabling drops any
// pending activation or deactivation.
func SetObstacleDisabled(w *ecs.World, e ecs.Entity, disabled bool) {
	obs, ok := ecs.Get(w, e, component.ObstacleComponent.Kind())
	if !ok || obs.Disabled == disabled {
		return
	}
	obs.Disabled = disabled
	if disabled {
		w.ClearTimer(&obs.ReactionTimer)
		w.ClearTimer(&obs.ActivationTimer)
		w.ClearTimer(&obs.DeactivateTimer)
		obs.State = component.ObstacleDisabled
		return
	}
	obs.State = component.ObstacleIdle
	if obs.Active {
		obs.State = component.ObstacleActive
	}
}

// SetupAutoLoop configures the obstacle to oscillate on its own: it starts
// active and both reset delays are one second. Movers also get speed 5.
func SetupAutoLoop(w *ecs.World, e ecs.Entity) {
	obs, ok := ecs.Get(w, e, component.ObstacleComponent.Kind())
	if !ok {
		return
	}
	obs.ActivateOnStart = true
	obs.AutoResetActivationDelay = 1
	obs.AutoResetDeactivationDelay = 1
	if mover, ok := ecs.Get(w, e, component.MoverComponent.Kind()); ok {
		mover.Speed = 5
	}
}

// PlayEffects requests the obstacle's configured sound and visual effect.
func PlayEffects(w *ecs.World, e ecs.Entity) {
	obs, ok := ecs.Get(w, e, component.ObstacleComponent.Kind())
	if !ok {
		return
	}
	if obs.Effects.Sound == "" && obs.Effects.Visual == "" {
		return
	}
	req := component.EffectRequest{Sound: obs.Effects.Sound, Visual: obs.Effects.Visual}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		req.Position = t.Position()
	}
	w.Events().Push(ecs.Event{Type: component.EventEffect, Entity: e, Data: req})
}
