package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/common"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/rs/zerolog"
)

// LaunchSystem kicks characters and pushes simulated bodies that overlap a
// launcher's collider volume.
type LaunchSystem struct {
	log zerolog.Logger
}

func NewLaunchSystem(log zerolog.Logger) *LaunchSystem {
	return &LaunchSystem{log: log.With().Str("system", "launch").Logger()}
}

func (s *LaunchSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.LauncherComponent.Kind(), func(e ecs.Entity, l *component.Launcher) {
		if l.Resolved {
			return
		}
		l.Resolved = true
		if l.Direction.LengthSq() == 0 {
			if m, ok := ecs.Get(w, e, component.MoverComponent.Kind()); ok {
				l.Direction = m.Direction
			}
		}
	})

	for _, evt := range w.Events().Items() {
		ov, ok := evt.Data.(ecs.OverlapEvent)
		if !ok {
			continue
		}
		l, ok := ecs.Get(w, ov.Trigger, component.LauncherComponent.Kind())
		if !ok {
			continue
		}
		switch {
		case ov.Volume == component.VolumeTrigger && ov.Phase == ecs.OverlapBegin && l.MoveTowardsTarget:
			if MoveTowardsTarget(w, ov.Trigger, ov.Other) {
				m, _ := ecs.Get(w, ov.Trigger, component.MoverComponent.Kind())
				l.Direction = m.Direction
			}
		case ov.Volume == component.VolumeCollider && ov.Phase == ecs.OverlapBegin:
			s.launchBegin(w, ov.Trigger, l, ov.Other)
		case ov.Volume == component.VolumeCollider && ov.Phase == ecs.OverlapEnd:
			l.Untrack(ov.Other)
		}
	}

	ecs.ForEach(w, component.LauncherComponent.Kind(), func(e ecs.Entity, l *component.Launcher) {
		if !l.Continuous {
			return
		}
		for _, target := range append([]ecs.Entity(nil), l.Overlapping...) {
			if !w.IsAlive(target) {
				l.Untrack(target)
				continue
			}
			s.apply(w, e, l, target)
		}
	})
}

func (s *LaunchSystem) launchBegin(w *ecs.World, e ecs.Entity, l *component.Launcher, other ecs.Entity) {
	if ecs.Has(w, other, component.PlayerComponent.Kind()) {
		v := l.Direction.Mult(l.Strength)
		if LaunchCharacter(w, other, v) {
			w.Events().Push(ecs.Event{Type: component.EventLaunch, Entity: e, Data: component.LaunchApplied{Target: other, Velocity: v, Mode: component.LaunchImpulse}})
		}
		return
	}

	body, ok := ecs.Get(w, other, component.PhysicsBodyComponent.Kind())
	if !ok || !body.Simulating() {
		s.log.Warn().Stringer("launcher", e).Stringer("entity", other).Msg("overlapping entity does not simulate physics")
		return
	}

	if l.Continuous {
		l.Track(other)
		return
	}
	s.apply(w, e, l, other)
}

// apply pushes target along the launch direction. Impulses change velocity
// and forces change acceleration, both independent of the target's mass.
func (s *LaunchSystem) apply(w *ecs.World, e ecs.Entity, l *component.Launcher, target ecs.Entity) {
	body, ok := ecs.Get(w, target, component.PhysicsBodyComponent.Kind())
	if !ok || !body.Simulating() {
		return
	}
	force := common.SafeNormal(l.Direction).Mult(l.Strength)
	mass := body.Body.Mass()
	at := body.Body.Position()

	mode := l.Mode
	if mode == "" {
		mode = component.LaunchImpulse
	}
	switch mode {
	case component.LaunchForce:
		body.Body.ApplyForceAtWorldPoint(force.Mult(mass), at)
	default:
		body.Body.ApplyImpulseAtWorldPoint(force.Mult(mass), at)
	}
	w.Events().Push(ecs.Event{Type: component.EventLaunch, Entity: e, Data: component.LaunchApplied{Target: target, Velocity: force, Mode: mode}})
}

// LaunchCharacter adds v to a character's velocity.
func LaunchCharacter(w *ecs.World, e ecs.Entity, v cp.Vector) bool {
	return AddVelocity(w, e, v)
}
