package system

import (
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
)

// PlayerControllerSystem turns Input into body velocity for players whose
// input is enabled.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem { return &PlayerControllerSystem{} }

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.AutopilotComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, ap *component.Autopilot, in *component.Input) {
		if !ap.Began {
			ap.Began = true
			ap.Start = w.Elapsed()
		}
		t := w.Elapsed() - ap.Start
		for ap.Next < len(ap.Steps) && ap.Steps[ap.Next].At <= t {
			step := ap.Steps[ap.Next]
			in.MoveX = step.MoveX
			in.Jump = step.Jump
			if step.Jump {
				in.JumpPressed = true
			}
			ap.Next++
		}
	})

	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, p *component.Player, in *component.Input) {
		defer func() { in.JumpPressed = false }()
		if !p.InputEnabled || p.Dead || ecs.Has(w, e, component.AttachmentComponent.Kind()) {
			return
		}
		body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || !body.Simulating() {
			return
		}
		vel := body.Body.Velocity()
		vel.X = in.MoveX * p.MoveSpeed
		if in.JumpPressed && body.Grounded {
			vel.Y = -p.JumpSpeed
		}
		body.Body.SetVelocityVector(vel)
	})
}

// SetPlayerInputEnabled toggles whether a player responds to input.
func SetPlayerInputEnabled(w *ecs.World, e ecs.Entity, enabled bool) {
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	p.InputEnabled = enabled
	if !enabled {
		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			*in = component.Input{}
		}
	}
}
