package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/common"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
)

// FloatingMovementSystem integrates accumulated movement input for
// gravity-free movers such as drones, then clears the input.
type FloatingMovementSystem struct{}

func NewFloatingMovementSystem() *FloatingMovementSystem { return &FloatingMovementSystem{} }

func (s *FloatingMovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaSeconds()
	ecs.ForEach2(w, component.FloatingMovementComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, m *component.FloatingMovement, t *component.Transform) {
		m.Velocity = stepFloatingVelocity(m, dt)
		m.Input = cp.Vector{}
		t.SetPosition(t.Position().Add(m.Velocity.Mult(dt)))
	})
}

func stepFloatingVelocity(m *component.FloatingMovement, dt float64) cp.Vector {
	vel := m.Velocity
	dir := m.Input
	if dir.LengthSq() > 1 {
		dir = common.SafeNormal(dir)
	}

	if dir.LengthSq() > 0 {
		// bend the current velocity toward the input before accelerating
		speed := vel.Length()
		turn := common.Clamp(dt*m.TurningBoost, 0, 1)
		vel = vel.Sub(vel.Sub(common.SafeNormal(dir).Mult(speed)).Mult(turn))
		vel = vel.Add(dir.Mult(m.Acceleration * dt))
	} else if speed := vel.Length(); speed > 0 {
		next := speed - m.Deceleration*dt
		if next < 0 {
			next = 0
		}
		vel = vel.Mult(next / speed)
	}

	if m.MaxSpeed >= 0 && vel.Length() > m.MaxSpeed {
		vel = common.SafeNormal(vel).Mult(m.MaxSpeed)
	}
	return vel
}
