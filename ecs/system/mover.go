package system

import (
	"github.com/milk9111/levelupjam/common"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
)

// moverSnapDistance is how close a mover gets before it snaps to its goal.
const moverSnapDistance = 1.0

// MoverSystem interpolates moving obstacles between their start position
// and start + Direction*Amount.
type MoverSystem struct{}

func NewMoverSystem() *MoverSystem { return &MoverSystem{} }

func (s *MoverSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaSeconds()
	ecs.ForEach2(w, component.MoverComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, m *component.Mover, t *component.Transform) {
		if !m.HasStart {
			m.Start = t.Position()
			m.HasStart = true
		}
		if !m.ShouldMove {
			return
		}

		desired := m.Start
		if m.MovingUp {
			desired = m.Start.Add(m.Direction.Mult(m.Amount))
		}
		next := common.VInterpTo(t.Position(), desired, dt, m.Speed)
		if next.Distance(desired) < moverSnapDistance {
			next = desired
			m.ShouldMove = false
		}
		t.SetPosition(next)
	})
}

// MoveTowardsTarget points a mover's direction at target, measured from
// the mover's start position.
func MoveTowardsTarget(w *ecs.World, e, target ecs.Entity) bool {
	m, ok := ecs.Get(w, e, component.MoverComponent.Kind())
	if !ok {
		return false
	}
	tt, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	from := m.Start
	if !m.HasStart {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return false
		}
		from = t.Position()
	}
	dir := common.SafeNormal(tt.Position().Sub(from))
	if dir.LengthSq() == 0 {
		return false
	}
	m.Direction = dir
	return true
}
