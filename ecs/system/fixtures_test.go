package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60.0

func add[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind ecs.ComponentKind[T], v *T) {
	t.Helper()
	require.NoError(t, ecs.Add(w, e, kind, v))
}

func spawnPoint(t *testing.T, w *ecs.World, name string, pos cp.Vector) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	add(t, w, e, component.NameComponent.Kind(), &component.Name{Value: name})
	add(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y})
	add(t, w, e, component.TargetPointComponent.Kind(), &component.TargetPoint{})
	return e
}

// spawnDrone places a drone facing +X.
func spawnDrone(t *testing.T, w *ecs.World, pos cp.Vector) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	add(t, w, e, component.NameComponent.Kind(), &component.Name{Value: "drone"})
	add(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y})
	add(t, w, e, component.DroneComponent.Kind(), component.NewDrone())
	add(t, w, e, component.FloatingMovementComponent.Kind(), component.NewFloatingMovement())
	return e
}

// spawnPlayer places a player without a physics body.
func spawnPlayer(t *testing.T, w *ecs.World, pos cp.Vector) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	add(t, w, e, component.NameComponent.Kind(), &component.Name{Value: "player"})
	add(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y})
	add(t, w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed:    300,
		JumpSpeed:    500,
		Health:       component.MaxPlayerHealth,
		InputEnabled: true,
	})
	add(t, w, e, component.InputComponent.Kind(), &component.Input{})
	return e
}

func drone(t *testing.T, w *ecs.World, e ecs.Entity) *component.Drone {
	t.Helper()
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	require.True(t, ok)
	return d
}

func player(t *testing.T, w *ecs.World, e ecs.Entity) *component.Player {
	t.Helper()
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	require.True(t, ok)
	return p
}

func position(t *testing.T, w *ecs.World, e ecs.Entity) cp.Vector {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	return tr.Position()
}

func eventsOfType(w *ecs.World, typ string) []ecs.Event {
	var out []ecs.Event
	for _, evt := range w.Events().Items() {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

func newDroneSystem() *DroneSystem {
	return NewDroneSystem(nil, zerolog.Nop())
}

type fakeTracer struct {
	hit     ecs.Entity
	blocked bool
}

func (f fakeTracer) TraceFirst(start, end cp.Vector, ignore ecs.Entity) (ecs.Entity, cp.Vector, bool) {
	return f.hit, end, f.blocked
}
