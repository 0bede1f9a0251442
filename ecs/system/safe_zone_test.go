package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnSafeZone(t *testing.T, w *ecs.World, d ecs.Entity) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	add(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
	add(t, w, e, component.SafeZoneComponent.Kind(), &component.SafeZone{Drone: d})
	return e
}

func pushSafeZone(w *ecs.World, zone, other ecs.Entity, phase ecs.OverlapPhase) {
	w.Events().Push(ecs.Event{Type: ecs.EventOverlap, Entity: zone, Data: ecs.OverlapEvent{
		Phase: phase, Trigger: zone, Volume: component.VolumeSafeZone, Other: other,
	}})
}

func TestSafeZoneEndsChase(t *testing.T) {
	w := ecs.NewWorld()
	drones := newDroneSystem()
	s := NewSafeZoneSystem(drones)

	d := spawnDrone(t, w, cp.Vector{})
	p := spawnPlayer(t, w, cp.Vector{X: 100})
	zone := spawnSafeZone(t, w, d)
	drones.StartChasing(w, d, p)
	require.Equal(t, component.DroneChasing, drone(t, w, d).State)

	pushSafeZone(w, zone, p, ecs.OverlapBegin)
	s.Update(w)

	dc := drone(t, w, d)
	assert.Equal(t, component.DroneReturning, dc.State)
	assert.True(t, dc.SafeZone)
	assert.False(t, dc.Detected.Valid())

	evts := eventsOfType(w, component.EventSafeZone)
	require.Len(t, evts, 1)
	assert.Equal(t, component.SafeZoneChange{Drone: d, Player: p, Entered: true}, evts[0].Data)

	w.Events().Drain()
	pushSafeZone(w, zone, p, ecs.OverlapEnd)
	s.Update(w)
	assert.False(t, drone(t, w, d).SafeZone)
	assert.Equal(t, component.DroneReturning, drone(t, w, d).State)
}

func TestSafeZoneWhileCarryingOnlyRaisesFlag(t *testing.T) {
	w := ecs.NewWorld()
	drones := newDroneSystem()
	s := NewSafeZoneSystem(drones)

	d := spawnDrone(t, w, cp.Vector{})
	p := spawnPlayer(t, w, cp.Vector{X: 50})
	zone := spawnSafeZone(t, w, d)
	drones.StartChasing(w, d, p)
	require.True(t, drones.GrabPlayer(w, d, p))

	s.Enter(w, zone, p)
	dc := drone(t, w, d)
	assert.Equal(t, component.DroneCarrying, dc.State)
	assert.True(t, dc.SafeZone)
	assert.Equal(t, p, dc.Carried)
}

func TestSafeZoneIgnoresNonPlayers(t *testing.T) {
	w := ecs.NewWorld()
	drones := newDroneSystem()
	s := NewSafeZoneSystem(drones)

	d := spawnDrone(t, w, cp.Vector{})
	p := spawnPlayer(t, w, cp.Vector{X: 100})
	zone := spawnSafeZone(t, w, d)
	drones.StartChasing(w, d, p)

	pushSafeZone(w, zone, w.CreateEntity(), ecs.OverlapBegin)
	s.Update(w)
	assert.Equal(t, component.DroneChasing, drone(t, w, d).State)
	assert.Empty(t, eventsOfType(w, component.EventSafeZone))
}

func TestSafeZoneWithoutDroneIsInert(t *testing.T) {
	w := ecs.NewWorld()
	s := NewSafeZoneSystem(newDroneSystem())
	p := spawnPlayer(t, w, cp.Vector{})
	zone := spawnSafeZone(t, w, 0)

	assert.NotPanics(t, func() {
		s.Enter(w, zone, p)
		s.Exit(w, zone, p)
	})
	assert.Empty(t, eventsOfType(w, component.EventSafeZone))
}
