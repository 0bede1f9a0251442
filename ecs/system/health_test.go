package system

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnRespawnPoint(t *testing.T, w *ecs.World, id string, pos cp.Vector) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	add(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y})
	add(t, w, e, component.RespawnPointComponent.Kind(), &component.RespawnPoint{ID: id})
	return e
}

func respawnRequests(w *ecs.World) []*component.RespawnRequest {
	var out []*component.RespawnRequest
	ecs.ForEach(w, component.RespawnRequestComponent.Kind(), func(e ecs.Entity, r *component.RespawnRequest) {
		out = append(out, r)
	})
	return out
}

func TestApplyDamageClampsAtZero(t *testing.T) {
	w := ecs.NewWorld()
	p := spawnPlayer(t, w, cp.Vector{})
	player(t, w, p).DeathDelay = 1

	assert.Equal(t, 70, ApplyDamage(w, p, 30, 0))
	assert.Equal(t, 70, ApplyDamage(w, p, 0, 0), "non-positive damage is ignored")
	assert.Equal(t, 0, ApplyDamage(w, p, 500, 0))

	pc := player(t, w, p)
	assert.True(t, pc.Dead)
	assert.False(t, pc.InputEnabled)
	assert.Equal(t, 0, ApplyDamage(w, p, 10, 0), "dead players take no more damage")

	dmg := eventsOfType(w, component.EventPlayerDamaged)
	require.Len(t, dmg, 2)
	assert.Equal(t, component.PlayerDamage{Amount: 500, Health: 0}, dmg[1].Data)
	assert.Len(t, eventsOfType(w, component.EventPlayerDeath), 1)
}

func TestDeathDestroysAfterDelay(t *testing.T) {
	w := ecs.NewWorld()
	p := spawnPlayer(t, w, cp.Vector{})
	pc := player(t, w, p)
	pc.DeathDelay = 0.5
	pc.Home = cp.Vector{X: 10, Y: 20}

	deaths := 0
	pc.OnDeath.Add(func(w *ecs.World, e ecs.Entity) { deaths++ })

	ApplyDamage(w, p, component.MaxPlayerHealth, 0)
	assert.Equal(t, 1, deaths)
	assert.True(t, w.IsAlive(p))
	assert.Empty(t, respawnRequests(w))

	w.Update(0.25)
	assert.True(t, w.IsAlive(p))
	w.Update(0.25)
	assert.False(t, w.IsAlive(p))

	reqs := respawnRequests(w)
	require.Len(t, reqs, 1)
	assert.Equal(t, p, reqs[0].Previous)
	assert.Equal(t, cp.Vector{X: 10, Y: 20}, reqs[0].Home)
}

func TestDeathReleasesCarryingDrone(t *testing.T) {
	w := ecs.NewWorld()
	drones := newDroneSystem()
	d := spawnDrone(t, w, cp.Vector{})
	p := spawnPlayer(t, w, cp.Vector{X: 50})
	drones.StartChasing(w, d, p)
	require.True(t, drones.GrabPlayer(w, d, p))

	ApplyDamage(w, p, component.MaxPlayerHealth, 0)
	assert.False(t, w.IsAlive(p))
	assert.False(t, drone(t, w, d).Carried.Valid())

	drones.Update(w)
	assert.Equal(t, component.DroneReturning, drone(t, w, d).State)
}

func TestTouchRespawnPointIDRule(t *testing.T) {
	w := ecs.NewWorld()
	p := spawnPlayer(t, w, cp.Vector{})
	first := spawnRespawnPoint(t, w, "cp1", cp.Vector{X: 100})
	twin := spawnRespawnPoint(t, w, "cp1", cp.Vector{X: 150})
	second := spawnRespawnPoint(t, w, "cp2", cp.Vector{X: 300})

	assert.True(t, TouchRespawnPoint(w, p, first))
	assert.False(t, TouchRespawnPoint(w, p, twin), "same id keeps the first point")
	assert.Equal(t, first, player(t, w, p).RespawnPoint)

	assert.True(t, TouchRespawnPoint(w, p, second))
	assert.Equal(t, "cp2", player(t, w, p).RespawnID)
	assert.Len(t, eventsOfType(w, component.EventRespawnPointChanged), 2)

	assert.False(t, TouchRespawnPoint(w, p, w.CreateEntity()))
}

func TestRespawnAtTouchedPoint(t *testing.T) {
	w := ecs.NewWorld()
	var spawnedAt []cp.Vector
	s := NewRespawnSystem(func(w *ecs.World, at cp.Vector) (ecs.Entity, error) {
		spawnedAt = append(spawnedAt, at)
		return spawnPlayer(t, w, cp.Vector{}), nil
	}, zerolog.Nop())

	p := spawnPlayer(t, w, cp.Vector{})
	point := spawnRespawnPoint(t, w, "cp1", cp.Vector{X: 100, Y: -40})
	w.Events().Push(ecs.Event{Type: ecs.EventOverlap, Entity: point, Data: ecs.OverlapEvent{
		Phase: ecs.OverlapBegin, Trigger: point, Volume: component.VolumeRespawn, Other: p,
	}})
	s.Update(w)
	require.Equal(t, point, player(t, w, p).RespawnPoint)

	ApplyDamage(w, p, component.MaxPlayerHealth, 0)
	w.Events().Drain()
	s.Update(w)

	require.Equal(t, []cp.Vector{{X: 100, Y: -40}}, spawnedAt)
	assert.Empty(t, respawnRequests(w))

	evts := eventsOfType(w, component.EventPlayerRespawned)
	require.Len(t, evts, 1)
	next := evts[0].Entity
	assert.Equal(t, cp.Vector{X: 100, Y: -40}, position(t, w, next))
	assert.Equal(t, "cp1", player(t, w, next).RespawnID)
	assert.Equal(t, component.PlayerRespawn{Previous: p, Point: point}, evts[0].Data)
}

func TestRespawnFallsBackToHome(t *testing.T) {
	w := ecs.NewWorld()
	s := NewRespawnSystem(func(w *ecs.World, at cp.Vector) (ecs.Entity, error) {
		return spawnPlayer(t, w, at), nil
	}, zerolog.Nop())

	p := spawnPlayer(t, w, cp.Vector{X: 999})
	player(t, w, p).Home = cp.Vector{X: -50}
	ApplyDamage(w, p, component.MaxPlayerHealth, 0)
	s.Update(w)

	evts := eventsOfType(w, component.EventPlayerRespawned)
	require.Len(t, evts, 1)
	assert.Equal(t, cp.Vector{X: -50}, position(t, w, evts[0].Entity))
	assert.Equal(t, cp.Vector{X: -50}, player(t, w, evts[0].Entity).Home)
}

func TestRespawnSpawnerFailureDropsRequest(t *testing.T) {
	w := ecs.NewWorld()
	s := NewRespawnSystem(func(w *ecs.World, at cp.Vector) (ecs.Entity, error) {
		return 0, errors.New("no prefab")
	}, zerolog.Nop())

	p := spawnPlayer(t, w, cp.Vector{})
	ApplyDamage(w, p, component.MaxPlayerHealth, 0)
	s.Update(w)

	assert.Empty(t, respawnRequests(w))
	assert.Empty(t, eventsOfType(w, component.EventPlayerRespawned))
}

func TestHazardDamagesOncePerEntry(t *testing.T) {
	w := ecs.NewWorld()
	s := NewHazardSystem()
	hz := w.CreateEntity()
	add(t, w, hz, component.HazardComponent.Kind(), &component.Hazard{Damage: 25})
	p := spawnPlayer(t, w, cp.Vector{})
	crate := w.CreateEntity()

	push := func(phase ecs.OverlapPhase, other ecs.Entity) {
		w.Events().Push(ecs.Event{Type: ecs.EventOverlap, Entity: hz, Data: ecs.OverlapEvent{
			Phase: phase, Trigger: hz, Volume: component.VolumeHazard, Other: other,
		}})
	}
	push(ecs.OverlapBegin, p)
	push(ecs.OverlapBegin, crate)
	s.Update(w)
	assert.Equal(t, 75, player(t, w, p).Health)

	w.Events().Drain()
	push(ecs.OverlapEnd, p)
	s.Update(w)
	assert.Equal(t, 75, player(t, w, p).Health)

	w.Events().Drain()
	push(ecs.OverlapBegin, p)
	s.Update(w)
	assert.Equal(t, 50, player(t, w, p).Health)
}
