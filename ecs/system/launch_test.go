package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type launchWorld struct {
	w       *ecs.World
	physics *PhysicsSystem
	launch  *LaunchSystem
}

func newLaunchWorld() *launchWorld {
	return &launchWorld{
		w:       ecs.NewWorld(),
		physics: NewPhysicsSystem(zerolog.Nop()),
		launch:  NewLaunchSystem(zerolog.Nop()),
	}
}

func (lw *launchWorld) launcher(t *testing.T, l *component.Launcher) ecs.Entity {
	t.Helper()
	e := lw.w.CreateEntity()
	add(t, lw.w, e, component.TransformComponent.Kind(), &component.Transform{})
	add(t, lw.w, e, component.LauncherComponent.Kind(), l)
	return e
}

func (lw *launchWorld) crate(t *testing.T, mass float64) ecs.Entity {
	t.Helper()
	e := lw.w.CreateEntity()
	add(t, lw.w, e, component.TransformComponent.Kind(), &component.Transform{X: 0, Y: -50})
	add(t, lw.w, e, component.CrateComponent.Kind(), &component.Crate{})
	add(t, lw.w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Type:          component.BodyDynamic,
		Width:         20,
		Height:        20,
		Mass:          mass,
		FixedRotation: true,
		IgnoreGravity: true,
	})
	return e
}

// settle creates bodies without moving anything.
func (lw *launchWorld) settle() {
	lw.w.Update(0)
	lw.physics.Update(lw.w)
}

func (lw *launchWorld) overlap(launcher, other ecs.Entity, phase ecs.OverlapPhase, volume string) {
	lw.w.Events().Push(ecs.Event{Type: ecs.EventOverlap, Entity: launcher, Data: ecs.OverlapEvent{
		Phase: phase, Trigger: launcher, Volume: volume, Other: other,
	}})
}

func body(t *testing.T, w *ecs.World, e ecs.Entity) *component.PhysicsBody {
	t.Helper()
	b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	require.True(t, ok)
	require.NotNil(t, b.Body)
	return b
}

func TestLaunchImpulseIsMassIndependent(t *testing.T) {
	for _, mass := range []float64{1, 4} {
		lw := newLaunchWorld()
		l := lw.launcher(t, &component.Launcher{Direction: cp.Vector{Y: -1}, Strength: 500, Mode: component.LaunchImpulse})
		c := lw.crate(t, mass)
		lw.settle()

		lw.overlap(l, c, ecs.OverlapBegin, component.VolumeCollider)
		lw.launch.Update(lw.w)

		v := body(t, lw.w, c).Body.Velocity()
		assert.InDelta(t, 0, v.X, 1e-9)
		assert.InDelta(t, -500, v.Y, 1e-9, "mass %v", mass)
		evts := eventsOfType(lw.w, component.EventLaunch)
		require.Len(t, evts, 1)
		assert.Equal(t, component.LaunchImpulse, evts[0].Data.(component.LaunchApplied).Mode)
	}
}

func TestLaunchForceAccumulatesForce(t *testing.T) {
	lw := newLaunchWorld()
	l := lw.launcher(t, &component.Launcher{Direction: cp.Vector{X: 1}, Strength: 300, Mode: component.LaunchForce})
	c := lw.crate(t, 2)
	lw.settle()

	lw.overlap(l, c, ecs.OverlapBegin, component.VolumeCollider)
	lw.launch.Update(lw.w)

	b := body(t, lw.w, c)
	assert.InDelta(t, 600, b.Body.Force().X, 1e-9)
	assert.InDelta(t, 0, b.Body.Velocity().X, 1e-9)
}

func TestContinuousLaunchAppliesEveryFrameUntilExit(t *testing.T) {
	lw := newLaunchWorld()
	l := lw.launcher(t, &component.Launcher{Direction: cp.Vector{Y: -1}, Strength: 100, Continuous: true})
	c := lw.crate(t, 1)
	lw.settle()

	lw.overlap(l, c, ecs.OverlapBegin, component.VolumeCollider)
	lw.launch.Update(lw.w)
	lw.w.Events().Drain()
	lw.launch.Update(lw.w)
	lw.launch.Update(lw.w)

	assert.InDelta(t, -300, body(t, lw.w, c).Body.Velocity().Y, 1e-9)
	lc, _ := ecs.Get(lw.w, l, component.LauncherComponent.Kind())
	assert.Equal(t, []ecs.Entity{c}, lc.Overlapping)

	lw.w.Events().Drain()
	lw.overlap(l, c, ecs.OverlapEnd, component.VolumeCollider)
	lw.launch.Update(lw.w)
	assert.Empty(t, lc.Overlapping)
	assert.InDelta(t, -300, body(t, lw.w, c).Body.Velocity().Y, 1e-9)
}

func TestLaunchCharacterKicksVelocity(t *testing.T) {
	lw := newLaunchWorld()
	l := lw.launcher(t, &component.Launcher{Direction: cp.Vector{Y: -1}, Strength: 700})
	p := spawnPlayer(t, lw.w, cp.Vector{X: 0, Y: -40})
	add(t, lw.w, p, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Type: component.BodyDynamic, Width: 30, Height: 30, Mass: 10, FixedRotation: true, IgnoreGravity: true,
	})
	lw.settle()

	lw.overlap(l, p, ecs.OverlapBegin, component.VolumeCollider)
	lw.launch.Update(lw.w)

	assert.InDelta(t, -700, body(t, lw.w, p).Body.Velocity().Y, 1e-9)
}

func TestLaunchSkipsNonSimulatedEntities(t *testing.T) {
	lw := newLaunchWorld()
	l := lw.launcher(t, &component.Launcher{Direction: cp.Vector{Y: -1}, Strength: 700})
	static := lw.w.CreateEntity()
	lw.settle()

	lw.overlap(l, static, ecs.OverlapBegin, component.VolumeCollider)
	lw.launch.Update(lw.w)
	assert.Empty(t, eventsOfType(lw.w, component.EventLaunch))
}

func TestLaunchDirectionFallsBackToMover(t *testing.T) {
	lw := newLaunchWorld()
	l := lw.launcher(t, &component.Launcher{Strength: 10})
	add(t, lw.w, l, component.MoverComponent.Kind(), &component.Mover{Direction: cp.Vector{X: 1}, Amount: 50})

	lw.launch.Update(lw.w)
	lc, _ := ecs.Get(lw.w, l, component.LauncherComponent.Kind())
	assert.Equal(t, cp.Vector{X: 1}, lc.Direction)
}

func TestLaunchAimsAtTriggeringTarget(t *testing.T) {
	lw := newLaunchWorld()
	l := lw.launcher(t, &component.Launcher{Strength: 10, MoveTowardsTarget: true, Direction: cp.Vector{Y: -1}})
	add(t, lw.w, l, component.MoverComponent.Kind(), &component.Mover{Direction: cp.Vector{Y: -1}, Amount: 50})
	target := spawnPoint(t, lw.w, "target", cp.Vector{X: -100})

	lw.overlap(l, target, ecs.OverlapBegin, component.VolumeTrigger)
	lw.launch.Update(lw.w)

	lc, _ := ecs.Get(lw.w, l, component.LauncherComponent.Kind())
	assert.Equal(t, cp.Vector{X: -1}, lc.Direction)
}
