package entity

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/milk9111/levelupjam/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEveryPrefab(t *testing.T) {
	names, err := fs.Glob(prefabs.PrefabsFS, "*.yaml")
	require.NoError(t, err)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			w := ecs.NewWorld()
			e, err := BuildEntity(w, name, nil)
			require.NoError(t, err)
			assert.True(t, w.IsAlive(e))
			assert.True(t, ecs.Has(w, e, component.TransformComponent.Kind()))

			p, ok := ecs.Get(w, e, component.PrefabComponent.Kind())
			require.True(t, ok)
			assert.Equal(t, name, p.Name)

			n, ok := ecs.Get(w, e, component.NameComponent.Kind())
			require.True(t, ok)
			assert.Equal(t, strings.TrimSuffix(name, ".yaml"), n.Value)
		})
	}
}

func TestBuildEntityOverrides(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, "hazard.yaml", map[string]any{
		"transform": map[string]any{"x": 40.0, "y": 50.0},
		"hazard":    map[string]any{"damage": 7},
	})
	require.NoError(t, err)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.Equal(t, cp.Vector{X: 40, Y: 50}, tr.Position())
	hz, _ := ecs.Get(w, e, component.HazardComponent.Kind())
	assert.Equal(t, 7, hz.Damage)

	triggers, _ := ecs.Get(w, e, component.TriggersComponent.Kind())
	_, ok := triggers.Volume(component.VolumeHazard)
	assert.True(t, ok)
}

func TestBuildEntityRejectsUnknownComponent(t *testing.T) {
	w := ecs.NewWorld()
	_, err := BuildEntity(w, "wall.yaml", map[string]any{"jetpack": map[string]any{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jetpack")
	assert.Empty(t, ecs.Entities(w))
}

func TestBuildEntityDestroysOnBuilderError(t *testing.T) {
	w := ecs.NewWorld()
	_, err := BuildEntity(w, "wall.yaml", map[string]any{
		"physics_body": map[string]any{"type": "floaty"},
	})
	require.Error(t, err)
	assert.Empty(t, ecs.Entities(w))

	_, err = BuildEntity(w, "hazard.yaml", map[string]any{
		"triggers": map[string]any{"volumes": []any{
			map[string]any{"name": "hazard"},
			map[string]any{"name": "hazard"},
		}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate volume")

	_, err = BuildEntity(w, "director.yaml", map[string]any{"script": map[string]any{"path": " "}})
	assert.Error(t, err)
	assert.Empty(t, ecs.Entities(w))
}

func TestBuildEntityMissingPrefab(t *testing.T) {
	_, err := BuildEntity(ecs.NewWorld(), "unicorn.yaml", nil)
	assert.Error(t, err)

	_, err = BuildEntity(nil, "wall.yaml", nil)
	assert.Error(t, err)
}

func TestLauncherDirection(t *testing.T) {
	w := ecs.NewWorld()

	e, err := BuildEntity(w, "launcher.yaml", nil)
	require.NoError(t, err)
	l, _ := ecs.Get(w, e, component.LauncherComponent.Kind())
	assert.Equal(t, cp.Vector{Y: -1}, l.Direction)
	assert.Equal(t, component.LaunchImpulse, l.Mode)

	e, err = BuildEntity(w, "launcher.yaml", map[string]any{
		"launcher": map[string]any{"direction": map[string]any{"x": 1.0, "y": 0.0}, "mode": "FORCE"},
	})
	require.NoError(t, err)
	l, _ = ecs.Get(w, e, component.LauncherComponent.Kind())
	assert.Equal(t, cp.Vector{X: 1}, l.Direction)
	assert.Equal(t, component.LaunchForce, l.Mode)

	_, err = BuildEntity(w, "launcher.yaml", map[string]any{"launcher": map[string]any{"mode": "catapult"}})
	assert.Error(t, err)
}

func TestLauncherTriggerStartsDisabled(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, "launcher.yaml", nil)
	require.NoError(t, err)

	triggers, _ := ecs.Get(w, e, component.TriggersComponent.Kind())
	v, ok := triggers.Volume(component.VolumeTrigger)
	require.True(t, ok)
	assert.True(t, v.Disabled)
	assert.Equal(t, component.VolumeSphere, v.Shape)
}

func TestMovingPlatformLoops(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, "moving_platform.yaml", nil)
	require.NoError(t, err)

	obs, _ := ecs.Get(w, e, component.ObstacleComponent.Kind())
	assert.True(t, obs.ActivateOnStart)
	assert.Equal(t, 1.0, obs.AutoResetActivationDelay)
	assert.Equal(t, 1.0, obs.AutoResetDeactivationDelay)
	mover, _ := ecs.Get(w, e, component.MoverComponent.Kind())
	assert.Equal(t, 5.0, mover.Speed)
}

func TestDisabledObstacle(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, "obstacle.yaml", map[string]any{"obstacle": map[string]any{"disabled": true}})
	require.NoError(t, err)

	obs, _ := ecs.Get(w, e, component.ObstacleComponent.Kind())
	assert.True(t, obs.Disabled)
	assert.Equal(t, component.ObstacleDisabled, obs.State)
	assert.True(t, obs.ActivateOnPlayerProximity)
}

func TestDroneSensingVolumesFollowRadii(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, "drone.yaml", map[string]any{
		"drone": map[string]any{"detection_radius": 500.0, "patrol_wait_time": 0},
	})
	require.NoError(t, err)

	d, _ := ecs.Get(w, e, component.DroneComponent.Kind())
	assert.Equal(t, 500.0, d.DetectionRadius)
	assert.Equal(t, 150.0, d.InteractionRadius)
	assert.Zero(t, d.PatrolWaitTime)
	assert.Equal(t, 200.0, d.PatrolSpeed)

	triggers, _ := ecs.Get(w, e, component.TriggersComponent.Kind())
	det, ok := triggers.Volume(component.VolumeDetection)
	require.True(t, ok)
	assert.Equal(t, component.VolumeSphere, det.Shape)
	assert.Equal(t, 500.0, det.Radius)
	in, ok := triggers.Volume(component.VolumeInteraction)
	require.True(t, ok)
	assert.Equal(t, 150.0, in.Radius)

	assert.False(t, ecs.Has(w, e, component.DroneRefsComponent.Kind()))
	assert.True(t, ecs.Has(w, e, component.FloatingMovementComponent.Kind()))
}

func TestDroneResizesDeclaredVolume(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, "drone.yaml", map[string]any{
		"triggers": map[string]any{"volumes": []any{
			map[string]any{"name": "detection", "shape": "box", "width": 10, "height": 10},
		}},
	})
	require.NoError(t, err)

	triggers, _ := ecs.Get(w, e, component.TriggersComponent.Kind())
	assert.Len(t, triggers.Volumes, 2)
	det, _ := triggers.Volume(component.VolumeDetection)
	assert.Equal(t, component.VolumeSphere, det.Shape)
	assert.Equal(t, 800.0, det.Radius)
}

func TestPlayerPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayerAt(w, 10, 20)
	require.NoError(t, err)

	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, component.MaxPlayerHealth, p.Health)
	assert.True(t, p.InputEnabled)
	assert.Equal(t, cp.Vector{X: 10, Y: 20}, p.Home)
	assert.True(t, ecs.Has(w, e, component.InputComponent.Kind()))

	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	assert.Equal(t, component.BodyDynamic, body.Type)
	assert.True(t, body.FixedRotation)
}

func TestPlayerHealthClamped(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, PlayerPrefab, map[string]any{"player": map[string]any{"health": 500}})
	require.NoError(t, err)
	p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
	assert.Equal(t, component.MaxPlayerHealth, p.Health)
}

func TestAutopilotStepsSorted(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, "crate.yaml", map[string]any{
		"autopilot": map[string]any{"steps": []any{
			map[string]any{"at": 2.0, "move_x": -1.0},
			map[string]any{"at": 0.5, "jump": true},
		}},
	})
	require.NoError(t, err)

	ap, _ := ecs.Get(w, e, component.AutopilotComponent.Kind())
	require.Len(t, ap.Steps, 2)
	assert.Equal(t, 0.5, ap.Steps[0].At)
	assert.True(t, ap.Steps[0].Jump)
	assert.Equal(t, -1.0, ap.Steps[1].MoveX)
	assert.True(t, ecs.Has(w, e, component.InputComponent.Kind()))
}

func TestSpawnPlayerMatchesRespawnFactory(t *testing.T) {
	w := ecs.NewWorld()
	e, err := SpawnPlayer(w, cp.Vector{X: 3, Y: 4})
	require.NoError(t, err)
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.Equal(t, cp.Vector{X: 3, Y: 4}, tr.Position())
}

func TestSetEntityTransformWithoutTransform(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	require.NoError(t, SetEntityTransform(w, e, 1, 2, 0.5))
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 0.5, tr.Rotation)
}
