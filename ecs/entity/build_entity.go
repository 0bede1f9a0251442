package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/milk9111/levelupjam/ecs/system"
	"github.com/milk9111/levelupjam/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"transform":         addTransform,
	"physics_body":      addPhysicsBody,
	"triggers":          addTriggers,
	"mover":             addMover,
	"obstacle":          addObstacle,
	"launcher":          addLauncher,
	"drone":             addDrone,
	"floating_movement": addFloatingMovement,
	"player":            addPlayer,
	"input":             addInput,
	"autopilot":         addAutopilot,
	"respawn_point":     addRespawnPoint,
	"safe_zone":         addSafeZone,
	"hazard":            addHazard,
	"script":            addScript,
	"audio":             addAudio,
	"target_point":      addTargetPoint,
	"wall":              addWall,
	"crate":             addCrate,
}

// Builders that read another component run after it: obstacle after mover
// (auto loop speed), drone after triggers (sensing volumes).
var componentBuildOrder = []string{
	"transform",
	"physics_body",
	"triggers",
	"mover",
	"obstacle",
	"launcher",
	"drone",
	"floating_movement",
	"player",
	"input",
	"autopilot",
	"respawn_point",
	"safe_zone",
	"hazard",
	"script",
	"audio",
	"target_point",
	"wall",
	"crate",
}

// BuildEntity creates an entity from a prefab. overrides are merged over
// the prefab's component settings before anything is built.
func BuildEntity(w *ecs.World, prefabPath string, overrides map[string]any) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return buildFromSpec(w, prefabPath, spec, overrides)
}

func buildFromSpec(w *ecs.World, prefabPath string, spec entityPrefabSpec, overrides map[string]any) (ecs.Entity, error) {
	components := prefabs.MergeComponents(spec.Components, overrides)
	if len(components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	for name := range components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(components))
	for k, v := range components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	names := make([]string, 0, len(remaining))
	for name := range remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := componentRegistry[name](w, e, remaining[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	if spec.Name != "" {
		_ = ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name})
	}
	_ = ecs.Add(w, e, component.PrefabComponent.Kind(), &component.Prefab{Name: prefabPath})

	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

// SetEntityName replaces the entity's name.
func SetEntityName(w *ecs.World, e ecs.Entity, name string) error {
	return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name})
}

func vector(v prefabs.VectorSpec) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		Rotation: spec.Rotation,
	})
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}

	bodyType := component.BodyType(strings.ToLower(spec.Type))
	switch bodyType {
	case "":
		bodyType = component.BodyDynamic
	case component.BodyDynamic, component.BodyKinematic, component.BodyStatic:
	default:
		return fmt.Errorf("unknown body type %q", spec.Type)
	}
	if spec.Radius <= 0 {
		if spec.Width <= 0 {
			spec.Width = 32
		}
		if spec.Height <= 0 {
			spec.Height = 32
		}
	}
	if bodyType == component.BodyDynamic && spec.Mass == 0 {
		spec.Mass = 1
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Type:          bodyType,
		Width:         spec.Width,
		Height:        spec.Height,
		Radius:        spec.Radius,
		Mass:          spec.Mass,
		Friction:      spec.Friction,
		Elasticity:    spec.Elasticity,
		FixedRotation: spec.FixedRotation,
		IgnoreGravity: spec.IgnoreGravity,
	})
}

type triggersSpec = prefabs.TriggersComponentSpec

func addTriggers(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[triggersSpec](raw)
	if err != nil {
		return fmt.Errorf("decode triggers spec: %w", err)
	}

	volumes := make([]component.TriggerVolume, 0, len(spec.Volumes))
	seen := make(map[string]bool, len(spec.Volumes))
	for i, v := range spec.Volumes {
		if v.Name == "" {
			return fmt.Errorf("volume %d has no name", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("duplicate volume %q", v.Name)
		}
		seen[v.Name] = true

		shape := component.VolumeShape(strings.ToLower(v.Shape))
		switch shape {
		case "":
			shape = component.VolumeBox
		case component.VolumeBox, component.VolumeSphere:
		default:
			return fmt.Errorf("volume %q: unknown shape %q", v.Name, v.Shape)
		}
		volumes = append(volumes, component.TriggerVolume{
			Name:     v.Name,
			Shape:    shape,
			Width:    v.Width,
			Height:   v.Height,
			Radius:   v.Radius,
			OffsetX:  v.OffsetX,
			OffsetY:  v.OffsetY,
			Disabled: v.Disabled,
		})
	}
	return ecs.Add(w, e, component.TriggersComponent.Kind(), &component.Triggers{Volumes: volumes})
}

type moverSpec = prefabs.MoverComponentSpec

func addMover(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[moverSpec](raw)
	if err != nil {
		return fmt.Errorf("decode mover spec: %w", err)
	}
	if spec.Speed <= 0 {
		spec.Speed = 5
	}
	return ecs.Add(w, e, component.MoverComponent.Kind(), &component.Mover{
		Direction: vector(spec.Direction),
		Amount:    spec.Amount,
		Speed:     spec.Speed,
	})
}

type obstacleSpec = prefabs.ObstacleComponentSpec

func addObstacle(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[obstacleSpec](raw)
	if err != nil {
		return fmt.Errorf("decode obstacle spec: %w", err)
	}

	obs := &component.Obstacle{
		ActivateOnPlayerProximity:  spec.ActivateOnPlayerProximity,
		ActivateOnObjectProximity:  spec.ActivateOnObjectProximity,
		ActivateOnStart:            spec.ActivateOnStart,
		ReactionDelay:              spec.ReactionDelay,
		AutoResetActivationDelay:   spec.AutoResetActivationDelay,
		AutoResetDeactivationDelay: spec.AutoResetDeactivationDelay,
		ProximityVolumes:           spec.ProximityVolumes,
		Effects: component.ObstacleEffects{
			Sound:          spec.Effects.Sound,
			Visual:         spec.Effects.Visual,
			PlayOnActivate: spec.Effects.PlayOnActivate,
		},
	}
	if err := ecs.Add(w, e, component.ObstacleComponent.Kind(), obs); err != nil {
		return err
	}
	if spec.AutoLoop {
		system.SetupAutoLoop(w, e)
	}
	if spec.Disabled {
		system.SetObstacleDisabled(w, e, true)
	}
	return nil
}

type launcherSpec = prefabs.LauncherComponentSpec

func addLauncher(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[launcherSpec](raw)
	if err != nil {
		return fmt.Errorf("decode launcher spec: %w", err)
	}

	dir := cp.Vector{Y: -1}
	if spec.Direction != nil {
		dir = vector(*spec.Direction)
	}
	mode := component.LaunchMode(strings.ToLower(spec.Mode))
	switch mode {
	case "":
		mode = component.LaunchImpulse
	case component.LaunchImpulse, component.LaunchForce:
	default:
		return fmt.Errorf("unknown launch mode %q", spec.Mode)
	}

	return ecs.Add(w, e, component.LauncherComponent.Kind(), &component.Launcher{
		Direction:         dir,
		Strength:          spec.Strength,
		Mode:              mode,
		Continuous:        spec.Continuous,
		MoveTowardsTarget: spec.MoveTowardsTarget,
	})
}

type droneSpec = prefabs.DroneComponentSpec

func addDrone(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[droneSpec](raw)
	if err != nil {
		return fmt.Errorf("decode drone spec: %w", err)
	}

	d := component.NewDrone()
	setIfPositive(&d.PatrolSpeed, spec.PatrolSpeed)
	setIfPositive(&d.ChaseSpeed, spec.ChaseSpeed)
	setIfPositive(&d.DetectionRadius, spec.DetectionRadius)
	setIfPositive(&d.InteractionRadius, spec.InteractionRadius)
	setIfPositive(&d.SightAngle, spec.SightAngle)
	setIfPositive(&d.ChaseSightAngle, spec.ChaseSightAngle)
	setIfPositive(&d.LosePlayerTime, spec.LosePlayerTime)
	setIfPositive(&d.DropOffHeight, spec.DropOffHeight)
	setIfPositive(&d.RotationSpeed, spec.RotationSpeed)
	if spec.PatrolWaitTime != nil {
		d.PatrolWaitTime = *spec.PatrolWaitTime
	}
	if err := ecs.Add(w, e, component.DroneComponent.Kind(), d); err != nil {
		return err
	}

	if len(spec.PatrolPoints) > 0 || spec.DropOff != "" {
		if err := ecs.Add(w, e, component.DroneRefsComponent.Kind(), &component.DroneRefs{
			PatrolPoints: spec.PatrolPoints,
			DropOff:      spec.DropOff,
		}); err != nil {
			return err
		}
	}

	return ensureSensingVolumes(w, e, d)
}

// ensureSensingVolumes sizes the drone's detection and interaction spheres
// from its radii, adding them when the prefab did not declare them.
func ensureSensingVolumes(w *ecs.World, e ecs.Entity, d *component.Drone) error {
	triggers, ok := ecs.Get(w, e, component.TriggersComponent.Kind())
	if !ok {
		triggers = &component.Triggers{}
		if err := ecs.Add(w, e, component.TriggersComponent.Kind(), triggers); err != nil {
			return err
		}
	}
	for name, radius := range map[string]float64{
		component.VolumeDetection:   d.DetectionRadius,
		component.VolumeInteraction: d.InteractionRadius,
	} {
		if v, ok := triggers.Volume(name); ok {
			v.Shape = component.VolumeSphere
			v.Radius = radius
			continue
		}
		triggers.Volumes = append(triggers.Volumes, component.TriggerVolume{
			Name:   name,
			Shape:  component.VolumeSphere,
			Radius: radius,
		})
	}
	sort.SliceStable(triggers.Volumes, func(i, j int) bool { return triggers.Volumes[i].Name < triggers.Volumes[j].Name })
	return nil
}

type floatingMovementSpec = prefabs.FloatingMovementComponentSpec

func addFloatingMovement(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[floatingMovementSpec](raw)
	if err != nil {
		return fmt.Errorf("decode floating movement spec: %w", err)
	}
	m := component.NewFloatingMovement()
	setIfPositive(&m.MaxSpeed, spec.MaxSpeed)
	setIfPositive(&m.Acceleration, spec.Acceleration)
	setIfPositive(&m.Deceleration, spec.Deceleration)
	setIfPositive(&m.TurningBoost, spec.TurningBoost)
	return ecs.Add(w, e, component.FloatingMovementComponent.Kind(), m)
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	health := spec.Health
	if health <= 0 || health > component.MaxPlayerHealth {
		health = component.MaxPlayerHealth
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed:    spec.MoveSpeed,
		JumpSpeed:    spec.JumpSpeed,
		DeathDelay:   spec.DeathDelay,
		Health:       health,
		InputEnabled: true,
	})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type autopilotSpec = prefabs.AutopilotComponentSpec

func addAutopilot(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[autopilotSpec](raw)
	if err != nil {
		return fmt.Errorf("decode autopilot spec: %w", err)
	}
	steps := make([]component.AutopilotStep, 0, len(spec.Steps))
	for _, s := range spec.Steps {
		steps = append(steps, component.AutopilotStep{At: s.At, MoveX: s.MoveX, Jump: s.Jump})
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })
	if !ecs.Has(w, e, component.InputComponent.Kind()) {
		if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
			return err
		}
	}
	return ecs.Add(w, e, component.AutopilotComponent.Kind(), &component.Autopilot{Steps: steps})
}

type respawnPointSpec = prefabs.RespawnPointComponentSpec

func addRespawnPoint(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[respawnPointSpec](raw)
	if err != nil {
		return fmt.Errorf("decode respawn point spec: %w", err)
	}
	return ecs.Add(w, e, component.RespawnPointComponent.Kind(), &component.RespawnPoint{ID: spec.ID})
}

type safeZoneSpec = prefabs.SafeZoneComponentSpec

func addSafeZone(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[safeZoneSpec](raw)
	if err != nil {
		return fmt.Errorf("decode safe zone spec: %w", err)
	}
	return ecs.Add(w, e, component.SafeZoneComponent.Kind(), &component.SafeZone{DroneName: spec.Drone})
}

type hazardSpec = prefabs.HazardComponentSpec

func addHazard(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[hazardSpec](raw)
	if err != nil {
		return fmt.Errorf("decode hazard spec: %w", err)
	}
	return ecs.Add(w, e, component.HazardComponent.Kind(), &component.Hazard{Damage: spec.Damage})
}

type scriptSpec = prefabs.ScriptComponentSpec

func addScript(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[scriptSpec](raw)
	if err != nil {
		return fmt.Errorf("decode script spec: %w", err)
	}
	if strings.TrimSpace(spec.Path) == "" {
		return fmt.Errorf("script path is empty")
	}
	return ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: spec.Path, Global: spec.Global})
}

type audioSpec = prefabs.AudioComponentSpec

func addAudio(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[audioSpec](raw)
	if err != nil {
		return fmt.Errorf("decode audio spec: %w", err)
	}
	volume := 1.0
	if spec.Volume != nil {
		volume = *spec.Volume
	}
	return ecs.Add(w, e, component.AudioComponent.Kind(), &component.Audio{Volume: volume})
}

func addTargetPoint(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.TargetPointComponent.Kind(), &component.TargetPoint{})
}

func addWall(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.WallComponent.Kind(), &component.Wall{})
}

func addCrate(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CrateComponent.Kind(), &component.Crate{})
}

func setIfPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}
