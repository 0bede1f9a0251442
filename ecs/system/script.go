package system

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/milk9111/levelupjam/prefabs"
	"github.com/rs/zerolog"
)

// Hook names a script may define in its top level `hooks` map.
const (
	HookActivated    = "on_activated"
	HookDeactivated  = "on_deactivated"
	HookInteracted   = "on_interacted"
	HookDeath        = "on_death"
	HookStateChanged = "on_state_changed"
)

var hookForEvent = map[string]string{
	component.EventObstacleActivated:   HookActivated,
	component.EventObstacleDeactivated: HookDeactivated,
	component.EventObstacleInteracted:  HookInteracted,
	component.EventPlayerDeath:         HookDeath,
	component.EventDroneStateChanged:   HookStateChanged,
}

const hookDispatchScript = `
__h := hooks[__hook]
if is_callable(__h) {
	__h(__engine, __self)
}
`

// maxScriptEvents bounds how many events hooks may add to one frame, so
// scripts that activate each other in a cycle cannot stall it.
const maxScriptEvents = 1024

// ScriptLoader returns the source of a script path.
type ScriptLoader func(path string) ([]byte, error)

type scriptRuntime struct {
	path     string
	compiled *tengo.Compiled
	memory   *tengo.Map
}

// ScriptSystem forwards gameplay events to tengo hooks. Scripts are compiled
// once per entity and recompiled after Reload.
type ScriptSystem struct {
	load   ScriptLoader
	drones *DroneSystem
	cache  map[ecs.Entity]*scriptRuntime
	failed map[ecs.Entity]string
	log    zerolog.Logger
}

func NewScriptSystem(load ScriptLoader, drones *DroneSystem, log zerolog.Logger) *ScriptSystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	return &ScriptSystem{
		load:   load,
		drones: drones,
		cache:  map[ecs.Entity]*scriptRuntime{},
		failed: map[ecs.Entity]string{},
		log:    log.With().Str("system", "script").Logger(),
	}
}

// Reload drops compiled scripts whose path matches, or every script when
// path is empty.
func (s *ScriptSystem) Reload(path string) {
	if s == nil {
		return
	}
	base := filepath.Base(filepath.ToSlash(path))
	for e, rt := range s.cache {
		if path == "" || filepath.Base(rt.path) == base {
			delete(s.cache, e)
		}
	}
	for e := range s.failed {
		delete(s.failed, e)
	}
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for e := range s.cache {
		if !w.IsAlive(e) {
			delete(s.cache, e)
		}
	}

	scripted := w.Query(component.ScriptComponent.Kind())
	if len(scripted) == 0 {
		return
	}

	var globals []ecs.Entity
	for _, e := range scripted {
		if sc, _ := ecs.Get(w, e, component.ScriptComponent.Kind()); sc != nil && sc.Global {
			globals = append(globals, e)
		}
	}

	// Hooks may push events of their own (engine.activate). The queue is
	// re-read each step so those chain within the frame, up to a limit.
	limit := len(w.Events().Items()) + maxScriptEvents
	for i := 0; ; i++ {
		items := w.Events().Items()
		if i >= len(items) {
			break
		}
		if i >= limit {
			s.log.Warn().Int("events", len(items)).Msg("script event chain cut off")
			break
		}
		evt := items[i]
		hook, ok := hookForEvent[evt.Type]
		if !ok {
			continue
		}
		if sc, ok := ecs.Get(w, evt.Entity, component.ScriptComponent.Kind()); ok && !sc.Global {
			s.Dispatch(w, evt.Entity, hook, evt)
		}
		for _, g := range globals {
			s.Dispatch(w, g, hook, evt)
		}
	}
}

// Dispatch runs one hook of owner's script for evt. Errors are logged and
// the hook is skipped.
func (s *ScriptSystem) Dispatch(w *ecs.World, owner ecs.Entity, hook string, evt ecs.Event) {
	rt, err := s.runtime(w, owner)
	if err != nil {
		sc, _ := ecs.Get(w, owner, component.ScriptComponent.Kind())
		path := ""
		if sc != nil {
			path = sc.Path
		}
		if s.failed[owner] != path {
			s.failed[owner] = path
			s.log.Error().Err(err).Stringer("entity", owner).Str("script", path).Msg("load script")
		}
		return
	}

	subject := evt.Entity
	if err := rt.run(hook, s.engine(w, owner, subject), s.self(w, subject, hook, evt, rt)); err != nil {
		s.log.Error().Err(err).Stringer("entity", owner).Str("hook", hook).Msg("script hook failed")
	}
}

func (s *ScriptSystem) runtime(w *ecs.World, e ecs.Entity) (*scriptRuntime, error) {
	sc, ok := ecs.Get(w, e, component.ScriptComponent.Kind())
	if !ok || strings.TrimSpace(sc.Path) == "" {
		return nil, fmt.Errorf("script: entity %s has no script path", e)
	}
	if rt, ok := s.cache[e]; ok && rt.path == sc.Path {
		return rt, nil
	}
	if s.failed[e] == sc.Path {
		return nil, fmt.Errorf("script: %s failed to compile", sc.Path)
	}

	src, err := s.load(sc.Path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", sc.Path, err)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + hookDispatchScript))
	_ = script.Add("__hook", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__self", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", sc.Path, err)
	}

	rt := &scriptRuntime{
		path:     sc.Path,
		compiled: compiled,
		memory:   &tengo.Map{Value: map[string]tengo.Object{}},
	}
	s.cache[e] = rt
	delete(s.failed, e)
	return rt, nil
}

func (rt *scriptRuntime) run(hook string, engine, self *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__hook", hook); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__self", self); err != nil {
		return err
	}
	// RunContext recovers VM panics (division by zero, bad index) as errors.
	return rt.compiled.RunContext(context.Background())
}

func (s *ScriptSystem) self(w *ecs.World, e ecs.Entity, hook string, evt ecs.Event, rt *scriptRuntime) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"id":     &tengo.String{Value: e.String()},
		"name":   &tengo.String{Value: entityName(w, e)},
		"hook":   &tengo.String{Value: hook},
		"memory": rt.memory,
	}
	if pos, ok := entityPosition(w, e); ok {
		values["x"] = &tengo.Float{Value: pos.X}
		values["y"] = &tengo.Float{Value: pos.Y}
	}
	if change, ok := evt.Data.(component.DroneStateChange); ok {
		values["from"] = &tengo.String{Value: change.From.String()}
		values["to"] = &tengo.String{Value: change.To.String()}
	}
	return &tengo.ImmutableMap{Value: values}
}

func (s *ScriptSystem) engine(w *ecs.World, owner, subject ecs.Entity) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	resolve := func(args []tengo.Object) (ecs.Entity, bool) {
		if len(args) == 0 {
			return subject, w.IsAlive(subject)
		}
		return FindByName(w, strings.TrimSpace(objectAsString(args[0])))
	}
	boolObject := func(v bool) tengo.Object {
		if v {
			return tengo.TrueValue
		}
		return tengo.FalseValue
	}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		s.log.Info().Stringer("entity", owner).Msg(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	values["activate"] = &tengo.UserFunction{Name: "activate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := resolve(args)
		if !ok || !ecs.Has(w, e, component.ObstacleComponent.Kind()) {
			return tengo.FalseValue, nil
		}
		ActivateObstacle(w, e)
		return tengo.TrueValue, nil
	}}

	values["deactivate"] = &tengo.UserFunction{Name: "deactivate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := resolve(args)
		if !ok || !ecs.Has(w, e, component.ObstacleComponent.Kind()) {
			return tengo.FalseValue, nil
		}
		DeactivateObstacle(w, e)
		return tengo.TrueValue, nil
	}}

	values["interact"] = &tengo.UserFunction{Name: "interact", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := resolve(args)
		if !ok || !ecs.Has(w, e, component.ObstacleComponent.Kind()) {
			return tengo.FalseValue, nil
		}
		InteractObstacle(w, e)
		return tengo.TrueValue, nil
	}}

	values["damage"] = &tengo.UserFunction{Name: "damage", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.UndefinedValue, nil
		}
		e, ok := resolve(args[:1])
		if !ok || !ecs.Has(w, e, component.PlayerComponent.Kind()) {
			return tengo.UndefinedValue, nil
		}
		amount, ok := tengo.ToInt(args[1])
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Int{Value: int64(ApplyDamage(w, e, amount, owner))}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := resolve(args)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		pos, ok := entityPosition(w, e)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: pos.X}, &tengo.Float{Value: pos.Y}}}, nil
	}}

	values["state"] = &tengo.UserFunction{Name: "state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := resolve(args)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		if st, ok := CurrentState(w, e); ok {
			return &tengo.String{Value: st.String()}, nil
		}
		if obs, ok := ecs.Get(w, e, component.ObstacleComponent.Kind()); ok {
			return &tengo.String{Value: obs.State.String()}, nil
		}
		return tengo.UndefinedValue, nil
	}}

	values["force_end_chase"] = &tengo.UserFunction{Name: "force_end_chase", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := resolve(args)
		if !ok || s.drones == nil || !ecs.Has(w, e, component.DroneComponent.Kind()) {
			return tengo.FalseValue, nil
		}
		s.drones.ForceEndChase(w, e)
		return tengo.TrueValue, nil
	}}

	values["alive"] = &tengo.UserFunction{Name: "alive", Value: func(args ...tengo.Object) (tengo.Object, error) {
		_, ok := resolve(args)
		return boolObject(ok), nil
	}}

	values["elapsed"] = &tengo.UserFunction{Name: "elapsed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: w.Elapsed()}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
