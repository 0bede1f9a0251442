package entity

import (
	"fmt"
	"strings"

	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/milk9111/levelupjam/levels"
	"github.com/milk9111/levelupjam/prefabs"
)

// LoadedLevel indexes what a level put into the world.
type LoadedLevel struct {
	Name     string
	Entities []ecs.Entity
	Named    map[string]ecs.Entity
	Player   ecs.Entity
}

// LoadLevelToWorld builds every level entity from its prefab, then resolves
// the name references between them (patrol routes, drop-off points and
// safe-zone drones). Nothing is left in the world when loading fails.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) (*LoadedLevel, error) {
	if w == nil || lvl == nil {
		return nil, fmt.Errorf("level: world and level are required")
	}

	loaded := &LoadedLevel{Name: lvl.Name, Named: map[string]ecs.Entity{}}
	fail := func(err error) (*LoadedLevel, error) {
		for _, e := range loaded.Entities {
			ecs.DestroyEntity(w, e)
		}
		return nil, err
	}

	for i, ent := range lvl.Entities {
		prefab := strings.ToLower(strings.TrimSpace(ent.Type)) + ".yaml"
		overrides := prefabs.MergeComponents(ent.Props, map[string]any{
			"transform": map[string]any{"x": ent.X, "y": ent.Y},
		})

		e, err := BuildEntity(w, prefab, overrides)
		if err != nil {
			return fail(fmt.Errorf("level: %s: entity %d (%s): %w", lvl.Name, i, ent.Type, err))
		}
		loaded.Entities = append(loaded.Entities, e)

		if ent.Name != "" {
			if _, dup := loaded.Named[ent.Name]; dup {
				return fail(fmt.Errorf("level: %s: duplicate entity name %q", lvl.Name, ent.Name))
			}
			loaded.Named[ent.Name] = e
			if err := SetEntityName(w, e, ent.Name); err != nil {
				return fail(err)
			}
		}

		if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
			p.Home.X, p.Home.Y = ent.X, ent.Y
			if !loaded.Player.Valid() {
				loaded.Player = e
			}
		}
	}

	if err := resolveReferences(w, loaded); err != nil {
		return fail(fmt.Errorf("level: %s: %w", lvl.Name, err))
	}
	return loaded, nil
}

func resolveReferences(w *ecs.World, loaded *LoadedLevel) error {
	lookup := func(owner, name string) (ecs.Entity, error) {
		e, ok := loaded.Named[name]
		if !ok {
			return 0, fmt.Errorf("%s references unknown entity %q", owner, name)
		}
		if !ecs.Has(w, e, component.TransformComponent.Kind()) {
			return 0, fmt.Errorf("%s references %q, which has no position", owner, name)
		}
		return e, nil
	}

	for _, e := range loaded.Entities {
		owner := e.String()
		if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
			owner = n.Value
		}

		if refs, ok := ecs.Get(w, e, component.DroneRefsComponent.Kind()); ok {
			d, _ := ecs.Get(w, e, component.DroneComponent.Kind())
			if d == nil {
				return fmt.Errorf("%s has drone references but no drone", owner)
			}
			points := make([]ecs.Entity, 0, len(refs.PatrolPoints))
			for _, name := range refs.PatrolPoints {
				p, err := lookup(owner, name)
				if err != nil {
					return err
				}
				points = append(points, p)
			}
			d.PatrolPoints = points
			d.PatrolIndex = 0
			if refs.DropOff != "" {
				p, err := lookup(owner, refs.DropOff)
				if err != nil {
					return err
				}
				d.DropOff = p
			}
		}

		if sz, ok := ecs.Get(w, e, component.SafeZoneComponent.Kind()); ok && sz.DroneName != "" {
			d, ok := loaded.Named[sz.DroneName]
			if !ok || !ecs.Has(w, d, component.DroneComponent.Kind()) {
				return fmt.Errorf("%s references unknown drone %q", owner, sz.DroneName)
			}
			sz.Drone = d
		}
	}
	return nil
}
