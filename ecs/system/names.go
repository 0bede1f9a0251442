package system

import (
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
)

// FindByName returns the first live entity carrying the given name.
func FindByName(w *ecs.World, name string) (ecs.Entity, bool) {
	if w == nil || name == "" {
		return 0, false
	}
	for _, e := range w.Query(component.NameComponent.Kind()) {
		n, _ := ecs.Get(w, e, component.NameComponent.Kind())
		if n != nil && n.Value == name {
			return e, true
		}
	}
	return 0, false
}

func entityName(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
		return n.Value
	}
	return ""
}
