package system

import (
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
)

// HazardSystem damages players once per entry into a hazard volume.
type HazardSystem struct{}

func NewHazardSystem() *HazardSystem { return &HazardSystem{} }

func (s *HazardSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, ov := range w.Events().Overlaps(component.VolumeHazard) {
		if ov.Phase != ecs.OverlapBegin {
			continue
		}
		hz, ok := ecs.Get(w, ov.Trigger, component.HazardComponent.Kind())
		if !ok || !ecs.Has(w, ov.Other, component.PlayerComponent.Kind()) {
			continue
		}
		ApplyDamage(w, ov.Other, hz.Damage, ov.Trigger)
	}
}
