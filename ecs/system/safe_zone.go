package system

import (
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
)

// SafeZoneSystem signals a zone's drone when a player enters or leaves it.
type SafeZoneSystem struct {
	drones *DroneSystem
}

func NewSafeZoneSystem(drones *DroneSystem) *SafeZoneSystem {
	return &SafeZoneSystem{drones: drones}
}

func (s *SafeZoneSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for _, ov := range w.Events().Overlaps(component.VolumeSafeZone) {
		if !ecs.Has(w, ov.Other, component.PlayerComponent.Kind()) {
			continue
		}
		if ov.Phase == ecs.OverlapBegin {
			s.Enter(w, ov.Trigger, ov.Other)
		} else {
			s.Exit(w, ov.Trigger, ov.Other)
		}
	}
}

// Enter ends the referenced drone's chase. A drone already carrying the
// player only has its safe-zone flag raised.
func (s *SafeZoneSystem) Enter(w *ecs.World, zone, player ecs.Entity) {
	sz, ok := ecs.Get(w, zone, component.SafeZoneComponent.Kind())
	if !ok {
		return
	}
	state, ok := CurrentState(w, sz.Drone)
	if !ok {
		return
	}
	if state == component.DroneCarrying {
		s.drones.SetSafeZone(w, sz.Drone, true)
	} else {
		s.drones.ForceEndChase(w, sz.Drone)
	}
	w.Events().Push(ecs.Event{
		Type:   component.EventSafeZone,
		Entity: zone,
		Data:   component.SafeZoneChange{Drone: sz.Drone, Player: player, Entered: true},
	})
}

// Exit clears the drone's safe-zone flag.
func (s *SafeZoneSystem) Exit(w *ecs.World, zone, player ecs.Entity) {
	sz, ok := ecs.Get(w, zone, component.SafeZoneComponent.Kind())
	if !ok || !w.IsAlive(sz.Drone) {
		return
	}
	s.drones.SetSafeZone(w, sz.Drone, false)
	w.Events().Push(ecs.Event{
		Type:   component.EventSafeZone,
		Entity: zone,
		Data:   component.SafeZoneChange{Drone: sz.Drone, Player: player, Entered: false},
	})
}
