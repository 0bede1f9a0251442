package system

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
)

// OverlapSystem tests every trigger volume against every non-static body and
// pushes begin/end overlap events for pairs that changed since last frame.
type OverlapSystem struct {
	current map[overlapKey]struct{}
}

type overlapKey struct {
	trigger ecs.Entity
	volume  string
	other   ecs.Entity
}

func NewOverlapSystem() *OverlapSystem {
	return &OverlapSystem{current: make(map[overlapKey]struct{})}
}

type overlapAABB struct {
	minX, minY, maxX, maxY float64
}

type bodyBounds struct {
	entity ecs.Entity
	center cp.Vector
	half   cp.Vector
	radius float64
}

func (s *OverlapSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	bodies := make([]bodyBounds, 0, 16)
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.PhysicsBody, t *component.Transform) {
		if b.Type == component.BodyStatic {
			return
		}
		bodies = append(bodies, bodyBounds{entity: e, center: t.Position(), half: b.HalfExtents(), radius: b.Radius})
	})

	next := make(map[overlapKey]struct{}, len(s.current))
	var begins []overlapKey
	for _, e := range w.Query(component.TriggersComponent.Kind(), component.TransformComponent.Kind()) {
		triggers, _ := ecs.Get(w, e, component.TriggersComponent.Kind())
		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		for _, vol := range triggers.Volumes {
			if vol.Disabled {
				continue
			}
			for _, b := range bodies {
				if b.entity == e || !volumeOverlaps(vol, transform.Position(), b) {
					continue
				}
				key := overlapKey{trigger: e, volume: vol.Name, other: b.entity}
				next[key] = struct{}{}
				if _, ok := s.current[key]; !ok {
					begins = append(begins, key)
				}
			}
		}
	}

	var ends []overlapKey
	for key := range s.current {
		if _, ok := next[key]; !ok {
			ends = append(ends, key)
		}
	}
	sortOverlapKeys(ends)
	s.current = next

	events := w.Events()
	for _, key := range ends {
		events.Push(overlapEvent(ecs.OverlapEnd, key))
	}
	for _, key := range begins {
		events.Push(overlapEvent(ecs.OverlapBegin, key))
	}
}

// Overlapping reports whether other is currently inside the trigger's volume.
func (s *OverlapSystem) Overlapping(trigger ecs.Entity, volume string, other ecs.Entity) bool {
	if s == nil {
		return false
	}
	_, ok := s.current[overlapKey{trigger: trigger, volume: volume, other: other}]
	return ok
}

func overlapEvent(phase ecs.OverlapPhase, key overlapKey) ecs.Event {
	return ecs.Event{
		Type:   ecs.EventOverlap,
		Entity: key.trigger,
		Data: ecs.OverlapEvent{
			Phase:   phase,
			Trigger: key.trigger,
			Volume:  key.volume,
			Other:   key.other,
		},
	}
}

func sortOverlapKeys(keys []overlapKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].trigger != keys[j].trigger {
			return keys[i].trigger < keys[j].trigger
		}
		if keys[i].volume != keys[j].volume {
			return keys[i].volume < keys[j].volume
		}
		return keys[i].other < keys[j].other
	})
}

func volumeOverlaps(vol component.TriggerVolume, ownerPos cp.Vector, b bodyBounds) bool {
	center := vol.Center(ownerPos)
	if vol.Shape == component.VolumeSphere {
		if b.radius > 0 {
			return center.DistanceSq(b.center) <= (vol.Radius+b.radius)*(vol.Radius+b.radius)
		}
		return circleOverlapsAABB(center, vol.Radius, aabbAround(b.center, b.half))
	}

	box := aabbAround(center, cp.Vector{X: vol.Width / 2, Y: vol.Height / 2})
	if b.radius > 0 {
		return circleOverlapsAABB(b.center, b.radius, box)
	}
	return overlapsAABB(box, aabbAround(b.center, b.half))
}

func aabbAround(center, half cp.Vector) overlapAABB {
	return overlapAABB{minX: center.X - half.X, minY: center.Y - half.Y, maxX: center.X + half.X, maxY: center.Y + half.Y}
}

func overlapsAABB(a, b overlapAABB) bool {
	return a.minX < b.maxX && a.maxX > b.minX && a.minY < b.maxY && a.maxY > b.minY
}

func circleOverlapsAABB(c cp.Vector, r float64, box overlapAABB) bool {
	nx := math.Max(box.minX, math.Min(c.X, box.maxX))
	ny := math.Max(box.minY, math.Min(c.Y, box.maxY))
	dx := c.X - nx
	dy := c.Y - ny
	return dx*dx+dy*dy <= r*r
}
