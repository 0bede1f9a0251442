package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/common"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/rs/zerolog"
)

const (
	patrolArrivalDistance  = 100.0
	dropOffArrivalDistance = 200.0
)

// Tracer answers line-of-sight queries against the physics space.
type Tracer interface {
	TraceFirst(start, end cp.Vector, ignore ecs.Entity) (ecs.Entity, cp.Vector, bool)
}

// DroneSystem runs the patrol / chase / carry / return behaviour of every
// drone. Exported methods are the drone's operations and may be called from
// other systems, timers and scripts.
type DroneSystem struct {
	tracer Tracer
	log    zerolog.Logger
}

func NewDroneSystem(tracer Tracer, log zerolog.Logger) *DroneSystem {
	return &DroneSystem{tracer: tracer, log: log.With().Str("system", "drone").Logger()}
}

func (s *DroneSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	s.handleOverlaps(w)

	for _, e := range w.Query(component.DroneComponent.Kind(), component.TransformComponent.Kind()) {
		d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
		if !ok {
			continue
		}
		if !d.Started {
			s.beginPlay(w, e, d)
		}
		s.tick(w, e, d)
	}
}

func (s *DroneSystem) beginPlay(w *ecs.World, e ecs.Entity, d *component.Drone) {
	d.Started = true
	if mv, ok := ecs.Get(w, e, component.FloatingMovementComponent.Kind()); ok {
		mv.MaxSpeed = d.PatrolSpeed
	}
	if len(d.PatrolPoints) > 0 {
		s.ChangeState(w, e, component.DronePatrolling)
		s.AdvancePatrolTarget(w, e)
	}
}

func (s *DroneSystem) handleOverlaps(w *ecs.World) {
	for _, evt := range w.Events().Items() {
		ov, ok := evt.Data.(ecs.OverlapEvent)
		if !ok || !ecs.Has(w, ov.Trigger, component.DroneComponent.Kind()) {
			continue
		}
		switch {
		case ov.Volume == component.VolumeDetection && ov.Phase == ecs.OverlapBegin:
			s.OnDetectionBegin(w, ov.Trigger, ov.Other)
		case ov.Volume == component.VolumeDetection && ov.Phase == ecs.OverlapEnd:
			s.OnDetectionEnd(w, ov.Trigger, ov.Other)
		case ov.Volume == component.VolumeInteraction && ov.Phase == ecs.OverlapBegin:
			s.OnInteractionBegin(w, ov.Trigger, ov.Other)
		}
	}
}

// OnDetectionBegin starts tracking a player that entered the detection sphere.
func (s *DroneSystem) OnDetectionBegin(w *ecs.World, e, other ecs.Entity) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok || !ecs.Has(w, other, component.PlayerComponent.Kind()) {
		return
	}
	d.Detected = other
	s.log.Debug().Stringer("drone", e).Stringer("player", other).Msg("player detected")
}

// OnDetectionEnd drops sight of the tracked player when it leaves.
func (s *DroneSystem) OnDetectionEnd(w *ecs.World, e, other ecs.Entity) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok || d.Detected != other {
		return
	}
	d.PlayerInSight = false
}

// OnInteractionBegin grabs the tracked player when it reaches the drone
// during a chase.
func (s *DroneSystem) OnInteractionBegin(w *ecs.World, e, other ecs.Entity) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok || d.State != component.DroneChasing || d.Detected != other {
		return
	}
	s.GrabPlayer(w, e, other)
}

func (s *DroneSystem) tick(w *ecs.World, e ecs.Entity, d *component.Drone) {
	if d.Detected.Valid() {
		if w.IsAlive(d.Detected) {
			d.PlayerInSight = s.CanSeePlayer(w, e, d.Detected)
		} else {
			d.Detected = 0
			d.PlayerInSight = false
		}
	}
	if d.Carried.Valid() && !w.IsAlive(d.Carried) {
		d.Carried = 0
	}
	if d.State == component.DroneCarrying && !d.Carried.Valid() {
		// the carried player died or was removed
		s.ChangeState(w, e, component.DroneReturning)
		return
	}

	pos := dronePosition(w, e)

	switch d.State {
	case component.DronePatrolling:
		if d.Detected.Valid() && d.PlayerInSight && !d.SafeZone {
			s.StartChasing(w, e, d.Detected)
			return
		}
		if d.Waiting || len(d.PatrolPoints) == 0 {
			return
		}
		if pos.Distance(d.Target) < patrolArrivalDistance {
			s.StartPatrolWait(w, e)
			return
		}
		s.MoveToLocation(w, e, d.Target, d.PatrolSpeed)

	case component.DroneChasing:
		if d.SafeZone {
			s.ForceEndChase(w, e)
			return
		}
		if d.Detected.Valid() && d.PlayerInSight {
			w.ClearTimer(&d.LoseTimer)
			playerPos, ok := entityPosition(w, d.Detected)
			if !ok {
				return
			}
			if pos.Distance(playerPos) < d.InteractionRadius {
				s.GrabPlayer(w, e, d.Detected)
				return
			}
			s.MoveToLocation(w, e, playerPos, d.ChaseSpeed)
			return
		}
		if !w.IsTimerActive(&d.LoseTimer) {
			w.SetTimer(&d.LoseTimer, e, d.LosePlayerTime, func(w *ecs.World) {
				s.LosePlayer(w, e)
			})
		}

	case component.DroneCarrying:
		dropPos, ok := entityPosition(w, d.DropOff)
		if !ok {
			return
		}
		if pos.Distance(dropPos) < dropOffArrivalDistance {
			s.DropPlayer(w, e)
			return
		}
		s.MoveToLocation(w, e, dropPos, d.ChaseSpeed)

	case component.DroneReturning:
		if len(d.PatrolPoints) == 0 {
			return
		}
		if pos.Distance(d.Target) < patrolArrivalDistance {
			s.ChangeState(w, e, component.DronePatrolling)
			return
		}
		s.MoveToLocation(w, e, d.Target, d.PatrolSpeed)
	}
}

// ChangeState runs the exit work of the current state and the entry work of
// next. Re-entering the current state does nothing.
func (s *DroneSystem) ChangeState(w *ecs.World, e ecs.Entity, next component.DroneState) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok || d.State == next {
		return
	}
	prev := d.State

	switch prev {
	case component.DronePatrolling:
		w.ClearTimer(&d.PatrolWaitTimer)
		d.Waiting = false
	case component.DroneChasing:
		w.ClearTimer(&d.LoseTimer)
	}

	d.State = next

	switch next {
	case component.DronePatrolling:
		setMaxSpeed(w, e, d.PatrolSpeed)
		if len(d.PatrolPoints) > 0 {
			s.AdvancePatrolTarget(w, e)
		}
	case component.DroneChasing:
		setMaxSpeed(w, e, d.ChaseSpeed)
	case component.DroneCarrying:
		if dropPos, ok := entityPosition(w, d.DropOff); ok && d.Carried.Valid() {
			s.MoveToLocation(w, e, dropPos, d.ChaseSpeed)
		}
	}

	s.log.Debug().Stringer("drone", e).Stringer("from", prev).Stringer("to", next).Msg("state changed")
	w.Events().Push(ecs.Event{
		Type:   component.EventDroneStateChanged,
		Entity: e,
		Data:   component.DroneStateChange{From: prev, To: next},
	})
	d.OnStateChanged.Broadcast(w, e)
}

// MoveToLocation steers the drone toward target at speed and turns it to
// face the target.
func (s *DroneSystem) MoveToLocation(w *ecs.World, e ecs.Entity, target cp.Vector, speed float64) {
	mv, ok := ecs.Get(w, e, component.FloatingMovementComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	d, _ := ecs.Get(w, e, component.DroneComponent.Kind())

	mv.MaxSpeed = speed
	toTarget := target.Sub(t.Position())
	mv.AddInput(common.SafeNormal(toTarget))

	rate := 2.0
	if d != nil && d.RotationSpeed > 0 {
		rate = d.RotationSpeed
	}
	heading := math.Atan2(toTarget.Y, toTarget.X)
	t.Rotation = common.RInterpTo(t.Rotation, heading, w.DeltaSeconds(), rate)
}

// AdvancePatrolTarget moves to the next patrol point, wrapping around.
func (s *DroneSystem) AdvancePatrolTarget(w *ecs.World, e ecs.Entity) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok || len(d.PatrolPoints) == 0 {
		return
	}
	d.PatrolIndex = (d.PatrolIndex + 1) % len(d.PatrolPoints)
	if pos, ok := entityPosition(w, d.PatrolPoints[d.PatrolIndex]); ok {
		d.Target = pos
		d.HasTarget = true
	}
}

// StartPatrolWait holds the drone at its patrol point for PatrolWaitTime.
func (s *DroneSystem) StartPatrolWait(w *ecs.World, e ecs.Entity) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok {
		return
	}
	d.Waiting = true
	w.SetTimer(&d.PatrolWaitTimer, e, d.PatrolWaitTime, func(w *ecs.World) {
		s.EndPatrolWait(w, e)
	})
	if !w.IsTimerActive(&d.PatrolWaitTimer) {
		// zero wait
		s.EndPatrolWait(w, e)
	}
}

func (s *DroneSystem) EndPatrolWait(w *ecs.World, e ecs.Entity) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok {
		return
	}
	d.Waiting = false
	s.AdvancePatrolTarget(w, e)
}

// CanSeePlayer reports whether player is within detection range, inside the
// sight cone and not hidden behind anything else.
func (s *DroneSystem) CanSeePlayer(w *ecs.World, e, player ecs.Entity) bool {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok {
		return false
	}
	playerPos, ok := entityPosition(w, player)
	if !ok {
		return false
	}
	start := dronePosition(w, e)
	if d.DetectionRadius > 0 && start.Distance(playerPos) > d.DetectionRadius {
		return false
	}
	if !s.IsPlayerInSightCone(w, e, player) {
		return false
	}
	if s.tracer == nil {
		return true
	}
	hit, _, blocked := s.tracer.TraceFirst(start, playerPos, e)
	if !blocked {
		return true
	}
	return hit == player
}

// IsPlayerInSightCone compares the angle to the player against half the
// effective cone, which widens while chasing.
func (s *DroneSystem) IsPlayerInSightCone(w *ecs.World, e, player ecs.Entity) bool {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok {
		return false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	playerPos, ok := entityPosition(w, player)
	if !ok {
		return false
	}
	toPlayer := common.SafeNormal(playerPos.Sub(t.Position()))
	dot := common.Clamp(t.Forward().Dot(toPlayer), -1, 1)
	angle := math.Acos(dot) * 180 / math.Pi

	effective := d.SightAngle
	if d.State == component.DroneChasing {
		effective = d.ChaseSightAngle
	}
	return angle <= effective/2
}

// StartChasing tracks player and switches to the chase.
func (s *DroneSystem) StartChasing(w *ecs.World, e, player ecs.Entity) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok {
		return
	}
	d.Detected = player
	s.ChangeState(w, e, component.DroneChasing)
	w.ClearTimer(&d.LoseTimer)
}

// LosePlayer gives up the chase and heads back to the patrol route.
func (s *DroneSystem) LosePlayer(w *ecs.World, e ecs.Entity) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok {
		return
	}
	d.Detected = 0
	d.PlayerInSight = false
	s.ChangeState(w, e, component.DroneReturning)
}

// GrabPlayer captures the tracked player. It only succeeds while chasing,
// within the interaction radius, and when nobody is carried yet.
func (s *DroneSystem) GrabPlayer(w *ecs.World, e, player ecs.Entity) bool {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok || d.State != component.DroneChasing || d.Carried.Valid() {
		return false
	}
	if !player.Valid() || player != d.Detected || !w.IsAlive(player) {
		return false
	}
	playerPos, ok := entityPosition(w, player)
	if !ok {
		return false
	}
	pos := dronePosition(w, e)
	if pos.Distance(playerPos) > d.InteractionRadius {
		return false
	}

	d.Carried = player
	_ = ecs.Add(w, player, component.AttachmentComponent.Kind(), &component.Attachment{
		Parent: e,
		Offset: playerPos.Sub(pos),
	})
	if body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok {
		body.Held = true
	}
	SetPlayerInputEnabled(w, player, false)

	s.log.Info().Stringer("drone", e).Stringer("player", player).Msg("player captured")
	w.Events().Push(ecs.Event{Type: component.EventDroneGrab, Entity: e, Data: component.DroneCarry{Player: player}})
	s.ChangeState(w, e, component.DroneCarrying)
	return true
}

// DropPlayer releases the carried player above the drop-off point.
func (s *DroneSystem) DropPlayer(w *ecs.World, e ecs.Entity) bool {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok || !d.Carried.Valid() {
		return false
	}
	dropPos, ok := entityPosition(w, d.DropOff)
	if !ok {
		return false
	}
	player := d.Carried
	at := dropPos.Add(cp.Vector{Y: -d.DropOffHeight})

	ecs.Remove(w, player, component.AttachmentComponent.Kind())
	if body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok {
		body.Held = false
	}
	Teleport(w, player, at)
	if p, ok := ecs.Get(w, player, component.PlayerComponent.Kind()); ok && !p.Dead {
		SetPlayerInputEnabled(w, player, true)
	}

	d.Carried = 0
	d.Detected = 0
	d.PlayerInSight = false

	s.log.Info().Stringer("drone", e).Stringer("player", player).Msg("player dropped")
	w.Events().Push(ecs.Event{Type: component.EventDroneDrop, Entity: e, Data: component.DroneCarry{Player: player}})
	s.ChangeState(w, e, component.DroneReturning)
	return true
}

// ForceEndChase is the safe-zone override: forget the player and return.
// A drone carrying a player keeps carrying it to the drop-off and only has
// its safe-zone flag raised.
func (s *DroneSystem) ForceEndChase(w *ecs.World, e ecs.Entity) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok {
		return
	}
	if d.State == component.DroneCarrying && d.Carried.Valid() && w.IsAlive(d.Carried) {
		d.SafeZone = true
		return
	}
	d.Detected = 0
	d.PlayerInSight = false
	d.SafeZone = true
	s.log.Debug().Stringer("drone", e).Msg("chase ended by safe zone")
	s.ChangeState(w, e, component.DroneReturning)
}

// SetSafeZone sets the safe-zone flag without touching the state.
func (s *DroneSystem) SetSafeZone(w *ecs.World, e ecs.Entity, active bool) {
	if d, ok := ecs.Get(w, e, component.DroneComponent.Kind()); ok {
		d.SafeZone = active
	}
}

// SetPatrolPoints replaces the patrol route and restarts it from index 0.
func (s *DroneSystem) SetPatrolPoints(w *ecs.World, e ecs.Entity, points []ecs.Entity) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok {
		return
	}
	d.PatrolPoints = append([]ecs.Entity(nil), points...)
	d.PatrolIndex = 0
	if len(d.PatrolPoints) > 0 && d.State == component.DronePatrolling {
		s.AdvancePatrolTarget(w, e)
	}
}

func (s *DroneSystem) SetDropOffPoint(w *ecs.World, e, point ecs.Entity) {
	if d, ok := ecs.Get(w, e, component.DroneComponent.Kind()); ok {
		d.DropOff = point
	}
}

// CurrentState returns the drone's state.
func CurrentState(w *ecs.World, e ecs.Entity) (component.DroneState, bool) {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	if !ok {
		return component.DronePatrolling, false
	}
	return d.State, true
}

// HasDetectedPlayer reports whether the drone tracks a live player.
func HasDetectedPlayer(w *ecs.World, e ecs.Entity) bool {
	d, ok := ecs.Get(w, e, component.DroneComponent.Kind())
	return ok && d.Detected.Valid() && w.IsAlive(d.Detected)
}

func setMaxSpeed(w *ecs.World, e ecs.Entity, speed float64) {
	if mv, ok := ecs.Get(w, e, component.FloatingMovementComponent.Kind()); ok {
		mv.MaxSpeed = speed
	}
}

func dronePosition(w *ecs.World, e ecs.Entity) cp.Vector {
	pos, _ := entityPosition(w, e)
	return pos
}

func entityPosition(w *ecs.World, e ecs.Entity) (cp.Vector, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	return t.Position(), true
}
