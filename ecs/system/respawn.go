package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/rs/zerolog"
)

// PlayerSpawner builds a fresh player at the given position.
type PlayerSpawner func(w *ecs.World, at cp.Vector) (ecs.Entity, error)

// RespawnSystem records the respawn point a player last touched and spawns a
// replacement for players destroyed after death.
type RespawnSystem struct {
	spawn PlayerSpawner
	log   zerolog.Logger
}

func NewRespawnSystem(spawn PlayerSpawner, log zerolog.Logger) *RespawnSystem {
	return &RespawnSystem{spawn: spawn, log: log.With().Str("system", "respawn").Logger()}
}

func (s *RespawnSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, ov := range w.Events().Overlaps(component.VolumeRespawn) {
		if ov.Phase != ecs.OverlapBegin {
			continue
		}
		TouchRespawnPoint(w, ov.Other, ov.Trigger)
	}

	for _, e := range w.Query(component.RespawnRequestComponent.Kind()) {
		req, _ := ecs.Get(w, e, component.RespawnRequestComponent.Kind())
		s.respawn(w, req)
		w.DestroyEntity(e)
	}
}

// TouchRespawnPoint stores point as the player's respawn point unless the
// player already holds a point with the same id.
func TouchRespawnPoint(w *ecs.World, player, point ecs.Entity) bool {
	p, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok {
		return false
	}
	rp, ok := ecs.Get(w, point, component.RespawnPointComponent.Kind())
	if !ok {
		return false
	}
	if p.RespawnPoint.Valid() && p.RespawnID == rp.ID {
		return false
	}
	p.RespawnPoint = point
	p.RespawnID = rp.ID
	w.Events().Push(ecs.Event{
		Type:   component.EventRespawnPointChanged,
		Entity: player,
		Data:   component.RespawnPointChange{Point: point, ID: rp.ID},
	})
	return true
}

func (s *RespawnSystem) respawn(w *ecs.World, req *component.RespawnRequest) {
	if s.spawn == nil {
		s.log.Warn().Stringer("previous", req.Previous).Msg("no spawner configured, player not respawned")
		return
	}

	at := req.Home
	if t, ok := ecs.Get(w, req.RespawnPoint, component.TransformComponent.Kind()); ok {
		at = t.Position()
	}

	player, err := s.spawn(w, at)
	if err != nil {
		s.log.Error().Err(err).Msg("spawn player")
		return
	}
	if p, ok := ecs.Get(w, player, component.PlayerComponent.Kind()); ok {
		p.RespawnPoint = req.RespawnPoint
		p.RespawnID = req.RespawnID
		p.Home = req.Home
	}
	Teleport(w, player, at)

	s.log.Info().Stringer("player", player).Str("respawn_id", req.RespawnID).Msg("player respawned")
	w.Events().Push(ecs.Event{
		Type:   component.EventPlayerRespawned,
		Entity: player,
		Data:   component.PlayerRespawn{Previous: req.Previous, Point: req.RespawnPoint},
	})
}
