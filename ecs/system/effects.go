package system

import (
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/rs/zerolog"
)

// SoundLoader opens a sound player for an effect clip name.
type SoundLoader func(name string) (component.Sound, error)

// EffectsSystem plays the sounds requested through effect events. Visual
// effects have no renderer here and are only logged.
type EffectsSystem struct {
	load   SoundLoader
	shared map[string]component.Sound
	broken map[string]bool
	log    zerolog.Logger
}

// NewEffectsSystem builds the system. A nil loader disables audio.
func NewEffectsSystem(load SoundLoader, log zerolog.Logger) *EffectsSystem {
	return &EffectsSystem{
		load:   load,
		shared: map[string]component.Sound{},
		broken: map[string]bool{},
		log:    log.With().Str("system", "effects").Logger(),
	}
}

func (s *EffectsSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, evt := range w.Events().Items() {
		if evt.Type != component.EventEffect {
			continue
		}
		req, ok := evt.Data.(component.EffectRequest)
		if !ok {
			continue
		}
		if req.Visual != "" {
			s.log.Debug().
				Stringer("entity", evt.Entity).
				Str("visual", req.Visual).
				Float64("x", req.Position.X).
				Float64("y", req.Position.Y).
				Msg("visual effect")
		}
		if req.Sound != "" {
			s.play(w, evt.Entity, req.Sound)
		}
	}
}

func (s *EffectsSystem) play(w *ecs.World, e ecs.Entity, clip string) {
	if s.load == nil || s.broken[clip] {
		return
	}

	players := s.shared
	volume := 1.0
	if a, ok := ecs.Get(w, e, component.AudioComponent.Kind()); ok {
		if a.Players == nil {
			a.Players = map[string]component.Sound{}
		}
		players = a.Players
		volume = a.Volume
	}

	player, ok := players[clip]
	if !ok {
		p, err := s.load(clip)
		if err != nil {
			s.broken[clip] = true
			s.log.Warn().Err(err).Str("clip", clip).Msg("load sound")
			return
		}
		player = p
		players[clip] = player
	}

	player.SetVolume(volume)
	if err := player.Rewind(); err != nil {
		s.log.Warn().Err(err).Str("clip", clip).Msg("rewind sound")
	}
	player.Play()
}
