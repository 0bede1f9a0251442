package system

import (
	"encoding/json"

	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/recorder"
	"github.com/rs/zerolog"
)

// EventSink stores recorded gameplay events.
type EventSink interface {
	Record(evt recorder.Event) error
}

// RecorderSystem copies each frame's gameplay events into a sink. Overlap
// events are skipped unless requested.
type RecorderSystem struct {
	sink     EventSink
	overlaps bool
	failing  bool
	log      zerolog.Logger
}

func NewRecorderSystem(sink EventSink, includeOverlaps bool, log zerolog.Logger) *RecorderSystem {
	return &RecorderSystem{
		sink:     sink,
		overlaps: includeOverlaps,
		log:      log.With().Str("system", "recorder").Logger(),
	}
}

func (s *RecorderSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.sink == nil {
		return
	}

	for _, evt := range w.Events().Items() {
		if evt.Type == ecs.EventOverlap && !s.overlaps {
			continue
		}
		rec := recorder.Event{
			Frame:  w.Frame(),
			Time:   w.Elapsed(),
			Type:   evt.Type,
			Entity: evt.Entity.String(),
			Name:   entityName(w, evt.Entity),
		}
		if evt.Data != nil {
			if b, err := json.Marshal(evt.Data); err == nil {
				rec.Detail = string(b)
			}
		}
		if err := s.sink.Record(rec); err != nil {
			// log once per failure streak
			if !s.failing {
				s.log.Error().Err(err).Msg("record event")
			}
			s.failing = true
			continue
		}
		s.failing = false
	}
}
