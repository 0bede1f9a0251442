package system

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsSystem counts gameplay events into OpenTelemetry instruments and
// keeps local totals for the end of run summary.
type MetricsSystem struct {
	transitions metric.Int64Counter
	captures    metric.Int64Counter
	drops       metric.Int64Counter
	activations metric.Int64Counter
	launches    metric.Int64Counter
	damage      metric.Int64Counter
	deaths      metric.Int64Counter
	entityGauge metric.Int64ObservableGauge

	entities atomic.Int64
	totals   map[string]int64
	log      zerolog.Logger
}

// NewMetricsSystem registers the instruments on m, or on the global meter
// provider when m is nil (a no-op unless one is configured).
func NewMetricsSystem(m metric.Meter, log zerolog.Logger) (*MetricsSystem, error) {
	if m == nil {
		m = meter()
	}
	s := &MetricsSystem{
		totals: map[string]int64{},
		log:    log.With().Str("system", "metrics").Logger(),
	}

	var err error
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&s.transitions, "levelupjam.drone.transitions", "Drone state transitions"},
		{&s.captures, "levelupjam.drone.captures", "Players grabbed by drones"},
		{&s.drops, "levelupjam.drone.drops", "Players dropped at drop-off points"},
		{&s.activations, "levelupjam.obstacle.activations", "Obstacle activations"},
		{&s.launches, "levelupjam.launches", "Launch impulses and forces applied"},
		{&s.damage, "levelupjam.player.damage", "Damage dealt to players"},
		{&s.deaths, "levelupjam.player.deaths", "Player deaths"},
	}
	for _, c := range counters {
		*c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
	}

	s.entityGauge, err = m.Int64ObservableGauge(
		"levelupjam.world.entities",
		metric.WithDescription("Live entities in the world"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating entity gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(s.entityGauge, s.entities.Load())
			return nil
		},
		s.entityGauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering entity callback: %w", err)
	}

	return s, nil
}

func (s *MetricsSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ctx := context.Background()

	s.entities.Store(int64(len(ecs.Entities(w))))

	for _, evt := range w.Events().Items() {
		switch evt.Type {
		case component.EventDroneStateChanged:
			change, ok := evt.Data.(component.DroneStateChange)
			if !ok {
				continue
			}
			s.transitions.Add(ctx, 1, metric.WithAttributes(
				attribute.String("from", change.From.String()),
				attribute.String("to", change.To.String()),
			))
			s.totals["drone.transitions"]++
		case component.EventDroneGrab:
			s.captures.Add(ctx, 1)
			s.totals["drone.captures"]++
		case component.EventDroneDrop:
			s.drops.Add(ctx, 1)
			s.totals["drone.drops"]++
		case component.EventObstacleActivated:
			s.activations.Add(ctx, 1, metric.WithAttributes(attribute.String("obstacle", entityName(w, evt.Entity))))
			s.totals["obstacle.activations"]++
		case component.EventLaunch:
			mode := "impulse"
			if la, ok := evt.Data.(component.LaunchApplied); ok && la.Mode != "" {
				mode = string(la.Mode)
			}
			s.launches.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
			s.totals["launches"]++
		case component.EventPlayerDamaged:
			dmg, ok := evt.Data.(component.PlayerDamage)
			if !ok {
				continue
			}
			s.damage.Add(ctx, int64(dmg.Amount))
			s.totals["player.damage"] += int64(dmg.Amount)
		case component.EventPlayerDeath:
			s.deaths.Add(ctx, 1)
			s.totals["player.deaths"]++
		}
	}
}

// Totals returns a copy of the counts recorded so far.
func (s *MetricsSystem) Totals() map[string]int64 {
	out := make(map[string]int64, len(s.totals))
	for k, v := range s.totals {
		out[k] = v
	}
	return out
}

// LogSummary writes the totals as one structured log line.
func (s *MetricsSystem) LogSummary() {
	evt := s.log.Info()
	for k, v := range s.totals {
		evt = evt.Int64(k, v)
	}
	evt.Int64("entities", s.entities.Load()).Msg("run summary")
}
