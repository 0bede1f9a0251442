package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/levelupjam/assets"
	"github.com/milk9111/levelupjam/config"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/milk9111/levelupjam/ecs/entity"
	"github.com/milk9111/levelupjam/ecs/system"
	"github.com/milk9111/levelupjam/levels"
	"github.com/milk9111/levelupjam/prefabs"
	"github.com/milk9111/levelupjam/recorder"
	"github.com/rs/zerolog"
)

type Game struct {
	cfg config.Config
	log zerolog.Logger

	world   *ecs.World
	level   *entity.LoadedLevel
	scripts *system.ScriptSystem
	metrics *system.MetricsSystem

	recorder *recorder.Recorder
	watcher  *prefabs.Watcher
}

// NewGame builds the world, registers the systems in update order and
// loads the configured level into it.
func NewGame(cfg config.Config, log zerolog.Logger) (*Game, error) {
	g := &Game{cfg: cfg, log: log, world: ecs.NewWorld()}

	lvl, err := levels.Load(cfg.Level)
	if err != nil {
		return nil, err
	}

	if cfg.Recorder.Enabled {
		rec, err := recorder.Open(cfg.Recorder.Path, log)
		if err != nil {
			return nil, err
		}
		if _, err := rec.BeginRun(lvl.Name); err != nil {
			_ = rec.Close()
			return nil, err
		}
		g.recorder = rec
	}

	if err := g.addSystems(); err != nil {
		g.Close()
		return nil, err
	}

	loaded, err := entity.LoadLevelToWorld(g.world, lvl)
	if err != nil {
		g.Close()
		return nil, err
	}
	g.level = loaded

	if cfg.Watch.Enabled {
		watcher, err := prefabs.NewWatcher(cfg.Watch.Dirs...)
		if err != nil {
			// hot reload is a development aid
			log.Warn().Err(err).Strs("dirs", cfg.Watch.Dirs).Msg("file watch disabled")
		} else {
			g.watcher = watcher
		}
	}

	log.Info().
		Str("level", loaded.Name).
		Int("entities", len(loaded.Entities)).
		Int("tick_rate", cfg.Sim.TickRate).
		Msg("level loaded")
	return g, nil
}

func (g *Game) addSystems() error {
	physics := system.NewPhysicsSystem(g.log)
	drones := system.NewDroneSystem(physics, g.log)
	g.scripts = system.NewScriptSystem(prefabs.LoadScript, drones, g.log)

	metrics, err := system.NewMetricsSystem(nil, g.log)
	if err != nil {
		return fmt.Errorf("game: metrics: %w", err)
	}
	g.metrics = metrics

	var sounds system.SoundLoader
	if g.cfg.Audio.Enabled {
		sounds = func(name string) (component.Sound, error) {
			return assets.LoadAudioPlayer(name)
		}
	}

	g.world.AddSystem(system.NewPlayerControllerSystem())
	g.world.AddSystem(physics)
	g.world.AddSystem(system.NewOverlapSystem())
	g.world.AddSystem(system.NewObstacleSystem(g.log))
	g.world.AddSystem(system.NewLaunchSystem(g.log))
	g.world.AddSystem(system.NewHazardSystem())
	g.world.AddSystem(system.NewRespawnSystem(entity.SpawnPlayer, g.log))
	g.world.AddSystem(system.NewSafeZoneSystem(drones))
	g.world.AddSystem(drones)
	g.world.AddSystem(system.NewFloatingMovementSystem())
	g.world.AddSystem(system.NewMoverSystem())
	g.world.AddSystem(system.NewAttachmentSystem())
	g.world.AddSystem(g.scripts)
	g.world.AddSystem(system.NewEffectsSystem(sounds, g.log))
	g.world.AddSystem(metrics)
	if g.recorder != nil {
		g.world.AddSystem(system.NewRecorderSystem(g.recorder, g.cfg.Recorder.Overlaps, g.log))
	}
	return nil
}

// Update advances the simulation by one fixed step.
func (g *Game) Update() error {
	g.drainWatcher()
	g.world.Update(g.cfg.TickSeconds())
	return nil
}

// Run steps the game until ctx is done or the configured duration of
// simulated time has passed. A zero duration runs until ctx is done.
func (g *Game) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if g.cfg.Sim.Realtime {
		ticker := time.NewTicker(time.Duration(g.cfg.TickSeconds() * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if g.cfg.Sim.Duration > 0 && g.world.Elapsed() >= g.cfg.Sim.Duration {
			return nil
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return nil
		}
		if err := g.Update(); err != nil {
			return err
		}
	}
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			switch change.Kind {
			case prefabs.ChangeScript:
				g.log.Info().Str("path", change.Path).Msg("script changed, reloading")
				g.scripts.Reload(change.Path)
			case prefabs.ChangePrefab:
				g.log.Info().Str("path", change.Path).Msg("prefab changed, applies to newly built entities")
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Warn().Err(err).Msg("file watch error")
			}
		default:
			return
		}
	}
}

func (g *Game) World() *ecs.World { return g.world }

func (g *Game) Level() *entity.LoadedLevel { return g.level }

// Close logs the run summary and releases the watcher and recorder.
func (g *Game) Close() error {
	var errs []error
	if g.metrics != nil {
		g.metrics.LogSummary()
	}
	if g.watcher != nil {
		errs = append(errs, g.watcher.Close())
		g.watcher = nil
	}
	if g.recorder != nil {
		if err := g.recorder.EndRun(g.world.Frame()); err != nil && !errors.Is(err, recorder.ErrNoRun) {
			errs = append(errs, err)
		}
		errs = append(errs, g.recorder.Close())
		g.recorder = nil
	}
	return errors.Join(errs...)
}
