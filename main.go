package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/milk9111/levelupjam/config"
	"github.com/milk9111/levelupjam/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	configPath := pflag.String("config", "", "config file (yaml or json)")
	pflag.String("level", "", "level in levels/ (basename, .json optional) or a path on disk")
	pflag.Float64("duration", 0, "seconds of simulated time to run, 0 runs until interrupted")
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	v := viper.New()
	_ = v.BindPFlag("level", pflag.Lookup("level"))
	_ = v.BindPFlag("sim.duration", pflag.Lookup("duration"))
	if *debug {
		v.Set("log.level", "debug")
	}

	cfg, err := config.Load(v, *configPath)
	if err != nil {
		bootLog := logging.New("info", true, os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Console, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game, err := NewGame(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.Level).Msg("start game")
	}

	runErr := game.Run(ctx)
	if err := game.Close(); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("run")
	}
}
