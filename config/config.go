package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "LEVELUPJAM"

type SimConfig struct {
	TickRate int     `mapstructure:"tick_rate"`
	Duration float64 `mapstructure:"duration"`
	// Realtime paces steps to the wall clock instead of running flat out.
	Realtime bool `mapstructure:"realtime"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

type AudioConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type RecorderConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Path     string `mapstructure:"path"`
	Overlaps bool   `mapstructure:"overlaps"`
}

type WatchConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Dirs    []string `mapstructure:"dirs"`
}

// Config is the runtime configuration of the levelupjam binary.
type Config struct {
	Level    string         `mapstructure:"level"`
	Sim      SimConfig      `mapstructure:"sim"`
	Log      LogConfig      `mapstructure:"log"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Recorder RecorderConfig `mapstructure:"recorder"`
	Watch    WatchConfig    `mapstructure:"watch"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("level", "jam.json")

	v.SetDefault("sim.tick_rate", 60)
	v.SetDefault("sim.duration", 0.0)
	v.SetDefault("sim.realtime", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)

	v.SetDefault("audio.enabled", false)

	v.SetDefault("recorder.enabled", false)
	v.SetDefault("recorder.path", "levelupjam.db")
	v.SetDefault("recorder.overlaps", false)

	v.SetDefault("watch.enabled", false)
	v.SetDefault("watch.dirs", []string{"prefabs", "prefabs/scripts"})
}

// Load reads the configuration into v. path names an optional YAML or JSON
// file; when empty, levelupjam.yaml is looked up in the working directory
// and its absence is not an error. Environment variables such as
// LEVELUPJAM_SIM_TICK_RATE override both.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("levelupjam")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("config: sim.tick_rate must be positive, got %d", c.Sim.TickRate)
	}
	if c.Sim.Duration < 0 {
		return fmt.Errorf("config: sim.duration must not be negative, got %g", c.Sim.Duration)
	}
	if strings.TrimSpace(c.Level) == "" {
		return fmt.Errorf("config: level is empty")
	}
	return nil
}

// TickSeconds is the length of one fixed simulation step.
func (c Config) TickSeconds() float64 {
	return 1 / float64(c.Sim.TickRate)
}
