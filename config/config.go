package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Display DisplayConfig `toml:"display"`
	Audio   AudioConfig   `toml:"audio"`
	Logging LoggingConfig `toml:"logging"`
	AI      AIConfig      `toml:"ai"`
	Content ContentConfig `toml:"content"`

	// Keys rebinds physical keys to game keys, e.g. k = "up"
	// Entries merge over the built-in bindings, "none" unbinds
	Keys map[string]string `toml:"keys"`
}

type EngineConfig struct {
	Timestep     float64 `toml:"timestep"`       // fixed step in seconds
	MaxFrameTime float64 `toml:"max_frame_time"` // accumulator clamp in seconds, <= 0 disables
	TimeScale    float64 `toml:"time_scale"`
	Seed         int64   `toml:"seed"` // 0 seeds from the wall clock
}

type DisplayConfig struct {
	Color       string        `toml:"color"`        // "auto", "truecolor", "256"
	HoldWindow  time.Duration `toml:"hold_window"`  // how long an auto-repeat counts as held
	RepeatDelay time.Duration `toml:"repeat_delay"` // minimum hold of a fresh press, covers the terminal's repeat delay
}

type AudioConfig struct {
	Enabled      bool    `toml:"enabled"`
	MasterVolume float64 `toml:"master_volume"` // 0.0-1.0
	SampleRate   int     `toml:"sample_rate"`
}

type LoggingConfig struct {
	Enabled bool   `toml:"enabled"`
	Level   string `toml:"level"`
	Format  string `toml:"format"` // "json" or "console"
	File    string `toml:"file"`
}

type AIConfig struct {
	Script string `toml:"script"` // optional Lua file overriding the aim error
}

type ContentConfig struct {
	Root string `toml:"root"` // asset directory, empty uses the embedded set
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Timestep:     1.0 / 60,
			MaxFrameTime: 0.25,
			TimeScale:    1.0,
		},
		Display: DisplayConfig{
			Color:       "auto",
			HoldWindow:  120 * time.Millisecond,
			RepeatDelay: 550 * time.Millisecond,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.5,
			SampleRate:   44100,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
			Format:  "console",
			File:    "logs/rally.log",
		},
	}
}

// Load overlays the TOML file at path on the defaults, an empty path yields defaults
// Environment overrides are applied last
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv reads RALLY_* overrides, malformed values are ignored
func applyEnv(cfg *Config) {
	if enabled := os.Getenv("RALLY_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Audio.Enabled = val
		}
	}

	// Master volume as 0-100
	if volume := os.Getenv("RALLY_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.Audio.MasterVolume = min(max(float64(val)/100.0, 0), 1)
		}
	}
}

// Validate rejects values the engine cannot run with
func (c *Config) Validate() error {
	if c.Engine.Timestep <= 0 {
		return fmt.Errorf("engine.timestep %g must be positive: %w", c.Engine.Timestep, ErrInvalidConfig)
	}
	if c.Engine.TimeScale < 0 {
		return fmt.Errorf("engine.time_scale %g must not be negative: %w", c.Engine.TimeScale, ErrInvalidConfig)
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		return fmt.Errorf("audio.master_volume %g outside [0,1]: %w", c.Audio.MasterVolume, ErrInvalidConfig)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate %d must be positive: %w", c.Audio.SampleRate, ErrInvalidConfig)
	}
	if c.Display.HoldWindow <= 0 || c.Display.RepeatDelay < 0 {
		return fmt.Errorf("display.hold_window %v must be positive and repeat_delay %v not negative: %w",
			c.Display.HoldWindow, c.Display.RepeatDelay, ErrInvalidConfig)
	}
	switch c.Display.Color {
	case "auto", "truecolor", "256":
	default:
		return fmt.Errorf("display.color %q unknown: %w", c.Display.Color, ErrInvalidConfig)
	}
	return nil
}
