package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-player/common"
	"github.com/Carmen-Shannon/oxy-player/engine/player"
	"github.com/Carmen-Shannon/oxy-player/logger"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ErrNoWorld is returned when the configuration names no world file.
var ErrNoWorld = errors.New("world.path is required")

// Config is the demo host configuration file.
type Config struct {
	Logging   logger.Config   `yaml:"logging"`
	Window    WindowConfig    `yaml:"window"`
	Engine    EngineConfig    `yaml:"engine"`
	Player    player.Config   `yaml:"player"`
	World     WorldConfig     `yaml:"world"`
	Character CharacterConfig `yaml:"character"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// DisableRawMouse turns off unaccelerated mouse motion while the pointer is locked.
	DisableRawMouse bool `yaml:"disable_raw_mouse"`
}

type EngineConfig struct {
	// TickRate is the simulation rate in ticks per second.
	TickRate  float64 `yaml:"tick_rate"`
	Profiling bool    `yaml:"profiling"`
}

// WorldConfig names the level geometry and how its octree is built.
type WorldConfig struct {
	Path         string     `yaml:"path"`
	MaxDepth     int        `yaml:"max_depth"`
	MaxTriangles int        `yaml:"max_triangles"`
	Workers      int        `yaml:"workers"`
	SpawnOffset  mgl32.Vec3 `yaml:"spawn_offset"`
}

// CharacterConfig names an optional character model used for third-person mode.
type CharacterConfig struct {
	Path string `yaml:"path"`
}

// Default returns a configuration with every section at its default.
// The world path is left empty and must be supplied.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Logging: logger.DefaultConfig(),
		Window: WindowConfig{
			Title:  "oxy-player",
			Width:  1280,
			Height: 720,
		},
		Engine: EngineConfig{TickRate: 60},
		Player: player.DefaultConfig(),
		World: WorldConfig{
			MaxDepth:     8,
			MaxTriangles: 8,
			Workers:      4,
		},
	}
}

// Load reads and validates the YAML configuration at path.
//
// Parameters:
//   - path: the configuration file
//
// Returns:
//   - *Config: the completed configuration
//   - error: error if the file cannot be read or is invalid
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML configuration, fills zero fields with defaults and validates the result.
// Unknown keys are rejected.
//
// Parameters:
//   - r: the YAML source
//
// Returns:
//   - *Config: the completed configuration
//   - error: error if the document is malformed or invalid
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()

	if c.Logging.Level == "" && c.Logging.Format == "" && len(c.Logging.OutputPaths) == 0 {
		c.Logging = d.Logging
	}
	c.Logging.Level = common.Coalesce(c.Logging.Level, d.Logging.Level)
	c.Logging.Format = common.Coalesce(c.Logging.Format, d.Logging.Format)

	c.Window.Title = common.Coalesce(c.Window.Title, d.Window.Title)
	c.Window.Width = common.Coalesce(c.Window.Width, d.Window.Width)
	c.Window.Height = common.Coalesce(c.Window.Height, d.Window.Height)

	c.Engine.TickRate = common.Coalesce(c.Engine.TickRate, d.Engine.TickRate)

	c.Player = c.Player.WithDefaults()

	c.World.MaxDepth = common.Coalesce(c.World.MaxDepth, d.World.MaxDepth)
	c.World.MaxTriangles = common.Coalesce(c.World.MaxTriangles, d.World.MaxTriangles)
	c.World.Workers = common.Coalesce(c.World.Workers, d.World.Workers)
}

// Validate checks a completed configuration.
//
// Returns:
//   - error: the first problem found, or nil
func (c *Config) Validate() error {
	if c.World.Path == "" {
		return ErrNoWorld
	}
	if c.Engine.TickRate < 0 {
		return fmt.Errorf("engine.tick_rate must not be negative: got %v", c.Engine.TickRate)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size must not be negative: got %dx%d", c.Window.Width, c.Window.Height)
	}
	if err := c.Player.Validate(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	return nil
}
