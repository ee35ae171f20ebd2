// Package config provides configuration loading and access for the grid simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Grid       GridConfig       `yaml:"grid"`
	Mover      MoverConfig      `yaml:"mover"`
	Target     TargetConfig     `yaml:"target"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds tile grid layout and map source settings.
type GridConfig struct {
	Rows            int     `yaml:"rows"`             // Used when map_file is empty
	Cols            int     `yaml:"cols"`             // Used when map_file is empty
	TileWidth       float64 `yaml:"tile_width"`       // Pixels
	TileHeight      float64 `yaml:"tile_height"`      // Pixels
	Spacing         float64 `yaml:"spacing"`          // Gap between tiles in pixels
	MapFile         string  `yaml:"map_file"`         // Text map, one row per line
	Separator       string  `yaml:"separator"`        // Optional single character stripped from map rows
	FillID          string  `yaml:"fill_id"`          // Tile id for generated grids
	SolidIDs        string  `yaml:"solid_ids"`        // Tile ids that start collidable
	AttachColliders bool    `yaml:"attach_colliders"` // Create static bodies for solid tiles
}

// MoverConfig holds default grid mover parameters.
type MoverConfig struct {
	MaxSpeedX       float64 `yaml:"max_speed_x"` // Pixels per second
	MaxSpeedY       float64 `yaml:"max_speed_y"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
	Restriction     string  `yaml:"restriction"` // none, all, horizontal, vertical, diagonal, non_diagonal
}

// TargetConfig holds defaults for path-following movers.
type TargetConfig struct {
	Adaptive    bool   `yaml:"adaptive"`
	StartMoving bool   `yaml:"start_moving"`
	Strategy    string `yaml:"strategy"` // bfs or astar
}

// SimulationConfig holds frame stepping and population parameters.
type SimulationConfig struct {
	DT             float64 `yaml:"dt"`
	StepsPerUpdate int     `yaml:"steps_per_update"`
	Walkers        int     `yaml:"walkers"`  // Autonomous path-following entities
	Crates         int     `yaml:"crates"`   // Static obstacle entities
	Seed           int64   `yaml:"seed"`     // 0 = time based
	PlayerRow      int     `yaml:"player_row"`
	PlayerCol      int     `yaml:"player_col"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds of simulated time per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks averaged by the perf collector
	EventLog    bool    `yaml:"event_log"`    // Record every mover event to events.csv
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Simulation.DT as float32
	TileW32   float32
	TileH32   float32
	Spacing32 float32
	Separator byte   // 0 = none
	FillID    byte
	SolidIDs  []byte // Grid.SolidIDs as bytes
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Grid.TileWidth <= 0 || c.Grid.TileHeight <= 0 {
		return fmt.Errorf("grid tile size must be positive, got %vx%v", c.Grid.TileWidth, c.Grid.TileHeight)
	}
	if c.Grid.Spacing < 0 {
		return fmt.Errorf("grid spacing must not be negative, got %v", c.Grid.Spacing)
	}
	if len(c.Grid.Separator) > 1 {
		return fmt.Errorf("grid separator must be a single character, got %q", c.Grid.Separator)
	}
	if len(c.Grid.FillID) != 1 {
		return fmt.Errorf("grid fill_id must be a single character, got %q", c.Grid.FillID)
	}
	if c.Grid.MapFile == "" && (c.Grid.Rows <= 0 || c.Grid.Cols <= 0) {
		return fmt.Errorf("grid needs rows and cols when no map_file is set")
	}
	if c.Simulation.DT <= 0 {
		return fmt.Errorf("simulation dt must be positive, got %v", c.Simulation.DT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)
	c.Derived.TileW32 = float32(c.Grid.TileWidth)
	c.Derived.TileH32 = float32(c.Grid.TileHeight)
	c.Derived.Spacing32 = float32(c.Grid.Spacing)

	c.Derived.Separator = 0
	if c.Grid.Separator != "" {
		c.Derived.Separator = c.Grid.Separator[0]
	}
	c.Derived.FillID = c.Grid.FillID[0]
	c.Derived.SolidIDs = []byte(c.Grid.SolidIDs)

	if c.Simulation.StepsPerUpdate < 1 {
		c.Simulation.StepsPerUpdate = 1
	}
	if c.Mover.SpeedMultiplier == 0 {
		c.Mover.SpeedMultiplier = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
