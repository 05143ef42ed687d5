// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	Arena        ArenaConfig        `yaml:"arena"`
	Clock        ClockConfig        `yaml:"clock"`
	Agent        AgentConfig        `yaml:"agent"`
	Food         FoodConfig         `yaml:"food"`
	Water        WaterConfig        `yaml:"water"`
	Population   PopulationConfig   `yaml:"population"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Palette      []PaletteColor     `yaml:"palette"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Stream       StreamConfig       `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds the bounded world dimensions.
// Zero values fall back to the screen size.
type ArenaConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ClockConfig holds tick cadences.
type ClockConfig struct {
	DecayInterval  int `yaml:"decay_interval"`  // Ticks between hunger/thirst decrements
	RegrowInterval int `yaml:"regrow_interval"` // Ticks between food regrowth rolls
}

// AgentConfig holds forager defaults. New agents, including offspring,
// start with these needs and thresholds.
type AgentConfig struct {
	Hunger          int     `yaml:"hunger"`
	Thirst          int     `yaml:"thirst"`
	HungerMax       int     `yaml:"hunger_max"`
	ThirstMax       int     `yaml:"thirst_max"`
	HungerThreshold int     `yaml:"hunger_threshold"`
	ThirstThreshold int     `yaml:"thirst_threshold"`
	Sight           float64 `yaml:"sight"`
	SightMultiplier float64 `yaml:"sight_multiplier"`
	LifespanUses    int     `yaml:"lifespan_uses"`
	SizeMin         float64 `yaml:"size_min"`
	SizeMax         float64 `yaml:"size_max"`
	Speed           float64 `yaml:"speed"`
	MoveDuration    int     `yaml:"move_duration"` // Drift ticks per movement cycle
	FrameTarget     int     `yaml:"frame_target"`  // Ticks between retargets
}

// FoodConfig holds food-source parameters.
type FoodConfig struct {
	Count        int     `yaml:"count"`
	Size         float64 `yaml:"size"`
	InitialUnits int     `yaml:"initial_units"`
	UnitCap      int     `yaml:"unit_cap"`
	RegrowChance float64 `yaml:"regrow_chance"` // Probability per regrowth roll
}

// WaterConfig holds water-source parameters.
type WaterConfig struct {
	Count   int     `yaml:"count"`
	SizeMin float64 `yaml:"size_min"`
	SizeMax float64 `yaml:"size_max"`
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial           int `yaml:"initial"`
	Max               int `yaml:"max"` // 0 = unlimited
	PlacementAttempts int `yaml:"placement_attempts"`
}

// ReproductionConfig holds mating parameters.
type ReproductionConfig struct {
	MinOffspring  int `yaml:"min_offspring"`
	MaxOffspring  int `yaml:"max_offspring"`
	CooldownTicks int `yaml:"cooldown_ticks"`
	MaturityTicks int `yaml:"maturity_ticks"`
}

// PaletteColor is a named RGB color agents are seeded from.
type PaletteColor struct {
	Name string `yaml:"name"`
	R    uint8  `yaml:"r"`
	G    uint8  `yaml:"g"`
	B    uint8  `yaml:"b"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int  `yaml:"stats_window"` // Ticks per window
	PerfCollectorWindow int  `yaml:"perf_collector_window"`
	BookmarkHistory     int  `yaml:"bookmark_history"`     // Windows kept for bookmark detection
	SnapshotOnBookmark  bool `yaml:"snapshot_on_bookmark"` // Save a world snapshot when a bookmark fires
}

// StreamConfig holds websocket snapshot stream settings.
type StreamConfig struct {
	Addr  string `yaml:"addr"`
	Every int    `yaml:"every"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ArenaW        float64 // Effective arena width
	ArenaH        float64 // Effective arena height
	ExtendedSight float64 // Agent.Sight * Agent.SightMultiplier
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Palette = append([]PaletteColor(nil), c.Palette...)
	return &out
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	w, h := c.Arena.Width, c.Arena.Height
	if w == 0 {
		w = c.Screen.Width
	}
	if h == 0 {
		h = c.Screen.Height
	}
	c.Derived.ArenaW = float64(w)
	c.Derived.ArenaH = float64(h)
	c.Derived.ExtendedSight = c.Agent.Sight * c.Agent.SightMultiplier
}

// ValidationError lists every invalid field found in a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

// Validate checks the configuration for values the simulation cannot run with.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	a := &c.Agent
	check(c.Arena.Width >= 0 && c.Arena.Height >= 0, "arena size must not be negative (got %dx%d)", c.Arena.Width, c.Arena.Height)
	check(c.Arena.Width > 0 || c.Screen.Width > 0, "arena.width or screen.width must be positive")
	check(c.Arena.Height > 0 || c.Screen.Height > 0, "arena.height or screen.height must be positive")
	check(c.Clock.DecayInterval > 0, "clock.decay_interval must be positive (got %d)", c.Clock.DecayInterval)
	check(c.Clock.RegrowInterval > 0, "clock.regrow_interval must be positive (got %d)", c.Clock.RegrowInterval)

	check(a.HungerMax > 0, "agent.hunger_max must be positive (got %d)", a.HungerMax)
	check(a.ThirstMax > 0, "agent.thirst_max must be positive (got %d)", a.ThirstMax)
	check(a.Hunger > 0 && a.Hunger <= a.HungerMax, "agent.hunger must be in (0, hunger_max] (got %d)", a.Hunger)
	check(a.Thirst > 0 && a.Thirst <= a.ThirstMax, "agent.thirst must be in (0, thirst_max] (got %d)", a.Thirst)
	check(a.HungerThreshold >= 0 && a.HungerThreshold <= a.HungerMax, "agent.hunger_threshold must be in [0, hunger_max] (got %d)", a.HungerThreshold)
	check(a.ThirstThreshold >= 0 && a.ThirstThreshold <= a.ThirstMax, "agent.thirst_threshold must be in [0, thirst_max] (got %d)", a.ThirstThreshold)
	check(a.Sight >= 0, "agent.sight must not be negative (got %g)", a.Sight)
	check(a.SightMultiplier >= 1, "agent.sight_multiplier must be at least 1 (got %g)", a.SightMultiplier)
	check(a.LifespanUses > 0, "agent.lifespan_uses must be positive (got %d)", a.LifespanUses)
	check(a.SizeMin > 0 && a.SizeMin <= a.SizeMax, "agent size range invalid (min %g, max %g)", a.SizeMin, a.SizeMax)
	check(a.Speed > 0, "agent.speed must be positive (got %g)", a.Speed)
	check(a.FrameTarget > 0, "agent.frame_target must be positive (got %d)", a.FrameTarget)
	check(a.MoveDuration >= 0 && a.MoveDuration <= a.FrameTarget, "agent.move_duration must be in [0, frame_target] (got %d)", a.MoveDuration)

	check(c.Food.Count >= 0, "food.count must not be negative (got %d)", c.Food.Count)
	check(c.Food.Size > 0, "food.size must be positive (got %g)", c.Food.Size)
	check(c.Food.UnitCap >= 0, "food.unit_cap must not be negative (got %d)", c.Food.UnitCap)
	check(c.Food.InitialUnits >= 0 && c.Food.InitialUnits <= c.Food.UnitCap, "food.initial_units must be in [0, unit_cap] (got %d)", c.Food.InitialUnits)
	check(c.Food.RegrowChance >= 0 && c.Food.RegrowChance <= 1, "food.regrow_chance must be in [0, 1] (got %g)", c.Food.RegrowChance)

	check(c.Water.Count >= 0, "water.count must not be negative (got %d)", c.Water.Count)
	check(c.Water.SizeMin > 0 && c.Water.SizeMin <= c.Water.SizeMax, "water size range invalid (min %g, max %g)", c.Water.SizeMin, c.Water.SizeMax)

	check(c.Population.Initial >= 0, "population.initial must not be negative (got %d)", c.Population.Initial)
	check(c.Population.Max >= 0, "population.max must not be negative (got %d)", c.Population.Max)
	check(c.Population.PlacementAttempts > 0, "population.placement_attempts must be positive (got %d)", c.Population.PlacementAttempts)

	r := &c.Reproduction
	check(r.MinOffspring >= 0 && r.MinOffspring <= r.MaxOffspring, "reproduction offspring range invalid (min %d, max %d)", r.MinOffspring, r.MaxOffspring)
	check(r.CooldownTicks >= 0, "reproduction.cooldown_ticks must not be negative (got %d)", r.CooldownTicks)
	check(r.MaturityTicks >= 0, "reproduction.maturity_ticks must not be negative (got %d)", r.MaturityTicks)

	check(len(c.Palette) > 0, "palette must contain at least one color")
	check(c.Telemetry.StatsWindow > 0, "telemetry.stats_window must be positive (got %d)", c.Telemetry.StatsWindow)
	check(c.Stream.Every >= 0, "stream.every must not be negative (got %d)", c.Stream.Every)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
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
