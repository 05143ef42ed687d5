// Package game owns the forager world and advances it tick by tick.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/systems"
	"github.com/pthm-cable/forage/telemetry"
)

// Publisher receives a snapshot after selected ticks. Snapshots are only
// built while Active reports true.
type Publisher interface {
	Active() bool
	Publish(s Snapshot)
}

// Options configures game initialization.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	Empty          bool // Skip the initial world bootstrap
	LogStats       bool
	OutputDir      string
	StepsPerUpdate int

	// StatsCallback is called with each flushed stats window.
	StatsCallback func(telemetry.WindowStats)

	// Publisher receives a snapshot every PublishEvery ticks.
	Publisher    Publisher
	PublishEvery int
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  int64
	runID string

	agentMapper *ecs.Map4[components.Position, components.Velocity, components.Body, components.Agent]
	foodMapper  *ecs.Map3[components.Position, components.Body, components.Food]
	waterMapper *ecs.Map3[components.Position, components.Body, components.Water]

	agentFilter *ecs.Filter4[components.Position, components.Velocity, components.Body, components.Agent]
	foodFilter  *ecs.Filter3[components.Position, components.Body, components.Food]
	waterFilter *ecs.Filter3[components.Position, components.Body, components.Water]

	// Component mappers for handle lookups
	posMap   *ecs.Map[components.Position]
	bodyMap  *ecs.Map[components.Body]
	agentMap *ecs.Map[components.Agent]
	foodMap  *ecs.Map[components.Food]

	// Positions captured at tick start
	foods    []systems.Candidate
	waters   []systems.Candidate
	agents   []systems.Candidate
	mateGrid *systems.SpatialGrid

	// Query scratch buffers
	foodHits  []systems.Hit
	waterHits []systems.Hit
	mateHits  []systems.Hit

	arena   systems.Arena
	move    systems.MoveParams
	palette Palette

	tick      int32
	nextID    uint32
	numAgents int
	extinct   bool

	// Telemetry
	collector      *telemetry.Collector
	lifetime       *telemetry.LifetimeTracker
	perf           *telemetry.PerfCollector
	output         *telemetry.OutputManager
	retired        []telemetry.LifetimeStats
	bookmarks      *telemetry.BookmarkDetector
	marks          []telemetry.Bookmark
	logStats       bool
	statsCallback  func(telemetry.WindowStats)
	stepsPerUpdate int

	publisher    Publisher
	publishEvery int
}

// NewGame creates a game with an empty world using the given config.
func NewGame(cfg *config.Config, seed int64) *Game {
	g, _ := NewGameWithOptions(Options{Config: cfg, Seed: seed, Empty: true})
	return g
}

// NewGameWithOptions creates a game and, unless opts.Empty is set, places
// the initial agents and resources. Placement failure is reported as an error.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	world := ecs.NewWorld()
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		seed:  opts.Seed,
		runID: uuid.NewString(),

		agentMapper: ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Agent](world),
		foodMapper:  ecs.NewMap3[components.Position, components.Body, components.Food](world),
		waterMapper: ecs.NewMap3[components.Position, components.Body, components.Water](world),

		agentFilter: ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Agent](world),
		foodFilter:  ecs.NewFilter3[components.Position, components.Body, components.Food](world),
		waterFilter: ecs.NewFilter3[components.Position, components.Body, components.Water](world),

		posMap:   ecs.NewMap[components.Position](world),
		bodyMap:  ecs.NewMap[components.Body](world),
		agentMap: ecs.NewMap[components.Agent](world),
		foodMap:  ecs.NewMap[components.Food](world),

		arena: systems.Arena{W: cfg.Derived.ArenaW, H: cfg.Derived.ArenaH},
		move: systems.MoveParams{
			Speed:        cfg.Agent.Speed,
			MoveDuration: cfg.Agent.MoveDuration,
			FrameTarget:  cfg.Agent.FrameTarget,
		},
		palette: Palette(cfg.Palette),
		nextID:  1,

		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		lifetime:       telemetry.NewLifetimeTracker(),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks:      telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		stepsPerUpdate: steps,
		publisher:      opts.Publisher,
		publishEvery:   max(opts.PublishEvery, 1),
	}

	// Cells sized to the extended sight keep mate queries to a few cells
	g.mateGrid = systems.NewSpatialGrid(g.arena.W, g.arena.H, max(cfg.Derived.ExtendedSight, 16))

	if !opts.Empty {
		if err := g.populate(); err != nil {
			return nil, fmt.Errorf("initializing world: %w", err)
		}
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		g.output = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
		info := telemetry.RunInfo{RunID: g.runID, Seed: g.seed, StartedAt: time.Now().UTC()}
		if err := om.WriteRunInfo(info); err != nil {
			slog.Error("failed to write run info", "error", err)
		}
		slog.Info("output enabled", "dir", opts.OutputDir, "run_id", g.runID)
	}

	return g, nil
}

// UpdateHeadless runs StepsPerUpdate simulation ticks.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Unload flushes and closes telemetry output.
func (g *Game) Unload() {
	if g.output == nil {
		return
	}
	if err := g.output.WriteLifetimes(g.retired); err != nil {
		slog.Error("failed to write lifetimes", "error", err)
	}
	g.retired = g.retired[:0]
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.output = nil
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// AgentCount returns the number of agents in the world, including any
// marked dead and awaiting removal.
func (g *Game) AgentCount() int {
	return g.numAgents
}

// RunID returns the unique identifier of this run.
func (g *Game) RunID() string {
	return g.runID
}

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 {
	return g.seed
}

// Config returns the configuration in use.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Arena returns the world bounds.
func (g *Game) Arena() systems.Arena {
	return g.arena
}

// Palette returns the named colors agents are seeded from.
func (g *Game) Palette() Palette {
	return g.palette
}

// PerfStats returns tick timing over the perf window.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perf.Stats()
}

// RecordFrame records a rendered frame for FPS reporting.
func (g *Game) RecordFrame() {
	g.perf.RecordFrame()
}

// Oldest returns the longest-lived agent that has died so far.
func (g *Game) Oldest() (telemetry.LifetimeStats, bool) {
	return g.lifetime.Oldest()
}

// Bookmarks returns every bookmark triggered so far.
func (g *Game) Bookmarks() []telemetry.Bookmark {
	return g.marks
}

// StepsPerUpdate returns the ticks run per update.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetStepsPerUpdate sets the ticks run per update, at least 1.
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(n, 1)
}

// alive reports whether a handle refers to a live entity.
func (g *Game) alive(e ecs.Entity) bool {
	return !e.IsZero() && g.world.Alive(e)
}

// Agent returns a copy of an agent's state.
func (g *Game) Agent(e ecs.Entity) (components.Agent, bool) {
	if !g.alive(e) || !g.agentMap.Has(e) {
		return components.Agent{}, false
	}
	return *g.agentMap.Get(e), true
}

// FoodUnits returns the forage units left on a food-source.
func (g *Game) FoodUnits(e ecs.Entity) (int, bool) {
	if !g.alive(e) || !g.foodMap.Has(e) {
		return 0, false
	}
	return len(g.foodMap.Get(e).Units), true
}

// Alive reports whether an entity handle is still live.
func (g *Game) Alive(e ecs.Entity) bool {
	return g.alive(e)
}
