package game

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/systems"
	"github.com/pthm-cable/forage/telemetry"
)

// testConfig loads the defaults and applies mutate.
func testConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if mutate != nil {
		mutate(cfg)
		if err := cfg.Refresh(); err != nil {
			t.Fatalf("invalid test config: %v", err)
		}
	}
	return cfg
}

// newTestGame returns an empty world.
func newTestGame(t *testing.T, mutate func(*config.Config)) *Game {
	t.Helper()
	return NewGame(testConfig(t, mutate), 1)
}

func TestPopulateBootstrap(t *testing.T) {
	cfg := testConfig(t, nil)
	g, err := NewGameWithOptions(Options{Config: cfg, Seed: 11})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}

	s := g.Snapshot()
	if len(s.Agents) != cfg.Population.Initial {
		t.Errorf("agents = %d, want %d", len(s.Agents), cfg.Population.Initial)
	}
	if len(s.Foods) != cfg.Food.Count || len(s.Waters) != cfg.Water.Count {
		t.Fatalf("foods %d waters %d, want %d and %d", len(s.Foods), len(s.Waters), cfg.Food.Count, cfg.Water.Count)
	}

	var sites []systems.Site
	site := func(x, y, size float64) systems.Site {
		return systems.SiteOf(components.Position{X: x, Y: y}, components.Body{Size: size})
	}
	for _, a := range s.Agents {
		if a.Size < cfg.Agent.SizeMin || a.Size > cfg.Agent.SizeMax {
			t.Errorf("agent size %v outside [%v, %v]", a.Size, cfg.Agent.SizeMin, cfg.Agent.SizeMax)
		}
		if g.Palette().Name(a.Color) == "" {
			t.Errorf("agent color %v has no palette name", a.Color)
		}
		sites = append(sites, site(a.X, a.Y, a.Size))
	}
	for _, f := range s.Foods {
		if len(f.Units) != cfg.Food.InitialUnits {
			t.Errorf("food has %d units, want %d", len(f.Units), cfg.Food.InitialUnits)
		}
		sites = append(sites, site(f.X, f.Y, f.Size))
	}
	for _, w := range s.Waters {
		if w.X-w.Size/2 < 0 || w.X+w.Size/2 > s.ArenaW || w.Y-w.Size/2 < 0 || w.Y+w.Size/2 > s.ArenaH {
			t.Errorf("water at (%v, %v) size %v not inside arena", w.X, w.Y, w.Size)
		}
		sites = append(sites, site(w.X, w.Y, w.Size))
	}

	for i := range sites {
		if systems.IsOverlapping(sites[i], sites[i+1:]) {
			t.Errorf("site %d overlaps a later site", i)
		}
	}
}

func TestPopulateNoRoom(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) {
		c.Arena.Width, c.Arena.Height = 40, 40
		c.Population.PlacementAttempts = 50
	})
	_, err := NewGameWithOptions(Options{Config: cfg, Seed: 3})
	if !errors.Is(err, ErrNoRoom) {
		t.Fatalf("expected ErrNoRoom, got %v", err)
	}
}

func TestDeterministicRuns(t *testing.T) {
	cfg := testConfig(t, nil)
	run := func() Snapshot {
		g, err := NewGameWithOptions(Options{Config: cfg, Seed: 99})
		if err != nil {
			t.Fatalf("NewGameWithOptions: %v", err)
		}
		for range 500 {
			g.Step()
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if a.RunID == b.RunID {
		t.Error("runs should get distinct run IDs")
	}
	if !reflect.DeepEqual(a.Agents, b.Agents) || !reflect.DeepEqual(a.Foods, b.Foods) {
		t.Error("same seed produced different worlds")
	}
}

func TestLongRunInvariants(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) {
		c.Clock.DecayInterval = 20 // Fast metabolism exercises deaths and feeding
		c.Food.RegrowChance = 0.05
	})
	g, err := NewGameWithOptions(Options{Config: cfg, Seed: 5})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}

	for step := 1; step <= 3000; step++ {
		g.Step()
		if step%50 != 0 {
			continue
		}

		count := 0
		query := g.agentFilter.Query()
		for query.Next() {
			pos, _, _, a := query.Get()
			count++
			n := a.Needs
			if n.Hunger < 0 || n.Hunger > n.HungerMax || n.Thirst < 0 || n.Thirst > n.ThirstMax {
				t.Fatalf("tick %d: needs out of range: %+v", g.Tick(), n)
			}
			if a.State != components.StateDead && n.Exhausted() {
				t.Fatalf("tick %d: exhausted agent %d not dead", g.Tick(), a.ID)
			}
			if pos.X < 0 || pos.X > g.arena.W || pos.Y < 0 || pos.Y > g.arena.H {
				t.Fatalf("tick %d: agent %d outside arena at (%v, %v)", g.Tick(), a.ID, pos.X, pos.Y)
			}
			for _, h := range []struct {
				name string
				ok   bool
			}{
				{"food", a.FoodTarget.IsZero() || g.world.Alive(a.FoodTarget)},
				{"water", a.WaterTarget.IsZero() || g.world.Alive(a.WaterTarget)},
				{"partner", a.Partner.IsZero() || g.world.Alive(a.Partner)},
			} {
				if !h.ok {
					t.Fatalf("tick %d: agent %d holds a dangling %s handle", g.Tick(), a.ID, h.name)
				}
			}
		}
		if count != g.AgentCount() {
			t.Fatalf("tick %d: AgentCount %d, world holds %d", g.Tick(), g.AgentCount(), count)
		}
		if limit := cfg.Population.Max; count > limit {
			t.Fatalf("tick %d: population %d above cap %d", g.Tick(), count, limit)
		}
	}
}

func TestStatsWindows(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) {
		c.Telemetry.StatsWindow = 10
	})
	var windows []telemetry.WindowStats
	g, err := NewGameWithOptions(Options{
		Config: cfg,
		Seed:   2,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}

	for range 30 {
		g.Step()
	}

	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	for i, w := range windows {
		if want := int32(10 * (i + 1)); w.WindowEndTick != want {
			t.Errorf("window %d ends at %d, want %d", i, w.WindowEndTick, want)
		}
		if w.Population != w.Idle+w.Hungry+w.Thirsty+w.Both {
			t.Errorf("window %d: population %d does not match state counts", i, w.Population)
		}
	}
	if windows[0].HungerMean != float64(cfg.Agent.Hunger) {
		t.Errorf("first window hunger mean = %v, want %d", windows[0].HungerMean, cfg.Agent.Hunger)
	}
}

func TestOutputFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, func(c *config.Config) {
		c.Telemetry.StatsWindow = 5
	})
	g, err := NewGameWithOptions(Options{Config: cfg, Seed: 4, OutputDir: dir})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	for range 10 {
		g.Step()
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "run.yaml", "perf.csv", "lifetimes.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,population") {
		t.Errorf("unexpected header %q", lines[0])
	}

	runInfo, err := os.ReadFile(filepath.Join(dir, "run.yaml"))
	if err != nil {
		t.Fatalf("reading run.yaml: %v", err)
	}
	if !strings.Contains(string(runInfo), g.RunID()) {
		t.Error("run.yaml does not record the run ID")
	}
}

type recordingPublisher struct {
	idle  bool
	ticks []int32
}

func (p *recordingPublisher) Active() bool {
	return !p.idle
}

func (p *recordingPublisher) Publish(s Snapshot) {
	p.ticks = append(p.ticks, s.Tick)
}

func TestPublishEvery(t *testing.T) {
	pub := &recordingPublisher{}
	g, err := NewGameWithOptions(Options{
		Config:       testConfig(t, nil),
		Empty:        true,
		Publisher:    pub,
		PublishEvery: 2,
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	for range 6 {
		g.Step()
	}
	if !reflect.DeepEqual(pub.ticks, []int32{2, 4, 6}) {
		t.Errorf("published ticks %v, want [2 4 6]", pub.ticks)
	}
}

func TestIdlePublisherSkipsSnapshots(t *testing.T) {
	pub := &recordingPublisher{idle: true}
	g, err := NewGameWithOptions(Options{
		Config:       testConfig(t, nil),
		Empty:        true,
		Publisher:    pub,
		PublishEvery: 1,
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	steps(g, 3)
	if len(pub.ticks) != 0 {
		t.Errorf("idle publisher received ticks %v", pub.ticks)
	}

	pub.idle = false
	g.Step()
	if !reflect.DeepEqual(pub.ticks, []int32{4}) {
		t.Errorf("published ticks %v, want [4]", pub.ticks)
	}
}

func TestUpdateHeadlessSteps(t *testing.T) {
	g, err := NewGameWithOptions(Options{Config: testConfig(t, nil), Empty: true, StepsPerUpdate: 4})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	g.UpdateHeadless()
	if g.Tick() != 4 {
		t.Errorf("tick = %d, want 4", g.Tick())
	}
	g.SetStepsPerUpdate(0)
	if g.StepsPerUpdate() != 1 {
		t.Errorf("steps per update = %d, want 1", g.StepsPerUpdate())
	}
}

func TestExtinctionBookmark(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, func(c *config.Config) {
		c.Clock.DecayInterval = 1
		c.Telemetry.StatsWindow = 5
	})
	g, err := NewGameWithOptions(Options{Config: cfg, Empty: true, OutputDir: dir})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	e := g.SpawnAgent(100, 100, 10, components.Color{R: 255})
	g.agentMap.Get(e).Needs.Hunger = 1

	for range 5 {
		g.Step()
	}
	g.Unload()

	marks := g.Bookmarks()
	if len(marks) != 1 || marks[0].Type != telemetry.BookmarkExtinction || marks[0].Tick != 5 {
		t.Fatalf("bookmarks = %+v, want one extinction at tick 5", marks)
	}

	snap, err := telemetry.LoadSnapshot[Snapshot](filepath.Join(dir, "snapshots", "snapshot_5_extinction.json"))
	if err != nil {
		t.Fatalf("loading bookmark snapshot: %v", err)
	}
	if snap.RunID != g.RunID() || len(snap.World.Agents) != 0 {
		t.Errorf("snapshot run %q with %d agents", snap.RunID, len(snap.World.Agents))
	}
}
