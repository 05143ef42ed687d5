package game

import (
	"log/slog"
	"path/filepath"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/telemetry"
)

// flushTelemetry closes the stats window when it is due and hands the
// result to the callback, the log and the CSV output.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.census())
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	marks := g.bookmarks.Check(stats)
	for _, b := range marks {
		b.LogBookmark()
	}
	g.marks = append(g.marks, marks...)

	if g.output != nil {
		if err := g.output.WriteBookmarks(marks); err != nil {
			slog.Error("failed to write bookmarks", "error", err)
		}
		if g.cfg.Telemetry.SnapshotOnBookmark {
			g.saveSnapshots(marks)
		}
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := g.output.WriteLifetimes(g.retired); err != nil {
			slog.Error("failed to write lifetimes", "error", err)
		}
	}
	g.retired = g.retired[:0]
}

// saveSnapshots writes the current world once per triggered bookmark.
func (g *Game) saveSnapshots(marks []telemetry.Bookmark) {
	if len(marks) == 0 {
		return
	}
	world := g.Snapshot()
	dir := filepath.Join(g.output.Dir(), "snapshots")
	for i := range marks {
		file := telemetry.SnapshotFile[Snapshot]{
			Version:  telemetry.SnapshotVersion,
			RunID:    g.runID,
			Seed:     g.seed,
			Tick:     g.tick,
			Bookmark: &marks[i],
			World:    world,
		}
		path, err := telemetry.SaveSnapshot(file, dir)
		if err != nil {
			slog.Error("failed to save snapshot", "error", err)
			continue
		}
		slog.Info("snapshot saved", "path", path)
	}
}

// census samples agent states, needs and food stock.
func (g *Game) census() telemetry.Census {
	var c telemetry.Census

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, a := query.Get()
		c.States[a.State]++
		if a.State == components.StateDead {
			continue
		}
		c.Hunger = append(c.Hunger, float64(a.Needs.Hunger))
		c.Thirst = append(c.Thirst, float64(a.Needs.Thirst))
	}

	fq := g.foodFilter.Query()
	for fq.Next() {
		_, _, food := fq.Get()
		c.FoodUnits += len(food.Units)
	}
	return c
}

// Census returns the current population sample.
func (g *Game) Census() telemetry.Census {
	return g.census()
}
