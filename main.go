package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/game"
	"github.com/pthm-cable/forage/stream"
	"github.com/pthm-cable/forage/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	streamAddr := flag.String("stream-addr", "", "Serve websocket snapshots on this address (empty = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}

	addr := cfg.Stream.Addr
	if *streamAddr != "" {
		addr = *streamAddr
	}
	if addr != "" {
		hub := stream.NewHub()
		srv := stream.NewServer(addr, hub)
		go func() {
			if err := srv.Run(ctx); err != nil {
				slog.Error("stream server stopped", "error", err)
			}
		}()
		opts.Publisher = hub
		opts.PublishEvery = cfg.Stream.Every
	}

	if *headless {
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to create game", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"run_id", g.RunID(),
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for ctx.Err() == nil {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick(), "agents", g.AgentCount())
				return
			}
		}
		slog.Info("interrupted", "tick", g.Tick())
		return
	}

	// Graphical mode
	screenW, screenH := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(screenW, screenH, "Forage")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	v := viewer.New(g, screenW, screenH)
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		v.Update()
		v.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
