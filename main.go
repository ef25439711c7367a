package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shrine/assets"
	"github.com/pthm-cable/shrine/config"
	"github.com/pthm-cable/shrine/frame"
	"github.com/pthm-cable/shrine/game"
	"github.com/pthm-cable/shrine/scene"
	"github.com/pthm-cable/shrine/snapshot"
	"github.com/pthm-cable/shrine/systems"
	"github.com/pthm-cable/shrine/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	assetsDir := flag.String("assets", "static", "Directory holding textures and the flame definition")
	headless := flag.Bool("headless", false, "Run without a window, composing snapshots on the CPU")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and screenshots")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	snapshotEvery := flag.Int64("snapshot-every", 0, "Headless: save a snapshot every N ticks (0 = never)")
	snapshotScale := flag.Float64("snapshot-scale", 0.5, "Headless: snapshot size relative to the screen")

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

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	emitter := loadEmitter(cfg, *assetsDir)

	if *headless {
		runHeadless(cfg, headlessOptions{
			seed:          rngSeed,
			assetsDir:     *assetsDir,
			logStats:      *logStats,
			maxTicks:      *maxTicks,
			snapshotEvery: *snapshotEvery,
			snapshotScale: *snapshotScale,
			emitter:       emitter,
			output:        output,
		})
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGame(cfg, game.Options{
		Seed:      rngSeed,
		AssetsDir: *assetsDir,
		LogStats:  *logStats,
		Emitter:   emitter,
		Output:    output,
	})
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Frame()

		if *maxTicks > 0 && g.Tick() >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}
}

// loadEmitter builds the flame engine. A failure is logged and the scene
// runs without flames.
func loadEmitter(cfg *config.Config, assetsDir string) *systems.EmitterAdapter {
	if !cfg.Emitter.Enabled {
		return nil
	}
	path := filepath.Join(assetsDir, cfg.Emitter.ConfigPath)
	off := cfg.Emitter.Offset
	emitter, err := systems.NewEmitterAdapter(path, r3.Vec{X: off[0], Y: off[1], Z: off[2]})
	if err != nil {
		slog.Warn("flame emitter disabled", "path", path, "error", err)
		return nil
	}
	return emitter
}

type headlessOptions struct {
	seed          int64
	assetsDir     string
	logStats      bool
	maxTicks      int64
	snapshotEvery int64
	snapshotScale float64
	emitter       *systems.EmitterAdapter
	output        *telemetry.OutputManager
}

// runHeadless loads every texture up front, then pumps frames with
// synthetic timestamps at the target frame rate.
func runHeadless(cfg *config.Config, opts headlessOptions) {
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	sc := scene.New(cfg, scene.Options{
		Seed:     opts.seed,
		Emitter:  opts.emitter,
		Perf:     perf,
		Output:   opts.output,
		LogStats: opts.logStats,
	})

	writer := snapshot.NewWriter(sc, opts.output, opts.snapshotEvery, opts.snapshotScale)
	sc.SetRenderer(writer)

	reqs := sc.TextureRequests()
	loader := scene.NewLoader(sc, reqs)
	loader.OnTexture = writer.Comp.AddTexture
	for res := range assets.LoadAsync(context.Background(), opts.assetsDir, reqs, 4) {
		loader.Apply(res)
	}

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	step := time.Second / time.Duration(fps)

	slog.Info("starting headless scene",
		"seed", opts.seed,
		"max_ticks", opts.maxTicks,
		"snapshot_every", opts.snapshotEvery,
		"session", opts.output.Session(),
	)

	host := frame.NewManualHost()
	sched := frame.NewScheduler(host, sc.Tick)
	sched.Start()
	defer sched.Stop()

	now := time.Now()
	for {
		perf.RecordFrame()
		host.Pump(now)
		now = now.Add(step)

		if opts.maxTicks > 0 && sc.Ticks() >= opts.maxTicks {
			slog.Info("max ticks reached", "tick", sc.Ticks(), "snapshots", writer.Saved())
			return
		}
	}
}
