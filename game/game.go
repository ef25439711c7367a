// Package game hosts the scene in a raylib window.
package game

import (
	"context"
	"image"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shrine/assets"
	"github.com/pthm-cable/shrine/camera"
	"github.com/pthm-cable/shrine/config"
	"github.com/pthm-cable/shrine/frame"
	"github.com/pthm-cable/shrine/renderer"
	"github.com/pthm-cable/shrine/scene"
	"github.com/pthm-cable/shrine/systems"
	"github.com/pthm-cable/shrine/telemetry"
)

// loadWorkers is the number of texture decoding goroutines.
const loadWorkers = 4

// Options configures a new Game.
type Options struct {
	Seed      int64
	AssetsDir string
	LogStats  bool
	Emitter   *systems.EmitterAdapter
	Output    *telemetry.OutputManager
}

// Game owns the window-side state: the scene, its frame loop, the GPU
// texture cache and pointer input.
type Game struct {
	cfg   *config.Config
	scene *scene.Scene

	host  *frame.ManualHost
	sched *frame.Scheduler

	textures *renderer.TextureCache
	view     *renderer.SceneRenderer

	loader  *scene.Loader
	results <-chan assets.Result
	cancel  context.CancelFunc

	perf   *telemetry.PerfCollector
	output *telemetry.OutputManager

	screenWidth, screenHeight float32
	screenshotPending         bool
}

// NewGame creates the scene and starts loading its textures.
// Must be called after the window is open.
func NewGame(cfg *config.Config, opts Options) *Game {
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	sc := scene.New(cfg, scene.Options{
		Seed:      opts.Seed,
		Navigator: browser{},
		Emitter:   opts.Emitter,
		Perf:      perf,
		Output:    opts.Output,
		LogStats:  opts.LogStats,
	})

	g := &Game{
		cfg:          cfg,
		scene:        sc,
		host:         frame.NewManualHost(),
		textures:     renderer.NewTextureCache(),
		perf:         perf,
		output:       opts.Output,
		screenWidth:  float32(rl.GetScreenWidth()),
		screenHeight: float32(rl.GetScreenHeight()),
	}
	g.view = renderer.NewSceneRenderer(sc, g.textures)
	sc.SetRenderer(g.view)
	sc.Camera.Resize(float64(g.screenWidth), float64(g.screenHeight))

	reqs := sc.TextureRequests()
	g.loader = scene.NewLoader(sc, reqs)
	g.loader.OnTexture = g.textures.Upload

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.results = assets.LoadAsync(ctx, opts.AssetsDir, reqs, loadWorkers)

	g.sched = frame.NewScheduler(g.host, sc.Tick)
	g.sched.Start()

	slog.Info("game_started", "textures", len(reqs), "session", opts.Output.Session())
	return g
}

// Frame runs one window frame: apply finished loads, handle input, then
// present the frame to the scheduler, which ticks and renders the scene.
func (g *Game) Frame() {
	g.drainAssets()
	g.handleInput()
	g.scene.Camera.Update()
	g.perf.RecordFrame()

	if g.host.Pump(time.Now()) == 0 {
		// Paused: redraw the frozen scene.
		g.view.Render()
	}

	if g.screenshotPending {
		g.screenshotPending = false
		g.saveScreenshot()
	}
}

// drainAssets applies every load result that is ready without blocking.
func (g *Game) drainAssets() {
	for g.results != nil {
		select {
		case res, ok := <-g.results:
			if !ok {
				g.results = nil
				slog.Info("assets_loaded", "textures", g.textures.Len(), "pending", g.loader.Pending())
				return
			}
			g.loader.Apply(res)
		default:
			return
		}
	}
}

// Tick returns the number of completed scene ticks.
func (g *Game) Tick() int64 {
	return g.scene.Ticks()
}

// Scene returns the hosted scene.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Pause stops the frame loop; Resume restarts it.
func (g *Game) Pause() {
	g.sched.Stop()
}

// Resume restarts the frame loop.
func (g *Game) Resume() {
	g.sched.Start()
}

// surface is the full window.
func (g *Game) surface() camera.Surface {
	return camera.Surface{W: float64(g.screenWidth), H: float64(g.screenHeight)}
}

func (g *Game) saveScreenshot() {
	shot := rl.LoadImageFromScreen()
	img := assets.ToNRGBA(shot.ToImage())
	rl.UnloadImage(shot)

	path := g.output.NextScreenshotPath()
	go func(img *image.NRGBA) {
		if err := assets.SaveWebP(path, img); err != nil {
			slog.Error("screenshot_failed", "path", path, "error", err)
			return
		}
		slog.Info("screenshot_saved", "path", path)
	}(img)
}

// Unload stops the loop and releases GPU resources.
func (g *Game) Unload() {
	g.sched.Stop()
	g.cancel()
	g.textures.Unload()
}

// browser opens URLs with the platform handler.
type browser struct{}

// Open implements systems.Navigator.
func (browser) Open(url string) error {
	rl.OpenURL(url)
	return nil
}
