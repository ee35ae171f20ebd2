// Package game runs the tile grid scene: one player-driven mover, a number
// of path-following walkers and static crates, stepped headless or drawn
// with raylib.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/tilewalk/camera"
	"github.com/pthm-cable/tilewalk/config"
	"github.com/pthm-cable/tilewalk/event"
	"github.com/pthm-cable/tilewalk/grid"
	"github.com/pthm-cable/tilewalk/mover"
	"github.com/pthm-cable/tilewalk/pathfind"
	"github.com/pthm-cable/tilewalk/physics"
	"github.com/pthm-cable/tilewalk/renderer"
	"github.com/pthm-cable/tilewalk/scene"
	"github.com/pthm-cable/tilewalk/telemetry"
	"github.com/pthm-cable/tilewalk/ui"
)

// Options configures a new game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64          // 0 = simulation.seed, then time based
	LogStats       bool           // Log window stats via slog
	StatsWindowSec float64        // 0 = telemetry.stats_window
	OutputDir      string         // Empty disables CSV output
	Headless       bool
	StepsPerUpdate int // 0 = simulation.steps_per_update
	Logger         *slog.Logger
}

// Game holds the complete scene state.
type Game struct {
	cfg    *config.Config
	logger *slog.Logger
	rng    *rand.Rand
	seed   int64

	scene   *scene.Scene
	grid    *grid.Grid
	physics *physics.World

	player    *mover.GridMover
	walkers   []*mover.TargetGridMover
	idleTicks []int // Per walker, ticks since it last moved
	crates    int

	moverOpts mover.Options

	// Telemetry
	collector     *telemetry.Collector
	recorder      *telemetry.Recorder
	profiler      *telemetry.Profiler
	outputManager *telemetry.OutputManager
	logStats      bool
	arrivals      int

	// State
	tick           int32
	dt             float32
	stepsPerUpdate int
	controls       ui.Controls
	selected       int // Walker index, -1 = none

	// Graphics, nil when headless
	headless       bool
	screenWidth    float32
	screenHeight   float32
	camera         *camera.Camera
	tileRenderer   *renderer.TileRenderer
	entityRenderer *renderer.EntityRenderer
	hud            *ui.HUD
	overlays       *ui.OverlayRegistry
	controlsPanel  *ui.ControlsPanel
	controlPanel   *ui.ControlPanel
	perfPanel      *ui.PerfPanel
}

// New builds the scene described by the configuration.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	restriction, err := mover.ParseRestriction(cfg.Mover.Restriction)
	if err != nil {
		return nil, fmt.Errorf("mover config: %w", err)
	}
	if restriction.AllowsDiagonal() && cfg.Mover.MaxSpeedX != cfg.Mover.MaxSpeedY {
		return nil, fmt.Errorf("mover config: restriction %s needs equal speeds, got %v and %v",
			restriction, cfg.Mover.MaxSpeedX, cfg.Mover.MaxSpeedY)
	}
	if cfg.Simulation.Walkers > 0 && !restriction.AllowsCardinal() {
		return nil, fmt.Errorf("mover config: walkers follow 4-way paths, restriction %s forbids some of them", restriction)
	}

	if _, err := pathfind.NewStrategy(cfg.Target.Strategy); err != nil {
		return nil, fmt.Errorf("target config: %w", err)
	}

	g := &Game{
		cfg:      cfg,
		logger:   logger,
		rng:      rand.New(rand.NewSource(seed)),
		seed:     seed,
		scene:    scene.New(),
		dt:       cfg.Derived.DT32,
		logStats: opts.LogStats,
		selected: -1,
		headless: opts.Headless,
		moverOpts: mover.Options{
			MaxSpeedX:   float32(cfg.Mover.MaxSpeedX),
			MaxSpeedY:   float32(cfg.Mover.MaxSpeedY),
			Restriction: restriction,
		},
		controls: ui.Controls{
			Adaptive:        cfg.Target.Adaptive,
			Restriction:     restriction,
			SpeedMultiplier: float32(cfg.Mover.SpeedMultiplier),
		},
	}

	g.stepsPerUpdate = opts.StepsPerUpdate
	if g.stepsPerUpdate < 1 {
		g.stepsPerUpdate = cfg.Simulation.StepsPerUpdate
	}

	if err := g.buildGrid(); err != nil {
		return nil, err
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, g.dt)
	g.recorder = telemetry.NewRecorder(g.collector, cfg.Telemetry.EventLog && opts.OutputDir != "")
	g.profiler = telemetry.NewProfiler(cfg.Telemetry.PerfWindow)

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir, cfg.Telemetry.EventLog)
	if err != nil {
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		g.outputManager.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if err := g.spawnPopulation(); err != nil {
		g.outputManager.Close()
		return nil, err
	}

	if !opts.Headless {
		g.initGraphics()
	}

	g.logger.Info("game created",
		"seed", seed,
		"rows", g.grid.Rows(),
		"cols", g.grid.Cols(),
		"walkers", len(g.walkers),
		"crates", g.crates,
		"restriction", restriction.String(),
	)
	return g, nil
}

// buildGrid creates the grid and physics world and loads the map.
func (g *Game) buildGrid() error {
	cfg := g.cfg
	g.physics = physics.NewWorld(g.scene)
	g.grid = grid.New(g.scene, grid.Options{
		TileWidth:  cfg.Derived.TileW32,
		TileHeight: cfg.Derived.TileH32,
		Spacing:    cfg.Derived.Spacing32,
		Physics:    g.physics,
	})
	g.grid.SetLogger(g.logger)

	var err error
	if cfg.Grid.MapFile != "" {
		err = g.grid.LoadFromFile(cfg.Grid.MapFile, cfg.Derived.Separator)
	} else {
		err = g.grid.Construct(cfg.Grid.Rows, cfg.Grid.Cols, cfg.Derived.FillID)
	}
	if err != nil {
		return fmt.Errorf("building grid: %w", err)
	}

	for _, id := range cfg.Derived.SolidIDs {
		g.grid.SetCollidableByID(id, true, cfg.Grid.AttachColliders)
	}
	return nil
}

func (g *Game) initGraphics() {
	cfg := g.cfg
	g.screenWidth = float32(cfg.Screen.Width)
	g.screenHeight = float32(cfg.Screen.Height)

	gw, gh := g.grid.Size()
	g.camera = camera.New(g.screenWidth, g.screenHeight, gw, gh)
	g.tileRenderer = renderer.NewTileRenderer(g.seed)
	g.entityRenderer = renderer.NewEntityRenderer(nil)
	g.hud = ui.NewHUD()
	g.overlays = ui.NewOverlayRegistry()
	g.controlsPanel = ui.NewControlsPanel(10, 130, 220)
	g.controlPanel = ui.NewControlPanel(g.screenWidth-230, 10, 220)
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-380, int32(g.screenHeight)-180)
}

// watch hooks a mover into telemetry and the game counters.
func (g *Game) watch(m *mover.GridMover) {
	g.recorder.Watch(m.Events())
	m.Events().On(event.DestinationReached, func(event.Event) {
		g.arrivals++
	})
	m.Events().On(event.PathGenerated, func(ev event.Event) {
		if p, ok := ev.Payload.(event.PathPayload); ok {
			g.profiler.ObserveSearch(p.Searches, p.Explored, p.Elapsed)
		}
	})
}

// UpdateHeadless runs StepsPerUpdate simulation steps unless paused.
func (g *Game) UpdateHeadless() {
	if g.controls.Paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.dt)
	}
}

// Step advances the scene by one tick.
func (g *Game) Step(dt float32) {
	g.profiler.BeginTick()
	g.recorder.SetTick(g.tick)

	g.profiler.Enter(telemetry.PhasePlanning)
	g.planWalkers()

	g.profiler.Enter(telemetry.PhaseMovers)
	if g.player != nil {
		g.player.Update(dt)
	}
	for _, w := range g.walkers {
		w.Update(dt)
	}

	g.profiler.Enter(telemetry.PhasePhysics)
	g.physics.Step(dt)

	g.profiler.Enter(telemetry.PhaseGrid)
	g.grid.Update(dt)

	g.profiler.Enter(telemetry.PhaseTelemetry)
	g.tick++
	g.flushTelemetry()

	g.profiler.EndTick()
}

// MovePlayer requests a one-tile player step.
func (g *Game) MovePlayer(d grid.Direction) bool {
	if g.player == nil {
		return false
	}
	return g.player.RequestMove(d)
}

// SetWalkerDestination sends walker i to idx and resumes its movement.
func (g *Game) SetWalkerDestination(i int, idx grid.Index) bool {
	if i < 0 || i >= len(g.walkers) {
		return false
	}
	w := g.walkers[i]
	w.StartMovement()
	return w.SetDestination(idx)
}

// Controls returns the current control state.
func (g *Game) Controls() ui.Controls {
	return g.controls
}

// SetControls replaces the control state and applies it to the movers.
func (g *Game) SetControls(c ui.Controls) {
	g.controls = c
	g.applyControls()
}

// applyControls pushes the control state into the movers.
func (g *Game) applyControls() {
	c := &g.controls
	if c.Restriction.AllowsDiagonal() && g.moverOpts.MaxSpeedX != g.moverOpts.MaxSpeedY {
		c.Restriction = g.moverOpts.Restriction
	}
	if g.player != nil {
		g.player.SetMovementFreeze(c.Frozen)
		g.player.SetMovementRestriction(c.Restriction)
		g.player.SetSpeedMultiplier(c.SpeedMultiplier)
	}
	for _, w := range g.walkers {
		w.SetAdaptiveMoveEnable(c.Adaptive)
		w.SetSpeedMultiplier(c.SpeedMultiplier)
	}
}

// Paused reports whether stepping is suspended.
func (g *Game) Paused() bool { return g.controls.Paused }

// SetPaused suspends or resumes stepping.
func (g *Game) SetPaused(p bool) { g.controls.Paused = p }

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.tick }

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 { return g.seed }

// Scene returns the entity registry.
func (g *Game) Scene() *scene.Scene { return g.scene }

// Grid returns the tile grid.
func (g *Game) Grid() *grid.Grid { return g.grid }

// Physics returns the physics world.
func (g *Game) Physics() *physics.World { return g.physics }

// Player returns the player mover, nil if no tile was free for it.
func (g *Game) Player() *mover.GridMover { return g.player }

// Walkers returns the path-following movers in creation order.
func (g *Game) Walkers() []*mover.TargetGridMover { return g.walkers }

// Arrivals returns how many destinations walkers have reached.
func (g *Game) Arrivals() int { return g.arrivals }

// Moving returns how many movers are between tiles.
func (g *Game) Moving() int {
	n := 0
	if g.player != nil && g.player.IsTargetMoving() {
		n++
	}
	for _, w := range g.walkers {
		if w.IsTargetMoving() {
			n++
		}
	}
	return n
}

// Unload flushes pending output and releases resources.
func (g *Game) Unload() {
	g.writeEvents()
	g.recorder.Close()
	if err := g.outputManager.Close(); err != nil {
		g.logger.Error("failed to close output", "error", err)
	}
}
