package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-player/config"
	"github.com/Carmen-Shannon/oxy-player/engine"
	"github.com/Carmen-Shannon/oxy-player/engine/camera"
	"github.com/Carmen-Shannon/oxy-player/engine/collision"
	"github.com/Carmen-Shannon/oxy-player/engine/game_object"
	"github.com/Carmen-Shannon/oxy-player/engine/loader"
	"github.com/Carmen-Shannon/oxy-player/engine/player"
	"github.com/Carmen-Shannon/oxy-player/engine/window"
	"github.com/Carmen-Shannon/oxy-player/logger"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "oxy-player.yaml", "path to the YAML configuration file")
	worldPath := flag.String("world", "", "overrides world.path from the configuration")
	flag.Parse()

	if err := run(*configPath, *worldPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, worldOverride string) error {
	cfg, err := loadConfig(configPath, worldOverride)
	if err != nil {
		return err
	}

	log, restore, err := logger.Install(cfg.Logging)
	if err != nil {
		return err
	}
	defer restore()

	ldr := loader.NewLoader(loader.BackendTypeGLTF)
	level, err := ldr.Load(cfg.World.Path)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}
	world := collision.NewOctree(level.Triangles,
		collision.WithMaxDepth(cfg.World.MaxDepth),
		collision.WithMaxTriangles(cfg.World.MaxTriangles),
		collision.WithWorkers(cfg.World.Workers),
	)

	w, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithRawMouseMotion(!cfg.Window.DisableRawMouse),
	)
	if err != nil {
		return err
	}

	cam := camera.NewCamera(
		camera.WithFov(70*math32.Pi/180),
		camera.WithNear(0.01),
		camera.WithFar(1000),
	)

	eng := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithCamera(cam),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithProfiling(cfg.Engine.Profiling),
	)

	options := []player.PlayerControllerBuilderOption{
		player.WithConfig(cfg.Player),
		player.WithSpawnOffset(spawnOffset(world, cfg.World.SpawnOffset, cfg.Player)),
	}
	if cfg.Character.Path != "" {
		character, err := loadCharacter(ldr, cfg.Character.Path)
		if err != nil {
			return err
		}
		options = append(options, player.WithCharacter(character))
	}

	pc, err := player.NewPlayerController(cam, world, w, w, options...)
	if err != nil {
		return fmt.Errorf("failed to create player controller: %w", err)
	}
	defer pc.Dispose()

	events := log.Named("events")
	for _, kind := range []player.EventKind{player.EventJump, player.EventLock, player.EventUnlock} {
		pc.Subscribe(kind, func(e player.Event) {
			events.Debug(e.Kind.String())
		})
	}
	pc.Subscribe(player.EventSwitch, func(e player.Event) {
		events.Info("view switched", zap.Bool("firstPerson", e.FirstPerson))
	})

	w.SetClickCallback(func() {
		if !pc.IsLocked() {
			pc.Lock()
		}
	})
	eng.SetTickCallback(pc.Step)

	log.Info("world ready",
		zap.String("path", cfg.World.Path),
		zap.Int("triangles", len(level.Triangles)),
		zap.Int("meshes", level.MeshCount),
	)
	eng.Run()
	return nil
}

func loadConfig(path, worldOverride string) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil && os.IsNotExist(err) && worldOverride != "" {
		cfg := config.Default()
		cfg.World.Path = worldOverride
		return &cfg, cfg.Validate()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if worldOverride != "" {
		cfg.World.Path = worldOverride
	}
	return cfg, nil
}

// spawnOffset returns the configured offset, or when none is set, the offset that drops the capsule
// onto the highest surface below the world origin.
func spawnOffset(world collision.Octree, configured mgl32.Vec3, pc player.Config) mgl32.Vec3 {
	if configured != (mgl32.Vec3{}) || world.TriangleCount() == 0 {
		return configured
	}
	bounds := world.Bounds()
	hit, ok := world.RayIntersect(mgl32.Vec3{0, bounds.Max.Y() + 1, 0}, mgl32.Vec3{0, -1, 0})
	if !ok {
		return configured
	}
	pc = pc.WithDefaults()
	bottom := min(pc.CapsuleStart.Y(), pc.CapsuleEnd.Y()) - pc.CapsuleRadius
	return mgl32.Vec3{0, hit.Point.Y() - bottom + spawnClearance, 0}
}

// spawnClearance keeps a probed spawn from starting in contact with the floor.
const spawnClearance = 0.01

// loadCharacter sizes a game object from the character model's bounds, with its origin at the feet.
func loadCharacter(ldr loader.Loader, path string) (game_object.GameObject, error) {
	model, err := ldr.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load character: %w", err)
	}
	return game_object.NewGameObject(
		game_object.WithName(model.Name),
		game_object.WithBounds(model.Bounds.Min, model.Bounds.Max),
	), nil
}
