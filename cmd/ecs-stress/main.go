package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/sigecs/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	maxEntities := flag.Uint("max-entities", 1<<15, "The maximum number of live entities.")
	logLevel := flag.String("log-level", "info", "Log level (trace, debug, info, warn, error).")
	profileMode := flag.String("profile", "none", "Profile to capture: cpu, mem or none.")
	profileDir := flag.String("profile-dir", ".", "Directory the profile is written to.")
	seed := flag.Uint64("seed", 1, "Seed for the entity generator.")
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(logger, config{
		duration:    *duration,
		entities:    *entityCount,
		maxEntities: uint32(*maxEntities),
		profileMode: *profileMode,
		profileDir:  *profileDir,
		seed:        *seed,
	}); err != nil {
		logger.Fatal().Err(err).Msg("stress test failed")
	}
}

type config struct {
	duration    time.Duration
	entities    int
	maxEntities uint32
	profileMode string
	profileDir  string
	seed        uint64
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), eris.Wrapf(err, "invalid log level %q", level)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().
		Logger(), nil
}

func startProfile(mode, dir string) (interface{ Stop() }, error) {
	switch mode {
	case "", "none":
		return nil, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.NoShutdownHook, profile.Quiet), nil
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath(dir), profile.NoShutdownHook, profile.Quiet), nil
	default:
		return nil, eris.Errorf("unknown profile mode %q", mode)
	}
}

func run(logger zerolog.Logger, cfg config) error {
	logger.Info().Msg("Starting ECS stress test...")

	// 1. Setup registries and scheduler
	components := newComponentRegistry()
	registry := ecs.NewEntityRegistry(components,
		ecs.WithMaxEntityCount(cfg.maxEntities),
		ecs.WithLogger(logger.With().Str("component", "registry").Logger()),
	)
	rng := rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15))

	aging := &AgingSystem{}
	reaper := &ReaperSystem{}
	scheduler := NewScheduler(registry, rng, logger)
	scheduler.Register(&MovementSystem{})
	scheduler.Register(aging)
	scheduler.Register(reaper)

	// 2. Populate the registry with initial entities
	logger.Info().Int("entities", cfg.entities).Msg("Populating registry...")
	for i := 0; i < cfg.entities; i++ {
		if _, err := spawnEntity(registry, rng); err != nil {
			return eris.Wrapf(err, "failed to spawn entity %d", i)
		}
	}
	logger.Info().Int("archetypes", registry.ArchetypeCount()).Msg("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:    cfg.duration,
		Entities:    cfg.entities,
		MaxEntities: registry.MaxEntityCount(),
		Components:  components.Len(),
		Seed:        cfg.seed,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	prof, err := startProfile(cfg.profileMode, cfg.profileDir)
	if err != nil {
		return err
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", cfg.duration).Msg("Running simulation...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			scheduler.Once(float64(deltaTime) / float64(time.Second))
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if prof != nil {
		prof.Stop()
	}

	if err := registry.CheckInvariants(); err != nil {
		return eris.Wrap(err, "registry invariants violated")
	}

	report.Settled = aging.Settled
	report.Reaped = reaper.Reaped
	report.Spawned = reaper.Spawned
	report.SpawnFailures = reaper.SpawnFailures
	report.Registry = registry.CollectStats()
	report.Scheduler = scheduler.GetStats()

	logger.Info().Int64("updates", totalUpdates).Msg("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return eris.Wrap(err, "failed to generate report")
	}
	fmt.Println("--- End of Report ---")

	logger.Info().Msg("Stress test complete.")
	return nil
}
