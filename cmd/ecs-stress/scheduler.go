package main

import (
	"context"
	"math/rand/v2"
	"reflect"
	"time"

	"github.com/plus3/sigecs/ecs"
	"github.com/rs/zerolog"
)

// System is one step of a frame. Systems must only delete through the
// registry's deferred path while a view is being iterated.
type System interface {
	Execute(frame *Frame)
}

// Frame is handed to every system during one scheduler tick.
type Frame struct {
	DeltaTime float64
	Registry  *ecs.EntityRegistry
	Rand      *rand.Rand
	Logger    zerolog.Logger
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler executes systems in registration order and flushes the
// registry's deferred deletions at the end of every frame.
type Scheduler struct {
	registry    *ecs.EntityRegistry
	rng         *rand.Rand
	logger      zerolog.Logger
	frames      int64
	systems     []System
	systemStats []*systemStatsInternal
}

func NewScheduler(registry *ecs.EntityRegistry, rng *rand.Rand, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		registry: registry,
		rng:      rng,
		logger:   logger,
		systems:  make([]System, 0),
	}
}

// Register appends a system. Systems run in the order they are registered.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Once executes all registered systems once with the given delta time, then
// flushes the registry.
func (s *Scheduler) Once(dt float64) {
	frame := &Frame{
		DeltaTime: dt,
		Registry:  s.registry,
		Rand:      s.rng,
		Logger:    s.logger,
	}

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	s.registry.Flush()
	s.frames++
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
