package main

import (
	"math"

	"github.com/plus3/sigecs/ecs"
)

// MovementSystem integrates Position by Velocity and wraps at the world
// edge.
type MovementSystem struct{}

func (s *MovementSystem) Execute(frame *Frame) {
	view, err := ecs.GetView2[Position, Velocity](frame.Registry)
	if err != nil {
		frame.Logger.Error().Err(err).Msg("movement view")
		return
	}

	view.Each(func(_ ecs.EntityID, p *Position, v *Velocity) {
		p.X = wrap(p.X + v.DX*frame.DeltaTime)
		p.Y = wrap(p.Y + v.DY*frame.DeltaTime)
	})
}

func wrap(v float64) float64 {
	v = math.Mod(v, worldSize)
	if v < 0 {
		v += worldSize
	}
	return v
}

// AgingSystem advances every entity's Age and queues the removal of
// Velocity from entities that have settled.
type AgingSystem struct {
	Settled int64
}

func (s *AgingSystem) Execute(frame *Frame) {
	ages, err := ecs.GetView1[Age](frame.Registry)
	if err != nil {
		frame.Logger.Error().Err(err).Msg("age view")
		return
	}
	ages.Each(func(_ ecs.EntityID, a *Age) {
		a.Seconds += frame.DeltaTime
	})

	moving, err := ecs.GetView2[Age, Velocity](frame.Registry)
	if err != nil {
		frame.Logger.Error().Err(err).Msg("moving view")
		return
	}
	for e, idx := range moving.Indices() {
		age, _ := moving.Get(idx)
		if age.Seconds < settleAge {
			continue
		}
		if err := ecs.DeleteComponent[Velocity](frame.Registry, e); err != nil {
			frame.Logger.Warn().Err(err).Uint32("entity", uint32(e)).Msg("failed to queue velocity removal")
			continue
		}
		s.Settled++
	}
}

// ReaperSystem decays Health, deletes entities whose health ran out and
// spawns one replacement per deleted entity.
type ReaperSystem struct {
	Reaped        int64
	Spawned       int64
	SpawnFailures int64
}

func (s *ReaperSystem) Execute(frame *Frame) {
	view, err := ecs.GetView1[Health](frame.Registry)
	if err != nil {
		frame.Logger.Error().Err(err).Msg("health view")
		return
	}

	reaped := 0
	for e, h := range view.All() {
		if h.Current <= 0 {
			continue
		}
		h.Current -= h.Decay * frame.DeltaTime
		if h.Current > 0 {
			continue
		}
		if err := frame.Registry.DeleteEntity(e); err != nil {
			frame.Logger.Warn().Err(err).Uint32("entity", uint32(e)).Msg("failed to queue entity deletion")
			continue
		}
		reaped++
	}
	s.Reaped += int64(reaped)

	// The view is not used past this point, so structural changes are safe.
	for range reaped {
		if _, err := spawnEntity(frame.Registry, frame.Rand); err != nil {
			s.SpawnFailures++
			continue
		}
		s.Spawned++
	}

	if reaped > 0 {
		frame.Logger.Trace().Int("reaped", reaped).Int("alive", frame.Registry.EntityCount()).Msg("reaper pass")
	}
}
