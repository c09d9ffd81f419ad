package main

import (
	"math/rand/v2"

	"github.com/plus3/sigecs/ecs"
)

const (
	worldSize = 1000

	// Entities older than this lose their velocity.
	settleAge = 5.0
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Age struct {
	Seconds float64
}

type Health struct {
	Current float64
	Decay   float64
}

func newComponentRegistry() *ecs.ComponentRegistry {
	components := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](components)
	ecs.RegisterComponent[Velocity](components)
	ecs.RegisterComponent[Age](components)
	ecs.RegisterComponent[Health](components)
	return components
}

// spawnEntity creates an entity with a random subset of components. Every
// entity gets a Position and an Age; most also move and decay.
func spawnEntity(r *ecs.EntityRegistry, rng *rand.Rand) (ecs.EntityID, error) {
	e, err := r.CreateEntity()
	if err != nil {
		return ecs.InvalidEntityID, err
	}

	ecs.TryAddComponent(r, e, Position{X: rng.Float64() * worldSize, Y: rng.Float64() * worldSize})
	ecs.TryAddComponent(r, e, Age{})
	if rng.IntN(4) != 0 {
		ecs.TryAddComponent(r, e, Velocity{DX: rng.NormFloat64() * 10, DY: rng.NormFloat64() * 10})
	}
	if rng.IntN(3) != 0 {
		h, err := ecs.EmplaceComponent[Health](r, e)
		if err != nil {
			return e, err
		}
		h.Current = 100
		h.Decay = 5 + rng.Float64()*20
	}

	return e, nil
}
