package ecs_test

import (
	"testing"

	"github.com/plus3/sigecs/ecs"
	"github.com/stretchr/testify/require"
)

// Common test component types
type Transform struct {
	X, Y, Z float32
}

type A struct {
	Hello int
}

type B struct {
	S string
}

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

// Custom primitive types for testing non-struct components
type Score int32
type Temperature float64

// Never registered by newTestRegistry.
type Unregistered struct {
	Value int
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[A](registry)
	ecs.RegisterComponent[B](registry)
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Temperature](registry)
	return registry
}

func newTestEntityRegistry(t testing.TB, opts ...ecs.Option) *ecs.EntityRegistry {
	t.Helper()
	r := ecs.NewEntityRegistry(newTestRegistry(), opts...)
	t.Cleanup(func() {
		require.NoError(t, r.CheckInvariants())
	})
	return r
}

func mustCreate(t testing.TB, r *ecs.EntityRegistry) ecs.EntityID {
	t.Helper()
	e, err := r.CreateEntity()
	require.NoError(t, err)
	return e
}
