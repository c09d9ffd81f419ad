package ecs_test

import (
	"testing"

	"github.com/plus3/sigecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArchetypeCreatesColumnPerBit(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	pos := ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	health := ecs.RegisterComponent[Health](registry)

	sig := pos.Signature() | health.Signature()
	a := ecs.NewArchetype(registry, sig)

	assert.Equal(t, sig, a.Signature())
	assert.Equal(t, sig, a.StorageMask())
	assert.Equal(t, 0, a.Len())
	assert.NoError(t, a.CheckRows())
}

func TestArchetypeCreateStorageIsIdempotent(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	pos := ecs.RegisterComponent[Position](registry)

	a := ecs.NewArchetype(registry, 0)
	assert.Nil(t, pos.Values(a))

	pos.CreateStorage(a)
	a.AddEntity(3)
	pos.Add(a, 3, Position{X: 1, Y: 2})

	pos.CreateStorage(a)
	assert.Equal(t, []Position{{X: 1, Y: 2}}, pos.Values(a))
	assert.Equal(t, pos.Signature(), a.StorageMask())
}

func TestArchetypeAddRemoveEntity(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	a := ecs.NewArchetype(registry, 0)

	a.AddEntity(10)
	a.AddEntity(11)
	a.AddEntity(12)
	a.AddEntity(11) // already present

	assert.Equal(t, []ecs.EntityID{10, 11, 12}, a.Entities())

	row, ok := a.Row(12)
	require.True(t, ok)
	assert.Equal(t, 2, row)

	a.RemoveEntity(10)
	assert.Equal(t, []ecs.EntityID{12, 11}, a.Entities())
	row, ok = a.Row(12)
	require.True(t, ok)
	assert.Equal(t, 0, row)
	assert.False(t, a.HasEntity(10))

	// Removing an absent entity is a no-op.
	a.RemoveEntity(99)
	assert.Equal(t, 2, a.Len())
	assert.NoError(t, a.CheckRows())
}

func TestArchetypeSwapRemovalLocality(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	score := ecs.RegisterComponent[Score](registry)
	a := ecs.NewArchetype(registry, score.Signature())

	for e := ecs.EntityID(0); e < 5; e++ {
		a.AddEntity(e)
		score.Add(a, e, Score(e*10))
	}

	before := map[ecs.EntityID]int{}
	for _, e := range a.Entities() {
		before[e], _ = a.Row(e)
	}

	// Remove the entity at row 1; only the entity in the last row moves.
	require.True(t, score.Remove(a, 1))
	a.RemoveEntity(1)

	for _, e := range a.Entities() {
		row, _ := a.Row(e)
		if e == 4 {
			assert.Equal(t, 1, row)
		} else {
			assert.Equal(t, before[e], row, "entity %d moved", e)
		}
		assert.Equal(t, Score(e*10), *score.Get(a, e))
	}
	assert.NoError(t, a.CheckRows())
}

func TestArchetypeRemoveLastRow(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	score := ecs.RegisterComponent[Score](registry)
	a := ecs.NewArchetype(registry, score.Signature())

	a.AddEntity(0)
	score.Add(a, 0, 7)
	a.AddEntity(1)
	score.Add(a, 1, 8)

	require.True(t, score.Remove(a, 1))
	a.RemoveEntity(1)

	assert.Equal(t, []Score{7}, score.Values(a))
	assert.Equal(t, []ecs.EntityID{0}, a.Entities())
}

func TestArchetypeEmplaceAndGet(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	health := ecs.RegisterComponent[Health](registry)
	a := ecs.NewArchetype(registry, health.Signature())

	a.AddEntity(4)
	h := health.Emplace(a, 4)
	assert.Equal(t, Health{}, *h)
	h.Current = 50
	h.Max = 100

	assert.Equal(t, Health{Current: 50, Max: 100}, *health.Get(a, 4))
}

func TestArchetypeRemoveComponentMissing(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	pos := ecs.RegisterComponent[Position](registry)
	vel := ecs.RegisterComponent[Velocity](registry)
	a := ecs.NewArchetype(registry, pos.Signature())

	a.AddEntity(1)
	pos.Add(a, 1, Position{})

	assert.False(t, vel.Remove(a, 1), "no column")
	assert.False(t, pos.Remove(a, 2), "no entity")
}

func TestArchetypeGetPanics(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	pos := ecs.RegisterComponent[Position](registry)
	vel := ecs.RegisterComponent[Velocity](registry)
	a := ecs.NewArchetype(registry, pos.Signature())

	a.AddEntity(1)
	pos.Add(a, 1, Position{})

	assert.PanicsWithValue(t,
		"component storage for ecs_test.Velocity does not exist in archetype",
		func() { vel.Get(a, 1) })
	assert.Panics(t, func() { pos.Get(a, 2) })
	assert.Panics(t, func() { vel.Add(a, 1, Velocity{}) })
}

func TestArchetypeMove(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	pos := ecs.RegisterComponent[Position](registry)
	vel := ecs.RegisterComponent[Velocity](registry)

	src := ecs.NewArchetype(registry, pos.Signature())
	dst := ecs.NewArchetype(registry, pos.Signature()|vel.Signature())

	src.AddEntity(1)
	pos.Add(src, 1, Position{X: 3, Y: 4})
	src.AddEntity(2)
	pos.Add(src, 2, Position{X: 5, Y: 6})

	dst.AddEntity(1)
	pos.Move(src, dst, 1)
	vel.Add(dst, 1, Velocity{DX: 1})
	src.RemoveEntity(1)

	assert.Equal(t, Position{X: 3, Y: 4}, *pos.Get(dst, 1))
	assert.Equal(t, Position{X: 5, Y: 6}, *pos.Get(src, 2))
	assert.NoError(t, src.CheckRows())
	assert.NoError(t, dst.CheckRows())
}

func TestArchetypeCheckRowsDetectsMismatch(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	pos := ecs.RegisterComponent[Position](registry)
	a := ecs.NewArchetype(registry, pos.Signature())

	a.AddEntity(1)
	assert.ErrorIs(t, a.CheckRows(), ecs.ErrRowMismatch)

	pos.Add(a, 1, Position{})
	assert.NoError(t, a.CheckRows())
}

func TestArchetypeAddPanicsOnMisalignedRow(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	pos := ecs.RegisterComponent[Position](registry)
	a := ecs.NewArchetype(registry, pos.Signature())

	a.AddEntity(1)
	a.AddEntity(2)

	// Entity 2 holds row 1 but the column is still empty.
	assert.Panics(t, func() { pos.Add(a, 2, Position{}) })
	assert.Panics(t, func() { pos.Emplace(a, 2) })
	assert.Panics(t, func() { pos.Add(a, 7, Position{}) })

	pos.Add(a, 1, Position{X: 1})
	pos.Emplace(a, 2).X = 2
	assert.NoError(t, a.CheckRows())
	assert.Equal(t, float32(2), pos.Get(a, 2).X)
}
