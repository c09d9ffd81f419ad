package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/sigecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterComponentAssignsDenseIndices(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	pos := ecs.RegisterComponent[Position](registry)
	vel := ecs.RegisterComponent[Velocity](registry)
	score := ecs.RegisterComponent[Score](registry)

	assert.Equal(t, ecs.ComponentTypeIndex(0), pos.Index())
	assert.Equal(t, ecs.ComponentTypeIndex(1), vel.Index())
	assert.Equal(t, ecs.ComponentTypeIndex(2), score.Index())
	assert.Equal(t, ecs.Signature(1<<1), vel.Signature())
	assert.Equal(t, 3, registry.Len())
}

func TestRegisterComponentIsIdempotent(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	first := ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Name](registry)
	second := ecs.RegisterComponent[Health](registry)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, registry.Len())
}

func TestComponentRegistriesAreIndependent(t *testing.T) {
	r1 := ecs.NewComponentRegistry()
	r2 := ecs.NewComponentRegistry()

	ecs.RegisterComponent[Position](r1)
	ecs.RegisterComponent[Velocity](r2)
	ecs.RegisterComponent[Position](r2)

	idx1, err := ecs.ComponentIndexOf[Position](r1)
	require.NoError(t, err)
	idx2, err := ecs.ComponentIndexOf[Position](r2)
	require.NoError(t, err)

	assert.Equal(t, ecs.ComponentTypeIndex(0), idx1)
	assert.Equal(t, ecs.ComponentTypeIndex(1), idx2)
}

func TestComponentLookupUnregistered(t *testing.T) {
	registry := newTestRegistry()

	_, err := ecs.ComponentIndexOf[Unregistered](registry)
	assert.ErrorIs(t, err, ecs.ErrInvalidComponentType)

	_, err = ecs.ComponentSignatureOf[Unregistered](registry)
	assert.ErrorIs(t, err, ecs.ErrInvalidComponentType)

	_, err = ecs.ComponentTypeOf[Unregistered](registry)
	assert.ErrorIs(t, err, ecs.ErrInvalidComponentType)
}

func TestComponentSignatureOf(t *testing.T) {
	registry := newTestRegistry()

	idx, err := ecs.ComponentIndexOf[B](registry)
	require.NoError(t, err)
	sig, err := ecs.ComponentSignatureOf[B](registry)
	require.NoError(t, err)

	assert.Equal(t, idx.Bit(), sig)
	assert.Equal(t, 1, sig.Count())
}

func TestTypeOfAndTypeNames(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	pos := ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)

	typ, ok := registry.TypeOf(pos.Index())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[Position](), typ)

	_, ok = registry.TypeOf(5)
	assert.False(t, ok)

	assert.Equal(t,
		[]string{"ecs_test.Position", "ecs_test.Velocity", "#9"},
		registry.TypeNames(ecs.SignatureOf(0, 1, 9)))
}

type emptyComponent struct{}

func TestRegisterComponentRejectsZeroSize(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	assert.Panics(t, func() { ecs.RegisterComponent[emptyComponent](registry) })
	assert.Panics(t, func() { ecs.RegisterComponent[[0]int](registry) })
	assert.Equal(t, 0, registry.Len())
}

func TestRegisterComponentAcceptsReferenceKinds(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	assert.NotPanics(t, func() { ecs.RegisterComponent[*Position](registry) })
	assert.NotPanics(t, func() { ecs.RegisterComponent[map[string]int](registry) })
	assert.NotPanics(t, func() { ecs.RegisterComponent[[]Score](registry) })
	assert.NotPanics(t, func() { ecs.RegisterComponent[fmt.Stringer](registry) })
	assert.Equal(t, 4, registry.Len())

	r := ecs.NewEntityRegistry(registry, ecs.WithMaxEntityCount(2))
	e, err := r.CreateEntity()
	require.NoError(t, err)
	require.True(t, ecs.TryAddComponent(r, e, map[string]int{"hp": 3}))

	m, err := ecs.GetComponent[map[string]int](r, e)
	require.NoError(t, err)
	assert.Equal(t, 3, (*m)["hp"])
}

type wide[T any] struct {
	Value T
}

// registerArrays registers eight distinct types derived from T.
func registerArrays[T any](r *ecs.ComponentRegistry) {
	ecs.RegisterComponent[wide[T]](r)
	ecs.RegisterComponent[[1]T](r)
	ecs.RegisterComponent[[2]T](r)
	ecs.RegisterComponent[[3]T](r)
	ecs.RegisterComponent[[4]T](r)
	ecs.RegisterComponent[[5]T](r)
	ecs.RegisterComponent[[6]T](r)
	ecs.RegisterComponent[[7]T](r)
}

func TestRegisterComponentLimit(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	registerArrays[int8](registry)
	registerArrays[int16](registry)
	registerArrays[int32](registry)
	registerArrays[int64](registry)
	registerArrays[uint8](registry)
	registerArrays[uint16](registry)
	registerArrays[uint32](registry)
	registerArrays[uint64](registry)
	require.Equal(t, ecs.MaxComponentTypes, registry.Len())

	// Already registered types still resolve at the limit.
	assert.NotPanics(t, func() { ecs.RegisterComponent[wide[int8]](registry) })
	assert.Panics(t, func() { ecs.RegisterComponent[Position](registry) })
}
