package ecs_test

import (
	"testing"

	"github.com/plus3/sigecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryStats(t *testing.T) {
	r := newTestEntityRegistry(t, ecs.WithMaxEntityCount(16))

	stats := r.CollectStats()
	assert.Equal(t, 0, stats.EntityCount)
	assert.Equal(t, 16, stats.MaxEntityCount)
	assert.Equal(t, 16, stats.FreeEntityCount)
	assert.Equal(t, 1, stats.ArchetypeCount)
	assert.Equal(t, 0, stats.CachedQueryCount)

	e1 := mustCreate(t, r)
	e2 := mustCreate(t, r)
	mustCreate(t, r)
	require.True(t, ecs.TryAddComponent(r, e1, Position{}))
	require.True(t, ecs.TryAddComponent(r, e1, Velocity{}))
	require.True(t, ecs.TryAddComponent(r, e2, Position{}))

	require.NoError(t, r.DeleteEntity(e2))
	require.NoError(t, ecs.DeleteComponent[Velocity](r, e1))

	_, err := ecs.GetView1[Position](r)
	require.NoError(t, err)

	stats = r.CollectStats()
	assert.Equal(t, 3, stats.EntityCount)
	assert.Equal(t, 13, stats.FreeEntityCount)
	assert.Equal(t, 3, stats.ArchetypeCount)
	assert.Equal(t, 1, stats.CachedQueryCount)
	assert.Equal(t, 1, stats.PendingEntityDeletes)
	assert.Equal(t, 1, stats.PendingComponentDeletes)

	require.Len(t, stats.ArchetypeBreakdown, 3)
	empty, pos, posVel := stats.ArchetypeBreakdown[0], stats.ArchetypeBreakdown[1], stats.ArchetypeBreakdown[2]

	assert.Equal(t, ecs.Signature(0), empty.Signature)
	assert.Equal(t, 1, empty.EntityCount)
	assert.Equal(t, 0, empty.ComponentCount)
	assert.Empty(t, empty.Components)

	assert.Equal(t, 1, pos.EntityCount)
	assert.Equal(t, []string{"ecs_test.Position"}, pos.Components)

	assert.Equal(t, 1, posVel.EntityCount)
	assert.Equal(t, 2, posVel.ComponentCount)
	assert.Equal(t, []string{"ecs_test.Position", "ecs_test.Velocity"}, posVel.Components)

	r.Flush()
	stats = r.CollectStats()
	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, 14, stats.FreeEntityCount)
	assert.Equal(t, 0, stats.PendingEntityDeletes)
	assert.Equal(t, 0, stats.PendingComponentDeletes)
}
