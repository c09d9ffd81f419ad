package ecs

// RegistryStats is a point-in-time summary of an EntityRegistry.
type RegistryStats struct {
	EntityCount             int
	MaxEntityCount          int
	FreeEntityCount         int
	ArchetypeCount          int
	CachedQueryCount        int
	PendingEntityDeletes    int
	PendingComponentDeletes int
	ArchetypeBreakdown      []ArchetypeStats
}

// ArchetypeStats describes one archetype.
type ArchetypeStats struct {
	Signature      Signature
	Components     []string
	EntityCount    int
	ComponentCount int
}

// CollectStats gathers statistics about the registry. Archetypes are listed
// in creation order.
func (r *EntityRegistry) CollectStats() RegistryStats {
	stats := RegistryStats{
		EntityCount:             int(r.entityCount),
		MaxEntityCount:          int(r.maxEntityCount),
		FreeEntityCount:         r.free.available(),
		ArchetypeCount:          len(r.archetypeOrder),
		CachedQueryCount:        len(r.queryOrder),
		PendingEntityDeletes:    r.deletedEntities.len(),
		PendingComponentDeletes: r.deletedComponents.len(),
		ArchetypeBreakdown:      make([]ArchetypeStats, 0, len(r.archetypeOrder)),
	}

	for _, a := range r.archetypeOrder {
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			Signature:      a.Signature(),
			Components:     r.components.TypeNames(a.Signature()),
			EntityCount:    a.Len(),
			ComponentCount: a.StorageMask().Count(),
		})
	}

	return stats
}
