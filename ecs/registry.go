package ecs

import (
	"iter"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// EntityRegistry owns entity identity and the archetypes that store
// component data. It is not safe for concurrent use.
type EntityRegistry struct {
	components *ComponentRegistry
	logger     zerolog.Logger

	maxEntityCount uint32
	entityCount    uint32
	free           idPool
	metadata       []entityMetadata

	// archetypes is keyed by exact signature; archetypeOrder keeps creation
	// order so that query scans are deterministic.
	archetypes     *intmap.Map[Signature, *Archetype]
	archetypeOrder []*Archetype
	emptyArchetype *Archetype

	// queries caches, per query signature, every archetype whose signature
	// is a superset of it.
	queries    *intmap.Map[Signature, *archetypeQuery]
	queryOrder []*archetypeQuery

	deletedEntities   deferredQueue[EntityID]
	deletedComponents deferredQueue[componentDeletion]
}

type archetypeQuery struct {
	signature  Signature
	archetypes []*Archetype
}

// NewEntityRegistry creates a registry whose components are described by
// components. Every component type must be registered there before it is
// used with this registry.
func NewEntityRegistry(components *ComponentRegistry, opts ...Option) *EntityRegistry {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &EntityRegistry{
		components:        components,
		logger:            cfg.logger,
		maxEntityCount:    cfg.maxEntityCount,
		free:              newIDPool(cfg.maxEntityCount),
		metadata:          make([]entityMetadata, cfg.maxEntityCount),
		archetypes:        intmap.New[Signature, *Archetype](64),
		queries:           intmap.New[Signature, *archetypeQuery](16),
		deletedEntities:   newDeferredQueue[EntityID](cfg.queueCapacity),
		deletedComponents: newDeferredQueue[componentDeletion](cfg.queueCapacity),
	}
	r.emptyArchetype = r.GetOrCreateArchetype(0)

	return r
}

// Components returns the component registry this registry was built with.
func (r *EntityRegistry) Components() *ComponentRegistry {
	return r.components
}

// CreateEntity takes the oldest free ID and places it in the empty
// archetype.
func (r *EntityRegistry) CreateEntity() (EntityID, error) {
	entity, ok := r.free.acquire()
	if !ok {
		return InvalidEntityID, eris.Wrapf(ErrMaxEntityCountReached, "limit %d", r.maxEntityCount)
	}

	r.metadata[entity] = entityMetadata{archetype: r.emptyArchetype}
	r.emptyArchetype.AddEntity(entity)
	r.entityCount++
	return entity, nil
}

// IsEntityValid reports whether entity is alive. Entities queued for
// deletion stay valid until Flush.
func (r *EntityRegistry) IsEntityValid(entity EntityID) bool {
	return uint32(entity) < r.maxEntityCount && r.metadata[entity].archetype != nil
}

// EntityCount returns the number of alive entities.
func (r *EntityRegistry) EntityCount() int {
	return int(r.entityCount)
}

// MaxEntityCount returns the configured entity limit.
func (r *EntityRegistry) MaxEntityCount() int {
	return int(r.maxEntityCount)
}

// Signature returns the entity's current signature.
func (r *EntityRegistry) Signature(entity EntityID) (Signature, error) {
	if err := r.checkAlive(entity); err != nil {
		return 0, err
	}
	return r.metadata[entity].signature, nil
}

// ArchetypeOf returns the archetype currently holding entity.
func (r *EntityRegistry) ArchetypeOf(entity EntityID) (*Archetype, error) {
	if err := r.checkAlive(entity); err != nil {
		return nil, err
	}
	return r.metadata[entity].archetype, nil
}

// ArchetypeCount returns the number of archetypes created so far,
// including the empty one.
func (r *EntityRegistry) ArchetypeCount() int {
	return len(r.archetypeOrder)
}

// Archetypes iterates the archetypes in creation order.
func (r *EntityRegistry) Archetypes() iter.Seq[*Archetype] {
	return func(yield func(*Archetype) bool) {
		for _, a := range r.archetypeOrder {
			if !yield(a) {
				return
			}
		}
	}
}

// GetOrCreateArchetype returns the archetype for the exact signature,
// creating it if needed. A new archetype is appended to every cached query
// it satisfies; views built earlier keep their snapshot.
func (r *EntityRegistry) GetOrCreateArchetype(signature Signature) *Archetype {
	if a, ok := r.archetypes.Get(signature); ok {
		return a
	}

	a := NewArchetype(r.components, signature)
	r.archetypes.Put(signature, a)
	r.archetypeOrder = append(r.archetypeOrder, a)

	for _, q := range r.queryOrder {
		if signature.Contains(q.signature) {
			q.archetypes = append(q.archetypes, a)
		}
	}

	if ev := r.logger.Debug(); ev.Enabled() {
		ev.Stringer("signature", signature).
			Strs("components", r.components.TypeNames(signature)).
			Int("archetypes", len(r.archetypeOrder)).
			Msg("archetype created")
	}

	return a
}

// CheckInvariants verifies the row lock-step of every archetype and that
// entity metadata agrees with archetype membership.
func (r *EntityRegistry) CheckInvariants() error {
	members := 0
	for _, a := range r.archetypeOrder {
		if err := a.CheckRows(); err != nil {
			return eris.Wrapf(err, "archetype %s", a.Signature())
		}
		for _, entity := range a.Entities() {
			meta := r.metadata[entity]
			if meta.archetype != a || meta.signature != a.Signature() {
				return eris.Wrapf(ErrRowMismatch, "entity %d is stored in archetype %s but its metadata disagrees", entity, a.Signature())
			}
		}
		members += a.Len()
	}
	if members != int(r.entityCount) {
		return eris.Wrapf(ErrRowMismatch, "%d entities stored for %d alive", members, r.entityCount)
	}
	return nil
}

// matchingArchetypes returns the cached list of archetypes whose signature
// contains query, building it on first use.
func (r *EntityRegistry) matchingArchetypes(query Signature) []*Archetype {
	if q, ok := r.queries.Get(query); ok {
		return q.archetypes
	}

	q := &archetypeQuery{signature: query}
	for _, a := range r.archetypeOrder {
		if a.Signature().Contains(query) {
			q.archetypes = append(q.archetypes, a)
		}
	}
	r.queries.Put(query, q)
	r.queryOrder = append(r.queryOrder, q)
	return q.archetypes
}

// migrate moves entity's row from src to dst. Components present in both
// are moved, components only in src are dropped.
func (r *EntityRegistry) migrate(entity EntityID, src, dst *Archetype) {
	dst.AddEntity(entity)

	for idx := range src.StorageMask().Indices() {
		ops := r.components.dispatch(idx)
		if dst.StorageMask().Has(idx) {
			ops.Move(src, dst, entity)
		} else {
			ops.Remove(src, entity)
		}
	}

	src.RemoveEntity(entity)
	r.metadata[entity].archetype = dst
}

// attach moves entity into the archetype that adds idx to its signature and
// returns that archetype. The caller appends the new component.
func (r *EntityRegistry) attach(entity EntityID, idx ComponentTypeIndex) *Archetype {
	meta := &r.metadata[entity]
	meta.signature = meta.signature.With(idx)
	dst := r.GetOrCreateArchetype(meta.signature)
	r.migrate(entity, meta.archetype, dst)
	return dst
}

func (r *EntityRegistry) checkInRange(entity EntityID) error {
	if uint32(entity) >= r.maxEntityCount {
		return eris.Wrapf(ErrEntityIDOutOfRange, "entity %d, limit %d", entity, r.maxEntityCount)
	}
	return nil
}

func (r *EntityRegistry) checkAlive(entity EntityID) error {
	if err := r.checkInRange(entity); err != nil {
		return err
	}
	if r.metadata[entity].archetype == nil {
		return eris.Wrapf(ErrEntityNotAlive, "entity %d", entity)
	}
	return nil
}
