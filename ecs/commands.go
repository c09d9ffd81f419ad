package ecs

import (
	"github.com/plus3/sigecs/ecs/ringbuf"
	"github.com/rotisserie/eris"
)

// idPool hands out free entity IDs in the order they were released.
type idPool struct {
	free *ringbuf.Buffer[EntityID]
}

func newIDPool(maxEntityCount uint32) idPool {
	free := ringbuf.New[EntityID](int(maxEntityCount))
	for id := EntityID(0); uint32(id) < maxEntityCount; id++ {
		// Capacity is preallocated, so pushing cannot fail here.
		_ = free.PushBack(id)
	}
	return idPool{free: free}
}

func (p idPool) acquire() (EntityID, bool) {
	id, err := p.free.PopFront()
	if err != nil {
		return InvalidEntityID, false
	}
	return id, true
}

func (p idPool) release(id EntityID) {
	// The pool never holds more than maxEntityCount IDs, so it never grows
	// past its initial capacity.
	if err := p.free.PushBack(id); err != nil {
		panic(err)
	}
}

func (p idPool) available() int {
	return p.free.Len()
}

type componentDeletion struct {
	entity EntityID
	index  ComponentTypeIndex
}

// deferredQueue buffers commands that are applied in enqueue order on
// Flush.
type deferredQueue[C any] struct {
	pending *ringbuf.Buffer[C]
}

func newDeferredQueue[C any](capacity int) deferredQueue[C] {
	return deferredQueue[C]{pending: ringbuf.New[C](capacity)}
}

func (q deferredQueue[C]) enqueue(cmd C) error {
	if err := q.pending.PushBack(cmd); err != nil {
		return eris.Wrap(err, "failed to queue deferred command")
	}
	return nil
}

// drain applies every queued command in order and returns how many ran.
func (q deferredQueue[C]) drain(apply func(C)) int {
	n := 0
	for !q.pending.IsEmpty() {
		cmd, _ := q.pending.PopFront()
		apply(cmd)
		n++
	}
	return n
}

func (q deferredQueue[C]) len() int {
	return q.pending.Len()
}

// DeleteEntity queues the entity for deletion on the next Flush. The
// entity stays readable and mutable until then. Entities that are not
// alive are ignored.
func (r *EntityRegistry) DeleteEntity(entity EntityID) error {
	if !r.IsEntityValid(entity) {
		return nil
	}
	return r.deletedEntities.enqueue(entity)
}

// DeleteComponent queues the removal of T from entity on the next Flush.
// The entity must be alive when the deletion is queued, so that a queued
// deletion never reaches a later owner of a recycled ID.
func DeleteComponent[T any](r *EntityRegistry, entity EntityID) error {
	ct, err := ComponentTypeOf[T](r.components)
	if err != nil {
		return err
	}
	if err := r.checkAlive(entity); err != nil {
		return err
	}
	return r.deletedComponents.enqueue(componentDeletion{entity: entity, index: ct.index})
}

// Flush applies the deferred deletions. Every queued component deletion is
// applied, in enqueue order, before any queued entity deletion.
func (r *EntityRegistry) Flush() {
	components := r.deletedComponents.drain(func(cmd componentDeletion) {
		r.deleteComponentNow(cmd.entity, cmd.index)
	})
	entities := r.deletedEntities.drain(r.deleteEntityNow)

	if components > 0 || entities > 0 {
		r.logger.Debug().
			Int("components", components).
			Int("entities", entities).
			Uint32("alive", r.entityCount).
			Msg("flushed deferred deletions")
	}
}

// PendingEntityDeletions returns the number of queued entity deletions.
func (r *EntityRegistry) PendingEntityDeletions() int {
	return r.deletedEntities.len()
}

// PendingComponentDeletions returns the number of queued component
// deletions.
func (r *EntityRegistry) PendingComponentDeletions() int {
	return r.deletedComponents.len()
}

func (r *EntityRegistry) deleteComponentNow(entity EntityID, idx ComponentTypeIndex) {
	if !r.IsEntityValid(entity) {
		return
	}
	meta := &r.metadata[entity]
	if !meta.signature.Has(idx) {
		return
	}

	meta.signature = meta.signature.Without(idx)
	dst := r.GetOrCreateArchetype(meta.signature)
	r.migrate(entity, meta.archetype, dst)
}

func (r *EntityRegistry) deleteEntityNow(entity EntityID) {
	if !r.IsEntityValid(entity) {
		return
	}

	meta := &r.metadata[entity]
	meta.archetype.dropRow(entity)
	*meta = entityMetadata{}
	r.free.release(entity)
	r.entityCount--
}
