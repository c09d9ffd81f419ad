package ecs

import (
	"fmt"
	"reflect"
)

// ComponentType is the typed handle of a registered component type. Its
// methods are the per-type archetype operations: they address the column
// for T inside an archetype by row.
//
// The row alignment between an archetype's entity list and its columns is
// the caller's responsibility: append exactly one value per added entity,
// in the order the entities were added.
type ComponentType[T any] struct {
	index ComponentTypeIndex
}

// Index returns the type index.
func (c ComponentType[T]) Index() ComponentTypeIndex {
	return c.index
}

// Signature returns the single-bit signature of the type.
func (c ComponentType[T]) Signature() Signature {
	return c.index.Bit()
}

// CreateStorage allocates the column for T in a. It does nothing if the
// column already exists.
func (c ComponentType[T]) CreateStorage(a *Archetype) {
	if a.storages[c.index] != nil {
		return
	}
	a.storages[c.index] = &componentColumn[T]{}
	a.storageMask = a.storageMask.With(c.index)
}

// Add appends value to T's column in a. The entity must already hold the
// row the value lands in.
func (c ComponentType[T]) Add(a *Archetype, entity EntityID, value T) {
	col := c.alignedColumn(a, entity)
	col.values = append(col.values, value)
}

// Emplace appends the zero value of T and returns a pointer to it for
// initialisation in place.
func (c ComponentType[T]) Emplace(a *Archetype, entity EntityID) *T {
	col := c.alignedColumn(a, entity)
	var zero T
	col.values = append(col.values, zero)
	return &col.values[len(col.values)-1]
}

// Remove swap-pops the entity's value from T's column. It returns false
// when a has no such entity or no column for T.
func (c ComponentType[T]) Remove(a *Archetype, entity EntityID) bool {
	col := c.column(a)
	if col == nil {
		return false
	}
	row, ok := a.rows.Get(entity)
	if !ok || row >= len(col.values) {
		return false
	}
	col.swapRemove(row)
	return true
}

// Get returns a pointer to the entity's value. The pointer is invalidated
// by any structural change to a. It panics when the column or the entity
// does not exist.
func (c ComponentType[T]) Get(a *Archetype, entity EntityID) *T {
	col := c.mustColumn(a)
	row, ok := a.rows.Get(entity)
	if !ok {
		panic("archetype does not contain entity")
	}
	return &col.values[row]
}

// Move copies the entity's value from src into dst, then removes it from
// src.
func (c ComponentType[T]) Move(src, dst *Archetype, entity EntityID) {
	value := *c.Get(src, entity)
	c.Add(dst, entity, value)
	c.Remove(src, entity)
}

// Values exposes T's column in a, indexed by row. It returns nil when a
// has no column for T.
func (c ComponentType[T]) Values(a *Archetype) []T {
	col := c.column(a)
	if col == nil {
		return nil
	}
	return col.values
}

func (c ComponentType[T]) column(a *Archetype) *componentColumn[T] {
	storage := a.storages[c.index]
	if storage == nil {
		return nil
	}
	return storage.(*componentColumn[T])
}

func (c ComponentType[T]) mustColumn(a *Archetype) *componentColumn[T] {
	col := c.column(a)
	if col == nil {
		panic("component storage for " + reflect.TypeFor[T]().String() + " does not exist in archetype")
	}
	return col
}

// alignedColumn returns T's column in a and panics unless the next append
// lands on entity's row.
func (c ComponentType[T]) alignedColumn(a *Archetype, entity EntityID) *componentColumn[T] {
	col := c.mustColumn(a)
	row, ok := a.rows.Get(entity)
	if !ok {
		panic(fmt.Sprintf("archetype does not contain entity %d", entity))
	}
	if row != len(col.values) {
		panic(fmt.Sprintf("component %s: append for entity %d would land on row %d, entity row is %d",
			reflect.TypeFor[T](), entity, len(col.values), row))
	}
	return col
}
