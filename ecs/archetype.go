package ecs

import (
	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// Archetype stores every entity that shares one exact signature. It keeps
// a dense entity list and one dense column per component type, and row r
// of the entity list and of every column always refer to the same entity.
// Removal is swap-and-pop, so a row held across a removal of another
// entity must be looked up again.
type Archetype struct {
	components  *ComponentRegistry
	signature   Signature
	storageMask Signature
	entities    []EntityID
	rows        *intmap.Map[EntityID, int]
	storages    [MaxComponentTypes]iComponentStorage
}

// NewArchetype creates an archetype for signature and allocates a column
// for every set bit. Every bit must name a type registered in components.
func NewArchetype(components *ComponentRegistry, signature Signature) *Archetype {
	a := &Archetype{
		components: components,
		signature:  signature,
		rows:       intmap.New[EntityID, int](64),
	}

	for idx := range signature.Indices() {
		components.dispatch(idx).CreateStorage(a)
	}

	return a
}

// AddEntity appends a row for entity. Adding an entity that is already
// present does nothing.
func (a *Archetype) AddEntity(entity EntityID) {
	if a.rows.Has(entity) {
		return
	}
	a.entities = append(a.entities, entity)
	a.rows.Put(entity, len(a.entities)-1)
}

// RemoveEntity swap-and-pops entity from the entity list. Only the entity
// that occupied the last row changes row. Removing an absent entity does
// nothing. Columns are not touched.
func (a *Archetype) RemoveEntity(entity EntityID) {
	row, ok := a.rows.Get(entity)
	if !ok {
		return
	}

	last := len(a.entities) - 1
	if row != last {
		moved := a.entities[last]
		a.entities[row] = moved
		a.rows.Put(moved, row)
	}
	a.entities = a.entities[:last]
	a.rows.Del(entity)
}

// HasEntity reports whether entity has a row here.
func (a *Archetype) HasEntity(entity EntityID) bool {
	return a.rows.Has(entity)
}

// Row returns the entity's row.
func (a *Archetype) Row(entity EntityID) (int, bool) {
	return a.rows.Get(entity)
}

// Entities returns the dense entity list. It must not be modified and is
// invalidated by the next structural change.
func (a *Archetype) Entities() []EntityID {
	return a.entities
}

// Len returns the number of rows.
func (a *Archetype) Len() int {
	return len(a.entities)
}

// Signature returns the signature this archetype was created for.
func (a *Archetype) Signature() Signature {
	return a.signature
}

// StorageMask returns the set of columns that currently exist.
func (a *Archetype) StorageMask() Signature {
	return a.storageMask
}

// CheckRows verifies that every column is as long as the entity list and
// that the row map agrees with the entity list.
func (a *Archetype) CheckRows() error {
	if a.rows.Len() != len(a.entities) {
		return eris.Wrapf(ErrRowMismatch, "row map holds %d entries for %d entities", a.rows.Len(), len(a.entities))
	}
	for row, entity := range a.entities {
		if got, ok := a.rows.Get(entity); !ok || got != row {
			return eris.Wrapf(ErrRowMismatch, "entity %d is at row %d but mapped to %d", entity, row, got)
		}
	}
	for idx := range a.storageMask.Indices() {
		if n := a.storages[idx].Len(); n != len(a.entities) {
			return eris.Wrapf(ErrRowMismatch, "column %d holds %d values for %d entities", idx, n, len(a.entities))
		}
	}
	return nil
}

// dropRow removes entity's value from every column and then from the
// entity list.
func (a *Archetype) dropRow(entity EntityID) {
	for idx := range a.storageMask.Indices() {
		a.components.dispatch(idx).Remove(a, entity)
	}
	a.RemoveEntity(entity)
}
