package ecs

import "math"

// EntityID is a recycled handle. An ID says nothing about the entity it
// names once that entity has been deleted, so always check IsEntityValid.
type EntityID uint32

// InvalidEntityID is returned alongside errors from CreateEntity.
const InvalidEntityID = EntityID(math.MaxUint32)

// entityMetadata is the per-slot state of an entity. A nil archetype
// means the slot is free.
type entityMetadata struct {
	signature Signature
	archetype *Archetype
}
