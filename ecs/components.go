package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// TryAddComponent attaches value to entity. It returns false when the
// entity is not alive, T is not registered, or the entity already has T.
func TryAddComponent[T any](r *EntityRegistry, entity EntityID, value T) bool {
	ct, err := ComponentTypeOf[T](r.components)
	if err != nil || !r.IsEntityValid(entity) {
		return false
	}
	if r.metadata[entity].signature.Has(ct.index) {
		return false
	}

	dst := r.attach(entity, ct.index)
	ct.Add(dst, entity, value)
	return true
}

// EmplaceComponent attaches a zero T to entity and returns a pointer to it
// for initialisation in place.
func EmplaceComponent[T any](r *EntityRegistry, entity EntityID) (*T, error) {
	ct, err := ComponentTypeOf[T](r.components)
	if err != nil {
		return nil, err
	}
	if err := r.checkAlive(entity); err != nil {
		return nil, err
	}
	if r.metadata[entity].signature.Has(ct.index) {
		return nil, eris.Wrapf(ErrComponentAlreadyExists, "entity %d, component %s", entity, reflect.TypeFor[T]())
	}

	dst := r.attach(entity, ct.index)
	return ct.Emplace(dst, entity), nil
}

// GetComponent returns a pointer to the entity's T. The pointer is
// invalidated by the next structural change to the entity's archetype.
func GetComponent[T any](r *EntityRegistry, entity EntityID) (*T, error) {
	ct, err := ComponentTypeOf[T](r.components)
	if err != nil {
		return nil, err
	}
	if err := r.checkAlive(entity); err != nil {
		return nil, err
	}
	meta := r.metadata[entity]
	if !meta.signature.Has(ct.index) {
		return nil, eris.Wrapf(ErrNoComponent, "entity %d, component %s", entity, reflect.TypeFor[T]())
	}
	return ct.Get(meta.archetype, entity), nil
}

// GetComponents2 returns pointers to the entity's A and B. It fails like
// GetComponent on the first type the entity lacks.
func GetComponents2[A, B any](r *EntityRegistry, entity EntityID) (*A, *B, error) {
	a, err := GetComponent[A](r, entity)
	if err != nil {
		return nil, nil, err
	}
	b, err := GetComponent[B](r, entity)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// GetComponents3 returns pointers to the entity's A, B and C.
func GetComponents3[A, B, C any](r *EntityRegistry, entity EntityID) (*A, *B, *C, error) {
	a, b, err := GetComponents2[A, B](r, entity)
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := GetComponent[C](r, entity)
	if err != nil {
		return nil, nil, nil, err
	}
	return a, b, c, nil
}

// TryGetComponent is GetComponent reporting failure through ok.
func TryGetComponent[T any](r *EntityRegistry, entity EntityID) (*T, bool) {
	comp, err := GetComponent[T](r, entity)
	return comp, err == nil
}

// ReplaceComponent overwrites the entity's existing T.
func ReplaceComponent[T any](r *EntityRegistry, entity EntityID, value T) error {
	comp, err := GetComponent[T](r, entity)
	if err != nil {
		return err
	}
	*comp = value
	return nil
}

// TryReplaceComponent overwrites the entity's T and reports whether it had
// one.
func TryReplaceComponent[T any](r *EntityRegistry, entity EntityID, value T) bool {
	return ReplaceComponent(r, entity, value) == nil
}

// HasComponent reports whether entity has T. An entity that is not alive
// has no components.
func HasComponent[T any](r *EntityRegistry, entity EntityID) (bool, error) {
	sig, err := ComponentSignatureOf[T](r.components)
	if err != nil {
		return false, err
	}
	return r.HasComponents(entity, sig)
}

// HasComponents2 reports whether entity has both A and B.
func HasComponents2[A, B any](r *EntityRegistry, entity EntityID) (bool, error) {
	sig, err := querySignature(r.components, reflect.TypeFor[A](), reflect.TypeFor[B]())
	if err != nil {
		return false, err
	}
	return r.HasComponents(entity, sig)
}

// HasComponents3 reports whether entity has A, B and C.
func HasComponents3[A, B, C any](r *EntityRegistry, entity EntityID) (bool, error) {
	sig, err := querySignature(r.components, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C]())
	if err != nil {
		return false, err
	}
	return r.HasComponents(entity, sig)
}

// HasComponents reports whether entity's signature contains sig. An entity
// that is not alive has no components, even for an empty sig.
func (r *EntityRegistry) HasComponents(entity EntityID, sig Signature) (bool, error) {
	if err := r.checkInRange(entity); err != nil {
		return false, err
	}
	meta := r.metadata[entity]
	if meta.archetype == nil {
		return false, nil
	}
	return meta.signature.Contains(sig), nil
}

// querySignature ORs the bits of the given registered types.
func querySignature(components *ComponentRegistry, types ...reflect.Type) (Signature, error) {
	var sig Signature
	for _, t := range types {
		idx, ok := components.indices[t]
		if !ok {
			return 0, eris.Wrapf(ErrInvalidComponentType, "component %s", t)
		}
		sig = sig.With(idx)
	}
	return sig, nil
}
