package ecs

import (
	"fmt"
	"reflect"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// ComponentRegistry assigns component type indices and holds the dispatch
// entry for every registered type. Entity registries built from the same
// ComponentRegistry share one type→index assignment, while separate
// ComponentRegistry instances never interfere with each other.
type ComponentRegistry struct {
	indices map[reflect.Type]ComponentTypeIndex
	types   []reflect.Type
	ops     *intmap.Map[ComponentTypeIndex, componentOps]
}

// componentOps is the type-erased capability set bound to one component
// type at registration. It lets the entity registry create, drop and move
// columns whose element type it does not know statically.
type componentOps interface {
	CreateStorage(a *Archetype)
	Remove(a *Archetype, entity EntityID) bool
	Move(src, dst *Archetype, entity EntityID)
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		indices: make(map[reflect.Type]ComponentTypeIndex, MaxComponentTypes),
		types:   make([]reflect.Type, 0, MaxComponentTypes),
		ops:     intmap.New[ComponentTypeIndex, componentOps](MaxComponentTypes),
	}
}

// RegisterComponent registers T with the registry and returns its typed
// handle. Registering the same type again returns the existing handle.
//
// It panics if T is zero-size or would be the 65th type registered.
func RegisterComponent[T any](r *ComponentRegistry) ComponentType[T] {
	t := reflect.TypeFor[T]()
	if idx, ok := r.indices[t]; ok {
		return ComponentType[T]{index: idx}
	}

	if t.Size() == 0 {
		panic("component " + t.String() + " has zero size")
	}
	if len(r.types) >= MaxComponentTypes {
		panic(fmt.Sprintf("cannot register component %s: maximum number of component types (%d) reached", t, MaxComponentTypes))
	}

	ct := ComponentType[T]{index: ComponentTypeIndex(len(r.types))}
	r.indices[t] = ct.index
	r.types = append(r.types, t)
	r.ops.Put(ct.index, ct)
	return ct
}

// ComponentTypeOf returns the handle of a registered type.
func ComponentTypeOf[T any](r *ComponentRegistry) (ComponentType[T], error) {
	t := reflect.TypeFor[T]()
	idx, ok := r.indices[t]
	if !ok {
		return ComponentType[T]{}, eris.Wrapf(ErrInvalidComponentType, "component %s", t)
	}
	return ComponentType[T]{index: idx}, nil
}

// ComponentIndexOf returns the index assigned to T.
func ComponentIndexOf[T any](r *ComponentRegistry) (ComponentTypeIndex, error) {
	ct, err := ComponentTypeOf[T](r)
	return ct.index, err
}

// ComponentSignatureOf returns the single-bit signature of T.
func ComponentSignatureOf[T any](r *ComponentRegistry) (Signature, error) {
	ct, err := ComponentTypeOf[T](r)
	if err != nil {
		return 0, err
	}
	return ct.Signature(), nil
}

// Len returns the number of registered types.
func (r *ComponentRegistry) Len() int {
	return len(r.types)
}

// TypeOf returns the Go type registered under idx.
func (r *ComponentRegistry) TypeOf(idx ComponentTypeIndex) (reflect.Type, bool) {
	if int(idx) >= len(r.types) {
		return nil, false
	}
	return r.types[idx], true
}

// TypeNames lists the registered type names for every bit in sig.
func (r *ComponentRegistry) TypeNames(sig Signature) []string {
	names := make([]string, 0, sig.Count())
	for idx := range sig.Indices() {
		if t, ok := r.TypeOf(idx); ok {
			names = append(names, t.String())
		} else {
			names = append(names, fmt.Sprintf("#%d", idx))
		}
	}
	return names
}

// dispatch returns the ops bound to idx. Reaching an unregistered index
// is a programming error.
func (r *ComponentRegistry) dispatch(idx ComponentTypeIndex) componentOps {
	ops, ok := r.ops.Get(idx)
	if !ok {
		panic(fmt.Sprintf("component type index %d not registered", idx))
	}
	return ops
}
