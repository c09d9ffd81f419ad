package ecs

import "iter"

// ViewIndex addresses one row of a view: the position of the archetype in
// the view's snapshot and the row inside that archetype.
type ViewIndex struct {
	Archetype int
	Row       int
}

type viewChunk struct {
	archetype *Archetype
	entities  []EntityID
}

// viewBase is the archetype snapshot shared by every view arity. The
// snapshot is taken once, when the view is built: archetypes created later
// are not part of it, and any structural change to a captured archetype
// invalidates the view.
type viewBase struct {
	signature Signature
	chunks    []viewChunk
	length    int
}

func (r *EntityRegistry) snapshot(query Signature) viewBase {
	base := viewBase{signature: query}
	for _, a := range r.matchingArchetypes(query) {
		if a.Len() == 0 {
			continue
		}
		base.chunks = append(base.chunks, viewChunk{archetype: a, entities: a.Entities()})
		base.length += a.Len()
	}
	return base
}

// Signature returns the query signature the view was built for.
func (v *viewBase) Signature() Signature {
	return v.signature
}

// Len returns the number of rows in the snapshot.
func (v *viewBase) Len() int {
	return v.length
}

// ArchetypeCount returns the number of non-empty archetypes captured.
func (v *viewBase) ArchetypeCount() int {
	return len(v.chunks)
}

// Entity returns the entity stored at idx.
func (v *viewBase) Entity(idx ViewIndex) EntityID {
	return v.chunks[idx.Archetype].entities[idx.Row]
}

// Indices iterates every row in snapshot order: archetypes as captured,
// then ascending row.
func (v *viewBase) Indices() iter.Seq2[EntityID, ViewIndex] {
	return func(yield func(EntityID, ViewIndex) bool) {
		for ai, chunk := range v.chunks {
			for row, entity := range chunk.entities {
				if !yield(entity, ViewIndex{Archetype: ai, Row: row}) {
					return
				}
			}
		}
	}
}

// Entities iterates the entities of the view in snapshot order.
func (v *viewBase) Entities() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		for entity := range v.Indices() {
			if !yield(entity) {
				return
			}
		}
	}
}

// View1 is a snapshot of every entity that has A.
type View1[A any] struct {
	viewBase
	a [][]A
}

// GetView1 builds a view over every archetype containing A.
func GetView1[A any](r *EntityRegistry) (*View1[A], error) {
	ca, err := ComponentTypeOf[A](r.components)
	if err != nil {
		return nil, err
	}

	v := &View1[A]{viewBase: r.snapshot(ca.Signature())}
	for _, chunk := range v.chunks {
		v.a = append(v.a, ca.Values(chunk.archetype))
	}
	return v, nil
}

// Get returns a pointer to A at idx.
func (v *View1[A]) Get(idx ViewIndex) *A {
	return &v.a[idx.Archetype][idx.Row]
}

// All iterates (entity, A) pairs in snapshot order.
func (v *View1[A]) All() iter.Seq2[EntityID, *A] {
	return func(yield func(EntityID, *A) bool) {
		for entity, idx := range v.Indices() {
			if !yield(entity, v.Get(idx)) {
				return
			}
		}
	}
}

// Each calls fn for every row.
func (v *View1[A]) Each(fn func(EntityID, *A)) {
	for entity, idx := range v.Indices() {
		fn(entity, v.Get(idx))
	}
}

// View2 is a snapshot of every entity that has both A and B.
type View2[A, B any] struct {
	viewBase
	a [][]A
	b [][]B
}

// GetView2 builds a view over every archetype containing A and B.
func GetView2[A, B any](r *EntityRegistry) (*View2[A, B], error) {
	ca, err := ComponentTypeOf[A](r.components)
	if err != nil {
		return nil, err
	}
	cb, err := ComponentTypeOf[B](r.components)
	if err != nil {
		return nil, err
	}

	v := &View2[A, B]{viewBase: r.snapshot(ca.Signature() | cb.Signature())}
	for _, chunk := range v.chunks {
		v.a = append(v.a, ca.Values(chunk.archetype))
		v.b = append(v.b, cb.Values(chunk.archetype))
	}
	return v, nil
}

// Get returns pointers to A and B at idx.
func (v *View2[A, B]) Get(idx ViewIndex) (*A, *B) {
	return &v.a[idx.Archetype][idx.Row], &v.b[idx.Archetype][idx.Row]
}

// Each calls fn for every row.
func (v *View2[A, B]) Each(fn func(EntityID, *A, *B)) {
	for entity, idx := range v.Indices() {
		a, b := v.Get(idx)
		fn(entity, a, b)
	}
}

// View3 is a snapshot of every entity that has A, B and C.
type View3[A, B, C any] struct {
	viewBase
	a [][]A
	b [][]B
	c [][]C
}

// GetView3 builds a view over every archetype containing A, B and C.
func GetView3[A, B, C any](r *EntityRegistry) (*View3[A, B, C], error) {
	ca, err := ComponentTypeOf[A](r.components)
	if err != nil {
		return nil, err
	}
	cb, err := ComponentTypeOf[B](r.components)
	if err != nil {
		return nil, err
	}
	cc, err := ComponentTypeOf[C](r.components)
	if err != nil {
		return nil, err
	}

	v := &View3[A, B, C]{viewBase: r.snapshot(ca.Signature() | cb.Signature() | cc.Signature())}
	for _, chunk := range v.chunks {
		v.a = append(v.a, ca.Values(chunk.archetype))
		v.b = append(v.b, cb.Values(chunk.archetype))
		v.c = append(v.c, cc.Values(chunk.archetype))
	}
	return v, nil
}

// Get returns pointers to A, B and C at idx.
func (v *View3[A, B, C]) Get(idx ViewIndex) (*A, *B, *C) {
	ai, row := idx.Archetype, idx.Row
	return &v.a[ai][row], &v.b[ai][row], &v.c[ai][row]
}

// Each calls fn for every row.
func (v *View3[A, B, C]) Each(fn func(EntityID, *A, *B, *C)) {
	for entity, idx := range v.Indices() {
		a, b, c := v.Get(idx)
		fn(entity, a, b, c)
	}
}

// View4 is a snapshot of every entity that has A, B, C and D.
type View4[A, B, C, D any] struct {
	viewBase
	a [][]A
	b [][]B
	c [][]C
	d [][]D
}

// GetView4 builds a view over every archetype containing A, B, C and D.
func GetView4[A, B, C, D any](r *EntityRegistry) (*View4[A, B, C, D], error) {
	ca, err := ComponentTypeOf[A](r.components)
	if err != nil {
		return nil, err
	}
	cb, err := ComponentTypeOf[B](r.components)
	if err != nil {
		return nil, err
	}
	cc, err := ComponentTypeOf[C](r.components)
	if err != nil {
		return nil, err
	}
	cd, err := ComponentTypeOf[D](r.components)
	if err != nil {
		return nil, err
	}

	query := ca.Signature() | cb.Signature() | cc.Signature() | cd.Signature()
	v := &View4[A, B, C, D]{viewBase: r.snapshot(query)}
	for _, chunk := range v.chunks {
		v.a = append(v.a, ca.Values(chunk.archetype))
		v.b = append(v.b, cb.Values(chunk.archetype))
		v.c = append(v.c, cc.Values(chunk.archetype))
		v.d = append(v.d, cd.Values(chunk.archetype))
	}
	return v, nil
}

// Get returns pointers to A, B, C and D at idx.
func (v *View4[A, B, C, D]) Get(idx ViewIndex) (*A, *B, *C, *D) {
	ai, row := idx.Archetype, idx.Row
	return &v.a[ai][row], &v.b[ai][row], &v.c[ai][row], &v.d[ai][row]
}

// Each calls fn for every row.
func (v *View4[A, B, C, D]) Each(fn func(EntityID, *A, *B, *C, *D)) {
	for entity, idx := range v.Indices() {
		a, b, c, d := v.Get(idx)
		fn(entity, a, b, c, d)
	}
}
