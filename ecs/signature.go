package ecs

import (
	"fmt"
	"iter"
	"math/bits"
)

// MaxComponentTypes is the number of distinct component types a
// ComponentRegistry can hold. It matches the width of Signature.
const MaxComponentTypes = 64

// ComponentTypeIndex is the dense index a ComponentRegistry assigns to a
// component type, in the range [0, MaxComponentTypes).
type ComponentTypeIndex uint32

// Signature is a bit set of component type indices. Bit i is set when the
// entity (or archetype) owns a component with index i.
type Signature uint64

// SignatureOf builds a signature with the given indices set.
func SignatureOf(indices ...ComponentTypeIndex) Signature {
	var sig Signature
	for _, idx := range indices {
		sig = sig.With(idx)
	}
	return sig
}

// Bit returns the signature containing only this index.
func (i ComponentTypeIndex) Bit() Signature {
	if i >= MaxComponentTypes {
		panic(fmt.Sprintf("component type index %d exceeds maximum (%d)", i, MaxComponentTypes))
	}
	return Signature(1) << i
}

// Has reports whether the bit for idx is set.
func (s Signature) Has(idx ComponentTypeIndex) bool {
	return idx < MaxComponentTypes && s&(Signature(1)<<idx) != 0
}

// With returns s with the bit for idx set.
func (s Signature) With(idx ComponentTypeIndex) Signature {
	return s | idx.Bit()
}

// Without returns s with the bit for idx cleared.
func (s Signature) Without(idx ComponentTypeIndex) Signature {
	return s &^ idx.Bit()
}

// Contains reports whether every bit of sub is set in s.
func (s Signature) Contains(sub Signature) bool {
	return s&sub == sub
}

// IsEmpty reports whether no bit is set.
func (s Signature) IsEmpty() bool {
	return s == 0
}

// Count returns the number of set bits.
func (s Signature) Count() int {
	return bits.OnesCount64(uint64(s))
}

// Indices iterates the set bits in ascending order.
func (s Signature) Indices() iter.Seq[ComponentTypeIndex] {
	return func(yield func(ComponentTypeIndex) bool) {
		rest := uint64(s)
		for rest != 0 {
			idx := bits.TrailingZeros64(rest)
			if !yield(ComponentTypeIndex(idx)) {
				return
			}
			rest &= rest - 1
		}
	}
}

func (s Signature) String() string {
	return fmt.Sprintf("%#x", uint64(s))
}
