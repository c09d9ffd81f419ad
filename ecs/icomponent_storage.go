package ecs

// iComponentStorage is a type-erased dense column inside an archetype.
type iComponentStorage interface {
	Len() int
	swapRemove(row int)
}

// componentColumn stores every value of one component type for one
// archetype, indexed by the archetype's row numbers.
type componentColumn[T any] struct {
	values []T
}

func (c *componentColumn[T]) Len() int {
	return len(c.values)
}

// swapRemove moves the last value into row and shrinks the column by one.
func (c *componentColumn[T]) swapRemove(row int) {
	last := len(c.values) - 1
	if row != last {
		c.values[row] = c.values[last]
	}
	var zero T
	c.values[last] = zero
	c.values = c.values[:last]
}
