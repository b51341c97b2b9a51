package ptr

import "github.com/go-drift/lineage/pkg/takeable"

// cell is the unit of heap allocation behind Irc and Mrc: a take-once
// value slot next to a plain reference count. The count always equals
// the number of live handles referencing the cell.
type cell[T any] struct {
	value takeable.Takeable[T]
	count int
	// clone duplicates the value for copy-on-write. nil means
	// duplication by plain assignment.
	clone func(T) T
}

func newCell[T any](value T, clone func(T) T) *cell[T] {
	return &cell[T]{
		value: takeable.New(value),
		count: 1,
		clone: clone,
	}
}

func (c *cell[T]) incCount() {
	c.count++
}

// decCount reports whether the count reached zero.
func (c *cell[T]) decCount() bool {
	c.count--
	return c.count == 0
}

// cloneValue returns an owned duplicate of the held value.
func (c *cell[T]) cloneValue() T {
	value := *c.value.Ref()
	if c.clone != nil {
		return c.clone(value)
	}
	return value
}

// release drops one reference. When the last reference is dropped the
// value is extracted through the take-once slot and discarded, so any
// later access to the cell trips the takeable's access check.
func (c *cell[T]) release() {
	if c.decCount() {
		_ = c.value.Take()
	}
}
