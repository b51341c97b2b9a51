package ptr

import "reflect"

// Irc is an immutable reference-counted handle.
//
// Cloning an Irc is O(1) and shares the underlying allocation; no
// mutable access to the shared value is ever exposed. Use it to hand
// read-only views of a value to collaborators while retaining the
// ability to reclaim the value once it is no longer shared.
//
// Irc is NOT thread-safe.
type Irc[T any] struct {
	cell *cell[T]
}

// NewIrc allocates value behind a fresh handle with count 1.
func NewIrc[T any](value T) *Irc[T] {
	return &Irc[T]{cell: newCell(value, nil)}
}

// Value returns the current value.
func (i *Irc[T]) Value() T {
	return *i.alive("Value").value.Ref()
}

// Clone returns a second handle to the same allocation, incrementing
// the reference count. It never allocates.
func (i *Irc[T]) Clone() *Irc[T] {
	c := i.alive("Clone")
	c.incCount()
	return &Irc[T]{cell: c}
}

// Count returns the number of live handles sharing the allocation.
func (i *Irc[T]) Count() int {
	return i.alive("Count").count
}

// IsExclusive reports whether this is the only handle to the value.
func (i *Irc[T]) IsExclusive() bool {
	return i.alive("IsExclusive").count == 1
}

// TryUnwrap extracts the value if this handle is exclusive, consuming
// the handle. When the value is still shared it reports false and the
// handle remains fully usable.
func (i *Irc[T]) TryUnwrap() (T, bool) {
	c := i.alive("TryUnwrap")
	if c.count != 1 {
		var zero T
		return zero, false
	}
	i.cell = nil
	return c.value.Take(), true
}

// CloneInner returns an owned duplicate of the value regardless of how
// many handles share it.
func (i *Irc[T]) CloneInner() T {
	return i.alive("CloneInner").cloneValue()
}

// UnwrapClone consumes the handle and returns the value: extracted
// directly when the handle is exclusive, duplicated otherwise.
func (i *Irc[T]) UnwrapClone() T {
	if value, ok := i.TryUnwrap(); ok {
		return value
	}
	value := i.cell.cloneValue()
	i.Dispose()
	return value
}

// Equal reports whether both handles currently observe equal values,
// compared with reflect.DeepEqual. Identity is irrelevant; two
// unrelated allocations holding equal values compare equal.
func (i *Irc[T]) Equal(other *Irc[T]) bool {
	return reflect.DeepEqual(i.Value(), other.Value())
}

// PtrEq reports whether both handles reference the same allocation.
func (i *Irc[T]) PtrEq(other *Irc[T]) bool {
	return i.alive("PtrEq") == other.alive("PtrEq")
}

// Dispose drops this handle's reference, freeing the allocation when it
// was the last one. Dispose is idempotent; any other use of the handle
// afterwards panics with *DisposedError.
func (i *Irc[T]) Dispose() {
	if i.cell == nil {
		return
	}
	i.cell.release()
	i.cell = nil
}

func (i *Irc[T]) alive(op string) *cell[T] {
	if i.cell == nil {
		panic(&DisposedError{Type: "Irc", Op: op})
	}
	return i.cell
}
