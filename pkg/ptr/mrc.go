package ptr

import "reflect"

// Mrc is a mutable copy-on-write reference-counted handle.
//
// Sharing is cheap: Clone increments a count and returns a second
// handle to the same allocation. Mutation requires exclusivity: GetMut
// succeeds only while the count is 1, and MakeMut manufactures
// exclusivity by duplicating the value into a fresh allocation when it
// is shared. The duplication cost is paid exactly once per fork;
// further mutation through the same handle is free until it is shared
// again.
//
// An Mrc can hand out read-only views of its allocation as Irc handles,
// which makes it a good fit for configuration-style data: one holder
// mutates, everyone else reads.
//
// Mrc is NOT thread-safe.
type Mrc[T any] struct {
	cell *cell[T]
}

// NewMrc allocates value behind a fresh handle with count 1. Values are
// duplicated by plain assignment during copy-on-write; for types that
// need a deep copy, use NewMrcWithClone.
func NewMrc[T any](value T) *Mrc[T] {
	return &Mrc[T]{cell: newCell(value, nil)}
}

// NewMrcWithClone is NewMrc with a custom duplication function, used
// whenever copy-on-write needs an owned copy of the value.
func NewMrcWithClone[T any](value T, clone func(T) T) *Mrc[T] {
	return &Mrc[T]{cell: newCell(value, clone)}
}

// Value returns the current value.
func (m *Mrc[T]) Value() T {
	return *m.alive("Value").value.Ref()
}

// Clone returns a second handle to the same allocation, incrementing
// the reference count. It never allocates.
func (m *Mrc[T]) Clone() *Mrc[T] {
	c := m.alive("Clone")
	c.incCount()
	return &Mrc[T]{cell: c}
}

// GetMut returns a pointer to the value for in-place mutation, but only
// while this handle is exclusive. When the value is shared it reports
// false; it never silently aliases a shared value. The pointer is valid
// until the handle is shared, unwrapped or disposed.
func (m *Mrc[T]) GetMut() (*T, bool) {
	c := m.alive("GetMut")
	if c.count != 1 {
		return nil, false
	}
	return c.value.Ref(), true
}

// MakeMut always returns a pointer to an exclusively owned value. If
// the allocation is shared, the value is first duplicated into a fresh
// one and this handle is re-pointed at it; the old allocation keeps
// serving the other handles. The pointer is valid until the handle is
// shared, unwrapped or disposed.
func (m *Mrc[T]) MakeMut() *T {
	c := m.alive("MakeMut")
	if c.count != 1 {
		fresh := newCell(c.cloneValue(), c.clone)
		// The old cell cannot reach zero here: its count was at
		// least 2, and only this handle is letting go.
		c.decCount()
		m.cell = fresh
		c = fresh
	}
	return c.value.Ref()
}

// Irc returns an immutable handle sharing this allocation, incrementing
// the reference count. The Mrc stays usable.
func (m *Mrc[T]) Irc() *Irc[T] {
	c := m.alive("Irc")
	c.incCount()
	return &Irc[T]{cell: c}
}

// IntoIrc converts this handle into an immutable one. The reference
// count is unchanged; the Mrc is consumed and must not be used again.
func (m *Mrc[T]) IntoIrc() *Irc[T] {
	c := m.alive("IntoIrc")
	m.cell = nil
	return &Irc[T]{cell: c}
}

// Count returns the number of live handles sharing the allocation.
func (m *Mrc[T]) Count() int {
	return m.alive("Count").count
}

// IsExclusive reports whether this is the only handle to the value.
func (m *Mrc[T]) IsExclusive() bool {
	return m.alive("IsExclusive").count == 1
}

// TryUnwrap extracts the value if this handle is exclusive, consuming
// the handle. When the value is still shared it reports false and the
// handle remains fully usable.
func (m *Mrc[T]) TryUnwrap() (T, bool) {
	c := m.alive("TryUnwrap")
	if c.count != 1 {
		var zero T
		return zero, false
	}
	m.cell = nil
	return c.value.Take(), true
}

// CloneInner returns an owned duplicate of the value regardless of how
// many handles share it.
func (m *Mrc[T]) CloneInner() T {
	return m.alive("CloneInner").cloneValue()
}

// UnwrapClone consumes the handle and returns the value: extracted
// directly when the handle is exclusive, duplicated otherwise.
func (m *Mrc[T]) UnwrapClone() T {
	if value, ok := m.TryUnwrap(); ok {
		return value
	}
	value := m.cell.cloneValue()
	m.Dispose()
	return value
}

// Equal reports whether both handles currently observe equal values,
// compared with reflect.DeepEqual.
func (m *Mrc[T]) Equal(other *Mrc[T]) bool {
	return reflect.DeepEqual(m.Value(), other.Value())
}

// PtrEq reports whether both handles reference the same allocation.
func (m *Mrc[T]) PtrEq(other *Mrc[T]) bool {
	return m.alive("PtrEq") == other.alive("PtrEq")
}

// Dispose drops this handle's reference, freeing the allocation when it
// was the last one. Dispose is idempotent; any other use of the handle
// afterwards panics with *DisposedError.
func (m *Mrc[T]) Dispose() {
	if m.cell == nil {
		return
	}
	m.cell.release()
	m.cell = nil
}

func (m *Mrc[T]) alive(op string) *cell[T] {
	if m.cell == nil {
		panic(&DisposedError{Type: "Mrc", Op: op})
	}
	return m.cell
}
