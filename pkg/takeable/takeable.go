// Package takeable provides a single-use value container.
//
// A Takeable holds exactly one value until it is extracted with Take.
// It exists so a value can be moved out of a shared allocation during
// teardown without requiring the value type to have a meaningful zero
// state. Accessing a Takeable after its value has been taken is a
// programming error and panics with an *AccessError.
//
// Takeable is NOT thread-safe. It is intended for single-owner-thread
// bookkeeping inside reference-counted containers.
package takeable

// AccessError is the panic value raised when a Takeable is used after
// its value has been taken.
type AccessError struct {
	// Op is the operation that failed ("Take" or "Ref").
	Op string
}

func (e *AccessError) Error() string {
	return "takeable: " + e.Op + " after value was already taken"
}

// Takeable holds a value until it is extracted exactly once.
//
// The zero Takeable is in the taken state; use New to create one
// holding a value.
type Takeable[T any] struct {
	value   T
	present bool
}

// New returns a Takeable holding value.
func New[T any](value T) Takeable[T] {
	return Takeable[T]{value: value, present: true}
}

// Ref returns a pointer to the held value. The pointer remains valid
// until Take is called. Ref panics with *AccessError if the value has
// already been taken.
func (t *Takeable[T]) Ref() *T {
	if !t.present {
		panic(&AccessError{Op: "Ref"})
	}
	return &t.value
}

// Take extracts the held value, leaving the Takeable empty. It must be
// called at most once; a second call panics with *AccessError.
func (t *Takeable[T]) Take() T {
	if !t.present {
		panic(&AccessError{Op: "Take"})
	}
	t.present = false
	value := t.value
	var zero T
	t.value = zero
	return value
}

// Taken reports whether the value has been extracted.
func (t *Takeable[T]) Taken() bool {
	return !t.present
}
