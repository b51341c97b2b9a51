// Package arena provides a generational slot arena.
//
// An Arena stores values in stable, index-addressed slots. Callers hold
// Handles (index plus generation) instead of raw pointers; freeing a
// slot bumps its generation, so any handle to the old occupant is
// detected on the next access and panics with a *StaleHandleError
// rather than silently reading recycled memory. Freed slots are
// returned to a free list and reused by later allocations.
//
// Arena is NOT thread-safe. It is intended as the backing store for
// single-threaded linked structures whose nodes reference each other
// by Handle.
package arena

import "fmt"

// Handle addresses one slot in an Arena. The zero Handle is nil: it
// never addresses a live slot, and linked structures can use it the way
// they would a nil pointer.
type Handle struct {
	index uint32
	gen   uint32
}

// IsNil reports whether h is the zero Handle.
func (h Handle) IsNil() bool {
	return h.gen == 0
}

func (h Handle) String() string {
	if h.IsNil() {
		return "arena.Handle(nil)"
	}
	return fmt.Sprintf("arena.Handle(%d@%d)", h.index, h.gen)
}

// StaleHandleError is the panic value raised when a Handle addresses a
// slot that has been freed, recycled, or never allocated.
type StaleHandleError struct {
	// Op is the operation that failed ("Get" or "Free").
	Op string
	// Handle is the offending handle.
	Handle Handle
}

func (e *StaleHandleError) Error() string {
	return fmt.Sprintf("arena: %s of stale handle %v", e.Op, e.Handle)
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Arena is a growable pool of slots addressed by generation-checked
// handles. The zero Arena is empty and ready to use; New is provided
// for symmetry with the rest of the module.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc stores value in a free slot, growing the arena if none is
// available, and returns a handle to it.
//
// Alloc may grow the slot storage, which invalidates pointers
// previously returned by Get. Re-fetch through Get after allocating.
func (a *Arena[T]) Alloc(value T) Handle {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		// Generations start at 1 so the zero Handle stays nil forever.
		a.slots = append(a.slots, slot[T]{gen: 1})
		index = uint32(len(a.slots) - 1)
	}
	s := &a.slots[index]
	s.value = value
	s.live = true
	a.live++
	return Handle{index: index, gen: s.gen}
}

// Get returns a pointer to the slot addressed by h. The pointer is
// valid until the next Alloc on this arena. Get panics with
// *StaleHandleError if h does not address a live slot.
func (a *Arena[T]) Get(h Handle) *T {
	s := a.lookup("Get", h)
	return &s.value
}

// Free releases the slot addressed by h, returning the value it held.
// The slot's generation is bumped, so h and any copies of it become
// stale. Free panics with *StaleHandleError if h does not address a
// live slot.
func (a *Arena[T]) Free(h Handle) T {
	s := a.lookup("Free", h)
	value := s.value
	var zero T
	s.value = zero
	s.gen++
	s.live = false
	a.free = append(a.free, h.index)
	a.live--
	return value
}

// Contains reports whether h addresses a live slot.
func (a *Arena[T]) Contains(h Handle) bool {
	if h.IsNil() || int(h.index) >= len(a.slots) {
		return false
	}
	s := &a.slots[h.index]
	return s.live && s.gen == h.gen
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int {
	return a.live
}

// Cap returns the total number of slots, live and free.
func (a *Arena[T]) Cap() int {
	return len(a.slots)
}

func (a *Arena[T]) lookup(op string, h Handle) *slot[T] {
	if h.IsNil() || int(h.index) >= len(a.slots) {
		panic(&StaleHandleError{Op: op, Handle: h})
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		panic(&StaleHandleError{Op: op, Handle: h})
	}
	return s
}
