// Package ptr provides single-threaded reference-counted value handles.
//
// Three handle variants share the same ownership model (a plain,
// non-atomic reference count equal to the number of live handles):
//
// Irc is an immutable shared handle. Clone is O(1) and never allocates;
// no mutable access is ever exposed.
//
// Mrc is a mutable copy-on-write handle. GetMut hands out mutable
// access only while the handle is exclusive; MakeMut duplicates the
// value into a fresh allocation first when it is not. Mrc can downgrade
// to an Irc sharing the same allocation.
//
// Lrc is a version-chained handle. Every Lrc points at one node in a
// doubly linked chain of historical values, newest to oldest. Setting a
// value on a shared handle pushes a new head node instead of mutating,
// so other handles keep observing the value they had; Update later
// collapses a handle onto the newest node in its lineage. Nodes live in
// a generation-checked arena, so a bug that reaches a freed node is a
// loud panic rather than memory corruption.
//
// # Exclusivity
//
// Mutation is gated structurally, not by locking: an operation that
// needs exclusive access checks that the handle's count is exactly 1.
// When it is not, the fallible accessors (GetMut, TryUnwrap) fail
// closed and the copy-on-write accessors (MakeMut, Set) pay a one-time
// duplication instead.
//
// # Disposal
//
// Go has no destructors, so handles are released explicitly:
//
//	lrc := ptr.NewLrc(0)
//	defer lrc.Dispose()
//
// Dispose is idempotent. Dropping the last handle to a cell or node
// frees it; for Lrc the freed node's neighbors are spliced together
// first so the rest of the chain stays connected. Using a handle after
// a successful TryUnwrap or after Dispose panics with *DisposedError.
//
// None of the types in this package are safe for concurrent use. They
// are designed for single-owner-thread state sharing, e.g. between a
// component and its children inside a UI frame loop.
package ptr
