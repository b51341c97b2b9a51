package ptr

import (
	"reflect"

	"github.com/go-drift/lineage/pkg/arena"
	"github.com/go-drift/lineage/pkg/takeable"
)

// node is one entry in a version chain. The chain is a doubly linked
// list ordered newest to oldest: prev points toward newer values, next
// toward older ones. A zero handle means no neighbor. count equals the
// number of live Lrc handles pointing at this node.
type node[T any] struct {
	prev  arena.Handle
	value takeable.Takeable[T]
	count int
	next  arena.Handle
}

// chain is the per-lineage state shared by every Lrc cloned from the
// same root. Nodes live in a generation-checked arena, so the splice
// that runs when a node is freed manipulates checked indices instead of
// raw pointers, and a stale reference is a panic, not a corruption.
type chain[T any] struct {
	nodes arena.Arena[node[T]]
	clone func(T) T
}

func (c *chain[T]) cloneValue(value T) T {
	if c.clone != nil {
		return c.clone(value)
	}
	return value
}

// spliceOut disconnects the node at h from its neighbors — prev.next is
// pointed at next, next.prev at prev, whichever of the two exist — and
// frees its slot, returning the removed node. Neighbor counts are not
// touched: only this node's place in the chain changes, not anyone's
// ownership.
func (c *chain[T]) spliceOut(h arena.Handle) node[T] {
	n := c.nodes.Get(h)
	prev, next := n.prev, n.next
	if !prev.IsNil() {
		c.nodes.Get(prev).next = next
	}
	if !next.IsNil() {
		c.nodes.Get(next).prev = prev
	}
	return c.nodes.Free(h)
}

// Lrc is a version-chained reference-counted handle.
//
// Every Lrc points at one node in a doubly linked chain of values,
// newest to oldest. Clones initially share a node; when one of them
// calls Set (or MakeMut) while the node is shared, a new node is pushed
// at the newer end of the chain and only that handle moves to it. The
// other handles keep observing the value they had — it has simply
// become older — and can catch up at any time with Update.
//
// This gives a family of components a way to share one logical value
// without a central owner: each holder mutates through its own handle,
// nobody's view is ever invalidated behind their back, and views
// re-converge on demand.
//
// An Lrc is also a bidirectional cursor over its chain: AdvanceNext and
// AdvanceBack move the handle itself, Older and Newer produce fresh
// handles one step away. Clone before iterating to keep the original
// position.
//
// Lrc is NOT thread-safe.
type Lrc[T any] struct {
	chain *chain[T]
	head  arena.Handle
}

// NewLrc allocates value as a singleton chain with count 1. Values are
// duplicated by plain assignment during copy-on-write; for types that
// need a deep copy, use NewLrcWithClone.
func NewLrc[T any](value T) *Lrc[T] {
	return newLrc(value, nil)
}

// NewLrcWithClone is NewLrc with a custom duplication function, used
// whenever copy-on-write needs an owned copy of the value.
func NewLrcWithClone[T any](value T, clone func(T) T) *Lrc[T] {
	return newLrc(value, clone)
}

func newLrc[T any](value T, clone func(T) T) *Lrc[T] {
	c := &chain[T]{clone: clone}
	head := c.nodes.Alloc(node[T]{value: takeable.New(value), count: 1})
	return &Lrc[T]{chain: c, head: head}
}

// Value returns the value at this handle's node.
func (l *Lrc[T]) Value() T {
	return *l.node("Value").value.Ref()
}

// Clone returns a second handle to the same node, incrementing its
// reference count. It never allocates.
func (l *Lrc[T]) Clone() *Lrc[T] {
	l.node("Clone").count++
	return &Lrc[T]{chain: l.chain, head: l.head}
}

// Set replaces the value seen through this handle. With exclusive
// access the node is overwritten in place. When the node is shared, a
// new node is pushed at the newer end of the chain and this handle
// moves to it; the other handles keep the old node and the old value.
func (l *Lrc[T]) Set(value T) {
	n := l.node("Set")
	if n.count == 1 {
		*n.value.Ref() = value
		return
	}
	l.pushHead(value)
}

// Alter replaces the value with f applied to the current one, following
// the same sharing rules as Set.
func (l *Lrc[T]) Alter(f func(T) T) {
	l.Set(f(l.Value()))
}

// GetMut returns a pointer to the node's value for in-place mutation,
// but only while this handle is exclusive. When the node is shared it
// reports false; it never silently aliases a shared value. The pointer
// is valid until the next operation on any handle of this lineage.
func (l *Lrc[T]) GetMut() (*T, bool) {
	n := l.node("GetMut")
	if n.count != 1 {
		return nil, false
	}
	return n.value.Ref(), true
}

// MakeMut always returns a pointer to an exclusively owned value. If
// the node is shared, its value is duplicated into a new head node
// first, exactly as Set would push one. The pointer is valid until the
// next operation on any handle of this lineage.
func (l *Lrc[T]) MakeMut() *T {
	n := l.node("MakeMut")
	if n.count > 1 {
		l.pushHead(l.chain.cloneValue(*n.value.Ref()))
	}
	return l.node("MakeMut").value.Ref()
}

// pushHead allocates a new node holding value and moves this handle to
// it. The old node becomes the new node's next (older) neighbor and
// loses this handle's reference; callers only push while the old node
// is shared, so its count stays above zero.
func (l *Lrc[T]) pushHead(value T) {
	old := l.head
	head := l.chain.nodes.Alloc(node[T]{
		value: takeable.New(value),
		count: 1,
		next:  old,
	})
	// Re-fetch after Alloc: growing the arena invalidates node pointers.
	n := l.chain.nodes.Get(old)
	n.prev = head
	n.count--
	l.head = head
}

// AdvanceNext moves this handle one step toward older history. The
// target node gains this handle's reference and the current node loses
// it, freeing (and splicing out) the current node if no other handle
// remains. It reports false and leaves the handle unmoved when there is
// no older node.
func (l *Lrc[T]) AdvanceNext() bool {
	return l.advance(l.node("AdvanceNext").next)
}

// AdvanceBack is the mirror of AdvanceNext, moving one step toward
// newer history. It reports false and leaves the handle unmoved when
// there is no newer node.
func (l *Lrc[T]) AdvanceBack() bool {
	return l.advance(l.node("AdvanceBack").prev)
}

func (l *Lrc[T]) advance(target arena.Handle) bool {
	if target.IsNil() {
		return false
	}
	l.chain.nodes.Get(target).count++
	l.releaseHead()
	l.head = target
	return true
}

// Update moves this handle to the newest node in its lineage. After a
// sibling handle has pushed new values with Set, Update makes this
// handle observe the latest one; it is a no-op when the handle is
// already newest.
func (l *Lrc[T]) Update() {
	l.node("Update")
	for l.AdvanceBack() {
	}
}

// Older returns a fresh handle to the next older node, leaving this
// handle in place, or (nil, false) when there is none. The returned
// handle owns its own reference and must be disposed like any other.
func (l *Lrc[T]) Older() (*Lrc[T], bool) {
	return l.step(l.node("Older").next)
}

// Newer is the mirror of Older, yielding a fresh handle to the next
// newer node.
func (l *Lrc[T]) Newer() (*Lrc[T], bool) {
	return l.step(l.node("Newer").prev)
}

func (l *Lrc[T]) step(target arena.Handle) (*Lrc[T], bool) {
	if target.IsNil() {
		return nil, false
	}
	l.chain.nodes.Get(target).count++
	return &Lrc[T]{chain: l.chain, head: target}, true
}

// TryUnwrap extracts the node's value if this handle is exclusive,
// consuming the handle. The node is spliced out of the chain so its
// neighbors stay connected. When the node is shared it reports false
// and the handle remains fully usable.
func (l *Lrc[T]) TryUnwrap() (T, bool) {
	n := l.node("TryUnwrap")
	if n.count != 1 {
		var zero T
		return zero, false
	}
	removed := l.chain.spliceOut(l.head)
	l.chain, l.head = nil, arena.Handle{}
	return removed.value.Take(), true
}

// Count returns the number of live handles sharing this node.
func (l *Lrc[T]) Count() int {
	return l.node("Count").count
}

// IsExclusive reports whether this is the only handle on its node.
func (l *Lrc[T]) IsExclusive() bool {
	return l.node("IsExclusive").count == 1
}

// Len returns the number of nodes from this handle's node to the oldest
// end of the chain, inclusive. O(chain length).
func (l *Lrc[T]) Len() int {
	l.node("Len")
	count := 0
	for h := l.head; !h.IsNil(); h = l.chain.nodes.Get(h).next {
		count++
	}
	return count
}

// Equal reports whether both handles currently observe equal values,
// compared with reflect.DeepEqual. Two handles on different nodes — or
// different lineages — holding equal values compare equal; use PtrEq
// for identity.
func (l *Lrc[T]) Equal(other *Lrc[T]) bool {
	return reflect.DeepEqual(l.Value(), other.Value())
}

// PtrEq reports whether both handles reference the same node.
func (l *Lrc[T]) PtrEq(other *Lrc[T]) bool {
	l.node("PtrEq")
	other.node("PtrEq")
	return l.chain == other.chain && l.head == other.head
}

// Dispose drops this handle's reference. If it was the node's last, the
// node is spliced out of the chain — its neighbors are linked to each
// other — and freed. Dispose is idempotent; any other use of the handle
// afterwards panics with *DisposedError.
func (l *Lrc[T]) Dispose() {
	if l.chain == nil {
		return
	}
	l.releaseHead()
	l.chain, l.head = nil, arena.Handle{}
}

// releaseHead drops the reference on the current node, splicing it out
// and freeing it when the count reaches zero. The extracted value is
// discarded through the take-once slot so a later read of the slot
// cannot return it silently.
func (l *Lrc[T]) releaseHead() {
	n := l.chain.nodes.Get(l.head)
	n.count--
	if n.count == 0 {
		removed := l.chain.spliceOut(l.head)
		_ = removed.value.Take()
	}
}

func (l *Lrc[T]) node(op string) *node[T] {
	if l.chain == nil {
		panic(&DisposedError{Type: "Lrc", Op: op})
	}
	return l.chain.nodes.Get(l.head)
}
