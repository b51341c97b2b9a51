package ptr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// history collects the values visible from l toward the older end of
// the chain, newest first, without moving l.
func history[T any](l *Lrc[T]) []T {
	values := []T{l.Value()}
	cursor := l.Clone()
	for cursor.AdvanceNext() {
		values = append(values, cursor.Value())
	}
	cursor.Dispose()
	return values
}

func TestLrcNew(t *testing.T) {
	lrc := NewLrc(25)
	defer lrc.Dispose()

	assert.Equal(t, 25, lrc.Value())
	assert.Equal(t, 1, lrc.Count())
	assert.Equal(t, 1, lrc.Len())
	assert.True(t, lrc.IsExclusive())
}

func TestLrcClone(t *testing.T) {
	lrc := NewLrc(25)
	defer lrc.Dispose()

	clone := lrc.Clone()
	defer clone.Dispose()

	assert.Equal(t, 25, clone.Value())
	assert.Equal(t, 2, lrc.Count())
	assert.True(t, lrc.PtrEq(clone))
}

func TestLrcSetExclusiveKeepsChainLength(t *testing.T) {
	lrc := NewLrc(25)
	defer lrc.Dispose()

	lrc.Set(24)

	assert.Equal(t, 24, lrc.Value())
	assert.Equal(t, 1, lrc.Len(), "exclusive set must not grow the chain")
}

func TestLrcSetSharedPushesNode(t *testing.T) {
	lrc := NewLrc(0)
	defer lrc.Dispose()
	cloned := lrc.Clone()
	defer cloned.Dispose()

	lrc.Set(1)

	assert.Equal(t, 1, lrc.Value())
	assert.Equal(t, 0, cloned.Value(), "sibling keeps observing the old value")
	assert.Equal(t, 1, lrc.Count(), "mover owns the new node alone")
	assert.Equal(t, 1, cloned.Count(), "old node keeps only the sibling")
	assert.Equal(t, 2, lrc.Len())
	assert.False(t, lrc.PtrEq(cloned))
}

func TestLrcUpdateConvergesOnNewestValue(t *testing.T) {
	lrc := NewLrc(0)
	defer lrc.Dispose()
	cloned := lrc.Clone()
	defer cloned.Dispose()

	lrc.Set(1)
	cloned.Update()

	assert.Equal(t, 1, cloned.Value())
	assert.True(t, lrc.PtrEq(cloned))
	assert.Equal(t, 2, lrc.Count())
	assert.Equal(t, 1, lrc.Len(), "abandoned node is reclaimed eagerly")
}

func TestLrcUpdateOnNewestIsNoop(t *testing.T) {
	lrc := NewLrc(5)
	defer lrc.Dispose()

	lrc.Update()

	assert.Equal(t, 5, lrc.Value())
}

func TestLrcAlter(t *testing.T) {
	lrc := NewLrc(10)
	defer lrc.Dispose()
	cloned := lrc.Clone()
	defer cloned.Dispose()

	lrc.Alter(func(v int) int { return v * 2 })

	assert.Equal(t, 20, lrc.Value())
	assert.Equal(t, 10, cloned.Value())
	assert.Equal(t, 2, lrc.Len())
}

func TestLrcGetMut(t *testing.T) {
	lrc := NewLrc(1)
	defer lrc.Dispose()

	p, ok := lrc.GetMut()
	require.True(t, ok)
	*p = 2
	assert.Equal(t, 2, lrc.Value())

	clone := lrc.Clone()
	defer clone.Dispose()

	_, ok = lrc.GetMut()
	assert.False(t, ok, "shared node must not hand out mutable access")
}

func TestLrcMakeMut(t *testing.T) {
	lrc := NewLrc(1)
	defer lrc.Dispose()

	// Exclusive: mutate in place, no new node.
	*lrc.MakeMut() = 2
	assert.Equal(t, 2, lrc.Value())
	assert.Equal(t, 1, lrc.Len())

	clone := lrc.Clone()
	defer clone.Dispose()

	// Shared: duplication pushes a node, the clone is untouched.
	*lrc.MakeMut() = 3
	assert.Equal(t, 3, lrc.Value())
	assert.Equal(t, 2, clone.Value())
	assert.Equal(t, 2, lrc.Len())
	assert.True(t, lrc.IsExclusive())
}

func TestLrcMakeMutUsesCloneFunc(t *testing.T) {
	clones := 0
	lrc := NewLrcWithClone([]int{1}, func(v []int) []int {
		clones++
		return append([]int(nil), v...)
	})
	defer lrc.Dispose()
	sibling := lrc.Clone()
	defer sibling.Dispose()

	p := lrc.MakeMut()
	(*p)[0] = 99

	assert.Equal(t, 1, clones)
	assert.Equal(t, []int{99}, lrc.Value())
	assert.Equal(t, []int{1}, sibling.Value(), "deep copy keeps the sibling isolated")
}

func TestLrcAdvanceWalksWholeChain(t *testing.T) {
	lrc := NewLrc(0)
	pins := make([]*Lrc[int], 0, 3)
	for i := 1; i <= 3; i++ {
		// Pin each node with a clone so Set pushes instead of
		// overwriting in place.
		pins = append(pins, lrc.Clone())
		lrc.Set(i)
	}
	require.Equal(t, 4, lrc.Len())

	// A chain of length N advances exactly N-1 times, then fails closed.
	cursor := lrc.Clone()
	steps := 0
	for cursor.AdvanceNext() {
		steps++
	}
	assert.Equal(t, 3, steps)
	assert.Equal(t, 0, cursor.Value(), "cursor ends on the oldest value")
	assert.False(t, cursor.AdvanceNext(), "advance keeps failing at the end")

	cursor.Dispose()
	for _, pin := range pins {
		pin.Dispose()
	}
	lrc.Dispose()
}

func TestLrcAdvanceBackMirrorsAdvanceNext(t *testing.T) {
	lrc := NewLrc(0)
	defer lrc.Dispose()
	pin := lrc.Clone()
	defer pin.Dispose()
	lrc.Set(1)

	assert.False(t, lrc.AdvanceBack(), "newest node has nothing newer")

	require.True(t, lrc.AdvanceNext())
	assert.Equal(t, 0, lrc.Value())
	require.True(t, lrc.AdvanceBack())
	assert.Equal(t, 1, lrc.Value())
}

func TestLrcOlderAndNewer(t *testing.T) {
	lrc := NewLrc(25)
	defer lrc.Dispose()

	_, ok := lrc.Older()
	assert.False(t, ok, "singleton chain has no older node")
	_, ok = lrc.Newer()
	assert.False(t, ok, "singleton chain has no newer node")

	pin := lrc.Clone()
	defer pin.Dispose()
	lrc.Set(26)

	older, ok := lrc.Older()
	require.True(t, ok)
	assert.Equal(t, 25, older.Value())
	assert.Equal(t, 26, lrc.Value(), "stepping leaves the source in place")
	assert.Equal(t, 2, older.Count(), "step handle owns its own reference")

	newer, ok := older.Newer()
	require.True(t, ok)
	assert.True(t, newer.PtrEq(lrc))

	newer.Dispose()
	older.Dispose()
}

func TestLrcDroppingMiddleNodeSplices(t *testing.T) {
	oldest := NewLrc(0)
	defer oldest.Dispose()

	middle := oldest.Clone()
	middle.Set(1)
	newest := middle.Clone()
	newest.Set(2)
	defer newest.Dispose()

	require.Equal(t, 3, newest.Len())

	// Dropping the only handle on the middle node must reconnect the
	// outer two.
	middle.Dispose()

	assert.Equal(t, 2, newest.Len())
	if diff := cmp.Diff([]int{2, 0}, history(newest)); diff != "" {
		t.Errorf("Chain walk from the newest handle mismatch (-want +got):\n%s", diff)
	}

	// The splice is visible from the surviving older handle too.
	up, ok := oldest.Newer()
	require.True(t, ok)
	assert.Equal(t, 2, up.Value())
	up.Dispose()
}

func TestLrcHistorySnapshot(t *testing.T) {
	lrc := NewLrc("a")
	pinB := lrc.Clone()
	defer pinB.Dispose()
	lrc.Set("b")
	pinC := lrc.Clone()
	defer pinC.Dispose()
	lrc.Set("c")
	defer lrc.Dispose()

	if diff := cmp.Diff([]string{"c", "b", "a"}, history(lrc)); diff != "" {
		t.Errorf("History mismatch (-want +got):\n%s", diff)
	}

	// pinB sees only its own node and older ones.
	if diff := cmp.Diff([]string{"b", "a"}, history(pinB)); diff != "" {
		t.Errorf("History from pinB mismatch (-want +got):\n%s", diff)
	}
}

func TestLrcTryUnwrap(t *testing.T) {
	lrc := NewLrc(42)
	clone := lrc.Clone()

	_, ok := lrc.TryUnwrap()
	assert.False(t, ok, "unwrap of a shared node must fail closed")
	assert.Equal(t, 42, lrc.Value())

	clone.Dispose()

	value, ok := lrc.TryUnwrap()
	require.True(t, ok)
	assert.Equal(t, 42, value)
}

func TestLrcTryUnwrapSplicesNeighbors(t *testing.T) {
	oldest := NewLrc(0)
	defer oldest.Dispose()
	middle := oldest.Clone()
	middle.Set(1)
	newest := middle.Clone()
	newest.Set(2)
	defer newest.Dispose()

	value, ok := middle.TryUnwrap()
	require.True(t, ok)
	assert.Equal(t, 1, value)

	assert.Equal(t, 2, newest.Len(), "unwrapped node must not orphan its neighbors")
	if diff := cmp.Diff([]int{2, 0}, history(newest)); diff != "" {
		t.Errorf("Chain walk mismatch (-want +got):\n%s", diff)
	}
}

func TestLrcEqualComparesValuesNotIdentity(t *testing.T) {
	a := NewLrc(24)
	defer a.Dispose()
	b := NewLrc(24)
	defer b.Dispose()

	assert.True(t, a.Equal(b))
	assert.False(t, a.PtrEq(b))
}

func TestLrcPtrEqAcrossChainPositions(t *testing.T) {
	lrc := NewLrc(0)
	defer lrc.Dispose()
	cloned := lrc.Clone()
	defer cloned.Dispose()

	lrc.Set(1)

	// Same lineage, different nodes.
	assert.False(t, lrc.PtrEq(cloned))

	cloned.Update()
	assert.True(t, lrc.PtrEq(cloned))
}

func TestLrcDisposeIdempotent(t *testing.T) {
	lrc := NewLrc(1)
	lrc.Dispose()
	lrc.Dispose()
}

func TestLrcUseAfterDisposePanics(t *testing.T) {
	lrc := NewLrc(1)
	lrc.Dispose()

	assert.PanicsWithError(t, "ptr: Set on disposed Lrc", func() {
		lrc.Set(2)
	})
}

// The full scenario from the package documentation: diverge via Set,
// re-converge via Update.
func TestLrcDivergeAndReconverge(t *testing.T) {
	lrc := NewLrc(0)
	cloned := lrc.Clone()

	lrc.Set(1)
	assert.Equal(t, 1, lrc.Value())
	assert.Equal(t, 0, cloned.Value())
	assert.Equal(t, 1, lrc.Count())
	assert.Equal(t, 2, lrc.Len())

	cloned.Update()
	assert.Equal(t, 1, cloned.Value())
	assert.True(t, lrc.PtrEq(cloned))

	cloned.Dispose()
	lrc.Dispose()
}
