package ordered

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/alloc"
	"github.com/benz9527/xtree/lib/tree"
)

func TestMultiSet_KeepsDuplicates(t *testing.T) {
	keys := []int{1, 2, 3, 3}
	ms, err := MultiSetOf(keys...)
	require.NoError(t, err)
	require.EqualValues(t, 4, ms.Size())
	require.Equal(t, []int{1, 2, 3, 3}, ms.Keys())
	require.EqualValues(t, lo.Count(keys, 3), ms.Count(3))
	require.Zero(t, ms.Count(9))
}

func TestMultiSet_InsertAlwaysCreates(t *testing.T) {
	ms, err := NewMultiSet[int]()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		it, err := ms.Insert(5)
		require.NoError(t, err)
		require.Equal(t, 5, it.Item())
	}
	require.EqualValues(t, 3, ms.Size())
	require.EqualValues(t, 3, ms.Count(5))
}

func TestMultiSet_EraseKeyRemovesOne(t *testing.T) {
	ms, err := MultiSetOf(1, 2, 3, 3)
	require.NoError(t, err)

	ms.EraseKey(3)
	require.EqualValues(t, 1, ms.Count(3))
	require.EqualValues(t, 3, ms.Size())

	ms.EraseKey(3)
	require.Zero(t, ms.Count(3))
	require.False(t, ms.Contains(3))

	ms.EraseKey(3) // absent key, no-op
	require.EqualValues(t, 2, ms.Size())
}

func TestMultiSet_ErasePosition(t *testing.T) {
	ms, err := MultiSetOf(1, 2, 2, 3)
	require.NoError(t, err)

	ms.Erase(ms.Find(2))
	require.EqualValues(t, 1, ms.Count(2))

	// A foreign multiset's iterator is a defensive no-op.
	other, err := MultiSetOf(2)
	require.NoError(t, err)
	ms.Erase(other.Find(2))
	require.EqualValues(t, 3, ms.Size())
	require.EqualValues(t, 1, other.Size())
}

func TestMultiSet_Bounds(t *testing.T) {
	ms, err := MultiSetOf(1, 3, 3, 3, 5)
	require.NoError(t, err)

	lower := ms.LowerBound(3)
	require.Equal(t, 3, lower.Item())

	upper := ms.UpperBound(3)
	require.Equal(t, 5, upper.Item())

	require.True(t, ms.UpperBound(5).AtEnd())
	require.Equal(t, 1, ms.LowerBound(0).Item())

	begin, end := ms.EqualRange(3)
	count := 0
	for it := begin; !it.Eq(end); it.Next() {
		require.Equal(t, 3, it.Item())
		count++
	}
	require.Equal(t, 3, count)

	// An absent key yields an empty range at its insertion point.
	begin, end = ms.EqualRange(4)
	require.True(t, begin.Eq(end))
	require.Equal(t, 5, begin.Item())
}

func TestMultiSet_Iteration(t *testing.T) {
	ms, err := MultiSetOf(3, 1, 2, 2)
	require.NoError(t, err)

	got := make([]int, 0, ms.Size())
	for it := ms.Begin(); !it.AtEnd(); it.Next() {
		got = append(got, it.Item())
	}
	require.Equal(t, []int{1, 2, 2, 3}, got)
}

func TestMultiSet_MergeDrainsSource(t *testing.T) {
	ms1, err := MultiSetOf(1, 2, 2)
	require.NoError(t, err)
	ms2, err := MultiSetOf(2, 3)
	require.NoError(t, err)

	ms1.Merge(ms2)
	require.Equal(t, []int{1, 2, 2, 2, 3}, ms1.Keys())
	require.True(t, ms2.Empty())
}

func TestMultiSet_SwapCloneMove(t *testing.T) {
	ms1, err := MultiSetOf(1, 1)
	require.NoError(t, err)
	ms2, err := MultiSetOf(2)
	require.NoError(t, err)

	ms1.Swap(ms2)
	require.Equal(t, []int{2}, ms1.Keys())
	require.Equal(t, []int{1, 1}, ms2.Keys())

	cp, err := ms2.Clone()
	require.NoError(t, err)
	cp.EraseKey(1)
	require.EqualValues(t, 2, ms2.Count(1))
	require.EqualValues(t, 1, cp.Count(1))

	moved, err := ms2.Move()
	require.NoError(t, err)
	require.Equal(t, []int{1, 1}, moved.Keys())
	require.True(t, ms2.Empty())
}

func TestMultiSet_Clear(t *testing.T) {
	ms, err := MultiSetOf(1, 1, 2)
	require.NoError(t, err)
	ms.Clear()
	require.True(t, ms.Empty())

	_, err = ms.Insert(1)
	require.NoError(t, err)
	require.EqualValues(t, 1, ms.Size())
}

func TestMultiSet_InsertMany(t *testing.T) {
	ms, err := MultiSetOf(2)
	require.NoError(t, err)

	iters, err := ms.InsertMany(1, 2, 2)
	require.NoError(t, err)
	require.Len(t, iters, 3)
	require.Equal(t, []int{1, 2, 2, 2}, ms.Keys())
}

func TestMultiSet_InsertManyRollback(t *testing.T) {
	// Budget: sentinel + two preexisting keys + two batch keys; the third
	// batch key starves.
	ms, err := NewMultiSet[int](
		tree.WithRBTreeAllocator[int, int](newBudgetAllocator[int](5)),
	)
	require.NoError(t, err)
	_, err = ms.Insert(2)
	require.NoError(t, err)
	_, err = ms.Insert(2)
	require.NoError(t, err)

	res, err := ms.InsertMany(2, 1, 3)
	require.ErrorIs(t, err, errNodeBudgetExhausted)
	require.Nil(t, res)

	// Exactly the batch's own occurrences unwound.
	require.Equal(t, []int{2, 2}, ms.Keys())
}

func BenchmarkSetInsert_RuntimeNodes(b *testing.B) {
	s, err := NewSet[int]()
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = s.Insert(i)
	}
}

func BenchmarkSetInsert_PooledNodes(b *testing.B) {
	s, err := NewSet[int](tree.WithRBTreePooledNodes[int, int](alloc.DefaultPoolChunkSize))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = s.Insert(i)
	}
}
