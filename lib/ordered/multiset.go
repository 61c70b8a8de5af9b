package ordered

import (
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

// MultiSet is an ordered collection that keeps duplicate keys. Equal keys
// sit next to each other in iteration order.
type MultiSet[K infra.OrderedKey] struct {
	tree *tree.RBTree[K, K]
}

func NewMultiSet[K infra.OrderedKey](opts ...tree.RBTreeOpt[K, K]) (*MultiSet[K], error) {
	t, err := tree.NewRBTree(infra.IdentityKeyOfValue[K](), opts...)
	if err != nil {
		return nil, err
	}
	return &MultiSet[K]{tree: t}, nil
}

// MultiSetOf builds a multiset from a key list, duplicates preserved. On
// failure everything inserted by this call is released and the error
// returned.
func MultiSetOf[K infra.OrderedKey](keys ...K) (*MultiSet[K], error) {
	ms, err := NewMultiSet[K]()
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if _, _, err = ms.tree.Insert(key, key, false); err != nil {
			ms.tree.Release()
			return nil, err
		}
	}
	return ms, nil
}

func (ms *MultiSet[K]) Clone() (*MultiSet[K], error) {
	t, err := ms.tree.Clone()
	if err != nil {
		return nil, err
	}
	return &MultiSet[K]{tree: t}, nil
}

func (ms *MultiSet[K]) Move() (*MultiSet[K], error) {
	t, err := ms.tree.Move()
	if err != nil {
		return nil, err
	}
	return &MultiSet[K]{tree: t}, nil
}

func (ms *MultiSet[K]) Empty() bool {
	return ms.tree.Empty()
}

func (ms *MultiSet[K]) Size() int64 {
	return ms.tree.Len()
}

func (ms *MultiSet[K]) MaxSize() int {
	return ms.tree.MaxSize()
}

func (ms *MultiSet[K]) Clear() {
	ms.tree.Clear()
}

func (ms *MultiSet[K]) Begin() tree.ConstIterator[K, K] {
	return ms.tree.CBegin()
}

func (ms *MultiSet[K]) End() tree.ConstIterator[K, K] {
	return ms.tree.CEnd()
}

// Insert always creates; duplicates land to the right of their equals.
func (ms *MultiSet[K]) Insert(key K) (tree.ConstIterator[K, K], error) {
	node, _, err := ms.tree.Insert(key, key, false)
	if err != nil {
		return ms.tree.CEnd(), err
	}
	return ms.tree.CIterAt(node), nil
}

func (ms *MultiSet[K]) Erase(pos tree.ConstIterator[K, K]) {
	if pos.BelongsTo(ms.tree) {
		ms.tree.DeleteNode(pos.Cur())
	}
}

// EraseKey removes a single occurrence of key, not all of them.
func (ms *MultiSet[K]) EraseKey(key K) {
	ms.tree.Delete(key)
}

func (ms *MultiSet[K]) Swap(other *MultiSet[K]) {
	if ms != other && other != nil {
		ms.tree, other.tree = other.tree, ms.tree
	}
}

// Merge moves every element of other into ms; nothing is ever rejected
// for a multiset, so other always drains completely.
func (ms *MultiSet[K]) Merge(other *MultiSet[K]) {
	if ms != other && other != nil {
		ms.tree.Merge(other.tree, false)
	}
}

func (ms *MultiSet[K]) Find(key K) tree.ConstIterator[K, K] {
	return ms.tree.CIterAt(ms.tree.Search(key))
}

func (ms *MultiSet[K]) Contains(key K) bool {
	return !ms.tree.IsNil(ms.tree.Search(key))
}

// Count walks forward from the first matching element while keys compare
// equal.
func (ms *MultiSet[K]) Count(key K) int64 {
	it := ms.LowerBound(key)
	count := int64(0)
	for !it.AtEnd() && it.Item() == key {
		count++
		it.Next()
	}
	return count
}

// LowerBound positions at the first element not less than key, or End.
func (ms *MultiSet[K]) LowerBound(key K) tree.ConstIterator[K, K] {
	return ms.tree.CIterAt(ms.tree.LowerBound(key))
}

// UpperBound positions at the first element greater than key, or End.
func (ms *MultiSet[K]) UpperBound(key K) tree.ConstIterator[K, K] {
	it := ms.LowerBound(key)
	for !it.AtEnd() && it.Item() == key {
		it.Next()
	}
	return it
}

// EqualRange returns the [LowerBound, UpperBound) pair for key.
func (ms *MultiSet[K]) EqualRange(key K) (tree.ConstIterator[K, K], tree.ConstIterator[K, K]) {
	return ms.LowerBound(key), ms.UpperBound(key)
}

func (ms *MultiSet[K]) Keys() []K {
	keys := make([]K, 0, ms.tree.Len())
	ms.tree.Foreach(func(idx int64, color tree.RBColor, key K, val K) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// InsertMany inserts a batch with the per-batch strong guarantee: on any
// failure every element created by this call is erased again in reverse
// order.
func (ms *MultiSet[K]) InsertMany(keys ...K) ([]tree.ConstIterator[K, K], error) {
	res := make([]tree.ConstIterator[K, K], 0, len(keys))
	for _, key := range keys {
		node, _, err := ms.tree.Insert(key, key, false)
		if err != nil {
			for i := len(res) - 1; i >= 0; i-- {
				ms.tree.DeleteNode(res[i].Cur())
			}
			return nil, err
		}
		res = append(res, ms.tree.CIterAt(node))
	}
	return res, nil
}
