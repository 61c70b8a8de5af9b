package ordered

import (
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

// Map is a unique-key ordered key-value container. Iteration runs in
// ascending key order.
type Map[K infra.OrderedKey, V any] struct {
	tree *tree.RBTree[K, Pair[K, V]]
}

// MapInsertResult reports one element of an InsertMany batch.
type MapInsertResult[K infra.OrderedKey, V any] struct {
	Iter    tree.Iterator[K, Pair[K, V]]
	Created bool
}

// NewMap builds an empty map. Engine options (comparator, allocator,
// pooled nodes) pass straight through.
func NewMap[K infra.OrderedKey, V any](opts ...tree.RBTreeOpt[K, Pair[K, V]]) (*Map[K, V], error) {
	t, err := tree.NewRBTree(PairKeyOfValue[K, V](), opts...)
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{tree: t}, nil
}

// MapOf builds a map from a pair list. On any failure everything inserted
// by this call is released again and the error returned; no partially
// filled map escapes.
func MapOf[K infra.OrderedKey, V any](pairs ...Pair[K, V]) (*Map[K, V], error) {
	m, err := NewMap[K, V]()
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		if _, _, err = m.tree.Insert(p.Key, p, true); err != nil {
			m.tree.Release()
			return nil, err
		}
	}
	return m, nil
}

// Clone duplicates the whole tree (strong guarantee, see engine Clone).
func (m *Map[K, V]) Clone() (*Map[K, V], error) {
	t, err := m.tree.Clone()
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{tree: t}, nil
}

// Move steals the content; m is left as a freshly constructed empty map,
// never in an invalid state.
func (m *Map[K, V]) Move() (*Map[K, V], error) {
	t, err := m.tree.Move()
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{tree: t}, nil
}

func (m *Map[K, V]) Empty() bool {
	return m.tree.Empty()
}

func (m *Map[K, V]) Size() int64 {
	return m.tree.Len()
}

func (m *Map[K, V]) MaxSize() int {
	return m.tree.MaxSize()
}

func (m *Map[K, V]) Clear() {
	m.tree.Clear()
}

func (m *Map[K, V]) Begin() tree.Iterator[K, Pair[K, V]] {
	return m.tree.Begin()
}

func (m *Map[K, V]) End() tree.Iterator[K, Pair[K, V]] {
	return m.tree.End()
}

func (m *Map[K, V]) CBegin() tree.ConstIterator[K, Pair[K, V]] {
	return m.tree.CBegin()
}

func (m *Map[K, V]) CEnd() tree.ConstIterator[K, Pair[K, V]] {
	return m.tree.CEnd()
}

// At returns the value stored under key, or ErrKeyNotFound. Unlike Ref it
// never creates an entry.
func (m *Map[K, V]) At(key K) (V, error) {
	node := m.tree.Search(key)
	if m.tree.IsNil(node) {
		var zero V
		return zero, ErrKeyNotFound
	}
	return node.Val().Val, nil
}

// Ref is the indexing access: it hands out a pointer to the value under
// key, inserting a default-valued entry first when the key is absent.
func (m *Map[K, V]) Ref(key K) (*V, error) {
	node := m.tree.Search(key)
	if m.tree.IsNil(node) {
		var err error
		node, _, err = m.tree.Insert(key, Pair[K, V]{Key: key}, true)
		if err != nil {
			return nil, err
		}
	}
	return &node.ValRef().Val, nil
}

func (m *Map[K, V]) Insert(key K, val V) (tree.Iterator[K, Pair[K, V]], bool, error) {
	node, created, err := m.tree.Insert(key, Pair[K, V]{Key: key, Val: val}, true)
	if err != nil {
		return m.tree.End(), false, err
	}
	return m.tree.IterAt(node), created, nil
}

func (m *Map[K, V]) InsertPair(p Pair[K, V]) (tree.Iterator[K, Pair[K, V]], bool, error) {
	return m.Insert(p.Key, p.Val)
}

// InsertOrAssign performs a unique insert and, when the key already
// existed, overwrites the stored value in place.
func (m *Map[K, V]) InsertOrAssign(key K, val V) (tree.Iterator[K, Pair[K, V]], bool, error) {
	node, created, err := m.tree.Insert(key, Pair[K, V]{Key: key, Val: val}, true)
	if err != nil {
		return m.tree.End(), false, err
	}
	if !created {
		node.ValRef().Val = val
	}
	return m.tree.IterAt(node), created, nil
}

// Erase removes the element at pos. An iterator belonging to a different
// map is a defensive no-op, not an error.
func (m *Map[K, V]) Erase(pos tree.Iterator[K, Pair[K, V]]) {
	if pos.BelongsTo(m.tree) {
		m.tree.DeleteNode(pos.Cur())
	}
}

// EraseKey removes the entry under key, if any.
func (m *Map[K, V]) EraseKey(key K) bool {
	return m.tree.Delete(key)
}

func (m *Map[K, V]) Swap(other *Map[K, V]) {
	if m != other && other != nil {
		m.tree, other.tree = other.tree, m.tree
	}
}

// Merge moves the entries of other whose keys are absent here; entries
// with clashing keys stay in other.
func (m *Map[K, V]) Merge(other *Map[K, V]) {
	if m != other && other != nil {
		m.tree.Merge(other.tree, true)
	}
}

func (m *Map[K, V]) Find(key K) tree.Iterator[K, Pair[K, V]] {
	return m.tree.IterAt(m.tree.Search(key))
}

func (m *Map[K, V]) Contains(key K) bool {
	return !m.tree.IsNil(m.tree.Search(key))
}

func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.tree.Len())
	m.tree.Foreach(func(idx int64, color tree.RBColor, key K, val Pair[K, V]) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (m *Map[K, V]) Values() []V {
	vals := make([]V, 0, m.tree.Len())
	m.tree.Foreach(func(idx int64, color tree.RBColor, key K, val Pair[K, V]) bool {
		vals = append(vals, val.Val)
		return true
	})
	return vals
}

// InsertMany inserts a batch. If any insertion fails, every entry created
// by this batch is erased again in reverse order before the error is
// returned, so the map ends up exactly as before the call.
func (m *Map[K, V]) InsertMany(pairs ...Pair[K, V]) ([]MapInsertResult[K, V], error) {
	res := make([]MapInsertResult[K, V], 0, len(pairs))
	for _, p := range pairs {
		node, created, err := m.tree.Insert(p.Key, p, true)
		if err != nil {
			for i := len(res) - 1; i >= 0; i-- {
				if res[i].Created {
					m.tree.DeleteNode(res[i].Iter.Cur())
				}
			}
			return nil, err
		}
		res = append(res, MapInsertResult[K, V]{Iter: m.tree.IterAt(node), Created: created})
	}
	return res, nil
}
