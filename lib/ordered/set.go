package ordered

import (
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

// Set is a unique-key ordered collection. The payload is the key itself,
// so only read-only iterators are exposed; mutating an element in place
// would break the ordering invariant.
type Set[K infra.OrderedKey] struct {
	tree *tree.RBTree[K, K]
}

type SetInsertResult[K infra.OrderedKey] struct {
	Iter    tree.ConstIterator[K, K]
	Created bool
}

func NewSet[K infra.OrderedKey](opts ...tree.RBTreeOpt[K, K]) (*Set[K], error) {
	t, err := tree.NewRBTree(infra.IdentityKeyOfValue[K](), opts...)
	if err != nil {
		return nil, err
	}
	return &Set[K]{tree: t}, nil
}

// SetOf builds a set from a key list; duplicates collapse. On failure
// everything inserted by this call is released and the error returned.
func SetOf[K infra.OrderedKey](keys ...K) (*Set[K], error) {
	s, err := NewSet[K]()
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if _, _, err = s.tree.Insert(key, key, true); err != nil {
			s.tree.Release()
			return nil, err
		}
	}
	return s, nil
}

func (s *Set[K]) Clone() (*Set[K], error) {
	t, err := s.tree.Clone()
	if err != nil {
		return nil, err
	}
	return &Set[K]{tree: t}, nil
}

func (s *Set[K]) Move() (*Set[K], error) {
	t, err := s.tree.Move()
	if err != nil {
		return nil, err
	}
	return &Set[K]{tree: t}, nil
}

func (s *Set[K]) Empty() bool {
	return s.tree.Empty()
}

func (s *Set[K]) Size() int64 {
	return s.tree.Len()
}

func (s *Set[K]) MaxSize() int {
	return s.tree.MaxSize()
}

func (s *Set[K]) Clear() {
	s.tree.Clear()
}

func (s *Set[K]) Begin() tree.ConstIterator[K, K] {
	return s.tree.CBegin()
}

func (s *Set[K]) End() tree.ConstIterator[K, K] {
	return s.tree.CEnd()
}

func (s *Set[K]) Insert(key K) (tree.ConstIterator[K, K], bool, error) {
	node, created, err := s.tree.Insert(key, key, true)
	if err != nil {
		return s.tree.CEnd(), false, err
	}
	return s.tree.CIterAt(node), created, nil
}

// Erase removes the element at pos; an iterator of another set is a
// defensive no-op.
func (s *Set[K]) Erase(pos tree.ConstIterator[K, K]) {
	if pos.BelongsTo(s.tree) {
		s.tree.DeleteNode(pos.Cur())
	}
}

func (s *Set[K]) EraseKey(key K) {
	s.tree.Delete(key)
}

func (s *Set[K]) Swap(other *Set[K]) {
	if s != other && other != nil {
		s.tree, other.tree = other.tree, s.tree
	}
}

// Merge moves the keys of other that are absent here; clashing keys stay
// in other.
func (s *Set[K]) Merge(other *Set[K]) {
	if s != other && other != nil {
		s.tree.Merge(other.tree, true)
	}
}

func (s *Set[K]) Find(key K) tree.ConstIterator[K, K] {
	return s.tree.CIterAt(s.tree.Search(key))
}

func (s *Set[K]) Contains(key K) bool {
	return !s.tree.IsNil(s.tree.Search(key))
}

func (s *Set[K]) Keys() []K {
	keys := make([]K, 0, s.tree.Len())
	s.tree.Foreach(func(idx int64, color tree.RBColor, key K, val K) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// InsertMany inserts a batch with the per-batch strong guarantee: on any
// failure the keys created by this call are erased again in reverse order.
func (s *Set[K]) InsertMany(keys ...K) ([]SetInsertResult[K], error) {
	res := make([]SetInsertResult[K], 0, len(keys))
	for _, key := range keys {
		node, created, err := s.tree.Insert(key, key, true)
		if err != nil {
			for i := len(res) - 1; i >= 0; i-- {
				if res[i].Created {
					s.tree.DeleteNode(res[i].Iter.Cur())
				}
			}
			return nil, err
		}
		res = append(res, SetInsertResult[K]{Iter: s.tree.CIterAt(node), Created: created})
	}
	return res, nil
}
