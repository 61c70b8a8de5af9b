package tree

import "github.com/benz9527/xtree/lib/infra"

// Iterator traversal contract, both variants:
//
// A position at the sentinel is the shared past-end/past-begin marker.
// Stepping forward from it deliberately wraps around to the tree minimum
// and stepping backward wraps to the maximum. That is NOT the usual
// ordered-container iterator contract; it is kept because it lets a single
// iterator enumerate the whole tree in reverse starting from End. Callers
// that want a plain bounded walk stop at AtEnd.
//
// Iterators are stable across insert and erase of unrelated nodes; only
// destroying the referenced node invalidates one.

// Iterator is the mutable traversal variant. Item hands out a pointer into
// the node payload; see Node.ValRef for the ordering caveat.
type Iterator[K infra.OrderedKey, V any] struct {
	current *Node[V]
	tree    *RBTree[K, V]
}

func (t *RBTree[K, V]) Begin() Iterator[K, V] {
	return Iterator[K, V]{current: t.minimum(t.root), tree: t}
}

func (t *RBTree[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{current: t.sentinel, tree: t}
}

// IterAt wraps an engine node into a mutable iterator.
func (t *RBTree[K, V]) IterAt(node *Node[V]) Iterator[K, V] {
	return Iterator[K, V]{current: node, tree: t}
}

func (it *Iterator[K, V]) Next() {
	it.current = it.tree.successor(it.current)
}

func (it *Iterator[K, V]) Prev() {
	it.current = it.tree.predecessor(it.current)
}

func (it Iterator[K, V]) Item() *V {
	return &it.current.val
}

func (it Iterator[K, V]) Key() K {
	return it.tree.kov(it.current.val)
}

func (it Iterator[K, V]) Cur() *Node[V] {
	return it.current
}

func (it Iterator[K, V]) AtEnd() bool {
	return it.current == it.tree.sentinel
}

// BelongsTo reports whether the iterator was created from t. Erase paths
// use it to reject iterators of a different container instance.
func (it Iterator[K, V]) BelongsTo(t *RBTree[K, V]) bool {
	return it.tree == t
}

func (it Iterator[K, V]) Eq(other Iterator[K, V]) bool {
	return it.current == other.current
}

// Const turns a mutable iterator into the read-only variant at the same
// position.
func (it Iterator[K, V]) Const() ConstIterator[K, V] {
	return ConstIterator[K, V]{current: it.current, tree: it.tree}
}

// ConstIterator is the read-only traversal variant; Item returns the
// payload by value.
type ConstIterator[K infra.OrderedKey, V any] struct {
	current *Node[V]
	tree    *RBTree[K, V]
}

func (t *RBTree[K, V]) CBegin() ConstIterator[K, V] {
	return ConstIterator[K, V]{current: t.minimum(t.root), tree: t}
}

func (t *RBTree[K, V]) CEnd() ConstIterator[K, V] {
	return ConstIterator[K, V]{current: t.sentinel, tree: t}
}

// CIterAt wraps an engine node into a read-only iterator.
func (t *RBTree[K, V]) CIterAt(node *Node[V]) ConstIterator[K, V] {
	return ConstIterator[K, V]{current: node, tree: t}
}

func (it *ConstIterator[K, V]) Next() {
	it.current = it.tree.successor(it.current)
}

func (it *ConstIterator[K, V]) Prev() {
	it.current = it.tree.predecessor(it.current)
}

func (it ConstIterator[K, V]) Item() V {
	return it.current.val
}

func (it ConstIterator[K, V]) Key() K {
	return it.tree.kov(it.current.val)
}

func (it ConstIterator[K, V]) Cur() *Node[V] {
	return it.current
}

func (it ConstIterator[K, V]) AtEnd() bool {
	return it.current == it.tree.sentinel
}

func (it ConstIterator[K, V]) BelongsTo(t *RBTree[K, V]) bool {
	return it.tree == t
}

func (it ConstIterator[K, V]) Eq(other ConstIterator[K, V]) bool {
	return it.current == other.current
}
