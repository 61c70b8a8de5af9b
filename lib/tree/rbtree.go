package tree

import (
	"github.com/benz9527/xtree/lib/alloc"
	"github.com/benz9527/xtree/lib/infra"
)

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// Thomas H. Cormen, Charles E. Leiserson, Ronald L. Rivest, Clifford Stein,
// "Introduction to Algorithms", 4th edition, chapter 13.
//
// rbtree properties:
// p1. Every node is either red or black.
// p2. The sentinel is black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node down to the sentinel goes through the
//   same number of black nodes. (black-violation)
// p5. The root is black.
//
// One shared sentinel per tree stands in for every leaf, the root's parent
// and the past-end iterator position. It is always black and self-linked,
// which lets the fixup loops terminate without nil checks and lets delete
// temporarily hang a parent off it (the classic CLRS trick).

// RBTree is the shared ordered-container engine. The façades in lib/ordered
// parameterize it with a key-extraction policy and a per-insert uniqueness
// flag; the engine never calls back into them. Single goroutine ownership
// is assumed throughout.
type RBTree[K infra.OrderedKey, V any] struct {
	root     *Node[V]
	sentinel *Node[V]
	count    int64
	kov      infra.KeyOfValue[K, V]
	cmp      infra.OrderedKeyComparator[K]
	alloc    alloc.Allocator[Node[V]]
}

type RBTreeOpt[K infra.OrderedKey, V any] func(*RBTree[K, V])

func WithRBTreeKeyComparator[K infra.OrderedKey, V any](cmp infra.OrderedKeyComparator[K]) RBTreeOpt[K, V] {
	return func(t *RBTree[K, V]) {
		t.cmp = cmp
	}
}

func WithRBTreeAllocator[K infra.OrderedKey, V any](a alloc.Allocator[Node[V]]) RBTreeOpt[K, V] {
	return func(t *RBTree[K, V]) {
		t.alloc = a
	}
}

// WithRBTreePooledNodes swaps the default runtime allocator for a chunked
// pool of the given chunk size.
func WithRBTreePooledNodes[K infra.OrderedKey, V any](chunkSize int) RBTreeOpt[K, V] {
	return func(t *RBTree[K, V]) {
		t.alloc = alloc.NewPoolAllocator[Node[V]](alloc.WithPoolAllocChunkSize(chunkSize))
	}
}

// NewRBTree builds an empty tree. The only failure mode is the sentinel
// allocation; the error comes straight from the allocator.
func NewRBTree[K infra.OrderedKey, V any](kov infra.KeyOfValue[K, V], opts ...RBTreeOpt[K, V]) (*RBTree[K, V], error) {
	t := &RBTree[K, V]{
		kov:   kov,
		cmp:   infra.NaturalOrderComparator[K](),
		alloc: alloc.NewRuntimeAllocator[Node[V]](),
	}
	for _, o := range opts {
		o(t)
	}
	if err := t.createSentinel(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *RBTree[K, V]) createSentinel() error {
	s, err := t.alloc.Allocate()
	if err != nil {
		return err
	}
	t.alloc.Construct(s, Node[V]{color: Black})
	s.left, s.right, s.parent = s, s, s
	t.sentinel = s
	t.root = s
	return nil
}

func (t *RBTree[K, V]) Len() int64 {
	return t.count
}

func (t *RBTree[K, V]) Empty() bool {
	return t.root == t.sentinel
}

func (t *RBTree[K, V]) MaxSize() int {
	return t.alloc.MaxSize()
}

func (t *RBTree[K, V]) Root() *Node[V] {
	return t.root
}

// Nil exposes the sentinel so callers can recognize a miss from Search or
// a past-end position.
func (t *RBTree[K, V]) Nil() *Node[V] {
	return t.sentinel
}

func (t *RBTree[K, V]) IsNil(node *Node[V]) bool {
	return node == nil || node == t.sentinel
}

// KeyOf applies the key-extraction policy to a node's payload.
func (t *RBTree[K, V]) KeyOf(node *Node[V]) K {
	return t.kov(node.val)
}

// Search walks down from the root. O(log n), bounded by twice the black
// height. Returns the sentinel when the key is absent.
func (t *RBTree[K, V]) Search(key K) *Node[V] {
	aux := t.root
	for aux != t.sentinel {
		res := t.cmp(key, t.kov(aux.val))
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return t.sentinel
}

// LowerBound returns the first node whose key is not less than key, or the
// sentinel. The candidate is the last node the walk descended left from.
func (t *RBTree[K, V]) LowerBound(key K) *Node[V] {
	res := t.sentinel
	aux := t.root
	for aux != t.sentinel {
		if t.cmp(key, t.kov(aux.val)) <= 0 {
			res = aux
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return res
}

// Insert places (key, val) under the ordering policy. With unique set, an
// equal key short-circuits and hands back the existing node with
// created=false. A failed node allocation leaves the tree untouched.
func (t *RBTree[K, V]) Insert(key K, val V, unique bool) (node *Node[V], created bool, err error) {
	node, created, err = t.findOrCreate(key, val, unique)
	if err != nil {
		return nil, false, err
	}
	if created {
		if node.parent != t.sentinel && node.parent.color == Red && node.parent.parent != t.sentinel {
			t.insertFixup(node)
		}
		t.count++
	}
	return node, created, nil
}

// InsertNode relinks an already allocated node into the tree, the splice
// half of Merge. No allocation, no count bookkeeping; reports whether the
// node found a place.
func (t *RBTree[K, V]) InsertNode(node *Node[V], unique bool) bool {
	father := t.sentinel
	aux := t.root
	key := t.kov(node.val)

	for aux != t.sentinel {
		father = aux
		res := t.cmp(key, t.kov(aux.val))
		if unique && res == 0 {
			return false
		}
		if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}

	t.linkNewNode(father, node)
	if node.parent != t.sentinel && node.parent.color == Red && node.parent.parent != t.sentinel {
		t.insertFixup(node)
	}
	return true
}

// DeleteNode removes z. Standard three-case removal: child-less side is
// spliced over directly, two children borrow the in-order successor. The
// color of the physically removed node decides whether black heights need
// repair. Performs no allocation, so it cannot fail; the sentinel is a
// no-op by contract.
func (t *RBTree[K, V]) DeleteNode(z *Node[V]) {
	if z == nil || z == t.sentinel {
		return
	}

	y := z
	yColor := y.color
	var x *Node[V]

	if z.left == t.sentinel {
		x = z.right
		t.transplant(z, z.right)
	} else if z.right == t.sentinel {
		x = z.left
		t.transplant(z, z.left)
	} else {
		y = t.minimum(z.right)
		yColor = y.color
		x = y.right

		if y != z.right {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		} else {
			// x may be the sentinel; delete fixup reads its parent.
			x.parent = y
		}

		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	t.destroyNode(z)
	t.count--

	if yColor == Black {
		t.deleteFixup(x)
	}
}

// Delete removes the node carrying key, if any. Reports whether a node was
// removed.
func (t *RBTree[K, V]) Delete(key K) bool {
	z := t.Search(key)
	if z == t.sentinel {
		return false
	}
	t.DeleteNode(z)
	return true
}

// Clear frees every non-sentinel node without recursion and resets the
// tree to empty. Guaranteed not to fail.
func (t *RBTree[K, V]) Clear() {
	postOrderProcess(t.root, t.sentinel, func(node *Node[V]) {
		t.destroyNode(node)
	})
	t.root = t.sentinel
	t.count = 0
}

// Release clears the tree and gives the sentinel back to the allocator.
// The tree must not be used afterwards.
func (t *RBTree[K, V]) Release() {
	if t.sentinel == nil {
		return
	}
	t.Clear()
	t.alloc.Destroy(t.sentinel)
	t.alloc.Deallocate(t.sentinel)
	t.root, t.sentinel = nil, nil
}

// Merge transfers every node of other into t. Nodes whose key is rejected
// under unique go back into other, which is empty by the time the first
// rejection can happen, so the two trees partition the original node set.
// Pure ownership transfer: no payload duplication, no allocation, no
// failure mode.
func (t *RBTree[K, V]) Merge(other *RBTree[K, V], unique bool) {
	if other == nil || other == t {
		return
	}

	oldRoot := other.root
	oldRoot.parent = other.sentinel
	other.sentinel.parent = other.sentinel
	other.root = other.sentinel
	other.count = 0

	if oldRoot == other.sentinel {
		return
	}

	postOrderProcess(oldRoot, other.sentinel, func(node *Node[V]) {
		if t.InsertNode(node, unique) {
			t.count++
		} else {
			other.InsertNode(node, unique)
			other.count++
		}
	})
}

// Move steals the whole tree, allocator included, and rebuilds the
// receiver as a freshly constructed empty tree over a derived allocator.
// The source is never left in an unusable state; only the fresh sentinel
// allocation can fail, in which case the receiver keeps its content.
func (t *RBTree[K, V]) Move() (*RBTree[K, V], error) {
	moved := &RBTree[K, V]{
		root:     t.root,
		sentinel: t.sentinel,
		count:    t.count,
		kov:      t.kov,
		cmp:      t.cmp,
		alloc:    t.alloc,
	}
	fresh := &RBTree[K, V]{alloc: t.alloc.Derive()}
	if err := fresh.createSentinel(); err != nil {
		return nil, err
	}
	t.root, t.sentinel = fresh.root, fresh.sentinel
	t.count = 0
	t.alloc = fresh.alloc
	return moved, nil
}

// Swap exchanges the whole state of two trees, sentinels and allocators
// included. Iterators keep following the tree instance they were created
// from.
func (t *RBTree[K, V]) Swap(other *RBTree[K, V]) {
	if other == nil || other == t {
		return
	}
	t.root, other.root = other.root, t.root
	t.sentinel, other.sentinel = other.sentinel, t.sentinel
	t.count, other.count = other.count, t.count
	t.kov, other.kov = other.kov, t.kov
	t.cmp, other.cmp = other.cmp, t.cmp
	t.alloc, other.alloc = other.alloc, t.alloc
}

// Clone copies the topology node by node with an explicit work stack, so
// arbitrarily deep trees cannot exhaust the call stack. The copy gets a
// derived allocator. If a node allocation fails midway, everything copied
// so far is released and the error returned; no half-built tree escapes.
func (t *RBTree[K, V]) Clone() (*RBTree[K, V], error) {
	cp := &RBTree[K, V]{
		kov:   t.kov,
		cmp:   t.cmp,
		alloc: t.alloc.Derive(),
	}
	if err := cp.createSentinel(); err != nil {
		return nil, err
	}
	if t.root == t.sentinel {
		return cp, nil
	}
	if err := cp.copyTree(t.root, t.sentinel); err != nil {
		cp.Release()
		return nil, err
	}
	cp.count = t.count
	return cp, nil
}

// Foreach runs an in-order walk. Returning false from the action stops the
// walk early.
func (t *RBTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	idx := int64(0)
	for aux := t.minimum(t.root); aux != t.sentinel; aux = t.successor(aux) {
		if !action(idx, aux.color, t.kov(aux.val), aux.val) {
			return
		}
		idx++
	}
}

func (t *RBTree[K, V]) minimum(subTree *Node[V]) *Node[V] {
	for subTree.left != t.sentinel {
		subTree = subTree.left
	}
	return subTree
}

func (t *RBTree[K, V]) maximum(subTree *Node[V]) *Node[V] {
	for subTree.right != t.sentinel {
		subTree = subTree.right
	}
	return subTree
}

// The succ node of x is its next node in sorted order. At the sentinel it
// wraps around to the tree minimum; see the iterator contract.
func (t *RBTree[K, V]) successor(x *Node[V]) *Node[V] {
	if x == t.sentinel {
		return t.minimum(t.root)
	}
	if x.right != t.sentinel {
		return t.minimum(x.right)
	}
	father := x.parent
	for father != t.sentinel && x == father.right {
		x = father
		father = father.parent
	}
	return father
}

// The pred node of x is its previous node in sorted order. At the sentinel
// it wraps around to the tree maximum.
func (t *RBTree[K, V]) predecessor(x *Node[V]) *Node[V] {
	if x == t.sentinel {
		return t.maximum(t.root)
	}
	if x.left != t.sentinel {
		return t.maximum(x.left)
	}
	father := x.parent
	for father != t.sentinel && x == father.left {
		x = father
		father = father.parent
	}
	return father
}

func (t *RBTree[K, V]) createNode(val V) (*Node[V], error) {
	p, err := t.alloc.Allocate()
	if err != nil {
		return nil, err
	}
	t.alloc.Construct(p, Node[V]{val: val, color: Red})
	return p, nil
}

func (t *RBTree[K, V]) cloneNode(orig *Node[V]) (*Node[V], error) {
	p, err := t.alloc.Allocate()
	if err != nil {
		return nil, err
	}
	t.alloc.Construct(p, Node[V]{val: orig.val, color: orig.color})
	p.left, p.right, p.parent = t.sentinel, t.sentinel, t.sentinel
	return p, nil
}

func (t *RBTree[K, V]) destroyNode(node *Node[V]) {
	t.alloc.Destroy(node)
	t.alloc.Deallocate(node)
}

// findOrCreate descends to the insertion point. With unique set, an exact
// match (neither comparison direction holds) returns the existing node
// instead of allocating.
func (t *RBTree[K, V]) findOrCreate(key K, val V, unique bool) (*Node[V], bool, error) {
	father := t.sentinel
	aux := t.root

	for aux != t.sentinel {
		father = aux
		res := t.cmp(key, t.kov(aux.val))
		if unique && res == 0 {
			return aux, false, nil
		}
		if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}

	node, err := t.createNode(val)
	if err != nil {
		return nil, false, err
	}
	t.linkNewNode(father, node)
	return node, true, nil
}

// linkNewNode hangs node under father. An empty tree turns the node into a
// black root; equal keys (duplicates allowed) go right.
func (t *RBTree[K, V]) linkNewNode(father, node *Node[V]) {
	node.left, node.right = t.sentinel, t.sentinel

	if father == t.sentinel {
		t.root = node
		node.parent = t.sentinel
		node.color = Black
		return
	}
	node.parent = father
	if t.cmp(t.kov(node.val), t.kov(father.val)) < 0 {
		father.left = node
	} else {
		father.right = node
	}
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or the sentinel).

im1: Parent P and uncle U are both red, grandpa G is black.
(red-violation) Repaint and climb; G may now clash with its own parent.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im2: Uncle U is black and X bends the other way than P (zig-zag).
Rotate P to straighten into the im3 line case.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im3: X and P line up (zig-zig). Recolor and rotate G; the subtree root is
black again and the loop ends.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (t *RBTree[K, V]) insertFixup(node *Node[V]) {
	for node.parent.color == Red {
		if node.parent == node.parent.parent.left {
			node = t.insertRebalanceLeft(node)
		} else {
			node = t.insertRebalanceRight(node)
		}
	}
	t.root.color = Black
}

func (t *RBTree[K, V]) insertRebalanceLeft(node *Node[V]) *Node[V] {
	uncle := node.parent.parent.right
	if /* im1 */ uncle.color == Red {
		uncle.color, node.parent.color = Black, Black
		node.parent.parent.color = Red
		node = node.parent.parent
	} else {
		if /* im2 */ node == node.parent.right {
			node = node.parent
			t.leftRotate(node)
		}
		/* im3 */
		node.parent.color = Black
		node.parent.parent.color = Red
		t.rightRotate(node.parent.parent)
	}
	return node
}

func (t *RBTree[K, V]) insertRebalanceRight(node *Node[V]) *Node[V] {
	uncle := node.parent.parent.left
	if /* im1 */ uncle.color == Red {
		uncle.color, node.parent.color = Black, Black
		node.parent.parent.color = Red
		node = node.parent.parent
	} else {
		if /* im2 */ node == node.parent.left {
			node = node.parent
			t.rightRotate(node)
		}
		/* im3 */
		node.parent.color = Black
		node.parent.parent.color = Red
		t.leftRotate(node.parent.parent)
	}
	return node
}

/*
		 |                         |
		 X                         Y
		/ \      leftRotate(X)    / \
	   L   Y     ============>   X   Sd
		  / \                   / \
		Sc   Sd                L   Sc

Exactly three parent/child pairs change hands, plus the moved subtree's
cross-link. In-order sequence is preserved.
*/
func (t *RBTree[K, V]) leftRotate(x *Node[V]) {
	y := x.right
	x.right = y.left
	if y.left != t.sentinel {
		y.left.parent = x
	}

	y.parent = x.parent
	if x.parent == t.sentinel {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}

	y.left = x
	x.parent = y
}

func (t *RBTree[K, V]) rightRotate(x *Node[V]) {
	y := x.left
	x.left = y.right
	if y.right != t.sentinel {
		y.right.parent = x
	}

	y.parent = x.parent
	if x.parent == t.sentinel {
		t.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}

	y.right = x
	x.parent = y
}

// transplant replaces the subtree rooted at u with the one rooted at v.
// v may be the sentinel; its parent link is still written, which is what
// delete fixup starts from.
func (t *RBTree[K, V]) transplant(u, v *Node[V]) {
	if u.parent == t.sentinel {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

/*
x carries one black unit too few after a black node vanished from its path.

rm1: Sibling S is red, so P, Sc and Sd must be black. Rotate P and repaint
to expose a black sibling, then fall through.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S and both its children are black. Repaint S red; if P was red it
absorbs the missing black unit and the loop ends, otherwise climb from P.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: Near nephew Sc is red, far nephew Sd black. Rotate S away from X and
repaint to produce a red far nephew, then enter rm4.

	  {P}                   {P}
	  / \    r-rotate(S)    / \
	[X] [S]  ==========>  [X] [Sc]
	    / \                     \
	  <Sc> [Sd]                 <S>
	                              \
	                              [Sd]

rm4: Far nephew Sd is red. Rotate P, give S P's color, paint P and Sd
black. Black heights match again; done.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (t *RBTree[K, V]) deleteFixup(x *Node[V]) {
	for x != t.root && x.color == Black {
		if x == x.parent.left {
			x = t.deleteRebalanceLeft(x)
		} else {
			x = t.deleteRebalanceRight(x)
		}
	}
	x.color = Black
}

func (t *RBTree[K, V]) deleteRebalanceLeft(x *Node[V]) *Node[V] {
	sibling := x.parent.right
	if /* rm1 */ sibling.color == Red {
		sibling.color = Black
		x.parent.color = Red
		t.leftRotate(x.parent)
		sibling = x.parent.right
	}

	if /* rm2 */ sibling.left.color == Black && sibling.right.color == Black {
		sibling.color = Red
		x = x.parent
	} else {
		if /* rm3 */ sibling.right.color == Black {
			sibling.left.color = Black
			sibling.color = Red
			t.rightRotate(sibling)
			sibling = x.parent.right
		}
		/* rm4 */
		sibling.color = x.parent.color
		sibling.right.color = Black
		x.parent.color = Black
		t.leftRotate(x.parent)
		x = t.root
	}
	return x
}

func (t *RBTree[K, V]) deleteRebalanceRight(x *Node[V]) *Node[V] {
	sibling := x.parent.left
	if /* rm1 */ sibling.color == Red {
		sibling.color = Black
		x.parent.color = Red
		t.rightRotate(x.parent)
		sibling = x.parent.left
	}

	if /* rm2 */ sibling.right.color == Black && sibling.left.color == Black {
		sibling.color = Red
		x = x.parent
	} else {
		if /* rm3 */ sibling.left.color == Black {
			sibling.right.color = Black
			sibling.color = Red
			t.leftRotate(sibling)
			sibling = x.parent.left
		}
		/* rm4 */
		sibling.color = x.parent.color
		sibling.left.color = Black
		x.parent.color = Black
		t.rightRotate(x.parent)
		x = t.root
	}
	return x
}

// postOrderProcess walks down preferring left then right until it hits a
// leaf, detaches the leaf from its parent, applies the action, then backs
// up. No recursion and no auxiliary storage, so deep trees cannot blow the
// call stack. The action receives nodes recolored red and fully detached;
// it may hand them to another tree or free them.
func postOrderProcess[V any](subtreeRoot, nilNode *Node[V], action func(*Node[V])) {
	if subtreeRoot == nilNode {
		return
	}

	current := subtreeRoot
	for current != nilNode {
		if current.left != nilNode {
			current = current.left
		} else if current.right != nilNode {
			current = current.right
		} else {
			parent := current.parent
			if parent != nilNode {
				if current == parent.left {
					parent.left = nilNode
				} else {
					parent.right = nilNode
				}
			}

			toProcess := current
			current = parent

			toProcess.color = Red
			action(toProcess)
		}
	}
}

// copyTree duplicates the source topology under t (already holding a fresh
// sentinel). Right children are pushed first so the left flank is rebuilt
// first. Every created node starts with sentinel links, so a failure in
// the middle leaves a tree that Clear can walk safely.
func (t *RBTree[K, V]) copyTree(otherRoot, otherNil *Node[V]) error {
	type copyFrame struct {
		orig *Node[V]
		copy *Node[V]
	}

	newRoot, err := t.cloneNode(otherRoot)
	if err != nil {
		return err
	}
	t.root = newRoot
	t.count = 1

	stack := []copyFrame{{orig: otherRoot, copy: newRoot}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if frame.orig.right != otherNil {
			child, err := t.cloneNode(frame.orig.right)
			if err != nil {
				return err
			}
			child.parent = frame.copy
			frame.copy.right = child
			t.count++
			stack = append(stack, copyFrame{orig: frame.orig.right, copy: child})
		}
		if frame.orig.left != otherNil {
			child, err := t.cloneNode(frame.orig.left)
			if err != nil {
				return err
			}
			child.parent = frame.copy
			frame.copy.left = child
			t.count++
			stack = append(stack, copyFrame{orig: frame.orig.left, copy: child})
		}
	}
	return nil
}
