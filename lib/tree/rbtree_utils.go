package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	ErrRBTreeRedViolation     = errors.New("[x-rbtree] red violation")
	ErrRBTreeBlackViolation   = errors.New("[x-rbtree] black violation")
	ErrRBTreeRootViolation    = errors.New("[x-rbtree] root is not black")
	ErrRBTreeInorderViolation = errors.New("[x-rbtree] in-order key sequence violation")
)

// rbtree rule validation utilities, test and debugging support.

func blackDepthTo[K infra.OrderedKey, V any](t *RBTree[K, V], target *Node[V]) int {
	depth := 0
	for aux := target; aux != t.root; aux = aux.parent {
		if aux.color == Black {
			depth++
		}
	}
	return depth
}

// RedViolationValidate checks p3 on every node: a red node never has a red
// child. In-order traversal with an explicit stack.
func RedViolationValidate[K infra.OrderedKey, V any](t *RBTree[K, V]) error {
	if t.root == t.sentinel {
		return nil
	}

	stack := make([]*Node[V], 0, t.count>>1)
	for aux := t.root; aux != t.sentinel; aux = aux.left {
		stack = append(stack, aux)
	}

	for len(stack) > 0 {
		aux := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if aux.color == Red && (aux.left.color == Red || aux.right.color == Red) {
			return ErrRBTreeRedViolation
		}
		for aux = aux.right; aux != t.sentinel; aux = aux.left {
			stack = append(stack, aux)
		}
	}
	return nil
}

// bfsLeaves loads every node with at least one sentinel child; those are
// the ends of the root-to-sentinel paths whose black depths must agree.
func bfsLeaves[K infra.OrderedKey, V any](t *RBTree[K, V]) []*Node[V] {
	if t.root == t.sentinel {
		return nil
	}

	leaves := make([]*Node[V], 0, t.count>>1+1)
	queue := make([]*Node[V], 0, t.count>>1)
	queue = append(queue, t.root)

	for len(queue) > 0 {
		aux := queue[0]
		queue = queue[1:]
		if aux.left == t.sentinel || aux.right == t.sentinel {
			leaves = append(leaves, aux)
		}
		if aux.left != t.sentinel {
			queue = append(queue, aux.left)
		}
		if aux.right != t.sentinel {
			queue = append(queue, aux.right)
		}
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or the sentinel).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[K infra.OrderedKey, V any](t *RBTree[K, V]) error {
	leaves := bfsLeaves(t)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo(t, leaves[0])
	for i := 1; i < len(leaves); i++ {
		if blackDepthTo(t, leaves[i]) != blackDepth {
			return ErrRBTreeBlackViolation
		}
	}
	return nil
}

// InorderValidate checks that a full forward walk yields keys in
// non-decreasing order, or strictly increasing when the tree is used with
// unique keys.
func InorderValidate[K infra.OrderedKey, V any](t *RBTree[K, V], strictly bool) error {
	var (
		prev    K
		hasPrev bool
		broken  bool
	)
	t.Foreach(func(idx int64, color RBColor, key K, val V) bool {
		if hasPrev {
			res := t.cmp(prev, key)
			if res > 0 || (strictly && res == 0) {
				broken = true
				return false
			}
		}
		prev, hasPrev = key, true
		return true
	})
	if broken {
		return ErrRBTreeInorderViolation
	}
	return nil
}

// Validate bundles all rbtree properties into one report.
func Validate[K infra.OrderedKey, V any](t *RBTree[K, V]) error {
	var rootErr error
	if t.root != t.sentinel && t.root.color != Black {
		rootErr = ErrRBTreeRootViolation
	}
	return multierr.Combine(
		rootErr,
		RedViolationValidate(t),
		BlackViolationValidate(t),
		InorderValidate(t, false),
	)
}
