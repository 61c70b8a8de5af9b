package tree

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

// Node is the storage unit owned by an RBTree. Payload plus color plus the
// three topology links. The parent link is a back-reference; ownership runs
// root-down through left/right. Accessors below exist for validation
// utilities and tests; mutation happens only inside the engine.
type Node[V any] struct {
	val    V
	color  RBColor
	left   *Node[V]
	right  *Node[V]
	parent *Node[V]
}

func (node *Node[V]) Val() V {
	return node.val
}

// ValRef grants in-place access to the payload. Callers must not mutate it
// in a way that changes the extracted key, or the ordering invariant breaks.
func (node *Node[V]) ValRef() *V {
	return &node.val
}

func (node *Node[V]) Color() RBColor {
	return node.color
}

func (node *Node[V]) Left() *Node[V] {
	return node.left
}

func (node *Node[V]) Right() *Node[V] {
	return node.right
}

func (node *Node[V]) Parent() *Node[V] {
	return node.parent
}
