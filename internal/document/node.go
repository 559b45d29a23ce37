// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

// Node is one element of the document hierarchy. Fields holds the node's
// decoded field mapping with identity and parent bookkeeping already
// consumed by the builder; Children are owned exclusively by their parent.
// A node whose declared type was not recognized carries an empty Type and
// just its raw field mapping, so unknown node kinds survive conversion.
type Node struct {
	// GUID is the node identity rendered "session:local", or the embedded
	// id for trees that nest children directly. Empty when the record
	// carries neither.
	GUID string

	// Type is the node's declared kind (e.g. "FRAME", "TEXT").
	Type string

	// InternalOnly marks nodes the editor keeps for its own bookkeeping.
	InternalOnly bool

	Fields   *Object
	Children []*Node
}

// Name returns the node's display name field.
func (n *Node) Name() string {
	s, _ := n.Fields.String("name")
	return s
}

// Clone deep-copies the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		GUID:         n.GUID,
		Type:         n.Type,
		InternalOnly: n.InternalOnly,
		Fields:       n.Fields.Clone(),
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i := range n.Children {
			c.Children[i] = n.Children[i].Clone()
		}
	}
	return c
}

// Walk visits the node and its subtree depth-first in sibling order. The
// depth of the receiver is 0.
func (n *Node) Walk(fn func(n *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(n *Node, depth int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the subtree, including the receiver.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node, int) { total++ })
	return total
}

// Object materializes the subtree as an ordered object: the node's fields
// in decoded order, then a children array for nodes that have any.
func (n *Node) Object() *Object {
	o := n.Fields.Clone()
	if len(n.Children) > 0 {
		children := make([]any, len(n.Children))
		for i := range n.Children {
			children[i] = n.Children[i].Object()
		}
		o.Set("children", children)
	}
	return o
}
