// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import "github.com/kreako/fig2json/internal/document"

// filterPass removes internal-only nodes with their whole subtree, keeping
// the relative order of the surviving siblings, then drops the marker
// field itself. Arrays inside field mappings get the same treatment so
// internal entries nested outside the node hierarchy disappear too. Runs
// after the stripping passes; skipped entirely when the caller wants
// internal nodes kept.
type filterPass struct{}

func (filterPass) Name() string { return "filter" }

func (filterPass) Apply(root *document.Node) *document.Node {
	out := root.Clone()
	pruneChildren(out)
	eachNodeObject(out, nil, func(o *document.Object) {
		for _, key := range o.Keys() {
			if a, ok := o.Array(key); ok {
				o.Set(key, retainExternal(a))
			}
		}
		o.Delete("internalOnly")
	})
	return out
}

func pruneChildren(n *document.Node) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.InternalOnly {
			continue
		}
		pruneChildren(c)
		kept = append(kept, c)
	}
	n.Children = kept
}

func retainExternal(a []any) []any {
	kept := a[:0]
	for _, e := range a {
		if o, ok := e.(*document.Object); ok {
			if internal, _ := o.Bool("internalOnly"); internal {
				continue
			}
		}
		kept = append(kept, e)
	}
	return kept
}
