// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import "github.com/kreako/fig2json/internal/document"

// emptyRemovableArrays are the list fields dropped once nothing is left in
// them. Other empty arrays stay: an explicitly empty list can be a
// statement of its own (e.g. no children).
var emptyRemovableArrays = setOf([]string{
	"fillPaints",
	"strokePaints",
	"lines",
})

// cleanupPass sweeps up what the earlier passes left behind: invisible
// paints, objects that lost all their fields, paint and line lists that
// emptied out, and objects reduced to a lone visible flag. Works bottom-up
// so a removal cascades to the enclosing object in the same run.
type cleanupPass struct {
	skip preserveSet
}

func (cleanupPass) Name() string { return "cleanup" }

func (p cleanupPass) Apply(root *document.Node) *document.Node {
	out := root.Clone()
	out.Walk(func(n *document.Node, _ int) {
		p.cleanObject(n.Fields)
	})
	return out
}

func (p cleanupPass) cleanObject(o *document.Object) {
	for _, key := range o.Keys() {
		if p.skip.contains(key) {
			continue
		}
		v, _ := o.Get(key)
		switch t := v.(type) {
		case *document.Object:
			p.cleanObject(t)
			if t.Len() == 0 || visibleOnly(t) {
				o.Delete(key)
			}
		case []any:
			if key == "fillPaints" || key == "strokePaints" {
				t = dropInvisiblePaints(t)
			}
			t = p.cleanArray(t)
			if len(t) == 0 && emptyRemovableArrays.contains(key) {
				o.Delete(key)
				continue
			}
			o.Set(key, t)
		}
	}
}

func (p cleanupPass) cleanArray(a []any) []any {
	kept := a[:0]
	for _, e := range a {
		switch t := e.(type) {
		case *document.Object:
			p.cleanObject(t)
			if t.Len() == 0 {
				continue
			}
		case []any:
			e = p.cleanArray(t)
		}
		kept = append(kept, e)
	}
	return kept
}

func dropInvisiblePaints(paints []any) []any {
	kept := paints[:0]
	for _, e := range paints {
		if o, ok := e.(*document.Object); ok {
			if visible, isBool := o.Bool("visible"); isBool && !visible {
				continue
			}
		}
		kept = append(kept, e)
	}
	return kept
}

// visibleOnly reports an object reduced to nothing but a visible flag.
func visibleOnly(o *document.Object) bool {
	return o.Len() == 1 && o.Has("visible")
}
