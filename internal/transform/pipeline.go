// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform strips decoded documents down to their render-relevant
// content. A fixed sequence of passes rewrites verbose records into compact
// display forms, removes fields whose value carries no information, and
// filters editor-internal nodes. Passes never raise decode-class errors: a
// field shape a pass does not recognize is left as it was.
package transform

import (
	"github.com/kreako/fig2json/internal/document"
	"github.com/kreako/fig2json/pkg/types"
)

// Pass is one rewrite of the node hierarchy. Apply returns a new tree and
// leaves its input untouched.
type Pass interface {
	Name() string
	Apply(root *document.Node) *document.Node
}

// Pipeline applies the pass sequence in a fixed order: simplification
// first so the stripping passes see canonical forms, stripping before
// internal-node filtering so emptiness checks are accurate, cleanup last.
// Running the pipeline on its own output changes nothing.
type Pipeline struct {
	passes []Pass
}

// New assembles the pipeline for the given configuration. Entries in
// cfg.Defaults override the built-in default table; cfg.Preserve extends
// the built-in allow-list; cfg.KeepInternal leaves internal nodes in.
func New(cfg types.TransformConfig) *Pipeline {
	keep := setOf(cfg.Preserve)
	skip := builtinPreserve().merge(keep)
	table := BuiltinDefaults().merge(cfg.Defaults)

	passes := []Pass{
		simplifyPass{},
		defaultsPass{table: table, skip: skip},
		metadataPass{skip: skip},
		redundantPass{skip: skip, keep: keep},
	}
	if !cfg.KeepInternal {
		passes = append(passes, filterPass{})
	}
	passes = append(passes, cleanupPass{skip: skip})
	return &Pipeline{passes: passes}
}

// Run produces the transformed tree. The input is not modified.
func (p *Pipeline) Run(root *document.Node) *document.Node {
	out := root
	for _, pass := range p.passes {
		out = pass.Apply(out)
	}
	return out
}

// Passes returns the pass names in application order.
func (p *Pipeline) Passes() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name()
	}
	return names
}

// eachObject applies fn to every object reachable from v, parents before
// children. Fields named by skip are not descended into, so their contents
// are invisible to the caller.
func eachObject(v any, skip preserveSet, fn func(*document.Object)) {
	switch t := v.(type) {
	case *document.Object:
		fn(t)
		for _, key := range t.Keys() {
			if skip.contains(key) {
				continue
			}
			if child, ok := t.Get(key); ok {
				eachObject(child, skip, fn)
			}
		}
	case []any:
		for i := range t {
			eachObject(t[i], skip, fn)
		}
	}
}

// eachNodeObject runs fn over every object in every node's field mapping.
func eachNodeObject(root *document.Node, skip preserveSet, fn func(*document.Object)) {
	root.Walk(func(n *document.Node, _ int) {
		eachObject(n.Fields, skip, fn)
	})
}
