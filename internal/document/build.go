// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/kreako/fig2json/internal/kiwi"
)

// rootGUID identifies the document node in the flat node list.
const rootGUID = "0:0"

// Build constructs the node hierarchy from the decoded document root.
//
// A root record carrying a flat nodeChanges array is linked into a tree by
// the guid/parentIndex bookkeeping on each element: children sort by their
// parentIndex position string (byte order, ties kept in array order) and
// the tree roots at GUID "0:0". Records that embed a children array
// directly are materialized recursively instead. Identity and parent
// bookkeeping is consumed here and does not appear on the built nodes'
// field mappings.
func Build(root *kiwi.Record) (*Node, error) {
	obj := FromRecord(root)
	if changes, ok := obj.Array("nodeChanges"); ok {
		return buildFromChanges(changes)
	}
	return buildDirect(obj), nil
}

// pending is a node lifted out of the flat list, not yet linked.
type pending struct {
	node      *Node
	parent    string
	pos       string
	hasParent bool
}

func buildFromChanges(changes []any) (*Node, error) {
	nodes := make([]*pending, 0, len(changes))
	byGUID := make(map[string]*pending, len(changes))
	for _, c := range changes {
		fields, ok := c.(*Object)
		if !ok {
			continue
		}
		p := &pending{node: nodeFromFields(fields)}
		if pi, ok := fields.Object("parentIndex"); ok {
			if g, ok := pi.Object("guid"); ok {
				p.parent, p.hasParent = GUIDString(g)
			}
			p.pos, _ = pi.String("position")
			fields.Delete("parentIndex")
		}
		nodes = append(nodes, p)
		if p.node.GUID != "" {
			if _, dup := byGUID[p.node.GUID]; !dup {
				byGUID[p.node.GUID] = p
			}
		}
	}

	root, ok := byGUID[rootGUID]
	if !ok {
		return nil, fmt.Errorf("document has no root node %s", rootGUID)
	}

	// Group children under their parents. Nodes naming a parent that never
	// materialized, and nodes with no parent at all, attach to the root
	// after its own children instead of vanishing.
	groups := make(map[string][]*pending)
	var orphans []*pending
	for _, p := range nodes {
		if p == root {
			continue
		}
		if p.hasParent {
			if _, exists := byGUID[p.parent]; exists {
				groups[p.parent] = append(groups[p.parent], p)
				continue
			}
		}
		orphans = append(orphans, p)
	}
	for guid, kids := range groups {
		sort.SliceStable(kids, func(i, j int) bool { return kids[i].pos < kids[j].pos })
		parent := byGUID[guid].node
		for _, k := range kids {
			parent.Children = append(parent.Children, k.node)
		}
	}
	for _, p := range orphans {
		root.node.Children = append(root.node.Children, p.node)
	}
	return root.node, nil
}

// buildDirect materializes a record that nests its children inline.
func buildDirect(fields *Object) *Node {
	n := nodeFromFields(fields)
	if n.GUID == "" {
		if id, ok := fields.Get("id"); ok {
			switch v := id.(type) {
			case int64:
				n.GUID = strconv.FormatInt(v, 10)
				fields.Delete("id")
			case uint64:
				n.GUID = strconv.FormatUint(v, 10)
				fields.Delete("id")
			case string:
				n.GUID = v
				fields.Delete("id")
			}
		}
	}
	if kids, ok := fields.Array("children"); ok && allObjects(kids) {
		fields.Delete("children")
		for _, k := range kids {
			n.Children = append(n.Children, buildDirect(k.(*Object)))
		}
	}
	return n
}

// nodeFromFields lifts the identity bookkeeping shared by both layouts.
func nodeFromFields(fields *Object) *Node {
	n := &Node{Fields: fields}
	if g, ok := fields.Object("guid"); ok {
		if s, valid := GUIDString(g); valid {
			n.GUID = s
			fields.Delete("guid")
		}
	}
	if t, ok := fields.String("type"); ok {
		n.Type = t
	}
	if b, ok := fields.Bool("internalOnly"); ok && b {
		n.InternalOnly = true
	}
	return n
}

// GUIDString renders a guid record {sessionID, localID} as "session:local".
func GUIDString(o *Object) (string, bool) {
	s, ok := uintField(o, "sessionID")
	if !ok {
		return "", false
	}
	l, ok := uintField(o, "localID")
	if !ok {
		return "", false
	}
	return strconv.FormatUint(s, 10) + ":" + strconv.FormatUint(l, 10), true
}

func uintField(o *Object, key string) (uint64, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case uint64:
		return t, true
	case int64:
		if t >= 0 {
			return uint64(t), true
		}
	}
	return 0, false
}

func allObjects(vals []any) bool {
	for _, v := range vals {
		if _, ok := v.(*Object); !ok {
			return false
		}
	}
	return true
}
