// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreako/fig2json/internal/kiwi"
)

// kval wraps a Go literal as a decoded value.
func kval(v any) *kiwi.Value {
	switch t := v.(type) {
	case *kiwi.Value:
		return t
	case nil:
		return kiwi.Null()
	case bool:
		return kiwi.Bool(t)
	case int:
		return kiwi.Int(int64(t))
	case int64:
		return kiwi.Int(t)
	case uint64:
		return kiwi.Uint(t)
	case float64:
		return kiwi.Float(t)
	case string:
		return kiwi.Str(t)
	case []byte:
		return kiwi.Bytes(t)
	case []any:
		elems := make([]*kiwi.Value, len(t))
		for i := range t {
			elems[i] = kval(t[i])
		}
		return kiwi.Array(elems...)
	default:
		panic("kval: unsupported literal")
	}
}

// krec builds a decoded record from alternating name/value pairs.
func krec(name string, pairs ...any) *kiwi.Record {
	r := &kiwi.Record{Name: name}
	for i := 0; i < len(pairs); i += 2 {
		r.Fields = append(r.Fields, kiwi.Field{
			Name:  pairs[i].(string),
			Value: kval(pairs[i+1]),
		})
	}
	return r
}

func guidVal(session, local uint64) *kiwi.Value {
	return kiwi.Rec(krec("GUID", "sessionID", session, "localID", local))
}

func parentVal(session, local uint64, pos string) *kiwi.Value {
	return kiwi.Rec(krec("ParentIndex",
		"guid", guidVal(session, local),
		"position", pos,
	))
}

// change builds one nodeChanges element.
func change(session, local uint64, pairs ...any) *kiwi.Value {
	all := append([]any{"guid", guidVal(session, local)}, pairs...)
	return kiwi.Rec(krec("NodeChange", all...))
}

func TestBuild_LinksAndSortsChildren(t *testing.T) {
	root := krec("Message", "nodeChanges", []any{
		change(0, 0, "type", "DOCUMENT", "name", "Document"),
		change(1, 2, "type", "CANVAS", "name", "second",
			"parentIndex", parentVal(0, 0, "b")),
		change(1, 1, "type", "CANVAS", "name", "first",
			"parentIndex", parentVal(0, 0, "a")),
	})

	n, err := Build(root)
	require.NoError(t, err)

	assert.Equal(t, "0:0", n.GUID)
	assert.Equal(t, "DOCUMENT", n.Type)
	assert.Equal(t, "Document", n.Name())
	require.Len(t, n.Children, 2)
	assert.Equal(t, "1:1", n.Children[0].GUID)
	assert.Equal(t, "1:2", n.Children[1].GUID)

	// Identity and parent bookkeeping is consumed by the builder; the type
	// tag stays on the field mapping.
	assert.False(t, n.Fields.Has("guid"))
	assert.False(t, n.Children[0].Fields.Has("parentIndex"))
	assert.True(t, n.Children[0].Fields.Has("type"))
}

func TestBuild_PositionTiesKeepArrayOrder(t *testing.T) {
	root := krec("Message", "nodeChanges", []any{
		change(0, 0),
		change(5, 1, "name", "later", "parentIndex", parentVal(0, 0, "m")),
		change(5, 2, "name", "earlier", "parentIndex", parentVal(0, 0, "m")),
		change(5, 3, "name", "left", "parentIndex", parentVal(0, 0, "a")),
	})

	n, err := Build(root)
	require.NoError(t, err)
	require.Len(t, n.Children, 3)
	assert.Equal(t, "5:3", n.Children[0].GUID)
	assert.Equal(t, "5:1", n.Children[1].GUID)
	assert.Equal(t, "5:2", n.Children[2].GUID)
}

func TestBuild_NestedHierarchy(t *testing.T) {
	root := krec("Message", "nodeChanges", []any{
		change(0, 0),
		change(1, 1, "parentIndex", parentVal(0, 0, "a")),
		change(1, 2, "parentIndex", parentVal(1, 1, "a")),
		change(1, 3, "parentIndex", parentVal(1, 2, "a")),
	})

	n, err := Build(root)
	require.NoError(t, err)
	require.Len(t, n.Children, 1)
	require.Len(t, n.Children[0].Children, 1)
	require.Len(t, n.Children[0].Children[0].Children, 1)
	assert.Equal(t, "1:3", n.Children[0].Children[0].Children[0].GUID)
}

func TestBuild_OrphanAttachesToRoot(t *testing.T) {
	root := krec("Message", "nodeChanges", []any{
		change(0, 0),
		change(1, 1, "parentIndex", parentVal(0, 0, "a")),
		change(9, 9, "name", "lost", "parentIndex", parentVal(7, 7, "a")),
	})

	n, err := Build(root)
	require.NoError(t, err)
	require.Len(t, n.Children, 2)
	// Orphans come after the root's own positioned children.
	assert.Equal(t, "1:1", n.Children[0].GUID)
	assert.Equal(t, "9:9", n.Children[1].GUID)
}

func TestBuild_MissingRoot(t *testing.T) {
	root := krec("Message", "nodeChanges", []any{
		change(1, 1, "parentIndex", parentVal(0, 0, "a")),
	})
	_, err := Build(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0:0")
}

func TestBuild_DirectChildren(t *testing.T) {
	root := krec("Message",
		"id", 1,
		"children", []any{
			kiwi.Rec(krec("Message", "id", 2)),
			kiwi.Rec(krec("Message", "id", 3)),
		},
	)

	n, err := Build(root)
	require.NoError(t, err)
	assert.Equal(t, "1", n.GUID)
	assert.False(t, n.Fields.Has("id"))
	assert.False(t, n.Fields.Has("children"))
	require.Len(t, n.Children, 2)
	assert.Equal(t, "2", n.Children[0].GUID)
	assert.Equal(t, "3", n.Children[1].GUID)
}

func TestBuild_InternalOnlyMarker(t *testing.T) {
	root := krec("Message", "nodeChanges", []any{
		change(0, 0),
		change(1, 1, "internalOnly", true, "parentIndex", parentVal(0, 0, "a")),
	})

	n, err := Build(root)
	require.NoError(t, err)
	require.Len(t, n.Children, 1)
	assert.True(t, n.Children[0].InternalOnly)
	assert.False(t, n.InternalOnly)
}

func TestNode_ObjectAppendsChildrenLast(t *testing.T) {
	n := &Node{
		Fields: obj("type", "FRAME", "name", "f"),
		Children: []*Node{
			{Fields: obj("type", "TEXT")},
		},
	}
	o := n.Object()
	assert.Equal(t, []string{"type", "name", "children"}, o.Keys())

	kids, ok := o.Array("children")
	require.True(t, ok)
	require.Len(t, kids, 1)
	typ, _ := kids[0].(*Object).String("type")
	assert.Equal(t, "TEXT", typ)
}

func TestNode_WalkAndCount(t *testing.T) {
	n := &Node{Fields: NewObject(), Children: []*Node{
		{Fields: NewObject(), Children: []*Node{{Fields: NewObject()}}},
		{Fields: NewObject()},
	}}
	assert.Equal(t, 4, n.Count())

	var depths []int
	n.Walk(func(_ *Node, d int) { depths = append(depths, d) })
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

func TestGUIDString(t *testing.T) {
	s, ok := GUIDString(obj("sessionID", uint64(4), "localID", uint64(17)))
	require.True(t, ok)
	assert.Equal(t, "4:17", s)

	_, ok = GUIDString(obj("sessionID", uint64(4)))
	assert.False(t, ok)
}
