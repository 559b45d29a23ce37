// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"math"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/kreako/fig2json/internal/kiwi"
)

// obj builds an ordered object from alternating key/value pairs.
func obj(pairs ...any) *Object {
	o := NewObject()
	for i := 0; i < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1])
	}
	return o
}

func TestObject_InsertionOrder(t *testing.T) {
	o := obj("zeta", int64(1), "alpha", int64(2), "mid", int64(3))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, o.Keys())

	// Overwriting keeps the original position.
	o.Set("alpha", int64(9))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, o.Keys())
	v, ok := o.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, int64(9), v)
}

func TestObject_Delete(t *testing.T) {
	o := obj("a", int64(1), "b", int64(2), "c", int64(3))
	require.True(t, o.Delete("b"))
	assert.Equal(t, []string{"a", "c"}, o.Keys())
	assert.False(t, o.Has("b"))
	assert.False(t, o.Delete("b"))

	// Index stays consistent after the shift.
	v, ok := o.Get("c")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)
}

func TestObject_Replace(t *testing.T) {
	o := obj("a", int64(1), "commandsBlob", uint64(0), "z", int64(2))
	require.True(t, o.Replace("commandsBlob", "commands", "M 0 0"))
	assert.Equal(t, []string{"a", "commands", "z"}, o.Keys())
	v, _ := o.Get("commands")
	assert.Equal(t, "M 0 0", v)

	assert.False(t, o.Replace("missing", "x", 1))
	// Refuses to collide with an existing distinct key.
	assert.False(t, o.Replace("a", "z", 1))
}

func TestObject_CloneIsDeep(t *testing.T) {
	inner := obj("x", float64(1))
	o := obj("inner", inner, "list", []any{obj("y", int64(2))}, "raw", []byte{1, 2})

	c := o.Clone()
	ci, ok := c.Object("inner")
	require.True(t, ok)
	ci.Set("x", float64(9))
	cl, _ := c.Array("list")
	cl[0].(*Object).Set("y", int64(9))

	x, _ := inner.Number("x")
	assert.Equal(t, float64(1), x)
	ol, _ := o.Array("list")
	y, _ := ol[0].(*Object).Get("y")
	assert.Equal(t, int64(2), y)
}

func TestObject_MarshalJSON(t *testing.T) {
	o := obj(
		"name", "Frame 1",
		"opacity", float64(0.5),
		"count", uint64(3),
		"bad", math.NaN(),
		"thumb", []byte{0x01, 0x02},
		"nested", obj("b", true),
		"list", []any{int64(1), math.Inf(1), nil},
	)
	got, err := json.Marshal(o)
	require.NoError(t, err)
	want := `{"name":"Frame 1","opacity":0.5,"count":3,"bad":null,` +
		`"thumb":"AQI=","nested":{"b":true},"list":[1,null,null]}`
	assert.Equal(t, want, string(got))
}

func TestObject_MarshalYAML(t *testing.T) {
	o := obj("zeta", int64(1), "alpha", obj("k", "v"), "list", []any{uint64(2)})
	got, err := yaml.Marshal(o)
	require.NoError(t, err)
	want := "zeta: 1\nalpha:\n    k: v\nlist:\n    - 2\n"
	assert.Equal(t, want, string(got))
}

func TestFromValue_Record(t *testing.T) {
	rec := &kiwi.Record{Name: "Paint", Fields: []kiwi.Field{
		{Name: "visible", Value: kiwi.Bool(true)},
		{Name: "opacity", Value: kiwi.Float(0.25)},
		{Name: "hash", Value: kiwi.Bytes([]byte{0xAB})},
		{Name: "stops", Value: kiwi.Array(kiwi.Uint(1), kiwi.Uint(2))},
	}}
	v := FromValue(kiwi.Rec(rec))
	o, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"visible", "opacity", "hash", "stops"}, o.Keys())

	stops, ok := o.Array("stops")
	require.True(t, ok)
	assert.Equal(t, []any{uint64(1), uint64(2)}, stops)
}

func TestFromValue_RepeatedFieldKeepsFirstPosition(t *testing.T) {
	rec := &kiwi.Record{Fields: []kiwi.Field{
		{Name: "a", Value: kiwi.Int(1)},
		{Name: "b", Value: kiwi.Int(2)},
		{Name: "a", Value: kiwi.Int(3)},
	}}
	o := FromRecord(rec)
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	v, _ := o.Get("a")
	assert.Equal(t, int64(3), v)
}

func TestNumberOf(t *testing.T) {
	for _, tc := range []struct {
		in   any
		want float64
		ok   bool
	}{
		{int64(-4), -4, true},
		{uint64(7), 7, true},
		{float64(1.5), 1.5, true},
		{"7", 0, false},
		{nil, 0, false},
	} {
		got, ok := NumberOf(tc.in)
		assert.Equal(t, tc.ok, ok)
		assert.Equal(t, tc.want, got)
	}
}
