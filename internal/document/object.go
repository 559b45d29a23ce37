// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document materializes decoded design-file values into ordered
// object trees and builds the node hierarchy that conversion outputs.
package document

import (
	"bytes"
	"fmt"
	"math"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/kreako/fig2json/internal/kiwi"
)

// Object is a mapping that preserves key insertion order. Values are one of:
// nil, bool, int64, uint64, float64, string, []byte, []any, or *Object.
// Serialization renders keys in insertion order, which keeps converted
// documents diffable across runs.
type Object struct {
	entries []entry
	index   map[string]int
}

type entry struct {
	key string
	val any
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// Has reports whether the key is present.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.index[key]
	return ok
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.entries[i].val, true
}

// Set stores a value under key. An existing key keeps its position, a new
// key is appended.
func (o *Object) Set(key string, v any) {
	if i, ok := o.index[key]; ok {
		o.entries[i].val = v
		return
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, entry{key: key, val: v})
}

// Delete removes the key and reports whether it was present. Later entries
// shift down, preserving their relative order.
func (o *Object) Delete(key string) bool {
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.entries = append(o.entries[:i], o.entries[i+1:]...)
	delete(o.index, key)
	for j := i; j < len(o.entries); j++ {
		o.index[o.entries[j].key] = j
	}
	return true
}

// Replace swaps the entry stored under old for one keyed new holding v,
// keeping the entry's position. It reports whether old was present; when new
// already exists elsewhere the object is left unchanged.
func (o *Object) Replace(old, new string, v any) bool {
	i, ok := o.index[old]
	if !ok {
		return false
	}
	if j, exists := o.index[new]; exists && j != i {
		return false
	}
	o.entries[i] = entry{key: new, val: v}
	delete(o.index, old)
	o.index[new] = i
	return true
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.entries))
	for i := range o.entries {
		keys[i] = o.entries[i].key
	}
	return keys
}

// At returns the entry at position i in insertion order.
func (o *Object) At(i int) (string, any) {
	return o.entries[i].key, o.entries[i].val
}

// Clone returns a deep copy. Nested objects, arrays and byte slices are
// copied, so mutating the clone never touches the original.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := &Object{
		entries: make([]entry, len(o.entries)),
		index:   make(map[string]int, len(o.index)),
	}
	for i := range o.entries {
		c.entries[i] = entry{key: o.entries[i].key, val: CloneValue(o.entries[i].val)}
		c.index[o.entries[i].key] = i
	}
	return c
}

// CloneValue deep-copies a value of the document domain.
func CloneValue(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []any:
		c := make([]any, len(t))
		for i := range t {
			c[i] = CloneValue(t[i])
		}
		return c
	case []byte:
		return append([]byte(nil), t...)
	default:
		return v
	}
}

// String returns the string value under key, when present and a string.
func (o *Object) String(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns the boolean value under key, when present and a bool.
func (o *Object) Bool(key string) (bool, bool) {
	v, ok := o.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Number returns the value under key widened to float64, when present and
// numeric.
func (o *Object) Number(key string) (float64, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	return NumberOf(v)
}

// Array returns the slice value under key, when present and an array.
func (o *Object) Array(key string) ([]any, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	a, ok := v.([]any)
	return a, ok
}

// Object returns the nested object under key, when present and an object.
func (o *Object) Object(key string) (*Object, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	n, ok := v.(*Object)
	return n, ok
}

// NumberOf widens any numeric document value to float64.
func NumberOf(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// FromValue converts a decoded value into the document domain. Records
// become ordered objects with decoded field order preserved; a repeated
// field name keeps its first position with the last value.
func FromValue(v *kiwi.Value) any {
	switch v.Kind() {
	case kiwi.KindNull:
		return nil
	case kiwi.KindBool:
		b, _ := v.AsBool()
		return b
	case kiwi.KindInt:
		n, _ := v.AsInt()
		return n
	case kiwi.KindUint:
		n, _ := v.AsUint()
		return n
	case kiwi.KindFloat:
		f, _ := v.AsFloat()
		return f
	case kiwi.KindString:
		s, _ := v.AsStr()
		return s
	case kiwi.KindBytes:
		b, _ := v.AsBytes()
		return append([]byte(nil), b...)
	case kiwi.KindArray:
		elems, _ := v.AsArray()
		out := make([]any, len(elems))
		for i := range elems {
			out[i] = FromValue(elems[i])
		}
		return out
	case kiwi.KindRecord:
		rec, _ := v.AsRecord()
		return FromRecord(rec)
	default:
		return nil
	}
}

// FromRecord converts a decoded record into an ordered object.
func FromRecord(r *kiwi.Record) *Object {
	o := NewObject()
	for i := range r.Fields {
		o.Set(r.Fields[i].Name, FromValue(r.Fields[i].Value))
	}
	return o
}

// MarshalJSON renders the object with keys in insertion order. Floats that
// JSON cannot represent (NaN, infinities) serialize as null.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range o.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(o.entries[i].key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if err := marshalJSONValue(&buf, o.entries[i].val); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalJSONValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case *Object:
		b, err := t.MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(b)
	case []any:
		buf.WriteByte('[')
		for i := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalJSONValue(buf, t[i]); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			buf.WriteString("null")
			return nil
		}
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

// MarshalYAML renders the object as a mapping node so emitted YAML keeps
// insertion order.
func (o *Object) MarshalYAML() (any, error) {
	return o.yamlNode()
}

func (o *Object) yamlNode() (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := range o.entries {
		var k yaml.Node
		k.SetString(o.entries[i].key)
		v, err := yamlValueNode(o.entries[i].val)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", o.entries[i].key, err)
		}
		n.Content = append(n.Content, &k, v)
	}
	return n, nil
}

func yamlValueNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Object:
		return t.yamlNode()
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := range t {
			e, err := yamlValueNode(t[i])
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, e)
		}
		return seq, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}
