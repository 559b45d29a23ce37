// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kiwi

import "fmt"

// ValueKind discriminates the forms a decoded value can take.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
	KindArray
	KindRecord
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is one decoded value: a closed tagged union over the JSON-
// representable kinds. Each value exclusively owns its children; a decoded
// tree is finite and cycle-free by construction.
type Value struct {
	kind ValueKind

	// Scalar payloads, one valid per kind.
	boolVal  bool
	intVal   int64
	uintVal  uint64
	floatVal float64
	strVal   string
	bytesVal []byte

	// Container payloads.
	arrVal []*Value
	recVal *Record
}

// Record is a decoded struct or message instance. Fields preserve wire
// order, which for structs is the schema's declaration order and for
// messages the order the writer emitted tags.
type Record struct {
	ID     TypeID
	Name   string
	Fields []Field
}

// Field is one name/value pair of a Record.
type Field struct {
	Name  string
	Value *Value
}

// Get returns the field with the given name.
func (r *Record) Get(name string) (*Value, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return r.Fields[i].Value, true
		}
	}
	return nil, false
}

// Constructors.

// Null creates a null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool creates a boolean value.
func Bool(v bool) *Value { return &Value{kind: KindBool, boolVal: v} }

// Int creates a signed integer value.
func Int(v int64) *Value { return &Value{kind: KindInt, intVal: v} }

// Uint creates an unsigned integer value.
func Uint(v uint64) *Value { return &Value{kind: KindUint, uintVal: v} }

// Float creates a float value.
func Float(v float64) *Value { return &Value{kind: KindFloat, floatVal: v} }

// Str creates a string value.
func Str(v string) *Value { return &Value{kind: KindString, strVal: v} }

// Bytes creates a bytes value.
func Bytes(v []byte) *Value { return &Value{kind: KindBytes, bytesVal: v} }

// Array creates an array value.
func Array(elems ...*Value) *Value { return &Value{kind: KindArray, arrVal: elems} }

// Rec wraps a record as a value.
func Rec(r *Record) *Value { return &Value{kind: KindRecord, recVal: r} }

// Accessors.

// Kind returns the value kind. A nil value reads as null.
func (v *Value) Kind() ValueKind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether this is a null value.
func (v *Value) IsNull() bool { return v == nil || v.kind == KindNull }

// AsBool returns the boolean payload.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, fmt.Errorf("kiwi: value is %s, not bool", v.Kind())
	}
	return v.boolVal, nil
}

// AsInt returns the signed integer payload.
func (v *Value) AsInt() (int64, error) {
	if v.Kind() != KindInt {
		return 0, fmt.Errorf("kiwi: value is %s, not int", v.Kind())
	}
	return v.intVal, nil
}

// AsUint returns the unsigned integer payload.
func (v *Value) AsUint() (uint64, error) {
	if v.Kind() != KindUint {
		return 0, fmt.Errorf("kiwi: value is %s, not uint", v.Kind())
	}
	return v.uintVal, nil
}

// AsFloat returns the float payload.
func (v *Value) AsFloat() (float64, error) {
	if v.Kind() != KindFloat {
		return 0, fmt.Errorf("kiwi: value is %s, not float", v.Kind())
	}
	return v.floatVal, nil
}

// AsStr returns the string payload.
func (v *Value) AsStr() (string, error) {
	if v.Kind() != KindString {
		return "", fmt.Errorf("kiwi: value is %s, not string", v.Kind())
	}
	return v.strVal, nil
}

// AsBytes returns the bytes payload. The slice shares the decode buffer.
func (v *Value) AsBytes() ([]byte, error) {
	if v.Kind() != KindBytes {
		return nil, fmt.Errorf("kiwi: value is %s, not bytes", v.Kind())
	}
	return v.bytesVal, nil
}

// AsArray returns the element slice.
func (v *Value) AsArray() ([]*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("kiwi: value is %s, not array", v.Kind())
	}
	return v.arrVal, nil
}

// AsRecord returns the record payload.
func (v *Value) AsRecord() (*Record, error) {
	if v.Kind() != KindRecord {
		return nil, fmt.Errorf("kiwi: value is %s, not record", v.Kind())
	}
	return v.recVal, nil
}
