// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kiwi

import (
	"errors"
	"fmt"
)

// DefKind discriminates the three definition forms a schema declares. The
// constant values match the kind byte on the wire.
type DefKind byte

const (
	DefEnum DefKind = iota
	DefStruct
	DefMessage
)

func (k DefKind) String() string {
	switch k {
	case DefEnum:
		return "enum"
	case DefStruct:
		return "struct"
	case DefMessage:
		return "message"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// TypeID indexes a definition within a Schema's flat table. Definitions
// reference each other by index, which resolves forward and mutual
// references without a pointer graph.
type TypeID int

// Primitive type codes. A field's type reference is a negative code for a
// primitive and a non-negative definition index otherwise.
const (
	TypeBool   int32 = -1
	TypeByte   int32 = -2
	TypeInt    int32 = -3
	TypeUint   int32 = -4
	TypeFloat  int32 = -5
	TypeString int32 = -6
	TypeInt64  int32 = -7
	TypeUint64 int32 = -8
)

func primitiveName(code int32) string {
	switch code {
	case TypeBool:
		return "bool"
	case TypeByte:
		return "byte"
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeInt64:
		return "int64"
	case TypeUint64:
		return "uint64"
	default:
		return fmt.Sprintf("type(%d)", code)
	}
}

// TypeRef names the value type of a field.
type TypeRef struct {
	// Code is a negative primitive code or the TypeID of another definition.
	Code int32

	// IsArray marks the field as a length-prefixed sequence of Code.
	IsArray bool
}

// Primitive reports whether the reference names a primitive rather than a
// definition.
func (t TypeRef) Primitive() bool { return t.Code < 0 }

// Def returns the referenced definition index. Only meaningful when
// Primitive is false.
func (t TypeRef) Def() TypeID { return TypeID(t.Code) }

// FieldDef declares one field of a definition.
type FieldDef struct {
	Name string
	Type TypeRef

	// Tag is the wire tag for message fields and the member value for enum
	// fields. Struct fields carry no meaningful tag; writers emit filler.
	Tag uint32
}

// TypeDef is one declared type: an enum, a struct (all fields always
// present, in order, untagged) or a message (tagged optional fields).
type TypeDef struct {
	Name   string
	Kind   DefKind
	Fields []FieldDef

	byTag map[uint32]int
	byVal map[uint32]int
}

// FieldByTag returns the message field declared with the given wire tag.
func (d *TypeDef) FieldByTag(tag uint32) (*FieldDef, bool) {
	i, ok := d.byTag[tag]
	if !ok {
		return nil, false
	}
	return &d.Fields[i], true
}

// EnumName returns the member name declared for an enum value.
func (d *TypeDef) EnumName(v uint32) (string, bool) {
	i, ok := d.byVal[v]
	if !ok {
		return "", false
	}
	return d.Fields[i].Name, true
}

// Schema is the flat, index-addressed table of type definitions embedded in
// a file. It is immutable after decoding and safe for concurrent reads.
type Schema struct {
	Defs []TypeDef

	byName map[string]TypeID
}

// Def returns the definition at the given index.
func (s *Schema) Def(id TypeID) (*TypeDef, bool) {
	if id < 0 || int(id) >= len(s.Defs) {
		return nil, false
	}
	return &s.Defs[id], true
}

// Lookup resolves a definition by name.
func (s *Schema) Lookup(name string) (TypeID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// RefString renders a type reference for display, e.g. "float", "Color" or
// "NodeChange[]".
func (s *Schema) RefString(t TypeRef) string {
	var name string
	if t.Primitive() {
		name = primitiveName(t.Code)
	} else if def, ok := s.Def(t.Def()); ok {
		name = def.Name
	} else {
		name = fmt.Sprintf("type(%d)", t.Code)
	}
	if t.IsArray {
		return name + "[]"
	}
	return name
}

// DecodeSchema reads the self-describing schema blob and returns the
// resolved definition table. The blob layout is fixed: a definition count,
// then per definition its name, kind byte and field list. Field type
// references are table indexes and may point forward, so they are validated
// only after the whole table has been read.
//
// Structural violations, including truncation inside the schema blob, are
// reported as ErrMalformedSchema.
func DecodeSchema(data []byte) (*Schema, error) {
	r := newReader(data)

	count, err := r.readVaruint()
	if err != nil {
		return nil, schemaErr(err)
	}
	// A definition costs at least a name terminator, a kind byte and a
	// field count byte. Anything claiming more is lying about its length.
	if int64(count)*3 > int64(r.remaining()) {
		return nil, errMalformed(0, "definition count %d exceeds blob size", count)
	}

	s := &Schema{
		Defs:   make([]TypeDef, 0, count),
		byName: make(map[string]TypeID, count),
	}
	for i := 0; i < int(count); i++ {
		def, err := decodeTypeDef(r)
		if err != nil {
			return nil, fillContext(schemaErr(err), def.Name, "", 0)
		}
		s.byName[def.Name] = TypeID(i)
		s.Defs = append(s.Defs, def)
	}

	for i := range s.Defs {
		def := &s.Defs[i]
		if def.Kind == DefEnum {
			continue
		}
		for j := range def.Fields {
			f := &def.Fields[j]
			if !f.Type.Primitive() && int(f.Type.Code) >= len(s.Defs) {
				return nil, errMalformed(-1, "field %q of %s references missing definition %d",
					f.Name, def.Name, f.Type.Code)
			}
		}
	}
	return s, nil
}

func decodeTypeDef(r *reader) (TypeDef, error) {
	var def TypeDef

	name, err := r.readString()
	if err != nil {
		return def, err
	}
	def.Name = name

	kind, err := r.readByte()
	if err != nil {
		return def, err
	}
	if kind > byte(DefMessage) {
		return def, errMalformed(r.pos-1, "invalid kind byte %d", kind)
	}
	def.Kind = DefKind(kind)

	fieldCount, err := r.readVaruint()
	if err != nil {
		return def, err
	}
	// Each field costs at least 4 bytes on the wire.
	if int64(fieldCount)*4 > int64(r.remaining()) {
		return def, errMalformed(r.pos, "field count %d exceeds blob size", fieldCount)
	}

	def.Fields = make([]FieldDef, 0, fieldCount)
	switch def.Kind {
	case DefMessage:
		def.byTag = make(map[uint32]int, fieldCount)
	case DefEnum:
		def.byVal = make(map[uint32]int, fieldCount)
	}

	for i := 0; i < int(fieldCount); i++ {
		var f FieldDef

		if f.Name, err = r.readString(); err != nil {
			return def, err
		}
		code, err := r.readVarint()
		if err != nil {
			return def, err
		}
		if code < TypeUint64 {
			return def, errMalformed(r.pos, "field %q has unknown primitive type %d", f.Name, code)
		}
		f.Type.Code = code

		flags, err := r.readByte()
		if err != nil {
			return def, err
		}
		f.Type.IsArray = flags&1 != 0

		if f.Tag, err = r.readVaruint(); err != nil {
			return def, err
		}

		switch def.Kind {
		case DefMessage:
			if f.Tag == 0 {
				return def, errMalformed(r.pos, "field %q has tag 0, which terminates messages", f.Name)
			}
			if prev, ok := def.byTag[f.Tag]; ok {
				return def, errMalformed(r.pos, "fields %q and %q share tag %d",
					def.Fields[prev].Name, f.Name, f.Tag)
			}
			def.byTag[f.Tag] = i
		case DefEnum:
			// First declaration wins when members alias a value.
			if _, ok := def.byVal[f.Tag]; !ok {
				def.byVal[f.Tag] = i
			}
		}
		def.Fields = append(def.Fields, f)
	}
	return def, nil
}

// schemaErr re-kinds truncation inside the schema blob as a malformed
// schema. The blob is a fixed self-contained structure; running out of
// bytes mid-definition is a structural violation of that structure, not a
// data-stream truncation.
func schemaErr(err error) error {
	var de *DecodeError
	if errors.As(err, &de) && de.kind == ErrTruncatedStream {
		de.kind = ErrMalformedSchema
	}
	return err
}
