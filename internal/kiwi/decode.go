// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kiwi

import "fmt"

// Decode interprets a data blob against a schema, reading one instance of
// the root definition. The returned tree is independent of the schema except
// for type and field names. Trailing bytes after the root value are ignored.
//
// Failures are *DecodeError values: ErrTruncatedStream when the blob ends
// before a declared length is satisfied, ErrTypeMismatch when bytes cannot
// satisfy the declared kind. Decoding never partially succeeds.
func Decode(schema *Schema, data []byte, root TypeID) (*Value, error) {
	def, ok := schema.Def(root)
	if !ok {
		return nil, &DecodeError{
			kind:   ErrUnknownRootType,
			Offset: -1,
			Detail: fmt.Sprintf("no definition at index %d", root),
		}
	}
	d := &dataDecoder{schema: schema, r: newReader(data)}
	v, err := d.decodeDef(def, root)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeByName is Decode with the root definition named rather than indexed.
func DecodeByName(schema *Schema, data []byte, rootName string) (*Value, error) {
	id, ok := schema.Lookup(rootName)
	if !ok {
		return nil, &DecodeError{
			kind:   ErrUnknownRootType,
			Offset: -1,
			Detail: fmt.Sprintf("no definition named %q", rootName),
		}
	}
	return Decode(schema, data, id)
}

type dataDecoder struct {
	schema *Schema
	r      *reader
}

func (d *dataDecoder) decodeDef(def *TypeDef, id TypeID) (*Value, error) {
	switch def.Kind {
	case DefEnum:
		return d.decodeEnum(def)
	case DefStruct:
		return d.decodeStruct(def, id)
	default:
		return d.decodeMessage(def, id)
	}
}

// decodeEnum reads a varuint and resolves it to the declared member name.
// A value outside the declared set is kept as its raw integer; enum sets
// grow over time and an unknown member must not abort the file.
func (d *dataDecoder) decodeEnum(def *TypeDef) (*Value, error) {
	v, err := d.r.readVaruint()
	if err != nil {
		return nil, fillContext(err, def.Name, "", 0)
	}
	if name, ok := def.EnumName(v); ok {
		return Str(name), nil
	}
	return Uint(uint64(v)), nil
}

// decodeStruct reads every declared field in declaration order. Struct
// fields are not tagged on the wire; presence is unconditional.
func (d *dataDecoder) decodeStruct(def *TypeDef, id TypeID) (*Value, error) {
	rec := &Record{ID: id, Name: def.Name, Fields: make([]Field, 0, len(def.Fields))}
	for i := range def.Fields {
		f := &def.Fields[i]
		v, err := d.decodeField(f)
		if err != nil {
			return nil, fillContext(err, def.Name, f.Name, 0)
		}
		rec.Fields = append(rec.Fields, Field{Name: f.Name, Value: v})
	}
	return Rec(rec), nil
}

// decodeMessage reads (tag, value) pairs until the zero terminator. Tags
// the schema does not declare are skipped, never fatal.
func (d *dataDecoder) decodeMessage(def *TypeDef, id TypeID) (*Value, error) {
	rec := &Record{ID: id, Name: def.Name}
	for {
		tag, err := d.r.readVaruint()
		if err != nil {
			return nil, fillContext(err, def.Name, "", 0)
		}
		if tag == 0 {
			return Rec(rec), nil
		}
		f, ok := def.FieldByTag(tag)
		if !ok {
			if err := d.skipUnknown(); err != nil {
				return nil, fillContext(err, def.Name, "", tag)
			}
			continue
		}
		v, err := d.decodeField(f)
		if err != nil {
			return nil, fillContext(err, def.Name, f.Name, tag)
		}
		rec.Fields = append(rec.Fields, Field{Name: f.Name, Value: v})
	}
}

// skipUnknown consumes the value of a field tag the schema does not
// declare. The wire carries no per-field type information, so the value is
// assumed to be a single variable-length integer, decoded and discarded. A
// wrong assumption surfaces on a later known field as a type mismatch or
// truncation, which aborts the conversion like any other decode failure.
func (d *dataDecoder) skipUnknown() error {
	_, err := d.r.readVaruint64()
	return err
}

func (d *dataDecoder) decodeField(f *FieldDef) (*Value, error) {
	if !f.Type.IsArray {
		return d.decodeRef(f.Type.Code)
	}

	count, err := d.r.readVaruint()
	if err != nil {
		return nil, err
	}
	if f.Type.Code == TypeByte {
		b, err := d.r.readBytes(int(count))
		if err != nil {
			return nil, err
		}
		return Bytes(b), nil
	}
	// Every element costs at least one byte.
	if int64(count) > int64(d.r.remaining()) {
		return nil, errTruncated(d.r.pos,
			fmt.Sprintf("array of %d elements exceeds %d remaining bytes", count, d.r.remaining()))
	}
	elems := make([]*Value, 0, count)
	for i := 0; i < int(count); i++ {
		v, err := d.decodeRef(f.Type.Code)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return Array(elems...), nil
}

func (d *dataDecoder) decodeRef(code int32) (*Value, error) {
	switch code {
	case TypeBool:
		b, err := d.r.readByte()
		if err != nil {
			return nil, err
		}
		if b > 1 {
			return nil, errMismatch(d.r.pos-1, "bool byte 0x%02x", b)
		}
		return Bool(b == 1), nil
	case TypeByte:
		b, err := d.r.readByte()
		if err != nil {
			return nil, err
		}
		return Uint(uint64(b)), nil
	case TypeInt:
		v, err := d.r.readVarint()
		if err != nil {
			return nil, err
		}
		return Int(int64(v)), nil
	case TypeUint:
		v, err := d.r.readVaruint()
		if err != nil {
			return nil, err
		}
		return Uint(uint64(v)), nil
	case TypeFloat:
		v, err := d.r.readFloat()
		if err != nil {
			return nil, err
		}
		return Float(float64(v)), nil
	case TypeString:
		s, err := d.r.readString()
		if err != nil {
			return nil, err
		}
		return Str(s), nil
	case TypeInt64:
		v, err := d.r.readVarint64()
		if err != nil {
			return nil, err
		}
		return Int(v), nil
	case TypeUint64:
		v, err := d.r.readVaruint64()
		if err != nil {
			return nil, err
		}
		return Uint(v), nil
	default:
		def, ok := d.schema.Def(TypeID(code))
		if !ok {
			return nil, errMismatch(d.r.pos, "reference to missing definition %d", code)
		}
		return d.decodeDef(def, TypeID(code))
	}
}
