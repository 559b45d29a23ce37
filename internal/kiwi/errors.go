// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kiwi

import (
	"errors"
	"fmt"
	"strings"
)

// Decode failure classes. Every error returned by this package wraps exactly
// one of these sentinels, so callers can classify failures with errors.Is.
var (
	ErrMalformedSchema = errors.New("malformed schema")
	ErrTruncatedStream = errors.New("truncated stream")
	ErrUnknownRootType = errors.New("unknown root type")
	ErrTypeMismatch    = errors.New("type mismatch")
)

// DecodeError is a fatal decode failure annotated with the byte position of
// the offending read and the schema context that was active at the time.
// All decode errors abort the conversion of the file that produced them.
type DecodeError struct {
	kind error

	// Offset is the byte offset into the blob where the failing read began.
	// Negative when the violation has no single position, such as a dangling
	// reference found while validating a fully read schema.
	Offset int

	// Type is the enclosing type definition name, when known.
	Type string

	// Field is the field being decoded, when known.
	Field string

	// Tag is the wire tag of the field being decoded. Zero means the failure
	// happened outside any tagged field (tag zero is the message terminator
	// and never names a field).
	Tag uint32

	// Detail describes the specific violation.
	Detail string
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("kiwi: ")
	b.WriteString(e.kind.Error())
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Type != "" {
		b.WriteString(" in ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ", field %q", e.Field)
	}
	if e.Tag != 0 {
		fmt.Fprintf(&b, " (tag %d)", e.Tag)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.kind }

func errTruncated(offset int, detail string) *DecodeError {
	return &DecodeError{kind: ErrTruncatedStream, Offset: offset, Detail: detail}
}

func errMalformed(offset int, format string, args ...any) *DecodeError {
	return &DecodeError{kind: ErrMalformedSchema, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func errMismatch(offset int, format string, args ...any) *DecodeError {
	return &DecodeError{kind: ErrTypeMismatch, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

// fillContext adds schema context to a DecodeError bubbling up from a
// primitive read. The innermost decode frame wins; outer frames must not
// attach their tag to an inner frame's field.
func fillContext(err error, typeName, field string, tag uint32) error {
	var de *DecodeError
	if !errors.As(err, &de) {
		return err
	}
	if de.Type == "" && de.Field == "" {
		de.Type, de.Field, de.Tag = typeName, field, tag
	}
	return err
}
