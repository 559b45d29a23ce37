// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kiwi decodes the self-describing binary format embedded in design
// files: a schema blob declaring type definitions, and a data blob
// interpreted against those definitions into a generic typed tree.
package kiwi

import (
	"bytes"
	"fmt"
	"math"
)

// reader is a byte cursor over a decode buffer. Every read advances the
// cursor; a read past the end reports the offset it started from.
type reader struct {
	buf []byte
	pos int
}

func newReader(buf []byte) *reader { return &reader{buf: buf} }

// remaining reports how many bytes are left to read.
func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) readByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, errTruncated(r.pos, "need 1 byte, have 0")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// readBytes returns n bytes sharing the underlying buffer.
func (r *reader) readBytes(n int) ([]byte, error) {
	if n > r.remaining() {
		return nil, errTruncated(r.pos, fmt.Sprintf("need %d bytes, have %d", n, r.remaining()))
	}
	b := r.buf[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// readVaruint reads an unsigned integer as little-endian groups of seven
// bits, the high bit of each byte flagging continuation. At most five bytes
// encode a 32-bit value; the fifth byte terminates the loop regardless of
// its continuation bit.
func (r *reader) readVaruint() (uint32, error) {
	var v uint32
	for shift := uint(0); shift < 35; shift += 7 {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
	}
	return v, nil
}

// readVarint reads a zig-zag encoded signed integer.
func (r *reader) readVarint() (int32, error) {
	u, err := r.readVaruint()
	if err != nil {
		return 0, err
	}
	if u&1 != 0 {
		return ^int32(u >> 1), nil
	}
	return int32(u >> 1), nil
}

// readVaruint64 extends the varuint scheme to 64 bits: up to nine bytes,
// the ninth contributing all eight of its bits.
func (r *reader) readVaruint64() (uint64, error) {
	var v uint64
	var shift uint
	for i := 0; i < 9; i++ {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		if i == 8 {
			v |= uint64(b) << shift
			break
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return v, nil
}

func (r *reader) readVarint64() (int64, error) {
	u, err := r.readVaruint64()
	if err != nil {
		return 0, err
	}
	if u&1 != 0 {
		return ^int64(u >> 1), nil
	}
	return int64(u >> 1), nil
}

// readFloat reads a 32-bit IEEE-754 float. A single zero byte encodes 0.0;
// any other value is four little-endian bytes holding the float's bits
// left-rotated by nine, which moves the exponent into the low byte so that
// small common values compress to the one-byte form.
func (r *reader) readFloat() (float32, error) {
	start := r.pos
	first, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if first == 0 {
		return 0, nil
	}
	rest, err := r.readBytes(3)
	if err != nil {
		r.pos = start
		return 0, errTruncated(start, fmt.Sprintf("need 4 bytes for float, have %d", len(r.buf)-start))
	}
	bits := uint32(first) | uint32(rest[0])<<8 | uint32(rest[1])<<16 | uint32(rest[2])<<24
	bits = bits<<23 | bits>>9
	return math.Float32frombits(bits), nil
}

// readString reads UTF-8 bytes up to a NUL terminator.
func (r *reader) readString() (string, error) {
	i := bytes.IndexByte(r.buf[r.pos:], 0)
	if i < 0 {
		return "", errTruncated(r.pos, "unterminated string")
	}
	s := string(r.buf[r.pos : r.pos+i])
	r.pos += i + 1
	return s, nil
}
