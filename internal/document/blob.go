// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/kreako/fig2json/internal/kiwi"
)

// BlobBytes extracts the payloads of the root record's blobs array. Each
// element is a record holding the raw bytes under a bytes field.
func BlobBytes(root *kiwi.Record) [][]byte {
	v, ok := root.Get("blobs")
	if !ok {
		return nil
	}
	elems, err := v.AsArray()
	if err != nil {
		return nil
	}
	out := make([][]byte, len(elems))
	for i, e := range elems {
		rec, err := e.AsRecord()
		if err != nil {
			continue
		}
		bv, ok := rec.Get("bytes")
		if !ok {
			continue
		}
		b, err := bv.AsBytes()
		if err != nil {
			continue
		}
		out[i] = b
	}
	return out
}

// SubstituteBlobs walks the node tree replacing fields named <x>Blob whose
// value indexes into blobs with a field <x> holding the parsed content, in
// place. An index out of range, an unrecognized blob name, or a payload
// that fails to parse leaves the field untouched.
func SubstituteBlobs(root *Node, blobs [][]byte) {
	if len(blobs) == 0 {
		return
	}
	root.Walk(func(n *Node, _ int) {
		substituteIn(n.Fields, blobs)
	})
}

func substituteIn(v any, blobs [][]byte) {
	switch t := v.(type) {
	case *Object:
		for _, key := range t.Keys() {
			val, _ := t.Get(key)
			if parsed, name, ok := parseBlobField(key, val, blobs); ok {
				t.Replace(key, name, parsed)
				continue
			}
			substituteIn(val, blobs)
		}
	case []any:
		for i := range t {
			substituteIn(t[i], blobs)
		}
	}
}

func parseBlobField(key string, val any, blobs [][]byte) (any, string, bool) {
	name := strings.TrimSuffix(key, "Blob")
	if name == key || name == "" {
		return nil, "", false
	}
	idx, ok := blobIndex(val)
	if !ok || idx >= uint64(len(blobs)) {
		return nil, "", false
	}
	switch name {
	case "commands", "fillGeometry", "strokeGeometry":
		s, ok := ParsePathCommands(blobs[idx])
		return s, name, ok
	case "vectorNetwork":
		o, ok := ParseVectorNetwork(blobs[idx])
		return o, name, ok
	default:
		return nil, "", false
	}
}

func blobIndex(v any) (uint64, bool) {
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

// Path command opcodes as they appear on the wire.
const (
	opClose = 0
	opMove  = 1
	opLine  = 2
	opQuad  = 3
	opCubic = 4
)

// ParsePathCommands decodes a path command stream into an SVG path string.
// The stream is a sequence of one-byte opcodes, each followed by its
// coordinates as 4-byte little-endian floats: close (none), moveto and
// lineto (x y), quadratic (cx cy x y), cubic (c1x c1y c2x c2y x y).
func ParsePathCommands(b []byte) (string, bool) {
	var sb strings.Builder
	c := pathCursor{buf: b}
	for !c.done() {
		op, ok := c.byte()
		if !ok {
			return "", false
		}
		var letter string
		var coords int
		switch op {
		case opClose:
			letter, coords = "Z", 0
		case opMove:
			letter, coords = "M", 2
		case opLine:
			letter, coords = "L", 2
		case opQuad:
			letter, coords = "Q", 4
		case opCubic:
			letter, coords = "C", 6
		default:
			return "", false
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(letter)
		for i := 0; i < coords; i++ {
			f, ok := c.float()
			if !ok {
				return "", false
			}
			sb.WriteByte(' ')
			sb.WriteString(formatCoord(f))
		}
	}
	return sb.String(), true
}

type pathCursor struct {
	buf []byte
	off int
}

func (c *pathCursor) done() bool { return c.off >= len(c.buf) }

func (c *pathCursor) byte() (byte, bool) {
	if c.off >= len(c.buf) {
		return 0, false
	}
	b := c.buf[c.off]
	c.off++
	return b, true
}

func (c *pathCursor) float() (float32, bool) {
	if c.off+4 > len(c.buf) {
		return 0, false
	}
	bits := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return math.Float32frombits(bits), true
}

func (c *pathCursor) uint32() (uint32, bool) {
	if c.off+4 > len(c.buf) {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v, true
}

func formatCoord(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// ParseVectorNetwork decodes a vector network blob into an object holding
// vertices, segments and regions. The layout is a 12-byte header of
// little-endian u32 counts, then fixed-size vertex (12 bytes) and segment
// (28 bytes) entries, then variable-size regions. Segment vertex indices
// and region loop segment indices must land inside their tables.
func ParseVectorNetwork(b []byte) (*Object, bool) {
	c := pathCursor{buf: b}
	vertexCount, ok := c.uint32()
	if !ok {
		return nil, false
	}
	segmentCount, ok := c.uint32()
	if !ok {
		return nil, false
	}
	regionCount, ok := c.uint32()
	if !ok {
		return nil, false
	}

	vertices := make([]any, 0, vertexCount)
	for i := uint32(0); i < vertexCount; i++ {
		styleID, ok := c.uint32()
		if !ok {
			return nil, false
		}
		x, ok := c.float()
		if !ok {
			return nil, false
		}
		y, ok := c.float()
		if !ok {
			return nil, false
		}
		v := NewObject()
		v.Set("styleID", uint64(styleID))
		v.Set("x", float64(x))
		v.Set("y", float64(y))
		vertices = append(vertices, v)
	}

	segments := make([]any, 0, segmentCount)
	for i := uint32(0); i < segmentCount; i++ {
		styleID, ok := c.uint32()
		if !ok {
			return nil, false
		}
		start, ok := readSegmentEnd(&c, vertexCount)
		if !ok {
			return nil, false
		}
		end, ok := readSegmentEnd(&c, vertexCount)
		if !ok {
			return nil, false
		}
		s := NewObject()
		s.Set("styleID", uint64(styleID))
		s.Set("start", start)
		s.Set("end", end)
		segments = append(segments, s)
	}

	regions := make([]any, 0, regionCount)
	for i := uint32(0); i < regionCount; i++ {
		packed, ok := c.uint32()
		if !ok {
			return nil, false
		}
		windingRule := "ODD"
		if packed&1 != 0 {
			windingRule = "NONZERO"
		}
		loopCount, ok := c.uint32()
		if !ok {
			return nil, false
		}
		loops := make([]any, 0, loopCount)
		for j := uint32(0); j < loopCount; j++ {
			indexCount, ok := c.uint32()
			if !ok {
				return nil, false
			}
			indices := make([]any, 0, indexCount)
			for k := uint32(0); k < indexCount; k++ {
				idx, ok := c.uint32()
				if !ok || idx >= segmentCount {
					return nil, false
				}
				indices = append(indices, uint64(idx))
			}
			loop := NewObject()
			loop.Set("segments", indices)
			loops = append(loops, loop)
		}
		r := NewObject()
		r.Set("styleID", uint64(packed>>1))
		r.Set("windingRule", windingRule)
		r.Set("loops", loops)
		regions = append(regions, r)
	}

	o := NewObject()
	o.Set("vertices", vertices)
	o.Set("segments", segments)
	o.Set("regions", regions)
	return o, true
}

func readSegmentEnd(c *pathCursor, vertexCount uint32) (*Object, bool) {
	vertex, ok := c.uint32()
	if !ok || vertex >= vertexCount {
		return nil, false
	}
	dx, ok := c.float()
	if !ok {
		return nil, false
	}
	dy, ok := c.float()
	if !ok {
		return nil, false
	}
	o := NewObject()
	o.Set("vertex", uint64(vertex))
	o.Set("dx", float64(dx))
	o.Set("dy", float64(dy))
	return o, true
}
