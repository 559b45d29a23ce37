// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fig splits a design-file container into its schema, data and
// image payloads.
package fig

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"

	"github.com/kreako/fig2json/pkg/types"
)

const (
	magicFigma  = "fig-kiwi"
	magicFigJam = "fig-jam."
	headerSize  = 12

	canvasEntry = "canvas.fig"
)

// ErrUnrecognized reports input that is neither a design-file container nor
// a ZIP archive wrapping one.
var ErrUnrecognized = errors.New("fig: unrecognized container")

// File is a parsed container: the format version, the two blobs the decoder
// consumes, and any auxiliary image chunks. All payloads are decompressed.
type File struct {
	Type    types.FileType
	Version uint32

	// Schema declares the type definitions the Data blob is interpreted
	// against.
	Schema []byte
	Data   []byte

	// Images holds the remaining chunks, usually PNG or JPEG assets.
	Images [][]byte
}

// ReadFile parses the container at path.
func ReadFile(fpath string) (*File, error) {
	raw, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	f, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fpath, err)
	}
	return f, nil
}

// Parse parses a container held in memory. ZIP exports are unwrapped by
// extracting their canvas entry first.
func Parse(raw []byte) (*File, error) {
	if len(raw) >= 2 && raw[0] == 'P' && raw[1] == 'K' {
		inner, err := extractCanvas(raw)
		if err != nil {
			return nil, err
		}
		return parseChunked(inner)
	}
	return parseChunked(raw)
}

// parseChunked reads the native layout: an eight byte magic, a format
// version word, then a run of length-prefixed chunks. Chunk 0 is the schema
// blob, chunk 1 the data blob, the rest are image assets.
func parseChunked(raw []byte) (*File, error) {
	if len(raw) < headerSize {
		return nil, fmt.Errorf("fig: header needs %d bytes, have %d", headerSize, len(raw))
	}

	var ft types.FileType
	switch string(raw[:8]) {
	case magicFigma:
		ft = types.FileFigma
	case magicFigJam:
		ft = types.FileFigJam
	default:
		return nil, ErrUnrecognized
	}
	version := binary.LittleEndian.Uint32(raw[8:headerSize])

	var chunks [][]byte
	for pos := headerSize; pos < len(raw); {
		if pos+4 > len(raw) {
			return nil, fmt.Errorf("fig: truncated chunk header at offset %d", pos)
		}
		size := int(binary.LittleEndian.Uint32(raw[pos : pos+4]))
		pos += 4
		if size > len(raw)-pos {
			return nil, fmt.Errorf("fig: chunk at offset %d claims %d bytes, %d remain",
				pos-4, size, len(raw)-pos)
		}
		chunks = append(chunks, raw[pos:pos+size])
		pos += size
	}
	if len(chunks) < 2 {
		return nil, fmt.Errorf("fig: container holds %d chunks, need schema and data", len(chunks))
	}

	schema, err := inflate(chunks[0])
	if err != nil {
		return nil, fmt.Errorf("fig: schema chunk: %w", err)
	}
	data, err := inflate(chunks[1])
	if err != nil {
		return nil, fmt.Errorf("fig: data chunk: %w", err)
	}

	f := &File{Type: ft, Version: version, Schema: schema, Data: data}
	for _, c := range chunks[2:] {
		f.Images = append(f.Images, imageChunk(c))
	}
	return f, nil
}

// inflate decompresses a chunk. Chunks are raw DEFLATE streams; newer
// writers emit zstd, which is tried second.
func inflate(c []byte) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(c))
	b, ferr := io.ReadAll(fr)
	fr.Close()
	if ferr == nil {
		return b, nil
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, ferr
	}
	defer dec.Close()
	if b, err := dec.DecodeAll(c, nil); err == nil {
		return b, nil
	}
	return nil, fmt.Errorf("decompress: %w", ferr)
}

// imageChunk decompresses an asset chunk unless it is already a bare PNG or
// JPEG, which writers store uncompressed.
func imageChunk(c []byte) []byte {
	if imageExt(c) != ".bin" {
		return c
	}
	if b, err := inflate(c); err == nil {
		return b
	}
	return c
}

func imageExt(b []byte) string {
	switch {
	case len(b) >= 2 && b[0] == 0x89 && b[1] == 0x50:
		return ".png"
	case len(b) >= 2 && b[0] == 0xff && b[1] == 0xd8:
		return ".jpg"
	default:
		return ".bin"
	}
}

// extractCanvas pulls the canvas entry out of a ZIP export.
func extractCanvas(raw []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("fig: open zip: %w", err)
	}
	for _, entry := range zr.File {
		if path.Base(entry.Name) != canvasEntry {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("fig: open %s: %w", entry.Name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("fig: read %s: %w", entry.Name, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("fig: zip holds no %s entry", canvasEntry)
}

// WriteImages writes each image chunk to dir, named by a content-hash slug
// and a sniffed extension. It returns the written file names in chunk order.
func WriteImages(dir string, images [][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(images))
	for _, img := range images {
		h := sha256.Sum256(img)
		name := fmt.Sprintf("%x%s", h[:8], imageExt(img))
		if err := os.WriteFile(filepath.Join(dir, name), img, 0o644); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
