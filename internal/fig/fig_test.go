// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fig

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"

	"github.com/kreako/fig2json/pkg/types"
)

func deflated(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter: %v", err)
	}
	if _, err := fw.Write(b); err != nil {
		t.Fatalf("flate write: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("flate close: %v", err)
	}
	return buf.Bytes()
}

func zstdded(t *testing.T, b []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	defer enc.Close()
	return enc.EncodeAll(b, nil)
}

func container(magic string, version uint32, chunks ...[]byte) []byte {
	b := []byte(magic)
	b = binary.LittleEndian.AppendUint32(b, version)
	for _, c := range chunks {
		b = binary.LittleEndian.AppendUint32(b, uint32(len(c)))
		b = append(b, c...)
	}
	return b
}

var pngChunk = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}

func TestParse(t *testing.T) {
	schema := []byte("schema blob")
	data := []byte("data blob")
	raw := container(magicFigma, 101, deflated(t, schema), deflated(t, data), pngChunk)

	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Type != types.FileFigma {
		t.Errorf("Type = %s, want figma", f.Type)
	}
	if f.Version != 101 {
		t.Errorf("Version = %d, want 101", f.Version)
	}
	if !bytes.Equal(f.Schema, schema) {
		t.Errorf("Schema = %q", f.Schema)
	}
	if !bytes.Equal(f.Data, data) {
		t.Errorf("Data = %q", f.Data)
	}
	if len(f.Images) != 1 || !bytes.Equal(f.Images[0], pngChunk) {
		t.Errorf("Images = %v", f.Images)
	}
}

func TestParse_FigJam(t *testing.T) {
	raw := container(magicFigJam, 7, deflated(t, []byte("s")), deflated(t, []byte("d")))
	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Type != types.FileFigJam {
		t.Errorf("Type = %s, want figjam", f.Type)
	}
}

func TestParse_ZstdChunk(t *testing.T) {
	schema := []byte("schema via zstd")
	raw := container(magicFigma, 1, zstdded(t, schema), deflated(t, []byte("d")))
	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(f.Schema, schema) {
		t.Errorf("Schema = %q", f.Schema)
	}
}

func TestParse_ZipExport(t *testing.T) {
	inner := container(magicFigma, 42, deflated(t, []byte("s")), deflated(t, []byte("d")))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string][]byte{
		"meta.json":        []byte("{}"),
		"files/canvas.fig": inner,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	f, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Version != 42 {
		t.Errorf("Version = %d, want 42", f.Version)
	}
}

func TestParse_Errors(t *testing.T) {
	valid := container(magicFigma, 1, deflated(t, []byte("s")), deflated(t, []byte("d")))

	tests := []struct {
		name    string
		raw     []byte
		wantErr string
	}{
		{"unrecognized magic", container("not-fig!", 1, nil, nil), "unrecognized"},
		{"short header", []byte(magicFigma), "header needs"},
		{"truncated by one byte", valid[:len(valid)-1], "claims"},
		{"truncated chunk header", append(append([]byte{}, valid...), 0x01, 0x02), "truncated chunk header"},
		{"single chunk", container(magicFigma, 1, deflated(t, []byte("s"))), "need schema and data"},
		{"garbage schema chunk", container(magicFigma, 1, []byte{0xde, 0xad}, deflated(t, []byte("d"))), "schema chunk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want substring %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Parse(container("not-fig!", 1)); !errors.Is(err, ErrUnrecognized) {
		t.Errorf("magic mismatch err = %v, want ErrUnrecognized", err)
	}
}

func TestWriteImages(t *testing.T) {
	dir := t.TempDir()
	names, err := WriteImages(dir, [][]byte{pngChunk, {0xff, 0xd8, 0xff}})
	if err != nil {
		t.Fatalf("WriteImages: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("len(names) = %d, want 2", len(names))
	}
	if !strings.HasSuffix(names[0], ".png") || !strings.HasSuffix(names[1], ".jpg") {
		t.Errorf("names = %v", names)
	}
	for _, n := range names {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Errorf("stat %s: %v", n, err)
		}
	}
}
