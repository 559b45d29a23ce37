// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives full conversion runs: parse the container, decode
// the data blob against its bundled schema, build and transform the node
// hierarchy, and serialize the result as JSON or YAML.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/kreako/fig2json/internal/document"
	"github.com/kreako/fig2json/internal/fig"
	"github.com/kreako/fig2json/internal/kiwi"
	"github.com/kreako/fig2json/internal/transform"
	"github.com/kreako/fig2json/pkg/types"
)

// DefaultRootType is the schema definition the data blob is decoded against
// when the configuration names none.
const DefaultRootType = "Message"

// Options bundles the conversion and transformation settings for a run.
type Options struct {
	Convert   types.ConvertConfig
	Transform types.TransformConfig
}

func (o Options) rootType() string {
	if o.Convert.RootType == "" {
		return DefaultRootType
	}
	return o.Convert.RootType
}

func (o Options) format() types.OutputFormat {
	if o.Convert.Format == "" {
		return types.OutputJSON
	}
	return o.Convert.Format
}

// Result holds everything one conversion produced. OutPath, RawPath and
// Images are filled in by ConvertFile once outputs are written.
type Result struct {
	File *fig.File

	// Root is the transformed node hierarchy; Document is the same tree
	// materialized as an ordered object.
	Root     *document.Node
	Document *document.Object

	// Raw is the wire-shaped document, nil unless requested.
	Raw *document.Object

	Meta types.DocumentMeta

	OutPath string
	RawPath string
	Images  []string
}

// Convert parses a container held in memory and converts it. The data blob
// is decoded once; the transformed and raw documents are both materialized
// from that single decode.
func Convert(raw []byte, opts Options) (*Result, error) {
	f, err := fig.Parse(raw)
	if err != nil {
		return nil, err
	}
	return convertParsed(f, opts)
}

func convertParsed(f *fig.File, opts Options) (*Result, error) {
	schema, err := kiwi.DecodeSchema(f.Schema)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	val, err := kiwi.DecodeByName(schema, f.Data, opts.rootType())
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	rec, err := val.AsRecord()
	if err != nil {
		return nil, fmt.Errorf("root type %s: %w", opts.rootType(), err)
	}

	node, err := document.Build(rec)
	if err != nil {
		return nil, err
	}
	document.SubstituteBlobs(node, document.BlobBytes(rec))
	root := transform.New(opts.Transform).Run(node)

	res := &Result{
		File:     f,
		Root:     root,
		Document: root.Object(),
		Meta: types.DocumentMeta{
			Name:        root.Name(),
			Type:        f.Type,
			Version:     f.Version,
			Nodes:       root.Count(),
			ConvertedAt: time.Now().UTC(),
		},
	}
	if opts.Convert.Raw {
		res.Raw = document.Raw(f.Version, f.Type, rec)
	}
	return res, nil
}

// Marshal renders a document in the requested format. JSON output ends with
// a newline to match the YAML encoder.
func Marshal(o *document.Object, format types.OutputFormat, pretty bool) ([]byte, error) {
	switch format {
	case types.OutputYAML:
		return yaml.Marshal(o)
	case types.OutputJSON:
		var (
			b   []byte
			err error
		)
		if pretty {
			b, err = json.MarshalIndent(o, "", "  ")
		} else {
			b, err = json.Marshal(o)
		}
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// ConvertPath converts the container at path without writing anything.
func ConvertPath(path string, opts Options) (*Result, error) {
	f, err := fig.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := convertParsed(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Meta.Path = path
	return res, nil
}

// ConvertFile converts the container at path and writes the outputs next to
// it, or under the configured output directory. The raw document, when
// requested, lands beside the main output with a .raw suffix before the
// extension.
func ConvertFile(path string, opts Options) (*Result, error) {
	res, err := ConvertPath(path, opts)
	if err != nil {
		return nil, err
	}

	outDir := opts.Convert.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ext := "." + string(opts.format())

	b, err := Marshal(res.Document, opts.format(), opts.Convert.Pretty)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.OutPath = filepath.Join(outDir, base+ext)
	if err := os.WriteFile(res.OutPath, b, 0o644); err != nil {
		return nil, err
	}

	if res.Raw != nil {
		b, err := Marshal(res.Raw, opts.format(), opts.Convert.Pretty)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		res.RawPath = filepath.Join(outDir, base+".raw"+ext)
		if err := os.WriteFile(res.RawPath, b, 0o644); err != nil {
			return nil, err
		}
	}

	if opts.Convert.ImagesDir != "" && len(res.File.Images) > 0 {
		names, err := fig.WriteImages(opts.Convert.ImagesDir, res.File.Images)
		if err != nil {
			return nil, fmt.Errorf("%s: write images: %w", path, err)
		}
		res.Images = names
	}
	return res, nil
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any files failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts each path in order, printing per-file status to w
// and returning a summary. A failing file is reported and passed over; the
// batch stops early only when ctx is done.
func ConvertBatch(ctx context.Context, paths []string, opts Options, w io.Writer) (BatchResult, error) {
	var result BatchResult
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		r, err := ConvertFile(path, opts)
		if err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed:    %s (%v)\n", path, err)
			continue
		}
		result.Converted++
		fmt.Fprintf(w, "converted: %s -> %s (%d nodes)\n", path, r.OutPath, r.Meta.Nodes)
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result, nil
}

// CollectInputs expands command-line arguments into container paths. A
// directory argument contributes its .fig and .jam entries; file arguments
// pass through unchanged.
func CollectInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".fig", ".jam":
				paths = append(paths, filepath.Join(arg, e.Name()))
			}
		}
	}
	return paths, nil
}
