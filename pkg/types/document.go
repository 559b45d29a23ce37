// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FileType identifies the design-file flavor by its container magic.
type FileType string

const (
	FileFigma  FileType = "figma"
	FileFigJam FileType = "figjam"
)

// OutputFormat selects the serialization of a converted document.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// DocumentMeta summarizes one converted design file.
type DocumentMeta struct {
	// Path is the source file the document was converted from.
	Path string `json:"path" yaml:"path"`

	// Name is the document's display name, when the file declares one.
	Name string `json:"name" yaml:"name"`

	// Type is the container flavor: figma or figjam.
	Type FileType `json:"type" yaml:"type"`

	// Version is the container format version word.
	Version uint32 `json:"version" yaml:"version"`

	// Nodes is the node count of the transformed document tree.
	Nodes int `json:"nodes" yaml:"nodes"`

	// ConvertedAt is when the conversion ran.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
