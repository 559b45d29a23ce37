package types

// ConvertConfig holds settings for converting design files.
type ConvertConfig struct {
	// RootType names the schema definition decoded as the document root
	// (default "Message").
	RootType string `json:"root_type" yaml:"root_type"`

	// Format selects the output serialization: json or yaml.
	Format OutputFormat `json:"format" yaml:"format"`

	// Pretty enables indented JSON output.
	Pretty bool `json:"pretty" yaml:"pretty"`

	// Raw also writes the untransformed document next to the output, with a
	// .raw suffix before the extension.
	Raw bool `json:"raw" yaml:"raw"`

	// OutputDir is the directory converted documents are written to.
	// Empty writes next to each input.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`

	// ImagesDir, when set, receives the container's image chunks as files
	// named by content hash.
	ImagesDir string `json:"images_dir,omitempty" yaml:"images_dir,omitempty"`
}

// TransformConfig holds settings for the transformation pipeline.
type TransformConfig struct {
	// Defaults overrides entries of the built-in default table. A field is
	// stripped when its decoded value equals its default exactly.
	Defaults map[string]any `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	// Preserve lists additional field names the stripping passes must leave
	// alone, on top of the built-in geometry and image allow-list.
	Preserve []string `json:"preserve,omitempty" yaml:"preserve,omitempty"`

	// KeepInternal disables internal-node filtering.
	KeepInternal bool `json:"keep_internal" yaml:"keep_internal"`
}

// IndexConfig holds settings for the document index.
type IndexConfig struct {
	// DBPath is the SQLite database location.
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all command configurations.
type Config struct {
	Convert   ConvertConfig   `json:"convert" yaml:"convert"`
	Transform TransformConfig `json:"transform" yaml:"transform"`
	Index     IndexConfig     `json:"index" yaml:"index"`
}
