// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/kreako/fig2json/pkg/types"
)

const exportLimit = 100000

// Export writes the catalog rows matching opts to w in the requested format.
// The query limit is lifted so an unfiltered export covers the whole catalog.
func (s *Store) Export(ctx context.Context, opts QueryOptions, format types.OutputFormat, w io.Writer) error {
	opts.MaxResults = exportLimit
	results, err := s.Query(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	if results == nil {
		results = []NodeResult{}
	}

	switch format {
	case types.OutputYAML:
		data, err := yaml.Marshal(results)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case types.OutputJSON, "":
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
