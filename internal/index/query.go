// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string, matched against node names
	// and types.
	Query string

	// Type filters by exact node type, such as FRAME or TEXT.
	Type string

	// Name filters by exact node name.
	Name string

	// Document filters by source file path.
	Document string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Type == "" && q.Name == "" && q.Document == ""
}

// NodeResult is one catalog row: a node with its document's path and name.
type NodeResult struct {
	Document     string `json:"document" yaml:"document"`
	DocumentName string `json:"document_name,omitempty" yaml:"document_name,omitempty"`
	GUID         string `json:"guid" yaml:"guid"`
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"`
	Depth        int    `json:"depth" yaml:"depth"`
}

// Query searches the catalog with optional full-text search and structured
// filters. Full-text results rank by relevance; structured-only results keep
// document order.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]NodeResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT d.path, d.name, n.guid, n.name, n.type, n.depth
			FROM nodes_fts
			JOIN nodes n ON n.rowid = nodes_fts.rowid
			JOIN documents d ON n.document_id = d.id
			WHERE nodes_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT d.path, d.name, n.guid, n.name, n.type, n.depth
			FROM nodes n
			JOIN documents d ON n.document_id = d.id
			WHERE 1=1`)
	}

	if opts.Type != "" {
		qb.WriteString(` AND n.type = ?`)
		args = append(args, opts.Type)
	}

	if opts.Name != "" {
		qb.WriteString(` AND n.name = ?`)
		args = append(args, opts.Name)
	}

	if opts.Document != "" {
		qb.WriteString(` AND d.path = ?`)
		args = append(args, opts.Document)
	}

	if useFTS {
		qb.WriteString(` ORDER BY nodes_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY d.path, n.rowid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []NodeResult
	for rows.Next() {
		var r NodeResult
		if err := rows.Scan(&r.Document, &r.DocumentName, &r.GUID, &r.Name, &r.Type, &r.Depth); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
