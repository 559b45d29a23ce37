// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kreako/fig2json/internal/convert"
	"github.com/kreako/fig2json/internal/index"
	"github.com/kreako/fig2json/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the document catalog (build, query, export)",
	Long: `Index maintains a local SQLite catalog of converted documents. Use
subcommands to ingest design files, search nodes by name and type, or
export the catalog.`,
}

// --- build subcommand ---

var indexBuildCmd = &cobra.Command{
	Use:   "build [files or directories...]",
	Short: "Convert design files and ingest them into the catalog",
	Long: `Build converts each input in memory and records its document metadata
and node hierarchy in the catalog database, with FTS5 indexing over node
names and types. Files whose modification time is unchanged since the
last run are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	paths, err := convert.CollectInputs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no design files found in %v", args)
	}

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), paths, loadOptions(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var indexQueryCmd = &cobra.Command{
	Use:   "query [search terms...]",
	Short: "Search cataloged nodes with full-text search and filters",
	Long: `Query searches the catalog using FTS5 full-text search over node names
and types, structured filters (type, name, document), or a combination
of both. Results name the source document of each match.`,
	RunE: runIndexQuery,
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms, --type, --name, or --document")
	}

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Query(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []index.NodeResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-18s  %-32s  %-5s  %s\n",
		"GUID", "Type", "Name", "Depth", "Document")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range results {
		name := r.Name
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-18s  %-32s  %-5d  %s\n",
			r.GUID, r.Type, name, r.Depth, r.Document)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to JSON or YAML",
	Long: `Export writes the full catalog (or a filtered subset) to stdout.
Supports the same filter flags as query for partial exports.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	return store.Export(cmd.Context(), opts, types.OutputFormat(format), os.Stdout)
}

// --- shared helpers ---

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		DBPath:     viper.GetString("index.db_path"),
		MaxResults: viper.GetInt("index.max_results"),
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	nodeType, _ := cmd.Flags().GetString("type")
	name, _ := cmd.Flags().GetString("name")
	document, _ := cmd.Flags().GetString("document")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:      queryText,
		Type:       nodeType,
		Name:       name,
		Document:   document,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("db", "fig2json.db", "path to the catalog database")
	indexCmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")

	viper.BindPFlag("index.db_path", indexCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("index.max_results", indexCmd.PersistentFlags().Lookup("max-results"))

	// Query flags.
	indexQueryCmd.Flags().String("query", "", "full-text search query")
	indexQueryCmd.Flags().String("type", "", "filter by node type, e.g. FRAME or TEXT")
	indexQueryCmd.Flags().String("name", "", "filter by exact node name")
	indexQueryCmd.Flags().String("document", "", "filter by source document path")
	indexQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	indexExportCmd.Flags().String("format", "json", "export format: json or yaml")
	indexExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	indexExportCmd.Flags().String("type", "", "filter by node type for partial export")
	indexExportCmd.Flags().String("name", "", "filter by exact node name for partial export")
	indexExportCmd.Flags().String("document", "", "filter by source document path for partial export")

	// Wire subcommands.
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
