// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kreako/fig2json/internal/fig"
	"github.com/kreako/fig2json/internal/kiwi"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show the container layout of a design file",
	Long: `Inspect parses a design file without converting it and reports the
container flavor, format version and chunk layout. Chunk sizes are
reported after decompression. With --schema the embedded type
definitions are listed in declaration order.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Bool("schema", false, "list the embedded schema definitions")
	inspectCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(inspectCmd)
}

type chunkInfo struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Size  int    `json:"size"`
}

type fileInfo struct {
	Path        string      `json:"path"`
	Flavor      string      `json:"flavor"`
	Version     uint32      `json:"version"`
	Definitions int         `json:"definitions"`
	Chunks      []chunkInfo `json:"chunks"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	f, err := fig.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	schema, err := kiwi.DecodeSchema(f.Schema)
	if err != nil {
		return fmt.Errorf("%s: schema: %w", args[0], err)
	}

	info := fileInfo{
		Path:        args[0],
		Flavor:      string(f.Type),
		Version:     f.Version,
		Definitions: len(schema.Defs),
		Chunks:      chunkInfos(f),
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("file:        %s\n", info.Path)
	fmt.Printf("flavor:      %s\n", info.Flavor)
	fmt.Printf("version:     %d\n", info.Version)
	fmt.Printf("definitions: %d\n", info.Definitions)
	fmt.Println()

	fmt.Printf("%-6s  %-10s  %s\n", "Chunk", "Kind", "Size")
	fmt.Println(strings.Repeat("-", 32))
	for _, c := range info.Chunks {
		fmt.Printf("%-6d  %-10s  %d\n", c.Index, c.Kind, c.Size)
	}

	if listSchema, _ := cmd.Flags().GetBool("schema"); listSchema {
		fmt.Println()
		printSchema(schema)
	}
	return nil
}

func chunkInfos(f *fig.File) []chunkInfo {
	chunks := []chunkInfo{
		{Index: 0, Kind: "schema", Size: len(f.Schema)},
		{Index: 1, Kind: "data", Size: len(f.Data)},
	}
	for i, img := range f.Images {
		chunks = append(chunks, chunkInfo{Index: i + 2, Kind: chunkKind(img), Size: len(img)})
	}
	return chunks
}

func chunkKind(b []byte) string {
	switch {
	case len(b) >= 2 && b[0] == 0x89 && b[1] == 0x50:
		return "image/png"
	case len(b) >= 2 && b[0] == 0xff && b[1] == 0xd8:
		return "image/jpg"
	default:
		return "image"
	}
}

// printSchema renders the definition table in declaration order, one block
// per definition.
func printSchema(s *kiwi.Schema) {
	for i := range s.Defs {
		def := &s.Defs[i]
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s %s {\n", def.Kind, def.Name)
		for _, f := range def.Fields {
			switch def.Kind {
			case kiwi.DefEnum:
				fmt.Printf("  %s = %d\n", f.Name, f.Tag)
			case kiwi.DefMessage:
				fmt.Printf("  %s: %s = %d\n", f.Name, s.RefString(f.Type), f.Tag)
			default:
				fmt.Printf("  %s: %s\n", f.Name, s.RefString(f.Type))
			}
		}
		fmt.Println("}")
	}
}
