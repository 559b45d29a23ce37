// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kreako/fig2json/internal/convert"
	"github.com/kreako/fig2json/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files or directories...]",
	Short: "Convert design files to JSON or YAML",
	Long: `Convert decodes one or more binary design files and writes each one as a
clean JSON or YAML document next to its input (or under --output-dir).

Directories are expanded to the design files they contain. With --raw the
untransformed node list is written alongside the clean document, and with
--images embedded image chunks are extracted into the given directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("root", "", "root type to decode the data blob against (default: Message)")
	convertCmd.Flags().String("format", "json", "output format: json or yaml")
	convertCmd.Flags().Bool("pretty", false, "indent JSON output")
	convertCmd.Flags().Bool("raw", false, "also write the untransformed document as <name>.raw.<format>")
	convertCmd.Flags().String("output-dir", "", "directory for converted output (default: next to each input)")
	convertCmd.Flags().String("images", "", "directory to extract embedded images into")
	convertCmd.Flags().Bool("keep-internal", false, "keep internal-only nodes in the output")
	convertCmd.Flags().StringSlice("preserve", nil, "field names to keep even when they match defaults")
	convertCmd.Flags().BoolP("quiet", "q", false, "suppress per-file progress output")

	viper.BindPFlag("convert.root_type", convertCmd.Flags().Lookup("root"))
	viper.BindPFlag("convert.format", convertCmd.Flags().Lookup("format"))
	viper.BindPFlag("convert.pretty", convertCmd.Flags().Lookup("pretty"))
	viper.BindPFlag("convert.raw", convertCmd.Flags().Lookup("raw"))
	viper.BindPFlag("convert.output_dir", convertCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("convert.images_dir", convertCmd.Flags().Lookup("images"))
	viper.BindPFlag("transform.keep_internal", convertCmd.Flags().Lookup("keep-internal"))
	viper.BindPFlag("transform.preserve", convertCmd.Flags().Lookup("preserve"))

	rootCmd.AddCommand(convertCmd)
}

// loadOptions assembles conversion options from config file, environment
// and command-line flags, in ascending order of precedence.
func loadOptions() convert.Options {
	return convert.Options{
		Convert: types.ConvertConfig{
			RootType:  viper.GetString("convert.root_type"),
			Format:    types.OutputFormat(viper.GetString("convert.format")),
			Pretty:    viper.GetBool("convert.pretty"),
			Raw:       viper.GetBool("convert.raw"),
			OutputDir: viper.GetString("convert.output_dir"),
			ImagesDir: viper.GetString("convert.images_dir"),
		},
		Transform: types.TransformConfig{
			Defaults:     viper.GetStringMap("transform.defaults"),
			Preserve:     viper.GetStringSlice("transform.preserve"),
			KeepInternal: viper.GetBool("transform.keep_internal"),
		},
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	paths, err := convert.CollectInputs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no design files found in %v", args)
	}

	var out io.Writer = os.Stdout
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		out = io.Discard
	}

	result, err := convert.ConvertBatch(cmd.Context(), paths, loadOptions(), out)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}
