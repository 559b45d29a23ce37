// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the fig2json CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the fig2json CLI.
var rootCmd = &cobra.Command{
	Use:   "fig2json",
	Short: "Convert binary design files to clean JSON",
	Long: `fig2json converts binary design-file containers into clean hierarchical
JSON or YAML. It decodes the schema and data blobs embedded in each file,
rebuilds the node tree, strips editor bookkeeping and default-valued noise,
and can catalog converted documents in a searchable SQLite index.

Each operation is a subcommand: convert, inspect, and index.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./.fig2json.yaml or ~/.fig2json.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".fig2json")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("FIG2JSON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
