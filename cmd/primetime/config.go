package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/primetime/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config <mode>",
	Short: "Print the effective config of a mode",
	Long: `Print the config a new game of the given mode would use, after the
config search path and the difficulty preset are applied. The output is
valid input for --config.

Examples:
  primetime config primetime
  primetime config add --difficulty hard > add-hard.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runConfig,
}

func runConfig(_ *cobra.Command, args []string) {
	cfg, err := config.LoadWithPreset(args[0], flagConfig, preset)
	if err != nil {
		fatalf("%v", err)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fatalf("%v", err)
	}
	os.Stdout.Write(data)
}
