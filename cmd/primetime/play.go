package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/primetime/internal/platform/tui"
	"github.com/vovakirdan/primetime/internal/registry"
	"github.com/vovakirdan/primetime/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a game mode",
	Long: `Start playing the specified mode. The session is recorded and stored
as a replay when it ends or when you quit.

Controls:
  Arrows/WASD  - Move the cursor
  Space/Enter  - Select or deselect the block under the cursor
  X/Backspace  - Clear the selection
  P            - Pause
  R            - Restart (after the game ends)
  Esc/Q        - Quit

Difficulty options:
  easy   - Slower spawns, starts at the lowest level
  normal - Starts at 30% difficulty
  hard   - Faster spawns, starts at 70% difficulty
  fixed  - No progression

Examples:
  primetime play primetime
  primetime play add --difficulty easy
  primetime play fractions --seed 42
  primetime play product --config ./my-product.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	mode := args[0]
	if !registry.Exists(mode) {
		fatalf("unknown mode %q (run 'primetime list')", mode)
	}
	game, err := registry.Create(mode)
	if err != nil {
		fatalf("creating game: %v", err)
	}

	logger, closeLog := fileLogger()
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, scores and replays are disabled", "err", err)
		store = nil
	}

	runErr := tui.Run(game, tui.Options{
		Store:  store,
		Logger: logger,
		Config: runtimeConfig(),
		Preset: preset,
	})
	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fatalf("running game: %v", runErr)
	}
}
