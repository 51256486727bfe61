package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/primetime/internal/platform/tui"
	"github.com/vovakirdan/primetime/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick modes, browse scores and watch replays",
	Long: `Start Prime Time in interactive menu mode.

Menu controls:
  Up/Down      - Choose a mode
  Left/Right   - Change difficulty
  Enter        - Play
  Tab          - Scores and replays
  Q            - Quit

After a game, Esc returns to the menu.`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := fileLogger()
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, scores and replays are disabled", "err", err)
		store = nil
	}

	runErr := tui.RunSession(tui.Options{
		Store:  store,
		Logger: logger,
		Config: runtimeConfig(),
		Preset: preset,
	})
	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fatalf("running menu: %v", runErr)
	}
}
