package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/primetime/internal/core"
	"github.com/vovakirdan/primetime/internal/games/primetime"
	"github.com/vovakirdan/primetime/internal/platform/tui"
	"github.com/vovakirdan/primetime/internal/storage"
)

var (
	flagReplaysLimit int
	flagDelete       bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays [mode]",
	Short: "List stored replays",
	Long: `List the newest stored replays, optionally for one mode.

Examples:
  primetime replays
  primetime replays add --limit 50
  primetime replays --delete 3f2a9c1e`,
	Args: cobra.MaximumNArgs(1),
	Run:  runReplays,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id|file>",
	Short: "Watch a replay",
	Long: `Play back a stored replay (by ID or unique ID prefix) or an exported
log file.

Controls:
  Space  - Pause
  +/-    - Change speed (1x, 2x, 4x, 8x)
  Esc/Q  - Quit`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <id|file>",
	Short: "Re-simulate a replay and check its result",
	Long: `Run a replay without a terminal and print its final state. For stored
replays the result is compared with the recorded score and tick count.`,
	Args: cobra.ExactArgs(1),
	Run:  runVerify,
}

var exportCmd = &cobra.Command{
	Use:   "export <id> <file>",
	Short: "Write a stored replay log to a file",
	Args:  cobra.ExactArgs(2),
	Run:   runExport,
}

func init() {
	replaysCmd.Flags().IntVar(&flagReplaysLimit, "limit", 20, "Number of replays to list")
	replaysCmd.Flags().BoolVar(&flagDelete, "delete", false, "Delete the replay with the given ID instead of listing")
}

func runReplays(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening database: %v", err)
	}
	defer store.Close()

	if flagDelete {
		if len(args) != 1 {
			fatalf("--delete needs a replay ID")
		}
		entry, err := store.Replay(args[0])
		if err != nil {
			fatalf("%v", err)
		}
		if err := store.DeleteReplay(entry.ID); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Deleted replay %s\n", entry.ID)
		return
	}

	mode := ""
	if len(args) == 1 {
		mode = args[0]
	}
	entries, err := store.ListReplays(mode, flagReplaysLimit)
	if err != nil {
		fatalf("listing replays: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No replays stored yet.")
		return
	}

	fmt.Printf("  %-8s  %-12s  %-8s  %-8s  %-6s  %s\n", "ID", "Mode", "Score", "Ticks", "Result", "Date")
	fmt.Printf("  %-8s  %-12s  %-8s  %-8s  %-6s  %s\n", "--", "----", "-----", "-----", "------", "----")
	for _, e := range entries {
		result := "over"
		if e.Won {
			result = "won"
		}
		fmt.Printf("  %-8s  %-12s  %-8d  %-8d  %-6s  %s\n",
			e.ID[:min(8, len(e.ID))], e.GameID, e.Score, e.Ticks, result, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Println("Run 'primetime replay <id>' to watch one.")
}

// loadReplay reads a replay from a file or, failing that, from the
// database. The stored entry is nil for files.
func loadReplay(arg string) ([]byte, *storage.ReplayEntry, error) {
	if data, err := os.ReadFile(arg); err == nil {
		return data, nil, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, nil, err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	entry, err := store.Replay(arg)
	if err != nil {
		return nil, nil, err
	}
	return entry.Log, entry, nil
}

func runReplay(_ *cobra.Command, args []string) {
	data, _, err := loadReplay(args[0])
	if err != nil {
		fatalf("%v", err)
	}
	game, err := primetime.LoadReplay(data)
	if err != nil {
		fatalf("%v", err)
	}

	logger, closeLog := fileLogger()
	defer closeLog()

	if err := tui.RunReplay(game, tui.Options{Logger: logger, Config: runtimeConfig()}); err != nil {
		fatalf("running replay: %v", err)
	}
}

func runVerify(_ *cobra.Command, args []string) {
	data, entry, err := loadReplay(args[0])
	if err != nil {
		fatalf("%v", err)
	}
	game, err := primetime.LoadReplay(data)
	if err != nil {
		fatalf("%v", err)
	}

	game.Reset(core.DefaultConfig())
	st := game.State()
	for !st.GameOver && !st.Won {
		st = game.Step(core.NewInputFrame()).State
	}
	if err := game.Err(); err != nil {
		fatalf("replay stopped: %v", err)
	}

	result := "game over"
	if st.Won {
		result = "won"
	}
	done, total := game.Progress()
	fmt.Printf("Mode:         %s\n", game.ID())
	fmt.Printf("Seed:         %d\n", game.Seed())
	fmt.Printf("Ticks:        %d\n", game.Ticks())
	fmt.Printf("Instructions: %d/%d\n", done, total)
	fmt.Printf("Score:        %d\n", st.Score)
	fmt.Printf("Result:       %s\n", result)
	fmt.Printf("Field hash:   %016x\n", game.Snapshot())

	if entry == nil {
		return
	}
	if entry.Score != st.Score || entry.Ticks != game.Ticks() || entry.Won != st.Won {
		fatalf("replay %s does not match its record: stored score %d ticks %d, replayed score %d ticks %d",
			entry.ID, entry.Score, entry.Ticks, st.Score, game.Ticks())
	}
	fmt.Println("OK: replay matches the stored result")
}

func runExport(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening database: %v", err)
	}
	defer store.Close()

	entry, err := store.Replay(args[0])
	if err != nil {
		fatalf("%v", err)
	}
	if err := os.WriteFile(args[1], entry.Log, 0o644); err != nil {
		fatalf("writing %s: %v", args[1], err)
	}
	fmt.Printf("Exported replay %s (%s, score %d) to %s\n", entry.ID, entry.GameID, entry.Score, args[1])
}
