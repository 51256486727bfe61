package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/primetime/internal/registry"
	"github.com/vovakirdan/primetime/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show high scores for a mode",
	Long: `Display the top high scores for the specified mode.

Examples:
  primetime scores primetime
  primetime scores add --limit 20
  primetime scores product --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores for the mode")
}

func runScores(_ *cobra.Command, args []string) {
	mode := args[0]
	game, err := registry.Create(mode)
	if err != nil {
		fatalf("%v (run 'primetime list')", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening database: %v", err)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(mode); err != nil {
			fatalf("clearing scores: %v", err)
		}
		fmt.Printf("Cleared scores for %s.\n", game.Title())
		return
	}

	scores, err := store.TopScores(mode, flagScoresLimit)
	if err != nil {
		fatalf("retrieving scores: %v", err)
	}

	fmt.Printf("High Scores - %s\n\n", game.Title())
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'primetime play %s' to set the first high score!\n", mode)
		return
	}

	stats, err := store.GetAllGamesStats()
	if err != nil {
		fatalf("retrieving stats: %v", err)
	}
	if st, ok := stats[mode]; ok {
		fmt.Printf("Games: %d  Average: %.1f  Last played: %s\n\n",
			st.GamesCount, st.AvgScore, st.LastPlayed.Format("2006-01-02 15:04"))
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}
}
