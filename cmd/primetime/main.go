// primetime is a falling-block arithmetic puzzle for the terminal.
//
// Usage:
//
//	primetime list                 - List game modes
//	primetime play <mode>          - Play a mode
//	primetime menu                 - Pick modes, scores and replays interactively
//	primetime scores <mode>        - Show high scores
//	primetime replays [mode]       - List stored replays
//	primetime replay <id|file>     - Watch a replay
//	primetime verify <id|file>     - Re-simulate a replay and check its result
//	primetime export <id> <file>   - Write a replay log to a file
//	primetime config <mode>        - Print the effective config of a mode
//	primetime serve                - Start the SSH server
//
// Global flags:
//
//	--fps <rate>          - Tick rate (default: 60)
//	--seed <value>        - RNG seed for reproducible games
//	--db <path>           - Database path (default: ~/.primetime/primetime.db)
//	--config <path>       - Custom mode config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/primetime/internal/config"
	"github.com/vovakirdan/primetime/internal/core"
	"github.com/vovakirdan/primetime/internal/games/primetime"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagNoColor    bool

	preset   = config.DifficultyNormal
	logLevel = log.InfoLevel
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "primetime",
	Short: "Prime Time - an arithmetic block puzzle in your terminal",
	Long: `Prime Time drops numbered blocks into a well. Select blocks whose
product (or sum) hits the target to clear them before the stack reaches
the top. Every game is recorded and can be replayed exactly.

Examples:
  primetime list
  primetime play primetime
  primetime play add --difficulty hard
  primetime menu
  primetime replays
  primetime serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (ticks per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.primetime/primetime.db", "Path to scores and replays database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom mode config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colors")

	rootCmd.AddCommand(listCmd, playCmd, menuCmd, scoresCmd, configCmd, serveCmd)
	rootCmd.AddCommand(replaysCmd, replayCmd, verifyCmd, exportCmd)
}

// setup applies global flags before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	p, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	preset = p
	primetime.SetConfigPath(flagConfig)
	primetime.SetDifficultyPreset(preset)

	if logLevel, err = log.ParseLevel(flagLogLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	if flagFPS <= 0 {
		return fmt.Errorf("invalid --fps %d", flagFPS)
	}
	if flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return nil
}

// newLogger creates a logger in the house style.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "primetime",
	})
	logger.SetLevel(logLevel)
	return logger
}

// fileLogger logs to ~/.primetime/primetime.log so interactive commands do
// not write over the alt screen.
func fileLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return newLogger(io.Discard), func() {}
	}
	dir := filepath.Join(home, ".primetime")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newLogger(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "primetime.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return newLogger(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// runtimeConfig builds the runtime config from flags and the terminal size.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
