package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/primetime/internal/config"
	"github.com/vovakirdan/primetime/internal/core"
	"github.com/vovakirdan/primetime/internal/registry"
	"github.com/vovakirdan/primetime/internal/storage"
)

// Options is shared by every model in this package.
type Options struct {
	Store   *storage.Store // nil disables scores and replays
	Logger  *log.Logger    // nil discards
	Painter *Painter       // nil uses the default renderer
	Config  core.RuntimeConfig
	Preset  config.DifficultyPreset // empty keeps the game's default
	User    string                  // shown in logs for SSH sessions
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Painter == nil {
		o.Painter = NewPainter(nil)
	}
	if o.Config.TickRate <= 0 {
		o.Config.TickRate = 60
	}
	if o.Config.Seed == 0 {
		o.Config.Seed = time.Now().UnixNano()
	}
	return o
}

// difficultySetter is implemented by games with difficulty presets.
type difficultySetter interface {
	SetDifficulty(config.DifficultyPreset)
}

// GameModel runs one game: it maps keys to actions, steps the game on
// every tick and stores the score and replay when the session ends.
type GameModel struct {
	game     registry.Game
	screen   *core.Screen
	opts     Options
	keys     GameKeyMap
	help     help.Model
	input    core.InputFrame
	state    core.GameState
	embedded bool // back returns to a menu instead of quitting

	quitting   bool
	backToMenu bool
	saved      bool
	replayID   string
}

// NewGameModel creates a model for the given game.
func NewGameModel(game registry.Game, opts Options) GameModel {
	opts = opts.withDefaults()
	if ds, ok := game.(difficultySetter); ok && opts.Preset != "" {
		ds.SetDifficulty(opts.Preset)
	}
	return GameModel{
		game:   game,
		screen: core.NewScreen(opts.Config.ScreenW, max(1, opts.Config.ScreenH-1)),
		opts:   opts,
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
		input:  core.NewInputFrame(),
	}
}

// Init resets the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.opts.Config)
	m.opts.Logger.Debug("game started", "game", m.game.ID(), "seed", m.opts.Config.Seed, "user", m.opts.User)
	return tickCmd(m.opts.Config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.opts.Config.ScreenW = msg.Width
		m.opts.Config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(1, msg.Height-1))
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		if m.quitting || m.backToMenu {
			return m, nil
		}
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.leave()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.leave()
		if !m.embedded {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}
	if a := m.keys.Action(msg); a != core.ActionNone {
		m.input.Set(a)
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.input.Has(core.ActionRestart) && (m.state.GameOver || m.state.Won) {
		m.opts.Config.Seed = time.Now().UnixNano()
		m.game.Reset(m.opts.Config)
		m.state = m.game.State()
		m.saved = false
		m.replayID = ""
		m.input.Clear()
		return m, tickCmd(m.opts.Config.TickRate)
	}

	m.state = m.game.Step(m.input).State
	if (m.state.GameOver || m.state.Won) && !m.saved {
		m.replayID = saveSession(m.opts, m.game, true)
		m.saved = true
	}
	m.input.Clear()
	return m, tickCmd(m.opts.Config.TickRate)
}

// leave stores the replay of an unfinished session.
func (m *GameModel) leave() {
	if !m.saved {
		m.replayID = saveSession(m.opts, m.game, false)
		m.saved = true
	}
}

// saveSession seals the recording and stores it. The score is stored only
// for sessions that reached their end. Returns the replay ID, if any.
func saveSession(opts Options, g registry.Game, final bool) string {
	st := g.State()
	rec, ok := g.(registry.Recorder)
	if ok {
		if err := rec.Finish(); err != nil {
			opts.Logger.Warn("recording failed", "game", g.ID(), "err", err)
		}
	}
	if opts.Store == nil {
		return ""
	}
	if final && st.Score > 0 {
		if _, err := opts.Store.SaveScore(g.ID(), st.Score); err != nil {
			opts.Logger.Warn("could not save score", "game", g.ID(), "err", err)
		}
	}
	if !ok || rec.Ticks() == 0 {
		return ""
	}
	data := rec.Recording()
	if len(data) == 0 {
		return ""
	}
	id, err := opts.Store.SaveReplay(storage.ReplayEntry{
		GameID: g.ID(),
		Score:  st.Score,
		Seed:   rec.Seed(),
		Ticks:  rec.Ticks(),
		Won:    st.Won,
		Log:    data,
	})
	if err != nil {
		opts.Logger.Warn("could not save replay", "game", g.ID(), "err", err)
		return ""
	}
	opts.Logger.Info("replay saved", "id", id, "game", g.ID(), "score", st.Score, "user", opts.User)
	return id
}

// saveScreenshot writes the current screen as plain text.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".primetime", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("could not create screenshot directory", "err", err)
		return
	}
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("could not save screenshot", "err", err)
	}
}

// View renders the game and a help line.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	footer := m.help.View(m.keys)
	if m.replayID != "" {
		footer = fmt.Sprintf("replay %s saved  %s", shortID(m.replayID), footer)
	}
	return m.opts.Painter.Render(m.screen) + "\n" + footer
}

// IsQuitting returns true if the user asked to quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to go back to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// ReplayID returns the ID of the last stored replay.
func (m GameModel) ReplayID() string {
	return m.replayID
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run plays a single game until the user quits.
func Run(game registry.Game, opts Options) error {
	p := tea.NewProgram(NewGameModel(game, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
