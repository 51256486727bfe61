package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/primetime/internal/core"
	"github.com/vovakirdan/primetime/internal/registry"
)

var replaySpeeds = []int{1, 2, 4, 8}

// ReplayKeyMap holds the playback bindings.
type ReplayKeyMap struct {
	Pause  key.Binding
	Faster key.Binding
	Slower key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// DefaultReplayKeyMap returns the default playback bindings.
func DefaultReplayKeyMap() ReplayKeyMap {
	return ReplayKeyMap{
		Pause:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Faster: key.NewBinding(key.WithKeys("+", "=", "right", "l"), key.WithHelp("+", "faster")),
		Slower: key.NewBinding(key.WithKeys("-", "left", "h"), key.WithHelp("-", "slower")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k ReplayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Faster, k.Slower, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k ReplayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// progressReporter is implemented by games that play back logs.
type progressReporter interface {
	Progress() (done, total int)
	Ticks() uint64
}

// ReplayModel plays back a recorded session. Input never reaches the
// game; the keys only control playback.
type ReplayModel struct {
	game     registry.Game
	screen   *core.Screen
	opts     Options
	keys     ReplayKeyMap
	help     help.Model
	speed    int // index into replaySpeeds
	paused   bool
	ended    bool
	embedded bool

	quitting   bool
	backToMenu bool
}

// NewReplayModel creates a playback model for a replay game.
func NewReplayModel(game registry.Game, opts Options) ReplayModel {
	opts = opts.withDefaults()
	return ReplayModel{
		game:   game,
		screen: core.NewScreen(opts.Config.ScreenW, max(1, opts.Config.ScreenH-2)),
		opts:   opts,
		keys:   DefaultReplayKeyMap(),
		help:   help.New(),
	}
}

// Init resets the replay and starts the tick loop.
func (m ReplayModel) Init() tea.Cmd {
	m.game.Reset(m.opts.Config)
	return tickCmd(m.opts.Config.TickRate)
}

// Update handles messages.
func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			if !m.embedded {
				m.quitting = true
				return m, tea.Quit
			}
			m.backToMenu = true
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Faster):
			m.speed = min(m.speed+1, len(replaySpeeds)-1)
		case key.Matches(msg, m.keys.Slower):
			m.speed = max(m.speed-1, 0)
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.opts.Config.ScreenW = msg.Width
		m.opts.Config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(1, msg.Height-2))
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		if m.quitting || m.backToMenu {
			return m, nil
		}
		m.advance()
		return m, tickCmd(m.opts.Config.TickRate)
	}
	return m, nil
}

// advance steps the replay by the current speed.
func (m *ReplayModel) advance() {
	if m.paused || m.ended {
		return
	}
	for range replaySpeeds[m.speed] {
		st := m.game.Step(core.NewInputFrame()).State
		if st.GameOver || st.Won {
			m.ended = true
			return
		}
	}
}

// Status describes playback position and speed.
func (m ReplayModel) Status() string {
	status := fmt.Sprintf("%dx", replaySpeeds[m.speed])
	switch {
	case m.ended:
		status = "end of replay"
	case m.paused:
		status = "paused " + status
	}
	if p, ok := m.game.(progressReporter); ok {
		done, total := p.Progress()
		status = fmt.Sprintf("%s  tick %d  instruction %d/%d", status, p.Ticks(), done, total)
	}
	return status
}

// View renders the replay, a status line and the help line.
func (m ReplayModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Render(m.Status())
	return m.opts.Painter.Render(m.screen) + "\n" + status + "\n" + m.help.View(m.keys)
}

// Ended reports whether the replay reached its end.
func (m ReplayModel) Ended() bool {
	return m.ended
}

// IsQuitting returns true if the user asked to quit.
func (m ReplayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to go back.
func (m ReplayModel) BackToMenu() bool {
	return m.backToMenu
}

// RunReplay plays back a replay game until the user quits.
func RunReplay(game registry.Game, opts Options) error {
	p := tea.NewProgram(NewReplayModel(game, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
