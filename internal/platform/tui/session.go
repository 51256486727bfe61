package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/primetime/internal/registry"
)

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewScores
	viewReplay
)

// SessionModel drives a full session: menu, games, the scoreboard and
// replays. It runs both the local menu command and every SSH connection.
type SessionModel struct {
	opts     Options
	view     sessionView
	menu     MenuModel
	game     GameModel
	scores   ScoreboardModel
	replay   ReplayModel
	message  string
	quitting bool
}

// NewSessionModel creates a session that starts at the menu.
func NewSessionModel(opts Options) SessionModel {
	opts = opts.withDefaults()
	return SessionModel{
		opts: opts,
		menu: NewMenuModel(opts),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active view and handles transitions.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Config.ScreenW = wsm.Width
		m.opts.Config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewScores:
		return m.updateScores(msg)
	case viewReplay:
		return m.updateReplay(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)
	m.opts.Preset = m.menu.Preset()
	if _, ok := msg.(tea.KeyMsg); ok {
		m.message = ""
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.opts)
		m.view = viewScores
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		game, err := registry.Create(m.menu.Selected().GameID)
		if err != nil {
			m.opts.Logger.Error("could not create game", "err", err)
			return m.toMenu(err.Error()), nil
		}
		m.game = NewGameModel(game, m.opts)
		m.game.embedded = true
		m.view = viewGame
		return m, m.game.Init()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(GameModel)

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		note := ""
		if id := m.game.ReplayID(); id != "" {
			note = "Replay " + shortID(id) + " saved"
		}
		return m.toMenu(note), nil
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	m.scores = next.(ScoreboardModel)

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		return m.toMenu(""), nil
	case m.scores.SelectedReplay() != "":
		return m.watch(m.scores.SelectedReplay())
	}
	return m, cmd
}

func (m SessionModel) updateReplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.replay.Update(msg)
	m.replay = next.(ReplayModel)

	switch {
	case m.replay.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.replay.BackToMenu():
		m.scores = NewScoreboardModel(m.opts)
		m.view = viewScores
		return m, nil
	}
	return m, cmd
}

// watch loads a stored replay and switches to playback.
func (m SessionModel) watch(id string) (tea.Model, tea.Cmd) {
	entry, err := m.opts.Store.Replay(id)
	if err != nil {
		m.opts.Logger.Warn("could not load replay", "id", id, "err", err)
		return m.toMenu("Could not load replay " + shortID(id)), nil
	}
	game, err := registry.LoadReplay(entry.Log)
	if err != nil {
		m.opts.Logger.Warn("could not decode replay", "id", id, "err", err)
		return m.toMenu("Replay " + shortID(id) + " is damaged"), nil
	}
	m.replay = NewReplayModel(game, m.opts)
	m.replay.embedded = true
	m.view = viewReplay
	return m, m.replay.Init()
}

func (m SessionModel) toMenu(message string) SessionModel {
	m.menu = NewMenuModel(m.opts)
	m.view = viewMenu
	m.message = message
	return m
}

// View renders the active view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case viewGame:
		return m.game.View()
	case viewScores:
		return m.scores.View()
	case viewReplay:
		return m.replay.View()
	}
	v := m.menu.View()
	if m.message != "" {
		v += "\n" + centerText(m.message, m.opts.Config.ScreenW)
	}
	return v
}

// RunSession runs the interactive menu locally.
func RunSession(opts Options) error {
	p := tea.NewProgram(NewSessionModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
