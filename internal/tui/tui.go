// Package tui renders the game in a terminal with Bubble Tea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/roshambo/internal/game"
)

const historyHeight = 6

// Model is the Bubble Tea model driving one game controller
type Model struct {
	controller *game.Controller
	state      game.ViewState
	moves      []string
	logger     *log.Logger

	keys    keyMap
	help    help.Model
	history viewport.Model

	cursor   int
	results  []game.Result
	quitting bool
	width    int
}

// NewModel creates a model around controller
func NewModel(controller *game.Controller, logger *log.Logger) *Model {
	vp := viewport.New(40, historyHeight)
	vp.SetContent("")

	m := &Model{
		controller: controller,
		state:      controller.State(),
		moves:      controller.Catalog().Moves(),
		logger:     logger.WithPrefix("tui"),
		keys:       newKeyMap(),
		help:       help.New(),
		history:    vp,
	}
	m.syncKeys()
	return m
}

// Run starts the terminal UI and blocks until the player quits or ctx ends
func Run(ctx context.Context, controller *game.Controller, logger *log.Logger) error {
	program := tea.NewProgram(NewModel(controller, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

// State returns the last view state the model rendered
func (m *Model) State() game.ViewState {
	return m.state
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.history.Width = max(msg.Width-4, 10)
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch m.state.View {
	case game.ViewPreGame:
		switch {
		case key.Matches(msg, m.keys.Rounds):
			m.apply(m.controller.IncrementRoundCount())
		case key.Matches(msg, m.keys.Start):
			m.results = nil
			m.cursor = 0
			m.apply(m.controller.StartGame())
		}

	case game.ViewInGame:
		switch {
		case key.Matches(msg, m.keys.Left):
			m.cursor = (m.cursor + len(m.moves) - 1) % len(m.moves)
		case key.Matches(msg, m.keys.Right):
			m.cursor = (m.cursor + 1) % len(m.moves)
		case key.Matches(msg, m.keys.Play):
			m.submit(m.moves[m.cursor])
		case key.Matches(msg, m.keys.Results):
			m.apply(m.controller.StopGame())
		default:
			// digits pick a move directly
			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.moves) {
				m.cursor = n - 1
				m.submit(m.moves[m.cursor])
			}
		}

	case game.ViewPostGame:
		if key.Matches(msg, m.keys.Again) {
			m.apply(m.controller.PlayAgain())
		}
	}
}

func (m *Model) submit(move string) {
	state, ok := m.controller.SubmitMove(move)
	if ok && state.LastResult != nil {
		m.results = append(m.results, *state.LastResult)
		m.history.SetContent(m.renderHistory())
		m.history.GotoBottom()
	}
	m.apply(state, ok)
}

func (m *Model) apply(state game.ViewState, ok bool) {
	if !ok {
		m.logger.Debug("Action ignored", "status", state.Status)
	}
	m.state = state
	m.syncKeys()
}

// syncKeys enables only the bindings that do something in the current view
func (m *Model) syncKeys() {
	view := m.state.View
	m.keys.Rounds.SetEnabled(view == game.ViewPreGame)
	m.keys.Start.SetEnabled(view == game.ViewPreGame)
	m.keys.Left.SetEnabled(view == game.ViewInGame && !m.state.ResultsAvailable)
	m.keys.Right.SetEnabled(view == game.ViewInGame && !m.state.ResultsAvailable)
	m.keys.Play.SetEnabled(view == game.ViewInGame && !m.state.ResultsAvailable)
	m.keys.Results.SetEnabled(m.state.ResultsAvailable)
	m.keys.Again.SetEnabled(view == game.ViewPostGame)
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state.View {
	case game.ViewPreGame:
		body = m.renderPreGame()
	case game.ViewInGame:
		body = m.renderInGame()
	case game.ViewPostGame:
		body = m.renderPostGame()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("Rock · Paper · Scissors"),
		PaneStyle.Render(body),
		m.help.View(m.keys),
	)
}

func (m *Model) renderPreGame() string {
	return fmt.Sprintf("Number of rounds: %s\n\n%s",
		ActionsStyle.Render(m.state.RoundCountDisplay),
		InfoStyle.Render("Press r to change, enter to start"))
}

func (m *Model) renderInGame() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Round %d of %d\n\n", min(m.state.CurrentRound+1, m.state.RoundCount), m.state.RoundCount)

	choices := make([]string, len(m.moves))
	for i, move := range m.moves {
		label := fmt.Sprintf("%d %s", i+1, move)
		if i == m.cursor && !m.state.ResultsAvailable {
			choices[i] = SelectedChoiceStyle.Render(label)
		} else {
			choices[i] = ChoiceStyle.Render(label)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, choices...))
	b.WriteString("\n\n")

	if r := m.state.LastResult; r != nil {
		b.WriteString(outcomeStyle(r.Outcome).Render(fmt.Sprintf("%s (%s)", r.Message(), r.Outcome)))
	}
	b.WriteString("\n")

	if len(m.results) > 0 {
		b.WriteString("\n")
		b.WriteString(m.history.View())
		b.WriteString("\n")
	}

	if m.state.ResultsAvailable {
		b.WriteString("\n")
		b.WriteString(ActionsStyle.Render("All rounds played. Press v to view results."))
	}
	return b.String()
}

func (m *Model) renderHistory() string {
	lines := make([]string, len(m.results))
	for i, r := range m.results {
		lines[i] = fmt.Sprintf("%2d. %s  %s", r.Round, r.Message(), outcomeStyle(r.Outcome).Render(r.Outcome.String()))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPostGame() string {
	if m.state.Final == nil {
		return ""
	}
	lines := m.state.Final.Lines()
	lines[0] = WinStyle.Render(lines[0])
	lines[1] = LossStyle.Render(lines[1])
	lines[2] = TieStyle.Render(lines[2])
	return strings.Join(lines, "\n") + "\n\n" + InfoStyle.Render("Press a to play again")
}
