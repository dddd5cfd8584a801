// internal/tui/tui.go
// Package tui provides the interactive terminal interface for playing a quiz
// session: board generation, clue selection, answer entry and scoring.
package tui

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/starfield-labs/quizdeck/internal/board"
	"github.com/starfield-labs/quizdeck/internal/game"
	"github.com/starfield-labs/quizdeck/internal/logging"
)

// viewState represents the current view or screen of the application.
type viewState int

const (
	// viewGenerating is shown while a board is being synthesized.
	viewGenerating viewState = iota
	// viewBoard is the clue-selection grid.
	viewBoard
	// viewClue is the answer-entry screen for the active clue.
	viewClue
	// viewOutcome reveals how the last clue resolved.
	viewOutcome
	// viewGameOver is shown once every cell has been played.
	viewGameOver
)

// DistractorFunc produces wrong multiple-choice options for one clue.
type DistractorFunc func(ctx context.Context, clueText, answer string) ([]string, error)

// Deps bundles everything the TUI needs to run a game.
type Deps struct {
	Session     *game.Session
	Source      game.BoardSource
	Distractors DistractorFunc
	Topic       string
	Debug       bool
}

// boardReadyMsg carries a generated board and the epoch it was requested under.
type boardReadyMsg struct {
	epoch  uint64
	result board.Result
}

// boardErrMsg is sent when board generation fails.
type boardErrMsg struct{ error }

// distractorsMsg carries model-generated options for the keyed clue.
type distractorsMsg struct {
	key     game.ClueKey
	options []string
}

// distractorsErrMsg is sent when option generation fails; the board-sampled
// options stay in place.
type distractorsErrMsg struct{ error }

// model is the main application model for the Bubble Tea UI.
type model struct {
	ctx     context.Context
	deps    Deps
	session *game.Session

	state     viewState
	err       error
	cursorCat int
	cursorRow int
	outcome   game.Outcome

	spinner       spinner.Model
	answerInput   textinput.Model
	width, height int
	generateStart time.Time
}

// initialModel creates a model idling in the generating view; Init kicks off
// the first board.
func initialModel(ctx context.Context, deps Deps) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorGold)

	ti := textinput.New()
	ti.Placeholder = "What is ..."
	ti.Prompt = "Your answer: "
	ti.CharLimit = 200

	return &model{
		ctx:         ctx,
		deps:        deps,
		session:     deps.Session,
		state:       viewGenerating,
		spinner:     s,
		answerInput: ti,
	}
}

// generateBoardCmd synthesizes a board off the event loop and reports back
// with the epoch it was requested under, so a superseded request is discarded.
func generateBoardCmd(ctx context.Context, source game.BoardSource, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		result, err := source.Generate(ctx)
		if err != nil {
			return boardErrMsg{error: err}
		}
		return boardReadyMsg{epoch: epoch, result: result}
	}
}

// fetchDistractorsCmd asks the model for wrong options for the active clue.
func fetchDistractorsCmd(ctx context.Context, fn DistractorFunc, key game.ClueKey, clueText, answer string) tea.Cmd {
	return func() tea.Msg {
		options, err := fn(ctx, clueText, answer)
		if err != nil {
			return distractorsErrMsg{error: err}
		}
		return distractorsMsg{key: key, options: options}
	}
}

// Init starts the spinner and the first board generation.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startNewGame())
}

// startNewGame stamps a fresh epoch and returns the generation command.
func (m *model) startNewGame() tea.Cmd {
	m.state = viewGenerating
	m.err = nil
	m.generateStart = time.Now()
	epoch := m.session.BeginGeneration()
	return generateBoardCmd(m.ctx, m.deps.Source, epoch)
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.answerInput.Width = msg.Width - 20
		return m, nil

	case boardReadyMsg:
		if err := m.session.Install(msg.epoch, msg.result); err != nil {
			// A stale board from a superseded new-game request; drop it.
			logging.LogEvent("board discarded: %v", err)
			return m, nil
		}
		m.state = viewBoard
		m.cursorCat, m.cursorRow = 0, 0
		return m, nil

	case boardErrMsg:
		m.err = msg.error
		return m, nil

	case distractorsMsg:
		m.session.ApplyDistractors(msg.key, msg.options)
		return m, nil

	case distractorsErrMsg:
		// Board-sampled options remain on screen.
		logging.LogEvent("distractor generation failed: %v", msg.error)
		return m, nil
	}

	switch m.state {
	case viewGenerating:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if key, ok := msg.(tea.KeyMsg); ok && m.err != nil {
			switch key.String() {
			case "n":
				cmds = append(cmds, m.spinner.Tick, m.startNewGame())
			case "q", "esc":
				return m, tea.Quit
			}
		}

	case viewBoard:
		if key, ok := msg.(tea.KeyMsg); ok {
			cmds = append(cmds, m.updateBoardKeys(key)...)
		}

	case viewClue:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "enter":
				outcome, err := m.session.SubmitAnswer(m.answerInput.Value())
				if err == nil {
					m.outcome = outcome
					m.state = viewOutcome
				}
				return m, nil
			case "esc":
				outcome, err := m.session.GiveUp()
				if err == nil {
					m.outcome = outcome
					m.state = viewOutcome
				}
				return m, nil
			}
		}
		m.answerInput, cmd = m.answerInput.Update(msg)
		cmds = append(cmds, cmd)

	case viewOutcome:
		if _, ok := msg.(tea.KeyMsg); ok {
			if m.session.Finished() {
				m.state = viewGameOver
			} else {
				m.state = viewBoard
			}
		}

	case viewGameOver:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "n":
				cmds = append(cmds, m.spinner.Tick, m.startNewGame())
			case "q", "esc":
				return m, tea.Quit
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// updateBoardKeys handles navigation and selection on the clue grid.
func (m *model) updateBoardKeys(key tea.KeyMsg) []tea.Cmd {
	b := m.session.Board()
	if b == nil {
		return nil
	}

	switch key.String() {
	case "left", "h":
		if m.cursorCat > 0 {
			m.cursorCat--
		}
	case "right", "l":
		if m.cursorCat < len(b.Categories)-1 {
			m.cursorCat++
		}
	case "up", "k":
		if m.cursorRow > 0 {
			m.cursorRow--
		}
	case "down", "j":
		if m.cursorRow < board.CluesPerCategory-1 {
			m.cursorRow++
		}
	case "?":
		m.session.ToggleHints()
	case "n":
		return []tea.Cmd{m.spinner.Tick, m.startNewGame()}
	case "q", "esc":
		return []tea.Cmd{tea.Quit}
	case "enter":
		return m.activateClue(game.ClueKey{Category: m.cursorCat, Clue: m.cursorRow})
	}
	return nil
}

// activateClue selects the cell under the cursor and, when hints are on,
// requests model-generated options in the background.
func (m *model) activateClue(key game.ClueKey) []tea.Cmd {
	current, err := m.session.SelectClue(key)
	if err != nil {
		// Already-answered and out-of-range selections are silently ignored.
		return nil
	}

	m.state = viewClue
	m.answerInput.Reset()
	m.answerInput.Focus()

	var cmds []tea.Cmd
	cmds = append(cmds, textinput.Blink)
	if m.session.ShowHints() && m.deps.Distractors != nil {
		cmds = append(cmds, fetchDistractorsCmd(m.ctx, m.deps.Distractors, key, current.Clue, current.Answer))
	}
	return cmds
}

// Start runs the interactive game loop until the player quits.
func Start(ctx context.Context, deps Deps) error {
	m := initialModel(ctx, deps)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Printf("tui terminated: %v", err)
		return err
	}
	return nil
}
