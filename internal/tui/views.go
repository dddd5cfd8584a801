// internal/tui/views.go
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/starfield-labs/quizdeck/internal/game"
)

var (
	colorDeepBlue = lipgloss.Color("17")
	colorGold     = lipgloss.Color("220")
	colorWhite    = lipgloss.Color("255")
	colorDim      = lipgloss.Color("244")
	colorGreen    = lipgloss.Color("40")
	colorRed      = lipgloss.Color("9")
	colorAmber    = lipgloss.Color("214")

	titleStyle = lipgloss.NewStyle().
			Background(colorDeepBlue).
			Foreground(colorGold).
			Bold(true).
			Padding(0, 1)

	categoryStyle = lipgloss.NewStyle().
			Background(colorDeepBlue).
			Foreground(colorWhite).
			Bold(true).
			Align(lipgloss.Center).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Background(colorDeepBlue).
			Foreground(colorGold).
			Align(lipgloss.Center).
			Padding(0, 1)

	cellAnsweredStyle = lipgloss.NewStyle().
				Background(colorDeepBlue).
				Foreground(colorDim).
				Align(lipgloss.Center).
				Padding(0, 1)

	cellCursorStyle = lipgloss.NewStyle().
			Background(colorGold).
			Foreground(colorDeepBlue).
			Bold(true).
			Align(lipgloss.Center).
			Padding(0, 1)

	helpStyle    = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed).Padding(1)
	warningStyle = lipgloss.NewStyle().Foreground(colorAmber)
	correctStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	wrongStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	clueStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGold).
			Padding(1, 2)
)

// cellWidth keeps the grid aligned across category names of varying length.
const cellWidth = 16

// View renders the application's UI based on the current state of the model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.state {
	case viewGenerating:
		return m.generatingView()
	case viewBoard:
		return m.boardView()
	case viewClue:
		return m.clueView()
	case viewOutcome:
		return m.outcomeView()
	case viewGameOver:
		return m.gameOverView()
	default:
		return "Unknown state"
	}
}

// generatingView shows the synthesis spinner, or the failure with a retry hint.
func (m *model) generatingView() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Board generation failed: %v", m.err)) +
			"\n" + helpStyle.Render("  (n: try again, q: quit)")
	}
	timer := fmt.Sprintf("%.1f", time.Since(m.generateStart).Seconds())
	return fmt.Sprintf("\n  %s Writing a board about %s... %ss\n", m.spinner.View(), m.deps.Topic, timer)
}

// boardView renders the clue grid with scores and the cursor highlight.
func (m *model) boardView() string {
	b := m.session.Board()
	if b == nil {
		return errorStyle.Render("No board loaded.")
	}

	var builder strings.Builder
	builder.WriteString(titleStyle.Render(fmt.Sprintf(" QUIZDECK * %s ", strings.ToUpper(m.deps.Topic))))
	builder.WriteString("  " + m.scoreLine() + "\n")
	if warning := m.session.Warning(); warning != "" {
		builder.WriteString(warningStyle.Render("! "+warning) + "\n")
	}
	builder.WriteString("\n")

	header := make([]string, len(b.Categories))
	for ci, category := range b.Categories {
		name := category.Name
		if ci == m.session.GroundedIndex() && m.session.GroundedFromCorpus() {
			name = name + " *"
		}
		header[ci] = categoryStyle.Width(cellWidth).Render(truncate(name, cellWidth-2))
	}
	builder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...) + "\n")

	for row := 0; row < len(b.Categories[0].Clues); row++ {
		cells := make([]string, len(b.Categories))
		for ci := range b.Categories {
			key := game.ClueKey{Category: ci, Clue: row}
			label := fmt.Sprintf("$%d", b.Categories[ci].Clues[row].Value)
			style := cellStyle
			if m.session.Answered(key) {
				label = "---"
				style = cellAnsweredStyle
			}
			if ci == m.cursorCat && row == m.cursorRow {
				style = cellCursorStyle
			}
			cells[ci] = style.Width(cellWidth).Render(label)
		}
		builder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}

	hints := "off"
	if m.session.ShowHints() {
		hints = "on"
	}
	builder.WriteString("\n" + helpStyle.Render(fmt.Sprintf(
		"arrows: move  enter: pick  ?: hints (%s)  n: new game  q: quit", hints)))
	return builder.String()
}

// clueView renders the active clue with the answer prompt and optional hints.
func (m *model) clueView() string {
	current := m.session.Current()
	if current == nil {
		return m.boardView()
	}

	var builder strings.Builder
	heading := fmt.Sprintf("%s for $%d", current.CategoryName, current.Value)
	builder.WriteString(titleStyle.Render(" "+heading+" ") + "  " + m.scoreLine() + "\n\n")
	builder.WriteString(clueStyle.Width(min(m.width-4, 76)).Render(current.Clue) + "\n\n")

	if m.session.ShowHints() {
		for i, option := range current.Options {
			builder.WriteString(fmt.Sprintf("  %c) %s\n", 'a'+i, option))
		}
		builder.WriteString("\n")
	}

	builder.WriteString(m.answerInput.View() + "\n\n")
	builder.WriteString(helpStyle.Render("enter: submit  esc: give up"))
	return builder.String()
}

// outcomeView reveals the verdict, the answer and the score change.
func (m *model) outcomeView() string {
	var builder strings.Builder
	builder.WriteString(titleStyle.Render(" QUIZDECK ") + "  " + m.scoreLine() + "\n\n")

	switch {
	case m.outcome.GaveUp:
		builder.WriteString(warningStyle.Render("Revealed.") + "\n")
	case m.outcome.Correct:
		builder.WriteString(correctStyle.Render(fmt.Sprintf("Correct! +$%d", m.outcome.Delta)) + "\n")
	default:
		builder.WriteString(wrongStyle.Render(fmt.Sprintf("Not quite. $%d", m.outcome.Delta)) + "\n")
	}
	builder.WriteString(fmt.Sprintf("The answer was: %s\n\n", m.outcome.Answer))
	if m.session.Teams() > 1 {
		builder.WriteString(fmt.Sprintf("Team %d is up next.\n\n", m.session.CurrentTeam()+1))
	}
	builder.WriteString(helpStyle.Render("press any key to continue"))
	return builder.String()
}

// gameOverView shows the final standings.
func (m *model) gameOverView() string {
	var builder strings.Builder
	builder.WriteString(titleStyle.Render(" GAME OVER ") + "\n\n")

	scores := m.session.Scores()
	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}
	for i, score := range scores {
		line := fmt.Sprintf("  Team %d: $%d", i+1, score)
		if len(scores) > 1 && i == best {
			line = correctStyle.Render(line + "  <- winner")
		}
		builder.WriteString(line + "\n")
	}

	if m.deps.Debug {
		usage := m.session.Usage()
		approx := ""
		if usage.Approximate {
			approx = " (approximate)"
		}
		builder.WriteString("\n" + helpStyle.Render(fmt.Sprintf(
			"tokens: %d prompt / %d completion / %d total%s",
			usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, approx)) + "\n")
	}

	builder.WriteString("\n" + helpStyle.Render("n: new game  q: quit"))
	return builder.String()
}

// scoreLine renders per-team scores, marking whose turn it is.
func (m *model) scoreLine() string {
	scores := m.session.Scores()
	if len(scores) <= 1 {
		score := 0
		if len(scores) == 1 {
			score = scores[0]
		}
		return helpStyle.Render(fmt.Sprintf("Score: $%d", score))
	}

	parts := make([]string, len(scores))
	for i, score := range scores {
		part := fmt.Sprintf("T%d: $%d", i+1, score)
		if i == m.session.CurrentTeam() && m.state != viewGameOver {
			part = "[" + part + "]"
		}
		parts[i] = part
	}
	return helpStyle.Render(strings.Join(parts, "  "))
}

func truncate(s string, max int) string {
	if max < 1 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
