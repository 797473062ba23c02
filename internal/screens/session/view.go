package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathadventures/internal/puzzle"
	"github.com/abhisek/mathadventures/internal/ui/components"
	"github.com/abhisek/mathadventures/internal/ui/theme"
)

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
}

// prompt is what the learner sees for p. Bare expressions get "= ?".
func prompt(p *puzzle.Puzzle) string {
	if p.Question == p.Expression {
		return p.Question + " = ?"
	}
	return p.Question
}

// renderQuestionView renders the active puzzle display.
func (s *SessionScreen) renderQuestionView(width int) string {
	state := s.state
	status := state.Engine.Status()

	var b strings.Builder

	turnLabel := fmt.Sprintf("Turn %d", status.Turns+1)
	if state.MaxTurns > 0 {
		turnLabel = fmt.Sprintf("Turn %d/%d", status.Turns+1, state.MaxTurns)
	}
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  Level: ") + theme.Level(status.Difficulty)
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(turnLabel)

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	meter := components.NewScoreMeter(status.PScore, status.DecreaseThreshold, status.IncreaseThreshold, min(width-8, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "P-Score "+meter.View()))
	b.WriteString("\n\n")

	q := lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Foreground(theme.Text).
		Bold(true).
		Render(prompt(state.CurrentPuzzle))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, q))
	b.WriteString("\n\n")

	b.WriteString(centered(width).Render("Answer: " + s.input.View()))
	if s.inputErr != "" {
		b.WriteString("\n")
		b.WriteString(centered(width).Foreground(theme.Error).Render(s.inputErr))
	}

	return b.String()
}

// renderFeedback shows the result of the last answer and what it did to
// the P-Score and difficulty.
func (s *SessionScreen) renderFeedback(width int) string {
	state := s.state
	p := state.CurrentPuzzle
	d := state.LastDecision

	var b strings.Builder
	b.WriteString("\n\n")

	if state.LastAnswerCorrect {
		b.WriteString(centered(width).Foreground(theme.Success).Bold(true).Render("Correct!"))
	} else {
		b.WriteString(centered(width).Foreground(theme.Error).Bold(true).Render("Not quite"))
		if p != nil {
			b.WriteString("\n")
			b.WriteString(centered(width).Foreground(theme.TextDim).
				Render(fmt.Sprintf("Correct answer: %d", p.Answer)))
		}
	}
	b.WriteString("\n\n")

	if d != nil {
		b.WriteString(centered(width).Foreground(theme.Text).
			Render(fmt.Sprintf("P-Score %+.2f → %+.2f", d.ScoreBefore, d.ScoreAfter)))
		b.WriteString("\n")
		rationale := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.TextDim).
			Render(d.Rationale)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, rationale))
		b.WriteString("\n\n")

		if d.Transitioned {
			headline := "Level up!"
			if d.DifficultyAfter < d.DifficultyBefore {
				headline = "Let's slow down a little"
			}
			b.WriteString(centered(width).Foreground(theme.Accent).Bold(true).Render(headline))
			b.WriteString("\n")
			b.WriteString(centered(width).Render(
				theme.Level(d.DifficultyBefore) + " → " + theme.Level(d.DifficultyAfter)))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(centered(width).Foreground(theme.TextDim).Render("Press any key to continue..."))
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width).Foreground(theme.Text).Bold(true).Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.TextDim).Render("Your answers so far will be saved."))
	b.WriteString("\n\n")
	b.WriteString(centered(width).Foreground(theme.Success).Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width int) string {
	return centered(width).
		Foreground(theme.TextDim).
		Render("\n\n\n  Preparing your next puzzle...")
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return centered(width).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to finish.", errMsg))
}
