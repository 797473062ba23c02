// Package report renders sessions and their statistics as styled text.
package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathadventures/internal/adaptive"
	"github.com/abhisek/mathadventures/internal/difficulty"
	"github.com/abhisek/mathadventures/internal/session"
	"github.com/abhisek/mathadventures/internal/store"
	"github.com/abhisek/mathadventures/internal/ui/theme"
)

const ruleWidth = 60

var (
	heading = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	section = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dim     = lipgloss.NewStyle().Foreground(theme.TextDim)
	body    = lipgloss.NewStyle().Foreground(theme.Text)
	accent  = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
)

func rule(width int) string {
	return dim.Render(strings.Repeat("=", width))
}

// Mark returns a check or cross for a result.
func Mark(correct bool) string {
	if correct {
		return theme.Correct.Render("✓")
	}
	return theme.Incorrect.Render("✗")
}

// Banner is printed before a session starts.
func Banner(subject string, turns int, status adaptive.Status) string {
	var b strings.Builder
	b.WriteString(rule(ruleWidth) + "\n")
	b.WriteString(heading.Render("MATH ADVENTURES") + dim.Render("  adaptive practice") + "\n")
	b.WriteString(rule(ruleWidth) + "\n")
	fmt.Fprintf(&b, "\nSubject: %s\n", body.Render(subject))
	fmt.Fprintf(&b, "Turns: %d\n", turns)
	fmt.Fprintf(&b, "Initial difficulty: %s\n", body.Render(status.Difficulty.String()))
	fmt.Fprintf(&b, "Initial P-Score: %+.2f\n", status.PScore)
	return b.String()
}

// Turn renders one simulated turn.
func Turn(r session.TurnReport) string {
	d := r.Decision
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", section.Render(fmt.Sprintf("--- Turn %d ---", d.Turn)))
	fmt.Fprintf(&b, "Difficulty: %s\n", d.DifficultyBefore)
	if p := r.Puzzle; p.Expression != "" && p.Question != p.Expression {
		fmt.Fprintf(&b, "Question: %s\n", p.Question)
		fmt.Fprintf(&b, "Expression: %s\n", dim.Render(p.Expression))
	} else {
		fmt.Fprintf(&b, "Question: %s = ?\n", p.Question)
	}
	fmt.Fprintf(&b, "Answer: %s %s\n", r.Response.Answer, Mark(r.Correct))
	if !r.Correct {
		fmt.Fprintf(&b, "Correct answer: %d\n", r.Puzzle.Answer)
	}
	fmt.Fprintf(&b, "Response time: %.1fs\n", r.Response.ResponseTimeSeconds)
	fmt.Fprintf(&b, "P-Score: %+.2f → %+.2f\n", d.ScoreBefore, d.ScoreAfter)
	fmt.Fprintf(&b, "Rationale: %s\n", dim.Render(d.Rationale))
	if d.Transitioned {
		fmt.Fprintf(&b, "%s\n", accent.Render(fmt.Sprintf("DIFFICULTY TRANSITION: %s → %s", d.DifficultyBefore, d.DifficultyAfter)))
	}
	return b.String()
}

// Summary renders session statistics, the difficulty distribution and the
// recent trend.
func Summary(res *session.Result) string {
	var b strings.Builder
	b.WriteString("\n" + rule(ruleWidth) + "\n")
	b.WriteString(heading.Render("SESSION COMPLETE") + "\n")
	b.WriteString(rule(ruleWidth) + "\n")

	if !res.HasAttempts {
		b.WriteString(dim.Render("No puzzles were answered.") + "\n")
		return b.String()
	}
	s := res.Summary

	b.WriteString("\n" + section.Render("Session statistics") + "\n")
	fmt.Fprintf(&b, "  Total attempts:        %d\n", s.TotalAttempts)
	fmt.Fprintf(&b, "  Accuracy:              %.1f%%\n", s.AccuracyRate)
	fmt.Fprintf(&b, "  Average response time: %.2fs\n", s.AvgResponseTime)
	fmt.Fprintf(&b, "  Fast responses (≤%gs): %d (%.1f%%)\n", s.FluencyThreshold, s.FastResponses, s.FastResponseRate)
	fmt.Fprintf(&b, "  Session duration:      %.1fs\n", s.Duration.Seconds())

	b.WriteString("\n" + section.Render("Adaptive performance") + "\n")
	fmt.Fprintf(&b, "  Difficulty transitions: %d\n", s.Transitions)
	fmt.Fprintf(&b, "  Final difficulty:       %s\n", res.Status.Difficulty)
	fmt.Fprintf(&b, "  Final P-Score:          %+.2f\n", s.FinalPScore)
	fmt.Fprintf(&b, "  P-Score range:          %+.2f to %+.2f\n", s.MinPScore, s.MaxPScore)

	b.WriteString("\n" + section.Render("Difficulty distribution") + "\n")
	for _, level := range difficulty.All() {
		n := s.DifficultyDistribution[level]
		if n == 0 {
			continue
		}
		pct := 100 * float64(n) / float64(s.TotalAttempts)
		fmt.Fprintf(&b, "  %-6s %3d attempts (%.1f%%)\n", level, n, pct)
	}

	r := res.Recent
	b.WriteString("\n" + section.Render(fmt.Sprintf("Recent performance (last %d attempts)", r.AttemptsAnalyzed)) + "\n")
	fmt.Fprintf(&b, "  Recent accuracy: %.1f%%\n", r.Accuracy)
	trend := theme.Correct.Render(r.Trend)
	if r.Trend != "improving" {
		trend = theme.Incorrect.Render(r.Trend)
	}
	fmt.Fprintf(&b, "  Trend: %s\n", trend)
	return b.String()
}

// DetailedLog renders one line per attempt followed by every transition.
func DetailedLog(res *session.Result) string {
	var b strings.Builder
	b.WriteString("\n" + rule(80) + "\n")
	b.WriteString(heading.Render("DETAILED SESSION LOG") + "\n")
	b.WriteString(rule(80) + "\n")

	for _, a := range res.Attempts {
		d := a.Decision
		question := ""
		if a.Puzzle != nil {
			question = a.Puzzle.Expression
		}
		fmt.Fprintf(&b, "#%2d [%-6s] %-15s = %4s %s (%.1fs) P-Score: %+.1f\n",
			d.Turn, d.DifficultyBefore, question, a.Answer, Mark(a.Correct),
			a.ResponseTimeSeconds, d.ScoreAfter)
	}

	b.WriteString("\nDifficulty transitions:\n")
	if len(res.Transitions) == 0 {
		b.WriteString(dim.Render("  none") + "\n")
	}
	for _, t := range res.Transitions {
		fmt.Fprintf(&b, "  Attempt #%d: %s → %s (P-Score: %+.1f)\n", t.Turn, t.From, t.To, t.TriggerScore)
	}
	b.WriteString(rule(80) + "\n")
	return b.String()
}

// Sessions renders past sessions as a table, newest first.
func Sessions(records []store.SessionRecord) string {
	if len(records) == 0 {
		return dim.Render("No sessions recorded yet.") + "\n"
	}

	var b strings.Builder
	header := fmt.Sprintf("%-19s  %-8s  %-12s  %5s  %8s  %5s  %-6s  %7s",
		"Started", "Mode", "Subject", "Turns", "Accuracy", "Moves", "Level", "P-Score")
	b.WriteString(heading.Render(header) + "\n")
	b.WriteString(dim.Render(strings.Repeat("─", lipgloss.Width(header))) + "\n")

	for _, r := range records {
		level, score := r.FinalDifficulty, fmt.Sprintf("%+.2f", r.FinalPScore)
		if !r.Ended {
			level, score = "-", "-"
		}
		fmt.Fprintf(&b, "%-19s  %-8s  %-12s  %5d  %7.1f%%  %5d  %-6s  %7s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Mode, truncate(r.Subject, 12), r.TurnsPlayed, 100*r.Accuracy(), r.Transitions, level, score)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
