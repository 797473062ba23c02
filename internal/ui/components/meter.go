package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathadventures/internal/ui/theme"
)

// ScoreMeter draws the P-Score on a bar spanning the demotion threshold
// (left edge) to the promotion threshold (right edge).
type ScoreMeter struct {
	Score float64
	Low   float64
	High  float64
	Width int
}

// NewScoreMeter creates a meter for score between low and high.
func NewScoreMeter(score, low, high float64, width int) ScoreMeter {
	return ScoreMeter{Score: score, Low: low, High: high, Width: width}
}

// Fraction is the marker position in [0, 1].
func (m ScoreMeter) Fraction() float64 {
	if m.High <= m.Low {
		return 0
	}
	f := (m.Score - m.Low) / (m.High - m.Low)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// View renders the meter.
func (m ScoreMeter) View() string {
	low := lipgloss.NewStyle().Foreground(theme.Error).Render(fmt.Sprintf("%+.0f", m.Low))
	high := lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("%+.0f", m.High))

	barWidth := m.Width - lipgloss.Width(low) - lipgloss.Width(high) - 2
	if barWidth < 4 {
		barWidth = 4
	}

	pos := int(m.Fraction() * float64(barWidth-1))
	bar := lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", pos)) +
		lipgloss.NewStyle().Background(theme.Accent).Render(" ") +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-pos-1))

	return low + " " + bar + " " + high
}
