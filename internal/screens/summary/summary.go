// Package summary is the end-of-session screen.
package summary

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathadventures/internal/report"
	"github.com/abhisek/mathadventures/internal/screen"
	"github.com/abhisek/mathadventures/internal/session"
	"github.com/abhisek/mathadventures/internal/ui/layout"
	"github.com/abhisek/mathadventures/internal/ui/theme"
)

// SummaryScreen displays the session result.
type SummaryScreen struct {
	result  *session.Result
	showLog bool
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result *session.Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	logHint := "Show turn log"
	if s.showLog {
		logHint = "Hide turn log"
	}
	return []layout.KeyHint{
		{Key: "L", Description: logHint},
		{Key: "Enter", Description: "Exit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "l", "L":
			s.showLog = !s.showLog
			return s, nil
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	if s.result == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete!"))
	b.WriteString("\n\n")

	body := report.Summary(s.result)
	if s.showLog {
		body = report.DetailedLog(s.result)
	}
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(strings.TrimRight(body, "\n")))

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}
