// Package app hosts the Bubble Tea program for interactive play.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathadventures/internal/router"
	"github.com/abhisek/mathadventures/internal/screen"
	sessionscreen "github.com/abhisek/mathadventures/internal/screens/session"
	"github.com/abhisek/mathadventures/internal/session"
	"github.com/abhisek/mathadventures/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	state  *session.SessionState
	width  int
	height int
}

// newAppModel creates an AppModel that opens straight into play.
func newAppModel(ctx context.Context, state *session.SessionState) AppModel {
	return AppModel{
		router: router.New(sessionscreen.New(ctx, state)),
		state:  state,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

// render draws the full frame, or nothing before the first resize.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := m.state.Engine.Status()
	header := layout.RenderHeader(title, status.Difficulty, status.PScore, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hp.KeyHints(), footerHints...)
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run plays state interactively until the learner exits. The session is
// ended (and its end event recorded) even when the program is interrupted,
// and the final result is returned.
func Run(ctx context.Context, state *session.SessionState) (*session.Result, error) {
	p := tea.NewProgram(newAppModel(ctx, state), tea.WithContext(ctx))
	_, runErr := p.Run()
	res := session.End(context.WithoutCancel(ctx), state)
	if runErr != nil {
		return res, fmt.Errorf("run program: %w", runErr)
	}
	return res, nil
}
