// Package tui implements the terminal dashboard client: a live view of the
// user's materials fed by the REST API and the delta stream.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/weconnect/server/weconnect/dashboard"
)

func NewApp() *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model{
		state:   StateLoading,
		spinner: s,
		rest:    NewRESTClient(),
		ws:      NewWSClient(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.openView())
}

// fetches the profile and opens the live view. Subscribing happens inside
// Open, before the record fetch, so deltas racing the fetch are not lost.
func (m *Model) openView() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		profile, err := m.rest.Me(ctx)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("not signed in: %w", err)}
		}

		svc := dashboard.NewService(m.rest, m.ws)

		view, err := svc.Open(ctx, profile.ID)
		if err != nil {
			return ErrorMsg{Err: err}
		}

		return ViewReadyMsg{Profile: profile, View: view}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			if m.dashboard != nil {
				m.dashboard.view.Close()
			}

			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ViewReadyMsg:
		m.state = StateDashboard
		m.dashboard = NewDashboard(msg.Profile, msg.View)

		return m, refreshTick()

	case ErrorMsg:
		m.state = StateError
		m.err = msg.Err

		return m, nil

	case spinner.TickMsg:
		if m.state == StateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)

			return m, cmd
		}

		return m, nil
	}

	if m.state == StateDashboard {
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Model) View() string {
	switch m.state {
	case StateLoading:
		return logo + "\n  " + m.spinner.View() + " loading your materials...\n"

	case StateError:
		return logo + "\n  " + errorStyle.Render(fmt.Sprintf("error: %v", m.err)) +
			helpStyle.Render("\n\n  set WECONNECT_TOKEN and try again · ctrl+c to exit\n")

	default:
		return m.dashboard.View()
	}
}
