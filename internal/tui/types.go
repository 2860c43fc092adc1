package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"

	"codeberg.org/weconnect/server/weconnect/dashboard"
	"codeberg.org/weconnect/server/weconnect/users"
)

// represents the current state of the TUI
type AppState int

const (
	StateLoading AppState = iota
	StateDashboard
	StateError
)

// main TUI application model
type Model struct {
	state     AppState
	width     int
	height    int
	err       error
	spinner   spinner.Model
	rest      *RESTClient
	ws        *WSClient
	dashboard *DashboardModel
}

// live dashboard screen
type DashboardModel struct {
	profile *users.Profile
	view    *dashboard.View
	table   table.Model
	rng     rangeCycle
	width   int
	height  int
	status  string
}

// sent when the profile and live view have been opened
type ViewReadyMsg struct {
	Profile *users.Profile
	View    *dashboard.View
}

// sent when startup fails
type ErrorMsg struct {
	Err error
}

// sent periodically to re-render from the live view
type RefreshMsg struct{}

// sent after an export attempt
type ExportDoneMsg struct {
	Path string
	Err  error
}
