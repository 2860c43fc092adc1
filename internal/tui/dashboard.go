package tui

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codeberg.org/weconnect/server/weconnect/analytics"
	"codeberg.org/weconnect/server/weconnect/dashboard"
	"codeberg.org/weconnect/server/weconnect/export"
	"codeberg.org/weconnect/server/weconnect/users"
)

// cycles through the dashboard's time ranges
type rangeCycle int

var ranges = []analytics.TimeRange{
	analytics.Range7Days,
	analytics.Range30Days,
	analytics.Range90Days,
	analytics.RangeAll,
}

func (r rangeCycle) current() analytics.TimeRange {
	return ranges[int(r)%len(ranges)]
}

func NewDashboard(profile *users.Profile, view *dashboard.View) *DashboardModel {
	columns := []table.Column{
		{Title: "Title", Width: 32},
		{Title: "Category", Width: 14},
		{Title: "Views", Width: 7},
		{Title: "Downloads", Width: 9},
		{Title: "Diamonds", Width: 8},
		{Title: "Earnings", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	m := &DashboardModel{
		profile: profile,
		view:    view,
		table:   t,
		rng:     rangeCycle(3), // start on all-time
	}

	m.reload()

	return m
}

func (m *DashboardModel) Update(msg tea.Msg) (*DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.rng++
			m.reload()
			return m, nil

		case "e":
			return m, m.exportCmd(export.FormatCSV)

		case "j":
			return m, m.exportCmd(export.FormatJSON)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case RefreshMsg:
		// deltas land in the view in the background; re-render from it
		m.reload()
		return m, refreshTick()

	case ExportDoneMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("export failed: %v", msg.Err)
		} else {
			m.status = "exported " + msg.Path
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *DashboardModel) View() string {
	r := m.rng.current()
	stats := m.view.Stats(r)
	series := m.view.Series(r)

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Materials", strconv.FormatInt(stats.Count, 10)),
		statCard("Views", strconv.FormatInt(stats.Views, 10)),
		statCard("Downloads", strconv.FormatInt(stats.Downloads, 10)),
		statCard("Diamonds", diamondStyle.Render(strconv.FormatInt(stats.Diamonds, 10))),
		statCard("Earnings", fmt.Sprintf("$%.2f", stats.Earnings)),
	)

	chart := sparklineStyle.Render(sparkline(series, 60)) + "\n" +
		cardLabelStyle.Render(seriesCaption(series))

	out := titleStyle.Render("My Materials  ·  "+m.profile.DisplayName) + "\n" +
		statusStyle.Render("range: "+string(r)) + "\n\n" +
		cards + "\n" +
		chart + "\n" +
		m.table.View() + "\n"

	if m.status != "" {
		out += statusStyle.Render(m.status) + "\n"
	}

	out += helpStyle.Render("r: cycle range · e: export csv · j: export json · q: quit")

	return out
}

// rebuilds the table rows and caption from the live view
func (m *DashboardModel) reload() {
	records := analytics.FilterByRange(m.view.Records(), m.rng.current(), timeNow())

	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.Row{
			rec.Title,
			rec.Category,
			strconv.FormatInt(rec.Views, 10),
			strconv.FormatInt(rec.Downloads, 10),
			strconv.FormatInt(rec.Diamonds, 10),
			fmt.Sprintf("$%.2f", rec.Earnings),
		})
	}

	m.table.SetRows(rows)
}

// renders the live record set to a file in the working directory
func (m *DashboardModel) exportCmd(format export.Format) tea.Cmd {
	return func() tea.Msg {
		file, err := m.view.Export(m.rng.current(), format)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}

		if err := os.WriteFile(file.Name, file.Data, 0o644); err != nil {
			return ExportDoneMsg{Err: err}
		}

		return ExportDoneMsg{Path: file.Name}
	}
}

func statCard(label, value string) string {
	return cardStyle.Render(
		cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value),
	)
}

func seriesCaption(series []analytics.Bucket) string {
	if len(series) == 0 {
		return ""
	}

	return fmt.Sprintf("diamonds per day · %s to %s",
		series[0].Label, series[len(series)-1].Label)
}
