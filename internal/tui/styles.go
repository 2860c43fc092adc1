package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorTeal      = lipgloss.Color("#2dd4bf")
	colorGold      = lipgloss.Color("#facc15")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			MarginTop(1).
			MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorDarkGray).
			Padding(0, 2).
			MarginRight(1)

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	cardValueStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	sparklineStyle = lipgloss.NewStyle().
			Foreground(colorTeal).
			MarginTop(1).
			MarginBottom(1)

	diamondStyle = lipgloss.NewStyle().
			Foreground(colorGold)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)
)

const logo = `
  ██╗    ██╗███████╗     ██████╗ ██████╗ ███╗   ██╗███╗   ██╗███████╗ ██████╗████████╗
  ██║    ██║██╔════╝    ██╔════╝██╔═══██╗████╗  ██║████╗  ██║██╔════╝██╔════╝╚══██╔══╝
  ██║ █╗ ██║█████╗      ██║     ██║   ██║██╔██╗ ██║██╔██╗ ██║█████╗  ██║        ██║
  ██║███╗██║██╔══╝      ██║     ██║   ██║██║╚██╗██║██║╚██╗██║██╔══╝  ██║        ██║
  ╚███╔███╔╝███████╗    ╚██████╗╚██████╔╝██║ ╚████║██║ ╚████║███████╗╚██████╗   ██║
   ╚══╝╚══╝ ╚══════╝     ╚═════╝ ╚═════╝ ╚═╝  ╚═══╝╚═╝  ╚═══╝╚══════╝ ╚═════╝   ╚═╝
`
