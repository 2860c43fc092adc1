package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"codeberg.org/weconnect/server/internal/tui"
)

func main() {
	if !term.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "weconnect tui requires an interactive terminal")
		os.Exit(1)
	}

	app := tui.NewApp()
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running weconnect: %v\n", err)
		os.Exit(1)
	}
}
