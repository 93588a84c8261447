package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// runList runs a list view full screen. A view that quit because the
// session ended is reported as an error.
func runList(a *app, model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")
	final, err := p.Run()
	if err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	if q, ok := final.(interface{ QuitMessage() string }); ok && q.QuitMessage() != "" {
		return errors.New(q.QuitMessage())
	}
	return nil
}
