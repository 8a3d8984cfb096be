package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the TUI while sources are processed with run. The returned
// error joins every failed release, so callers can still errors.Is it.
func Run(ctx context.Context, sources []string, run RunFunc, test bool) error {
	m := NewModel(ctx, sources, run, test)
	prog := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return errors.Join(fm.Failures()...)
	}
	return nil
}
