package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"webmclip/internal/pipeline"
)

// Run opens the field editor over svc. It returns the accepted argument
// line, or ok=false when the user quit without accepting.
func Run(ctx context.Context, svc *pipeline.Service) (args string, ok bool, err error) {
	m := NewModel(ctx, svc)
	prog := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	final, err := prog.Run()
	if err != nil {
		return "", false, err
	}
	if fm, isModel := final.(Model); isModel && fm.accepted && fm.result.Valid() {
		return svc.RawArgs(), true, nil
	}
	return "", false, nil
}
