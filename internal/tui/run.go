package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows views full-screen until the user quits or ctx is canceled.
func Run(ctx context.Context, views []Series, opts ...Option) error {
	if len(views) == 0 {
		return errors.New("nothing to view")
	}

	p := tea.NewProgram(New(views, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("viewer failed: %w", err)
	}
	return nil
}
