package tui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/extguard/internal/core/modal"
)

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, deps Deps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, deps), tea.WithContext(ctx))

	// Send blocks until the event loop receives the message, and dialog
	// changes are often triggered from inside Update, so forward them from
	// their own goroutines. The model reads the latest state on receipt.
	unsubscribe := deps.Modal.Subscribe(func(modal.State) {
		go p.Send(dialogChangedMsg{})
	})
	defer unsubscribe()

	deps.Files.OnChange(func() {
		go p.Send(uploadsChangedMsg{})
	})
	defer deps.Files.OnChange(nil)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
