package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakly/internal/logger"
	"github.com/julianstephens/streakly/internal/tui"
)

type TuiCmd struct {
	NoIntents bool `help:"Do not accept start/stop intents from the display."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	stopBroadcast := ctx.StartBroadcast()
	defer stopBroadcast()
	defer ctx.StopAll()

	serveCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if !c.NoIntents {
		go func() {
			if err := newIntentServer(ctx).ListenAndServe(serveCtx, ctx.IntentAddr); err != nil {
				logger.Warn("Intent server stopped", "error", err)
			}
		}()
	}

	p := tea.NewProgram(tui.NewModel(tui.Deps{
		Catalog:  ctx.Catalog,
		Progress: ctx.Progress,
		Timers:   ctx.Timers,
		Status:   ctx.Status,
	}), tea.WithAltScreen())
	stopWatch := tui.WatchProgress(ctx.Progress, p.Send)
	defer stopWatch()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
