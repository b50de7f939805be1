package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/julianstephens/streakly/internal/models"
	"github.com/julianstephens/streakly/internal/timer"
	"github.com/julianstephens/streakly/internal/utils"
)

type RunCmd struct {
	Habit       string `arg:"" help:"Habit name or id."`
	UntilTarget bool   `help:"Stop automatically once today's target time is reached."`
}

func (c *RunCmd) Run(ctx *Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(sigCtx, ctx)
}

func (c *RunCmd) run(runCtx context.Context, ctx *Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if habit.TrackingUnit != models.TrackingTime {
		return fmt.Errorf("habit %q tracks counts; only time habits have a timer", habit.Name)
	}

	stopBroadcast := ctx.StartBroadcast()
	defer stopBroadcast()

	target := habit.TargetSeconds()
	reached := make(chan struct{})
	var once sync.Once
	unsubscribe := ctx.Timers.Subscribe(func(ev timer.Event) {
		if ev.HabitID != habit.ID || ev.Kind == timer.EventStopped {
			return
		}
		ctx.Printf("\r%s  %s", habit.Name, utils.FormatClock(ev.Total))
		if c.UntilTarget && target > 0 && ev.Total >= target {
			once.Do(func() { close(reached) })
		}
	})
	defer unsubscribe()

	if !ctx.Timers.Start(habit.ID) {
		return fmt.Errorf("timer for %q is already running", habit.Name)
	}

	select {
	case <-runCtx.Done():
	case <-reached:
	}

	ctx.Timers.Stop(habit.ID)
	ctx.Printf("\n%s: %s today\n", habit.Name, ctx.Status.ProgressText(habit))
	return nil
}
