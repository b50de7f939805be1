package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/julianstephens/streakly/internal/errors"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRunCmdUntilTarget(t *testing.T) {
	h := newTestHarness(t, testSeed)
	read := h.ctx.Catalog.All()[1]

	done := make(chan error, 1)
	go func() {
		done <- (&RunCmd{Habit: "Read", UntilTarget: true}).run(context.Background(), h.ctx)
	}()

	waitFor(t, func() bool { return h.ctx.Timers.IsRunning(read.ID) })

	h.clock.Advance(30 * time.Second)
	h.scheduler.Fire()
	h.clock.Advance(30 * time.Second)
	h.scheduler.Fire()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not stop at its target")
	}

	if h.ctx.Timers.IsRunning(read.ID) {
		t.Error("expected timer stopped")
	}
	entry, _ := h.ctx.Progress.QueryToday(read.ID)
	if entry.DurationValue() != 60 {
		t.Errorf("expected 60s recorded, got %d", entry.DurationValue())
	}

	out := h.out.String()
	for _, want := range []string{"00:00:30", "00:01:00", "Read: 0h 1m/0h 1m today"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
	// started, two ticks, stopped
	waitFor(t, func() bool { return h.publishedCount() == 4 })
}

func TestRunCmdCancelled(t *testing.T) {
	h := newTestHarness(t, testSeed)
	read := h.ctx.Catalog.All()[1]

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- (&RunCmd{Habit: read.ID}).run(ctx, h.ctx)
	}()

	waitFor(t, func() bool { return h.ctx.Timers.IsRunning(read.ID) })
	h.clock.Advance(5 * time.Second)
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("run failed: %v", err)
	}
	entry, _ := h.ctx.Progress.QueryToday(read.ID)
	if entry.DurationValue() != 5 {
		t.Errorf("expected stop to fold 5s, got %d", entry.DurationValue())
	}
}

func TestRunCmdErrors(t *testing.T) {
	h := newTestHarness(t, testSeed)

	err := (&RunCmd{Habit: "missing"}).run(context.Background(), h.ctx)
	if !errors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}

	err = (&RunCmd{Habit: "Water"}).run(context.Background(), h.ctx)
	if err == nil || !strings.Contains(err.Error(), "counts") {
		t.Errorf("expected count habits to be rejected, got %v", err)
	}

	read := h.ctx.Catalog.All()[1]
	h.ctx.Timers.Start(read.ID)
	err = (&RunCmd{Habit: "Read"}).run(context.Background(), h.ctx)
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Errorf("expected already running error, got %v", err)
	}
}
