package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/streakly/internal/clock"
	"github.com/julianstephens/streakly/internal/display"
	apperrors "github.com/julianstephens/streakly/internal/errors"
	"github.com/julianstephens/streakly/internal/models"
	"github.com/julianstephens/streakly/internal/timer"
)

const testSeed = `habits:
  - name: Water
    unit: count
    target_count: 8
  - name: Read
    unit: time
    icon: book.fill
    color: "#34c759"
    target_time: {hours: 0, minutes: 1}
`

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testHarness struct {
	ctx       *Context
	clock     *clock.Manual
	scheduler *timer.ManualScheduler
	out       *syncBuffer

	mu        sync.Mutex
	published []models.LiveStatus
}

func (h *testHarness) publishedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.published)
}

func newTestHarness(t *testing.T, seed string) *testHarness {
	t.Helper()

	habitsFile := ""
	if seed != "" {
		habitsFile = filepath.Join(t.TempDir(), "habits.yaml")
		if err := os.WriteFile(habitsFile, []byte(seed), 0644); err != nil {
			t.Fatal(err)
		}
	}

	h := &testHarness{
		clock:     clock.NewManual(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)),
		scheduler: &timer.ManualScheduler{},
		out:       &syncBuffer{},
	}
	ctx, err := NewContext(Config{
		HabitsFile: habitsFile,
		Timezone:   "UTC",
		Clock:      h.clock,
		Scheduler:  h.scheduler,
		Publisher: display.PublisherFunc(func(_ context.Context, st models.LiveStatus) error {
			h.mu.Lock()
			h.published = append(h.published, st)
			h.mu.Unlock()
			return nil
		}),
		Out: h.out,
	})
	if err != nil {
		t.Fatalf("NewContext() failed: %v", err)
	}
	t.Cleanup(ctx.Close)
	h.ctx = ctx
	return h
}

func TestNewContextLoadsSeed(t *testing.T) {
	h := newTestHarness(t, testSeed)

	habits := h.ctx.Catalog.All()
	if len(habits) != 2 {
		t.Fatalf("expected 2 seeded habits, got %d", len(habits))
	}
	if habits[1].ColorHex != "#34C759" {
		t.Errorf("expected normalised colour, got %s", habits[1].ColorHex)
	}
	if h.ctx.Location.String() != "UTC" {
		t.Errorf("expected UTC location, got %s", h.ctx.Location)
	}
}

func TestNewContextMissingSeedIsEmpty(t *testing.T) {
	ctx, err := NewContext(Config{
		HabitsFile: filepath.Join(t.TempDir(), "missing.yaml"),
		Scheduler:  &timer.ManualScheduler{},
	})
	if err != nil {
		t.Fatalf("expected missing seed to be ignored, got %v", err)
	}
	defer ctx.Close()
	if ctx.Catalog.Len() != 0 {
		t.Errorf("expected empty catalog, got %d", ctx.Catalog.Len())
	}
}

func TestNewContextErrors(t *testing.T) {
	if _, err := NewContext(Config{Timezone: "Not/AZone"}); err == nil {
		t.Error("expected error for an invalid timezone")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("habits:\n  - name: \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := NewContext(Config{HabitsFile: bad, Scheduler: &timer.ManualScheduler{}})
	if !errors.Is(err, apperrors.ErrInvalidHabit) {
		t.Errorf("expected ErrInvalidHabit from the seed, got %v", err)
	}
}

func TestResolveHabit(t *testing.T) {
	h := newTestHarness(t, testSeed)
	read := h.ctx.Catalog.All()[1]

	byName, err := h.ctx.ResolveHabit("read")
	if err != nil || byName.ID != read.ID {
		t.Errorf("expected lookup by name, got %v %v", byName, err)
	}
	byID, err := h.ctx.ResolveHabit(read.ID)
	if err != nil || byID.Name != "Read" {
		t.Errorf("expected lookup by id, got %v %v", byID, err)
	}
	if _, err := h.ctx.ResolveHabit("nope"); !errors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestStopAll(t *testing.T) {
	h := newTestHarness(t, testSeed)
	read := h.ctx.Catalog.All()[1]

	h.ctx.Timers.Start(read.ID)
	h.clock.Advance(7 * time.Second)
	stopped := h.ctx.StopAll()

	if len(stopped) != 1 || stopped[0] != read.ID {
		t.Errorf("expected %s stopped, got %v", read.ID, stopped)
	}
	entry, _ := h.ctx.Progress.QueryToday(read.ID)
	if entry.DurationValue() != 7 {
		t.Errorf("expected final fold of 7s, got %d", entry.DurationValue())
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/habits.yaml", filepath.Join(home, "habits.yaml")},
		{"/tmp/habits.yaml", "/tmp/habits.yaml"},
		{"relative/~file", "relative/~file"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Errorf("ExpandPath(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHabitsCmd(t *testing.T) {
	h := newTestHarness(t, testSeed)
	water := h.ctx.Catalog.All()[0]
	h.ctx.Progress.UpdateProgress(water.ID, models.Int(3), nil)

	if err := (&HabitsCmd{Verbose: true}).Run(h.ctx); err != nil {
		t.Fatalf("HabitsCmd.Run() failed: %v", err)
	}

	out := h.out.String()
	for _, want := range []string{"Water", "3/8", "Read", "0h 0m/0h 1m", "book.fill", "Today: 18%"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestHabitsCmdEmpty(t *testing.T) {
	h := newTestHarness(t, "")

	if err := (&HabitsCmd{}).Run(h.ctx); err != nil {
		t.Fatalf("HabitsCmd.Run() failed: %v", err)
	}
	if !strings.Contains(h.out.String(), "No habits found") {
		t.Errorf("unexpected output: %s", h.out.String())
	}
}

func TestIconsCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     IconsCmd
		want    []string
		notWant []string
		wantErr bool
	}{
		{name: "all", cmd: IconsCmd{}, want: []string{"Learning", "book.fill", "Productivity", "flag.fill"}},
		{name: "category", cmd: IconsCmd{Category: "fitness"}, want: []string{"Fitness", "figure.run"}, notWant: []string{"Learning"}},
		{name: "search", cmd: IconsCmd{Search: "heart"}, want: []string{"Health", "heart.fill"}, notWant: []string{"Fitness"}},
		{name: "no match", cmd: IconsCmd{Category: "cooking"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHarness(t, "")
			err := tt.cmd.Run(h.ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("IconsCmd.Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			out := h.out.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected %q in output", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("did not expect %q in output", w)
				}
			}
		})
	}
}
