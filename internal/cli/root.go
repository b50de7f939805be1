package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/streakly/internal/catalog"
	"github.com/julianstephens/streakly/internal/clock"
	"github.com/julianstephens/streakly/internal/constants"
	"github.com/julianstephens/streakly/internal/display"
	apperrors "github.com/julianstephens/streakly/internal/errors"
	"github.com/julianstephens/streakly/internal/logger"
	"github.com/julianstephens/streakly/internal/models"
	"github.com/julianstephens/streakly/internal/progress"
	"github.com/julianstephens/streakly/internal/status"
	"github.com/julianstephens/streakly/internal/timer"
	"github.com/julianstephens/streakly/internal/utils"
)

// Config carries the global flags into NewContext.
type Config struct {
	HabitsFile string
	DisplayDir string
	IntentAddr string
	Timezone   string

	// Clock and Scheduler default to the system clock and a 1s ticker.
	Clock     clock.Clock
	Scheduler timer.Scheduler
	Publisher display.Publisher
	Out       io.Writer
}

// Context is handed to every command's Run method.
type Context struct {
	Clock      clock.Clock
	Location   *time.Location
	Catalog    *catalog.Catalog
	Progress   *progress.Store
	Timers     *timer.Runner
	Status     *status.Projector
	Publisher  display.Publisher
	IntentAddr string
	Out        io.Writer
}

func NewContext(cfg Config) (*Context, error) {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = timer.NewTickerScheduler(constants.TickInterval)
	}
	pub := cfg.Publisher
	if pub == nil {
		pub = display.MultiPublisher{display.NewTrayPublisher(cfg.DisplayDir), display.LogPublisher{}}
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	addr := cfg.IntentAddr
	if addr == "" {
		addr = constants.DefaultIntentAddr
	}

	cat := catalog.New(clk)
	store := progress.NewStore(clk, loc)
	runner := timer.NewRunner(store, clk, sched)

	ctx := &Context{
		Clock:      clk,
		Location:   loc,
		Catalog:    cat,
		Progress:   store,
		Timers:     runner,
		Status:     status.NewProjector(cat, store, runner, clk),
		Publisher:  pub,
		IntentAddr: addr,
		Out:        out,
	}

	if err := ctx.loadSeed(cfg.HabitsFile); err != nil {
		return nil, err
	}
	return ctx, nil
}

// loadSeed reads the habit seed file. A missing file leaves the catalog empty.
func (c *Context) loadSeed(path string) error {
	if path == "" {
		return nil
	}
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}

	added, err := c.Catalog.LoadSeedFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No habit seed file", "path", path)
			return nil
		}
		return err
	}
	logger.Info("Loaded habit seed", "path", path, "habits", len(added))
	return nil
}

// StartBroadcast publishes every timer event to the display until the
// returned stop function is called.
func (c *Context) StartBroadcast() func() {
	b := status.NewBroadcaster(c.Status, c.Publisher)
	b.Start(c.Timers)
	return b.Close
}

// Close stops all timers without folding further time.
func (c *Context) Close() {
	c.Timers.Close()
}

// ResolveHabit finds a habit by id or case-insensitive name.
func (c *Context) ResolveHabit(ref string) (models.Habit, error) {
	if h, ok := c.Catalog.Get(ref); ok {
		return h, nil
	}
	if h, ok := c.Catalog.GetByName(ref); ok {
		return h, nil
	}
	return models.Habit{}, fmt.Errorf("%w: %q", apperrors.ErrHabitNotFound, ref)
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// StopAll stops every running timer so its final elapsed time is folded.
func (c *Context) StopAll() []string {
	ids := c.Timers.Running()
	for _, id := range ids {
		c.Timers.Stop(id)
	}
	return ids
}
