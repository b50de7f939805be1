package timer

import (
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/streakly/internal/clock"
	"github.com/julianstephens/streakly/internal/logger"
	"github.com/julianstephens/streakly/internal/models"
	"github.com/julianstephens/streakly/internal/utils"
)

// ProgressStore is the part of progress.Store the runner folds time into.
type ProgressStore interface {
	Query(habitID string, day time.Time) (models.ProgressEntry, bool)
	Upsert(habitID string, day time.Time, count, duration *int)
	Location() *time.Location
}

type EventKind int

const (
	EventStarted EventKind = iota
	EventTicked
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventTicked:
		return "ticked"
	case EventStopped:
		return "stopped"
	}
	return "unknown"
}

// Event is emitted after every start, fold and stop.
type Event struct {
	Kind    EventKind
	HabitID string
	// Total is the duration in seconds written for the habit's current day.
	Total int
}

// run is the state of one running timer. Baseline is the day's duration when
// the run began and stays fixed; every fold writes baseline + elapsed.
type run struct {
	day       time.Time
	startedAt time.Time
	baseline  int
}

// Runner tracks running elapsed-time timers and folds them into the store.
type Runner struct {
	store     ProgressStore
	clock     clock.Clock
	scheduler Scheduler

	// opMu serialises Start/Stop/Tick including their store writes.
	// mu guards runs and subs and is never held while calling out.
	opMu    sync.Mutex
	mu      sync.RWMutex
	runs    map[string]*run
	subs    map[int]func(Event)
	nextSub int
	closed  bool
}

func NewRunner(store ProgressStore, clk clock.Clock, scheduler Scheduler) *Runner {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Runner{
		store:     store,
		clock:     clk,
		scheduler: scheduler,
		runs:      make(map[string]*run),
		subs:      make(map[int]func(Event)),
	}
}

// Start begins timing habitID. Starting a running timer is a no-op and
// returns false.
func (r *Runner) Start(habitID string) bool {
	r.opMu.Lock()

	r.mu.RLock()
	_, running := r.runs[habitID]
	closed := r.closed
	r.mu.RUnlock()
	if running || closed {
		r.opMu.Unlock()
		return false
	}

	now := r.clock.Now()
	entry, _ := r.store.Query(habitID, now)
	rn := &run{
		day:       utils.StartOfDay(now, r.store.Location()),
		startedAt: now,
		baseline:  entry.DurationValue(),
	}

	r.mu.Lock()
	r.runs[habitID] = rn
	first := len(r.runs) == 1
	r.mu.Unlock()

	if first && r.scheduler != nil {
		r.scheduler.Start(r.Tick)
	}
	r.opMu.Unlock()

	logger.Habit(habitID).Debug("Timer started", "baseline", rn.baseline)
	r.emit(Event{Kind: EventStarted, HabitID: habitID, Total: rn.baseline})
	return true
}

// Stop folds the final elapsed time and discards the timer. Stopping an idle
// timer is a no-op and returns false.
func (r *Runner) Stop(habitID string) bool {
	r.opMu.Lock()

	r.mu.RLock()
	rn, running := r.runs[habitID]
	r.mu.RUnlock()
	if !running {
		r.opMu.Unlock()
		return false
	}

	total := r.fold(habitID, rn, r.clock.Now())

	r.mu.Lock()
	delete(r.runs, habitID)
	empty := len(r.runs) == 0
	r.mu.Unlock()

	if empty && r.scheduler != nil {
		r.scheduler.Stop()
	}
	r.opMu.Unlock()

	logger.Habit(habitID).Debug("Timer stopped", "total", total)
	r.emit(Event{Kind: EventStopped, HabitID: habitID, Total: total})
	return true
}

// Tick folds the elapsed wall time of every running timer into today's entry.
func (r *Runner) Tick() {
	r.opMu.Lock()

	r.mu.RLock()
	ids := make([]string, 0, len(r.runs))
	for id := range r.runs {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)

	now := r.clock.Now()
	events := make([]Event, 0, len(ids))
	for _, id := range ids {
		r.mu.RLock()
		rn := r.runs[id]
		r.mu.RUnlock()
		if rn == nil {
			continue
		}
		events = append(events, Event{Kind: EventTicked, HabitID: id, Total: r.fold(id, rn, now)})
	}
	r.opMu.Unlock()

	for _, ev := range events {
		r.emit(ev)
	}
}

// SetDuration overwrites today's duration for habitID. A running timer is
// re-based so later folds continue from seconds instead of its old baseline.
func (r *Runner) SetDuration(habitID string, seconds int) {
	if seconds < 0 {
		seconds = 0
	}

	r.opMu.Lock()
	running := r.rebase(habitID, seconds, r.clock.Now())
	r.opMu.Unlock()

	if running {
		r.emit(Event{Kind: EventTicked, HabitID: habitID, Total: seconds})
	}
}

// AddDuration adds delta seconds to today's duration, never going below zero,
// and returns the new total. A running timer's elapsed time up to now is
// counted before delta is applied.
func (r *Runner) AddDuration(habitID string, delta int) int {
	r.opMu.Lock()
	now := r.clock.Now()

	r.mu.RLock()
	rn, running := r.runs[habitID]
	r.mu.RUnlock()

	var current int
	if running {
		current = r.fold(habitID, rn, now)
	} else {
		entry, _ := r.store.Query(habitID, now)
		current = entry.DurationValue()
	}
	total := max(current+delta, 0)
	running = r.rebase(habitID, total, now)
	r.opMu.Unlock()

	if running {
		r.emit(Event{Kind: EventTicked, HabitID: habitID, Total: total})
	}
	return total
}

// rebase writes seconds as today's duration and restarts a running timer's
// baseline from it. opMu must be held.
func (r *Runner) rebase(habitID string, seconds int, now time.Time) bool {
	r.mu.Lock()
	rn, running := r.runs[habitID]
	if running {
		rn.day = utils.StartOfDay(now, r.store.Location())
		rn.startedAt = now
		rn.baseline = seconds
	}
	r.mu.Unlock()

	r.write(habitID, now, seconds)
	return running
}

func (r *Runner) IsRunning(habitID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.runs[habitID]
	return ok
}

// Running returns the ids of running timers, sorted.
func (r *Runner) Running() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.runs))
	for id := range r.runs {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Close cancels the scheduler and drops every timer without folding.
// Ticks delivered afterwards are inert.
func (r *Runner) Close() {
	r.opMu.Lock()
	r.mu.Lock()
	r.runs = make(map[string]*run)
	r.closed = true
	r.mu.Unlock()
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
	r.opMu.Unlock()
}

// Subscribe registers fn for timer events. The returned function removes it.
func (r *Runner) Subscribe(fn func(Event)) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// fold writes baseline + elapsed for rn and returns the total. Runs that
// crossed midnight are closed out on their start day and restarted at
// midnight against the new day's entry. opMu must be held.
func (r *Runner) fold(habitID string, rn *run, now time.Time) int {
	loc := r.store.Location()
	for !utils.SameDay(rn.day, now, loc) && now.After(rn.day) {
		midnight := utils.NextMidnight(rn.day, loc)
		r.write(habitID, rn.day, rn.baseline+elapsedSeconds(rn.startedAt, midnight))

		entry, _ := r.store.Query(habitID, midnight)
		r.mu.Lock()
		rn.day = midnight
		rn.startedAt = midnight
		rn.baseline = entry.DurationValue()
		r.mu.Unlock()
		logger.Habit(habitID).Debug("Timer rolled over to a new day", "day", midnight)
	}

	total := rn.baseline + elapsedSeconds(rn.startedAt, now)
	r.write(habitID, rn.day, total)
	return total
}

// write upserts the duration and passes the day's count through unchanged,
// since Upsert clears fields it is not given.
func (r *Runner) write(habitID string, day time.Time, seconds int) {
	entry, _ := r.store.Query(habitID, day)
	r.store.Upsert(habitID, day, entry.Count, models.Int(seconds))
}

func (r *Runner) emit(ev Event) {
	r.mu.RLock()
	ids := make([]int, 0, len(r.subs))
	for id := range r.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, r.subs[id])
	}
	r.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func elapsedSeconds(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
