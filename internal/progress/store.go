package progress

import (
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/streakly/internal/clock"
	"github.com/julianstephens/streakly/internal/models"
	"github.com/julianstephens/streakly/internal/utils"
)

// Change describes a single upsert, delivered to subscribers after it is applied.
type Change struct {
	HabitID string
	Entry   models.ProgressEntry
	Created bool
}

// Store keeps per-habit daily progress in memory. There is at most one
// entry per (habit, calendar day) in the store's location.
type Store struct {
	mu      sync.RWMutex
	clock   clock.Clock
	loc     *time.Location
	entries map[string][]models.ProgressEntry
	subs    map[int]func(Change)
	nextSub int
}

// NewStore creates an empty store. Day boundaries are local midnight in loc
// (time.Local when nil).
func NewStore(clk clock.Clock, loc *time.Location) *Store {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		clock:   clk,
		loc:     loc,
		entries: make(map[string][]models.ProgressEntry),
		subs:    make(map[int]func(Change)),
	}
}

// Location returns the timezone used for day boundaries.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Today returns the start of the current day.
func (s *Store) Today() time.Time {
	return utils.StartOfDay(s.clock.Now(), s.loc)
}

// Upsert replaces the entry for (habitID, day) with one carrying exactly the
// given count and duration. A field passed as nil is cleared, not kept: callers
// that only change one field must pass the other through.
func (s *Store) Upsert(habitID string, day time.Time, count, duration *int) {
	entry := models.ProgressEntry{
		HabitID:  habitID,
		Day:      utils.StartOfDay(day, s.loc),
		Count:    cloneInt(count),
		Duration: cloneInt(duration),
	}

	s.mu.Lock()
	list := s.entries[habitID]
	created := true
	for i := range list {
		if utils.SameDay(list[i].Day, entry.Day, s.loc) {
			list[i] = entry
			created = false
			break
		}
	}
	if created {
		list = append(list, entry)
	}
	s.entries[habitID] = list
	subs := s.subscribers()
	s.mu.Unlock()

	change := Change{HabitID: habitID, Entry: copyEntry(entry), Created: created}
	for _, fn := range subs {
		fn(change)
	}
}

// UpdateProgress upserts today's entry.
func (s *Store) UpdateProgress(habitID string, count, duration *int) {
	s.Upsert(habitID, s.clock.Now(), count, duration)
}

// Query returns the entry for habitID on day's calendar day.
func (s *Store) Query(habitID string, day time.Time) (models.ProgressEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries[habitID] {
		if utils.SameDay(e.Day, day, s.loc) {
			return copyEntry(e), true
		}
	}
	return models.ProgressEntry{}, false
}

// QueryToday returns today's entry for habitID.
func (s *Store) QueryToday(habitID string) (models.ProgressEntry, bool) {
	return s.Query(habitID, s.clock.Now())
}

// Entries returns a habit's history ordered by day.
func (s *Store) Entries(habitID string) []models.ProgressEntry {
	s.mu.RLock()
	list := s.entries[habitID]
	out := make([]models.ProgressEntry, len(list))
	for i, e := range list {
		out[i] = copyEntry(e)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// Subscribe registers fn to be called after every upsert. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// subscribers snapshots the observer list; s.mu must be held.
func (s *Store) subscribers() []func(Change) {
	if len(s.subs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Change), len(ids))
	for i, id := range ids {
		out[i] = s.subs[id]
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyEntry(e models.ProgressEntry) models.ProgressEntry {
	e.Count = cloneInt(e.Count)
	e.Duration = cloneInt(e.Duration)
	return e
}
