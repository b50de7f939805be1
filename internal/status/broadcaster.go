package status

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/streakly/internal/constants"
	"github.com/julianstephens/streakly/internal/display"
	"github.com/julianstephens/streakly/internal/logger"
	"github.com/julianstephens/streakly/internal/models"
	"github.com/julianstephens/streakly/internal/timer"
)

// queueSize is the number of statuses kept in order before the broadcaster
// starts coalescing each habit's pending statuses into its newest one.
const queueSize = 64

type EventSource interface {
	Subscribe(fn func(timer.Event)) func()
}

// Broadcaster pushes a LiveStatus to the display for every timer event.
// Publishing runs on its own goroutine so a slow display never stalls ticks.
// When the display falls behind, older statuses of a habit are replaced by
// newer ones, so its latest state (a stop in particular) is always sent.
type Broadcaster struct {
	projector *Projector
	publisher display.Publisher

	mu          sync.Mutex
	cond        *sync.Cond
	pending     []models.LiveStatus
	unsubscribe func()
	done        chan struct{}
	closed      bool
}

func NewBroadcaster(projector *Projector, publisher display.Publisher) *Broadcaster {
	b := &Broadcaster{
		projector: projector,
		publisher: publisher,
		done:      make(chan struct{}),
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Start subscribes to source and begins publishing. It must be called once.
func (b *Broadcaster) Start(source EventSource) {
	go b.loop()

	unsubscribe := source.Subscribe(b.handle)
	b.mu.Lock()
	b.unsubscribe = unsubscribe
	b.mu.Unlock()
}

// Close unsubscribes and waits for pending statuses to be published.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	unsubscribe := b.unsubscribe
	b.cond.Signal()
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	<-b.done
}

func (b *Broadcaster) handle(ev timer.Event) {
	st, ok := b.projector.Status(ev.HabitID)
	if !ok {
		logger.Habit(ev.HabitID).Warn("Timer event for unknown habit", "event", ev.Kind.String())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.enqueue(st)
	b.cond.Signal()
}

// enqueue appends st, or once the queue is full, overwrites the newest
// pending status of the same habit. b.mu must be held.
func (b *Broadcaster) enqueue(st models.LiveStatus) {
	if len(b.pending) >= queueSize {
		for i := len(b.pending) - 1; i >= 0; i-- {
			if b.pending[i].HabitID == st.HabitID {
				b.pending[i] = st
				logger.Habit(st.HabitID).Debug("Display behind, coalesced status")
				return
			}
		}
	}
	b.pending = append(b.pending, st)
}

func (b *Broadcaster) next() (models.LiveStatus, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for len(b.pending) == 0 && !b.closed {
		b.cond.Wait()
	}
	if len(b.pending) == 0 {
		return models.LiveStatus{}, false
	}
	st := b.pending[0]
	b.pending = b.pending[1:]
	return st, true
}

func (b *Broadcaster) loop() {
	defer close(b.done)
	for {
		st, ok := b.next()
		if !ok {
			return
		}
		b.publish(st)
	}
}

func (b *Broadcaster) publish(st models.LiveStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.PublishTimeout)
	defer cancel()

	err := b.publisher.Publish(ctx, st)
	switch {
	case err == nil:
	case errors.Is(err, display.ErrDisplayNotRunning):
		// Expected whenever no display is attached
		logger.Habit(st.HabitID).Debug("No display to publish to")
	default:
		logger.Habit(st.HabitID).Warn("Failed to publish live status", "error", err)
	}
}
