package timer

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs a task periodically between Start and Stop.
// Stop must not block on an in-flight task.
type Scheduler interface {
	Start(task func())
	Stop()
}

// TickerScheduler runs the task on its own goroutine every interval.
type TickerScheduler struct {
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	return &TickerScheduler{interval: interval}
}

// Start is a no-op while already started.
func (s *TickerScheduler) Start(task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				task()
			}
		}
	}()
}

func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Active reports whether the ticker goroutine has been started and not stopped.
func (s *TickerScheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// ManualScheduler only runs the task when Fire is called.
type ManualScheduler struct {
	mu     sync.Mutex
	task   func()
	starts int
	stops  int
}

func (s *ManualScheduler) Start(task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task != nil {
		return
	}
	s.task = task
	s.starts++
}

func (s *ManualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task != nil {
		s.task = nil
		s.stops++
	}
}

// Fire runs the task once if the scheduler is active and reports whether it ran.
func (s *ManualScheduler) Fire() bool {
	s.mu.Lock()
	task := s.task
	s.mu.Unlock()
	if task == nil {
		return false
	}
	task()
	return true
}

func (s *ManualScheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task != nil
}

// Counts returns how many times the scheduler was started and stopped.
func (s *ManualScheduler) Counts() (starts, stops int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts, s.stops
}
