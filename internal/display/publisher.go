package display

import (
	"context"
	"errors"

	"github.com/julianstephens/streakly/internal/logger"
	"github.com/julianstephens/streakly/internal/models"
)

// Publisher delivers a live status snapshot to an external display.
type Publisher interface {
	Publish(ctx context.Context, status models.LiveStatus) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, status models.LiveStatus) error

func (f PublisherFunc) Publish(ctx context.Context, status models.LiveStatus) error {
	return f(ctx, status)
}

// MultiPublisher publishes to every member and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, status models.LiveStatus) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, status); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes each status to the debug log.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, status models.LiveStatus) error {
	logger.Debug("Live status",
		"habit", status.HabitName,
		"elapsed", status.ElapsedSeconds,
		"target", status.TargetSeconds,
		"running", status.Running,
	)
	return nil
}
