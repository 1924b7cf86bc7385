// Package jobs holds the background maintenance jobs.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"booking-engine/internal/engine"
)

// Sweeper periodically cancels pending bookings that were never confirmed,
// so an abandoned checkout releases its slot instead of holding it forever.
type Sweeper struct {
	bookings  engine.BookingStore
	publisher engine.Publisher
	logger    *slog.Logger
	ttl       time.Duration
	spec      string
	cron      *cron.Cron
}

func NewSweeper(bookings engine.BookingStore, publisher engine.Publisher, logger *slog.Logger, ttl time.Duration, spec string) *Sweeper {
	if publisher == nil {
		publisher = engine.NopPublisher{}
	}
	if spec == "" {
		spec = "*/5 * * * *"
	}
	return &Sweeper{
		bookings:  bookings,
		publisher: publisher,
		logger:    logger,
		ttl:       ttl,
		spec:      spec,
		cron:      cron.New(),
	}
}

// Start schedules the sweep. A zero TTL disables the sweeper entirely.
func (s *Sweeper) Start() error {
	if s.ttl <= 0 {
		s.logger.Info("pending-booking sweeper disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("pending-booking sweeper started",
		slog.String("schedule", s.spec),
		slog.Duration("ttl", s.ttl),
	)
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-s.ttl)
	expired, err := s.bookings.ExpirePending(ctx, cutoff)
	if err != nil {
		s.logger.Error("sweep failed", slog.String("error", err.Error()))
		return
	}
	if len(expired) == 0 {
		return
	}
	s.logger.Info("expired stale pending bookings", slog.Int("count", len(expired)))
	for _, b := range expired {
		s.publisher.Publish(ctx, engine.Event{
			Type:    engine.EventBookingCancelled,
			Booking: b,
			At:      time.Now().UTC(),
		})
	}
}
