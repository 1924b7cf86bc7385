package engine

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/model"
)

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
)

// Event is the record emitted after a booking state change. Payment and
// notification systems consume these; the engine never calls them directly,
// keeping the dependency one-way.
type Event struct {
	Type    EventType     `json:"type"`
	Booking model.Booking `json:"booking"`
	At      time.Time     `json:"at"`
}

// Publisher receives events after the state change has been committed.
// Publish must not block booking traffic and must not fail the operation.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// LogPublisher writes events to the structured log, which is the integration
// surface for deployments without a broker.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, ev Event) {
	p.Logger.LogAttrs(ctx, slog.LevelInfo, "domain event",
		slog.String("type", string(ev.Type)),
		slog.String("booking_id", ev.Booking.ID.String()),
		slog.String("builder_id", ev.Booking.BuilderID.String()),
		slog.Time("start_at", ev.Booking.StartTime),
		slog.String("status", string(ev.Booking.Status)),
	)
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
