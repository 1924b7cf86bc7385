package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/model"
	"booking-engine/internal/timeutil"
)

// AvailabilityStore is pure data access to weekly rules and date exceptions.
// Precedence between the two is the generator's concern, not the store's.
type AvailabilityStore interface {
	ListRules(ctx context.Context, builderID uuid.UUID) ([]model.AvailabilityRule, error)
	GetRule(ctx context.Context, builderID, ruleID uuid.UUID) (model.AvailabilityRule, error)
	CreateRule(ctx context.Context, rule *model.AvailabilityRule) error
	UpdateRule(ctx context.Context, rule *model.AvailabilityRule) error
	DeleteRule(ctx context.Context, builderID, ruleID uuid.UUID) error

	ListExceptions(ctx context.Context, builderID uuid.UUID, from, to timeutil.Date) ([]model.AvailabilityException, error)
	CreateException(ctx context.Context, exc *model.AvailabilityException) error
	DeleteException(ctx context.Context, builderID, excID uuid.UUID) error
}

// BookingStore is data access to reservations. InsertIfFree is the one
// primitive with a concurrency contract: the overlap check against the padded
// interval and the insert must be indivisible with respect to concurrent
// callers for the same builder, returning ErrSlotUnavailable when the check
// fails. A check-then-act race must not be expressible above this interface.
type BookingStore interface {
	// ListActive returns pending and confirmed bookings whose interval
	// intersects [from, to), ordered by start time.
	ListActive(ctx context.Context, builderID uuid.UUID, from, to time.Time) ([]model.Booking, error)
	// List returns bookings of any status; zero from/to means unbounded.
	List(ctx context.Context, builderID uuid.UUID, from, to time.Time) ([]model.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (model.Booking, error)
	InsertIfFree(ctx context.Context, booking *model.Booking, padded timeutil.Interval) error
	// UpdateStatus transitions the booking to the target status if its
	// current status is one of from. Returns false when no transition
	// happened (missing row or status outside from).
	UpdateStatus(ctx context.Context, id uuid.UUID, from []model.BookingStatus, to model.BookingStatus) (bool, error)
	// ExpirePending cancels pending bookings created before the cutoff and
	// returns them, for the expiry sweeper.
	ExpirePending(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
}

// SettingsStore resolves per-builder scheduling configuration. Get returns
// defaults for a builder with no stored row.
type SettingsStore interface {
	Get(ctx context.Context, builderID uuid.UUID) (model.SchedulingSettings, error)
	Put(ctx context.Context, settings model.SchedulingSettings) error
}

// SessionTypeStore is data access to the builder's bookable offerings.
type SessionTypeStore interface {
	Get(ctx context.Context, id uuid.UUID) (model.SessionType, error)
	ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]model.SessionType, error)
	Create(ctx context.Context, st *model.SessionType) error
	Update(ctx context.Context, st *model.SessionType) error
	Delete(ctx context.Context, builderID, id uuid.UUID) error
}
