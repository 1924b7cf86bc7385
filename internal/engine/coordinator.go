package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/model"
)

// Actor identifies who is performing a mutation. The engine does no
// authentication; it only checks that the already-authenticated actor is
// allowed to touch the booking.
type Actor struct {
	ID    uuid.UUID
	Admin bool
}

// Coordinator turns a slot selection into a committed reservation and drives
// the booking lifecycle. The no-overlap invariant is ultimately enforced by
// the booking store's atomic insert; the coordinator's revalidation exists to
// reject stale slots cheaply and with a precise error.
type Coordinator struct {
	settings     SettingsStore
	sessionTypes SessionTypeStore
	bookings     BookingStore
	generator    *Generator
	publisher    Publisher
	logger       *slog.Logger
	now          func() time.Time
}

func NewCoordinator(settings SettingsStore, sessionTypes SessionTypeStore, bookings BookingStore, generator *Generator, publisher Publisher, logger *slog.Logger) *Coordinator {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		settings:     settings,
		sessionTypes: sessionTypes,
		bookings:     bookings,
		generator:    generator,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

// AvailableSlots is the read side: it resolves settings and the session type,
// then delegates to the generator. Safe to call frequently.
func (c *Coordinator) AvailableSlots(ctx context.Context, builderID, sessionTypeID uuid.UUID, fromUTC, toUTC time.Time) ([]Slot, error) {
	if !toUTC.After(fromUTC) {
		return nil, fmt.Errorf("%w: from must be before to", ErrValidation)
	}
	st, err := c.sessionType(ctx, builderID, sessionTypeID)
	if err != nil {
		return nil, err
	}
	settings, err := c.builderSettings(ctx, builderID)
	if err != nil {
		return nil, err
	}
	return c.generator.AvailableSlots(ctx, settings, st, fromUTC, toUTC)
}

// CreateBooking re-derives validity for the requested slot and commits it
// atomically. Exactly one of any set of concurrent callers for the same slot
// wins; the rest get ErrSlotUnavailable and must re-query slots rather than
// retry blindly.
func (c *Coordinator) CreateBooking(ctx context.Context, builderID, clientID, sessionTypeID uuid.UUID, startUTC time.Time) (model.Booking, error) {
	if clientID == uuid.Nil {
		return model.Booking{}, fmt.Errorf("%w: client_id is required", ErrValidation)
	}
	if startUTC.IsZero() {
		return model.Booking{}, fmt.Errorf("%w: start time is required", ErrValidation)
	}
	st, err := c.sessionType(ctx, builderID, sessionTypeID)
	if err != nil {
		return model.Booking{}, err
	}
	if st.DurationMinutes <= 0 {
		return model.Booking{}, fmt.Errorf("%w: session duration must be positive", ErrValidation)
	}
	settings, err := c.builderSettings(ctx, builderID)
	if err != nil {
		return model.Booking{}, err
	}
	if !settings.AcceptingBookings {
		return model.Booking{}, ErrNotAcceptingBookings
	}

	startUTC = startUTC.UTC()
	valid, err := c.generator.SlotValid(ctx, settings, st, startUTC)
	if err != nil {
		return model.Booking{}, err
	}
	if !valid {
		return model.Booking{}, ErrSlotUnavailable
	}

	booking := model.Booking{
		ID:            uuid.New(),
		BuilderID:     builderID,
		ClientID:      clientID,
		SessionTypeID: sessionTypeID,
		StartTime:     startUTC,
		EndTime:       startUTC.Add(st.Duration()),
		Status:        model.StatusPending,
	}
	buffer := time.Duration(st.BufferMinutes(settings.BufferMinutes)) * time.Minute
	if err := c.bookings.InsertIfFree(ctx, &booking, booking.Interval().Pad(buffer)); err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			c.logger.InfoContext(ctx, "booking lost slot race",
				slog.String("builder_id", builderID.String()),
				slog.Time("start_at", startUTC),
			)
			return model.Booking{}, ErrSlotUnavailable
		}
		return model.Booking{}, fmt.Errorf("insert booking: %w: %v", ErrStorage, err)
	}

	c.logger.InfoContext(ctx, "booking committed",
		slog.String("booking_id", booking.ID.String()),
		slog.String("builder_id", builderID.String()),
		slog.Time("start_at", booking.StartTime),
	)
	c.publisher.Publish(ctx, Event{Type: EventBookingCreated, Booking: booking, At: c.now().UTC()})
	return booking, nil
}

// ConfirmBooking moves a pending booking to confirmed. The payment system
// owns when this is called; the engine just executes the transition.
func (c *Coordinator) ConfirmBooking(ctx context.Context, bookingID uuid.UUID, actor Actor) (model.Booking, error) {
	booking, err := c.booking(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if !c.mayManage(actor, booking) {
		return model.Booking{}, ErrForbidden
	}
	if booking.Status == model.StatusConfirmed {
		return booking, nil
	}
	return c.transition(ctx, booking, []model.BookingStatus{model.StatusPending}, model.StatusConfirmed, EventBookingConfirmed)
}

// CancelBooking transitions a pending or confirmed booking to cancelled.
// Permitted only for the booking's client, the builder, or an admin.
// Cancelling an already cancelled booking is a no-op.
func (c *Coordinator) CancelBooking(ctx context.Context, bookingID uuid.UUID, actor Actor) error {
	booking, err := c.booking(ctx, bookingID)
	if err != nil {
		return err
	}
	if !c.mayManage(actor, booking) {
		return ErrForbidden
	}
	switch booking.Status {
	case model.StatusCancelled:
		return nil
	case model.StatusCompleted:
		return ErrAlreadyCompleted
	}
	_, err = c.transition(ctx, booking, model.ActiveStatuses, model.StatusCancelled, EventBookingCancelled)
	return err
}

// CompleteBooking marks a confirmed booking as completed, a terminal state.
func (c *Coordinator) CompleteBooking(ctx context.Context, bookingID uuid.UUID, actor Actor) (model.Booking, error) {
	booking, err := c.booking(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if actor.ID != booking.BuilderID && !actor.Admin {
		return model.Booking{}, ErrForbidden
	}
	if booking.Status == model.StatusCompleted {
		return booking, nil
	}
	return c.transition(ctx, booking, []model.BookingStatus{model.StatusConfirmed}, model.StatusCompleted, EventBookingCompleted)
}

// transition applies a guarded status update. When the guarded update touches
// nothing the booking is re-read to tell a benign lost race (something else
// already moved it where we wanted) from an invalid transition.
func (c *Coordinator) transition(ctx context.Context, booking model.Booking, from []model.BookingStatus, to model.BookingStatus, evType EventType) (model.Booking, error) {
	changed, err := c.bookings.UpdateStatus(ctx, booking.ID, from, to)
	if err != nil {
		return model.Booking{}, fmt.Errorf("update booking status: %w: %v", ErrStorage, err)
	}
	if !changed {
		current, err := c.booking(ctx, booking.ID)
		if err != nil {
			return model.Booking{}, err
		}
		if current.Status == to {
			return current, nil
		}
		return model.Booking{}, fmt.Errorf("%w: booking is %s, cannot move to %s", ErrValidation, current.Status, to)
	}

	booking.Status = to
	c.logger.InfoContext(ctx, "booking transitioned",
		slog.String("booking_id", booking.ID.String()),
		slog.String("status", string(to)),
	)
	c.publisher.Publish(ctx, Event{Type: evType, Booking: booking, At: c.now().UTC()})
	return booking, nil
}

func (c *Coordinator) booking(ctx context.Context, id uuid.UUID) (model.Booking, error) {
	booking, err := c.bookings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Booking{}, ErrNotFound
		}
		return model.Booking{}, fmt.Errorf("get booking: %w: %v", ErrStorage, err)
	}
	return booking, nil
}

func (c *Coordinator) sessionType(ctx context.Context, builderID, id uuid.UUID) (model.SessionType, error) {
	st, err := c.sessionTypes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.SessionType{}, ErrNotFound
		}
		return model.SessionType{}, fmt.Errorf("get session type: %w: %v", ErrStorage, err)
	}
	// A session type belonging to a different builder is indistinguishable
	// from a missing one to the caller.
	if st.BuilderID != builderID {
		return model.SessionType{}, ErrNotFound
	}
	return st, nil
}

func (c *Coordinator) builderSettings(ctx context.Context, builderID uuid.UUID) (model.SchedulingSettings, error) {
	settings, err := c.settings.Get(ctx, builderID)
	if err != nil {
		return model.SchedulingSettings{}, fmt.Errorf("get settings: %w: %v", ErrStorage, err)
	}
	return settings, nil
}

func (c *Coordinator) mayManage(actor Actor, booking model.Booking) bool {
	return actor.Admin || actor.ID == booking.ClientID || actor.ID == booking.BuilderID
}
