package model

import (
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/timeutil"
)

// BookingStatus is the lifecycle state of a reservation. Times are never
// edited in place; a reschedule is a cancel plus a new booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// ActiveStatuses are the statuses that hold a slot. The no-overlap invariant
// is enforced over bookings in these states only.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

// Booking is a committed reservation. Start and end are absolute UTC
// instants; bookings are the only entities stored in absolute time.
type Booking struct {
	ID            uuid.UUID     `json:"id"`
	BuilderID     uuid.UUID     `json:"builder_id"`
	ClientID      uuid.UUID     `json:"client_id"`
	SessionTypeID uuid.UUID     `json:"session_type_id"`
	StartTime     time.Time     `json:"start_at_utc"`
	EndTime       time.Time     `json:"end_at_utc"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at,omitempty"`
	UpdatedAt     time.Time     `json:"updated_at,omitempty"`
}

// Interval returns the booking's half-open occupancy span.
func (b Booking) Interval() timeutil.Interval {
	return timeutil.Interval{Start: b.StartTime, End: b.EndTime}
}

// IsActive reports whether the booking currently holds its slot.
func (b Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
