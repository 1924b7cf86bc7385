package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/timeutil"
)

// AvailabilityRule is one recurring weekly window. Times are wall-clock
// "HH:MM" strings in the builder's timezone; the rule projects indefinitely
// until edited or deleted.
type AvailabilityRule struct {
	ID        uuid.UUID `json:"id"`
	BuilderID uuid.UUID `json:"builder_id"`
	DayOfWeek int       `json:"day_of_week"` // Sunday = 0
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (r AvailabilityRule) Validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be 0-6, got %d", r.DayOfWeek)
	}
	start, err := timeutil.ParseHHMM(r.StartTime)
	if err != nil {
		return err
	}
	end, err := timeutil.ParseHHMM(r.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("end_time must be after start_time")
	}
	return nil
}

// Window converts the rule's wall-clock bounds to a minute-of-day window.
func (r AvailabilityRule) Window() (timeutil.Window, error) {
	start, err := timeutil.ParseHHMM(r.StartTime)
	if err != nil {
		return timeutil.Window{}, err
	}
	end, err := timeutil.ParseHHMM(r.EndTime)
	if err != nil {
		return timeutil.Window{}, err
	}
	return timeutil.Window{StartMinute: start, EndMinute: end}, nil
}

// ExceptionKind discriminates the two exception flavours.
type ExceptionKind string

const (
	// ExceptionBlocked removes the whole day regardless of weekly rules.
	ExceptionBlocked ExceptionKind = "blocked"
	// ExceptionSpecialHours replaces the weekly rules with the exception's
	// own time slots for that date only.
	ExceptionSpecialHours ExceptionKind = "special_hours"
)

// ExceptionTimeSlot is one wall-clock window carried by a special-hours
// exception.
type ExceptionTimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (s ExceptionTimeSlot) Window() (timeutil.Window, error) {
	start, err := timeutil.ParseHHMM(s.StartTime)
	if err != nil {
		return timeutil.Window{}, err
	}
	end, err := timeutil.ParseHHMM(s.EndTime)
	if err != nil {
		return timeutil.Window{}, err
	}
	return timeutil.Window{StartMinute: start, EndMinute: end}, nil
}

// AvailabilityException is a date-specific override of the weekly pattern.
// Exceptions strictly take precedence over rules for their date.
type AvailabilityException struct {
	ID        uuid.UUID           `json:"id"`
	BuilderID uuid.UUID           `json:"builder_id"`
	Date      string              `json:"date"` // YYYY-MM-DD in the builder's timezone
	Kind      ExceptionKind       `json:"kind"`
	Slots     []ExceptionTimeSlot `json:"slots,omitempty"`
	CreatedAt time.Time           `json:"created_at,omitempty"`
}

func (e AvailabilityException) Validate() error {
	if _, err := timeutil.ParseDate(e.Date); err != nil {
		return err
	}
	switch e.Kind {
	case ExceptionBlocked:
		if len(e.Slots) > 0 {
			return fmt.Errorf("blocked exception must not carry time slots")
		}
	case ExceptionSpecialHours:
		if len(e.Slots) == 0 {
			return fmt.Errorf("special_hours exception requires at least one time slot")
		}
		for _, s := range e.Slots {
			w, err := s.Window()
			if err != nil {
				return err
			}
			if !w.IsValid() {
				return fmt.Errorf("end_time must be after start_time")
			}
		}
	default:
		return fmt.Errorf("unknown exception kind %q", e.Kind)
	}
	return nil
}
