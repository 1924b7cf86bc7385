package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionType is a bookable offering: identity is immutable, attributes are
// editable by the builder. Duration drives slot length; the optional buffer
// override takes precedence over the builder-wide buffer.
type SessionType struct {
	ID                    uuid.UUID       `json:"id"`
	BuilderID             uuid.UUID       `json:"builder_id"`
	Name                  string          `json:"name"`
	DurationMinutes       int             `json:"duration_minutes"`
	BufferOverrideMinutes *int            `json:"buffer_override_minutes,omitempty"`
	Price                 decimal.Decimal `json:"price"`
	Active                bool            `json:"active"`
	CreatedAt             time.Time       `json:"created_at,omitempty"`
	UpdatedAt             time.Time       `json:"updated_at,omitempty"`
}

func (st SessionType) Validate() error {
	if st.Name == "" {
		return fmt.Errorf("name is required")
	}
	if st.DurationMinutes <= 0 {
		return fmt.Errorf("duration_minutes must be > 0")
	}
	if st.BufferOverrideMinutes != nil && *st.BufferOverrideMinutes < 0 {
		return fmt.Errorf("buffer_override_minutes must be >= 0")
	}
	if st.Price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}

// BufferMinutes resolves the effective buffer for this session type given
// the builder-wide default.
func (st SessionType) BufferMinutes(settingsBuffer int) int {
	if st.BufferOverrideMinutes != nil {
		return *st.BufferOverrideMinutes
	}
	return settingsBuffer
}

// Duration returns the session length as a time.Duration.
func (st SessionType) Duration() time.Duration {
	return time.Duration(st.DurationMinutes) * time.Minute
}
