package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchedulingSettings is the per-builder scheduling configuration. It is read
// on every slot query and booking attempt; only the builder (or an admin on
// their behalf) mutates it.
type SchedulingSettings struct {
	BuilderID         uuid.UUID `json:"builder_id"`
	Timezone          string    `json:"timezone"`
	MinNoticeMinutes  int       `json:"min_notice_minutes"`
	BufferMinutes     int       `json:"buffer_minutes"`
	MaxAdvanceDays    int       `json:"max_advance_days"`
	AcceptingBookings bool      `json:"accepting_bookings"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// DefaultSettings returns the configuration a builder starts with before
// touching their scheduling page.
func DefaultSettings(builderID uuid.UUID) SchedulingSettings {
	return SchedulingSettings{
		BuilderID:         builderID,
		Timezone:          "UTC",
		MinNoticeMinutes:  0,
		BufferMinutes:     0,
		MaxAdvanceDays:    60,
		AcceptingBookings: true,
	}
}

// Location resolves the builder's IANA timezone.
func (s SchedulingSettings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

func (s SchedulingSettings) Validate() error {
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q", s.Timezone)
	}
	if s.MinNoticeMinutes < 0 {
		return fmt.Errorf("min_notice_minutes must be >= 0")
	}
	if s.BufferMinutes < 0 {
		return fmt.Errorf("buffer_minutes must be >= 0")
	}
	if s.MaxAdvanceDays <= 0 {
		return fmt.Errorf("max_advance_days must be > 0")
	}
	return nil
}
