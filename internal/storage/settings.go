package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"booking-engine/internal/model"
)

// SettingsRepo implements engine.SettingsStore on Postgres.
type SettingsRepo struct {
	db *pgxpool.Pool
}

func NewSettingsRepo(db *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the builder's stored settings, or the defaults when the builder
// has never saved any.
func (r *SettingsRepo) Get(ctx context.Context, builderID uuid.UUID) (model.SchedulingSettings, error) {
	q := `SELECT builder_id, timezone, min_notice_minutes, buffer_minutes, max_advance_days, accepting_bookings, updated_at
	      FROM scheduling_settings WHERE builder_id=$1`
	var s model.SchedulingSettings
	err := r.db.QueryRow(ctx, q, builderID).Scan(&s.BuilderID, &s.Timezone,
		&s.MinNoticeMinutes, &s.BufferMinutes, &s.MaxAdvanceDays, &s.AcceptingBookings, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.DefaultSettings(builderID), nil
	}
	if err != nil {
		return model.SchedulingSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func (r *SettingsRepo) Put(ctx context.Context, settings model.SchedulingSettings) error {
	now := time.Now().UTC()
	q := `INSERT INTO scheduling_settings
	      (builder_id, timezone, min_notice_minutes, buffer_minutes, max_advance_days, accepting_bookings, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7)
	      ON CONFLICT (builder_id) DO UPDATE SET
	        timezone=EXCLUDED.timezone,
	        min_notice_minutes=EXCLUDED.min_notice_minutes,
	        buffer_minutes=EXCLUDED.buffer_minutes,
	        max_advance_days=EXCLUDED.max_advance_days,
	        accepting_bookings=EXCLUDED.accepting_bookings,
	        updated_at=EXCLUDED.updated_at`
	if _, err := r.db.Exec(ctx, q, settings.BuilderID, settings.Timezone,
		settings.MinNoticeMinutes, settings.BufferMinutes, settings.MaxAdvanceDays,
		settings.AcceptingBookings, now); err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}
