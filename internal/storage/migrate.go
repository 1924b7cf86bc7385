package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Each statement is idempotent so Migrate can run on every boot.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS scheduling_settings (
		builder_id UUID PRIMARY KEY,
		timezone TEXT NOT NULL DEFAULT 'UTC',
		min_notice_minutes INT NOT NULL DEFAULT 0,
		buffer_minutes INT NOT NULL DEFAULT 0,
		max_advance_days INT NOT NULL DEFAULT 60,
		accepting_bookings BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS availability_rules (
		id UUID PRIMARY KEY,
		builder_id UUID NOT NULL,
		day_of_week INT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_availability_rules_builder
		ON availability_rules (builder_id, day_of_week)`,
	`CREATE TABLE IF NOT EXISTS availability_exceptions (
		id UUID PRIMARY KEY,
		builder_id UUID NOT NULL,
		date DATE NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('blocked', 'special_hours')),
		slots JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (builder_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS session_types (
		id UUID PRIMARY KEY,
		builder_id UUID NOT NULL,
		name TEXT NOT NULL,
		duration_minutes INT NOT NULL CHECK (duration_minutes > 0),
		buffer_override_minutes INT,
		price NUMERIC(12,2) NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_types_builder
		ON session_types (builder_id)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		builder_id UUID NOT NULL,
		client_id UUID NOT NULL,
		session_type_id UUID NOT NULL,
		start_at_utc TIMESTAMPTZ NOT NULL,
		end_at_utc TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('pending', 'confirmed', 'cancelled', 'completed')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_builder_start
		ON bookings (builder_id, start_at_utc)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_active
		ON bookings (builder_id, start_at_utc, end_at_utc)
		WHERE status IN ('pending', 'confirmed')`,
}

// Migrate bootstraps the schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
