package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"booking-engine/internal/engine"
	"booking-engine/internal/model"
	"booking-engine/internal/timeutil"
)

const bookingColumns = `id, builder_id, client_id, session_type_id, start_at_utc, end_at_utc, status, created_at, updated_at`

// BookingRepo implements engine.BookingStore on Postgres.
type BookingRepo struct {
	db *pgxpool.Pool
}

func NewBookingRepo(db *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) ListActive(ctx context.Context, builderID uuid.UUID, from, to time.Time) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + `
	      FROM bookings
	      WHERE builder_id=$1 AND status IN ('pending','confirmed')
	        AND start_at_utc < $3 AND end_at_utc > $2
	      ORDER BY start_at_utc`
	rows, err := r.db.Query(ctx, q, builderID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *BookingRepo) List(ctx context.Context, builderID uuid.UUID, from, to time.Time) ([]model.Booking, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if from.IsZero() || to.IsZero() {
		q := `SELECT ` + bookingColumns + ` FROM bookings WHERE builder_id=$1 ORDER BY start_at_utc`
		rows, err = r.db.Query(ctx, q, builderID)
	} else {
		q := `SELECT ` + bookingColumns + `
		      FROM bookings
		      WHERE builder_id=$1 AND start_at_utc >= $2 AND start_at_utc < $3
		      ORDER BY start_at_utc`
		rows, err = r.db.Query(ctx, q, builderID, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id=$1`
	var b model.Booking
	err := r.db.QueryRow(ctx, q, id).Scan(&b.ID, &b.BuilderID, &b.ClientID, &b.SessionTypeID,
		&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Booking{}, engine.ErrNotFound
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// InsertIfFree verifies that no active booking overlaps the padded interval
// and inserts the new one, as a single indivisible unit. A per-builder
// advisory lock serializes concurrent attempts for the same builder without
// any cross-builder contention; the transaction makes the whole thing
// all-or-nothing, so a timed-out attempt leaves no partial state.
func (r *BookingRepo) InsertIfFree(ctx context.Context, booking *model.Booking, padded timeutil.Interval) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		booking.BuilderID.String()); err != nil {
		return fmt.Errorf("acquire builder lock: %w", err)
	}

	var taken bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE builder_id=$1 AND status IN ('pending','confirmed')
			  AND start_at_utc < $3 AND end_at_utc > $2
		)`,
		booking.BuilderID, padded.Start, padded.End).Scan(&taken)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if taken {
		return engine.ErrSlotUnavailable
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx,
		`INSERT INTO bookings (`+bookingColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)`,
		booking.ID, booking.BuilderID, booking.ClientID, booking.SessionTypeID,
		booking.StartTime, booking.EndTime, booking.Status, now); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from []model.BookingStatus, to model.BookingStatus) (bool, error) {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status=$2, updated_at=now() WHERE id=$1 AND status = ANY($3)`,
		id, to, states)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ExpirePending cancels pending bookings created before the cutoff, for the
// abandoned-checkout sweeper.
func (r *BookingRepo) ExpirePending(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	q := `UPDATE bookings SET status='cancelled', updated_at=now()
	      WHERE status='pending' AND created_at < $1
	      RETURNING ` + bookingColumns
	rows, err := r.db.Query(ctx, q, cutoff)
	if err != nil {
		return nil, fmt.Errorf("expire pending bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]model.Booking, error) {
	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.BuilderID, &b.ClientID, &b.SessionTypeID,
			&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
