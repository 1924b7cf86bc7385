package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"booking-engine/internal/engine"
	"booking-engine/internal/model"
)

// SessionTypeRepo implements engine.SessionTypeStore on Postgres.
type SessionTypeRepo struct {
	db *pgxpool.Pool
}

func NewSessionTypeRepo(db *pgxpool.Pool) *SessionTypeRepo {
	return &SessionTypeRepo{db: db}
}

const sessionTypeColumns = `id, builder_id, name, duration_minutes, buffer_override_minutes, price, active, created_at, updated_at`

// price is cast to text on the way out so it scans cleanly into a decimal.
const sessionTypeSelect = `id, builder_id, name, duration_minutes, buffer_override_minutes, price::text, active, created_at, updated_at`

func (r *SessionTypeRepo) Get(ctx context.Context, id uuid.UUID) (model.SessionType, error) {
	q := `SELECT ` + sessionTypeSelect + ` FROM session_types WHERE id=$1`
	st, err := scanSessionType(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.SessionType{}, engine.ErrNotFound
	}
	if err != nil {
		return model.SessionType{}, fmt.Errorf("get session type: %w", err)
	}
	return st, nil
}

func (r *SessionTypeRepo) ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]model.SessionType, error) {
	q := `SELECT ` + sessionTypeSelect + ` FROM session_types WHERE builder_id=$1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, q, builderID)
	if err != nil {
		return nil, fmt.Errorf("list session types: %w", err)
	}
	defer rows.Close()

	var out []model.SessionType
	for rows.Next() {
		st, err := scanSessionType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session type: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *SessionTypeRepo) Create(ctx context.Context, st *model.SessionType) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	now := time.Now().UTC()
	q := `INSERT INTO session_types (` + sessionTypeColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)`
	if _, err := r.db.Exec(ctx, q, st.ID, st.BuilderID, st.Name, st.DurationMinutes,
		st.BufferOverrideMinutes, st.Price.String(), st.Active, now); err != nil {
		return fmt.Errorf("insert session type: %w", err)
	}
	st.CreatedAt = now
	st.UpdatedAt = now
	return nil
}

func (r *SessionTypeRepo) Update(ctx context.Context, st *model.SessionType) error {
	now := time.Now().UTC()
	q := `UPDATE session_types
	      SET name=$1, duration_minutes=$2, buffer_override_minutes=$3, price=$4, active=$5, updated_at=$6
	      WHERE id=$7 AND builder_id=$8`
	tag, err := r.db.Exec(ctx, q, st.Name, st.DurationMinutes, st.BufferOverrideMinutes,
		st.Price.String(), st.Active, now, st.ID, st.BuilderID)
	if err != nil {
		return fmt.Errorf("update session type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return engine.ErrNotFound
	}
	st.UpdatedAt = now
	return nil
}

func (r *SessionTypeRepo) Delete(ctx context.Context, builderID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM session_types WHERE id=$1 AND builder_id=$2`, id, builderID)
	if err != nil {
		return fmt.Errorf("delete session type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func scanSessionType(row pgx.Row) (model.SessionType, error) {
	var (
		st    model.SessionType
		price string
	)
	if err := row.Scan(&st.ID, &st.BuilderID, &st.Name, &st.DurationMinutes,
		&st.BufferOverrideMinutes, &price, &st.Active, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return model.SessionType{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return model.SessionType{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	st.Price = p
	return st, nil
}
