package storage

import (
	"context"
	"encoding/json"
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

// AvailabilityRepo implements engine.AvailabilityStore on Postgres.
type AvailabilityRepo struct {
	db *pgxpool.Pool
}

func NewAvailabilityRepo(db *pgxpool.Pool) *AvailabilityRepo {
	return &AvailabilityRepo{db: db}
}

func (r *AvailabilityRepo) ListRules(ctx context.Context, builderID uuid.UUID) ([]model.AvailabilityRule, error) {
	q := `SELECT id, builder_id, day_of_week, start_time, end_time, created_at, updated_at
	      FROM availability_rules WHERE builder_id=$1 ORDER BY day_of_week, start_time`
	rows, err := r.db.Query(ctx, q, builderID)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var out []model.AvailabilityRule
	for rows.Next() {
		var rule model.AvailabilityRule
		if err := rows.Scan(&rule.ID, &rule.BuilderID, &rule.DayOfWeek,
			&rule.StartTime, &rule.EndTime, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *AvailabilityRepo) GetRule(ctx context.Context, builderID, ruleID uuid.UUID) (model.AvailabilityRule, error) {
	q := `SELECT id, builder_id, day_of_week, start_time, end_time, created_at, updated_at
	      FROM availability_rules WHERE id=$1 AND builder_id=$2`
	var rule model.AvailabilityRule
	err := r.db.QueryRow(ctx, q, ruleID, builderID).Scan(&rule.ID, &rule.BuilderID,
		&rule.DayOfWeek, &rule.StartTime, &rule.EndTime, &rule.CreatedAt, &rule.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.AvailabilityRule{}, engine.ErrNotFound
	}
	if err != nil {
		return model.AvailabilityRule{}, fmt.Errorf("get rule: %w", err)
	}
	return rule, nil
}

func (r *AvailabilityRepo) CreateRule(ctx context.Context, rule *model.AvailabilityRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	now := time.Now().UTC()
	q := `INSERT INTO availability_rules (id, builder_id, day_of_week, start_time, end_time, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$6)`
	if _, err := r.db.Exec(ctx, q, rule.ID, rule.BuilderID, rule.DayOfWeek,
		rule.StartTime, rule.EndTime, now); err != nil {
		return fmt.Errorf("insert rule: %w", err)
	}
	rule.CreatedAt = now
	rule.UpdatedAt = now
	return nil
}

func (r *AvailabilityRepo) UpdateRule(ctx context.Context, rule *model.AvailabilityRule) error {
	now := time.Now().UTC()
	q := `UPDATE availability_rules
	      SET day_of_week=$1, start_time=$2, end_time=$3, updated_at=$4
	      WHERE id=$5 AND builder_id=$6`
	tag, err := r.db.Exec(ctx, q, rule.DayOfWeek, rule.StartTime, rule.EndTime, now, rule.ID, rule.BuilderID)
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return engine.ErrNotFound
	}
	rule.UpdatedAt = now
	return nil
}

func (r *AvailabilityRepo) DeleteRule(ctx context.Context, builderID, ruleID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM availability_rules WHERE id=$1 AND builder_id=$2`, ruleID, builderID)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func (r *AvailabilityRepo) ListExceptions(ctx context.Context, builderID uuid.UUID, from, to timeutil.Date) ([]model.AvailabilityException, error) {
	q := `SELECT id, builder_id, date, kind, slots, created_at
	      FROM availability_exceptions
	      WHERE builder_id=$1 AND date >= $2 AND date <= $3
	      ORDER BY date`
	rows, err := r.db.Query(ctx, q, builderID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list exceptions: %w", err)
	}
	defer rows.Close()

	var out []model.AvailabilityException
	for rows.Next() {
		exc, err := scanException(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exc)
	}
	return out, rows.Err()
}

func (r *AvailabilityRepo) CreateException(ctx context.Context, exc *model.AvailabilityException) error {
	if exc.ID == uuid.Nil {
		exc.ID = uuid.New()
	}
	slots, err := json.Marshal(exc.Slots)
	if err != nil {
		return fmt.Errorf("marshal exception slots: %w", err)
	}
	now := time.Now().UTC()
	// One exception per builder per date: a second write for the same date
	// replaces the first.
	q := `INSERT INTO availability_exceptions (id, builder_id, date, kind, slots, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6)
	      ON CONFLICT (builder_id, date)
	      DO UPDATE SET id=EXCLUDED.id, kind=EXCLUDED.kind, slots=EXCLUDED.slots, created_at=EXCLUDED.created_at`
	if _, err := r.db.Exec(ctx, q, exc.ID, exc.BuilderID, exc.Date, exc.Kind, slots, now); err != nil {
		return fmt.Errorf("insert exception: %w", err)
	}
	exc.CreatedAt = now
	return nil
}

func (r *AvailabilityRepo) DeleteException(ctx context.Context, builderID, excID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM availability_exceptions WHERE id=$1 AND builder_id=$2`, excID, builderID)
	if err != nil {
		return fmt.Errorf("delete exception: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func scanException(rows pgx.Rows) (model.AvailabilityException, error) {
	var (
		exc   model.AvailabilityException
		date  time.Time
		slots []byte
	)
	if err := rows.Scan(&exc.ID, &exc.BuilderID, &date, &exc.Kind, &slots, &exc.CreatedAt); err != nil {
		return model.AvailabilityException{}, fmt.Errorf("scan exception: %w", err)
	}
	exc.Date = date.Format(timeutil.DateLayout)
	if err := json.Unmarshal(slots, &exc.Slots); err != nil {
		return model.AvailabilityException{}, fmt.Errorf("unmarshal exception slots: %w", err)
	}
	return exc, nil
}
