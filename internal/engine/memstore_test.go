package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/model"
	"booking-engine/internal/timeutil"
)

// memStore backs the engine tests with an in-memory implementation of every
// store port. InsertIfFree holds the mutex across check and insert, matching
// the atomicity contract the Postgres implementation provides.
type memStore struct {
	mu           sync.Mutex
	rules        []model.AvailabilityRule
	exceptions   []model.AvailabilityException
	bookings     map[uuid.UUID]model.Booking
	settings     map[uuid.UUID]model.SchedulingSettings
	sessionTypes map[uuid.UUID]model.SessionType

	forcedErr error // when set, every call fails with it
}

func newMemStore() *memStore {
	return &memStore{
		bookings:     make(map[uuid.UUID]model.Booking),
		settings:     make(map[uuid.UUID]model.SchedulingSettings),
		sessionTypes: make(map[uuid.UUID]model.SessionType),
	}
}

func (m *memStore) ListRules(_ context.Context, builderID uuid.UUID) ([]model.AvailabilityRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	var out []model.AvailabilityRule
	for _, r := range m.rules {
		if r.BuilderID == builderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) GetRule(_ context.Context, builderID, ruleID uuid.UUID) (model.AvailabilityRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rules {
		if r.BuilderID == builderID && r.ID == ruleID {
			return r, nil
		}
	}
	return model.AvailabilityRule{}, ErrNotFound
}

func (m *memStore) CreateRule(_ context.Context, rule *model.AvailabilityRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	m.rules = append(m.rules, *rule)
	return nil
}

func (m *memStore) UpdateRule(_ context.Context, rule *model.AvailabilityRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rules {
		if r.ID == rule.ID && r.BuilderID == rule.BuilderID {
			m.rules[i] = *rule
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) DeleteRule(_ context.Context, builderID, ruleID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rules {
		if r.ID == ruleID && r.BuilderID == builderID {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) ListExceptions(_ context.Context, builderID uuid.UUID, from, to timeutil.Date) ([]model.AvailabilityException, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	var out []model.AvailabilityException
	for _, e := range m.exceptions {
		if e.BuilderID != builderID {
			continue
		}
		// YYYY-MM-DD compares correctly as a string.
		if e.Date >= from.String() && e.Date <= to.String() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) CreateException(_ context.Context, exc *model.AvailabilityException) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exc.ID == uuid.Nil {
		exc.ID = uuid.New()
	}
	m.exceptions = append(m.exceptions, *exc)
	return nil
}

func (m *memStore) DeleteException(_ context.Context, builderID, excID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.exceptions {
		if e.ID == excID && e.BuilderID == builderID {
			m.exceptions = append(m.exceptions[:i], m.exceptions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) ListActive(_ context.Context, builderID uuid.UUID, from, to time.Time) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	span := timeutil.Interval{Start: from, End: to}
	var out []model.Booking
	for _, b := range m.bookings {
		if b.BuilderID == builderID && b.IsActive() && span.Overlaps(b.Interval()) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) List(_ context.Context, builderID uuid.UUID, from, to time.Time) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, b := range m.bookings {
		if b.BuilderID != builderID {
			continue
		}
		if !from.IsZero() && b.StartTime.Before(from) {
			continue
		}
		if !to.IsZero() && !b.StartTime.Before(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return model.Booking{}, ErrNotFound
	}
	return b, nil
}

func (m *memStore) InsertIfFree(_ context.Context, booking *model.Booking, padded timeutil.Interval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return m.forcedErr
	}
	for _, b := range m.bookings {
		if b.BuilderID == booking.BuilderID && b.IsActive() && padded.Overlaps(b.Interval()) {
			return ErrSlotUnavailable
		}
	}
	booking.CreatedAt = time.Now().UTC()
	m.bookings[booking.ID] = *booking
	return nil
}

func (m *memStore) UpdateStatus(_ context.Context, id uuid.UUID, from []model.BookingStatus, to model.BookingStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			b.UpdatedAt = time.Now().UTC()
			m.bookings[id] = b
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ExpirePending(_ context.Context, cutoff time.Time) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for id, b := range m.bookings {
		if b.Status == model.StatusPending && b.CreatedAt.Before(cutoff) {
			b.Status = model.StatusCancelled
			m.bookings[id] = b
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) GetSettings(_ context.Context, builderID uuid.UUID) (model.SchedulingSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return model.SchedulingSettings{}, m.forcedErr
	}
	s, ok := m.settings[builderID]
	if !ok {
		return model.DefaultSettings(builderID), nil
	}
	return s, nil
}

func (m *memStore) PutSettings(_ context.Context, settings model.SchedulingSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[settings.BuilderID] = settings
	return nil
}

func (m *memStore) GetSessionType(_ context.Context, id uuid.UUID) (model.SessionType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return model.SessionType{}, m.forcedErr
	}
	st, ok := m.sessionTypes[id]
	if !ok {
		return model.SessionType{}, ErrNotFound
	}
	return st, nil
}

func (m *memStore) ListSessionTypes(_ context.Context, builderID uuid.UUID) ([]model.SessionType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.SessionType
	for _, st := range m.sessionTypes {
		if st.BuilderID == builderID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *memStore) CreateSessionType(_ context.Context, st *model.SessionType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	m.sessionTypes[st.ID] = *st
	return nil
}

func (m *memStore) UpdateSessionType(_ context.Context, st *model.SessionType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessionTypes[st.ID]; !ok {
		return ErrNotFound
	}
	m.sessionTypes[st.ID] = *st
	return nil
}

func (m *memStore) DeleteSessionType(_ context.Context, builderID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessionTypes[id]
	if !ok || st.BuilderID != builderID {
		return ErrNotFound
	}
	delete(m.sessionTypes, id)
	return nil
}

// Adapters so one memStore satisfies every port despite method name overlap
// on the narrower interfaces.

type memSettings struct{ *memStore }

func (m memSettings) Get(ctx context.Context, builderID uuid.UUID) (model.SchedulingSettings, error) {
	return m.GetSettings(ctx, builderID)
}
func (m memSettings) Put(ctx context.Context, s model.SchedulingSettings) error {
	return m.PutSettings(ctx, s)
}

type memSessionTypes struct{ *memStore }

func (m memSessionTypes) Get(ctx context.Context, id uuid.UUID) (model.SessionType, error) {
	return m.GetSessionType(ctx, id)
}
func (m memSessionTypes) ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]model.SessionType, error) {
	return m.ListSessionTypes(ctx, builderID)
}
func (m memSessionTypes) Create(ctx context.Context, st *model.SessionType) error {
	return m.CreateSessionType(ctx, st)
}
func (m memSessionTypes) Update(ctx context.Context, st *model.SessionType) error {
	return m.UpdateSessionType(ctx, st)
}
func (m memSessionTypes) Delete(ctx context.Context, builderID, id uuid.UUID) error {
	return m.DeleteSessionType(ctx, builderID, id)
}
