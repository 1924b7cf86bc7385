package engine

import (
	"context"
	"fmt"
	"time"

	"booking-engine/internal/model"
	"booking-engine/internal/timeutil"
)

// Slot is a candidate bookable interval derived from availability. It is not
// a reservation; it only becomes one through the coordinator.
type Slot struct {
	StartUTC time.Time `json:"start_utc"`
	EndUTC   time.Time `json:"end_utc"`
}

// Generator expands a builder's recurring rules and date exceptions into
// concrete bookable slots. It is read-only and keeps no state between calls,
// so any number of requests may run it concurrently.
type Generator struct {
	availability AvailabilityStore
	bookings     BookingStore
	now          func() time.Time
}

// NewGenerator wires a generator. now may be nil, in which case time.Now is
// used; tests pass a fixed clock.
func NewGenerator(availability AvailabilityStore, bookings BookingStore, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{availability: availability, bookings: bookings, now: now}
}

// AvailableSlots computes the bookable slots for one builder and session type
// within [fromUTC, toUTC). The requested range is intersected with the
// builder's notice and advance-window bounds; a range entirely outside them
// yields no slots rather than an error. Results are ascending by start time.
func (g *Generator) AvailableSlots(ctx context.Context, settings model.SchedulingSettings, st model.SessionType, fromUTC, toUTC time.Time) ([]Slot, error) {
	if !toUTC.After(fromUTC) {
		return nil, fmt.Errorf("%w: from must be before to", ErrValidation)
	}
	if st.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: session duration must be positive", ErrValidation)
	}
	// Paused builders produce no slots at all; this is not an error on the
	// read path.
	if !settings.AcceptingBookings {
		return nil, nil
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := g.now().UTC()
	notBefore := now.Add(time.Duration(settings.MinNoticeMinutes) * time.Minute)
	duration := st.Duration()
	buffer := time.Duration(st.BufferMinutes(settings.BufferMinutes)) * time.Minute
	step := duration + buffer

	// Clamp the day walk to [today, today+maxAdvanceDays] in the builder's
	// timezone, intersected with the requested range.
	firstDay := timeutil.DateOf(fromUTC, loc)
	if today := timeutil.DateOf(now, loc); today.After(firstDay) {
		firstDay = today
	}
	lastDay := timeutil.DateOf(now, loc).AddDays(settings.MaxAdvanceDays)
	if requested := timeutil.DateOf(toUTC, loc); lastDay.After(requested) {
		lastDay = requested
	}
	if firstDay.After(lastDay) {
		return nil, nil
	}

	rules, err := g.availability.ListRules(ctx, settings.BuilderID)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w: %v", ErrStorage, err)
	}
	rulesByDay := make(map[int][]model.AvailabilityRule)
	for _, r := range rules {
		rulesByDay[r.DayOfWeek] = append(rulesByDay[r.DayOfWeek], r)
	}

	exceptions, err := g.availability.ListExceptions(ctx, settings.BuilderID, firstDay, lastDay)
	if err != nil {
		return nil, fmt.Errorf("list exceptions: %w: %v", ErrStorage, err)
	}
	excByDate := make(map[string]model.AvailabilityException, len(exceptions))
	for _, e := range exceptions {
		excByDate[e.Date] = e
	}

	// One booking fetch covers the whole walk; the range is widened by the
	// buffer so padded candidates at the edges still see their neighbors.
	rangeStart := firstDay.AtMinute(0, loc).Add(-buffer)
	rangeEnd := lastDay.Next().AtMinute(0, loc).Add(buffer)
	booked, err := g.bookings.ListActive(ctx, settings.BuilderID, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w: %v", ErrStorage, err)
	}

	var out []Slot
	for day := firstDay; !day.After(lastDay); day = day.Next() {
		windows, err := dayWindows(rulesByDay, excByDate, day)
		if err != nil {
			return nil, err
		}
		for _, w := range windows {
			winStart := day.AtMinute(w.StartMinute, loc)
			winEnd := day.AtMinute(w.EndMinute, loc)
			for cand := winStart; !cand.Add(duration).After(winEnd); cand = cand.Add(step) {
				end := cand.Add(duration)
				if cand.Before(notBefore) {
					continue
				}
				if cand.Before(fromUTC) || !cand.Before(toUTC) {
					continue
				}
				padded := timeutil.Interval{Start: cand, End: end}.Pad(buffer)
				if overlapsAny(padded, booked) {
					continue
				}
				out = append(out, Slot{StartUTC: cand, EndUTC: end})
			}
		}
	}
	return out, nil
}

// SlotValid reports whether startUTC begins a currently generatable slot on
// the day it falls on. The coordinator uses it to re-derive validity before
// committing, so a stale slot fetched before another booking landed is
// rejected.
func (g *Generator) SlotValid(ctx context.Context, settings model.SchedulingSettings, st model.SessionType, startUTC time.Time) (bool, error) {
	loc, err := settings.Location()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	day := timeutil.DateOf(startUTC, loc)
	slots, err := g.AvailableSlots(ctx, settings, st, day.AtMinute(0, loc), day.Next().AtMinute(0, loc))
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s.StartUTC.Equal(startUTC) {
			return true, nil
		}
	}
	return false, nil
}

// dayWindows resolves the availability windows for one date. Exceptions take
// strict precedence: a blocked date has no windows no matter what the weekly
// rules say, and special hours replace the rules outright. Without an
// exception, the rules for the weekday apply, merged into a union so
// overlapping rules do not seed duplicate candidates.
func dayWindows(rulesByDay map[int][]model.AvailabilityRule, excByDate map[string]model.AvailabilityException, day timeutil.Date) ([]timeutil.Window, error) {
	if exc, ok := excByDate[day.String()]; ok {
		if exc.Kind == model.ExceptionBlocked {
			return nil, nil
		}
		windows := make([]timeutil.Window, 0, len(exc.Slots))
		for _, s := range exc.Slots {
			w, err := s.Window()
			if err != nil {
				return nil, fmt.Errorf("exception %s: %w: %v", exc.ID, ErrValidation, err)
			}
			windows = append(windows, w)
		}
		return timeutil.MergeWindows(windows), nil
	}

	rules := rulesByDay[int(day.Weekday())]
	windows := make([]timeutil.Window, 0, len(rules))
	for _, r := range rules {
		w, err := r.Window()
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w: %v", r.ID, ErrValidation, err)
		}
		windows = append(windows, w)
	}
	return timeutil.MergeWindows(windows), nil
}

func overlapsAny(iv timeutil.Interval, bookings []model.Booking) bool {
	for _, b := range bookings {
		if iv.Overlaps(b.Interval()) {
			return true
		}
	}
	return false
}
