package engine

import "errors"

// Failure taxonomy surfaced to callers. SlotUnavailable and Storage are kept
// distinct on purpose: only a storage failure is safe to retry blindly, while
// a lost slot requires the caller to re-query availability first.
var (
	ErrValidation           = errors.New("invalid request")
	ErrSlotUnavailable      = errors.New("slot is not available")
	ErrNotAcceptingBookings = errors.New("builder is not accepting bookings")
	ErrStorage              = errors.New("storage failure")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrAlreadyCompleted     = errors.New("booking is already completed")
)
