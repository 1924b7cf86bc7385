// Package handlers holds the gin handlers for the scheduling engine's HTTP
// surface. Handlers bind and validate input, delegate to the engine or the
// stores, and map the engine's failure taxonomy onto HTTP statuses.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booking-engine/internal/engine"
)

type Handlers struct {
	Coordinator  *engine.Coordinator
	Availability engine.AvailabilityStore
	Bookings     engine.BookingStore
	Settings     engine.SettingsStore
	SessionTypes engine.SessionTypeStore
	Logger       *slog.Logger
}

func New(coordinator *engine.Coordinator, availability engine.AvailabilityStore, bookings engine.BookingStore, settings engine.SettingsStore, sessionTypes engine.SessionTypeStore, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Coordinator:  coordinator,
		Availability: availability,
		Bookings:     bookings,
		Settings:     settings,
		SessionTypes: sessionTypes,
		Logger:       logger,
	}
}

// respondErr translates engine errors into HTTP responses. SlotUnavailable
// and Storage map to different statuses on purpose: 409 tells the client to
// re-query slots, 503 tells it the request may be retried as-is.
func (h *Handlers) respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, engine.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, engine.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "slot is not available"})
	case errors.Is(err, engine.ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrNotAcceptingBookings):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "builder is not accepting bookings"})
	case errors.Is(err, engine.ErrStorage):
		h.Logger.ErrorContext(c.Request.Context(), "storage failure", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporary storage failure"})
	default:
		h.Logger.ErrorContext(c.Request.Context(), "unhandled error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
