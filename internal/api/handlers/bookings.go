package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booking-engine/internal/api/middleware"
)

type createBookingReq struct {
	ClientID      string `json:"client_id" binding:"required"`
	SessionTypeID string `json:"session_type_id" binding:"required"`
	StartAtUTC    string `json:"start_at_utc" binding:"required"` // RFC3339
}

// POST /api/builders/:id/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req createBookingReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}
	sessionTypeID, err := uuid.Parse(req.SessionTypeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_type_id"})
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartAtUTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_at_utc"})
		return
	}

	booking, err := h.Coordinator.CreateBooking(c.Request.Context(), builderID, clientID, sessionTypeID, start)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GET /api/builders/:id/bookings?from=ISO&to=ISO
func (h *Handlers) ListBookings(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var from, to time.Time
	if fromStr, toStr := c.Query("from"), c.Query("to"); fromStr != "" && toStr != "" {
		var err error
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
		if !from.Before(to) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be before to"})
			return
		}
	}
	bookings, err := h.Bookings.List(c.Request.Context(), builderID, from, to)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// DELETE /api/bookings/:id
// Allowed for the booking's client, the builder, or an admin; repeating a
// cancellation is a no-op.
func (h *Handlers) CancelBooking(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.Coordinator.CancelBooking(c.Request.Context(), bookingID, middleware.ActorFrom(c)); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /api/bookings/:id/confirm
// Called by the payment integration once capture succeeds.
func (h *Handlers) ConfirmBooking(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	booking, err := h.Coordinator.ConfirmBooking(c.Request.Context(), bookingID, middleware.ActorFrom(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// POST /api/bookings/:id/complete
func (h *Handlers) CompleteBooking(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	booking, err := h.Coordinator.CompleteBooking(c.Request.Context(), bookingID, middleware.ActorFrom(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
