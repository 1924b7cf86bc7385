package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GET /api/builders/:id/slots?session_type=UUID&from=ISO&to=ISO
// Read-only and idempotent; a calendar UI may call it on every navigation.
func (h *Handlers) GetSlots(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sessionTypeID, err := uuid.Parse(c.Query("session_type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_type required (UUID)"})
		return
	}
	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr == "" || toStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to required (RFC3339)"})
		return
	}
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
		return
	}

	slots, err := h.Coordinator.AvailableSlots(c.Request.Context(), builderID, sessionTypeID, from.UTC(), to.UTC())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots, "count": len(slots)})
}
