package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-engine/internal/model"
)

// GET /api/builders/:id/settings
func (h *Handlers) GetSettings(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	settings, err := h.Settings.Get(c.Request.Context(), builderID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PUT /api/builders/:id/settings
func (h *Handlers) PutSettings(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var payload model.SchedulingSettings
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload.BuilderID = builderID
	if err := payload.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Settings.Put(c.Request.Context(), payload); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}
