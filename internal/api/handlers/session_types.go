package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-engine/internal/model"
)

// POST /api/builders/:id/session-types
func (h *Handlers) CreateSessionType(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var payload model.SessionType
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload.BuilderID = builderID
	if err := payload.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.SessionTypes.Create(c.Request.Context(), &payload); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, payload)
}

// GET /api/builders/:id/session-types
func (h *Handlers) ListSessionTypes(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	types, err := h.SessionTypes.ListByBuilder(c.Request.Context(), builderID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// PUT /api/builders/:id/session-types/:type_id
func (h *Handlers) UpdateSessionType(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	typeID, ok := pathUUID(c, "type_id")
	if !ok {
		return
	}
	var payload model.SessionType
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload.ID = typeID
	payload.BuilderID = builderID
	if err := payload.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.SessionTypes.Update(c.Request.Context(), &payload); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// DELETE /api/builders/:id/session-types/:type_id
func (h *Handlers) DeleteSessionType(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	typeID, ok := pathUUID(c, "type_id")
	if !ok {
		return
	}
	if err := h.SessionTypes.Delete(c.Request.Context(), builderID, typeID); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
