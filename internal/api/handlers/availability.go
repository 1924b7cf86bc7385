package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"booking-engine/internal/model"
	"booking-engine/internal/timeutil"
)

// POST /api/builders/:id/availability
// Accepts a list of weekly rules and creates them all.
func (h *Handlers) CreateRules(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var payload []model.AvailabilityRule
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	var saved []model.AvailabilityRule
	for i := range payload {
		payload[i].BuilderID = builderID
		if err := payload[i].Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := h.Availability.CreateRule(ctx, &payload[i]); err != nil {
			h.respondErr(c, err)
			return
		}
		saved = append(saved, payload[i])
	}
	c.JSON(http.StatusCreated, saved)
}

// GET /api/builders/:id/availability
func (h *Handlers) ListRules(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rules, err := h.Availability.ListRules(c.Request.Context(), builderID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// PUT /api/builders/:id/availability/:rule_id
func (h *Handlers) UpdateRule(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	ruleID, ok := pathUUID(c, "rule_id")
	if !ok {
		return
	}
	var payload model.AvailabilityRule
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload.ID = ruleID
	payload.BuilderID = builderID
	if err := payload.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Availability.UpdateRule(c.Request.Context(), &payload); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// DELETE /api/builders/:id/availability/:rule_id
func (h *Handlers) DeleteRule(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	ruleID, ok := pathUUID(c, "rule_id")
	if !ok {
		return
	}
	if err := h.Availability.DeleteRule(c.Request.Context(), builderID, ruleID); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /api/builders/:id/exceptions
func (h *Handlers) CreateException(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var payload model.AvailabilityException
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload.BuilderID = builderID
	if err := payload.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Availability.CreateException(c.Request.Context(), &payload); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, payload)
}

// GET /api/builders/:id/exceptions?from=YYYY-MM-DD&to=YYYY-MM-DD
// Defaults to the next year when no range is given.
func (h *Handlers) ListExceptions(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	from := timeutil.DateOf(time.Now(), time.UTC)
	to := from.AddDays(365)
	if s := c.Query("from"); s != "" {
		var err error
		if from, err = timeutil.ParseDate(s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
	}
	if s := c.Query("to"); s != "" {
		var err error
		if to, err = timeutil.ParseDate(s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
	}
	exceptions, err := h.Availability.ListExceptions(c.Request.Context(), builderID, from, to)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, exceptions)
}

// DELETE /api/builders/:id/exceptions/:exception_id
func (h *Handlers) DeleteException(c *gin.Context) {
	builderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	excID, ok := pathUUID(c, "exception_id")
	if !ok {
		return
	}
	if err := h.Availability.DeleteException(c.Request.Context(), builderID, excID); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
