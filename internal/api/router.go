// Package api assembles the gin router for the scheduling engine.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-engine/internal/api/handlers"
	"booking-engine/internal/api/middleware"
	"booking-engine/internal/config"
)

// NewRouter wires middleware and routes. The health endpoint sits outside the
// auth middleware so probes need no token.
func NewRouter(cfg *config.Config, h *handlers.Handlers, logger *slog.Logger) *gin.Engine {
	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := router.Group("/api")
	authed.Use(middleware.Auth(cfg.Auth))
	{
		builders := authed.Group("/builders/:id")
		{
			builders.POST("/availability", h.CreateRules)
			builders.GET("/availability", h.ListRules)
			builders.PUT("/availability/:rule_id", h.UpdateRule)
			builders.DELETE("/availability/:rule_id", h.DeleteRule)

			builders.POST("/exceptions", h.CreateException)
			builders.GET("/exceptions", h.ListExceptions)
			builders.DELETE("/exceptions/:exception_id", h.DeleteException)

			builders.GET("/settings", h.GetSettings)
			builders.PUT("/settings", h.PutSettings)

			builders.POST("/session-types", h.CreateSessionType)
			builders.GET("/session-types", h.ListSessionTypes)
			builders.PUT("/session-types/:type_id", h.UpdateSessionType)
			builders.DELETE("/session-types/:type_id", h.DeleteSessionType)

			builders.GET("/slots", h.GetSlots)
			builders.POST("/bookings", h.CreateBooking)
			builders.GET("/bookings", h.ListBookings)
		}

		authed.DELETE("/bookings/:id", h.CancelBooking)
		authed.POST("/bookings/:id/confirm", h.ConfirmBooking)
		authed.POST("/bookings/:id/complete", h.CompleteBooking)
	}

	return router
}
