package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"booking-engine/internal/config"
	"booking-engine/internal/engine"
)

const actorKey = "auth.actor"

// Auth accepts either a JWT signed with the configured HMAC secret or one of
// the configured static tokens. JWTs carry the caller identity (sub, admin
// claim); static tokens are for trusted service-to-service calls and act as
// admin.
func Auth(cfg config.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		tokenStr := parts[1]

		if cfg.JWTSecret != "" {
			if actor, ok := parseJWT(tokenStr, cfg.JWTSecret); ok {
				c.Set(actorKey, actor)
				c.Next()
				return
			}
		}

		for _, t := range cfg.StaticTokens {
			if tokenStr == strings.TrimSpace(t) {
				c.Set(actorKey, engine.Actor{Admin: true})
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	}
}

func parseJWT(tokenStr, secret string) (engine.Actor, bool) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil {
		return engine.Actor{}, false
	}

	var actor engine.Actor
	if sub, err := claims.GetSubject(); err == nil {
		if id, err := uuid.Parse(sub); err == nil {
			actor.ID = id
		}
	}
	if admin, ok := claims["admin"].(bool); ok {
		actor.Admin = admin
	}
	return actor, true
}

// ActorFrom returns the authenticated actor set by Auth.
func ActorFrom(c *gin.Context) engine.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(engine.Actor); ok {
			return actor
		}
	}
	return engine.Actor{}
}
