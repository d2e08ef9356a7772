package api

import (
	"github.com/gin-gonic/gin"

	"lubricentro-backend/internal/core"
	"lubricentro-backend/internal/middleware"
)

// actorFrom describes the caller for auditing. The resolved access name wins
// over the token's display name.
func actorFrom(c *gin.Context) core.Actor {
	actor := core.Actor{
		UserID:      c.GetString(middleware.CtxUserID),
		DisplayName: c.GetString(middleware.CtxUserDisplayName),
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}
	if access, ok := middleware.AccessFrom(c); ok && access.DisplayName != "" {
		actor.DisplayName = access.DisplayName
	}
	return actor
}

// shopIDFrom returns the shop resolved by middleware.ResolveAccess.
func shopIDFrom(c *gin.Context) string {
	return c.GetString(middleware.CtxShopID)
}
