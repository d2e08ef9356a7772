package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lubricentro-backend/internal/core"
	"lubricentro-backend/internal/models"
)

// AccessResolver maps an authenticated user onto a shop and role.
type AccessResolver interface {
	ResolveAccess(ctx context.Context, uid, displayName string) (*models.Access, error)
}

func accessErrorStatus(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, core.ErrNotAuthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: core.ErrNotAuthenticated.Error()}
	case errors.Is(err, core.ErrAccountDisabled):
		return http.StatusForbidden, ErrorResponse{Error: core.ErrAccountDisabled.Error(), Details: "ask the shop owner to enable your account"}
	case errors.Is(err, core.ErrShopNotFound):
		return http.StatusNotFound, ErrorResponse{Error: core.ErrShopNotFound.Error(), Details: "register a shop or ask to be added as an employee"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
}

// ResolveAccess must run after VerifyToken. It stores the caller's shop,
// role and access record in the Gin context.
func ResolveAccess(resolver AccessResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, err := resolver.ResolveAccess(c.Request.Context(), c.GetString(CtxUserID), c.GetString(CtxUserDisplayName))
		if err != nil {
			status, resp := accessErrorStatus(err)
			if status == http.StatusInternalServerError {
				logger.Error("Access resolution failed", zap.String("user_id", c.GetString(CtxUserID)), zap.Error(err))
			}
			c.AbortWithStatusJSON(status, resp)
			return
		}
		c.Set(CtxShopID, access.ShopID)
		c.Set(CtxRole, access.Role)
		c.Set(CtxAccess, access)
		c.Next()
	}
}

// RequireOwner rejects callers whose resolved role is not owner.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		access, ok := AccessFrom(c)
		if !ok || !access.IsOwner() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: core.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

// AccessFrom returns the access record stored by ResolveAccess.
func AccessFrom(c *gin.Context) (*models.Access, bool) {
	v, exists := c.Get(CtxAccess)
	if !exists {
		return nil, false
	}
	access, ok := v.(*models.Access)
	return access, ok
}
