package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by the middleware in this package.
const (
	CtxUserID          = "userID"
	CtxUserEmail       = "userEmail"
	CtxUserDisplayName = "userDisplayName"
	CtxShopID          = "shopID"
	CtxRole            = "role"
	CtxAccess          = "access"
	CtxRequestID       = "requestID"
)

// ErrorResponse is a local definition for sending standardized error messages.
// It mirrors the one in internal/api/dto_models.go to avoid import cycles.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TokenVerifier checks a bearer token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// DevTokenVerifier accepts "dev:<uid>" tokens, and the bare token "dev" as DefaultUID.
// It must only be used with the in-memory storage driver.
type DevTokenVerifier struct {
	DefaultUID string
}

// VerifyIDToken implements TokenVerifier.
func (v DevTokenVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	uid := ""
	switch {
	case idToken == "dev":
		uid = v.DefaultUID
	case strings.HasPrefix(idToken, "dev:"):
		uid = strings.TrimPrefix(idToken, "dev:")
	}
	if uid == "" {
		return nil, errors.New("not a development token")
	}
	return &auth.Token{
		UID: uid,
		Claims: map[string]interface{}{
			"email": uid + "@dev.local",
			"name":  uid,
		},
	}, nil
}

// AuthMiddleware provides Gin middleware for bearer token authentication.
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("AuthMiddleware requires a non-nil TokenVerifier")
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// VerifyToken is a Gin middleware handler function that verifies the ID token
// from the Authorization header. If valid, it sets user information in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Warn("Error verifying ID token", zap.Error(err), zap.String("path", c.Request.URL.Path))
			// Details stay in the server log.
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set(CtxUserID, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(CtxUserEmail, email)
		}
		if name, ok := token.Claims["name"].(string); ok {
			c.Set(CtxUserDisplayName, name)
		}
		c.Next()
	}
}
