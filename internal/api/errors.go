package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lubricentro-backend/internal/core"
	"lubricentro-backend/internal/middleware"
)

// mapErrorToStatus maps errors from the core services to HTTP status codes and ErrorResponse.
func mapErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	var validationErr *core.ValidationError
	switch {
	case errors.As(err, &validationErr):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrValidationFailed.Error(), Fields: validationErr.Fields}
	case errors.Is(err, core.ErrValidationFailed):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrValidationFailed.Error(), Details: err.Error()}
	case errors.Is(err, core.ErrNotAuthenticated):
		statusCode = http.StatusUnauthorized
		errResponse = ErrorResponse{Error: core.ErrNotAuthenticated.Error()}
	case errors.Is(err, core.ErrForbidden), errors.Is(err, core.ErrAccountDisabled):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrEntitlementInactive),
		errors.Is(err, core.ErrEntitlementExpired),
		errors.Is(err, core.ErrEntitlementExhausted):
		// The shop has to buy or renew a plan before it can record more services.
		statusCode = http.StatusPaymentRequired
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrTrialAlreadyUsed),
		errors.Is(err, core.ErrShopExists),
		errors.Is(err, core.ErrEmployeeExists):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrExternalAppUnavailable):
		statusCode = http.StatusServiceUnavailable
		errResponse = ErrorResponse{Error: core.ErrExternalAppUnavailable.Error()}
	default:
		zap.L().Error("Internal Server Error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(middleware.CtxRequestID)),
		)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

func badPayload(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
}
