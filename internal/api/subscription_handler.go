package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lubricentro-backend/internal/models"
)

// SubscriptionHandler handles entitlement status, the trial and plan requests.
type SubscriptionHandler struct {
	entitlements  EntitlementService
	trials        TrialService
	subscriptions SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(entitlements EntitlementService, trials TrialService, subscriptions SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{entitlements: entitlements, trials: trials, subscriptions: subscriptions}
}

// Status handles GET /entitlements/status.
func (h *SubscriptionHandler) Status(c *gin.Context) {
	st, err := h.entitlements.Status(c.Request.Context(), shopIDFrom(c))
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// ListEntitlements handles GET /entitlements.
func (h *SubscriptionHandler) ListEntitlements(c *gin.Context) {
	records, err := h.entitlements.List(c.Request.Context(), shopIDFrom(c))
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	if records == nil {
		records = []*models.Entitlement{}
	}
	c.JSON(http.StatusOK, records)
}

// ActivateTrial handles POST /entitlements/trial.
func (h *SubscriptionHandler) ActivateTrial(c *gin.Context) {
	trial, err := h.trials.Activate(c.Request.Context(), shopIDFrom(c), actorFrom(c))
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, trial)
}

// Plans handles GET /plans. This endpoint is public.
func (h *SubscriptionHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, h.subscriptions.Plans())
}

// CreateRequest handles POST /subscription-requests.
func (h *SubscriptionHandler) CreateRequest(c *gin.Context) {
	var req models.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	sr, err := h.subscriptions.Request(c.Request.Context(), shopIDFrom(c), actorFrom(c), req)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, sr)
}

// ListRequests handles GET /subscription-requests.
func (h *SubscriptionHandler) ListRequests(c *gin.Context) {
	requests, err := h.subscriptions.List(c.Request.Context(), shopIDFrom(c))
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	if requests == nil {
		requests = []*models.SubscriptionRequest{}
	}
	c.JSON(http.StatusOK, requests)
}
