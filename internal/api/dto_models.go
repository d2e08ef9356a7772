package api

import "lubricentro-backend/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string            `json:"error"`             // A high-level error message or code
	Details string            `json:"details,omitempty"` // More specific details about the error, if available
	Fields  map[string]string `json:"fields,omitempty"`  // Failed validation rule per JSON field
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RegisterShopResponse is returned by POST /shops/register.
type RegisterShopResponse struct {
	Shop  *models.ShopProfile `json:"shop"`
	Trial *models.Entitlement `json:"trial,omitempty"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	Access *models.Access      `json:"access"`
	Shop   *models.ShopProfile `json:"shop"`
}

// TicketSuggestionResponse is returned by GET /oil-changes/ticket-suggestion.
type TicketSuggestionResponse struct {
	TicketNumber string `json:"ticketNumber"`
}
