package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lubricentro-backend/internal/models"
)

// OilChangeHandler handles API endpoints related to oil-change records.
type OilChangeHandler struct {
	oilChanges OilChangeService
	handoff    HandoffService
}

// NewOilChangeHandler creates a new OilChangeHandler.
func NewOilChangeHandler(oilChanges OilChangeService, handoff HandoffService) *OilChangeHandler {
	return &OilChangeHandler{oilChanges: oilChanges, handoff: handoff}
}

// oilChangeID reads the :id path parameter, answering 400 when it is blank.
func oilChangeID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Oil change ID is required"})
		return "", false
	}
	return id, true
}

// List handles GET /oil-changes. ?q= filters by vehicle, contact or ticket.
func (h *OilChangeHandler) List(c *gin.Context) {
	records, err := h.oilChanges.Search(c.Request.Context(), shopIDFrom(c), c.Query("q"))
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	if records == nil {
		records = []*models.OilChange{}
	}
	c.JSON(http.StatusOK, records)
}

// Create handles POST /oil-changes. The shop's entitlement is charged one change.
func (h *OilChangeHandler) Create(c *gin.Context) {
	var req models.OilChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	rec, err := h.oilChanges.Create(c.Request.Context(), shopIDFrom(c), actorFrom(c), req)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// TicketSuggestion handles GET /oil-changes/ticket-suggestion.
func (h *OilChangeHandler) TicketSuggestion(c *gin.Context) {
	ticket, err := h.oilChanges.SuggestTicket(c.Request.Context(), shopIDFrom(c))
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, TicketSuggestionResponse{TicketNumber: ticket})
}

// Get handles GET /oil-changes/:id.
func (h *OilChangeHandler) Get(c *gin.Context) {
	id, ok := oilChangeID(c)
	if !ok {
		return
	}
	rec, err := h.oilChanges.Get(c.Request.Context(), shopIDFrom(c), id)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Update handles PUT /oil-changes/:id.
func (h *OilChangeHandler) Update(c *gin.Context) {
	id, ok := oilChangeID(c)
	if !ok {
		return
	}
	var req models.OilChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	rec, err := h.oilChanges.Update(c.Request.Context(), shopIDFrom(c), id, actorFrom(c), req)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Delete handles DELETE /oil-changes/:id.
func (h *OilChangeHandler) Delete(c *gin.Context) {
	id, ok := oilChangeID(c)
	if !ok {
		return
	}
	if err := h.oilChanges.Delete(c.Request.Context(), shopIDFrom(c), id, actorFrom(c)); err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Oil change deleted successfully"})
}

// WhatsApp handles GET /oil-changes/:id/whatsapp.
func (h *OilChangeHandler) WhatsApp(c *gin.Context) {
	id, ok := oilChangeID(c)
	if !ok {
		return
	}
	link, err := h.handoff.WhatsAppLink(c.Request.Context(), shopIDFrom(c), id)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// Receipt handles GET /oil-changes/:id/receipt.
func (h *OilChangeHandler) Receipt(c *gin.Context) {
	id, ok := oilChangeID(c)
	if !ok {
		return
	}
	data, contentType, err := h.handoff.Receipt(c.Request.Context(), shopIDFrom(c), id)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="comprobante-%s.txt"`, id))
	c.Data(http.StatusOK, contentType, data)
}
