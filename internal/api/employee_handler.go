package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lubricentro-backend/internal/models"
)

// EmployeeHandler handles the owner's employee management endpoints.
type EmployeeHandler struct {
	employees EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employees EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// List handles GET /employees.
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employees.List(c.Request.Context(), shopIDFrom(c))
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	if employees == nil {
		employees = []*models.Employee{}
	}
	c.JSON(http.StatusOK, employees)
}

// Create handles POST /employees.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req models.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	emp, err := h.employees.Create(c.Request.Context(), shopIDFrom(c), actorFrom(c), req)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, emp)
}

// Update handles PUT /employees/:id.
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req models.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	emp, err := h.employees.Update(c.Request.Context(), shopIDFrom(c), c.Param("id"), actorFrom(c), req)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, emp)
}

// Delete handles DELETE /employees/:id.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employees.Delete(c.Request.Context(), shopIDFrom(c), c.Param("id"), actorFrom(c)); err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Employee deleted successfully"})
}
