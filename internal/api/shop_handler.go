package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lubricentro-backend/internal/middleware"
	"lubricentro-backend/internal/models"
)

// ShopHandler handles registration, the caller's identity and the shop profile.
type ShopHandler struct {
	shops     ShopService
	employees EmployeeService
	overview  OverviewService
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(shops ShopService, employees EmployeeService, overview OverviewService) *ShopHandler {
	return &ShopHandler{shops: shops, employees: employees, overview: overview}
}

// Register handles POST /shops/register.
// Called once after sign-up; the caller becomes the owner and the trial starts.
func (h *ShopHandler) Register(c *gin.Context) {
	var req models.RegisterShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	shop, trial, err := h.shops.Register(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, RegisterShopResponse{Shop: shop, Trial: trial})
}

// SelfRegisterEmployee handles POST /employees/self-register.
func (h *ShopHandler) SelfRegisterEmployee(c *gin.Context) {
	var req models.EmployeeSelfRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	emp, err := h.employees.SelfRegister(c.Request.Context(), actorFrom(c), c.GetString(middleware.CtxUserEmail), req)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, emp)
}

// Me handles GET /me.
func (h *ShopHandler) Me(c *gin.Context) {
	access, ok := middleware.AccessFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Access not resolved for this request"})
		return
	}
	shop, err := h.shops.Get(c.Request.Context(), access.ShopID)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, MeResponse{Access: access, Shop: shop})
}

// Overview handles GET /overview.
func (h *ShopHandler) Overview(c *gin.Context) {
	ov, err := h.overview.Get(c.Request.Context(), shopIDFrom(c))
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

// GetShop handles GET /shop.
func (h *ShopHandler) GetShop(c *gin.Context) {
	shop, err := h.shops.Get(c.Request.Context(), shopIDFrom(c))
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

// UpdateShop handles PUT /shop.
func (h *ShopHandler) UpdateShop(c *gin.Context) {
	var req models.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	shop, err := h.shops.Update(c.Request.Context(), shopIDFrom(c), actorFrom(c), req)
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}
