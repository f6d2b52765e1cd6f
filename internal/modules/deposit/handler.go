package deposit

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petcare/internal/pkg/response"
	"petcare/internal/pkg/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:bookingId/deposits", h.Create)
	rg.GET("/bookings/:bookingId/deposits", h.List)
}

func (h *Handler) Create(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	var req CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	d, err := h.service.Create(c.Request.Context(), bookingID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, d)
}

func (h *Handler) List(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	deposits, err := h.service.List(c.Request.Context(), bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, deposits)
}
