package mix

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
	rg.GET("/mix-products", h.List)
	rg.POST("/mix-products", h.Create)
	rg.POST("/bookings/:bookingId/pets/:bookingPetId/mix-usage", h.Use)
	rg.POST("/bookings/:bookingId/pets/:bookingPetId/quick-mix", h.UseQuick)
}

func (h *Handler) List(c *gin.Context) {
	mixes, err := h.service.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mixes)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateMixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	m, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

func (h *Handler) Use(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}
	bookingPetID, ok := utils.ParamID(c, "bookingPetId")
	if !ok {
		return
	}

	var req UseMixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	mu, err := h.service.Use(c.Request.Context(), bookingID, bookingPetID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, mu)
}

func (h *Handler) UseQuick(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}
	bookingPetID, ok := utils.ParamID(c, "bookingPetId")
	if !ok {
		return
	}

	var req QuickMixUseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	mu, err := h.service.UseQuick(c.Request.Context(), bookingID, bookingPetID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, mu)
}
