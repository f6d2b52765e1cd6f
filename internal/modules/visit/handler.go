package visit

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
	rg.POST("/bookings/:bookingId/pets/:bookingPetId/visits", h.Create)
	rg.GET("/bookings/:bookingId/pets/:bookingPetId/visits", h.List)
}

func (h *Handler) Create(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}
	bookingPetID, ok := utils.ParamID(c, "bookingPetId")
	if !ok {
		return
	}

	var req CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	v, err := h.service.Create(c.Request.Context(), bookingID, bookingPetID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v)
}

func (h *Handler) List(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}
	bookingPetID, ok := utils.ParamID(c, "bookingPetId")
	if !ok {
		return
	}

	visits, err := h.service.List(c.Request.Context(), bookingID, bookingPetID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, visits)
}
