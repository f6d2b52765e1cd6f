package dailycharge

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
	charges := rg.Group("/bookings/:bookingId/pets/:bookingPetId/daily-charges")
	{
		charges.GET("", h.List)
		charges.POST("", h.Create)
		charges.POST("/generate-today", h.GenerateToday)
		charges.POST("/generate-range", h.GenerateRange)
		charges.POST("/generate-until-checkout", h.GenerateUntilCheckout)
	}
}

func ids(c *gin.Context) (int64, int64, bool) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return 0, 0, false
	}
	bookingPetID, ok := utils.ParamID(c, "bookingPetId")
	if !ok {
		return 0, 0, false
	}
	return bookingID, bookingPetID, true
}

func (h *Handler) List(c *gin.Context) {
	bookingID, bookingPetID, ok := ids(c)
	if !ok {
		return
	}
	charges, err := h.service.List(c.Request.Context(), bookingID, bookingPetID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, charges)
}

func (h *Handler) Create(c *gin.Context) {
	bookingID, bookingPetID, ok := ids(c)
	if !ok {
		return
	}

	var req CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	dc, err := h.service.Create(c.Request.Context(), bookingID, bookingPetID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dc)
}

func (h *Handler) GenerateToday(c *gin.Context) {
	bookingID, bookingPetID, ok := ids(c)
	if !ok {
		return
	}
	res, err := h.service.GenerateToday(c.Request.Context(), bookingID, bookingPetID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, res)
}

// GenerateRange takes start/end from a JSON body or, without one, from the query.
func (h *Handler) GenerateRange(c *gin.Context) {
	bookingID, bookingPetID, ok := ids(c)
	if !ok {
		return
	}

	var req RangeRequest
	var err error
	if c.Request.ContentLength > 0 {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.GenerateRange(c.Request.Context(), bookingID, bookingPetID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GenerateUntilCheckout(c *gin.Context) {
	bookingID, bookingPetID, ok := ids(c)
	if !ok {
		return
	}
	res, err := h.service.GenerateUntilCheckout(c.Request.Context(), bookingID, bookingPetID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}
