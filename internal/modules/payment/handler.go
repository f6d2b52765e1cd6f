package payment

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
	rg.GET("/bookings/:bookingId/payments", h.List)
	rg.POST("/bookings/:bookingId/payments/refund", h.Refund)
}

// List returns the payments and refunds of a booking.
// @Summary		List payments
// @Tags		Payments
// @Security	BearerAuth
// @Param		bookingId	path	int	true	"Booking ID"
// @Success		200	{array}		domain.Payment
// @Failure		404	{object}	map[string]interface{} "Booking not found"
// @Router		/bookings/:bookingId/payments [GET]
func (h *Handler) List(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	payments, err := h.service.List(c.Request.Context(), bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, payments)
}

// Refund records a negative payment against a booking.
// @Summary		Refund
// @Description	Stores the refund as a payment with a negative total. Method defaults to REFUND.
// @Tags		Payments
// @Security	BearerAuth
// @Param		bookingId	path	int				true	"Booking ID"
// @Param		request		body	RefundRequest	true	"Refund amount and method"
// @Success		201	{object}	domain.Payment
// @Failure		400	{object}	map[string]interface{} "Validation error"
// @Failure		403	{object}	map[string]interface{} "Forbidden"
// @Router		/bookings/:bookingId/payments/refund [POST]
func (h *Handler) Refund(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	p, err := h.service.Refund(c.Request.Context(), bookingID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}
