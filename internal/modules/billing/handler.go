package billing

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
	billing := rg.Group("/bookings/:bookingId/billing")
	{
		billing.GET("/estimate", h.Estimate)
		billing.POST("/checkout", h.Checkout)
		billing.GET("/invoice", h.Invoice)
		billing.PATCH("/item-discount", h.UpdateItemDiscount)
	}
}

// Estimate handles GET /bookings/:bookingId/billing/estimate
// @Summary		Billing estimate
// @Description	Itemised bill of the booking as it stands now: service lines, usages, daily charges, deposits and the amount still due.
// @Tags		Billing
// @Security	BearerAuth
// @Param		bookingId	path	int	true	"Booking ID"
// @Success		200	{object}	Estimate
// @Failure		404	{object}	map[string]interface{} "Booking not found"
// @Router		/bookings/:bookingId/billing/estimate [GET]
func (h *Handler) Estimate(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	est, err := h.service.Estimate(c.Request.Context(), bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, est)
}

// Checkout handles POST /bookings/:bookingId/billing/checkout
// @Summary		Checkout
// @Description	Applies the booking discount, records the payment and completes the booking. The body is optional.
// @Tags		Billing
// @Security	BearerAuth
// @Param		bookingId	path	int				true	"Booking ID"
// @Param		request		body	CheckoutRequest	false	"Method and discount percent"
// @Success		200	{object}	CheckoutResult
// @Failure		400	{object}	map[string]interface{} "Booking already completed"
// @Failure		404	{object}	map[string]interface{} "Booking not found"
// @Router		/bookings/:bookingId/billing/checkout [POST]
func (h *Handler) Checkout(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	var req CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}

	res, err := h.service.Checkout(c.Request.Context(), bookingID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Invoice pairs the latest payment with the current estimate.
// @Summary		Invoice
// @Tags		Billing
// @Security	BearerAuth
// @Param		bookingId	path	int	true	"Booking ID"
// @Success		200	{object}	Invoice
// @Failure		404	{object}	map[string]interface{} "Booking or payment not found"
// @Router		/bookings/:bookingId/billing/invoice [GET]
func (h *Handler) Invoice(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	inv, err := h.service.Invoice(c.Request.Context(), bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, inv)
}

func (h *Handler) UpdateItemDiscount(c *gin.Context) {
	bookingID, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	var req ItemDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.UpdateItemDiscount(c.Request.Context(), bookingID, req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Discount updated"})
}
