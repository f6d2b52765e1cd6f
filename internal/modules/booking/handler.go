package booking

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
	rg.GET("/bookings", h.List)
	rg.POST("/bookings", h.Create)
	rg.POST("/bookings/repair", h.Repair)

	b := rg.Group("/bookings/:bookingId")
	{
		b.GET("", h.Get)
		b.DELETE("", h.Delete)
		b.POST("/items", h.AddItem)
		b.PATCH("/items/:itemId", h.UpdateItem)
		b.DELETE("/items/:itemId", h.RemoveItem)
		b.POST("/split", h.Split)
		b.PATCH("/plan-admission", h.PlanAdmission)
		b.PATCH("/status", h.UpdateStatus)
	}
}

// List handles GET /bookings?page=&pageSize=
func (h *Handler) List(c *gin.Context) {
	res, err := h.service.List(
		c.Request.Context(),
		utils.QueryInt(c, "page", 1),
		utils.QueryInt(c, "pageSize", defaultPageSize),
	)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Create handles POST /bookings
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Booking deleted"})
}

func (h *Handler) AddItem(c *gin.Context) {
	id, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}
	itemID, ok := utils.ParamID(c, "itemId")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	id, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}
	itemID, ok := utils.ParamID(c, "itemId")
	if !ok {
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), id, itemID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Item removed"})
}

// Split handles POST /bookings/:bookingId/split
func (h *Handler) Split(c *gin.Context) {
	id, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	var req SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.Split(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) PlanAdmission(c *gin.Context) {
	id, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	b, err := h.service.PlanAdmission(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := utils.ParamID(c, "bookingId")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// Repair handles POST /bookings/repair
func (h *Handler) Repair(c *gin.Context) {
	report, err := h.service.Repair(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}
