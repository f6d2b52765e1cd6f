package inventory

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
	rg.POST("/inventory", h.AddEntry)
	rg.GET("/inventory", h.List)
	rg.GET("/inventory/summary", h.Summary)
	rg.GET("/inventory/:productId/available", h.Available)
}

// AddEntry handles POST /inventory
func (h *Handler) AddEntry(c *gin.Context) {
	var req AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	entry, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entry)
}

// List handles GET /inventory?limit=&types=IN,OUT&productId=
func (h *Handler) List(c *gin.Context) {
	entries, err := h.service.List(
		c.Request.Context(),
		utils.QueryInt(c, "limit", defaultListLimit),
		utils.QueryCSV(c, "types"),
		utils.QueryInt64Ptr(c, "productId"),
	)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}

func (h *Handler) Available(c *gin.Context) {
	productID, ok := utils.ParamID(c, "productId")
	if !ok {
		return
	}

	available, err := h.service.Available(c.Request.Context(), productID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, AvailableResponse{ProductID: productID, Available: available.String()})
}

func (h *Handler) Summary(c *gin.Context) {
	levels, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, levels)
}
