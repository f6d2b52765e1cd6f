package catalog

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
	rg.GET("/services", h.ListServices)
	rg.POST("/services", h.CreateService)
	rg.GET("/service-types", h.ListServiceTypes)
	rg.POST("/service-types", h.CreateServiceType)
	rg.PATCH("/service-types/:id", h.UpdateServiceType)
	rg.GET("/products", h.ListProducts)
	rg.POST("/products", h.CreateProduct)
}

/* ---------- SERVICE HANDLERS ---------- */

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, services)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	svc, err := h.service.CreateService(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, svc)
}

// ListServiceTypes handles GET /service-types?serviceId=
func (h *Handler) ListServiceTypes(c *gin.Context) {
	types, err := h.service.ListServiceTypes(c.Request.Context(), utils.QueryInt64Ptr(c, "serviceId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, types)
}

func (h *Handler) CreateServiceType(c *gin.Context) {
	var req CreateServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	st, err := h.service.CreateServiceType(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, st)
}

func (h *Handler) UpdateServiceType(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	st, err := h.service.UpdateServiceType(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

/* ---------- PRODUCT HANDLERS ---------- */

// ListProducts handles GET /products; ?withStock=true adds available stock.
func (h *Handler) ListProducts(c *gin.Context) {
	if c.Query("withStock") == "true" {
		levels, err := h.service.ListProductsWithStock(c.Request.Context())
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, http.StatusOK, levels)
		return
	}

	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, products)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	p, err := h.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}
