package examination

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
	exams := rg.Group("/bookings/:bookingId/pets/:bookingPetId/examinations")
	{
		exams.POST("", h.Create)
		exams.GET("", h.Get)
		exams.PATCH("", h.Update)
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

// Create handles POST /bookings/:bookingId/pets/:bookingPetId/examinations
func (h *Handler) Create(c *gin.Context) {
	bookingID, bookingPetID, ok := ids(c)
	if !ok {
		return
	}

	var req CreateExaminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	exam, err := h.service.Create(c.Request.Context(), bookingID, bookingPetID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, exam)
}

func (h *Handler) Get(c *gin.Context) {
	bookingID, bookingPetID, ok := ids(c)
	if !ok {
		return
	}

	exam, err := h.service.Get(c.Request.Context(), bookingID, bookingPetID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, exam)
}

func (h *Handler) Update(c *gin.Context) {
	bookingID, bookingPetID, ok := ids(c)
	if !ok {
		return
	}

	var req UpdateExaminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	exam, err := h.service.Update(c.Request.Context(), bookingID, bookingPetID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, exam)
}
