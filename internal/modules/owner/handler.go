package owner

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
	owners := rg.Group("/owners")
	{
		owners.GET("", h.List)
		owners.POST("", h.Create)
		owners.GET("/:id", h.Get)
		owners.PATCH("/:id", h.Update)
		owners.DELETE("/:id", h.Delete)
		owners.POST("/:id/pets", h.CreatePet)
	}

	pets := rg.Group("/pets")
	{
		pets.GET("", h.ListPets)
		pets.PATCH("/:id", h.UpdatePet)
		pets.DELETE("/:id", h.DeletePet)
		pets.GET("/:id/medical-records", h.MedicalRecords)
	}
}

// List returns a page of owners.
// @Summary		List owners
// @Description	Newest first. q matches name, phone or address.
// @Tags		Owners
// @Security	BearerAuth
// @Param		q			query	string	false	"Search text"
// @Param		page		query	int		false	"Page number"	default(1)
// @Param		pageSize	query	int		false	"Page size, at most 100"	default(10)
// @Success		200	{object}	ListResult
// @Router		/owners [GET]
func (h *Handler) List(c *gin.Context) {
	res, err := h.service.List(c.Request.Context(),
		c.Query("q"),
		utils.QueryInt(c, "page", 1),
		utils.QueryInt(c, "pageSize", 10),
	)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Create registers a new owner.
// @Summary		Create owner
// @Tags		Owners
// @Security	BearerAuth
// @Param		request	body	CreateOwnerRequest	true	"Owner data"
// @Success		201	{object}	domain.Owner
// @Failure		400	{object}	map[string]interface{} "Validation error"
// @Router		/owners [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	o, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, o)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	o, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	o, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

// Delete removes an owner with all pets and bookings.
// @Summary		Delete owner
// @Description	Removes the owner, their pets and every booking with its clinical records, deposits and payments. Stock used by those bookings is returned to inventory.
// @Tags		Owners
// @Security	BearerAuth
// @Param		id	path	int	true	"Owner ID"
// @Success		200	{object}	map[string]interface{} "Deleted"
// @Failure		404	{object}	map[string]interface{} "Owner not found"
// @Router		/owners/:id [DELETE]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Owner deleted"})
}

func (h *Handler) CreatePet(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	p, err := h.service.CreatePet(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

// ListPets returns a page of pets with their owners.
// @Summary		List pets
// @Description	Newest first. q matches pet name, species, breed or owner name.
// @Tags		Pets
// @Security	BearerAuth
// @Param		q			query	string	false	"Search text"
// @Param		page		query	int		false	"Page number"	default(1)
// @Param		pageSize	query	int		false	"Page size, at most 100"	default(10)
// @Success		200	{object}	PetListResult
// @Router		/pets [GET]
func (h *Handler) ListPets(c *gin.Context) {
	res, err := h.service.ListPets(c.Request.Context(),
		c.Query("q"),
		utils.QueryInt(c, "page", 1),
		utils.QueryInt(c, "pageSize", 10),
	)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// UpdatePet applies a partial update to a pet.
// @Summary		Update pet
// @Tags		Pets
// @Security	BearerAuth
// @Param		id		path	int					true	"Pet ID"
// @Param		request	body	UpdatePetRequest	true	"Fields to change"
// @Success		200	{object}	domain.Pet
// @Failure		400	{object}	map[string]interface{} "Validation error"
// @Failure		404	{object}	map[string]interface{} "Pet not found"
// @Router		/pets/:id [PATCH]
func (h *Handler) UpdatePet(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	p, err := h.service.UpdatePet(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// DeletePet removes a pet and its part of every booking.
// @Summary		Delete pet
// @Tags		Pets
// @Security	BearerAuth
// @Param		id	path	int	true	"Pet ID"
// @Success		200	{object}	map[string]interface{} "Deleted"
// @Failure		404	{object}	map[string]interface{} "Pet not found"
// @Router		/pets/:id [DELETE]
func (h *Handler) DeletePet(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePet(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Pet deleted"})
}

// MedicalRecords returns the pet's clinical history.
// @Summary		Pet medical records
// @Description	Every booking the pet took part in, newest first, with examinations, visits, product and mix usages and daily charges.
// @Tags		Pets
// @Security	BearerAuth
// @Param		id	path	int	true	"Pet ID"
// @Success		200	{object}	MedicalRecords
// @Failure		404	{object}	map[string]interface{} "Pet not found"
// @Router		/pets/:id/medical-records [GET]
func (h *Handler) MedicalRecords(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	res, err := h.service.MedicalRecords(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}
