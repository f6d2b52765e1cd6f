package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petcare/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.Me)
	protected.POST("/accounts", h.CreateAccount)
}

// Login exchanges credentials for a JWT.
// @Summary		Log in
// @Description	Checks username and password and returns an access token with the account.
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"Credentials"
// @Success		200	{object}	LoginResult
// @Failure		400	{object}	map[string]interface{} "Validation error"
// @Failure		401	{object}	map[string]interface{} "Wrong username or password"
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Me returns the account behind the token.
// @Summary		Current account
// @Tags		Auth
// @Security	BearerAuth
// @Success		200	{object}	domain.Account
// @Failure		401	{object}	map[string]interface{} "Unauthorized"
// @Router		/auth/me [GET]
func (h *Handler) Me(c *gin.Context) {
	accountID := c.GetInt64("account_id")
	if accountID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	account, err := h.service.Me(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, account)
}

// CreateAccount adds a login, optionally linked to a staff member.
// @Summary		Create account
// @Tags		Auth
// @Security	BearerAuth
// @Param		request	body	CreateAccountRequest	true	"Account data"
// @Success		201	{object}	domain.Account
// @Failure		400	{object}	map[string]interface{} "Validation error or username taken"
// @Failure		403	{object}	map[string]interface{} "Forbidden"
// @Router		/accounts [POST]
func (h *Handler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	account, err := h.service.CreateAccount(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, account)
}
