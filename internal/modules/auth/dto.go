package auth

import "petcare/internal/domain"

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Account     *domain.Account `json:"account"`
	AccessToken string          `json:"access_token"`
}

type CreateAccountRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=MASTER SUPERVISOR STAFF"`
	StaffID  *int64 `json:"staff_id" validate:"omitempty,gt=0"`
}
