package auth

import (
	"context"

	"petcare/internal/domain"
)

// AccountRepository is the subset of account storage the auth service uses.
type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) error
}

type StaffReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Staff, error)
}

type jwtService interface {
	GenerateToken(accountID int64, role string, staffID *int64) (string, error)
}
