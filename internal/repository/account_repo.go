package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var a domain.Account
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&a).Error
	if err != nil {
		return nil, notFound(err, "account")
	}
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	a.Username = strings.ToLower(strings.TrimSpace(a.Username))
	if err := r.db.WithContext(ctx).Omit("Staff").Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.InvalidState("username %q is taken", a.Username)
		}
		return err
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	var a domain.Account
	if err := r.db.WithContext(ctx).Preload("Staff").First(&a, id).Error; err != nil {
		return nil, notFound(err, "account")
	}
	return &a, nil
}
