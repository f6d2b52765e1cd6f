package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"petcare/internal/domain"
)

// ExpenseFilter bounds are [From, Before). Category matches case-insensitively
// anywhere in the name.
type ExpenseFilter struct {
	From     *time.Time
	Before   *time.Time
	Category string
}

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExpenseRepository) List(ctx context.Context, f ExpenseFilter) ([]domain.Expense, error) {
	q := r.db.WithContext(ctx).Order("expense_date DESC").Order("id DESC")
	if f.From != nil {
		q = q.Where("expense_date >= ?", *f.From)
	}
	if f.Before != nil {
		q = q.Where("expense_date < ?", *f.Before)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(c)+"%")
	}
	var expenses []domain.Expense
	err := q.Find(&expenses).Error
	return expenses, err
}
