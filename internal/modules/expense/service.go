package expense

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/money"
	"petcare/internal/pkg/utils"
	"petcare/internal/pkg/validator"
	"petcare/internal/policy"
	"petcare/internal/repository"
)

// Service keeps the clinic's expense side ledger. Expenses are never billed.
type Service struct {
	expenses *repository.ExpenseRepository
	policy   *policy.Policy
	log      *zap.Logger
	now      func() time.Time
}

func NewService(expenses *repository.ExpenseRepository, p *policy.Policy, log *zap.Logger) *Service {
	return &Service{expenses: expenses, policy: p, log: logger.OrNop(log), now: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateExpenseRequest) (*domain.Expense, error) {
	if err := s.policy.Authorize(ctx, policy.ManageExpenses); err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	amount, err := money.ParsePositive("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := utils.ParseTimePtr(req.ExpenseDate)
	if err != nil {
		return nil, err
	}

	e := &domain.Expense{
		ExpenseDate: s.now(),
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Amount:      amount,
	}
	if date != nil {
		e.ExpenseDate = *date
	}
	if err := s.expenses.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info("expense recorded", zap.Int64("expense_id", e.ID), zap.String("category", e.Category), zap.String("amount", amount.String()))
	return e, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Expense, error) {
	start, err := utils.ParseTimePtr(q.Start)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseTimePtr(q.End)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, apperr.Validation("end before start")
	}

	f := repository.ExpenseFilter{From: start, Category: q.Category}
	if end != nil {
		y, m, d := end.In(time.Local).Date()
		before := time.Date(y, m, d+1, 0, 0, 0, 0, time.Local)
		f.Before = &before
	}
	return s.expenses.List(ctx, f)
}
