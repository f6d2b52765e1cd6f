package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/money"
	"petcare/internal/pkg/validator"
	"petcare/internal/policy"
	"petcare/internal/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type Service struct {
	ledger   *repository.InventoryRepository
	products *repository.ProductRepository
	policy   *policy.Policy
	log      *zap.Logger
}

func NewService(ledger *repository.InventoryRepository, products *repository.ProductRepository, p *policy.Policy, log *zap.Logger) *Service {
	return &Service{ledger: ledger, products: products, policy: p, log: logger.OrNop(log)}
}

// Add records a manual stock movement. Consumption (OUT) is only written by
// the usage paths, so the API accepts IN and ADJUSTMENT.
func (s *Service) Add(ctx context.Context, req AddEntryRequest) (*domain.InventoryEntry, error) {
	if err := s.policy.Authorize(ctx, policy.AddInventory); err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	qty, err := money.Parse(req.Quantity)
	if err != nil {
		return nil, err
	}
	typ := domain.InventoryType(req.Type)
	if typ == domain.InventoryIn && !qty.IsPositive() {
		return nil, apperr.Validation("IN quantity must be positive")
	}
	if qty.IsZero() {
		return nil, apperr.Validation("quantity must not be zero")
	}

	return s.AddEntry(ctx, req.ProductID, qty, typ, req.Note)
}

// AddEntry appends a ledger row as given. The sign is the caller's business.
func (s *Service) AddEntry(ctx context.Context, productID int64, qty decimal.Decimal, typ domain.InventoryType, note *string) (*domain.InventoryEntry, error) {
	if !typ.Valid() {
		return nil, apperr.Validation("unknown inventory type %q", typ)
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	e := &domain.InventoryEntry{ProductID: productID, Quantity: qty, Type: typ, Note: note}
	if err := s.ledger.Add(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info("inventory entry added",
		zap.Int64("product_id", productID),
		zap.String("quantity", qty.String()),
		zap.String("type", string(typ)),
	)
	return e, nil
}

func (s *Service) Available(ctx context.Context, productID int64) (decimal.Decimal, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return decimal.Zero, err
	}
	return s.ledger.Available(ctx, productID)
}

func (s *Service) List(ctx context.Context, limit int, types []string, productID *int64) ([]domain.InventoryEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	f := repository.InventoryFilter{Limit: limit, ProductID: productID}
	for _, raw := range types {
		t := domain.InventoryType(raw)
		if !t.Valid() {
			return nil, apperr.Validation("unknown inventory type %q", raw)
		}
		f.Types = append(f.Types, t)
	}
	return s.ledger.List(ctx, f)
}

func (s *Service) Summary(ctx context.Context) ([]repository.StockLevel, error) {
	return s.ledger.Summary(ctx)
}
