package catalog

import (
	"context"
	"strings"

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

type Service struct {
	catalog   *repository.CatalogRepository
	products  *repository.ProductRepository
	inventory *repository.InventoryRepository
	policy    *policy.Policy
	log       *zap.Logger
}

func NewService(
	catalog *repository.CatalogRepository,
	products *repository.ProductRepository,
	inventory *repository.InventoryRepository,
	p *policy.Policy,
	log *zap.Logger,
) *Service {
	return &Service{catalog: catalog, products: products, inventory: inventory, policy: p, log: logger.OrNop(log)}
}

/* ---------- SERVICES ---------- */

func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.catalog.ListServices(ctx)
}

func (s *Service) CreateService(ctx context.Context, req CreateServiceRequest) (*domain.Service, error) {
	if err := s.policy.Authorize(ctx, policy.CreateService); err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	svc := &domain.Service{Name: strings.TrimSpace(req.Name)}
	if err := s.catalog.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

/* ---------- SERVICE TYPES ---------- */

func (s *Service) ListServiceTypes(ctx context.Context, serviceID *int64) ([]domain.ServiceType, error) {
	return s.catalog.ListServiceTypes(ctx, serviceID)
}

func (s *Service) CreateServiceType(ctx context.Context, req CreateServiceTypeRequest) (*domain.ServiceType, error) {
	if err := s.policy.Authorize(ctx, policy.CreateServiceType); err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetService(ctx, req.ServiceID); err != nil {
		return nil, err
	}

	price, err := parsePrice("price", req.Price)
	if err != nil {
		return nil, err
	}
	perDay, err := parseOptionalPrice("price_per_day", req.PricePerDay)
	if err != nil {
		return nil, err
	}

	st := &domain.ServiceType{
		ServiceID:   req.ServiceID,
		Name:        strings.TrimSpace(req.Name),
		Price:       price,
		PricePerDay: perDay,
	}
	if err := s.catalog.CreateServiceType(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) UpdateServiceType(ctx context.Context, id int64, req UpdateServiceTypeRequest) (*domain.ServiceType, error) {
	if err := s.policy.Authorize(ctx, policy.UpdateServiceType); err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	st, err := s.catalog.GetServiceType(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		st.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		if st.Price, err = parsePrice("price", *req.Price); err != nil {
			return nil, err
		}
	}
	switch {
	case req.ClearPricePerDay:
		st.PricePerDay = decimal.NullDecimal{}
	case req.PricePerDay != nil:
		if st.PricePerDay, err = parseOptionalPrice("price_per_day", req.PricePerDay); err != nil {
			return nil, err
		}
	}

	if err := s.catalog.SaveServiceType(ctx, st); err != nil {
		return nil, err
	}
	s.log.Info("service type updated", zap.Int64("service_type_id", st.ID), zap.Bool("per_day", st.IsPerDay()))
	return st, nil
}

/* ---------- PRODUCTS ---------- */

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// ListProductsWithStock returns every product with its available stock.
func (s *Service) ListProductsWithStock(ctx context.Context) ([]repository.StockLevel, error) {
	return s.inventory.Summary(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*domain.Product, error) {
	if err := s.policy.Authorize(ctx, policy.CreateProduct); err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	price, err := parsePrice("price", req.Price)
	if err != nil {
		return nil, err
	}
	content, err := parseOptionalPrice("unit_content_amount", req.UnitContentAmount)
	if err != nil {
		return nil, err
	}
	if content.Valid && !content.Decimal.IsPositive() {
		return nil, apperr.Validation("unit_content_amount must be positive")
	}

	p := &domain.Product{
		Name:              strings.TrimSpace(req.Name),
		Unit:              strings.TrimSpace(req.Unit),
		Price:             price,
		UnitContentAmount: content,
		UnitContentName:   req.UnitContentName,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func parsePrice(field, raw string) (decimal.Decimal, error) {
	d, err := money.Parse(raw)
	if err != nil {
		return decimal.Zero, apperr.Validation("%s: invalid decimal value %q", field, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, apperr.Validation("%s must not be negative", field)
	}
	return d, nil
}

func parseOptionalPrice(field string, raw *string) (decimal.NullDecimal, error) {
	d, err := money.ParseOptional(field, raw)
	if err != nil {
		return d, err
	}
	if d.Valid && d.Decimal.IsNegative() {
		return decimal.NullDecimal{}, apperr.Validation("%s must not be negative", field)
	}
	return d, nil
}
