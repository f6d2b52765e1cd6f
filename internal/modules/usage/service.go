package usage

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/validator"
	"petcare/internal/repository"
)

type ConsumeRequest struct {
	Products []ProductLineRequest `json:"products" validate:"required,min=1,dive"`
}

// Service records consumption billed straight to a booking pet.
type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	products *repository.ProductRepository
	engine   *Engine
	log      *zap.Logger
}

func NewService(db *gorm.DB, bookings *repository.BookingRepository, products *repository.ProductRepository, engine *Engine, log *zap.Logger) *Service {
	return &Service{db: db, bookings: bookings, products: products, engine: engine, log: logger.OrNop(log)}
}

func (s *Service) Consume(ctx context.Context, bookingID, bookingPetID int64, req ConsumeRequest) ([]domain.ProductUsage, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	lines, err := ParseProductLines(req.Products)
	if err != nil {
		return nil, err
	}
	_, bp, err := OpenPet(ctx, s.bookings, bookingID, bookingPetID)
	if err != nil {
		return nil, err
	}

	var usages []domain.ProductUsage
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		usages, err = s.engine.ConsumeProducts(ctx, tx, ForBookingPet(bp.ID), lines)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("standalone usage recorded", zap.Int64("booking_pet_id", bp.ID), zap.Int("lines", len(usages)))
	return usages, nil
}

func (s *Service) List(ctx context.Context, bookingID, bookingPetID int64) ([]domain.ProductUsage, error) {
	if _, err := s.bookings.GetPet(ctx, bookingID, bookingPetID); err != nil {
		return nil, err
	}
	return s.products.ListStandaloneUsages(ctx, bookingPetID)
}
