package mix

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/modules/usage"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/money"
	"petcare/internal/pkg/validator"
	"petcare/internal/policy"
	"petcare/internal/repository"
)

type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	products *repository.ProductRepository
	exams    *repository.ExaminationRepository
	visits   *repository.VisitRepository
	engine   *usage.Engine
	policy   *policy.Policy
	log      *zap.Logger
}

func NewService(
	db *gorm.DB,
	bookings *repository.BookingRepository,
	products *repository.ProductRepository,
	exams *repository.ExaminationRepository,
	visits *repository.VisitRepository,
	engine *usage.Engine,
	p *policy.Policy,
	log *zap.Logger,
) *Service {
	return &Service{
		db:       db,
		bookings: bookings,
		products: products,
		exams:    exams,
		visits:   visits,
		engine:   engine,
		policy:   p,
		log:      logger.OrNop(log),
	}
}

func (s *Service) List(ctx context.Context) ([]domain.MixProduct, error) {
	return s.products.ListMixTemplates(ctx)
}

// Create stores a reusable recipe. Every component product must exist.
func (s *Service) Create(ctx context.Context, req CreateMixRequest) (*domain.MixProduct, error) {
	if err := s.policy.Authorize(ctx, policy.CreateMix); err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	price, err := money.ParseOptional("price", req.Price)
	if err != nil {
		return nil, err
	}
	if price.Valid && price.Decimal.IsNegative() {
		return nil, apperr.Validation("price must not be negative")
	}

	m := &domain.MixProduct{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       money.OrZero(price),
	}
	for _, c := range req.Components {
		qty, err := money.ParsePositive("quantity_base", c.QuantityBase)
		if err != nil {
			return nil, err
		}
		if _, err := s.products.GetByID(ctx, c.ProductID); err != nil {
			return nil, err
		}
		m.Components = append(m.Components, domain.MixComponent{ProductID: c.ProductID, QuantityBase: qty})
	}

	if err := s.products.CreateMix(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("mix template created", zap.Int64("mix_product_id", m.ID), zap.Int("components", len(m.Components)))
	return s.products.GetMix(ctx, m.ID)
}

// Use bills a stored recipe to a booking pet, optionally under one of its visits.
func (s *Service) Use(ctx context.Context, bookingID, bookingPetID int64, req UseMixRequest) (*domain.MixUsage, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	parsed, err := usage.ParseTemplateMixes([]usage.TemplateMixRequest{req.TemplateMixRequest})
	if err != nil {
		return nil, err
	}
	in := parsed[0]

	_, bp, err := usage.OpenPet(ctx, s.bookings, bookingID, bookingPetID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisit(ctx, req.VisitID, bp.ID); err != nil {
		return nil, err
	}
	in.BookingPetID = bp.ID
	in.VisitID = req.VisitID

	var mu *domain.MixUsage
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		mu, err = s.engine.UseTemplateMix(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("mix used",
		zap.Int64("booking_pet_id", bp.ID),
		zap.Int64("mix_usage_id", mu.ID),
		zap.String("quantity", in.Quantity.String()),
	)
	return mu, nil
}

// UseQuick records an ad hoc mix against a booking pet, or against one of its
// visits or its examination.
func (s *Service) UseQuick(ctx context.Context, bookingID, bookingPetID int64, req QuickMixUseRequest) (*domain.MixUsage, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if req.VisitID != nil && req.ExaminationID != nil {
		return nil, apperr.Validation("visit_id and examination_id are exclusive")
	}
	in, err := usage.ParseQuickMix(req.QuickMixRequest)
	if err != nil {
		return nil, err
	}

	_, bp, err := usage.OpenPet(ctx, s.bookings, bookingID, bookingPetID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisit(ctx, req.VisitID, bp.ID); err != nil {
		return nil, err
	}
	if req.ExaminationID != nil {
		exam, err := s.exams.GetForPet(ctx, bp.ID)
		if err != nil {
			return nil, err
		}
		if exam.ID != *req.ExaminationID {
			return nil, apperr.NotFound("examination")
		}
	}
	in.BookingPetID = bp.ID
	in.VisitID = req.VisitID
	in.ExaminationID = req.ExaminationID

	var mu *domain.MixUsage
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		mu, err = s.engine.UseQuickMix(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("quick mix used",
		zap.Int64("booking_pet_id", bp.ID),
		zap.Int64("mix_usage_id", mu.ID),
		zap.Bool("priced", in.Price.Valid),
	)
	return mu, nil
}

func (s *Service) checkVisit(ctx context.Context, visitID *int64, bookingPetID int64) error {
	if visitID == nil {
		return nil
	}
	ok, err := s.visits.BelongsToPet(ctx, *visitID, bookingPetID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("visit")
	}
	return nil
}
