package visit

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/modules/staff"
	"petcare/internal/modules/usage"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/utils"
	"petcare/internal/pkg/validator"
	"petcare/internal/repository"
)

type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	visits   *repository.VisitRepository
	staff    *staff.Service
	engine   *usage.Engine
	log      *zap.Logger
	now      func() time.Time
}

func NewService(
	db *gorm.DB,
	bookings *repository.BookingRepository,
	visits *repository.VisitRepository,
	staffService *staff.Service,
	engine *usage.Engine,
	log *zap.Logger,
) *Service {
	return &Service{
		db:       db,
		bookings: bookings,
		visits:   visits,
		staff:    staffService,
		engine:   engine,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

// Create records a daily round. Visits exist only on per-day bookings that
// are IN_PROGRESS; a deposit has to be taken before the first visit.
func (s *Service) Create(ctx context.Context, bookingID, bookingPetID int64, req CreateVisitRequest) (*domain.Visit, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	visitDate, err := utils.ParseTimePtr(req.VisitDate)
	if err != nil {
		return nil, err
	}
	lines, err := usage.ParseProductLines(req.Products)
	if err != nil {
		return nil, err
	}
	templates, err := usage.ParseTemplateMixes(req.Mixes)
	if err != nil {
		return nil, err
	}
	quick, err := usage.ParseQuickMixes(req.QuickMixes)
	if err != nil {
		return nil, err
	}

	b, bp, err := usage.OpenPet(ctx, s.bookings, bookingID, bookingPetID)
	if err != nil {
		return nil, err
	}
	if !b.IsPerDay() {
		return nil, apperr.InvalidState("visits are only recorded on per-day bookings")
	}
	if b.Status != domain.BookingInProgress {
		return nil, apperr.InvalidState("booking %d is %s; take a deposit first", b.ID, b.Status)
	}
	err = s.staff.RequireRoles(ctx,
		staff.Assignment{ID: req.DoctorID, Role: domain.JobDoctor},
		staff.Assignment{ID: req.ParavetID, Role: domain.JobParavet},
	)
	if err != nil {
		return nil, err
	}

	v := &domain.Visit{
		BookingPetID: bp.ID,
		VisitDate:    s.now(),
		Weight:       req.Weight,
		Temperature:  req.Temperature,
		Notes:        req.Notes,
		DoctorID:     req.DoctorID,
		ParavetID:    req.ParavetID,
		Urine:        req.Urine,
		Defecation:   req.Defecation,
		Appetite:     req.Appetite,
		Condition:    req.Condition,
		Symptoms:     req.Symptoms,
	}
	if visitDate != nil {
		v.VisitDate = *visitDate
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.visits.WithTx(tx).Create(ctx, v); err != nil {
			return err
		}
		if _, err := s.engine.ConsumeProducts(ctx, tx, usage.ForVisit(v.ID), lines); err != nil {
			return err
		}
		for _, m := range templates {
			m.BookingPetID = bp.ID
			m.VisitID = &v.ID
			if _, err := s.engine.UseTemplateMix(ctx, tx, m); err != nil {
				return err
			}
		}
		for _, m := range quick {
			m.BookingPetID = bp.ID
			m.VisitID = &v.ID
			if _, err := s.engine.UseQuickMix(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("visit created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("booking_pet_id", bp.ID),
		zap.Int64("visit_id", v.ID),
		zap.Int("products", len(lines)),
		zap.Int("mixes", len(templates)+len(quick)),
	)
	return s.visits.Get(ctx, v.ID)
}

func (s *Service) List(ctx context.Context, bookingID, bookingPetID int64) ([]domain.Visit, error) {
	if _, err := s.bookings.GetPet(ctx, bookingID, bookingPetID); err != nil {
		return nil, err
	}
	return s.visits.ListForPet(ctx, bookingPetID)
}
