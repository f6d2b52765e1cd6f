package examination

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/modules/staff"
	"petcare/internal/modules/usage"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/validator"
	"petcare/internal/repository"
)

var ErrDuplicate = apperr.InvalidState("examination already exists for this pet")

type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	exams    *repository.ExaminationRepository
	staff    *staff.Service
	engine   *usage.Engine
	log      *zap.Logger
}

func NewService(
	db *gorm.DB,
	bookings *repository.BookingRepository,
	exams *repository.ExaminationRepository,
	staffService *staff.Service,
	engine *usage.Engine,
	log *zap.Logger,
) *Service {
	return &Service{
		db:       db,
		bookings: bookings,
		exams:    exams,
		staff:    staffService,
		engine:   engine,
		log:      logger.OrNop(log),
	}
}

// Create records the single examination of a booking pet with its products
// and quick mixes. On a per-day booking still PENDING it plans the
// admission; flat bookings keep their status.
func (s *Service) Create(ctx context.Context, bookingID, bookingPetID int64, req CreateExaminationRequest) (*domain.Examination, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	lines, err := usage.ParseProductLines(req.Products)
	if err != nil {
		return nil, err
	}
	mixes, err := usage.ParseQuickMixes(req.QuickMixes)
	if err != nil {
		return nil, err
	}

	b, bp, err := usage.OpenPet(ctx, s.bookings, bookingID, bookingPetID)
	if err != nil {
		return nil, err
	}
	exists, err := s.exams.ExistsForPet(ctx, bp.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}
	if err := s.checkStaff(ctx, req.ClinicalFields); err != nil {
		return nil, err
	}

	exam := &domain.Examination{BookingPetID: bp.ID}
	applyFields(exam, req.ClinicalFields)
	admit := b.IsPerDay() && b.Status == domain.BookingPending

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.exams.WithTx(tx).Create(ctx, exam); err != nil {
			return err
		}
		if err := s.consume(ctx, tx, bp.ID, exam.ID, lines, mixes); err != nil {
			return err
		}
		if admit {
			return s.bookings.WithTx(tx).Admit(ctx, b.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("examination created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("booking_pet_id", bp.ID),
		zap.Int64("examination_id", exam.ID),
		zap.Int("products", len(lines)),
		zap.Int("quick_mixes", len(mixes)),
	)
	if admit {
		s.log.Info("booking status changed",
			zap.Int64("booking_id", b.ID),
			zap.String("from", string(b.Status)),
			zap.String("to", string(domain.BookingWaitingToDeposit)),
		)
	}
	return s.exams.GetForPet(ctx, bp.ID)
}

func (s *Service) Get(ctx context.Context, bookingID, bookingPetID int64) (*domain.Examination, error) {
	if _, err := s.bookings.GetPet(ctx, bookingID, bookingPetID); err != nil {
		return nil, err
	}
	return s.exams.GetForPet(ctx, bookingPetID)
}

// Update patches clinical fields and replaces the product and quick mix
// lists that are present. Replaced usages give their stock back through
// ADJUSTMENT rows before the new list is consumed.
func (s *Service) Update(ctx context.Context, bookingID, bookingPetID int64, req UpdateExaminationRequest) (*domain.Examination, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	var lines []usage.ProductLine
	var mixes []usage.QuickMix
	var err error
	if req.Products != nil {
		if lines, err = usage.ParseProductLines(req.Products); err != nil {
			return nil, err
		}
	}
	if req.QuickMixes != nil {
		if mixes, err = usage.ParseQuickMixes(req.QuickMixes); err != nil {
			return nil, err
		}
	}

	_, bp, err := usage.OpenPet(ctx, s.bookings, bookingID, bookingPetID)
	if err != nil {
		return nil, err
	}
	exam, err := s.exams.GetForPet(ctx, bp.ID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStaff(ctx, req.ClinicalFields); err != nil {
		return nil, err
	}

	note := fmt.Sprintf("Edit exam #%d", exam.ID)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.exams.WithTx(tx).UpdateFields(ctx, exam.ID, changedFields(req.ClinicalFields)); err != nil {
			return err
		}
		if req.Products != nil {
			if err := s.engine.ReverseProductUsages(ctx, tx, usage.Plain(exam.ProductUsages), note); err != nil {
				return err
			}
		}
		if req.QuickMixes != nil {
			for _, mu := range exam.MixUsages {
				if err := s.engine.ReverseMixUsage(ctx, tx, mu, note); err != nil {
					return err
				}
			}
		}
		return s.consume(ctx, tx, bp.ID, exam.ID, lines, mixes)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("examination updated",
		zap.Int64("examination_id", exam.ID),
		zap.Bool("products_replaced", req.Products != nil),
		zap.Bool("mixes_replaced", req.QuickMixes != nil),
	)
	return s.exams.GetForPet(ctx, bp.ID)
}

func (s *Service) consume(ctx context.Context, tx *gorm.DB, bookingPetID, examID int64, lines []usage.ProductLine, mixes []usage.QuickMix) error {
	if _, err := s.engine.ConsumeProducts(ctx, tx, usage.ForExamination(examID), lines); err != nil {
		return err
	}
	for _, mix := range mixes {
		mix.BookingPetID = bookingPetID
		mix.ExaminationID = &examID
		if _, err := s.engine.UseQuickMix(ctx, tx, mix); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) checkStaff(ctx context.Context, f ClinicalFields) error {
	return s.staff.RequireRoles(ctx,
		staff.Assignment{ID: f.DoctorID, Role: domain.JobDoctor},
		staff.Assignment{ID: f.ParavetID, Role: domain.JobParavet},
		staff.Assignment{ID: f.AdminID, Role: domain.JobAdmin},
		staff.Assignment{ID: f.GroomerID, Role: domain.JobGroomer},
	)
}

func applyFields(exam *domain.Examination, f ClinicalFields) {
	exam.Weight = f.Weight
	exam.Temperature = f.Temperature
	exam.Notes = f.Notes
	exam.ChiefComplaint = f.ChiefComplaint
	exam.AdditionalNotes = f.AdditionalNotes
	exam.Diagnosis = f.Diagnosis
	exam.Prognosis = f.Prognosis
	exam.DoctorID = f.DoctorID
	exam.ParavetID = f.ParavetID
	exam.AdminID = f.AdminID
	exam.GroomerID = f.GroomerID
}

func changedFields(f ClinicalFields) map[string]any {
	fields := map[string]any{}
	for column, v := range map[string]*string{
		"weight":           f.Weight,
		"temperature":      f.Temperature,
		"notes":            f.Notes,
		"chief_complaint":  f.ChiefComplaint,
		"additional_notes": f.AdditionalNotes,
		"diagnosis":        f.Diagnosis,
		"prognosis":        f.Prognosis,
	} {
		if v != nil {
			fields[column] = *v
		}
	}
	for column, v := range map[string]*int64{
		"doctor_id":  f.DoctorID,
		"paravet_id": f.ParavetID,
		"admin_id":   f.AdminID,
		"groomer_id": f.GroomerID,
	} {
		if v != nil {
			fields[column] = *v
		}
	}
	return fields
}
