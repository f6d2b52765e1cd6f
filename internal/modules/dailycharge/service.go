package dailycharge

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/modules/usage"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/money"
	"petcare/internal/pkg/utils"
	"petcare/internal/pkg/validator"
	"petcare/internal/repository"
)

const (
	descToday = "Auto daily charge (today)"
	descRange = "Auto daily charge (range)"

	// maxRangeDays caps one generate call.
	maxRangeDays = 366
)

type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	charges  *repository.DailyChargeRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, bookings *repository.BookingRepository, charges *repository.DailyChargeRepository, log *zap.Logger) *Service {
	return &Service{
		db:       db,
		bookings: bookings,
		charges:  charges,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, bookingID, bookingPetID int64, req CreateChargeRequest) (*domain.DailyCharge, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	amount, err := money.ParsePositive("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	chargeDate, err := utils.ParseTimePtr(req.ChargeDate)
	if err != nil {
		return nil, err
	}

	_, bp, err := s.open(ctx, bookingID, bookingPetID)
	if err != nil {
		return nil, err
	}

	dc := &domain.DailyCharge{
		BookingPetID: bp.ID,
		Amount:       amount,
		Description:  req.Description,
		ChargeDate:   s.now(),
	}
	if chargeDate != nil {
		dc.ChargeDate = *chargeDate
	}
	if err := s.charges.Create(ctx, dc); err != nil {
		return nil, err
	}
	return dc, nil
}

func (s *Service) List(ctx context.Context, bookingID, bookingPetID int64) ([]domain.DailyCharge, error) {
	if _, err := s.bookings.GetPet(ctx, bookingID, bookingPetID); err != nil {
		return nil, err
	}
	return s.charges.ListForPet(ctx, bookingPetID)
}

// GenerateToday charges the daily rate once per calendar day. A second call
// on the same day returns the existing charge.
func (s *Service) GenerateToday(ctx context.Context, bookingID, bookingPetID int64) (*TodayResult, error) {
	b, bp, err := s.open(ctx, bookingID, bookingPetID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	day := midnight(now)
	existing, err := s.charges.FindBetween(ctx, bp.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &TodayResult{Created: false, Charge: *existing}, nil
	}

	rate, err := s.rate(ctx, b)
	if err != nil {
		return nil, err
	}
	desc := descToday
	dc := domain.DailyCharge{
		BookingPetID: bp.ID,
		Amount:       rate,
		Description:  &desc,
		ChargeDate:   now,
	}
	if err := s.charges.Create(ctx, &dc); err != nil {
		return nil, err
	}
	s.log.Info("daily charge generated",
		zap.Int64("booking_id", b.ID),
		zap.Int64("booking_pet_id", bp.ID),
		zap.String("amount", rate.String()),
	)
	return &TodayResult{Created: true, Charge: dc}, nil
}

// GenerateRange charges every day in [start, end] that has no charge yet.
func (s *Service) GenerateRange(ctx context.Context, bookingID, bookingPetID int64, req RangeRequest) (*RangeResult, error) {
	start, err := s.dayOrToday(req.Start)
	if err != nil {
		return nil, err
	}
	end, err := s.dayOrToday(req.End)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, apperr.Validation("end before start")
	}

	b, bp, err := s.open(ctx, bookingID, bookingPetID)
	if err != nil {
		return nil, err
	}
	return s.fill(ctx, b, bp, start, end)
}

// GenerateUntilCheckout continues charging from the day after the last
// charge (or after the booking start) through the booking end, or today when
// the booking has no end. A pet already charged through the end gets nothing.
func (s *Service) GenerateUntilCheckout(ctx context.Context, bookingID, bookingPetID int64) (*RangeResult, error) {
	b, bp, err := s.open(ctx, bookingID, bookingPetID)
	if err != nil {
		return nil, err
	}

	end := midnight(s.now())
	if b.EndDate != nil {
		end = midnight(*b.EndDate)
	}

	from := midnight(s.now())
	last, err := s.charges.Last(ctx, bp.ID)
	if err != nil {
		return nil, err
	}
	switch {
	case last != nil:
		from = midnight(last.ChargeDate)
	case b.StartDate != nil:
		from = midnight(*b.StartDate)
	}
	start := from.AddDate(0, 0, 1)

	if start.After(end) {
		return &RangeResult{Charges: []domain.DailyCharge{}}, nil
	}
	return s.fill(ctx, b, bp, start, end)
}

func (s *Service) fill(ctx context.Context, b *domain.Booking, bp *domain.BookingPet, start, end time.Time) (*RangeResult, error) {
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return nil, apperr.Validation("range exceeds %d days", maxRangeDays)
	}
	rate, err := s.rate(ctx, b)
	if err != nil {
		return nil, err
	}

	result := &RangeResult{Charges: []domain.DailyCharge{}}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		charges := s.charges.WithTx(tx)
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			exists, err := charges.ExistsBetween(ctx, bp.ID, day, day.AddDate(0, 0, 1))
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			desc := descRange
			dc := domain.DailyCharge{
				BookingPetID: bp.ID,
				Amount:       rate,
				Description:  &desc,
				ChargeDate:   day,
			}
			if err := charges.Create(ctx, &dc); err != nil {
				return err
			}
			result.Charges = append(result.Charges, dc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.CreatedCount = len(result.Charges)
	s.log.Info("daily charges generated",
		zap.Int64("booking_id", b.ID),
		zap.Int64("booking_pet_id", bp.ID),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("created", result.CreatedCount),
	)
	return result, nil
}

// open admits only per-day bookings that are IN_PROGRESS.
func (s *Service) open(ctx context.Context, bookingID, bookingPetID int64) (*domain.Booking, *domain.BookingPet, error) {
	b, bp, err := usage.OpenPet(ctx, s.bookings, bookingID, bookingPetID)
	if err != nil {
		return nil, nil, err
	}
	if !b.IsPerDay() {
		return nil, nil, apperr.InvalidState("daily charges only apply to per-day services")
	}
	if b.Status != domain.BookingInProgress {
		return nil, nil, apperr.InvalidState("booking %d is %s; take a deposit first", b.ID, b.Status)
	}
	return b, bp, nil
}

// rate is the daily price of the booking's primary line.
func (s *Service) rate(ctx context.Context, b *domain.Booking) (decimal.Decimal, error) {
	item, err := s.bookings.GetPrimaryItem(ctx, b.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return money.ResolvePrice(item.UnitPrice, func() (decimal.Decimal, bool) {
		return b.ServiceType.UnitPrice(), true
	}), nil
}

func (s *Service) dayOrToday(raw *string) (time.Time, error) {
	t, err := utils.ParseTimePtr(raw)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return midnight(s.now()), nil
	}
	return midnight(*t), nil
}

func midnight(t time.Time) time.Time {
	local := t.In(time.Local)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
