package deposit

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/money"
	"petcare/internal/pkg/validator"
	"petcare/internal/repository"
)

type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	deposits *repository.DepositRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, bookings *repository.BookingRepository, deposits *repository.DepositRepository, log *zap.Logger) *Service {
	return &Service{
		db:       db,
		bookings: bookings,
		deposits: deposits,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

// Create takes a deposit on a per-day booking. The first deposit admits the
// pet: a PENDING or WAITING_TO_DEPOSIT booking moves to IN_PROGRESS together
// with the deposit row.
func (s *Service) Create(ctx context.Context, bookingID int64, req CreateDepositRequest) (*domain.Deposit, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	amount, err := money.ParsePositive("amount", req.Amount)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsPerDay() {
		return nil, apperr.InvalidState("deposits only apply to per-day services")
	}
	if b.Status.IsTerminal() {
		return nil, apperr.InvalidState("booking %d is %s", b.ID, b.Status)
	}

	d := &domain.Deposit{
		BookingID:   b.ID,
		Amount:      amount,
		Method:      req.Method,
		DepositDate: s.now(),
	}
	admit := b.Status == domain.BookingPending || b.Status == domain.BookingWaitingToDeposit

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.deposits.WithTx(tx).Create(ctx, d); err != nil {
			return err
		}
		if admit {
			return s.bookings.WithTx(tx).UpdateStatus(ctx, b.ID, domain.BookingInProgress)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("deposit taken",
		zap.Int64("booking_id", b.ID),
		zap.Int64("deposit_id", d.ID),
		zap.String("amount", amount.String()),
	)
	if admit {
		s.log.Info("booking status changed",
			zap.Int64("booking_id", b.ID),
			zap.String("from", string(b.Status)),
			zap.String("to", string(domain.BookingInProgress)),
		)
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, bookingID int64) ([]domain.Deposit, error) {
	if _, err := s.bookings.Get(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.deposits.ListByBooking(ctx, bookingID)
}
