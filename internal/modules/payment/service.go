package payment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"petcare/internal/domain"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/money"
	"petcare/internal/pkg/validator"
	"petcare/internal/policy"
)

type Service struct {
	payments paymentRepo
	bookings bookingReader
	policy   *policy.Policy
	log      *zap.Logger
	now      func() time.Time
}

func NewService(payments paymentRepo, bookings bookingReader, pol *policy.Policy, log *zap.Logger) *Service {
	return &Service{
		payments: payments,
		bookings: bookings,
		policy:   pol,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	if _, err := s.bookings.Get(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.payments.ListByBooking(ctx, bookingID)
}

// Refund records money returned to the owner as a payment with a negative
// total. The method defaults to REFUND.
func (s *Service) Refund(ctx context.Context, bookingID int64, req RefundRequest) (*domain.Payment, error) {
	if err := s.policy.Authorize(ctx, policy.RefundPayment); err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	amount, err := money.ParsePositive("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	if _, err := s.bookings.Get(ctx, bookingID); err != nil {
		return nil, err
	}

	method := domain.MethodRefund
	if req.Method != nil && *req.Method != "" {
		method = *req.Method
	}
	p := &domain.Payment{
		BookingID:   bookingID,
		Total:       amount.Neg(),
		Method:      &method,
		PaymentDate: s.now(),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("refund recorded",
		zap.Int64("booking_id", bookingID),
		zap.Int64("payment_id", p.ID),
		zap.String("amount", amount.String()),
		zap.String("method", method),
	)
	return p, nil
}
