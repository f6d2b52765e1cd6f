package payment

import (
	"context"

	"petcare/internal/domain"
)

type bookingReader interface {
	Get(ctx context.Context, id int64) (*domain.Booking, error)
}

type paymentRepo interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
	Create(ctx context.Context, p *domain.Payment) error
}
