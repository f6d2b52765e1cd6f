package payment

import (
	"context"
	"testing"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBookingReader struct{}

func (m *mockBookingReader) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	if id != 1 {
		return nil, apperr.NotFound("booking")
	}
	return &domain.Booking{ID: id, Status: domain.BookingCompleted}, nil
}

type mockPaymentRepo struct {
	created []domain.Payment
}

func (m *mockPaymentRepo) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range m.created {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	p.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *p)
	return nil
}

func newService() (*Service, *mockPaymentRepo) {
	repo := &mockPaymentRepo{}
	return NewService(repo, &mockBookingReader{}, policy.Default(), nil), repo
}

func TestRefund_NegativeTotalDefaultMethod(t *testing.T) {
	svc, repo := newService()
	ctx := policy.WithRole(context.Background(), domain.RoleSupervisor)

	p, err := svc.Refund(ctx, 1, RefundRequest{Amount: "15000"})
	require.NoError(t, err)
	assert.Equal(t, "-15000", p.Total.String())
	require.NotNil(t, p.Method)
	assert.Equal(t, domain.MethodRefund, *p.Method)

	transfer := "TRANSFER"
	p, err = svc.Refund(ctx, 1, RefundRequest{Amount: "2,5", Method: &transfer})
	require.NoError(t, err)
	assert.Equal(t, "-2.5", p.Total.String())
	assert.Equal(t, "TRANSFER", *p.Method)

	payments, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.Len(t, repo.created, 2)
}

func TestRefund_Rejections(t *testing.T) {
	svc, repo := newService()
	manager := policy.WithRole(context.Background(), domain.RoleMaster)

	_, err := svc.Refund(policy.WithRole(context.Background(), domain.RoleStaff), 1, RefundRequest{Amount: "10"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Refund(context.Background(), 1, RefundRequest{Amount: "10"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	for _, amount := range []string{"0", "-3", "abc", ""} {
		_, err = svc.Refund(manager, 1, RefundRequest{Amount: amount})
		assert.ErrorIs(t, err, apperr.ErrValidation, amount)
	}

	_, err = svc.Refund(manager, 2, RefundRequest{Amount: "10"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, repo.created)
}

func TestList_UnknownBooking(t *testing.T) {
	svc, _ := newService()
	_, err := svc.List(context.Background(), 7)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
