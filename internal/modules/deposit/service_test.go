package deposit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/repository"
	"petcare/internal/testutil"
)

func setup(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewService(db, repository.NewBookingRepository(db), repository.NewDepositRepository(db), zap.NewNop()), db
}

func booking(t *testing.T, db *gorm.DB, perDay string, status domain.BookingStatus) domain.Booking {
	t.Helper()
	owner := testutil.Owner(t, db, "Dana")
	pet := testutil.Pet(t, db, owner.ID, "Tom")
	st := testutil.ServiceType(t, db, "Hotel", "50000", perDay)
	b, _ := testutil.Booking(t, db, testutil.BookingSpec{OwnerID: owner.ID, ServiceType: st, PetIDs: []int64{pet.ID}, Status: status})
	return b
}

func status(t *testing.T, db *gorm.DB, id int64) domain.BookingStatus {
	t.Helper()
	var b domain.Booking
	require.NoError(t, db.First(&b, id).Error)
	return b.Status
}

func TestCreate_AdmitsBooking(t *testing.T) {
	for _, from := range []domain.BookingStatus{domain.BookingPending, domain.BookingWaitingToDeposit} {
		t.Run(string(from), func(t *testing.T) {
			svc, db := setup(t)
			b := booking(t, db, "100000", from)

			method := "CASH"
			d, err := svc.Create(context.Background(), b.ID, CreateDepositRequest{Amount: "250000", Method: &method})
			require.NoError(t, err)
			assert.Equal(t, "250000", d.Amount.String())
			assert.Equal(t, domain.BookingInProgress, status(t, db, b.ID))
		})
	}
}

func TestCreate_SecondDepositKeepsStatus(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	b := booking(t, db, "100000", domain.BookingInProgress)

	_, err := svc.Create(ctx, b.ID, CreateDepositRequest{Amount: "100"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, b.ID, CreateDepositRequest{Amount: "50,5"})
	require.NoError(t, err)

	deposits, err := svc.List(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, deposits, 2)
	assert.Equal(t, domain.BookingInProgress, status(t, db, b.ID))
}

func TestCreate_Rejections(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	flat := booking(t, db, "", domain.BookingPending)
	_, err := svc.Create(ctx, flat.ID, CreateDepositRequest{Amount: "100"})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Equal(t, domain.BookingPending, status(t, db, flat.ID))

	closed := booking(t, db, "100000", domain.BookingCompleted)
	_, err = svc.Create(ctx, closed.ID, CreateDepositRequest{Amount: "100"})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	open := booking(t, db, "100000", domain.BookingPending)
	_, err = svc.Create(ctx, open.ID, CreateDepositRequest{Amount: "0"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Create(ctx, open.ID, CreateDepositRequest{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, domain.BookingPending, status(t, db, open.ID))

	_, err = svc.Create(ctx, 9999, CreateDepositRequest{Amount: "100"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.List(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
