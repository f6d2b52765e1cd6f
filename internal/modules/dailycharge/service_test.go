package dailycharge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/repository"
	"petcare/internal/testutil"
)

var clock = *testutil.Date(2026, time.March, 10, 14*time.Hour)

func setup(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewService(db, repository.NewBookingRepository(db), repository.NewDailyChargeRepository(db), zap.NewNop())
	svc.now = func() time.Time { return clock }
	return svc, db
}

func admitted(t *testing.T, db *gorm.DB, perDay string, status domain.BookingStatus) (domain.Booking, domain.BookingPet) {
	t.Helper()
	owner := testutil.Owner(t, db, "Dana")
	pet := testutil.Pet(t, db, owner.ID, "Tom")
	st := testutil.ServiceType(t, db, "Hotel "+perDay+string(status), "50000", perDay)
	b, pets := testutil.Booking(t, db, testutil.BookingSpec{
		OwnerID:     owner.ID,
		ServiceType: st,
		PetIDs:      []int64{pet.ID},
		Status:      status,
		Start:       testutil.Date(2026, time.March, 7, 9*time.Hour),
		End:         testutil.Date(2026, time.March, 10, 0),
	})
	return b, pets[0]
}

func TestCreate_RequiresPerDayInProgress(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	req := CreateChargeRequest{Amount: "100000"}

	flat, flatPet := admitted(t, db, "", domain.BookingInProgress)
	_, err := svc.Create(ctx, flat.ID, flatPet.ID, req)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	pending, pendingPet := admitted(t, db, "100000", domain.BookingPending)
	_, err = svc.Create(ctx, pending.ID, pendingPet.ID, req)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	b, bp := admitted(t, db, "100000", domain.BookingInProgress)
	_, err = svc.Create(ctx, b.ID, bp.ID, CreateChargeRequest{Amount: "-5"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, b.ID, 9999, req)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	date := "2026-03-08"
	dc, err := svc.Create(ctx, b.ID, bp.ID, CreateChargeRequest{Amount: "75.000,5", ChargeDate: &date})
	require.NoError(t, err)
	assert.Equal(t, "75000.5", dc.Amount.String())
	assert.True(t, dc.ChargeDate.Equal(*testutil.Date(2026, time.March, 8, 0)))
}

func TestGenerateToday_Idempotent(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	b, bp := admitted(t, db, "100000", domain.BookingInProgress)

	first, err := svc.GenerateToday(ctx, b.ID, bp.ID)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "100000", first.Charge.Amount.String())

	again, err := svc.GenerateToday(ctx, b.ID, bp.ID)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, first.Charge.ID, again.Charge.ID)

	charges, err := svc.List(ctx, b.ID, bp.ID)
	require.NoError(t, err)
	assert.Len(t, charges, 1)
}

func TestGenerateToday_UsesPrimaryItemPrice(t *testing.T) {
	svc, db := setup(t)
	b, bp := admitted(t, db, "100000", domain.BookingInProgress)
	require.NoError(t, db.Model(&domain.BookingItem{}).
		Where("booking_id = ? AND role = ?", b.ID, domain.ItemPrimary).
		Update("unit_price", "80000").Error)

	res, err := svc.GenerateToday(context.Background(), b.ID, bp.ID)
	require.NoError(t, err)
	assert.Equal(t, "80000", res.Charge.Amount.String())
}

func TestGenerateRange_SkipsChargedDays(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	b, bp := admitted(t, db, "100000", domain.BookingInProgress)

	mid := "2026-03-02"
	_, err := svc.Create(ctx, b.ID, bp.ID, CreateChargeRequest{Amount: "1", ChargeDate: &mid})
	require.NoError(t, err)

	start, end := "2026-03-01", "2026-03-04"
	res, err := svc.GenerateRange(ctx, b.ID, bp.ID, RangeRequest{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, 3, res.CreatedCount)

	again, err := svc.GenerateRange(ctx, b.ID, bp.ID, RangeRequest{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, 0, again.CreatedCount)

	charges, err := svc.List(ctx, b.ID, bp.ID)
	require.NoError(t, err)
	assert.Len(t, charges, 4)
}

func TestGenerateRange_Rejections(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	b, bp := admitted(t, db, "100000", domain.BookingInProgress)

	start, end := "2026-03-05", "2026-03-01"
	_, err := svc.GenerateRange(ctx, b.ID, bp.ID, RangeRequest{Start: &start, End: &end})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	far := "2024-01-01"
	_, err = svc.GenerateRange(ctx, b.ID, bp.ID, RangeRequest{Start: &far})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	bad := "tomorrow"
	_, err = svc.GenerateRange(ctx, b.ID, bp.ID, RangeRequest{Start: &bad})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	res, err := svc.GenerateRange(ctx, b.ID, bp.ID, RangeRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, res.CreatedCount)
	assert.True(t, res.Charges[0].ChargeDate.Equal(*testutil.Date(2026, time.March, 10, 0)))
}

func TestGenerateUntilCheckout(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	b, bp := admitted(t, db, "100000", domain.BookingInProgress)

	res, err := svc.GenerateUntilCheckout(ctx, b.ID, bp.ID)
	require.NoError(t, err)
	require.Equal(t, 3, res.CreatedCount)
	assert.True(t, res.Charges[0].ChargeDate.Equal(*testutil.Date(2026, time.March, 8, 0)))
	assert.True(t, res.Charges[2].ChargeDate.Equal(*testutil.Date(2026, time.March, 10, 0)))

	again, err := svc.GenerateUntilCheckout(ctx, b.ID, bp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.CreatedCount)
}

func TestGenerateUntilCheckout_ContinuesAfterLastCharge(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	b, bp := admitted(t, db, "100000", domain.BookingInProgress)

	day := "2026-03-08"
	_, err := svc.Create(ctx, b.ID, bp.ID, CreateChargeRequest{Amount: "100000", ChargeDate: &day})
	require.NoError(t, err)

	res, err := svc.GenerateUntilCheckout(ctx, b.ID, bp.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CreatedCount)
}
