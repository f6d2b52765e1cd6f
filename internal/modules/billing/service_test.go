package billing

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/repository"
	"petcare/internal/testutil"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewService(
		db,
		repository.NewBookingRepository(db),
		repository.NewProductRepository(db),
		repository.NewPaymentRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

// perDayBooking is 2 days at 100 per day for one pet.
func perDayBooking(t *testing.T, db *gorm.DB, status domain.BookingStatus) (domain.Booking, domain.BookingPet) {
	t.Helper()
	owner := testutil.Owner(t, db, "Aigerim")
	pet := testutil.Pet(t, db, owner.ID, "Barsik")
	st := testutil.ServiceType(t, db, "Rawat Inap", "0", "100")
	b, pets := testutil.Booking(t, db, testutil.BookingSpec{
		OwnerID:     owner.ID,
		ServiceType: st,
		PetIDs:      []int64{pet.ID},
		Status:      status,
		Start:       testutil.Date(2026, 3, 1, 0),
		End:         testutil.Date(2026, 3, 3, 0),
	})
	return b, pets[0]
}

func payments(t *testing.T, db *gorm.DB, bookingID int64) []domain.Payment {
	t.Helper()
	var out []domain.Payment
	require.NoError(t, db.Where("booking_id = ?", bookingID).Find(&out).Error)
	return out
}

func status(t *testing.T, db *gorm.DB, bookingID int64) domain.BookingStatus {
	t.Helper()
	var b domain.Booking
	require.NoError(t, db.First(&b, bookingID).Error)
	return b.Status
}

func TestEstimate_NotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Estimate(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEstimate_FallsBackToCatalogPrice(t *testing.T) {
	svc, db := newService(t)
	b, bp := perDayBooking(t, db, domain.BookingInProgress)
	testutil.Product(t, db, "Cefotaxime", "40")

	pu := domain.ProductUsage{BookingPetID: &bp.ID, ProductName: "Cefotaxime", Quantity: testutil.Dec("2")}
	require.NoError(t, db.Create(&pu).Error)

	est, err := svc.Estimate(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "200", est.ServiceSubtotal.String())
	assert.Equal(t, "80", est.TotalProducts.String())
	assert.Equal(t, "280", est.AmountDue.String())
}

func TestCheckout_NothingDueCompletesWithoutPayment(t *testing.T) {
	svc, db := newService(t)
	b, _ := perDayBooking(t, db, domain.BookingInProgress)
	require.NoError(t, db.Create(&domain.Deposit{BookingID: b.ID, Amount: testutil.Dec("500"), DepositDate: *testutil.Date(2026, 3, 1, 0)}).Error)

	res, err := svc.Checkout(context.Background(), b.ID, CheckoutRequest{})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingCompleted, res.Status)
	assert.True(t, res.AmountDueAfterDiscount.IsZero())
	assert.Nil(t, res.Payment)
	assert.Empty(t, payments(t, db, b.ID))
	assert.Equal(t, domain.BookingCompleted, status(t, db, b.ID))
}

func TestCheckout_WritesOnePayment(t *testing.T) {
	svc, db := newService(t)
	b, _ := perDayBooking(t, db, domain.BookingInProgress)
	require.NoError(t, db.Create(&domain.Deposit{BookingID: b.ID, Amount: testutil.Dec("50"), DepositDate: *testutil.Date(2026, 3, 1, 0)}).Error)

	method := "CASH"
	percent := "10"
	res, err := svc.Checkout(context.Background(), b.ID, CheckoutRequest{Method: &method, DiscountPercent: &percent})
	require.NoError(t, err)

	// 200 less 10% is 180, minus the 50 deposit
	assert.Equal(t, "130", res.AmountDueAfterDiscount.String())
	assert.Equal(t, "20", res.DiscountAmount.String())

	stored := payments(t, db, b.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, "130", stored[0].Total.String())
	require.NotNil(t, stored[0].InvoiceNo)
	assert.Regexp(t, `^INV-\d+-\d+$`, *stored[0].InvoiceNo)
	assert.Contains(t, *stored[0].InvoiceNo, fmt.Sprintf("INV-%d-", b.ID))
	assert.NotEmpty(t, stored[0].Breakdown)
	assert.Equal(t, domain.BookingCompleted, status(t, db, b.ID))
}

func TestCheckout_FractionalDiscountIsNotRounded(t *testing.T) {
	svc, db := newService(t)
	owner := testutil.Owner(t, db, "Aigerim")
	pet := testutil.Pet(t, db, owner.ID, "Barsik")
	st := testutil.ServiceType(t, db, "Ward half", "0", "100.5")
	b, _ := testutil.Booking(t, db, testutil.BookingSpec{
		OwnerID:     owner.ID,
		ServiceType: st,
		PetIDs:      []int64{pet.ID},
		Status:      domain.BookingInProgress,
		Start:       testutil.Date(2026, 3, 1, 0),
		End:         testutil.Date(2026, 3, 3, 0),
	})

	percent := "10"
	res, err := svc.Checkout(context.Background(), b.ID, CheckoutRequest{DiscountPercent: &percent})
	require.NoError(t, err)

	assert.Equal(t, "201", res.Total.String())
	assert.Equal(t, "180.9", res.AmountDueAfterDiscount.String())
	assert.Equal(t, "20.1", res.DiscountAmount.String())

	stored := payments(t, db, b.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, "180.9", stored[0].Total.String())
}

func TestCheckout_PercentIsClamped(t *testing.T) {
	svc, db := newService(t)
	b, _ := perDayBooking(t, db, domain.BookingInProgress)

	percent := "150"
	res, err := svc.Checkout(context.Background(), b.ID, CheckoutRequest{DiscountPercent: &percent})
	require.NoError(t, err)
	assert.Equal(t, "100", res.DiscountPercent.String())
	assert.Nil(t, res.Payment)
}

func TestCheckout_RejectsClosedBooking(t *testing.T) {
	svc, db := newService(t)
	b, _ := perDayBooking(t, db, domain.BookingCompleted)

	_, err := svc.Checkout(context.Background(), b.ID, CheckoutRequest{})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestInvoice(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	b, _ := perDayBooking(t, db, domain.BookingInProgress)

	_, err := svc.Invoice(ctx, b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Checkout(ctx, b.ID, CheckoutRequest{})
	require.NoError(t, err)

	inv, err := svc.Invoice(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "200", inv.Payment.Total.String())
	assert.Equal(t, "200", inv.Estimate.Total.String())
}

func TestUpdateItemDiscount_PrimarySyncsBooking(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	b, _ := perDayBooking(t, db, domain.BookingInProgress)

	percent := "50"
	require.NoError(t, svc.UpdateItemDiscount(ctx, b.ID, ItemDiscountRequest{ItemType: ItemService, DiscountPercent: &percent}))

	var stored domain.Booking
	require.NoError(t, db.First(&stored, b.ID).Error)
	assert.Equal(t, "50", stored.DiscountPercent.String())

	est, err := svc.Estimate(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", est.ServiceSubtotal.String())
	assert.Equal(t, "200", est.TotalDaily.String())
}

func TestUpdateItemDiscount_UsageMustBelongToBooking(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	b, bp := perDayBooking(t, db, domain.BookingInProgress)
	other, _ := perDayBooking(t, db, domain.BookingInProgress)

	exam := domain.Examination{BookingPetID: bp.ID}
	require.NoError(t, db.Create(&exam).Error)
	pu := domain.ProductUsage{ExaminationID: &exam.ID, ProductName: "Vitamin", Quantity: testutil.Dec("1"), UnitPrice: decimal.NewNullDecimal(testutil.Dec("100"))}
	require.NoError(t, db.Create(&pu).Error)

	amount := "30"
	err := svc.UpdateItemDiscount(ctx, other.ID, ItemDiscountRequest{ItemType: ItemProduct, ItemID: pu.ID, DiscountAmount: &amount})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, svc.UpdateItemDiscount(ctx, b.ID, ItemDiscountRequest{ItemType: ItemProduct, ItemID: pu.ID, DiscountAmount: &amount}))
	est, err := svc.Estimate(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "70", est.TotalProducts.String())

	err = svc.UpdateItemDiscount(ctx, b.ID, ItemDiscountRequest{ItemType: ItemMix, ItemID: 999, DiscountAmount: &amount})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	bad := "-1"
	err = svc.UpdateItemDiscount(ctx, b.ID, ItemDiscountRequest{ItemType: ItemProduct, ItemID: pu.ID, DiscountAmount: &bad})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
