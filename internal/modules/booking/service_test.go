package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/modules/usage"
	"petcare/internal/pkg/apperr"
	"petcare/internal/policy"
	"petcare/internal/repository"
	"petcare/internal/testutil"
)

type fixture struct {
	svc    *Service
	db     *gorm.DB
	engine *usage.Engine
	owner  domain.Owner
	pets   []domain.Pet
	flat   domain.ServiceType
	perDay domain.ServiceType
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	products := repository.NewProductRepository(db)
	engine := usage.NewEngine(products, repository.NewInventoryRepository(db), zap.NewNop())
	svc := NewService(
		db,
		repository.NewBookingRepository(db),
		repository.NewOwnerRepository(db),
		repository.NewCatalogRepository(db),
		engine,
		policy.Default(),
		zap.NewNop(),
	)

	owner := testutil.Owner(t, db, "Dana")
	return &fixture{
		svc:    svc,
		db:     db,
		engine: engine,
		owner:  owner,
		pets: []domain.Pet{
			testutil.Pet(t, db, owner.ID, "Tom"),
			testutil.Pet(t, db, owner.ID, "Kitty"),
		},
		flat:   testutil.ServiceType(t, db, "Grooming", "150000", ""),
		perDay: testutil.ServiceType(t, db, "Rawat Inap", "0", "100000"),
	}
}

func (f *fixture) create(t *testing.T, st domain.ServiceType) *domain.Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), CreateBookingRequest{
		OwnerID:       f.owner.ID,
		ServiceTypeID: st.ID,
		PetIDs:        []int64{f.pets[0].ID, f.pets[1].ID},
	})
	require.NoError(t, err)
	return b
}

func count(t *testing.T, db *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func TestCreate_MaterializesPrimaryItem(t *testing.T) {
	f := setup(t)
	start, end, percent := "2026-03-01", "2026-03-04", "10"

	b, err := f.svc.Create(context.Background(), CreateBookingRequest{
		OwnerID:         f.owner.ID,
		ServiceTypeID:   f.perDay.ID,
		PetIDs:          []int64{f.pets[0].ID, f.pets[0].ID},
		StartDate:       &start,
		EndDate:         &end,
		DiscountPercent: &percent,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.False(t, b.ProceedToAdmission)

	loaded, err := f.svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, domain.ItemPrimary, loaded.Items[0].Role)
	assert.Equal(t, f.perDay.ID, loaded.Items[0].ServiceTypeID)
	assert.Equal(t, "10", loaded.Items[0].DiscountPercent.String())
	assert.Len(t, loaded.Pets, 1)
}

func TestCreate_Rejections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	stranger := testutil.Pet(t, f.db, testutil.Owner(t, f.db, "Other").ID, "Rex")
	start, end := "2026-03-04", "2026-03-01"

	_, err := f.svc.Create(ctx, CreateBookingRequest{OwnerID: f.owner.ID, ServiceTypeID: f.flat.ID, PetIDs: []int64{stranger.ID}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Create(ctx, CreateBookingRequest{OwnerID: f.owner.ID, ServiceTypeID: 999, PetIDs: []int64{f.pets[0].ID}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.Create(ctx, CreateBookingRequest{OwnerID: f.owner.ID, ServiceTypeID: f.flat.ID, PetIDs: []int64{f.pets[0].ID}, StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Create(ctx, CreateBookingRequest{OwnerID: f.owner.ID, ServiceTypeID: f.flat.ID})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestList_ClampsPaging(t *testing.T) {
	f := setup(t)
	for i := 0; i < 3; i++ {
		f.create(t, f.flat)
	}

	res, err := f.svc.List(context.Background(), 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 100, res.PageSize)
	assert.EqualValues(t, 3, res.Total)
	assert.Len(t, res.Items, 3)

	res, err = f.svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestDelete_OnlyPending(t *testing.T) {
	f := setup(t)
	b := f.create(t, f.flat)
	require.NoError(t, f.db.Model(&domain.Booking{}).Where("id = ?", b.ID).Update("status", domain.BookingInProgress).Error)

	err := f.svc.Delete(context.Background(), b.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestDelete_CascadesAndRestoresStock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	product := testutil.Product(t, f.db, "Amoxicillin", "15")
	testutil.Stock(t, f.db, product.ID, "100")

	b := f.create(t, f.flat)
	keep := f.create(t, f.flat)

	loaded, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	exam := domain.Examination{BookingPetID: loaded.Pets[0].ID}
	require.NoError(t, f.db.Create(&exam).Error)

	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		for _, qty := range []string{"1", "2", "3"} {
			if _, err := f.engine.ConsumeProduct(ctx, tx, usage.ForExamination(exam.ID), usage.ProductLine{ProductID: &product.ID, Quantity: testutil.Dec(qty)}); err != nil {
				return err
			}
		}
		return nil
	}))
	assert.Equal(t, "94", testutil.Available(t, f.db, product.ID).String())

	require.NoError(t, f.svc.Delete(ctx, b.ID))

	assert.Zero(t, count(t, f.db, &domain.Booking{}, "id = ?", b.ID))
	assert.Zero(t, count(t, f.db, &domain.BookingPet{}, "booking_id = ?", b.ID))
	assert.Zero(t, count(t, f.db, &domain.BookingItem{}, "booking_id = ?", b.ID))
	assert.Zero(t, count(t, f.db, &domain.Examination{}, "id = ?", exam.ID))
	assert.Zero(t, count(t, f.db, &domain.ProductUsage{}, "examination_id = ?", exam.ID))
	assert.Equal(t, "100", testutil.Available(t, f.db, product.ID).String())

	assert.EqualValues(t, 1, count(t, f.db, &domain.Booking{}, "id = ?", keep.ID))
	assert.EqualValues(t, 2, count(t, f.db, &domain.BookingPet{}, "booking_id = ?", keep.ID))
}

func TestItems_AddUpdateRemove(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.create(t, f.flat)
	bath := testutil.ServiceType(t, f.db, "Bath", "50000", "")

	price := "45.000,00"
	item, err := f.svc.AddItem(ctx, b.ID, AddItemRequest{ServiceTypeID: bath.ID, Quantity: 2, UnitPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, domain.ItemAddon, item.Role)
	assert.Equal(t, "45000", item.UnitPrice.Decimal.String())

	qty := 3
	updated, err := f.svc.UpdateItem(ctx, b.ID, item.ID, UpdateItemRequest{Quantity: &qty, ClearUnitPrice: true})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.False(t, updated.UnitPrice.Valid)

	loaded, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	primary := loaded.PrimaryItem()
	require.NotNil(t, primary)
	assert.ErrorIs(t, f.svc.RemoveItem(ctx, b.ID, primary.ID), apperr.ErrInvalidState)

	require.NoError(t, f.svc.RemoveItem(ctx, b.ID, item.ID))
	_, err = f.svc.UpdateItem(ctx, b.ID, item.ID, UpdateItemRequest{Quantity: &qty})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSplit_MovesPetsToNewBooking(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.create(t, f.perDay)

	_, err := f.svc.Split(ctx, b.ID, SplitRequest{PetIDs: []int64{12345}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	split, err := f.svc.Split(ctx, b.ID, SplitRequest{PetIDs: []int64{f.pets[1].ID}})
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, split.ID)
	assert.Equal(t, f.perDay.ID, split.ServiceTypeID)
	require.Len(t, split.Pets, 1)
	assert.Equal(t, f.pets[1].ID, split.Pets[0].PetID)
	require.NotNil(t, split.PrimaryItem())

	original, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, original.Pets, 1)
	assert.Equal(t, f.pets[0].ID, original.Pets[0].PetID)
}

func TestPlanAdmission(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.PlanAdmission(ctx, f.create(t, f.flat).ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	b, err := f.svc.PlanAdmission(ctx, f.create(t, f.perDay).ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingWaitingToDeposit, b.Status)
	assert.True(t, b.ProceedToAdmission)
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpdateStatus(ctx, f.create(t, f.perDay).ID, UpdateStatusRequest{Status: domain.BookingCompleted})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	flat := f.create(t, f.flat)
	b, err := f.svc.UpdateStatus(ctx, flat.ID, UpdateStatusRequest{Status: domain.BookingCompleted})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, b.Status)

	_, err = f.svc.UpdateStatus(ctx, flat.ID, UpdateStatusRequest{Status: domain.BookingCancelled})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = f.svc.UpdateStatus(ctx, f.create(t, f.flat).ID, UpdateStatusRequest{Status: domain.BookingInProgress})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRepair(t *testing.T) {
	f := setup(t)
	stuck := f.create(t, f.perDay)
	untouched := f.create(t, f.perDay)
	f.create(t, f.flat)

	loaded, err := f.svc.Get(context.Background(), stuck.ID)
	require.NoError(t, err)
	weight := "4.2"
	require.NoError(t, f.db.Create(&domain.Examination{BookingPetID: loaded.Pets[0].ID, Weight: &weight}).Error)

	_, err = f.svc.Repair(policy.WithRole(context.Background(), domain.RoleSupervisor))
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	report, err := f.svc.Repair(policy.WithRole(context.Background(), domain.RoleMaster))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Repaired)
	require.Len(t, report.Details, 1)
	assert.Equal(t, stuck.ID, report.Details[0].BookingID)

	var got domain.Booking
	require.NoError(t, f.db.First(&got, stuck.ID).Error)
	assert.Equal(t, domain.BookingWaitingToDeposit, got.Status)
	var other domain.Booking
	require.NoError(t, f.db.First(&other, untouched.ID).Error)
	assert.Equal(t, domain.BookingPending, other.Status)
}
