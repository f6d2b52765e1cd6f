package mix

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

var master = policy.WithRole(context.Background(), domain.RoleMaster)

func setup(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	products := repository.NewProductRepository(db)
	engine := usage.NewEngine(products, repository.NewInventoryRepository(db), zap.NewNop())
	svc := NewService(
		db,
		repository.NewBookingRepository(db),
		products,
		repository.NewExaminationRepository(db),
		repository.NewVisitRepository(db),
		engine,
		policy.Default(),
		zap.NewNop(),
	)
	return svc, db
}

func openPet(t *testing.T, db *gorm.DB, status domain.BookingStatus) (domain.Booking, domain.BookingPet) {
	t.Helper()
	owner := testutil.Owner(t, db, "Dana")
	pet := testutil.Pet(t, db, owner.ID, "Tom")
	st := testutil.ServiceType(t, db, "Hotel", "0", "100000")
	b, pets := testutil.Booking(t, db, testutil.BookingSpec{OwnerID: owner.ID, ServiceType: st, PetIDs: []int64{pet.ID}, Status: status})
	return b, pets[0]
}

// tablets has 500 mg per tablet.
func tablets(t *testing.T, db *gorm.DB) domain.Product {
	t.Helper()
	p := testutil.Product(t, db, "Amoxicillin 500", "2000")
	require.NoError(t, db.Model(&p).Update("unit_content_amount", "500").Error)
	testutil.Stock(t, db, p.ID, "10")
	return p
}

func TestCreate(t *testing.T) {
	svc, db := setup(t)
	p := tablets(t, db)
	req := CreateMixRequest{
		Name:       "Antibiotic puyer",
		Components: []CreateComponentRequest{{ProductID: p.ID, QuantityBase: "10"}},
	}

	_, err := svc.Create(policy.WithRole(context.Background(), domain.RoleStaff), req)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	m, err := svc.Create(master, req)
	require.NoError(t, err)
	assert.True(t, m.Price.IsZero())
	require.Len(t, m.Components, 1)
	require.NotNil(t, m.Components[0].Product)
	assert.Equal(t, "Amoxicillin 500", m.Components[0].Product.Name)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreate_Rejections(t *testing.T) {
	svc, db := setup(t)
	p := tablets(t, db)

	_, err := svc.Create(master, CreateMixRequest{Name: "Empty"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(master, CreateMixRequest{Name: "Ghost", Components: []CreateComponentRequest{{ProductID: 999, QuantityBase: "1"}}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	neg := "-1"
	_, err = svc.Create(master, CreateMixRequest{Name: "Cheap", Price: &neg, Components: []CreateComponentRequest{{ProductID: p.ID, QuantityBase: "1"}}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(master, CreateMixRequest{Name: "Zero", Components: []CreateComponentRequest{{ProductID: p.ID, QuantityBase: "0"}}})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUse_ConvertsContentUnits(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	p := tablets(t, db)
	price := "15000"
	m, err := svc.Create(master, CreateMixRequest{
		Name:       "Antibiotic puyer",
		Price:      &price,
		Components: []CreateComponentRequest{{ProductID: p.ID, QuantityBase: "10"}},
	})
	require.NoError(t, err)
	b, bp := openPet(t, db, domain.BookingInProgress)

	mu, err := svc.Use(ctx, b.ID, bp.ID, UseMixRequest{TemplateMixRequest: usage.TemplateMixRequest{MixProductID: m.ID, Quantity: "2"}})
	require.NoError(t, err)
	assert.Equal(t, "15000", mu.UnitPrice.Decimal.String())
	assert.Equal(t, "9.96", testutil.Available(t, db, p.ID).String())
}

func TestUse_Rejections(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	p := tablets(t, db)
	m, err := svc.Create(master, CreateMixRequest{Name: "Puyer", Components: []CreateComponentRequest{{ProductID: p.ID, QuantityBase: "10"}}})
	require.NoError(t, err)

	closed, closedPet := openPet(t, db, domain.BookingCancelled)
	_, err = svc.Use(ctx, closed.ID, closedPet.ID, UseMixRequest{TemplateMixRequest: usage.TemplateMixRequest{MixProductID: m.ID, Quantity: "1"}})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	b, bp := openPet(t, db, domain.BookingInProgress)
	visit := int64(777)
	_, err = svc.Use(ctx, b.ID, bp.ID, UseMixRequest{
		TemplateMixRequest: usage.TemplateMixRequest{MixProductID: m.ID, Quantity: "1"},
		VisitID:            &visit,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Use(ctx, b.ID, bp.ID, UseMixRequest{TemplateMixRequest: usage.TemplateMixRequest{MixProductID: m.ID, Quantity: "0"}})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "10", testutil.Available(t, db, p.ID).String())
}

func TestUseQuick_PricedMixZeroesComponents(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	p := tablets(t, db)
	b, bp := openPet(t, db, domain.BookingInProgress)

	price := "25000"
	mu, err := svc.UseQuick(ctx, b.ID, bp.ID, QuickMixUseRequest{QuickMixRequest: usage.QuickMixRequest{
		Label:      "Fever",
		Price:      &price,
		Components: []usage.ComponentRequest{{ProductID: p.ID, Quantity: "5"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, "25000", mu.UnitPrice.Decimal.String())
	assert.Equal(t, "1", mu.Quantity.String())
	assert.Equal(t, "5", testutil.Available(t, db, p.ID).String())

	var components []domain.ProductUsage
	require.NoError(t, db.Where("mix_usage_id = ?", mu.ID).Find(&components).Error)
	require.Len(t, components, 1)
	require.NotNil(t, components[0].BookingPetID)
	assert.Equal(t, bp.ID, *components[0].BookingPetID)
	assert.True(t, components[0].UnitPrice.Decimal.IsZero())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUseQuick_ExaminationScope(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	p := tablets(t, db)
	b, bp := openPet(t, db, domain.BookingPending)
	exam := domain.Examination{BookingPetID: bp.ID}
	require.NoError(t, db.Create(&exam).Error)
	req := usage.QuickMixRequest{Components: []usage.ComponentRequest{{ProductID: p.ID, Quantity: "1"}}}

	wrong := exam.ID + 1
	_, err := svc.UseQuick(ctx, b.ID, bp.ID, QuickMixUseRequest{QuickMixRequest: req, ExaminationID: &wrong})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	visit := int64(1)
	_, err = svc.UseQuick(ctx, b.ID, bp.ID, QuickMixUseRequest{QuickMixRequest: req, ExaminationID: &exam.ID, VisitID: &visit})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	mu, err := svc.UseQuick(ctx, b.ID, bp.ID, QuickMixUseRequest{QuickMixRequest: req, ExaminationID: &exam.ID})
	require.NoError(t, err)
	require.NotNil(t, mu.ExaminationID)

	var pu domain.ProductUsage
	require.NoError(t, db.Where("mix_usage_id = ?", mu.ID).First(&pu).Error)
	require.NotNil(t, pu.ExaminationID)
	assert.Equal(t, exam.ID, *pu.ExaminationID)
	assert.Equal(t, "2000", pu.UnitPrice.Decimal.String())
}
