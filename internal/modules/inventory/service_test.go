package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"petcare/internal/database"
	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/policy"
	"petcare/internal/repository"
)

func setupService(t *testing.T) (*Service, domain.Product) {
	t.Helper()
	db, err := database.OpenMemory("inventory_" + t.Name())
	require.NoError(t, err)

	p := domain.Product{Name: "Royal Canin 2kg", Unit: "bag", Price: decimal.NewFromInt(180000)}
	require.NoError(t, db.Create(&p).Error)

	svc := NewService(repository.NewInventoryRepository(db), repository.NewProductRepository(db), policy.Default(), zap.NewNop())
	return svc, p
}

func managerCtx() context.Context {
	return policy.WithRole(context.Background(), domain.RoleSupervisor)
}

func TestAvailable_IsSignedSum(t *testing.T) {
	svc, p := setupService(t)
	ctx := context.Background()

	_, err := svc.AddEntry(ctx, p.ID, decimal.NewFromInt(100), domain.InventoryIn, nil)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, p.ID, decimal.NewFromInt(-30), domain.InventoryOut, nil)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, p.ID, decimal.NewFromInt(5), domain.InventoryAdjustment, nil)
	require.NoError(t, err)

	got, err := svc.Available(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "75", got.String())
}

func TestAdd_RequiresCapability(t *testing.T) {
	svc, p := setupService(t)

	_, err := svc.Add(policy.WithRole(context.Background(), domain.RoleStaff), AddEntryRequest{ProductID: p.ID, Quantity: "10", Type: "IN"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	entry, err := svc.Add(managerCtx(), AddEntryRequest{ProductID: p.ID, Quantity: "12,5", Type: "IN"})
	require.NoError(t, err)
	assert.Equal(t, "12.5", entry.Quantity.String())
}

func TestAdd_Validation(t *testing.T) {
	svc, p := setupService(t)
	ctx := managerCtx()

	cases := []AddEntryRequest{
		{ProductID: p.ID, Quantity: "-1", Type: "IN"},
		{ProductID: p.ID, Quantity: "abc", Type: "IN"},
		{ProductID: p.ID, Quantity: "5", Type: "OUT"},
		{ProductID: p.ID, Quantity: "0", Type: "ADJUSTMENT"},
	}
	for _, req := range cases {
		_, err := svc.Add(ctx, req)
		assert.ErrorIs(t, err, apperr.ErrValidation, "%+v", req)
	}

	_, err := svc.Add(ctx, AddEntryRequest{ProductID: 999, Quantity: "1", Type: "IN"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestList_FiltersAndOrders(t *testing.T) {
	svc, p := setupService(t)
	ctx := context.Background()

	for _, q := range []int64{10, -2, 3} {
		typ := domain.InventoryIn
		if q < 0 {
			typ = domain.InventoryOut
		}
		_, err := svc.AddEntry(ctx, p.ID, decimal.NewFromInt(q), typ, nil)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, 0, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "3", all[0].Quantity.String(), "newest first")

	outs, err := svc.List(ctx, 10, []string{"OUT"}, &p.ID)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, "-2", outs[0].Quantity.String())

	limited, err := svc.List(ctx, 2, nil, nil)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = svc.List(ctx, 10, []string{"LOST"}, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSummary_IncludesProductsWithoutMovements(t *testing.T) {
	svc, p := setupService(t)
	ctx := context.Background()

	_, err := svc.AddEntry(ctx, p.ID, decimal.RequireFromString("4.5"), domain.InventoryIn, nil)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, p.ID, decimal.RequireFromString("-0.5"), domain.InventoryOut, nil)
	require.NoError(t, err)

	zinc := domain.Product{Name: "Zinc Spray", Unit: "bottle", Price: decimal.NewFromInt(45000)}
	require.NoError(t, svc.products.Create(ctx, &zinc))

	levels, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, p.ID, levels[0].ProductID)
	assert.Equal(t, "4", levels[0].Available.String())
	assert.Equal(t, zinc.ID, levels[1].ProductID)
	assert.True(t, levels[1].Available.IsZero())
}
