package expense

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/policy"
	"petcare/internal/repository"
	"petcare/internal/testutil"
)

var supervisor = policy.WithRole(context.Background(), domain.RoleSupervisor)

func strp(s string) *string { return &s }

func setup(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewDB(t)
	return NewService(repository.NewExpenseRepository(db), policy.Default(), zap.NewNop())
}

func TestCreate(t *testing.T) {
	svc := setup(t)

	_, err := svc.Create(policy.WithRole(context.Background(), domain.RoleStaff), CreateExpenseRequest{Category: "Utilities", Amount: "100"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Create(supervisor, CreateExpenseRequest{Category: "Utilities", Amount: "0"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(supervisor, CreateExpenseRequest{Amount: "10"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	e, err := svc.Create(supervisor, CreateExpenseRequest{Category: " Utilities ", Amount: "1.250.000,50", ExpenseDate: strp("2026-02-01")})
	require.NoError(t, err)
	assert.Equal(t, "Utilities", e.Category)
	assert.Equal(t, "1250000.5", e.Amount.String())
}

func TestList_Filters(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	for _, in := range []CreateExpenseRequest{
		{Category: "Utilities", Amount: "100", ExpenseDate: strp("2026-02-01")},
		{Category: "Medical supplies", Amount: "200", ExpenseDate: strp("2026-02-10")},
		{Category: "Salary", Amount: "300", ExpenseDate: strp("2026-02-20")},
	} {
		_, err := svc.Create(supervisor, in)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Salary", all[0].Category)

	ranged, err := svc.List(ctx, ListQuery{Start: strp("2026-02-01"), End: strp("2026-02-20")})
	require.NoError(t, err)
	assert.Len(t, ranged, 3)

	early, err := svc.List(ctx, ListQuery{End: strp("2026-02-05")})
	require.NoError(t, err)
	assert.Len(t, early, 1)

	byCategory, err := svc.List(ctx, ListQuery{Category: "SUPPL"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Medical supplies", byCategory[0].Category)

	_, err = svc.List(ctx, ListQuery{Start: strp("2026-03-01"), End: strp("2026-02-01")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
