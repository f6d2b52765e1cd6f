package usage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/repository"
)

func (f *fixture) service() *Service {
	return NewService(f.db, repository.NewBookingRepository(f.db), repository.NewProductRepository(f.db), f.engine, zap.NewNop())
}

func TestConsume_Standalone(t *testing.T) {
	f := setupEngine(t)
	svc := f.service()
	ctx := context.Background()
	amox := f.product(t, "Amoxicillin", 2000, "")
	price := "1500"

	usages, err := svc.Consume(ctx, f.pet.BookingID, f.pet.ID, ConsumeRequest{Products: []ProductLineRequest{
		{ProductID: &amox.ID, Quantity: "2"},
		{ProductName: "Amoxicillin", Quantity: "0,5", UnitPrice: &price},
	}})
	require.NoError(t, err)
	require.Len(t, usages, 2)
	assert.Equal(t, f.pet.ID, *usages[0].BookingPetID)
	assert.Nil(t, usages[0].ExaminationID)
	assert.Equal(t, "1500", usages[1].UnitPrice.Decimal.String())
	assert.Equal(t, "-2.5", f.available(t, amox.ID).String())

	listed, err := svc.List(ctx, f.pet.BookingID, f.pet.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestConsume_RollsBackUnknownProduct(t *testing.T) {
	f := setupEngine(t)
	svc := f.service()
	ctx := context.Background()
	amox := f.product(t, "Amoxicillin", 2000, "")

	_, err := svc.Consume(ctx, f.pet.BookingID, f.pet.ID, ConsumeRequest{Products: []ProductLineRequest{
		{ProductID: &amox.ID, Quantity: "2"},
		{ProductName: "Unobtainium", Quantity: "1"},
	}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.True(t, f.available(t, amox.ID).IsZero())

	listed, err := svc.List(ctx, f.pet.BookingID, f.pet.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestConsume_Rejections(t *testing.T) {
	f := setupEngine(t)
	svc := f.service()
	ctx := context.Background()
	amox := f.product(t, "Amoxicillin", 2000, "")
	line := []ProductLineRequest{{ProductID: &amox.ID, Quantity: "1"}}

	_, err := svc.Consume(ctx, f.pet.BookingID, f.pet.ID, ConsumeRequest{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Consume(ctx, f.pet.BookingID, f.pet.ID, ConsumeRequest{Products: []ProductLineRequest{{ProductID: &amox.ID, Quantity: "-1"}}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Consume(ctx, f.pet.BookingID+1, f.pet.ID, ConsumeRequest{Products: line})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, f.db.Model(&domain.Booking{}).Where("id = ?", f.pet.BookingID).Update("status", domain.BookingCompleted).Error)
	_, err = svc.Consume(ctx, f.pet.BookingID, f.pet.ID, ConsumeRequest{Products: line})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.True(t, f.available(t, amox.ID).IsZero())
}
