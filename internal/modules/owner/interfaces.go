package owner

import (
	"context"

	"gorm.io/gorm"

	"petcare/internal/domain"
)

// Bookings is the slice of the booking service that owner and pet deletion
// need. Purges run inside the caller's transaction and reverse stock first.
type Bookings interface {
	LoadByOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error)
	PetRecords(ctx context.Context, petID int64) ([]domain.BookingPet, error)
	PurgeTx(ctx context.Context, tx *gorm.DB, b *domain.Booking, note string) error
	PurgePetTx(ctx context.Context, tx *gorm.DB, bp domain.BookingPet, note string) error
}
