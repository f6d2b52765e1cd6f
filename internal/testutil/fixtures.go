// Package testutil builds clinic records for service and handler tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"petcare/internal/database"
	"petcare/internal/domain"
)

// NewDB opens a private in-memory database for the running test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func Owner(t *testing.T, db *gorm.DB, name string) domain.Owner {
	t.Helper()
	o := domain.Owner{Name: name, Phone: "+7 700 000 00 00"}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func Pet(t *testing.T, db *gorm.DB, ownerID int64, name string) domain.Pet {
	t.Helper()
	p := domain.Pet{OwnerID: ownerID, Name: name, Species: "cat"}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// ServiceType creates a service type under a service of the same name, which
// is reused when it already exists. An
// empty perDay makes it flat priced.
func ServiceType(t *testing.T, db *gorm.DB, name, price, perDay string) domain.ServiceType {
	t.Helper()
	var svc domain.Service
	require.NoError(t, db.Where(domain.Service{Name: name}).FirstOrCreate(&svc).Error)

	st := domain.ServiceType{ServiceID: svc.ID, Name: name, Price: Dec(price)}
	if perDay != "" {
		st.PricePerDay = decimal.NewNullDecimal(Dec(perDay))
	}
	require.NoError(t, db.Omit("Service").Create(&st).Error)
	return st
}

func Product(t *testing.T, db *gorm.DB, name, price string) domain.Product {
	t.Helper()
	p := domain.Product{Name: name, Unit: "pcs", Price: Dec(price)}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func Stock(t *testing.T, db *gorm.DB, productID int64, qty string) {
	t.Helper()
	e := domain.InventoryEntry{ProductID: productID, Quantity: Dec(qty), Type: domain.InventoryIn}
	require.NoError(t, db.Omit("Product").Create(&e).Error)
}

// Available folds the ledger directly, independent of the repositories.
func Available(t *testing.T, db *gorm.DB, productID int64) decimal.Decimal {
	t.Helper()
	var rows []string
	require.NoError(t, db.Model(&domain.InventoryEntry{}).Where("product_id = ?", productID).Pluck("quantity", &rows).Error)
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(Dec(strings.TrimSpace(r)))
	}
	return sum
}

func Staff(t *testing.T, db *gorm.DB, name string, role domain.JobRole) domain.Staff {
	t.Helper()
	s := domain.Staff{Name: name, JobRole: role}
	require.NoError(t, db.Create(&s).Error)
	return s
}

type BookingSpec struct {
	OwnerID     int64
	ServiceType domain.ServiceType
	PetIDs      []int64
	Status      domain.BookingStatus
	Start, End  *time.Time
}

// Booking writes a booking with its PRIMARY item and booking pets.
func Booking(t *testing.T, db *gorm.DB, bs BookingSpec) (domain.Booking, []domain.BookingPet) {
	t.Helper()
	status := bs.Status
	if status == "" {
		status = domain.BookingPending
	}
	b := domain.Booking{
		OwnerID:       bs.OwnerID,
		ServiceTypeID: bs.ServiceType.ID,
		Status:        status,
		StartDate:     bs.Start,
		EndDate:       bs.End,
	}
	require.NoError(t, db.Omit("Owner", "ServiceType").Create(&b).Error)

	item := domain.BookingItem{
		BookingID:     b.ID,
		ServiceTypeID: bs.ServiceType.ID,
		Role:          domain.ItemPrimary,
		Quantity:      1,
	}
	require.NoError(t, db.Omit("ServiceType").Create(&item).Error)

	pets := make([]domain.BookingPet, 0, len(bs.PetIDs))
	for _, id := range bs.PetIDs {
		bp := domain.BookingPet{BookingID: b.ID, PetID: id}
		require.NoError(t, db.Omit("Pet").Create(&bp).Error)
		pets = append(pets, bp)
	}
	return b, pets
}

// Date is local midnight of the given day plus an optional clock offset.
func Date(y int, m time.Month, d int, clock time.Duration) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local).Add(clock)
	return &t
}
