package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending          BookingStatus = "PENDING"
	BookingWaitingToDeposit BookingStatus = "WAITING_TO_DEPOSIT"
	BookingInProgress       BookingStatus = "IN_PROGRESS"
	BookingCompleted        BookingStatus = "COMPLETED"
	BookingCancelled        BookingStatus = "CANCELLED"
)

// IsTerminal reports whether billing on the booking is closed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type Booking struct {
	ID                 int64           `json:"id" gorm:"primaryKey"`
	OwnerID            int64           `json:"owner_id" gorm:"index;not null"`
	ServiceTypeID      int64           `json:"service_type_id" gorm:"index;not null"`
	Status             BookingStatus   `json:"status" gorm:"size:24;not null;default:'PENDING';index"`
	StartDate          *time.Time      `json:"start_date,omitempty"`
	EndDate            *time.Time      `json:"end_date,omitempty"`
	ProceedToAdmission bool            `json:"proceed_to_admission" gorm:"not null;default:false"`
	DiscountPercent    decimal.Decimal `json:"discount_percent" gorm:"type:varchar(32);not null;default:'0'"`
	DiscountAmount     decimal.Decimal `json:"discount_amount" gorm:"type:varchar(32);not null;default:'0'"`
	CreatedAt          time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt          time.Time       `json:"updated_at"`

	Owner       *Owner        `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	ServiceType *ServiceType  `json:"service_type,omitempty" gorm:"foreignKey:ServiceTypeID"`
	Pets        []BookingPet  `json:"pets,omitempty" gorm:"foreignKey:BookingID"`
	Items       []BookingItem `json:"items,omitempty" gorm:"foreignKey:BookingID"`
	Deposits    []Deposit     `json:"deposits,omitempty" gorm:"foreignKey:BookingID"`
	Payments    []Payment     `json:"payments,omitempty" gorm:"foreignKey:BookingID"`
}

// IsPerDay reports whether the primary service type bills by elapsed days.
// ServiceType must be loaded.
func (b *Booking) IsPerDay() bool {
	return b.ServiceType != nil && b.ServiceType.IsPerDay()
}

// PrimaryItem returns the materialized PRIMARY line, or nil when Items is not loaded.
func (b *Booking) PrimaryItem() *BookingItem {
	for i := range b.Items {
		if b.Items[i].Role == ItemPrimary {
			return &b.Items[i]
		}
	}
	return nil
}

type ItemRole string

const (
	ItemPrimary ItemRole = "PRIMARY"
	ItemAddon   ItemRole = "ADDON"
)

// BookingItem is a billed service line. Every booking has exactly one PRIMARY
// item for its own service type, created with the booking.
type BookingItem struct {
	ID              int64               `json:"id" gorm:"primaryKey"`
	BookingID       int64               `json:"booking_id" gorm:"index;not null"`
	ServiceTypeID   int64               `json:"service_type_id" gorm:"index;not null"`
	Role            ItemRole            `json:"role" gorm:"size:16;not null"`
	Quantity        int                 `json:"quantity" gorm:"not null;default:1"`
	StartDate       *time.Time          `json:"start_date,omitempty"`
	EndDate         *time.Time          `json:"end_date,omitempty"`
	UnitPrice       decimal.NullDecimal `json:"unit_price" gorm:"type:varchar(32)"`
	DiscountPercent decimal.Decimal     `json:"discount_percent" gorm:"type:varchar(32);not null;default:'0'"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount" gorm:"type:varchar(32);not null;default:'0'"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	ServiceType *ServiceType `json:"service_type,omitempty" gorm:"foreignKey:ServiceTypeID"`
}

// BookingPet is one pet's participation in a booking.
type BookingPet struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	BookingID int64     `json:"booking_id" gorm:"index;not null"`
	PetID     int64     `json:"pet_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`

	Booking       *Booking       `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Pet           *Pet           `json:"pet,omitempty" gorm:"foreignKey:PetID"`
	Examinations  []Examination  `json:"examinations,omitempty" gorm:"foreignKey:BookingPetID"`
	Visits        []Visit        `json:"visits,omitempty" gorm:"foreignKey:BookingPetID"`
	DailyCharges  []DailyCharge  `json:"daily_charges,omitempty" gorm:"foreignKey:BookingPetID"`
	ProductUsages []ProductUsage `json:"product_usages,omitempty" gorm:"foreignKey:BookingPetID"`
	MixUsages     []MixUsage     `json:"mix_usages,omitempty" gorm:"foreignKey:BookingPetID"`
}
