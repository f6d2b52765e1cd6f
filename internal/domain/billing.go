package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Deposit struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	BookingID   int64           `json:"booking_id" gorm:"index;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:varchar(32);not null"`
	Method      *string         `json:"method,omitempty" gorm:"size:40"`
	DepositDate time.Time       `json:"deposit_date" gorm:"not null"`
}

const MethodRefund = "REFUND"

// Payment settles (positive Total) or refunds (negative Total) a booking.
// Breakdown keeps the estimate the checkout was computed from.
type Payment struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	BookingID       int64           `json:"booking_id" gorm:"index;not null"`
	Total           decimal.Decimal `json:"total" gorm:"type:varchar(32);not null"`
	Method          *string         `json:"method,omitempty" gorm:"size:40"`
	InvoiceNo       *string         `json:"invoice_no,omitempty" gorm:"size:64;index"`
	DiscountPercent decimal.Decimal `json:"discount_percent" gorm:"type:varchar(32);not null;default:'0'"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" gorm:"type:varchar(32);not null;default:'0'"`
	Breakdown       datatypes.JSON  `json:"breakdown,omitempty"`
	PaymentDate     time.Time       `json:"payment_date" gorm:"not null;index"`
}
