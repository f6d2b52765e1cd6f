package billing

import (
	"github.com/shopspring/decimal"

	"petcare/internal/domain"
)

type CheckoutRequest struct {
	Method          *string `json:"method" validate:"omitempty,max=40"`
	DiscountPercent *string `json:"discount_percent"`
}

type CheckoutResult struct {
	BookingID              int64                `json:"booking_id"`
	Status                 domain.BookingStatus `json:"status"`
	Total                  decimal.Decimal      `json:"total"`
	DiscountPercent        decimal.Decimal      `json:"discount_percent"`
	DiscountAmount         decimal.Decimal      `json:"discount_amount"`
	DepositSum             decimal.Decimal      `json:"deposit_sum"`
	AmountDueAfterDiscount decimal.Decimal      `json:"amount_due_after_discount"`
	Payment                *domain.Payment      `json:"payment,omitempty"`
}

type Invoice struct {
	Payment  *domain.Payment `json:"payment"`
	Estimate *Estimate       `json:"estimate"`
}

type ItemType string

const (
	ItemService ItemType = "service"
	ItemProduct ItemType = "product"
	ItemMix     ItemType = "mix"
)

// ItemDiscountRequest targets one billed line. For service lines an ItemID of
// zero selects the booking's primary item.
type ItemDiscountRequest struct {
	ItemType        ItemType `json:"item_type" validate:"required,oneof=service product mix"`
	ItemID          int64    `json:"item_id" validate:"gte=0"`
	DiscountPercent *string  `json:"discount_percent"`
	DiscountAmount  *string  `json:"discount_amount"`
}
