package dailycharge

import "petcare/internal/domain"

type CreateChargeRequest struct {
	Amount      string  `json:"amount" validate:"required"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ChargeDate  *string `json:"charge_date"`
}

// RangeRequest bounds are calendar days; a missing bound means today.
type RangeRequest struct {
	Start *string `json:"start" form:"start"`
	End   *string `json:"end" form:"end"`
}

type TodayResult struct {
	Created bool               `json:"created"`
	Charge  domain.DailyCharge `json:"charge"`
}

type RangeResult struct {
	CreatedCount int                  `json:"created_count"`
	Charges      []domain.DailyCharge `json:"charges"`
}
