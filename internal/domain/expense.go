package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	ExpenseDate time.Time       `json:"expense_date" gorm:"not null;index"`
	Category    string          `json:"category" gorm:"size:80;not null;index"`
	Description *string         `json:"description,omitempty" gorm:"type:text"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time       `json:"created_at"`
}
