package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryType string

const (
	InventoryIn         InventoryType = "IN"
	InventoryOut        InventoryType = "OUT"
	InventoryAdjustment InventoryType = "ADJUSTMENT"
)

func (t InventoryType) Valid() bool {
	switch t {
	case InventoryIn, InventoryOut, InventoryAdjustment:
		return true
	}
	return false
}

// InventoryEntry is one row of the append-only stock ledger. OUT rows carry a
// negative quantity, so available stock is the plain sum.
type InventoryEntry struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	ProductID int64           `json:"product_id" gorm:"index;not null"`
	Quantity  decimal.Decimal `json:"quantity" gorm:"type:varchar(32);not null"`
	Type      InventoryType   `json:"type" gorm:"size:16;not null;index"`
	Note      *string         `json:"note,omitempty" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (InventoryEntry) TableName() string {
	return "inventories"
}
