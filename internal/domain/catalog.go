package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service groups priced service types (e.g. "Rawat Inap", "Grooming").
type Service struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	Name      string        `json:"name" gorm:"size:120;not null;uniqueIndex"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Types     []ServiceType `json:"types,omitempty" gorm:"foreignKey:ServiceID"`
}

// ServiceType is a billable variant of a Service. A set PricePerDay marks it per-day.
type ServiceType struct {
	ID          int64               `json:"id" gorm:"primaryKey"`
	ServiceID   int64               `json:"service_id" gorm:"index;not null"`
	Name        string              `json:"name" gorm:"size:120;not null"`
	Price       decimal.Decimal     `json:"price" gorm:"type:varchar(32);not null;default:'0'"`
	PricePerDay decimal.NullDecimal `json:"price_per_day" gorm:"type:varchar(32)"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

func (st ServiceType) IsPerDay() bool {
	return st.PricePerDay.Valid
}

// UnitPrice is the per-day price for per-day types and the flat price otherwise.
func (st ServiceType) UnitPrice() decimal.Decimal {
	if st.PricePerDay.Valid {
		return st.PricePerDay.Decimal
	}
	return st.Price
}

// Product is a stock-keeping item. Stock moves in the primary Unit; a product
// with UnitContentAmount can also be consumed in its content unit (e.g. ml).
type Product struct {
	ID                int64               `json:"id" gorm:"primaryKey"`
	Name              string              `json:"name" gorm:"size:160;not null;uniqueIndex"`
	Unit              string              `json:"unit" gorm:"size:40;not null"`
	Price             decimal.Decimal     `json:"price" gorm:"type:varchar(32);not null;default:'0'"`
	UnitContentAmount decimal.NullDecimal `json:"unit_content_amount" gorm:"type:varchar(32)"`
	UnitContentName   *string             `json:"unit_content_name,omitempty" gorm:"size:40"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// MixProduct is a recipe of products. Quick mixes are ad-hoc and owned by one usage.
type MixProduct struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:160;not null"`
	Description *string         `json:"description,omitempty" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:varchar(32);not null;default:'0'"`
	IsQuick     bool            `json:"is_quick" gorm:"not null;default:false;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Components []MixComponent `json:"components,omitempty" gorm:"foreignKey:MixProductID"`
}

// MixComponent quantity is per one mix unit. Template components use the
// product's content unit when the product defines one.
type MixComponent struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	MixProductID int64           `json:"mix_product_id" gorm:"index;not null"`
	ProductID    int64           `json:"product_id" gorm:"index;not null"`
	QuantityBase decimal.Decimal `json:"quantity_base" gorm:"type:varchar(32);not null"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
