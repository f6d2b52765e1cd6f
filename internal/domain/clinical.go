package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Examination is the single intake record of a booking pet.
type Examination struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	BookingPetID    int64     `json:"booking_pet_id" gorm:"index;not null"`
	Weight          *string   `json:"weight,omitempty" gorm:"size:32"`
	Temperature     *string   `json:"temperature,omitempty" gorm:"size:32"`
	Notes           *string   `json:"notes,omitempty" gorm:"type:text"`
	ChiefComplaint  *string   `json:"chief_complaint,omitempty" gorm:"type:text"`
	AdditionalNotes *string   `json:"additional_notes,omitempty" gorm:"type:text"`
	Diagnosis       *string   `json:"diagnosis,omitempty" gorm:"type:text"`
	Prognosis       *string   `json:"prognosis,omitempty" gorm:"type:text"`
	DoctorID        *int64    `json:"doctor_id,omitempty" gorm:"index"`
	ParavetID       *int64    `json:"paravet_id,omitempty" gorm:"index"`
	AdminID         *int64    `json:"admin_id,omitempty" gorm:"index"`
	GroomerID       *int64    `json:"groomer_id,omitempty" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	ProductUsages []ProductUsage `json:"product_usages,omitempty" gorm:"foreignKey:ExaminationID"`
	MixUsages     []MixUsage     `json:"mix_usages,omitempty" gorm:"foreignKey:ExaminationID"`
	Doctor        *Staff         `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Paravet       *Staff         `json:"paravet,omitempty" gorm:"foreignKey:ParavetID"`
	Admin         *Staff         `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	Groomer       *Staff         `json:"groomer,omitempty" gorm:"foreignKey:GroomerID"`
}

// HasClinicalData reports whether anything beyond the bare row was recorded.
func (e Examination) HasClinicalData() bool {
	for _, s := range []*string{e.Weight, e.Temperature, e.Notes, e.ChiefComplaint, e.AdditionalNotes, e.Diagnosis, e.Prognosis} {
		if s != nil && *s != "" {
			return true
		}
	}
	return e.DoctorID != nil || e.ParavetID != nil || e.AdminID != nil || e.GroomerID != nil
}

// Visit is a daily round on an admitted (per-day) booking pet.
type Visit struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	BookingPetID int64     `json:"booking_pet_id" gorm:"index;not null"`
	VisitDate    time.Time `json:"visit_date" gorm:"not null;index"`
	Weight       *string   `json:"weight,omitempty" gorm:"size:32"`
	Temperature  *string   `json:"temperature,omitempty" gorm:"size:32"`
	Notes        *string   `json:"notes,omitempty" gorm:"type:text"`
	DoctorID     *int64    `json:"doctor_id,omitempty" gorm:"index"`
	ParavetID    *int64    `json:"paravet_id,omitempty" gorm:"index"`
	Urine        *string   `json:"urine,omitempty" gorm:"size:120"`
	Defecation   *string   `json:"defecation,omitempty" gorm:"size:120"`
	Appetite     *string   `json:"appetite,omitempty" gorm:"size:120"`
	Condition    *string   `json:"condition,omitempty" gorm:"size:120"`
	Symptoms     *string   `json:"symptoms,omitempty" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`

	ProductUsages []ProductUsage `json:"product_usages,omitempty" gorm:"foreignKey:VisitID"`
	MixUsages     []MixUsage     `json:"mix_usages,omitempty" gorm:"foreignKey:VisitID"`
	Doctor        *Staff         `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Paravet       *Staff         `json:"paravet,omitempty" gorm:"foreignKey:ParavetID"`
}

// ProductUsage is a priced consumption line. Exactly one of ExaminationID,
// VisitID and BookingPetID is set. MixUsageID links quick-mix component lines
// to the mix they were expanded from.
type ProductUsage struct {
	ID              int64               `json:"id" gorm:"primaryKey"`
	ExaminationID   *int64              `json:"examination_id,omitempty" gorm:"index"`
	VisitID         *int64              `json:"visit_id,omitempty" gorm:"index"`
	BookingPetID    *int64              `json:"booking_pet_id,omitempty" gorm:"index"`
	MixUsageID      *int64              `json:"mix_usage_id,omitempty" gorm:"index"`
	ProductID       *int64              `json:"product_id,omitempty" gorm:"index"`
	ProductName     string              `json:"product_name" gorm:"size:160;not null"`
	Quantity        decimal.Decimal     `json:"quantity" gorm:"type:varchar(32);not null"`
	UnitPrice       decimal.NullDecimal `json:"unit_price" gorm:"type:varchar(32)"`
	DiscountPercent decimal.Decimal     `json:"discount_percent" gorm:"type:varchar(32);not null;default:'0'"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount" gorm:"type:varchar(32);not null;default:'0'"`
	CreatedAt       time.Time           `json:"created_at"`
}

// MixUsage bills a mix against a booking pet, optionally scoped to a visit or
// an examination.
type MixUsage struct {
	ID              int64               `json:"id" gorm:"primaryKey"`
	BookingPetID    int64               `json:"booking_pet_id" gorm:"index;not null"`
	VisitID         *int64              `json:"visit_id,omitempty" gorm:"index"`
	ExaminationID   *int64              `json:"examination_id,omitempty" gorm:"index"`
	MixProductID    int64               `json:"mix_product_id" gorm:"index;not null"`
	Quantity        decimal.Decimal     `json:"quantity" gorm:"type:varchar(32);not null"`
	UnitPrice       decimal.NullDecimal `json:"unit_price" gorm:"type:varchar(32)"`
	DiscountPercent decimal.Decimal     `json:"discount_percent" gorm:"type:varchar(32);not null;default:'0'"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount" gorm:"type:varchar(32);not null;default:'0'"`
	CreatedAt       time.Time           `json:"created_at"`

	MixProduct *MixProduct `json:"mix_product,omitempty" gorm:"foreignKey:MixProductID"`
}

type DailyCharge struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	BookingPetID int64           `json:"booking_pet_id" gorm:"index;not null"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:varchar(32);not null"`
	Description  *string         `json:"description,omitempty" gorm:"type:text"`
	ChargeDate   time.Time       `json:"charge_date" gorm:"not null;index"`
	CreatedAt    time.Time       `json:"created_at"`
}
