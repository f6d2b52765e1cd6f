package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"petcare/internal/domain"
)

type DailyChargeRepository struct {
	db *gorm.DB
}

func NewDailyChargeRepository(db *gorm.DB) *DailyChargeRepository {
	return &DailyChargeRepository{db: db}
}

func (r *DailyChargeRepository) WithTx(tx *gorm.DB) *DailyChargeRepository {
	return &DailyChargeRepository{db: tx}
}

func (r *DailyChargeRepository) Create(ctx context.Context, dc *domain.DailyCharge) error {
	return r.db.WithContext(ctx).Create(dc).Error
}

func (r *DailyChargeRepository) ListForPet(ctx context.Context, bookingPetID int64) ([]domain.DailyCharge, error) {
	var charges []domain.DailyCharge
	err := r.db.WithContext(ctx).
		Where("booking_pet_id = ?", bookingPetID).
		Order("charge_date ASC").Order("id ASC").
		Find(&charges).Error
	return charges, err
}

// FindBetween returns the first charge dated in [from, to), or nil.
func (r *DailyChargeRepository) FindBetween(ctx context.Context, bookingPetID int64, from, to time.Time) (*domain.DailyCharge, error) {
	var charges []domain.DailyCharge
	err := r.db.WithContext(ctx).
		Where("booking_pet_id = ? AND charge_date >= ? AND charge_date < ?", bookingPetID, from, to).
		Order("charge_date ASC").Order("id ASC").
		Limit(1).
		Find(&charges).Error
	if err != nil || len(charges) == 0 {
		return nil, err
	}
	return &charges[0], nil
}

// ExistsBetween reports whether a charge falls in [from, to).
func (r *DailyChargeRepository) ExistsBetween(ctx context.Context, bookingPetID int64, from, to time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.DailyCharge{}).
		Where("booking_pet_id = ? AND charge_date >= ? AND charge_date < ?", bookingPetID, from, to).
		Count(&n).Error
	return n > 0, err
}

// Last returns the most recent charge, or nil when none exist.
func (r *DailyChargeRepository) Last(ctx context.Context, bookingPetID int64) (*domain.DailyCharge, error) {
	var charges []domain.DailyCharge
	err := r.db.WithContext(ctx).
		Where("booking_pet_id = ?", bookingPetID).
		Order("charge_date DESC").Order("id DESC").
		Limit(1).
		Find(&charges).Error
	if err != nil || len(charges) == 0 {
		return nil, err
	}
	return &charges[0], nil
}

type DepositRepository struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

func (r *DepositRepository) WithTx(tx *gorm.DB) *DepositRepository {
	return &DepositRepository{db: tx}
}

func (r *DepositRepository) Create(ctx context.Context, d *domain.Deposit) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DepositRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Deposit, error) {
	var deposits []domain.Deposit
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("deposit_date DESC").Order("id DESC").
		Find(&deposits).Error
	return deposits, err
}
