package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"petcare/internal/domain"
)

type ExaminationRepository struct {
	db *gorm.DB
}

func NewExaminationRepository(db *gorm.DB) *ExaminationRepository {
	return &ExaminationRepository{db: db}
}

func (r *ExaminationRepository) WithTx(tx *gorm.DB) *ExaminationRepository {
	return &ExaminationRepository{db: tx}
}

// ExistsForPet reports whether the booking pet already has its examination.
func (r *ExaminationRepository) ExistsForPet(ctx context.Context, bookingPetID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Examination{}).Where("booking_pet_id = ?", bookingPetID).Count(&n).Error
	return n > 0, err
}

// GetForPet returns the booking pet's examination with usages and staff.
func (r *ExaminationRepository) GetForPet(ctx context.Context, bookingPetID int64) (*domain.Examination, error) {
	var ex domain.Examination
	err := r.db.WithContext(ctx).
		Preload("ProductUsages").
		Preload("MixUsages.MixProduct.Components.Product").
		Preload("Doctor").Preload("Paravet").Preload("Admin").Preload("Groomer").
		Where("booking_pet_id = ?", bookingPetID).
		Order("id ASC").
		First(&ex).Error
	if err != nil {
		return nil, notFound(err, "examination")
	}
	return &ex, nil
}

func (r *ExaminationRepository) Create(ctx context.Context, ex *domain.Examination) error {
	return r.db.WithContext(ctx).
		Omit("ProductUsages", "MixUsages", "Doctor", "Paravet", "Admin", "Groomer").
		Create(ex).Error
}

// UpdateFields writes only the given columns.
func (r *ExaminationRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Examination{}).Where("id = ?", id).Updates(fields).Error
}

type VisitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

func (r *VisitRepository) WithTx(tx *gorm.DB) *VisitRepository {
	return &VisitRepository{db: tx}
}

func (r *VisitRepository) Create(ctx context.Context, v *domain.Visit) error {
	return r.db.WithContext(ctx).
		Omit("ProductUsages", "MixUsages", "Doctor", "Paravet").
		Create(v).Error
}

func (r *VisitRepository) Get(ctx context.Context, id int64) (*domain.Visit, error) {
	var v domain.Visit
	err := r.db.WithContext(ctx).
		Preload("ProductUsages").
		Preload("MixUsages.MixProduct").
		Preload("Doctor").Preload("Paravet").
		First(&v, id).Error
	if err != nil {
		return nil, notFound(err, "visit")
	}
	return &v, nil
}

// ListForPet is newest first.
func (r *VisitRepository) ListForPet(ctx context.Context, bookingPetID int64) ([]domain.Visit, error) {
	var visits []domain.Visit
	err := r.db.WithContext(ctx).
		Preload("ProductUsages").
		Preload("MixUsages.MixProduct").
		Preload("Doctor").Preload("Paravet").
		Where("booking_pet_id = ?", bookingPetID).
		Order("visit_date DESC").Order("id DESC").
		Find(&visits).Error
	return visits, err
}

// BelongsToPet reports whether the visit hangs off the booking pet.
func (r *VisitRepository) BelongsToPet(ctx context.Context, visitID, bookingPetID int64) (bool, error) {
	var v domain.Visit
	err := r.db.WithContext(ctx).Select("id").Where("id = ? AND booking_pet_id = ?", visitID, bookingPetID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
