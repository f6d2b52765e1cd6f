package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"petcare/internal/domain"
)

type OwnerRepository struct {
	db *gorm.DB
}

func NewOwnerRepository(db *gorm.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

func (r *OwnerRepository) WithTx(tx *gorm.DB) *OwnerRepository {
	return &OwnerRepository{db: tx}
}

// List pages owners newest first. q matches name, phone or address.
func (r *OwnerRepository) List(ctx context.Context, q string, page, pageSize int) ([]domain.Owner, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if q = strings.TrimSpace(q); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			return db.Where("LOWER(name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(COALESCE(address, '')) LIKE ?", like, like, like)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Owner{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var owners []domain.Owner
	err := r.db.WithContext(ctx).
		Scopes(filter).
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&owners).Error
	return owners, total, err
}

func (r *OwnerRepository) Create(ctx context.Context, o *domain.Owner) error {
	return r.db.WithContext(ctx).Omit("Pets").Create(o).Error
}

func (r *OwnerRepository) GetByID(ctx context.Context, id int64) (*domain.Owner, error) {
	var o domain.Owner
	err := r.db.WithContext(ctx).
		Preload("Pets", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&o, id).Error
	if err != nil {
		return nil, notFound(err, "owner")
	}
	return &o, nil
}

func (r *OwnerRepository) CreatePet(ctx context.Context, p *domain.Pet) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(p).Error
}

// Delete removes the owner together with its pets. Bookings must already be gone.
func (r *OwnerRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("owner_id = ?", id).Delete(&domain.Pet{}).Error; err != nil {
		return err
	}
	return db.Delete(&domain.Owner{}, id).Error
}

// ListPets pages pets newest first with their owner. q matches the pet's
// name, species or breed and the owner's name.
func (r *OwnerRepository) ListPets(ctx context.Context, q string, page, pageSize int) ([]domain.Pet, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if q = strings.TrimSpace(q); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			owners := db.Session(&gorm.Session{NewDB: true}).Model(&domain.Owner{}).Select("id").Where("LOWER(name) LIKE ?", like)
			return db.Where("LOWER(name) LIKE ? OR LOWER(species) LIKE ? OR LOWER(COALESCE(breed, '')) LIKE ? OR owner_id IN (?)", like, like, like, owners)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Pet{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pets []domain.Pet
	err := r.db.WithContext(ctx).
		Scopes(filter).
		Preload("Owner").
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&pets).Error
	return pets, total, err
}

func (r *OwnerRepository) GetPet(ctx context.Context, id int64) (*domain.Pet, error) {
	var p domain.Pet
	if err := r.db.WithContext(ctx).Preload("Owner").First(&p, id).Error; err != nil {
		return nil, notFound(err, "pet")
	}
	return &p, nil
}

// UpdatePetFields applies a partial update; an empty map is a no-op.
func (r *OwnerRepository) UpdatePetFields(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Pet{}).Where("id = ?", id).Updates(fields).Error
}

func (r *OwnerRepository) DeletePet(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Pet{}, id).Error
}

// CountOwnedPets counts how many of petIDs belong to the owner.
func (r *OwnerRepository) CountOwnedPets(ctx context.Context, ownerID int64, petIDs []int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Pet{}).
		Where("owner_id = ? AND id IN ?", ownerID, petIDs).
		Count(&n).Error
	return n, err
}

// UpdateFields applies a partial update; an empty map is a no-op.
func (r *OwnerRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Owner{}).Where("id = ?", id).Updates(fields).Error
}
