package repository

import (
	"context"

	"gorm.io/gorm"

	"petcare/internal/domain"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) List(ctx context.Context, role *domain.JobRole) ([]domain.Staff, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if role != nil {
		q = q.Where("job_role = ?", *role)
	}
	var staff []domain.Staff
	err := q.Find(&staff).Error
	return staff, err
}

func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	var s domain.Staff
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, "staff")
	}
	return &s, nil
}

func (r *StaffRepository) Create(ctx context.Context, s *domain.Staff) error {
	return r.db.WithContext(ctx).Create(s).Error
}
