package repository

import (
	"context"

	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	var services []domain.Service
	err := r.db.WithContext(ctx).
		Preload("Types", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("name ASC").
		Find(&services).Error
	return services, err
}

func (r *CatalogRepository) CreateService(ctx context.Context, s *domain.Service) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.InvalidState("service %q already exists", s.Name)
		}
		return err
	}
	return nil
}

func (r *CatalogRepository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, "service")
	}
	return &s, nil
}

// ListServiceTypes returns all types, or only those of serviceID when given.
func (r *CatalogRepository) ListServiceTypes(ctx context.Context, serviceID *int64) ([]domain.ServiceType, error) {
	var types []domain.ServiceType
	q := r.db.WithContext(ctx).Preload("Service").Order("name ASC")
	if serviceID != nil {
		q = q.Where("service_id = ?", *serviceID)
	}
	err := q.Find(&types).Error
	return types, err
}

func (r *CatalogRepository) GetServiceType(ctx context.Context, id int64) (*domain.ServiceType, error) {
	var st domain.ServiceType
	if err := r.db.WithContext(ctx).First(&st, id).Error; err != nil {
		return nil, notFound(err, "service type")
	}
	return &st, nil
}

func (r *CatalogRepository) CreateServiceType(ctx context.Context, st *domain.ServiceType) error {
	return r.db.WithContext(ctx).Create(st).Error
}

// SaveServiceType writes every column, so a cleared PricePerDay becomes NULL.
func (r *CatalogRepository) SaveServiceType(ctx context.Context, st *domain.ServiceType) error {
	return r.db.WithContext(ctx).Omit("Service").Save(st).Error
}
