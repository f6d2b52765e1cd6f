package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx binds the repository to a running transaction.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.InvalidState("product %q already exists", p.Name)
		}
		return err
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "product")
	}
	return &p, nil
}

func (r *ProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error; err != nil {
		return nil, notFound(err, "product")
	}
	return &p, nil
}

// PricesByName is the current catalog price of every product keyed by name.
func (r *ProductRepository) PricesByName(ctx context.Context) (map[string]decimal.Decimal, error) {
	var rows []domain.Product
	if err := r.db.WithContext(ctx).Select("name", "price").Find(&rows).Error; err != nil {
		return nil, err
	}
	prices := make(map[string]decimal.Decimal, len(rows))
	for _, p := range rows {
		prices[p.Name] = p.Price
	}
	return prices, nil
}

// ListMixTemplates returns reusable mixes only; quick mixes are owned by their usage.
func (r *ProductRepository) ListMixTemplates(ctx context.Context) ([]domain.MixProduct, error) {
	var mixes []domain.MixProduct
	err := r.db.WithContext(ctx).
		Preload("Components.Product").
		Where("is_quick = ?", false).
		Order("name ASC").
		Find(&mixes).Error
	return mixes, err
}

func (r *ProductRepository) GetMix(ctx context.Context, id int64) (*domain.MixProduct, error) {
	var m domain.MixProduct
	if err := r.db.WithContext(ctx).Preload("Components.Product").First(&m, id).Error; err != nil {
		return nil, notFound(err, "mix product")
	}
	return &m, nil
}

// CreateMix inserts the mix and its components.
func (r *ProductRepository) CreateMix(ctx context.Context, m *domain.MixProduct) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// DeleteMix removes a mix and its components.
func (r *ProductRepository) DeleteMix(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("mix_product_id = ?", id).Delete(&domain.MixComponent{}).Error; err != nil {
		return err
	}
	return db.Delete(&domain.MixProduct{}, id).Error
}

// ListStandaloneUsages returns usages billed to the booking pet directly,
// outside any examination or visit.
func (r *ProductRepository) ListStandaloneUsages(ctx context.Context, bookingPetID int64) ([]domain.ProductUsage, error) {
	var usages []domain.ProductUsage
	err := r.db.WithContext(ctx).
		Where("booking_pet_id = ?", bookingPetID).
		Order("created_at ASC").Order("id ASC").
		Find(&usages).Error
	return usages, err
}
