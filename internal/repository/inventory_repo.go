package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"petcare/internal/domain"
)

type InventoryFilter struct {
	Limit     int
	Types     []domain.InventoryType
	ProductID *int64
}

// StockLevel is one product with its available stock.
type StockLevel struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Available decimal.Decimal `json:"available"`
}

// InventoryRepository is the append-only stock ledger. There is no update or
// delete: corrections are new ADJUSTMENT rows.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) WithTx(tx *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: tx}
}

func (r *InventoryRepository) Add(ctx context.Context, e *domain.InventoryEntry) error {
	return r.db.WithContext(ctx).Omit("Product").Create(e).Error
}

// Available folds every ledger row of the product. Quantities are decimal
// strings, so the sum is done here rather than in SQL.
func (r *InventoryRepository) Available(ctx context.Context, productID int64) (decimal.Decimal, error) {
	var quantities []string
	err := r.db.WithContext(ctx).
		Model(&domain.InventoryEntry{}).
		Where("product_id = ?", productID).
		Pluck("quantity", &quantities).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, raw := range quantities {
		q, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("inventory row for product %d: %w", productID, err)
		}
		total = total.Add(q)
	}
	return total, nil
}

// List is the recent-first audit view.
func (r *InventoryRepository) List(ctx context.Context, f InventoryFilter) ([]domain.InventoryEntry, error) {
	q := r.db.WithContext(ctx).Preload("Product").Order("created_at DESC").Order("id DESC")
	if f.ProductID != nil {
		q = q.Where("product_id = ?", *f.ProductID)
	}
	if len(f.Types) > 0 {
		q = q.Where("type IN ?", f.Types)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var entries []domain.InventoryEntry
	err := q.Find(&entries).Error
	return entries, err
}

type stockRow struct {
	ProductID int64               `db:"product_id"`
	Name      string              `db:"name"`
	Unit      string              `db:"unit"`
	Price     decimal.Decimal     `db:"price"`
	Quantity  decimal.NullDecimal `db:"quantity"`
}

const stockSummaryQuery = `
SELECT p.id AS product_id, p.name, p.unit, p.price, i.quantity
FROM products p
LEFT JOIN inventories i ON i.product_id = p.id
ORDER BY p.name ASC, p.id ASC`

// Summary reads every product with its available stock through sqlx on the
// same connection pool.
func (r *InventoryRepository) Summary(ctx context.Context) ([]StockLevel, error) {
	sqlDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}
	x := sqlx.NewDb(sqlDB, r.db.Dialector.Name())

	var rows []stockRow
	if err := x.SelectContext(ctx, &rows, x.Rebind(stockSummaryQuery)); err != nil {
		return nil, err
	}

	levels := make([]StockLevel, 0)
	index := make(map[int64]int)
	for _, row := range rows {
		i, ok := index[row.ProductID]
		if !ok {
			levels = append(levels, StockLevel{
				ProductID: row.ProductID,
				Name:      row.Name,
				Unit:      row.Unit,
				Price:     row.Price,
				Available: decimal.Zero,
			})
			i = len(levels) - 1
			index[row.ProductID] = i
		}
		if row.Quantity.Valid {
			levels[i].Available = levels[i].Available.Add(row.Quantity.Decimal)
		}
	}
	return levels, nil
}
