// Package usage expands product and mix consumption into priced usage rows
// and signed inventory ledger entries.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/repository"
)

// Target is the parent of a product usage. Exactly one field is set.
type Target struct {
	ExaminationID *int64
	VisitID       *int64
	BookingPetID  *int64
}

func ForExamination(id int64) Target { return Target{ExaminationID: &id} }
func ForVisit(id int64) Target       { return Target{VisitID: &id} }
func ForBookingPet(id int64) Target  { return Target{BookingPetID: &id} }

func (t Target) validate() error {
	set := 0
	for _, id := range []*int64{t.ExaminationID, t.VisitID, t.BookingPetID} {
		if id != nil {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("usage target must have exactly one parent, got %d", set)
	}
	return nil
}

func (t Target) note(prefix string) string {
	switch {
	case t.ExaminationID != nil:
		return fmt.Sprintf("%s exam #%d", prefix, *t.ExaminationID)
	case t.VisitID != nil:
		return fmt.Sprintf("%s visit #%d", prefix, *t.VisitID)
	default:
		return fmt.Sprintf("%s pet #%d", prefix, *t.BookingPetID)
	}
}

// ProductLine asks for Quantity of a product in its primary stock unit. The
// product is found by ProductID, or by ProductName when no id is given.
type ProductLine struct {
	ProductID   *int64
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.NullDecimal
}

type ComponentLine struct {
	ProductID int64
	Quantity  decimal.Decimal
}

// TemplateMix consumes Quantity units of a stored recipe.
type TemplateMix struct {
	BookingPetID int64
	VisitID      *int64
	MixProductID int64
	Quantity     decimal.Decimal
	UnitPrice    decimal.NullDecimal
}

// QuickMix is an ad hoc recipe used once. Component quantities are already in
// stock units. With a Price the mix is billed as one line and its components
// are recorded at zero; without one each component bills at catalog price.
type QuickMix struct {
	BookingPetID  int64
	VisitID       *int64
	ExaminationID *int64
	Label         string
	Price         decimal.NullDecimal
	Components    []ComponentLine
}

type Engine struct {
	products  *repository.ProductRepository
	inventory *repository.InventoryRepository
	log       *zap.Logger
	now       func() time.Time
}

func NewEngine(products *repository.ProductRepository, inventory *repository.InventoryRepository, log *zap.Logger) *Engine {
	return &Engine{
		products:  products,
		inventory: inventory,
		log:       logger.OrNop(log),
		now:       time.Now,
	}
}

// ToStockUnits converts a content-unit quantity (mg, ml, tablets) to the
// product's primary stock unit.
func ToStockUnits(p domain.Product, contentQty decimal.Decimal) decimal.Decimal {
	if p.UnitContentAmount.Valid && p.UnitContentAmount.Decimal.IsPositive() {
		return contentQty.Div(p.UnitContentAmount.Decimal)
	}
	return contentQty
}

// ConsumeProduct writes one ProductUsage and its OUT ledger row. Must run
// inside tx.
func (e *Engine) ConsumeProduct(ctx context.Context, tx *gorm.DB, target Target, line ProductLine) (*domain.ProductUsage, error) {
	if err := target.validate(); err != nil {
		return nil, err
	}
	if !line.Quantity.IsPositive() {
		return nil, apperr.Validation("quantity must be positive")
	}

	product, err := e.resolveProduct(ctx, tx, line.ProductID, line.ProductName)
	if err != nil {
		return nil, err
	}

	unitPrice := line.UnitPrice
	if !unitPrice.Valid {
		unitPrice = decimal.NewNullDecimal(product.Price)
	}

	pu := &domain.ProductUsage{
		ExaminationID: target.ExaminationID,
		VisitID:       target.VisitID,
		BookingPetID:  target.BookingPetID,
		ProductID:     &product.ID,
		ProductName:   product.Name,
		Quantity:      line.Quantity,
		UnitPrice:     unitPrice,
	}
	if err := tx.WithContext(ctx).Create(pu).Error; err != nil {
		return nil, err
	}

	if err := e.ledger(ctx, tx, product.ID, line.Quantity.Neg(), domain.InventoryOut, target.note("Usage")); err != nil {
		return nil, err
	}
	return pu, nil
}

// ConsumeProducts runs ConsumeProduct for each line.
func (e *Engine) ConsumeProducts(ctx context.Context, tx *gorm.DB, target Target, lines []ProductLine) ([]domain.ProductUsage, error) {
	usages := make([]domain.ProductUsage, 0, len(lines))
	for _, line := range lines {
		pu, err := e.ConsumeProduct(ctx, tx, target, line)
		if err != nil {
			return nil, err
		}
		usages = append(usages, *pu)
	}
	return usages, nil
}

// UseTemplateMix bills one MixUsage and writes one OUT row per component,
// converting quantityBase*Q from content units to stock units.
func (e *Engine) UseTemplateMix(ctx context.Context, tx *gorm.DB, in TemplateMix) (*domain.MixUsage, error) {
	if !in.Quantity.IsPositive() {
		return nil, apperr.Validation("quantity must be positive")
	}

	mix, err := e.products.WithTx(tx).GetMix(ctx, in.MixProductID)
	if err != nil {
		return nil, err
	}
	if mix.IsQuick {
		return nil, apperr.InvalidState("mix %d is a quick mix and cannot be reused", mix.ID)
	}

	unitPrice := in.UnitPrice
	if !unitPrice.Valid {
		unitPrice = decimal.NewNullDecimal(mix.Price)
	}

	mu := &domain.MixUsage{
		BookingPetID: in.BookingPetID,
		VisitID:      in.VisitID,
		MixProductID: mix.ID,
		Quantity:     in.Quantity,
		UnitPrice:    unitPrice,
	}
	if err := tx.WithContext(ctx).Omit("MixProduct").Create(mu).Error; err != nil {
		return nil, err
	}

	note := fmt.Sprintf("Mix #%d", mu.ID)
	for _, comp := range mix.Components {
		need := comp.QuantityBase.Mul(in.Quantity)
		if !need.IsPositive() {
			continue
		}
		if comp.Product == nil {
			return nil, apperr.NotFound("component product")
		}
		if err := e.ledger(ctx, tx, comp.ProductID, ToStockUnits(*comp.Product, need).Neg(), domain.InventoryOut, note); err != nil {
			return nil, err
		}
	}

	mu.MixProduct = mix
	return mu, nil
}

// UseQuickMix creates a throwaway MixProduct for this event, a MixUsage of
// quantity 1, and one ProductUsage plus OUT row per component.
func (e *Engine) UseQuickMix(ctx context.Context, tx *gorm.DB, in QuickMix) (*domain.MixUsage, error) {
	if len(in.Components) == 0 {
		return nil, apperr.Validation("quick mix needs at least one component")
	}
	for _, c := range in.Components {
		if !c.Quantity.IsPositive() {
			return nil, apperr.Validation("component quantity must be positive")
		}
	}

	label := in.Label
	if label == "" {
		label = "Quick Mix - " + e.now().Format("2006-01-02")
	}
	description := "Quick Mix - Temporary"
	mix := &domain.MixProduct{
		Name:        fmt.Sprintf("%s #%s", label, uuid.NewString()[:8]),
		Description: &description,
		Price:       in.Price.Decimal,
		IsQuick:     true,
	}
	for _, c := range in.Components {
		mix.Components = append(mix.Components, domain.MixComponent{ProductID: c.ProductID, QuantityBase: c.Quantity})
	}
	if err := e.products.WithTx(tx).CreateMix(ctx, mix); err != nil {
		return nil, err
	}

	mu := &domain.MixUsage{
		BookingPetID:  in.BookingPetID,
		VisitID:       in.VisitID,
		ExaminationID: in.ExaminationID,
		MixProductID:  mix.ID,
		Quantity:      decimal.NewFromInt(1),
		UnitPrice:     decimal.NewNullDecimal(in.Price.Decimal),
	}
	if err := tx.WithContext(ctx).Omit("MixProduct").Create(mu).Error; err != nil {
		return nil, err
	}

	target := Target{ExaminationID: in.ExaminationID}
	if in.ExaminationID == nil {
		if in.VisitID != nil {
			target = Target{VisitID: in.VisitID}
		} else {
			target = ForBookingPet(in.BookingPetID)
		}
	}

	note := fmt.Sprintf("Quick Mix #%d", mu.ID)
	for _, c := range in.Components {
		product, err := e.products.WithTx(tx).GetByID(ctx, c.ProductID)
		if err != nil {
			return nil, err
		}
		unitPrice := decimal.NewNullDecimal(product.Price)
		if in.Price.Valid {
			unitPrice = decimal.NewNullDecimal(decimal.Zero)
		}
		pu := &domain.ProductUsage{
			ExaminationID: target.ExaminationID,
			VisitID:       target.VisitID,
			BookingPetID:  target.BookingPetID,
			MixUsageID:    &mu.ID,
			ProductID:     &product.ID,
			ProductName:   product.Name,
			Quantity:      c.Quantity,
			UnitPrice:     unitPrice,
		}
		if err := tx.WithContext(ctx).Create(pu).Error; err != nil {
			return nil, err
		}
		if err := e.ledger(ctx, tx, product.ID, c.Quantity.Neg(), domain.InventoryOut, note); err != nil {
			return nil, err
		}
	}

	mu.MixProduct = mix
	return mu, nil
}

// ReverseProductUsages re-adds each usage's quantity as an ADJUSTMENT row and
// deletes the usages. The original OUT rows stay.
func (e *Engine) ReverseProductUsages(ctx context.Context, tx *gorm.DB, usages []domain.ProductUsage, note string) error {
	for _, pu := range usages {
		productID, err := e.usageProductID(ctx, tx, pu)
		if err != nil {
			return err
		}
		if productID != 0 {
			if err := e.ledger(ctx, tx, productID, pu.Quantity, domain.InventoryAdjustment, note); err != nil {
				return err
			}
		}
		if err := tx.WithContext(ctx).Delete(&domain.ProductUsage{}, pu.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// ReverseMixUsage undoes a mix usage. Quick mixes are reversed through their
// component usages and their throwaway recipe is deleted; template mixes are
// reversed per component with the same unit conversion used on the way out.
func (e *Engine) ReverseMixUsage(ctx context.Context, tx *gorm.DB, mu domain.MixUsage, note string) error {
	products := e.products.WithTx(tx)
	mix, err := products.GetMix(ctx, mu.MixProductID)
	if err != nil {
		return err
	}

	if mix.IsQuick {
		var components []domain.ProductUsage
		if err := tx.WithContext(ctx).Where("mix_usage_id = ?", mu.ID).Find(&components).Error; err != nil {
			return err
		}
		if err := e.ReverseProductUsages(ctx, tx, components, note); err != nil {
			return err
		}
	} else {
		for _, comp := range mix.Components {
			need := comp.QuantityBase.Mul(mu.Quantity)
			if !need.IsPositive() || comp.Product == nil {
				continue
			}
			if err := e.ledger(ctx, tx, comp.ProductID, ToStockUnits(*comp.Product, need), domain.InventoryAdjustment, note); err != nil {
				return err
			}
		}
	}

	if err := tx.WithContext(ctx).Delete(&domain.MixUsage{}, mu.ID).Error; err != nil {
		return err
	}
	if mix.IsQuick {
		return products.DeleteMix(ctx, mix.ID)
	}
	return nil
}

func (e *Engine) resolveProduct(ctx context.Context, tx *gorm.DB, id *int64, name string) (*domain.Product, error) {
	products := e.products.WithTx(tx)
	if id != nil && *id > 0 {
		return products.GetByID(ctx, *id)
	}
	if name == "" {
		return nil, apperr.Validation("product id or name is required")
	}
	return products.GetByName(ctx, name)
}

// usageProductID finds the stock product of an existing usage. Rows without
// a product link fall back to the name snapshot; a product deleted since is
// skipped.
func (e *Engine) usageProductID(ctx context.Context, tx *gorm.DB, pu domain.ProductUsage) (int64, error) {
	if pu.ProductID != nil {
		return *pu.ProductID, nil
	}
	p, err := e.products.WithTx(tx).GetByName(ctx, pu.ProductName)
	if err != nil {
		if apperr.IsNotFound(err) {
			e.log.Warn("usage reversal without product", zap.Int64("product_usage_id", pu.ID), zap.String("product_name", pu.ProductName))
			return 0, nil
		}
		return 0, err
	}
	return p.ID, nil
}

func (e *Engine) ledger(ctx context.Context, tx *gorm.DB, productID int64, qty decimal.Decimal, typ domain.InventoryType, note string) error {
	entry := &domain.InventoryEntry{
		ProductID: productID,
		Quantity:  qty,
		Type:      typ,
		Note:      &note,
	}
	if err := e.inventory.WithTx(tx).Add(ctx, entry); err != nil {
		return err
	}
	e.log.Debug("ledger entry",
		zap.Int64("product_id", productID),
		zap.String("quantity", qty.String()),
		zap.String("type", string(typ)),
		zap.String("note", note),
	)
	return nil
}
