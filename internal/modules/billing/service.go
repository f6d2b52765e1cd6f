package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/money"
	"petcare/internal/pkg/validator"
	"petcare/internal/repository"
)

type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	products *repository.ProductRepository
	payments *repository.PaymentRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, bookings *repository.BookingRepository, products *repository.ProductRepository, payments *repository.PaymentRepository, log *zap.Logger) *Service {
	return &Service{
		db:       db,
		bookings: bookings,
		products: products,
		payments: payments,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

// Estimate prices the booking as it stands. Nothing is written.
func (s *Service) Estimate(ctx context.Context, bookingID int64) (*Estimate, error) {
	est, _, err := s.estimate(ctx, bookingID)
	return est, err
}

func (s *Service) estimate(ctx context.Context, bookingID int64) (*Estimate, *domain.Booking, error) {
	b, err := s.bookings.Load(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	prices, err := s.products.PricesByName(ctx)
	if err != nil {
		return nil, nil, err
	}
	est, err := Compute(b, prices)
	if err != nil {
		return nil, nil, err
	}
	return est, b, nil
}

// Checkout settles the booking: the overall discount applies to the total,
// deposits are subtracted, and a Payment is written only when something is
// still owed. The booking always ends COMPLETED.
func (s *Service) Checkout(ctx context.Context, bookingID int64, req CheckoutRequest) (*CheckoutResult, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	p, err := money.ParseOptional("discount_percent", req.DiscountPercent)
	if err != nil {
		return nil, err
	}
	percent := money.ClampPercent(money.OrZero(p))

	est, b, err := s.estimate(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() {
		return nil, apperr.InvalidState("booking %d is already %s", b.ID, b.Status)
	}

	net := money.AfterPercent(est.Total, percent)
	discount := est.Total.Sub(net)
	due := decimal.Max(decimal.Zero, net.Sub(est.DepositSum))

	result := &CheckoutResult{
		BookingID:              b.ID,
		Status:                 domain.BookingCompleted,
		Total:                  est.Total,
		DiscountPercent:        percent,
		DiscountAmount:         discount,
		DepositSum:             est.DepositSum,
		AmountDueAfterDiscount: due,
	}

	if !due.IsPositive() {
		if err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingCompleted); err != nil {
			return nil, err
		}
		s.log.Info("booking checked out without payment",
			zap.Int64("booking_id", b.ID),
			zap.String("total", est.Total.String()),
			zap.String("deposit_sum", est.DepositSum.String()),
		)
		return result, nil
	}

	breakdown, err := json.Marshal(est)
	if err != nil {
		return nil, err
	}
	now := s.now()
	invoiceNo := fmt.Sprintf("INV-%d-%d", b.ID, now.UnixMilli())
	payment := &domain.Payment{
		BookingID:       b.ID,
		Total:           due,
		Method:          req.Method,
		InvoiceNo:       &invoiceNo,
		DiscountPercent: percent,
		DiscountAmount:  discount,
		Breakdown:       datatypes.JSON(breakdown),
		PaymentDate:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.payments.WithTx(tx).Create(ctx, payment); err != nil {
			return err
		}
		return s.bookings.WithTx(tx).UpdateStatus(ctx, b.ID, domain.BookingCompleted)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking checked out",
		zap.Int64("booking_id", b.ID),
		zap.String("invoice_no", invoiceNo),
		zap.String("amount", due.String()),
	)
	result.Payment = payment
	return result, nil
}

// Invoice pairs the latest payment with a freshly computed estimate.
func (s *Service) Invoice(ctx context.Context, bookingID int64) (*Invoice, error) {
	if _, err := s.bookings.Get(ctx, bookingID); err != nil {
		return nil, err
	}
	payment, err := s.payments.Latest(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	est, err := s.Estimate(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &Invoice{Payment: payment, Estimate: est}, nil
}

// UpdateItemDiscount stores a discount on one billed line. Totals are not
// recomputed here; the next estimate picks the change up.
func (s *Service) UpdateItemDiscount(ctx context.Context, bookingID int64, req ItemDiscountRequest) error {
	if err := validator.Check(req); err != nil {
		return err
	}
	percent, amount, err := parseDiscount(req)
	if err != nil {
		return err
	}

	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.Status.IsTerminal() {
		return apperr.InvalidState("booking %d is %s", b.ID, b.Status)
	}

	fields := map[string]any{
		"discount_percent": percent,
		"discount_amount":  amount,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch req.ItemType {
		case ItemService:
			return discountServiceItem(ctx, tx, bookingID, req.ItemID, fields)
		case ItemProduct:
			return discountProductUsage(ctx, tx, bookingID, req.ItemID, fields)
		default:
			return discountMixUsage(ctx, tx, bookingID, req.ItemID, fields)
		}
	})
	if err != nil {
		return err
	}

	s.log.Info("item discount updated",
		zap.Int64("booking_id", bookingID),
		zap.String("item_type", string(req.ItemType)),
		zap.Int64("item_id", req.ItemID),
		zap.String("discount_percent", percent.String()),
		zap.String("discount_amount", amount.String()),
	)
	return nil
}

func parseDiscount(req ItemDiscountRequest) (decimal.Decimal, decimal.Decimal, error) {
	p, err := money.ParseOptional("discount_percent", req.DiscountPercent)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	a, err := money.ParseOptional("discount_amount", req.DiscountAmount)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if a.Valid && a.Decimal.IsNegative() {
		return decimal.Zero, decimal.Zero, apperr.Validation("discount_amount must not be negative")
	}
	return money.ClampPercent(money.OrZero(p)), money.OrZero(a), nil
}

func discountServiceItem(ctx context.Context, tx *gorm.DB, bookingID, itemID int64, fields map[string]any) error {
	var item domain.BookingItem
	q := tx.WithContext(ctx).Where("booking_id = ?", bookingID)
	if itemID == 0 {
		q = q.Where("role = ?", domain.ItemPrimary)
	} else {
		q = q.Where("id = ?", itemID)
	}
	if err := q.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("booking item")
		}
		return err
	}

	if err := tx.WithContext(ctx).Model(&domain.BookingItem{}).Where("id = ?", item.ID).Updates(fields).Error; err != nil {
		return err
	}
	if item.Role != domain.ItemPrimary {
		return nil
	}
	return tx.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", bookingID).Updates(fields).Error
}

// discountProductUsage accepts exam, visit and standalone usages as long as
// they hang off a pet of this booking.
func discountProductUsage(ctx context.Context, tx *gorm.DB, bookingID, usageID int64, fields map[string]any) error {
	var n int64
	err := tx.WithContext(ctx).
		Table("product_usages AS pu").
		Joins("LEFT JOIN examinations e ON e.id = pu.examination_id").
		Joins("LEFT JOIN visits v ON v.id = pu.visit_id").
		Joins("JOIN booking_pets bp ON bp.id = COALESCE(pu.booking_pet_id, e.booking_pet_id, v.booking_pet_id)").
		Where("pu.id = ? AND bp.booking_id = ?", usageID, bookingID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("product usage")
	}
	return tx.WithContext(ctx).Model(&domain.ProductUsage{}).Where("id = ?", usageID).Updates(fields).Error
}

func discountMixUsage(ctx context.Context, tx *gorm.DB, bookingID, usageID int64, fields map[string]any) error {
	var n int64
	err := tx.WithContext(ctx).
		Table("mix_usages AS mu").
		Joins("JOIN booking_pets bp ON bp.id = mu.booking_pet_id").
		Where("mu.id = ? AND bp.booking_id = ?", usageID, bookingID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("mix usage")
	}
	return tx.WithContext(ctx).Model(&domain.MixUsage{}).Where("id = ?", usageID).Updates(fields).Error
}
