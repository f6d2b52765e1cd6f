package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/modules/usage"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/money"
	"petcare/internal/pkg/utils"
	"petcare/internal/pkg/validator"
	"petcare/internal/policy"
	"petcare/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	owners   *repository.OwnerRepository
	catalog  *repository.CatalogRepository
	engine   *usage.Engine
	policy   *policy.Policy
	log      *zap.Logger
}

func NewService(
	db *gorm.DB,
	bookings *repository.BookingRepository,
	owners *repository.OwnerRepository,
	catalog *repository.CatalogRepository,
	engine *usage.Engine,
	p *policy.Policy,
	log *zap.Logger,
) *Service {
	return &Service{
		db:       db,
		bookings: bookings,
		owners:   owners,
		catalog:  catalog,
		engine:   engine,
		policy:   p,
		log:      logger.OrNop(log),
	}
}

func (s *Service) List(ctx context.Context, page, pageSize int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.bookings.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Create opens a PENDING booking with its PRIMARY item and one booking pet
// per requested pet. The booking's discount is copied onto the primary item.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	percent, amount, err := parseDiscount(req.DiscountPercent, req.DiscountAmount)
	if err != nil {
		return nil, err
	}

	if _, err := s.owners.GetByID(ctx, req.OwnerID); err != nil {
		return nil, err
	}
	st, err := s.catalog.GetServiceType(ctx, req.ServiceTypeID)
	if err != nil {
		return nil, err
	}
	petIDs := unique(req.PetIDs)
	owned, err := s.owners.CountOwnedPets(ctx, req.OwnerID, petIDs)
	if err != nil {
		return nil, err
	}
	if owned != int64(len(petIDs)) {
		return nil, ErrPetNotOwned
	}

	b := &domain.Booking{
		OwnerID:         req.OwnerID,
		ServiceTypeID:   st.ID,
		Status:          domain.BookingPending,
		StartDate:       start,
		EndDate:         end,
		DiscountPercent: percent,
		DiscountAmount:  amount,
		Items:           []domain.BookingItem{primaryItem(st.ID, percent, amount)},
	}
	for _, id := range petIDs {
		b.Pets = append(b.Pets, domain.BookingPet{PetID: id})
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	b.ServiceType = st

	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("owner_id", b.OwnerID),
		zap.Int64("service_type_id", st.ID),
		zap.Int("pets", len(petIDs)),
	)
	return b, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.Load(ctx, id)
}

// Delete removes a PENDING booking and everything under it. Every stock
// movement made by its usages is reversed with ADJUSTMENT rows first.
func (s *Service) Delete(ctx context.Context, id int64) error {
	b, err := s.bookings.Load(ctx, id)
	if err != nil {
		return err
	}
	if b.Status != domain.BookingPending {
		return ErrNotPending
	}

	note := fmt.Sprintf("Booking #%d deleted", b.ID)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.PurgeTx(ctx, tx, b, note)
	})
	if err != nil {
		return err
	}

	s.log.Info("booking deleted", zap.Int64("booking_id", b.ID), zap.Int("pets", len(b.Pets)))
	return nil
}

// PurgeTx returns the stock of every usage on a loaded booking aggregate and
// deletes the booking with all its rows. Status is not checked.
func (s *Service) PurgeTx(ctx context.Context, tx *gorm.DB, b *domain.Booking, note string) error {
	for _, bp := range b.Pets {
		if err := s.reversePet(ctx, tx, bp, note); err != nil {
			return err
		}
	}
	return s.bookings.WithTx(tx).DeleteCascade(ctx, b.ID)
}

// PurgePetTx is PurgeTx for a single booking pet; the booking stays.
func (s *Service) PurgePetTx(ctx context.Context, tx *gorm.DB, bp domain.BookingPet, note string) error {
	if err := s.reversePet(ctx, tx, bp, note); err != nil {
		return err
	}
	return s.bookings.WithTx(tx).DeletePetCascade(ctx, bp.ID)
}

func (s *Service) reversePet(ctx context.Context, tx *gorm.DB, bp domain.BookingPet, note string) error {
	plain := usage.Plain(bp.ProductUsages)
	for _, ex := range bp.Examinations {
		plain = append(plain, usage.Plain(ex.ProductUsages)...)
	}
	for _, v := range bp.Visits {
		plain = append(plain, usage.Plain(v.ProductUsages)...)
	}
	if err := s.engine.ReverseProductUsages(ctx, tx, plain, note); err != nil {
		return err
	}
	for _, mu := range bp.MixUsages {
		if err := s.engine.ReverseMixUsage(ctx, tx, mu, note); err != nil {
			return err
		}
	}
	return nil
}

// LoadByOwner hydrates every booking of the owner for PurgeTx.
func (s *Service) LoadByOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	return s.bookings.LoadByOwner(ctx, ownerID)
}

// PetRecords lists the booking pets of one pet with their clinical history.
func (s *Service) PetRecords(ctx context.Context, petID int64) ([]domain.BookingPet, error) {
	return s.bookings.PetRecords(ctx, petID)
}

func (s *Service) AddItem(ctx context.Context, bookingID int64, req AddItemRequest) (*domain.BookingItem, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	b, err := s.openBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	st, err := s.catalog.GetServiceType(ctx, req.ServiceTypeID)
	if err != nil {
		return nil, err
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	unitPrice, err := money.ParseOptional("unit_price", req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if unitPrice.Valid && unitPrice.Decimal.IsNegative() {
		return nil, apperr.Validation("unit_price must not be negative")
	}
	percent, amount, err := parseDiscount(req.DiscountPercent, req.DiscountAmount)
	if err != nil {
		return nil, err
	}

	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	item := &domain.BookingItem{
		BookingID:       b.ID,
		ServiceTypeID:   st.ID,
		Role:            domain.ItemAddon,
		Quantity:        qty,
		StartDate:       start,
		EndDate:         end,
		UnitPrice:       unitPrice,
		DiscountPercent: percent,
		DiscountAmount:  amount,
	}
	if err := s.bookings.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	item.ServiceType = st

	s.log.Info("booking item added", zap.Int64("booking_id", b.ID), zap.Int64("item_id", item.ID), zap.Int64("service_type_id", st.ID))
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, bookingID, itemID int64, req UpdateItemRequest) (*domain.BookingItem, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if _, err := s.openBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	item, err := s.bookings.GetItem(ctx, bookingID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.StartDate != nil {
		if item.StartDate, err = utils.ParseTimePtr(req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if item.EndDate, err = utils.ParseTimePtr(req.EndDate); err != nil {
			return nil, err
		}
	}
	if item.StartDate != nil && item.EndDate != nil && item.EndDate.Before(*item.StartDate) {
		return nil, ErrDateRange
	}
	switch {
	case req.ClearUnitPrice:
		item.UnitPrice.Valid = false
	case req.UnitPrice != nil:
		p, err := money.ParseOptional("unit_price", req.UnitPrice)
		if err != nil {
			return nil, err
		}
		if p.Valid && p.Decimal.IsNegative() {
			return nil, apperr.Validation("unit_price must not be negative")
		}
		item.UnitPrice = p
	}

	if err := s.bookings.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) RemoveItem(ctx context.Context, bookingID, itemID int64) error {
	if _, err := s.openBooking(ctx, bookingID); err != nil {
		return err
	}
	item, err := s.bookings.GetItem(ctx, bookingID, itemID)
	if err != nil {
		return err
	}
	if item.Role == domain.ItemPrimary {
		return ErrPrimaryItem
	}
	if err := s.bookings.DeleteItem(ctx, item.ID); err != nil {
		return err
	}
	s.log.Info("booking item removed", zap.Int64("booking_id", bookingID), zap.Int64("item_id", itemID))
	return nil
}

// Split moves the given pets into a new PENDING booking with the same owner,
// service and dates.
func (s *Service) Split(ctx context.Context, bookingID int64, req SplitRequest) (*domain.Booking, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	original, err := s.bookings.Load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if original.Status.IsTerminal() {
		return nil, ErrClosed
	}

	onBooking := make(map[int64]bool, len(original.Pets))
	for _, bp := range original.Pets {
		onBooking[bp.PetID] = true
	}
	petIDs := unique(req.PetIDs)
	for _, id := range petIDs {
		if !onBooking[id] {
			return nil, ErrPetNotInBooking
		}
	}

	split := &domain.Booking{
		OwnerID:       original.OwnerID,
		ServiceTypeID: original.ServiceTypeID,
		Status:        domain.BookingPending,
		StartDate:     original.StartDate,
		EndDate:       original.EndDate,
		Items:         []domain.BookingItem{primaryItem(original.ServiceTypeID, decimal.Zero, decimal.Zero)},
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.bookings.WithTx(tx)
		if err := repo.Create(ctx, split); err != nil {
			return err
		}
		_, err := repo.MovePets(ctx, original.ID, split.ID, petIDs)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking split",
		zap.Int64("booking_id", original.ID),
		zap.Int64("new_booking_id", split.ID),
		zap.Int64s("pet_ids", petIDs),
	)
	return s.bookings.Load(ctx, split.ID)
}

// PlanAdmission marks a per-day booking for admission ahead of its deposit.
func (s *Service) PlanAdmission(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.openBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsPerDay() {
		return nil, ErrNotPerDay
	}
	if err := s.bookings.Admit(ctx, b.ID); err != nil {
		return nil, err
	}
	s.log.Info("booking status changed",
		zap.Int64("booking_id", b.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(domain.BookingWaitingToDeposit)),
	)
	return s.bookings.Get(ctx, b.ID)
}

// UpdateStatus applies the manual transitions: COMPLETED closes a flat
// booking (per-day bookings close through checkout) and CANCELLED closes any
// open booking.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*domain.Booking, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	b, err := s.openBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == domain.BookingCompleted && b.IsPerDay() {
		return nil, apperr.InvalidState("per-day bookings are completed by checkout")
	}

	if err := s.bookings.UpdateStatus(ctx, b.ID, req.Status); err != nil {
		return nil, err
	}
	s.log.Info("booking status changed",
		zap.Int64("booking_id", b.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(req.Status)),
	)
	b.Status = req.Status
	return b, nil
}

// Repair finds per-day bookings left PENDING after an examination was
// recorded and moves them to WAITING_TO_DEPOSIT.
func (s *Service) Repair(ctx context.Context) (*RepairReport, error) {
	if err := s.policy.Authorize(ctx, policy.RepairBookings); err != nil {
		return nil, err
	}
	stuck, err := s.bookings.ListStuckAdmissions(ctx)
	if err != nil {
		return nil, err
	}

	report := &RepairReport{Total: len(stuck), Details: make([]RepairDetail, 0, len(stuck))}
	for _, b := range stuck {
		detail := RepairDetail{BookingID: b.ID}
		if err := s.bookings.Admit(ctx, b.ID); err != nil {
			detail.Error = err.Error()
			report.Failed++
			s.log.Warn("booking repair failed", zap.Int64("booking_id", b.ID), zap.Error(err))
		} else {
			detail.Repaired = true
			report.Repaired++
		}
		report.Details = append(report.Details, detail)
	}

	s.log.Info("booking repair finished",
		zap.Int("total", report.Total),
		zap.Int("repaired", report.Repaired),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// openBooking loads a booking that still accepts changes.
func (s *Service) openBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() {
		return nil, ErrClosed
	}
	return b, nil
}

func primaryItem(serviceTypeID int64, percent, amount decimal.Decimal) domain.BookingItem {
	return domain.BookingItem{
		ServiceTypeID:   serviceTypeID,
		Role:            domain.ItemPrimary,
		Quantity:        1,
		DiscountPercent: percent,
		DiscountAmount:  amount,
	}
}

func parseDiscount(rawPercent, rawAmount *string) (decimal.Decimal, decimal.Decimal, error) {
	p, err := money.ParseOptional("discount_percent", rawPercent)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	a, err := money.ParseOptional("discount_amount", rawAmount)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if a.Valid && a.Decimal.IsNegative() {
		return decimal.Zero, decimal.Zero, apperr.Validation("discount_amount must not be negative")
	}
	return money.ClampPercent(money.OrZero(p)), money.OrZero(a), nil
}

func parseRange(rawStart, rawEnd *string) (*time.Time, *time.Time, error) {
	start, err := utils.ParseTimePtr(rawStart)
	if err != nil {
		return nil, nil, err
	}
	end, err := utils.ParseTimePtr(rawEnd)
	if err != nil {
		return nil, nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, ErrDateRange
	}
	return start, end, nil
}

func unique(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
