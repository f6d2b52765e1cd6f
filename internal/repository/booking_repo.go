package repository

import (
	"context"

	"gorm.io/gorm"

	"petcare/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

// List is a newest-first page of bookings with their headline relations.
func (r *BookingRepository) List(ctx context.Context, page, pageSize int) ([]domain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("ServiceType.Service").
		Preload("Pets.Pet").
		Preload("Pets.Examinations").
		Preload("Deposits").
		Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bookings).Error
	return bookings, total, err
}

// Get loads the booking row with its primary service type.
func (r *BookingRepository) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Preload("ServiceType").First(&b, id).Error; err != nil {
		return nil, notFound(err, "booking")
	}
	return &b, nil
}

// Load hydrates the whole booking aggregate: items, pets and every billed
// sub-record.
func (r *BookingRepository) Load(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Scopes(aggregate).First(&b, id).Error; err != nil {
		return nil, notFound(err, "booking")
	}
	return &b, nil
}

// LoadByOwner hydrates every booking of the owner, oldest first.
func (r *BookingRepository) LoadByOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Scopes(aggregate).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&bookings).Error
	return bookings, err
}

func aggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("ServiceType.Service").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.ServiceType").
		Preload("Pets", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Pets.Pet").
		Preload("Pets.Examinations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Pets.Examinations.ProductUsages").
		Preload("Pets.Examinations.MixUsages.MixProduct").
		Preload("Pets.Visits", func(db *gorm.DB) *gorm.DB { return db.Order("visit_date DESC") }).
		Preload("Pets.Visits.ProductUsages").
		Preload("Pets.Visits.MixUsages.MixProduct").
		Preload("Pets.ProductUsages").
		Preload("Pets.MixUsages.MixProduct").
		Preload("Pets.DailyCharges", func(db *gorm.DB) *gorm.DB { return db.Order("charge_date ASC") }).
		Preload("Deposits")
}

// PetRecords returns every booking pet of one pet, newest first, with its
// booking and the full clinical history hanging off it.
func (r *BookingRepository) PetRecords(ctx context.Context, petID int64) ([]domain.BookingPet, error) {
	var records []domain.BookingPet
	err := r.db.WithContext(ctx).
		Preload("Booking.ServiceType.Service").
		Preload("Booking.Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Booking.Items.ServiceType.Service").
		Preload("Examinations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Examinations.ProductUsages").
		Preload("Examinations.MixUsages.MixProduct").
		Preload("Examinations.Doctor").
		Preload("Examinations.Paravet").
		Preload("Examinations.Admin").
		Preload("Examinations.Groomer").
		Preload("Visits", func(db *gorm.DB) *gorm.DB { return db.Order("visit_date DESC") }).
		Preload("Visits.ProductUsages").
		Preload("Visits.MixUsages.MixProduct.Components.Product").
		Preload("Visits.Doctor").
		Preload("Visits.Paravet").
		Preload("ProductUsages").
		Preload("MixUsages.MixProduct").
		Preload("DailyCharges", func(db *gorm.DB) *gorm.DB { return db.Order("charge_date ASC") }).
		Where("pet_id = ?", petID).
		Order("created_at DESC").Order("id DESC").
		Find(&records).Error
	return records, err
}

// GetPet returns the booking pet only when it belongs to bookingID.
func (r *BookingRepository) GetPet(ctx context.Context, bookingID, bookingPetID int64) (*domain.BookingPet, error) {
	var bp domain.BookingPet
	err := r.db.WithContext(ctx).
		Where("id = ? AND booking_id = ?", bookingPetID, bookingID).
		First(&bp).Error
	if err != nil {
		return nil, notFound(err, "booking pet")
	}
	return &bp, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Update("status", status).Error
}

// Admit marks a booking as planned for admission and waiting for its deposit.
func (r *BookingRepository) Admit(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Updates(map[string]any{
		"proceed_to_admission": true,
		"status":               domain.BookingWaitingToDeposit,
	}).Error
}

// ListStuckAdmissions finds per-day bookings still PENDING although one of
// their pets already has a recorded examination.
func (r *BookingRepository) ListStuckAdmissions(ctx context.Context) ([]domain.Booking, error) {
	var candidates []domain.Booking
	err := r.db.WithContext(ctx).
		Joins("JOIN service_types ON service_types.id = bookings.service_type_id").
		Where("bookings.status = ? AND bookings.proceed_to_admission = ?", domain.BookingPending, false).
		Where("service_types.price_per_day IS NOT NULL").
		Preload("ServiceType.Service").
		Preload("Pets.Examinations").
		Order("bookings.id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	stuck := make([]domain.Booking, 0, len(candidates))
	for _, b := range candidates {
		if hasClinicalExam(b) {
			stuck = append(stuck, b)
		}
	}
	return stuck, nil
}

func hasClinicalExam(b domain.Booking) bool {
	for _, bp := range b.Pets {
		for _, ex := range bp.Examinations {
			if ex.HasClinicalData() {
				return true
			}
		}
	}
	return false
}

// Create inserts the booking together with its Items and Pets.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Omit("Owner", "ServiceType").Create(b).Error
}

func (r *BookingRepository) GetItem(ctx context.Context, bookingID, itemID int64) (*domain.BookingItem, error) {
	var item domain.BookingItem
	err := r.db.WithContext(ctx).
		Preload("ServiceType").
		Where("id = ? AND booking_id = ?", itemID, bookingID).
		First(&item).Error
	if err != nil {
		return nil, notFound(err, "booking item")
	}
	return &item, nil
}

func (r *BookingRepository) GetPrimaryItem(ctx context.Context, bookingID int64) (*domain.BookingItem, error) {
	var item domain.BookingItem
	err := r.db.WithContext(ctx).
		Preload("ServiceType").
		Where("booking_id = ? AND role = ?", bookingID, domain.ItemPrimary).
		First(&item).Error
	if err != nil {
		return nil, notFound(err, "primary item")
	}
	return &item, nil
}

func (r *BookingRepository) CreateItem(ctx context.Context, item *domain.BookingItem) error {
	return r.db.WithContext(ctx).Omit("ServiceType").Create(item).Error
}

func (r *BookingRepository) SaveItem(ctx context.Context, item *domain.BookingItem) error {
	return r.db.WithContext(ctx).Omit("ServiceType").Save(item).Error
}

func (r *BookingRepository) DeleteItem(ctx context.Context, itemID int64) error {
	return r.db.WithContext(ctx).Delete(&domain.BookingItem{}, itemID).Error
}

// MovePets re-parents the booking pets of petIDs from one booking to another.
func (r *BookingRepository) MovePets(ctx context.Context, fromID, toID int64, petIDs []int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.BookingPet{}).
		Where("booking_id = ? AND pet_id IN ?", fromID, petIDs).
		Update("booking_id", toID)
	return res.RowsAffected, res.Error
}

// DeleteCascade removes the booking and every row hanging off it. Stock
// reversal is the caller's job and must happen first.
func (r *BookingRepository) DeleteCascade(ctx context.Context, bookingID int64) error {
	db := r.db.WithContext(ctx)
	petIDs := db.Session(&gorm.Session{NewDB: true}).Model(&domain.BookingPet{}).Select("id").Where("booking_id = ?", bookingID)
	if err := deletePetRecords(db, petIDs); err != nil {
		return err
	}

	steps := []struct {
		model any
		query string
	}{
		{&domain.BookingItem{}, "booking_id = ?"},
		{&domain.Deposit{}, "booking_id = ?"},
		{&domain.Payment{}, "booking_id = ?"},
		{&domain.Booking{}, "id = ?"},
	}
	for _, step := range steps {
		if err := db.Where(step.query, bookingID).Delete(step.model).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeletePetCascade removes one booking pet and its clinical rows, leaving the
// booking itself in place. Stock reversal must happen first.
func (r *BookingRepository) DeletePetCascade(ctx context.Context, bookingPetID int64) error {
	return deletePetRecords(r.db.WithContext(ctx), []int64{bookingPetID})
}

// deletePetRecords deletes children before the booking pets. petIDs is a
// subquery or an id slice.
func deletePetRecords(db *gorm.DB, petIDs any) error {
	examIDs := db.Session(&gorm.Session{NewDB: true}).Model(&domain.Examination{}).Select("id").Where("booking_pet_id IN (?)", petIDs)
	visitIDs := db.Session(&gorm.Session{NewDB: true}).Model(&domain.Visit{}).Select("id").Where("booking_pet_id IN (?)", petIDs)

	steps := []struct {
		model any
		query string
		arg   any
	}{
		{&domain.ProductUsage{}, "examination_id IN (?)", examIDs},
		{&domain.ProductUsage{}, "visit_id IN (?)", visitIDs},
		{&domain.ProductUsage{}, "booking_pet_id IN (?)", petIDs},
		{&domain.MixUsage{}, "booking_pet_id IN (?)", petIDs},
		{&domain.DailyCharge{}, "booking_pet_id IN (?)", petIDs},
		{&domain.Visit{}, "booking_pet_id IN (?)", petIDs},
		{&domain.Examination{}, "booking_pet_id IN (?)", petIDs},
		{&domain.BookingPet{}, "id IN (?)", petIDs},
	}
	for _, step := range steps {
		if err := db.Where(step.query, step.arg).Delete(step.model).Error; err != nil {
			return err
		}
	}
	return nil
}
