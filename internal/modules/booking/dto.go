package booking

import "petcare/internal/domain"

type CreateBookingRequest struct {
	OwnerID         int64   `json:"owner_id" validate:"required,gt=0"`
	ServiceTypeID   int64   `json:"service_type_id" validate:"required,gt=0"`
	PetIDs          []int64 `json:"pet_ids" validate:"required,min=1,dive,gt=0"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	DiscountPercent *string `json:"discount_percent"`
	DiscountAmount  *string `json:"discount_amount"`
}

type ListResult struct {
	Items    []domain.Booking `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type AddItemRequest struct {
	ServiceTypeID   int64   `json:"service_type_id" validate:"required,gt=0"`
	Quantity        int     `json:"quantity" validate:"omitempty,gte=1"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	UnitPrice       *string `json:"unit_price"`
	DiscountPercent *string `json:"discount_percent"`
	DiscountAmount  *string `json:"discount_amount"`
}

// UpdateItemRequest changes only the fields that are present.
type UpdateItemRequest struct {
	Quantity       *int    `json:"quantity" validate:"omitempty,gte=1"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	UnitPrice      *string `json:"unit_price"`
	ClearUnitPrice bool    `json:"clear_unit_price"`
}

type SplitRequest struct {
	PetIDs []int64 `json:"pet_ids" validate:"required,min=1,dive,gt=0"`
}

type UpdateStatusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required,oneof=COMPLETED CANCELLED"`
}

type RepairDetail struct {
	BookingID int64  `json:"booking_id"`
	Repaired  bool   `json:"repaired"`
	Error     string `json:"error,omitempty"`
}

type RepairReport struct {
	Total    int            `json:"total"`
	Repaired int            `json:"repaired"`
	Failed   int            `json:"failed"`
	Details  []RepairDetail `json:"details"`
}
