package booking

import "petcare/internal/pkg/apperr"

var (
	ErrNotPending      = apperr.InvalidState("only PENDING bookings can be deleted")
	ErrClosed          = apperr.InvalidState("booking is closed")
	ErrNotPerDay       = apperr.InvalidState("booking service is not billed per day")
	ErrPrimaryItem     = apperr.InvalidState("the primary item cannot be removed")
	ErrPetNotInBooking = apperr.Validation("one or more pets do not belong to this booking")
	ErrPetNotOwned     = apperr.Validation("one or more pets do not belong to the owner")
	ErrDateRange       = apperr.Validation("end date is before start date")
)
