package owner

import "petcare/internal/domain"

type CreateOwnerRequest struct {
	Name    string  `json:"name" validate:"required,max=160"`
	Phone   string  `json:"phone" validate:"max=40"`
	Address *string `json:"address"`
	Email   *string `json:"email" validate:"omitempty,email,max=160"`
}

type UpdateOwnerRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=160"`
	Phone   *string `json:"phone" validate:"omitempty,max=40"`
	Address *string `json:"address"`
	Email   *string `json:"email" validate:"omitempty,email,max=160"`
}

type CreatePetRequest struct {
	Name      string  `json:"name" validate:"required,max=120"`
	Species   string  `json:"species" validate:"max=60"`
	Breed     *string `json:"breed" validate:"omitempty,max=120"`
	Birthdate *string `json:"birthdate"`
}

type UpdatePetRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	Species   *string `json:"species" validate:"omitempty,max=60"`
	Breed     *string `json:"breed" validate:"omitempty,max=120"`
	Birthdate *string `json:"birthdate"`
}

type ListResult struct {
	Items    []domain.Owner `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type PetListResult struct {
	Items    []domain.Pet `json:"items"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// MedicalRecords is a pet's full history: every booking it was part of, newest
// first, with examinations, visits, usages and charges.
type MedicalRecords struct {
	Pet      *domain.Pet         `json:"pet"`
	Bookings []domain.BookingPet `json:"bookings"`
}
