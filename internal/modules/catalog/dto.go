package catalog

type CreateServiceRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

type CreateServiceTypeRequest struct {
	ServiceID   int64   `json:"service_id" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required,max=120"`
	Price       string  `json:"price" validate:"required"`
	PricePerDay *string `json:"price_per_day"`
}

// UpdateServiceTypeRequest changes only the fields that are present.
// ClearPricePerDay turns a per-day type back into a flat one.
type UpdateServiceTypeRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=120"`
	Price            *string `json:"price"`
	PricePerDay      *string `json:"price_per_day"`
	ClearPricePerDay bool    `json:"clear_price_per_day"`
}

type CreateProductRequest struct {
	Name              string  `json:"name" validate:"required,max=160"`
	Unit              string  `json:"unit" validate:"required,max=40"`
	Price             string  `json:"price" validate:"required"`
	UnitContentAmount *string `json:"unit_content_amount"`
	UnitContentName   *string `json:"unit_content_name" validate:"omitempty,max=40"`
}
