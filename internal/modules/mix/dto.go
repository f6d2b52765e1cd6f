package mix

import "petcare/internal/modules/usage"

type CreateMixRequest struct {
	Name        string                   `json:"name" validate:"required,max=160"`
	Description *string                  `json:"description"`
	Price       *string                  `json:"price"`
	Components  []CreateComponentRequest `json:"components" validate:"required,min=1,dive"`
}

// CreateComponentRequest quantity is per one mix unit, in the product's
// content unit when it has one.
type CreateComponentRequest struct {
	ProductID    int64  `json:"product_id" validate:"required,gt=0"`
	QuantityBase string `json:"quantity_base" validate:"required"`
}

type UseMixRequest struct {
	usage.TemplateMixRequest
	VisitID *int64 `json:"visit_id" validate:"omitempty,gt=0"`
}

type QuickMixUseRequest struct {
	usage.QuickMixRequest
	VisitID       *int64 `json:"visit_id" validate:"omitempty,gt=0"`
	ExaminationID *int64 `json:"examination_id" validate:"omitempty,gt=0"`
}
