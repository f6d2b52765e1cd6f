package inventory

type AddEntryRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  string  `json:"quantity" validate:"required"`
	Type      string  `json:"type" validate:"required,oneof=IN ADJUSTMENT"`
	Note      *string `json:"note"`
}

type AvailableResponse struct {
	ProductID int64  `json:"product_id"`
	Available string `json:"available"`
}
