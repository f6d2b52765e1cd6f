package deposit

type CreateDepositRequest struct {
	Amount string  `json:"amount" validate:"required"`
	Method *string `json:"method" validate:"omitempty,max=40"`
}
