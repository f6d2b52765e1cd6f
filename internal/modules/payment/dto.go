package payment

type RefundRequest struct {
	Amount string  `json:"amount" validate:"required"`
	Method *string `json:"method" validate:"omitempty,max=40"`
}
