package expense

type CreateExpenseRequest struct {
	ExpenseDate *string `json:"expense_date"`
	Category    string  `json:"category" validate:"required,max=80"`
	Description *string `json:"description"`
	Amount      string  `json:"amount" validate:"required"`
}

// ListQuery dates are calendar days; End includes the whole day.
type ListQuery struct {
	Start    *string `form:"start"`
	End      *string `form:"end"`
	Category string  `form:"category"`
}
