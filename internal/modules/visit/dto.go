package visit

import "petcare/internal/modules/usage"

type CreateVisitRequest struct {
	VisitDate   *string                    `json:"visit_date"`
	Weight      *string                    `json:"weight" validate:"omitempty,max=32"`
	Temperature *string                    `json:"temperature" validate:"omitempty,max=32"`
	Notes       *string                    `json:"notes"`
	DoctorID    *int64                     `json:"doctor_id" validate:"omitempty,gt=0"`
	ParavetID   *int64                     `json:"paravet_id" validate:"omitempty,gt=0"`
	Urine       *string                    `json:"urine" validate:"omitempty,max=120"`
	Defecation  *string                    `json:"defecation" validate:"omitempty,max=120"`
	Appetite    *string                    `json:"appetite" validate:"omitempty,max=120"`
	Condition   *string                    `json:"condition" validate:"omitempty,max=120"`
	Symptoms    *string                    `json:"symptoms"`
	Products    []usage.ProductLineRequest `json:"products" validate:"dive"`
	Mixes       []usage.TemplateMixRequest `json:"mixes" validate:"dive"`
	QuickMixes  []usage.QuickMixRequest    `json:"quick_mixes" validate:"dive"`
}
