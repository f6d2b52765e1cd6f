package examination

import "petcare/internal/modules/usage"

type ClinicalFields struct {
	Weight          *string `json:"weight" validate:"omitempty,max=32"`
	Temperature     *string `json:"temperature" validate:"omitempty,max=32"`
	Notes           *string `json:"notes"`
	ChiefComplaint  *string `json:"chief_complaint"`
	AdditionalNotes *string `json:"additional_notes"`
	Diagnosis       *string `json:"diagnosis"`
	Prognosis       *string `json:"prognosis"`
	DoctorID        *int64  `json:"doctor_id" validate:"omitempty,gt=0"`
	ParavetID       *int64  `json:"paravet_id" validate:"omitempty,gt=0"`
	AdminID         *int64  `json:"admin_id" validate:"omitempty,gt=0"`
	GroomerID       *int64  `json:"groomer_id" validate:"omitempty,gt=0"`
}

type CreateExaminationRequest struct {
	ClinicalFields
	Products   []usage.ProductLineRequest `json:"products" validate:"dive"`
	QuickMixes []usage.QuickMixRequest    `json:"quick_mixes" validate:"dive"`
}

// UpdateExaminationRequest patches the present clinical fields. A present
// products or quick_mixes list (even empty) replaces the recorded one.
type UpdateExaminationRequest struct {
	ClinicalFields
	Products   []usage.ProductLineRequest `json:"products" validate:"dive"`
	QuickMixes []usage.QuickMixRequest    `json:"quick_mixes" validate:"dive"`
}
