package staff

type CreateStaffRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=160"`
	JobRole string `json:"job_role" validate:"required,oneof=DOCTOR PARAVET ADMIN GROOMER"`
}
