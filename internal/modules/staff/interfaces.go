package staff

import (
	"context"

	"petcare/internal/domain"
)

// StaffRepository is the storage the staff service needs.
type StaffRepository interface {
	List(ctx context.Context, role *domain.JobRole) ([]domain.Staff, error)
	GetByID(ctx context.Context, id int64) (*domain.Staff, error)
	Create(ctx context.Context, s *domain.Staff) error
}
