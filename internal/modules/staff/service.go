package staff

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/validator"
	"petcare/internal/policy"
)

type Service struct {
	staff  StaffRepository
	policy *policy.Policy
	log    *zap.Logger
}

func NewService(staff StaffRepository, p *policy.Policy, log *zap.Logger) *Service {
	return &Service{staff: staff, policy: p, log: logger.OrNop(log)}
}

func (s *Service) List(ctx context.Context, role string) ([]domain.Staff, error) {
	if role == "" {
		return s.staff.List(ctx, nil)
	}
	r := domain.JobRole(strings.ToUpper(role))
	if !r.Valid() {
		return nil, apperr.Validation("unknown job role %q", role)
	}
	return s.staff.List(ctx, &r)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Staff, error) {
	return s.staff.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateStaffRequest) (*domain.Staff, error) {
	if err := s.policy.Authorize(ctx, policy.ManageStaff); err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	member := &domain.Staff{Name: strings.TrimSpace(req.Name), JobRole: domain.JobRole(req.JobRole)}
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, err
	}
	s.log.Info("staff created", zap.Int64("staff_id", member.ID), zap.String("job_role", string(member.JobRole)))
	return member, nil
}

// RequireRole checks that the referenced staff member exists and holds the
// job role the slot demands. A nil id means the slot is left empty.
func (s *Service) RequireRole(ctx context.Context, id *int64, role domain.JobRole) error {
	if id == nil {
		return nil
	}
	member, err := s.staff.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if member.JobRole != role {
		return apperr.InvalidState("staff %d is %s, not %s", member.ID, member.JobRole, role)
	}
	return nil
}

// Assignment pairs a staff slot with the job role it requires.
type Assignment struct {
	ID   *int64
	Role domain.JobRole
}

func (s *Service) RequireRoles(ctx context.Context, slots ...Assignment) error {
	for _, slot := range slots {
		if err := s.RequireRole(ctx, slot.ID, slot.Role); err != nil {
			return err
		}
	}
	return nil
}
