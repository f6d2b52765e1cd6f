// Package policy decides which account roles may run privileged write paths.
package policy

import (
	"context"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
)

type Operation int

const (
	CreateService Operation = iota + 1
	CreateServiceType
	UpdateServiceType
	CreateProduct
	AddInventory
	CreateMix
	ManageStaff
	RefundPayment
	RepairBookings
	ManageExpenses
)

var operationNames = map[Operation]string{
	CreateService:     "CreateService",
	CreateServiceType: "CreateServiceType",
	UpdateServiceType: "UpdateServiceType",
	CreateProduct:     "CreateProduct",
	AddInventory:      "AddInventory",
	CreateMix:         "CreateMix",
	ManageStaff:       "ManageStaff",
	RefundPayment:     "RefundPayment",
	RepairBookings:    "RepairBookings",
	ManageExpenses:    "ManageExpenses",
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return "Unknown"
}

type roleKey struct{}

// WithRole stores the caller's account role on ctx.
func WithRole(ctx context.Context, role domain.AccountRole) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFrom returns the caller's account role, if any.
func RoleFrom(ctx context.Context) (domain.AccountRole, bool) {
	role, ok := ctx.Value(roleKey{}).(domain.AccountRole)
	return role, ok && role != ""
}

// Policy maps each operation to the roles allowed to run it. Operations
// without a rule are denied.
type Policy struct {
	rules map[Operation]map[domain.AccountRole]struct{}
}

func New(rules map[Operation][]domain.AccountRole) *Policy {
	p := &Policy{rules: make(map[Operation]map[domain.AccountRole]struct{}, len(rules))}
	for op, roles := range rules {
		set := make(map[domain.AccountRole]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		p.rules[op] = set
	}
	return p
}

// Default is the clinic's standing rule set.
func Default() *Policy {
	managers := []domain.AccountRole{domain.RoleMaster, domain.RoleSupervisor}
	return New(map[Operation][]domain.AccountRole{
		CreateService:     managers,
		CreateServiceType: managers,
		UpdateServiceType: managers,
		CreateProduct:     managers,
		AddInventory:      managers,
		CreateMix:         managers,
		ManageStaff:       managers,
		RefundPayment:     managers,
		ManageExpenses:    managers,
		RepairBookings:    {domain.RoleMaster},
	})
}

func (p *Policy) Allows(role domain.AccountRole, op Operation) bool {
	set, ok := p.rules[op]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}

// Authorize checks the role carried by ctx against op.
func (p *Policy) Authorize(ctx context.Context, op Operation) error {
	role, ok := RoleFrom(ctx)
	if !ok {
		return apperr.Unauthorized("no account role on request")
	}
	if !p.Allows(role, op) {
		return apperr.Forbidden("role %s may not %s", role, op)
	}
	return nil
}
