package domain

import "time"

type AccountRole string

const (
	RoleMaster     AccountRole = "MASTER"
	RoleSupervisor AccountRole = "SUPERVISOR"
	RoleStaff      AccountRole = "STAFF"
)

func (r AccountRole) Valid() bool {
	switch r {
	case RoleMaster, RoleSupervisor, RoleStaff:
		return true
	}
	return false
}

// Account is a login identity. Role drives the capability policy.
type Account struct {
	ID           int64       `json:"id" gorm:"primaryKey"`
	Username     string      `json:"username" gorm:"size:80;not null;uniqueIndex"`
	PasswordHash string      `json:"-" gorm:"not null"`
	Role         AccountRole `json:"role" gorm:"size:16;not null"`
	StaffID      *int64      `json:"staff_id,omitempty" gorm:"index"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Staff *Staff `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
}
