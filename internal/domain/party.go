package domain

import "time"

type Owner struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:160;not null"`
	Phone     string    `json:"phone" gorm:"size:40"`
	Address   *string   `json:"address,omitempty" gorm:"type:text"`
	Email     *string   `json:"email,omitempty" gorm:"size:160"`
	CreatedAt time.Time `json:"created_at"`

	Pets []Pet `json:"pets,omitempty" gorm:"foreignKey:OwnerID"`
}

type Pet struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	OwnerID   int64      `json:"owner_id" gorm:"index;not null"`
	Name      string     `json:"name" gorm:"size:120;not null"`
	Species   string     `json:"species" gorm:"size:60"`
	Breed     *string    `json:"breed,omitempty" gorm:"size:120"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	Owner *Owner `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

type JobRole string

const (
	JobDoctor  JobRole = "DOCTOR"
	JobParavet JobRole = "PARAVET"
	JobAdmin   JobRole = "ADMIN"
	JobGroomer JobRole = "GROOMER"
)

func (r JobRole) Valid() bool {
	switch r {
	case JobDoctor, JobParavet, JobAdmin, JobGroomer:
		return true
	}
	return false
}

// Staff are clinic workers referenced from examinations and visits.
type Staff struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:160;not null"`
	JobRole   JobRole   `json:"job_role" gorm:"size:16;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Staff) TableName() string {
	return "staff"
}
