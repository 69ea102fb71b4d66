package operator

import "time"

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// Operator is a shop employee who takes orders.
type Operator struct {
	ID                  int64      `json:"id" gorm:"primaryKey"`
	Login               string     `json:"login" gorm:"size:60;uniqueIndex;not null"`
	PasswordHash        string     `json:"-" gorm:"size:100;not null"`
	FullName            string     `json:"full_name" gorm:"size:120;not null"`
	Role                string     `json:"role" gorm:"size:20;not null;default:'operator'"`
	BranchCode          string     `json:"branch_code" gorm:"size:10;not null"`
	Active              bool       `json:"active" gorm:"not null;default:true"`
	FailedLoginAttempts int        `json:"-" gorm:"not null;default:0"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (Operator) TableName() string { return "operators" }
