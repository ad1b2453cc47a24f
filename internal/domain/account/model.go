package account

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	default:
		return false
	}
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// Allows reports whether r grants at least the permissions of required.
func (r Role) Allows(required Role) bool {
	return r.rank() > 0 && r.rank() >= required.rank()
}

type Account struct {
	ID           string  `gorm:"type:uuid;primaryKey"`
	Username     string  `gorm:"uniqueIndex;not null"`
	PasswordHash string  `gorm:"not null"`
	DisplayName  string  `gorm:"not null"`
	Role         Role    `gorm:"type:varchar(16);not null"`
	MemberID     *string `gorm:"type:uuid"`
	Active       bool    `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Principal is the authenticated caller carried through the request context.
type Principal struct {
	AccountID string
	Username  string
	Role      Role
}

type CreateInput struct {
	Username    string
	Password    string
	DisplayName string
	Role        Role
	MemberID    *string
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	DisplayName *string
	Role        *Role
	MemberID    *string
	Active      *bool
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   Account
}
