package model

import "time"

// Merchant represents a login account. The Name doubles as the owner field on
// styles, so renaming a merchant is deliberately not supported.
type Merchant struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin    = "admin"
	RoleMerchant = "merchant"
)

// IsAdmin reports whether the role grants access to cross-merchant views and
// backup management.
func IsAdmin(role string) bool {
	return role == RoleAdmin
}
