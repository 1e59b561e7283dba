package models

import "time"

// Role determines a user's visibility scope. Admins see every expense;
// regular users see only expenses in zones assigned to them.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents the user model in the database
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Name                string     `gorm:"not null" json:"name"`
	Role                Role       `gorm:"not null;default:user" json:"role"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	// Relationships
	Zones    []Zone    `gorm:"many2many:user_zones" json:"zones,omitempty"`
	Expenses []Expense `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
