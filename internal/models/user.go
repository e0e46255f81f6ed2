// Package models defines domain models for the historical knowledge portal.
package models

import (
	"time"
)

// User roles.
const (
	RoleUser  = "user"
	RoleUlama = "ulama"
	RoleAdmin = "admin"
)

// User represents a registered contributor.
// Points are derived data, owned by the gamification recompute.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;size:255" json:"username"`
	Email     string    `gorm:"size:255" json:"email"`
	Role      string    `gorm:"size:50;not null;default:user" json:"role"` // 'user', 'ulama' or 'admin'
	Points    int       `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}

// IsModerator reports whether the user holds content approval authority.
func (u *User) IsModerator() bool {
	return u.Role == RoleAdmin || u.Role == RoleUlama
}
