package auth

import (
	"time"
)

// UserRole represents the user_roles table
type UserRole struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	RoleName            string `gorm:"size:50;uniqueIndex;not null" json:"role_name"` // admin/host/member
	Description         string `gorm:"size:255" json:"description"`
	CanRegisterPublicly bool   `gorm:"default:false" json:"can_register_publicly"`
}

// User represents the users table
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"size:120;not null" json:"full_name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       uint      `gorm:"not null;index" json:"role_id"`
	Role         UserRole  `gorm:"foreignKey:RoleID" json:"role"`
	Status       string    `gorm:"size:20;default:'active'" json:"status"` // active/pending/rejected/inactive
	Phone        string    `gorm:"size:20" json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicRoleResponse exposes roles open for self-registration
type PublicRoleResponse struct {
	ID          uint   `json:"id"`
	RoleName    string `json:"role_name"`
	Description string `json:"description"`
}
