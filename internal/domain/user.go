package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Role names known to the application
const (
	RoleAdmin = "Admin" // Full access to mutating endpoints
	RoleUser  = "User"  // Default role for self-registered accounts
)

// User Model
type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`      // Primary key
	Username  string    `gorm:"size:256;uniqueIndex;not null"` // Unique username
	Name      string    `gorm:"size:256"`                      // Display name
	Password  string    `gorm:"not null"`                      // Hashed password
	Roles     []Role    `gorm:"many2many:user_roles;"`         // Role assignments
	CreatedAt time.Time `gorm:"autoCreateTime"`                // Creation timestamp
}

// Role Model
type Role struct {
	ID   uint   `gorm:"primaryKey"`                   // Primary key
	Name string `gorm:"size:64;uniqueIndex;not null"` // Role name
}

// BeforeCreate assigns a UUID when the caller did not
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PrimaryRole returns the first assigned role, or an empty string
func (u *User) PrimaryRole() string {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0].Name
}
