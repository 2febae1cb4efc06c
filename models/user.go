package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a system operator able to authenticate against the API
type User struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	FullName  string     `gorm:"not null" json:"fullName"`
	Email     string     `gorm:"index;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Role      string     `gorm:"not null;default:'USER'" json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"` // soft-delete marker; deleted rows stay queryable
}

// BeforeCreate assigns a UUID primary key when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
