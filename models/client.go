package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client represents a rental customer
type Client struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	FullName  string     `gorm:"not null" json:"fullName"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	CPF       string     `gorm:"column:cpf;uniqueIndex;size:11;not null" json:"cpf"`
	Phone     string     `json:"phone"`
	BirthDate time.Time  `json:"birthDate"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"` // soft-delete marker; deleted rows stay queryable
}

// BeforeCreate assigns a UUID primary key when none is set
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}
