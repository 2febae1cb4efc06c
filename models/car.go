package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Car status values. DELETED is terminal: once set, the car accepts no
// further updates and only stays in the table for historical orders.
const (
	CarStatusActived   = "ACTIVED"
	CarStatusInactived = "INACTIVED"
	CarStatusDeleted   = "DELETED"
)

// ValidCarStatus reports whether s is one of the known car status values
func ValidCarStatus(s string) bool {
	return s == CarStatusActived || s == CarStatusInactived || s == CarStatusDeleted
}

// Car represents a rental vehicle
type Car struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Plate      string    `gorm:"index;not null" json:"plate"` // unique among non-DELETED cars, enforced by the service
	Brand      string    `gorm:"not null" json:"brand"`
	Model      string    `gorm:"not null" json:"model"`
	Km         int       `json:"km"`
	Year       int       `json:"year"`
	Price      float64   `json:"price"`
	Status     string    `gorm:"not null;default:'ACTIVED'" json:"status"`
	PhotoS3Key *string   `json:"photoS3Key,omitempty"` // nullable, S3 key for the car photo
	Items      []CarItem `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the Car model
func (Car) TableName() string {
	return "cars"
}

// CarItem is a piece of equipment owned by exactly one car. Items have no
// independent lifecycle: updating a car's item list replaces all of its rows.
type CarItem struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	CarID    string `gorm:"index;not null" json:"carId"`
	Position int    `gorm:"not null;default:0" json:"-"` // keeps the submitted list order
}

// BeforeCreate assigns a UUID primary key when none is set
func (i *CarItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the CarItem model
func (CarItem) TableName() string {
	return "items"
}
