package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status values. Orders are never removed: deleting one transitions
// it to CANCELED.
const (
	OrderStatusOpen     = "OPEN"
	OrderStatusApproved = "APPROVED"
	OrderStatusClosed   = "CLOSED"
	OrderStatusCanceled = "CANCELED"
)

// ValidOrderStatus reports whether s is one of the known order status values
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusOpen, OrderStatusApproved, OrderStatusClosed, OrderStatusCanceled:
		return true
	}
	return false
}

// Order represents a rental order referencing a car and a client
type Order struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	CarID      string    `gorm:"index;not null" json:"carId"`
	Car        Car       `gorm:"foreignKey:CarID" json:"-"`
	ClientID   string    `gorm:"index;not null" json:"clientId"`
	Client     Client    `gorm:"foreignKey:ClientID" json:"-"`
	Status     string    `gorm:"not null;default:'OPEN'" json:"status"`
	Zipcode    string    `json:"zipcode"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	TotalValue float64   `json:"totalValue"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
