package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CarStatus string

const (
	CarStatusAvailable CarStatus = "available"
	CarStatusRented    CarStatus = "rented"
)

// Car represents a physical vehicle in the fleet. Plate is the natural key
// used by the guest-facing flow; SmartcarID is the vehicle-control identifier.
type Car struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	Plate      string    `json:"plate" gorm:"unique;not null"`
	SmartcarID string    `json:"smartcar_id" gorm:"column:smartcar_id"`
	Status     CarStatus `json:"status" gorm:"not null;default:'available'"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Car) TableName() string {
	return "cars"
}

func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
