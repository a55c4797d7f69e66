package models

import (
	"time"
)

type Service struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	Bookings    []Booking `json:"bookings,omitempty" gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
