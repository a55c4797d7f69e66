package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Payment methods are stored as labels only; there is no gateway
// integration behind them.
const (
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentMobileMoney  = "mobile_money"
	PaymentBankTransfer = "bank_transfer"
)

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobileMoney, PaymentBankTransfer:
		return true
	}
	return false
}

type Booking struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	UserID             uint          `json:"user_id" gorm:"not null"`
	User               User          `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ServiceID          uint          `json:"service_id" gorm:"not null"`
	Service            Service       `json:"service,omitempty" gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
	ProblemDescription string        `json:"problem_description"`
	PreferredDate      Date          `json:"preferred_date" gorm:"type:date"`
	Status             BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Address            string        `json:"address"`
	Phone              string        `json:"phone"`
	PaymentMethod      string        `json:"payment_method" gorm:"type:varchar(20);default:'cash'"`
	Notes              string        `json:"notes"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.PaymentMethod == "" {
		b.PaymentMethod = PaymentCash
	}
	return nil
}

// Cancel moves the booking to cancelled. Reachable from pending or
// confirmed only; completed and cancelled are terminal.
func (b *Booking) Cancel(tx *gorm.DB) error {
	if b.Status.Terminal() {
		return fmt.Errorf("cannot cancel a booking with status %s", b.Status)
	}
	b.Status = StatusCancelled
	return tx.Save(b).Error
}
