package models

import (
	"time"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"uniqueIndex;not null"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	Password    string    `json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	IsAdmin     bool      `json:"is_admin" gorm:"default:false"`
	IsStaff     bool      `json:"is_staff" gorm:"default:false"`
	IsSuperuser bool      `json:"is_superuser" gorm:"default:false"`
	Bookings    []Booking `json:"bookings,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CanModifyBooking is the ownership predicate behind every booking
// authorization decision. Only the domain is_admin flag grants blanket
// access; is_staff and is_superuser are platform roles and play no part
// here.
func (u *User) CanModifyBooking(b *Booking) bool {
	return u.IsAdmin || b.UserID == u.ID
}
