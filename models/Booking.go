package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking is a renter's request for an item over a half-open date range
// [StartDate, EndDate). Status moves pending -> confirmed or cancelled by
// the owner's single decision; completed is reached after the rental period
// elapses.
type Booking struct {
	gorm.Model
	ItemID     uint      `json:"itemID" gorm:"not null;index"`
	RenterID   uint      `json:"renterID" gorm:"not null;index"`
	StartDate  time.Time `json:"startDate" gorm:"not null"`
	EndDate    time.Time `json:"endDate" gorm:"not null"`
	TotalPrice float64   `json:"totalPrice"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, confirmed, cancelled, completed
	ExpiresAt  time.Time `json:"expiresAt"` // 24h window for pending requests

	Item   *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	Renter *User `json:"renter,omitempty" gorm:"foreignKey:RenterID"`
}
