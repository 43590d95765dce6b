package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex"`
	Email    string `json:"email" gorm:"uniqueIndex"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	IsActive *bool  `json:"isActive" gorm:"default:true"`

	Items    []Item    `json:"items,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:RenterID;references:ID"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

// Custom JSON marshaling so the password hash never leaves the server.
// Items are excluded to prevent circular references; callers fetch them
// through /api/user/{id}/items. Value receiver: encoding/json skips
// pointer-receiver marshalers for non-addressable values, and handlers
// hand users to ctx.JSON by value.
func (u User) MarshalJSON() ([]byte, error) {
	type Alias User
	a := Alias(u)
	aux := &struct {
		Password string `json:"password,omitempty"`
		Items    []Item `json:"items,omitempty"`
		*Alias
	}{
		Alias: &a,
	}
	aux.Password = ""
	aux.Items = nil

	return json.Marshal(aux)
}
