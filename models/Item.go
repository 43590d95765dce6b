package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Item struct {
	gorm.Model
	OwnerID     uint    `json:"ownerID" gorm:"not null;index"`
	CategoryID  uint    `json:"categoryID" gorm:"not null;index"`
	Name        string  `json:"name" gorm:"index"`
	Description string  `json:"description" gorm:"type:text"`
	PricePerDay float64 `json:"pricePerDay" gorm:"not null"`
	IsAvailable *bool   `json:"isAvailable" gorm:"default:true"`
	ImageURL    string  `json:"imageURL"`

	// Location fields
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`

	// Availability configuration (evaluated by the availability package)
	AvailableFrom    *time.Time     `json:"availableFrom" gorm:"type:date"`
	AvailableTo      *time.Time     `json:"availableTo" gorm:"type:date"`
	AvailabilityRule string         `json:"availabilityRule" gorm:"type:varchar(20);default:'all_days'"` // all_days, weekdays_only, weekends_only
	DisabledDates    datatypes.JSON `json:"disabledDates"` // JSON array of ISO dates

	Owner    *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:ItemID"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"foreignKey:ItemID"`
}

// Custom JSON marshaling to convert the DisabledDates JSON column to an
// array and keep the owner free of circular references. Value receiver so
// the marshaler also applies when an item reaches the encoder by value.
func (i Item) MarshalJSON() ([]byte, error) {
	type Alias Item
	a := Alias(i)
	aux := &struct {
		DisabledDates []string `json:"disabledDates"`
		Owner         *User    `json:"owner,omitempty"`
		*Alias
	}{
		DisabledDates: []string{},
		Owner:         nil,
		Alias:         &a,
	}

	if i.DisabledDates != nil {
		var dates []string
		if err := json.Unmarshal(i.DisabledDates, &dates); err == nil {
			aux.DisabledDates = dates
		}
	}

	if i.Owner != nil && i.Owner.ID > 0 {
		ownerCopy := *i.Owner
		ownerCopy.Items = nil
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}

// DisabledDateStrings decodes the DisabledDates column for the
// availability evaluator. A missing or malformed column reads as no
// disabled dates.
func (i *Item) DisabledDateStrings() []string {
	if i.DisabledDates == nil {
		return nil
	}
	var dates []string
	if err := json.Unmarshal(i.DisabledDates, &dates); err != nil {
		return nil
	}
	return dates
}
