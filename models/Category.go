package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`

	Items []Item `json:"items,omitempty" gorm:"foreignKey:CategoryID"`
}
