package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	ItemID  uint   `json:"itemID" gorm:"not null;index"`
	UserID  uint   `json:"userID" gorm:"not null;index"`
	Rating  int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment string `json:"comment" gorm:"type:text"`

	Item *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
