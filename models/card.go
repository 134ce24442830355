package models

import (
	"strings"
	"time"
)

type Card struct {
	Base   `bson:",inline"`
	Number string `json:"number" bson:"number"`
	Name   string `json:"name" bson:"name"`
	Expiry string `json:"expiryDate" bson:"expiry"` // MM/YY
	Type   string `json:"type,omitempty" bson:"type,omitempty"`
	UserID string `json:"userId" gorm:"index" bson:"user_id"`

	Masked string `json:"maskedNumber" gorm:"-" bson:"-"`
}

func (Card) TableName() string { return CollCards }

func (c *Card) Normalize(loc *time.Location) {
	c.Base.Normalize(loc)
	c.Masked = MaskCardNumber(c.Number)
}

// MaskCardNumber keeps the last four digits.
func MaskCardNumber(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) <= 4 {
		return digits
	}
	return "**** **** **** " + digits[len(digits)-4:]
}
