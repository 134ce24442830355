package models

// Operator is a console account. Operators are kept apart from the users
// collection, which belongs to the mobile apps.
type Operator struct {
	Base         `bson:",inline"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" gorm:"uniqueIndex;not null" bson:"email"`
	PasswordHash string `json:"-" gorm:"not null" bson:"password_hash"`
}

func (Operator) TableName() string { return CollOperators }
