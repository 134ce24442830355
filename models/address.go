package models

type Address struct {
	Base   `bson:",inline"`
	Street string `json:"street" bson:"street"`
	City   string `json:"city" bson:"city"`
	State  string `json:"state" bson:"state"`
	Zip    string `json:"zip" bson:"zip"`
	Type   string `json:"type" bson:"type"` // home, apartment, business
	UserID string `json:"userId,omitempty" bson:"user_id,omitempty"`
}

func (Address) TableName() string { return CollAddresses }
