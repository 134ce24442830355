package models

import "time"

// UserType defines the kinds of accounts the mobile apps register
type UserType string

const (
	UserClient     UserType = "client"
	UserRestaurant UserType = "restaurant"
	UserAdmin      UserType = "admin"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserBlocked  UserStatus = "blocked"
	UserPending  UserStatus = "pending"
)

type User struct {
	Base          `bson:",inline"`
	Name          string     `json:"name" bson:"name"`
	DisplayName   string     `json:"displayName,omitempty" bson:"display_name,omitempty"`
	Username      string     `json:"username,omitempty" bson:"username,omitempty"`
	Email         string     `json:"email" gorm:"index" bson:"email"`
	Phone         string     `json:"phone" bson:"phone"`
	PhoneNumber   string     `json:"phoneNumber,omitempty" bson:"phone_number,omitempty"`
	Address       string     `json:"address" bson:"address"`
	Type          UserType   `json:"type" gorm:"index" bson:"type"`
	Status        UserStatus `json:"status" gorm:"index" bson:"status"`
	EmailVerified bool       `json:"emailVerified" bson:"email_verified"`
	PhoneVerified bool       `json:"phoneVerified" bson:"phone_verified"`
	AdminNotes    string     `json:"adminNotes" bson:"admin_notes"`
	LastLogin     *time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`

	// Restaurant accounts only
	RestaurantName string   `json:"restaurantName,omitempty" bson:"restaurant_name,omitempty"`
	RestaurantType string   `json:"restaurantType,omitempty" bson:"restaurant_type,omitempty"`
	CuisineType    string   `json:"cuisineType,omitempty" bson:"cuisine_type,omitempty"`
	DeliveryFee    *float64 `json:"deliveryFee,omitempty" bson:"delivery_fee,omitempty"`
	MinOrder       *float64 `json:"minOrder,omitempty" bson:"min_order,omitempty"`
}

func (User) TableName() string { return CollUsers }

func (u *User) Normalize(loc *time.Location) {
	u.Base.Normalize(loc)
	u.LastLogin = normalizePtr(u.LastLogin, loc)
}

// DisplayLabel picks the best human readable name the record carries.
func (u *User) DisplayLabel() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.DisplayName != "":
		return u.DisplayName
	default:
		return u.Username
	}
}

// ContactPhone prefers phone over the legacy phoneNumber field.
func (u *User) ContactPhone() string {
	if u.Phone != "" {
		return u.Phone
	}
	return u.PhoneNumber
}
