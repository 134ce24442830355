package models

import "gorm.io/datatypes"

// OrderStatus values written by the mobile apps. The set is open: unknown
// strings are kept and displayed verbatim.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPlaced     OrderStatus = "placed"
	StatusProcessing OrderStatus = "processing"
	StatusAccepted   OrderStatus = "accepted"
	StatusPreparing  OrderStatus = "preparing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusReached    OrderStatus = "reached"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

const PaymentCard = "Card"

type Order struct {
	Base            `bson:",inline"`
	UserID          string                         `json:"userId" gorm:"index" bson:"user_id"`
	Items           datatypes.JSONSlice[OrderItem] `json:"items" bson:"items"`
	PriceAfter      *float64                       `json:"priceafter,omitempty" bson:"priceafter,omitempty"`
	TotalPrice      *float64                       `json:"totalPrice,omitempty" bson:"total_price,omitempty"`
	Total           *float64                       `json:"total,omitempty" bson:"total,omitempty"`
	Amount          *float64                       `json:"amount,omitempty" bson:"amount,omitempty"`
	Status          OrderStatus                    `json:"status" gorm:"index" bson:"status"`
	PaymentMethod   string                         `json:"paymentMethod" bson:"payment_method"`
	ShippingAddress string                         `json:"shippingAddress" bson:"shipping_address"`
	TrackingNumber  string                         `json:"trackingNumber" bson:"tracking_number"`
	AdminNotes      string                         `json:"adminNotes" bson:"admin_notes"`

	// Contact details copied onto the order by the client app; used when the
	// user record cannot be resolved.
	UserName  string `json:"userName,omitempty" bson:"user_name,omitempty"`
	UserEmail string `json:"userEmail,omitempty" bson:"user_email,omitempty"`
	UserPhone string `json:"userPhone,omitempty" bson:"user_phone,omitempty"`
	Name      string `json:"name,omitempty" bson:"name,omitempty"`
	Email     string `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty"`
}

func (Order) TableName() string { return CollOrders }

type OrderItem struct {
	Name       string   `json:"name" bson:"name"`
	Price      float64  `json:"price" bson:"price"`
	PriceAfter *float64 `json:"priceAfter,omitempty" bson:"price_after,omitempty"`
	Quantity   int      `json:"quantity" bson:"quantity"`
}
