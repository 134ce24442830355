package models

import "gorm.io/datatypes"

type NotificationType string

const (
	NotifyPromotional NotificationType = "promotional_offer"
	NotifyDirect      NotificationType = "direct_message"
	NotifyBroadcast   NotificationType = "admin_broadcast"
)

// Audience keywords accepted by the promotional fan-out.
const (
	AudienceAll         = "all"
	AudienceClients     = "clients"
	AudienceRestaurants = "restaurants"
)

// Notification is the history record written for every dispatch.
type Notification struct {
	Base         `bson:",inline"`
	Title        string                      `json:"title" bson:"title"`
	Body         string                      `json:"body" bson:"body"`
	Type         NotificationType            `json:"type" gorm:"index" bson:"type"`
	UserID       string                      `json:"userId,omitempty" bson:"user_id,omitempty"`
	RestaurantID string                      `json:"restaurantId,omitempty" bson:"restaurant_id,omitempty"`
	Audience     string                      `json:"targetUsers,omitempty" bson:"audience,omitempty"`
	OfferID      string                      `json:"offerId,omitempty" bson:"offer_id,omitempty"`
	ImageURL     string                      `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Recipients   datatypes.JSONSlice[string] `json:"recipients" bson:"recipients"`
	SentTo       int                         `json:"sentTo" bson:"sent_to"`
}

func (Notification) TableName() string { return CollNotifications }
