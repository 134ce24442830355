package models

import "time"

// Collection names shared by the SQL tables and the Mongo collections.
const (
	CollAddresses        = "addresses"
	CollCards            = "cards"
	CollCategories       = "categories"
	CollBanners          = "banners"
	CollFreeFoodRequests = "freeFoodRequests"
	CollHelpRequests     = "helpRequests"
	CollOrders           = "orders_v2"
	CollUsers            = "users"
	CollChatStatus       = "chatStatus"
	CollChatMessages     = "chatMessages"
	CollNotifications    = "notifications"
	CollOperators        = "operators"
)

// Document is implemented by every stored record through the embedded Base.
type Document interface {
	DocID() string
	SetDocID(id string)
	Stamp(now time.Time)
}

// Base carries the opaque key and the server-assigned timestamps.
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" gorm:"index" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

func (b *Base) DocID() string { return b.ID }

func (b *Base) SetDocID(id string) { b.ID = id }

// Stamp sets the creation time once and refreshes the update time.
func (b *Base) Stamp(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Normalize moves stored timestamps into loc so day/week buckets are local.
func (b *Base) Normalize(loc *time.Location) {
	if !b.CreatedAt.IsZero() {
		b.CreatedAt = b.CreatedAt.In(loc)
	}
	if !b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.UpdatedAt.In(loc)
	}
}

func normalizePtr(t *time.Time, loc *time.Location) *time.Time {
	if t == nil || t.IsZero() {
		return t
	}
	v := t.In(loc)
	return &v
}
