package models

import "time"

type ChatState string

const (
	ChatActive ChatState = "active"
	ChatEnded  ChatState = "ended"
)

const (
	ClosedTimeout = "timeout"
	ClosedManual  = "manual"
)

// ChatStatus is the parent record of one support conversation. The mobile
// client creates it; the console only ends it.
type ChatStatus struct {
	Base              `bson:",inline"`
	OrderID           string     `json:"orderId" gorm:"index" bson:"order_id"`
	Status            ChatState  `json:"status" gorm:"index" bson:"status"`
	LastMessageAt     *time.Time `json:"lastMessageAt,omitempty" bson:"last_message_at,omitempty"`
	LastMessageSender string     `json:"lastMessageSender,omitempty" bson:"last_message_sender,omitempty"`
	EndedAt           *time.Time `json:"endedAt,omitempty" bson:"ended_at,omitempty"`
	ClosedReason      string     `json:"closedReason,omitempty" bson:"closed_reason,omitempty"`
}

func (ChatStatus) TableName() string { return CollChatStatus }

func (c *ChatStatus) Normalize(loc *time.Location) {
	c.Base.Normalize(loc)
	c.LastMessageAt = normalizePtr(c.LastMessageAt, loc)
	c.EndedAt = normalizePtr(c.EndedAt, loc)
}

type ChatMessage struct {
	Base       `bson:",inline"`
	ChatID     string    `json:"chatId" gorm:"index" bson:"chat_id"`
	Text       string    `json:"text" binding:"required" bson:"text"`
	SenderID   string    `json:"senderId" bson:"sender_id"`
	Timestamp  time.Time `json:"timestamp" gorm:"index" bson:"timestamp"`
	IsCustomer bool      `json:"isCustomer" bson:"is_customer"`
	IsSystem   bool      `json:"isSystem,omitempty" bson:"is_system,omitempty"`
}

func (ChatMessage) TableName() string { return CollChatMessages }

const (
	SenderAdmin  = "admin"
	SenderSystem = "system"
)
