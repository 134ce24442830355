package models

import "time"

type FreeFoodStatus string

const (
	FreeFoodPending  FreeFoodStatus = "pending"
	FreeFoodApproved FreeFoodStatus = "approved"
	FreeFoodRejected FreeFoodStatus = "rejected"
)

type FreeFoodRequest struct {
	Base       `bson:",inline"`
	UserName   string         `json:"userName" bson:"user_name"`
	UserEmail  string         `json:"userEmail" bson:"user_email"`
	UserPhone  string         `json:"userPhone" bson:"user_phone"`
	Address    string         `json:"address" bson:"address"`
	Reason     string         `json:"reason" bson:"reason"`
	Status     FreeFoodStatus `json:"status" gorm:"index" bson:"status"`
	AdminNotes string         `json:"adminNotes" bson:"admin_notes"`
	ResolvedAt *time.Time     `json:"resolvedAt,omitempty" bson:"resolved_at,omitempty"`
}

func (FreeFoodRequest) TableName() string { return CollFreeFoodRequests }

func (r *FreeFoodRequest) Normalize(loc *time.Location) {
	r.Base.Normalize(loc)
	r.ResolvedAt = normalizePtr(r.ResolvedAt, loc)
}

type HelpStatus string

const (
	HelpPending    HelpStatus = "pending"
	HelpInProgress HelpStatus = "in-progress"
	HelpResolved   HelpStatus = "resolved"
	HelpClosed     HelpStatus = "closed"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type HelpRequest struct {
	Base            `bson:",inline"`
	UserName        string     `json:"userName" bson:"user_name"`
	Email           string     `json:"email" bson:"email"`
	Phone           string     `json:"phone" bson:"phone"`
	HelpTopic       string     `json:"helpTopic" bson:"help_topic"`
	HelpDescription string     `json:"helpDescription" bson:"help_description"`
	OrderID         string     `json:"orderId,omitempty" bson:"order_id,omitempty"`
	OrderStatus     string     `json:"orderStatus,omitempty" bson:"order_status,omitempty"`
	Status          HelpStatus `json:"status" gorm:"index" bson:"status"`
	Priority        Priority   `json:"priority" bson:"priority"`
	AssignedTo      string     `json:"assignedTo" bson:"assigned_to"`
	Resolution      string     `json:"resolution" bson:"resolution"`
	AdminNotes      string     `json:"adminNotes" bson:"admin_notes"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty" bson:"resolved_at,omitempty"`
}

func (HelpRequest) TableName() string { return CollHelpRequests }

func (r *HelpRequest) Normalize(loc *time.Location) {
	r.Base.Normalize(loc)
	r.ResolvedAt = normalizePtr(r.ResolvedAt, loc)
}
