package pages

import (
	"context"
	"time"

	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/store"
)

func FreeFoodSpec() page.Spec[models.FreeFoodRequest] {
	status := func(r models.FreeFoodRequest) string { return string(r.Status) }
	created := func(r models.FreeFoodRequest) time.Time { return r.CreatedAt }

	return page.Spec[models.FreeFoodRequest]{
		Name: "free food requests",
		ID:   func(r models.FreeFoodRequest) string { return r.ID },
		Search: func(r models.FreeFoodRequest) []string {
			return []string{r.UserName, r.UserEmail, r.UserPhone, r.Address, r.Reason, r.ID}
		},
		Filters: map[string]page.Filter[models.FreeFoodRequest]{
			"status": page.EqualFilter(status),
			"date":   page.DateFilter(created),
		},
		Sorts: map[string]func(a, b models.FreeFoodRequest) int{
			"newest": func(a, b models.FreeFoodRequest) int { return page.TimeOrder(a.CreatedAt, b.CreatedAt, true) },
			"oldest": func(a, b models.FreeFoodRequest) int { return page.TimeOrder(a.CreatedAt, b.CreatedAt, false) },
		},
		Stats: func(items []models.FreeFoodRequest, at time.Time) page.Stats {
			s := page.NewStats(len(items))
			s.Groups["status"] = page.GroupBy(items, status)
			page.CountBuckets(s, items, created, at)
			return s
		},
	}
}

// FreeFoodForm reviews a free food request.
type FreeFoodForm struct {
	Status     models.FreeFoodStatus `json:"status" binding:"required,oneof=pending approved rejected"`
	AdminNotes string                `json:"adminNotes"`

	at time.Time
}

func (f *FreeFoodForm) SetClock(at time.Time) { f.at = at }

func (f *FreeFoodForm) Fields() map[string]any {
	return map[string]any{
		"status":      f.Status,
		"admin_notes": f.AdminNotes,
		"resolved_at": resolvedAt(f.Status != models.FreeFoodPending, f.at),
	}
}

func NewFreeFood(coll store.Collection[models.FreeFoodRequest], env Env) *page.Controller[models.FreeFoodRequest] {
	return page.New(FreeFoodSpec(), coll, coll, options[models.FreeFoodRequest](env)...)
}

func HelpSpec() page.Spec[models.HelpRequest] {
	status := func(r models.HelpRequest) string { return string(r.Status) }
	priority := func(r models.HelpRequest) string { return string(r.Priority) }
	created := func(r models.HelpRequest) time.Time { return r.CreatedAt }

	return page.Spec[models.HelpRequest]{
		Name: "help requests",
		ID:   func(r models.HelpRequest) string { return r.ID },
		Search: func(r models.HelpRequest) []string {
			return []string{r.UserName, r.Email, r.Phone, r.HelpTopic, r.HelpDescription, r.OrderID, r.OrderStatus, r.ID}
		},
		Filters: map[string]page.Filter[models.HelpRequest]{
			"status":   page.EqualFilter(status),
			"priority": page.EqualFilter(priority),
			"date":     page.DateFilter(created),
		},
		Sorts: map[string]func(a, b models.HelpRequest) int{
			"newest":   func(a, b models.HelpRequest) int { return page.TimeOrder(a.CreatedAt, b.CreatedAt, true) },
			"oldest":   func(a, b models.HelpRequest) int { return page.TimeOrder(a.CreatedAt, b.CreatedAt, false) },
			"priority": func(a, b models.HelpRequest) int { return priorityRank(a.Priority) - priorityRank(b.Priority) },
		},
		Stats: func(items []models.HelpRequest, at time.Time) page.Stats {
			s := page.NewStats(len(items))
			s.Groups["status"] = page.GroupBy(items, status)
			s.Groups["priority"] = page.GroupBy(items, priority)
			page.CountBuckets(s, items, created, at)
			return s
		},
	}
}

func priorityRank(p models.Priority) int {
	switch p {
	case models.PriorityUrgent:
		return 0
	case models.PriorityHigh:
		return 1
	case models.PriorityMedium:
		return 2
	case models.PriorityLow:
		return 3
	}
	return 4
}

// HelpForm edits the triage fields of a help request.
type HelpForm struct {
	Status     models.HelpStatus `json:"status" binding:"required,oneof=pending in-progress resolved closed"`
	Priority   models.Priority   `json:"priority" binding:"omitempty,oneof=urgent high medium low"`
	AssignedTo string            `json:"assignedTo"`
	Resolution string            `json:"resolution"`
	AdminNotes string            `json:"adminNotes"`

	at time.Time
}

func (f *HelpForm) SetClock(at time.Time) { f.at = at }

func (f *HelpForm) Fields() map[string]any {
	fields := map[string]any{
		"status":      f.Status,
		"assigned_to": f.AssignedTo,
		"resolution":  f.Resolution,
		"admin_notes": f.AdminNotes,
		"resolved_at": resolvedAt(f.Status == models.HelpResolved || f.Status == models.HelpClosed, f.at),
	}
	if f.Priority != "" {
		fields["priority"] = f.Priority
	}
	return fields
}

// AssignForm hands a request to an operator and moves it in progress.
type AssignForm struct {
	AssignedTo string `json:"assignedTo" binding:"required"`
}

func (f *AssignForm) Fields() map[string]any {
	return map[string]any{
		"assigned_to": f.AssignedTo,
		"status":      models.HelpInProgress,
	}
}

type HelpRequests struct {
	*page.Controller[models.HelpRequest]
}

func NewHelp(coll store.Collection[models.HelpRequest], env Env) *HelpRequests {
	return &HelpRequests{page.New(HelpSpec(), coll, coll, options[models.HelpRequest](env)...)}
}

func (p *HelpRequests) Assign(ctx context.Context, id, operator string) error {
	return p.Update(ctx, id, &AssignForm{AssignedTo: operator})
}
