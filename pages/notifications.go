package pages

import (
	"time"

	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/store"
)

func NotificationSpec() page.Spec[models.Notification] {
	kind := func(n models.Notification) string { return string(n.Type) }
	created := func(n models.Notification) time.Time { return n.CreatedAt }

	return page.Spec[models.Notification]{
		Name: "notifications",
		ID:   func(n models.Notification) string { return n.ID },
		Search: func(n models.Notification) []string {
			return []string{n.Title, n.Body, n.UserID, n.RestaurantID, n.ID}
		},
		Filters: map[string]page.Filter[models.Notification]{
			"type": page.EqualFilter(kind),
			"date": page.DateFilter(created),
		},
		Stats: func(items []models.Notification, at time.Time) page.Stats {
			s := page.NewStats(len(items))
			s.Groups["type"] = page.GroupBy(items, kind)
			s.Counts["recipients"] = 0
			for _, n := range items {
				s.Counts["recipients"] += n.SentTo
			}
			page.CountBuckets(s, items, created, at)
			return s
		},
	}
}

// NewNotifications is the read-only send history; records are written by
// the notification functions.
func NewNotifications(src store.Source[models.Notification], env Env) *page.Controller[models.Notification] {
	return page.New(NotificationSpec(), src, nil, options[models.Notification](env)...)
}
