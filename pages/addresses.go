package pages

import (
	"time"

	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/store"
)

func AddressSpec() page.Spec[models.Address] {
	return page.Spec[models.Address]{
		Name: "addresses",
		ID:   func(a models.Address) string { return a.ID },
		Search: func(a models.Address) []string {
			return []string{a.Street, a.City, a.State, a.Zip, a.ID}
		},
		Filters: map[string]page.Filter[models.Address]{
			"type": page.EqualFilter(func(a models.Address) string { return a.Type }),
		},
		Stats: func(items []models.Address, _ time.Time) page.Stats {
			s := page.NewStats(len(items))
			s.Groups["type"] = page.GroupBy(items, func(a models.Address) string { return a.Type })
			s.Counts["cities"] = page.Distinct(items, func(a models.Address) string { return a.City })
			s.Counts["states"] = page.Distinct(items, func(a models.Address) string { return a.State })
			return s
		},
	}
}

// NewAddresses is read-only: addresses are written by the mobile apps.
func NewAddresses(src store.Source[models.Address], env Env) *page.Controller[models.Address] {
	return page.New(AddressSpec(), src, nil, options[models.Address](env)...)
}
