package pages

import (
	"strconv"
	"strings"
	"time"

	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/store"
)

const (
	BrandVisa       = "Visa"
	BrandMastercard = "Mastercard"
	BrandAmex       = "Amex"
	BrandDiscover   = "Discover"
	BrandOther      = "Other"
)

// Brand infers the card network from the leading digit. The type label
// stored on the card is read only when the digit names no network, so a
// "5..." number labelled visa is still Mastercard.
func Brand(number, cardType string) string {
	number = strings.TrimSpace(number)
	if number != "" {
		switch number[0] {
		case '4':
			return BrandVisa
		case '5':
			return BrandMastercard
		case '3':
			return BrandAmex
		case '6':
			return BrandDiscover
		}
	}

	t := strings.ToLower(cardType)
	switch {
	case strings.Contains(t, "visa"):
		return BrandVisa
	case strings.Contains(t, "mastercard"):
		return BrandMastercard
	case strings.Contains(t, "amex"), strings.Contains(t, "american express"):
		return BrandAmex
	case strings.Contains(t, "discover"):
		return BrandDiscover
	}
	return BrandOther
}

// Expired reports whether an MM/YY expiry lies before the month of at.
// Unparseable values count as expired.
func Expired(expiry string, at time.Time) bool {
	mm, yy, ok := strings.Cut(strings.TrimSpace(expiry), "/")
	if !ok {
		return true
	}
	month, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || month < 1 || month > 12 {
		return true
	}
	year, err := strconv.Atoi(strings.TrimSpace(yy))
	if err != nil {
		return true
	}
	if year < 100 {
		year += 2000
	}

	// valid through the last day of the expiry month
	end := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, at.Location())
	return !at.Before(end)
}

func CardSpec() page.Spec[models.Card] {
	return page.Spec[models.Card]{
		Name: "cards",
		ID:   func(c models.Card) string { return c.ID },
		Search: func(c models.Card) []string {
			return []string{c.Name, c.Number, c.Type, c.ID, c.UserID}
		},
		Filters: map[string]page.Filter[models.Card]{
			"brand": page.EqualFilter(func(c models.Card) string { return Brand(c.Number, c.Type) }),
			"expiry": func(c models.Card, value string, at time.Time) bool {
				return (value == "expired") == Expired(c.Expiry, at)
			},
		},
		Stats: func(items []models.Card, at time.Time) page.Stats {
			s := page.NewStats(len(items))
			s.Groups["brand"] = page.GroupBy(items, func(c models.Card) string { return Brand(c.Number, c.Type) })
			s.Counts["expired"] = page.Count(items, func(c models.Card) bool { return Expired(c.Expiry, at) })
			s.Counts["active"] = s.Total - s.Counts["expired"]
			return s
		},
	}
}

// NewCards is read-only.
func NewCards(src store.Source[models.Card], env Env) *page.Controller[models.Card] {
	return page.New(CardSpec(), src, nil, options[models.Card](env)...)
}
