package pages

import (
	"time"

	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/store"
)

func UserSpec() page.Spec[models.User] {
	userType := func(u models.User) string { return string(u.Type) }
	status := func(u models.User) string { return string(u.Status) }
	created := func(u models.User) time.Time { return u.CreatedAt }

	return page.Spec[models.User]{
		Name: "users",
		ID:   func(u models.User) string { return u.ID },
		Search: func(u models.User) []string {
			return []string{u.DisplayLabel(), u.Email, u.ContactPhone(), u.Address, u.RestaurantName, u.ID}
		},
		Filters: map[string]page.Filter[models.User]{
			"type":   page.EqualFilter(userType),
			"status": page.EqualFilter(status),
			"date":   page.DateFilter(created),
		},
		Sorts: map[string]func(a, b models.User) int{
			"newest": func(a, b models.User) int { return page.TimeOrder(a.CreatedAt, b.CreatedAt, true) },
			"oldest": func(a, b models.User) int { return page.TimeOrder(a.CreatedAt, b.CreatedAt, false) },
		},
		Stats: func(items []models.User, at time.Time) page.Stats {
			s := page.NewStats(len(items))
			s.Groups["type"] = page.GroupBy(items, userType)
			s.Groups["status"] = page.GroupBy(items, status)
			s.Counts["verified"] = page.Count(items, func(u models.User) bool { return u.EmailVerified })
			page.CountBuckets(s, items, created, at)
			return s
		},
	}
}

type UserForm struct {
	Name          string            `json:"name" binding:"required"`
	Email         string            `json:"email" binding:"omitempty,email"`
	Phone         string            `json:"phone"`
	Address       string            `json:"address"`
	Type          models.UserType   `json:"type" binding:"required,oneof=client restaurant admin"`
	Status        models.UserStatus `json:"status" binding:"required,oneof=active inactive blocked pending"`
	EmailVerified bool              `json:"emailVerified"`
	PhoneVerified bool              `json:"phoneVerified"`
	AdminNotes    string            `json:"adminNotes"`

	RestaurantName string `json:"restaurantName"`
	CuisineType    string `json:"cuisineType"`
}

func (f *UserForm) Fields() map[string]any {
	fields := map[string]any{
		"name":           f.Name,
		"email":          f.Email,
		"phone":          f.Phone,
		"address":        f.Address,
		"type":           f.Type,
		"status":         f.Status,
		"email_verified": f.EmailVerified,
		"phone_verified": f.PhoneVerified,
		"admin_notes":    f.AdminNotes,
	}
	if f.Type == models.UserRestaurant {
		fields["restaurant_name"] = f.RestaurantName
		fields["cuisine_type"] = f.CuisineType
	}
	return fields
}

// UserStatusForm is the quick block/unblock action of the users table.
type UserStatusForm struct {
	Status models.UserStatus `json:"status" binding:"required,oneof=active inactive blocked pending"`
}

func (f *UserStatusForm) Fields() map[string]any {
	return map[string]any{"status": f.Status}
}

func NewUsers(coll store.Collection[models.User], env Env) *page.Controller[models.User] {
	return page.New(UserSpec(), coll, coll, options[models.User](env)...)
}
