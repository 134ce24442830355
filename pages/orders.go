package pages

import (
	"cmp"
	"context"
	"fmt"
	"sync"
	"time"

	"food-delivery-admin/logger"
	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/store"
)

const UnknownUser = "Unknown User"

// Contact is the resolved customer of an order.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderRow is an order joined with its customer and resolved total.
type OrderRow struct {
	models.Order
	Customer Contact `json:"customer"`
	Total    float64 `json:"computedTotal"`
}

// UserDirectory caches the whole users collection by id for the orders join.
type UserDirectory struct {
	users store.Source[models.User]

	mu   sync.RWMutex
	byID map[string]models.User
}

func NewUserDirectory(users store.Source[models.User]) *UserDirectory {
	return &UserDirectory{users: users, byID: map[string]models.User{}}
}

// Refresh reloads the full users collection.
func (d *UserDirectory) Refresh(ctx context.Context) error {
	users, err := d.users.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	d.mu.Lock()
	d.byID = byID
	d.mu.Unlock()
	return nil
}

func (d *UserDirectory) Resolve(id string) (models.User, bool) {
	if id == "" {
		return models.User{}, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.byID[id]
	return u, ok
}

// ResolveContact picks each field from the user record, then from the
// contact details copied onto the order.
func ResolveContact(o models.Order, u models.User, found bool) Contact {
	var c Contact
	if found {
		c = Contact{Name: u.DisplayLabel(), Email: u.Email, Phone: u.ContactPhone()}
	}
	c.Name = firstNonEmpty(c.Name, o.UserName, o.Name, UnknownUser)
	c.Email = firstNonEmpty(c.Email, o.UserEmail, o.Email)
	c.Phone = firstNonEmpty(c.Phone, o.UserPhone, o.Phone)
	return c
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ResolveTotal returns the first non-zero of priceafter, totalPrice, total
// and amount. Without any, the total is summed from the items, and card
// payments add deliveryFee on top of that sum.
func ResolveTotal(o models.Order, deliveryFee float64) float64 {
	for _, p := range []*float64{o.PriceAfter, o.TotalPrice, o.Total, o.Amount} {
		if p != nil && *p != 0 {
			return *p
		}
	}

	if o.Items == nil {
		return 0
	}

	var total float64
	for _, item := range o.Items {
		price := item.Price
		if item.PriceAfter != nil && *item.PriceAfter != 0 {
			price = *item.PriceAfter
		}
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		total += price * float64(qty)
	}
	if o.PaymentMethod == models.PaymentCard {
		total += deliveryFee
	}
	return total
}

// orderSource loads the user directory first, then the orders, and joins.
// A failed users read keeps the previous directory; rows then fall back to
// the contact fields stored on the order.
type orderSource struct {
	orders      store.Source[models.Order]
	directory   *UserDirectory
	deliveryFee float64
	log         logger.ILogger
}

func (s orderSource) Load(ctx context.Context, where ...store.Where) ([]OrderRow, error) {
	if err := s.directory.Refresh(ctx); err != nil {
		s.log.Warning("joining orders without fresh users", logger.Error(err))
	}

	orders, err := s.orders.Load(ctx, where...)
	if err != nil {
		return nil, err
	}

	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		u, found := s.directory.Resolve(o.UserID)
		rows = append(rows, OrderRow{
			Order:    o,
			Customer: ResolveContact(o, u, found),
			Total:    ResolveTotal(o, s.deliveryFee),
		})
	}
	return rows, nil
}

// orderStatuses are the statuses counted individually on the orders page.
var orderStatuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusProcessing,
	models.StatusShipped,
	models.StatusDelivered,
	models.StatusCancelled,
}

func OrderSpec() page.Spec[OrderRow] {
	status := func(r OrderRow) string { return string(r.Status) }
	created := func(r OrderRow) time.Time { return r.CreatedAt }
	total := func(r OrderRow) float64 { return r.Total }

	return page.Spec[OrderRow]{
		Name: "orders",
		ID:   func(r OrderRow) string { return r.ID },
		Search: func(r OrderRow) []string {
			return []string{r.Customer.Name, r.Customer.Email, r.ID, r.TrackingNumber, r.Customer.Phone}
		},
		Filters: map[string]page.Filter[OrderRow]{
			"status": page.EqualFilter(status),
			"date":   page.DateFilter(created),
		},
		Sorts: map[string]func(a, b OrderRow) int{
			"newest":     func(a, b OrderRow) int { return page.TimeOrder(a.CreatedAt, b.CreatedAt, true) },
			"oldest":     func(a, b OrderRow) int { return page.TimeOrder(a.CreatedAt, b.CreatedAt, false) },
			"price-high": func(a, b OrderRow) int { return cmp.Compare(b.Total, a.Total) },
			"price-low":  func(a, b OrderRow) int { return cmp.Compare(a.Total, b.Total) },
		},
		Stats: func(items []OrderRow, at time.Time) page.Stats {
			s := page.NewStats(len(items))
			s.Groups["status"] = page.GroupBy(items, status)
			for _, st := range orderStatuses {
				s.Counts[string(st)] = s.Groups["status"][string(st)]
			}
			// everything outside the headline statuses, so the cards sum to Total
			s.Counts["other"] = s.Total
			for _, st := range orderStatuses {
				s.Counts["other"] -= s.Counts[string(st)]
			}

			s.Sums["totalRevenue"] = page.Sum(items, total, nil)
			s.Sums["todayRevenue"] = page.Sum(items, total, func(r OrderRow) bool {
				return page.InBucket(r.CreatedAt, page.BucketToday, at)
			})
			if s.Total > 0 {
				s.Sums["avgOrderValue"] = s.Sums["totalRevenue"] / float64(s.Total)
			} else {
				s.Sums["avgOrderValue"] = 0
			}
			page.CountBuckets(s, items, created, at)
			return s
		},
	}
}

// OrderForm is the inline status selector plus the order notes. Nil fields
// are left untouched.
type OrderForm struct {
	Status         *models.OrderStatus `json:"status" binding:"omitempty,oneof=pending placed processing accepted preparing shipped delivered reached completed cancelled"`
	TrackingNumber *string             `json:"trackingNumber"`
	AdminNotes     *string             `json:"adminNotes"`
}

func (f *OrderForm) Fields() map[string]any {
	fields := map[string]any{}
	if f.Status != nil {
		fields["status"] = *f.Status
	}
	if f.TrackingNumber != nil {
		fields["tracking_number"] = *f.TrackingNumber
	}
	if f.AdminNotes != nil {
		fields["admin_notes"] = *f.AdminNotes
	}
	return fields
}

type Orders struct {
	*page.Controller[OrderRow]
	Directory *UserDirectory
}

// NewOrders builds the orders page. Orders are placed by the mobile apps,
// so the page offers update and delete only.
func NewOrders(orders store.Collection[models.Order], users store.Source[models.User], deliveryFee float64, env Env) *Orders {
	dir := NewUserDirectory(users)
	log := env.Log
	if log == nil {
		log = logger.Nop()
	}
	src := orderSource{orders: orders, directory: dir, deliveryFee: deliveryFee, log: log}
	return &Orders{
		Controller: page.New(OrderSpec(), src, orders, options[OrderRow](env)...),
		Directory:  dir,
	}
}

func (p *Orders) SetStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return p.Update(ctx, id, &OrderForm{Status: &status})
}
