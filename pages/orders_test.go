package pages

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/store"
)

func price(v float64) *float64 { return &v }

func TestResolveTotal(t *testing.T) {
	tests := []struct {
		name  string
		order models.Order
		want  float64
	}{
		{
			name:  "priceafter wins",
			order: models.Order{PriceAfter: price(12), TotalPrice: price(99), Total: price(98)},
			want:  12,
		},
		{
			name:  "zero values are skipped",
			order: models.Order{PriceAfter: price(0), TotalPrice: nil, Total: price(45), Amount: price(7)},
			want:  45,
		},
		{
			name:  "amount is the last field",
			order: models.Order{Amount: price(7)},
			want:  7,
		},
		{
			name: "items with card fee",
			order: models.Order{
				Items:         datatypes.JSONSlice[models.OrderItem]{{Price: 10, Quantity: 2}},
				PaymentMethod: models.PaymentCard,
			},
			want: 60,
		},
		{
			name: "items without card fee",
			order: models.Order{
				Items:         datatypes.JSONSlice[models.OrderItem]{{Price: 10, Quantity: 2}},
				PaymentMethod: "Cash",
			},
			want: 20,
		},
		{
			name: "item priceAfter and default quantity",
			order: models.Order{
				Items: datatypes.JSONSlice[models.OrderItem]{{Price: 10, PriceAfter: price(8)}, {Price: 5, Quantity: 3}},
			},
			want: 23,
		},
		{
			name:  "no price information",
			order: models.Order{PaymentMethod: models.PaymentCard},
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTotal(tt.order, 40))
		})
	}
}

func TestResolveContact(t *testing.T) {
	u := models.User{DisplayName: "Ayşe", Email: "ayse@example.com", PhoneNumber: "555"}
	c := ResolveContact(models.Order{UserName: "ignored"}, u, true)
	assert.Equal(t, Contact{Name: "Ayşe", Email: "ayse@example.com", Phone: "555"}, c)

	c = ResolveContact(models.Order{UserName: "Mehmet", UserEmail: "m@example.com", Phone: "123"}, models.User{}, false)
	assert.Equal(t, Contact{Name: "Mehmet", Email: "m@example.com", Phone: "123"}, c)

	c = ResolveContact(models.Order{}, models.User{}, false)
	assert.Equal(t, UnknownUser, c.Name)
	assert.Empty(t, c.Email)
}

func TestOrdersPageJoinsUsers(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	users := store.Open[models.User](b, models.CollUsers, store.NewestFirst)
	orders := store.Open[models.Order](b, models.CollOrders, store.NewestFirst)

	alice := &models.User{Name: "Alice", Email: "alice@example.com", Phone: "111"}
	seed(t, users, alice)
	seed(t, orders,
		&models.Order{Base: models.Base{CreatedAt: testNow.Add(-time.Hour)}, UserID: alice.ID, Status: models.StatusPending, Total: price(100)},
		&models.Order{Base: models.Base{CreatedAt: testNow.AddDate(0, 0, -3)}, UserID: "ghost", Status: models.StatusDelivered,
			Items: datatypes.JSONSlice[models.OrderItem]{{Price: 10, Quantity: 2}}, PaymentMethod: models.PaymentCard},
		&models.Order{Base: models.Base{CreatedAt: testNow.AddDate(0, -2, 0)}, Status: "refunded", Amount: price(40)},
		&models.Order{Base: models.Base{CreatedAt: testNow.AddDate(0, -2, -1)}, Amount: price(20)},
	)

	p := NewOrders(orders, users, 40, testEnv())
	require.NoError(t, p.Load(ctx))

	rows := p.Items()
	require.Len(t, rows, 4)
	assert.Equal(t, "Alice", rows[0].Customer.Name)
	assert.Equal(t, UnknownUser, rows[1].Customer.Name)
	assert.Equal(t, float64(60), rows[1].Total)

	s := p.Stats()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Counts["pending"])
	assert.Equal(t, 1, s.Counts["delivered"])
	assert.Equal(t, 2, s.Counts["other"])

	sum := 0
	for _, n := range s.Groups["status"] {
		sum += n
	}
	assert.Equal(t, s.Total, sum)
	assert.Equal(t, 1, s.Groups["status"][page.Unknown])

	assert.Equal(t, float64(220), s.Sums["totalRevenue"])
	assert.Equal(t, float64(100), s.Sums["todayRevenue"])
	assert.Equal(t, float64(55), s.Sums["avgOrderValue"])
	assert.Equal(t, 1, s.Counts[page.BucketToday])

	view, err := p.Find(page.Query{Sort: "price-low"})
	require.NoError(t, err)
	assert.Equal(t, float64(20), view[0].Total)
	assert.Equal(t, float64(100), view[3].Total)
}

func TestOrdersSetStatus(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	orders := store.Open[models.Order](b, models.CollOrders, store.NewestFirst)
	o := &models.Order{Status: models.StatusPending}
	seed(t, orders, o)

	p := NewOrders(orders, store.Open[models.User](b, models.CollUsers, store.NewestFirst), 40, testEnv())
	require.NoError(t, p.SetStatus(ctx, o.ID, models.StatusShipped))

	row, ok := p.Lookup(o.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusShipped, row.Status)

	var verr *page.ValidationError
	assert.ErrorAs(t, p.SetStatus(ctx, o.ID, "teleported"), &verr)
	assert.ErrorIs(t, p.SetStatus(ctx, "missing", models.StatusShipped), page.ErrGone)
}

func TestOrdersLoadWithoutUsersFallsBackToOrderContact(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	orders := store.Open[models.Order](b, models.CollOrders, store.NewestFirst)
	named := &models.Order{UserID: "u1", UserName: "Wendy Walker", UserPhone: "555-0101", Status: models.StatusPending}
	bare := &models.Order{UserID: "u2", Status: models.StatusPending}
	seed(t, orders, named, bare)

	users := &failingSource[models.User]{err: assert.AnError}
	p := NewOrders(orders, users, 40, testEnv())
	require.NoError(t, p.Load(ctx))

	assert.Equal(t, page.Idle, p.State().State)
	require.Len(t, p.Items(), 2)

	row, ok := p.Lookup(named.ID)
	require.True(t, ok)
	assert.Equal(t, "Wendy Walker", row.Customer.Name)
	assert.Equal(t, "555-0101", row.Customer.Phone)

	row, ok = p.Lookup(bare.ID)
	require.True(t, ok)
	assert.Equal(t, UnknownUser, row.Customer.Name)
}

func TestOrdersKeepLastUsersWhenRefreshFails(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	users := store.Open[models.User](b, models.CollUsers, store.NewestFirst)
	orders := store.Open[models.Order](b, models.CollOrders, store.NewestFirst)
	u := &models.User{Name: "Alice Smith", Email: "alice@example.com"}
	seed(t, users, u)
	o := &models.Order{UserID: u.ID, Status: models.StatusPending}
	seed(t, orders, o)

	src := &flakySource[models.User]{Source: users}
	p := NewOrders(orders, src, 40, testEnv())
	require.NoError(t, p.Load(ctx))

	src.err = assert.AnError
	require.NoError(t, p.Load(ctx))

	row, ok := p.Lookup(o.ID)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", row.Customer.Email)
}

type flakySource[T any] struct {
	store.Source[T]
	err error
}

func (f *flakySource[T]) Load(ctx context.Context, where ...store.Where) ([]T, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.Source.Load(ctx, where...)
}

type failingSource[T any] struct {
	err error
}

func (f *failingSource[T]) Load(ctx context.Context, where ...store.Where) ([]T, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []T{}, nil
}
