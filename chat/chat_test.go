package chat

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-delivery-admin/config"
	"food-delivery-admin/logger"
	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/statemachine"
	"food-delivery-admin/store"
)

var testNow = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctl      *Controller
	statuses *store.Live[models.ChatStatus]
	messages *store.Live[models.ChatMessage]
	orders   store.Collection[models.Order]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := config.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	b := store.Backend{Gorm: db}

	f := &fixture{
		statuses: store.NewLive(store.Open[models.ChatStatus](b, models.CollChatStatus, store.NewestFirst), nil),
		messages: store.NewLive(store.Open[models.ChatMessage](b, models.CollChatMessages, store.ByTimestamp), nil),
		orders:   store.Open[models.Order](b, models.CollOrders, store.NewestFirst),
	}
	f.ctl = NewController(f.statuses, f.messages, f.orders, logger.Nop(),
		WithClock(func() time.Time { return testNow }))
	t.Cleanup(f.ctl.Close)
	return f
}

func (f *fixture) chat(t *testing.T, state models.ChatState, quiet time.Duration) *models.ChatStatus {
	t.Helper()
	s := &models.ChatStatus{OrderID: uuid.NewString(), Status: state}
	if quiet > 0 {
		at := testNow.Add(-quiet)
		s.LastMessageAt = &at
	}
	require.NoError(t, f.statuses.Create(context.Background(), s))
	return s
}

func (f *fixture) messagesOf(t *testing.T, chatID string) []models.ChatMessage {
	t.Helper()
	items, err := f.messages.Load(context.Background(), store.Where{Field: "chat_id", Value: chatID})
	require.NoError(t, err)
	return items
}

func (f *fixture) status(t *testing.T, chatID string) *models.ChatStatus {
	t.Helper()
	s, err := f.statuses.Get(context.Background(), chatID)
	require.NoError(t, err)
	return s
}

func TestIdle(t *testing.T) {
	last := testNow.Add(-5 * time.Minute)
	active := models.ChatStatus{Status: models.ChatActive, LastMessageAt: &last}

	assert.False(t, Idle(active, testNow, DefaultTimeout))
	assert.True(t, Idle(active, testNow.Add(time.Second), DefaultTimeout))
	assert.False(t, Idle(models.ChatStatus{Status: models.ChatActive}, testNow, DefaultTimeout))

	ended := active
	ended.Status = models.ChatEnded
	assert.False(t, Idle(ended, testNow.Add(time.Hour), DefaultTimeout))
}

func TestSweepClosesOnlyIdleChats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	idle := f.chat(t, models.ChatActive, 6*time.Minute)
	recent := f.chat(t, models.ChatActive, 2*time.Minute)
	silent := f.chat(t, models.ChatActive, 0)
	ended := f.chat(t, models.ChatEnded, time.Hour)
	require.NoError(t, f.ctl.Open(ctx))

	closed, err := f.ctl.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	s := f.status(t, idle.ID)
	assert.Equal(t, models.ChatEnded, s.Status)
	assert.Equal(t, models.ClosedTimeout, s.ClosedReason)
	require.NotNil(t, s.EndedAt)
	assert.WithinDuration(t, testNow, *s.EndedAt, time.Second)

	msgs := f.messagesOf(t, idle.ID)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsSystem)
	assert.Equal(t, models.SenderSystem, msgs[0].SenderID)
	assert.Equal(t, "Chat ended automatically due to 5 minutes of inactivity", msgs[0].Text)

	for _, id := range []string{recent.ID, silent.ID} {
		assert.Equal(t, models.ChatActive, f.status(t, id).Status)
		assert.Empty(t, f.messagesOf(t, id))
	}
	assert.Empty(t, f.messagesOf(t, ended.ID))

	// the closed chat is ended in the store
	closed, err = f.ctl.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
	assert.Len(t, f.messagesOf(t, idle.ID), 1)
}

func TestSweepSeesWritesFromOutsideTheConsole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	revived := f.chat(t, models.ChatActive, 10*time.Minute)
	require.NoError(t, f.ctl.Open(ctx))

	// the customer app writes to the collection directly, bypassing Live
	recent := testNow.Add(-time.Second)
	require.NoError(t, f.statuses.Collection.Update(ctx, revived.ID, map[string]any{"last_message_at": recent}))
	quiet := testNow.Add(-time.Hour)
	fresh := &models.ChatStatus{OrderID: uuid.NewString(), Status: models.ChatActive, LastMessageAt: &quiet}
	require.NoError(t, f.statuses.Collection.Create(ctx, fresh))

	closed, err := f.ctl.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	assert.Equal(t, models.ChatActive, f.status(t, revived.ID).Status)
	assert.Empty(t, f.messagesOf(t, revived.ID))
	assert.Equal(t, models.ChatEnded, f.status(t, fresh.ID).Status)
	assert.Len(t, f.ctl.Search(ctx, ""), 2)
}

func TestEndBySystemRequiresIdle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.chat(t, models.ChatActive, time.Minute)

	assert.ErrorIs(t, f.ctl.End(ctx, c.ID, statemachine.ActorSystem), ErrNotIdle)
	assert.Equal(t, models.ChatActive, f.status(t, c.ID).Status)
	assert.Empty(t, f.messagesOf(t, c.ID))
}

func TestEndByOperator(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.chat(t, models.ChatActive, time.Minute)

	require.NoError(t, f.ctl.End(ctx, c.ID, statemachine.ActorOperator))

	s := f.status(t, c.ID)
	assert.Equal(t, models.ChatEnded, s.Status)
	assert.Equal(t, models.ClosedManual, s.ClosedReason)
	msgs := f.messagesOf(t, c.ID)
	require.Len(t, msgs, 1)
	assert.Equal(t, ManualEndText, msgs[0].Text)

	assert.ErrorIs(t, f.ctl.End(ctx, c.ID, statemachine.ActorOperator), statemachine.ErrInvalidTransition)
	assert.ErrorIs(t, f.ctl.End(ctx, "missing", statemachine.ActorOperator), page.ErrGone)
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.chat(t, models.ChatActive, 4*time.Minute)

	msg, err := f.ctl.Send(ctx, c.ID, "Your order is on the way")
	require.NoError(t, err)
	assert.Equal(t, models.SenderAdmin, msg.SenderID)
	assert.False(t, msg.IsCustomer)

	s := f.status(t, c.ID)
	require.NotNil(t, s.LastMessageAt)
	assert.WithinDuration(t, testNow, *s.LastMessageAt, time.Second)
	assert.Equal(t, models.SenderAdmin, s.LastMessageSender)
	assert.Len(t, f.messagesOf(t, c.ID), 1)

	var verr *page.ValidationError
	_, err = f.ctl.Send(ctx, c.ID, "   ")
	assert.ErrorAs(t, err, &verr)

	_, err = f.ctl.Send(ctx, "missing", "hello")
	assert.ErrorIs(t, err, page.ErrGone)

	require.NoError(t, f.ctl.End(ctx, c.ID, statemachine.ActorOperator))
	_, err = f.ctl.Send(ctx, c.ID, "hello?")
	assert.ErrorIs(t, err, ErrEnded)
}

func TestSelectSwitchesSubscription(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.chat(t, models.ChatActive, time.Minute)
	b := f.chat(t, models.ChatActive, time.Minute)
	require.NoError(t, f.messages.Create(ctx, &models.ChatMessage{ChatID: a.ID, Text: "from a", Timestamp: testNow}))
	require.NoError(t, f.messages.Create(ctx, &models.ChatMessage{ChatID: b.ID, Text: "from b", Timestamp: testNow}))

	require.NoError(t, f.ctl.Select(ctx, a.ID))
	assert.Equal(t, 1, f.messages.Subscribers())
	require.Len(t, f.ctl.Messages(), 1)
	assert.Equal(t, "from a", f.ctl.Messages()[0].Text)

	require.NoError(t, f.ctl.Select(ctx, b.ID))
	assert.Equal(t, 1, f.messages.Subscribers())
	assert.Equal(t, b.ID, f.ctl.Selected())
	require.Len(t, f.ctl.Messages(), 1)
	assert.Equal(t, "from b", f.ctl.Messages()[0].Text)

	// writes to the old conversation no longer reach the page
	require.NoError(t, f.messages.Create(ctx, &models.ChatMessage{ChatID: a.ID, Text: "late", Timestamp: testNow}))
	require.Len(t, f.ctl.Messages(), 1)
	assert.Equal(t, "from b", f.ctl.Messages()[0].Text)

	_, err := f.ctl.Send(ctx, b.ID, "reply")
	require.NoError(t, err)
	assert.Len(t, f.ctl.Messages(), 2)

	require.NoError(t, f.ctl.Select(ctx, ""))
	assert.Equal(t, 0, f.messages.Subscribers())
	assert.Empty(t, f.ctl.Messages())
}

func TestOpenAndClose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.chat(t, models.ChatActive, time.Minute)

	require.NoError(t, f.ctl.Open(ctx))
	assert.Equal(t, 1, f.statuses.Subscribers())
	require.NoError(t, f.ctl.Open(ctx))
	assert.Equal(t, 1, f.statuses.Subscribers())

	require.NoError(t, f.ctl.Select(ctx, "anything"))
	f.ctl.Close()
	assert.Equal(t, 0, f.statuses.Subscribers())
	assert.Equal(t, 0, f.messages.Subscribers())
}

func TestSearchByCustomerName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	o := &models.Order{UserName: "Alice Smith"}
	require.NoError(t, f.orders.Create(ctx, o))
	withOrder := &models.ChatStatus{OrderID: o.ID, Status: models.ChatActive}
	require.NoError(t, f.statuses.Create(ctx, withOrder))
	orphan := f.chat(t, models.ChatActive, 0)
	require.NoError(t, f.ctl.Open(ctx))

	got := f.ctl.Search(ctx, "alice")
	require.Len(t, got, 1)
	assert.Equal(t, withOrder.ID, got[0].ID)
	assert.Equal(t, "Alice Smith", got[0].Customer)

	got = f.ctl.Search(ctx, orphan.OrderID[:8])
	require.Len(t, got, 1)
	assert.Equal(t, orphan.ID, got[0].ID)
	assert.Empty(t, got[0].Customer)

	assert.Len(t, f.ctl.Search(ctx, ""), 2)
}
