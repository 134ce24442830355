// Package chat runs the support conversations page. It is the only page fed
// by push subscriptions: the conversation list and the selected
// conversation's messages are kept current by the store, and a sweeper
// closes conversations that went quiet.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"food-delivery-admin/logger"
	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/statemachine"
	"food-delivery-admin/store"
)

const (
	DefaultTimeout  = 5 * time.Minute
	DefaultInterval = 30 * time.Second

	ManualEndText = "Chat ended by admin"
)

var (
	ErrEnded   = errors.New("chat has ended")
	ErrNotIdle = errors.New("chat is not idle")
)

// TimeoutText is the system message left by the inactivity sweep.
func TimeoutText(timeout time.Duration) string {
	return fmt.Sprintf("Chat ended automatically due to %d minutes of inactivity", int(timeout.Minutes()))
}

// Conversation is a chat status joined with the customer of its order.
type Conversation struct {
	models.ChatStatus
	Customer string `json:"customer,omitempty"`
}

type Controller struct {
	statuses *store.Live[models.ChatStatus]
	messages *store.Live[models.ChatMessage]
	orders   store.Collection[models.Order]
	timeout  time.Duration
	clock    func() time.Time
	log      logger.ILogger

	mu         sync.RWMutex
	chats      []models.ChatStatus
	names      map[string]string
	selected   string
	msgs       []models.ChatMessage
	unsubChats store.Unsubscribe
	unsubMsgs  store.Unsubscribe
}

type Option func(*Controller)

func WithClock(clock func() time.Time) Option {
	return func(c *Controller) { c.clock = clock }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

func NewController(statuses *store.Live[models.ChatStatus], messages *store.Live[models.ChatMessage],
	orders store.Collection[models.Order], log logger.ILogger, opts ...Option) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	c := &Controller{
		statuses: statuses,
		messages: messages,
		orders:   orders,
		timeout:  DefaultTimeout,
		clock:    time.Now,
		log:      log,
		chats:    []models.ChatStatus{},
		names:    map[string]string{},
		msgs:     []models.ChatMessage{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open subscribes to the conversation list.
func (c *Controller) Open(ctx context.Context) error {
	unsub, err := c.statuses.Subscribe(ctx, c.onChats)
	if err != nil {
		return fmt.Errorf("failed to subscribe to chats: %w", err)
	}

	c.mu.Lock()
	prev := c.unsubChats
	c.unsubChats = unsub
	c.mu.Unlock()

	if prev != nil {
		prev()
	}
	return nil
}

func (c *Controller) onChats(items []models.ChatStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chats = items
}

// Select switches the open conversation. The previous message subscription
// is torn down before the new one starts.
func (c *Controller) Select(ctx context.Context, chatID string) error {
	c.mu.Lock()
	if c.selected == chatID && c.unsubMsgs != nil {
		c.mu.Unlock()
		return nil
	}
	prev := c.unsubMsgs
	c.unsubMsgs = nil
	c.selected = chatID
	c.msgs = []models.ChatMessage{}
	c.mu.Unlock()

	if prev != nil {
		prev()
	}
	if chatID == "" {
		return nil
	}

	unsub, err := c.messages.Subscribe(ctx, func(items []models.ChatMessage) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.selected == chatID {
			c.msgs = items
		}
	}, store.Where{Field: "chat_id", Value: chatID})
	if err != nil {
		return fmt.Errorf("failed to subscribe to messages: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected != chatID {
		unsub()
		return nil
	}
	c.unsubMsgs = unsub
	return nil
}

func (c *Controller) Selected() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Messages of the selected conversation, oldest first.
func (c *Controller) Messages() []models.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.ChatMessage, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func (c *Controller) chatsSnapshot() []models.ChatStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.ChatStatus, len(c.chats))
	copy(out, c.chats)
	return out
}

// Send appends an operator message, then moves the conversation's
// lastMessageAt. The two writes are not atomic.
func (c *Controller) Send(ctx context.Context, chatID, text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, page.Invalid("message text is required")
	}

	status, err := c.statuses.Get(ctx, chatID)
	if err != nil {
		return nil, c.lookupError(chatID, err)
	}
	if status.Status == models.ChatEnded {
		return nil, ErrEnded
	}

	now := c.clock()
	msg := &models.ChatMessage{
		ChatID:     chatID,
		Text:       text,
		SenderID:   models.SenderAdmin,
		Timestamp:  now,
		IsCustomer: false,
	}
	if err := c.messages.Create(ctx, msg); err != nil {
		return nil, &page.WriteError{Op: "send", Page: "message", Err: err}
	}

	err = c.statuses.Update(ctx, chatID, map[string]any{
		"last_message_at":     now,
		"last_message_sender": models.SenderAdmin,
	})
	if err != nil {
		return msg, &page.WriteError{Op: "update", Page: "chat", Err: err}
	}
	return msg, nil
}

// End closes a conversation on behalf of actor and leaves a system message.
// The system actor only closes a conversation that is still idle in the
// stored status; otherwise End returns ErrNotIdle.
func (c *Controller) End(ctx context.Context, chatID, actor string) error {
	status, err := c.statuses.Get(ctx, chatID)
	if err != nil {
		return c.lookupError(chatID, err)
	}
	if actor == statemachine.ActorSystem && !Idle(*status, c.clock(), c.timeout) {
		return ErrNotIdle
	}

	t, err := statemachine.CanTransition(status.Status, models.ChatEnded, actor)
	if err != nil {
		return err
	}

	now := c.clock()
	err = c.statuses.Update(ctx, chatID, map[string]any{
		"status":        t.To,
		"ended_at":      now,
		"closed_reason": t.Reason,
	})
	if err != nil {
		return &page.WriteError{Op: "end", Page: "chat", Err: err}
	}

	text := ManualEndText
	if t.Reason == models.ClosedTimeout {
		text = TimeoutText(c.timeout)
	}
	err = c.messages.Create(ctx, &models.ChatMessage{
		ChatID:    chatID,
		Text:      text,
		SenderID:  models.SenderSystem,
		Timestamp: now,
		IsSystem:  true,
	})
	if err != nil {
		return &page.WriteError{Op: "record end of", Page: "chat", Err: err}
	}

	c.log.Info("chat ended",
		logger.String("chat", chatID),
		logger.String("reason", t.Reason))
	return nil
}

func (c *Controller) lookupError(chatID string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("chat %q %w", chatID, page.ErrGone)
	}
	return &page.ReadError{Page: "chat", Err: err}
}

// Idle reports whether an active conversation has been quiet for longer
// than timeout at now. Conversations without a last message never idle out.
func Idle(s models.ChatStatus, now time.Time, timeout time.Duration) bool {
	if s.Status != models.ChatActive || s.LastMessageAt == nil {
		return false
	}
	return now.Sub(*s.LastMessageAt) > timeout
}

// Sweep is one tick of the inactivity check. It rereads the conversation
// list first, since customers write to it from outside the console, and
// returns how many conversations were closed.
func (c *Controller) Sweep(ctx context.Context) (int, error) {
	chats, err := c.statuses.Load(ctx)
	if err != nil {
		return 0, &page.ReadError{Page: "chat", Err: err}
	}
	c.onChats(chats)

	now := c.clock()

	var (
		closed int
		errs   []error
	)
	for _, s := range chats {
		if !Idle(s, now, c.timeout) {
			continue
		}
		c.log.Info("auto-closing chat due to inactivity", logger.String("chat", s.ID))
		err := c.End(ctx, s.ID, statemachine.ActorSystem)
		if errors.Is(err, ErrNotIdle) {
			c.log.Debug("chat became active before close", logger.String("chat", s.ID))
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("chat %s: %w", s.ID, err))
			continue
		}
		closed++
	}
	return closed, errors.Join(errs...)
}

// Search filters the loaded conversations by order id or customer name.
func (c *Controller) Search(ctx context.Context, term string) []Conversation {
	chats := c.chatsSnapshot()
	c.resolveNames(ctx, chats)

	term = strings.ToLower(strings.TrimSpace(term))

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []Conversation{}
	for _, s := range chats {
		conv := Conversation{ChatStatus: s, Customer: c.names[s.OrderID]}
		if term != "" &&
			!strings.Contains(strings.ToLower(s.OrderID), term) &&
			!strings.Contains(strings.ToLower(conv.Customer), term) {
			continue
		}
		out = append(out, conv)
	}
	return out
}

// resolveNames looks up the orders of conversations not seen before.
// Missing orders are remembered with an empty name.
func (c *Controller) resolveNames(ctx context.Context, chats []models.ChatStatus) {
	var missing []string
	c.mu.RLock()
	for _, s := range chats {
		if _, ok := c.names[s.OrderID]; !ok && s.OrderID != "" {
			missing = append(missing, s.OrderID)
		}
	}
	c.mu.RUnlock()

	found := map[string]string{}
	for _, id := range missing {
		if _, dup := found[id]; dup {
			continue
		}
		o, err := c.orders.Get(ctx, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			found[id] = ""
		case err != nil:
			c.log.Warning("failed to load chat order", logger.String("order", id), logger.Error(err))
		default:
			found[id] = customerName(*o)
		}
	}

	c.mu.Lock()
	for id, name := range found {
		c.names[id] = name
	}
	c.mu.Unlock()
}

func customerName(o models.Order) string {
	if o.UserName != "" {
		return o.UserName
	}
	return o.Name
}

// WatchConversations streams every change of the conversation list to fn.
func (c *Controller) WatchConversations(ctx context.Context, fn func([]models.ChatStatus)) (store.Unsubscribe, error) {
	return c.statuses.Subscribe(ctx, fn)
}

// WatchMessages streams every change of one conversation's messages to fn.
func (c *Controller) WatchMessages(ctx context.Context, chatID string, fn func([]models.ChatMessage)) (store.Unsubscribe, error) {
	return c.messages.Subscribe(ctx, fn, store.Where{Field: "chat_id", Value: chatID})
}

// Close tears down every subscription the controller holds.
func (c *Controller) Close() {
	c.mu.Lock()
	unsubs := []store.Unsubscribe{c.unsubChats, c.unsubMsgs}
	c.unsubChats, c.unsubMsgs = nil, nil
	c.selected = ""
	c.mu.Unlock()

	for _, unsub := range unsubs {
		if unsub != nil {
			unsub()
		}
	}
}
