// Package functions implements the notification functions the console
// calls: a promotional fan-out, a direct message and an admin broadcast.
// Each one resolves its recipients, pushes to them and records the send in
// the notifications history.
package functions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"food-delivery-admin/logger"
	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/store"
)

var ErrNoRecipient = errors.New("no recipient")

// MinSearchLength is the shortest term the recipient search runs for.
const MinSearchLength = 2

type OfferRequest struct {
	Title       string `json:"title" binding:"required"`
	Body        string `json:"body" binding:"required"`
	OfferID     string `json:"offerId"`
	ImageURL    string `json:"imageUrl" binding:"omitempty,url"`
	TargetUsers string `json:"targetUsers" binding:"omitempty,oneof=all clients restaurants"`
}

// TargetRequest addresses exactly one user or restaurant.
type TargetRequest struct {
	UserID       string `json:"userId"`
	RestaurantID string `json:"restaurantId"`
	Title        string `json:"title" binding:"required"`
	Body         string `json:"body" binding:"required"`
}

func (r TargetRequest) target() (string, error) {
	switch {
	case r.UserID != "" && r.RestaurantID != "":
		return "", page.Invalid("choose either a user or a restaurant")
	case r.UserID != "":
		return r.UserID, nil
	case r.RestaurantID != "":
		return r.RestaurantID, nil
	}
	return "", ErrNoRecipient
}

type Result struct {
	NotificationID string `json:"notificationId"`
	SentTo         int    `json:"sentTo"`
}

// Message is the confirmation shown to the operator.
func (r Result) Message() string {
	n := r.SentTo
	if n == 0 {
		n = 1
	}
	return fmt.Sprintf("Notification sent successfully to %d user(s)", n)
}

// Recipient is one row of the recipient search.
type Recipient struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Type  models.UserType `json:"type"`
	Phone string          `json:"phone"`
}

type Service struct {
	users   store.Collection[models.User]
	history store.Collection[models.Notification]
	pusher  Pusher
	log     logger.ILogger
	clock   func() time.Time
}

func NewService(users store.Collection[models.User], history store.Collection[models.Notification], pusher Pusher, log logger.ILogger) *Service {
	return &Service{
		users:   users,
		history: history,
		pusher:  pusher,
		log:     log,
		clock:   time.Now,
	}
}

func (s *Service) SendPromotionalOffer(ctx context.Context, req OfferRequest) (Result, error) {
	if err := page.Validate(&req); err != nil {
		return Result{}, err
	}
	audience := req.TargetUsers
	if audience == "" {
		audience = models.AudienceAll
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return Result{}, &page.ReadError{Page: "recipients", Err: err}
	}

	var ids []string
	for _, u := range users {
		if inAudience(u, audience) {
			ids = append(ids, u.ID)
		}
	}
	if len(ids) == 0 {
		return Result{}, ErrNoRecipient
	}

	return s.dispatch(ctx, models.Notification{
		Title:    req.Title,
		Body:     req.Body,
		Type:     models.NotifyPromotional,
		Audience: audience,
		OfferID:  req.OfferID,
		ImageURL: req.ImageURL,
	}, ids)
}

func inAudience(u models.User, audience string) bool {
	if u.Status == models.UserBlocked {
		return false
	}
	switch audience {
	case models.AudienceClients:
		return u.Type == models.UserClient || u.Type == ""
	case models.AudienceRestaurants:
		return u.Type == models.UserRestaurant
	}
	return true
}

func (s *Service) SendDirectMessage(ctx context.Context, req TargetRequest) (Result, error) {
	return s.sendTargeted(ctx, req, models.NotifyDirect)
}

func (s *Service) SendNotificationFromAdmin(ctx context.Context, req TargetRequest) (Result, error) {
	return s.sendTargeted(ctx, req, models.NotifyBroadcast)
}

func (s *Service) sendTargeted(ctx context.Context, req TargetRequest, kind models.NotificationType) (Result, error) {
	if err := page.Validate(&req); err != nil {
		return Result{}, err
	}
	id, err := req.target()
	if err != nil {
		return Result{}, err
	}

	if _, err := s.users.Get(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, fmt.Errorf("%w: %s", ErrNoRecipient, id)
		}
		return Result{}, &page.ReadError{Page: "recipient", Err: err}
	}

	return s.dispatch(ctx, models.Notification{
		Title:        req.Title,
		Body:         req.Body,
		Type:         kind,
		UserID:       req.UserID,
		RestaurantID: req.RestaurantID,
	}, []string{id})
}

// dispatch pushes to every recipient and records the notification. Failed
// pushes are logged and left out of SentTo; the send fails only when none
// went through.
func (s *Service) dispatch(ctx context.Context, n models.Notification, ids []string) (Result, error) {
	var (
		sent    []string
		lastErr error
	)
	for _, id := range ids {
		err := s.pusher.Push(ctx, Message{
			RecipientID: id,
			Type:        n.Type,
			Title:       n.Title,
			Body:        n.Body,
			OfferID:     n.OfferID,
			ImageURL:    n.ImageURL,
		})
		if err != nil {
			lastErr = err
			s.log.Warning("push failed", logger.String("recipient", id), logger.Error(err))
			continue
		}
		sent = append(sent, id)
	}
	if len(sent) == 0 {
		return Result{}, &page.WriteError{Op: "send", Page: "notification", Err: lastErr}
	}

	n.Recipients = datatypes.JSONSlice[string](sent)
	n.SentTo = len(sent)
	n.CreatedAt = s.clock()
	if err := s.history.Create(ctx, &n); err != nil {
		// the pushes are already out; report the count anyway
		s.log.Error("failed to record notification", logger.Error(err))
	}

	s.log.Info("notification sent",
		logger.String("type", string(n.Type)),
		logger.Int("sentTo", n.SentTo))
	return Result{NotificationID: n.ID, SentTo: n.SentTo}, nil
}

// SearchRecipients finds users whose email, then name, starts with term.
// Terms shorter than MinSearchLength return nothing.
func (s *Service) SearchRecipients(ctx context.Context, term string) ([]Recipient, error) {
	if len(strings.TrimSpace(term)) < MinSearchLength {
		return []Recipient{}, nil
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, &page.ReadError{Page: "users", Err: err}
	}

	out := []Recipient{}
	seen := map[string]bool{}
	add := func(match func(models.User) bool) {
		for _, u := range users {
			if seen[u.ID] || !match(u) {
				continue
			}
			seen[u.ID] = true
			out = append(out, recipientOf(u))
		}
	}
	add(func(u models.User) bool { return strings.HasPrefix(u.Email, term) })
	add(func(u models.User) bool { return strings.HasPrefix(u.Name, term) })
	return out, nil
}

func recipientOf(u models.User) Recipient {
	name := u.Name
	if name == "" {
		name = u.DisplayName
	}
	if name == "" {
		name = u.Email
	}
	if name == "" {
		name = "Unknown"
	}
	userType := u.Type
	if userType == "" {
		userType = models.UserClient
	}
	return Recipient{ID: u.ID, Name: name, Email: u.Email, Type: userType, Phone: u.ContactPhone()}
}
