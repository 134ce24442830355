// Package session signs operators in and out of the console.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"food-delivery-admin/logger"
	"food-delivery-admin/models"
	"food-delivery-admin/store"
)

const TokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("email already registered")
)

type Claims struct {
	OperatorID string `json:"operator_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

type EventKind string

const (
	SignedIn  EventKind = "signed_in"
	SignedOut EventKind = "signed_out"
)

// Event is delivered to OnChange listeners on every sign-in and sign-out.
type Event struct {
	Kind       EventKind
	OperatorID string
	Email      string
	At         time.Time
}

type Manager struct {
	operators store.Collection[models.Operator]
	secret    []byte
	clock     func() time.Time
	log       logger.ILogger

	mu        sync.Mutex
	revoked   map[string]time.Time
	listeners map[uint64]func(Event)
	next      uint64
}

func NewManager(operators store.Collection[models.Operator], secret []byte, log logger.ILogger) *Manager {
	return &Manager{
		operators: operators,
		secret:    secret,
		clock:     time.Now,
		log:       log,
		revoked:   map[string]time.Time{},
		listeners: map[uint64]func(Event){},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *Manager) findByEmail(ctx context.Context, email string) (*models.Operator, error) {
	ops, err := m.operators.Load(ctx, store.Where{Field: "email", Value: normalizeEmail(email)})
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, store.ErrNotFound
	}
	return &ops[0], nil
}

// Register creates an operator account.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*models.Operator, error) {
	if _, err := m.findByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	op := &models.Operator{
		Name:         name,
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
	}
	if err := m.operators.Create(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}
	return op, nil
}

// EnsureOperator seeds the first console account. An empty password skips
// seeding.
func (m *Manager) EnsureOperator(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		m.log.Warning("no admin credentials configured, skipping operator seed")
		return nil
	}
	_, err := m.Register(ctx, "Administrator", email, password)
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	if err == nil {
		m.log.Info("seeded operator account", logger.String("email", email))
	}
	return err
}

// SignIn checks the password and issues a signed session token.
func (m *Manager) SignIn(ctx context.Context, email, password string) (string, *models.Operator, error) {
	op, err := m.findByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := m.clock()
	claims := Claims{
		OperatorID: op.ID,
		Email:      op.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   op.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	m.log.Info("operator signed in", logger.String("email", op.Email))
	m.emit(Event{Kind: SignedIn, OperatorID: op.ID, Email: op.Email, At: now})
	return token, op, nil
}

// Verify parses a token and rejects revoked ones.
func (m *Manager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.clock))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	m.mu.Lock()
	_, revoked := m.revoked[claims.ID]
	m.mu.Unlock()
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SignOut revokes the token until it would have expired anyway.
func (m *Manager) SignOut(token string) error {
	claims, err := m.Verify(token)
	if err != nil {
		return err
	}

	now := m.clock()
	m.mu.Lock()
	for id, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, id)
		}
	}
	m.revoked[claims.ID] = claims.ExpiresAt.Time
	m.mu.Unlock()

	m.log.Info("operator signed out", logger.String("email", claims.Email))
	m.emit(Event{Kind: SignedOut, OperatorID: claims.OperatorID, Email: claims.Email, At: now})
	return nil
}

// OnChange registers fn for every session change. The returned function
// removes it.
func (m *Manager) OnChange(fn func(Event)) func() {
	m.mu.Lock()
	id := m.next
	m.next++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) emit(e Event) {
	m.mu.Lock()
	fns := make([]func(Event), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
