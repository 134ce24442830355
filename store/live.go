package store

import (
	"context"
	"sync"

	"food-delivery-admin/logger"
)

// Unsubscribe stops a push subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// Subscriber is the push side of a collection.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context, onChange func([]T), where ...Where) (Unsubscribe, error)
}

// Live wraps a Collection with push subscriptions. Every subscriber gets the
// current result set on subscribe and a fresh one after each write made
// through the Live value.
type Live[T any] struct {
	Collection[T]

	log  logger.ILogger
	mu   sync.Mutex
	next uint64
	subs map[uint64]*subscription[T]
}

type subscription[T any] struct {
	mu    sync.Mutex // serializes deliveries
	where []Where
	fn    func([]T)
}

func NewLive[T any](c Collection[T], log logger.ILogger) *Live[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &Live[T]{
		Collection: c,
		log:        log,
		subs:       make(map[uint64]*subscription[T]),
	}
}

func (l *Live[T]) Subscribe(ctx context.Context, onChange func([]T), where ...Where) (Unsubscribe, error) {
	s := &subscription[T]{where: where, fn: onChange}

	l.mu.Lock()
	id := l.next
	l.next++
	l.subs[id] = s
	l.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
		})
	}

	if err := l.deliver(ctx, s); err != nil {
		unsubscribe()
		return nil, err
	}
	return unsubscribe, nil
}

// Subscribers reports how many subscriptions are open.
func (l *Live[T]) Subscribers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

func (l *Live[T]) Create(ctx context.Context, doc *T) error {
	if err := l.Collection.Create(ctx, doc); err != nil {
		return err
	}
	l.Notify(ctx)
	return nil
}

func (l *Live[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := l.Collection.Update(ctx, id, fields); err != nil {
		return err
	}
	l.Notify(ctx)
	return nil
}

func (l *Live[T]) Delete(ctx context.Context, id string) error {
	if err := l.Collection.Delete(ctx, id); err != nil {
		return err
	}
	l.Notify(ctx)
	return nil
}

// Notify pushes a fresh snapshot to every open subscription.
func (l *Live[T]) Notify(ctx context.Context) {
	l.mu.Lock()
	subs := make([]*subscription[T], 0, len(l.subs))
	for _, s := range l.subs {
		subs = append(subs, s)
	}
	l.mu.Unlock()

	for _, s := range subs {
		if err := l.deliver(ctx, s); err != nil {
			l.log.Warning("failed to refresh subscription",
				logger.String("collection", l.Name()), logger.Error(err))
		}
	}
}

func (l *Live[T]) deliver(ctx context.Context, s *subscription[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := l.Collection.Load(ctx, s.where...)
	if err != nil {
		return err
	}
	s.fn(items)
	return nil
}
