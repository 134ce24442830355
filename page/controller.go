// Package page drives one list page of the console: a snapshot of a
// collection, the operator's query over it, derived statistics and the
// write operations that resynchronise the snapshot afterwards.
package page

import (
	"context"
	"errors"
	"sync"
	"time"

	"food-delivery-admin/logger"
	"food-delivery-admin/store"
)

type LoadState int

const (
	Idle LoadState = iota
	Loading
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

// Status is the load state of a page. Message is set only when Failed.
type Status struct {
	State   LoadState `json:"-"`
	Label   string    `json:"state"`
	Message string    `json:"message,omitempty"`
}

func newStatus(s LoadState, message string) Status {
	return Status{State: s, Label: s.String(), Message: message}
}

// Mutator is the write side a page needs for update and delete.
type Mutator interface {
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type Creator[T any] interface {
	Create(ctx context.Context, doc *T) error
}

// Form is a validated partial update.
type Form interface {
	Fields() map[string]any
}

// Clocked forms receive the page clock before Fields is called.
type Clocked interface {
	SetClock(at time.Time)
}

type normalizer interface {
	Normalize(loc *time.Location)
}

// Snapshot is a consistent copy of the page for rendering.
type Snapshot[T any] struct {
	Items    []T       `json:"items"`
	Stats    Stats     `json:"stats"`
	Status   Status    `json:"status"`
	Query    Query     `json:"query"`
	LoadedAt time.Time `json:"loadedAt"`
}

type Controller[T any] struct {
	spec  Spec[T]
	src   store.Source[T]
	mut   Mutator
	ins   Creator[T]
	log   logger.ILogger
	clock func() time.Time
	loc   *time.Location

	mu        sync.RWMutex
	items     []T
	view      []T
	query     Query
	stats     Stats
	status    Status
	loadedAt  time.Time
	gen       uint64
	committed uint64
}

type Option[T any] func(*Controller[T])

func WithClock[T any](clock func() time.Time) Option[T] {
	return func(c *Controller[T]) { c.clock = clock }
}

// WithLocation sets the zone timestamps are normalized into.
func WithLocation[T any](loc *time.Location) Option[T] {
	return func(c *Controller[T]) { c.loc = loc }
}

func WithLogger[T any](log logger.ILogger) Option[T] {
	return func(c *Controller[T]) { c.log = log.With(logger.String("page", c.spec.Name)) }
}

// WithCreator enables Create on the page.
func WithCreator[T any](ins Creator[T]) Option[T] {
	return func(c *Controller[T]) { c.ins = ins }
}

// New builds a page over src. A nil mut makes the page read-only; pass
// WithCreator to allow inserts.
func New[T any](spec Spec[T], src store.Source[T], mut Mutator, opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		spec:   spec,
		src:    src,
		mut:    mut,
		log:    logger.Nop(),
		clock:  time.Now,
		loc:    time.Local,
		items:  []T{},
		view:   []T{},
		stats:  NewStats(0),
		status: newStatus(Idle, ""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ForCollection wires every operation to one collection.
func ForCollection[T any](spec Spec[T], coll store.Collection[T], opts ...Option[T]) *Controller[T] {
	return New(spec, coll, coll, append([]Option[T]{WithCreator[T](coll)}, opts...)...)
}

func (c *Controller[T]) Name() string { return c.spec.Name }

// Writable reports which write operations the page offers.
func (c *Controller[T]) Writable() (create, edit bool) {
	return c.ins != nil, c.mut != nil
}

// Now is the page clock.
func (c *Controller[T]) Now() time.Time { return c.clock() }

// Load replaces the snapshot with a fresh read. A failed read keeps the
// previous items. A read that resolves after a newer one has already been
// applied is dropped.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.status = newStatus(Loading, "")
	c.mu.Unlock()

	items, err := c.src.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen < c.committed {
		c.log.Debug("dropping superseded load", logger.Int64("generation", int64(gen)))
		return nil
	}

	if err != nil {
		rerr := &ReadError{Page: c.spec.Name, Err: err}
		if gen == c.gen {
			c.status = newStatus(Failed, rerr.Error())
		}
		c.log.Error("load failed", logger.Error(err))
		return rerr
	}

	if items == nil {
		items = []T{}
	}
	for i := range items {
		if n, ok := any(&items[i]).(normalizer); ok {
			n.Normalize(c.loc)
		}
	}

	at := c.clock()
	c.items = items
	c.committed = gen
	c.loadedAt = at
	c.view = DeriveView(items, c.query, c.spec, at)
	c.stats = c.computeStats(items, at)
	if gen == c.gen {
		c.status = newStatus(Idle, "")
	}
	return nil
}

func (c *Controller[T]) computeStats(items []T, at time.Time) Stats {
	if c.spec.Stats == nil {
		return NewStats(len(items))
	}
	return c.spec.Stats(items, at)
}

// Apply stores q as the page query and returns the new view. The stored
// query is shared by every caller of the controller.
func (c *Controller[T]) Apply(q Query) ([]T, error) {
	if err := c.spec.Check(q); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = q
	c.view = DeriveView(c.items, q, c.spec, c.clock())
	return clone(c.view), nil
}

// Find derives a view for q without touching the stored query.
func (c *Controller[T]) Find(q Query) ([]T, error) {
	if err := c.spec.Check(q); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return DeriveView(c.items, q, c.spec, c.clock()), nil
}

// Lookup returns the snapshot copy of one document.
func (c *Controller[T]) Lookup(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	if c.spec.ID == nil {
		return zero, false
	}
	for _, item := range c.items {
		if c.spec.ID(item) == id {
			return item, true
		}
	}
	return zero, false
}

func (c *Controller[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.items)
}

func (c *Controller[T]) View() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.view)
}

func (c *Controller[T]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (c *Controller[T]) State() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Controller[T]) Query() Query {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot[T]{
		Items:    clone(c.view),
		Stats:    c.stats,
		Status:   c.status,
		Query:    c.query,
		LoadedAt: c.loadedAt,
	}
}

// Draft returns a new document carrying the page defaults.
func (c *Controller[T]) Draft() T {
	if c.spec.Draft == nil {
		var zero T
		return zero
	}
	return c.spec.Draft()
}

// Create validates and inserts draft, then reloads.
func (c *Controller[T]) Create(ctx context.Context, draft *T) error {
	if c.ins == nil {
		return ErrReadOnly
	}
	if err := Validate(draft); err != nil {
		return err
	}
	if err := c.ins.Create(ctx, draft); err != nil {
		return &WriteError{Op: "create", Page: c.spec.Name, Err: err}
	}
	c.resync(ctx)
	return nil
}

// Update validates form, confirms the document still exists, writes the
// form fields and reloads.
func (c *Controller[T]) Update(ctx context.Context, id string, form Form) error {
	if c.mut == nil {
		return ErrReadOnly
	}
	if err := Validate(form); err != nil {
		return err
	}
	if err := c.ensureExists(ctx, "update", id); err != nil {
		return err
	}
	if clocked, ok := form.(Clocked); ok {
		clocked.SetClock(c.clock())
	}
	if err := c.mut.Update(ctx, id, form.Fields()); err != nil {
		return c.writeError("update", id, err)
	}
	c.resync(ctx)
	return nil
}

func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	if c.mut == nil {
		return ErrReadOnly
	}
	if err := c.ensureExists(ctx, "delete", id); err != nil {
		return err
	}
	if err := c.mut.Delete(ctx, id); err != nil {
		return c.writeError("delete", id, err)
	}
	c.resync(ctx)
	return nil
}

// Ensure reports ErrGone when id no longer exists in the collection.
func (c *Controller[T]) Ensure(ctx context.Context, id string) error {
	if c.mut == nil {
		return ErrReadOnly
	}
	return c.ensureExists(ctx, "update", id)
}

func (c *Controller[T]) ensureExists(ctx context.Context, op, id string) error {
	if id == "" {
		return Invalid("missing %s id", c.spec.Name)
	}
	ok, err := c.mut.Exists(ctx, id)
	if err != nil {
		return &WriteError{Op: op, Page: c.spec.Name, Err: err}
	}
	if !ok {
		return goneError(c.spec.Name, id)
	}
	return nil
}

func (c *Controller[T]) writeError(op, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return goneError(c.spec.Name, id)
	}
	return &WriteError{Op: op, Page: c.spec.Name, Err: err}
}

// resync reloads after a successful write. A failed reload is reported
// through Status; the write itself already succeeded.
func (c *Controller[T]) resync(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		c.log.Warning("reload after write failed", logger.Error(err))
	}
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
