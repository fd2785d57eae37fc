// Package controller reconciles asynchronous repository loading with the
// synchronous view criteria and exposes the result as immutable snapshots.
package controller

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/johnsaigle/repo-showcase/pkg/types"
	"github.com/johnsaigle/repo-showcase/pkg/view"
)

// Status is the loading state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// Fetcher produces the canonical dataset for an account.
type Fetcher interface {
	Fetch(ctx context.Context, account string) ([]types.Repository, error)
}

// State is a snapshot handed to renderers. Records holds the derived list and
// is only populated when Loaded.
type State struct {
	Status   Status
	Account  string
	Criteria view.Criteria
	Records  []types.Repository
	Total    int
	Err      error
	Message  string
}

// Controller owns the canonical dataset and the view criteria.
type Controller struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu          sync.Mutex
	status      Status
	account     string
	criteria    view.Criteria
	dataset     []types.Repository
	err         error
	closed      bool
	subscribers map[int]func(State)
	nextID      int

	// pending holds snapshots not yet delivered, oldest first. Only the
	// goroutine that set delivering drains it.
	pending    []State
	delivering bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithCriteria sets the initial criteria.
func WithCriteria(criteria view.Criteria) Option {
	return func(c *Controller) {
		c.criteria = criteria
	}
}

// New returns an Idle controller for account.
func New(fetcher Fetcher, account string, opts ...Option) *Controller {
	c := &Controller{
		fetcher:     fetcher,
		logger:      slog.Default(),
		status:      StatusIdle,
		account:     account,
		criteria:    view.DefaultCriteria(),
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "controller")
	return c
}

// Mount starts the initial load. The returned channel is closed once that
// load has been applied or dropped.
func (c *Controller) Mount(ctx context.Context) <-chan struct{} {
	return c.load(ctx)
}

// SetAccount switches the account and loads it.
func (c *Controller) SetAccount(ctx context.Context, account string) <-chan struct{} {
	c.mu.Lock()
	c.account = account
	c.mu.Unlock()
	return c.load(ctx)
}

// Refetch loads the current account again. Overlapping loads are not
// sequenced: whichever resolves last is what the controller keeps.
func (c *Controller) Refetch(ctx context.Context) <-chan struct{} {
	return c.load(ctx)
}

// SetLanguage changes the language filter. It never changes Status.
func (c *Controller) SetLanguage(language string) {
	c.updateCriteria(func(cr *view.Criteria) { cr.Language = language })
}

// SetQuery changes the search query. It never changes Status.
func (c *Controller) SetQuery(query string) {
	c.updateCriteria(func(cr *view.Criteria) { cr.Query = query })
}

// SetSort changes the sort key. It never changes Status.
func (c *Controller) SetSort(key view.SortKey) {
	c.updateCriteria(func(cr *view.Criteria) { cr.Sort = key })
}

// State derives a snapshot with the current criteria.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn for every state or criteria change. Deliveries are
// never concurrent and arrive in the order the changes happened, so the last
// state a subscriber receives is the controller's current one. Callbacks run
// outside the controller lock and may call back into it; changes they cause
// are delivered after they return. A change made while another goroutine is
// delivering is handed to that goroutine instead of blocking the caller.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return func() {}
	}

	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Close drops interest in outstanding loads and removes all subscribers.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	clear(c.subscribers)
	c.pending = nil
}

func (c *Controller) load(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(done)
		return done
	}
	c.status = StatusLoading
	c.err = nil
	account := c.account
	c.mu.Unlock()

	c.logger.Debug("loading repositories", "account", account)
	c.notify()

	go func() {
		defer close(done)
		records, err := c.fetcher.Fetch(ctx, account)
		c.resolve(account, records, err)
	}()

	return done
}

func (c *Controller) resolve(account string, records []types.Repository, err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Debug("dropping load after close", "account", account)
		return
	}

	if err != nil {
		c.status = StatusFailed
		c.err = err
		c.dataset = nil
	} else {
		c.status = StatusLoaded
		c.err = nil
		c.dataset = slices.Clone(records)
	}
	status := c.status
	c.mu.Unlock()

	c.logger.Debug("load resolved", "account", account, "status", status, "count", len(records))
	c.notify()
}

func (c *Controller) updateCriteria(mutate func(*view.Criteria)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	before := c.criteria
	mutate(&c.criteria)
	changed := before != c.criteria
	c.mu.Unlock()

	if changed {
		c.notify()
	}
}

// notify queues the current snapshot and, unless another goroutine is
// already delivering, drains the queue in order.
func (c *Controller) notify() {
	c.mu.Lock()
	if len(c.subscribers) == 0 {
		c.mu.Unlock()
		return
	}
	c.pending = append(c.pending, c.snapshotLocked())
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true

	for len(c.pending) > 0 {
		state := c.pending[0]
		c.pending = c.pending[1:]
		subs := c.subscribersLocked()
		c.mu.Unlock()

		for _, fn := range subs {
			fn(state)
		}

		c.mu.Lock()
	}

	c.delivering = false
	c.mu.Unlock()
}

// subscribersLocked returns the callbacks in registration order.
func (c *Controller) subscribersLocked() []func(State) {
	ids := slices.Sorted(maps.Keys(c.subscribers))
	subs := make([]func(State), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, c.subscribers[id])
	}
	return subs
}

func (c *Controller) snapshotLocked() State {
	state := State{
		Status:   c.status,
		Account:  c.account,
		Criteria: c.criteria,
		Total:    len(c.dataset),
		Err:      c.err,
	}
	switch c.status {
	case StatusLoaded:
		state.Records = view.Derive(c.dataset, c.criteria)
	case StatusFailed:
		state.Message = types.UserMessage(c.err)
	}
	return state
}
