package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/johnsaigle/repo-showcase/pkg/session"
	"github.com/johnsaigle/repo-showcase/pkg/types"
)

const (
	// DefaultDuration is how long a snapshot stays valid.
	DefaultDuration = time.Hour
	// Key is the fixed session key holding the snapshot.
	Key = "github_repos_cache"
)

// Entry is the serialized snapshot. Timestamp is in epoch milliseconds.
type Entry struct {
	Timestamp int64              `json:"timestamp"`
	Data      []types.Repository `json:"data"`
}

// Status describes the current snapshot for diagnostics.
type Status struct {
	FetchedAt time.Time
	ExpiresAt time.Time
	Age       time.Duration
	Records   int
	Present   bool
	Expired   bool
}

// Cache stores exactly one repository snapshot in a session store.
type Cache struct {
	store    session.Store
	logger   *slog.Logger
	clock    func() time.Time
	duration time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

// WithDuration overrides the expiry. Zero keeps DefaultDuration.
func WithDuration(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.duration = d
		}
	}
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a cache over store.
func New(store session.Store, opts ...Option) *Cache {
	c := &Cache{
		store:    store,
		logger:   slog.Default(),
		clock:    time.Now,
		duration: DefaultDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "cache")
	return c
}

// Duration returns the configured expiry.
func (c *Cache) Duration() time.Duration {
	return c.duration
}

// Save replaces the snapshot. Failures are logged and swallowed: caching is
// best-effort and never blocks the data path.
func (c *Cache) Save(ctx context.Context, records []types.Repository) {
	entry := Entry{
		Timestamp: c.clock().UnixMilli(),
		Data:      records,
	}
	if entry.Data == nil {
		entry.Data = []types.Repository{}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("failed to cache repositories", "error", fmt.Errorf("marshal cache entry: %w", err))
		return
	}

	if err := c.store.Set(ctx, Key, data); err != nil {
		c.logger.Warn("failed to cache repositories", "error", fmt.Errorf("write cache entry: %w", err))
		return
	}

	c.logger.Debug("cached repositories", "count", len(records))
}

// Load returns the stored records if a fresh snapshot exists. Expired and
// undecodable snapshots are removed and reported as absent.
func (c *Cache) Load(ctx context.Context) ([]types.Repository, bool) {
	entry, err := c.read(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			c.logger.Debug("failed to retrieve cached repositories", "error", err)
		}
		return nil, false
	}

	if c.age(entry) >= c.duration {
		c.remove(ctx)
		return nil, false
	}

	return entry.Data, true
}

// Clear removes the snapshot.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, Key); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// Status reports on the snapshot without modifying it.
func (c *Cache) Status(ctx context.Context) (Status, error) {
	raw, err := c.store.Get(ctx, Key)
	if errors.Is(err, session.ErrNotFound) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("read cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Status{}, fmt.Errorf("decode cache entry: %w", err)
	}

	fetchedAt := time.UnixMilli(entry.Timestamp)
	age := c.age(&entry)
	return Status{
		Present:   true,
		FetchedAt: fetchedAt,
		ExpiresAt: fetchedAt.Add(c.duration),
		Age:       age,
		Records:   len(entry.Data),
		Expired:   age >= c.duration,
	}, nil
}

// read fetches and decodes the entry. A corrupt entry is deleted before the
// decode error is returned.
func (c *Cache) read(ctx context.Context) (*Entry, error) {
	raw, err := c.store.Get(ctx, Key)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.remove(ctx)
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	if entry.Timestamp <= 0 || entry.Data == nil {
		c.remove(ctx)
		return nil, errors.New("decode cache entry: missing timestamp or data")
	}

	return &entry, nil
}

func (c *Cache) age(entry *Entry) time.Duration {
	return c.clock().Sub(time.UnixMilli(entry.Timestamp))
}

func (c *Cache) remove(ctx context.Context) {
	if err := c.store.Delete(ctx, Key); err != nil {
		c.logger.Debug("failed to remove cache entry", "error", err)
	}
}
