// Package fetcher produces the canonical repository dataset for an account,
// preferring the cached snapshot over the remote listing.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/johnsaigle/repo-showcase/pkg/types"
)

type Fetcher struct {
	lister Lister
	cache  Cache
	logger *slog.Logger
}

func New(lister Lister, cache Cache, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		lister: lister,
		cache:  cache,
		logger: logger.With("component", "fetcher"),
	}
}

// Fetch returns the cached dataset when a fresh snapshot exists. Otherwise it
// lists the account once, keeps the eligible records and caches them. Errors
// are returned unretried.
func (f *Fetcher) Fetch(ctx context.Context, account string) ([]types.Repository, error) {
	if records, ok := f.cache.Load(ctx); ok {
		f.logger.Debug("serving repositories from cache", "account", account, "count", len(records))
		return records, nil
	}

	start := time.Now()
	raw, err := f.lister.ListRepositories(ctx, account)
	if err != nil {
		f.logger.Error("failed to fetch repositories",
			"account", account,
			"error", err,
			"duration", time.Since(start),
		)
		return nil, fmt.Errorf("list repositories for %s: %w", account, err)
	}

	records := Eligible(raw)
	f.logger.Info("fetched repositories",
		"account", account,
		"listed", len(raw),
		"eligible", len(records),
		"duration", time.Since(start),
	)

	f.cache.Save(ctx, records)

	return records, nil
}

// Eligible drops forks, archived repositories and repeated IDs, keeping the
// first occurrence. It never returns nil and is idempotent.
func Eligible(records []types.Repository) []types.Repository {
	result := make([]types.Repository, 0, len(records))
	seen := make(map[int64]struct{}, len(records))

	for _, r := range records {
		if r.IsFork || r.IsArchived {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		result = append(result, r)
	}

	return result
}
