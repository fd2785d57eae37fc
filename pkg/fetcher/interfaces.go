package fetcher

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/johnsaigle/repo-showcase/pkg/types"
)

// Lister retrieves the raw listing for an account from the remote source.
type Lister interface {
	ListRepositories(ctx context.Context, account string) ([]types.Repository, error)
}

// Cache holds the single canonical dataset snapshot.
type Cache interface {
	Load(ctx context.Context) ([]types.Repository, bool)
	Save(ctx context.Context, records []types.Repository)
}
