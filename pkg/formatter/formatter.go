package formatter

import (
	"fmt"
	"io"

	"github.com/johnsaigle/repo-showcase/pkg/types"
	"github.com/johnsaigle/repo-showcase/pkg/view"
)

// EmptyMessage is shown when no record survives the criteria.
const EmptyMessage = "No repositories match your criteria."

// Listing is one rendered view of the canonical dataset.
type Listing struct {
	Account  string
	Criteria view.Criteria
	// Records is the derived, ordered list.
	Records []types.Repository
	// Total is the size of the canonical dataset before filtering.
	Total int
}

// Formatter defines the interface for output formatters
type Formatter interface {
	// Format writes the listing to output in the specific format
	Format(w io.Writer, listing Listing) error

	// ShouldExit returns the exit code for the listing
	// 0 = success, 1 = nothing matched and FailOnEmpty is set
	ShouldExit(listing Listing) int
}

// Options holds configuration options for formatters
type Options struct {
	Verbose     bool
	FailOnEmpty bool
}

// New creates a formatter based on the format string
func New(format string, opts Options) (Formatter, error) {
	switch format {
	case "console", "":
		return &ConsoleFormatter{opts: opts}, nil
	case "json":
		return &JSONFormatter{opts: opts}, nil
	case "markdown", "md":
		return &MarkdownFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func exitCode(opts Options, listing Listing) int {
	if opts.FailOnEmpty && len(listing.Records) == 0 {
		return 1
	}
	return 0
}
