package formatter

import (
	"encoding/json"
	"io"
	"time"

	"github.com/johnsaigle/repo-showcase/pkg/types"
	"github.com/johnsaigle/repo-showcase/pkg/view"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	opts Options
}

// JSONOutput represents the JSON output structure
type JSONOutput struct {
	Timestamp    time.Time        `json:"timestamp"`
	Account      string           `json:"account"`
	Criteria     view.Criteria    `json:"criteria"`
	Repositories []JSONRepository `json:"repositories"`
	Total        int              `json:"total"`
	Count        int              `json:"count"`
}

// JSONRepository is a record plus its derived links
type JSONRepository struct {
	types.Repository
	SourceURL     string `json:"source_url"`
	DemoURL       string `json:"demo_url,omitempty"`
	LanguageColor string `json:"language_color"`
}

// Format writes the listing in JSON format
func (f *JSONFormatter) Format(w io.Writer, listing Listing) error {
	repos := make([]JSONRepository, len(listing.Records))
	for i, repo := range listing.Records {
		demo, _ := view.DemoURL(listing.Account, repo)
		repos[i] = JSONRepository{
			Repository:    repo,
			SourceURL:     view.SourceURL(listing.Account, repo),
			DemoURL:       demo,
			LanguageColor: view.LanguageColor(repo.Language),
		}
	}

	output := JSONOutput{
		Timestamp:    time.Now(),
		Account:      listing.Account,
		Criteria:     listing.Criteria,
		Repositories: repos,
		Total:        listing.Total,
		Count:        len(repos),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// ShouldExit returns the exit code for the listing
func (f *JSONFormatter) ShouldExit(listing Listing) int {
	return exitCode(f.opts, listing)
}
