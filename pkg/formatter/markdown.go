package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/johnsaigle/repo-showcase/pkg/types"
	"github.com/johnsaigle/repo-showcase/pkg/view"
)

// MarkdownFormatter renders a table suitable for a README or portfolio page
type MarkdownFormatter struct {
	opts Options
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

// Format writes the listing as a Markdown table
func (f *MarkdownFormatter) Format(w io.Writer, listing Listing) error {
	fmt.Fprintf(w, "## Repositories\n\n")

	if len(listing.Records) == 0 {
		fmt.Fprintf(w, "_%s_\n", EmptyMessage)
		return nil
	}

	fmt.Fprintln(w, "| Repository | Language | Stars | Description |")
	fmt.Fprintln(w, "|---|---|---:|---|")
	for _, repo := range listing.Records {
		fmt.Fprintf(w, "| %s | %s | %d | %s |\n",
			markdownLinks(listing.Account, repo),
			cellEscaper.Replace(repo.GetLanguage()),
			repo.StarCount,
			cellEscaper.Replace(repo.GetDescription()),
		)
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "\n_Showing %d of %d repositories._\n", len(listing.Records), listing.Total)
	}

	return nil
}

func markdownLinks(account string, repo types.Repository) string {
	link := fmt.Sprintf("[%s](%s)", cellEscaper.Replace(repo.Name), view.SourceURL(account, repo))
	if demo, ok := view.DemoURL(account, repo); ok {
		link += fmt.Sprintf(" ([demo](%s))", demo)
	}
	return link
}

// ShouldExit returns the exit code for the listing
func (f *MarkdownFormatter) ShouldExit(listing Listing) int {
	return exitCode(f.opts, listing)
}
