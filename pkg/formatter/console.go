package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/johnsaigle/repo-showcase/pkg/types"
	"github.com/johnsaigle/repo-showcase/pkg/view"
)

var (
	nameStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ConsoleFormatter formats output for human-readable console display
type ConsoleFormatter struct {
	opts Options
}

// Format writes one card per repository followed by a summary line
func (f *ConsoleFormatter) Format(w io.Writer, listing Listing) error {
	fmt.Fprintf(w, "Repositories for %s\n", listing.Account)
	fmt.Fprintln(w, strings.Repeat("═", 50))
	fmt.Fprintln(w, describeCriteria(listing.Criteria))

	if len(listing.Records) == 0 {
		fmt.Fprintf(w, "\n%s\n", EmptyMessage)
		return nil
	}

	for _, repo := range listing.Records {
		fmt.Fprintln(w)
		f.writeCard(w, listing.Account, repo)
	}

	fmt.Fprint(w, "\n"+strings.Repeat("─", 50)+"\n")
	fmt.Fprintf(w, "Showing %d of %d repositories\n", len(listing.Records), listing.Total)

	return nil
}

func (f *ConsoleFormatter) writeCard(w io.Writer, account string, repo types.Repository) {
	header := nameStyle.Render(repo.Name)
	if lang := repo.GetLanguage(); lang != "" {
		badge := lipgloss.NewStyle().Foreground(lipgloss.Color(view.LanguageColor(repo.Language))).Render("● " + lang)
		header += "  " + badge
	}
	// Counts are only shown when non-zero.
	if repo.StarCount > 0 {
		header += fmt.Sprintf("  ★ %d", repo.StarCount)
	}
	if repo.ForkCount > 0 {
		header += fmt.Sprintf("  ⑂ %d", repo.ForkCount)
	}
	fmt.Fprintln(w, header)

	if desc := repo.GetDescription(); desc != "" {
		fmt.Fprintf(w, "   %s\n", desc)
	}

	if f.opts.Verbose {
		if len(repo.Topics) > 0 {
			fmt.Fprintf(w, "   Topics: %s\n", strings.Join(repo.Topics, ", "))
		}
		if !repo.UpdatedAt.IsZero() {
			fmt.Fprintf(w, "   %s\n", mutedStyle.Render("Updated "+repo.UpdatedAt.Format("2006-01-02")))
		}
	}

	fmt.Fprintf(w, "   🔗 %s\n", view.SourceURL(account, repo))
	if demo, ok := view.DemoURL(account, repo); ok {
		fmt.Fprintf(w, "   🚀 %s\n", demo)
	}
}

// ShouldExit returns the exit code for the listing
func (f *ConsoleFormatter) ShouldExit(listing Listing) int {
	return exitCode(f.opts, listing)
}

func describeCriteria(c view.Criteria) string {
	parts := []string{
		"Language: " + view.LanguageLabel(c.Language),
		"Sort: " + view.SortLabel(c.Sort),
	}
	if strings.TrimSpace(c.Query) != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", c.Query))
	}
	return strings.Join(parts, " | ")
}
