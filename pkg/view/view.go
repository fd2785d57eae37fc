// Package view derives the ordered display list from the canonical dataset.
// Every function here is pure: no I/O, and inputs are never mutated.
package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/johnsaigle/repo-showcase/pkg/types"
)

// SortKey selects the display order.
type SortKey string

const (
	SortUpdated SortKey = "updated"
	SortStars   SortKey = "stars"
	SortName    SortKey = "name"
)

const (
	// LanguageAll disables language filtering.
	LanguageAll = "all"
	// LanguageOther keeps records in any language outside PrimaryLanguages.
	LanguageOther = "other"
)

// PrimaryLanguages have their own filter; everything else falls under "other".
var PrimaryLanguages = []string{"TypeScript", "Python", "JavaScript"}

// Criteria is the user-selected filter, search and sort.
type Criteria struct {
	Language string  `json:"language"`
	Query    string  `json:"query"`
	Sort     SortKey `json:"sort"`
}

// DefaultCriteria shows everything, most recently updated first.
func DefaultCriteria() Criteria {
	return Criteria{Language: LanguageAll, Sort: SortUpdated}
}

// Derive applies Filter, Search and Sort in that order.
func Derive(records []types.Repository, c Criteria) []types.Repository {
	return Sort(Search(Filter(records, c.Language), c.Query), c.Sort)
}

// Filter keeps records matching language. Named languages match exactly and
// case-sensitively; a record without a language, or with an empty one, only
// survives "all".
func Filter(records []types.Repository, language string) []types.Repository {
	switch language {
	case LanguageAll, "":
		return slices.Clone(records)
	case LanguageOther:
		return keep(records, func(r types.Repository) bool {
			lang := r.GetLanguage()
			return lang != "" && !slices.Contains(PrimaryLanguages, lang)
		})
	default:
		return keep(records, func(r types.Repository) bool {
			return r.Language != nil && *r.Language == language
		})
	}
}

// Search keeps records whose name, description or any topic contains query,
// ignoring case. A blank query keeps everything.
func Search(records []types.Repository, query string) []types.Repository {
	if strings.TrimSpace(query) == "" {
		return slices.Clone(records)
	}

	fold := cases.Fold()
	needle := fold.String(query)
	contains := func(s string) bool {
		return strings.Contains(fold.String(s), needle)
	}

	return keep(records, func(r types.Repository) bool {
		if contains(r.Name) {
			return true
		}
		if r.Description != nil && contains(*r.Description) {
			return true
		}
		return slices.ContainsFunc(r.Topics, contains)
	})
}

// Sort returns a stably sorted copy. Unknown keys sort by SortUpdated.
func Sort(records []types.Repository, key SortKey) []types.Repository {
	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []types.Repository{}
	}

	switch key {
	case SortStars:
		slices.SortStableFunc(sorted, func(a, b types.Repository) int {
			return cmp.Compare(b.StarCount, a.StarCount)
		})
	case SortName:
		slices.SortStableFunc(sorted, func(a, b types.Repository) int {
			return strings.Compare(a.Name, b.Name)
		})
	default:
		slices.SortStableFunc(sorted, func(a, b types.Repository) int {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		})
	}

	return sorted
}

func keep(records []types.Repository, pred func(types.Repository) bool) []types.Repository {
	result := make([]types.Repository, 0, len(records))
	for _, r := range records {
		if pred(r) {
			result = append(result, r)
		}
	}
	return result
}

// DemoURL returns the live demo location for a record. A non-blank homepage
// wins and gets an https scheme when it has none; otherwise a hosted pages
// site is assumed under the account.
func DemoURL(account string, r types.Repository) (string, bool) {
	if homepage := strings.TrimSpace(r.GetHomepage()); homepage != "" {
		if strings.HasPrefix(homepage, "http") {
			return homepage, true
		}
		return "https://" + homepage, true
	}

	if r.HasPages {
		return fmt.Sprintf("https://%s.github.io/%s", account, r.Name), true
	}

	return "", false
}

// SourceURL returns the repository page on GitHub.
func SourceURL(account string, r types.Repository) string {
	return fmt.Sprintf("https://github.com/%s/%s", account, r.Name)
}
