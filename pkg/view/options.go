package view

import (
	"fmt"
	"strings"
)

// Option pairs a UI label with the value it selects.
type Option struct {
	Label string
	Value string
}

// LanguageFilters are the language choices offered to the user, in display order.
var LanguageFilters = []Option{
	{Label: "All", Value: LanguageAll},
	{Label: "TypeScript", Value: "TypeScript"},
	{Label: "Python", Value: "Python"},
	{Label: "JavaScript", Value: "JavaScript"},
	{Label: "Other", Value: LanguageOther},
}

// SortOption pairs a UI label with a sort key.
type SortOption struct {
	Label string
	Key   SortKey
}

// SortOptions are the sort choices offered to the user, in display order.
var SortOptions = []SortOption{
	{Label: "Recent", Key: SortUpdated},
	{Label: "Stars", Key: SortStars},
	{Label: "Name", Key: SortName},
}

// ParseLanguageFilter maps user input onto a filter value. Offered labels and
// values match case-insensitively; anything else is taken as an exact
// language name.
func ParseLanguageFilter(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return LanguageAll
	}
	for _, opt := range LanguageFilters {
		if strings.EqualFold(s, opt.Label) || strings.EqualFold(s, opt.Value) {
			return opt.Value
		}
	}
	return s
}

// LanguageLabel returns the display label for a filter value.
func LanguageLabel(value string) string {
	for _, opt := range LanguageFilters {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// NextLanguageFilter cycles through LanguageFilters. Values outside the list
// restart the cycle.
func NextLanguageFilter(value string) string {
	for i, opt := range LanguageFilters {
		if opt.Value == value {
			return LanguageFilters[(i+1)%len(LanguageFilters)].Value
		}
	}
	return LanguageFilters[0].Value
}

// ParseSortKey accepts a key or its label, case-insensitively.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortUpdated, nil
	}
	for _, opt := range SortOptions {
		if strings.EqualFold(s, string(opt.Key)) || strings.EqualFold(s, opt.Label) {
			return opt.Key, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q (want updated, stars or name)", s)
}

// SortLabel returns the display label for a key.
func SortLabel(key SortKey) string {
	for _, opt := range SortOptions {
		if opt.Key == key {
			return opt.Label
		}
	}
	return SortOptions[0].Label
}

// NextSortKey cycles through SortOptions.
func NextSortKey(key SortKey) SortKey {
	for i, opt := range SortOptions {
		if opt.Key == key {
			return SortOptions[(i+1)%len(SortOptions)].Key
		}
	}
	return SortOptions[0].Key
}
