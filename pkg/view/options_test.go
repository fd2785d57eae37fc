package view

import "testing"

func TestParseLanguageFilter(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", LanguageAll},
		{"All", LanguageAll},
		{"ALL", LanguageAll},
		{"other", LanguageOther},
		{"Other", LanguageOther},
		{"typescript", "TypeScript"},
		{" Python ", "Python"},
		{"Go", "Go"},
		{"C++", "C++"},
	}

	for _, tt := range tests {
		if got := ParseLanguageFilter(tt.input); got != tt.want {
			t.Errorf("ParseLanguageFilter(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		input   string
		want    SortKey
		wantErr bool
	}{
		{"", SortUpdated, false},
		{"updated", SortUpdated, false},
		{"Recent", SortUpdated, false},
		{"STARS", SortStars, false},
		{"name", SortName, false},
		{"size", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSortKey(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSortKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCycling(t *testing.T) {
	value := LanguageAll
	var seen []string
	for range LanguageFilters {
		seen = append(seen, LanguageLabel(value))
		value = NextLanguageFilter(value)
	}
	if value != LanguageAll {
		t.Errorf("language cycle did not wrap, ended at %q", value)
	}
	want := []string{"All", "TypeScript", "Python", "JavaScript", "Other"}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, seen[i], want[i])
		}
	}
	if NextLanguageFilter("Go") != LanguageAll {
		t.Error("unknown filter should restart the cycle")
	}

	if NextSortKey(SortUpdated) != SortStars || NextSortKey(SortStars) != SortName || NextSortKey(SortName) != SortUpdated {
		t.Error("sort cycle out of order")
	}
	if SortLabel(SortStars) != "Stars" || SortLabel("bogus") != "Recent" {
		t.Error("SortLabel mismatch")
	}
}

func TestLanguageColor(t *testing.T) {
	tests := []struct {
		language *string
		want     string
	}{
		{strPtr("TypeScript"), "#3178c6"},
		{strPtr("Go"), "#00ADD8"},
		{strPtr("CoffeeScript"), "#244776"},
		{strPtr("Haskell"), DefaultLanguageColor},
		{strPtr("go"), DefaultLanguageColor},
		{nil, DefaultLanguageColor},
	}

	for _, tt := range tests {
		if got := LanguageColor(tt.language); got != tt.want {
			t.Errorf("LanguageColor(%v) = %q, want %q", tt.language, got, tt.want)
		}
	}
}
