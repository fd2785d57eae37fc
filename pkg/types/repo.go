package types

import "time"

// Repository holds one public repository as listed by the hosting provider.
// JSON tags follow the upstream field names so cached snapshots keep the
// upstream record shape.
type Repository struct {
	UpdatedAt      time.Time `json:"updated_at"`
	CreatedAt      time.Time `json:"created_at"`
	Description    *string   `json:"description"`
	Language       *string   `json:"language"`
	Homepage       *string   `json:"homepage"`
	Name           string    `json:"name"`
	FullName       string    `json:"full_name,omitempty"`
	HTMLURL        string    `json:"html_url,omitempty"`
	Topics         []string  `json:"topics"`
	ID             int64     `json:"id"`
	StarCount      int       `json:"stargazers_count"`
	ForkCount      int       `json:"forks_count"`
	OpenIssueCount int       `json:"open_issues_count"`
	HasPages       bool      `json:"has_pages"`
	IsFork         bool      `json:"fork"`
	IsArchived     bool      `json:"archived"`
}

// GetDescription returns the description or "" when unset.
func (r *Repository) GetDescription() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// GetLanguage returns the primary language or "" when unset.
func (r *Repository) GetLanguage() string {
	if r.Language == nil {
		return ""
	}
	return *r.Language
}

// GetHomepage returns the homepage or "" when unset.
func (r *Repository) GetHomepage() string {
	if r.Homepage == nil {
		return ""
	}
	return *r.Homepage
}

// DaysSinceUpdate returns the number of whole days since the repository was last updated.
func (r *Repository) DaysSinceUpdate() int {
	if r.UpdatedAt.IsZero() {
		return -1
	}
	return int(time.Since(r.UpdatedAt).Hours() / 24)
}
