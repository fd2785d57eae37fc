package github

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/johnsaigle/repo-showcase/pkg/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, Timeout: timeout}, testLogger())
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

const listingPayload = `[
  {
    "id": 1,
    "name": "repo-one",
    "full_name": "octocat/repo-one",
    "html_url": "https://github.com/octocat/repo-one",
    "description": "First",
    "language": "TypeScript",
    "homepage": "example.com",
    "stargazers_count": 100,
    "forks_count": 4,
    "open_issues_count": 2,
    "updated_at": "2025-12-01T00:00:00Z",
    "created_at": "2024-01-01T00:00:00Z",
    "has_pages": true,
    "topics": ["react", "ui"],
    "fork": false,
    "archived": true
  },
  {
    "id": 2,
    "name": "repo-two",
    "full_name": "octocat/repo-two",
    "html_url": "https://github.com/octocat/repo-two",
    "description": null,
    "language": null,
    "homepage": null,
    "stargazers_count": 0,
    "updated_at": "2025-11-01T00:00:00Z",
    "created_at": "2024-01-01T00:00:00Z",
    "fork": true
  }
]`

func TestClient_ListRepositories_Request(t *testing.T) {
	var gotPath, gotQuery, gotAccept string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "[]")
	}, 0)

	repos, err := client.ListRepositories(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("ListRepositories() error: %v", err)
	}
	if len(repos) != 0 {
		t.Errorf("ListRepositories() returned %d records, want 0", len(repos))
	}

	if gotPath != "/users/octocat/repos" {
		t.Errorf("path = %q, want /users/octocat/repos", gotPath)
	}
	for _, want := range []string{"per_page=100", "sort=updated"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %s", gotQuery, want)
		}
	}
	if !strings.Contains(gotAccept, "application/vnd.github") {
		t.Errorf("Accept = %q, want the GitHub media type", gotAccept)
	}
}

func TestClient_ListRepositories_Decode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, listingPayload)
	}, 0)

	repos, err := client.ListRepositories(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("ListRepositories() error: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("ListRepositories() returned %d records, want 2", len(repos))
	}

	first := repos[0]
	if first.ID != 1 || first.Name != "repo-one" || first.FullName != "octocat/repo-one" {
		t.Errorf("identity fields = %d/%s/%s", first.ID, first.Name, first.FullName)
	}
	if first.GetLanguage() != "TypeScript" || first.GetDescription() != "First" || first.GetHomepage() != "example.com" {
		t.Errorf("optional fields = %q/%q/%q", first.GetLanguage(), first.GetDescription(), first.GetHomepage())
	}
	if first.StarCount != 100 || first.ForkCount != 4 || first.OpenIssueCount != 2 {
		t.Errorf("counts = %d/%d/%d", first.StarCount, first.ForkCount, first.OpenIssueCount)
	}
	if !first.HasPages || !first.IsArchived || first.IsFork {
		t.Errorf("flags = pages:%v archived:%v fork:%v", first.HasPages, first.IsArchived, first.IsFork)
	}
	if !first.UpdatedAt.Equal(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("UpdatedAt = %v", first.UpdatedAt)
	}
	if len(first.Topics) != 2 || first.Topics[0] != "react" {
		t.Errorf("Topics = %v", first.Topics)
	}

	second := repos[1]
	if second.Language != nil || second.Description != nil || second.Homepage != nil {
		t.Error("null fields should decode as absent")
	}
	if second.Topics == nil {
		t.Error("missing topics should decode as an empty list")
	}
	if !second.IsFork {
		t.Error("fork flag not decoded")
	}
}

func TestClient_ListRepositories_Errors(t *testing.T) {
	reset := time.Unix(1234567890, 0)

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind types.ErrorKind
		wantMsg  string
	}{
		{
			name: "rate limit with reset",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", "1234567890")
				w.WriteHeader(http.StatusForbidden)
				_, _ = io.WriteString(w, `{"message":"API rate limit exceeded"}`)
			},
			wantKind: types.KindRateLimited,
			wantMsg:  "GitHub API rate limit exceeded. Resets at " + FormatResetTime(reset) + ".",
		},
		{
			name: "forbidden with reset header only",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Reset", "1234567890")
				w.WriteHeader(http.StatusForbidden)
			},
			wantKind: types.KindRateLimited,
			wantMsg:  "GitHub API rate limit exceeded. Resets at " + FormatResetTime(reset) + ".",
		},
		{
			name: "forbidden without reset",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			wantKind: types.KindRateLimited,
			wantMsg:  "GitHub API rate limit exceeded. Please try again later.",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantKind: types.KindFetchFailed,
			wantMsg:  "Failed to fetch repositories: Internal Server Error",
		},
		{
			name: "unknown account",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"message":"Not Found"}`)
			},
			wantKind: types.KindFetchFailed,
			wantMsg:  "Failed to fetch repositories: Not Found",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, `[{"id":`)
			},
			wantKind: types.KindFetchFailed,
			wantMsg:  "Failed to fetch repositories: invalid response body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler, 0)

			repos, err := client.ListRepositories(context.Background(), "octocat")
			if err == nil {
				t.Fatalf("ListRepositories() = %v, want error", repos)
			}
			if !types.IsKind(err, tt.wantKind) {
				t.Errorf("error kind mismatch: %v, want %s", err, tt.wantKind)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClient_ListRepositories_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	_, err := client.ListRepositories(context.Background(), "octocat")
	if !types.IsKind(err, types.KindTimeout) {
		t.Errorf("ListRepositories() error = %v, want timeout", err)
	}
}

func TestClient_ListRepositories_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, time.Minute)
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ListRepositories(ctx, "octocat")
	if !types.IsKind(err, types.KindTimeout) {
		t.Errorf("ListRepositories() error = %v, want timeout", err)
	}
}

func TestClient_ListRepositories_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: url}, testLogger())
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	_, err = client.ListRepositories(context.Background(), "octocat")
	if !types.IsKind(err, types.KindNetwork) {
		t.Errorf("ListRepositories() error = %v, want network", err)
	}
	if types.UserMessage(err) == "" {
		t.Error("network failure should carry a user message")
	}
}

func TestClient_ListRepositories_EmptyAccount(t *testing.T) {
	client, err := NewClient(Config{}, testLogger())
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if _, err := client.ListRepositories(context.Background(), ""); err == nil {
		t.Error("expected error for empty account")
	}
}

func TestNewClient_BaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"default", "", DefaultBaseURL},
		{"adds trailing slash", "http://localhost:8080/api", "http://localhost:8080/api/"},
		{"keeps trailing slash", "http://localhost:8080/", "http://localhost:8080/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(Config{BaseURL: tt.baseURL}, nil)
			if err != nil {
				t.Fatalf("NewClient() error: %v", err)
			}
			if got := client.client.BaseURL.String(); got != tt.want {
				t.Errorf("BaseURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatResetTime(t *testing.T) {
	reset := time.Date(2025, 1, 1, 15, 4, 5, 0, time.Local)
	if got := FormatResetTime(reset); got != "3:04:05 PM" {
		t.Errorf("FormatResetTime() = %q, want 3:04:05 PM", got)
	}
}
