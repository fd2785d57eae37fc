package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v82/github"

	"github.com/johnsaigle/repo-showcase/pkg/types"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com/"
	// DefaultTimeout bounds a single listing request.
	DefaultTimeout = 10 * time.Second
	// PerPage is the only page requested; further pages are never fetched.
	PerPage = 100

	headerRateReset = "X-RateLimit-Reset"
	userAgent       = "repo-showcase"
)

// Config holds client settings.
type Config struct {
	// HTTPClient is used as-is when set; Timeout is then ignored.
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
}

// Client lists an account's public repositories through the GitHub REST API.
type Client struct {
	client *github.Client
	logger *slog.Logger
}

// NewClient creates an unauthenticated GitHub client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	gh := github.NewClient(httpClient)
	gh.UserAgent = userAgent

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse base URL: %w", err)
		}
		gh.BaseURL = u
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		client: gh,
		logger: logger.With("component", "github"),
	}, nil
}

// ListRepositories fetches the first page (up to PerPage records) of the
// account's repositories, most recently updated first. Failures are returned
// as *types.FetchError.
func (c *Client) ListRepositories(ctx context.Context, account string) ([]types.Repository, error) {
	if c.client == nil {
		return nil, errors.New("GitHub client is nil")
	}

	if account == "" {
		return nil, errors.New("account must be provided")
	}

	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: PerPage},
	}

	repos, resp, err := c.client.Repositories.ListByUser(ctx, account, opts)
	if err != nil {
		return nil, classify(err, resp)
	}

	result := make([]types.Repository, 0, len(repos))
	for _, repo := range repos {
		if repo == nil {
			continue
		}
		result = append(result, toRepository(repo))
	}

	c.logger.Debug("listed repositories", "account", account, "count", len(result))

	return result, nil
}

// classify maps a go-github error onto the fetch error taxonomy. Any 403 is
// treated as quota exhaustion.
func classify(err error, resp *github.Response) error {
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		reset := rateLimitErr.Rate.Reset.Time
		if reset.IsZero() && rateLimitErr.Response != nil {
			reset = resetFromHeader(rateLimitErr.Response.Header)
		}
		return rateLimited(reset, err)
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		var reset time.Time
		if abuseErr.Response != nil {
			reset = resetFromHeader(abuseErr.Response.Header)
		}
		return rateLimited(reset, err)
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		if errResp.Response.StatusCode == http.StatusForbidden {
			return rateLimited(resetFromHeader(errResp.Response.Header), err)
		}
		return &types.FetchError{
			Kind:    types.KindFetchFailed,
			Message: "Failed to fetch repositories: " + statusText(errResp.Response),
			Err:     err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &types.FetchError{
			Kind:    types.KindTimeout,
			Message: "Request to GitHub timed out. Please try again.",
			Err:     err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &types.FetchError{
			Kind:    types.KindTimeout,
			Message: "Request to GitHub timed out. Please try again.",
			Err:     err,
		}
	}

	// A 2xx response with an unreadable body.
	if resp != nil && resp.Response != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &types.FetchError{
			Kind:    types.KindFetchFailed,
			Message: "Failed to fetch repositories: invalid response body",
			Err:     err,
		}
	}

	return &types.FetchError{
		Kind:    types.KindNetwork,
		Message: "Failed to fetch repositories: network error",
		Err:     err,
	}
}

func rateLimited(reset time.Time, err error) error {
	msg := "GitHub API rate limit exceeded. Please try again later."
	if !reset.IsZero() {
		msg = fmt.Sprintf("GitHub API rate limit exceeded. Resets at %s.", FormatResetTime(reset))
	}
	return &types.FetchError{
		Kind:    types.KindRateLimited,
		Message: msg,
		Err:     err,
	}
}

// FormatResetTime renders a rate limit reset as local wall-clock time.
func FormatResetTime(t time.Time) string {
	return t.Local().Format("3:04:05 PM")
}

func resetFromHeader(h http.Header) time.Time {
	v := h.Get(headerRateReset)
	if v == "" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}

// statusText returns the reason phrase of resp, e.g. "Internal Server Error".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	if text == "" {
		text = strconv.Itoa(resp.StatusCode)
	}
	return text
}

func toRepository(repo *github.Repository) types.Repository {
	topics := repo.Topics
	if topics == nil {
		topics = []string{}
	}

	return types.Repository{
		ID:             repo.GetID(),
		Name:           repo.GetName(),
		FullName:       repo.GetFullName(),
		HTMLURL:        repo.GetHTMLURL(),
		Description:    repo.Description,
		Language:       repo.Language,
		Homepage:       repo.Homepage,
		StarCount:      repo.GetStargazersCount(),
		ForkCount:      repo.GetForksCount(),
		OpenIssueCount: repo.GetOpenIssuesCount(),
		UpdatedAt:      repo.GetUpdatedAt().Time,
		CreatedAt:      repo.GetCreatedAt().Time,
		HasPages:       repo.GetHasPages(),
		Topics:         topics,
		IsFork:         repo.GetFork(),
		IsArchived:     repo.GetArchived(),
	}
}
