package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnsaigle/repo-showcase/pkg/controller"
	"github.com/johnsaigle/repo-showcase/pkg/formatter"
	"github.com/johnsaigle/repo-showcase/pkg/types"
	"github.com/johnsaigle/repo-showcase/pkg/view"
)

type fetchFunc func(ctx context.Context, account string) ([]types.Repository, error)

func (f fetchFunc) Fetch(ctx context.Context, account string) ([]types.Repository, error) {
	return f(ctx, account)
}

func strPtr(s string) *string { return &s }

func fixture() []types.Repository {
	return []types.Repository{
		{ID: 1, Name: "repo-one", Language: strPtr("TypeScript"), Description: strPtr("Test repo one"), StarCount: 100, Homepage: strPtr("example.com"), UpdatedAt: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "repo-two", Language: strPtr("Python"), Description: strPtr("Test repo two"), StarCount: 50, UpdatedAt: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Name: "alpha-repo", Language: strPtr("JavaScript"), Description: strPtr("Alpha repo"), StarCount: 200, UpdatedAt: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func newController(f fetchFunc) *controller.Controller {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return controller.New(f, "acct", controller.WithLogger(logger))
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for load")
	}
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func loadedModel(t *testing.T) (Model, *controller.Controller) {
	t.Helper()
	ctrl := newController(func(context.Context, string) ([]types.Repository, error) {
		return fixture(), nil
	})
	ctx := context.Background()
	m := New(ctx, ctrl)
	waitFor(t, ctrl.Mount(ctx))

	next, cmd := m.Update(changedMsg{})
	assert.NotNil(t, cmd, "the model should keep listening for changes")
	return next.(Model), ctrl
}

func TestModel_LoadingView(t *testing.T) {
	ctrl := newController(func(ctx context.Context, _ string) ([]types.Repository, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	m := New(context.Background(), ctrl)

	assert.Contains(t, m.View(), "Loading repositories...")
	assert.Contains(t, m.View(), "Repositories · acct")
}

func TestModel_LoadedView(t *testing.T) {
	m, _ := loadedModel(t)

	out := m.View()
	assert.Contains(t, out, "repo-one")
	assert.Contains(t, out, "alpha-repo")
	assert.Contains(t, out, "★ 200")
	assert.Contains(t, out, "https://github.com/acct/repo-one")
	assert.Contains(t, out, "https://example.com")
	assert.Contains(t, out, "3 of 3 repositories")
	assert.Less(t, strings.Index(out, "repo-one"), strings.Index(out, "alpha-repo"), "default order is most recently updated")
}

func TestModel_CursorMovement(t *testing.T) {
	m, _ := loadedModel(t)

	m = press(t, m, "down")
	m = press(t, m, "down")
	m = press(t, m, "down")
	assert.Equal(t, 2, m.cursor, "cursor stops at the last row")
	assert.Contains(t, m.View(), "https://github.com/acct/alpha-repo")

	m = press(t, m, "k")
	assert.Equal(t, 1, m.cursor)
}

func TestModel_LanguageAndSortKeys(t *testing.T) {
	m, ctrl := loadedModel(t)

	m = press(t, m, "tab")
	assert.Equal(t, "TypeScript", ctrl.State().Criteria.Language)
	assert.Len(t, m.state.Records, 1)
	assert.Equal(t, "repo-one", m.state.Records[0].Name)

	// All -> TypeScript -> Python -> JavaScript -> Other -> All
	for range 4 {
		m = press(t, m, "tab")
	}
	assert.Equal(t, view.LanguageAll, ctrl.State().Criteria.Language)

	m = press(t, m, "s")
	assert.Equal(t, view.SortStars, ctrl.State().Criteria.Sort)
	assert.Equal(t, "alpha-repo", m.state.Records[0].Name)
	assert.Contains(t, m.View(), "Sort: Stars")
}

func TestModel_Search(t *testing.T) {
	m, ctrl := loadedModel(t)

	m = press(t, m, "/")
	require.True(t, m.searching)

	// Keys typed while searching do not trigger shortcuts.
	m = press(t, m, "alpha")
	assert.Equal(t, "alpha", ctrl.State().Criteria.Query)
	assert.Len(t, m.state.Records, 1)

	m = press(t, m, "enter")
	assert.False(t, m.searching)

	m = press(t, m, "/")
	m = press(t, m, "zzz")
	m = press(t, m, "esc")
	assert.Contains(t, m.View(), formatter.EmptyMessage)
}

func TestModel_FailedAndRetry(t *testing.T) {
	calls := 0
	ctrl := newController(func(context.Context, string) ([]types.Repository, error) {
		calls++
		if calls == 1 {
			return nil, &types.FetchError{Kind: types.KindRateLimited, Message: "GitHub API rate limit exceeded. Please try again later."}
		}
		return fixture(), nil
	})
	ctx := context.Background()
	m := New(ctx, ctrl)
	waitFor(t, ctrl.Mount(ctx))
	next, _ := m.Update(changedMsg{})
	m = next.(Model)

	out := m.View()
	assert.Contains(t, out, "GitHub API rate limit exceeded. Please try again later.")
	assert.Contains(t, out, "Press r to try again.")

	m = press(t, m, "r")
	require.Eventually(t, func() bool {
		return ctrl.State().Status == controller.StatusLoaded
	}, 2*time.Second, 10*time.Millisecond)

	next, _ = m.Update(changedMsg{})
	m = next.(Model)
	assert.Contains(t, m.View(), "repo-one")
}

func TestModel_Quit(t *testing.T) {
	m, _ := loadedModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.(Model).View())
}

func TestModel_WaitForChangeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := newController(func(context.Context, string) ([]types.Repository, error) {
		return nil, errors.New("unused")
	})
	m := New(ctx, ctrl)
	cancel()

	assert.Nil(t, m.waitForChange())
}

func TestModel_Window(t *testing.T) {
	m := Model{height: 16}
	// (16-12)/2 = 2 rows visible.
	start, end := m.window(10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)

	m.cursor = 9
	start, end = m.window(10)
	assert.Equal(t, 8, start)
	assert.Equal(t, 10, end)

	m.height = 0
	start, end = m.window(10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
}
