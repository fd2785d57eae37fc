// Package tui is an interactive terminal browser over a repository controller.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/johnsaigle/repo-showcase/pkg/controller"
	"github.com/johnsaigle/repo-showcase/pkg/formatter"
	"github.com/johnsaigle/repo-showcase/pkg/types"
	"github.com/johnsaigle/repo-showcase/pkg/view"
)

var (
	docStyle      = lipgloss.NewStyle().Margin(1, 2)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// changedMsg signals that the controller state moved on.
type changedMsg struct{}

// Model is the bubbletea model for the repository browser.
type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	changes chan struct{}
	unsub   func()

	state     controller.State
	spinner   spinner.Model
	search    textinput.Model
	searching bool
	cursor    int
	height    int
	quitting  bool
}

// New subscribes to ctrl. The initial load starts from Init.
func New(ctx context.Context, ctrl *controller.Controller) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	ti := textinput.New()
	ti.Placeholder = "Search repositories..."
	ti.Prompt = "/ "
	ti.SetValue(ctrl.State().Criteria.Query)

	// Notifications are coalesced; the model always re-reads the latest state.
	changes := make(chan struct{}, 1)
	unsub := ctrl.Subscribe(func(controller.State) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		changes: changes,
		unsub:   unsub,
		state:   ctrl.State(),
		spinner: s,
		search:  ti,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForChange, m.mount)
}

func (m Model) mount() tea.Msg {
	if m.state.Status == controller.StatusIdle {
		m.ctrl.Mount(m.ctx)
	}
	return nil
}

func (m Model) waitForChange() tea.Msg {
	select {
	case <-m.changes:
		return changedMsg{}
	case <-m.ctx.Done():
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		_, v := docStyle.GetFrameSize()
		m.height = msg.Height - v
		return m, nil

	case changedMsg:
		m.refresh()
		return m, m.waitForChange

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetQuery(m.search.Value())
	m.refresh()
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m.quit()

	case "/":
		m.searching = true
		return m, m.search.Focus()

	case "tab":
		m.ctrl.SetLanguage(view.NextLanguageFilter(m.state.Criteria.Language))
		m.cursor = 0

	case "s":
		m.ctrl.SetSort(view.NextSortKey(m.state.Criteria.Sort))
		m.cursor = 0

	case "r":
		if m.state.Status != controller.StatusLoading {
			m.ctrl.Refetch(m.ctx)
		}

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.state.Records)-1 {
			m.cursor++
		}
	}

	m.refresh()
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.unsub != nil {
		m.unsub()
	}
	return m, tea.Quit
}

func (m *Model) refresh() {
	m.state = m.ctrl.State()
	if m.cursor >= len(m.state.Records) {
		m.cursor = max(0, len(m.state.Records)-1)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Repositories · " + m.state.Account))
	b.WriteString("\n\n")
	b.WriteString(m.criteriaBar())
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.state.Status {
	case controller.StatusIdle, controller.StatusLoading:
		b.WriteString(m.spinner.View() + " Loading repositories...\n")
	case controller.StatusFailed:
		b.WriteString(errorStyle.Render(m.state.Message))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("Press r to try again."))
		b.WriteString("\n")
	case controller.StatusLoaded:
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/: search • tab: language • s: sort • r: refresh • ↑/↓: move • q: quit"))

	return docStyle.Render(b.String())
}

func (m Model) criteriaBar() string {
	var langs []string
	for _, opt := range view.LanguageFilters {
		style := inactiveStyle
		if opt.Value == m.state.Criteria.Language {
			style = activeStyle
		}
		langs = append(langs, style.Render(opt.Label))
	}
	if !isOffered(m.state.Criteria.Language) {
		langs = append(langs, activeStyle.Render(m.state.Criteria.Language))
	}
	return strings.Join(langs, "  ") + "    Sort: " + view.SortLabel(m.state.Criteria.Sort)
}

func isOffered(language string) bool {
	for _, opt := range view.LanguageFilters {
		if opt.Value == language {
			return true
		}
	}
	return false
}

func (m Model) listView() string {
	records := m.state.Records
	if len(records) == 0 {
		return formatter.EmptyMessage + "\n"
	}

	var b strings.Builder
	start, end := m.window(len(records))
	for i := start; i < end; i++ {
		b.WriteString(m.row(records[i], i == m.cursor))
	}

	selected := records[m.cursor]
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("🔗 " + view.SourceURL(m.state.Account, selected)))
	b.WriteString("\n")
	if demo, ok := view.DemoURL(m.state.Account, selected); ok {
		b.WriteString(helpStyle.Render("🚀 " + demo))
		b.WriteString("\n")
	}
	if days := selected.DaysSinceUpdate(); days >= 0 {
		b.WriteString(helpStyle.Render(fmt.Sprintf("Updated %d days ago", days)))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d of %d repositories", len(records), m.state.Total)))
	b.WriteString("\n")

	return b.String()
}

// window returns the slice of rows that fits the terminal around the cursor.
func (m Model) window(n int) (int, int) {
	rows := n
	if m.height > 0 {
		// Each row takes two lines; leave room for header and footer.
		rows = max(1, (m.height-12)/2)
	}
	if rows >= n {
		return 0, n
	}
	start := max(0, m.cursor-rows/2)
	end := min(n, start+rows)
	start = max(0, end-rows)
	return start, end
}

func (m Model) row(repo types.Repository, selected bool) string {
	prefix := "  "
	name := repo.Name
	if selected {
		prefix = "> "
		name = selectedStyle.Render(name)
	}

	line := prefix + name
	if lang := repo.GetLanguage(); lang != "" {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(view.LanguageColor(repo.Language))).Render("●")
		line += "  " + dot + " " + lang
	}
	if repo.StarCount > 0 {
		line += fmt.Sprintf("  ★ %d", repo.StarCount)
	}
	if repo.ForkCount > 0 {
		line += fmt.Sprintf("  ⑂ %d", repo.ForkCount)
	}

	desc := repo.GetDescription()
	if desc == "" {
		desc = "No description"
	}

	return line + "\n    " + inactiveStyle.Render(desc) + "\n"
}

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, ctrl *controller.Controller) error {
	p := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
