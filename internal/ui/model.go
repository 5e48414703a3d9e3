// Package ui is the Bubble Tea front end of the todo board.
package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/web3-frozen/todo-board/internal/app"
	"github.com/web3-frozen/todo-board/internal/i18n"
	"github.com/web3-frozen/todo-board/internal/prefs"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
)

// doneMsg reports that a controller operation finished; the state already
// carries any failure.
type doneMsg struct{ err error }

type Model struct {
	ctx       context.Context
	ctrl      *app.Controller
	logger    *slog.Logger
	prefs     prefs.Prefs
	prefsPath string
	now       func() time.Time

	tr    *i18n.Translator
	theme Theme

	mode   mode
	list   list.Model
	form   Form
	search textinput.Model
	width  int
	height int
}

func New(ctx context.Context, ctrl *app.Controller, p prefs.Prefs, prefsPath string, logger *slog.Logger) Model {
	m := Model{
		ctx:       ctx,
		ctrl:      ctrl,
		logger:    logger,
		prefs:     p,
		prefsPath: prefsPath,
		now:       time.Now,
		tr:        i18n.New(p.Language),
		theme:     ThemeFor(p.DarkMode),
		width:     80,
		height:    24,
	}

	m.list = list.New(nil, m.delegate(), 0, 0)
	m.list.SetShowTitle(false)
	m.list.SetShowStatusBar(false)
	m.list.SetShowHelp(false)
	m.list.SetFilteringEnabled(false)
	m.list.SetShowPagination(true)
	m.list.DisableQuitKeybindings()

	m.search = textinput.New()
	m.search.Prompt = "/ "
	m.search.CharLimit = 200
	m.search.Placeholder = m.tr.T("searchPlaceholder")
	m.resize()
	return m
}

func (m Model) delegate() itemDelegate {
	return itemDelegate{theme: m.theme, tr: m.tr, now: m.now}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.run(m.ctrl.Load), m.refreshStats())
}

// run wraps a controller operation as a command.
func (m Model) run(op func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg { return doneMsg{err: op(ctx)} }
}

func (m Model) refreshStats() tea.Cmd {
	return m.run(func(ctx context.Context) error {
		m.ctrl.RefreshStats(ctx)
		return nil
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case doneMsg:
		m.sync()
		return m, nil
	case submitMsg:
		m.mode = modeList
		if msg.update != nil {
			id, req := msg.id, *msg.update
			return m, m.run(func(ctx context.Context) error { return m.ctrl.Update(ctx, id, req) })
		}
		req := *msg.create
		return m, m.run(func(ctx context.Context) error { return m.ctrl.Create(ctx, req) })
	case cancelMsg:
		m.mode = modeList
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.mode {
	case modeForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	case modeSearch:
		return m.updateSearch(msg)
	}
	return m.updateList(msg)
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch key := k.String(); key {
	case "q":
		return m, tea.Quit
	case " ", "x":
		if id, ok := m.selectedID(); ok {
			return m, m.run(func(ctx context.Context) error { return m.ctrl.ToggleCompleted(ctx, id) })
		}
		return m, nil
	case "s":
		if id, ok := m.selectedID(); ok {
			return m, m.run(func(ctx context.Context) error { return m.ctrl.ToggleStar(ctx, id) })
		}
		return m, nil
	case "d":
		if id, ok := m.selectedID(); ok {
			return m, m.run(func(ctx context.Context) error { return m.ctrl.Delete(ctx, id) })
		}
		return m, nil
	case "e":
		if it, ok := m.list.SelectedItem().(listItem); ok {
			m.form = EditForm(m.tr, it.todo, time.Local)
			m.mode = modeForm
		}
		return m, nil
	case "a":
		m.form = NewForm(m.tr)
		m.mode = modeForm
		return m, nil
	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.ctrl.State().Query)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "r":
		return m, tea.Batch(m.run(m.ctrl.Load), m.refreshStats())
	case "t":
		m.prefs.DarkMode = !m.prefs.DarkMode
		m.theme = ThemeFor(m.prefs.DarkMode)
		m.list.SetDelegate(m.delegate())
		m.savePrefs()
		return m, nil
	case "l":
		m.prefs.Language = m.prefs.Language.Next()
		m.tr = i18n.New(m.prefs.Language)
		m.search.Placeholder = m.tr.T("searchPlaceholder")
		m.list.SetDelegate(m.delegate())
		m.savePrefs()
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7":
		f := app.Filters[key[0]-'1']
		return m, m.run(func(ctx context.Context) error { return m.ctrl.ApplyFilter(ctx, f) })
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			query := m.search.Value()
			m.search.Blur()
			m.mode = modeList
			return m, m.run(func(ctx context.Context) error { return m.ctrl.Search(ctx, query) })
		case "esc":
			m.search.SetValue("")
			m.search.Blur()
			m.mode = modeList
			return m, m.run(func(ctx context.Context) error { return m.ctrl.Search(ctx, "") })
		}
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) selectedID() (int64, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return 0, false
	}
	return it.todo.ID, true
}

// sync copies the controller's derived view into the list, keeping the
// cursor on the same todo when it is still shown.
func (m *Model) sync() {
	selected, hadSelection := m.selectedID()
	todos := m.ctrl.State().Todos
	items := make([]list.Item, 0, len(todos))
	cursor := 0
	for i, td := range todos {
		items = append(items, listItem{todo: td})
		if hadSelection && td.ID == selected {
			cursor = i
		}
	}
	m.list.SetItems(items)
	m.list.Select(cursor)
}

func (m *Model) resize() {
	h := m.height - 16
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save preferences", "error", err)
	}
}

func (m Model) View() string {
	st := m.ctrl.State()
	th := m.theme

	header := th.Title.Render(m.tr.T("appTitle")) + "  " + th.Subtitle.Render(m.tr.T("appSubtitle"))
	toggles := th.Muted.Render("[l] " + m.tr.T("switchLanguage") + "  [t] " + m.themeLabel())
	sections := []string{header + "   " + toggles}

	if stats := RenderStats(th, m.tr, st.Stats); stats != "" {
		sections = append(sections, stats)
	}
	sections = append(sections, m.filterBar(st))

	if m.mode == modeForm {
		sections = append(sections, m.form.View(th))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.mode == modeSearch {
		sections = append(sections, m.search.View())
	}
	if st.Failure != "" {
		sections = append(sections, th.Error.Render("✖ "+m.tr.T(st.Failure)))
	}

	switch {
	case st.Loading && len(st.Todos) == 0:
		sections = append(sections, th.Muted.Render(m.tr.T("loading")))
	case len(st.Todos) == 0:
		empty := "noTodos"
		if st.Query != "" || st.Filter != app.FilterAll {
			empty = "noMatching"
		}
		sections = append(sections, th.Muted.Render(m.tr.T(empty)))
	default:
		sections = append(sections, m.list.View())
	}

	help := "listHelp"
	if m.mode == modeSearch {
		help = "searchHelp"
	}
	sections = append(sections, th.Help.Render(m.tr.T(help)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) themeLabel() string {
	if m.theme.Dark {
		return m.tr.T("lightMode")
	}
	return m.tr.T("darkMode")
}

func (m Model) filterBar(st app.State) string {
	th := m.theme
	parts := make([]string, 0, len(app.Filters)+1)
	for i, f := range app.Filters {
		label := string(rune('1'+i)) + " " + m.tr.T(string(f))
		if f == st.Filter && st.Query == "" {
			parts = append(parts, th.Active.Render(label))
			continue
		}
		parts = append(parts, th.Muted.Render(label))
	}
	if st.Query != "" {
		parts = append(parts, th.Accent.Render("/ "+st.Query))
	}
	return strings.Join(parts, "  ")
}
