// Package tui provides the interactive terminal catalog browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/lumina/internal/book"
	"github.com/lepinkainen/lumina/internal/controller"
	"github.com/lepinkainen/lumina/internal/navigate"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 24
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// Catalog is the controller surface the browser drives.
type Catalog interface {
	Snapshot() controller.Snapshot
	Search(ctx context.Context, query string) error
	SearchCategory(ctx context.Context, category controller.Category) error
	Retry(ctx context.Context) error
	Reset()
	AddBook(d controller.Draft) (book.Book, error)
	ToggleRead(id string) (bool, error)
	IsRead(id string) bool
	Purchase(ctx context.Context, b book.Book) (string, error)
	Share(ctx context.Context, b book.Book) (navigate.ShareResult, error)
	GrantAdmin(password string) error
	IsAdmin() bool
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeAdmin
	modeAdd
	modeDetail
)

type searchDoneMsg struct {
	query string
	err   error
}

type actionDoneMsg struct {
	status string
	err    error
}

type model struct {
	ctx     context.Context
	catalog Catalog

	list     list.Model
	search   textinput.Model
	password textinput.Model
	form     addForm

	mode      mode
	snapshot  controller.Snapshot
	pending   int
	status    string
	statusErr bool
}

func newModel(ctx context.Context, catalog Catalog) *model {
	l := list.New(nil, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	search := textinput.New()
	search.Placeholder = "Search by title, author, topic or mood"
	search.CharLimit = 200
	search.Width = 48

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	m := &model{
		ctx:      ctx,
		catalog:  catalog,
		list:     l,
		search:   search,
		password: password,
		form:     newAddForm(),
	}
	m.refresh()
	return m
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) refresh() {
	m.snapshot = m.catalog.Snapshot()

	idx := m.list.Index()
	items := make([]list.Item, len(m.snapshot.Books))
	for i, b := range m.snapshot.Books {
		items[i] = bookItem{Book: b, read: m.catalog.IsRead(b.ID)}
	}
	m.list.SetItems(items)
	if idx < len(items) {
		m.list.Select(idx)
	}
}

func (m *model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *model) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}

func (m *model) selected() (book.Book, bool) {
	item, ok := m.list.SelectedItem().(bookItem)
	if !ok {
		return book.Book{}, false
	}
	return item.Book, true
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(clamp(defaultListWidth, msg.Width-4, 40), clamp(defaultListHeight, msg.Height-8, 6))
		return m, nil

	case searchDoneMsg:
		m.pending--
		m.refresh()
		m.list.Select(0)
		switch {
		case msg.err != nil:
			m.setError("Search for %q failed: %v", msg.query, msg.err)
		case m.snapshot.Query == msg.query:
			m.setStatus("%d books for %q", len(m.snapshot.Books), msg.query)
		}
		return m, nil

	case actionDoneMsg:
		m.refresh()
		if msg.err != nil {
			m.setError("%s", msg.err)
		} else {
			m.setStatus("%s", msg.status)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeAdmin:
			return m.updateAdmin(msg)
		case modeAdd:
			return m.updateAdd(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeAdmin:
		m.password, cmd = m.password.Update(msg)
	case modeAdd:
		cmd = m.form.update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m *model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		m.search.SetValue("")
		return m, m.search.Focus()
	case "1", "2", "3", "4":
		category := controller.Categories[int(key[0]-'1')]
		return m, m.startSearch(category.Query(), func(ctx context.Context) error {
			return m.catalog.SearchCategory(ctx, category)
		})
	case "x":
		m.catalog.Reset()
		m.refresh()
		m.list.Select(0)
		m.setStatus("Showing your collection")
		return m, nil
	case "a":
		if m.catalog.IsAdmin() {
			m.mode = modeAdd
			return m, m.form.open()
		}
		m.mode = modeAdmin
		m.password.SetValue("")
		return m, m.password.Focus()
	case "enter":
		if m.snapshot.State == controller.Error {
			return m, m.startSearch(controller.RetryQuery, m.catalog.Retry)
		}
		if _, ok := m.selected(); ok {
			m.mode = modeDetail
		}
		return m, nil
	case "r", "b", "s":
		return m, m.act(key)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc", "enter", "q", "backspace":
		m.mode = modeBrowse
		return m, nil
	case "r", "b", "s":
		return m, m.act(key)
	}
	return m, nil
}

// act runs a per-book action on the selected book.
func (m *model) act(key string) tea.Cmd {
	b, ok := m.selected()
	if !ok {
		return nil
	}

	switch key {
	case "r":
		read, err := m.catalog.ToggleRead(b.ID)
		m.refresh()
		switch {
		case err != nil:
			m.setError("Could not save read state: %v", err)
		case read:
			m.setStatus("Marked %q as read", b.Title)
		default:
			m.setStatus("Marked %q as unread", b.Title)
		}
		return nil
	case "b":
		m.setStatus("Opening store for %q...", b.Title)
		return func() tea.Msg {
			url, err := m.catalog.Purchase(m.ctx, b)
			return actionDoneMsg{status: "Opened " + url, err: err}
		}
	case "s":
		return func() tea.Msg {
			result, err := m.catalog.Share(m.ctx, b)
			if err != nil {
				return actionDoneMsg{err: fmt.Errorf("share unavailable, link: %s", b.PurchaseTarget())}
			}
			if result.Method == navigate.ShareClipboard {
				return actionDoneMsg{status: "Copied to clipboard"}
			}
			return actionDoneMsg{status: "Shared"}
		}
	}
	return nil
}

func (m *model) startSearch(query string, run func(context.Context) error) tea.Cmd {
	m.pending++
	m.snapshot.State = controller.Loading
	m.snapshot.Query = query
	m.setStatus("Searching for %q...", query)

	return func() tea.Msg {
		return searchDoneMsg{query: query, err: run(m.ctx)}
	}
}

func (m *model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.search.Value())
		m.search.Blur()
		m.mode = modeBrowse
		if query == "" {
			return m, nil
		}
		return m, m.startSearch(query, func(ctx context.Context) error {
			return m.catalog.Search(ctx, query)
		})
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *model) updateAdmin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.password.Blur()
		m.mode = modeBrowse
		return m, nil
	case "enter":
		err := m.catalog.GrantAdmin(m.password.Value())
		m.password.SetValue("")
		m.password.Blur()
		if err != nil {
			m.mode = modeBrowse
			m.setError("Wrong password")
			return m, nil
		}
		m.mode = modeAdd
		m.setStatus("Admin unlocked")
		return m, m.form.open()
	}

	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

func (m *model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil
	case "tab", "down":
		return m, m.form.move(1)
	case "shift+tab", "up":
		return m, m.form.move(-1)
	case "enter":
		if !m.form.last() {
			return m, m.form.move(1)
		}
		return m, m.submitForm()
	case "ctrl+s":
		return m, m.submitForm()
	}
	return m, m.form.update(msg)
}

func (m *model) submitForm() tea.Cmd {
	draft, err := m.form.draft()
	if err != nil {
		m.setError("%v", err)
		return nil
	}

	b, err := m.catalog.AddBook(draft)
	m.mode = modeBrowse
	m.refresh()
	if err != nil {
		if errors.Is(err, controller.ErrAdminLocked) {
			m.setError("Admin access required")
		} else {
			m.setError("Could not add book: %v", err)
		}
		return nil
	}

	m.list.Select(0)
	m.setStatus("Added %q", b.Title)
	return nil
}

func (m *model) View() string {
	sections := []string{headerStyle.Render("Lumina"), m.stateLine()}

	switch m.mode {
	case modeAdd:
		sections = append(sections, m.form.view())
	case modeDetail:
		sections = append(sections, m.detailView())
	default:
		if m.mode == modeSearch {
			sections = append(sections, inputStyle.Render("Search: "+m.search.View()))
		}
		if m.mode == modeAdmin {
			sections = append(sections, inputStyle.Render("Admin password: "+m.password.View()))
		}
		sections = append(sections, m.listView())
	}

	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	sections = append(sections, helpStyle.Render(m.help()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *model) stateLine() string {
	switch m.snapshot.State {
	case controller.Loading:
		return stateStyle.Render(fmt.Sprintf("Searching for %q...", m.snapshot.Query))
	case controller.Success:
		return stateStyle.Render(fmt.Sprintf("Results for %q", m.snapshot.Query))
	case controller.Error:
		return errorStyle.Render("Something went wrong.")
	default:
		return stateStyle.Render(fmt.Sprintf("Your collection (%d books)", len(m.snapshot.Books)))
	}
}

func (m *model) listView() string {
	switch {
	case m.snapshot.State == controller.Loading:
		return emptyStyle.Render("Loading...")
	case m.snapshot.State == controller.Error:
		return emptyStyle.Render("We couldn't load books. Press enter to try again.")
	case len(m.snapshot.Books) == 0:
		return emptyStyle.Render(m.snapshot.EmptyMessage())
	}
	return m.list.View()
}

func (m *model) detailView() string {
	b, ok := m.selected()
	if !ok {
		return ""
	}

	read := "not read yet"
	if m.catalog.IsRead(b.ID) {
		read = "read"
	}

	return detailStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(b.Title),
		"by "+b.Author,
		formatMeta(b)+" | "+read,
		"",
		b.Description,
		"",
		helpStyle.Render("Buy: "+b.PurchaseTarget()),
		helpStyle.Render("Cover: "+b.CoverURL),
	))
}

func (m *model) help() string {
	switch m.mode {
	case modeSearch, modeAdmin:
		return "enter submit | esc cancel"
	case modeAdd:
		return "tab/up/down move | enter next | ctrl+s save | esc cancel"
	case modeDetail:
		return "r read | b buy | s share | esc back"
	}
	return "/ search | 1 tech | 2 mystery | 3 psychology | 4 sci-fi | enter details | r read | b buy | s share | a add | x reset | q quit"
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")).
			MarginBottom(1)

	inputStyle = lipgloss.NewStyle().
			MarginBottom(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true).
			Padding(1, 2)

	detailStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Width(defaultListWidth)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	statusStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("161")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Browse runs the interactive catalog browser until the user quits.
func Browse(ctx context.Context, catalog Catalog) error {
	if _, err := runProgram(newModel(ctx, catalog)); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
