package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/status"
	"github.com/mmcdole/shelf/internal/tui/components"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// ChromeHeight is the number of lines around the book list
const ChromeHeight = 5

var (
	loadingText = map[domain.Category]string{
		domain.CategoryLoad:   "Loading books...",
		domain.CategoryCreate: "Saving book...",
		domain.CategoryUpdate: "Updating book...",
		domain.CategoryDelete: "Deleting books...",
	}
	rejectedText = map[domain.Category]string{
		domain.CategoryLoad:   "Failed to load books",
		domain.CategoryCreate: "Book saving failed",
		domain.CategoryUpdate: "Book updating failed",
		domain.CategoryDelete: "Book deleting failed",
	}
)

// Options configures the model
type Options struct {
	Source          domain.Source
	SuggestionLimit int
	Logger          *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	session *library.Session
	logger  *slog.Logger

	mode            domain.ListMode
	source          domain.Source
	cursor          int
	suggestionLimit int

	search  components.InputModal
	form    components.BookForm
	spinner spinner.Model

	coordinators map[domain.Category]*status.Coordinator
	stops        []func()

	confirmDelete bool
	notice        string

	width  int
	height int
}

// NewModel creates the model over session
func NewModel(session *library.Session, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	source := opts.Source
	if !source.Valid() {
		source = domain.SourceLocal
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := Model{
		session:         session,
		logger:          logger,
		source:          source,
		suggestionLimit: opts.SuggestionLimit,
		search:          components.NewInputModal("title, 3+ characters"),
		form:            components.NewBookForm(),
		spinner:         sp,
		coordinators:    make(map[domain.Category]*status.Coordinator, len(domain.Categories)),
	}
	for _, c := range domain.Categories {
		coord, stop := session.Coordinator(c)
		m.coordinators[c] = coord
		m.stops = append(m.stops, stop)
	}
	return m
}

// Close detaches the model from the session
func (m Model) Close() {
	for _, stop := range m.stops {
		stop()
	}
}

// Init starts the initial load
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, LoadCmd(m.session, m.source))
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case BookCreatedMsg:
		m.settled(domain.CategoryCreate)
		return m, nil

	case OperationDoneMsg:
		if msg.Err != nil {
			m.logger.Debug("operation returned an error", "category", msg.Category, "error", msg.Err)
		}
		m.settled(msg.Category)
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.form.IsVisible():
			return m.updateForm(msg)
		case m.search.IsVisible():
			return m.updateSearch(msg)
		case m.confirmDelete:
			return m.updateConfirm(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// settled turns a coordinator success signal into a one-shot notice.
func (m *Model) settled(category domain.Category) {
	m.clampCursor()

	c := m.coordinators[category]
	if c == nil || !c.Succeeded() {
		return
	}
	c.Reset()

	switch category {
	case domain.CategoryLoad:
		m.notice = fmt.Sprintf("Loaded %d books", len(m.session.FilteredIDs(domain.ListAll)))
	case domain.CategoryCreate:
		if id, ok := m.session.LastSavedID(); ok {
			m.notice = fmt.Sprintf("Book #%d saved", id)
		}
	case domain.CategoryUpdate:
		m.notice = "Book updated"
	case domain.CategoryDelete:
		m.notice = "Books deleted"
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	ids := m.session.FilteredIDs(m.mode)

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, Keys.Down):
		if m.cursor < len(ids)-1 {
			m.cursor++
		}
	case key.Matches(msg, Keys.Home):
		m.cursor = 0
	case key.Matches(msg, Keys.End):
		m.cursor = max(len(ids)-1, 0)

	case key.Matches(msg, Keys.Escape):
		for _, c := range domain.Categories {
			m.session.ResetStatus(c)
		}

	case key.Matches(msg, Keys.SwitchMode):
		if m.mode == domain.ListAll {
			m.mode = domain.ListFavorites
		} else {
			m.mode = domain.ListAll
		}
		m.cursor = 0

	case key.Matches(msg, Keys.Search):
		raw, _ := m.session.Search()
		m.search.Show("Search titles", raw)
		m.refreshHints()

	case key.Matches(msg, Keys.Favorite):
		if id, ok := m.current(ids); ok {
			m.session.ToggleFavorite(id)
			m.clampCursor()
		}

	case key.Matches(msg, Keys.Select):
		if id, ok := m.current(ids); ok {
			if v, ok := m.session.BookView(id); ok && v.IsSelectedForDeleting {
				m.session.Deselect(id)
			} else {
				m.session.Select(id)
			}
		}
	case key.Matches(msg, Keys.SelectAll):
		m.session.Select(ids...)
	case key.Matches(msg, Keys.DeselectAll):
		m.session.DeselectAll()

	case key.Matches(msg, Keys.Delete):
		if m.session.AnySelected() {
			m.confirmDelete = true
		}

	case key.Matches(msg, Keys.New):
		m.session.ResetStatus(domain.CategoryCreate)
		m.form.ShowNew()
	case key.Matches(msg, Keys.Edit):
		if id, ok := m.current(ids); ok {
			if b, err := m.session.Book(id); err == nil {
				m.session.ResetStatus(domain.CategoryUpdate)
				m.form.ShowEdit(b)
			}
		}

	case key.Matches(msg, Keys.SwitchSource):
		if m.source == domain.SourceLocal {
			m.source = domain.SourceRemote
		} else {
			m.source = domain.SourceLocal
		}
		m.cursor = 0
		return m, LoadCmd(m.session, m.source)
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Confirm):
		m.confirmDelete = false
		ids := append([]int(nil), m.session.SelectedIDs()...)
		return m, DeleteCmd(m.session, ids)
	case key.Matches(msg, Keys.Deny):
		m.confirmDelete = false
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.search.Value()
	modal, cmd, submitted, canceled := m.search.Update(msg)
	m.search = modal

	switch {
	case canceled:
		m.session.ClearSearch()
	case submitted:
		m.search.Hide()
	case m.search.Value() != before:
		m.session.SetSearch(m.search.Value())
		m.refreshHints()
	}
	m.cursor = 0
	return m, cmd
}

// refreshHints fills the search box suggestions for the current input.
func (m *Model) refreshHints() {
	value := m.search.Value()
	switch kind, _ := search.Classify(value); kind {
	case search.QueryEmpty:
		m.search.SetHints("", nil)
	case search.QueryTooShort:
		m.search.SetHints(fmt.Sprintf("type at least %d characters", search.MinQueryLength), nil)
	default:
		var titles []string
		for _, s := range m.session.Suggest(value, m.suggestionLimit) {
			titles = append(titles, s.Book.Title)
		}
		if len(titles) > 0 {
			m.search.SetHints("", titles)
			return
		}
		for _, b := range m.session.Alternates(value, m.suggestionLimit) {
			titles = append(titles, b.Title)
		}
		if len(titles) == 0 {
			m.search.SetHints("no books found", nil)
			return
		}
		m.search.SetHints("no books found, did you mean:", titles)
	}
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form, cmd, submitted := m.form.Update(msg)
	m.form = form
	if !submitted {
		return m, cmd
	}

	m.form.Hide()
	if m.form.Editing() {
		return m, UpdateCmd(m.session, m.form.Book())
	}
	return m, CreateCmd(m.session, m.form.Draft())
}

func (m Model) current(ids []int) (int, bool) {
	if m.cursor < 0 || m.cursor >= len(ids) {
		return 0, false
	}
	return ids[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.session.FilteredIDs(m.mode))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the application
func (m Model) View() string {
	switch {
	case m.form.IsVisible():
		return m.overlay(m.form.View())
	case m.search.IsVisible():
		return m.overlay(m.search.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderList(),
		m.renderStatus(),
		m.renderHelp(),
	)
}

func (m Model) overlay(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderHeader() string {
	parts := []string{
		styles.TitleStyle.Render("shelf"),
		styles.BadgeStyle.Render(m.mode.String()),
		styles.DimBadgeStyle.Render(string(m.source)),
	}
	if raw, ok := m.session.Search(); ok && strings.TrimSpace(raw) != "" {
		filter := "search: " + strings.TrimSpace(raw)
		if m.mode == domain.ListFavorites {
			filter += " (ignored in favorites)"
		}
		parts = append(parts, styles.AccentStyle.Render(filter))
	}
	if n := len(m.session.SelectedIDs()); n > 0 {
		parts = append(parts, styles.MarkedStyle.Render(fmt.Sprintf("%d marked", n)))
	}
	return strings.Join(parts, " ") + "\n"
}

func (m Model) renderList() string {
	ids := m.session.FilteredIDs(m.mode)
	if len(ids) == 0 {
		if raw, ok := m.session.Search(); ok && m.mode == domain.ListAll {
			if kind, _ := search.Classify(raw); kind == search.QueryTooShort {
				return styles.DimStyle.Render(fmt.Sprintf("  type at least %d characters to search", search.MinQueryLength))
			}
		}
		return styles.DimStyle.Render("  no books")
	}

	height := m.height - ChromeHeight
	if height <= 0 {
		height = len(ids)
	}
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(ids))

	width := m.width
	if width <= 0 {
		width = 80
	}

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		v, ok := m.session.BookView(ids[i])
		if !ok {
			continue
		}
		rows = append(rows, renderRow(v, i == m.cursor, width))
	}
	return strings.Join(rows, "\n")
}

func renderRow(v *domain.BookView, cursor bool, width int) string {
	box := styles.UncheckedBox
	if v.IsSelectedForDeleting {
		box = styles.MarkedStyle.Render(styles.CheckedBox)
	}
	star := styles.DimStyle.Render(styles.NoFavoriteChar)
	if v.IsAddedToFavorites {
		star = styles.FavoriteStyle.Render(styles.FavoriteChar)
	}

	text := fmt.Sprintf("%s - %s", v.Title, v.Author)
	if v.LastModified != "" {
		text += " (modified " + v.LastModified + ")"
	}
	text = styles.Truncate(text, width-12)

	style := styles.NormalItemStyle
	if cursor {
		style = styles.CursorItemStyle
	}
	return box + " " + star + style.Render(styles.Pad(text, width-12))
}

func (m Model) renderStatus() string {
	var lines []string
	for _, c := range domain.Categories {
		switch m.session.Status(c) {
		case domain.StatusLoading:
			lines = append(lines, m.spinner.View()+" "+loadingText[c])
		case domain.StatusRejected:
			lines = append(lines, styles.ErrorStyle.Render(rejectedText[c]+" (esc to dismiss)"))
		}
	}
	if m.confirmDelete {
		lines = append(lines, styles.AccentStyle.Render(
			fmt.Sprintf("Delete %d marked books? (y/n)", len(m.session.SelectedIDs()))))
	}
	if m.notice != "" {
		lines = append(lines, styles.SuccessStyle.Render(m.notice))
	}
	return "\n" + strings.Join(lines, "\n")
}

func (m Model) renderHelp() string {
	bindings := []key.Binding{
		Keys.SwitchMode, Keys.Search, Keys.Favorite, Keys.Select, Keys.SelectAll,
		Keys.Delete, Keys.New, Keys.Edit, Keys.SwitchSource, Keys.Quit,
	}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = styles.HelpKeyStyle.Render(h.Key) + " " + styles.HelpDescStyle.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}
