package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/tui/styles"
)

const modalWidth = 48

// InputModal is a one-line text input with an optional list of hints
// rendered below it, used for the title search box.
type InputModal struct {
	visible bool
	title   string
	input   textinput.Model
	hints   []string
	note    string
}

// NewInputModal creates a new input modal
func NewInputModal(placeholder string) InputModal {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.Width = modalWidth - 2
	ti.Prompt = "/ "
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{input: ti}
}

// Show displays the modal with a title and an initial value
func (m *InputModal) Show(title, value string) {
	m.visible = true
	m.title = title
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the current input value
func (m InputModal) Value() string {
	return m.input.Value()
}

// SetHints replaces the lines shown under the input. note is rendered
// dimmed above them and may be empty.
func (m *InputModal) SetHints(note string, hints []string) {
	m.note = note
	m.hints = hints
}

// Update handles input events. submitted is true on enter; canceled is
// true on esc, after which the modal is hidden.
func (m InputModal) Update(msg tea.Msg) (modal InputModal, cmd tea.Cmd, submitted, canceled bool) {
	if !m.visible {
		return m, nil, false, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, true, false
		case "esc":
			m.Hide()
			return m, nil, false, true
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd, false, false
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	rows := []string{
		styles.ModalTitleStyle.Render(m.title),
		m.input.View(),
	}
	if m.note != "" {
		rows = append(rows, "", styles.DimStyle.Render(m.note))
	}
	for _, h := range m.hints {
		rows = append(rows, "  "+styles.SubtitleStyle.Render(styles.Truncate(h, modalWidth-2)))
	}

	return styles.ModalStyle.Width(modalWidth).Render(strings.Join(rows, "\n"))
}
