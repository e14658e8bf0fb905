package components

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// MinFieldLength is the shortest accepted title or author.
const MinFieldLength = 3

const (
	fieldTitle = iota
	fieldAuthor
	fieldPreface
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Author", "Preface"}

// BookForm edits the fields of a new or existing book.
type BookForm struct {
	visible bool
	editID  int // 0 for a new book
	base    domain.Book
	inputs  [fieldCount]textinput.Model
	focus   int
	err     error
}

// NewBookForm creates a hidden form
func NewBookForm() BookForm {
	var f BookForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 200
		ti.Width = modalWidth - 12
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		f.inputs[i] = ti
	}
	f.inputs[fieldPreface].Placeholder = "optional"
	return f
}

// ShowNew opens the form empty.
func (f *BookForm) ShowNew() {
	f.open(domain.Book{})
}

// ShowEdit opens the form filled with book.
func (f *BookForm) ShowEdit(book domain.Book) {
	f.open(book)
}

func (f *BookForm) open(book domain.Book) {
	f.visible = true
	f.editID = book.ID
	f.base = book
	f.err = nil
	f.inputs[fieldTitle].SetValue(book.Title)
	f.inputs[fieldAuthor].SetValue(book.Author)
	f.inputs[fieldPreface].SetValue(book.Preface)
	f.setFocus(fieldTitle)
}

// Hide dismisses the form
func (f *BookForm) Hide() {
	f.visible = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// IsVisible returns whether the form is shown
func (f BookForm) IsVisible() bool {
	return f.visible
}

// Editing reports whether the form edits an existing book.
func (f BookForm) Editing() bool {
	return f.editID != 0
}

// Draft returns the entered fields.
func (f BookForm) Draft() domain.BookDraft {
	return domain.BookDraft{
		Title:   f.inputs[fieldTitle].Value(),
		Author:  f.inputs[fieldAuthor].Value(),
		Preface: f.inputs[fieldPreface].Value(),
	}
}

// Book returns the edited record, keeping the id and any field the form
// does not show.
func (f BookForm) Book() domain.Book {
	b := f.base
	d := f.Draft()
	b.Title, b.Author, b.Preface = d.Title, d.Author, d.Preface
	return b
}

// Err returns the last validation error.
func (f BookForm) Err() error {
	return f.err
}

// ValidateDraft checks the field rules the form enforces before a draft
// is dispatched. Errors wrap domain.ErrInvalidDraft.
func ValidateDraft(d domain.BookDraft) error {
	var errs []error
	if utf8.RuneCountInString(strings.TrimSpace(d.Title)) < MinFieldLength {
		errs = append(errs, fmt.Errorf("%w: title must be at least %d characters", domain.ErrInvalidDraft, MinFieldLength))
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Author)) < MinFieldLength {
		errs = append(errs, fmt.Errorf("%w: author must be at least %d characters", domain.ErrInvalidDraft, MinFieldLength))
	}
	return errors.Join(errs...)
}

func (f *BookForm) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// Update handles input events. submitted is true once the fields pass
// validation after enter on the last field or ctrl+s.
func (f BookForm) Update(msg tea.Msg) (form BookForm, cmd tea.Cmd, submitted bool) {
	if !f.visible {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			f.Hide()
			return f, nil, false
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return f, nil, false
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return f, nil, false
		case "enter":
			if f.focus < fieldCount-1 {
				f.setFocus(f.focus + 1)
				return f, nil, false
			}
			return f.submit()
		case "ctrl+s":
			return f.submit()
		}
	}

	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f BookForm) submit() (BookForm, tea.Cmd, bool) {
	f.err = ValidateDraft(f.Draft())
	return f, nil, f.err == nil
}

// View renders the form
func (f BookForm) View() string {
	if !f.visible {
		return ""
	}

	title := "New book"
	if f.Editing() {
		title = fmt.Sprintf("Edit book #%d", f.editID)
	}

	rows := []string{styles.ModalTitleStyle.Render(title)}
	for i, in := range f.inputs {
		label := styles.LabelStyle
		if i == f.focus {
			label = styles.FocusedLabelStyle
		}
		rows = append(rows, label.Render(fieldLabels[i])+in.View())
	}
	if f.err != nil {
		for _, line := range strings.Split(f.err.Error(), "\n") {
			rows = append(rows, styles.ErrorStyle.Render(line))
		}
	}
	rows = append(rows, "", styles.DimStyle.Render("tab next · ctrl+s save · esc cancel"))

	return styles.ModalStyle.Width(modalWidth).Render(strings.Join(rows, "\n"))
}
