package components

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/shelf/internal/domain"
)

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.BookDraft
		ok    bool
	}{
		{"valid", domain.BookDraft{Title: "Optics", Author: "Ann"}, true},
		{"empty preface allowed", domain.BookDraft{Title: "abc", Author: "xyz", Preface: ""}, true},
		{"short title", domain.BookDraft{Title: "ab", Author: "Ann"}, false},
		{"short author", domain.BookDraft{Title: "Optics", Author: "Al"}, false},
		{"whitespace padded", domain.BookDraft{Title: "  ab  ", Author: "Ann"}, false},
		{"multibyte", domain.BookDraft{Title: "ééé", Author: "Ann"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraft(tt.draft)
			if tt.ok && err != nil {
				t.Fatalf("ValidateDraft() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, domain.ErrInvalidDraft) {
				t.Fatalf("ValidateDraft() = %v, want ErrInvalidDraft", err)
			}
		})
	}
}

func typeText(f BookForm, s string) BookForm {
	for _, r := range s {
		f, _, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return f
}

func press(f BookForm, k tea.KeyType) (BookForm, bool) {
	f, _, submitted := f.Update(tea.KeyMsg{Type: k})
	return f, submitted
}

func TestBookForm_SubmitNew(t *testing.T) {
	f := NewBookForm()
	f.ShowNew()

	f = typeText(f, "ab")
	f, _ = press(f, tea.KeyEnter)
	f = typeText(f, "Ann")
	f, _ = press(f, tea.KeyEnter)

	f, submitted := press(f, tea.KeyEnter)
	if submitted {
		t.Fatal("form submitted with a two character title")
	}
	if !errors.Is(f.Err(), domain.ErrInvalidDraft) {
		t.Fatalf("Err() = %v, want ErrInvalidDraft", f.Err())
	}

	f, _ = press(f, tea.KeyShiftTab)
	f, _ = press(f, tea.KeyShiftTab)
	f = typeText(f, "c")
	f, submitted = press(f, tea.KeyCtrlS)
	if !submitted {
		t.Fatalf("form not submitted, Err() = %v", f.Err())
	}
	if got := f.Draft(); got.Title != "abc" || got.Author != "Ann" {
		t.Fatalf("Draft() = %+v", got)
	}
	if f.Editing() {
		t.Fatal("Editing() = true for a new book")
	}
}

func TestBookForm_EditKeepsID(t *testing.T) {
	f := NewBookForm()
	f.ShowEdit(domain.Book{ID: 101, Title: "Calculus", Author: "Gilbert Strang", LastModified: "10:00:00.000"})

	f = typeText(f, "!")
	f, submitted := press(f, tea.KeyCtrlS)
	if !submitted {
		t.Fatalf("form not submitted, Err() = %v", f.Err())
	}
	b := f.Book()
	if b.ID != 101 || b.Title != "Calculus!" || b.LastModified != "10:00:00.000" {
		t.Fatalf("Book() = %+v", b)
	}
}

func TestBookForm_EscHides(t *testing.T) {
	f := NewBookForm()
	f.ShowNew()
	f, _ = press(f, tea.KeyEsc)
	if f.IsVisible() {
		t.Fatal("form visible after esc")
	}
}
