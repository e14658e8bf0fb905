package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
)

// Command factories for async operations

const (
	loadTimeout  = 60 * time.Second
	writeTimeout = 30 * time.Second
)

// LoadCmd loads books and favorites from source
func LoadCmd(s *library.Session, source domain.Source) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		err := s.Load(ctx, source)
		return OperationDoneMsg{Category: domain.CategoryLoad, Err: err}
	}
}

// CreateCmd saves a new book
func CreateCmd(s *library.Session, draft domain.BookDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		book, err := s.Create(ctx, draft)
		if err != nil {
			return OperationDoneMsg{Category: domain.CategoryCreate, Err: err}
		}
		return BookCreatedMsg{Book: book}
	}
}

// UpdateCmd saves changes to an existing book
func UpdateCmd(s *library.Session, book domain.Book) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		err := s.Update(ctx, book)
		return OperationDoneMsg{Category: domain.CategoryUpdate, Err: err}
	}
}

// DeleteCmd deletes the given books
func DeleteCmd(s *library.Session, ids []int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		err := s.Delete(ctx, ids)
		return OperationDoneMsg{Category: domain.CategoryDelete, Err: err}
	}
}
