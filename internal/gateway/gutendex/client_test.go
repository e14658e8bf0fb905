package gutendex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

const page = `{
  "count": 2,
  "next": "https://gutendex.com/books/?page=2",
  "previous": null,
  "results": [
    {"id": 84, "title": "Frankenstein", "authors": [{"name": "Shelley, Mary Wollstonecraft", "birth_year": 1797}, {"name": "Other"}]},
    {"id": 10, "title": "The King James Version of the Bible", "authors": []}
  ]
}`

func TestListBooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books/" {
			t.Errorf("path = %q, want /books/", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, nil)
	books, err := c.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("ListBooks() error = %v", err)
	}

	want := []domain.Book{
		{ID: 84, Title: "Frankenstein", Author: "Shelley, Mary Wollstonecraft", Preface: "field for preface"},
		{ID: 10, Title: "The King James Version of the Bible", Author: "unknown", Preface: "field for preface"},
	}
	if len(books) != len(want) {
		t.Fatalf("len(books) = %d, want %d", len(books), len(want))
	}
	for i := range want {
		if books[i] != want[i] {
			t.Errorf("books[%d] = %+v, want %+v", i, books[i], want[i])
		}
	}
}

func TestListBooks_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantIs  error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "down", http.StatusBadGateway)
			},
			wantIs: domain.ErrSourceUnavailable,
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second, nil).ListBooks(context.Background())
			if err == nil {
				t.Fatal("ListBooks() error = nil")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Fatalf("ListBooks() error = %v, want %v", err, tt.wantIs)
			}
		})
	}
}

func TestListBooks_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, nil).ListBooks(context.Background())
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("ListBooks() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestMapBook_EmptyAuthorName(t *testing.T) {
	b := MapBook(Result{ID: 1, Title: "t", Authors: []Person{{Name: ""}}})
	if b.Author != "unknown" {
		t.Fatalf("Author = %q, want unknown", b.Author)
	}
}
