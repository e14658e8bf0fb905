package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

var fixedNow = func() time.Time {
	return time.Date(2024, 3, 1, 9, 5, 7, 42_000_000, time.UTC)
}

func openMemory(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(Options{FailIDs: []int{102}, Now: fixedNow})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func bookIDs(books []domain.Book) []int {
	out := make([]int, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestOpen_MemorySample(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	books, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []int{101, 102, 103, 104, 105, 106, 107, 108, 109}
	if got := bookIDs(books); !reflect.DeepEqual(got, want) {
		t.Fatalf("List() ids = %v, want %v", got, want)
	}
	if books[0].Preface != DefaultPreface {
		t.Fatalf("preface = %q", books[0].Preface)
	}

	favs, _ := c.Favorites(ctx)
	if !reflect.DeepEqual(favs, []int{101, 103, 104}) {
		t.Fatalf("Favorites() = %v", favs)
	}
}

func TestCreate_AssignsNextID(t *testing.T) {
	c := openMemory(t)

	b, err := c.Create(context.Background(), domain.BookDraft{Title: "Optics", Author: "Anon"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.ID != 110 || b.Title != "Optics" {
		t.Fatalf("Create() = %+v, want id 110", b)
	}
	b2, _ := c.Create(context.Background(), domain.BookDraft{Title: "Waves", Author: "Anon"})
	if b2.ID != 111 {
		t.Fatalf("second Create() id = %d, want 111", b2.ID)
	}
}

func TestUpdate(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		book    domain.Book
		wantErr error
	}{
		{"accepted", domain.Book{ID: 101, Title: "Calculus I", Author: "Gilbert Strang"}, nil},
		{"rejected id", domain.Book{ID: 102, Title: "x"}, domain.ErrRejected},
		{"not in catalog", domain.Book{ID: 84, Title: "Frankenstein", Author: "Mary Shelley"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Update(ctx, tt.book)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if got.LastModified != "09:05:07.042" {
				t.Fatalf("LastModified = %q, want 09:05:07.042", got.LastModified)
			}
			if got.Title != tt.book.Title {
				t.Fatalf("Title = %q, want %q", got.Title, tt.book.Title)
			}
		})
	}
}

func TestUpdate_UnknownIDNotStored(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	if _, err := c.Update(ctx, domain.Book{ID: 84, Title: "Frankenstein"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	books, _ := c.List(ctx)
	if len(books) != 9 {
		t.Fatalf("List() = %v, want the 9 sample books", bookIDs(books))
	}
}

func TestCreate_SkipsReservedIDs(t *testing.T) {
	c := openMemory(t)

	c.Reserve(1342)
	c.Reserve(84) // lower reservations never shrink the range
	b, err := c.Create(context.Background(), domain.BookDraft{Title: "Optics", Author: "Anon"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.ID != 1343 {
		t.Fatalf("Create() id = %d, want 1343", b.ID)
	}
}

func TestDelete(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	if err := c.Delete(ctx, []int{101, 102}); !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("Delete with 102 error = %v, want ErrRejected", err)
	}
	if books, _ := c.List(ctx); len(books) != 9 {
		t.Fatalf("rejected batch removed books: %v", bookIDs(books))
	}

	if err := c.Delete(ctx, []int{101, 103, 555}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	books, _ := c.List(ctx)
	if got := bookIDs(books); !reflect.DeepEqual(got, []int{102, 104, 105, 106, 107, 108, 109}) {
		t.Fatalf("List() after delete = %v", got)
	}
	if favs, _ := c.Favorites(ctx); !reflect.DeepEqual(favs, []int{104}) {
		t.Fatalf("Favorites() after delete = %v, want [104]", favs)
	}
}

func TestCanceledContext(t *testing.T) {
	c := openMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("List() error = %v, want context.Canceled", err)
	}
	if err := c.Delete(ctx, []int{101}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Delete() error = %v, want context.Canceled", err)
	}
}

func TestBolt_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	ctx := context.Background()

	c, err := Open(Options{Path: path, Now: fixedNow})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	created, err := c.Create(ctx, domain.BookDraft{Title: "Optics", Author: "Anon", Preface: "p"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := c.Update(ctx, domain.Book{ID: 105, Title: "Physics", Author: "Steven Holzner"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := c.Delete(ctx, []int{101}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(Options{Path: path})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	books, _ := reopened.List(ctx)
	byID := map[int]domain.Book{}
	for _, b := range books {
		byID[b.ID] = b
	}
	if _, ok := byID[101]; ok {
		t.Fatal("deleted book 101 came back")
	}
	if got := byID[created.ID]; got != created {
		t.Fatalf("created book = %+v, want %+v", got, created)
	}
	if got := byID[105]; got.Title != "Physics" || got.LastModified != "09:05:07.042" {
		t.Fatalf("updated book = %+v", got)
	}
	if favs, _ := reopened.Favorites(ctx); !reflect.DeepEqual(favs, []int{103, 104}) {
		t.Fatalf("Favorites() = %v, want [103 104]", favs)
	}
}

func TestOpen_SeedFile(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	seed := []byte(`books:
  - id: 7
    title: Optics
    author: Anon
  - id: 3
    title: Waves
    author: Anon
    preface: About waves
favorites: [3]
`)
	if err := os.WriteFile(seedPath, seed, 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Open(Options{Path: filepath.Join(dir, "c.db"), SeedFile: seedPath})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer c.Close()

	books, _ := c.List(context.Background())
	if got := bookIDs(books); !reflect.DeepEqual(got, []int{3, 7}) {
		t.Fatalf("List() ids = %v, want [3 7]", got)
	}
	if books[0].Preface != "About waves" || books[1].Preface != DefaultPreface {
		t.Fatalf("prefaces = %q, %q", books[0].Preface, books[1].Preface)
	}
	if favs, _ := c.Favorites(context.Background()); !reflect.DeepEqual(favs, []int{3}) {
		t.Fatalf("Favorites() = %v, want [3]", favs)
	}
}

func TestOpen_BadSeedFile(t *testing.T) {
	if _, err := Open(Options{SeedFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatal("Open() with a missing seed file succeeded")
	}
}
