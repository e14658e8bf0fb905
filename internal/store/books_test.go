package store

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/mmcdole/shelf/internal/domain"
)

func strp(s string) *string { return &s }

func sampleBooks() []domain.Book {
	return []domain.Book{
		{ID: 101, Title: "Calculus, part one", Author: "Gilbert Strang"},
		{ID: 102, Title: "DEMO", Author: "Author Name"},
		{ID: 103, Title: "Calculus, part two", Author: "Gilbert Strang"},
	}
}

func TestBooks_ReplaceAllKeepsInputOrder(t *testing.T) {
	s := NewBooks()
	s.InsertOne(domain.Book{ID: 1, Title: "old"})

	s.ReplaceAll(sampleBooks())

	if got, want := s.IDs(), []int{101, 102, 103}; !reflect.DeepEqual(got, want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	if _, ok := s.Get(1); ok {
		t.Fatal("ReplaceAll kept a record from the previous contents")
	}
}

func TestBooks_ReplaceAllCollapsesDuplicateIDs(t *testing.T) {
	s := NewBooks()
	s.ReplaceAll([]domain.Book{{ID: 1, Title: "a"}, {ID: 2}, {ID: 1, Title: "b"}})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if b, _ := s.Get(1); b.Title != "b" {
		t.Fatalf("Get(1).Title = %q, want b (last write wins)", b.Title)
	}
}

func TestBooks_InsertOneOverwrites(t *testing.T) {
	s := NewBooks()
	s.InsertOne(domain.Book{ID: 7, Title: "first"})
	s.InsertOne(domain.Book{ID: 7, Title: "second"})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if b, _ := s.Get(7); b.Title != "second" {
		t.Fatalf("Title = %q, want second", b.Title)
	}
}

func TestBooks_PatchOneMergesListedFields(t *testing.T) {
	s := NewBooks()
	s.ReplaceAll(sampleBooks())

	ok := s.PatchOne(101, domain.BookChanges{Title: strp("Calculus I")})
	if !ok {
		t.Fatal("PatchOne(101) = false, want true")
	}

	b, _ := s.Get(101)
	if b.Title != "Calculus I" {
		t.Fatalf("Title = %q, want Calculus I", b.Title)
	}
	if b.Author != "Gilbert Strang" {
		t.Fatalf("Author = %q, unlisted field must be untouched", b.Author)
	}
}

func TestBooks_PatchOneNeverChangesID(t *testing.T) {
	s := NewBooks()
	s.ReplaceAll(sampleBooks())

	// A full patch built from a record with a different id still only
	// targets the key it is applied to.
	other := domain.Book{ID: 999, Title: "moved?"}
	s.PatchOne(102, domain.ChangesFrom(other))

	b, ok := s.Get(102)
	if !ok || b.ID != 102 {
		t.Fatalf("Get(102) = %#v, %v; want record with id 102", b, ok)
	}
	if _, ok := s.Get(999); ok {
		t.Fatal("patch created a record under the foreign id")
	}
	if b.Title != "moved?" {
		t.Fatalf("Title = %q, want moved?", b.Title)
	}
}

func TestBooks_PatchOneMissingIsNoop(t *testing.T) {
	s := NewBooks()
	s.ReplaceAll(sampleBooks())
	rev := s.Revision()

	if s.PatchOne(555, domain.BookChanges{Title: strp("x")}) {
		t.Fatal("PatchOne on absent id = true, want false")
	}
	if s.Revision() != rev {
		t.Fatal("revision changed on a no-op patch")
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
}

func TestBooks_RemoveManyIsIdempotent(t *testing.T) {
	s := NewBooks()
	s.ReplaceAll(sampleBooks())

	removed := s.RemoveMany([]int{101, 555, 103})
	if want := []int{101, 103}; !reflect.DeepEqual(removed, want) {
		t.Fatalf("removed = %v, want %v", removed, want)
	}
	rev := s.Revision()

	if removed := s.RemoveMany([]int{101, 103}); removed != nil {
		t.Fatalf("second RemoveMany removed %v, want nothing", removed)
	}
	if s.Revision() != rev {
		t.Fatal("revision changed on idempotent removal")
	}
	if got, want := s.IDs(), []int{102}; !reflect.DeepEqual(got, want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
}

func TestBooks_RevisionTracksContentChanges(t *testing.T) {
	s := NewBooks()
	s.InsertOne(domain.Book{ID: 1, Title: "a"})
	rev := s.Revision()

	s.InsertOne(domain.Book{ID: 1, Title: "a"})
	if s.Revision() != rev {
		t.Fatal("identical insert bumped the revision")
	}
	s.PatchOne(1, domain.BookChanges{Title: strp("a")})
	if s.Revision() != rev {
		t.Fatal("identical patch bumped the revision")
	}
	s.PatchOne(1, domain.BookChanges{Title: strp("b")})
	if s.Revision() == rev {
		t.Fatal("real patch did not bump the revision")
	}
}

func TestBooks_RandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewBooks()

	for step := 0; step < 2000; step++ {
		id := rng.Intn(20)
		var lastRemoved []int

		switch rng.Intn(3) {
		case 0:
			s.InsertOne(domain.Book{ID: id, Title: "t"})
		case 1:
			s.PatchOne(id, domain.BookChanges{Title: strp("p")})
		case 2:
			lastRemoved = []int{id, rng.Intn(20)}
			s.RemoveMany(lastRemoved)
		}

		seen := make(map[int]bool)
		for _, got := range s.IDs() {
			if seen[got] {
				t.Fatalf("step %d: duplicate id %d in %v", step, got, s.IDs())
			}
			seen[got] = true
			if b, _ := s.Get(got); b.ID != got {
				t.Fatalf("step %d: record keyed %d carries id %d", step, got, b.ID)
			}
		}
		for _, gone := range lastRemoved {
			if _, ok := s.Get(gone); ok {
				t.Fatalf("step %d: id %d present right after RemoveMany", step, gone)
			}
		}
		if len(seen) != s.Len() {
			t.Fatalf("step %d: Len() = %d, ids = %d", step, s.Len(), len(seen))
		}
	}
}

func TestBooks_AccessorsReturnCopies(t *testing.T) {
	s := NewBooks()
	s.ReplaceAll(sampleBooks())

	ids := s.IDs()
	ids[0] = -1
	all := s.All()
	all[0].Title = "mutated"

	if s.IDs()[0] != 101 {
		t.Fatal("IDs() exposed internal slice")
	}
	if b, _ := s.Get(101); b.Title != "Calculus, part one" {
		t.Fatal("All() exposed internal records")
	}
}
