package store

import (
	"sort"

	"github.com/mmcdole/shelf/internal/events"
)

// idSet is the membership map shared by Favorites and Selection.
// Absence means false; only true is ever stored.
type idSet struct {
	members map[int]bool
	rev     uint64
}

func newIDSet() idSet {
	return idSet{members: make(map[int]bool)}
}

func (s *idSet) add(id int) bool {
	if s.members[id] {
		return false
	}
	s.members[id] = true
	return true
}

func (s *idSet) remove(id int) bool {
	if !s.members[id] {
		return false
	}
	delete(s.members, id)
	return true
}

func (s *idSet) clear() {
	if len(s.members) == 0 {
		return
	}
	s.members = make(map[int]bool)
	s.rev++
}

func (s *idSet) sortedIDs() []int {
	out := make([]int, 0, len(s.members))
	for id := range s.members {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Favorites records which books the user marked as favorite.
type Favorites struct {
	idSet
}

// NewFavorites creates an empty favorites cell.
func NewFavorites() *Favorites {
	return &Favorites{idSet: newIDSet()}
}

// Revision changes whenever membership changes.
func (f *Favorites) Revision() uint64 { return f.rev }

// Has reports whether id is a favorite.
func (f *Favorites) Has(id int) bool { return f.members[id] }

// IDs returns the favorite ids in ascending order.
func (f *Favorites) IDs() []int { return f.sortedIDs() }

// Len returns the number of favorites.
func (f *Favorites) Len() int { return len(f.members) }

// Toggle flips membership of id and returns the new state.
func (f *Favorites) Toggle(id int) bool {
	if !f.remove(id) {
		f.add(id)
	}
	f.rev++
	return f.members[id]
}

// ReplaceAll clears the cell then marks ids as favorites.
func (f *Favorites) ReplaceAll(ids []int) {
	f.members = make(map[int]bool, len(ids))
	for _, id := range ids {
		f.members[id] = true
	}
	f.rev++
}

// ReactToDeletion drops any of ids from the favorites.
func (f *Favorites) ReactToDeletion(ids []int) {
	changed := false
	for _, id := range ids {
		if f.remove(id) {
			changed = true
		}
	}
	if changed {
		f.rev++
	}
}

// Bind subscribes the cell to the notifications it reacts to.
func (f *Favorites) Bind(bus *events.Bus) (unsubscribe func()) {
	return bus.Subscribe(func(ev events.Event) {
		switch e := ev.(type) {
		case events.BooksLoaded:
			f.ReplaceAll(e.FavoriteIDs)
		case events.BooksDeleted:
			f.ReactToDeletion(e.IDs)
		}
	})
}

// Selection records which books are marked for batch deletion.
type Selection struct {
	idSet
}

// NewSelection creates an empty selection cell.
func NewSelection() *Selection {
	return &Selection{idSet: newIDSet()}
}

// Revision changes whenever membership changes.
func (s *Selection) Revision() uint64 { return s.rev }

// Has reports whether id is selected.
func (s *Selection) Has(id int) bool { return s.members[id] }

// Any reports whether at least one book is selected.
func (s *Selection) Any() bool { return len(s.members) > 0 }

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int { return s.sortedIDs() }

// AddMany selects ids. A single selection is a one-element slice.
func (s *Selection) AddMany(ids []int) {
	changed := false
	for _, id := range ids {
		if s.add(id) {
			changed = true
		}
	}
	if changed {
		s.rev++
	}
}

// RemoveOne deselects id.
func (s *Selection) RemoveOne(id int) {
	if s.remove(id) {
		s.rev++
	}
}

// ClearAll empties the selection.
func (s *Selection) ClearAll() {
	s.clear()
}

// Bind subscribes the cell to the notifications that invalidate a
// selection: a new filter, a new data source, a completed delete.
func (s *Selection) Bind(bus *events.Bus) (unsubscribe func()) {
	return bus.Subscribe(func(ev events.Event) {
		switch ev.(type) {
		case events.SearchChanged, events.BooksLoaded, events.BooksDeleted:
			s.ClearAll()
		}
	})
}
