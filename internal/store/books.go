// Package store holds the session's state cells: the normalized book
// table and the auxiliary favorites, selection and filter cells.
//
// Cells are not safe for concurrent use on their own. The session owns
// one lock around all of them so multi-cell updates are atomic.
package store

import "github.com/mmcdole/shelf/internal/domain"

// Books is a normalized table of book records keyed by id.
// Iteration order is insertion order, or the input order of ReplaceAll.
type Books struct {
	ids      []int
	entities map[int]domain.Book
	rev      uint64
}

// NewBooks creates an empty table.
func NewBooks() *Books {
	return &Books{entities: make(map[int]domain.Book)}
}

// Revision changes whenever the table content changes.
func (s *Books) Revision() uint64 {
	return s.rev
}

// ReplaceAll discards the current contents and installs records.
// A later record wins over an earlier one with the same id.
func (s *Books) ReplaceAll(records []domain.Book) {
	s.ids = make([]int, 0, len(records))
	s.entities = make(map[int]domain.Book, len(records))
	for _, b := range records {
		if _, ok := s.entities[b.ID]; !ok {
			s.ids = append(s.ids, b.ID)
		}
		s.entities[b.ID] = b
	}
	s.rev++
}

// InsertOne adds record, overwriting any record with the same id.
func (s *Books) InsertOne(record domain.Book) {
	prev, ok := s.entities[record.ID]
	if ok && prev == record {
		return
	}
	if !ok {
		s.ids = append(s.ids, record.ID)
	}
	s.entities[record.ID] = record
	s.rev++
}

// PatchOne merges changes into the record at id. Absent ids are ignored.
// It reports whether the record existed.
func (s *Books) PatchOne(id int, changes domain.BookChanges) bool {
	b, ok := s.entities[id]
	if !ok {
		return false
	}
	if changes.Apply(&b) {
		s.entities[id] = b
		s.rev++
	}
	return true
}

// RemoveMany deletes ids and returns the ones that were present.
func (s *Books) RemoveMany(ids []int) []int {
	var removed []int
	for _, id := range ids {
		if _, ok := s.entities[id]; ok {
			delete(s.entities, id)
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return nil
	}

	kept := s.ids[:0]
	for _, id := range s.ids {
		if _, ok := s.entities[id]; ok {
			kept = append(kept, id)
		}
	}
	s.ids = kept
	s.rev++
	return removed
}

// Get returns the record at id.
func (s *Books) Get(id int) (domain.Book, bool) {
	b, ok := s.entities[id]
	return b, ok
}

// IDs returns a copy of the ids in table order.
func (s *Books) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// All returns a copy of every record in table order.
func (s *Books) All() []domain.Book {
	out := make([]domain.Book, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.entities[id]
	}
	return out
}

// Len returns the number of records.
func (s *Books) Len() int {
	return len(s.ids)
}
