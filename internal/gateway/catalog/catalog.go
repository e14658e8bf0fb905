// Package catalog is the local book source: a bbolt-backed record store
// with a write-through memory copy, or memory only when no path is given.
package catalog

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/shelf/internal/domain"
)

// Bucket names
var (
	bucketBooks     = []byte("books")
	bucketFavorites = []byte("favorites")
	bucketMeta      = []byte("meta")
)

var keySeeded = []byte("seeded")

// TimeLayout is the format of the lastModified stamp.
const TimeLayout = "15:04:05.000"

// Options configures Open.
type Options struct {
	// Path is the bbolt file. Empty keeps the catalog in memory.
	Path string
	// SeedFile is a yaml file with initial books and favorites. Empty uses
	// the built-in sample data. Seeding happens once per database.
	SeedFile string
	// FailIDs are rejected by Update, and any Delete batch that contains
	// one of them is rejected as a whole.
	FailIDs []int
	Logger  *slog.Logger
	// Now stamps lastModified; defaults to time.Now.
	Now func() time.Time
}

// Catalog holds the local books and favorites.
type Catalog struct {
	db     *bolt.DB
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	books     map[int]domain.Book
	favorites map[int]bool
	failIDs   map[int]bool
	reserved  int // ids up to this one belong to another source
}

// Open opens or creates the catalog described by opts.
func Open(opts Options) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Catalog{
		logger:    logger,
		now:       now,
		books:     make(map[int]domain.Book),
		favorites: make(map[int]bool),
		failIDs:   make(map[int]bool, len(opts.FailIDs)),
	}
	for _, id := range opts.FailIDs {
		c.failIDs[id] = true
	}

	if opts.Path == "" {
		// Memory-only mode (no persistence)
		seed, err := loadSeed(opts.SeedFile)
		if err != nil {
			return nil, err
		}
		c.install(seed)
		return c, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(opts.Path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	c.db = db

	if err := c.init(opts.SeedFile); err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("catalog opened", "path", opts.Path, "books", len(c.books))
	return c, nil
}

// init creates the buckets, seeds a fresh database and loads it into memory.
func (c *Catalog) init(seedFile string) error {
	var seeded bool
	err := c.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketBooks, bucketFavorites, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		seeded = tx.Bucket(bucketMeta).Get(keySeeded) != nil
		return nil
	})
	if err != nil {
		return err
	}

	if !seeded {
		seed, err := loadSeed(seedFile)
		if err != nil {
			return err
		}
		if err := c.persistSeed(seed); err != nil {
			return err
		}
	}
	return c.loadAll()
}

func (c *Catalog) persistSeed(seed Seed) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		books, favs := tx.Bucket(bucketBooks), tx.Bucket(bucketFavorites)
		for _, b := range seed.Books {
			data, err := cbor.Marshal(b)
			if err != nil {
				return err
			}
			if err := books.Put(itob(b.ID), data); err != nil {
				return err
			}
		}
		for _, id := range seed.Favorites {
			if err := favs.Put(itob(id), []byte{1}); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketMeta).Put(keySeeded, []byte(c.now().UTC().Format(time.RFC3339)))
	})
}

func (c *Catalog) loadAll() error {
	return c.db.View(func(tx *bolt.Tx) error {
		err := tx.Bucket(bucketBooks).ForEach(func(_, v []byte) error {
			var b domain.Book
			if err := cbor.Unmarshal(v, &b); err != nil {
				return fmt.Errorf("decode book: %w", err)
			}
			c.books[b.ID] = b
			return nil
		})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketFavorites).ForEach(func(k, _ []byte) error {
			c.favorites[btoi(k)] = true
			return nil
		})
	})
}

func (c *Catalog) install(seed Seed) {
	for _, b := range seed.Books {
		c.books[b.ID] = b
	}
	for _, id := range seed.Favorites {
		c.favorites[id] = true
	}
}

// Close releases the database file.
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// List returns every book, ordered by id.
func (c *Catalog) List(ctx context.Context) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Book, 0, len(c.books))
	for _, b := range c.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Favorites returns the favorite ids, ascending.
func (c *Catalog) Favorites(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]int, 0, len(c.favorites))
	for id := range c.favorites {
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}

// Reserve keeps Create from handing out ids up to maxID.
func (c *Catalog) Reserve(maxID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if maxID > c.reserved {
		c.reserved = maxID
	}
}

// Create stores draft under a new id, one above the highest in use or
// reserved.
func (c *Catalog) Create(ctx context.Context, draft domain.BookDraft) (domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.reserved + 1
	for id := range c.books {
		if id >= next {
			next = id + 1
		}
	}
	book := draft.Book(next)
	if err := c.putBook(book); err != nil {
		c.logger.Error("failed to save book", "error", err, "id", book.ID)
		return domain.Book{}, err
	}
	c.books[book.ID] = book
	return book, nil
}

// Update replaces the stored record and stamps lastModified. A book the
// catalog does not hold, such as one loaded from the remote source, is
// accepted and echoed back stamped without being stored.
func (c *Catalog) Update(ctx context.Context, book domain.Book) (domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, err
	}
	if c.failIDs[book.ID] {
		return domain.Book{}, fmt.Errorf("update book %d: %w", book.ID, domain.ErrRejected)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	book.LastModified = c.now().Format(TimeLayout)
	if _, ok := c.books[book.ID]; !ok {
		c.logger.Debug("updated book not in catalog", "id", book.ID)
		return book, nil
	}
	if err := c.putBook(book); err != nil {
		c.logger.Error("failed to save book", "error", err, "id", book.ID)
		return domain.Book{}, err
	}
	c.books[book.ID] = book
	return book, nil
}

// Delete removes ids and their favorite marks. Unknown ids are ignored.
func (c *Catalog) Delete(ctx context.Context, ids []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, id := range ids {
		if c.failIDs[id] {
			return fmt.Errorf("delete books %v: %w", ids, domain.ErrRejected)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		err := c.db.Update(func(tx *bolt.Tx) error {
			books, favs := tx.Bucket(bucketBooks), tx.Bucket(bucketFavorites)
			for _, id := range ids {
				if err := books.Delete(itob(id)); err != nil {
					return err
				}
				if err := favs.Delete(itob(id)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.logger.Error("failed to delete books", "error", err, "ids", ids)
			return err
		}
	}
	for _, id := range ids {
		delete(c.books, id)
		delete(c.favorites, id)
	}
	return nil
}

// putBook writes book to the database. The caller holds c.mu.
func (c *Catalog) putBook(book domain.Book) error {
	if c.db == nil {
		return nil // Memory-only mode
	}
	data, err := cbor.Marshal(book)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBooks).Put(itob(book.ID), data)
	})
}

// itob encodes id as a sortable bbolt key.
func itob(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func btoi(b []byte) int {
	return int(binary.BigEndian.Uint64(b))
}
