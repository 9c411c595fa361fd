package booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store keeps the canonical sequence of bookings in memory and mirrors it to
// a JSON file. Every mutation rewrites the whole file; the in-memory sequence
// only changes after the write succeeded.
type Store struct {
	mu    sync.RWMutex
	path  string
	items []Booking
	newID func() string
}

func NewStore(path string) *Store {
	return &Store{
		path:  path,
		newID: uuid.NewString,
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the data file into memory. A missing or empty file yields an
// empty store; a file that does not decode yields a *CorruptStoreError and
// leaves the store empty.
func (s *Store) Load() ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.WithField("path", s.path).Info("Data file not found, starting with no bookings")
		return []Booking{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read data file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Booking{}, nil
	}

	var items []Booking
	if err := json.Unmarshal(data, &items); err != nil {
		logrus.WithError(err).WithField("path", s.path).Error("Data file is not valid booking JSON")
		return nil, &CorruptStoreError{Path: s.path, Err: err}
	}

	// Files written before bookings had ids get fresh ones; they reach disk
	// with the next mutation.
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = s.newID()
		}
	}

	s.items = items
	logrus.WithFields(logrus.Fields{"path": s.path, "count": len(items)}).Info("Bookings loaded")
	return clone(items), nil
}

// Save overwrites the data file with items, in the given order, and makes
// them the store's contents.
func (s *Store) Save(items []Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(items); err != nil {
		return err
	}
	s.items = clone(items)
	return nil
}

func (s *Store) save(items []Booking) error {
	if items == nil {
		items = []Booking{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("unable to encode bookings: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		logrus.WithError(err).WithField("path", s.path).Error("Failed to write data file")
		return fmt.Errorf("unable to write data file: %w", err)
	}
	return nil
}

// All returns a copy of the bookings in canonical order.
func (s *Store) All() []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Get(id string) (Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Booking{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.items[i], nil
}

// Add appends candidate under a new id and persists, unless it overlaps a
// stored booking.
func (s *Store) Add(candidate Booking) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := FindConflict(candidate, s.items, ""); c != nil {
		return Booking{}, &ConflictError{Existing: *c}
	}

	candidate.ID = s.newID()
	next := append(clone(s.items), candidate)
	if err := s.save(next); err != nil {
		return Booking{}, err
	}
	s.items = next
	return candidate, nil
}

// Update replaces every field of the booking with the given id.
func (s *Store) Update(id string, candidate Booking) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Booking{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if c := FindConflict(candidate, s.items, id); c != nil {
		return Booking{}, &ConflictError{Existing: *c}
	}

	candidate.ID = id
	next := clone(s.items)
	next[i] = candidate
	if err := s.save(next); err != nil {
		return Booking{}, err
	}
	s.items = next
	return candidate, nil
}

// Delete removes the booking with the given id and returns it.
func (s *Store) Delete(id string) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Booking{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	removed := s.items[i]
	next := make([]Booking, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	if err := s.save(next); err != nil {
		return Booking{}, err
	}
	s.items = next
	return removed, nil
}

// FindByFields returns the id of the first stored booking whose seven fields
// equal those of row. The row's own id is ignored.
func (s *Store) FindByFields(row Booking) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.items {
		if b.sameFields(row) {
			return b.ID, nil
		}
	}
	return "", ErrNotFound
}

func (s *Store) indexLocked(id string) int {
	for i, b := range s.items {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func clone(items []Booking) []Booking {
	out := make([]Booking, len(items))
	copy(out, items)
	return out
}
