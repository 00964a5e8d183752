package entity

import (
	"errors"
	"fmt"

	"github.com/samdwyer/delve/internal/grid"
)

// ErrNotFound is returned when a handle does not resolve to a live entity.
var ErrNotFound = errors.New("entity: not found")

// Store is the sole owner of entity records. It hands out records by
// handle; the spatial index keeps only a position-to-handle back-reference.
type Store struct {
	nextID  ID
	records map[ID]*Entity
	order   []ID // creation order, including destroyed handles
}

// NewStore creates an empty store. The first handle issued is 1; zero is
// reserved as the null handle.
func NewStore() *Store {
	return &Store{
		nextID:  1,
		records: make(map[ID]*Entity),
	}
}

// Create adds a new entity and returns its handle.
func (s *Store) Create(kind Kind, defID, name string, pos grid.Point) ID {
	id := s.nextID
	s.nextID++

	s.records[id] = &Entity{
		ID:    id,
		Kind:  kind,
		DefID: defID,
		Name:  name,
		Pos:   pos,
	}
	s.order = append(s.order, id)
	return id
}

// Get returns the entity record for a handle.
func (s *Store) Get(id ID) (*Entity, error) {
	e, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return e, nil
}

// Mutate applies fn to the entity record for a handle.
func (s *Store) Mutate(id ID, fn func(*Entity)) error {
	e, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	fn(e)
	return nil
}

// Destroy removes an entity. The handle is retired permanently.
func (s *Store) Destroy(id ID) error {
	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	delete(s.records, id)
	return nil
}

// Contains reports whether a handle resolves to a live entity.
func (s *Store) Contains(id ID) bool {
	_, ok := s.records[id]
	return ok
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	return len(s.records)
}

// All iterates live entities in creation order. The sequence is finite and
// restartable; destroyed entities are skipped.
func (s *Store) All(fn func(*Entity) bool) {
	for _, id := range s.order {
		e, ok := s.records[id]
		if !ok {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

// NextID returns the next handle to be issued. Used by snapshots.
func (s *Store) NextID() ID {
	return s.nextID
}

// Restore rebuilds the store from snapshot records. Records must already be
// in creation order; nextID must exceed every record's handle.
func Restore(records []*Entity, nextID ID) (*Store, error) {
	s := &Store{
		nextID:  nextID,
		records: make(map[ID]*Entity, len(records)),
		order:   make([]ID, 0, len(records)),
	}
	for _, e := range records {
		if e.ID == 0 || e.ID >= nextID {
			return nil, fmt.Errorf("entity: restore handle %d out of range", e.ID)
		}
		if _, dup := s.records[e.ID]; dup {
			return nil, fmt.Errorf("entity: restore duplicate handle %d", e.ID)
		}
		s.records[e.ID] = e
		s.order = append(s.order, e.ID)
	}
	return s, nil
}
