// Package spatial maps tile positions to occupying entities. Every position
// change in the simulation goes through this index so that occupancy queries
// stay consistent with the entity store.
package spatial

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/grid"
)

// ErrInvariant reports a desynchronization between the index and its
// callers: double placement, unknown handles, or occupied targets. It is a
// programming error; the simulation must stop rather than continue on a
// corrupted index.
var ErrInvariant = errors.New("spatial: index invariant violated")

// Index tracks actor and item positions. At most one actor occupies a tile;
// items stack freely and are tracked separately.
type Index struct {
	actors    map[grid.Point]entity.ID
	items     map[grid.Point][]entity.ID
	positions map[entity.ID]placement
}

type placement struct {
	pos  grid.Point
	item bool
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		actors:    make(map[grid.Point]entity.ID),
		items:     make(map[grid.Point][]entity.ID),
		positions: make(map[entity.ID]placement),
	}
}

// Place registers an actor at a position. The tile must be free of actors
// and the handle must not already be placed.
func (idx *Index) Place(id entity.ID, p grid.Point) error {
	if _, exists := idx.positions[id]; exists {
		return fmt.Errorf("%w: entity %d placed twice", ErrInvariant, id)
	}
	if occupant, taken := idx.actors[p]; taken {
		return fmt.Errorf("%w: tile %v already held by entity %d", ErrInvariant, p, occupant)
	}
	idx.actors[p] = id
	idx.positions[id] = placement{pos: p}
	return nil
}

// PlaceItem registers an item at a position. Items stack.
func (idx *Index) PlaceItem(id entity.ID, p grid.Point) error {
	if _, exists := idx.positions[id]; exists {
		return fmt.Errorf("%w: entity %d placed twice", ErrInvariant, id)
	}
	idx.items[p] = append(idx.items[p], id)
	idx.positions[id] = placement{pos: p, item: true}
	return nil
}

// Remove unregisters an entity from the index.
func (idx *Index) Remove(id entity.ID) error {
	pl, ok := idx.positions[id]
	if !ok {
		return fmt.Errorf("%w: removing unplaced entity %d", ErrInvariant, id)
	}
	if pl.item {
		bucket := idx.items[pl.pos]
		for i, item := range bucket {
			if item != id {
				continue
			}
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
		if len(bucket) == 0 {
			delete(idx.items, pl.pos)
		} else {
			idx.items[pl.pos] = bucket
		}
	} else {
		delete(idx.actors, pl.pos)
	}
	delete(idx.positions, id)
	return nil
}

// Move relocates an actor to a new position. The target must be free.
func (idx *Index) Move(id entity.ID, to grid.Point) error {
	pl, ok := idx.positions[id]
	if !ok {
		return fmt.Errorf("%w: moving unplaced entity %d", ErrInvariant, id)
	}
	if pl.item {
		return fmt.Errorf("%w: entity %d is an item, not an actor", ErrInvariant, id)
	}
	if occupant, taken := idx.actors[to]; taken && occupant != id {
		return fmt.Errorf("%w: tile %v already held by entity %d", ErrInvariant, to, occupant)
	}
	delete(idx.actors, pl.pos)
	idx.actors[to] = id
	idx.positions[id] = placement{pos: to}
	return nil
}

// OccupantAt returns the actor on a tile, if any.
func (idx *Index) OccupantAt(p grid.Point) (entity.ID, bool) {
	id, ok := idx.actors[p]
	return id, ok
}

// ItemsAt returns the items stacked on a tile, bottom first.
func (idx *Index) ItemsAt(p grid.Point) []entity.ID {
	bucket := idx.items[p]
	if len(bucket) == 0 {
		return nil
	}
	out := make([]entity.ID, len(bucket))
	copy(out, bucket)
	return out
}

// PositionOf returns the indexed position of an entity.
func (idx *Index) PositionOf(id entity.ID) (grid.Point, bool) {
	pl, ok := idx.positions[id]
	return pl.pos, ok
}

// InRadius returns all actors within the given Chebyshev radius of p,
// sorted by handle for deterministic iteration.
func (idx *Index) InRadius(p grid.Point, radius int) []entity.ID {
	var out []entity.ID
	for pos, id := range idx.actors {
		if grid.Dist(p, pos) <= radius {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
