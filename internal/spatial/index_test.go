package spatial

import (
	"errors"
	"testing"

	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/grid"
)

func TestPlaceAndOccupant(t *testing.T) {
	idx := NewIndex()
	p := grid.Point{X: 2, Y: 3}

	if err := idx.Place(1, p); err != nil {
		t.Fatalf("Place error: %v", err)
	}

	id, ok := idx.OccupantAt(p)
	if !ok || id != 1 {
		t.Errorf("OccupantAt(%v) = %d, %v, want 1, true", p, id, ok)
	}
	if _, ok := idx.OccupantAt(grid.Point{X: 9, Y: 9}); ok {
		t.Error("empty tile reported an occupant")
	}
}

func TestPlaceConflicts(t *testing.T) {
	idx := NewIndex()
	p := grid.Point{X: 1, Y: 1}
	idx.Place(1, p)

	if err := idx.Place(2, p); !errors.Is(err, ErrInvariant) {
		t.Errorf("placing onto an occupied tile: error = %v, want ErrInvariant", err)
	}
	if err := idx.Place(1, grid.Point{X: 5, Y: 5}); !errors.Is(err, ErrInvariant) {
		t.Errorf("double placement: error = %v, want ErrInvariant", err)
	}
}

func TestMove(t *testing.T) {
	idx := NewIndex()
	from := grid.Point{X: 1, Y: 1}
	to := grid.Point{X: 2, Y: 1}
	idx.Place(1, from)

	if err := idx.Move(1, to); err != nil {
		t.Fatalf("Move error: %v", err)
	}
	if _, ok := idx.OccupantAt(from); ok {
		t.Error("old tile still occupied after move")
	}
	if id, ok := idx.OccupantAt(to); !ok || id != 1 {
		t.Error("new tile not occupied after move")
	}

	idx.Place(2, from)
	if err := idx.Move(2, to); !errors.Is(err, ErrInvariant) {
		t.Errorf("moving onto an occupied tile: error = %v, want ErrInvariant", err)
	}
	if err := idx.Move(7, to); !errors.Is(err, ErrInvariant) {
		t.Errorf("moving an unplaced entity: error = %v, want ErrInvariant", err)
	}
}

func TestRemove(t *testing.T) {
	idx := NewIndex()
	p := grid.Point{X: 4, Y: 4}
	idx.Place(3, p)

	if err := idx.Remove(3); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, ok := idx.OccupantAt(p); ok {
		t.Error("tile still occupied after remove")
	}
	if err := idx.Remove(3); !errors.Is(err, ErrInvariant) {
		t.Errorf("double remove: error = %v, want ErrInvariant", err)
	}
}

func TestItemsStack(t *testing.T) {
	idx := NewIndex()
	p := grid.Point{X: 6, Y: 2}

	// Items share a tile with each other and with an actor.
	idx.Place(1, p)
	if err := idx.PlaceItem(10, p); err != nil {
		t.Fatalf("PlaceItem error: %v", err)
	}
	if err := idx.PlaceItem(11, p); err != nil {
		t.Fatalf("stacking second item: %v", err)
	}

	items := idx.ItemsAt(p)
	if len(items) != 2 || items[0] != 10 || items[1] != 11 {
		t.Errorf("ItemsAt = %v, want [10 11]", items)
	}

	if err := idx.Remove(10); err != nil {
		t.Fatalf("removing item: %v", err)
	}
	if items := idx.ItemsAt(p); len(items) != 1 || items[0] != 11 {
		t.Errorf("ItemsAt after remove = %v, want [11]", items)
	}
}

func TestInRadius(t *testing.T) {
	idx := NewIndex()
	center := grid.Point{X: 10, Y: 10}

	idx.Place(5, center)
	idx.Place(2, grid.Point{X: 12, Y: 10})
	idx.Place(9, grid.Point{X: 10, Y: 8})
	idx.Place(3, grid.Point{X: 20, Y: 20})

	got := idx.InRadius(center, 2)
	want := []entity.ID{2, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("InRadius = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("InRadius = %v, want %v (sorted by handle)", got, want)
		}
	}
}
