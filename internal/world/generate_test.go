package world

import (
	"context"
	"errors"
	"testing"

	"github.com/samdwyer/delve/internal/grid"
	"github.com/samdwyer/delve/internal/rng"
)

func mustGenerate(t *testing.T, seed uint64, depth int) *Level {
	t.Helper()
	l, err := Generate(context.Background(), rng.New(seed), depth, DefaultParams())
	if err != nil {
		t.Fatalf("Generate(seed=%d, depth=%d) error: %v", seed, depth, err)
	}
	return l
}

func TestGenerateReproducible(t *testing.T) {
	seed := uint64(12345)

	l1 := mustGenerate(t, seed, 2)
	l2 := mustGenerate(t, seed, 2)

	if len(l1.Rooms) != len(l2.Rooms) {
		t.Fatalf("room count mismatch: %d != %d", len(l1.Rooms), len(l2.Rooms))
	}
	for i := range l1.Rooms {
		if l1.Rooms[i] != l2.Rooms[i] {
			t.Errorf("room %d mismatch: %+v != %+v", i, l1.Rooms[i], l2.Rooms[i])
		}
	}

	r1, r2 := l1.Raw(), l2.Raw()
	for y := range r1 {
		if r1[y] != r2[y] {
			t.Errorf("row %d mismatch:\n%s\n%s", y, r1[y], r2[y])
		}
	}
	if l1.Entrance != l2.Entrance || l1.StairsDown != l2.StairsDown {
		t.Error("entrance or stairs positions differ between identical generations")
	}
}

func TestGenerateDifferentSeeds(t *testing.T) {
	l1 := mustGenerate(t, 12345, 1)
	l2 := mustGenerate(t, 54321, 1)

	identical := len(l1.Rooms) == len(l2.Rooms)
	if identical {
		for i := range l1.Rooms {
			if l1.Rooms[i] != l2.Rooms[i] {
				identical = false
				break
			}
		}
	}
	if identical {
		t.Error("levels from different seeds should not be identical")
	}
}

func TestGenerateConnectivity(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 42, 99, 12345} {
		l := mustGenerate(t, seed, 2)

		_, reachable := floodFill(l, l.Entrance)
		for y := 0; y < l.Height; y++ {
			for x := 0; x < l.Width; x++ {
				p := grid.Point{X: x, Y: y}
				if l.Walkable(p) && !reachable[p] {
					t.Fatalf("seed %d: walkable tile %v unreachable from entrance %v", seed, p, l.Entrance)
				}
			}
		}
	}
}

func TestGenerateStairs(t *testing.T) {
	// Middle depth: both stairs.
	l := mustGenerate(t, 42, 2)
	if l.TileAt(l.Entrance) != TerrainStairsUp {
		t.Errorf("entrance tile = %v, want stairs up", l.TileAt(l.Entrance))
	}
	if !l.HasDown || l.TileAt(l.StairsDown) != TerrainStairsDown {
		t.Error("missing down stair on a middle depth")
	}
	if l.Entrance == l.StairsDown {
		t.Error("stairs coincide")
	}

	// First level: no up stair.
	l = mustGenerate(t, 42, 1)
	if l.TileAt(l.Entrance) == TerrainStairsUp {
		t.Error("depth 1 should not have an up stair")
	}
	if !l.HasDown {
		t.Error("depth 1 should have a down stair")
	}
}

func TestStairsFarApart(t *testing.T) {
	l := mustGenerate(t, 42, 2)

	dist, _ := floodFill(l, l.Entrance)
	stairDist := dist[l.StairsDown]

	// The down stair sits at maximal graph distance among floor tiles, so
	// no floor tile may be strictly farther.
	for p, d := range dist {
		if l.TileAt(p) == TerrainFloor && d > stairDist {
			t.Fatalf("floor tile %v at distance %d is farther than the down stair (%d)", p, d, stairDist)
		}
	}
}

func TestGenerateExhausted(t *testing.T) {
	params := DefaultParams()
	// Demand more rooms than the grid can hold.
	params.Width = 20
	params.Height = 10
	params.MinRooms = 30
	params.MaxRooms = 30
	params.RetryBudget = 3

	_, err := Generate(context.Background(), rng.New(1), 1, params)
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("error = %v, want ErrGenerationExhausted", err)
	}
}

func TestOpenDoorBumpsVersion(t *testing.T) {
	l := newLevel(5, 5, 1)
	p := grid.Point{X: 2, Y: 2}
	l.setTile(p, TerrainDoorClosed)

	v := l.Version()
	if !l.OpenDoorAt(p) {
		t.Fatal("OpenDoorAt returned false for a closed door")
	}
	if l.TileAt(p) != TerrainDoorOpen {
		t.Errorf("tile = %v, want open door", l.TileAt(p))
	}
	if l.Version() != v+1 {
		t.Errorf("version = %d, want %d", l.Version(), v+1)
	}
	if l.OpenDoorAt(p) {
		t.Error("opening an already-open door reported a change")
	}
}

func TestRawRoundTrip(t *testing.T) {
	l := mustGenerate(t, 7, 2)

	restored, err := FromRaw(l.Raw(), l.Depth, l.Entrance, l.StairsDown, l.HasDown, l.Version())
	if err != nil {
		t.Fatalf("FromRaw error: %v", err)
	}

	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			p := grid.Point{X: x, Y: y}
			if restored.TileAt(p) != l.TileAt(p) {
				t.Fatalf("tile %v mismatch after round trip: %v != %v", p, restored.TileAt(p), l.TileAt(p))
			}
		}
	}
}

func TestTerrainFlags(t *testing.T) {
	tests := []struct {
		terrain  Terrain
		walkable bool
		opaque   bool
	}{
		{TerrainWall, false, true},
		{TerrainFloor, true, false},
		{TerrainDoorClosed, true, true},
		{TerrainDoorOpen, true, false},
		{TerrainStairsUp, true, false},
		{TerrainStairsDown, true, false},
	}

	for _, tt := range tests {
		if got := tt.terrain.Walkable(); got != tt.walkable {
			t.Errorf("%v.Walkable() = %v, want %v", tt.terrain, got, tt.walkable)
		}
		if got := tt.terrain.Opaque(); got != tt.opaque {
			t.Errorf("%v.Opaque() = %v, want %v", tt.terrain, got, tt.opaque)
		}
	}
}
