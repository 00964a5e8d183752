package world

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/delve/internal/grid"
	"github.com/samdwyer/delve/internal/rng"
	"github.com/samdwyer/delve/internal/telemetry"
)

// ErrGenerationExhausted is returned when no valid layout could be produced
// within the retry budget. The caller retries with a derived seed or
// relaxed parameters.
var ErrGenerationExhausted = errors.New("world: generation retry budget exhausted")

// Params tunes dungeon generation.
type Params struct {
	Width  int `env:"DELVE_MAP_WIDTH" envDefault:"80"`
	Height int `env:"DELVE_MAP_HEIGHT" envDefault:"24"`

	MinRooms    int `env:"DELVE_MIN_ROOMS" envDefault:"5"`
	MaxRooms    int `env:"DELVE_MAX_ROOMS" envDefault:"9"`
	RoomMinSize int `env:"DELVE_ROOM_MIN" envDefault:"4"`
	RoomMaxSize int `env:"DELVE_ROOM_MAX" envDefault:"9"`

	// PlacementAttempts bounds candidate rooms tried per layout;
	// RetryBudget bounds whole-layout retries before giving up.
	PlacementAttempts int `env:"DELVE_PLACEMENT_ATTEMPTS" envDefault:"150"`
	RetryBudget       int `env:"DELVE_RETRY_BUDGET" envDefault:"10"`

	// DoorChance is the percent chance a corridor mouth gets a door.
	DoorChance int `env:"DELVE_DOOR_CHANCE" envDefault:"35"`
}

// DefaultParams returns the standard generation parameters.
func DefaultParams() Params {
	return Params{
		Width:             80,
		Height:            24,
		MinRooms:          5,
		MaxRooms:          9,
		RoomMinSize:       4,
		RoomMaxSize:       9,
		PlacementAttempts: 150,
		RetryBudget:       10,
		DoorChance:        35,
	}
}

// Generate produces a complete level for the given depth. It is re-entrant:
// the same rng state, depth and params always yield an identical level.
// Draws only from rc — no other randomness sources, or determinism breaks.
func Generate(ctx context.Context, rc *rng.Context, depth int, params Params) (*Level, error) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "level.generate")
	defer span.End()

	startTime := time.Now()

	for attempt := 1; attempt <= params.RetryBudget; attempt++ {
		l, err := generateAttempt(rc, depth, params)
		if err != nil {
			continue
		}
		span.SetAttributes(
			attribute.Int("level.depth", depth),
			attribute.Int("level.room_count", len(l.Rooms)),
			attribute.Int("level.attempts", attempt),
			attribute.Int64("level.generation_ms", time.Since(startTime).Milliseconds()),
		)
		return l, nil
	}

	span.SetAttributes(
		attribute.Int("level.depth", depth),
		attribute.Bool("level.exhausted", true),
	)
	return nil, fmt.Errorf("%w: depth %d after %d attempts", ErrGenerationExhausted, depth, params.RetryBudget)
}

func generateAttempt(rc *rng.Context, depth int, params Params) (*Level, error) {
	l := newLevel(params.Width, params.Height, depth)

	target, err := rc.IntRange(params.MinRooms, params.MaxRooms)
	if err != nil {
		return nil, err
	}

	// Candidate rooms are rejected on overlap; a one-tile margin keeps the
	// wall between neighbors intact.
	for try := 0; try < params.PlacementAttempts && len(l.Rooms) < target; try++ {
		w, _ := rc.IntRange(params.RoomMinSize, params.RoomMaxSize)
		h, _ := rc.IntRange(params.RoomMinSize, params.RoomMaxSize)
		if w >= params.Width-2 || h >= params.Height-2 {
			continue
		}
		x, _ := rc.IntRange(1, params.Width-w-2)
		y, _ := rc.IntRange(1, params.Height-h-2)

		cand := Room{X: x, Y: y, Width: w, Height: h}
		overlaps := false
		for _, existing := range l.Rooms {
			if cand.Intersects(existing, 1) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		l.Rooms = append(l.Rooms, cand)
		carveRoom(l, cand)
	}

	if len(l.Rooms) < params.MinRooms {
		return nil, fmt.Errorf("world: placed %d rooms, need %d", len(l.Rooms), params.MinRooms)
	}

	// Each room joins the component built so far through its nearest
	// already-connected neighbor.
	for i := 1; i < len(l.Rooms); i++ {
		nearest := 0
		best := grid.Dist(l.Rooms[i].Center(), l.Rooms[0].Center())
		for j := 1; j < i; j++ {
			if d := grid.Dist(l.Rooms[i].Center(), l.Rooms[j].Center()); d < best {
				nearest = j
				best = d
			}
		}
		carveCorridor(l, rc, l.Rooms[i].Center(), l.Rooms[nearest].Center())
	}

	placeDoors(l, rc, params.DoorChance)

	l.Entrance = l.Rooms[0].Center()
	dist, reachable := floodFill(l, l.Entrance)
	if !allWalkableReachable(l, reachable) {
		return nil, fmt.Errorf("world: layout not fully connected")
	}

	// The down stair is the level's goal tile; the deepest level's stair is
	// the run's exit.
	l.StairsDown = farthestFloor(l, dist)
	l.HasDown = true
	l.setTile(l.StairsDown, TerrainStairsDown)
	if depth > 1 {
		l.setTile(l.Entrance, TerrainStairsUp)
	}
	return l, nil
}

func carveRoom(l *Level, room Room) {
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			if x > 0 && x < l.Width-1 && y > 0 && y < l.Height-1 {
				l.setTile(grid.Point{X: x, Y: y}, TerrainFloor)
			}
		}
	}
}

// carveCorridor cuts an L-shaped tunnel between two points, choosing the
// elbow orientation at random.
func carveCorridor(l *Level, rc *rng.Context, a, b grid.Point) {
	if rc.Intn(2) == 0 {
		carveHorizontal(l, a.X, b.X, a.Y)
		carveVertical(l, a.Y, b.Y, b.X)
	} else {
		carveVertical(l, a.Y, b.Y, a.X)
		carveHorizontal(l, a.X, b.X, b.Y)
	}
}

func carveHorizontal(l *Level, x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		if x > 0 && x < l.Width-1 && y > 0 && y < l.Height-1 {
			l.setTile(grid.Point{X: x, Y: y}, TerrainFloor)
		}
	}
}

func carveVertical(l *Level, y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		if x > 0 && x < l.Width-1 && y > 0 && y < l.Height-1 {
			l.setTile(grid.Point{X: x, Y: y}, TerrainFloor)
		}
	}
}

// placeDoors turns corridor mouths into doors: floor tiles on a room's wall
// ring whose lateral neighbors are still wall. Rooms and ring positions are
// scanned in a fixed order to keep generation reproducible.
func placeDoors(l *Level, rc *rng.Context, chance int) {
	for _, room := range l.Rooms {
		for x := room.X; x < room.X+room.Width; x++ {
			tryDoor(l, rc, chance, grid.Point{X: x, Y: room.Y - 1}, true)
			tryDoor(l, rc, chance, grid.Point{X: x, Y: room.Y + room.Height}, true)
		}
		for y := room.Y; y < room.Y+room.Height; y++ {
			tryDoor(l, rc, chance, grid.Point{X: room.X - 1, Y: y}, false)
			tryDoor(l, rc, chance, grid.Point{X: room.X + room.Width, Y: y}, false)
		}
	}
}

func tryDoor(l *Level, rc *rng.Context, chance int, p grid.Point, horizontalWall bool) {
	if l.TileAt(p) != TerrainFloor {
		return
	}
	var a, b grid.Point
	if horizontalWall {
		a, b = p.Add(-1, 0), p.Add(1, 0)
	} else {
		a, b = p.Add(0, -1), p.Add(0, 1)
	}
	if l.TileAt(a) != TerrainWall || l.TileAt(b) != TerrainWall {
		return
	}
	if rc.Intn(100) < chance {
		l.setTile(p, TerrainDoorClosed)
	}
}

// floodFill walks walkable tiles from start, returning BFS distances and
// the reachable set.
func floodFill(l *Level, start grid.Point) (map[grid.Point]int, map[grid.Point]bool) {
	dist := map[grid.Point]int{start: 0}
	reachable := map[grid.Point]bool{start: true}
	queue := []grid.Point{start}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range grid.Neighbors(p) {
			if reachable[n] || !l.Walkable(n) {
				continue
			}
			reachable[n] = true
			dist[n] = dist[p] + 1
			queue = append(queue, n)
		}
	}
	return dist, reachable
}

func allWalkableReachable(l *Level, reachable map[grid.Point]bool) bool {
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			p := grid.Point{X: x, Y: y}
			if l.Walkable(p) && !reachable[p] {
				return false
			}
		}
	}
	return true
}

// farthestFloor picks the floor tile at maximal graph distance from the
// entrance, scanning row-major so ties resolve deterministically.
func farthestFloor(l *Level, dist map[grid.Point]int) grid.Point {
	best := l.Entrance
	bestDist := -1
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			p := grid.Point{X: x, Y: y}
			if l.TileAt(p) != TerrainFloor {
				continue
			}
			if d, ok := dist[p]; ok && d > bestDist {
				best = p
				bestDist = d
			}
		}
	}
	return best
}
