package world

import (
	"fmt"

	"github.com/samdwyer/delve/internal/grid"
	"github.com/samdwyer/delve/internal/rng"
)

// Level is one dungeon floor: a fixed-size terrain grid plus the room list
// produced during generation. Terrain is immutable after generation except
// for doors, which may open; every opacity change bumps the version counter
// so visibility caches keyed on it invalidate correctly.
type Level struct {
	Width  int
	Height int
	Depth  int

	tiles   []Terrain
	Rooms   []Room
	version uint64

	// Entrance is where the player arrives on this level. It carries the
	// up-stair except on the first level.
	Entrance   grid.Point
	StairsDown grid.Point
	HasDown    bool
}

func newLevel(width, height, depth int) *Level {
	tiles := make([]Terrain, width*height)
	for i := range tiles {
		tiles[i] = TerrainWall
	}
	return &Level{
		Width:  width,
		Height: height,
		Depth:  depth,
		tiles:  tiles,
	}
}

// InBounds reports whether p lies on the grid.
func (l *Level) InBounds(p grid.Point) bool {
	return p.X >= 0 && p.X < l.Width && p.Y >= 0 && p.Y < l.Height
}

// TileAt returns the terrain at p. Out-of-bounds positions read as wall.
func (l *Level) TileAt(p grid.Point) Terrain {
	if !l.InBounds(p) {
		return TerrainWall
	}
	return l.tiles[p.Y*l.Width+p.X]
}

func (l *Level) setTile(p grid.Point, t Terrain) {
	if l.InBounds(p) {
		l.tiles[p.Y*l.Width+p.X] = t
	}
}

// Walkable returns true if the tile at p can be walked on.
func (l *Level) Walkable(p grid.Point) bool {
	return l.TileAt(p).Walkable()
}

// Opaque returns true if the tile at p blocks sight.
func (l *Level) Opaque(p grid.Point) bool {
	return l.TileAt(p).Opaque()
}

// Version returns the level's opacity version. It changes whenever a door
// opens, never otherwise.
func (l *Level) Version() uint64 {
	return l.version
}

// OpenDoorAt opens a closed door, returning true if the tile changed.
func (l *Level) OpenDoorAt(p grid.Point) bool {
	if l.TileAt(p) != TerrainDoorClosed {
		return false
	}
	l.setTile(p, TerrainDoorOpen)
	l.version++
	return true
}

// RoomIndexAt returns the index of the room containing p, or -1.
func (l *Level) RoomIndexAt(p grid.Point) int {
	for i, room := range l.Rooms {
		if room.Contains(p) {
			return i
		}
	}
	return -1
}

// RandomPointInRoom returns a random walkable point within the given room.
func (l *Level) RandomPointInRoom(rc *rng.Context, roomIndex int) (grid.Point, bool) {
	if roomIndex < 0 || roomIndex >= len(l.Rooms) {
		return grid.Point{}, false
	}
	room := l.Rooms[roomIndex]

	for i := 0; i < 100; i++ {
		p := grid.Point{
			X: room.X + rc.Intn(room.Width),
			Y: room.Y + rc.Intn(room.Height),
		}
		if l.TileAt(p) == TerrainFloor {
			return p, true
		}
	}
	return room.Center(), true
}

// Raw encodes the terrain grid as rune rows for snapshots.
func (l *Level) Raw() []string {
	rows := make([]string, l.Height)
	for y := 0; y < l.Height; y++ {
		row := make([]rune, l.Width)
		for x := 0; x < l.Width; x++ {
			row[x] = l.tiles[y*l.Width+x].Rune()
		}
		rows[y] = string(row)
	}
	return rows
}

// FromRaw rebuilds a level from snapshot rows. Rooms are not preserved;
// they are a generation-time artifact.
func FromRaw(rows []string, depth int, entrance, stairsDown grid.Point, hasDown bool, version uint64) (*Level, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("world: empty level rows")
	}

	height := len(rows)
	width := len([]rune(rows[0]))
	l := newLevel(width, height, depth)
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("world: ragged level rows at %d", y)
		}
		for x, r := range runes {
			t, ok := TerrainFromRune(r)
			if !ok {
				return nil, fmt.Errorf("world: unknown terrain %q at (%d,%d)", r, x, y)
			}
			l.tiles[y*width+x] = t
		}
	}
	l.Entrance = entrance
	l.StairsDown = stairsDown
	l.HasDown = hasDown
	l.version = version
	return l, nil
}
