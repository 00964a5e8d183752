// Package world provides dungeon levels and their procedural generation.
package world

// Terrain is a tile's terrain kind. Walkability and opacity are split so
// that doors and tall features can block one without the other.
type Terrain uint8

const (
	// TerrainWall is impassable, opaque rock.
	TerrainWall Terrain = iota
	// TerrainFloor is open ground.
	TerrainFloor
	// TerrainDoorClosed blocks sight but not movement; entering it opens it.
	TerrainDoorClosed
	// TerrainDoorOpen is a door that has been opened.
	TerrainDoorOpen
	// TerrainStairsUp marks the entrance from the previous level.
	TerrainStairsUp
	// TerrainStairsDown leads to the next level.
	TerrainStairsDown
)

// Walkable returns true if the tile can be walked on.
func (t Terrain) Walkable() bool {
	switch t {
	case TerrainFloor, TerrainDoorClosed, TerrainDoorOpen, TerrainStairsUp, TerrainStairsDown:
		return true
	default:
		return false
	}
}

// Opaque returns true if the tile blocks line of sight.
func (t Terrain) Opaque() bool {
	switch t {
	case TerrainWall, TerrainDoorClosed:
		return true
	default:
		return false
	}
}

// IsDoor returns true for door tiles, open or closed.
func (t Terrain) IsDoor() bool {
	return t == TerrainDoorClosed || t == TerrainDoorOpen
}

// Rune returns the tile's display character.
func (t Terrain) Rune() rune {
	switch t {
	case TerrainWall:
		return '#'
	case TerrainFloor:
		return '.'
	case TerrainDoorClosed:
		return '+'
	case TerrainDoorOpen:
		return '\''
	case TerrainStairsUp:
		return '<'
	case TerrainStairsDown:
		return '>'
	default:
		return '?'
	}
}

// TerrainFromRune is the inverse of Rune, used when decoding snapshots.
func TerrainFromRune(r rune) (Terrain, bool) {
	switch r {
	case '#':
		return TerrainWall, true
	case '.':
		return TerrainFloor, true
	case '+':
		return TerrainDoorClosed, true
	case '\'':
		return TerrainDoorOpen, true
	case '<':
		return TerrainStairsUp, true
	case '>':
		return TerrainStairsDown, true
	default:
		return TerrainWall, false
	}
}

// String returns a human-readable terrain name.
func (t Terrain) String() string {
	switch t {
	case TerrainWall:
		return "wall"
	case TerrainFloor:
		return "floor"
	case TerrainDoorClosed:
		return "closed door"
	case TerrainDoorOpen:
		return "open door"
	case TerrainStairsUp:
		return "stairs up"
	case TerrainStairsDown:
		return "stairs down"
	default:
		return "unknown"
	}
}
