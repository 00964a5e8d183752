package world

import "github.com/samdwyer/delve/internal/grid"

// Room is a rectangular room in the dungeon.
type Room struct {
	X      int `json:"x"` // Top-left corner position
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center coordinates of the room.
func (r Room) Center() grid.Point {
	return grid.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains returns true if the given point is inside the room.
func (r Room) Contains(p grid.Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects returns true if this room overlaps with another room. The
// margin expands the footprint so rooms can be kept a gap apart.
func (r Room) Intersects(other Room, margin int) bool {
	return r.X-margin < other.X+other.Width &&
		r.X+r.Width+margin > other.X &&
		r.Y-margin < other.Y+other.Height &&
		r.Y+r.Height+margin > other.Y
}
