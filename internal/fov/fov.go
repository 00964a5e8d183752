// Package fov computes which tiles are visible from an origin over an
// opacity grid. The computation is a pure function of (opacity, origin,
// radius); callers that want caching key the result on origin plus the
// level's version counter.
package fov

import (
	"github.com/samdwyer/delve/internal/grid"
)

// Set is a collection of visible tile coordinates.
type Set map[grid.Point]struct{}

// Contains reports whether p is in the set.
func (s Set) Contains(p grid.Point) bool {
	_, ok := s[p]
	return ok
}

// Points returns the set's contents in unspecified order.
func (s Set) Points() []grid.Point {
	out := make([]grid.Point, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}

// Compute returns the tiles visible from origin within radius. A tile is
// visible iff no fully opaque tile lies strictly between it and the origin
// along a sampled sight line; lines are sampled from both endpoints, so
// visibility is symmetric: B is visible from A exactly when A is visible
// from B at the same radius. Opaque tiles themselves are visible when the
// line reaching them is clear, which is what makes walls around a lit room
// show up.
func Compute(opaque func(grid.Point) bool, origin grid.Point, radius int) Set {
	out := make(Set)
	if radius < 0 {
		return out
	}
	out[origin] = struct{}{}

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := origin.Add(dx, dy)
			if p == origin {
				continue
			}
			if lineClear(opaque, origin, p) || lineClear(opaque, p, origin) {
				out[p] = struct{}{}
			}
		}
	}
	return out
}

// lineClear walks the sampled line from a to b and reports whether every
// tile strictly between the endpoints is transparent.
func lineClear(opaque func(grid.Point) bool, a, b grid.Point) bool {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	sx := sign(b.X - a.X)
	sy := sign(b.Y - a.Y)

	x, y := a.X, a.Y
	err := dx - dy
	for {
		if x == b.X && y == b.Y {
			return true
		}
		if (x != a.X || y != a.Y) && opaque(grid.Point{X: x, Y: y}) {
			return false
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
