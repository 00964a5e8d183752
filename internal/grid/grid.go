// Package grid provides tile coordinates and directions for the dungeon map.
package grid

// Point is a tile coordinate on the level grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the point offset by dx, dy.
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Step returns the adjacent point in the given direction.
func (p Point) Step(d Direction) Point {
	dx, dy := d.Delta()
	return p.Add(dx, dy)
}

// Dist returns the Chebyshev distance between two points, which is the
// number of king-moves separating them on the grid.
func Dist(a, b Point) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Adjacent returns true if a and b are distinct and at most one tile apart.
func Adjacent(a, b Point) bool {
	return a != b && Dist(a, b) == 1
}

// Direction is one of the eight movement directions, or DirNone.
type Direction int

const (
	DirNone Direction = iota
	DirNorth
	DirNorthEast
	DirEast
	DirSouthEast
	DirSouth
	DirSouthWest
	DirWest
	DirNorthWest
)

// Directions lists the eight movement directions in clockwise order
// starting from north.
var Directions = [8]Direction{
	DirNorth, DirNorthEast, DirEast, DirSouthEast,
	DirSouth, DirSouthWest, DirWest, DirNorthWest,
}

var deltas = [...][2]int{
	DirNone:      {0, 0},
	DirNorth:     {0, -1},
	DirNorthEast: {1, -1},
	DirEast:      {1, 0},
	DirSouthEast: {1, 1},
	DirSouth:     {0, 1},
	DirSouthWest: {-1, 1},
	DirWest:      {-1, 0},
	DirNorthWest: {-1, -1},
}

// Delta returns the x, y offset for the direction.
func (d Direction) Delta() (int, int) {
	if d < DirNone || int(d) >= len(deltas) {
		return 0, 0
	}
	return deltas[d][0], deltas[d][1]
}

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case DirNorth:
		return "north"
	case DirNorthEast:
		return "northeast"
	case DirEast:
		return "east"
	case DirSouthEast:
		return "southeast"
	case DirSouth:
		return "south"
	case DirSouthWest:
		return "southwest"
	case DirWest:
		return "west"
	case DirNorthWest:
		return "northwest"
	default:
		return "none"
	}
}

// Toward returns the direction that best approaches to from from,
// or DirNone if the points coincide.
func Toward(from, to Point) Direction {
	dx := sign(to.X - from.X)
	dy := sign(to.Y - from.Y)
	for _, d := range Directions {
		ddx, ddy := d.Delta()
		if ddx == dx && ddy == dy {
			return d
		}
	}
	return DirNone
}

// Neighbors returns the eight surrounding points in direction order.
func Neighbors(p Point) [8]Point {
	var out [8]Point
	for i, d := range Directions {
		out[i] = p.Step(d)
	}
	return out
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
