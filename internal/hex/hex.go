// Package hex provides axial-coordinate hex grid geometry and a bounded grid
// implementing the move engine's grid provider contract.
package hex

import "fmt"

// Coord is a position on the hex grid in axial coordinates. The third cube
// coordinate s is derived: s = -q - r.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (c Coord) S() int {
	return -c.Q - c.R
}

// String renders the coordinate as "q,r" for map keys and reasons.
func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.Q, c.R)
}

// Add returns the component-wise sum.
func (c Coord) Add(o Coord) Coord {
	return Coord{Q: c.Q + o.Q, R: c.R + o.R}
}

// directions lists the six hex neighbors in fixed order (east, northeast,
// northwest, west, southwest, southeast). The order never changes; neighbor
// enumeration order feeds deterministic search results.
var directions = [6]Coord{
	{Q: 1, R: 0}, {Q: 1, R: -1}, {Q: 0, R: -1},
	{Q: -1, R: 0}, {Q: -1, R: 1}, {Q: 0, R: 1},
}

// Neighbors returns the six adjacent coordinates of c in fixed order,
// ignoring any grid bounds.
func Neighbors(c Coord) [6]Coord {
	var out [6]Coord
	for i, d := range directions {
		out[i] = c.Add(d)
	}
	return out
}

// Distance returns the hex-step distance between two coordinates
// (cube-coordinate metric).
func Distance(a, b Coord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return (dq + dr + ds) / 2
}

// Adjacent reports whether two coordinates are exactly one hex step apart.
func Adjacent(a, b Coord) bool {
	return Distance(a, b) == 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
