package hex

// Grid is a bounded parallelogram of hexes: q in [0,Width), r in [0,Height).
// It satisfies the move engine's grid provider contract; edges simply have
// fewer than six neighbors.
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewGrid creates a bounded grid. Width and height must be positive;
// a zero-area grid contains nothing.
func NewGrid(width, height int) *Grid {
	return &Grid{Width: width, Height: height}
}

// Contains reports whether the coordinate lies inside the grid bounds.
func (g *Grid) Contains(c Coord) bool {
	return c.Q >= 0 && c.Q < g.Width && c.R >= 0 && c.R < g.Height
}

// Neighbors returns c's in-bounds neighbors in fixed direction order.
func (g *Grid) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, 6)
	for _, n := range Neighbors(c) {
		if g.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// Adjacent reports whether both coordinates are in bounds and one step apart.
func (g *Grid) Adjacent(a, b Coord) bool {
	return g.Contains(a) && g.Contains(b) && Adjacent(a, b)
}

// All enumerates every in-bounds coordinate in row-major (r, then q) order.
func (g *Grid) All() []Coord {
	out := make([]Coord, 0, g.Width*g.Height)
	for r := 0; r < g.Height; r++ {
		for q := 0; q < g.Width; q++ {
			out = append(out, Coord{Q: q, R: r})
		}
	}
	return out
}
