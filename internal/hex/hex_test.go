package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordS(t *testing.T) {
	tests := []struct {
		coord Coord
		s     int
	}{
		{Coord{0, 0}, 0},
		{Coord{1, 0}, -1},
		{Coord{2, -1}, -1},
		{Coord{-3, 1}, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.s, tt.coord.S(), "%v", tt.coord)
	}
}

func TestCoordString(t *testing.T) {
	assert.Equal(t, "0,0", Coord{0, 0}.String())
	assert.Equal(t, "2,-1", Coord{2, -1}.String())
	assert.Equal(t, "-3,4", Coord{-3, 4}.String())
}

func TestNeighborsOrderFixed(t *testing.T) {
	got := Neighbors(Coord{2, 3})
	want := [6]Coord{{3, 3}, {3, 2}, {2, 2}, {1, 3}, {1, 4}, {2, 4}}
	assert.Equal(t, want, got)
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b Coord
		d    int
	}{
		{Coord{0, 0}, Coord{0, 0}, 0},
		{Coord{0, 0}, Coord{1, 0}, 1},
		{Coord{0, 0}, Coord{1, -1}, 1},
		{Coord{0, 0}, Coord{2, 0}, 2},
		{Coord{0, 0}, Coord{2, -1}, 2},
		{Coord{0, 0}, Coord{-2, 2}, 2},
		{Coord{1, 1}, Coord{4, 0}, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.d, Distance(tt.a, tt.b), "%v -> %v", tt.a, tt.b)
		assert.Equal(t, tt.d, Distance(tt.b, tt.a), "distance is symmetric")
	}
}

func TestAdjacent(t *testing.T) {
	center := Coord{2, 2}
	for _, n := range Neighbors(center) {
		assert.True(t, Adjacent(center, n), "%v", n)
	}
	assert.False(t, Adjacent(center, center))
	assert.False(t, Adjacent(center, Coord{4, 2}))
	// (1,1) is diagonal in axial terms, two steps away.
	assert.False(t, Adjacent(Coord{0, 0}, Coord{1, 1}))
}

func TestGridContains(t *testing.T) {
	g := NewGrid(3, 2)
	assert.True(t, g.Contains(Coord{0, 0}))
	assert.True(t, g.Contains(Coord{2, 1}))
	assert.False(t, g.Contains(Coord{3, 0}))
	assert.False(t, g.Contains(Coord{0, 2}))
	assert.False(t, g.Contains(Coord{-1, 0}))
}

func TestGridNeighborsClipped(t *testing.T) {
	g := NewGrid(2, 1)

	// Corner of a 2x1 strip: only the hex to the right is in bounds.
	got := g.Neighbors(Coord{0, 0})
	assert.Equal(t, []Coord{{1, 0}}, got)

	got = g.Neighbors(Coord{1, 0})
	assert.Equal(t, []Coord{{0, 0}}, got)
}

func TestGridNeighborsInterior(t *testing.T) {
	g := NewGrid(3, 3)
	got := g.Neighbors(Coord{1, 1})
	require.Len(t, got, 6)
	// Fixed direction order survives clipping.
	assert.Equal(t, []Coord{{2, 1}, {2, 0}, {1, 0}, {0, 1}, {0, 2}, {1, 2}}, got)
}

func TestGridAdjacent(t *testing.T) {
	g := NewGrid(3, 3)
	assert.True(t, g.Adjacent(Coord{0, 0}, Coord{1, 0}))
	assert.False(t, g.Adjacent(Coord{0, 0}, Coord{2, 0}))
	// Out-of-bounds positions are never adjacent.
	assert.False(t, g.Adjacent(Coord{0, 0}, Coord{-1, 0}))
}

func TestGridAllRowMajor(t *testing.T) {
	g := NewGrid(2, 2)
	assert.Equal(t, []Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, g.All())
}
