package vmath

// Cell quantization shared by the field and its collaborators
// Cells are square, cellSize world units on a side, origin at world (0,0)

// CellOf returns the cell containing world position p
// Negative coordinates floor toward -inf so callers can clip uniformly
func CellOf(p Vec2, cellSize int) (cx, cy int) {
	return floorDiv(p.X, cellSize), floorDiv(p.Y, cellSize)
}

// CellCenter returns the world position of a cell's center
func CellCenter(cx, cy, cellSize int) Vec2 {
	half := float64(cellSize) / 2
	return Vec2{X: float64(cx*cellSize) + half, Y: float64(cy*cellSize) + half}
}

// RangeCells quantizes a world-space radius to whole cells: floor(r)/cellSize + 1
// Non-positive radii return 0 (nothing to paint)
func RangeCells(r float64, cellSize int) int {
	if r <= 0 || cellSize <= 0 {
		return 0
	}
	return int(r)/cellSize + 1
}

// ClampInt bounds v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorDiv(v float64, cellSize int) int {
	q := v / float64(cellSize)
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}
