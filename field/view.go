package field

import (
	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/vmath"
)

// View pins one published generation for a burst of queries
// Release must be called when done; a pinned view holds back the next-but-one paint
type View struct {
	f   *Field
	set *layerSet
	gen uint64
}

// View pins the currently published set without blocking
func (f *Field) View() View {
	for {
		word := f.published.Load()
		set := &f.sets[word&1]
		set.readers.Add(1)
		if f.published.Load() == word {
			return View{f: f, set: set, gen: word >> 1}
		}
		// Flipped between load and pin, the set may be staging now
		set.readers.Add(-1)
	}
}

// Release unpins the view
func (v View) Release() {
	if v.set != nil {
		v.set.readers.Add(-1)
	}
}

// Generation returns the cycle count of the pinned set
func (v View) Generation() uint64 {
	return v.gen
}

// Cell returns the raw value minus base at cell (cx,cy), clamped to the grid
func (v View) Cell(layer core.Layer, cx, cy int) float64 {
	return v.set.layers[layer][v.f.index(cx, cy)] - v.f.base
}

// PointThreat returns the hazard at pos minus base
func (v View) PointThreat(layer core.Layer, pos vmath.Vec2) float64 {
	cx, cy := vmath.CellOf(pos, v.f.cellSize)
	return v.Cell(layer, cx, cy)
}

// ShieldAt returns the shield overlay at pos
func (v View) ShieldAt(pos vmath.Vec2) float64 {
	cx, cy := vmath.CellOf(pos, v.f.cellSize)
	return v.set.shield[v.f.index(cx, cy)]
}

// MaxThreatInRadius returns the highest hazard minus base within radius of pos
func (v View) MaxThreatInRadius(layer core.Layer, pos vmath.Vec2, radius float64) float64 {
	cx, cy := vmath.CellOf(pos, v.f.cellSize)
	cx = vmath.ClampInt(cx, 0, v.f.width-1)
	cy = vmath.ClampInt(cy, 0, v.f.height-1)
	rc := vmath.RangeCells(radius, v.f.cellSize)

	grid := v.set.layers[layer]
	best := grid[cy*v.f.width+cx]
	x0, x1, y0, y1 := v.f.clip(cx, cy, rc)
	for y := y0; y <= y1; y++ {
		dy := y - cy
		for x := x0; x <= x1; x++ {
			dx := x - cx
			if dx*dx+dy*dy > rc*rc {
				continue
			}
			if val := grid[y*v.f.width+x]; val > best {
				best = val
			}
		}
	}
	return best - v.f.base
}

// index clamps (cx,cy) to the grid and flattens it
func (f *Field) index(cx, cy int) int {
	cx = vmath.ClampInt(cx, 0, f.width-1)
	cy = vmath.ClampInt(cy, 0, f.height-1)
	return cy*f.width + cx
}

// clip returns the bounding box of a disc of rc cells around (cx,cy) clipped to the grid
// An empty box has x0 > x1 or y0 > y1
func (f *Field) clip(cx, cy, rc int) (x0, x1, y0, y1 int) {
	return max(cx-rc, 0), min(cx+rc, f.width-1), max(cy-rc, 0), min(cy+rc, f.height-1)
}
