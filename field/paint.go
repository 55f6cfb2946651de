package field

import (
	"math"
	"time"

	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/vmath"
)

// paint fills the staging set from the cycle snapshots, worker goroutine only
func (f *Field) paint() {
	start := time.Now()
	set := f.staging()
	awaitReaders(set)

	for i := range set.layers {
		fill(set.layers[i], f.base)
	}
	clear(set.shield)

	for i := range f.hostile {
		h := &f.hostile[i]
		if !h.Has(core.FlagUnderConstruction) {
			f.paintDisc(set.layers[core.LayerAir], h.Pos, h.Ranges[core.RangeAir], h.Threat, h.Falloff)
			f.paintDisc(set.layers[core.LayerSurface], h.Pos, h.Ranges[core.RangeLand], h.Threat, h.Falloff)
			f.paintAmphibious(set.layers[core.LayerAmphibious], h)
			if h.ShieldPower > 0 {
				f.paintDisc(set.shield, h.Pos, h.ShieldRadius, h.ShieldPower, core.FalloffConstant)
			}
		}
		f.paintStealth(set.layers[core.LayerStealth], h.Pos, h.Ranges[core.RangeDetect])
	}
	for i := range f.peaceful {
		p := &f.peaceful[i]
		f.paintStealth(set.layers[core.LayerStealth], p.Pos, p.Ranges[core.RangeDetect])
	}

	ms := float64(time.Since(start).Microseconds()) / 1000
	f.statPaintMs.Set(ms)
	f.statPaintPeak.StoreMax(ms)
}

// falloff returns the contribution at d cells of a disc of rc cells
func (f *Field) falloff(policy core.Falloff, threat, d float64, rc int) float64 {
	if policy == core.FalloffGradient {
		return threat * f.gradient * (1 - d/float64(rc))
	}
	return threat
}

func (f *Field) paintDisc(grid []float64, pos vmath.Vec2, r, threat float64, policy core.Falloff) {
	rc := vmath.RangeCells(r, f.cellSize)
	if rc == 0 || threat == 0 {
		return
	}
	cx, cy := vmath.CellOf(pos, f.cellSize)
	x0, x1, y0, y1 := f.clip(cx, cy, rc)
	rr := rc * rc
	for y := y0; y <= y1; y++ {
		dy := y - cy
		row := grid[y*f.width:]
		for x := x0; x <= x1; x++ {
			dx := x - cx
			d2 := dx*dx + dy*dy
			if d2 > rr {
				continue
			}
			row[x] += f.falloff(policy, threat, math.Sqrt(float64(d2)), rc)
		}
	}
}

// paintAmphibious uses the water range on water cells and the land range elsewhere
func (f *Field) paintAmphibious(grid []float64, h *core.EnemySnapshot) {
	if f.water == nil {
		f.paintDisc(grid, h.Pos, h.Ranges[core.RangeLand], h.Threat, h.Falloff)
		return
	}
	rl := vmath.RangeCells(h.Ranges[core.RangeLand], f.cellSize)
	rw := vmath.RangeCells(h.Ranges[core.RangeWater], f.cellSize)
	rc := max(rl, rw)
	if rc == 0 || h.Threat == 0 {
		return
	}
	cx, cy := vmath.CellOf(h.Pos, f.cellSize)
	x0, x1, y0, y1 := f.clip(cx, cy, rc)
	for y := y0; y <= y1; y++ {
		dy := y - cy
		for x := x0; x <= x1; x++ {
			dx := x - cx
			idx := y*f.width + x
			r := rl
			if f.water[idx] {
				r = rw
			}
			d2 := dx*dx + dy*dy
			if r == 0 || d2 > r*r {
				continue
			}
			grid[idx] += f.falloff(h.Falloff, h.Threat, math.Sqrt(float64(d2)), r)
		}
	}
}

// paintStealth adds a steep weight*(1-d/R)^2 detector disc
func (f *Field) paintStealth(grid []float64, pos vmath.Vec2, r float64) {
	rc := vmath.RangeCells(r, f.cellSize)
	if rc == 0 || f.stealth == 0 {
		return
	}
	cx, cy := vmath.CellOf(pos, f.cellSize)
	x0, x1, y0, y1 := f.clip(cx, cy, rc)
	rr := rc * rc
	for y := y0; y <= y1; y++ {
		dy := y - cy
		for x := x0; x <= x1; x++ {
			dx := x - cx
			d2 := dx*dx + dy*dy
			if d2 > rr {
				continue
			}
			t := 1 - math.Sqrt(float64(d2))/float64(rc)
			grid[y*f.width+x] += f.stealth * t * t
		}
	}
}
