// Package field maintains the double-buffered per-cell threat layers
//
// Cycle: EnqueueUpdate snapshots the ledger on the simulation goroutine, a background task
// paints the staging set on the general pool, and the publish completion flips the published
// selector inside ProcessTasks. Queries read the published set lock-free and never block
package field

import (
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/threatfield/config"
	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/scheduler"
	"github.com/lixenwraith/threatfield/status"
)

// Logf is the package diagnostic logger, replaceable by SetLogger
var Logf = log.Printf

// SetLogger replaces the package logger, nil mutes it
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}

// TerrainMap reports water cells for the amphibious layer
type TerrainMap interface {
	IsWater(cx, cy int) bool
}

// SnapshotSource appends immutable copies of hostile and peaceful contacts
type SnapshotSource interface {
	Snapshot(hostile, peaceful []core.EnemySnapshot) ([]core.EnemySnapshot, []core.EnemySnapshot)
}

// BackgroundScheduler runs a task off the simulation goroutine and its completion back on it
type BackgroundScheduler interface {
	ScheduleBackground(task, onComplete scheduler.Task) error
}

// layerSet is one half of the double buffer
type layerSet struct {
	layers  [core.LayerCount][]float64
	shield  []float64
	readers atomic.Int32 // pinned views
}

func (s *layerSet) init(cells int, base float64) {
	for i := range s.layers {
		s.layers[i] = make([]float64, cells)
		fill(s.layers[i], base)
	}
	s.shield = make([]float64, cells)
}

// Field is the threat field
type Field struct {
	width    int
	height   int
	cellSize int
	base     float64
	gradient float64 // center factor
	stealth  float64 // peak detector weight
	water    []bool  // static terrain mask, nil when all land

	source SnapshotSource
	sched  BackgroundScheduler

	sets [2]layerSet
	// published = generation<<1 | slot
	published atomic.Uint64
	updating  atomic.Bool

	// Cycle inputs, written on the simulation goroutine before submission only
	hostile  []core.EnemySnapshot
	peaceful []core.EnemySnapshot

	paintTask   scheduler.TaskFunc
	publishTask scheduler.TaskFunc

	statCycles    *atomic.Int64
	statDropped   *atomic.Int64
	statGen       *atomic.Int64
	statHostiles  *atomic.Int64
	statPeaceful  *atomic.Int64
	statPaintMs   *status.AtomicFloat
	statPaintPeak *status.AtomicFloat
	statUpdating  *atomic.Bool
}

// New allocates both buffer sets at the configured base value
// terrain may be nil (all land), reg may be nil
func New(cfg config.Config, source SnapshotSource, sched BackgroundScheduler, terrain TerrainMap, reg *status.Registry) *Field {
	if source == nil || sched == nil {
		panic("field: nil collaborator")
	}
	if reg == nil {
		reg = status.NewRegistry()
	}

	w, h := cfg.Grid.Width, cfg.Grid.Height
	f := &Field{
		width:         w,
		height:        h,
		cellSize:      cfg.Grid.CellSize,
		base:          cfg.Threat.Base,
		gradient:      cfg.Threat.GradientCenterFactor,
		stealth:       cfg.Threat.StealthWeight,
		source:        source,
		sched:         sched,
		hostile:       make([]core.EnemySnapshot, 0, 64),
		peaceful:      make([]core.EnemySnapshot, 0, 16),
		statCycles:    reg.Ints.Get(status.KeyFieldCycles),
		statDropped:   reg.Ints.Get(status.KeyFieldDropped),
		statGen:       reg.Ints.Get(status.KeyFieldGeneration),
		statHostiles:  reg.Ints.Get(status.KeyFieldHostiles),
		statPeaceful:  reg.Ints.Get(status.KeyFieldPeaceful),
		statPaintMs:   reg.Floats.Get(status.KeyFieldPaintMs),
		statPaintPeak: reg.Floats.Get(status.KeyFieldPaintPeakMs),
		statUpdating:  reg.Bools.Get(status.KeyFieldUpdating),
	}
	f.sets[0].init(w*h, f.base)
	f.sets[1].init(w*h, f.base)

	// Terrain is static, sampled once so workers never call into host code
	if terrain != nil {
		f.water = make([]bool, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				f.water[y*w+x] = terrain.IsWater(x, y)
			}
		}
	}

	f.paintTask = f.paint
	f.publishTask = f.publish
	return f
}

// Width returns the grid width in cells
func (f *Field) Width() int { return f.width }

// Height returns the grid height in cells
func (f *Field) Height() int { return f.height }

// CellSize returns the cell edge in world units
func (f *Field) CellSize() int { return f.cellSize }

// Base returns the value subtracted by every query
func (f *Field) Base() float64 { return f.base }

// Generation returns the number of cycles published so far
func (f *Field) Generation() uint64 {
	return f.published.Load() >> 1
}

// IsUpdating reports whether a cycle is in flight
func (f *Field) IsUpdating() bool {
	return f.updating.Load()
}

// EnqueueUpdate starts a refresh cycle, returns false when one is already in flight
// Never blocks; must be called from the simulation goroutine
func (f *Field) EnqueueUpdate() bool {
	if !f.updating.CompareAndSwap(false, true) {
		f.statDropped.Add(1)
		return false
	}
	f.statUpdating.Store(true)

	f.hostile, f.peaceful = f.source.Snapshot(f.hostile[:0], f.peaceful[:0])
	f.statHostiles.Store(int64(len(f.hostile)))
	f.statPeaceful.Store(int64(len(f.peaceful)))

	if err := f.sched.ScheduleBackground(f.paintTask, f.publishTask); err != nil {
		Logf("field: paint submission failed: %v", err)
		f.updating.Store(false)
		f.statUpdating.Store(false)
		return false
	}
	return true
}

// staging returns the set not currently published
func (f *Field) staging() *layerSet {
	return &f.sets[(f.published.Load()&1)^1]
}

// publish runs inside ProcessTasks after paint returned
func (f *Field) publish() {
	word := f.published.Load()
	gen := word>>1 + 1
	f.published.Store(gen<<1 | ((word & 1) ^ 1))
	f.updating.Store(false)

	f.statCycles.Add(1)
	f.statGen.Store(int64(gen))
	f.statUpdating.Store(false)
}

// Reader drain backoff: yield readerSpins times, then sleep between checks
const (
	readerSpins   = 64
	readerBackoff = 50 * time.Microsecond
)

// awaitReaders waits until no view pins s, worker goroutine only
func awaitReaders(s *layerSet) {
	for spins := 0; s.readers.Load() != 0; spins++ {
		if spins < readerSpins {
			runtime.Gosched()
			continue
		}
		time.Sleep(readerBackoff)
	}
}

func fill(dst []float64, v float64) {
	for i := range dst {
		dst[i] = v
	}
}
