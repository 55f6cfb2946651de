// Package sandbox is a deterministic synthetic battlefield implementing the host collaborator
// interfaces: live unit state, static visibility, terrain, and sighting events
package sandbox

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/lixenwraith/threatfield/catalog"
	"github.com/lixenwraith/threatfield/config"
	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/events"
	"github.com/lixenwraith/threatfield/ledger"
	"github.com/lixenwraith/threatfield/vmath"
)

// UnresolvedDefID is given to contacts the catalog cannot resolve
const UnresolvedDefID = "prototype_x"

// Options shapes the generated battlefield
type Options struct {
	Seed      uint64
	Hostiles  int
	Peaceful  int
	Unknown   int     // hostiles with an unresolvable definition
	Observers int     // friendly sensor posts
	LOSRange  float64 // observer direct-sight radius
	Radar     float64 // observer radar radius
	KillRate  float64 // per-unit per-step destruction chance
	WaterFrom float64 // water band [WaterFrom, WaterTo) as a fraction of width
	WaterTo   float64
}

// DefaultOptions returns a mid-sized battle
func DefaultOptions() Options {
	return Options{
		Seed:      1,
		Hostiles:  24,
		Peaceful:  6,
		Unknown:   2,
		Observers: 4,
		LOSRange:  900,
		Radar:     2200,
		KillRate:  0.0005,
		WaterFrom: 0.55,
		WaterTo:   0.7,
	}
}

// Unit is one opposing unit
type Unit struct {
	ID                core.UnitID
	DefID             string
	Pos               vmath.Vec2
	Vel               vmath.Vec2
	UnderConstruction bool
	sensed            core.Sense
}

// Observer is a friendly sensor post
type Observer struct {
	Pos   vmath.Vec2
	LOS   float64
	Radar float64
}

// World owns all units
// Step and the collaborator queries are guarded so a viewer may read concurrently
type World struct {
	mu sync.RWMutex

	width    float64
	height   float64
	cellSize int
	opts     Options
	rng      *rand.Rand

	cat       *catalog.Catalog
	hostile   []string
	peaceful  []string
	units     []*Unit
	byID      map[core.UnitID]*Unit
	observers []Observer
	nextID    core.UnitID
}

// NewWorld populates a battlefield over the grid extent
// Hostiles spawn on the far (right) side, observers on the near side
func NewWorld(grid config.Grid, cat *catalog.Catalog, opts Options) *World {
	w := &World{
		width:    float64(grid.Width * grid.CellSize),
		height:   float64(grid.Height * grid.CellSize),
		cellSize: grid.CellSize,
		opts:     opts,
		rng:      rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		cat:      cat,
		byID:     make(map[core.UnitID]*Unit),
		nextID:   1,
	}
	for _, id := range cat.IDs() {
		def, _ := cat.Lookup(id)
		if def.Peaceful() {
			w.peaceful = append(w.peaceful, id)
		} else {
			w.hostile = append(w.hostile, id)
		}
	}

	for i := 0; i < opts.Observers; i++ {
		y := w.height * (float64(i) + 0.5) / float64(max(opts.Observers, 1))
		w.observers = append(w.observers, Observer{
			Pos:   vmath.V2(w.width*0.15, y),
			LOS:   opts.LOSRange,
			Radar: opts.Radar,
		})
	}

	for i := 0; i < opts.Hostiles; i++ {
		w.spawn(w.pick(w.hostile))
	}
	for i := 0; i < opts.Peaceful; i++ {
		w.spawn(w.pick(w.peaceful))
	}
	for i := 0; i < opts.Unknown; i++ {
		w.spawn(UnresolvedDefID)
	}
	return w
}

func (w *World) pick(ids []string) string {
	if len(ids) == 0 {
		return UnresolvedDefID
	}
	return ids[w.rng.IntN(len(ids))]
}

func (w *World) spawn(defID string) *Unit {
	speed := 1.5
	if def, ok := w.cat.Lookup(defID); ok {
		speed = def.Speed
	}
	heading := w.rng.Float64() * 2 * math.Pi
	u := &Unit{
		ID:                w.nextID,
		DefID:             defID,
		Pos:               vmath.V2(w.width*(0.4+0.55*w.rng.Float64()), w.height*w.rng.Float64()),
		Vel:               vmath.V2(math.Cos(heading), math.Sin(heading)).Scale(speed),
		UnderConstruction: w.rng.Float64() < 0.05,
	}
	w.nextID++
	w.units = append(w.units, u)
	w.byID[u.ID] = u
	return u
}

// Step advances units one frame and posts sighting events for every sensing change
// post returning false (queue full) loses the event, as a real host would
func (w *World) Step(post func(events.SightingEvent) bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var respawn []string
	for i := 0; i < len(w.units); {
		u := w.units[i]

		if w.opts.KillRate > 0 && w.rng.Float64() < w.opts.KillRate {
			post(events.Destroyed(u.ID))
			delete(w.byID, u.ID)
			last := len(w.units) - 1
			w.units[i] = w.units[last]
			w.units[last] = nil
			w.units = w.units[:last]
			respawn = append(respawn, u.DefID)
			continue
		}

		w.move(u)
		now := w.sense(u.Pos)
		for _, bit := range []core.Sense{core.SenseLOS, core.SenseRadar} {
			switch {
			case now&bit != 0 && u.sensed&bit == 0:
				post(events.EnterSensor(u.ID, bit))
			case now&bit == 0 && u.sensed&bit != 0:
				post(events.LeaveSensor(u.ID, bit))
			}
		}
		u.sensed = now
		if u.UnderConstruction && w.rng.Float64() < 0.01 {
			u.UnderConstruction = false
		}
		i++
	}

	// Replacements join next step, first sighted then
	for _, defID := range respawn {
		w.spawn(defID)
	}
}

// move bounces u off the world edges
func (w *World) move(u *Unit) {
	u.Pos = u.Pos.Add(u.Vel)
	if u.Pos.X < 0 || u.Pos.X >= w.width {
		u.Vel.X = -u.Vel.X
		u.Pos.X = math.Min(math.Max(u.Pos.X, 0), w.width-1)
	}
	if u.Pos.Y < 0 || u.Pos.Y >= w.height {
		u.Vel.Y = -u.Vel.Y
		u.Pos.Y = math.Min(math.Max(u.Pos.Y, 0), w.height-1)
	}
}

func (w *World) sense(p vmath.Vec2) core.Sense {
	var s core.Sense
	for _, o := range w.observers {
		d2 := vmath.DistSq(p, o.Pos)
		if d2 <= o.LOS*o.LOS {
			s |= core.SenseLOS
		}
		if d2 <= o.Radar*o.Radar {
			s |= core.SenseRadar
		}
	}
	return s
}

// Observe implements ledger.UnitSource
func (w *World) Observe(id core.UnitID) (ledger.Observation, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	u, ok := w.byID[id]
	if !ok {
		return ledger.Observation{}, false
	}
	return ledger.Observation{
		Pos:               u.Pos,
		Vel:               u.Vel,
		DefID:             u.DefID,
		UnderConstruction: u.UnderConstruction,
	}, true
}

// IsCurrentlyObservable implements ledger.VisibilityMap: inside any observer's direct sight
func (w *World) IsCurrentlyObservable(pos vmath.Vec2) bool {
	for _, o := range w.observers {
		if vmath.DistSq(pos, o.Pos) <= o.LOS*o.LOS {
			return true
		}
	}
	return false
}

// IsWater implements field.TerrainMap: a vertical band of the map
func (w *World) IsWater(cx, _ int) bool {
	x := vmath.CellCenter(cx, 0, w.cellSize).X / w.width
	return x >= w.opts.WaterFrom && x < w.opts.WaterTo
}

// Observers returns the friendly sensor posts
func (w *World) Observers() []Observer {
	return w.observers
}

// Units returns a copy of every live unit
func (w *World) Units() []Unit {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Unit, len(w.units))
	for i, u := range w.units {
		out[i] = *u
	}
	return out
}
