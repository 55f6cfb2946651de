// Package ledger tracks per-unit visibility of opposing forces and decides which contacts
// take part in hazard painting, and with what stats
//
// All methods are called from the simulation goroutine only
package ledger

import (
	"log"
	"sync/atomic"

	"github.com/lixenwraith/threatfield/catalog"
	"github.com/lixenwraith/threatfield/config"
	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/status"
	"github.com/lixenwraith/threatfield/vmath"
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

// Catalog resolves a definition id into combat stats
type Catalog interface {
	Lookup(defID string) (catalog.UnitDef, bool)
}

// Observation is the live state of one unit as reported by the host
type Observation struct {
	Pos               vmath.Vec2
	Vel               vmath.Vec2
	DefID             string
	UnderConstruction bool
}

// UnitSource reads live unit state
type UnitSource interface {
	Observe(id core.UnitID) (Observation, bool)
}

// VisibilityMap answers whether a position should currently be in friendly view
type VisibilityMap interface {
	IsCurrentlyObservable(pos vmath.Vec2) bool
}

// Stats counts tracked records by state
type Stats struct {
	Tracked   int
	RadarOnly int
	Sensed    int
	Hidden    int
	Peaceful  int
	Unknown   int // identified by sight but absent from the catalog
}

// Ledger is the enemy visibility ledger
type Ledger struct {
	cat    Catalog
	source UnitSource
	vis    VisibilityMap

	threat      config.Threat
	ghostExpiry int
	fallback    catalog.UnitDef

	records []*Record
	index   map[core.UnitID]int
	frame   int

	statTracked   *atomic.Int64
	statHidden    *atomic.Int64
	statRadarOnly *atomic.Int64
	statPeaceful  *atomic.Int64
}

// New creates an empty ledger
// Collaborators are required; reg may be nil
func New(cfg config.Config, cat Catalog, source UnitSource, vis VisibilityMap, reg *status.Registry) *Ledger {
	if cat == nil || source == nil || vis == nil {
		panic("ledger: nil collaborator")
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Ledger{
		cat:           cat,
		source:        source,
		vis:           vis,
		threat:        cfg.Threat,
		ghostExpiry:   cfg.Ledger.GhostExpiryFrames,
		fallback:      catalog.UnknownFallback(cfg.Threat.UnknownRange, cfg.Threat.UnknownThreat),
		records:       make([]*Record, 0, 64),
		index:         make(map[core.UnitID]int, 64),
		statTracked:   reg.Ints.Get(status.KeyLedgerTracked),
		statHidden:    reg.Ints.Get(status.KeyLedgerHidden),
		statRadarOnly: reg.Ints.Get(status.KeyLedgerRadarOnly),
		statPeaceful:  reg.Ints.Get(status.KeyLedgerPeaceful),
	}
}

// SetFrame sets the frame stamped on records by subsequent sighting calls
func (l *Ledger) SetFrame(frame int) {
	l.frame = frame
}

// Len returns the number of tracked records
func (l *Ledger) Len() int {
	return len(l.records)
}

// Record returns a copy of the record for id
func (l *Ledger) Record(id core.UnitID) (Record, bool) {
	i, ok := l.index[id]
	if !ok {
		return Record{}, false
	}
	return *l.records[i], true
}

// State returns the visibility state of id, StateDead when untracked
func (l *Ledger) State(id core.UnitID) State {
	i, ok := l.index[id]
	if !ok {
		return StateDead
	}
	return l.records[i].State()
}

// EnterSensor records a sighting, creating the record on first contact
// A direct sighting identifies the unit once; any sighting clears Hidden
func (l *Ledger) EnterSensor(id core.UnitID, via core.Sense) {
	r := l.lookupOrCreate(id)
	r.Sensing |= via
	r.Flags &^= FlagHidden
	r.LastSeen = l.frame

	l.observe(r)
	if via&core.SenseLOS != 0 && !r.Known() {
		l.identify(r)
	}
	l.derive(r)
}

// LeaveSensor clears one sensing bit
// With no sensing left and the last position in plain view, the unit is taken as gone
func (l *Ledger) LeaveSensor(id core.UnitID, via core.Sense) {
	i, ok := l.index[id]
	if !ok {
		return
	}
	r := l.records[i]
	if r.Sensing == 0 {
		return
	}
	r.Sensing &^= via
	r.LastSeen = l.frame
	if r.Sensing == 0 && r.Located() && l.vis.IsCurrentlyObservable(r.Pos) {
		r.Flags |= FlagHidden
	}
}

// Destroyed removes the record for id
func (l *Ledger) Destroyed(id core.UnitID) {
	i, ok := l.index[id]
	if !ok {
		return
	}
	l.remove(i)
}

// Refresh updates sensed records from the unit source and applies the out-of-sensor rules
func (l *Ledger) Refresh(frame int) {
	l.frame = frame
	for i := 0; i < len(l.records); {
		r := l.records[i]

		if r.Sensing != 0 {
			r.LastSeen = frame
			l.observe(r)
			if r.Sensing&core.SenseLOS != 0 && !r.Known() {
				l.identify(r)
			}
			l.derive(r)
			i++
			continue
		}

		if l.ghostExpiry > 0 && frame-r.LastSeen >= l.ghostExpiry {
			l.remove(i)
			continue // swapped-in record now at i
		}

		if !r.Hidden() && r.Located() && l.vis.IsCurrentlyObservable(r.Pos) {
			r.Flags |= FlagHidden
		}
		i++
	}
	l.publishStats()
}

// Stats counts records by state
func (l *Ledger) Stats() Stats {
	var s Stats
	s.Tracked = len(l.records)
	for _, r := range l.records {
		switch r.State() {
		case StateRadarOnly:
			s.RadarOnly++
		case StateSensed:
			s.Sensed++
		case StateHidden:
			s.Hidden++
		}
		if r.Peaceful() {
			s.Peaceful++
		}
		if r.Known() && !r.Def.IsKnown() {
			s.Unknown++
		}
	}
	return s
}

// Snapshot appends an immutable copy of every relevant record and returns the slices
// Hostile: not hidden and not peaceful
// Peaceful: identified non-combat units currently in sensor range
// Contacts the unit source has never located are left out
func (l *Ledger) Snapshot(hostile, peaceful []core.EnemySnapshot) ([]core.EnemySnapshot, []core.EnemySnapshot) {
	for _, r := range l.records {
		if r.Hidden() || !r.Located() {
			continue
		}
		if r.Peaceful() {
			if r.Sensing != 0 {
				peaceful = append(peaceful, r.snapshot())
			}
			continue
		}
		hostile = append(hostile, r.snapshot())
	}
	return hostile, peaceful
}

func (l *Ledger) lookupOrCreate(id core.UnitID) *Record {
	if i, ok := l.index[id]; ok {
		return l.records[i]
	}
	r := &Record{
		ID:       id,
		Def:      catalog.Unknown(l.fallback),
		LastSeen: l.frame,
	}
	l.index[id] = len(l.records)
	l.records = append(l.records, r)
	return r
}

// remove swap-deletes records[i]
func (l *Ledger) remove(i int) {
	r := l.records[i]
	last := len(l.records) - 1
	if i != last {
		moved := l.records[last]
		l.records[i] = moved
		l.index[moved.ID] = i
	}
	l.records[last] = nil
	l.records = l.records[:last]
	delete(l.index, r.ID)
}

func (l *Ledger) observe(r *Record) {
	obs, ok := l.source.Observe(r.ID)
	if !ok {
		return
	}
	r.Flags |= FlagLocated
	r.Pos = obs.Pos
	r.Vel = obs.Vel
	r.UnderConstruction = obs.UnderConstruction
	if obs.DefID != "" {
		r.DefID = obs.DefID
	}
}

// identify resolves the definition once, falling back for ids the catalog does not know
// Without a definition id yet the contact stays unidentified and is retried next refresh
func (l *Ledger) identify(r *Record) {
	if r.DefID == "" {
		return
	}
	r.Flags |= FlagKnown
	if def, ok := l.cat.Lookup(r.DefID); ok {
		r.Def = catalog.Known(def)
		return
	}
	r.Def = catalog.Unknown(l.fallback)
	Logf("ledger: unit %d has unresolved definition %q, using fallback", r.ID, r.DefID)
}

// derive recomputes cached threat and ranges from the definition and current motion
func (l *Ledger) derive(r *Record) {
	d := r.Def.Stats()

	if !r.Def.IsKnown() {
		r.Threat = l.threat.UnknownThreat
		r.Ranges = core.Ranges{
			core.RangeAir:    d.AirRange,
			core.RangeLand:   d.LandRange,
			core.RangeWater:  d.WaterRange,
			core.RangeDetect: l.threat.DefaultDetectRange,
		}
		return
	}

	slack := l.threat.RangeSlack
	if !r.Vel.IsZero() {
		slack += r.Vel.Len() * l.threat.VelocitySlackFrames
	}

	r.Threat = d.Damage
	for k := core.RangeAir; k <= core.RangeWater; k++ {
		if w := d.WeaponRange(k); w > 0 {
			r.Ranges[k] = w + slack
		} else {
			r.Ranges[k] = 0
		}
	}
	if d.DetectRange > 0 {
		r.Ranges[core.RangeDetect] = d.DetectRange + slack
	} else {
		r.Ranges[core.RangeDetect] = l.threat.DefaultDetectRange
	}
}

func (l *Ledger) publishStats() {
	s := l.Stats()
	l.statTracked.Store(int64(s.Tracked))
	l.statHidden.Store(int64(s.Hidden))
	l.statRadarOnly.Store(int64(s.RadarOnly))
	l.statPeaceful.Store(int64(s.Peaceful))
}
