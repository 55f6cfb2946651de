package ledger

import (
	"github.com/lixenwraith/threatfield/catalog"
	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/vmath"
)

// State is the visibility state of a tracked contact
type State uint8

const (
	StateRadarOnly State = iota // remote contact, not yet identified
	StateSensed                 // identified by direct sight
	StateHidden                 // dropped out while its cell was observable, excluded from painting
	StateDead                   // destroyed or never tracked
)

// String returns the state name used in logs
func (s State) String() string {
	switch s {
	case StateRadarOnly:
		return "radar_only"
	case StateSensed:
		return "sensed"
	case StateHidden:
		return "hidden"
	default:
		return "dead"
	}
}

// RecordFlags are sticky per-record bits
type RecordFlags uint8

const (
	FlagHidden RecordFlags = 1 << iota
	FlagKnown              // identified by direct sight, never reverts
	FlagLocated            // at least one observation succeeded, Pos is real
)

// Record is the ledger's view of one opposing unit
type Record struct {
	ID                core.UnitID
	Sensing           core.Sense
	Flags             RecordFlags
	LastSeen          int
	Def               catalog.Def
	DefID             string
	Threat            float64
	Ranges            core.Ranges
	Pos               vmath.Vec2
	Vel               vmath.Vec2
	UnderConstruction bool
}

// State derives the visibility state from the record bits
func (r *Record) State() State {
	switch {
	case r.Flags&FlagHidden != 0:
		return StateHidden
	case r.Flags&FlagKnown != 0:
		return StateSensed
	default:
		return StateRadarOnly
	}
}

// Hidden reports whether the record is excluded from painting
func (r *Record) Hidden() bool {
	return r.Flags&FlagHidden != 0
}

// Located reports whether the unit source has reported a position
func (r *Record) Located() bool {
	return r.Flags&FlagLocated != 0
}

// Known reports whether the contact was identified by direct sight
func (r *Record) Known() bool {
	return r.Flags&FlagKnown != 0
}

// Peaceful reports whether the contact is an identified non-combat unit
// Unresolved contacts are never peaceful
func (r *Record) Peaceful() bool {
	if !r.Def.IsKnown() {
		return false
	}
	d := r.Def.Stats()
	return d.Peaceful()
}

func (r *Record) snapshot() core.EnemySnapshot {
	d := r.Def.Stats()
	snap := core.EnemySnapshot{
		ID:      r.ID,
		Pos:     r.Pos,
		Vel:     r.Vel,
		Threat:  r.Threat,
		Ranges:  r.Ranges,
		Falloff: d.Falloff,
	}
	if d.HasShield() {
		snap.ShieldPower = d.ShieldPower
		snap.ShieldRadius = d.ShieldRadius
	}
	if r.UnderConstruction {
		snap.Flags |= core.FlagUnderConstruction
	}
	if !r.Def.IsKnown() {
		snap.Flags |= core.FlagUnknown
	}
	return snap
}
