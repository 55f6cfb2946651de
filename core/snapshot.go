package core

import "github.com/lixenwraith/threatfield/vmath"

// SnapshotFlags carries per-record state that affects painting
type SnapshotFlags uint8

const (
	FlagUnderConstruction SnapshotFlags = 1 << iota
	FlagUnknown                         // no resolvable definition, fallback stats
)

// EnemySnapshot is an immutable copy of one opposing unit, taken on the simulation goroutine
// A cycle's paint task reads only these records, never live unit state
type EnemySnapshot struct {
	ID           UnitID
	Pos          vmath.Vec2
	Vel          vmath.Vec2
	Threat       float64
	Ranges       Ranges
	ShieldPower  float64
	ShieldRadius float64
	Falloff      Falloff
	Flags        SnapshotFlags
}

// Has reports whether all bits of f are set
func (s *EnemySnapshot) Has(f SnapshotFlags) bool {
	return s.Flags&f == f
}
