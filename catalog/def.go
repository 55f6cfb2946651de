package catalog

import "github.com/lixenwraith/threatfield/core"

// UnitDef is the static combat definition of one unit type
// Values are trusted; catalog files are schema-checked on load, runtime callers are not
type UnitDef struct {
	ID           string
	Damage       float64 // sustained damage per second, 0 for non-combat units
	Health       float64
	Falloff      core.Falloff
	AirRange     float64 // weapon max range against air, 0 = cannot hit
	LandRange    float64
	WaterRange   float64
	DetectRange  float64 // stealth-detection radius, 0 = no dedicated detector
	ShieldRadius float64
	ShieldPower  float64
	Move         core.Locomotion
	Speed        float64 // world units per frame
}

// Peaceful reports whether the unit never contributes damage hazard
func (d *UnitDef) Peaceful() bool {
	return d.Damage <= 0
}

// WeaponRange returns the max weapon range for one domain, 0 for RangeDetect
func (d *UnitDef) WeaponRange(k core.RangeKind) float64 {
	switch k {
	case core.RangeAir:
		return d.AirRange
	case core.RangeLand:
		return d.LandRange
	case core.RangeWater:
		return d.WaterRange
	default:
		return 0
	}
}

// HasShield reports whether the unit projects a shield
func (d *UnitDef) HasShield() bool {
	return d.ShieldPower > 0 && d.ShieldRadius > 0
}

// UnknownFallback builds the conservative stand-in for a contact with no resolvable definition
// Every damage domain gets the same radius so the contact is never understated
func UnknownFallback(rng, threat float64) UnitDef {
	return UnitDef{
		Damage:     threat,
		Falloff:    core.FalloffConstant,
		AirRange:   rng,
		LandRange:  rng,
		WaterRange: rng,
		Move:       core.MoveLand,
	}
}

type defKind uint8

const (
	defUnknown defKind = iota
	defKnown
)

// Def is the tagged variant {Known(stats) | Unknown(fallback)} held by ledger records
// The zero value is Unknown with zero stats
type Def struct {
	kind  defKind
	stats UnitDef
}

// Known wraps a resolved definition
func Known(d UnitDef) Def {
	return Def{kind: defKnown, stats: d}
}

// Unknown wraps fallback stats for an unresolved contact
func Unknown(fallback UnitDef) Def {
	return Def{kind: defUnknown, stats: fallback}
}

// IsKnown reports whether the definition was resolved from the catalog
func (d Def) IsKnown() bool {
	return d.kind == defKnown
}

// Stats returns the resolved or fallback stats
func (d Def) Stats() UnitDef {
	return d.stats
}
