package field

import (
	"math"

	"github.com/lixenwraith/threatfield/catalog"
	"github.com/lixenwraith/threatfield/constants"
	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/vmath"
)

// Unit is the querying friendly unit as seen by decision logic
type Unit struct {
	Pos    vmath.Vec2
	Damage float64
	Health float64
	Move   core.Locomotion
}

// UnitAt builds a query unit from a catalog definition
func UnitAt(def catalog.UnitDef, pos vmath.Vec2) Unit {
	return Unit{Pos: pos, Damage: def.Damage, Health: def.Health, Move: def.Move}
}

// PointThreat returns the published hazard at pos minus base
// Positions outside the grid read the nearest edge cell
func (f *Field) PointThreat(layer core.Layer, pos vmath.Vec2) float64 {
	v := f.View()
	defer v.Release()
	return v.PointThreat(layer, pos)
}

// ShieldAt returns the published shield overlay at pos
func (f *Field) ShieldAt(pos vmath.Vec2) float64 {
	v := f.View()
	defer v.Release()
	return v.ShieldAt(pos)
}

// MaxThreatInRadius returns the highest published hazard minus base within radius of pos
func (f *Field) MaxThreatInRadius(layer core.Layer, pos vmath.Vec2, radius float64) float64 {
	v := f.View()
	defer v.Release()
	return v.MaxThreatInRadius(layer, pos, radius)
}

// UnitThreat returns the combat-strength score damage*sqrt(max(0, health + 2*shield))
// Shield is read from the published overlay at the unit's position
func (f *Field) UnitThreat(u Unit) float64 {
	shield := f.ShieldAt(u.Pos)
	return u.Damage * math.Sqrt(math.Max(0, u.Health+constants.ShieldHealthFactor*shield))
}

// DomainForUnit selects the layer a unit reads from its own locomotion
func DomainForUnit(u Unit) core.Layer {
	switch u.Move {
	case core.MoveAir:
		return core.LayerAir
	case core.MoveAmphibious, core.MoveHover, core.MoveSubmarine:
		return core.LayerAmphibious
	default:
		return core.LayerSurface
	}
}
