package core

// UnitID identifies an opposing unit as reported by the host
type UnitID int32

// Layer selects one of the per-cell hazard grids
type Layer uint8

const (
	LayerAir Layer = iota
	LayerSurface
	LayerAmphibious
	LayerStealth
	LayerCount // sentinel
)

// String returns a short display name for the layer
func (l Layer) String() string {
	switch l {
	case LayerAir:
		return "air"
	case LayerSurface:
		return "surface"
	case LayerAmphibious:
		return "amphibious"
	case LayerStealth:
		return "stealth"
	default:
		return "unknown"
	}
}

// RangeKind indexes the per-domain effective range array
type RangeKind uint8

const (
	RangeAir RangeKind = iota
	RangeLand
	RangeWater
	RangeDetect
	RangeCount // sentinel
)

// Ranges holds one effective radius per RangeKind, in world units
type Ranges [RangeCount]float64

// Falloff maps distance-from-source to contributed hazard magnitude
type Falloff uint8

const (
	// FalloffConstant paints the full threat everywhere within range (area-effect, instant-hit)
	FalloffConstant Falloff = iota
	// FalloffGradient paints threat*GradientCenterFactor at the center tapering to 0 at the boundary
	FalloffGradient
)

// String returns the catalog spelling of the policy
func (f Falloff) String() string {
	if f == FalloffGradient {
		return "gradient"
	}
	return "constant"
}

// ParseFalloff maps the catalog spelling to a policy, ok=false when unrecognized
func ParseFalloff(s string) (Falloff, bool) {
	switch s {
	case "", "constant":
		return FalloffConstant, true
	case "gradient":
		return FalloffGradient, true
	default:
		return FalloffConstant, false
	}
}

// Locomotion is a unit's movement capability, used to pick the layer it reads
type Locomotion uint8

const (
	MoveLand Locomotion = iota
	MoveAir
	MoveShip
	MoveSubmarine
	MoveHover
	MoveAmphibious
	MoveStatic // buildings
)

// ParseLocomotion maps the catalog spelling to a locomotion class
func ParseLocomotion(s string) (Locomotion, bool) {
	switch s {
	case "", "land":
		return MoveLand, true
	case "air":
		return MoveAir, true
	case "ship":
		return MoveShip, true
	case "submarine":
		return MoveSubmarine, true
	case "hover":
		return MoveHover, true
	case "amphibious":
		return MoveAmphibious, true
	case "static":
		return MoveStatic, true
	default:
		return MoveLand, false
	}
}

// Sense is a bit set of the ways a unit is currently detected
type Sense uint8

const (
	SenseLOS   Sense = 1 << iota // direct line of sight
	SenseRadar                   // radar or equivalent remote sensing
)

// String returns "los", "radar", "los|radar" or "none"
func (s Sense) String() string {
	switch s & (SenseLOS | SenseRadar) {
	case SenseLOS:
		return "los"
	case SenseRadar:
		return "radar"
	case SenseLOS | SenseRadar:
		return "los|radar"
	default:
		return "none"
	}
}
