package constants

import "time"

// Grid defaults
const (
	// DefaultGridWidth and DefaultGridHeight size the hazard grids in cells
	DefaultGridWidth  = 64
	DefaultGridHeight = 64

	// DefaultCellSize is the edge of one hazard cell in world units
	DefaultCellSize = 128
)

// Threat painting
const (
	// DefaultThreatBase is the value staging layers are reset to each cycle
	// Queries subtract it so zero always means "no added hazard"
	DefaultThreatBase = 1.0

	// GradientCenterFactor scales gradient-disc threat at the source cell
	// Compatibility constant: 2x at the center tapering to 0x at the boundary
	GradientCenterFactor = 2.0

	// StealthWeight is the peak stealth-detection contribution of one detector
	StealthWeight = 1.0

	// ShieldHealthFactor weights the shield overlay when deriving combat strength
	ShieldHealthFactor = 2.0
)

// Visibility ledger
const (
	// DefaultRangeSlack is the constant positional slack added to every weapon range
	// Covers one refresh interval of drift
	DefaultRangeSlack = 2 * DefaultCellSize

	// DefaultVelocitySlackFrames multiplies speed (world units per frame) into extra slack while moving
	DefaultVelocitySlackFrames = 30

	// DefaultUnknownRange is the conservative radius used for contacts with no resolvable definition
	DefaultUnknownRange = 800.0

	// DefaultUnknownThreat is the flat guessed threat of an unknown contact
	DefaultUnknownThreat = 20.0

	// DefaultDetectRange is the stealth-detection radius of units without a dedicated detector
	DefaultDetectRange = 2 * DefaultCellSize

	// DefaultGhostExpiryFrames drops records not sensed for this long, 0 keeps them forever
	DefaultGhostExpiryFrames = 0
)

// Engine cadence
const (
	// DefaultRefreshFrames is the interval between threat field refresh cycles
	DefaultRefreshFrames = 15

	// DefaultTickInterval is the real-time frame length used by the clock driver (30 fps)
	DefaultTickInterval = 33 * time.Millisecond

	// DefaultEventQueueSize is the capacity of the inbound event ring, must be a power of two
	DefaultEventQueueSize = 1024
)
