package events

import "github.com/lixenwraith/threatfield/core"

// EventType identifies an inbound sighting event
type EventType uint8

const (
	// EventEnterSensor signals a unit entering LOS or radar coverage
	// Trigger: host sensor glue | Consumer: ledger
	EventEnterSensor EventType = iota

	// EventLeaveSensor signals a unit leaving LOS or radar coverage
	// Trigger: host sensor glue | Consumer: ledger
	EventLeaveSensor

	// EventDestroyed signals a unit's destruction, its record is removed permanently
	// Trigger: host death notice | Consumer: ledger
	EventDestroyed

	eventTypeCount // sentinel
)

// String returns the event name used in logs
func (t EventType) String() string {
	switch t {
	case EventEnterSensor:
		return "EnterSensor"
	case EventLeaveSensor:
		return "LeaveSensor"
	case EventDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// SightingEvent is one inbound notification about an opposing unit
// Via is meaningful for enter/leave only
type SightingEvent struct {
	Type EventType
	Unit core.UnitID
	Via  core.Sense
}

// EnterSensor builds an EventEnterSensor
func EnterSensor(id core.UnitID, via core.Sense) SightingEvent {
	return SightingEvent{Type: EventEnterSensor, Unit: id, Via: via}
}

// LeaveSensor builds an EventLeaveSensor
func LeaveSensor(id core.UnitID, via core.Sense) SightingEvent {
	return SightingEvent{Type: EventLeaveSensor, Unit: id, Via: via}
}

// Destroyed builds an EventDestroyed
func Destroyed(id core.UnitID) SightingEvent {
	return SightingEvent{Type: EventDestroyed, Unit: id}
}
