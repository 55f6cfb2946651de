package ledger

import "github.com/lixenwraith/threatfield/events"

// HandleEvent applies one routed sighting event, ctx is the current frame
func (l *Ledger) HandleEvent(frame int, ev events.SightingEvent) {
	l.frame = frame
	switch ev.Type {
	case events.EventEnterSensor:
		l.EnterSensor(ev.Unit, ev.Via)
	case events.EventLeaveSensor:
		l.LeaveSensor(ev.Unit, ev.Via)
	case events.EventDestroyed:
		l.Destroyed(ev.Unit)
	}
}

// EventTypes implements events.Handler
func (l *Ledger) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventEnterSensor,
		events.EventLeaveSensor,
		events.EventDestroyed,
	}
}
