package status

import (
	"fmt"
	"sync/atomic"
)

// Metric keys shared by the engine components
// Components cache the returned pointers once; hot paths never touch the maps
const (
	KeySchedOnce          = "sched.once"
	KeySchedRepeating     = "sched.repeating"
	KeySchedBackground    = "sched.background.pending"
	KeySchedCompletions   = "sched.completions"
	KeyLedgerTracked      = "ledger.tracked"
	KeyLedgerHidden       = "ledger.hidden"
	KeyLedgerRadarOnly    = "ledger.radar_only"
	KeyLedgerPeaceful     = "ledger.peaceful"
	KeyFieldCycles        = "field.cycles"
	KeyFieldDropped       = "field.dropped_updates"
	KeyFieldGeneration    = "field.generation"
	KeyFieldHostiles      = "field.hostiles"
	KeyFieldPeaceful      = "field.peaceful"
	KeyFieldPaintMs       = "field.paint_ms"
	KeyFieldPaintPeakMs   = "field.paint_peak_ms"
	KeyFieldUpdating      = "field.updating"
	KeyEventsDropped      = "events.dropped"
	KeyEngineFrame        = "engine.frame"
	KeyEngineTickOverruns = "engine.tick_overruns"
)

// Registry is the central metrics facade
// Systems cache pointers during init; update paths write directly to atomics
type Registry struct {
	Bools  *MetricMap[atomic.Bool]
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:  NewMetricMap[atomic.Bool](),
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count()
}

// Lines renders every metric as "key=value", bools then ints then floats, keys sorted
// Used by the viewer status panel and the headless report
func (r *Registry) Lines() []string {
	lines := make([]string, 0, r.TotalCount())
	r.Bools.Range(func(key string, v *atomic.Bool) {
		lines = append(lines, fmt.Sprintf("%s=%t", key, v.Load()))
	})
	r.Ints.Range(func(key string, v *atomic.Int64) {
		lines = append(lines, fmt.Sprintf("%s=%d", key, v.Load()))
	})
	r.Floats.Range(func(key string, v *AtomicFloat) {
		lines = append(lines, fmt.Sprintf("%s=%.2f", key, v.Get()))
	})
	return lines
}
