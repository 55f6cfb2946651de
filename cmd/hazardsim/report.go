package main

import (
	"fmt"
	"io"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lixenwraith/threatfield/catalog"
	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/engine"
	"github.com/lixenwraith/threatfield/field"
	"github.com/lixenwraith/threatfield/sandbox"
)

// report prints layer statistics, friendly combat scores and the metrics registry
func report(w io.Writer, eng *engine.Engine, world *sandbox.World, cat *catalog.Catalog, elapsed time.Duration) {
	f := eng.Field()
	fmt.Fprintf(w, "frames=%d generation=%d elapsed=%s\n\n", eng.Frame(), f.Generation(), elapsed.Round(time.Millisecond))

	fmt.Fprintf(w, "%-11s %9s %9s %9s %11s %6s\n", "layer", "mean", "stddev", "max", "sum", "hot")
	v := f.View()
	for l := core.Layer(0); l < core.LayerCount; l++ {
		s := v.Summary(l)
		fmt.Fprintf(w, "%-11s %9.2f %9.2f %9.2f %11.1f %6d\n", l, s.Mean, s.StdDev, s.Max, s.Sum, s.Hot)
	}
	v.Release()

	// Hazard each observer post faces, per friendly unit type
	fmt.Fprintf(w, "\n%-16s %-11s %9s %9s\n", "friendly", "domain", "hazard", "strength")
	var hazards []float64
	for _, id := range cat.IDs() {
		def, _ := cat.Lookup(id)
		if def.Peaceful() {
			continue
		}
		for _, o := range world.Observers() {
			u := field.UnitAt(def, o.Pos)
			hazards = append(hazards, f.PointThreat(field.DomainForUnit(u), o.Pos))
		}
		u := field.UnitAt(def, world.Observers()[0].Pos)
		layer := field.DomainForUnit(u)
		fmt.Fprintf(w, "%-16s %-11s %9.2f %9.2f\n", id, layer, f.PointThreat(layer, u.Pos), f.UnitThreat(u))
	}
	if len(hazards) > 0 {
		fmt.Fprintf(w, "observer hazard: mean=%.2f max=%.2f\n", stat.Mean(hazards, nil), floats.Max(hazards))
	}

	stats := eng.Ledger().Stats()
	fmt.Fprintf(w, "\nledger: tracked=%d radar_only=%d sensed=%d hidden=%d peaceful=%d unknown=%d\n",
		stats.Tracked, stats.RadarOnly, stats.Sensed, stats.Hidden, stats.Peaceful, stats.Unknown)

	fmt.Fprintln(w, "\nmetrics:")
	for _, line := range eng.Registry().Lines() {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
