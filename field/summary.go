package field

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lixenwraith/threatfield/core"
)

// Summary is per-layer statistics over one published generation, values minus base
type Summary struct {
	Layer      core.Layer
	Generation uint64
	Mean       float64
	StdDev     float64
	Max        float64
	Sum        float64
	Hot        int // cells above base
}

// Summary computes statistics for layer over a single pinned view
func (f *Field) Summary(layer core.Layer) Summary {
	v := f.View()
	defer v.Release()
	return v.Summary(layer)
}

// Summary computes statistics for layer over the pinned set
func (v View) Summary(layer core.Layer) Summary {
	vals := make([]float64, len(v.set.layers[layer]))
	copy(vals, v.set.layers[layer])
	floats.AddConst(-v.f.base, vals)

	s := Summary{
		Layer:      layer,
		Generation: v.gen,
		Max:        floats.Max(vals),
		Sum:        floats.Sum(vals),
	}
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	if len(vals) < 2 {
		s.StdDev = 0
	}
	for _, x := range vals {
		if x > 0 {
			s.Hot++
		}
	}
	return s
}
