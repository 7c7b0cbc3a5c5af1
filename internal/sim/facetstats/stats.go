package facetstats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"voxelgen.ai/internal/sim/facet"
	"voxelgen.ai/internal/sim/geom"
)

// Summary describes every cell of a facet, border included.
type Summary struct {
	Count   int     `json:"count"`
	NonZero int     `json:"non_zero"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
}

func Summarize(f facet.FieldFacet3D) (Summary, error) {
	vals := make([]float64, 0, f.WorldRegion().Volume())
	if err := facet.ForEach(f, func(_ geom.Vec3i, v float32) {
		vals = append(vals, float64(v))
	}); err != nil {
		return Summary{}, err
	}
	if len(vals) == 0 {
		return Summary{}, nil
	}

	s := Summary{
		Count: len(vals),
		Min:   floats.Min(vals),
		Max:   floats.Max(vals),
	}
	s.NonZero = s.Count - floats.Count(func(v float64) bool { return v == 0 }, vals)
	if s.Count > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	} else {
		s.Mean = vals[0]
	}
	return s, nil
}
