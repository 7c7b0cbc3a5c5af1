// Package pass runs one generation pass over the facets of a layout.
package pass

import (
	"context"
	"fmt"
	"time"

	"voxelgen.ai/internal/sim/facet"
	"voxelgen.ai/internal/sim/facetstats"
	"voxelgen.ai/internal/sim/probe"
	"voxelgen.ai/internal/sim/tuning"
)

// Record is what a pass keeps about one facet once the facet itself is dropped.
type Record struct {
	PassID      string             `json:"pass_id"`
	Facet       string             `json:"facet"`
	Kind        string             `json:"kind"`
	Seed        int64              `json:"seed"`
	WorldMin    [3]int             `json:"world_min"`
	WorldSize   [3]int             `json:"world_size"`
	RelativeMin [3]int             `json:"relative_min"`
	Cells       int                `json:"cells"`
	Summary     facetstats.Summary `json:"summary"`
	ElapsedMs   int64              `json:"elapsed_ms"`
	Time        time.Time          `json:"time"`
}

// Sink receives records as facets finish. passlog and indexdb both satisfy it.
type Sink interface {
	WritePass(Record) error
}

type Options struct {
	PassID string
	Seed   int64
	Scale  float32
	// Now is swapped in tests.
	Now func() time.Time
}

// Run builds, probe-fills and summarizes every facet in t. Facets are processed
// one after another and discarded once their record is produced.
func Run(ctx context.Context, t tuning.Tuning, opts Options, sinks ...Sink) ([]Record, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	out := make([]Record, 0, len(t.Facets))
	for _, l := range t.Facets {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		rec, err := runOne(l, opts, now)
		if err != nil {
			return out, err
		}
		for _, s := range sinks {
			if err := s.WritePass(rec); err != nil {
				return out, fmt.Errorf("facet %s: write record: %w", l.Name, err)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func runOne(l tuning.Layout, opts Options, now func() time.Time) (Record, error) {
	start := now()
	f, err := l.Build()
	if err != nil {
		return Record{}, err
	}
	n, err := probe.Fill(f, probe.HashPattern(opts.Seed, opts.Scale))
	if err != nil {
		return Record{}, fmt.Errorf("facet %s: fill: %w", l.Name, err)
	}
	sum, err := facetstats.Summarize(f)
	if err != nil {
		return Record{}, fmt.Errorf("facet %s: summarize: %w", l.Name, err)
	}
	end := now()
	return newRecord(opts.PassID, l, opts.Seed, f, n, sum, end.Sub(start), end), nil
}

func newRecord(passID string, l tuning.Layout, seed int64, f facet.FieldFacet3D, cells int, sum facetstats.Summary, elapsed time.Duration, at time.Time) Record {
	w := f.WorldRegion()
	return Record{
		PassID:      passID,
		Facet:       l.Name,
		Kind:        l.Kind,
		Seed:        seed,
		WorldMin:    w.Min().Array(),
		WorldSize:   w.Size().Array(),
		RelativeMin: f.RelativeRegion().Min().Array(),
		Cells:       cells,
		Summary:     sum,
		ElapsedMs:   elapsed.Milliseconds(),
		Time:        at.UTC(),
	}
}
