package pass

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"voxelgen.ai/internal/sim/tuning"
)

type memSink struct {
	recs []Record
	err  error
}

func (m *memSink) WritePass(r Record) error {
	if m.err != nil {
		return m.err
	}
	m.recs = append(m.recs, r)
	return nil
}

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time { return t0 }
}

func TestRun_DefaultLayout(t *testing.T) {
	sink := &memSink{}
	recs, err := Run(context.Background(), tuning.Defaults(), Options{PassID: "p1", Seed: 9, Scale: 64, Now: fixedClock()}, sink)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, recs, sink.recs)

	r := recs[0]
	if r.WorldMin != [3]int{0, 5, 20} || r.WorldSize != [3]int{60, 65, 80} || r.RelativeMin != [3]int{-10, -15, -10} {
		t.Fatalf("geometry mismatch: %+v", r)
	}
	if r.Cells != 60*65*80 || r.Summary.Count != r.Cells {
		t.Fatalf("cells=%d summary.count=%d", r.Cells, r.Summary.Count)
	}
	if r.Summary.Min < 0 || r.Summary.Max >= 64 {
		t.Fatalf("probe values outside [0,64): %+v", r.Summary)
	}
	if r.PassID != "p1" || r.Seed != 9 || r.Kind != tuning.KindArray {
		t.Fatalf("record identity: %+v", r)
	}
}

func TestRun_SameSeedSameSummary(t *testing.T) {
	tu := tuning.Defaults()
	tu.Facets[0].Kind = tuning.KindSparse
	a, err := Run(context.Background(), tu, Options{Seed: 5, Scale: 8, Now: fixedClock()})
	require.NoError(t, err)
	b, err := Run(context.Background(), tu, Options{Seed: 5, Scale: 8, Now: fixedClock()})
	require.NoError(t, err)
	require.Equal(t, a[0].Summary, b[0].Summary)
}

func TestRun_SinkErrorStops(t *testing.T) {
	boom := errors.New("disk full")
	_, err := Run(context.Background(), tuning.Defaults(), Options{Scale: 1}, &memSink{err: boom})
	require.ErrorIs(t, err, boom)
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	recs, err := Run(ctx, tuning.Defaults(), Options{Scale: 1})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, recs)
}
