package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"voxelgen.ai/internal/sim/facetstats"
	"voxelgen.ai/internal/sim/pass"
)

func TestPassLogger_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewPassLogger(dir)
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	l.w.now = func() time.Time { return at }

	in := []pass.Record{
		{PassID: "p1", Facet: "density", Kind: "array", WorldMin: [3]int{0, 5, 20}, Cells: 8, Summary: facetstats.Summary{Count: 8, Max: 3}, Time: at},
		{PassID: "p1", Facet: "height", Kind: "sparse", Cells: 2, Time: at},
	}
	for _, r := range in {
		require.NoError(t, l.WritePass(r))
	}
	require.NoError(t, l.Close())

	// Reopening the same hour appends a second frame to the same file.
	l2 := NewPassLogger(dir)
	l2.w.now = func() time.Time { return at }
	require.NoError(t, l2.WritePass(pass.Record{PassID: "p2", Facet: "density", Time: at}))
	require.NoError(t, l2.Close())

	path := filepath.Join(dir, "passes", "passes-2026-03-04-05.jsonl.zst")
	got, err := ReadPasses(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, in, got[:2])
	if got[2].PassID != "p2" {
		t.Fatalf("appended record %+v", got[2])
	}
}

func TestPassLogger_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	l := NewPassLogger(dir)
	cur := time.Date(2026, 3, 4, 5, 59, 0, 0, time.UTC)
	l.w.now = func() time.Time { return cur }

	require.NoError(t, l.WritePass(pass.Record{PassID: "a"}))
	cur = cur.Add(2 * time.Minute)
	require.NoError(t, l.WritePass(pass.Record{PassID: "b"}))
	require.NoError(t, l.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "passes", "passes-*.jsonl.zst"))
	require.NoError(t, err)
	require.Len(t, matches, 2)
}
