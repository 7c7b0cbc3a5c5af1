package indexdb

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"voxelgen.ai/internal/sim/facetstats"
	"voxelgen.ai/internal/sim/pass"
	"voxelgen.ai/internal/sim/tuning"
)

func TestSQLiteIndex_WritePass(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	rec := pass.Record{
		PassID:    "p1",
		Facet:     "density",
		Kind:      "array",
		Seed:      42,
		WorldMin:  [3]int{0, 5, 20},
		WorldSize: [3]int{60, 65, 80},
		Cells:     60 * 65 * 80,
		Summary:   facetstats.Summary{Min: 0, Max: 63.5, Mean: 31.75},
		Time:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := idx.WritePass(rec); err != nil {
		t.Fatalf("WritePass: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var (
		facet    string
		seed     int64
		minY     int
		sizeZ    int
		cells    int
		maxValue float64
		recorded string
	)
	row := db.QueryRow(`SELECT facet,seed,world_min_y,size_z,cells,max_value,recorded_at FROM passes WHERE pass_id='p1'`)
	if err := row.Scan(&facet, &seed, &minY, &sizeZ, &cells, &maxValue, &recorded); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if facet != "density" || seed != 42 || minY != 5 || sizeZ != 80 || cells != 312000 || maxValue != 63.5 {
		t.Fatalf("row mismatch: facet=%s seed=%d minY=%d sizeZ=%d cells=%d max=%v", facet, seed, minY, sizeZ, cells, maxValue)
	}
	if recorded != "2026-01-01T00:00:00Z" {
		t.Fatalf("recorded_at=%q", recorded)
	}
}

func TestSQLiteIndex_UpsertLayoutIsStable(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer idx.Close()

	d1, err := idx.UpsertLayout(tuning.Defaults())
	if err != nil {
		t.Fatalf("UpsertLayout: %v", err)
	}
	d2, err := idx.UpsertLayout(tuning.Defaults())
	if err != nil {
		t.Fatalf("UpsertLayout: %v", err)
	}
	if d1 == "" || d1 != d2 {
		t.Fatalf("digest not stable: %q vs %q", d1, d2)
	}
	var n int
	if err := idx.db.QueryRow(`SELECT COUNT(*) FROM layouts`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("layouts rows=%d want 1", n)
	}
}

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan pass.Record, 1)}
	s.ch <- pass.Record{PassID: "a"}

	_ = s.WritePass(pass.Record{PassID: "b"})
	_ = s.WritePass(pass.Record{PassID: "c"})

	st := s.Stats()
	if st.DropTotal != 2 {
		t.Fatalf("DropTotal=%d want=2", st.DropTotal)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}

func TestSQLiteIndex_WriteDuringClose(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			<-start
			for i := 0; i < 200; i++ {
				if err := idx.WritePass(pass.Record{PassID: fmt.Sprintf("w%d-%d", w, i), Facet: "density"}); err != nil {
					t.Errorf("WritePass: %v", err)
					return
				}
			}
		}(w)
	}
	close(start)
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	wg.Wait()

	if err := idx.WritePass(pass.Record{PassID: "late"}); err != nil {
		t.Fatalf("WritePass after Close: %v", err)
	}
}

func TestSQLiteIndex_CountsFailedInserts(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if _, err := idx.db.Exec(`DROP TABLE passes`); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := idx.WritePass(pass.Record{PassID: "p1", Facet: "density"}); err != nil {
		t.Fatalf("WritePass: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	st := idx.Stats()
	if st.FailTotal != 1 || st.DropTotal != 0 {
		t.Fatalf("FailTotal=%d DropTotal=%d want 1/0", st.FailTotal, st.DropTotal)
	}
}
