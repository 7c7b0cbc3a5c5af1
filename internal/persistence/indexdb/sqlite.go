package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"voxelgen.ai/internal/sim/pass"
	"voxelgen.ai/internal/sim/tuning"
)

// SQLiteIndex is a read model over pass records. JSONL pass logs stay the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	// mu orders WritePass sends against Close closing ch.
	mu   sync.RWMutex
	ch   chan pass.Record
	wg   sync.WaitGroup
	once sync.Once

	closed    bool
	dropTotal atomic.Uint64
	failTotal atomic.Uint64
}

type Stats struct {
	QueueDepth    int    `json:"queue_depth"`
	QueueCapacity int    `json:"queue_capacity"`
	DropTotal     uint64 `json:"drop_total"`
	// FailTotal counts queued records the writer could not persist.
	FailTotal uint64 `json:"fail_total"`
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan pass.Record, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS layouts (
			digest TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS passes (
			pass_id TEXT NOT NULL,
			facet TEXT NOT NULL,
			kind TEXT NOT NULL,
			seed INTEGER NOT NULL,
			world_min_x INTEGER NOT NULL,
			world_min_y INTEGER NOT NULL,
			world_min_z INTEGER NOT NULL,
			size_x INTEGER NOT NULL,
			size_y INTEGER NOT NULL,
			size_z INTEGER NOT NULL,
			cells INTEGER NOT NULL,
			min_value REAL NOT NULL,
			max_value REAL NOT NULL,
			mean_value REAL NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (pass_id, facet)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_passes_facet_time ON passes(facet, recorded_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// WritePass queues r for the writer goroutine. A full queue drops the record.
// Safe to call concurrently with Close; records arriving after Close are ignored.
func (s *SQLiteIndex) WritePass(r pass.Record) error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	select {
	case s.ch <- r:
	default:
		s.dropTotal.Add(1)
	}
	return nil
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:    len(s.ch),
		QueueCapacity: cap(s.ch),
		DropTotal:     s.dropTotal.Load(),
		FailTotal:     s.failTotal.Load(),
	}
}

// UpsertLayout stores the layout a pass ran with, keyed by its canonical JSON digest.
func (s *SQLiteIndex) UpsertLayout(t tuning.Tuning) (string, error) {
	if s == nil {
		return "", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	digest := hex.EncodeToString(sum[:])
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return "", err
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO layouts(digest,json,updated_at) VALUES(?,?,?)`, digest, string(b), now); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return digest, nil
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()
	insertPass, prepErr := s.db.Prepare(`INSERT OR REPLACE INTO passes(
		pass_id,facet,kind,seed,world_min_x,world_min_y,world_min_z,size_x,size_y,size_z,
		cells,min_value,max_value,mean_value,elapsed_ms,recorded_at,raw_json
	) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		if insertPass != nil {
			_ = insertPass.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 256
		commitMaxWait = time.Second
	)
	fail := func(n int) {
		if n > 0 {
			s.failTotal.Add(uint64(n))
		}
	}

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			fail(opCount)
		}
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		fail(opCount)
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		if prepErr != nil {
			fail(1)
			continue
		}
		raw, err := json.Marshal(r)
		if err != nil {
			fail(1)
			continue
		}
		begin()
		if tx == nil {
			fail(1)
			continue
		}
		if _, err := tx.Stmt(insertPass).Exec(
			r.PassID,
			r.Facet,
			r.Kind,
			r.Seed,
			r.WorldMin[0], r.WorldMin[1], r.WorldMin[2],
			r.WorldSize[0], r.WorldSize[1], r.WorldSize[2],
			r.Cells,
			r.Summary.Min,
			r.Summary.Max,
			r.Summary.Mean,
			r.ElapsedMs,
			r.Time.UTC().Format(time.RFC3339Nano),
			string(raw),
		); err != nil {
			// The rollback also discards the uncommitted rows before r.
			fail(1)
			rollback()
			continue
		}
		opCount++
		// Commit on idle so short CLI runs land before Close.
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait || len(s.ch) == 0 {
			commit()
		}
	}
	commit()
}
