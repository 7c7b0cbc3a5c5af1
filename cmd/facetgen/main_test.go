package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	persistlog "voxelgen.ai/internal/persistence/log"
)

func resetFlags(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	verbose, configPath, dataDir, seed, seedSet, disableDB = false, "", t.TempDir(), 0, false, false
}

func TestInspect_DefaultLayout(t *testing.T) {
	resetFlags(t)
	var out bytes.Buffer
	inspectCmd.SetOut(&out)
	if err := inspectCmd.RunE(inspectCmd, nil); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"density kind=array",
		"world=[min=(0, 5, 20), size=(60, 65, 80)]",
		"relative=[min=(-10, -15, -10), size=(60, 65, 80)]",
		"cells=312000",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, got)
		}
	}
}

func TestRunPass_WritesPassLog(t *testing.T) {
	resetFlags(t)
	cfg := filepath.Join(t.TempDir(), "facets.yaml")
	layout := "facets:\n  - name: height\n    kind: sparse\n    region: {min: [0, 0, 0], size: [8, 1, 8]}\n    border: {top: 1, sides: 1}\nprobe: {seed: 3, scale: 4}\n"
	if err := os.WriteFile(cfg, []byte(layout), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	configPath = cfg

	if err := runPass(context.Background()); err != nil {
		t.Fatalf("runPass: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(dataDir, "passes", "passes-*.jsonl.zst"))
	if err != nil || len(files) != 1 {
		t.Fatalf("pass log files=%v err=%v", files, err)
	}
	recs, err := persistlog.ReadPasses(files[0])
	if err != nil {
		t.Fatalf("ReadPasses: %v", err)
	}
	if len(recs) != 1 || recs[0].Facet != "height" || recs[0].Seed != 3 || recs[0].Cells != 10*2*10 {
		t.Fatalf("unexpected records: %+v", recs)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "index.db")); err != nil {
		t.Fatalf("index db missing: %v", err)
	}
}

func TestRunPass_BadLayout(t *testing.T) {
	resetFlags(t)
	cfg := filepath.Join(t.TempDir(), "facets.yaml")
	if err := os.WriteFile(cfg, []byte("facets: []\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	configPath = cfg
	disableDB = true
	if err := runPass(context.Background()); err == nil {
		t.Fatalf("expected layout error")
	}
}
