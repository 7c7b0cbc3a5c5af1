package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"voxelgen.ai/internal/persistence/indexdb"
	persistlog "voxelgen.ai/internal/persistence/log"
	"voxelgen.ai/internal/sim/geom"
	"voxelgen.ai/internal/sim/pass"
	"voxelgen.ai/internal/sim/tuning"
)

var (
	verbose    bool
	configPath string
	dataDir    string
	seed       int64
	seedSet    bool
	disableDB  bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "facetgen",
	Short: "Run facet generation passes from a layout file",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build, probe-fill and summarize every configured facet",
	RunE: func(cmd *cobra.Command, args []string) error {
		seedSet = cmd.Flags().Changed("seed")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runPass(ctx)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the world and relative regions of every configured facet",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTuning()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, l := range t.Facets {
			border, err := l.Border()
			if err != nil {
				return fmt.Errorf("facet %s: %w", l.Name, err)
			}
			world := border.ExpandedRegion(l.Region())
			rel := world.Move(geom.Vec3i{}.Sub(l.Region().Min()))
			fmt.Fprintf(out, "%s kind=%s region=%v %v world=%v relative=%v cells=%d\n",
				l.Name, l.Kind, l.Region(), border, world, rel, world.Volume())
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "facet layout yaml (default: built-in single density facet)")
	runCmd.Flags().StringVar(&dataDir, "data", "./data", "runtime data directory")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "probe seed (overrides the layout's probe.seed)")
	runCmd.Flags().BoolVar(&disableDB, "disable-db", false, "skip the sqlite pass index")
	rootCmd.AddCommand(runCmd, inspectCmd)
}

func loadTuning() (tuning.Tuning, error) {
	p := strings.TrimSpace(configPath)
	if p == "" {
		return tuning.Defaults(), nil
	}
	t, err := tuning.Load(p)
	if err != nil {
		return t, fmt.Errorf("load layout: %w", err)
	}
	return t, nil
}

func runPass(ctx context.Context) error {
	t, err := loadTuning()
	if err != nil {
		return err
	}
	if seedSet {
		t.Probe.Seed = seed
	}

	passLog := persistlog.NewPassLogger(dataDir)
	defer func() {
		if err := passLog.Close(); err != nil {
			logger.Warn("close pass log", zap.Error(err))
		}
	}()
	sinks := []pass.Sink{passLog}

	if !disableDB {
		idx, err := indexdb.OpenSQLite(filepath.Join(dataDir, "index.db"))
		if err != nil {
			return fmt.Errorf("open pass index: %w", err)
		}
		defer func() {
			if err := idx.Close(); err != nil {
				logger.Warn("close pass index", zap.Error(err))
			}
			st := idx.Stats()
			if st.DropTotal > 0 || st.FailTotal > 0 {
				logger.Warn("pass index lost records",
					zap.Uint64("dropped", st.DropTotal),
					zap.Uint64("failed", st.FailTotal),
				)
			}
		}()
		digest, err := idx.UpsertLayout(t)
		if err != nil {
			logger.Warn("pass index: upsert layout", zap.Error(err))
		} else {
			logger.Debug("layout recorded", zap.String("digest", digest))
		}
		sinks = append(sinks, idx)
	}

	passID := fmt.Sprintf("pass_%d", time.Now().UTC().UnixNano())
	logger.Info("pass started",
		zap.String("pass_id", passID),
		zap.Int("facets", len(t.Facets)),
		zap.Int64("seed", t.Probe.Seed),
	)
	recs, err := pass.Run(ctx, t, pass.Options{
		PassID: passID,
		Seed:   t.Probe.Seed,
		Scale:  t.Probe.Scale,
	}, sinks...)
	for _, r := range recs {
		logger.Info("facet done",
			zap.String("facet", r.Facet),
			zap.String("kind", r.Kind),
			zap.Ints("world_min", r.WorldMin[:]),
			zap.Ints("world_size", r.WorldSize[:]),
			zap.Int("cells", r.Cells),
			zap.Float64("min", r.Summary.Min),
			zap.Float64("max", r.Summary.Max),
			zap.Float64("mean", r.Summary.Mean),
			zap.Int64("elapsed_ms", r.ElapsedMs),
		)
	}
	if err != nil {
		return fmt.Errorf("pass %s: %w", passID, err)
	}
	logger.Info("pass finished", zap.String("pass_id", passID))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("facetgen failed", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
