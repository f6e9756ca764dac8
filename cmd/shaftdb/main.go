// Command shaftdb manages a catalog of golf shaft specifications. Raw
// manufacturer CSVs are normalized through per-manufacturer vocabulary
// packs into canonical records; the catalog answers queries, side-by-side
// comparisons and weight progressions, and serves a read-only REST API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shaftlab/shaftdb"
	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/config"
	"github.com/shaftlab/shaftdb/internal/telemetry"
	"github.com/shaftlab/shaftdb/internal/ui"
)

var (
	dataDirFlag  string
	backendFlag  string
	vocabDirFlag string
	jsonOutput   bool
	noColor      bool
	verboseFlag  bool

	cfg    *config.Config
	store  catalog.Store
	logger *zap.Logger

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc

	// commandDidWrite is set when a command mutates the catalog, so
	// PersistentPostRun knows to save the memory backend's snapshot.
	commandDidWrite bool
)

// noStoreCommands lists commands that never open the catalog: init runs
// before a store exists, and the vocab subcommands only touch pack files.
var noStoreCommands = map[string]bool{
	"init":       true,
	"version":    true,
	"vocab":      true,
	"help":       true,
	"completion": true,
}

func needsStore(cmd *cobra.Command) bool {
	if cmd.Parent() == nil {
		// The bare root command only prints help or the version.
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if noStoreCommands[c.Name()] {
			return false
		}
	}
	return true
}

// operationalCommands get a real zap logger; everything else logs nothing
// so table output stays clean.
var operationalCommands = map[string]bool{
	"load":  true,
	"serve": true,
}

var rootCmd = &cobra.Command{
	Use:   "shaftdb",
	Short: "shaftdb - golf shaft spec catalog",
	Long: `A catalog of golf shaft specifications.

Raw manufacturer spec sheets disagree on everything: flex codes, club type
names, units. shaftdb normalizes them against per-manufacturer vocabulary
packs into one canonical schema, then answers filtered queries, side-by-side
comparisons and weight-by-flex progressions over the result.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("shaftdb version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()
		loadConfig(cmd)
		applyColorMode()
		buildLogger(cmd)

		if !needsStore(cmd) {
			return
		}
		initTelemetry()
		openStore()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			if commandDidWrite {
				if _, err := shaftdb.SaveSnapshot(rootCtx, store, cfg); err != nil {
					fmt.Fprintf(os.Stderr, "Error: snapshot save failed: %v\n", err)
					os.Exit(1)
				}
			}
			_ = store.Close()
		}
		shutdownTelemetry()
		if logger != nil {
			_ = logger.Sync()
		}
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// loadConfig resolves the data dir, reads config.yaml with its env overlay,
// then applies changed flags on top. Precedence: flags > env > file >
// defaults.
func loadConfig(cmd *cobra.Command) {
	dataDir := dataDirFlag
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}

	var err error
	cfg, err = config.Load(dataDir)
	if err != nil {
		FatalError("%v", err)
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		backend, err := config.ParseBackend(backendFlag)
		if err != nil {
			FatalError("%v", err)
		}
		cfg.Backend = backend
	}
	if flags.Changed("vocab-dir") {
		cfg.VocabDir = vocabDirFlag
	}
	if flags.Changed("json") {
		cfg.JSON = jsonOutput
	}
	if flags.Changed("no-color") {
		cfg.NoColor = noColor
	}

	// Config or environment may enable what the flags left alone.
	jsonOutput = cfg.JSON
	noColor = cfg.NoColor
}

func applyColorMode() {
	ui.SetColorEnabled(!noColor && ui.ShouldUseColor())
}

func buildLogger(cmd *cobra.Command) {
	if !operationalCommands[cmd.Name()] {
		logger = zap.NewNop()
		return
	}

	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	if verboseFlag {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	logger, err = zcfg.Build()
	if err != nil {
		FatalError("initialize logger: %v", err)
	}
}

func initTelemetry() {
	if err := telemetry.Init(rootCtx, "shaftdb", Version); err != nil {
		WarnError("telemetry init failed: %v", err)
	}
}

func shutdownTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	telemetry.Shutdown(ctx)
}

func openStore() {
	s, err := shaftdb.Open(rootCtx, cfg)
	if err != nil {
		FatalError("%v", err)
	}
	store = telemetry.WrapStore(s)
}

// markWrite flags the command as a successful mutation so the memory
// backend's snapshot is saved on exit.
func markWrite() {
	commandDidWrite = true
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Data directory (default: $SHAFTDB_DATA_DIR or ~/.shaftdb)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Catalog backend: memory or sqlite (default: from config)")
	rootCmd.PersistentFlags().StringVar(&vocabDirFlag, "vocab-dir", "", "Vocabulary pack directory (default: <data-dir>/vocab)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug logging")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
