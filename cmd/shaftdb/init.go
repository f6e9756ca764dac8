package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb"
	"github.com/shaftlab/shaftdb/internal/config"
	"github.com/shaftlab/shaftdb/internal/ui"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a shaftdb data directory",
	Long: `Create the data directory, write config.yaml, install the packaged
vocabulary packs and materialize the chosen backend.

Flags given to init are recorded in the config file, so

  shaftdb init --backend sqlite

creates an installation that defaults to the sqlite backend. Existing
vocabulary packs are never overwritten; rewriting config.yaml requires
--force.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runInit()
	},
}

func runInit() {
	if _, err := os.Stat(cfg.Path()); err == nil && !initForce {
		FatalErrorWithHint(
			fmt.Sprintf("already initialized: %s exists", cfg.Path()),
			"pass --force to rewrite the config file")
	}

	if err := cfg.Save(); err != nil {
		FatalError("%v", err)
	}

	packs, err := shaftdb.WriteDefaultVocab(cfg.VocabPath())
	if err != nil {
		FatalError("%v", err)
	}

	// Materialize the backend: an empty snapshot for memory, the database
	// file for sqlite.
	s, err := shaftdb.Open(rootCtx, cfg)
	if err != nil {
		FatalError("%v", err)
	}
	if _, err := shaftdb.SaveSnapshot(rootCtx, s, cfg); err != nil {
		_ = s.Close()
		FatalError("%v", err)
	}
	if err := s.Close(); err != nil {
		FatalError("%v", err)
	}

	if jsonOutput {
		outputJSON(map[string]interface{}{
			"data_dir":      cfg.DataDir,
			"config":        cfg.Path(),
			"backend":       cfg.Backend,
			"vocab_dir":     cfg.VocabPath(),
			"packs_written": packs,
		})
		return
	}

	fmt.Printf("%s Initialized shaftdb in %s\n", ui.RenderPass(ui.IconPass), cfg.DataDir)
	fmt.Printf("  config:  %s\n", cfg.Path())
	fmt.Printf("  backend: %s\n", cfg.Backend)
	if cfg.Backend == config.BackendMemory {
		fmt.Printf("  snapshot: %s\n", cfg.SnapshotPath())
	} else {
		fmt.Printf("  database: %s\n", cfg.DBPath())
	}
	fmt.Printf("  vocab: %s (%d packs installed)\n", cfg.VocabPath(), packs)
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Rewrite config.yaml even if it exists")
	rootCmd.AddCommand(initCmd)
}
