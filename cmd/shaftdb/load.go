package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/export"
	"github.com/shaftlab/shaftdb/internal/ingest"
	"github.com/shaftlab/shaftdb/internal/normalize"
	"github.com/shaftlab/shaftdb/internal/ui"
	"github.com/shaftlab/shaftdb/internal/vocab"
)

var (
	loadReplace   bool
	loadStrict    bool
	loadDryRun    bool
	loadParallel  int
	loadCanonical bool
)

var loadCmd = &cobra.Command{
	Use:   "load <file.csv> [<file.csv> ...]",
	Short: "Load shaft spec CSVs into the catalog",
	Long: `Load raw manufacturer CSVs through the vocabulary packs.

Raw mode maps CSV headers onto the canonical fields, normalizes every row
against the manufacturer's vocabulary pack and inserts the result. A row
that fails normalization is reported and skipped; --strict aborts the batch
on the first failure instead. --replace routes duplicate identity keys
through replacement, for corrections batches.

Canonical mode (--canonical) re-loads the exact column set emitted by
'shaftdb export --format csv' and consults no vocabulary packs.

Examples:
  shaftdb load fujikura_2024.csv
  shaftdb load --strict --parallel 4 sheets/*.csv
  shaftdb load --replace corrections.csv
  shaftdb load --canonical backup.csv`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runLoad(args)
	},
}

func runLoad(paths []string) {
	opts := ingest.Options{
		Replace:  loadReplace,
		Strict:   loadStrict,
		DryRun:   loadDryRun,
		Parallel: loadParallel,
	}

	var report *ingest.Report
	var err error
	if loadCanonical {
		report, err = loadCanonicalFiles(rootCtx, paths, opts)
	} else {
		registry, rerr := vocab.LoadDir(cfg.VocabPath())
		if rerr != nil {
			FatalError("%v", rerr)
		}
		if registry.Len() == 0 {
			FatalErrorWithHint(
				"no vocabulary packs in "+cfg.VocabPath(),
				"run 'shaftdb init' to install the packaged packs, or point --vocab-dir at yours")
		}
		ing := ingest.New(store, normalize.New(registry), logger)
		report, err = ing.Files(rootCtx, paths, opts)
	}
	if err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalError("%v", err)
	}

	if !loadDryRun && report.Ingested+report.Replaced > 0 {
		markWrite()
	}

	if jsonOutput {
		outputJSON(report)
		return
	}
	printLoadReport(report)
}

// loadCanonicalFiles replays previously exported canonical CSVs. Rows carry
// canonical values already, so no vocabulary is involved; per-row failures
// follow the same report semantics as raw ingestion. Files are processed in
// argument order.
func loadCanonicalFiles(ctx context.Context, paths []string, opts ingest.Options) (*ingest.Report, error) {
	report := &ingest.Report{}
	for _, path := range paths {
		f, err := os.Open(path) // #nosec G304 -- paths are operator-supplied CLI args
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		specs, err := export.ReadCSV(f)
		closeErr := f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("close %s: %w", path, closeErr)
		}

		for i, spec := range specs {
			line := i + 2 // line 1 is the header
			report.RowsSeen++

			if opts.DryRun {
				report.Ingested++
				continue
			}

			err := store.Insert(ctx, spec)
			if errors.Is(err, catalog.ErrDuplicateKey) && opts.Replace {
				if err = store.Replace(ctx, spec); err == nil {
					report.Replaced++
					continue
				}
			}
			if err != nil {
				rowErr := ingest.RowError{File: path, Line: line, Err: err}
				report.Failed++
				report.Failures = append(report.Failures, rowErr)
				if opts.Strict {
					return report, rowErr
				}
				continue
			}
			report.Ingested++
		}
	}
	return report, nil
}

func printLoadReport(report *ingest.Report) {
	if loadDryRun {
		fmt.Println(ui.RenderMuted("dry run: nothing stored"))
	}

	summary := fmt.Sprintf("%d rows: %d ingested, %d replaced, %d failed",
		report.RowsSeen, report.Ingested, report.Replaced, report.Failed)
	if report.Failed == 0 {
		fmt.Printf("%s %s\n", ui.RenderPass(ui.IconPass), summary)
	} else {
		fmt.Printf("%s %s\n", ui.RenderWarn(ui.IconWarn), summary)
	}
	for _, failure := range report.Failures {
		fmt.Printf("  %s %s\n", ui.RenderFail(ui.IconFail), failure.Error())
	}
}

func init() {
	loadCmd.Flags().BoolVar(&loadReplace, "replace", false, "Replace records whose identity key already exists")
	loadCmd.Flags().BoolVar(&loadStrict, "strict", false, "Abort the batch on the first row failure")
	loadCmd.Flags().BoolVar(&loadDryRun, "dry-run", false, "Normalize and report without touching the catalog")
	loadCmd.Flags().IntVar(&loadParallel, "parallel", 1, "Max CSV files processed concurrently")
	loadCmd.Flags().BoolVar(&loadCanonical, "canonical", false, "Treat inputs as canonical CSVs from 'shaftdb export'")
	rootCmd.AddCommand(loadCmd)
}
