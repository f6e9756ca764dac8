package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/export"
	"github.com/shaftlab/shaftdb/internal/ui"
)

var (
	exportFilter   filterFlags
	exportFormat   string
	exportOutput   string
	exportManifest bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to CSV or JSONL",
	Long: `Export catalog records, optionally narrowed by the same filters list takes.

CSV output is canonical and round-trips through 'shaftdb load --canonical'.
JSONL output matches the snapshot format, one record per line. Without -o
the data goes to stdout; --manifest writes a .manifest.json next to the
output file recording when and what was exported.

Examples:
  shaftdb export > catalog.csv
  shaftdb export --format jsonl -o woods.jsonl --club-type woods --manifest`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runExport(cmd)
	},
}

func runExport(cmd *cobra.Command) {
	if exportFormat != "csv" && exportFormat != "jsonl" {
		FatalError("unknown format %q (valid: csv, jsonl)", exportFormat)
	}
	if exportManifest && exportOutput == "" {
		FatalErrorWithHint("--manifest requires -o", "a manifest sits next to its data file")
	}

	filter, err := exportFilter.build(cmd)
	if err != nil {
		FatalError("%v", err)
	}
	specs, err := store.Query(rootCtx, filter)
	if err != nil {
		FatalError("export failed: %v", err)
	}

	switch {
	case exportFormat == "csv" && exportOutput == "":
		if err := export.WriteCSV(os.Stdout, specs); err != nil {
			FatalError("%v", err)
		}
	case exportFormat == "csv":
		f, err := os.Create(exportOutput)
		if err != nil {
			FatalError("create %s: %v", exportOutput, err)
		}
		if err := export.WriteCSV(f, specs); err != nil {
			_ = f.Close()
			FatalError("%v", err)
		}
		if err := f.Close(); err != nil {
			FatalError("close %s: %v", exportOutput, err)
		}
	case exportOutput == "":
		enc := json.NewEncoder(os.Stdout)
		for _, spec := range specs {
			if err := enc.Encode(spec); err != nil {
				FatalError("encode record: %v", err)
			}
		}
	default:
		if err := export.WriteJSONL(exportOutput, specs); err != nil {
			FatalError("%v", err)
		}
	}

	if exportManifest {
		manifest := export.NewManifest(exportFormat, len(specs), exportFilter.changed(cmd))
		if err := export.WriteManifest(exportOutput, manifest); err != nil {
			FatalError("%v", err)
		}
	}

	// Keep stdout clean when it carries the data itself.
	if exportOutput == "" {
		return
	}
	if jsonOutput {
		out := map[string]any{
			"records": len(specs),
			"format":  exportFormat,
			"path":    exportOutput,
		}
		if exportManifest {
			out["manifest"] = export.ManifestPath(exportOutput)
		}
		outputJSON(out)
		return
	}
	noun := "records"
	if len(specs) == 1 {
		noun = "record"
	}
	fmt.Printf("%s Exported %d %s to %s\n", ui.RenderPass(ui.IconPass), len(specs), noun, exportOutput)
	if exportManifest {
		fmt.Println(ui.RenderMuted("manifest: " + export.ManifestPath(exportOutput)))
	}
}

func init() {
	exportFilter.register(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv or jsonl")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().BoolVar(&exportManifest, "manifest", false, "Write a .manifest.json next to the output file")
	rootCmd.AddCommand(exportCmd)
}
