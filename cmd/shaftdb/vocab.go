package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/ui"
	"github.com/shaftlab/shaftdb/internal/vocab"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Inspect vocabulary packs",
	Long: `Inspect the per-manufacturer vocabulary packs that map catalog spellings
to canonical values during load.`,
}

var vocabListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded vocabulary packs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runVocabList()
	},
}

var vocabShowCmd = &cobra.Command{
	Use:   "show <manufacturer>",
	Short: "Show one pack's mappings",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runVocabShow(args[0])
	},
}

var vocabLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate vocabulary packs",
	Long: `Compile every pack in the vocab directory and report problems instead of
stopping at the first. Exits 1 when any pack has a problem.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runVocabLint()
	},
}

// vocabSections is the display order for pack sections.
var vocabSections = []string{"flex", "club_type", "launch", "spin", "kickpoint", "tip_stiffness"}

func runVocabList() {
	registry, err := vocab.LoadDir(cfg.VocabPath())
	if err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalError("%v", err)
	}

	type packInfo struct {
		Manufacturer string `json:"manufacturer"`
		Entries      int    `json:"entries"`
		Source       string `json:"source"`
	}
	packs := make([]packInfo, 0, registry.Len())
	for _, m := range registry.Manufacturers() {
		table, ok := registry.Table(m)
		if !ok {
			continue
		}
		n := 0
		for _, entries := range table.Entries() {
			n += len(entries)
		}
		packs = append(packs, packInfo{Manufacturer: m, Entries: n, Source: table.Source})
	}

	if jsonOutput {
		outputJSON(packs)
		return
	}

	if len(packs) == 0 {
		fmt.Println(ui.RenderMuted("no vocabulary packs in " + cfg.VocabPath()))
		return
	}
	table := ui.NewTable("MANUFACTURER", "ENTRIES", "SOURCE")
	table.AlignRight(1)
	for _, p := range packs {
		table.AddRow(p.Manufacturer, strconv.Itoa(p.Entries), p.Source)
	}
	fmt.Println(table.Render())
}

func runVocabShow(manufacturer string) {
	registry, err := vocab.LoadDir(cfg.VocabPath())
	if err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalError("%v", err)
	}
	table, ok := registry.Table(manufacturer)
	if !ok {
		FatalErrorWithHint(fmt.Sprintf("no vocabulary pack for %q", manufacturer),
			"run 'shaftdb vocab list' to see loaded packs")
	}

	if jsonOutput {
		outputJSON(map[string]any{
			"manufacturer": table.Manufacturer,
			"source":       table.Source,
			"sections":     table.Entries(),
		})
		return
	}

	fmt.Println(ui.RenderTitle(table.Manufacturer))
	if table.Source != "" {
		fmt.Println(ui.RenderMuted(table.Source))
	}
	sections := table.Entries()
	for _, name := range vocabSections {
		entries, ok := sections[name]
		if !ok {
			continue
		}
		fmt.Printf("\n%s\n", ui.RenderAccent("["+name+"]"))
		for _, e := range entries {
			fmt.Println("  " + e)
		}
	}
}

func runVocabLint() {
	problems, err := vocab.Lint(cfg.VocabPath())
	if err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalErrorWithHint(err.Error(), "run 'shaftdb init' to write the default packs")
	}

	if jsonOutput {
		type problemJSON struct {
			File    string `json:"file"`
			Message string `json:"message"`
		}
		out := make([]problemJSON, len(problems))
		for i, p := range problems {
			out[i] = problemJSON{File: p.File, Message: p.Message}
		}
		outputJSON(out)
		if len(problems) > 0 {
			os.Exit(1)
		}
		return
	}

	if len(problems) == 0 {
		fmt.Printf("%s all packs clean\n", ui.RenderPass(ui.IconPass))
		return
	}
	for _, p := range problems {
		fmt.Printf("%s %s: %s\n", ui.RenderFail(ui.IconFail), p.File, p.Message)
	}
	os.Exit(1)
}

func init() {
	vocabCmd.AddCommand(vocabListCmd)
	vocabCmd.AddCommand(vocabShowCmd)
	vocabCmd.AddCommand(vocabLintCmd)
	rootCmd.AddCommand(vocabCmd)
}
