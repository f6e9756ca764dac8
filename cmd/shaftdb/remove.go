package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/ui"
)

var removeYes bool

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a shaft record",
	Long: `Remove one record by ID. Prompts for confirmation unless --yes is set.

Example:
  shaftdb remove sf-1a2b3c4d5e --yes`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runRemove(args[0])
	},
}

func runRemove(id string) {
	spec, err := store.GetByID(rootCtx, id)
	if err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalError("%v", err)
	}

	if !removeYes {
		confirmed := false
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Remove %s?", spec.DisplayName())).
					Description("This deletes the record from the catalog.").
					Affirmative("Remove").
					Negative("Keep").
					Value(&confirmed),
			),
		).WithTheme(huh.ThemeDracula())

		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(os.Stderr, "Removal cancelled.")
				os.Exit(0)
			}
			FatalError("prompt failed: %v", err)
		}
		if !confirmed {
			fmt.Fprintln(os.Stderr, "Removal cancelled.")
			os.Exit(0)
		}
	}

	if err := store.Remove(rootCtx, spec.Key()); err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalError("%v", err)
	}
	markWrite()

	if jsonOutput {
		outputJSON(map[string]string{"removed": id})
		return
	}
	fmt.Printf("%s Removed %s (%s)\n", ui.RenderPass(ui.IconPass), spec.DisplayName(), id)
}

func init() {
	removeCmd.Flags().BoolVar(&removeYes, "yes", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(removeCmd)
}
