package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var proposeOutput string

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Generate and preview a restructuring proposal",
	Long: `Propose runs the full pipeline (classify, resolve names, detect
duplicates) and renders the resulting proposal for review. Nothing is
stored; use the plan subcommand to persist operations.

With --output the rendered proposal is written to a file, plus a
machine-readable .json sibling.

Examples:
  javis restructure propose --parent-title "Sprint Notes"
  javis restructure propose --parent-title "Sprint Notes" --output proposal.txt`,
	RunE: runPropose,
}

func init() {
	proposeCmd.Flags().StringVarP(&proposeOutput, "output", "o", "", "write the proposal to a file instead of stdout")
}

func runPropose(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, proposal, err := buildProposal(ctx)
	if err != nil {
		return err
	}

	rendered := renderProposal(proposal)

	if proposeOutput == "" {
		fmt.Print(rendered)
		return nil
	}

	if err := os.WriteFile(proposeOutput, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("write proposal: %w", err)
	}

	jsonPath := jsonSibling(proposeOutput)
	data, err := json.MarshalIndent(exportProposal(proposal), "", "  ")
	if err != nil {
		return fmt.Errorf("encode proposal: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return fmt.Errorf("write proposal json: %w", err)
	}

	fmt.Printf("Proposal written to %s and %s\n", proposeOutput, jsonPath)
	return nil
}

// jsonSibling swaps the file extension for .json.
func jsonSibling(path string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		return path[:i] + ".json"
	}
	return path + ".json"
}
