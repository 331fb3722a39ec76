package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyanluna-git/jira.javis/internal/models"
	"github.com/cyanluna-git/jira.javis/internal/restructure"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending restructure operations",
	Long: `List shows the pending restructure operations awaiting approval,
newest first.

Examples:
  javis restructure list
  javis restructure list -v`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	operations, err := restructure.NewPlanner(dbClient).ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}

	if len(operations) == 0 {
		fmt.Println("No pending operations.")
		return nil
	}

	fmt.Printf("Pending operations (%d):\n\n", len(operations))
	for _, op := range operations {
		id, err := models.RecordIDString(op.ID)
		if err != nil {
			id = fmt.Sprint(op.ID.ID)
		}

		fmt.Printf("- %s [%s] targets=%d created=%s by %s\n",
			id, op.OperationType, len(op.TargetIDs),
			op.CreatedAt.Format("2006-01-02 15:04"), op.CreatedBy)

		if verbose {
			if len(op.DependsOn) > 0 {
				fmt.Printf("  depends on: %v\n", op.DependsOn)
			}
			if summary, ok := op.PreviewData["summary"].(string); ok && summary != "" {
				fmt.Printf("  %s\n", summary)
			}
		}
	}

	return nil
}
