package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyanluna-git/jira.javis/internal/restructure"
)

var (
	approveAll bool
	approvedBy string
)

var approveCmd = &cobra.Command{
	Use:   "approve [operation-id]",
	Short: "Approve pending operations for execution",
	Long: `Approve transitions pending operations to approved so the executor may
apply them. Pass a single operation id, or --all for every pending
restructure operation.

Examples:
  javis restructure approve --all
  javis restructure approve content_operations:abc123`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApprove,
}

func init() {
	approveCmd.Flags().BoolVar(&approveAll, "all", false, "approve every pending restructure operation")
	approveCmd.Flags().StringVar(&approvedBy, "approved-by", "cli", "approver recorded on the operations")
}

func runApprove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	planner := restructure.NewPlanner(dbClient)

	if approveAll {
		count, err := planner.ApproveAll(ctx, approvedBy)
		if err != nil {
			return fmt.Errorf("approve all: %w", err)
		}
		fmt.Printf("Approved %d operations.\n", count)
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("pass an operation id or --all")
	}

	ok, err := planner.Approve(ctx, args[0], approvedBy)
	if err != nil {
		return fmt.Errorf("approve %s: %w", args[0], err)
	}
	if !ok {
		return fmt.Errorf("operation %s not found or not pending", args[0])
	}

	fmt.Printf("Approved %s.\n", args[0])
	return nil
}
