package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyanluna-git/jira.javis/internal/restructure"
)

var (
	planDryRun    bool
	planCreatedBy string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Turn the proposal into pending operations",
	Long: `Plan builds the restructuring proposal, orders it into dependency-aware
operations, and stores them as pending records for later approval.

Folder creations come first, then page moves batched per target folder,
then archive renames, then link suggestions. Each operation records which
earlier operations it depends on, so the executor never moves a page into
a folder that does not exist yet.

Examples:
  javis restructure plan --parent-title "Sprint Notes"
  javis restructure plan --parent-title "Sprint Notes" --dry-run`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&planDryRun, "dry-run", false, "print the plan without storing operations")
	planCmd.Flags().StringVar(&planCreatedBy, "created-by", "javis-restructure", "author recorded on stored operations")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, proposal, err := buildProposal(ctx)
	if err != nil {
		return err
	}

	planner := restructure.NewPlanner(dbClient)
	plan := planner.CreatePlan(proposal)

	if err := plan.Validate(); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}

	fmt.Print(planner.Summary(plan))

	ids, err := planner.SaveOperations(ctx, plan, planCreatedBy, planDryRun)
	if err != nil {
		return err
	}

	if planDryRun {
		fmt.Printf("\nDry run: %d operations not stored.\n", len(ids))
		return nil
	}

	fmt.Printf("\nStored %d pending operations.\n", len(ids))
	return nil
}
