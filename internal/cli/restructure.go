package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cyanluna-git/jira.javis/internal/classify"
	"github.com/cyanluna-git/jira.javis/internal/models"
	"github.com/cyanluna-git/jira.javis/internal/naming"
	"github.com/cyanluna-git/jira.javis/internal/restructure"
	"github.com/cyanluna-git/jira.javis/internal/similarity"
)

var (
	parentID        string
	parentTitle     string
	spaceID         string
	contextStrategy string
)

var restructureCmd = &cobra.Command{
	Use:   "restructure",
	Short: "Reorganize pages under a parent into a typed folder structure",
	Long: `Restructure analyzes the mirrored page tree under a parent page and
reorganizes it: pages are classified by document type, sorted into numbered
target folders, renamed to avoid collisions, and legacy per-sprint folders
are archived.

Nothing is changed in Confluence directly. The plan subcommand stores
pending operations which an executor applies after approval.

Examples:
  javis restructure analyze --parent-title "Sprint Notes"
  javis restructure propose --parent-title "Sprint Notes" --output proposal.txt
  javis restructure plan --parent-title "Sprint Notes"
  javis restructure list
  javis restructure approve --all`,
}

func init() {
	restructureCmd.PersistentFlags().StringVar(&parentID, "parent-id", "", "id of the parent page")
	restructureCmd.PersistentFlags().StringVar(&parentTitle, "parent-title", "", "title of the parent page")
	restructureCmd.PersistentFlags().StringVar(&spaceID, "space", "", "space id to narrow the title lookup")
	restructureCmd.PersistentFlags().StringVar(&contextStrategy, "context-strategy", "",
		"naming strategy override: append-parent-name, preserve-context, or append-suffix")

	restructureCmd.AddCommand(analyzeCmd)
	restructureCmd.AddCommand(proposeCmd)
	restructureCmd.AddCommand(planCmd)
	restructureCmd.AddCommand(approveCmd)
	restructureCmd.AddCommand(listCmd)
}

// resolveParent locates the restructuring root from the --parent-id or
// --parent-title flags.
func resolveParent(ctx context.Context) (*models.Page, error) {
	if parentID != "" {
		return dbClient.QueryPageByID(ctx, parentID)
	}
	if parentTitle != "" {
		return dbClient.QueryPageByTitle(ctx, parentTitle, spaceID)
	}
	return nil, fmt.Errorf("either --parent-id or --parent-title is required")
}

// loadTree fetches the restructuring root and its mirrored subtree.
func loadTree(ctx context.Context) (*models.Page, []models.Page, []models.Folder, error) {
	parent, err := resolveParent(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	pages, folders, err := dbClient.FetchPageTree(ctx, parent.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch page tree: %w", err)
	}
	return parent, pages, folders, nil
}

// newClassifier builds a classifier from configuration, loading a taxonomy
// override file when one is configured.
func newClassifier() (*classify.Classifier, error) {
	tax := classify.DefaultTaxonomy()
	if cfg.TaxonomyFile != "" {
		var err error
		tax, err = classify.LoadTaxonomy(cfg.TaxonomyFile)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy %s: %w", cfg.TaxonomyFile, err)
		}
	}
	return classify.NewClassifier(tax, classify.WithMinConfidence(cfg.MinConfidence))
}

// newAnalyzer builds a similarity analyzer from configuration.
func newAnalyzer() *similarity.Analyzer {
	analyzer := similarity.NewAnalyzer()
	analyzer.TitleWeight = cfg.TitleWeight
	analyzer.ContentWeight = cfg.ContentWeight
	analyzer.LinkThreshold = cfg.LinkThreshold
	analyzer.MergeThreshold = cfg.MergeThreshold
	return analyzer
}

// newResolver builds a name resolver from configuration. The --context-strategy
// flag overrides the configured strategy.
func newResolver() *naming.Resolver {
	strategy := cfg.ContextStrategy
	if contextStrategy != "" {
		strategy = contextStrategy
	}
	return naming.NewResolver(naming.Strategy(strategy), cfg.AlwaysPreserveContext)
}

// buildProposal runs the full pipeline against the mirrored tree, with a live
// progress bar over the pairwise similarity scan.
func buildProposal(ctx context.Context) (*models.Page, *restructure.Proposal, error) {
	parent, pages, folders, err := loadTree(ctx)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("page tree loaded", "parent", parent.Title, "pages", len(pages), "folders", len(folders))

	classifier, err := newClassifier()
	if err != nil {
		return nil, nil, err
	}
	analyzer := newAnalyzer()

	proposer, err := restructure.NewProposer(classifier, newResolver(), analyzer)
	if err != nil {
		return nil, nil, err
	}

	var proposal *restructure.Proposal
	err = runScanProgress(len(pages), func(progress similarity.ProgressFunc) error {
		analyzer.Progress = progress
		var perr error
		proposal, perr = proposer.Propose(parent.ID, parent.Title, parent.SpaceID, pages, folders)
		return perr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build proposal: %w", err)
	}

	slog.Info("proposal built",
		"pages", proposal.TotalPages,
		"folders_to_create", len(proposal.FoldersToCreate),
		"moves", len(proposal.PagesToMove),
		"archives", len(proposal.FoldersToArchive),
		"links", len(proposal.LinkSuggestions))
	return parent, proposal, nil
}
