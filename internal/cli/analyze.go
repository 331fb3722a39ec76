package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cyanluna-git/jira.javis/internal/classify"
	"github.com/cyanluna-git/jira.javis/internal/similarity"
)

var (
	analyzeSimilarity bool
	analyzeThreshold  float64
)

// lowConfidenceCutoff flags classifications worth a manual look.
const lowConfidenceCutoff = 0.5

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify pages and report the document type breakdown",
	Long: `Analyze classifies every page under the parent and prints a breakdown
by document type, plus the pages whose classification confidence is low
enough to deserve a manual look.

With --similarity, pages are also scanned pairwise for near-duplicate
content and reported as groups.

Examples:
  javis restructure analyze --parent-title "Sprint Notes"
  javis restructure analyze --parent-title "Sprint Notes" --similarity
  javis restructure analyze --parent-id page123 --similarity --threshold 0.8`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeSimilarity, "similarity", false, "also scan for near-duplicate pages")
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 0, "similarity threshold override (0 uses the configured link threshold)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	parent, pages, folders, err := loadTree(ctx)
	if err != nil {
		return err
	}

	classifier, err := newClassifier()
	if err != nil {
		return err
	}
	classified := classifier.ClassifyBatch(pages)
	summary := classify.Summary(classified)

	fmt.Printf("Analyzing %q: %d pages, %d folders\n\n", parent.Title, len(pages), len(folders))

	// Largest buckets first, canonical type order on ties.
	ordered := make([]classify.DocumentType, len(classify.Types))
	copy(ordered, classify.Types)
	sort.SliceStable(ordered, func(i, j int) bool {
		return summary[ordered[i]] > summary[ordered[j]]
	})

	fmt.Println("Pages by document type:")
	for _, dt := range ordered {
		if summary[dt] > 0 {
			fmt.Printf("  %-16s %d\n", dt, summary[dt])
		}
	}

	var lowConfidence []classify.PageResult
	for _, pr := range classified {
		if pr.Result.Confidence < lowConfidenceCutoff {
			lowConfidence = append(lowConfidence, pr)
		}
	}

	if len(lowConfidence) > 0 {
		fmt.Printf("\nLow confidence (< %.1f): %d pages\n", lowConfidenceCutoff, len(lowConfidence))
		for _, pr := range lowConfidence {
			fmt.Printf("  - %s [%s, %.2f]\n", pr.Page.Title, pr.Result.DocType, pr.Result.Confidence)
			if verbose && len(pr.Result.MatchedKeywords) > 0 {
				fmt.Printf("    keywords: %v\n", pr.Result.MatchedKeywords)
			}
		}
	}

	if !analyzeSimilarity {
		return nil
	}

	analyzer := newAnalyzer()

	var groups []similarity.Group
	err = runScanProgress(len(pages), func(progress similarity.ProgressFunc) error {
		analyzer.Progress = progress
		groups = analyzer.GroupSimilar(pages, analyzeThreshold)
		return nil
	})
	if err != nil {
		return fmt.Errorf("similarity scan: %w", err)
	}

	fmt.Print("\n" + renderGroups(groups))
	return nil
}
