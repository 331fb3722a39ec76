// Package restructure builds restructuring proposals from classified pages
// and turns approved proposals into dependency-ordered operation plans.
package restructure

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/cyanluna-git/jira.javis/internal/classify"
	"github.com/cyanluna-git/jira.javis/internal/models"
	"github.com/cyanluna-git/jira.javis/internal/naming"
	"github.com/cyanluna-git/jira.javis/internal/similarity"
)

// ArchiveFolderName is the canonical container for archived sprint folders.
const ArchiveFolderName = "99-Archive"

// newFolderPrefix marks a target folder id as not-yet-created so the planner
// can wire a creation dependency later.
const newFolderPrefix = "NEW:"

// TargetFolder is one canonical destination container.
type TargetFolder struct {
	Name    string
	DocType classify.DocumentType // empty for the archive folder
	Order   int
}

// targetFolders is the canonical ordered folder set: six typed folders, the
// archive folder, and the uncategorized catch-all.
var targetFolders = []TargetFolder{
	{"01-Sprint-Reviews", classify.SprintReview, 1},
	{"02-Design-Notes", classify.DesignNote, 2},
	{"03-Story-Notes", classify.StoryNote, 3},
	{"04-Meeting-Notes", classify.MeetingNotes, 4},
	{"05-Retrospectives", classify.Retrospective, 5},
	{"06-Technical-Docs", classify.TechnicalDoc, 6},
	{ArchiveFolderName, "", 99},
	{"99-Uncategorized", classify.Uncategorized, 100},
}

// Legacy per-sprint folders, distinct from the canonical target names.
var sprintFolderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\[?Scaled[-\s]*Sprint`),
	regexp.MustCompile(`(?i)^\[?Sprint[-\s]*\d+\]?$`),
}

// FolderCreation is a folder missing from the target structure.
type FolderCreation struct {
	FolderName string
	ParentID   string
	DocType    classify.DocumentType
	Order      int
}

// PageMove relocates one page into its target folder.
type PageMove struct {
	PageID            string
	OriginalTitle     string
	ResolvedTitle     string
	SourceParentID    string
	SourceParentTitle string
	TargetFolderName  string
	TargetFolderID    string // empty until the folder exists
	DocType           classify.DocumentType
	Confidence        float64
	NameChanged       bool
}

// ArchiveMove renames and relocates a legacy sprint folder.
type ArchiveMove struct {
	FolderID    string
	FolderTitle string
	NewTitle    string // "[ARCHIVED] Sprint08"
}

// LinkSuggestion recommends cross-referencing similar pages.
type LinkSuggestion struct {
	PageIDs    []string
	PageTitles []string
	Similarity float64
	Reason     string
}

// Proposal is a complete restructuring plan: a pure projection of its inputs,
// immutable once built.
type Proposal struct {
	ParentID    string
	ParentTitle string
	SpaceID     string

	FoldersToCreate  []FolderCreation
	PagesToMove      []PageMove
	FoldersToArchive []ArchiveMove
	LinkSuggestions  []LinkSuggestion

	TotalPages           int
	PagesByType          map[classify.DocumentType]int
	CollisionResolutions int
	ContextPreservations int
}

// Proposer orchestrates classification, name resolution, and similarity
// analysis into a proposal.
type Proposer struct {
	classifier *classify.Classifier
	resolver   *naming.Resolver
	analyzer   *similarity.Analyzer
}

// NewProposer wires the pipeline components together. Nil components fall
// back to defaults.
func NewProposer(classifier *classify.Classifier, resolver *naming.Resolver, analyzer *similarity.Analyzer) (*Proposer, error) {
	if classifier == nil {
		var err error
		classifier, err = classify.NewClassifier(classify.DefaultTaxonomy())
		if err != nil {
			return nil, fmt.Errorf("default classifier: %w", err)
		}
	}
	if resolver == nil {
		resolver = naming.NewResolver(naming.StrategyAppendParent, true)
	}
	if analyzer == nil {
		analyzer = similarity.NewAnalyzer()
	}
	return &Proposer{classifier: classifier, resolver: resolver, analyzer: analyzer}, nil
}

// Propose generates a complete restructuring proposal for all pages under a
// parent. Any name-resolution failure aborts the whole proposal; there is no
// partial output.
func (p *Proposer) Propose(parentID, parentTitle, spaceID string, pages []models.Page, existingFolders []models.Folder) (*Proposal, error) {
	proposal := &Proposal{
		ParentID:    parentID,
		ParentTitle: parentTitle,
		SpaceID:     spaceID,
	}

	existingNames := make(map[string]string, len(existingFolders)) // title -> id
	for _, f := range existingFolders {
		existingNames[f.Title] = f.ID
	}

	// 1. Folders missing from the canonical structure.
	for _, tf := range targetFolders {
		if _, ok := existingNames[tf.Name]; !ok {
			proposal.FoldersToCreate = append(proposal.FoldersToCreate, FolderCreation{
				FolderName: tf.Name,
				ParentID:   parentID,
				DocType:    tf.DocType,
				Order:      tf.Order,
			})
		}
	}

	// 2. Classify everything.
	classified := p.classifier.ClassifyBatch(pages)

	// 3. Fresh collision state for this run, seeded with current locations.
	session := p.resolver.NewSession()
	session.RegisterExistingPages(pages)

	// 4. Bucket pages by target folder, preserving canonical folder order.
	buckets := make(map[string][]classify.PageResult)
	for _, pr := range classified {
		folderName := p.classifier.FolderName(pr.Result.DocType)
		buckets[folderName] = append(buckets[folderName], pr)
	}

	bucketNames := make([]string, 0, len(buckets))
	for name := range buckets {
		bucketNames = append(bucketNames, name)
	}
	sort.Strings(bucketNames)

	// 5. Resolve names per bucket. Uncreated folders get a placeholder id so
	// the planner can wire the creation dependency.
	for _, folderName := range bucketNames {
		targetFolderID := existingNames[folderName]
		isNew := targetFolderID == ""
		if isNew {
			targetFolderID = newFolderPrefix + folderName
		}

		for _, pr := range buckets[folderName] {
			resolution, err := session.Resolve(
				pr.Page.ID, pr.Page.Title, targetFolderID, pr.Result.SourceSprint, false)
			if err != nil {
				return nil, fmt.Errorf("resolve %q in %s: %w", pr.Page.Title, folderName, err)
			}

			move := PageMove{
				PageID:            pr.Page.ID,
				OriginalTitle:     pr.Page.Title,
				ResolvedTitle:     resolution.ResolvedTitle,
				SourceParentID:    pr.Page.ParentID,
				SourceParentTitle: pr.Page.ParentTitle,
				TargetFolderName:  folderName,
				DocType:           pr.Result.DocType,
				Confidence:        pr.Result.Confidence,
				NameChanged:       resolution.OriginalTitle != resolution.ResolvedTitle,
			}
			if !isNew {
				move.TargetFolderID = targetFolderID
			}
			proposal.PagesToMove = append(proposal.PagesToMove, move)

			if resolution.CollisionAvoided {
				proposal.CollisionResolutions++
			}
			if resolution.ContextPreserved {
				proposal.ContextPreservations++
			}
		}
	}

	// 6. Legacy sprint folders get archived once emptied.
	for _, folder := range existingFolders {
		if IsSprintFolder(folder.Title) {
			proposal.FoldersToArchive = append(proposal.FoldersToArchive, ArchiveMove{
				FolderID:    folder.ID,
				FolderTitle: folder.Title,
				NewTitle:    "[ARCHIVED] " + folder.Title,
			})
		}
	}

	// 7. Similar pages become link suggestions. Merge recommendations need
	// human review and are intentionally not acted on here.
	for _, group := range p.analyzer.GroupSimilar(pages, 0) {
		if group.Recommendation == similarity.RecommendLink {
			proposal.LinkSuggestions = append(proposal.LinkSuggestions, LinkSuggestion{
				PageIDs:    group.PageIDs,
				PageTitles: group.PageTitles,
				Similarity: group.AvgSimilarity,
				Reason:     "Similar content detected",
			})
		}
	}

	proposal.TotalPages = len(pages)
	proposal.PagesByType = classify.Summary(classified)

	return proposal, nil
}

// IsSprintFolder reports whether a folder title matches the legacy per-sprint
// naming scheme.
func IsSprintFolder(title string) bool {
	for _, re := range sprintFolderPatterns {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// IsNewFolderID reports whether a target folder id is a placeholder for a
// folder that does not exist yet, returning the folder name if so.
func IsNewFolderID(id string) (string, bool) {
	if len(id) > len(newFolderPrefix) && id[:len(newFolderPrefix)] == newFolderPrefix {
		return id[len(newFolderPrefix):], true
	}
	return "", false
}
