package restructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/cyanluna-git/jira.javis/internal/db"
	"github.com/cyanluna-git/jira.javis/internal/models"
)

// ErrNoDatabase is returned by planner methods that need the operations store
// when the planner was built without one.
var ErrNoDatabase = errors.New("database connection required")

// PlannedOperation is one atomic action ready for the content_operations
// table. DependsOn lists operation ids that must complete first; generation
// order guarantees every dependency appears earlier in the plan.
type PlannedOperation struct {
	OperationID   string
	OperationType string // models.OpCreateFolder, OpRestructure, OpArchive, OpAddLink
	TargetType    string
	TargetIDs     []string
	OperationData map[string]any
	PreviewData   map[string]any
	DependsOn     []string
}

// Plan is the full dependency-ordered operation batch for one proposal.
type Plan struct {
	Proposal *Proposal

	Operations        []*PlannedOperation
	FolderOperations  []*PlannedOperation
	MoveOperations    []*PlannedOperation
	ArchiveOperations []*PlannedOperation
	LinkOperations    []*PlannedOperation
}

// TotalOperations returns the number of operations in the plan.
func (p *Plan) TotalOperations() int {
	return len(p.Operations)
}

// Planner converts proposals into operation plans and persists them as
// pending records for external approval and execution.
type Planner struct {
	db *db.Client
}

// NewPlanner creates a planner. The database client may be nil for dry-run
// and in-memory use; persistence methods then return ErrNoDatabase.
func NewPlanner(dbClient *db.Client) *Planner {
	return &Planner{db: dbClient}
}

// CreatePlan converts a proposal into a dependency-ordered operation batch:
// folder creations first, one move batch per target folder, archives after
// every move, links after every move.
func (pl *Planner) CreatePlan(proposal *Proposal) *Plan {
	plan := &Plan{Proposal: proposal}

	// 1. Folder creations. Record ids by name for later dependencies.
	folderOpIDs := make(map[string]string, len(proposal.FoldersToCreate))
	for _, folder := range proposal.FoldersToCreate {
		op := &PlannedOperation{
			OperationID:   uuid.NewString(),
			OperationType: models.OpCreateFolder,
			TargetType:    models.TargetConfluence,
			TargetIDs:     []string{proposal.ParentID},
			OperationData: map[string]any{
				"parent_id":   folder.ParentID,
				"folder_name": folder.FolderName,
				"space_id":    proposal.SpaceID,
				"order":       folder.Order,
			},
			PreviewData: map[string]any{
				"action": "create",
				"path":   proposal.ParentTitle + "/" + folder.FolderName,
			},
		}
		folderOpIDs[folder.FolderName] = op.OperationID
		plan.FolderOperations = append(plan.FolderOperations, op)
		plan.Operations = append(plan.Operations, op)
	}

	// 2. Page moves, batched per target folder.
	movesByFolder := make(map[string][]PageMove)
	for _, move := range proposal.PagesToMove {
		movesByFolder[move.TargetFolderName] = append(movesByFolder[move.TargetFolderName], move)
	}

	folderNames := make([]string, 0, len(movesByFolder))
	for name := range movesByFolder {
		folderNames = append(folderNames, name)
	}
	sort.Strings(folderNames)

	for _, folderName := range folderNames {
		moves := movesByFolder[folderName]

		moveItems := make([]map[string]any, 0, len(moves))
		targetIDs := make([]string, 0, len(moves))
		nameChanges := 0
		for _, move := range moves {
			item := map[string]any{
				"page_id":             move.PageID,
				"original_title":      move.OriginalTitle,
				"source_parent_id":    move.SourceParentID,
				"source_parent_title": move.SourceParentTitle,
			}
			if move.NameChanged {
				item["new_title"] = move.ResolvedTitle
				nameChanges++
			}
			moveItems = append(moveItems, item)
			targetIDs = append(targetIDs, move.PageID)
		}

		var dependsOn []string
		if id, ok := folderOpIDs[folderName]; ok {
			dependsOn = append(dependsOn, id)
		}

		op := &PlannedOperation{
			OperationID:   uuid.NewString(),
			OperationType: models.OpRestructure,
			TargetType:    models.TargetConfluence,
			TargetIDs:     targetIDs,
			OperationData: map[string]any{
				"target_folder_name": folderName,
				"target_folder_id":   moves[0].TargetFolderID, // empty if new
				"moves":              moveItems,
				"parent_id":          proposal.ParentID,
			},
			PreviewData: map[string]any{
				"action":        "move",
				"target_folder": folderName,
				"page_count":    len(moves),
				"name_changes":  nameChanges,
			},
			DependsOn: dependsOn,
		}
		plan.MoveOperations = append(plan.MoveOperations, op)
		plan.Operations = append(plan.Operations, op)
	}

	// 3. Archives: pages must be relocated before their old container goes
	// away, so every archive depends on every move, plus the archive folder
	// creation when it does not exist yet.
	if len(proposal.FoldersToArchive) > 0 {
		archiveFolderOpID := folderOpIDs[ArchiveFolderName]

		moveOpIDs := make([]string, 0, len(plan.MoveOperations))
		for _, op := range plan.MoveOperations {
			moveOpIDs = append(moveOpIDs, op.OperationID)
		}

		for _, archive := range proposal.FoldersToArchive {
			dependsOn := append([]string(nil), moveOpIDs...)
			if archiveFolderOpID != "" {
				dependsOn = append(dependsOn, archiveFolderOpID)
			}

			op := &PlannedOperation{
				OperationID:   uuid.NewString(),
				OperationType: models.OpArchive,
				TargetType:    models.TargetConfluence,
				TargetIDs:     []string{archive.FolderID},
				OperationData: map[string]any{
					"folder_id":           archive.FolderID,
					"original_title":      archive.FolderTitle,
					"new_title":           archive.NewTitle,
					"move_to_archive":     true,
					"archive_folder_name": ArchiveFolderName,
				},
				PreviewData: map[string]any{
					"action": "archive",
					"from":   archive.FolderTitle,
					"to":     archive.NewTitle,
				},
				DependsOn: dependsOn,
			}
			plan.ArchiveOperations = append(plan.ArchiveOperations, op)
			plan.Operations = append(plan.Operations, op)
		}
	}

	// 4. Links depend on all moves so they reference final locations, and
	// are otherwise independent of each other.
	for _, suggestion := range proposal.LinkSuggestions {
		var dependsOn []string
		for _, moveOp := range plan.MoveOperations {
			dependsOn = append(dependsOn, moveOp.OperationID)
		}

		op := &PlannedOperation{
			OperationID:   uuid.NewString(),
			OperationType: models.OpAddLink,
			TargetType:    models.TargetConfluence,
			TargetIDs:     suggestion.PageIDs,
			OperationData: map[string]any{
				"page_ids":    suggestion.PageIDs,
				"page_titles": suggestion.PageTitles,
				"link_type":   "related",
				"reason":      suggestion.Reason,
			},
			PreviewData: map[string]any{
				"action":     "link",
				"pages":      suggestion.PageTitles,
				"similarity": suggestion.Similarity,
			},
			DependsOn: dependsOn,
		}
		plan.LinkOperations = append(plan.LinkOperations, op)
		plan.Operations = append(plan.Operations, op)
	}

	return plan
}

// Validate checks the plan's ordering invariant: every declared dependency
// refers to an operation id emitted earlier in the plan.
func (p *Plan) Validate() error {
	seen := make(map[string]struct{}, len(p.Operations))
	for _, op := range p.Operations {
		for _, dep := range op.DependsOn {
			if _, ok := seen[dep]; !ok {
				return fmt.Errorf("operation %s depends on %s which does not precede it", op.OperationID, dep)
			}
		}
		seen[op.OperationID] = struct{}{}
	}
	return nil
}

// SaveOperations persists the plan's operations as pending records in one
// transaction. Dry-run skips the store entirely and returns the generated
// ids. Store failures propagate; the caller treats the plan as not created.
func (pl *Planner) SaveOperations(ctx context.Context, plan *Plan, createdBy string, dryRun bool) ([]string, error) {
	ids := make([]string, 0, len(plan.Operations))
	for _, op := range plan.Operations {
		ids = append(ids, op.OperationID)
	}

	if dryRun {
		slog.Info("dry run, operations not saved", "operations", len(plan.Operations))
		return ids, nil
	}
	if pl.db == nil {
		return nil, ErrNoDatabase
	}

	records := make([]models.ContentOperation, 0, len(plan.Operations))
	for _, op := range plan.Operations {
		records = append(records, models.ContentOperation{
			OperationType: op.OperationType,
			TargetType:    op.TargetType,
			TargetIDs:     op.TargetIDs,
			OperationData: op.OperationData,
			PreviewData:   op.PreviewData,
			DependsOn:     op.DependsOn,
			Status:        models.StatusPending,
			CreatedBy:     createdBy,
		})
	}

	saved, err := pl.db.InsertOperations(ctx, ids, records)
	if err != nil {
		return nil, fmt.Errorf("save operations: %w", err)
	}

	slog.Info("operation plan persisted", "operations", len(saved), "created_by", createdBy)
	return saved, nil
}

// ApproveAll marks every pending restructure operation as approved.
// Returns the number of operations transitioned.
func (pl *Planner) ApproveAll(ctx context.Context, approvedBy string) (int, error) {
	if pl.db == nil {
		return 0, ErrNoDatabase
	}
	return pl.db.ApproveAllOperations(ctx, approvedBy)
}

// Approve marks a single pending operation as approved.
// Returns false if the operation does not exist or is not pending.
func (pl *Planner) Approve(ctx context.Context, operationID, approvedBy string) (bool, error) {
	if pl.db == nil {
		return false, ErrNoDatabase
	}
	return pl.db.ApproveOperation(ctx, operationID, approvedBy)
}

// ListPending returns pending operations of the four restructure types,
// newest first.
func (pl *Planner) ListPending(ctx context.Context) ([]models.ContentOperation, error) {
	if pl.db == nil {
		return nil, ErrNoDatabase
	}
	return pl.db.ListPendingOperations(ctx)
}

// Summary renders a plain-text overview of the plan for terminal review.
func (pl *Planner) Summary(plan *Plan) string {
	var b strings.Builder
	divider := strings.Repeat("=", 60)

	b.WriteString(divider + "\n")
	b.WriteString("OPERATION PLAN SUMMARY\n")
	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "\nTotal Operations: %d\n", plan.TotalOperations())

	if len(plan.FolderOperations) > 0 {
		fmt.Fprintf(&b, "\n1. Folder Creation (%d):\n", len(plan.FolderOperations))
		for _, op := range plan.FolderOperations {
			fmt.Fprintf(&b, "   - Create: %v\n", op.OperationData["folder_name"])
		}
	}

	if len(plan.MoveOperations) > 0 {
		fmt.Fprintf(&b, "\n2. Page Moves (%d batches):\n", len(plan.MoveOperations))
		for _, op := range plan.MoveOperations {
			fmt.Fprintf(&b, "   - To %v/: %d pages (%v renamed)\n",
				op.OperationData["target_folder_name"], len(op.TargetIDs), op.PreviewData["name_changes"])
		}
	}

	if len(plan.ArchiveOperations) > 0 {
		fmt.Fprintf(&b, "\n3. Archive Operations (%d):\n", len(plan.ArchiveOperations))
		for _, op := range plan.ArchiveOperations {
			fmt.Fprintf(&b, "   - Archive: %v\n", op.OperationData["original_title"])
		}
	}

	if len(plan.LinkOperations) > 0 {
		fmt.Fprintf(&b, "\n4. Link Suggestions (%d):\n", len(plan.LinkOperations))
		for i, op := range plan.LinkOperations {
			if i == 5 {
				fmt.Fprintf(&b, "   ... and %d more\n", len(plan.LinkOperations)-5)
				break
			}
			titles, _ := op.OperationData["page_titles"].([]string)
			preview := titles
			if len(preview) > 2 {
				preview = preview[:2]
			}
			fmt.Fprintf(&b, "   - Link: %s...\n", strings.Join(preview, ", "))
		}
	}

	b.WriteString("\n" + divider + "\n")
	b.WriteString("Next steps:\n")
	b.WriteString("  1. Review operations with 'javis restructure list'\n")
	b.WriteString("  2. Approve: 'javis restructure approve --all' or approve individually\n")
	b.WriteString("  3. Execute with the operations executor\n")
	b.WriteString(divider + "\n")

	return b.String()
}
