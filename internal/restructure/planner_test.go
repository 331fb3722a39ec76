package restructure

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cyanluna-git/jira.javis/internal/models"
)

func testProposal() *Proposal {
	return &Proposal{
		ParentID:    "root",
		ParentTitle: "Sprint Notes",
		SpaceID:     "space1",
		FoldersToCreate: []FolderCreation{
			{FolderName: "01-Sprint-Reviews", ParentID: "root", Order: 1},
			{FolderName: ArchiveFolderName, ParentID: "root", Order: 99},
		},
		PagesToMove: []PageMove{
			{PageID: "p1", OriginalTitle: "Sprint 8 Review", ResolvedTitle: "Sprint 8 - Sprint 8 Review",
				TargetFolderName: "01-Sprint-Reviews", NameChanged: true},
			{PageID: "p2", OriginalTitle: "Deployment guide", ResolvedTitle: "Deployment guide",
				TargetFolderName: "06-Technical-Docs", TargetFolderID: "f6"},
		},
		FoldersToArchive: []ArchiveMove{
			{FolderID: "f08", FolderTitle: "Sprint08", NewTitle: "[ARCHIVED] Sprint08"},
		},
		LinkSuggestions: []LinkSuggestion{
			{PageIDs: []string{"p1", "p2"}, PageTitles: []string{"Sprint 8 Review", "Deployment guide"},
				Similarity: 0.8, Reason: "Similar content detected"},
		},
		TotalPages: 2,
	}
}

func TestCreatePlan(t *testing.T) {
	plan := NewPlanner(nil).CreatePlan(testProposal())

	// 2 folder creations + 2 move batches + 1 archive + 1 link.
	if plan.TotalOperations() != 6 {
		t.Fatalf("total operations = %d, want 6", plan.TotalOperations())
	}
	if len(plan.FolderOperations) != 2 || len(plan.MoveOperations) != 2 ||
		len(plan.ArchiveOperations) != 1 || len(plan.LinkOperations) != 1 {
		t.Fatalf("operation split = %d/%d/%d/%d",
			len(plan.FolderOperations), len(plan.MoveOperations),
			len(plan.ArchiveOperations), len(plan.LinkOperations))
	}

	// Category order within the flat list: folders, moves, archives, links.
	wantTypes := []string{
		models.OpCreateFolder, models.OpCreateFolder,
		models.OpRestructure, models.OpRestructure,
		models.OpArchive, models.OpAddLink,
	}
	for i, op := range plan.Operations {
		if op.OperationType != wantTypes[i] {
			t.Errorf("operation %d type = %s, want %s", i, op.OperationType, wantTypes[i])
		}
		if op.TargetType != models.TargetConfluence {
			t.Errorf("operation %d target type = %s", i, op.TargetType)
		}
		if op.OperationID == "" {
			t.Errorf("operation %d has no id", i)
		}
	}
}

func TestCreatePlanDependencies(t *testing.T) {
	plan := NewPlanner(nil).CreatePlan(testProposal())

	folderOpID := map[string]string{}
	for _, op := range plan.FolderOperations {
		folderOpID[op.OperationData["folder_name"].(string)] = op.OperationID
	}

	// Move batches are ordered by folder name. The batch into the new folder
	// depends on its creation; the batch into the existing folder does not.
	reviews := plan.MoveOperations[0]
	if reviews.OperationData["target_folder_name"] != "01-Sprint-Reviews" {
		t.Fatalf("unexpected move order: %v", reviews.OperationData["target_folder_name"])
	}
	if len(reviews.DependsOn) != 1 || reviews.DependsOn[0] != folderOpID["01-Sprint-Reviews"] {
		t.Errorf("reviews batch deps = %v", reviews.DependsOn)
	}

	guides := plan.MoveOperations[1]
	if len(guides.DependsOn) != 0 {
		t.Errorf("existing-folder batch deps = %v, want none", guides.DependsOn)
	}
	if guides.OperationData["target_folder_id"] != "f6" {
		t.Errorf("existing folder id = %v", guides.OperationData["target_folder_id"])
	}

	// The archive waits for every move plus the archive folder creation.
	archive := plan.ArchiveOperations[0]
	if len(archive.DependsOn) != 3 {
		t.Fatalf("archive deps = %v, want 3", archive.DependsOn)
	}
	deps := map[string]bool{}
	for _, d := range archive.DependsOn {
		deps[d] = true
	}
	if !deps[reviews.OperationID] || !deps[guides.OperationID] || !deps[folderOpID[ArchiveFolderName]] {
		t.Errorf("archive deps missing moves or folder creation: %v", archive.DependsOn)
	}

	// Links wait for every move, nothing else.
	link := plan.LinkOperations[0]
	if len(link.DependsOn) != 2 {
		t.Errorf("link deps = %v, want 2", link.DependsOn)
	}

	// Renamed pages carry their new title; unchanged pages do not.
	moveItems := reviews.OperationData["moves"].([]map[string]any)
	if moveItems[0]["new_title"] != "Sprint 8 - Sprint 8 Review" {
		t.Errorf("renamed move item = %v", moveItems[0])
	}
	guideItems := guides.OperationData["moves"].([]map[string]any)
	if _, ok := guideItems[0]["new_title"]; ok {
		t.Error("unrenamed move item carries new_title")
	}
}

func TestPlanValidate(t *testing.T) {
	plan := NewPlanner(nil).CreatePlan(testProposal())
	if err := plan.Validate(); err != nil {
		t.Errorf("generated plan failed validation: %v", err)
	}

	// A dependency on a later operation is rejected.
	bad := &Plan{
		Operations: []*PlannedOperation{
			{OperationID: "op1", DependsOn: []string{"op2"}},
			{OperationID: "op2"},
		},
	}
	if err := bad.Validate(); err == nil {
		t.Error("expected validation error for forward dependency")
	}

	// An unknown dependency is rejected too.
	unknown := &Plan{
		Operations: []*PlannedOperation{
			{OperationID: "op1", DependsOn: []string{"ghost"}},
		},
	}
	if err := unknown.Validate(); err == nil {
		t.Error("expected validation error for unknown dependency")
	}
}

func TestSaveOperationsDryRun(t *testing.T) {
	planner := NewPlanner(nil)
	plan := planner.CreatePlan(testProposal())

	// Dry-run never touches the store, so a nil client is fine.
	ids, err := planner.SaveOperations(context.Background(), plan, "test", true)
	if err != nil {
		t.Fatalf("dry-run SaveOperations failed: %v", err)
	}
	if len(ids) != plan.TotalOperations() {
		t.Errorf("dry-run ids = %d, want %d", len(ids), plan.TotalOperations())
	}
}

func TestPlannerRequiresDatabase(t *testing.T) {
	planner := NewPlanner(nil)
	plan := planner.CreatePlan(testProposal())
	ctx := context.Background()

	if _, err := planner.SaveOperations(ctx, plan, "test", false); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("SaveOperations err = %v, want ErrNoDatabase", err)
	}
	if _, err := planner.ApproveAll(ctx, "test"); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("ApproveAll err = %v, want ErrNoDatabase", err)
	}
	if _, err := planner.Approve(ctx, "op1", "test"); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Approve err = %v, want ErrNoDatabase", err)
	}
	if _, err := planner.ListPending(ctx); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("ListPending err = %v, want ErrNoDatabase", err)
	}
}

func TestPlanSummary(t *testing.T) {
	planner := NewPlanner(nil)
	plan := planner.CreatePlan(testProposal())

	summary := planner.Summary(plan)

	for _, want := range []string{
		"Total Operations: 6",
		"Folder Creation (2)",
		"Create: 01-Sprint-Reviews",
		"Page Moves (2 batches)",
		"Archive: Sprint08",
		"Link Suggestions (1)",
		"javis restructure list",
		"javis restructure approve --all",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}
