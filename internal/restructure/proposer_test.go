package restructure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cyanluna-git/jira.javis/internal/classify"
	"github.com/cyanluna-git/jira.javis/internal/models"
	"github.com/cyanluna-git/jira.javis/internal/naming"
)

func newTestProposer(t *testing.T) *Proposer {
	t.Helper()
	p, err := NewProposer(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewProposer failed: %v", err)
	}
	return p
}

func TestIsSprintFolder(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Sprint08", true},
		{"Sprint 8", true},
		{"[Sprint 12]", true},
		{"Scaled-Sprint-3 planning", true},
		{"01-Sprint-Reviews", false},
		{"Sprint Review", false},
		{"Meeting notes", false},
	}

	for _, tt := range tests {
		if got := IsSprintFolder(tt.title); got != tt.want {
			t.Errorf("IsSprintFolder(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestIsNewFolderID(t *testing.T) {
	if name, ok := IsNewFolderID("NEW:01-Sprint-Reviews"); !ok || name != "01-Sprint-Reviews" {
		t.Errorf("IsNewFolderID placeholder = (%q, %v)", name, ok)
	}
	if _, ok := IsNewFolderID("folder123"); ok {
		t.Error("IsNewFolderID accepted a real folder id")
	}
	if _, ok := IsNewFolderID("NEW:"); ok {
		t.Error("IsNewFolderID accepted an empty placeholder")
	}
}

func TestPropose(t *testing.T) {
	p := newTestProposer(t)

	pages := []models.Page{
		{ID: "p1", Title: "Sprint 8 Review", BodyStorage: "velocity burndown demo",
			ParentID: "f08", ParentTitle: "Sprint08"},
		{ID: "p2", Title: "Sprint 9 Review", BodyStorage: "velocity achievements showcase",
			ParentID: "f09", ParentTitle: "Sprint09"},
		{ID: "p3", Title: "Random musings", BodyStorage: "nothing in particular today",
			ParentID: "f08", ParentTitle: "Sprint08"},
	}
	folders := []models.Folder{
		{ID: "f08", Title: "Sprint08"},
		{ID: "f09", Title: "Sprint09"},
		{ID: "fr", Title: "01-Sprint-Reviews"},
	}

	proposal, err := p.Propose("root", "Sprint Notes", "space1", pages, folders)
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	// 01-Sprint-Reviews exists, the other seven canonical folders do not.
	if len(proposal.FoldersToCreate) != 7 {
		t.Errorf("folders to create = %d, want 7", len(proposal.FoldersToCreate))
	}
	for _, f := range proposal.FoldersToCreate {
		if f.FolderName == "01-Sprint-Reviews" {
			t.Error("existing folder proposed for creation")
		}
		if f.ParentID != "root" {
			t.Errorf("folder %s parented to %q, want root", f.FolderName, f.ParentID)
		}
	}

	if len(proposal.PagesToMove) != 3 {
		t.Fatalf("pages to move = %d, want 3", len(proposal.PagesToMove))
	}

	// Buckets resolve in alphabetical folder order: reviews before uncategorized.
	moves := proposal.PagesToMove
	if moves[0].TargetFolderName != "01-Sprint-Reviews" || moves[2].TargetFolderName != "99-Uncategorized" {
		t.Errorf("bucket order: %s ... %s", moves[0].TargetFolderName, moves[2].TargetFolderName)
	}

	// Moves into the existing folder carry its id; moves into a missing
	// folder leave it empty for the planner to wire.
	if moves[0].TargetFolderID != "fr" {
		t.Errorf("move 0 folder id = %q, want fr", moves[0].TargetFolderID)
	}
	if moves[2].TargetFolderID != "" {
		t.Errorf("move 2 folder id = %q, want empty", moves[2].TargetFolderID)
	}

	// The default resolver always preserves sprint context.
	if moves[0].ResolvedTitle != "Sprint 8 - Sprint 8 Review" {
		t.Errorf("move 0 resolved = %q", moves[0].ResolvedTitle)
	}
	if !moves[0].NameChanged {
		t.Error("move 0 should be flagged as renamed")
	}
	if moves[2].ResolvedTitle != "Sprint 08 - Random musings" {
		t.Errorf("move 2 resolved = %q", moves[2].ResolvedTitle)
	}

	// Both legacy sprint folders are archived with the prefix.
	if len(proposal.FoldersToArchive) != 2 {
		t.Fatalf("folders to archive = %d, want 2", len(proposal.FoldersToArchive))
	}
	if proposal.FoldersToArchive[0].NewTitle != "[ARCHIVED] Sprint08" {
		t.Errorf("archive title = %q", proposal.FoldersToArchive[0].NewTitle)
	}

	// Dissimilar bodies, no link suggestions.
	if len(proposal.LinkSuggestions) != 0 {
		t.Errorf("link suggestions = %d, want 0", len(proposal.LinkSuggestions))
	}

	if proposal.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", proposal.TotalPages)
	}
	if proposal.PagesByType[classify.SprintReview] != 2 {
		t.Errorf("sprint-review count = %d, want 2", proposal.PagesByType[classify.SprintReview])
	}
	if proposal.PagesByType[classify.Uncategorized] != 1 {
		t.Errorf("uncategorized count = %d, want 1", proposal.PagesByType[classify.Uncategorized])
	}
	if proposal.ContextPreservations != 3 {
		t.Errorf("context preservations = %d, want 3", proposal.ContextPreservations)
	}
	if proposal.CollisionResolutions != 0 {
		t.Errorf("collision resolutions = %d, want 0", proposal.CollisionResolutions)
	}
}

func TestProposeLinkSuggestions(t *testing.T) {
	p := newTestProposer(t)

	// Same bodies, near-identical titles: similar enough to link, not merge.
	pages := []models.Page{
		{ID: "p1", Title: "Sprint 8 Retro", BodyStorage: "went well improve actions"},
		{ID: "p2", Title: "Sprint 9 Retro", BodyStorage: "went well improve actions"},
	}

	proposal, err := p.Propose("root", "Sprint Notes", "space1", pages, nil)
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	if len(proposal.LinkSuggestions) != 1 {
		t.Fatalf("link suggestions = %d, want 1", len(proposal.LinkSuggestions))
	}
	suggestion := proposal.LinkSuggestions[0]
	if len(suggestion.PageIDs) != 2 {
		t.Errorf("suggestion pages = %v", suggestion.PageIDs)
	}
	if suggestion.Reason != "Similar content detected" {
		t.Errorf("suggestion reason = %q", suggestion.Reason)
	}
}

func TestProposeAbortsOnSuffixExhaustion(t *testing.T) {
	// No context available and only 100 distinct names per folder: the 101st
	// identical title cannot be placed, and the whole proposal fails.
	p, err := NewProposer(nil, naming.NewResolver(naming.StrategyAppendSuffix, false), nil)
	if err != nil {
		t.Fatalf("NewProposer failed: %v", err)
	}

	pages := make([]models.Page, 0, 101)
	for i := 0; i < 101; i++ {
		pages = append(pages, models.Page{ID: fmt.Sprintf("p%d", i), Title: "Deployment guide"})
	}

	_, err = p.Propose("root", "Sprint Notes", "space1", pages, nil)
	if !errors.Is(err, naming.ErrSuffixExhausted) {
		t.Fatalf("expected ErrSuffixExhausted, got %v", err)
	}
}

func TestProposeEmptyInput(t *testing.T) {
	p := newTestProposer(t)

	proposal, err := p.Propose("root", "Sprint Notes", "space1", nil, nil)
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	// All eight canonical folders are missing; nothing moves or archives.
	if len(proposal.FoldersToCreate) != 8 {
		t.Errorf("folders to create = %d, want 8", len(proposal.FoldersToCreate))
	}
	if len(proposal.PagesToMove) != 0 || len(proposal.FoldersToArchive) != 0 {
		t.Errorf("unexpected moves or archives: %+v", proposal)
	}
	if proposal.TotalPages != 0 {
		t.Errorf("total pages = %d, want 0", proposal.TotalPages)
	}
}
