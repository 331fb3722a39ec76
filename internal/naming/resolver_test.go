package naming

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cyanluna-git/jira.javis/internal/models"
)

func TestHasContext(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Sprint 8 - Review", true},
		{"Sprint8: Review", true},
		{"[Sprint 8] Review", true},
		{"Review (Sprint 8)", true},
		{"Sprint Review", false},
		{"Review", false},
		{"(Sprint 8) Review", false}, // trailing marker only
	}

	for _, tt := range tests {
		if got := HasContext(tt.title); got != tt.want {
			t.Errorf("HasContext(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestExtractSprintContext(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Sprint08", "Sprint 08"},
		{"[Sprint 12]", "Sprint 12"},
		{"Scaled-Sprint-3", "Sprint 3"},
		{"Sprint Review Folder", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractSprintContext(tt.text); got != tt.want {
			t.Errorf("ExtractSprintContext(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestResolveNoCollision(t *testing.T) {
	r := NewResolver(StrategyAppendParent, false)
	s := r.NewSession()

	res, err := s.Resolve("p1", "Sprint Review", "folder1", "Sprint 8", false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.ResolvedTitle != "Sprint Review" {
		t.Errorf("resolved = %q, want unchanged title", res.ResolvedTitle)
	}
	if res.CollisionAvoided || res.ContextPreserved {
		t.Errorf("unexpected flags: %+v", res)
	}
}

func TestResolveCollisionAppendParent(t *testing.T) {
	r := NewResolver(StrategyAppendParent, false)
	s := r.NewSession()

	first, err := s.Resolve("p1", "Sprint Review", "folder1", "Sprint 8", false)
	if err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	if first.ResolvedTitle != "Sprint Review" {
		t.Fatalf("first resolved = %q", first.ResolvedTitle)
	}

	// Second identical title collides and gets its context injected.
	second, err := s.Resolve("p2", "Sprint Review", "folder1", "Sprint 9", false)
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if second.ResolvedTitle != "Sprint 9 - Sprint Review" {
		t.Errorf("second resolved = %q, want 'Sprint 9 - Sprint Review'", second.ResolvedTitle)
	}
	if !second.ContextPreserved {
		t.Error("expected context preserved on second resolution")
	}
}

func TestResolvePreserveContextStrategy(t *testing.T) {
	r := NewResolver(StrategyPreserveContext, true)
	s := r.NewSession()

	res, err := s.Resolve("p1", "Sprint Review", "folder1", "Sprint 8", false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.ResolvedTitle != "[Sprint 8] Sprint Review" {
		t.Errorf("resolved = %q, want '[Sprint 8] Sprint Review'", res.ResolvedTitle)
	}
	if !res.ContextPreserved {
		t.Error("expected context preserved")
	}
}

func TestResolveSuffixWhenContextCollides(t *testing.T) {
	r := NewResolver(StrategyAppendParent, true)
	s := r.NewSession()

	// Same title, same sprint context: the second lands on the same
	// contextualized name and falls through to suffixing.
	for i, want := range []string{
		"Sprint 8 - Sprint Review",
		"Sprint 8 - Sprint Review (2)",
		"Sprint 8 - Sprint Review (3)",
	} {
		res, err := s.Resolve(fmt.Sprintf("p%d", i), "Sprint Review", "folder1", "Sprint 8", false)
		if err != nil {
			t.Fatalf("Resolve %d failed: %v", i, err)
		}
		if res.ResolvedTitle != want {
			t.Errorf("resolution %d = %q, want %q", i, res.ResolvedTitle, want)
		}
	}
}

func TestResolveExistingContextNeverRewritten(t *testing.T) {
	r := NewResolver(StrategyAppendParent, true)
	s := r.NewSession()

	res, err := s.Resolve("p1", "[Sprint 8] Review", "folder1", "Sprint 9", true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.ResolvedTitle != "[Sprint 8] Review" {
		t.Errorf("resolved = %q, pre-contextualized title must stay untouched", res.ResolvedTitle)
	}
	if res.ContextPreserved {
		t.Error("no new context should be recorded")
	}
}

func TestResolveNoContextFallsBackToSuffix(t *testing.T) {
	r := NewResolver(StrategyAppendParent, false)
	s := r.NewSession()
	s.RegisterExistingTitles("folder1", []string{"Orphan Notes"})

	// No source context available: collision resolves by suffix alone.
	res, err := s.Resolve("p1", "Orphan Notes", "folder1", "", false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.ResolvedTitle != "Orphan Notes (2)" {
		t.Errorf("resolved = %q, want 'Orphan Notes (2)'", res.ResolvedTitle)
	}
	if !res.CollisionAvoided {
		t.Error("expected collision avoided")
	}
}

func TestResolveAppendSuffixStrategy(t *testing.T) {
	r := NewResolver(StrategyAppendSuffix, false)
	s := r.NewSession()
	s.RegisterExistingTitles("folder1", []string{"Sprint Review"})

	// append-suffix never injects context, even when one is available.
	res, err := s.Resolve("p1", "Sprint Review", "folder1", "Sprint 8", false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.ResolvedTitle != "Sprint Review (2)" {
		t.Errorf("resolved = %q, want 'Sprint Review (2)'", res.ResolvedTitle)
	}
}

func TestResolveSuffixExhaustion(t *testing.T) {
	r := NewResolver(StrategyAppendSuffix, false)
	s := r.NewSession()

	taken := []string{"Clash"}
	for i := 2; i <= 100; i++ {
		taken = append(taken, fmt.Sprintf("Clash (%d)", i))
	}
	s.RegisterExistingTitles("folder1", taken)

	_, err := s.Resolve("p1", "Clash", "folder1", "", false)
	if !errors.Is(err, ErrSuffixExhausted) {
		t.Fatalf("expected ErrSuffixExhausted, got %v", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	r := NewResolver(StrategyAppendParent, false)

	s1 := r.NewSession()
	if _, err := s1.Resolve("p1", "Sprint Review", "folder1", "", false); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// A fresh session does not see the previous run's planned titles.
	s2 := r.NewSession()
	if check := s2.CheckCollision("Sprint Review", "folder1"); check.HasCollision {
		t.Error("new session inherited planned state from old session")
	}
}

func TestRegisterExistingPages(t *testing.T) {
	r := NewResolver(StrategyAppendParent, false)
	s := r.NewSession()

	// Pages without a title or parent are skipped.
	s.RegisterExistingPages([]models.Page{
		{ID: "p1", Title: "Sprint Review", ParentID: "folder1"},
		{ID: "p2", Title: "", ParentID: "folder1"},
		{ID: "p3", Title: "Unparented page"},
	})

	if check := s.CheckCollision("Sprint Review", "folder1"); !check.HasCollision {
		t.Error("expected collision with registered page")
	}
	if check := s.CheckCollision("Sprint Review", "folder2"); check.HasCollision {
		t.Error("collision leaked across folders")
	}
}

func TestResolveBatch(t *testing.T) {
	r := NewResolver(StrategyAppendParent, false)
	s := r.NewSession()

	pages := []models.Page{
		{ID: "p1", Title: "Review", ParentTitle: "Sprint08"},
		{ID: "p2", Title: "Review", ParentTitle: "Sprint09"},
	}

	results, err := s.ResolveBatch(pages, "folder1", nil)
	if err != nil {
		t.Fatalf("ResolveBatch failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Resolution.ResolvedTitle != "Review" {
		t.Errorf("first resolved = %q", results[0].Resolution.ResolvedTitle)
	}
	// Default context extraction pulls the sprint from the parent title.
	if results[1].Resolution.ResolvedTitle != "Sprint 09 - Review" {
		t.Errorf("second resolved = %q, want 'Sprint 09 - Review'", results[1].Resolution.ResolvedTitle)
	}

	// A custom context function overrides the parent-title extraction.
	s2 := r.NewSession()
	results, err = s2.ResolveBatch(pages, "folder1", func(p models.Page) string {
		return "Q1"
	})
	if err != nil {
		t.Fatalf("ResolveBatch with contextFn failed: %v", err)
	}
	if results[1].Resolution.ResolvedTitle != "Q1 - Review" {
		t.Errorf("custom context resolved = %q, want 'Q1 - Review'", results[1].Resolution.ResolvedTitle)
	}
}
