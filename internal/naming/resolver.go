// Package naming resolves title collisions and preserves temporal context
// when pages from many source folders land in one target folder.
package naming

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/cyanluna-git/jira.javis/internal/models"
)

// Strategy selects how context is injected into a colliding title.
type Strategy string

const (
	// StrategyAppendParent produces "Sprint 8 - Title".
	StrategyAppendParent Strategy = "append-parent-name"
	// StrategyPreserveContext produces "[Sprint 8] Title".
	StrategyPreserveContext Strategy = "preserve-context"
	// StrategyAppendSuffix never injects context and relies on numeric
	// suffixing alone.
	StrategyAppendSuffix Strategy = "append-suffix"
)

// maxSuffixAttempts bounds the numeric-suffix search. Exceeding it means the
// input is pathological; the run aborts rather than degrades.
const maxSuffixAttempts = 100

// ErrSuffixExhausted is returned when no unique title can be found within
// maxSuffixAttempts numeric suffixes.
var ErrSuffixExhausted = errors.New("suffix attempts exhausted")

// Titles that already carry a recognizable context marker are left untouched.
var contextMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^Sprint\s*\d+\s*[-:]\s*`), // "Sprint 8 - ..."
	regexp.MustCompile(`(?i)^\[Sprint\s*\d+\]\s*`),    // "[Sprint 8] ..."
	regexp.MustCompile(`(?i)\(Sprint\s*\d+\)$`),       // "... (Sprint 8)"
}

var sprintContext = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[?Scaled[-\s]*Sprint[-\s]*(\d+)\]?`),
	regexp.MustCompile(`(?i)\[?Sprint[-\s]*(\d+)\]?`),
}

// Resolution is the outcome of resolving one title.
type Resolution struct {
	OriginalTitle    string
	ResolvedTitle    string
	CollisionAvoided bool
	ContextPreserved bool
	SourceContext    string // e.g. "Sprint 8"
}

// CollisionCheck reports whether a title is already taken in a target folder.
type CollisionCheck struct {
	HasCollision     bool
	ConflictingTitle string
}

// PageResolution pairs a page with its resolution.
type PageResolution struct {
	Page       models.Page
	Resolution Resolution
}

// Resolver holds the immutable naming policy. Collision-tracking state lives
// in a Session created per run; a Resolver itself carries no mutable state.
type Resolver struct {
	strategy              Strategy
	alwaysPreserveContext bool
}

// NewResolver creates a resolver with the given strategy. An empty strategy
// defaults to StrategyAppendParent.
func NewResolver(strategy Strategy, alwaysPreserveContext bool) *Resolver {
	if strategy == "" {
		strategy = StrategyAppendParent
	}
	return &Resolver{
		strategy:              strategy,
		alwaysPreserveContext: alwaysPreserveContext,
	}
}

// Session tracks collision state for one restructuring run: titles already
// present in each target folder, and titles planned so far this run. Both
// sets grow monotonically; starting a new run means creating a new Session,
// which makes stale cross-run state impossible.
type Session struct {
	resolver *Resolver
	existing map[string]map[string]struct{} // folder id -> titles present
	planned  map[string]map[string]struct{} // folder id -> titles planned this run
}

// NewSession starts a fresh resolution session with empty collision state.
func (r *Resolver) NewSession() *Session {
	return &Session{
		resolver: r,
		existing: make(map[string]map[string]struct{}),
		planned:  make(map[string]map[string]struct{}),
	}
}

// RegisterExistingTitles records titles already present in a target folder.
func (s *Session) RegisterExistingTitles(folderID string, titles []string) {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		set[t] = struct{}{}
	}
	s.existing[folderID] = set
}

// RegisterExistingPages records pages under their current parent so moves
// into a folder that already holds pages detect collisions.
func (s *Session) RegisterExistingPages(pages []models.Page) {
	for _, page := range pages {
		if page.ParentID == "" || page.Title == "" {
			continue
		}
		if s.existing[page.ParentID] == nil {
			s.existing[page.ParentID] = make(map[string]struct{})
		}
		s.existing[page.ParentID][page.Title] = struct{}{}
	}
}

// CheckCollision reports whether title is taken in the target folder, by an
// existing page or one planned earlier in this session.
func (s *Session) CheckCollision(title, targetFolderID string) CollisionCheck {
	if s.taken(title, targetFolderID) {
		return CollisionCheck{HasCollision: true, ConflictingTitle: title}
	}
	return CollisionCheck{}
}

func (s *Session) taken(title, folderID string) bool {
	if _, ok := s.existing[folderID][title]; ok {
		return true
	}
	_, ok := s.planned[folderID][title]
	return ok
}

// HasContext reports whether a title already carries a context marker.
func HasContext(title string) bool {
	for _, re := range contextMarkers {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// Resolve produces a collision-free title for a page landing in the target
// folder and registers it as planned, so later resolutions in the same
// session see it as taken. Resolution order therefore decides which of two
// identically named pages keeps the clean name.
func (s *Session) Resolve(pageID, originalTitle, targetFolderID, sourceContext string, forceContext bool) (Resolution, error) {
	collision := s.CheckCollision(originalTitle, targetFolderID)

	needsContext := forceContext || s.resolver.alwaysPreserveContext || collision.HasCollision

	// A title that already carries context is never rewritten, even under
	// force or collision; only suffixing may still apply.
	if HasContext(originalTitle) {
		needsContext = false
	}

	resolved := originalTitle
	contextPreserved := false

	if needsContext && sourceContext != "" {
		switch s.resolver.strategy {
		case StrategyAppendParent:
			resolved = fmt.Sprintf("%s - %s", sourceContext, originalTitle)
			contextPreserved = true
		case StrategyPreserveContext:
			resolved = fmt.Sprintf("[%s] %s", sourceContext, originalTitle)
			contextPreserved = true
		}
		collision = s.CheckCollision(resolved, targetFolderID)
	}

	collisionAvoided := false
	if collision.HasCollision {
		suffixed, err := s.addSuffix(resolved, targetFolderID)
		if err != nil {
			return Resolution{}, err
		}
		resolved = suffixed
		collisionAvoided = true
	}

	if s.planned[targetFolderID] == nil {
		s.planned[targetFolderID] = make(map[string]struct{})
	}
	s.planned[targetFolderID][resolved] = struct{}{}

	return Resolution{
		OriginalTitle:    originalTitle,
		ResolvedTitle:    resolved,
		CollisionAvoided: collisionAvoided,
		ContextPreserved: contextPreserved,
		SourceContext:    sourceContext,
	}, nil
}

// addSuffix searches upward for a free " (N)" suffix starting at 2.
func (s *Session) addSuffix(title, targetFolderID string) (string, error) {
	for suffix := 2; suffix <= maxSuffixAttempts; suffix++ {
		candidate := fmt.Sprintf("%s (%d)", title, suffix)
		if !s.taken(candidate, targetFolderID) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q in folder %s", ErrSuffixExhausted, title, targetFolderID)
}

// ResolveBatch resolves names for pages all landing in one target folder.
// contextFn extracts the naming context per page; when nil, the sprint label
// is taken from the page's source parent title.
func (s *Session) ResolveBatch(pages []models.Page, targetFolderID string, contextFn func(models.Page) string) ([]PageResolution, error) {
	results := make([]PageResolution, 0, len(pages))
	for _, page := range pages {
		var sourceContext string
		if contextFn != nil {
			sourceContext = contextFn(page)
		} else {
			sourceContext = ExtractSprintContext(page.ParentTitle)
		}

		resolution, err := s.Resolve(page.ID, page.Title, targetFolderID, sourceContext, false)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", page.Title, err)
		}
		results = append(results, PageResolution{Page: page, Resolution: resolution})
	}
	return results, nil
}

// ExtractSprintContext pulls a sprint label out of free text.
// Returns "Sprint {N}" or the empty string.
func ExtractSprintContext(text string) string {
	for _, re := range sprintContext {
		if m := re.FindStringSubmatch(text); m != nil {
			return "Sprint " + m[1]
		}
	}
	return ""
}
