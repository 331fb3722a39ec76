// Package classify assigns document types to Confluence pages based on title
// patterns and content keywords.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cyanluna-git/jira.javis/internal/models"
)

// Scoring weights: a title pattern match counts for more than keyword hits.
const (
	titleWeight   = 0.6
	contentWeight = 0.4

	// Keyword hits normalize against this count before weighting.
	keywordNorm = 5.0

	// DefaultMinConfidence is the score below which a page stays uncategorized.
	DefaultMinConfidence = 0.3
)

// Sprint identifier variants, most specific first.
var sprintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[?Scaled[-\s]*Sprint[-\s]*(\d+)\]?`),
	regexp.MustCompile(`(?i)\[?Sprint[-\s]*(\d+)\]?`),
	regexp.MustCompile(`(?i)Sprint\s+(\d+)`),
	regexp.MustCompile(`(?i)S(\d+)`),
}

// Result is the outcome of classifying a single page.
type Result struct {
	DocType         DocumentType
	Confidence      float64 // 0.0 - 1.0
	MatchedPatterns []string
	MatchedKeywords []string
	SourceSprint    string // e.g. "Sprint 8", empty if none found
}

// PageResult pairs a page with its classification.
type PageResult struct {
	Page   models.Page
	Result Result
}

// Classifier scores pages against a taxonomy. It is pure: classification has
// no side effects and two calls with the same inputs return the same result.
type Classifier struct {
	taxonomy      Taxonomy
	minConfidence float64
	titlePatterns map[DocumentType][]*regexp.Regexp
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMinConfidence overrides the minimum confidence threshold.
func WithMinConfidence(min float64) Option {
	return func(c *Classifier) { c.minConfidence = min }
}

// NewClassifier compiles the taxonomy's title patterns once up front.
// Returns an error if any pattern fails to compile.
func NewClassifier(tax Taxonomy, opts ...Option) (*Classifier, error) {
	c := &Classifier{
		taxonomy:      tax,
		minConfidence: DefaultMinConfidence,
		titlePatterns: make(map[DocumentType][]*regexp.Regexp, len(tax.Patterns)),
	}
	for _, opt := range opts {
		opt(c)
	}

	for docType, patterns := range tax.Patterns {
		compiled := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("compile pattern %q for %s: %w", p, docType, err)
			}
			compiled = append(compiled, re)
		}
		c.titlePatterns[docType] = compiled
	}

	return c, nil
}

// Taxonomy returns the classification tables in use.
func (c *Classifier) Taxonomy() Taxonomy {
	return c.taxonomy
}

// FolderName returns the target folder for a document type.
func (c *Classifier) FolderName(dt DocumentType) string {
	return c.taxonomy.FolderName(dt)
}

// Classify scores a page by title and content. parentTitle is only used as a
// fallback for sprint extraction.
func (c *Classifier) Classify(title, content, parentTitle string) Result {
	scores := make(map[DocumentType]float64, len(Types))
	matchedPatterns := make(map[DocumentType][]string)
	matchedKeywords := make(map[DocumentType][]string)

	sprint := ExtractSprint(title)
	if sprint == "" {
		sprint = ExtractSprint(parentTitle)
	}

	// Title patterns: first match per type wins, no double counting.
	for docType, patterns := range c.titlePatterns {
		for _, re := range patterns {
			if re.MatchString(title) {
				scores[docType] += titleWeight
				matchedPatterns[docType] = append(matchedPatterns[docType], re.String())
				break
			}
		}
	}

	// Content keywords: distinct hits, normalized and capped.
	if content != "" {
		contentLower := strings.ToLower(content)
		for docType, keywords := range c.taxonomy.Keywords {
			hits := 0
			for _, kw := range keywords {
				if strings.Contains(contentLower, strings.ToLower(kw)) {
					hits++
					matchedKeywords[docType] = append(matchedKeywords[docType], kw)
				}
			}
			if hits > 0 {
				scores[docType] += min(float64(hits)/keywordNorm, 1.0) * contentWeight
			}
		}
	}

	best := Uncategorized
	bestScore := 0.0
	for _, docType := range Types {
		if scores[docType] > bestScore {
			best = docType
			bestScore = scores[docType]
		}
	}

	if bestScore < c.minConfidence {
		return Result{
			DocType:      Uncategorized,
			Confidence:   0,
			SourceSprint: sprint,
		}
	}

	return Result{
		DocType:         best,
		Confidence:      min(bestScore, 1.0),
		MatchedPatterns: matchedPatterns[best],
		MatchedKeywords: matchedKeywords[best],
		SourceSprint:    sprint,
	}
}

// ClassifyBatch classifies pages in order.
func (c *Classifier) ClassifyBatch(pages []models.Page) []PageResult {
	results := make([]PageResult, 0, len(pages))
	for _, page := range pages {
		results = append(results, PageResult{
			Page:   page,
			Result: c.Classify(page.Title, page.BodyStorage, page.ParentTitle),
		})
	}
	return results
}

// Summary counts classified pages per document type.
func Summary(results []PageResult) map[DocumentType]int {
	summary := make(map[DocumentType]int, len(Types))
	for _, dt := range Types {
		summary[dt] = 0
	}
	for _, r := range results {
		summary[r.Result.DocType]++
	}
	return summary
}

// ExtractSprint pulls a sprint identifier out of free text.
// Returns "Sprint {N}" or the empty string.
func ExtractSprint(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range sprintPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return "Sprint " + m[1]
		}
	}
	return ""
}
