// Package similarity detects near-duplicate pages via token-overlap heuristics
// and groups them with a union-find structure.
package similarity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cyanluna-git/jira.javis/internal/models"
)

// Default analyzer tuning. Titles are short and noisy, so content overlap
// carries more weight.
const (
	DefaultTitleWeight    = 0.4
	DefaultContentWeight  = 0.6
	DefaultLinkThreshold  = 0.7
	DefaultMergeThreshold = 0.85
	DefaultMaxKeywords    = 50
)

// Recommendation values for a group.
const (
	RecommendLink  = "link"
	RecommendMerge = "merge"
)

var wordPattern = regexp.MustCompile(`\b[a-z0-9]+\b`)

// stopWords are ignored in title comparison. Includes domain noise words
// ("sprint", "notes", ...) that appear in almost every page title.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "up": {}, "about": {}, "into": {}, "through": {}, "during": {},
	"sprint": {}, "note": {}, "notes": {}, "doc": {}, "document": {}, "page": {},
}

// Result is the pairwise comparison of two pages.
type Result struct {
	Page1ID           string
	Page2ID           string
	Page1Title        string
	Page2Title        string
	TitleSimilarity    float64
	ContentSimilarity  float64
	CombinedSimilarity float64
}

// Group is a set of transitively similar pages.
type Group struct {
	PageIDs        []string
	PageTitles     []string
	AvgSimilarity  float64
	PrimaryPageID  string // suggested primary page for a merge review
	Recommendation string // RecommendLink or RecommendMerge
}

// ProgressFunc reports pairwise-scan progress: compared pairs out of total.
type ProgressFunc func(done, total int)

// Analyzer computes page similarity. The primary-page and keyword-pruning
// heuristics are pluggable so they can be swapped without touching the
// clustering algorithm.
type Analyzer struct {
	TitleWeight    float64
	ContentWeight  float64
	LinkThreshold  float64
	MergeThreshold float64
	MaxKeywords    int

	// PrimaryFn picks the suggested primary page of a group.
	// Defaults to longest raw content, ties broken by encounter order.
	PrimaryFn func(ids []string, lookup map[string]models.Page) string

	// PruneFn trims an oversized keyword set down to max entries.
	// Defaults to keeping the longest tokens.
	PruneFn func(tokens []string, max int) []string

	// Progress, when set, is called during pairwise scans.
	Progress ProgressFunc
}

// NewAnalyzer returns an analyzer with default weights, thresholds, and
// heuristics.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		TitleWeight:    DefaultTitleWeight,
		ContentWeight:  DefaultContentWeight,
		LinkThreshold:  DefaultLinkThreshold,
		MergeThreshold: DefaultMergeThreshold,
		MaxKeywords:    DefaultMaxKeywords,
		PrimaryFn:      longestContent,
		PruneFn:        longestTokens,
	}
}

// Tokenize lower-cases text and extracts word tokens as a set.
// Stop words are removed when removeStopwords is set.
func Tokenize(text string, removeStopwords bool) map[string]struct{} {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if removeStopwords {
			if _, stop := stopWords[w]; stop {
				continue
			}
		}
		set[w] = struct{}{}
	}
	return set
}

// Jaccard computes |A∩B| / |A∪B|. Two empty sets compare as 0, not 1, so a
// pair of contentless pages never counts as similar.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// ExtractKeywords builds the content keyword set: stop words removed, tokens
// shorter than 3 characters dropped, and the set pruned to MaxKeywords.
func (a *Analyzer) ExtractKeywords(content string) map[string]struct{} {
	tokens := Tokenize(content, true)
	for t := range tokens {
		if len(t) <= 2 {
			delete(tokens, t)
		}
	}

	if len(tokens) <= a.MaxKeywords {
		return tokens
	}

	list := make([]string, 0, len(tokens))
	for t := range tokens {
		list = append(list, t)
	}
	kept := a.PruneFn(list, a.MaxKeywords)

	pruned := make(map[string]struct{}, len(kept))
	for _, t := range kept {
		pruned[t] = struct{}{}
	}
	return pruned
}

// Compare computes the weighted similarity between two pages.
// Empty content degrades content similarity to 0 rather than failing.
func (a *Analyzer) Compare(p1, p2 models.Page) Result {
	titleSim := Jaccard(Tokenize(p1.Title, true), Tokenize(p2.Title, true))

	contentSim := 0.0
	if p1.BodyStorage != "" && p2.BodyStorage != "" {
		contentSim = Jaccard(a.ExtractKeywords(p1.BodyStorage), a.ExtractKeywords(p2.BodyStorage))
	}

	return Result{
		Page1ID:            p1.ID,
		Page2ID:            p2.ID,
		Page1Title:         p1.Title,
		Page2Title:         p2.Title,
		TitleSimilarity:    titleSim,
		ContentSimilarity:  contentSim,
		CombinedSimilarity: titleSim*a.TitleWeight + contentSim*a.ContentWeight,
	}
}

// FindSimilarPairs exhaustively compares all page pairs (O(n²)) and returns
// those at or above threshold, sorted by combined similarity descending.
// A threshold of 0 uses LinkThreshold.
func (a *Analyzer) FindSimilarPairs(pages []models.Page, threshold float64) []Result {
	if threshold == 0 {
		threshold = a.LinkThreshold
	}

	total := len(pages) * (len(pages) - 1) / 2
	done := 0

	var pairs []Result
	for i := 0; i < len(pages); i++ {
		for j := i + 1; j < len(pages); j++ {
			result := a.Compare(pages[i], pages[j])
			if result.CombinedSimilarity >= threshold {
				pairs = append(pairs, result)
			}
			done++
			if a.Progress != nil {
				a.Progress(done, total)
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].CombinedSimilarity > pairs[j].CombinedSimilarity
	})
	return pairs
}

// GroupSimilar clusters pages via union-find over qualifying pairs. Pages
// joined transitively end up in one group even if not all pairs qualify.
// Singleton groups are discarded. Groups are sorted by average similarity
// descending; the average covers only the originally observed qualifying
// pairs, not recomputed pairs within the merged set.
func (a *Analyzer) GroupSimilar(pages []models.Page, threshold float64) []Group {
	if threshold == 0 {
		threshold = a.LinkThreshold
	}

	lookup := make(map[string]models.Page, len(pages))
	for _, p := range pages {
		lookup[p.ID] = p
	}

	pairs := a.FindSimilarPairs(pages, threshold)

	uf := newUnionFind()
	for _, p := range pages {
		uf.add(p.ID)
	}

	pairSims := make(map[[2]string]float64, len(pairs))
	for _, r := range pairs {
		uf.union(r.Page1ID, r.Page2ID)
		pairSims[pairKey(r.Page1ID, r.Page2ID)] = r.CombinedSimilarity
	}

	var groups []Group
	for _, members := range uf.groups() {
		if len(members) < 2 {
			continue
		}

		totalSim := 0.0
		pairCount := 0
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				if sim, ok := pairSims[pairKey(members[i], members[j])]; ok {
					totalSim += sim
					pairCount++
				}
			}
		}
		avgSim := threshold
		if pairCount > 0 {
			avgSim = totalSim / float64(pairCount)
		}

		titles := make([]string, len(members))
		for i, id := range members {
			titles[i] = lookup[id].Title
		}

		recommendation := RecommendLink
		if avgSim >= a.MergeThreshold {
			recommendation = RecommendMerge
		}

		groups = append(groups, Group{
			PageIDs:        members,
			PageTitles:     titles,
			AvgSimilarity:  avgSim,
			PrimaryPageID:  a.PrimaryFn(members, lookup),
			Recommendation: recommendation,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].AvgSimilarity > groups[j].AvgSimilarity
	})
	return groups
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// longestContent is the default primary-page heuristic: the member with the
// most raw content wins, first member on ties.
func longestContent(ids []string, lookup map[string]models.Page) string {
	if len(ids) == 0 {
		return ""
	}
	best := ids[0]
	bestLen := 0
	for _, id := range ids {
		if n := len(lookup[id].BodyStorage); n > bestLen {
			best = id
			bestLen = n
		}
	}
	return best
}

// longestTokens is the default keyword-pruning heuristic: longer words tend
// to be more meaningful, so keep the max longest ones.
func longestTokens(tokens []string, max int) []string {
	sort.SliceStable(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	if len(tokens) > max {
		tokens = tokens[:max]
	}
	return tokens
}
