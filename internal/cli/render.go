package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cyanluna-git/jira.javis/internal/restructure"
	"github.com/cyanluna-git/jira.javis/internal/similarity"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(defaultTheme.Status)
	sectionStyle = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(defaultTheme.Hint)
	renameStyle  = lipgloss.NewStyle().Foreground(defaultTheme.Success)
)

// renderProposal renders a proposal for terminal review.
func renderProposal(p *restructure.Proposal) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Restructuring proposal for %q", p.ParentTitle)) + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("parent=%s space=%s", p.ParentID, p.SpaceID)) + "\n\n")

	if len(p.FoldersToCreate) > 0 {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("Folders to create (%d)", len(p.FoldersToCreate))) + "\n")
		for _, f := range p.FoldersToCreate {
			b.WriteString(fmt.Sprintf("  + %s\n", f.FolderName))
		}
		b.WriteString("\n")
	}

	if len(p.PagesToMove) > 0 {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("Pages to move (%d)", len(p.PagesToMove))) + "\n")
		currentFolder := ""
		for _, m := range p.PagesToMove {
			if m.TargetFolderName != currentFolder {
				currentFolder = m.TargetFolderName
				b.WriteString(fmt.Sprintf("  %s/\n", currentFolder))
			}
			line := fmt.Sprintf("    %s", m.OriginalTitle)
			if m.NameChanged {
				line += renameStyle.Render(fmt.Sprintf(" -> %s", m.ResolvedTitle))
			}
			line += dimStyle.Render(fmt.Sprintf("  [%s %.2f]", m.DocType, m.Confidence))
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(p.FoldersToArchive) > 0 {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("Folders to archive (%d)", len(p.FoldersToArchive))) + "\n")
		for _, a := range p.FoldersToArchive {
			b.WriteString(fmt.Sprintf("  %s -> %s\n", a.FolderTitle, a.NewTitle))
		}
		b.WriteString("\n")
	}

	if len(p.LinkSuggestions) > 0 {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("Link suggestions (%d)", len(p.LinkSuggestions))) + "\n")
		for _, l := range p.LinkSuggestions {
			b.WriteString(fmt.Sprintf("  ~ %s (%.0f%% similar)\n",
				strings.Join(l.PageTitles, " / "), l.Similarity*100))
		}
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Summary") + "\n")
	fmt.Fprintf(&b, "  Total pages:           %d\n", p.TotalPages)
	fmt.Fprintf(&b, "  Collisions resolved:   %d\n", p.CollisionResolutions)
	fmt.Fprintf(&b, "  Context preservations: %d\n", p.ContextPreservations)

	return b.String()
}

// renderGroups renders similarity groups for terminal review.
func renderGroups(groups []similarity.Group) string {
	if len(groups) == 0 {
		return "No similar page groups found.\n"
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Similar page groups (%d)", len(groups))) + "\n")
	for i, g := range groups {
		fmt.Fprintf(&b, "  %d. [%s] avg %.0f%%\n", i+1, g.Recommendation, g.AvgSimilarity*100)
		for _, title := range g.PageTitles {
			b.WriteString(fmt.Sprintf("     - %s\n", title))
		}
		if g.Recommendation == similarity.RecommendMerge {
			b.WriteString(dimStyle.Render(fmt.Sprintf("     primary: %s", g.PrimaryPageID)) + "\n")
		}
	}
	return b.String()
}

// proposalExport is the machine-readable proposal shape written next to the
// rendered preview.
type proposalExport struct {
	ParentID    string `json:"parent_id"`
	ParentTitle string `json:"parent_title"`
	SpaceID     string `json:"space_id,omitempty"`

	FoldersToCreate  []folderExport  `json:"folders_to_create"`
	PagesToMove      []moveExport    `json:"pages_to_move"`
	FoldersToArchive []archiveExport `json:"folders_to_archive"`
	LinkSuggestions  []linkExport    `json:"link_suggestions"`

	Summary summaryExport `json:"summary"`
}

type folderExport struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
	DocType  string `json:"doc_type,omitempty"`
}

type moveExport struct {
	PageID           string  `json:"page_id"`
	OriginalTitle    string  `json:"original_title"`
	ResolvedTitle    string  `json:"resolved_title"`
	TargetFolderName string  `json:"target_folder_name"`
	TargetFolderID   string  `json:"target_folder_id,omitempty"`
	DocType          string  `json:"doc_type"`
	Confidence       float64 `json:"confidence"`
	NameChanged      bool    `json:"name_changed"`
}

type archiveExport struct {
	FolderID    string `json:"folder_id"`
	FolderTitle string `json:"folder_title"`
	NewTitle    string `json:"new_title"`
}

type linkExport struct {
	PageIDs    []string `json:"page_ids"`
	PageTitles []string `json:"page_titles"`
	Similarity float64  `json:"similarity"`
	Reason     string   `json:"reason"`
}

type summaryExport struct {
	TotalPages           int            `json:"total_pages"`
	PagesByType          map[string]int `json:"pages_by_type"`
	CollisionResolutions int            `json:"collision_resolutions"`
	ContextPreservations int            `json:"context_preservations"`
}

// exportProposal converts a proposal into its export shape.
func exportProposal(p *restructure.Proposal) proposalExport {
	export := proposalExport{
		ParentID:         p.ParentID,
		ParentTitle:      p.ParentTitle,
		SpaceID:          p.SpaceID,
		FoldersToCreate:  []folderExport{},
		PagesToMove:      []moveExport{},
		FoldersToArchive: []archiveExport{},
		LinkSuggestions:  []linkExport{},
		Summary: summaryExport{
			TotalPages:           p.TotalPages,
			PagesByType:          map[string]int{},
			CollisionResolutions: p.CollisionResolutions,
			ContextPreservations: p.ContextPreservations,
		},
	}

	for _, f := range p.FoldersToCreate {
		export.FoldersToCreate = append(export.FoldersToCreate, folderExport{
			Name:     f.FolderName,
			ParentID: f.ParentID,
			DocType:  string(f.DocType),
		})
	}
	for _, m := range p.PagesToMove {
		export.PagesToMove = append(export.PagesToMove, moveExport{
			PageID:           m.PageID,
			OriginalTitle:    m.OriginalTitle,
			ResolvedTitle:    m.ResolvedTitle,
			TargetFolderName: m.TargetFolderName,
			TargetFolderID:   m.TargetFolderID,
			DocType:          string(m.DocType),
			Confidence:       m.Confidence,
			NameChanged:      m.NameChanged,
		})
	}
	for _, a := range p.FoldersToArchive {
		export.FoldersToArchive = append(export.FoldersToArchive, archiveExport{
			FolderID:    a.FolderID,
			FolderTitle: a.FolderTitle,
			NewTitle:    a.NewTitle,
		})
	}
	for _, l := range p.LinkSuggestions {
		export.LinkSuggestions = append(export.LinkSuggestions, linkExport{
			PageIDs:    l.PageIDs,
			PageTitles: l.PageTitles,
			Similarity: l.Similarity,
			Reason:     l.Reason,
		})
	}
	for dt, count := range p.PagesByType {
		export.Summary.PagesByType[string(dt)] = count
	}

	return export
}
