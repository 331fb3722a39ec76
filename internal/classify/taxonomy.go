package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DocumentType is a closed enumeration of page categories.
type DocumentType string

const (
	SprintReview  DocumentType = "sprint-review"
	DesignNote    DocumentType = "design-note"
	StoryNote     DocumentType = "story-note"
	MeetingNotes  DocumentType = "meeting-notes"
	Retrospective DocumentType = "retrospective"
	TechnicalDoc  DocumentType = "technical-doc"
	Uncategorized DocumentType = "uncategorized"
)

// Types lists every document type, uncategorized last.
var Types = []DocumentType{
	SprintReview, DesignNote, StoryNote,
	MeetingNotes, Retrospective, TechnicalDoc,
	Uncategorized,
}

// Taxonomy holds the classification tables: per-type title patterns, content
// keywords, and the canonical target folder name. It is plain data so test
// suites and deployments can swap in their own tables.
type Taxonomy struct {
	Patterns map[DocumentType][]string `yaml:"patterns"`
	Keywords map[DocumentType][]string `yaml:"keywords"`
	Folders  map[DocumentType]string   `yaml:"folders"`
}

// DefaultTaxonomy returns the built-in classification tables.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Patterns: map[DocumentType][]string{
			SprintReview: {
				`sprint\s*\d*\s*review`,
				`review\s+of\s+sprint`,
				`burndown`,
				`sprint\s*\d*\s*summary`,
				`velocity\s+report`,
				`sprint\s+report`,
			},
			DesignNote: {
				`design\s*note`,
				`architecture`,
				`rfc\b`,
				`technical\s*design`,
				`system\s*design`,
				`design\s*doc`,
				`hld\b`,
				`lld\b`,
			},
			StoryNote: {
				`story[-\s]*\d+`,
				`[A-Z]{2,10}-\d+`, // issue key, e.g. ASP-123
				`user\s*story`,
				`feature\s*spec`,
				`requirements?\s+doc`,
			},
			MeetingNotes: {
				`meeting\s*note`,
				`standup`,
				`stand-up`,
				`sync\s*meeting`,
				`weekly\s*sync`,
				`daily\s*sync`,
				`scrum\s*meeting`,
				`planning\s*meeting`,
				`grooming`,
				`refinement`,
			},
			Retrospective: {
				`retro(spective)?`,
				`sprint\s*\d*\s*retro`,
				`lessons?\s*learned`,
				`post[\s-]*mortem`,
				`what\s+went\s+well`,
			},
			TechnicalDoc: {
				`api\s*doc`,
				`guide`,
				`setup\s*instruction`,
				`how[\s-]*to`,
				`tutorial`,
				`reference\s*doc`,
				`developer\s*guide`,
				`user\s*manual`,
				`onboarding`,
				`installation`,
			},
		},
		Keywords: map[DocumentType][]string{
			SprintReview: {
				"velocity", "burndown", "story points", "completed", "carried over",
				"sprint goal", "done", "in progress", "demo", "showcase",
				"achievements", "delivered", "sprint metrics",
			},
			DesignNote: {
				"architecture", "component", "interface", "module", "diagram",
				"sequence", "class diagram", "flow chart", "design decision",
				"tradeoff", "alternative", "proposed solution", "technical approach",
			},
			StoryNote: {
				"acceptance criteria", "user story", "as a user", "given when then",
				"scenario", "requirement", "feature", "epic", "subtask",
				"definition of done", "dod", "acceptance test",
			},
			MeetingNotes: {
				"attendees", "agenda", "action items", "decisions", "discussion",
				"follow up", "next steps", "minutes", "blockers", "updates",
				"participants", "notes from",
			},
			Retrospective: {
				"went well", "improve", "action items", "kudos", "keep doing",
				"stop doing", "start doing", "feedback", "team health",
				"mad sad glad", "lessons learned",
			},
			TechnicalDoc: {
				"installation", "prerequisites", "configuration", "api", "endpoint",
				"parameters", "response", "example", "usage", "command",
				"step by step", "getting started", "troubleshooting",
			},
		},
		Folders: map[DocumentType]string{
			SprintReview:  "01-Sprint-Reviews",
			DesignNote:    "02-Design-Notes",
			StoryNote:     "03-Story-Notes",
			MeetingNotes:  "04-Meeting-Notes",
			Retrospective: "05-Retrospectives",
			TechnicalDoc:  "06-Technical-Docs",
			Uncategorized: "99-Uncategorized",
		},
	}
}

// LoadTaxonomy reads a taxonomy override from a YAML file. Tables absent from
// the file fall back to the defaults, so a deployment can override just the
// keywords without redefining every pattern.
func LoadTaxonomy(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("read taxonomy: %w", err)
	}

	var loaded Taxonomy
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Taxonomy{}, fmt.Errorf("parse taxonomy: %w", err)
	}

	tax := DefaultTaxonomy()
	if len(loaded.Patterns) > 0 {
		tax.Patterns = loaded.Patterns
	}
	if len(loaded.Keywords) > 0 {
		tax.Keywords = loaded.Keywords
	}
	if len(loaded.Folders) > 0 {
		tax.Folders = loaded.Folders
	}
	return tax, nil
}

// FolderName returns the canonical target folder for a document type.
// Unknown types fall back to the uncategorized folder.
func (t Taxonomy) FolderName(dt DocumentType) string {
	if name, ok := t.Folders[dt]; ok {
		return name
	}
	return t.Folders[Uncategorized]
}
