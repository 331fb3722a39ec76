// Package models defines data structures shared across the restructuring pipeline.
package models

// Page is a mirrored Confluence page record. Pages are read-only inputs to the
// pipeline; the core never mutates them.
type Page struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	BodyStorage string `json:"body_storage"`
	ParentID    string `json:"parent_id,omitempty"`
	ParentTitle string `json:"parent_title,omitempty"`
	SpaceID     string `json:"space_id,omitempty"`
}

// Folder is a container page directly under the restructuring root.
type Folder struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
