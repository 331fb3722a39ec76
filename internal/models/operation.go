package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// OperationStatus represents the lifecycle state of a content operation.
// The pipeline only ever writes "pending"; the external executor owns the
// approved -> executing -> completed/failed transitions.
type OperationStatus string

const (
	StatusPending   OperationStatus = "pending"
	StatusApproved  OperationStatus = "approved"
	StatusExecuting OperationStatus = "executing"
	StatusCompleted OperationStatus = "completed"
	StatusFailed    OperationStatus = "failed"
)

// Operation types written by the restructure planner.
const (
	OpCreateFolder = "create_folder"
	OpRestructure  = "restructure"
	OpArchive      = "archive"
	OpAddLink      = "add_link"
)

// TargetConfluence is the target_type for all restructure operations.
const TargetConfluence = "confluence"

// ContentOperation is a row in the content_operations table.
type ContentOperation struct {
	ID            surrealmodels.RecordID `json:"id"`
	OperationType string                 `json:"operation_type"`
	TargetType    string                 `json:"target_type"`
	TargetIDs     []string               `json:"target_ids"`
	OperationData map[string]any         `json:"operation_data"`
	PreviewData   map[string]any         `json:"preview_data,omitempty"`
	DependsOn     []string               `json:"depends_on,omitempty"`
	Status        OperationStatus        `json:"status"`
	CreatedBy     string                 `json:"created_by"`
	CreatedAt     time.Time              `json:"created_at"`
	ApprovedBy    *string                `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time             `json:"approved_at,omitempty"`
}
