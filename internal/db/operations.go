package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"

	"github.com/cyanluna-git/jira.javis/internal/models"
)

// restructureOpFilter scopes queries to the operation types this pipeline
// emits. Other tools share the content_operations table.
const restructureOpFilter = `target_type = "confluence"
		AND operation_type IN ["create_folder", "restructure", "archive", "add_link"]`

// InsertOperations persists operation records under the given ids in a single
// transaction. Either every record is created or none are; a plan must never
// be half-stored because dependencies would dangle.
func (c *Client) InsertOperations(ctx context.Context, ids []string, records []models.ContentOperation) ([]string, error) {
	if len(ids) != len(records) {
		return nil, fmt.Errorf("insert operations: %d ids for %d records", len(ids), len(records))
	}
	if len(records) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	vars := make(map[string]any, 2*len(records))

	sb.WriteString("BEGIN TRANSACTION;\n")
	for i, rec := range records {
		fmt.Fprintf(&sb, "CREATE type::record(\"content_operations\", $id%d) CONTENT $op%d;\n", i, i)

		targetIDs := rec.TargetIDs
		if targetIDs == nil {
			targetIDs = []string{}
		}
		dependsOn := rec.DependsOn
		if dependsOn == nil {
			dependsOn = []string{}
		}
		operationData := rec.OperationData
		if operationData == nil {
			operationData = map[string]any{}
		}

		content := map[string]any{
			"operation_type": rec.OperationType,
			"target_type":    rec.TargetType,
			"target_ids":     targetIDs,
			"operation_data": operationData,
			"depends_on":     dependsOn,
			"status":         string(rec.Status),
			"created_by":     rec.CreatedBy,
		}
		if rec.PreviewData != nil {
			content["preview_data"] = rec.PreviewData
		}

		vars[fmt.Sprintf("id%d", i)] = ids[i]
		vars[fmt.Sprintf("op%d", i)] = content
	}
	sb.WriteString("COMMIT TRANSACTION;")

	if _, err := surrealdb.Query[any](ctx, c.db, sb.String(), vars); err != nil {
		return nil, fmt.Errorf("insert operations: %w", wrapQueryError(err))
	}
	return ids, nil
}

// ApproveAllOperations transitions every pending restructure operation to
// approved and returns the number of records transitioned.
func (c *Client) ApproveAllOperations(ctx context.Context, approvedBy string) (int, error) {
	results, err := surrealdb.Query[[]models.ContentOperation](ctx, c.db, `
		UPDATE content_operations SET
			status = "approved",
			approved_by = $by,
			approved_at = time::now()
		WHERE status = "pending" AND `+restructureOpFilter+`
		RETURN AFTER
	`, map[string]any{"by": approvedBy})
	if err != nil {
		return 0, fmt.Errorf("approve all operations: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return 0, nil
	}
	return len((*results)[0].Result), nil
}

// ApproveOperation transitions a single pending operation to approved.
// Returns false if the operation does not exist or is not pending.
func (c *Client) ApproveOperation(ctx context.Context, id, approvedBy string) (bool, error) {
	results, err := surrealdb.Query[[]models.ContentOperation](ctx, c.db, `
		UPDATE type::record("content_operations", $id) SET
			status = "approved",
			approved_by = $by,
			approved_at = time::now()
		WHERE status = "pending"
		RETURN AFTER
	`, map[string]any{"id": id, "by": approvedBy})
	if err != nil {
		return false, fmt.Errorf("approve operation: %w", wrapQueryError(err))
	}

	return results != nil && len(*results) > 0 && len((*results)[0].Result) > 0, nil
}

// ListPendingOperations returns pending restructure operations, newest first.
func (c *Client) ListPendingOperations(ctx context.Context) ([]models.ContentOperation, error) {
	results, err := surrealdb.Query[[]models.ContentOperation](ctx, c.db, `
		SELECT * FROM content_operations
		WHERE status = "pending" AND `+restructureOpFilter+`
		ORDER BY created_at DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list pending operations: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.ContentOperation{}, nil
	}
	return (*results)[0].Result, nil
}
