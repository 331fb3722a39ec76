package db

import (
	"context"
	"fmt"
	"regexp"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/cyanluna-git/jira.javis/internal/models"
)

// maxTreeDepth bounds the descendant walk. Confluence trees deeper than this
// under one restructuring root indicate bad input, not a real hierarchy.
const maxTreeDepth = 10

// Legacy per-sprint container folders are walked through but not returned as
// movable pages themselves; archiving handles them separately.
var legacySprintFolder = regexp.MustCompile(`(?i)^\[?(Scaled[-\s]*)?Sprint[-\s]*\d+\]?$`)

// pageRow is the wire shape of a confluence_page record.
type pageRow struct {
	ID          surrealmodels.RecordID `json:"id"`
	Title       string                 `json:"title"`
	BodyStorage string                 `json:"body_storage"`
	ParentID    *string                `json:"parent_id"`
	SpaceID     *string                `json:"space_id"`
}

func (r pageRow) toPage() (models.Page, error) {
	id, err := models.RecordIDString(r.ID)
	if err != nil {
		return models.Page{}, fmt.Errorf("page record id: %w", err)
	}
	page := models.Page{
		ID:          id,
		Title:       r.Title,
		BodyStorage: r.BodyStorage,
	}
	if r.ParentID != nil {
		page.ParentID = *r.ParentID
	}
	if r.SpaceID != nil {
		page.SpaceID = *r.SpaceID
	}
	return page, nil
}

func rowsToPages(rows []pageRow) ([]models.Page, error) {
	pages := make([]models.Page, 0, len(rows))
	for _, row := range rows {
		page, err := row.toPage()
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// QueryPageByTitle finds a mirrored page by exact title. A non-empty spaceID
// narrows the match to one space. Returns ErrNotFound when no page matches.
func (c *Client) QueryPageByTitle(ctx context.Context, title, spaceID string) (*models.Page, error) {
	sql := `SELECT * FROM confluence_page WHERE title = $title`
	vars := map[string]any{"title": title}
	if spaceID != "" {
		sql += ` AND space_id = $space`
		vars["space"] = spaceID
	}
	sql += ` LIMIT 1`

	results, err := surrealdb.Query[[]pageRow](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("page by title: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("%w: page %q", ErrNotFound, title)
	}
	page, err := (*results)[0].Result[0].toPage()
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// QueryPageByID retrieves one mirrored page. Returns ErrNotFound if absent.
func (c *Client) QueryPageByID(ctx context.Context, id string) (*models.Page, error) {
	results, err := surrealdb.Query[[]pageRow](ctx, c.db, `
		SELECT * FROM type::record("confluence_page", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("page by id: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("%w: page %s", ErrNotFound, id)
	}
	page, err := (*results)[0].Result[0].toPage()
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// QueryChildPages returns the direct children of a page, ordered by title.
func (c *Client) QueryChildPages(ctx context.Context, parentID string) ([]models.Page, error) {
	results, err := surrealdb.Query[[]pageRow](ctx, c.db, `
		SELECT * FROM confluence_page WHERE parent_id = $parent ORDER BY title
	`, map[string]any{"parent": parentID})
	if err != nil {
		return nil, fmt.Errorf("child pages: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Page{}, nil
	}
	return rowsToPages((*results)[0].Result)
}

// queryPagesByParents returns all pages whose parent is in the given set.
func (c *Client) queryPagesByParents(ctx context.Context, parentIDs []string) ([]models.Page, error) {
	results, err := surrealdb.Query[[]pageRow](ctx, c.db, `
		SELECT * FROM confluence_page WHERE parent_id IN $parents ORDER BY title
	`, map[string]any{"parents": parentIDs})
	if err != nil {
		return nil, fmt.Errorf("pages by parents: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Page{}, nil
	}
	return rowsToPages((*results)[0].Result)
}

// FetchPageTree walks the mirrored tree under rootID breadth-first, up to
// maxTreeDepth levels. It returns the movable descendant pages with their
// parent titles attached, plus the direct child folders of the root. Legacy
// per-sprint containers are returned as folders and descended into, but never
// as movable pages.
func (c *Client) FetchPageTree(ctx context.Context, rootID string) ([]models.Page, []models.Folder, error) {
	root, err := c.QueryPageByID(ctx, rootID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch tree root: %w", err)
	}

	titles := map[string]string{root.ID: root.Title}
	frontier := []string{root.ID}

	var pages []models.Page
	var folders []models.Folder

	for depth := 1; depth <= maxTreeDepth && len(frontier) > 0; depth++ {
		children, err := c.queryPagesByParents(ctx, frontier)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch tree level %d: %w", depth, err)
		}

		frontier = frontier[:0]
		for _, child := range children {
			titles[child.ID] = child.Title
			frontier = append(frontier, child.ID)

			child.ParentTitle = titles[child.ParentID]

			if depth == 1 {
				folders = append(folders, models.Folder{ID: child.ID, Title: child.Title})
				if legacySprintFolder.MatchString(child.Title) {
					continue
				}
			}
			pages = append(pages, child)
		}
	}

	return pages, folders, nil
}

// UpsertPage writes a page into the mirror, creating or replacing by id.
func (c *Client) UpsertPage(ctx context.Context, page models.Page) error {
	content := map[string]any{
		"title":        page.Title,
		"body_storage": page.BodyStorage,
	}
	if page.ParentID != "" {
		content["parent_id"] = page.ParentID
	}
	if page.SpaceID != "" {
		content["space_id"] = page.SpaceID
	}

	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("confluence_page", $id) CONTENT $page
	`, map[string]any{"id": page.ID, "page": content})
	if err != nil {
		return fmt.Errorf("upsert page: %w", wrapQueryError(err))
	}
	return nil
}
