package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- CONFLUENCE PAGE MIRROR
    -- ==========================================================================
    -- Mirrored Confluence content; populated by the mirror scripts, read-only
    -- for the restructuring pipeline.
    DEFINE TABLE IF NOT EXISTS confluence_page SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS title ON confluence_page TYPE string;
    DEFINE FIELD IF NOT EXISTS body_storage ON confluence_page TYPE string DEFAULT "";
    DEFINE FIELD IF NOT EXISTS parent_id ON confluence_page TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS space_id ON confluence_page TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created ON confluence_page TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated ON confluence_page TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS page_parent ON confluence_page FIELDS parent_id;
    DEFINE INDEX IF NOT EXISTS page_title ON confluence_page FIELDS title;
    DEFINE INDEX IF NOT EXISTS page_space ON confluence_page FIELDS space_id;

    -- ==========================================================================
    -- CONTENT OPERATIONS
    -- ==========================================================================
    -- Planned operations awaiting approval and execution. The pipeline writes
    -- rows as pending; the external executor owns later status transitions.
    DEFINE TABLE IF NOT EXISTS content_operations SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS operation_type ON content_operations TYPE string
        ASSERT $value IN ["create_folder", "restructure", "archive", "add_link", "move"];
    DEFINE FIELD IF NOT EXISTS target_type ON content_operations TYPE string;
    DEFINE FIELD IF NOT EXISTS target_ids ON content_operations TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS operation_data ON content_operations TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS preview_data ON content_operations TYPE option<object> FLEXIBLE;
    -- Dependency ordering persisted for the executor: every listed id must
    -- complete before this operation may run.
    DEFINE FIELD IF NOT EXISTS depends_on ON content_operations TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS status ON content_operations TYPE string DEFAULT "pending"
        ASSERT $value IN ["pending", "approved", "executing", "completed", "failed"];
    DEFINE FIELD IF NOT EXISTS created_by ON content_operations TYPE string;
    DEFINE FIELD IF NOT EXISTS created_at ON content_operations TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS approved_by ON content_operations TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS approved_at ON content_operations TYPE option<datetime>;

    DEFINE INDEX IF NOT EXISTS op_status ON content_operations FIELDS status;
    DEFINE INDEX IF NOT EXISTS op_type ON content_operations FIELDS operation_type;
`
