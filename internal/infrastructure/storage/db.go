package storage

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// builder is the shared statement builder; SQLite uses question placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Open opens or creates the SQLite database and initializes the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Foreign keys for report->issue cascade, WAL for concurrent readers.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		id TEXT PRIMARY KEY,
		page_type TEXT NOT NULL,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		excerpt TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		scheduled_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS seo_reports (
		id TEXT PRIMARY KEY,
		page_id TEXT NOT NULL,
		page_type TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		content_snapshot TEXT NOT NULL,
		generated_at TIMESTAMP NOT NULL,
		high_count INTEGER NOT NULL DEFAULT 0,
		medium_count INTEGER NOT NULL DEFAULT 0,
		low_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS seo_issues (
		id TEXT PRIMARY KEY,
		report_id TEXT NOT NULL REFERENCES seo_reports(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		severity TEXT NOT NULL,
		category TEXT NOT NULL,
		title TEXT NOT NULL,
		why TEXT NOT NULL,
		where_field TEXT NOT NULL,
		where_selector TEXT NOT NULL DEFAULT '',
		where_example TEXT NOT NULL DEFAULT '',
		current_value TEXT NOT NULL DEFAULT '',
		proposed_fix TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS change_history (
		id TEXT PRIMARY KEY,
		page_id TEXT NOT NULL,
		page_type TEXT NOT NULL,
		issue_id TEXT,
		field_name TEXT NOT NULL,
		selector TEXT NOT NULL DEFAULT '',
		old_value TEXT NOT NULL DEFAULT '',
		new_value TEXT NOT NULL DEFAULT '',
		diff TEXT NOT NULL,
		applied_by TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL,
		can_undo INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_reports_page ON seo_reports(page_id, generated_at);
	CREATE INDEX IF NOT EXISTS idx_issues_report ON seo_issues(report_id, position);
	CREATE INDEX IF NOT EXISTS idx_history_page ON change_history(page_id, applied_at);
	`

	_, err := db.Exec(schema)
	return err
}
