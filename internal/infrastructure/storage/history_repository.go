package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"seoadmin/internal/domain"
	"seoadmin/internal/ports"
)

// HistoryRepository appends change records to SQLite. There is deliberately
// no update or delete path: the table is append-only.
type HistoryRepository struct {
	db *sql.DB
}

var _ ports.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository wires a sql.DB implementation.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

var historyColumns = []string{
	"id", "page_id", "page_type", "issue_id", "field_name", "selector",
	"old_value", "new_value", "diff", "applied_by", "applied_at", "can_undo",
}

// Append inserts one change entry.
func (r *HistoryRepository) Append(ctx context.Context, entry *domain.ChangeEntry) error {
	var issueID any
	if entry.IssueID != "" {
		issueID = entry.IssueID
	}

	query, args, err := builder.
		Insert("change_history").
		Columns(historyColumns...).
		Values(
			entry.ID, entry.PageID, string(entry.PageType), issueID,
			entry.FieldName, entry.Selector, entry.OldValue, entry.NewValue,
			entry.Diff, entry.AppliedBy, entry.AppliedAt.UTC(), entry.CanUndo,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert history: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// Get loads one entry by primary key.
func (r *HistoryRepository) Get(ctx context.Context, id string) (*domain.ChangeEntry, error) {
	query, args, err := builder.
		Select(historyColumns...).
		From("change_history").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select history: %w", err)
	}

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	return entry, nil
}

// ListForPage returns a page's change records, newest first.
func (r *HistoryRepository) ListForPage(ctx context.Context, pageID string) ([]domain.ChangeEntry, error) {
	query, args, err := builder.
		Select(historyColumns...).
		From("change_history").
		Where(sq.Eq{"page_id": pageID}).
		OrderBy("applied_at DESC", "rowid DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list history: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []domain.ChangeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func scanEntry(row rowScanner) (*domain.ChangeEntry, error) {
	var (
		entry    domain.ChangeEntry
		pageType string
		issueID  sql.NullString
	)
	err := row.Scan(
		&entry.ID, &entry.PageID, &pageType, &issueID, &entry.FieldName,
		&entry.Selector, &entry.OldValue, &entry.NewValue, &entry.Diff,
		&entry.AppliedBy, &entry.AppliedAt, &entry.CanUndo,
	)
	if err != nil {
		return nil, err
	}
	entry.PageType = domain.PageType(pageType)
	entry.IssueID = issueID.String
	return &entry, nil
}
