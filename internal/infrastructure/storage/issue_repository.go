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

// IssueRepository persists per-report findings in SQLite.
type IssueRepository struct {
	db *sql.DB
}

var _ ports.IssueRepository = (*IssueRepository)(nil)

// NewIssueRepository wires a sql.DB implementation.
func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

var issueColumns = []string{
	"id", "report_id", "severity", "category", "title", "why",
	"where_field", "where_selector", "where_example",
	"current_value", "proposed_fix", "status",
}

// SaveBatch inserts all issues of one report, preserving insertion order via
// the position column.
func (r *IssueRepository) SaveBatch(ctx context.Context, issues []domain.Issue) error {
	if len(issues) == 0 {
		return nil
	}

	insert := builder.
		Insert("seo_issues").
		Columns(append([]string{"position"}, issueColumns...)...)
	for i, issue := range issues {
		insert = insert.Values(
			i, issue.ID, issue.ReportID, string(issue.Severity), issue.Category,
			issue.Title, issue.Why, issue.Where.Field, issue.Where.Selector,
			issue.Where.Example, issue.CurrentValue, issue.ProposedFix, string(issue.Status),
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert issues: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert issues: %w", err)
	}
	return nil
}

// Get loads one issue by primary key.
func (r *IssueRepository) Get(ctx context.Context, id string) (*domain.Issue, error) {
	query, args, err := builder.
		Select(issueColumns...).
		From("seo_issues").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select issue: %w", err)
	}

	issue, err := scanIssue(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select issue: %w", err)
	}
	return issue, nil
}

// ListByReport returns a report's issues in stable insertion order.
func (r *IssueRepository) ListByReport(ctx context.Context, reportID string) ([]domain.Issue, error) {
	query, args, err := builder.
		Select(issueColumns...).
		From("seo_issues").
		Where(sq.Eq{"report_id": reportID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list issues: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	var issues []domain.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, *issue)
	}
	return issues, rows.Err()
}

// UpdateProposedFix overwrites the proposed fix text.
func (r *IssueRepository) UpdateProposedFix(ctx context.Context, id, text string) error {
	query, args, err := builder.
		Update("seo_issues").
		Set("proposed_fix", text).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update proposed fix: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update proposed fix: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus overwrites the issue status. Transition legality is the
// caller's responsibility; the store is a plain single-row update.
func (r *IssueRepository) UpdateStatus(ctx context.Context, id string, status domain.IssueStatus) error {
	query, args, err := builder.
		Update("seo_issues").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update status: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanIssue(row rowScanner) (*domain.Issue, error) {
	var (
		issue    domain.Issue
		severity string
		status   string
	)
	err := row.Scan(
		&issue.ID, &issue.ReportID, &severity, &issue.Category, &issue.Title,
		&issue.Why, &issue.Where.Field, &issue.Where.Selector, &issue.Where.Example,
		&issue.CurrentValue, &issue.ProposedFix, &status,
	)
	if err != nil {
		return nil, err
	}
	issue.Severity = domain.Severity(severity)
	issue.Status = domain.IssueStatus(status)
	return &issue, nil
}
