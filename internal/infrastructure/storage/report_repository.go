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

// ReportRepository persists analysis reports in SQLite. Reports are written
// once and never updated; re-analysis inserts a newer row.
type ReportRepository struct {
	db *sql.DB
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository wires a sql.DB implementation.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var reportColumns = []string{
	"id", "page_id", "page_type", "url", "title", "content_snapshot",
	"generated_at", "high_count", "medium_count", "low_count",
}

// Save inserts a new report row.
func (r *ReportRepository) Save(ctx context.Context, report *domain.Report) error {
	query, args, err := builder.
		Insert("seo_reports").
		Columns(reportColumns...).
		Values(
			report.ID, report.PageID, string(report.PageType), report.URL,
			report.Title, report.ContentSnapshot, report.GeneratedAt.UTC(),
			report.Summary.High, report.Summary.Medium, report.Summary.Low,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert report: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Get loads one report by primary key.
func (r *ReportRepository) Get(ctx context.Context, id string) (*domain.Report, error) {
	query, args, err := builder.
		Select(reportColumns...).
		From("seo_reports").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select report: %w", err)
	}

	report, err := scanReport(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select report: %w", err)
	}
	return report, nil
}

// LatestForPage returns the newest report for a page; older reports are
// considered superseded.
func (r *ReportRepository) LatestForPage(ctx context.Context, pageID string) (*domain.Report, error) {
	query, args, err := builder.
		Select(reportColumns...).
		From("seo_reports").
		Where(sq.Eq{"page_id": pageID}).
		OrderBy("generated_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build latest report: %w", err)
	}

	report, err := scanReport(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest report: %w", err)
	}
	return report, nil
}

// ListForPage returns every report generated for a page, newest first.
func (r *ReportRepository) ListForPage(ctx context.Context, pageID string) ([]domain.Report, error) {
	query, args, err := builder.
		Select(reportColumns...).
		From("seo_reports").
		Where(sq.Eq{"page_id": pageID}).
		OrderBy("generated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reports: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var (
		report   domain.Report
		pageType string
	)
	err := row.Scan(
		&report.ID, &report.PageID, &pageType, &report.URL, &report.Title,
		&report.ContentSnapshot, &report.GeneratedAt,
		&report.Summary.High, &report.Summary.Medium, &report.Summary.Low,
	)
	if err != nil {
		return nil, err
	}
	report.PageType = domain.PageType(pageType)
	return &report, nil
}
