package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"seoadmin/internal/domain"
	"seoadmin/internal/ports"
)

// PageRepository persists pages in SQLite.
type PageRepository struct {
	db *sql.DB
}

var _ ports.PageRepository = (*PageRepository)(nil)

// NewPageRepository wires a sql.DB implementation.
func NewPageRepository(db *sql.DB) *PageRepository {
	return &PageRepository{db: db}
}

var pageColumns = []string{
	"id", "page_type", "title", "slug", "excerpt", "content",
	"tags", "status", "scheduled_at", "created_at", "updated_at",
}

// Save upserts the page row keyed by id.
func (r *PageRepository) Save(ctx context.Context, page *domain.Page) error {
	var scheduledAt any
	if page.ScheduledAt != nil {
		scheduledAt = page.ScheduledAt.UTC()
	}

	query, args, err := builder.
		Insert("pages").
		Columns(pageColumns...).
		Values(
			page.ID, string(page.Type), page.Title, page.Slug, page.Excerpt, page.Content,
			strings.Join(page.Tags, ","), string(page.Status), scheduledAt,
			page.CreatedAt.UTC(), page.UpdatedAt.UTC(),
		).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			slug = excluded.slug,
			excerpt = excluded.excerpt,
			content = excluded.content,
			tags = excluded.tags,
			status = excluded.status,
			scheduled_at = excluded.scheduled_at,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert page: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert page: %w", err)
	}
	return nil
}

// Get loads one page by primary key.
func (r *PageRepository) Get(ctx context.Context, id string) (*domain.Page, error) {
	return r.getWhere(ctx, "id", id)
}

// GetBySlug loads one page by its unique slug.
func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	return r.getWhere(ctx, "slug", slug)
}

func (r *PageRepository) getWhere(ctx context.Context, column, value string) (*domain.Page, error) {
	query, args, err := builder.
		Select(pageColumns...).
		From("pages").
		Where(sq.Eq{column: value}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select page: %w", err)
	}

	page, err := scanPage(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select page: %w", err)
	}
	return page, nil
}

// List returns all pages, newest first.
func (r *PageRepository) List(ctx context.Context) ([]domain.Page, error) {
	query, args, err := builder.
		Select(pageColumns...).
		From("pages").
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list pages: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []domain.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *page)
	}
	return pages, rows.Err()
}

// UpdateField mutates exactly one content attribute of the page.
func (r *PageRepository) UpdateField(ctx context.Context, id string, field domain.PageField, value string) error {
	var column string
	switch field {
	case domain.FieldTitle:
		column = "title"
	case domain.FieldExcerpt:
		column = "excerpt"
	case domain.FieldContent:
		column = "content"
	default:
		return fmt.Errorf("unknown page field %q", field)
	}

	query, args, err := builder.
		Update("pages").
		Set(column, value).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update page field: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update page %s: %w", column, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*domain.Page, error) {
	var (
		page        domain.Page
		pageType    string
		status      string
		tags        string
		scheduledAt sql.NullTime
	)
	err := row.Scan(
		&page.ID, &pageType, &page.Title, &page.Slug, &page.Excerpt, &page.Content,
		&tags, &status, &scheduledAt, &page.CreatedAt, &page.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	page.Type = domain.PageType(pageType)
	page.Status = domain.PageStatus(status)
	if tags != "" {
		page.Tags = strings.Split(tags, ",")
	}
	if scheduledAt.Valid {
		t := scheduledAt.Time
		page.ScheduledAt = &t
	}
	return &page, nil
}
