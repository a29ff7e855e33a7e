package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"seoadmin/internal/domain"
	"seoadmin/internal/ports"
)

// Pages is the editor-facing save path for content pages.
type Pages struct {
	pages  ports.PageRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewPages constructs the page editor component.
func NewPages(pages ports.PageRepository, logger *slog.Logger) *Pages {
	return &Pages{pages: pages, logger: logger, now: time.Now}
}

// Save validates and persists a page. New pages (empty id) get a generated id
// and creation timestamp. Slug uniqueness is checked before writing.
func (p *Pages) Save(ctx context.Context, page *domain.Page) error {
	now := p.now()
	if page.ID == "" {
		page.ID = uuid.NewString()
		page.CreatedAt = now
	}
	if page.Status == "" {
		page.Status = domain.PageDraft
	}
	page.UpdatedAt = now

	if err := page.Validate(now); err != nil {
		return err
	}

	existing, err := p.pages.GetBySlug(ctx, page.Slug)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check slug %q: %w", page.Slug, err)
	}
	if existing != nil && existing.ID != page.ID {
		return domain.NewValidationError("slug %q is already in use", page.Slug)
	}

	if err := p.pages.Save(ctx, page); err != nil {
		return &domain.PersistenceError{Op: "save page", Err: err}
	}
	if p.logger != nil {
		p.logger.Info("page saved", "page", page.ID, "slug", page.Slug, "status", page.Status)
	}
	return nil
}

// Get loads one page.
func (p *Pages) Get(ctx context.Context, id string) (*domain.Page, error) {
	return p.pages.Get(ctx, id)
}

// List returns all pages.
func (p *Pages) List(ctx context.Context) ([]domain.Page, error) {
	return p.pages.List(ctx)
}
