package usecase

import (
	"context"
	"log/slog"
	"time"

	"seoadmin/internal/domain"
	"seoadmin/internal/ports"
)

// Publisher flips scheduled pages to published once their time arrives.
type Publisher struct {
	pages  ports.PageRepository
	logger *slog.Logger
}

// NewPublisher constructs the scheduled-post publisher.
func NewPublisher(pages ports.PageRepository, logger *slog.Logger) *Publisher {
	return &Publisher{pages: pages, logger: logger}
}

// PublishDue publishes every scheduled page whose scheduledAt has passed.
// Returns how many pages went live.
func (p *Publisher) PublishDue(ctx context.Context, now time.Time) (int, error) {
	pages, err := p.pages.List(ctx)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "list pages", Err: err}
	}

	published := 0
	for i := range pages {
		page := pages[i]
		if !page.DueForPublish(now) {
			continue
		}
		page.Status = domain.PagePublished
		page.ScheduledAt = nil
		page.UpdatedAt = now
		if err := p.pages.Save(ctx, &page); err != nil {
			if p.logger != nil {
				p.logger.Warn("publish failed", "page", page.ID, "error", err)
			}
			continue
		}
		published++
		if p.logger != nil {
			p.logger.Info("page published", "page", page.ID, "slug", page.Slug)
		}
	}
	return published, nil
}

// Job adapts PublishDue to the scheduler driver signature.
func (p *Publisher) Job(ctx context.Context) func(time.Time) {
	return func(now time.Time) {
		if _, err := p.PublishDue(ctx, now); err != nil && p.logger != nil {
			p.logger.Error("publish run failed", "error", err)
		}
	}
}
