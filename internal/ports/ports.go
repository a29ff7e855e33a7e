package ports

import (
	"context"
	"time"

	"seoadmin/internal/domain"
)

// PageRepository persists content pages mutated by editor saves and fixes.
type PageRepository interface {
	Save(ctx context.Context, page *domain.Page) error
	Get(ctx context.Context, id string) (*domain.Page, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Page, error)
	List(ctx context.Context) ([]domain.Page, error)
	UpdateField(ctx context.Context, id string, field domain.PageField, value string) error
}

// ReportRepository persists analysis reports; a newer report for the same
// page supersedes older ones.
type ReportRepository interface {
	Save(ctx context.Context, report *domain.Report) error
	Get(ctx context.Context, id string) (*domain.Report, error)
	LatestForPage(ctx context.Context, pageID string) (*domain.Report, error)
	ListForPage(ctx context.Context, pageID string) ([]domain.Report, error)
}

// IssueRepository persists per-report findings.
type IssueRepository interface {
	SaveBatch(ctx context.Context, issues []domain.Issue) error
	Get(ctx context.Context, id string) (*domain.Issue, error)
	ListByReport(ctx context.Context, reportID string) ([]domain.Issue, error)
	UpdateProposedFix(ctx context.Context, id, text string) error
	UpdateStatus(ctx context.Context, id string, status domain.IssueStatus) error
}

// HistoryRepository records applied mutations. Append-only: no update or
// delete operation exists on purpose.
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.ChangeEntry) error
	Get(ctx context.Context, id string) (*domain.ChangeEntry, error)
	ListForPage(ctx context.Context, pageID string) ([]domain.ChangeEntry, error)
}

// Delegate is the external AI analysis capability, treated as opaque.
type Delegate interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) ([]domain.IssueDraft, error)
	Regenerate(ctx context.Context, req domain.RegenerateRequest) (string, error)
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
