package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"seoadmin/internal/domain"
	"seoadmin/internal/infrastructure/inspect"
	"seoadmin/internal/ports"
)

// AnalyzerDeps wires the driven adapters into the analysis workflow.
type AnalyzerDeps struct {
	Pages    ports.PageRepository
	Reports  ports.ReportRepository
	Issues   ports.IssueRepository
	Delegate ports.Delegate
	Logger   *slog.Logger

	// SnapshotLimit caps the stored content snapshot in runes.
	SnapshotLimit int
	// MaxContentChars caps the HTML sent to the delegate.
	MaxContentChars int
}

// Analyzer runs the analyze workflow: delegate call, issue persistence,
// graceful degradation when the delegate misbehaves.
type Analyzer struct {
	pages           ports.PageRepository
	reports         ports.ReportRepository
	issues          ports.IssueRepository
	delegate        ports.Delegate
	logger          *slog.Logger
	snapshotLimit   int
	maxContentChars int
	now             func() time.Time
}

// AnalysisResult bundles the persisted report with its issues.
type AnalysisResult struct {
	Report domain.Report  `json:"report"`
	Issues []domain.Issue `json:"issues"`
}

// PageResult records the outcome of one page inside a bulk run.
type PageResult struct {
	PageID   string
	ReportID string
	Err      error
}

// BulkSummary aggregates a sequential bulk analysis run.
type BulkSummary struct {
	Successful int
	Failed     int
	Results    []PageResult
}

// NewAnalyzer constructs the analysis workflow component.
func NewAnalyzer(deps AnalyzerDeps) *Analyzer {
	if deps.SnapshotLimit <= 0 {
		deps.SnapshotLimit = 2000
	}
	return &Analyzer{
		pages:           deps.Pages,
		reports:         deps.Reports,
		issues:          deps.Issues,
		delegate:        deps.Delegate,
		logger:          deps.Logger,
		snapshotLimit:   deps.SnapshotLimit,
		maxContentChars: deps.MaxContentChars,
		now:             time.Now,
	}
}

// AnalyzePage runs one analysis against one page and persists the report and
// its issues. Delegate failures degrade to the fixed fallback set and never
// surface as a hard error to the operator.
func (a *Analyzer) AnalyzePage(ctx context.Context, pageID string) (*AnalysisResult, error) {
	page, err := a.pages.Get(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", pageID, err)
	}
	if page.Title == "" {
		return nil, domain.NewValidationError("page %s has no title to analyze", pageID)
	}
	if page.Slug == "" {
		return nil, domain.NewValidationError("page %s has no slug to analyze", pageID)
	}

	content := page.Content
	if a.maxContentChars > 0 && len(content) > a.maxContentChars {
		content = content[:a.maxContentChars]
	}

	drafts, err := a.delegate.Analyze(ctx, domain.AnalysisRequest{
		PageID:   page.ID,
		PageType: page.Type.String(),
		URL:      page.URL(),
		Title:    page.Title,
		Content:  content,
		Action:   "analyze",
	})
	if err != nil {
		a.warn("analysis delegate failed, using fallback issues", "page", page.ID, "error", err)
		drafts = domain.FallbackIssueDrafts()
	}

	if facts, fErr := inspect.Extract(page.Content); fErr == nil {
		a.debug("page facts", "page", page.ID,
			"h1_count", facts.H1Count, "images", facts.Images,
			"images_with_alt", facts.ImagesWithAlt, "words", facts.WordCount)
	}

	report := domain.Report{
		ID:              uuid.NewString(),
		PageID:          page.ID,
		PageType:        page.Type,
		URL:             page.URL(),
		Title:           page.Title,
		ContentSnapshot: inspect.Snapshot(page.Content, a.snapshotLimit),
		GeneratedAt:     a.now(),
	}

	// Delegate identifiers, if any, are discarded: every issue gets a fresh id.
	issues := make([]domain.Issue, 0, len(drafts))
	for _, draft := range drafts {
		issues = append(issues, domain.Issue{
			ID:       uuid.NewString(),
			ReportID: report.ID,
			Severity: domain.NormalizeSeverity(draft.Severity),
			Category: draft.Category,
			Title:    draft.Title,
			Why:      draft.Why,
			Where: domain.IssueLocation{
				Field:    draft.Where.Field,
				Selector: draft.Where.Selector,
				Example:  draft.Where.Example,
			},
			CurrentValue: draft.CurrentValue,
			ProposedFix:  draft.ProposedFix,
			Status:       domain.IssueOpen,
		})
	}
	report.Summary = domain.CountBySeverity(issues)

	if err := a.reports.Save(ctx, &report); err != nil {
		return nil, &domain.PersistenceError{Op: "save report", Err: err}
	}
	if err := a.issues.SaveBatch(ctx, issues); err != nil {
		return nil, &domain.PersistenceError{Op: "save issues", Err: err}
	}

	a.info("analysis complete", "page", page.ID, "report", report.ID,
		"high", report.Summary.High, "medium", report.Summary.Medium, "low", report.Summary.Low)
	return &AnalysisResult{Report: report, Issues: issues}, nil
}

// AnalyzeBulk processes pages strictly sequentially, one delegate call at a
// time. A failure on one page is recorded and the remaining pages continue.
func (a *Analyzer) AnalyzeBulk(ctx context.Context, pageIDs []string) BulkSummary {
	summary := BulkSummary{Results: make([]PageResult, 0, len(pageIDs))}
	for _, pageID := range pageIDs {
		result := PageResult{PageID: pageID}
		analysis, err := a.AnalyzePage(ctx, pageID)
		if err != nil {
			result.Err = err
			summary.Failed++
			a.warn("bulk analysis page failed", "page", pageID, "error", err)
		} else {
			result.ReportID = analysis.Report.ID
			summary.Successful++
		}
		summary.Results = append(summary.Results, result)
	}
	return summary
}

func (a *Analyzer) info(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Info(msg, args...)
	}
}

func (a *Analyzer) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}

func (a *Analyzer) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
