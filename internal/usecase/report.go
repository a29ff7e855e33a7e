package usecase

import (
	"context"
	"fmt"

	"seoadmin/internal/domain"
	"seoadmin/internal/ports"
)

// IssueSummary is the dashboard aggregation for one report: OPEN counts per
// severity, APPLIED issues surfaced as resolved, DISCARDED issues excluded
// from both (effectively archived).
type IssueSummary struct {
	ReportID string                             `json:"reportId"`
	Open     domain.SeverityCount               `json:"open"`
	OpenBy   map[domain.Severity][]domain.Issue `json:"openBySeverity"`
	Resolved []domain.Issue                     `json:"resolved"`
}

// SummarizeIssues aggregates a report's issues. Order within each severity
// group is the stable insertion order of the input; no re-ranking.
func SummarizeIssues(reportID string, issues []domain.Issue) IssueSummary {
	summary := IssueSummary{
		ReportID: reportID,
		OpenBy:   map[domain.Severity][]domain.Issue{},
	}
	for _, issue := range issues {
		switch issue.Status {
		case domain.IssueOpen:
			summary.Open.Add(issue.Severity)
			summary.OpenBy[issue.Severity] = append(summary.OpenBy[issue.Severity], issue)
		case domain.IssueApplied:
			summary.Resolved = append(summary.Resolved, issue)
		}
	}
	return summary
}

// Reporting loads issues from storage and aggregates them for the dashboard.
type Reporting struct {
	reports ports.ReportRepository
	issues  ports.IssueRepository
}

// NewReporting constructs the aggregation component.
func NewReporting(reports ports.ReportRepository, issues ports.IssueRepository) *Reporting {
	return &Reporting{reports: reports, issues: issues}
}

// Summarize aggregates one report by id.
func (r *Reporting) Summarize(ctx context.Context, reportID string) (*IssueSummary, error) {
	if _, err := r.reports.Get(ctx, reportID); err != nil {
		return nil, fmt.Errorf("load report %s: %w", reportID, err)
	}
	issues, err := r.issues.ListByReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("load issues for report %s: %w", reportID, err)
	}
	summary := SummarizeIssues(reportID, issues)
	return &summary, nil
}

// SummarizeLatest aggregates the newest report of a page.
func (r *Reporting) SummarizeLatest(ctx context.Context, pageID string) (*IssueSummary, error) {
	report, err := r.reports.LatestForPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("latest report for page %s: %w", pageID, err)
	}
	return r.Summarize(ctx, report.ID)
}
