package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"seoadmin/internal/domain"
	"seoadmin/internal/ports"
)

// ReviewDeps wires the issue-review surface.
type ReviewDeps struct {
	Issues       ports.IssueRepository
	Reports      ports.ReportRepository
	Delegate     ports.Delegate
	Orchestrator *Orchestrator
	Logger       *slog.Logger
}

// Review lets an operator inspect an issue, regenerate or edit its proposed
// fix, and trigger apply.
type Review struct {
	issues       ports.IssueRepository
	reports      ports.ReportRepository
	delegate     ports.Delegate
	orchestrator *Orchestrator
	logger       *slog.Logger
}

// NewReview constructs the review component.
func NewReview(deps ReviewDeps) *Review {
	return &Review{
		issues:       deps.Issues,
		reports:      deps.Reports,
		delegate:     deps.Delegate,
		orchestrator: deps.Orchestrator,
		logger:       deps.Logger,
	}
}

// Regenerate asks the delegate for a fresh replacement text and persists it
// as the new proposed fix. On any failure the previously stored fix is left
// untouched and the error is surfaced.
func (r *Review) Regenerate(ctx context.Context, issueID string) (string, error) {
	issue, err := r.issues.Get(ctx, issueID)
	if err != nil {
		return "", fmt.Errorf("load issue %s: %w", issueID, err)
	}

	text, err := r.delegate.Regenerate(ctx, domain.RegenerateRequest{
		IssueTitle:   issue.Title,
		Why:          issue.Why,
		Category:     issue.Category,
		CurrentValue: issue.CurrentValue,
	})
	if err != nil {
		return "", err
	}

	if err := r.issues.UpdateProposedFix(ctx, issueID, text); err != nil {
		return "", &domain.PersistenceError{Op: "save regenerated fix", Err: err}
	}

	if r.logger != nil {
		r.logger.Info("proposed fix regenerated", "issue", issueID)
	}
	return text, nil
}

// UpdateProposedFix persists the operator's edit only when it differs from
// the stored value; identical text is an idempotent no-op with no write.
func (r *Review) UpdateProposedFix(ctx context.Context, issueID, text string) error {
	if text == "" {
		return domain.NewValidationError("proposed fix must not be empty")
	}

	issue, err := r.issues.Get(ctx, issueID)
	if err != nil {
		return fmt.Errorf("load issue %s: %w", issueID, err)
	}
	if issue.ProposedFix == text {
		return nil
	}

	if err := r.issues.UpdateProposedFix(ctx, issueID, text); err != nil {
		return &domain.PersistenceError{Op: "save proposed fix", Err: err}
	}
	return nil
}

// Apply packages a change from the issue plus the operator-confirmed text and
// hands it to the orchestrator. The target page is resolved through the
// issue's owning report.
func (r *Review) Apply(ctx context.Context, issueID, editedText, actor string) (*domain.ChangeEntry, error) {
	issue, err := r.issues.Get(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("load issue %s: %w", issueID, err)
	}

	report, err := r.reports.Get(ctx, issue.ReportID)
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", issue.ReportID, err)
	}

	return r.orchestrator.Apply(ctx, domain.Change{
		IssueID:  issue.ID,
		PageID:   report.PageID,
		PageType: report.PageType,
		Field:    issue.Where.Field,
		Selector: issue.Where.Selector,
		OldValue: issue.CurrentValue,
		NewValue: editedText,
		Category: issue.Category,
		Title:    issue.Title,
	}, actor)
}

// Warnings returns the non-blocking length advisories for the issue's target
// field and a candidate text. Apply is never blocked by these.
func (r *Review) Warnings(issue *domain.Issue, text string) []string {
	field, ok := domain.MapContentField(issue.Where.Field)
	if !ok {
		return nil
	}
	return domain.Advisories(field, text)
}
