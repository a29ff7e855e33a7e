package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"seoadmin/internal/domain"
	"seoadmin/internal/ports"
)

// OrchestratorDeps wires the stores touched by the fix-application sequence.
type OrchestratorDeps struct {
	Pages   ports.PageRepository
	Issues  ports.IssueRepository
	History ports.HistoryRepository
	Logger  *slog.Logger
}

// Orchestrator applies one confirmed change durably, with an audit trail.
// The page, issue, and history writes are a sequential best-effort series,
// not a single transaction: a failure after the page write leaves the page
// mutated and is surfaced to the caller, never hidden.
type Orchestrator struct {
	pages   ports.PageRepository
	issues  ports.IssueRepository
	history ports.HistoryRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewOrchestrator constructs the fix-application component.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		pages:   deps.Pages,
		issues:  deps.Issues,
		history: deps.History,
		logger:  deps.Logger,
		now:     time.Now,
	}
}

// Apply writes the change to the page, marks the issue APPLIED, and appends a
// history entry. The actor identity is always an explicit parameter, never
// read from ambient state.
func (o *Orchestrator) Apply(ctx context.Context, change domain.Change, actor string) (*domain.ChangeEntry, error) {
	if change.NewValue == "" {
		return nil, domain.NewValidationError("new value must not be empty")
	}
	if actor == "" {
		return nil, domain.NewValidationError("actor identity is required")
	}
	if change.IssueID == "" || change.PageID == "" {
		return nil, domain.NewValidationError("issue id and page id are required")
	}

	issue, err := o.issues.Get(ctx, change.IssueID)
	if err != nil {
		return nil, fmt.Errorf("load issue %s: %w", change.IssueID, err)
	}
	if _, err := issue.Status.Transition(domain.IssueApplied); err != nil {
		return nil, err
	}

	field, supported := domain.MapContentField(change.Field)
	if !supported {
		o.warn("unsupported field, skipping page mutation", "field", change.Field, "issue", change.IssueID)
	}

	if supported {
		if err := o.pages.UpdateField(ctx, change.PageID, field, change.NewValue); err != nil {
			return nil, &domain.PersistenceError{Op: fmt.Sprintf("update page %s", change.Field), Err: err}
		}
	}

	if err := o.issues.UpdateStatus(ctx, change.IssueID, domain.IssueApplied); err != nil {
		return nil, &domain.PersistenceError{Op: "mark issue applied", Err: err}
	}

	// History records the mapped page attribute when one was mutated, the raw
	// field descriptor otherwise.
	fieldName := change.Field
	if supported {
		fieldName = string(field)
	}
	entry := domain.ChangeEntry{
		ID:        uuid.NewString(),
		PageID:    change.PageID,
		PageType:  change.PageType,
		IssueID:   change.IssueID,
		FieldName: fieldName,
		Selector:  change.Selector,
		OldValue:  change.OldValue,
		NewValue:  change.NewValue,
		Diff:      domain.DiffDescription(fieldName, change.OldValue, change.NewValue),
		AppliedBy: actor,
		AppliedAt: o.now(),
		CanUndo:   supported,
	}
	if err := o.history.Append(ctx, &entry); err != nil {
		return nil, &domain.PersistenceError{Op: "append history", Err: err}
	}

	o.info("fix applied", "issue", change.IssueID, "page", change.PageID,
		"field", change.Field, "actor", actor)
	return &entry, nil
}

// Discard moves an open issue to its DISCARDED terminal state.
func (o *Orchestrator) Discard(ctx context.Context, issueID string) error {
	issue, err := o.issues.Get(ctx, issueID)
	if err != nil {
		return fmt.Errorf("load issue %s: %w", issueID, err)
	}

	next, err := issue.Status.Transition(domain.IssueDiscarded)
	if err != nil {
		return err
	}
	if next == issue.Status {
		return nil
	}

	if err := o.issues.UpdateStatus(ctx, issueID, next); err != nil {
		return &domain.PersistenceError{Op: "discard issue", Err: err}
	}
	o.info("issue discarded", "issue", issueID)
	return nil
}

// Undo re-applies a change entry's old value as a new history-producing
// action. Only entries flagged undoable (the page field was actually mutated
// when they were applied) are eligible; history itself stays append-only.
func (o *Orchestrator) Undo(ctx context.Context, entryID, actor string) (*domain.ChangeEntry, error) {
	if actor == "" {
		return nil, domain.NewValidationError("actor identity is required")
	}

	entry, err := o.history.Get(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("load history entry %s: %w", entryID, err)
	}
	if !entry.CanUndo {
		return nil, domain.NewValidationError("entry %s is not undoable", entryID)
	}

	field, supported := domain.MapContentField(entry.FieldName)
	if !supported {
		return nil, domain.NewValidationError("entry %s targets unmapped field %q", entryID, entry.FieldName)
	}

	if err := o.pages.UpdateField(ctx, entry.PageID, field, entry.OldValue); err != nil {
		return nil, &domain.PersistenceError{Op: fmt.Sprintf("revert page %s", entry.FieldName), Err: err}
	}

	revert := domain.ChangeEntry{
		ID:        uuid.NewString(),
		PageID:    entry.PageID,
		PageType:  entry.PageType,
		IssueID:   entry.IssueID,
		FieldName: entry.FieldName,
		Selector:  entry.Selector,
		OldValue:  entry.NewValue,
		NewValue:  entry.OldValue,
		Diff:      domain.RevertDescription(entry.FieldName, entry.NewValue, entry.OldValue),
		AppliedBy: actor,
		AppliedAt: o.now(),
		CanUndo:   false,
	}
	if err := o.history.Append(ctx, &revert); err != nil {
		return nil, &domain.PersistenceError{Op: "append revert history", Err: err}
	}

	o.info("change reverted", "entry", entryID, "page", entry.PageID, "actor", actor)
	return &revert, nil
}

func (o *Orchestrator) info(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Info(msg, args...)
	}
}

func (o *Orchestrator) warn(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Warn(msg, args...)
	}
}
