package usecase

import (
	"context"
	"errors"
	"testing"

	"seoadmin/internal/domain"
)

func testOrchestrator(pages *fakePages, issues *fakeIssues, history *fakeHistory) *Orchestrator {
	return NewOrchestrator(OrchestratorDeps{Pages: pages, Issues: issues, History: history})
}

func TestApplyUpdatesPageIssueAndHistory(t *testing.T) {
	t.Parallel()

	pages := newFakePages(&domain.Page{ID: "p1", Title: "T", Slug: "t", Excerpt: "old excerpt"})
	issues := newFakeIssues(&domain.Issue{ID: "i1", ReportID: "r1", Status: domain.IssueOpen})
	history := &fakeHistory{}
	orch := testOrchestrator(pages, issues, history)

	entry, err := orch.Apply(context.Background(), domain.Change{
		IssueID:  "i1",
		PageID:   "p1",
		PageType: domain.PageTypePost,
		Field:    "meta_description",
		OldValue: "old excerpt",
		NewValue: "A much better meta description for this page.",
	}, "admin")
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if got := pages.pages["p1"].Excerpt; got != "A much better meta description for this page." {
		t.Fatalf("excerpt not updated: %q", got)
	}
	if got := issues.issues["i1"].Status; got != domain.IssueApplied {
		t.Fatalf("issue status = %s, want APPLIED", got)
	}
	if len(history.entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history.entries))
	}
	if entry.FieldName != "excerpt" {
		t.Fatalf("history field = %q, want mapped page attribute", entry.FieldName)
	}
	if !entry.CanUndo {
		t.Fatal("mapped-field apply should be undoable")
	}
	if entry.AppliedBy != "admin" {
		t.Fatalf("appliedBy = %q", entry.AppliedBy)
	}
}

func TestApplyUnsupportedFieldSkipsPageMutation(t *testing.T) {
	t.Parallel()

	pages := newFakePages(&domain.Page{ID: "p1", Title: "T", Slug: "t"})
	issues := newFakeIssues(&domain.Issue{ID: "i1", ReportID: "r1", Status: domain.IssueOpen})
	history := &fakeHistory{}
	orch := testOrchestrator(pages, issues, history)

	entry, err := orch.Apply(context.Background(), domain.Change{
		IssueID:  "i1",
		PageID:   "p1",
		Field:    "robots",
		NewValue: "index, follow",
	}, "admin")
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if len(pages.fieldUpdates) != 0 {
		t.Fatalf("page should not be mutated for unmapped field, got %v", pages.fieldUpdates)
	}
	if issues.issues["i1"].Status != domain.IssueApplied {
		t.Fatal("issue should still be marked APPLIED")
	}
	if len(history.entries) != 1 {
		t.Fatalf("history entry should still be written, got %d", len(history.entries))
	}
	if entry.FieldName != "robots" {
		t.Fatalf("history field = %q, want raw descriptor", entry.FieldName)
	}
	if entry.CanUndo {
		t.Fatal("unmapped-field apply must not be undoable")
	}
}

func TestApplyValidation(t *testing.T) {
	t.Parallel()

	orch := testOrchestrator(newFakePages(), newFakeIssues(), &fakeHistory{})

	if _, err := orch.Apply(context.Background(), domain.Change{IssueID: "i", PageID: "p", Field: "title"}, "admin"); !domain.IsValidation(err) {
		t.Fatalf("empty new value should fail validation, got %v", err)
	}
	if _, err := orch.Apply(context.Background(), domain.Change{IssueID: "i", PageID: "p", Field: "title", NewValue: "x"}, ""); !domain.IsValidation(err) {
		t.Fatalf("missing actor should fail validation, got %v", err)
	}
	if _, err := orch.Apply(context.Background(), domain.Change{Field: "title", NewValue: "x"}, "admin"); !domain.IsValidation(err) {
		t.Fatalf("missing ids should fail validation, got %v", err)
	}
}

func TestApplyDiscardedIssueRejected(t *testing.T) {
	t.Parallel()

	pages := newFakePages(&domain.Page{ID: "p1", Title: "T", Slug: "t"})
	issues := newFakeIssues(&domain.Issue{ID: "i1", Status: domain.IssueDiscarded})
	history := &fakeHistory{}
	orch := testOrchestrator(pages, issues, history)

	_, err := orch.Apply(context.Background(), domain.Change{
		IssueID: "i1", PageID: "p1", Field: "title", NewValue: "New",
	}, "admin")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if len(pages.fieldUpdates) != 0 || len(history.entries) != 0 {
		t.Fatal("no writes may happen for a rejected transition")
	}
}

func TestApplyPageFailureAbortsSequence(t *testing.T) {
	t.Parallel()

	pages := newFakePages(&domain.Page{ID: "p1", Title: "T", Slug: "t"})
	pages.updateFieldErr = errors.New("disk full")
	issues := newFakeIssues(&domain.Issue{ID: "i1", Status: domain.IssueOpen})
	history := &fakeHistory{}
	orch := testOrchestrator(pages, issues, history)

	_, err := orch.Apply(context.Background(), domain.Change{
		IssueID: "i1", PageID: "p1", Field: "title", NewValue: "New",
	}, "admin")
	if err == nil {
		t.Fatal("expected error")
	}
	if issues.issues["i1"].Status != domain.IssueOpen {
		t.Fatal("issue must stay OPEN when the page write fails")
	}
	if len(history.entries) != 0 {
		t.Fatal("no history row may be written when the page write fails")
	}
}

func TestApplyHistoryFailureSurfacedAfterPageWrite(t *testing.T) {
	t.Parallel()

	pages := newFakePages(&domain.Page{ID: "p1", Title: "T", Slug: "t"})
	issues := newFakeIssues(&domain.Issue{ID: "i1", Status: domain.IssueOpen})
	history := &fakeHistory{appendErr: errors.New("locked")}
	orch := testOrchestrator(pages, issues, history)

	_, err := orch.Apply(context.Background(), domain.Change{
		IssueID: "i1", PageID: "p1", Field: "title", NewValue: "New",
	}, "admin")
	if err == nil {
		t.Fatal("history failure must surface")
	}
	// Earlier steps are not rolled back.
	if pages.pages["p1"].Title != "New" {
		t.Fatal("page write should remain applied")
	}
	if issues.issues["i1"].Status != domain.IssueApplied {
		t.Fatal("status write should remain applied")
	}
}

func TestApplyTwiceProducesTwoHistoryRows(t *testing.T) {
	t.Parallel()

	pages := newFakePages(&domain.Page{ID: "p1", Title: "T", Slug: "t"})
	issues := newFakeIssues(&domain.Issue{ID: "i1", Status: domain.IssueOpen})
	history := &fakeHistory{}
	orch := testOrchestrator(pages, issues, history)

	change := domain.Change{IssueID: "i1", PageID: "p1", Field: "title", OldValue: "T", NewValue: "Same Fix"}
	if _, err := orch.Apply(context.Background(), change, "admin"); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if _, err := orch.Apply(context.Background(), change, "admin"); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if len(history.entries) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history.entries))
	}
	if pages.pages["p1"].Title != "Same Fix" {
		t.Fatal("page should hold the applied value")
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	issues := newFakeIssues(&domain.Issue{ID: "i1", Status: domain.IssueOpen})
	orch := testOrchestrator(newFakePages(), issues, &fakeHistory{})

	if err := orch.Discard(context.Background(), "i1"); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if issues.issues["i1"].Status != domain.IssueDiscarded {
		t.Fatal("issue not discarded")
	}

	// Idempotent repeat, no extra status write.
	writes := issues.statusWrites
	if err := orch.Discard(context.Background(), "i1"); err != nil {
		t.Fatalf("repeat discard: %v", err)
	}
	if issues.statusWrites != writes {
		t.Fatal("repeat discard must not write")
	}
}

func TestDiscardAppliedIssueRejected(t *testing.T) {
	t.Parallel()

	issues := newFakeIssues(&domain.Issue{ID: "i1", Status: domain.IssueApplied})
	orch := testOrchestrator(newFakePages(), issues, &fakeHistory{})

	if err := orch.Discard(context.Background(), "i1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestUndoRevertsAndAppends(t *testing.T) {
	t.Parallel()

	pages := newFakePages(&domain.Page{ID: "p1", Title: "Fixed Title", Slug: "t"})
	issues := newFakeIssues(&domain.Issue{ID: "i1", Status: domain.IssueApplied})
	history := &fakeHistory{entries: []domain.ChangeEntry{{
		ID:        "h1",
		PageID:    "p1",
		IssueID:   "i1",
		FieldName: "title",
		OldValue:  "Original Title",
		NewValue:  "Fixed Title",
		CanUndo:   true,
	}}}
	orch := testOrchestrator(pages, issues, history)

	revert, err := orch.Undo(context.Background(), "h1", "admin")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if pages.pages["p1"].Title != "Original Title" {
		t.Fatalf("title not reverted: %q", pages.pages["p1"].Title)
	}
	if len(history.entries) != 2 {
		t.Fatalf("undo must append, not rewrite; got %d entries", len(history.entries))
	}
	if revert.CanUndo {
		t.Fatal("a revert entry is itself not undoable")
	}
	if revert.OldValue != "Fixed Title" || revert.NewValue != "Original Title" {
		t.Fatalf("revert values swapped wrong: %+v", revert)
	}
}

func TestUndoRejectsNonUndoableEntry(t *testing.T) {
	t.Parallel()

	history := &fakeHistory{entries: []domain.ChangeEntry{{
		ID: "h1", PageID: "p1", FieldName: "robots", CanUndo: false,
	}}}
	orch := testOrchestrator(newFakePages(), newFakeIssues(), history)

	if _, err := orch.Undo(context.Background(), "h1", "admin"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
