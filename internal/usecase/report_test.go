package usecase

import (
	"context"
	"errors"
	"testing"

	"seoadmin/internal/domain"
)

func TestSummarizeIssues(t *testing.T) {
	t.Parallel()

	issues := []domain.Issue{
		{ID: "a", Severity: domain.SeverityHigh, Status: domain.IssueOpen},
		{ID: "b", Severity: domain.SeverityHigh, Status: domain.IssueApplied},
		{ID: "c", Severity: domain.SeverityMedium, Status: domain.IssueOpen},
		{ID: "d", Severity: domain.SeverityLow, Status: domain.IssueDiscarded},
		{ID: "e", Severity: domain.SeverityHigh, Status: domain.IssueOpen},
	}

	s := SummarizeIssues("r1", issues)
	if s.Open.High != 2 || s.Open.Medium != 1 || s.Open.Low != 0 {
		t.Fatalf("open counts: %+v", s.Open)
	}
	if len(s.Resolved) != 1 || s.Resolved[0].ID != "b" {
		t.Fatalf("resolved: %+v", s.Resolved)
	}
	// Discarded issues appear in neither bucket.
	for _, is := range s.OpenBy[domain.SeverityLow] {
		if is.ID == "d" {
			t.Fatal("discarded issue leaked into open set")
		}
	}
	// Stable insertion order within a severity group.
	high := s.OpenBy[domain.SeverityHigh]
	if len(high) != 2 || high[0].ID != "a" || high[1].ID != "e" {
		t.Fatalf("high group order: %+v", high)
	}
}

func TestSummarizeEmptyReport(t *testing.T) {
	t.Parallel()

	s := SummarizeIssues("r1", nil)
	if s.Open.Total() != 0 || len(s.Resolved) != 0 {
		t.Fatalf("empty summary not empty: %+v", s)
	}
}

func TestReportingSummarizeLatest(t *testing.T) {
	t.Parallel()

	reports := newFakeReports(
		&domain.Report{ID: "r1", PageID: "p1"},
		&domain.Report{ID: "r2", PageID: "p1"},
	)
	issues := newFakeIssues(
		&domain.Issue{ID: "i1", ReportID: "r1", Severity: domain.SeverityHigh, Status: domain.IssueOpen},
		&domain.Issue{ID: "i2", ReportID: "r2", Severity: domain.SeverityLow, Status: domain.IssueOpen},
	)
	reporting := NewReporting(reports, issues)

	s, err := reporting.SummarizeLatest(context.Background(), "p1")
	if err != nil {
		t.Fatalf("SummarizeLatest: %v", err)
	}
	if s.ReportID != "r2" {
		t.Fatalf("latest report = %s, want r2", s.ReportID)
	}
	if s.Open.Low != 1 || s.Open.High != 0 {
		t.Fatalf("older report's issues leaked in: %+v", s.Open)
	}
}

func TestReportingUnknownReport(t *testing.T) {
	t.Parallel()

	reporting := NewReporting(newFakeReports(), newFakeIssues())
	if _, err := reporting.Summarize(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
