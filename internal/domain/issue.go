package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Severity ranks how urgently an issue should be addressed.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Valid reports whether the severity is a known level.
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// NormalizeSeverity maps free-form delegate output onto the closed enum,
// falling back to MEDIUM for anything unrecognized.
func NormalizeSeverity(raw string) Severity {
	s := Severity(strings.ToUpper(strings.TrimSpace(raw)))
	if s.Valid() {
		return s
	}
	return SeverityMedium
}

// IssueStatus is the closed lifecycle enum for an issue.
type IssueStatus string

const (
	IssueOpen      IssueStatus = "OPEN"
	IssueApplied   IssueStatus = "APPLIED"
	IssueDiscarded IssueStatus = "DISCARDED"
)

// Valid reports whether the status is a known lifecycle value.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueOpen, IssueApplied, IssueDiscarded:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is allowed. The only
// real transitions are OPEN→APPLIED and OPEN→DISCARDED; re-asserting the
// current state is an idempotent no-op. Terminal states never reopen.
func (s IssueStatus) CanTransition(next IssueStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	return s == IssueOpen
}

// Transition validates and returns the next status.
func (s IssueStatus) Transition(next IssueStatus) (IssueStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

// IssueLocation describes where on the page an issue was found.
type IssueLocation struct {
	Field    string `json:"field"`
	Selector string `json:"selector,omitempty"`
	Example  string `json:"example,omitempty"`
}

// Issue is one identified SEO problem with a proposed textual fix.
// ProposedFix may be edited by the operator prior to apply; Status is mutated
// exactly once by the apply or discard action.
type Issue struct {
	ID           string        `json:"id"`
	ReportID     string        `json:"reportId"`
	Severity     Severity      `json:"severity"`
	Category     string        `json:"category"`
	Title        string        `json:"title"`
	Why          string        `json:"why"`
	Where        IssueLocation `json:"where"`
	CurrentValue string        `json:"currentValue,omitempty"`
	ProposedFix  string        `json:"proposedFix"`
	Status       IssueStatus   `json:"status"`
}

// Recommended length bands surfaced as advisory hints, never enforced.
const (
	titleMinChars = 30
	titleMaxChars = 60
	metaMinChars  = 150
	metaMaxChars  = 160
)

// Advisories returns non-blocking length hints for a proposed value targeting
// the given page field. Apply is never blocked by these.
func Advisories(field PageField, text string) []string {
	n := utf8.RuneCountInString(text)
	var warnings []string
	switch field {
	case FieldTitle:
		if n < titleMinChars || n > titleMaxChars {
			warnings = append(warnings, fmt.Sprintf("title is %d characters, recommended 30-60", n))
		}
	case FieldExcerpt:
		if n < metaMinChars || n > metaMaxChars {
			warnings = append(warnings, fmt.Sprintf("meta description is %d characters, recommended 150-160", n))
		}
	}
	return warnings
}
