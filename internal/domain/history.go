package domain

import "time"

// ChangeEntry is one append-only audit record of an applied mutation.
// Entries reference but do not own pages or issues, and are never updated or
// deleted.
type ChangeEntry struct {
	ID        string    `json:"id"`
	PageID    string    `json:"pageId"`
	PageType  PageType  `json:"pageType"`
	IssueID   string    `json:"issueId,omitempty"`
	FieldName string    `json:"fieldName"`
	Selector  string    `json:"selector,omitempty"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	Diff      string    `json:"diff"`
	AppliedBy string    `json:"appliedBy"`
	AppliedAt time.Time `json:"appliedAt"`
	CanUndo   bool      `json:"canUndo"`
}
