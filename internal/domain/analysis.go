package domain

// AnalysisRequest is the payload sent to the external analysis delegate.
type AnalysisRequest struct {
	PageID   string `json:"pageId"`
	PageType string `json:"pageType"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Action   string `json:"action"`
}

// IssueDraft is one issue descriptor as returned by the delegate, before the
// receiving system assigns its own identifier.
type IssueDraft struct {
	Severity     string        `json:"severity"`
	Category     string        `json:"category"`
	Title        string        `json:"title"`
	Why          string        `json:"why"`
	Where        DraftLocation `json:"where"`
	CurrentValue string        `json:"currentValue"`
	ProposedFix  string        `json:"proposedFix"`
}

// DraftLocation mirrors the delegate's location descriptor.
type DraftLocation struct {
	Field    string `json:"field"`
	Selector string `json:"selector,omitempty"`
	Example  string `json:"example,omitempty"`
}

// RegenerateRequest carries issue context for a single replacement-text
// request. The delegate answers with plain text, no JSON envelope.
type RegenerateRequest struct {
	IssueTitle   string
	Why          string
	Category     string
	CurrentValue string
}

// FallbackIssueDrafts is the fixed set substituted when the delegate fails or
// returns unparseable content. Analysis degrades gracefully, never blocking
// the operator.
func FallbackIssueDrafts() []IssueDraft {
	return []IssueDraft{
		{
			Severity:    string(SeverityHigh),
			Category:    "Title",
			Title:       "Title needs manual review",
			Why:         "Automated analysis was unavailable; the page title could not be evaluated.",
			Where:       DraftLocation{Field: "title"},
			ProposedFix: "",
		},
		{
			Severity:    string(SeverityMedium),
			Category:    "Meta Description",
			Title:       "Meta description needs manual review",
			Why:         "Automated analysis was unavailable; the meta description could not be evaluated.",
			Where:       DraftLocation{Field: "meta_description"},
			ProposedFix: "",
		},
	}
}
