package domain

import "time"

// SeverityCount holds per-severity totals.
type SeverityCount struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Add increments the bucket for the given severity.
func (c *SeverityCount) Add(s Severity) {
	switch s {
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	}
}

// Total returns the sum over all buckets.
func (c SeverityCount) Total() int { return c.High + c.Medium + c.Low }

// Report is the immutable result of one analysis run against one page. A
// newer report for the same page supersedes it; nothing is mutated in place.
type Report struct {
	ID              string        `json:"id"`
	PageID          string        `json:"pageId"`
	PageType        PageType      `json:"pageType"`
	URL             string        `json:"url"`
	Title           string        `json:"title"`
	ContentSnapshot string        `json:"contentSnapshot"`
	GeneratedAt     time.Time     `json:"generatedAt"`
	Summary         SeverityCount `json:"summary"`
}

// CountBySeverity tallies issues per severity regardless of status, used for
// the summary snapshot recorded at generation time.
func CountBySeverity(issues []Issue) SeverityCount {
	var c SeverityCount
	for _, issue := range issues {
		c.Add(issue.Severity)
	}
	return c
}
